package binder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/malphas-lang/humanabi/internal/ast"
	"github.com/malphas-lang/humanabi/internal/diag"
	"github.com/malphas-lang/humanabi/internal/lexer"
)

// ErrBinding is matched by every error the binder returns.
var ErrBinding = errors.New("bind error")

// ErrorKind classifies a binding failure.
type ErrorKind int

const (
	UnexpectedToken ErrorKind = iota
	InvalidDataLocation
	InvalidType
	UnexpectedMutability
	UnexpectedVisibility
	ConflictingVisibility
	MissingField
	StructCycle
	DuplicateStruct
	InvalidFallbackParams
)

var errorKindNames = [...]string{
	UnexpectedToken:       "UnexpectedToken",
	InvalidDataLocation:   "InvalidDataLocation",
	InvalidType:           "InvalidType",
	UnexpectedMutability:  "UnexpectedMutability",
	UnexpectedVisibility:  "UnexpectedVisibility",
	ConflictingVisibility: "ConflictingVisibility",
	MissingField:          "MissingField",
	StructCycle:           "StructCycle",
	DuplicateStruct:       "DuplicateStruct",
	InvalidFallbackParams: "InvalidFallbackParams",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) diagnosticCode() diag.Code {
	switch k {
	case UnexpectedToken:
		return diag.CodeBindUnexpectedToken
	case InvalidDataLocation:
		return diag.CodeBindInvalidDataLocation
	case InvalidType:
		return diag.CodeBindInvalidType
	case UnexpectedMutability:
		return diag.CodeBindUnexpectedMutability
	case UnexpectedVisibility:
		return diag.CodeBindUnexpectedVisibility
	case ConflictingVisibility:
		return diag.CodeBindConflictingVisibility
	case MissingField:
		return diag.CodeBindMissingField
	case StructCycle:
		return diag.CodeBindStructCycle
	case DuplicateStruct:
		return diag.CodeBindDuplicateStruct
	case InvalidFallbackParams:
		return diag.CodeBindInvalidFallbackParams
	default:
		return diag.Code("BIND_UNKNOWN_ERROR")
	}
}

// Error is returned for semantically invalid declarations.
type Error struct {
	Kind    ErrorKind
	Message string
	Token   ast.TokenIndex
	Span    lexer.Span
	// Related points at a second location, e.g. the earlier declaration of
	// a duplicate struct.
	Related *lexer.Span
	// Cycle lists the struct names of a StructCycle, first name repeated
	// at the end.
	Cycle []string
	// Err is the resolver failure behind an InvalidType.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Span.Line, e.Span.Column, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is ErrBinding.
func (e *Error) Is(target error) bool { return target == ErrBinding }

// Offset returns the byte offset of the offending token.
func (e *Error) Offset() int { return e.Span.Start }

func toDiagSpan(span lexer.Span) diag.Span {
	return diag.Span{
		Filename: span.Filename,
		Line:     span.Line,
		Column:   span.Column,
		Start:    span.Start,
		End:      span.End,
	}
}

// ToDiagnostic converts the error into a shared diagnostic structure.
func (e *Error) ToDiagnostic() diag.Diagnostic {
	d := diag.Diagnostic{
		Stage:    diag.StageBinder,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span:     toDiagSpan(e.Span),
	}
	if d.Span.IsValid() {
		d = d.WithPrimarySpan(d.Span, "")
	}
	if e.Related != nil {
		d = d.WithSecondarySpan(toDiagSpan(*e.Related), "first declared here")
	}
	if len(e.Cycle) > 0 {
		d = d.WithNote("cycle: " + strings.Join(e.Cycle, " -> "))
	}
	if e.Err != nil {
		d = d.WithNote(e.Err.Error())
	}
	switch e.Kind {
	case InvalidDataLocation:
		d = d.WithHelp("data locations are only allowed on string, bytes, array and tuple parameters of functions")
	case MissingField:
		d = d.WithHelp("declare at least one field")
	}
	return d
}

func (b *Binder) fail(kind ErrorKind, tok ast.TokenIndex, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Token:   tok,
		Span:    b.span(tok),
	}
}

func (b *Binder) span(tok ast.TokenIndex) lexer.Span {
	span := b.tree.TokenSpan(tok)
	span.Filename = b.filename
	return span
}
