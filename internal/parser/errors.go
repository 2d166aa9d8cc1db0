package parser

import (
	"errors"
	"fmt"

	"github.com/malphas-lang/humanabi/internal/ast"
	"github.com/malphas-lang/humanabi/internal/diag"
	"github.com/malphas-lang/humanabi/internal/lexer"
)

var (
	// ErrParsing is matched by every error the parser returns.
	ErrParsing = errors.New("parse error")
	// ErrCapacity is matched by errors caused by the node or token budget.
	// Such failures can be retried with a larger budget.
	ErrCapacity = errors.New("parser capacity exceeded")
)

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	UnexpectedToken ErrorKind = iota
	ExpectedType
	ExpectedCommaAfterParam
	TrailingComma
	EmptyReturnParams
	DuplicateVisibility
	DuplicateMutability
	InvalidToken
	CapacityExceeded
)

var errorKindNames = [...]string{
	UnexpectedToken:         "UnexpectedToken",
	ExpectedType:            "ExpectedType",
	ExpectedCommaAfterParam: "ExpectedCommaAfterParam",
	TrailingComma:           "TrailingComma",
	EmptyReturnParams:       "EmptyReturnParams",
	DuplicateVisibility:     "DuplicateVisibility",
	DuplicateMutability:     "DuplicateMutability",
	InvalidToken:            "InvalidToken",
	CapacityExceeded:        "CapacityExceeded",
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
		return diag.CodeParseUnexpectedToken
	case ExpectedType:
		return diag.CodeParseExpectedType
	case ExpectedCommaAfterParam:
		return diag.CodeParseExpectedComma
	case TrailingComma:
		return diag.CodeParseTrailingComma
	case EmptyReturnParams:
		return diag.CodeParseEmptyReturnParams
	case DuplicateVisibility:
		return diag.CodeParseDuplicateVisibility
	case DuplicateMutability:
		return diag.CodeParseDuplicateMutability
	case InvalidToken:
		return diag.CodeParseInvalidToken
	case CapacityExceeded:
		return diag.CodeParseCapacityExceeded
	default:
		return diag.Code("PARSE_UNKNOWN_ERROR")
	}
}

// Error is the single error type returned by the parser. The first error
// aborts the parse.
type Error struct {
	Kind    ErrorKind
	Message string
	// Token is the index of the offending token; Span locates it in the
	// source.
	Token ast.TokenIndex
	Span  lexer.Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Span.Line, e.Span.Column, e.Message)
}

// Is reports whether target is one of the parser's error categories.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrParsing:
		return true
	case ErrCapacity:
		return e.Kind == CapacityExceeded
	}
	return false
}

// Offset returns the byte offset of the offending token.
func (e *Error) Offset() int { return e.Span.Start }

// ToDiagnostic converts the error into a shared diagnostic structure.
func (e *Error) ToDiagnostic() diag.Diagnostic {
	d := diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
	switch e.Kind {
	case TrailingComma:
		d = d.WithHelp("remove the trailing comma")
	case EmptyReturnParams:
		d = d.WithHelp("omit 'returns' entirely for a function without outputs")
	case CapacityExceeded:
		d = d.WithHelp("raise the parser node or token limit")
	}
	return d
}

// fail builds an error of the given kind located at token idx.
func (p *Parser) fail(kind ErrorKind, idx ast.TokenIndex, format string, args ...any) *Error {
	span := lexer.Locate(p.src, p.tokens[idx])
	span.Filename = p.filename
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Token:   idx,
		Span:    span,
	}
}

// unexpected reports the current token as out of place. Bytes the lexer
// could not classify are reported as InvalidToken instead.
func (p *Parser) unexpected(expected string) *Error {
	if p.curTag() == lexer.UNKNOWN {
		return p.fail(InvalidToken, p.tokIdx, "invalid token %q", p.curText())
	}
	return p.fail(UnexpectedToken, p.tokIdx, "expected %s, found %s", expected, p.describeCur())
}

func (p *Parser) capacityExceeded(what string, limit int) *Error {
	return p.fail(CapacityExceeded, p.tokIdx, "%s limit of %d exceeded", what, limit)
}
