package diag

import (
	"errors"
	"fmt"
)

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer  Stage = "lexer"
	StageParser Stage = "parser"
	StageBinder Stage = "binder"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// LabeledSpan represents a span with an optional label.
type LabeledSpan struct {
	Span  Span
	Label string // Optional label (e.g., "struct `Foo` refers back to itself here")
	Style string // "primary" or "secondary" - primary spans are emphasized
}

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexerIllegalByte Code = "LEXER_ILLEGAL_BYTE"
	CodeLexerNulByte     Code = "LEXER_NUL_BYTE"

	// Parser errors
	CodeParseUnexpectedToken     Code = "PARSE_UNEXPECTED_TOKEN"
	CodeParseExpectedType        Code = "PARSE_EXPECTED_TYPE"
	CodeParseExpectedComma       Code = "PARSE_EXPECTED_COMMA_AFTER_PARAM"
	CodeParseTrailingComma       Code = "PARSE_TRAILING_COMMA"
	CodeParseEmptyReturnParams   Code = "PARSE_EMPTY_RETURN_PARAMS"
	CodeParseDuplicateVisibility Code = "PARSE_DUPLICATE_VISIBILITY"
	CodeParseDuplicateMutability Code = "PARSE_DUPLICATE_MUTABILITY"
	CodeParseInvalidToken        Code = "PARSE_INVALID_TOKEN"
	CodeParseCapacityExceeded    Code = "PARSE_CAPACITY_EXCEEDED"

	// Binder errors
	CodeBindUnexpectedToken       Code = "BIND_UNEXPECTED_TOKEN"
	CodeBindInvalidDataLocation   Code = "BIND_INVALID_DATA_LOCATION"
	CodeBindInvalidType           Code = "BIND_INVALID_TYPE"
	CodeBindUnexpectedMutability  Code = "BIND_UNEXPECTED_MUTABILITY"
	CodeBindUnexpectedVisibility  Code = "BIND_UNEXPECTED_VISIBILITY"
	CodeBindConflictingVisibility Code = "BIND_CONFLICTING_VISIBILITY"
	CodeBindMissingField          Code = "BIND_MISSING_FIELD"
	CodeBindStructCycle           Code = "BIND_STRUCT_CYCLE"
	CodeBindDuplicateStruct       Code = "BIND_DUPLICATE_STRUCT"
	CodeBindInvalidFallbackParams Code = "BIND_INVALID_FALLBACK_PARAMS"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span // Primary span
	// LabeledSpans allows multiple spans with labels. The first span is
	// treated as primary, others as secondary.
	LabeledSpans []LabeledSpan
	Notes        []string // Additional notes to display
	Help         string   // Help text
}

// Error lets a diagnostic travel through error returns.
func (d Diagnostic) Error() string {
	if d.Span.IsValid() {
		return fmt.Sprintf("%s: %s[%s]: %s", d.Span, d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s[%s]: %s", d.Severity, d.Code, d.Message)
}

// WithLabeledSpan adds a labeled span to the diagnostic.
func (d Diagnostic) WithLabeledSpan(span Span, label string, style string) Diagnostic {
	if style == "" {
		style = "primary"
	}
	d.LabeledSpans = append(d.LabeledSpans, LabeledSpan{
		Span:  span,
		Label: label,
		Style: style,
	})
	return d
}

// WithPrimarySpan adds a primary labeled span.
func (d Diagnostic) WithPrimarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "primary")
}

// WithSecondarySpan adds a secondary labeled span.
func (d Diagnostic) WithSecondarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "secondary")
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// Diagnoser is implemented by every error the pipeline returns.
type Diagnoser interface {
	error
	ToDiagnostic() Diagnostic
}

// From extracts the diagnostic carried by err, if any error in its chain
// implements Diagnoser.
func From(err error) (Diagnostic, bool) {
	var d Diagnoser
	if errors.As(err, &d) {
		return d.ToDiagnostic(), true
	}
	return Diagnostic{}, false
}
