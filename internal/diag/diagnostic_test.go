package diag_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/humanabi/internal/diag"
	"github.com/malphas-lang/humanabi/internal/lexer"
)

func TestFromLexerError(t *testing.T) {
	err := lexer.LexerError{
		Kind:    lexer.ErrIllegalByte,
		Message: "illegal character '#'",
		Span: lexer.Span{
			Line:   1,
			Column: 3,
			Start:  2,
			End:    6,
		},
	}

	diagnostic := err.ToDiagnostic()

	assert.Equal(t, diag.StageLexer, diagnostic.Stage)
	assert.Equal(t, diag.CodeLexerIllegalByte, diagnostic.Code)
	assert.Equal(t, err.Message, diagnostic.Message)
	assert.Equal(t, diag.SeverityError, diagnostic.Severity)
	assert.Equal(t, diag.Span{Line: 1, Column: 3, Start: 2, End: 6}, diagnostic.Span)
}

func TestDiagnosticError(t *testing.T) {
	d := diag.Diagnostic{
		Severity: diag.SeverityError,
		Code:     diag.CodeParseTrailingComma,
		Message:  "trailing comma",
		Span:     diag.Span{Filename: "a.abi", Line: 2, Column: 7},
	}
	assert.Equal(t, "a.abi:2:7: error[PARSE_TRAILING_COMMA]: trailing comma", d.Error())

	d.Span = diag.Span{}
	assert.Equal(t, "error[PARSE_TRAILING_COMMA]: trailing comma", d.Error())
}

func TestFormatterRendersSnippet(t *testing.T) {
	src := "function f(address a,)\nevent E()"
	d := diag.Diagnostic{
		Severity: diag.SeverityError,
		Code:     diag.CodeParseTrailingComma,
		Message:  "trailing comma before ')'",
		Span:     diag.Span{Filename: "x.abi", Line: 1, Column: 21, Start: 20, End: 21},
	}.WithHelp("remove the comma")

	var out bytes.Buffer
	f := diag.NewFormatter(&out)
	f.AddSource("x.abi", src)
	f.Format(d)

	text := out.String()
	require.Contains(t, text, "error[PARSE_TRAILING_COMMA]: trailing comma before ')'")
	assert.Contains(t, text, "--> x.abi:1:21")
	assert.Contains(t, text, "function f(address a,)")
	assert.Contains(t, text, "^")
	assert.Contains(t, text, "help: remove the comma")
}

func TestFormatterFallsBackWithoutSource(t *testing.T) {
	var out bytes.Buffer
	f := diag.NewFormatter(&out)
	f.Format(diag.Diagnostic{
		Severity: diag.SeverityError,
		Code:     diag.CodeBindStructCycle,
		Message:  "struct cycle",
		Span:     diag.Span{Line: 1, Column: 1},
	}.WithNote("Foo -> Foo"))

	text := out.String()
	assert.Contains(t, text, "error[BIND_STRUCT_CYCLE]: struct cycle")
	assert.Contains(t, text, "--> 1:1")
	assert.Contains(t, text, "note: Foo -> Foo")
}
