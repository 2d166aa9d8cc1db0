package lexer

import (
	"strconv"

	"github.com/malphas-lang/humanabi/internal/diag"
)

type LexerErrorKind int

const (
	ErrIllegalByte LexerErrorKind = iota
	ErrNulByte
)

type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Span    Span
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrIllegalByte:
		return diag.CodeLexerIllegalByte
	case ErrNulByte:
		return diag.CodeLexerNulByte
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
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
}

type state uint8

const (
	stateStart state = iota
	stateIdentifier
	stateNumber
	stateInvalid
)

// Lexer scans a source buffer into tokens. The only state carried between
// calls to Next is the cursor.
type Lexer struct {
	src      string
	pos      int
	filename string

	Errors []LexerError
}

// New creates a new lexer for the given input
func New(src string) *Lexer {
	return &Lexer{src: src}
}

// SetFilename attributes error spans to the given file.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// Tokenize scans the whole input and returns every token up to and
// including the EOF token.
func Tokenize(src string) []Token {
	l := New(src)
	tokens := make([]Token, 0, len(src)/4+1)
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

// atEOF reports whether the cursor sits at the true end of the buffer. A
// single trailing NUL counts as the end, so NUL-terminated buffers can be
// passed through unchanged.
func (l *Lexer) atEOF() bool {
	if l.pos >= len(l.src) {
		return true
	}
	return l.pos == len(l.src)-1 && l.src[l.pos] == 0
}

// Next returns the next token from the input. Once EOF has been returned,
// further calls keep returning EOF.
func (l *Lexer) Next() Token {
	tok := Token{Type: EOF, Start: uint32(l.pos)}
	st := stateStart

	for {
		switch st {
		case stateStart:
			if l.atEOF() {
				tok.Start = uint32(l.pos)
				tok.End = tok.Start
				return tok
			}

			c := l.src[l.pos]
			switch {
			case c == ' ' || c == '\t' || c == '\n' || c == '\r':
				l.pos++
				tok.Start = uint32(l.pos)
				continue
			case c == '(':
				return l.single(&tok, LPAREN)
			case c == ')':
				return l.single(&tok, RPAREN)
			case c == '{':
				return l.single(&tok, LBRACE)
			case c == '}':
				return l.single(&tok, RBRACE)
			case c == '[':
				return l.single(&tok, LBRACKET)
			case c == ']':
				return l.single(&tok, RBRACKET)
			case c == ',':
				return l.single(&tok, COMMA)
			case c == ';':
				return l.single(&tok, SEMICOLON)
			case isIdentStart(c):
				st = stateIdentifier
			case isDigit(c):
				st = stateNumber
			default:
				st = stateInvalid
			}
			l.pos++

		case stateIdentifier:
			if l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
				l.pos++
				continue
			}
			tok.End = uint32(l.pos)
			tok.Type = LookupIdent(l.src[tok.Start:tok.End])
			return tok

		case stateNumber:
			if l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
				continue
			}
			tok.End = uint32(l.pos)
			tok.Type = NUMBER
			return tok

		case stateInvalid:
			if !l.atEOF() && l.src[l.pos] != '\n' {
				l.pos++
				continue
			}
			tok.End = uint32(l.pos)
			tok.Type = UNKNOWN
			l.reportInvalid(tok)
			return tok
		}
	}
}

func (l *Lexer) single(tok *Token, typ TokenType) Token {
	l.pos++
	tok.Type = typ
	tok.End = uint32(l.pos)
	return *tok
}

func (l *Lexer) reportInvalid(tok Token) {
	first := l.src[tok.Start]
	kind := ErrIllegalByte
	msg := "illegal character " + strconv.QuoteRune(rune(first))
	if first == 0 {
		kind = ErrNulByte
		msg = "unexpected NUL byte before end of input"
	}
	span := Locate(l.src, tok)
	span.Filename = l.filename
	l.Errors = append(l.Errors, LexerError{Kind: kind, Message: msg, Span: span})
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Locate computes the line and column of a token. Lines and columns are
// 1-based and columns count bytes.
func Locate(src string, tok Token) Span {
	return LocateRange(src, int(tok.Start), int(tok.End))
}

// LocateRange computes the span of the byte range [start, end).
func LocateRange(src string, start, end int) Span {
	line, col := 1, 1
	for i := 0; i < start && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Span{Line: line, Column: col, Start: start, End: end}
}
