package lexer

import "strconv"

// TokenType represents the type of a token
type TokenType uint8

// Span represents the source location of a token or node
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // byte offset in the source
	End      int    // exclusive end offset
}

// Token represents a lexical token. Offsets index bytes of the source the
// token was scanned from; the lexeme is recovered with Lexeme.
type Token struct {
	Type  TokenType
	Start uint32
	End   uint32
}

// Lexeme returns the exact source bytes covered by the token.
func (t Token) Lexeme(src string) string {
	return src[t.Start:t.End]
}

// Token type constants
const (
	// Special tokens
	EOF TokenType = iota
	UNKNOWN

	// Identifiers and literals
	IDENT  // foo, Bar, _x, $y
	NUMBER // 32 (array sizes only)

	// Delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	SEMICOLON

	// Declaration keywords
	FUNCTION
	EVENT
	ERROR
	CONSTRUCTOR
	FALLBACK
	RECEIVE
	STRUCT

	// Modifier keywords
	PUBLIC
	EXTERNAL
	INTERNAL
	PRIVATE
	VIEW
	PURE
	PAYABLE
	VIRTUAL
	OVERRIDE
	INDEXED
	CALLDATA
	MEMORY
	STORAGE
	RETURNS
	ANONYMOUS

	// Elementary type keywords
	ADDRESS
	BOOL
	STRING
	BYTES
	UINT
	INT
	TUPLE

	// BYTES1 through BYTES32, UINT8 through UINT256 and INT8 through INT256
	// are laid out contiguously; see the derived constants below.
	BYTES1
)

const (
	BYTES32 = BYTES1 + 31
	UINT8   = BYTES32 + 1
	UINT256 = UINT8 + 31
	INT8    = UINT256 + 1
	INT256  = INT8 + 31

	tokenTypeCount = int(INT256) + 1
)

var keywords = map[string]TokenType{
	"function":    FUNCTION,
	"event":       EVENT,
	"error":       ERROR,
	"constructor": CONSTRUCTOR,
	"fallback":    FALLBACK,
	"receive":     RECEIVE,
	"struct":      STRUCT,
	"public":      PUBLIC,
	"external":    EXTERNAL,
	"internal":    INTERNAL,
	"private":     PRIVATE,
	"view":        VIEW,
	"pure":        PURE,
	"payable":     PAYABLE,
	"virtual":     VIRTUAL,
	"override":    OVERRIDE,
	"indexed":     INDEXED,
	"calldata":    CALLDATA,
	"memory":      MEMORY,
	"storage":     STORAGE,
	"returns":     RETURNS,
	"anonymous":   ANONYMOUS,
}

// elementaryTypes maps every elementary type keyword to its token type. The
// sized families are generated once at package initialisation and never
// mutated afterwards.
var elementaryTypes = func() map[string]TokenType {
	m := map[string]TokenType{
		"address": ADDRESS,
		"bool":    BOOL,
		"string":  STRING,
		"bytes":   BYTES,
		"uint":    UINT,
		"int":     INT,
		"tuple":   TUPLE,
	}
	for i := 0; i < 32; i++ {
		m["bytes"+strconv.Itoa(i+1)] = BYTES1 + TokenType(i)
		m["uint"+strconv.Itoa((i+1)*8)] = UINT8 + TokenType(i)
		m["int"+strconv.Itoa((i+1)*8)] = INT8 + TokenType(i)
	}
	return m
}()

// lexemes is the reverse table: token type to canonical source text.
var lexemes = func() [tokenTypeCount]string {
	var t [tokenTypeCount]string
	t[EOF] = "<eof>"
	t[UNKNOWN] = "<unknown>"
	t[IDENT] = "<identifier>"
	t[NUMBER] = "<number>"
	t[LPAREN] = "("
	t[RPAREN] = ")"
	t[LBRACE] = "{"
	t[RBRACE] = "}"
	t[LBRACKET] = "["
	t[RBRACKET] = "]"
	t[COMMA] = ","
	t[SEMICOLON] = ";"
	for word, typ := range keywords {
		t[typ] = word
	}
	for word, typ := range elementaryTypes {
		t[typ] = word
	}
	return t
}()

// LookupIdent classifies a fully scanned identifier-shaped run. Keywords are
// consulted first, then elementary types; anything else is an identifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if tok, ok := elementaryTypes[ident]; ok {
		return tok
	}
	return IDENT
}

// String returns the canonical lexeme of the token type, or a bracketed
// category name for types without fixed text.
func (t TokenType) String() string {
	if int(t) < tokenTypeCount {
		return lexemes[t]
	}
	return "TokenType(" + strconv.Itoa(int(t)) + ")"
}

// HasLexeme reports whether tokens of this type always spell the same text.
func (t TokenType) HasLexeme() bool {
	switch t {
	case EOF, UNKNOWN, IDENT, NUMBER:
		return false
	}
	return int(t) < tokenTypeCount
}

// IsElementaryType reports whether t is one of the elementary type keywords.
func (t TokenType) IsElementaryType() bool {
	return (t >= ADDRESS && t <= TUPLE) || (t >= BYTES1 && t <= INT256)
}

// CanonicalType returns the type name handed to the type resolver for an
// elementary type keyword. The unsized integer aliases resolve to their
// 256-bit forms.
func (t TokenType) CanonicalType() string {
	switch t {
	case UINT:
		return "uint256"
	case INT:
		return "int256"
	}
	return t.String()
}

// IsVisibility reports whether t is a visibility specifier.
func (t TokenType) IsVisibility() bool {
	switch t {
	case PUBLIC, EXTERNAL, INTERNAL, PRIVATE:
		return true
	}
	return false
}

// IsMutability reports whether t is a state mutability specifier.
func (t TokenType) IsMutability() bool {
	switch t {
	case VIEW, PURE, PAYABLE:
		return true
	}
	return false
}

// IsSpecifier reports whether t may appear in a specifier list.
func (t TokenType) IsSpecifier() bool {
	return t.IsVisibility() || t.IsMutability() || t == VIRTUAL || t == OVERRIDE
}

// IsParamModifier reports whether t may follow a parameter type
// (a data location or the indexed marker).
func (t TokenType) IsParamModifier() bool {
	switch t {
	case CALLDATA, MEMORY, STORAGE, INDEXED:
		return true
	}
	return false
}

// IsDataLocation reports whether t is calldata, memory or storage.
func (t TokenType) IsDataLocation() bool {
	switch t {
	case CALLDATA, MEMORY, STORAGE:
		return true
	}
	return false
}
