package parser

import (
	"strconv"

	"github.com/malphas-lang/humanabi/internal/ast"
	"github.com/malphas-lang/humanabi/internal/lexer"
)

func (p *Parser) curTag() lexer.TokenType {
	return p.tokens[p.tokIdx].Type
}

func (p *Parser) curText() string {
	return p.tokens[p.tokIdx].Lexeme(p.src)
}

// describeCur renders the current token for error messages.
func (p *Parser) describeCur() string {
	switch tag := p.curTag(); tag {
	case lexer.EOF:
		return "end of input"
	case lexer.IDENT, lexer.NUMBER, lexer.UNKNOWN:
		return strconv.Quote(p.curText())
	default:
		return "'" + tag.String() + "'"
	}
}

// nextToken advances past the current token. The cursor never moves beyond
// the trailing EOF token.
func (p *Parser) nextToken() ast.TokenIndex {
	idx := p.tokIdx
	if p.curTag() != lexer.EOF {
		p.tokIdx++
	}
	return idx
}

// eat consumes the current token when it has the given type.
func (p *Parser) eat(tt lexer.TokenType) (ast.TokenIndex, bool) {
	if p.curTag() != tt {
		return 0, false
	}
	return p.nextToken(), true
}

// expect consumes a token of the given type or fails with UnexpectedToken.
func (p *Parser) expect(tt lexer.TokenType) (ast.TokenIndex, error) {
	if idx, ok := p.eat(tt); ok {
		return idx, nil
	}
	if !tt.HasLexeme() {
		return 0, p.unexpected(tt.String())
	}
	return 0, p.unexpected("'" + tt.String() + "'")
}
