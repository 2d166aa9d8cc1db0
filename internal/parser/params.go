package parser

import (
	"github.com/malphas-lang/humanabi/internal/ast"
	"github.com/malphas-lang/humanabi/internal/lexer"
)

// parseParamList parses "( params )" and returns the list shape. tag selects
// the declaration kind of every element.
func (p *Parser) parseParamList(tag ast.Tag) (Span, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return Span{}, err
	}
	span, err := p.parseDelimited(delimitedConfig{Closing: lexer.RPAREN}, func() (ast.NodeIndex, error) {
		return p.parseParam(tag)
	})
	if err != nil {
		return Span{}, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return Span{}, err
	}
	return span, nil
}

// parseReturns parses "( params )" after 'returns'. The list may not be
// empty and is always committed to extra data.
func (p *Parser) parseReturns() (ast.Range, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return ast.Range{}, err
	}
	span, err := p.parseDelimited(delimitedConfig{
		Closing:      lexer.RPAREN,
		RejectEmpty:  true,
		EmptyKind:    EmptyReturnParams,
		EmptyMessage: "'returns' requires at least one parameter",
	}, func() (ast.NodeIndex, error) {
		return p.parseParam(ast.VarDecl)
	})
	if err != nil {
		return ast.Range{}, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return ast.Range{}, err
	}
	return span.toRange(p.tree), nil
}

// parseParam parses "type modifier? name?". Any modifier is accepted here;
// whether it is legal for the declaration kind is decided by the binder.
func (p *Parser) parseParam(tag ast.Tag) (ast.NodeIndex, error) {
	first := p.tokIdx
	typ, err := p.parseType()
	if err != nil {
		return 0, err
	}

	var v ast.Var
	v.Type = typ
	if p.curTag().IsParamModifier() {
		v.Modifier = p.nextToken()
	}
	if name, ok := p.eat(lexer.IDENT); ok {
		v.Name = name
	}
	return p.addNode(ast.Node{Tag: tag, MainToken: first, Data: v})
}

// parseStructField parses "type modifier? name ;".
func (p *Parser) parseStructField() (ast.NodeIndex, error) {
	first := p.tokIdx
	typ, err := p.parseType()
	if err != nil {
		return 0, err
	}

	var v ast.Var
	v.Type = typ
	if p.curTag().IsParamModifier() {
		v.Modifier = p.nextToken()
	}
	if v.Name, err = p.expect(lexer.IDENT); err != nil {
		return 0, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return 0, err
	}
	return p.addNode(ast.Node{Tag: ast.StructField, MainToken: first, Data: v})
}
