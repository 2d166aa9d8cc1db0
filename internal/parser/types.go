package parser

import (
	"github.com/malphas-lang/humanabi/internal/ast"
	"github.com/malphas-lang/humanabi/internal/lexer"
)

// parseType parses a type expression: an elementary type, a struct name or a
// tuple, followed by any number of array suffixes. The rightmost suffix is
// the outermost array.
func (p *Parser) parseType() (ast.NodeIndex, error) {
	var (
		typ ast.NodeIndex
		err error
	)

	switch tag := p.curTag(); {
	case tag == lexer.TUPLE || tag == lexer.LPAREN:
		typ, err = p.parseTupleType()
	case tag.IsElementaryType():
		typ, err = p.addNode(ast.Node{Tag: ast.ElementaryType, MainToken: p.nextToken()})
	case tag == lexer.IDENT:
		typ, err = p.addNode(ast.Node{Tag: ast.Identifier, MainToken: p.nextToken()})
	case tag == lexer.UNKNOWN:
		return 0, p.unexpected("")
	default:
		return 0, p.fail(ExpectedType, p.tokIdx, "expected a type, found %s", p.describeCur())
	}
	if err != nil {
		return 0, err
	}

	for p.curTag() == lexer.LBRACKET {
		lbracket := p.nextToken()
		size, _ := p.eat(lexer.NUMBER)
		if _, err := p.expect(lexer.RBRACKET); err != nil {
			return 0, err
		}
		typ, err = p.addNode(ast.Node{
			Tag:       ast.ArrayType,
			MainToken: lbracket,
			Data:      ast.Array{Elem: typ, Size: size},
		})
		if err != nil {
			return 0, err
		}
	}
	return typ, nil
}

// parseTupleType parses "tuple? ( components )". Components follow the error
// parameter rules: a type and an optional name.
func (p *Parser) parseTupleType() (ast.NodeIndex, error) {
	main := p.tokIdx
	p.eat(lexer.TUPLE)

	span, err := p.parseParamList(ast.ErrorVarDecl)
	if err != nil {
		return 0, err
	}

	if span.IsMulti() {
		return p.addNode(ast.Node{Tag: ast.TupleType, MainToken: main, Data: ast.Multi{Nodes: span.Range()}})
	}
	return p.addNode(ast.Node{Tag: ast.TupleTypeOne, MainToken: main, Data: ast.One{Node: span.Node()}})
}
