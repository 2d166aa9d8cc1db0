package parser

import (
	"github.com/malphas-lang/humanabi/internal/ast"
	"github.com/malphas-lang/humanabi/internal/lexer"
)

func (p *Parser) parseUnit() (ast.NodeIndex, error) {
	switch p.curTag() {
	case lexer.FUNCTION:
		return p.parseFunction()
	case lexer.CONSTRUCTOR:
		return p.parseSimpleProto(ast.ConstructorProtoSimple, ast.ConstructorProtoMulti)
	case lexer.FALLBACK:
		return p.parseSimpleProto(ast.FallbackProtoSimple, ast.FallbackProtoMulti)
	case lexer.RECEIVE:
		return p.parseReceive()
	case lexer.EVENT:
		return p.parseEvent()
	case lexer.ERROR:
		return p.parseError()
	case lexer.STRUCT:
		return p.parseStruct()
	default:
		return 0, p.unexpected("a declaration")
	}
}

// parseFunction parses
//
//	function name ( params ) specifiers [returns ( params )]
//
// The prototype node is reserved up front so it precedes its children in
// the arena; it is released again if any part fails.
func (p *Parser) parseFunction() (_ ast.NodeIndex, err error) {
	main := p.nextToken()

	switch p.curTag() {
	case lexer.IDENT, lexer.FALLBACK, lexer.RECEIVE:
		p.nextToken()
	default:
		return 0, p.unexpected("a function name")
	}

	proto, err := p.reserve(ast.FunctionProto)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			p.tree.Unreserve(proto)
		}
	}()

	params, err := p.parseParamList(ast.VarDecl)
	if err != nil {
		return 0, err
	}
	specs, err := p.parseSpecifiers()
	if err != nil {
		return 0, err
	}

	if _, ok := p.eat(lexer.RETURNS); !ok {
		if params.IsMulti() {
			return p.tree.Commit(proto, ast.Node{Tag: ast.FunctionProtoMulti, MainToken: main, Data: ast.ProtoMulti{Params: params.Range(), Specifiers: specs}}), nil
		}
		return p.tree.Commit(proto, ast.Node{Tag: ast.FunctionProtoSimple, MainToken: main, Data: ast.ProtoSimple{Param: params.Node(), Specifiers: specs}}), nil
	}

	returns, err := p.parseReturns()
	if err != nil {
		return 0, err
	}
	if params.IsMulti() {
		return p.tree.Commit(proto, ast.Node{Tag: ast.FunctionProto, MainToken: main, Data: ast.Proto{Params: params.Range(), Specifiers: specs, Returns: returns}}), nil
	}
	return p.tree.Commit(proto, ast.Node{Tag: ast.FunctionProtoOne, MainToken: main, Data: ast.ProtoOne{Param: params.Node(), Specifiers: specs, Returns: returns}}), nil
}

// parseSimpleProto parses constructor and fallback prototypes:
//
//	keyword ( params ) specifiers
func (p *Parser) parseSimpleProto(simple, multi ast.Tag) (_ ast.NodeIndex, err error) {
	main := p.nextToken()

	proto, err := p.reserve(simple)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			p.tree.Unreserve(proto)
		}
	}()

	params, err := p.parseParamList(ast.VarDecl)
	if err != nil {
		return 0, err
	}
	specs, err := p.parseSpecifiers()
	if err != nil {
		return 0, err
	}

	if params.IsMulti() {
		return p.tree.Commit(proto, ast.Node{Tag: multi, MainToken: main, Data: ast.ProtoMulti{Params: params.Range(), Specifiers: specs}}), nil
	}
	return p.tree.Commit(proto, ast.Node{Tag: simple, MainToken: main, Data: ast.ProtoSimple{Param: params.Node(), Specifiers: specs}}), nil
}

// parseReceive parses "receive ( ) specifiers".
func (p *Parser) parseReceive() (_ ast.NodeIndex, err error) {
	main := p.nextToken()

	proto, err := p.reserve(ast.ReceiveProto)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			p.tree.Unreserve(proto)
		}
	}()

	if _, err = p.expect(lexer.LPAREN); err != nil {
		return 0, err
	}
	if _, err = p.expect(lexer.RPAREN); err != nil {
		return 0, err
	}
	specs, err := p.parseSpecifiers()
	if err != nil {
		return 0, err
	}
	return p.tree.Commit(proto, ast.Node{Tag: ast.ReceiveProto, MainToken: main, Data: ast.ProtoSimple{Specifiers: specs}}), nil
}

// parseEvent parses "event name ( event_params ) anonymous?".
func (p *Parser) parseEvent() (ast.NodeIndex, error) {
	main := p.nextToken()
	if _, err := p.expect(lexer.IDENT); err != nil {
		return 0, err
	}

	params, err := p.parseParamList(ast.EventVarDecl)
	if err != nil {
		return 0, err
	}
	anon, _ := p.eat(lexer.ANONYMOUS)

	if params.IsMulti() {
		return p.addNode(ast.Node{Tag: ast.EventProtoMulti, MainToken: main, Data: ast.EventMulti{Params: params.Range(), Anonymous: anon}})
	}
	return p.addNode(ast.Node{Tag: ast.EventProtoSimple, MainToken: main, Data: ast.EventOne{Param: params.Node(), Anonymous: anon}})
}

// parseError parses "error name ( error_params )".
func (p *Parser) parseError() (ast.NodeIndex, error) {
	main := p.nextToken()
	if _, err := p.expect(lexer.IDENT); err != nil {
		return 0, err
	}

	params, err := p.parseParamList(ast.ErrorVarDecl)
	if err != nil {
		return 0, err
	}

	if params.IsMulti() {
		return p.addNode(ast.Node{Tag: ast.ErrorProtoMulti, MainToken: main, Data: ast.Multi{Nodes: params.Range()}})
	}
	return p.addNode(ast.Node{Tag: ast.ErrorProtoSimple, MainToken: main, Data: ast.One{Node: params.Node()}})
}

// parseStruct parses "struct name { (type modifier? name ;)* }". An empty
// body parses; the binder rejects it.
func (p *Parser) parseStruct() (ast.NodeIndex, error) {
	main := p.nextToken()
	if _, err := p.expect(lexer.IDENT); err != nil {
		return 0, err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return 0, err
	}

	top := len(p.scratch)
	defer func() { p.scratch = p.scratch[:top] }()

	for p.curTag() != lexer.RBRACE {
		field, err := p.parseStructField()
		if err != nil {
			return 0, err
		}
		p.scratch = append(p.scratch, field)
	}
	p.nextToken()

	fields := p.scratch[top:]
	if len(fields) > 1 {
		return p.addNode(ast.Node{Tag: ast.StructDecl, MainToken: main, Data: ast.Multi{Nodes: p.tree.AddExtra(fields...)}})
	}
	var field ast.NodeIndex
	if len(fields) == 1 {
		field = fields[0]
	}
	return p.addNode(ast.Node{Tag: ast.StructDeclOne, MainToken: main, Data: ast.One{Node: field}})
}
