package ast

import "github.com/malphas-lang/humanabi/internal/lexer"

// The Full* views hide the zero/one/many storage shapes: callers always see
// plain slices, whichever tag the parser picked.

// FullFunction is a function, constructor, fallback or receive prototype.
type FullFunction struct {
	Keyword    TokenIndex
	Name       TokenIndex // 0 unless declared with 'function'
	LParen     TokenIndex
	RParen     TokenIndex
	Params     []NodeIndex
	Specifiers NodeIndex // 0 when no specifiers were written
	Returns    []NodeIndex
}

// FullEvent is an event prototype.
type FullEvent struct {
	Keyword   TokenIndex
	Name      TokenIndex
	LParen    TokenIndex
	RParen    TokenIndex
	Params    []NodeIndex
	Anonymous TokenIndex
}

// FullError is an error prototype.
type FullError struct {
	Keyword TokenIndex
	Name    TokenIndex
	LParen  TokenIndex
	RParen  TokenIndex
	Params  []NodeIndex
}

// FullStruct is a struct declaration.
type FullStruct struct {
	Keyword TokenIndex
	Name    TokenIndex
	LBrace  TokenIndex
	RBrace  TokenIndex
	Fields  []NodeIndex
}

// FullTuple is a parenthesised component list, optionally introduced by the
// 'tuple' keyword.
type FullTuple struct {
	Keyword    TokenIndex
	LParen     TokenIndex
	RParen     TokenIndex
	Components []NodeIndex
}

// FullArray is an array suffix applied to an element type.
type FullArray struct {
	Elem     NodeIndex
	LBracket TokenIndex
	Size     TokenIndex
	RBracket TokenIndex
}

func zeroOrOne(n NodeIndex) []NodeIndex {
	if n == 0 {
		return nil
	}
	return []NodeIndex{n}
}

// closingAfter returns the token closing a list that opened at open.
func (t *Tree) closingAfter(open TokenIndex, items []NodeIndex) TokenIndex {
	if len(items) == 0 {
		return open + 1
	}
	return t.LastToken(items[len(items)-1]) + 1
}

// FunctionFull returns the prototype view of a function-like node.
func (t *Tree) FunctionFull(n NodeIndex) FullFunction {
	full := FullFunction{Keyword: t.mainTokens[n]}

	switch d := t.data[n].(type) {
	case ProtoSimple:
		full.Params = zeroOrOne(d.Param)
		full.Specifiers = d.Specifiers
	case ProtoMulti:
		full.Params = t.ExtraSlice(d.Params)
		full.Specifiers = d.Specifiers
	case ProtoOne:
		full.Params = zeroOrOne(d.Param)
		full.Specifiers = d.Specifiers
		full.Returns = t.ExtraSlice(d.Returns)
	case Proto:
		full.Params = t.ExtraSlice(d.Params)
		full.Specifiers = d.Specifiers
		full.Returns = t.ExtraSlice(d.Returns)
	default:
		panic(payloadError(n, t.tags[n], "function prototype"))
	}

	if t.TokenTag(full.Keyword) == lexer.FUNCTION {
		full.Name = full.Keyword + 1
		full.LParen = full.Keyword + 2
	} else {
		full.LParen = full.Keyword + 1
	}
	full.RParen = t.closingAfter(full.LParen, full.Params)
	return full
}

// EventFull returns the prototype view of an event node.
func (t *Tree) EventFull(n NodeIndex) FullEvent {
	main := t.mainTokens[n]
	full := FullEvent{Keyword: main, Name: main + 1, LParen: main + 2}

	switch d := t.data[n].(type) {
	case EventOne:
		full.Params = zeroOrOne(d.Param)
		full.Anonymous = d.Anonymous
	case EventMulti:
		full.Params = t.ExtraSlice(d.Params)
		full.Anonymous = d.Anonymous
	default:
		panic(payloadError(n, t.tags[n], "event prototype"))
	}

	full.RParen = t.closingAfter(full.LParen, full.Params)
	return full
}

// ErrorFull returns the prototype view of an error node.
func (t *Tree) ErrorFull(n NodeIndex) FullError {
	main := t.mainTokens[n]
	full := FullError{Keyword: main, Name: main + 1, LParen: main + 2}
	full.Params = t.list(n, "error prototype")
	full.RParen = t.closingAfter(full.LParen, full.Params)
	return full
}

// StructFull returns the declaration view of a struct node.
func (t *Tree) StructFull(n NodeIndex) FullStruct {
	main := t.mainTokens[n]
	full := FullStruct{Keyword: main, Name: main + 1, LBrace: main + 2}
	full.Fields = t.list(n, "struct declaration")
	full.RBrace = t.closingAfter(full.LBrace, full.Fields)
	return full
}

// TupleFull returns the component view of a tuple type node.
func (t *Tree) TupleFull(n NodeIndex) FullTuple {
	main := t.mainTokens[n]
	var full FullTuple
	if t.TokenTag(main) == lexer.TUPLE {
		full.Keyword = main
		full.LParen = main + 1
	} else {
		full.LParen = main
	}
	full.Components = t.list(n, "tuple type")
	full.RParen = t.closingAfter(full.LParen, full.Components)
	return full
}

// ArrayFull returns the view of an array type node.
func (t *Tree) ArrayFull(n NodeIndex) FullArray {
	d, ok := t.data[n].(Array)
	if !ok {
		panic(payloadError(n, t.tags[n], "array type"))
	}
	full := FullArray{Elem: d.Elem, LBracket: t.mainTokens[n], Size: d.Size}
	if d.Size != 0 {
		full.RBracket = d.Size + 1
	} else {
		full.RBracket = full.LBracket + 1
	}
	return full
}

// VarFull returns the declaration payload of a parameter or field node.
func (t *Tree) VarFull(n NodeIndex) Var {
	d, ok := t.data[n].(Var)
	if !ok {
		panic(payloadError(n, t.tags[n], "parameter"))
	}
	return d
}

// SpecifierTokens returns the tokens of a Specifiers node; nil for 0.
func (t *Tree) SpecifierTokens(n NodeIndex) []TokenIndex {
	if n == 0 {
		return nil
	}
	d, ok := t.data[n].(TokenRange)
	if !ok {
		panic(payloadError(n, t.tags[n], "specifier list"))
	}
	out := make([]TokenIndex, 0, d.End-d.Start)
	for i := d.Start; i < d.End; i++ {
		out = append(out, i)
	}
	return out
}

func (t *Tree) list(n NodeIndex, want string) []NodeIndex {
	switch d := t.data[n].(type) {
	case One:
		return zeroOrOne(d.Node)
	case Multi:
		return t.ExtraSlice(d.Nodes)
	default:
		panic(payloadError(n, t.tags[n], want))
	}
}
