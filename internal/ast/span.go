package ast

// FirstToken returns the first token covered by node n.
func (t *Tree) FirstToken(n NodeIndex) TokenIndex {
	switch t.tags[n] {
	case Root:
		return 0
	case VarDecl, EventVarDecl, ErrorVarDecl, StructField:
		return t.FirstToken(t.VarFull(n).Type)
	case ArrayType:
		return t.FirstToken(t.ArrayFull(n).Elem)
	case Specifiers:
		return t.data[n].(TokenRange).Start
	default:
		return t.mainTokens[n]
	}
}

// LastToken returns the last token covered by node n.
func (t *Tree) LastToken(n NodeIndex) TokenIndex {
	switch tag := t.tags[n]; {
	case tag == Root:
		return TokenIndex(len(t.Tokens) - 1)
	case tag.IsFunctionLike():
		full := t.FunctionFull(n)
		switch {
		case len(full.Returns) > 0:
			return t.LastToken(full.Returns[len(full.Returns)-1]) + 1
		case full.Specifiers != 0:
			return t.LastToken(full.Specifiers)
		default:
			return full.RParen
		}
	case tag == EventProtoSimple || tag == EventProtoMulti:
		full := t.EventFull(n)
		if full.Anonymous != 0 {
			return full.Anonymous
		}
		return full.RParen
	case tag == ErrorProtoSimple || tag == ErrorProtoMulti:
		return t.ErrorFull(n).RParen
	case tag == StructDeclOne || tag == StructDecl:
		return t.StructFull(n).RBrace
	case tag == StructField:
		// the terminating ';'
		return t.VarFull(n).Name + 1
	case tag.IsParam():
		v := t.VarFull(n)
		switch {
		case v.Name != 0:
			return v.Name
		case v.Modifier != 0:
			return v.Modifier
		default:
			return t.LastToken(v.Type)
		}
	case tag == TupleTypeOne || tag == TupleType:
		return t.TupleFull(n).RParen
	case tag == ArrayType:
		return t.ArrayFull(n).RBracket
	case tag == Specifiers:
		return t.data[n].(TokenRange).End - 1
	default:
		return t.mainTokens[n]
	}
}

// NodeByteRange returns the half-open byte range of node n in Source.
func (t *Tree) NodeByteRange(n NodeIndex) (start, end uint32) {
	return t.Tokens[t.FirstToken(n)].Start, t.Tokens[t.LastToken(n)].End
}

// NodeSource returns the source text covered by node n.
func (t *Tree) NodeSource(n NodeIndex) string {
	start, end := t.NodeByteRange(n)
	return t.Source[start:end]
}
