package ast

import (
	"fmt"
	"io"
	"strings"
)

// Children returns the direct child nodes of n in source order.
func (t *Tree) Children(n NodeIndex) []NodeIndex {
	switch tag := t.tags[n]; {
	case tag == Root:
		return t.Decls()
	case tag.IsFunctionLike():
		full := t.FunctionFull(n)
		out := append([]NodeIndex{}, full.Params...)
		if full.Specifiers != 0 {
			out = append(out, full.Specifiers)
		}
		return append(out, full.Returns...)
	case tag == EventProtoSimple || tag == EventProtoMulti:
		return t.EventFull(n).Params
	case tag == ErrorProtoSimple || tag == ErrorProtoMulti:
		return t.ErrorFull(n).Params
	case tag == StructDeclOne || tag == StructDecl:
		return t.StructFull(n).Fields
	case tag.IsParam():
		return []NodeIndex{t.VarFull(n).Type}
	case tag == TupleTypeOne || tag == TupleType:
		return t.TupleFull(n).Components
	case tag == ArrayType:
		return []NodeIndex{t.ArrayFull(n).Elem}
	default:
		return nil
	}
}

// Walk traverses the tree starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch.
func (t *Tree) Walk(node NodeIndex, fn func(NodeIndex) bool) {
	if !fn(node) {
		return
	}
	for _, child := range t.Children(node) {
		t.Walk(child, fn)
	}
}

// Dump writes an indented rendering of the subtree rooted at node, one node
// per line with its tag, token range and source text.
func (t *Tree) Dump(w io.Writer, node NodeIndex) error {
	return t.dump(w, node, 0)
}

func (t *Tree) dump(w io.Writer, node NodeIndex, depth int) error {
	first, last := t.FirstToken(node), t.LastToken(node)
	src := t.NodeSource(node)
	if t.tags[node] == Root {
		src = ""
	}
	if _, err := fmt.Fprintf(w, "%s%s [%d..%d] %q\n", strings.Repeat("  ", depth), t.tags[node], first, last, src); err != nil {
		return err
	}
	for _, child := range t.Children(node) {
		if err := t.dump(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
