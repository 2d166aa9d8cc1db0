package ast

import (
	"fmt"

	"github.com/malphas-lang/humanabi/internal/lexer"
)

// Tree is the arena produced by one parse. Tags and main tokens are stored
// column-wise; payloads live in a parallel typed column. Extra is append-only
// and holds every committed list.
type Tree struct {
	Source string
	Tokens []lexer.Token

	tags       []Tag
	mainTokens []TokenIndex
	data       []Data

	Extra []NodeIndex
}

// NewTree creates an empty arena over tokens scanned from src. nodeHint
// pre-sizes the node columns.
func NewTree(src string, tokens []lexer.Token, nodeHint int) *Tree {
	return &Tree{
		Source:     src,
		Tokens:     tokens,
		tags:       make([]Tag, 0, nodeHint),
		mainTokens: make([]TokenIndex, 0, nodeHint),
		data:       make([]Data, 0, nodeHint),
	}
}

// Len returns the number of nodes in the arena, tombstones included.
func (t *Tree) Len() int { return len(t.tags) }

// Append adds a node and returns its index.
func (t *Tree) Append(n Node) NodeIndex {
	idx := NodeIndex(len(t.tags))
	t.tags = append(t.tags, n.Tag)
	t.mainTokens = append(t.mainTokens, n.MainToken)
	if n.Data == nil {
		n.Data = None{}
	}
	t.data = append(t.data, n.Data)
	return idx
}

// Reserve allocates a slot for a node whose children are not yet known. The
// slot must later be filled with Commit or released with Unreserve.
func (t *Tree) Reserve(tag Tag) NodeIndex {
	return t.Append(Node{Tag: tag})
}

// Commit fills a reserved slot.
func (t *Tree) Commit(idx NodeIndex, n Node) NodeIndex {
	t.tags[idx] = n.Tag
	t.mainTokens[idx] = n.MainToken
	if n.Data == nil {
		n.Data = None{}
	}
	t.data[idx] = n.Data
	return idx
}

// Unreserve abandons a reservation. A trailing slot is popped; any other slot
// is tombstoned so indices already handed out stay valid.
func (t *Tree) Unreserve(idx NodeIndex) {
	if int(idx) == len(t.tags)-1 {
		t.tags = t.tags[:idx]
		t.mainTokens = t.mainTokens[:idx]
		t.data = t.data[:idx]
		return
	}
	t.tags[idx] = Unreachable
	t.data[idx] = None{}
}

// AddExtra appends nodes to the extra data and returns their range.
func (t *Tree) AddExtra(nodes ...NodeIndex) Range {
	start := uint32(len(t.Extra))
	t.Extra = append(t.Extra, nodes...)
	return Range{Start: start, End: uint32(len(t.Extra))}
}

// ExtraSlice returns the nodes covered by r. The slice aliases the arena.
func (t *Tree) ExtraSlice(r Range) []NodeIndex {
	return t.Extra[r.Start:r.End]
}

// Tag returns the tag of node n.
func (t *Tree) Tag(n NodeIndex) Tag { return t.tags[n] }

// MainToken returns the main token of node n.
func (t *Tree) MainToken(n NodeIndex) TokenIndex { return t.mainTokens[n] }

// Data returns the payload of node n.
func (t *Tree) Data(n NodeIndex) Data { return t.data[n] }

// Node returns the full row for n.
func (t *Tree) Node(n NodeIndex) Node {
	return Node{Tag: t.tags[n], MainToken: t.mainTokens[n], Data: t.data[n]}
}

// TokenTag returns the lexical type of token i.
func (t *Tree) TokenTag(i TokenIndex) lexer.TokenType { return t.Tokens[i].Type }

// TokenSlice returns the source text of token i.
func (t *Tree) TokenSlice(i TokenIndex) string {
	return t.Tokens[i].Lexeme(t.Source)
}

// TokenSpan returns line and column information for token i.
func (t *Tree) TokenSpan(i TokenIndex) lexer.Span {
	return lexer.Locate(t.Source, t.Tokens[i])
}

// Decls returns the top-level declarations in source order.
func (t *Tree) Decls() []NodeIndex {
	if len(t.tags) == 0 {
		return nil
	}
	root, ok := t.data[0].(RootData)
	if !ok {
		return nil
	}
	return t.ExtraSlice(root.Decls)
}

// payloadError reports an accessor used on a node of the wrong shape. It
// indicates a bug in the caller, never malformed input.
func payloadError(n NodeIndex, tag Tag, want string) string {
	return fmt.Sprintf("ast: node %d (%s) is not a %s", n, tag, want)
}
