package ast_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/humanabi/internal/ast"
	"github.com/malphas-lang/humanabi/internal/lexer"
)

func TestReserveCommit(t *testing.T) {
	tree := ast.NewTree("", nil, 4)
	root := tree.Reserve(ast.Root)
	require.Equal(t, ast.NodeIndex(0), root)
	assert.Equal(t, ast.Root, tree.Tag(root))
	assert.Equal(t, ast.None{}, tree.Data(root))

	leaf := tree.Append(ast.Node{Tag: ast.ElementaryType, MainToken: 3})
	assert.Equal(t, ast.NodeIndex(1), leaf)
	assert.Equal(t, ast.TokenIndex(3), tree.MainToken(leaf))

	decls := tree.AddExtra(leaf)
	tree.Commit(root, ast.Node{Tag: ast.Root, Data: ast.RootData{Decls: decls}})
	assert.Equal(t, []ast.NodeIndex{leaf}, tree.Decls())
}

func TestUnreserveTrailingPops(t *testing.T) {
	tree := ast.NewTree("", nil, 0)
	tree.Reserve(ast.Root)
	proto := tree.Reserve(ast.FunctionProto)
	require.Equal(t, 2, tree.Len())

	tree.Unreserve(proto)
	assert.Equal(t, 1, tree.Len())
}

func TestUnreserveInteriorTombstones(t *testing.T) {
	tree := ast.NewTree("", nil, 0)
	tree.Reserve(ast.Root)
	proto := tree.Reserve(ast.FunctionProto)
	child := tree.Append(ast.Node{Tag: ast.Identifier, MainToken: 5})

	tree.Unreserve(proto)
	require.Equal(t, 3, tree.Len())
	assert.Equal(t, ast.Unreachable, tree.Tag(proto))
	assert.Equal(t, ast.Identifier, tree.Tag(child))
	assert.Equal(t, ast.TokenIndex(5), tree.MainToken(child))
}

func TestAddExtraRanges(t *testing.T) {
	tree := ast.NewTree("", nil, 0)
	r1 := tree.AddExtra(1, 2)
	r2 := tree.AddExtra(3, 4, 5)
	empty := tree.AddExtra()

	assert.Equal(t, ast.Range{Start: 0, End: 2}, r1)
	assert.Equal(t, ast.Range{Start: 2, End: 5}, r2)
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, []ast.NodeIndex{3, 4, 5}, tree.ExtraSlice(r2))
	assert.Equal(t, []ast.NodeIndex{1, 2}, tree.ExtraSlice(r1))
}

// buildArrayParam assembles "address[5] foo" by hand.
func buildArrayParam(t *testing.T) (*ast.Tree, ast.NodeIndex) {
	t.Helper()
	src := "address[5] foo"
	tokens := lexer.Tokenize(src)
	require.Len(t, tokens, 6)

	tree := ast.NewTree(src, tokens, 4)
	tree.Reserve(ast.Root)
	elem := tree.Append(ast.Node{Tag: ast.ElementaryType, MainToken: 0})
	arr := tree.Append(ast.Node{Tag: ast.ArrayType, MainToken: 1, Data: ast.Array{Elem: elem, Size: 2}})
	param := tree.Append(ast.Node{Tag: ast.VarDecl, MainToken: 0, Data: ast.Var{Type: arr, Name: 4}})
	tree.Commit(0, ast.Node{Tag: ast.Root, Data: ast.RootData{Decls: tree.AddExtra(param)}})
	return tree, param
}

func TestNodeSourceHandBuilt(t *testing.T) {
	tree, param := buildArrayParam(t)

	assert.Equal(t, "address[5] foo", tree.NodeSource(param))
	arr := tree.VarFull(param).Type
	assert.Equal(t, "address[5]", tree.NodeSource(arr))

	full := tree.ArrayFull(arr)
	assert.Equal(t, ast.TokenIndex(3), full.RBracket)
	assert.Equal(t, "5", tree.TokenSlice(full.Size))
}

func TestWalkVisitsEveryNode(t *testing.T) {
	tree, _ := buildArrayParam(t)

	var tags []ast.Tag
	tree.Walk(0, func(n ast.NodeIndex) bool {
		tags = append(tags, tree.Tag(n))
		return true
	})
	assert.Equal(t, []ast.Tag{ast.Root, ast.VarDecl, ast.ArrayType, ast.ElementaryType}, tags)
}

func TestDump(t *testing.T) {
	tree, _ := buildArrayParam(t)

	var out bytes.Buffer
	require.NoError(t, tree.Dump(&out, 0))
	assert.Contains(t, out.String(), "VarDecl [0..4] \"address[5] foo\"")
	assert.Contains(t, out.String(), "      ElementaryType [0..0] \"address\"")
}

func TestTagPredicates(t *testing.T) {
	assert.True(t, ast.ReceiveProto.IsFunctionLike())
	assert.False(t, ast.EventProtoSimple.IsFunctionLike())
	assert.True(t, ast.StructField.IsParam())
	assert.True(t, ast.ArrayType.IsType())
	assert.Equal(t, "TupleTypeOne", ast.TupleTypeOne.String())
}
