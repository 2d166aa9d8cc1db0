package ast

import "strconv"

// NodeIndex addresses a node in a Tree. Index 0 is the root node and doubles
// as the "absent" sentinel: no payload ever refers to the root.
type NodeIndex uint32

// TokenIndex addresses a token in Tree.Tokens. Index 0 is the "absent"
// sentinel for optional tokens; a name or modifier can never be the first
// token of a source.
type TokenIndex uint32

// Range is a half-open window [Start, End) into Tree.Extra.
type Range struct {
	Start uint32
	End   uint32
}

// Len returns the number of entries covered by the range.
func (r Range) Len() int { return int(r.End - r.Start) }

// Tag identifies the kind of a node and, for list-bearing nodes, which
// storage shape its payload uses.
type Tag uint8

const (
	Root Tag = iota

	// function name(params) specifiers [returns (params)]
	FunctionProtoSimple // 0 or 1 param, no returns
	FunctionProtoMulti  // 2+ params, no returns
	FunctionProtoOne    // 0 or 1 param, returns
	FunctionProto       // 2+ params, returns

	ConstructorProtoSimple
	ConstructorProtoMulti
	FallbackProtoSimple
	FallbackProtoMulti
	ReceiveProto

	EventProtoSimple
	EventProtoMulti
	ErrorProtoSimple
	ErrorProtoMulti

	StructDeclOne
	StructDecl

	VarDecl      // function, constructor and fallback parameters
	EventVarDecl // event parameters
	ErrorVarDecl // error parameters and tuple components
	StructField

	ElementaryType
	Identifier
	TupleTypeOne
	TupleType
	ArrayType

	Specifiers

	// Unreachable marks an abandoned reservation that could not be popped.
	Unreachable
)

var tagNames = [...]string{
	Root:                   "Root",
	FunctionProtoSimple:    "FunctionProtoSimple",
	FunctionProtoMulti:     "FunctionProtoMulti",
	FunctionProtoOne:       "FunctionProtoOne",
	FunctionProto:          "FunctionProto",
	ConstructorProtoSimple: "ConstructorProtoSimple",
	ConstructorProtoMulti:  "ConstructorProtoMulti",
	FallbackProtoSimple:    "FallbackProtoSimple",
	FallbackProtoMulti:     "FallbackProtoMulti",
	ReceiveProto:           "ReceiveProto",
	EventProtoSimple:       "EventProtoSimple",
	EventProtoMulti:        "EventProtoMulti",
	ErrorProtoSimple:       "ErrorProtoSimple",
	ErrorProtoMulti:        "ErrorProtoMulti",
	StructDeclOne:          "StructDeclOne",
	StructDecl:             "StructDecl",
	VarDecl:                "VarDecl",
	EventVarDecl:           "EventVarDecl",
	ErrorVarDecl:           "ErrorVarDecl",
	StructField:            "StructField",
	ElementaryType:         "ElementaryType",
	Identifier:             "Identifier",
	TupleTypeOne:           "TupleTypeOne",
	TupleType:              "TupleType",
	ArrayType:              "ArrayType",
	Specifiers:             "Specifiers",
	Unreachable:            "Unreachable",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "Tag(" + strconv.Itoa(int(t)) + ")"
}

// IsFunctionLike reports whether t is a function, constructor, fallback or
// receive prototype.
func (t Tag) IsFunctionLike() bool {
	return t >= FunctionProtoSimple && t <= ReceiveProto
}

// IsParam reports whether t is one of the parameter declaration tags.
func (t Tag) IsParam() bool {
	return t >= VarDecl && t <= StructField
}

// IsType reports whether t is a type expression.
func (t Tag) IsType() bool {
	return t >= ElementaryType && t <= ArrayType
}

// Data is the typed payload of a node. Each tag uses exactly one payload
// shape, listed next to the payload type.
type Data interface {
	isData()
}

// None is the payload of leaf nodes (ElementaryType, Identifier,
// Unreachable) and of reserved but uncommitted nodes.
type None struct{}

// RootData holds the top-level declarations. (Root)
type RootData struct {
	Decls Range
}

// ProtoSimple holds an inline parameter (0 when absent).
// (FunctionProtoSimple, ConstructorProtoSimple, FallbackProtoSimple,
// ReceiveProto)
type ProtoSimple struct {
	Param      NodeIndex
	Specifiers NodeIndex
}

// ProtoMulti holds two or more parameters in extra data.
// (FunctionProtoMulti, ConstructorProtoMulti, FallbackProtoMulti)
type ProtoMulti struct {
	Params     Range
	Specifiers NodeIndex
}

// ProtoOne is a function with an inline parameter and a returns list.
// (FunctionProtoOne)
type ProtoOne struct {
	Param      NodeIndex
	Specifiers NodeIndex
	Returns    Range
}

// Proto is a function with 2+ parameters and a returns list. (FunctionProto)
type Proto struct {
	Params     Range
	Specifiers NodeIndex
	Returns    Range
}

// EventOne holds an inline event parameter. (EventProtoSimple)
type EventOne struct {
	Param     NodeIndex
	Anonymous TokenIndex
}

// EventMulti holds two or more event parameters. (EventProtoMulti)
type EventMulti struct {
	Params    Range
	Anonymous TokenIndex
}

// One holds an inline list element, 0 for an empty list.
// (ErrorProtoSimple, StructDeclOne, TupleTypeOne)
type One struct {
	Node NodeIndex
}

// Multi holds a list of two or more elements. (ErrorProtoMulti, StructDecl,
// TupleType)
type Multi struct {
	Nodes Range
}

// Var is a parameter or field declaration.
// (VarDecl, EventVarDecl, ErrorVarDecl, StructField)
type Var struct {
	Type     NodeIndex
	Modifier TokenIndex
	Name     TokenIndex
}

// Array wraps an element type. Size is 0 for a dynamic array. (ArrayType)
type Array struct {
	Elem NodeIndex
	Size TokenIndex
}

// TokenRange is the half-open token window [Start, End). (Specifiers)
type TokenRange struct {
	Start TokenIndex
	End   TokenIndex
}

func (None) isData()        {}
func (RootData) isData()    {}
func (ProtoSimple) isData() {}
func (ProtoMulti) isData()  {}
func (ProtoOne) isData()    {}
func (Proto) isData()       {}
func (EventOne) isData()    {}
func (EventMulti) isData()  {}
func (One) isData()         {}
func (Multi) isData()       {}
func (Var) isData()         {}
func (Array) isData()       {}
func (TokenRange) isData()  {}

// Node is one row of the arena.
type Node struct {
	Tag       Tag
	MainToken TokenIndex
	Data      Data
}
