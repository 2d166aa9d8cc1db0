package binder

import (
	"go.uber.org/zap"

	"github.com/malphas-lang/humanabi/internal/ast"
	"github.com/malphas-lang/humanabi/item"
)

type structState uint8

const (
	stateUnresolved structState = iota
	stateResolving
	stateResolved
)

// structEntry is one row of the struct table. Fields are resolved on first
// use and memoised.
type structEntry struct {
	node   ast.NodeIndex
	name   ast.TokenIndex
	state  structState
	fields []item.Parameter
}

// collectStructs registers every struct declaration by name.
func (b *Binder) collectStructs() error {
	for _, decl := range b.tree.Decls() {
		tag := b.tree.Tag(decl)
		if tag != ast.StructDeclOne && tag != ast.StructDecl {
			continue
		}
		full := b.tree.StructFull(decl)
		name := b.tree.TokenSlice(full.Name)
		if prev, ok := b.structs[name]; ok {
			e := b.fail(DuplicateStruct, full.Name, "struct %s is declared more than once", name)
			related := b.span(prev.name)
			e.Related = &related
			return e
		}
		b.structs[name] = &structEntry{node: decl, name: full.Name}
		b.logger.Debug("registered struct", zap.String("name", name), zap.Int("fields", len(full.Fields)))
	}
	return nil
}

// structFields resolves the fields of the struct declared by node n.
func (b *Binder) structFields(n ast.NodeIndex) ([]item.Parameter, error) {
	full := b.tree.StructFull(n)
	name := b.tree.TokenSlice(full.Name)
	entry := b.structs[name]

	switch entry.state {
	case stateResolved:
		return entry.fields, nil
	case stateResolving:
		return nil, b.cycle(full.Name, name)
	}

	if len(full.Fields) == 0 {
		return nil, b.fail(MissingField, full.Name, "struct %s has no fields", name)
	}

	entry.state = stateResolving
	b.resolving = append(b.resolving, name)
	defer func() { b.resolving = b.resolving[:len(b.resolving)-1] }()

	fields, err := b.bindParams(full.Fields, contextNone)
	if err != nil {
		entry.state = stateUnresolved
		return nil, err
	}
	entry.fields = fields
	entry.state = stateResolved
	return fields, nil
}

// cycle reports a reference to name while name is still being resolved.
func (b *Binder) cycle(tok ast.TokenIndex, name string) *Error {
	var path []string
	for i, s := range b.resolving {
		if s == name {
			path = append(path, b.resolving[i:]...)
			break
		}
	}
	path = append(path, name)

	e := b.fail(StructCycle, tok, "struct %s refers to itself", name)
	e.Cycle = path
	return e
}
