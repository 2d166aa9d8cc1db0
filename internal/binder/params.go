package binder

import (
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/malphas-lang/humanabi/internal/ast"
	"github.com/malphas-lang/humanabi/internal/lexer"
	"github.com/malphas-lang/humanabi/item"
)

// paramContext decides which modifiers a parameter may carry.
type paramContext uint8

const (
	// contextNone covers error parameters, struct fields and tuple
	// components: no modifier at all.
	contextNone paramContext = iota
	// contextFunction covers function, constructor and fallback parameters:
	// a data location on dynamic types only.
	contextFunction
	// contextEvent covers event parameters: indexed only.
	contextEvent
)

func (b *Binder) bindParam(n ast.NodeIndex, ctx paramContext) (item.Parameter, error) {
	v := b.tree.VarFull(n)
	p, err := b.resolveType(v.Type)
	if err != nil {
		return item.Parameter{}, err
	}
	if v.Name != 0 {
		p.Name = b.tree.TokenSlice(v.Name)
	}
	if v.Modifier == 0 {
		return p, nil
	}

	mod := b.tree.TokenTag(v.Modifier)
	switch ctx {
	case contextFunction:
		if !mod.IsDataLocation() {
			return item.Parameter{}, b.fail(InvalidDataLocation, v.Modifier, "'%s' is only allowed on event parameters", mod)
		}
		if !isDynamic(p.Type) {
			return item.Parameter{}, b.fail(InvalidDataLocation, v.Modifier, "data location '%s' is not allowed on static type %s", mod, p.TypeName)
		}
	case contextEvent:
		if mod != lexer.INDEXED {
			return item.Parameter{}, b.fail(InvalidDataLocation, v.Modifier, "event parameters cannot have data location '%s'", mod)
		}
		p.Indexed = true
	default:
		return item.Parameter{}, b.fail(InvalidDataLocation, v.Modifier, "'%s' is not allowed here", mod)
	}
	return p, nil
}

// isDynamic reports whether a data location may be attached to t.
func isDynamic(t abi.Type) bool {
	switch t.T {
	case abi.StringTy, abi.BytesTy, abi.SliceTy, abi.ArrayTy, abi.TupleTy:
		return true
	}
	return false
}

// resolveType lowers a type node into an unnamed parameter. Array suffixes
// are folded into the type text, e.g. address[5][].
func (b *Binder) resolveType(n ast.NodeIndex) (item.Parameter, error) {
	base, suffix := n, ""
	for b.tree.Tag(base) == ast.ArrayType {
		arr := b.tree.ArrayFull(base)
		size := ""
		if arr.Size != 0 {
			size = b.tree.TokenSlice(arr.Size)
		}
		suffix = "[" + size + "]" + suffix
		base = arr.Elem
	}

	var (
		p        item.Parameter
		text     string
		internal string
	)
	main := b.tree.MainToken(base)

	switch b.tree.Tag(base) {
	case ast.ElementaryType:
		text = b.tree.TokenTag(main).CanonicalType()

	case ast.Identifier:
		name := b.tree.TokenSlice(main)
		entry, ok := b.structs[name]
		if !ok {
			// Not a struct; the resolver has the final word.
			typ, err := b.resolve(name+suffix, "", nil)
			if err != nil {
				return item.Parameter{}, b.invalidType(main, name, err)
			}
			return item.Parameter{Type: typ, TypeName: name + suffix}, nil
		}
		if entry.state == stateResolving {
			return item.Parameter{}, b.cycle(main, name)
		}
		fields, err := b.structFields(entry.node)
		if err != nil {
			return item.Parameter{}, err
		}
		p.Components = item.CloneParameters(fields)
		text = "tuple"
		internal = "struct " + name

	case ast.TupleTypeOne, ast.TupleType:
		comps, err := b.bindParams(b.tree.TupleFull(base).Components, contextNone)
		if err != nil {
			return item.Parameter{}, err
		}
		p.Components = comps
		text = "tuple"

	default:
		return item.Parameter{}, b.fail(UnexpectedToken, main, "expected a type, found %s", b.tree.Tag(base))
	}

	p.TypeName = text + suffix
	if internal != "" {
		p.InternalType = internal + suffix
	}
	typ, err := b.resolve(p.TypeName, p.InternalType, marshalComponents(p.Components))
	if err != nil {
		return item.Parameter{}, b.invalidType(main, b.tree.NodeSource(n), err)
	}
	p.Type = typ
	return p, nil
}

func (b *Binder) invalidType(tok ast.TokenIndex, text string, err error) *Error {
	e := b.fail(InvalidType, tok, "invalid type %q", text)
	e.Err = err
	return e
}

// marshalComponents converts resolved components back into the resolver's
// input form. The resolver turns component names into Go struct fields, so
// a name that cannot become a unique exported field is replaced by a
// positional one. Only the resolved type sees the replacement; the
// parameters keep their source names.
func marshalComponents(params []item.Parameter) []abi.ArgumentMarshaling {
	if len(params) == 0 {
		return nil
	}
	out := make([]abi.ArgumentMarshaling, len(params))
	used := make(map[string]bool, len(params))
	for i, p := range params {
		name := p.Name
		for n := i; !isFieldName(abi.ToCamelCase(name)) || used[abi.ToCamelCase(name)]; n += len(params) {
			name = "field" + strconv.Itoa(n)
		}
		used[abi.ToCamelCase(name)] = true
		out[i] = abi.ArgumentMarshaling{
			Name:         name,
			Type:         p.TypeName,
			InternalType: p.InternalType,
			Components:   marshalComponents(p.Components),
		}
	}
	return out
}

// isFieldName reports whether abi.NewType accepts s as a tuple field name:
// an ASCII letter or underscore followed by letters, digits or underscores.
func isFieldName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		letter := c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
		if !letter && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return true
}
