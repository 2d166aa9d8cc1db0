package binder

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"go.uber.org/zap"

	"github.com/malphas-lang/humanabi/internal/ast"
	"github.com/malphas-lang/humanabi/item"
)

// Resolver turns elementary, array and tuple type text into a resolved type.
// abi.NewType is the default.
type Resolver func(typ, internalType string, components []abi.ArgumentMarshaling) (abi.Type, error)

type Option func(*Binder)

// WithResolver replaces the type resolver.
func WithResolver(r Resolver) Option {
	return func(b *Binder) {
		if r != nil {
			b.resolve = r
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(b *Binder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithFilename attributes error spans to the given file.
func WithFilename(name string) Option {
	return func(b *Binder) {
		b.filename = name
	}
}

// Binder lowers a parsed tree into interface items. A Binder owns the struct
// table of a single run and must not be reused.
type Binder struct {
	tree     *ast.Tree
	resolve  Resolver
	logger   *zap.Logger
	filename string

	structs map[string]*structEntry
	// resolving is the chain of structs currently being resolved, used to
	// report cycles.
	resolving []string
}

func newBinder(tree *ast.Tree, opts []Option) *Binder {
	b := &Binder{
		tree:    tree,
		resolve: abi.NewType,
		logger:  zap.NewNop(),
		structs: make(map[string]*structEntry),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind lowers every declaration of tree. Structs are resolved but not
// emitted; everything else is returned in source order.
func Bind(tree *ast.Tree, opts ...Option) (item.List, error) {
	b := newBinder(tree, opts)

	// Pass 1: register structs so declarations may reference structs
	// declared after them.
	if err := b.collectStructs(); err != nil {
		return nil, err
	}

	// Pass 2: resolve declarations in order.
	items := make(item.List, 0, len(tree.Decls()))
	for _, decl := range tree.Decls() {
		tag := tree.Tag(decl)
		switch {
		case tag == ast.StructDeclOne || tag == ast.StructDecl:
			if _, err := b.structFields(decl); err != nil {
				return nil, err
			}
		case tag.IsFunctionLike():
			it, err := b.bindFunctionLike(decl)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		case tag == ast.EventProtoSimple || tag == ast.EventProtoMulti:
			it, err := b.bindEvent(decl)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		case tag == ast.ErrorProtoSimple || tag == ast.ErrorProtoMulti:
			it, err := b.bindError(decl)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		default:
			return nil, b.fail(UnexpectedToken, tree.FirstToken(decl), "unexpected %s at top level", tree.TokenSlice(tree.FirstToken(decl)))
		}
	}

	b.logger.Debug("bound declarations",
		zap.Int("items", len(items)),
		zap.Int("structs", len(b.structs)),
		zap.Int("nodes", tree.Len()),
		zap.Int("extra", len(tree.Extra)),
	)
	return items, nil
}

// BindParameters lowers a bare parameter list produced by
// parser.ParseParameters or parser.ParseEventParameters.
func BindParameters(tree *ast.Tree, opts ...Option) ([]item.Parameter, error) {
	b := newBinder(tree, opts)
	if err := b.collectStructs(); err != nil {
		return nil, err
	}

	params := make([]item.Parameter, 0, len(tree.Decls()))
	for _, decl := range tree.Decls() {
		switch tree.Tag(decl) {
		case ast.StructDeclOne, ast.StructDecl:
			if _, err := b.structFields(decl); err != nil {
				return nil, err
			}
		case ast.VarDecl:
			p, err := b.bindParam(decl, contextFunction)
			if err != nil {
				return nil, err
			}
			params = append(params, p)
		case ast.EventVarDecl:
			p, err := b.bindParam(decl, contextEvent)
			if err != nil {
				return nil, err
			}
			params = append(params, p)
		default:
			return nil, b.fail(UnexpectedToken, tree.FirstToken(decl), "expected a parameter, found %s", tree.TokenSlice(tree.FirstToken(decl)))
		}
	}

	b.logger.Debug("bound parameters", zap.Int("params", len(params)), zap.Int("structs", len(b.structs)))
	return params, nil
}

func (b *Binder) bindParams(nodes []ast.NodeIndex, ctx paramContext) ([]item.Parameter, error) {
	params := make([]item.Parameter, 0, len(nodes))
	for _, n := range nodes {
		p, err := b.bindParam(n, ctx)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

func (b *Binder) bindEvent(n ast.NodeIndex) (item.Event, error) {
	full := b.tree.EventFull(n)
	inputs, err := b.bindParams(full.Params, contextEvent)
	if err != nil {
		return item.Event{}, err
	}
	return item.Event{
		Name:      b.tree.TokenSlice(full.Name),
		Inputs:    inputs,
		Anonymous: full.Anonymous != 0,
	}, nil
}

func (b *Binder) bindError(n ast.NodeIndex) (item.Error, error) {
	full := b.tree.ErrorFull(n)
	inputs, err := b.bindParams(full.Params, contextNone)
	if err != nil {
		return item.Error{}, err
	}
	return item.Error{Name: b.tree.TokenSlice(full.Name), Inputs: inputs}, nil
}
