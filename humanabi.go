// Package humanabi compiles human-readable contract interface declarations
// such as
//
//	function transfer(address to, uint256 amount) external returns (bool)
//	event Transfer(address indexed from, address indexed to, uint256 value)
//
// into structured interface items.
package humanabi

import (
	"time"

	"go.uber.org/zap"

	"github.com/malphas-lang/humanabi/internal/ast"
	"github.com/malphas-lang/humanabi/internal/binder"
	"github.com/malphas-lang/humanabi/internal/parser"
	"github.com/malphas-lang/humanabi/item"
)

// Error categories, matched with errors.Is.
var (
	ErrParsing  = parser.ErrParsing
	ErrCapacity = parser.ErrCapacity
	ErrBinding  = binder.ErrBinding
)

type (
	// ParseError is returned for malformed source, including exhausted
	// node or token budgets.
	ParseError = parser.Error
	// BindError is returned for well-formed but invalid declarations.
	BindError = binder.Error
	// Tree is the syntax tree of one parse.
	Tree = ast.Tree
	// Resolver turns type text into a resolved type.
	Resolver = binder.Resolver
)

type Option func(*options)

type options struct {
	logger    *zap.Logger
	filename  string
	maxNodes  int
	maxTokens int
	resolver  Resolver
}

// WithLogger sets the logger for debug output. The default discards
// everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFilename attributes error locations to the given file.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxNodes bounds the syntax tree size. Zero means unlimited.
func WithMaxNodes(n int) Option {
	return func(o *options) { o.maxNodes = n }
}

// WithMaxTokens bounds the number of tokens in the source. Zero means
// unlimited.
func WithMaxTokens(n int) Option {
	return func(o *options) { o.maxTokens = n }
}

// WithResolver replaces the elementary type resolver, abi.NewType by
// default.
func WithResolver(r Resolver) Option {
	return func(o *options) { o.resolver = r }
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

func (o options) parserOptions() []parser.Option {
	return []parser.Option{
		parser.WithFilename(o.filename),
		parser.WithMaxNodes(o.maxNodes),
		parser.WithMaxTokens(o.maxTokens),
	}
}

func (o options) binderOptions() []binder.Option {
	return []binder.Option{
		binder.WithFilename(o.filename),
		binder.WithLogger(o.logger),
		binder.WithResolver(o.resolver),
	}
}

// Parse compiles a sequence of declarations. Struct declarations are
// resolved into the items that use them and are not returned themselves.
func Parse(src string, opts ...Option) (item.List, error) {
	o := buildOptions(opts)
	start := time.Now()

	tree, err := parser.ParseSource(src, o.parserOptions()...)
	if err != nil {
		o.logger.Debug("parse failed", zap.String("file", o.filename), zap.Error(err))
		return nil, err
	}
	items, err := bind(tree, o)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("parsed source",
		zap.String("file", o.filename),
		zap.Int("tokens", len(tree.Tokens)),
		zap.Int("nodes", tree.Len()),
		zap.Int("items", len(items)),
		zap.Duration("took", time.Since(start)),
	)
	return items, nil
}

// Bind lowers a tree returned by ParseTree. Parse is ParseTree followed by
// Bind.
func Bind(tree *Tree, opts ...Option) (item.List, error) {
	return bind(tree, buildOptions(opts))
}

func bind(tree *Tree, o options) (item.List, error) {
	items, err := binder.Bind(tree, o.binderOptions()...)
	if err != nil {
		o.logger.Debug("bind failed", zap.String("file", o.filename), zap.Error(err))
		return nil, err
	}
	return items, nil
}

// ParseParameters compiles a bare parameter list such as
// "address to, uint256 amount". Struct declarations may precede it.
func ParseParameters(src string, opts ...Option) ([]item.Parameter, error) {
	o := buildOptions(opts)
	tree, err := parser.ParseParameters(src, o.parserOptions()...)
	if err != nil {
		return nil, err
	}
	return binder.BindParameters(tree, o.binderOptions()...)
}

// ParseEventParameters is ParseParameters for event fields, which may be
// marked indexed.
func ParseEventParameters(src string, opts ...Option) ([]item.Parameter, error) {
	o := buildOptions(opts)
	tree, err := parser.ParseEventParameters(src, o.parserOptions()...)
	if err != nil {
		return nil, err
	}
	return binder.BindParameters(tree, o.binderOptions()...)
}

// ParseTree parses src without binding it, for inspection and tooling.
func ParseTree(src string, opts ...Option) (*Tree, error) {
	o := buildOptions(opts)
	return parser.ParseSource(src, o.parserOptions()...)
}
