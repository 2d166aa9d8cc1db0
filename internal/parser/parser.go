package parser

import (
	"github.com/malphas-lang/humanabi/internal/ast"
	"github.com/malphas-lang/humanabi/internal/lexer"
)

type Option func(*options)

type options struct {
	filename  string
	maxNodes  int
	maxTokens int
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithMaxNodes bounds the number of arena nodes a parse may allocate.
// Zero means unlimited.
func WithMaxNodes(n int) Option {
	return func(o *options) {
		o.maxNodes = n
	}
}

// WithMaxTokens bounds the number of tokens a source may contain, the EOF
// token included. Zero means unlimited.
func WithMaxTokens(n int) Option {
	return func(o *options) {
		o.maxTokens = n
	}
}

// Parser is a recursive descent parser over a fully scanned token list.
// Invariants:
//   - tokIdx always points at a valid token; the list ends with EOF and the
//     cursor never moves past it.
//   - scratch is a stack. A list production records its base height, pushes
//     its elements and truncates back to the base before returning, so
//     nested lists never observe each other's elements.
//   - Every node is appended after the nodes it refers to, except
//     reservations, which are committed or unreserved before the producing
//     function returns.
type Parser struct {
	src    string
	tokens []lexer.Token
	tokIdx ast.TokenIndex

	tree    *ast.Tree
	scratch []ast.NodeIndex

	filename string
	maxNodes int
}

func newParser(src string, opts []Option) (*Parser, error) {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	tokens := lexer.Tokenize(src)
	p := &Parser{
		src:      src,
		tokens:   tokens,
		filename: cfg.filename,
		maxNodes: cfg.maxNodes,
		tree:     ast.NewTree(src, tokens, len(tokens)/2+1),
	}

	if cfg.maxTokens > 0 && len(tokens) > cfg.maxTokens {
		p.tokIdx = ast.TokenIndex(cfg.maxTokens)
		return nil, p.capacityExceeded("token", cfg.maxTokens)
	}
	return p, nil
}

// ParseSource parses a sequence of declaration units.
func ParseSource(src string, opts ...Option) (*ast.Tree, error) {
	p, err := newParser(src, opts)
	if err != nil {
		return nil, err
	}
	return p.parseRoot(p.parseUnit)
}

// ParseParameters parses a bare function parameter list such as
// "address to, uint256 amount". Struct declarations may precede the list;
// the root holds the structs followed by the parameters.
func ParseParameters(src string, opts ...Option) (*ast.Tree, error) {
	p, err := newParser(src, opts)
	if err != nil {
		return nil, err
	}
	return p.parseBareParams(ast.VarDecl)
}

// ParseEventParameters is ParseParameters for event parameter lists, where
// each parameter may be marked indexed.
func ParseEventParameters(src string, opts ...Option) (*ast.Tree, error) {
	p, err := newParser(src, opts)
	if err != nil {
		return nil, err
	}
	return p.parseBareParams(ast.EventVarDecl)
}

func (p *Parser) parseRoot(parseDecl func() (ast.NodeIndex, error)) (*ast.Tree, error) {
	root, err := p.reserve(ast.Root)
	if err != nil {
		return nil, err
	}

	top := len(p.scratch)
	for p.curTag() != lexer.EOF {
		decl, err := parseDecl()
		if err != nil {
			return nil, err
		}
		p.scratch = append(p.scratch, decl)
	}
	decls := p.tree.AddExtra(p.scratch[top:]...)
	p.scratch = p.scratch[:top]

	p.tree.Commit(root, ast.Node{Tag: ast.Root, Data: ast.RootData{Decls: decls}})
	return p.tree, nil
}

func (p *Parser) parseBareParams(tag ast.Tag) (*ast.Tree, error) {
	inParams := false
	return p.parseRoot(func() (ast.NodeIndex, error) {
		if !inParams && p.curTag() == lexer.STRUCT {
			return p.parseStruct()
		}
		if inParams {
			if _, err := p.expect(lexer.COMMA); err != nil {
				if p.curTag() != lexer.UNKNOWN {
					err = p.fail(ExpectedCommaAfterParam, p.tokIdx, "expected ',' after parameter, found %s", p.describeCur())
				}
				return 0, err
			}
			if p.curTag() == lexer.EOF {
				return 0, p.fail(TrailingComma, p.tokIdx-1, "trailing comma at end of parameter list")
			}
		}
		inParams = true
		return p.parseParam(tag)
	})
}

// addNode appends a node, enforcing the node budget.
func (p *Parser) addNode(n ast.Node) (ast.NodeIndex, error) {
	if p.maxNodes > 0 && p.tree.Len() >= p.maxNodes {
		return 0, p.capacityExceeded("node", p.maxNodes)
	}
	return p.tree.Append(n), nil
}

func (p *Parser) reserve(tag ast.Tag) (ast.NodeIndex, error) {
	if p.maxNodes > 0 && p.tree.Len() >= p.maxNodes {
		return 0, p.capacityExceeded("node", p.maxNodes)
	}
	return p.tree.Reserve(tag), nil
}
