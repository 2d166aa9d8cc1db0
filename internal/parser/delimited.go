package parser

import (
	"github.com/malphas-lang/humanabi/internal/ast"
	"github.com/malphas-lang/humanabi/internal/lexer"
)

// Span is the storage shape chosen for a parsed list: lists of zero or one
// element are stored inline in the owning node, longer lists are committed
// to extra data.
type Span struct {
	multi bool
	one   ast.NodeIndex
	rng   ast.Range
}

// ZeroOrOne returns the inline shape; n is 0 for an empty list.
func ZeroOrOne(n ast.NodeIndex) Span { return Span{one: n} }

// Multi returns the extra-data shape.
func Multi(r ast.Range) Span { return Span{multi: true, rng: r} }

// IsMulti reports whether the list was committed to extra data.
func (s Span) IsMulti() bool { return s.multi }

// Node returns the inline element of a ZeroOrOne span.
func (s Span) Node() ast.NodeIndex { return s.one }

// Range returns the extra-data range of a Multi span.
func (s Span) Range() ast.Range { return s.rng }

// toRange commits the list to extra data whatever its shape.
func (s Span) toRange(tree *ast.Tree) ast.Range {
	if s.multi {
		return s.rng
	}
	if s.one == 0 {
		return tree.AddExtra()
	}
	return tree.AddExtra(s.one)
}

type delimitedConfig struct {
	Closing   lexer.TokenType
	Separator lexer.TokenType

	// RejectEmpty fails an empty list with EmptyKind.
	RejectEmpty  bool
	EmptyKind    ErrorKind
	EmptyMessage string
}

// parseDelimited parses separated elements up to, but not including, the
// closing token. Elements are accumulated on the scratch stack and committed
// according to the zero/one/many rule.
func (p *Parser) parseDelimited(cfg delimitedConfig, parseItem func() (ast.NodeIndex, error)) (Span, error) {
	if cfg.Separator == 0 {
		cfg.Separator = lexer.COMMA
	}

	if p.curTag() == cfg.Closing {
		if cfg.RejectEmpty {
			return Span{}, p.fail(cfg.EmptyKind, p.tokIdx, "%s", cfg.EmptyMessage)
		}
		return ZeroOrOne(0), nil
	}

	top := len(p.scratch)
	defer func() { p.scratch = p.scratch[:top] }()

	for {
		item, err := parseItem()
		if err != nil {
			return Span{}, err
		}
		p.scratch = append(p.scratch, item)

		switch p.curTag() {
		case cfg.Separator:
			sep := p.nextToken()
			if p.curTag() == cfg.Closing {
				return Span{}, p.fail(TrailingComma, sep, "trailing '%s' before '%s'", cfg.Separator, cfg.Closing)
			}
			continue
		case cfg.Closing:
		case lexer.UNKNOWN:
			return Span{}, p.unexpected("")
		default:
			return Span{}, p.fail(ExpectedCommaAfterParam, p.tokIdx, "expected '%s' or '%s' after parameter, found %s", cfg.Separator, cfg.Closing, p.describeCur())
		}
		break
	}

	items := p.scratch[top:]
	if len(items) == 1 {
		return ZeroOrOne(items[0]), nil
	}
	return Multi(p.tree.AddExtra(items...)), nil
}
