package parser

import (
	"github.com/malphas-lang/humanabi/internal/ast"
	"github.com/malphas-lang/humanabi/internal/lexer"
)

type specifierState uint8

const (
	specNone specifierState = iota
	specSeenVisibility
	specSeenMutability
	specSeenBoth
)

// parseSpecifiers consumes the specifier keywords following a parameter
// list. At most one visibility and one mutability may appear; virtual and
// override are always accepted. Returns 0 when there are none.
func (p *Parser) parseSpecifiers() (ast.NodeIndex, error) {
	start := p.tokIdx
	state := specNone

	for {
		tag := p.curTag()
		switch {
		case tag.IsVisibility():
			switch state {
			case specNone:
				state = specSeenVisibility
			case specSeenMutability:
				state = specSeenBoth
			default:
				return 0, p.fail(DuplicateVisibility, p.tokIdx, "duplicate visibility specifier '%s'", tag)
			}
		case tag.IsMutability():
			switch state {
			case specNone:
				state = specSeenMutability
			case specSeenVisibility:
				state = specSeenBoth
			default:
				return 0, p.fail(DuplicateMutability, p.tokIdx, "duplicate state mutability specifier '%s'", tag)
			}
		case tag == lexer.VIRTUAL || tag == lexer.OVERRIDE:
		default:
			if p.tokIdx == start {
				return 0, nil
			}
			return p.addNode(ast.Node{
				Tag:       ast.Specifiers,
				MainToken: start,
				Data:      ast.TokenRange{Start: start, End: p.tokIdx},
			})
		}
		p.nextToken()
	}
}
