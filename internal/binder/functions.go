package binder

import (
	"github.com/malphas-lang/humanabi/internal/ast"
	"github.com/malphas-lang/humanabi/internal/lexer"
	"github.com/malphas-lang/humanabi/item"
)

// specifiers is the decoded specifier list of a prototype. Token fields are
// 0 when the specifier is absent.
type specifiers struct {
	visibility ast.TokenIndex
	mutability ast.TokenIndex
	start      ast.TokenIndex // first specifier, for error locations
}

// decodeSpecifiers splits the specifier list of n into visibility and
// mutability. The parser already rejects a second visibility keyword, so
// ConflictingVisibility is only reported for trees built by hand.
func (b *Binder) decodeSpecifiers(n ast.NodeIndex) (specifiers, error) {
	var s specifiers
	for _, tok := range b.tree.SpecifierTokens(n) {
		if s.start == 0 {
			s.start = tok
		}
		tag := b.tree.TokenTag(tok)
		switch {
		case tag.IsVisibility():
			if s.visibility != 0 {
				prev := b.tree.TokenTag(s.visibility)
				if (prev == lexer.PUBLIC && tag == lexer.EXTERNAL) || (prev == lexer.EXTERNAL && tag == lexer.PUBLIC) {
					return s, b.fail(ConflictingVisibility, tok, "'public' and 'external' are mutually exclusive")
				}
				return s, b.fail(ConflictingVisibility, tok, "conflicting visibility '%s' after '%s'", tag, prev)
			}
			s.visibility = tok
		case tag.IsMutability():
			if s.mutability != 0 {
				return s, b.fail(UnexpectedMutability, tok, "duplicate state mutability '%s'", tag)
			}
			s.mutability = tok
		}
	}
	return s, nil
}

// stateMutability maps the mutability token to its ABI name; no token means
// nonpayable.
func (b *Binder) stateMutability(tok ast.TokenIndex) item.Mutability {
	if tok == 0 {
		return item.NonPayable
	}
	switch b.tree.TokenTag(tok) {
	case lexer.VIEW:
		return item.View
	case lexer.PURE:
		return item.Pure
	case lexer.PAYABLE:
		return item.Payable
	default:
		return item.NonPayable
	}
}

func (b *Binder) bindFunctionLike(n ast.NodeIndex) (item.Item, error) {
	full := b.tree.FunctionFull(n)
	specs, err := b.decodeSpecifiers(full.Specifiers)
	if err != nil {
		return nil, err
	}
	mutability := b.stateMutability(specs.mutability)

	switch b.tree.TokenTag(full.Keyword) {
	case lexer.FUNCTION:
		inputs, err := b.bindParams(full.Params, contextFunction)
		if err != nil {
			return nil, err
		}
		outputs, err := b.bindParams(full.Returns, contextFunction)
		if err != nil {
			return nil, err
		}
		return item.Function{
			Name:            b.tree.TokenSlice(full.Name),
			Inputs:          inputs,
			Outputs:         outputs,
			StateMutability: mutability,
		}, nil

	case lexer.CONSTRUCTOR:
		if mutability != item.Payable && mutability != item.NonPayable {
			return nil, b.fail(UnexpectedMutability, specs.mutability, "constructor cannot be %s", mutability)
		}
		inputs, err := b.bindParams(full.Params, contextFunction)
		if err != nil {
			return nil, err
		}
		return item.Constructor{Inputs: inputs, StateMutability: mutability}, nil

	case lexer.FALLBACK:
		if specs.visibility != 0 && b.tree.TokenTag(specs.visibility) != lexer.EXTERNAL {
			return nil, b.fail(UnexpectedVisibility, specs.visibility, "fallback must be external, not %s", b.tree.TokenSlice(specs.visibility))
		}
		if mutability == item.View || mutability == item.Pure {
			return nil, b.fail(UnexpectedMutability, specs.mutability, "fallback cannot be %s", mutability)
		}
		if err := b.checkFallbackParams(full); err != nil {
			return nil, err
		}
		return item.Fallback{StateMutability: mutability}, nil

	case lexer.RECEIVE:
		if mutability != item.Payable {
			tok := specs.mutability
			if tok == 0 {
				tok = full.RParen
			}
			return nil, b.fail(UnexpectedMutability, tok, "receive must be payable")
		}
		if specs.visibility == 0 || b.tree.TokenTag(specs.visibility) != lexer.EXTERNAL {
			tok := specs.visibility
			if tok == 0 {
				tok = full.RParen
			}
			return nil, b.fail(UnexpectedVisibility, tok, "receive must be external")
		}
		return item.Receive{StateMutability: item.Payable}, nil
	}

	return nil, b.fail(UnexpectedToken, full.Keyword, "unexpected %s", b.tree.TokenSlice(full.Keyword))
}

// checkFallbackParams accepts "()" and "(bytes ...)".
func (b *Binder) checkFallbackParams(full ast.FullFunction) error {
	switch len(full.Params) {
	case 0:
		return nil
	case 1:
		p, err := b.bindParam(full.Params[0], contextFunction)
		if err != nil {
			return err
		}
		if p.TypeName == "bytes" {
			return nil
		}
	}
	return b.fail(InvalidFallbackParams, full.LParen, "fallback takes no parameters or a single bytes parameter")
}
