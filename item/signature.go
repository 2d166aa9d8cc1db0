package item

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// CanonicalType returns the type as it appears in signatures: tuples are
// expanded to their component types, e.g. "(address,uint256)[]".
func (p Parameter) CanonicalType() string {
	if s := p.Type.String(); s != "" {
		return s
	}
	return p.TypeName
}

func signature(name string, params []Parameter) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.CanonicalType())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Selector is the first four bytes of the Keccak-256 hash of a signature.
type Selector [4]byte

// Hex returns the 0x-prefixed hex form.
func (s Selector) Hex() string { return hexutil.Encode(s[:]) }

func (s Selector) String() string { return s.Hex() }

func selectorOf(sig string) Selector {
	var s Selector
	copy(s[:], crypto.Keccak256([]byte(sig))[:4])
	return s
}

// Signature returns the canonical signature, e.g. "transfer(address,uint256)".
func (f Function) Signature() string { return signature(f.Name, f.Inputs) }

// Selector returns the 4-byte function selector.
func (f Function) Selector() Selector { return selectorOf(f.Signature()) }

// Signature returns the canonical signature of the error.
func (e Error) Signature() string { return signature(e.Name, e.Inputs) }

// Selector returns the 4-byte selector used in revert data.
func (e Error) Selector() Selector { return selectorOf(e.Signature()) }

// Signature returns the canonical signature of the event.
func (e Event) Signature() string { return signature(e.Name, e.Inputs) }

// Topic returns the event's first log topic. Anonymous events do not emit
// it, but it is still well defined.
func (e Event) Topic() common.Hash { return crypto.Keccak256Hash([]byte(e.Signature())) }

// Signature returns "constructor(...)" with the canonical input types.
func (c Constructor) Signature() string { return signature("constructor", c.Inputs) }

// SelectorEntry describes the identifier of one item.
type SelectorEntry struct {
	Kind      Kind   `json:"kind"`
	Signature string `json:"signature"`
	// Selector is the 4-byte selector for functions and errors, or the
	// 32-byte topic for events.
	Selector string `json:"selector"`
}

// Selectors lists the identifiers of every function, error and event in l.
// Constructor, fallback and receive have no selector and are skipped.
func (l List) Selectors() []SelectorEntry {
	var out []SelectorEntry
	for _, it := range l {
		switch it := it.(type) {
		case Function:
			out = append(out, SelectorEntry{Kind: KindFunction, Signature: it.Signature(), Selector: it.Selector().Hex()})
		case Error:
			out = append(out, SelectorEntry{Kind: KindError, Signature: it.Signature(), Selector: it.Selector().Hex()})
		case Event:
			out = append(out, SelectorEntry{Kind: KindEvent, Signature: it.Signature(), Selector: it.Topic().Hex()})
		}
	}
	return out
}
