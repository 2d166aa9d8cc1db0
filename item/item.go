// Package item holds the structured interface items produced by humanabi:
// functions, events, errors and the special constructor, fallback and
// receive entry points, together with their resolved parameters.
package item

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Kind names an item variant. The values match the "type" field of the
// JSON ABI.
type Kind string

const (
	KindFunction    Kind = "function"
	KindEvent       Kind = "event"
	KindError       Kind = "error"
	KindConstructor Kind = "constructor"
	KindFallback    Kind = "fallback"
	KindReceive     Kind = "receive"
)

// Mutability is a function's state mutability.
type Mutability string

const (
	NonPayable Mutability = "nonpayable"
	Payable    Mutability = "payable"
	View       Mutability = "view"
	Pure       Mutability = "pure"
)

// Parameter is a resolved parameter, event field, error field, struct field
// or tuple component.
type Parameter struct {
	Name string
	Type abi.Type
	// TypeName is the type text handed to the resolver, e.g. "uint256" or
	// "tuple[2][]".
	TypeName string
	// InternalType records the struct a tuple came from, e.g.
	// "struct Order[]". Empty for anonymous tuples and elementary types.
	InternalType string
	Indexed      bool
	Components   []Parameter
}

// Clone returns a deep copy of p. Resolved types are immutable and shared.
func (p Parameter) Clone() Parameter {
	p.Components = CloneParameters(p.Components)
	return p
}

// CloneParameters deep-copies a parameter list.
func CloneParameters(params []Parameter) []Parameter {
	if params == nil {
		return nil
	}
	out := make([]Parameter, len(params))
	for i, p := range params {
		out[i] = p.Clone()
	}
	return out
}

// Item is one entry of an interface description.
type Item interface {
	Kind() Kind
}

// Function is a callable contract function.
type Function struct {
	Name            string
	Inputs          []Parameter
	Outputs         []Parameter
	StateMutability Mutability
}

// Event is a log entry a contract can emit.
type Event struct {
	Name      string
	Inputs    []Parameter
	Anonymous bool
}

// Error is a custom revert error.
type Error struct {
	Name   string
	Inputs []Parameter
}

// Constructor describes the deployment parameters.
type Constructor struct {
	Inputs          []Parameter
	StateMutability Mutability
}

// Fallback handles calls that match no function.
type Fallback struct {
	StateMutability Mutability
}

// Receive is the plain ether transfer entry point; it is always payable.
type Receive struct {
	StateMutability Mutability
}

func (Function) Kind() Kind    { return KindFunction }
func (Event) Kind() Kind       { return KindEvent }
func (Error) Kind() Kind       { return KindError }
func (Constructor) Kind() Kind { return KindConstructor }
func (Fallback) Kind() Kind    { return KindFallback }
func (Receive) Kind() Kind     { return KindReceive }

// List is an ordered interface description, in source order.
type List []Item

// Functions returns the function items of l.
func (l List) Functions() []Function { return collect[Function](l) }

// Events returns the event items of l.
func (l List) Events() []Event { return collect[Event](l) }

// Errors returns the error items of l.
func (l List) Errors() []Error { return collect[Error](l) }

func collect[T Item](l List) []T {
	var out []T
	for _, it := range l {
		if v, ok := it.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
