package item

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

func arguments(params []Parameter) abi.Arguments {
	args := make(abi.Arguments, 0, len(params))
	for _, p := range params {
		args = append(args, abi.Argument{Name: p.Name, Type: p.Type, Indexed: p.Indexed})
	}
	return args
}

func method(name, rawName string, kind abi.FunctionType, m Mutability, inputs, outputs []Parameter) abi.Method {
	return abi.NewMethod(name, rawName, kind, string(m), m == View || m == Pure, m == Payable, arguments(inputs), arguments(outputs))
}

// ABI converts l into a go-ethereum ABI ready for packing and unpacking.
// Overloaded functions, events and errors are renamed the way abi.JSON
// renames them: foo, foo0, foo1 and so on.
func (l List) ABI() (abi.ABI, error) {
	out := abi.ABI{
		Methods: make(map[string]abi.Method),
		Events:  make(map[string]abi.Event),
		Errors:  make(map[string]abi.Error),
	}
	var seenConstructor, seenFallback, seenReceive bool

	for _, it := range l {
		switch it := it.(type) {
		case Function:
			name := abi.ResolveNameConflict(it.Name, func(s string) bool { _, ok := out.Methods[s]; return ok })
			out.Methods[name] = method(name, it.Name, abi.Function, it.StateMutability, it.Inputs, it.Outputs)
		case Event:
			name := abi.ResolveNameConflict(it.Name, func(s string) bool { _, ok := out.Events[s]; return ok })
			out.Events[name] = abi.NewEvent(name, it.Name, it.Anonymous, arguments(it.Inputs))
		case Error:
			name := abi.ResolveNameConflict(it.Name, func(s string) bool { _, ok := out.Errors[s]; return ok })
			out.Errors[name] = abi.NewError(name, arguments(it.Inputs))
		case Constructor:
			if seenConstructor {
				return abi.ABI{}, fmt.Errorf("item: more than one constructor")
			}
			seenConstructor = true
			out.Constructor = method("", "", abi.Constructor, it.StateMutability, it.Inputs, nil)
		case Fallback:
			if seenFallback {
				return abi.ABI{}, fmt.Errorf("item: more than one fallback")
			}
			seenFallback = true
			out.Fallback = method("", "", abi.Fallback, it.StateMutability, nil, nil)
		case Receive:
			if seenReceive {
				return abi.ABI{}, fmt.Errorf("item: more than one receive")
			}
			seenReceive = true
			out.Receive = method("", "", abi.Receive, it.StateMutability, nil, nil)
		default:
			return abi.ABI{}, fmt.Errorf("item: unsupported item %T", it)
		}
	}
	return out, nil
}
