package item_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/humanabi/item"
)

func param(t *testing.T, name, typ string) item.Parameter {
	t.Helper()
	ty, err := abi.NewType(typ, "", nil)
	require.NoError(t, err)
	return item.Parameter{Name: name, Type: ty, TypeName: typ}
}

func tupleParam(t *testing.T, name, typ, internal string, comps ...item.Parameter) item.Parameter {
	t.Helper()
	marshaling := make([]abi.ArgumentMarshaling, 0, len(comps))
	for _, c := range comps {
		marshaling = append(marshaling, abi.ArgumentMarshaling{Name: c.Name, Type: c.TypeName})
	}
	ty, err := abi.NewType(typ, internal, marshaling)
	require.NoError(t, err)
	return item.Parameter{Name: name, Type: ty, TypeName: typ, InternalType: internal, Components: comps}
}

func TestFunctionSelector(t *testing.T) {
	f := item.Function{
		Name:            "transfer",
		Inputs:          []item.Parameter{param(t, "to", "address"), param(t, "amount", "uint256")},
		Outputs:         []item.Parameter{param(t, "", "bool")},
		StateMutability: item.NonPayable,
	}

	assert.Equal(t, "transfer(address,uint256)", f.Signature())
	assert.Equal(t, "0xa9059cbb", f.Selector().Hex())
}

func TestErrorAndEventIdentifiers(t *testing.T) {
	e := item.Error{Name: "Error", Inputs: []item.Parameter{param(t, "reason", "string")}}
	assert.Equal(t, "0x08c379a0", e.Selector().Hex())

	ev := item.Event{
		Name: "Transfer",
		Inputs: []item.Parameter{
			{Name: "from", Type: param(t, "", "address").Type, TypeName: "address", Indexed: true},
			{Name: "to", Type: param(t, "", "address").Type, TypeName: "address", Indexed: true},
			param(t, "value", "uint256"),
		},
	}
	assert.Equal(t, "Transfer(address,address,uint256)", ev.Signature())
	assert.Equal(t, "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", ev.Topic().Hex())
}

func TestTupleSignature(t *testing.T) {
	order := tupleParam(t, "orders", "tuple[]", "struct Order[]",
		param(t, "maker", "address"),
		param(t, "amount", "uint256"),
	)
	f := item.Function{Name: "fill", Inputs: []item.Parameter{order}}

	assert.Equal(t, "(address,uint256)[]", order.CanonicalType())
	assert.Equal(t, "fill((address,uint256)[])", f.Signature())
}

func TestCloneIsDeep(t *testing.T) {
	orig := tupleParam(t, "s", "tuple", "struct S", param(t, "a", "address"))
	clone := orig.Clone()
	clone.Components[0].Name = "changed"

	assert.Equal(t, "a", orig.Components[0].Name)
	assert.Nil(t, item.CloneParameters(nil))
}

func TestMarshalJSON(t *testing.T) {
	list := item.List{
		item.Function{
			Name:            "fill",
			Inputs:          []item.Parameter{tupleParam(t, "order", "tuple", "struct Order", param(t, "maker", "address"))},
			Outputs:         []item.Parameter{param(t, "", "bool")},
			StateMutability: item.Payable,
		},
		item.Event{Name: "Ping", Inputs: []item.Parameter{param(t, "who", "address")}},
		item.Error{Name: "Nope"},
		item.Constructor{StateMutability: item.NonPayable},
		item.Fallback{StateMutability: item.NonPayable},
		item.Receive{StateMutability: item.Payable},
	}

	data, err := json.Marshal(list)
	require.NoError(t, err)

	const want = `[
	{"type":"function","name":"fill","inputs":[{"name":"order","type":"tuple","internalType":"struct Order","components":[{"name":"maker","type":"address"}]}],"stateMutability":"payable","outputs":[{"name":"","type":"bool"}]},
	{"type":"event","name":"Ping","inputs":[{"name":"who","type":"address","indexed":false}],"anonymous":false},
	{"type":"error","name":"Nope","inputs":[]},
	{"type":"constructor","inputs":[],"stateMutability":"nonpayable"},
	{"type":"fallback","stateMutability":"nonpayable"},
	{"type":"receive","stateMutability":"payable"}
]`
	assert.JSONEq(t, want, string(data))

	// the output is accepted by go-ethereum's own ABI reader
	parsed, err := abi.JSON(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Contains(t, parsed.Methods, "fill")
	assert.Contains(t, parsed.Events, "Ping")
}

func TestMarshalParameterJSON(t *testing.T) {
	p := param(t, "who", "address")
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"who","type":"address"}`, string(data))

	p.Indexed = true
	data, err = json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"who","type":"address","indexed":true}`, string(data))
}

func TestListABI(t *testing.T) {
	list := item.List{
		item.Function{Name: "transfer", Inputs: []item.Parameter{param(t, "to", "address"), param(t, "amount", "uint256")}, StateMutability: item.NonPayable},
		item.Function{Name: "transfer", Inputs: []item.Parameter{param(t, "to", "address")}, StateMutability: item.NonPayable},
		item.Function{Name: "balance", StateMutability: item.View},
		item.Event{Name: "Transfer", Inputs: []item.Parameter{param(t, "value", "uint256")}},
		item.Error{Name: "Denied"},
		item.Receive{StateMutability: item.Payable},
	}

	contract, err := list.ABI()
	require.NoError(t, err)

	require.Contains(t, contract.Methods, "transfer")
	require.Contains(t, contract.Methods, "transfer0")
	assert.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, contract.Methods["transfer"].ID)
	assert.Equal(t, "transfer", contract.Methods["transfer0"].RawName)
	assert.True(t, contract.Methods["balance"].IsConstant())
	assert.Contains(t, contract.Events, "Transfer")
	assert.Contains(t, contract.Errors, "Denied")
	assert.True(t, contract.HasReceive())

	packed, err := contract.Pack("balance")
	require.NoError(t, err)
	assert.Len(t, packed, 4)

	_, err = item.List{item.Receive{}, item.Receive{}}.ABI()
	assert.Error(t, err)
}

func TestSelectors(t *testing.T) {
	list := item.List{
		item.Constructor{},
		item.Function{Name: "transfer", Inputs: []item.Parameter{param(t, "to", "address"), param(t, "amount", "uint256")}},
		item.Error{Name: "Error", Inputs: []item.Parameter{param(t, "", "string")}},
	}

	assert.Equal(t, []item.SelectorEntry{
		{Kind: item.KindFunction, Signature: "transfer(address,uint256)", Selector: "0xa9059cbb"},
		{Kind: item.KindError, Signature: "Error(string)", Selector: "0x08c379a0"},
	}, list.Selectors())

	assert.Len(t, list.Functions(), 1)
	assert.Len(t, list.Errors(), 1)
	assert.Empty(t, list.Events())
}
