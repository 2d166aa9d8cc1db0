package humanabi_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/malphas-lang/humanabi"
	"github.com/malphas-lang/humanabi/internal/diag"
	"github.com/malphas-lang/humanabi/item"
)

const erc20 = `
function name() view returns (string)
function symbol() view returns (string)
function decimals() view returns (uint8)
function totalSupply() view returns (uint256)
function balanceOf(address owner) view returns (uint256)
function transfer(address to, uint256 amount) returns (bool)
function transferFrom(address from, address to, uint256 amount) returns (bool)
function approve(address spender, uint256 amount) returns (bool)
function allowance(address owner, address spender) view returns (uint256)
event Transfer(address indexed from, address indexed to, uint256 value)
event Approval(address indexed owner, address indexed spender, uint256 value)
error ERC20InsufficientBalance(address sender, uint256 balance, uint256 needed)
`

func TestParseERC20(t *testing.T) {
	items, err := humanabi.Parse(erc20)
	require.NoError(t, err)
	require.Len(t, items, 12)

	assert.Len(t, items.Functions(), 9)
	assert.Len(t, items.Events(), 2)
	assert.Len(t, items.Errors(), 1)

	selectors := map[string]string{}
	for _, s := range items.Selectors() {
		selectors[s.Signature] = s.Selector
	}
	assert.Equal(t, "0xa9059cbb", selectors["transfer(address,uint256)"])
	assert.Equal(t, "0x23b872dd", selectors["transferFrom(address,address,uint256)"])
	assert.Equal(t, "0x095ea7b3", selectors["approve(address,uint256)"])
	assert.Equal(t, "0x70a08231", selectors["balanceOf(address)"])
	assert.Equal(t, "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", selectors["Transfer(address,address,uint256)"])
}

func TestABIPacking(t *testing.T) {
	items, err := humanabi.Parse(erc20)
	require.NoError(t, err)

	contract, err := items.ABI()
	require.NoError(t, err)

	to := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	data, err := contract.Pack("transfer", to, big.NewInt(1000))
	require.NoError(t, err)
	require.Len(t, data, 4+32+32)
	assert.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, data[:4])

	out, err := contract.Methods["transfer"].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	assert.Equal(t, to, out[0])
	assert.Equal(t, big.NewInt(1000), out[1])
}

func TestJSONMatchesGoEthereum(t *testing.T) {
	items, err := humanabi.Parse(`
struct Order { address maker; uint256 amount; }
function fill(Order[] calldata orders, bytes32 salt) payable returns (bool ok)
event Filled(address indexed maker, Order order)
`)
	require.NoError(t, err)

	data, err := json.Marshal(items)
	require.NoError(t, err)

	parsed, err := abi.JSON(strings.NewReader(string(data)))
	require.NoError(t, err)

	fill := parsed.Methods["fill"]
	assert.Equal(t, "fill((address,uint256)[],bytes32)", fill.Sig)
	assert.Equal(t, items.Functions()[0].Selector().Hex(), "0x"+common.Bytes2Hex(fill.ID))
	assert.Equal(t, items.Events()[0].Topic(), parsed.Events["Filled"].ID)
}

func TestParseParameters(t *testing.T) {
	params, err := humanabi.ParseParameters("struct Point { int x; int y; } Point[] path, string memory label")
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, "(int256,int256)[]", params[0].CanonicalType())
	assert.Equal(t, "struct Point[]", params[0].InternalType)
	assert.Equal(t, "label", params[1].Name)

	events, err := humanabi.ParseEventParameters("address indexed from, uint256 value")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].Indexed)
	assert.False(t, events[1].Indexed)
}

func TestErrorCategories(t *testing.T) {
	_, err := humanabi.Parse("function f(address a,)")
	require.Error(t, err)
	assert.True(t, errors.Is(err, humanabi.ErrParsing))
	assert.False(t, errors.Is(err, humanabi.ErrBinding))

	var perr *humanabi.ParseError
	require.True(t, errors.As(err, &perr))

	_, err = humanabi.Parse("receive() external")
	require.Error(t, err)
	assert.True(t, errors.Is(err, humanabi.ErrBinding))
	assert.False(t, errors.Is(err, humanabi.ErrParsing))

	var berr *humanabi.BindError
	require.True(t, errors.As(err, &berr))

	_, err = humanabi.Parse(erc20, humanabi.WithMaxNodes(8))
	assert.True(t, errors.Is(err, humanabi.ErrCapacity))

	_, err = humanabi.Parse(erc20, humanabi.WithMaxTokens(8))
	assert.True(t, errors.Is(err, humanabi.ErrCapacity))
}

func TestDiagnostics(t *testing.T) {
	_, err := humanabi.Parse("event E(uint a)\nfunction f(uint256 memory x)", humanabi.WithFilename("bad.abi"))
	require.Error(t, err)

	d, ok := diag.From(err)
	require.True(t, ok)
	assert.Equal(t, diag.StageBinder, d.Stage)
	assert.Equal(t, diag.CodeBindInvalidDataLocation, d.Code)
	assert.Equal(t, "bad.abi:2:20", d.Span.String())

	_, ok = diag.From(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, err := humanabi.Parse(erc20, humanabi.WithLogger(zap.New(core)), humanabi.WithFilename("erc20.abi"))
	require.NoError(t, err)

	entries := logs.FilterMessage("parsed source").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "erc20.abi", entries[0].ContextMap()["file"])
	assert.EqualValues(t, 12, entries[0].ContextMap()["items"])
}

func TestParseTree(t *testing.T) {
	tree, err := humanabi.ParseTree("function f(uint a) struct S { uint x; }")
	require.NoError(t, err)
	require.Len(t, tree.Decls(), 2)
	assert.Equal(t, "struct S { uint x; }", tree.NodeSource(tree.Decls()[1]))
}

func TestParseTreeThenBind(t *testing.T) {
	tree, err := humanabi.ParseTree(erc20)
	require.NoError(t, err)
	bound, err := humanabi.Bind(tree)
	require.NoError(t, err)

	direct, err := humanabi.Parse(erc20)
	require.NoError(t, err)
	assert.Equal(t, direct, bound)
}

func TestIdempotentParse(t *testing.T) {
	first, err := humanabi.Parse(erc20)
	require.NoError(t, err)
	second, err := humanabi.Parse(erc20)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func ExampleParse() {
	items, err := humanabi.Parse("function transfer(address to, uint256 amount) external returns (bool)")
	if err != nil {
		panic(err)
	}
	fn := items[0].(item.Function)
	fmt.Println(fn.Signature(), fn.Selector())
	// Output: transfer(address,uint256) 0xa9059cbb
}
