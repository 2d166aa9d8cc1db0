package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/malphas-lang/humanabi/internal/config"
)

func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseStdin(t *testing.T) {
	out, _, err := run(t, "function balanceOf(address owner) view returns (uint256)", "parse")
	require.NoError(t, err)

	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "balanceOf", items[0]["name"])
	assert.Equal(t, "view", items[0]["stateMutability"])
}

func TestParseParams(t *testing.T) {
	out, _, err := run(t, "address[5][] foo", "parse", "--params", "-")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"foo","type":"address[5][]"}]`, out)

	out, _, err = run(t, "bytes32 indexed id", "parse", "--event-params")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"id","type":"bytes32","indexed":true}]`, out)

	_, _, err = run(t, "", "parse", "--params", "--event-params")
	assert.Error(t, err)
}

func TestParseReportsDiagnostic(t *testing.T) {
	path := writeFile(t, "bad.abi", "function ok()\nfunction f(uint256 memory x)\n")
	_, stderr, err := run(t, "", "parse", path)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "error[BIND_INVALID_DATA_LOCATION]")
	assert.Contains(t, stderr, path+":2:20")
	assert.Contains(t, stderr, "function f(uint256 memory x)")
}

func TestCheck(t *testing.T) {
	good := writeFile(t, "good.abi", "event E(address indexed a)\nerror Nope()")
	bad := writeFile(t, "bad.abi", "function f(address a,)")

	out, _, err := run(t, "", "check", good)
	require.NoError(t, err)
	assert.Equal(t, "ok "+good+" (2 items)\n", out)

	out, stderr, err := run(t, "", "check", good, bad)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "ok "+good)
	assert.Contains(t, stderr, "PARSE_TRAILING_COMMA")

	_, _, err = run(t, "", "check", filepath.Join(t.TempDir(), "missing.abi"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errReported)
}

func TestSelectors(t *testing.T) {
	src := "function transfer(address to, uint256 amount)\nevent Transfer(address indexed from, address indexed to, uint256 value)"

	out, _, err := run(t, src, "selectors")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"function", "0xa9059cbb", "transfer(address,uint256)"}, strings.Fields(lines[0]))
	assert.Equal(t, "event", strings.Fields(lines[1])[0])

	out, _, err = run(t, src, "selectors", "-o", "json")
	require.NoError(t, err)
	var entries []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", entries[1]["selector"])
}

func TestTokens(t *testing.T) {
	out, _, err := run(t, "function f()", "tokens")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"1:1", "function", `"function"`}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1:10", "<identifier>", `"f"`}, strings.Fields(lines[1]))
	assert.Equal(t, "<eof>", strings.Fields(lines[4])[1])

	_, stderr, err := run(t, "function f(address a) #", "tokens")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "error[")
}

func TestAST(t *testing.T) {
	out, _, err := run(t, "function f(uint a)", "ast")
	require.NoError(t, err)
	assert.Contains(t, out, "Root")
	assert.Contains(t, out, `  FunctionProtoSimple [0..5] "function f(uint a)"`)
	assert.Contains(t, out, `ElementaryType [3..3] "uint"`)
}

func TestConfigFlag(t *testing.T) {
	cfg := writeFile(t, "humanabi.yaml", "output:\n  format: json\nparser:\n  max_nodes: 4\n")

	_, stderr, err := run(t, "function f(uint a, uint b, uint c)", "selectors", "--config", cfg)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "PARSE_CAPACITY_EXCEEDED")

	_, _, err = run(t, "", "parse", "-o", "yaml")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestServeModuleWiring(t *testing.T) {
	opts := config.Default()
	opts.Server.GinMode = "test"
	c := &cli{opts: opts, logger: zap.NewNop()}
	require.NoError(t, fx.ValidateApp(c.serveModule()))
}
