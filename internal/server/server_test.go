package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/humanabi/internal/config"
	"github.com/malphas-lang/humanabi/internal/metrics"
)

func newTestServer(t *testing.T, tweak ...func(*config.Options)) *Server {
	t.Helper()
	opts := config.Default()
	opts.Server.GinMode = "test"
	opts.Server.Listen = "127.0.0.1:0"
	for _, f := range tweak {
		f(opts)
	}
	s, err := New(opts, nil, metrics.New())
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestParse(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/parse", `{"source":"struct P { uint x; } function f(P p) view returns (bool)"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	const want = `{"items":[{"type":"function","name":"f","inputs":[{"name":"p","type":"tuple","internalType":"struct P","components":[{"name":"x","type":"uint256"}]}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"}]}`
	assert.JSONEq(t, want, rec.Body.String())
}

func TestParseOnlyStructs(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/parse", `{"source":"struct P { uint x; }"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		stage  string
		code   string
	}{
		{"trailing comma", "function f(address a,)", "parser", "PARSE_TRAILING_COMMA"},
		{"receive not payable", "receive() external", "binder", "BIND_UNEXPECTED_MUTABILITY"},
		{"unknown type", "function f(Missing m)", "binder", "BIND_INVALID_TYPE"},
	}
	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(map[string]string{"source": tt.source, "filename": "in.abi"})
			require.NoError(t, err)

			rec := do(t, s, http.MethodPost, "/v1/parse", string(body))
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

			e := decode(t, rec)["error"].(map[string]any)
			assert.Equal(t, tt.stage, e["stage"])
			assert.Equal(t, tt.code, e["code"])
			assert.EqualValues(t, 1, e["line"])
			assert.NotEmpty(t, e["message"])
		})
	}
}

func TestCapacityFromConfig(t *testing.T) {
	s := newTestServer(t, func(o *config.Options) { o.Parser.MaxNodes = 4 })
	rec := do(t, s, http.MethodPost, "/v1/parse", `{"source":"function f(uint a, uint b, uint c)"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "PARSE_CAPACITY_EXCEEDED", decode(t, rec)["error"].(map[string]any)["code"])
}

func TestBadRequests(t *testing.T) {
	s := newTestServer(t, func(o *config.Options) { o.Server.MaxBodyBytes = 64 })

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/v1/parse", `{"source":`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/v1/parse", `{}`).Code)

	big := fmt.Sprintf(`{"source":%q}`, strings.Repeat("function f() ", 20))
	assert.Equal(t, http.StatusRequestEntityTooLarge, do(t, s, http.MethodPost, "/v1/parse", big).Code)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/v1/nothing", "").Code)
}

func TestSelectors(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/selectors", `{"source":"function transfer(address to, uint256 amount) error Error(string)"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Selectors []struct {
			Kind      string `json:"kind"`
			Signature string `json:"signature"`
			Selector  string `json:"selector"`
		} `json:"selectors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Selectors, 2)
	assert.Equal(t, "transfer(address,uint256)", out.Selectors[0].Signature)
	assert.Equal(t, "0xa9059cbb", out.Selectors[0].Selector)
	assert.Equal(t, "error", out.Selectors[1].Kind)
	assert.Equal(t, "0x08c379a0", out.Selectors[1].Selector)
}

func TestParameters(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/parameters", `{"source":"address[5][] foo, string memory s"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"parameters":[{"name":"foo","type":"address[5][]"},{"name":"s","type":"string"}]}`, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/v1/parameters", `{"source":"address indexed from","event":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"parameters":[{"name":"from","type":"address","indexed":true}]}`, rec.Body.String())

	// indexed is an event-only modifier
	rec = do(t, s, http.MethodPost, "/v1/parameters", `{"source":"address indexed from"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestResultCache(t *testing.T) {
	s := newTestServer(t, func(o *config.Options) { o.Server.CacheSize = 2 })
	body := `{"source":"function f(uint a)"}`

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/v1/parse", body).Code)
	}
	assert.Equal(t, 1, s.cache.len())

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	text := rec.Body.String()
	assert.Contains(t, text, `humanabi_cache_lookups_total{result="hit"} 2`)
	assert.Contains(t, text, `humanabi_cache_lookups_total{result="miss"} 1`)
	assert.Contains(t, text, `humanabi_parses_total{outcome="ok"} 1`)
	assert.Contains(t, text, `humanabi_items_total{kind="function"} 1`)
}

func TestCacheDisabled(t *testing.T) {
	s := newTestServer(t, func(o *config.Options) { o.Server.CacheSize = 0 })
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/v1/parse", `{"source":"function f()"}`).Code)
	}
	assert.Zero(t, s.cache.len())
}

func TestStartStop(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.Start(context.Background()))

	url := fmt.Sprintf("http://%s/v1/parse", s.Addr())
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(`{"source":"function f()"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
