package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/humanabi/item"
)

func TestObserveParse(t *testing.T) {
	m := New()
	m.ObserveParse(OutcomeOK, time.Millisecond, 40)
	m.ObserveParse(OutcomeOK, time.Millisecond, 12)
	m.ObserveParse(OutcomeBind, time.Millisecond, 0)

	assert.Equal(t, 2, testutil.CollectAndCount(m.parses))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.parses.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.parses.WithLabelValues(OutcomeBind)))
}

func TestObserveItems(t *testing.T) {
	m := New()
	m.ObserveItems(item.List{item.Function{Name: "a"}, item.Function{Name: "b"}, item.Event{Name: "E"}})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.items.WithLabelValues("function")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.items.WithLabelValues("event")))
}

func TestCacheCounters(t *testing.T) {
	m := New()
	m.CacheMiss()
	m.CacheHit()
	m.CacheHit()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cache.WithLabelValues("miss")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveRequest("POST", "/v1/parse", 200, 3*time.Millisecond)
	m.ObserveParse(OutcomeOK, time.Millisecond, 10)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `humanabi_http_requests_total{method="POST",route="/v1/parse",status="200"} 1`))
	assert.Contains(t, text, `humanabi_parses_total{outcome="ok"} 1`)
	assert.Contains(t, text, "humanabi_tree_nodes_bucket")
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.CacheHit()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.cache.WithLabelValues("hit")))
}
