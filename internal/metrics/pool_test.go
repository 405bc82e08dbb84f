package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"pgtodo/internal/store"
)

type fixedStat store.PoolStat

func (f fixedStat) Stat() store.PoolStat { return store.PoolStat(f) }

func TestPoolCollector(t *testing.T) {
	c := NewPoolCollector(fixedStat{Acquired: 2, Idle: 1, Total: 3, Max: 5, Acquires: 10, Timeouts: 1, Releases: 8})

	if n := testutil.CollectAndCount(c); n != 7 {
		t.Errorf("expected 7 metrics, got %d", n)
	}

	want := `
# HELP pgtodo_pool_acquired_conns Connections currently checked out.
# TYPE pgtodo_pool_acquired_conns gauge
pgtodo_pool_acquired_conns 2
# HELP pgtodo_pool_acquire_timeouts_total Checkouts that gave up after the acquire timeout.
# TYPE pgtodo_pool_acquire_timeouts_total counter
pgtodo_pool_acquire_timeouts_total 1
`
	err := testutil.CollectAndCompare(c, strings.NewReader(want),
		"pgtodo_pool_acquired_conns", "pgtodo_pool_acquire_timeouts_total")
	if err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler(fixedStat{Max: 5}).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pgtodo_pool_max_conns 5") {
		t.Errorf("expected max conns in output, got:\n%s", rec.Body.String())
	}
}
