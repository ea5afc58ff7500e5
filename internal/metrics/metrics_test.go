package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/pictactoe-backend/internal/entity"
)

func TestMetrics(t *testing.T) {
	// Given: fresh metrics
	m := New(Namespace)

	// When: events are recorded
	m.MatchFinished(entity.WinnerP1)
	m.MatchFinished(entity.WinnerP1)
	m.MatchFinished(entity.WinnerDraw)
	m.MovePlaced(true)
	m.MovePlaced(false)
	m.StoreError("append")
	m.ClientConnected()
	m.ClientConnected()
	m.ClientDisconnected()

	// Then: the counters reflect them
	assert.InDelta(t, 2, testutil.ToFloat64(m.matchesFinished.WithLabelValues("P1")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.matchesFinished.WithLabelValues("Draw")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.moves.WithLabelValues("rejected")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.storeErrors.WithLabelValues("append")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.wsClients), 0)
}

func TestMetrics_Handler(t *testing.T) {
	// Given: two independent instances
	first := New(Namespace)
	_ = New(Namespace)
	first.MatchFinished(entity.WinnerP2)

	// When: scraping the first one
	rec := httptest.NewRecorder()
	first.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Then: the counter is exported
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pictactoe_matches_finished_total{winner="P2"} 1`)
}
