package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounters(t *testing.T) {
	r := New()

	r.InsightsReceived(3)
	r.InsightsReceived(0)
	r.TargetsCreated("null", 0)
	r.TargetsCreated("null", 0)
	r.SecuritiesChanged(2, 1)

	assert.InDelta(t, 3, testutil.ToFloat64(r.insights), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(r.targets.WithLabelValues("null")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.batches.WithLabelValues("null")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.changes.WithLabelValues("added")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.changes.WithLabelValues("removed")), 0)
}

func TestRecorderHandler(t *testing.T) {
	r := New()
	r.TargetsCreated("null", 0)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `lean_target_batches_total{model="null"} 1`)
}
