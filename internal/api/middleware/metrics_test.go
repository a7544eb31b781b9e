package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Instrument(t *testing.T) {
	m := NewMetrics()
	handler := m.Instrument("/api/events")(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	for i := 0; i < 2; i++ {
		handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/events", nil))
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodPost, "/api/events", "202"))
	if got != 2 {
		t.Errorf("requests_total = %v, want 2", got)
	}
	if n := testutil.CollectAndCount(m.duration); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}
}
