package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveRequest("GET", "/api/locais/:id", 200, 15*time.Millisecond)
	m.ObserveRequest("GET", "/api/locais/:id", 200, 5*time.Millisecond)
	m.ReservationTransition("confirmado")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `futspot_http_requests_total{method="GET",route="/api/locais/:id",status="200"} 2`)
	assert.Contains(t, body, `futspot_reservation_transitions_total{transition="confirmado"} 1`)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
		m.ReservationTransition("cancelado")
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ReservationTransition("solicitado")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `futspot_reservation_transitions_total{transition="solicitado"} 1`)
}
