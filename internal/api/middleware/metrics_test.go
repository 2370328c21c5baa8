package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotService/pkg/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New("slot-service", reg)

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/users/{userId}/busy-times", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/7/busy-times", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/8/busy-times", nil))

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, family := range families {
		if family.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			assert.Equal(t, "/users/{userId}/busy-times", labels["route"])
			assert.Equal(t, "418", labels["status"])
			assert.Equal(t, float64(2), metric.GetCounter().GetValue())
			found = true
		}
	}
	assert.True(t, found)
}

func TestMetricsMiddleware_NilMetrics(t *testing.T) {
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(nil))
	r.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
