package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"
)

func TestMiddlewareRecordsRequests(t *testing.T) {
	reg := NewRegistry()

	router := chi.NewRouter()
	router.Use(reg.Middleware)
	router.Get("/v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/products/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	families, err := reg.Gather().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	var total *dto.MetricFamily
	for _, fam := range families {
		if fam.GetName() == "http_requests_total" {
			total = fam
		}
	}
	if total == nil {
		t.Fatal("http_requests_total not registered")
	}
	if len(total.Metric) != 1 {
		t.Fatalf("expected 1 series, got %d", len(total.Metric))
	}

	labels := map[string]string{}
	for _, pair := range total.Metric[0].Label {
		labels[pair.GetName()] = pair.GetValue()
	}
	if labels["route"] != "/v1/products/{id}" {
		t.Errorf("route label = %q, want route pattern", labels["route"])
	}
	if labels["status"] != "404" {
		t.Errorf("status label = %q, want 404", labels["status"])
	}
	if got := total.Metric[0].Counter.GetValue(); got != 1 {
		t.Errorf("counter = %v, want 1", got)
	}
}

func TestHandlerServesExposition(t *testing.T) {
	reg := NewRegistry()
	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
