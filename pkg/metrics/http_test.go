package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestObserveAndScrape(t *testing.T) {
	m := NewHTTPMetrics()
	m.Observe(http.MethodGet, "/api/v1/shops", 200, 42*time.Millisecond)
	m.Observe(http.MethodGet, "/api/v1/shops", 200, 13*time.Millisecond)
	m.Observe(http.MethodPost, "/api/v1/checkins", 404, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `http_requests_total{method="GET",route="/api/v1/shops",status="200"} 2`) {
		t.Fatalf("counter not scraped:\n%s", body)
	}
	if !strings.Contains(body, `status="404"`) {
		t.Fatalf("404 sample missing:\n%s", body)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe(http.MethodGet, "/x", 200, time.Millisecond)
	if m.Handler() == nil {
		t.Fatalf("nil receiver should still return a handler")
	}
}
