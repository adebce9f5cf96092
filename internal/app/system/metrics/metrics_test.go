package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Delete("/api/stories/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodDelete, "/api/stories/"+id, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/stories/{id}", "DELETE", "404"))
	assert.Equal(t, float64(2), got)
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.Registered("director")
	m.Login(OutcomeSuccess)
	m.Login(OutcomeFailure)
	m.Upload("video", OutcomeSuccess, 100)
	m.Upload("", OutcomeFailure, 50)
	m.Upload("Video", OutcomeFailure, 0)
	m.Deleted()
	m.Swept(3)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.registrations.WithLabelValues("director")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.logins.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.uploads.WithLabelValues("unknown", OutcomeFailure)))
	assert.Equal(t, float64(100), testutil.ToFloat64(m.uploadBytes))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.deletions))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.sweptFiles))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Registered("producer")
	m.Login(OutcomeLimited)
	m.Upload("pdf", OutcomeSuccess, 1)
	m.Deleted()
	m.Swept(1)

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.Deleted()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), "storyhub_story_deletions_total 1"))
}
