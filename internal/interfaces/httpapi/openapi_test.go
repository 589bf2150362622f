package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type openAPIDocument struct {
	OpenAPI string                               `yaml:"openapi"`
	Paths   map[string]map[string]map[string]any `yaml:"paths"`
}

func TestOpenAPI_DocumentsEveryAdminRoute(t *testing.T) {
	t.Parallel()

	var doc openAPIDocument
	if err := yaml.Unmarshal(openAPISpec, &doc); err != nil {
		t.Fatalf("parse openapi.yaml: %v", err)
	}
	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		t.Fatalf("unexpected openapi version %q", doc.OpenAPI)
	}

	for _, rt := range adminSyncRoutes(&Handler{}) {
		ops, ok := doc.Paths[rt.path]
		if !ok {
			t.Fatalf("path %s is not documented", rt.path)
		}
		op, ok := ops[strings.ToLower(rt.method)]
		if !ok {
			t.Fatalf("%s is not documented", rt.pattern())
		}
		if _, ok := op["security"]; !ok {
			t.Fatalf("%s must declare bearer security", rt.pattern())
		}
	}

	for _, path := range []string{"/healthz", "/metrics"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Fatalf("system path %s is not documented", path)
		}
	}
}

func TestOpenAPI_ServedWhenSwaggerEnabled(t *testing.T) {
	t.Parallel()

	handler := NewHandler(nil, nil, nil)
	verifier := stubVerifier{}

	enabled := NewRouter(handler, verifier, nil, RouterConfig{SwaggerEnabled: true})
	rec := httptest.NewRecorder()
	enabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/v1/teams/sync/{leagueID}") {
		t.Fatalf("expected openapi document, got %d", rec.Code)
	}

	revalidate := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	revalidate.Header.Set("If-None-Match", rec.Header().Get("ETag"))
	rec = httptest.NewRecorder()
	enabled.ServeHTTP(rec, revalidate)
	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304 for matching etag, got %d", rec.Code)
	}

	disabled := NewRouter(handler, verifier, nil, RouterConfig{})
	rec = httptest.NewRecorder()
	disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with swagger disabled, got %d", rec.Code)
	}
}

func TestRouter_ServesMetricsHandler(t *testing.T) {
	t.Parallel()

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("football_sync_runs_total 0\n"))
	})
	router := NewRouter(NewHandler(nil, nil, nil), stubVerifier{}, nil, RouterConfig{MetricsHandler: metrics})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "football_sync_runs_total") {
		t.Fatalf("unexpected metrics response %d %s", rec.Code, rec.Body.String())
	}
}
