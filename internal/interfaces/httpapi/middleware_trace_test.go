package httpapi

import "testing"

func TestShouldTraceRequest(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"/healthz":            false,
		" /healthz ":          false,
		"/livez":              false,
		"/readyz":             false,
		"/metrics":            false,
		"/METRICS":            false,
		"/v1/leagues/sync":    true,
		"/v1/teams/sync/12":   true,
		"/v1/matches/sync/12": true,
		"/v1/sync/runs":       true,
		"/v1/sync/runs/abc":   true,
		"/openapi.yaml":       true,
		"/docs":               true,
	}
	for path, want := range cases {
		if got := shouldTraceRequest(path); got != want {
			t.Fatalf("shouldTraceRequest(%q)=%t want %t", path, got, want)
		}
	}
}
