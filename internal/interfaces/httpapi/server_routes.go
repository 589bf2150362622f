package httpapi

import "net/http"

type route struct {
	method  string
	path    string
	handler http.HandlerFunc
}

func (r route) pattern() string {
	return r.method + " " + r.path
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, cfg RouterConfig) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}
	if !cfg.SwaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func adminSyncRoutes(handler *Handler) []route {
	return []route{
		{http.MethodPost, "/v1/leagues/sync", handler.SyncLeague},
		{http.MethodPost, "/v1/teams/sync/{leagueID}", handler.SyncTeams},
		{http.MethodPost, "/v1/matches/sync/{leagueID}", handler.SyncMatches},
		{http.MethodGet, "/v1/sync/runs", handler.ListSyncRuns},
		{http.MethodGet, "/v1/sync/runs/{runID}", handler.GetSyncRun},
	}
}

func registerAdminSyncRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, adminRole string) {
	for _, rt := range adminSyncRoutes(handler) {
		mux.Handle(rt.pattern(), RequireAuth(verifier, RequireAdmin(adminRole, rt.handler)))
	}
}
