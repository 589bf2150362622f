package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/football-api/internal/domain/league"
	"github.com/riskibarqy/football-api/internal/domain/user"
	"github.com/riskibarqy/football-api/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/football-api/internal/platform/id"
	"github.com/riskibarqy/football-api/internal/usecase"
)

type stubVerifier map[string]user.Principal

func (v stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	principal, ok := v[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return principal, nil
}

type stubProvider struct {
	leagues []usecase.ExternalRecord
	teams   []usecase.ExternalRecord
	events  []usecase.ExternalRecord
	err     error
}

func (p *stubProvider) FetchLeagues(context.Context) ([]usecase.ExternalRecord, error) {
	return p.leagues, p.err
}

func (p *stubProvider) FetchTeams(context.Context, string) ([]usecase.ExternalRecord, error) {
	return p.teams, p.err
}

func (p *stubProvider) FetchEvents(context.Context, string, string, string) ([]usecase.ExternalRecord, error) {
	return p.events, p.err
}

type testServer struct {
	router   http.Handler
	leagues  *memory.LeagueRepository
	provider *stubProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	provider := &stubProvider{}
	leagues := memory.NewLeagueRepository([]league.League{
		{ID: 1, ExternalRef: "152", Name: "Premier League", Country: "England"},
	})
	runs := usecase.NewSyncRunService(memory.NewSyncRunRepository(), id.NewUUIDGenerator(), nil)
	syncService := usecase.NewSyncService(
		provider,
		leagues,
		memory.NewTeamRepository(),
		memory.NewPlayerRepository(),
		memory.NewMatchRepository(),
		nil,
		runs,
		nil,
		usecase.SyncConfig{SeasonFrom: "2025-08-01", SeasonTo: "2026-05-31", SeasonTag: "2025/2026"},
		nil,
	)

	verifier := stubVerifier{
		"admin-token":  {UserID: "u-admin", Roles: []string{"admin"}},
		"viewer-token": {UserID: "u-viewer", Roles: []string{"viewer"}},
	}
	router := NewRouter(NewHandler(syncService, runs, nil), verifier, nil, RouterConfig{SwaggerEnabled: true})

	return &testServer{router: router, leagues: leagues, provider: provider}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode response: %v body=%s", err, rec.Body.String())
		}
	}
	return rec, envelope
}

func squad(teamKey, teamName string, players ...string) usecase.ExternalRecord {
	records := make([]any, 0, len(players))
	for i, name := range players {
		records = append(records, map[string]any{
			"player_id":   fmt.Sprintf("%s-P%d", teamKey, i+1),
			"player_name": name,
		})
	}
	return usecase.ExternalRecord{"team_key": teamKey, "team_name": teamName, "players": records}
}

func TestSyncTeams_CreatesThenUpdates(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	srv.provider.teams = []usecase.ExternalRecord{
		squad("T1", "Arsenal", "Saka", "Rice"),
		squad("T2", "Chelsea", "Palmer"),
	}

	rec, body := srv.do(t, http.MethodPost, "/v1/teams/sync/1", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data := body["data"].(map[string]any)
	if data["totalTeam"] != float64(2) || data["totalPlayer"] != float64(3) {
		t.Fatalf("unexpected first sync summary: %+v", data)
	}
	if errs, ok := data["errors"].([]any); !ok || len(errs) != 0 {
		t.Fatalf("expected empty errors array, got %v", data["errors"])
	}
	if rec.Header().Get(syncRunIDHeader) == "" {
		t.Fatalf("expected %s header", syncRunIDHeader)
	}

	rec, body = srv.do(t, http.MethodPost, "/v1/teams/sync/1", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on re-sync, got %d", rec.Code)
	}
	data = body["data"].(map[string]any)
	if data["totalTeam"] != float64(0) || data["teamsUpdated"] != float64(2) || data["playersUpdated"] != float64(3) {
		t.Fatalf("expected idempotent re-sync, got %+v", data)
	}

	runID := rec.Header().Get(syncRunIDHeader)
	rec, body = srv.do(t, http.MethodGet, "/v1/sync/runs/"+runID, "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for run lookup, got %d body=%s", rec.Code, rec.Body.String())
	}
	run := body["data"].(map[string]any)
	if run["status"] != "completed" || run["kind"] != "teams" || run["trigger"] != "api" {
		t.Fatalf("unexpected run: %+v", run)
	}

	rec, body = srv.do(t, http.MethodGet, "/v1/sync/runs?leagueId=1&limit=1", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for run list, got %d", rec.Code)
	}
	if items := body["data"].([]any); len(items) != 1 {
		t.Fatalf("expected one run with limit=1, got %d", len(items))
	}
}

func TestSyncTeams_Errors(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		reason string
	}{
		{name: "missing token", path: "/v1/teams/sync/1", status: http.StatusUnauthorized, reason: "unauthorized"},
		{name: "bad token", path: "/v1/teams/sync/1", token: "nope", status: http.StatusUnauthorized, reason: "unauthorized"},
		{name: "not admin", path: "/v1/teams/sync/1", token: "viewer-token", status: http.StatusForbidden, reason: "forbidden"},
		{name: "bad league id", path: "/v1/teams/sync/abc", token: "admin-token", status: http.StatusBadRequest, reason: "invalidInput"},
		{name: "unknown league", path: "/v1/teams/sync/99", token: "admin-token", status: http.StatusNotFound, reason: "notFound"},
		{name: "unknown league matches", path: "/v1/matches/sync/99", token: "admin-token", status: http.StatusNotFound, reason: "notFound"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := srv.do(t, http.MethodPost, tt.path, tt.token, "")
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d body=%s", tt.status, rec.Code, rec.Body.String())
			}
			errObj := body["error"].(map[string]any)
			reason := errObj["errors"].([]any)[0].(map[string]any)["reason"]
			if reason != tt.reason {
				t.Fatalf("expected reason %s, got %v", tt.reason, reason)
			}
		})
	}
}

func TestSyncTeams_UpstreamFailureIsBadRequest(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	srv.provider.err = fmt.Errorf("%w: provider status 500", usecase.ErrUpstreamUnavailable)

	rec, _ := srv.do(t, http.MethodPost, "/v1/teams/sync/1", "admin-token", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSyncLeague(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	srv.provider.leagues = []usecase.ExternalRecord{
		{"league_id": "302", "league_name": "La Liga", "country_name": "Spain", "league_season": "2025/2026"},
	}

	rec, body := srv.do(t, http.MethodPost, "/v1/leagues/sync", "admin-token", `{"leagueName":"la liga","leagueCountry":"SPAIN"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	data := body["data"].(map[string]any)
	if data["name"] != "La Liga" || data["externalRef"] != "302" {
		t.Fatalf("unexpected league: %+v", data)
	}

	rec, _ = srv.do(t, http.MethodPost, "/v1/leagues/sync", "admin-token", `{"leagueName":"La Liga","leagueCountry":"Spain"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second sync, got %d", rec.Code)
	}

	rec, _ = srv.do(t, http.MethodPost, "/v1/leagues/sync", "admin-token", `{"leagueName":"Serie A","leagueCountry":"Italy"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown league, got %d", rec.Code)
	}

	rec, _ = srv.do(t, http.MethodPost, "/v1/leagues/sync", "admin-token", `{"leagueName":"Serie A"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing country, got %d", rec.Code)
	}

	rec, _ = srv.do(t, http.MethodPost, "/v1/leagues/sync", "admin-token", `{"leagueName":"Serie A","leagueCountry":"Italy","extra":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestSyncMatches_SkipsUnknownTeams(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	srv.provider.teams = []usecase.ExternalRecord{squad("T1", "Arsenal"), squad("T2", "Chelsea")}
	if rec, _ := srv.do(t, http.MethodPost, "/v1/teams/sync/1", "admin-token", ""); rec.Code != http.StatusOK {
		t.Fatalf("seed teams: %d", rec.Code)
	}

	srv.provider.events = []usecase.ExternalRecord{
		{"match_id": "M1", "match_hometeam_id": "T1", "match_awayteam_id": "T2", "match_status": "Finished", "league_year": "2025/2026"},
		{"match_id": "M2", "match_hometeam_id": "T1", "match_awayteam_id": "T9", "league_year": "2025/2026"},
		{"match_id": "M3", "match_hometeam_id": "T2", "match_awayteam_id": "T1", "league_year": "2024/2025"},
	}

	rec, body := srv.do(t, http.MethodPost, "/v1/matches/sync/1", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data := body["data"].(map[string]any)
	if data["matchesAdded"] != float64(1) || data["matchesUpdated"] != float64(0) {
		t.Fatalf("unexpected match summary: %+v", data)
	}
	errs := data["errors"].([]any)
	if len(errs) != 1 || !strings.Contains(errs[0].(string), "Teams not found") {
		t.Fatalf("expected one skipped match, got %v", errs)
	}
}

func TestRecoverPanic_ReturnsGenericError(t *testing.T) {
	t.Parallel()

	handler := recoverPanic(nil, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("secret detail")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret detail") {
		t.Fatalf("panic detail leaked: %s", rec.Body.String())
	}
}
