package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/football-api/internal/usecase"
)

const syncRunIDHeader = "X-Sync-Run-ID"

func (h *Handler) SyncLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncLeague")
	defer span.End()

	var req syncLeagueRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncService.SyncLeague(syncContext(ctx, span, 0), usecase.SyncLeagueInput{
		LeagueName:    req.LeagueName,
		LeagueCountry: req.LeagueCountry,
	})
	setSyncRunID(w, result.RunID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync league failed", "league_name", req.LeagueName, "league_country", req.LeagueCountry, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, leagueToDTO(result.League))
}

func (h *Handler) SyncTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncTeams")
	defer span.End()

	leagueID, err := parseLeagueID(r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncService.SyncTeamsAndPlayers(syncContext(ctx, span, leagueID), leagueID)
	setSyncRunID(w, result.RunID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync teams failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncTeamsToDTO(result))
}

func (h *Handler) SyncMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncMatches")
	defer span.End()

	leagueID, err := parseLeagueID(r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncService.SyncMatches(syncContext(ctx, span, leagueID), leagueID)
	setSyncRunID(w, result.RunID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync matches failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncMatchesToDTO(result))
}

func (h *Handler) GetSyncRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncRun")
	defer span.End()

	run, err := h.syncRunService.Get(ctx, r.PathValue("runID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncRunToDTO(run))
}

func (h *Handler) ListSyncRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncRuns")
	defer span.End()

	query := r.URL.Query()
	var leagueID *int64
	if raw := strings.TrimSpace(query.Get("leagueId")); raw != "" {
		parsed, err := parseLeagueID(raw)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		leagueID = &parsed
	}

	limit := 0
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	runs, err := h.syncRunService.List(ctx, leagueID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list sync runs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]syncRunDTO, 0, len(runs))
	for _, run := range runs {
		out = append(out, syncRunToDTO(run))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func parseLeagueID(raw string) (int64, error) {
	leagueID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || leagueID <= 0 {
		return 0, fmt.Errorf("%w: league id must be a positive integer", usecase.ErrInvalidInput)
	}
	return leagueID, nil
}

func setSyncRunID(w http.ResponseWriter, runID string) {
	if runID != "" {
		w.Header().Set(syncRunIDHeader, runID)
	}
}
