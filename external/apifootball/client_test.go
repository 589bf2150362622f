package apifootball

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/football-api/internal/platform/logging"
	"github.com/riskibarqy/football-api/internal/platform/resilience"
	"github.com/riskibarqy/football-api/internal/usecase"
)

const testAPIKey = "secret-key-123"

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*ClientConfig)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ClientConfig{
		HTTPClient:   server.Client(),
		BaseURL:      server.URL + "/",
		APIKey:       testAPIKey,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

func TestClient_FetchEvents_SendsActionParams(t *testing.T) {
	t.Parallel()

	var gotQuery atomic.Value
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"match_id":"86392","match_status":"Finished"},"junk"]`))
	}, nil)

	records, err := client.FetchEvents(context.Background(), "152", "2025-08-01", "2026-05-31")
	if err != nil {
		t.Fatalf("fetch events: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if id, _ := records[0].String("match_id"); id != "86392" {
		t.Fatalf("unexpected match id %q", id)
	}

	query := gotQuery.Load().(url.Values)
	want := map[string]string{
		"action":    "get_events",
		"league_id": "152",
		"from":      "2025-08-01",
		"to":        "2026-05-31",
		"APIkey":    testAPIKey,
	}
	for key, value := range want {
		if got := query[key]; len(got) != 1 || got[0] != value {
			t.Fatalf("query %s=%v want %s", key, got, value)
		}
	}
}

func TestClient_Fetch_AcceptsDataEnvelope(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"team_key":"T1","team_name":"Arsenal","players":[{"player_id":"1"}]}]}`))
	}, nil)

	records, err := client.FetchTeams(context.Background(), "PL1")
	if err != nil {
		t.Fatalf("fetch teams: %v", err)
	}
	if len(records) != 1 || len(records[0].Records("players")) != 1 {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestClient_Fetch_InvalidShape(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing data":   `{"error":404,"message":"No league found"}`,
		"data not array": `{"data":{"team_key":"T1"}}`,
		"scalar body":    `"hello"`,
		"not json":       `<html>oops</html>`,
	}
	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}, nil)

			_, err := client.FetchLeagues(context.Background())
			if !errors.Is(err, usecase.ErrUpstreamInvalidResponse) {
				t.Fatalf("expected ErrUpstreamInvalidResponse, got %v", err)
			}
			if errors.Is(err, usecase.ErrUpstreamUnavailable) {
				t.Fatalf("shape errors must not be reported as connectivity errors")
			}
		})
	}
}

func TestClient_Fetch_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}, func(cfg *ClientConfig) { cfg.MaxRetries = 2 })

	records, err := client.FetchLeagues(context.Background())
	if err != nil {
		t.Fatalf("fetch leagues: %v", err)
	}
	if len(records) != 0 || calls.Load() != 2 {
		t.Fatalf("expected one retry, calls=%d records=%d", calls.Load(), len(records))
	}
}

func TestClient_Fetch_ClientErrorIsUnavailableAndRedacted(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid APIkey=` + testAPIKey + `"}`))
	}, func(cfg *ClientConfig) { cfg.MaxRetries = 3 })

	_, err := client.FetchLeagues(context.Background())
	if !errors.Is(err, usecase.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("non-retryable status must not be retried, calls=%d", calls.Load())
	}
	if strings.Contains(err.Error(), testAPIKey) {
		t.Fatalf("api key leaked: %v", err)
	}
}

func TestClient_Fetch_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		}
	})

	if _, err := client.FetchLeagues(context.Background()); !errors.Is(err, usecase.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	_, err := client.FetchLeagues(context.Background())
	if !errors.Is(err, usecase.ErrUpstreamUnavailable) || !strings.Contains(err.Error(), "circuit open") {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("open circuit must short-circuit, calls=%d", calls.Load())
	}
}

func TestClient_Fetch_SharedRequestSurvivesFirstCallerCancel(t *testing.T) {
	t.Parallel()

	started := make(chan struct{}, 2)
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		_, _ = w.Write([]byte(`[{"league_id":"152","league_name":"Premier League"}]`))
	}, nil)
	var releaseOnce sync.Once
	t.Cleanup(func() { releaseOnce.Do(func() { close(release) }) })

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.FetchLeagues(firstCtx)
		firstErr <- err
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("first request never reached the provider")
	}

	type fetchResult struct {
		records []usecase.ExternalRecord
		err     error
	}
	second := make(chan fetchResult, 1)
	go func() {
		records, err := client.FetchLeagues(context.Background())
		second <- fetchResult{records: records, err: err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstErr:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected first caller to see context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("first caller did not return after cancel")
	}

	releaseOnce.Do(func() { close(release) })
	select {
	case got := <-second:
		if got.err != nil {
			t.Fatalf("second caller failed: %v", got.err)
		}
		if len(got.records) != 1 {
			t.Fatalf("expected 1 league, got %d", len(got.records))
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("second caller never returned")
	}
}

func TestUpstreamError(t *testing.T) {
	t.Parallel()

	plain := upstreamError(ActionLeagues, context.Canceled)
	if !errors.Is(plain, usecase.ErrUpstreamUnavailable) || !errors.Is(plain, context.Canceled) {
		t.Fatalf("expected unavailable wrapping the cause, got %v", plain)
	}

	invalid := fmt.Errorf("%w: decode body", usecase.ErrUpstreamInvalidResponse)
	if got := upstreamError(ActionLeagues, invalid); got != invalid {
		t.Fatalf("invalid response must pass through, got %v", got)
	}

	unavailable := fmt.Errorf("%w: circuit open", usecase.ErrUpstreamUnavailable)
	if got := upstreamError(ActionLeagues, unavailable); got != unavailable {
		t.Fatalf("unavailable must pass through, got %v", got)
	}
}

func TestRedactAPIURL(t *testing.T) {
	t.Parallel()

	got := redactAPIURL("https://apiv3.apifootball.com/?action=get_teams&APIkey=" + testAPIKey + "&league_id=152")
	if strings.Contains(got, testAPIKey) || !strings.Contains(got, "APIkey=REDACTED") {
		t.Fatalf("unexpected redaction: %s", got)
	}
}
