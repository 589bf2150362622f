package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-api/internal/platform/logging"
	"github.com/riskibarqy/football-api/internal/platform/resilience"
	"github.com/riskibarqy/football-api/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://apiv3.apifootball.com/"
	maxBodyBytes   = 16 << 20

	ActionLeagues = "get_leagues"
	ActionTeams   = "get_teams"
	ActionEvents  = "get_events"
)

var apiKeyParamRegex = regexp.MustCompile(`APIkey=[^&\s"']+`)
var errTransient = crerr.New("apifootball transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	RatePerMinute  int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the apifootball action API. Every response body must be a
// JSON array of records or an object carrying such an array under "data".
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	maxRetries   int
	retryBackoff time.Duration
	limiter      *rate.Limiter
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	flight       singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	limit := rate.Inf
	if cfg.RatePerMinute > 0 {
		limit = rate.Limit(float64(cfg.RatePerMinute) / 60.0)
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	logger = logger.Named("apifootball")
	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
			logger.Warn("apifootball circuit state changed", "from", from, "to", to)
		}
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		limiter:      rate.NewLimiter(limit, 1),
		logger:       logger,
		breaker:      resilience.NewGuard(breakerCfg),
	}
}

func (c *Client) FetchLeagues(ctx context.Context) ([]usecase.ExternalRecord, error) {
	return c.Fetch(ctx, ActionLeagues, nil)
}

func (c *Client) FetchTeams(ctx context.Context, leagueRef string) ([]usecase.ExternalRecord, error) {
	return c.Fetch(ctx, ActionTeams, map[string]string{"league_id": leagueRef})
}

func (c *Client) FetchEvents(ctx context.Context, leagueRef, from, to string) ([]usecase.ExternalRecord, error) {
	return c.Fetch(ctx, ActionEvents, map[string]string{
		"league_id": leagueRef,
		"from":      from,
		"to":        to,
	})
}

// Fetch calls one provider action. Connectivity problems, non-2xx statuses and
// an open circuit wrap usecase.ErrUpstreamUnavailable; a body that is not a
// record list wraps usecase.ErrUpstreamInvalidResponse.
func (c *Client) Fetch(ctx context.Context, action string, params map[string]string) ([]usecase.ExternalRecord, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, fmt.Errorf("%w: action is required", usecase.ErrInvalidInput)
	}

	values := url.Values{}
	for key, value := range params {
		if value = strings.TrimSpace(value); value != "" {
			values.Set(key, value)
		}
	}
	values.Set("action", action)

	// Collapse identical concurrent calls; the key never carries the API key.
	flightKey := values.Encode()
	values.Set("APIkey", c.apiKey)
	fullURL := c.baseURL + "?" + values.Encode()

	// The shared request outlives any single caller; each caller stops
	// waiting when its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(flightKey, func() (any, error) {
		return c.guardedRequest(shared, action, fullURL)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, upstreamError(action, res.Err)
	}

	raw, ok := res.Val.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	records, err := decodeRecords(raw)
	if err != nil {
		c.logger.WarnContext(ctx, "apifootball response rejected",
			"action", action,
			"body", c.safeBody(raw),
			"error", err,
		)
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	return records, nil
}

func (c *Client) guardedRequest(ctx context.Context, action, fullURL string) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "apifootball circuit breaker rejected request", "action", action, "state", c.breaker.State())
		return nil, fmt.Errorf("%w: circuit open", usecase.ErrUpstreamUnavailable)
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if err != nil {
		if isCircuitFailure(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return nil, fmt.Errorf("%w: %s: %w", usecase.ErrUpstreamUnavailable, action, err)
	}
	c.breaker.RecordSuccess()
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		started := time.Now()
		raw, status, err := c.do(ctx, fullURL)
		switch {
		case err != nil:
			lastErr = err
		case status >= 200 && status < 300:
			c.logger.DebugContext(ctx, "apifootball request done",
				"url", redactAPIURL(fullURL),
				"status", status,
				"duration", time.Since(started).String(),
			)
			return raw, nil
		case isRetryableStatus(status):
			lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, status, c.safeBody(raw))
		default:
			return nil, fmt.Errorf("provider status=%d body=%s", status, c.safeBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "apifootball request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, fullURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %s", sanitizeSensitiveText(err.Error(), c.apiKey))
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: send request: %s", errTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response body: %v", errTransient, err)
	}

	return append([]byte(nil), buf.B...), resp.StatusCode, nil
}

// decodeRecords accepts a bare array or {"data": [...]}. Non-object entries
// inside the list are dropped.
func decodeRecords(raw []byte) ([]usecase.ExternalRecord, error) {
	var body any
	if err := sonic.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", usecase.ErrUpstreamInvalidResponse, err)
	}

	var items []any
	switch v := body.(type) {
	case []any:
		items = v
	case map[string]any:
		data, ok := v["data"].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: data is missing or not an array%s", usecase.ErrUpstreamInvalidResponse, providerMessage(v))
		}
		items = data
	default:
		return nil, fmt.Errorf("%w: unexpected body type %T", usecase.ErrUpstreamInvalidResponse, body)
	}

	out := make([]usecase.ExternalRecord, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, usecase.ExternalRecord(obj))
		}
	}
	return out, nil
}

func providerMessage(body map[string]any) string {
	message, ok := body["message"].(string)
	if !ok || strings.TrimSpace(message) == "" {
		return ""
	}
	return " (provider message: " + strings.TrimSpace(message) + ")"
}

// upstreamError keeps the provider error classes and reports anything else as
// the provider being unavailable.
func upstreamError(action string, err error) error {
	if crerr.Is(err, usecase.ErrUpstreamUnavailable) || crerr.Is(err, usecase.ErrUpstreamInvalidResponse) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", usecase.ErrUpstreamUnavailable, action, err)
}

func isCircuitFailure(err error) bool {
	return err != nil && crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "APIkey=REDACTED")
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return sanitizeSensitiveText(rawURL, "")
	}
	query := parsed.Query()
	if query.Has("APIkey") {
		query.Set("APIkey", "REDACTED")
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func (c *Client) safeBody(raw []byte) string {
	return sanitizeSensitiveText(abbreviateBody(raw), c.apiKey)
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
