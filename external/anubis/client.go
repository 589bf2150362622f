package anubis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/football-api/internal/domain/user"
	"github.com/riskibarqy/football-api/internal/platform/logging"
	"github.com/riskibarqy/football-api/internal/platform/resilience"
	"github.com/riskibarqy/football-api/internal/usecase"
	"golang.org/x/sync/singleflight"
)

const maxIntrospectBodyBytes = 1 << 20

var errAnubisTransient = crerr.New("anubis transient failure")

type ClientConfig struct {
	HTTPClient      *http.Client
	BaseURL         string
	IntrospectPath  string
	AdminKey        string
	CacheTTL        time.Duration
	CacheMaxEntries int
	CircuitBreaker  resilience.CircuitBreakerConfig
	Clock           clockwork.Clock
	Logger          *logging.Logger
}

// Client verifies bearer tokens through the Anubis introspection endpoint.
// Active principals are cached by token hash until the cache TTL or the
// token's exp, whichever comes first.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminKey      string
	cache         *principalCache
	breaker       *resilience.CircuitBreaker
	flight        singleflight.Group
	logger        *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 3 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	logger = logger.Named("anubis")
	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
			logger.Warn("anubis circuit state changed", "from", from, "to", to)
		}
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: introspectURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		cache:         newPrincipalCache(cfg.Clock, cfg.CacheTTL, cfg.CacheMaxEntries),
		breaker:       resilience.NewGuard(breakerCfg),
		logger:        logger,
	}
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool     `json:"active"`
	UserID string   `json:"user_id"`
	Sub    string   `json:"sub"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	Exp    int64    `json:"exp"`
}

type introspectEnvelope struct {
	Data *introspectResponse `json:"data"`
	introspectResponse
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: empty access token", usecase.ErrUnauthorized)
	}

	key := tokenCacheKey(token)
	if principal, ok := c.cache.get(key); ok {
		return principal, nil
	}

	v, err, _ := c.flight.Do(key, func() (any, error) {
		var result introspectResult
		err := c.breaker.Execute(func() error {
			var introspectErr error
			result, introspectErr = c.introspect(ctx, token)
			return introspectErr
		}, isTransient)
		if err != nil {
			return nil, err
		}
		c.cache.put(key, result.principal, result.expiresAt)
		return result.principal, nil
	})
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			return user.Principal{}, fmt.Errorf("%w: anubis circuit open", usecase.ErrDependencyUnavailable)
		}
		return user.Principal{}, err
	}

	return v.(user.Principal), nil
}

type introspectResult struct {
	principal user.Principal
	expiresAt time.Time
}

func isTransient(err error) bool {
	return crerr.Is(err, errAnubisTransient)
}

func (c *Client) introspect(ctx context.Context, token string) (introspectResult, error) {
	payload, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return introspectResult{}, fmt.Errorf("encode introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(payload))
	if err != nil {
		return introspectResult{}, fmt.Errorf("build introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("X-Admin-Key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return introspectResult{}, crerr.Mark(fmt.Errorf("%w: introspect request: %v", usecase.ErrDependencyUnavailable, err), errAnubisTransient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxIntrospectBodyBytes))
	if err != nil {
		return introspectResult{}, crerr.Mark(fmt.Errorf("%w: read introspect response: %v", usecase.ErrDependencyUnavailable, err), errAnubisTransient)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return introspectResult{}, fmt.Errorf("%w: token rejected", usecase.ErrUnauthorized)
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		c.logger.WarnContext(ctx, "anubis introspection unavailable", "status", resp.StatusCode)
		return introspectResult{}, crerr.Mark(fmt.Errorf("%w: anubis status %d", usecase.ErrDependencyUnavailable, resp.StatusCode), errAnubisTransient)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return introspectResult{}, fmt.Errorf("%w: anubis status %d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	}

	var envelope introspectEnvelope
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		return introspectResult{}, fmt.Errorf("%w: decode introspect response: %v", usecase.ErrDependencyUnavailable, err)
	}
	result := envelope.introspectResponse
	if envelope.Data != nil {
		result = *envelope.Data
	}

	if !result.Active {
		return introspectResult{}, fmt.Errorf("%w: token inactive", usecase.ErrUnauthorized)
	}
	userID := strings.TrimSpace(result.UserID)
	if userID == "" {
		userID = strings.TrimSpace(result.Sub)
	}
	if userID == "" {
		return introspectResult{}, fmt.Errorf("%w: token has no subject", usecase.ErrUnauthorized)
	}

	out := introspectResult{
		principal: user.Principal{
			UserID: userID,
			Email:  strings.TrimSpace(result.Email),
			Roles:  result.Roles,
		},
	}
	if result.Exp > 0 {
		out.expiresAt = time.Unix(result.Exp, 0)
	}
	return out, nil
}

// introspectURL joins IntrospectPath onto BaseURL unless the path is
// already absolute.
func introspectURL(baseURL, path string) string {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if path == "" {
		return baseURL
	}
	joined, err := url.JoinPath(baseURL, path)
	if err != nil {
		return baseURL + "/" + strings.TrimPrefix(path, "/")
	}
	return joined
}
