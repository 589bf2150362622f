package observability

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/football-api/internal/config"
	"github.com/riskibarqy/football-api/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap/zapcore"
)

const (
	betterStackQueueSize     = 1024
	betterStackBatchSize     = 50
	betterStackFlushInterval = time.Second
)

// newBetterStackCore returns a zap core shipping entries at or above
// BETTERSTACK_MIN_LEVEL to Better Stack, plus the func draining its queue.
// It returns a nil core when shipping is disabled.
func newBetterStackCore(cfg config.Config) (zapcore.Core, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.BetterStackEnabled {
		return nil, noop, nil
	}

	endpoint := normalizeBetterStackEndpoint(cfg.BetterStackEndpoint)
	if endpoint == "" {
		return nil, nil, fmt.Errorf("betterstack endpoint cannot be empty")
	}

	shipper := newBetterStackShipper(endpoint, strings.TrimSpace(cfg.BetterStackToken), cfg.BetterStackTimeout)
	core := logging.NewJSONCore(cfg.BetterStackMinLevel, zapcore.AddSync(shipper))

	return core, shipper.Close, nil
}

func normalizeBetterStackEndpoint(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	return "https://" + value
}

// betterStackShipper queues encoded entries and posts them as JSON arrays.
// A full queue drops entries instead of blocking the caller.
type betterStackShipper struct {
	endpoint      string
	token         string
	timeout       time.Duration
	batchSize     int
	flushInterval time.Duration
	client        *fasthttp.Client
	queue         chan []byte
	queueMu       sync.RWMutex
	closeOnce     sync.Once
	closed        atomic.Bool
	wg            sync.WaitGroup
	dropped       atomic.Uint64
}

func newBetterStackShipper(endpoint, token string, timeout time.Duration) *betterStackShipper {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	s := &betterStackShipper{
		endpoint:      endpoint,
		token:         token,
		timeout:       timeout,
		batchSize:     betterStackBatchSize,
		flushInterval: betterStackFlushInterval,
		client: &fasthttp.Client{
			Name:                "football-api-betterstack",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		queue: make(chan []byte, betterStackQueueSize),
	}
	s.wg.Add(1)
	go s.run()

	return s
}

func (s *betterStackShipper) Write(p []byte) (int, error) {
	payload := bytes.TrimSpace(p)
	if len(payload) == 0 {
		return len(p), nil
	}

	s.queueMu.RLock()
	defer s.queueMu.RUnlock()
	if s.closed.Load() {
		return len(p), nil
	}

	// zap reuses its buffer once Write returns.
	copied := make([]byte, len(payload))
	copy(copied, payload)

	select {
	case s.queue <- copied:
	default:
		dropped := s.dropped.Add(1)
		if dropped == 1 || dropped%100 == 0 {
			fmt.Fprintf(os.Stderr, "betterstack queue full; dropped logs=%d\n", dropped)
		}
	}

	return len(p), nil
}

func (s *betterStackShipper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	batch := bytebufferpool.Get()
	defer bytebufferpool.Put(batch)
	count := 0

	flush := func() {
		if count == 0 {
			return
		}
		_ = batch.WriteByte(']')
		s.send(batch.B)
		batch.Reset()
		count = 0
	}

	for {
		select {
		case payload, ok := <-s.queue:
			if !ok {
				flush()
				return
			}
			if count == 0 {
				_ = batch.WriteByte('[')
			} else {
				_ = batch.WriteByte(',')
			}
			_, _ = batch.Write(payload)
			count++
			if count >= s.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (s *betterStackShipper) send(body []byte) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	req.SetBody(body)

	if err := s.client.DoTimeout(req, resp, s.timeout); err != nil {
		fmt.Fprintf(os.Stderr, "betterstack send logs failed: %v\n", err)
		return
	}
	if resp.StatusCode() >= fasthttp.StatusMultipleChoices {
		fmt.Fprintf(os.Stderr, "betterstack send logs got non-2xx status=%d\n", resp.StatusCode())
	}
}

// Close stops accepting entries and waits until the queue is flushed or ctx ends.
func (s *betterStackShipper) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.closeOnce.Do(func() {
		s.queueMu.Lock()
		s.closed.Store(true)
		close(s.queue)
		s.queueMu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain betterstack queue: %w", ctx.Err())
	}
}

func (s *betterStackShipper) Sync() error {
	return nil
}
