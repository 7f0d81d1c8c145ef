package readings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"satmon/internal/metrics"
	"satmon/internal/transport"
)

const (
	DefaultTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
)

// FetchErrorKind classifies why a live fetch failed.
type FetchErrorKind string

const (
	FetchErrorTransport FetchErrorKind = "transport"
	FetchErrorStatus    FetchErrorKind = "status"
	FetchErrorDecode    FetchErrorKind = "decode"
)

type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchErrorStatus {
		return fmt.Sprintf("readings fetch: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("readings fetch %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type SourceConfig struct {
	URL      string
	Username string
	Password string
	Timeout  time.Duration
	Baseline Baseline
}

type SourceOption func(*Source)

// WithHTTPClient replaces the default HTTP/2-capable client.
func WithHTTPClient(c *http.Client) SourceOption {
	return func(s *Source) { s.client = c }
}

// WithRand sets the random source used for synthetic fallback values.
func WithRand(rng *rand.Rand) SourceOption {
	return func(s *Source) { s.rng = rng }
}

func WithClock(now func() time.Time) SourceOption {
	return func(s *Source) { s.now = now }
}

// Source fetches the raw reading list from the telemetry endpoint. It never
// fails: any problem yields a synthetic snapshot instead.
type Source struct {
	cfg    SourceConfig
	client *http.Client
	logger *slog.Logger
	now    func() time.Time

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

func NewSource(cfg SourceConfig, logger *slog.Logger, opts ...SourceOption) *Source {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Baseline == (Baseline{}) {
		cfg.Baseline = DefaultBaseline
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Source{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		c, err := transport.NewHTTPClient(cfg.Timeout)
		if err != nil {
			logger.Warn("http2 not enabled for readings client", "err", err)
			c = &http.Client{Timeout: cfg.Timeout}
		}
		s.client = c
	}
	return s
}

// FetchLatest performs one fetch and resolves it to a snapshot. An empty URL
// skips the network entirely.
func (s *Source) FetchLatest(ctx context.Context) Snapshot {
	if s.cfg.URL == "" {
		return s.synthetic()
	}

	raw, err := s.fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// caller went away; not an upstream failure
			s.logger.Debug("readings fetch cancelled", "url", s.cfg.URL, "err", err)
			return s.synthetic()
		}
		kind := FetchErrorTransport
		var fe *FetchError
		if errors.As(err, &fe) {
			kind = fe.Kind
		}
		metrics.IncFetchError(string(kind))
		s.logger.Warn("readings fetch failed, using synthetic data",
			"kind", string(kind),
			"url", s.cfg.URL,
			"err", err,
		)
		return s.synthetic()
	}

	return Snapshot{
		Provenance: ProvenanceLive,
		FetchedAt:  s.now().UTC(),
		Readings:   Resolve(raw),
	}
}

func (s *Source) fetch(ctx context.Context) ([]Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchErrorTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if s.cfg.Username != "" || s.cfg.Password != "" {
		req.SetBasicAuth(s.cfg.Username, s.cfg.Password)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: FetchErrorTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &FetchError{Kind: FetchErrorStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &FetchError{Kind: FetchErrorTransport, Err: err}
	}
	out, err := decodeReadings(body)
	if err != nil {
		return nil, &FetchError{Kind: FetchErrorDecode, Err: err}
	}
	return out, nil
}

// decodeReadings accepts exactly one JSON array and nothing after it.
func decodeReadings(body []byte) ([]Reading, error) {
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", maxBodyBytes)
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("expected a JSON array of readings")
	}
	var out []Reading
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Source) synthetic() Snapshot {
	now := s.now()
	s.mu.Lock()
	r := Synthetic(s.rng, now, s.cfg.Baseline)
	s.mu.Unlock()
	return Snapshot{
		Provenance: ProvenanceSynthetic,
		FetchedAt:  now.UTC(),
		Readings:   r,
	}
}
