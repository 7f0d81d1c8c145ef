package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"satmon/internal/metrics"
	"satmon/internal/transport"
)

const (
	DefaultFailureRate = 0.1
	deviceTimeout      = 5 * time.Second
)

// Publisher mirrors sent commands to the message bus.
type Publisher interface {
	IsConnected() bool
	PublishJSON(topic string, v any, retained bool) error
}

type SenderConfig struct {
	// DeviceURL is the base URL of the device command endpoint. Empty means
	// commands are only logged.
	DeviceURL   string
	FailureRate float64
	// Topic receives a copy of every command that was sent.
	Topic string
}

type SenderOption func(*Sender)

func WithHTTPClient(c *http.Client) SenderOption {
	return func(s *Sender) { s.client = c }
}

func WithRand(rng *rand.Rand) SenderOption {
	return func(s *Sender) { s.rng = rng }
}

func WithPublisher(p Publisher) SenderOption {
	return func(s *Sender) { s.pub = p }
}

func WithClock(now func() time.Time) SenderOption {
	return func(s *Sender) { s.now = now }
}

type Sender struct {
	cfg    SenderConfig
	client *http.Client
	pub    Publisher
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

func NewSender(cfg SenderConfig, logger *slog.Logger, opts ...SenderOption) *Sender {
	if cfg.FailureRate < 0 {
		cfg.FailureRate = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sender{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		c, err := transport.NewHTTPClient(deviceTimeout)
		if err != nil {
			logger.Warn("http2 not enabled for device client", "err", err)
			c = &http.Client{Timeout: deviceTimeout}
		}
		s.client = c
	}
	return s
}

// Send validates req and forwards it to the device. Validation problems
// wrap ErrInvalidCommand; delivery problems, including the simulated link
// failure, wrap ErrCommandFailed.
func (s *Sender) Send(ctx context.Context, req Request) (Result, error) {
	typ, params, err := Validate(req)
	if err != nil {
		return Result{}, err
	}

	cmd := Command{
		ID:       s.newID(),
		Type:     typ,
		Params:   params,
		IssuedAt: s.now().UTC(),
	}
	metrics.IncCommandIssued()
	s.logger.Info("command sent to satellite", "id", cmd.ID, "type", string(cmd.Type), "params", cmd.Params)

	if err := s.deliver(ctx, cmd); err != nil {
		metrics.IncCommandResult(metrics.CommandResultFailed)
		s.logger.Warn("command failed", "id", cmd.ID, "type", string(cmd.Type), "err", err)
		return Result{ID: cmd.ID}, err
	}

	metrics.IncCommandResult(metrics.CommandResultSent)
	s.mirror(cmd)
	return Result{ID: cmd.ID, Success: true}, nil
}

func (s *Sender) deliver(ctx context.Context, cmd Command) error {
	if s.cfg.DeviceURL != "" {
		if err := s.callDevice(ctx, cmd); err != nil {
			return err
		}
	}
	if s.linkDropped() {
		return fmt.Errorf("%w: connection timeout", ErrCommandFailed)
	}
	return nil
}

func (s *Sender) linkDropped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < s.cfg.FailureRate
}

func (s *Sender) callDevice(ctx context.Context, cmd Command) error {
	q := url.Values{}
	for k, v := range cmd.Params {
		q.Set(k, fmt.Sprint(v))
	}
	u := s.cfg.DeviceURL + "/" + url.PathEscape(string(cmd.Type))
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: build device request: %w", ErrCommandFailed, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: device returned %d", ErrCommandFailed, resp.StatusCode)
	}
	return nil
}

func (s *Sender) mirror(cmd Command) {
	if s.pub == nil || s.cfg.Topic == "" || !s.pub.IsConnected() {
		return
	}
	if err := s.pub.PublishJSON(s.cfg.Topic, cmd, false); err != nil {
		s.logger.Warn("mirror command to mqtt failed", "id", cmd.ID, "topic", s.cfg.Topic, "err", err)
	}
}
