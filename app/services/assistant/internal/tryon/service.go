package tryon

import (
	"context"
	"fmt"
	"time"

	"ShopAssistant/app/services/assistant/internal/state"

	"github.com/cenkalti/backoff/v4"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	DefaultMaxAttempts     = 4
	defaultInitialInterval = 500 * time.Millisecond
	defaultMaxInterval     = 5 * time.Second
)

type SlotResult struct {
	Slot     Slot   `json:"slot"`
	Item     string `json:"item"`
	OK       bool   `json:"ok"`
	Image    []byte `json:"image,omitempty"`
	Error    string `json:"error,omitempty"`
	Attempts int    `json:"attempts"`
}

type Report struct {
	SessionID  string       `json:"session_id"`
	Results    []SlotResult `json:"results"`
	FinishedAt time.Time    `json:"finished_at"`
}

type Service struct {
	composer        Composer
	fetcher         ImageFetcher
	maxAttempts     int
	initialInterval time.Duration
}

type Option func(*Service)

func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func WithInitialInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.initialInterval = d
		}
	}
}

func NewService(composer Composer, fetcher ImageFetcher, opts ...Option) *Service {
	s := &Service{
		composer:        composer,
		fetcher:         fetcher,
		maxAttempts:     DefaultMaxAttempts,
		initialInterval: defaultInitialInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run composes one representative item per slot and reports each slot separately.
func (s *Service) Run(ctx context.Context, sessionID string, person []byte, items []state.CartItem) Report {
	report := Report{SessionID: sessionID, Results: []SlotResult{}}
	for _, pick := range Representatives(items) {
		report.Results = append(report.Results, s.runSlot(ctx, person, pick))
	}
	report.FinishedAt = time.Now()
	return report
}

func (s *Service) runSlot(ctx context.Context, person []byte, pick Pick) SlotResult {
	res := SlotResult{Slot: pick.Slot, Item: pick.Item.Name}
	if pick.Item.ImageURL == "" {
		res.Error = "item has no image"
		return res
	}
	garment, err := s.fetcher.Fetch(ctx, pick.Item.ImageURL)
	if err != nil {
		res.Error = fmt.Sprintf("fetch garment image: %v", err)
		return res
	}

	desc := fmt.Sprintf("%s worn as %s", pick.Item.Name, pick.Slot)
	var img []byte
	op := func() error {
		res.Attempts++
		out, err := s.composer.Compose(ctx, person, [][]byte{garment}, desc)
		if err != nil {
			logx.WithContext(ctx).Infof("try-on %s attempt %d failed: %v", pick.Slot, res.Attempts, err)
			return err
		}
		img = out
		return nil
	}
	if err := backoff.Retry(op, s.policy(ctx)); err != nil {
		res.Error = err.Error()
		return res
	}
	res.OK = true
	res.Image = img
	return res
}

// policy is exponential backoff with jitter, capped at maxAttempts calls in total.
func (s *Service) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initialInterval
	b.MaxInterval = defaultMaxInterval
	b.RandomizationFactor = 0.5
	b.Multiplier = 2
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.maxAttempts-1)), ctx)
}
