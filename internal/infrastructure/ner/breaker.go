package ner

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"ArgusIntel/internal/domain"
	"ArgusIntel/internal/ports"
)

// ErrUnavailable is returned while the breaker is open and calls are being
// rejected without touching the service.
var ErrUnavailable = errors.New("ner service unavailable")

// BreakerRecognizer shields the pipeline from a flapping NER service. After
// the configured number of consecutive failures the circuit opens and the
// extractor falls back to lexicon-only entities until the service recovers.
type BreakerRecognizer struct {
	inner   ports.EntityRecognizer
	breaker *gobreaker.CircuitBreaker
}

var _ ports.EntityRecognizer = (*BreakerRecognizer)(nil)

// NewBreakerRecognizer wraps the given recognizer with a circuit breaker.
func NewBreakerRecognizer(inner ports.EntityRecognizer, trips uint32, timeout time.Duration) *BreakerRecognizer {
	if trips == 0 {
		trips = 3
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:    "ner",
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= trips
		},
	}

	return &BreakerRecognizer{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Recognize delegates through the breaker.
func (b *BreakerRecognizer) Recognize(ctx context.Context, text string) ([]domain.EntityCandidate, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return b.inner.Recognize(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrUnavailable
		}
		return nil, err
	}

	candidates, ok := result.([]domain.EntityCandidate)
	if !ok {
		return nil, errors.New("ner breaker: unexpected result type")
	}
	return candidates, nil
}
