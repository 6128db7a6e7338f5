package resilience

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"readscore/internal/domain"
	"readscore/internal/port"
)

// Guard applies rate limiting, a deadline and a circuit breaker to calls
// against one external service and reports each call to Metrics.
type Guard struct {
	service string
	breaker *Breaker
	limiter *rate.Limiter
	timeout time.Duration
	metrics port.Metrics
}

type GuardOption func(*Guard)

// WithRateLimit caps calls at perSecond with the given burst. A
// non-positive rate leaves calls unlimited.
func WithRateLimit(perSecond float64, burst int) GuardOption {
	return func(g *Guard) {
		if perSecond <= 0 {
			g.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithTimeout(d time.Duration) GuardOption {
	return func(g *Guard) { g.timeout = d }
}

func WithMetrics(m port.Metrics) GuardOption {
	return func(g *Guard) { g.metrics = m }
}

func NewGuard(service string, breaker *Breaker, opts ...GuardOption) *Guard {
	g := &Guard{service: service, breaker: breaker}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guard) Service() string {
	return g.service
}

func call[T any](ctx context.Context, g *Guard, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	start := time.Now()

	out, err := guarded(ctx, g, fn)
	if g.metrics != nil {
		g.metrics.ObserveExternalCall(g.service, time.Since(start), err)
	}
	if err != nil {
		return zero, err
	}
	return out, nil
}

func guarded[T any](ctx context.Context, g *Guard, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return zero, err
		}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if g.breaker == nil {
		return fn(ctx)
	}

	out, err := g.breaker.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

// GuardedDetector runs a LanguageDetector under a Guard.
type GuardedDetector struct {
	next  port.LanguageDetector
	guard *Guard
}

func NewGuardedDetector(next port.LanguageDetector, guard *Guard) *GuardedDetector {
	return &GuardedDetector{next: next, guard: guard}
}

func (d *GuardedDetector) Detect(ctx context.Context, text string) (string, error) {
	return call(ctx, d.guard, func(ctx context.Context) (string, error) {
		return d.next.Detect(ctx, text)
	})
}

// GuardedTranslator runs a Translator under a Guard.
type GuardedTranslator struct {
	next  port.Translator
	guard *Guard
}

func NewGuardedTranslator(next port.Translator, guard *Guard) *GuardedTranslator {
	return &GuardedTranslator{next: next, guard: guard}
}

func (t *GuardedTranslator) Translate(ctx context.Context, text string) (string, error) {
	return call(ctx, t.guard, func(ctx context.Context) (string, error) {
		return t.next.Translate(ctx, text)
	})
}

// GuardedSentiment runs a SentimentAnalyzer under a Guard.
type GuardedSentiment struct {
	next  port.SentimentAnalyzer
	guard *Guard
}

func NewGuardedSentiment(next port.SentimentAnalyzer, guard *Guard) *GuardedSentiment {
	return &GuardedSentiment{next: next, guard: guard}
}

func (s *GuardedSentiment) Analyze(ctx context.Context, text string) (domain.Sentiment, error) {
	return call(ctx, s.guard, func(ctx context.Context) (domain.Sentiment, error) {
		return s.next.Analyze(ctx, text)
	})
}

var (
	_ port.LanguageDetector  = (*GuardedDetector)(nil)
	_ port.Translator        = (*GuardedTranslator)(nil)
	_ port.SentimentAnalyzer = (*GuardedSentiment)(nil)
)
