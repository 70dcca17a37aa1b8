package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/sandevgo/geodrop/pkg/log"
)

type Operation = func() error

type Config struct {
	MaxRetries    int
	BackoffFactor float64
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Jitter        time.Duration
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxRetries:    5,
		BackoffFactor: 2,
		InitialDelay:  250 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		Jitter:        50 * time.Millisecond,
	}
}

type Option func(*Config)

func WithMaxRetries(n int) Option {
	return func(c *Config) { c.MaxRetries = n }
}

// WithBackoff sets the first delay, its growth factor and the ceiling.
func WithBackoff(initial, max time.Duration, factor float64) Option {
	return func(c *Config) {
		c.InitialDelay = initial
		c.MaxDelay = max
		c.BackoffFactor = factor
	}
}

func WithJitter(j time.Duration) Option {
	return func(c *Config) { c.Jitter = j }
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns the wrapped error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type Retrier struct {
	config Config
}

func NewRetrier(opts ...Option) *Retrier {
	cfg := NewDefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Retrier{config: *cfg}
}

func NewDefaultRetrier() *Retrier {
	return NewRetrier()
}

// Do runs op until it succeeds, returns a Permanent error, the retries
// are used up or ctx is done.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	logger := log.FromCtx(ctx)
	delay := r.config.InitialDelay
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	var err error
	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		if attempt == r.config.MaxRetries {
			break
		}

		wait := min(delay, r.config.MaxDelay)
		if r.config.Jitter > 0 {
			wait += time.Duration(rnd.Int63n(int64(r.config.Jitter)))
		}

		logger.Debug().Err(err).Int("attempt", attempt+1).Dur("wait", wait).Msg("operation failed, retrying")

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}

		delay = time.Duration(float64(delay) * r.config.BackoffFactor)
	}
	return err
}
