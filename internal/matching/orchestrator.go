package matching

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/edualign/edualign/internal/ai"
	"github.com/edualign/edualign/internal/utils"
)

// Orchestrator defaults. Three attempts with 2^attempt second backoffs keep
// the worst case well under a typical request deadline.
const (
	DefaultMaxAttempts    = 3
	DefaultAttemptTimeout = 30 * time.Second

	breakerFailureThreshold = 5
)

// backoffWait is swappable so retry tests do not sleep for real.
var backoffWait = utils.WaitFor

// orchestrator states. Every request path ends in stateDone; stateFallback
// tells the engine to produce explanations locally.
type orchestratorState int

const (
	stateAttempt orchestratorState = iota
	stateRetry
	stateFallback
	stateDone
)

// OrchestratorConfig tunes the retry state machine.
type OrchestratorConfig struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
}

// Orchestrator drives calls to the external reasoning service. Upstream
// failures are fully absorbed: the caller only learns whether usable
// explanations were produced, never sees an upstream error.
type Orchestrator struct {
	explainer   ai.Explainer
	breaker     *gobreaker.CircuitBreaker[[]ai.Explanation]
	maxAttempts int
	timeout     time.Duration
	logger      *zap.Logger
}

func NewOrchestrator(explainer ai.Explainer, cfg OrchestratorConfig, logger *zap.Logger) *Orchestrator {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	timeout := cfg.AttemptTimeout
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	breaker := gobreaker.NewCircuitBreaker[[]ai.Explanation](gobreaker.Settings{
		Name: "reasoning-service",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("reasoning service breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Orchestrator{
		explainer:   explainer,
		breaker:     breaker,
		maxAttempts: maxAttempts,
		timeout:     timeout,
		logger:      logger,
	}
}

// Explain runs the attempt/retry/fallback state machine. It returns the
// parsed explanations and true on success, or nil and false when the engine
// must fall back to local explanations. A caller deadline expiring mid-retry
// lands in fallback immediately instead of propagating a timeout error.
func (o *Orchestrator) Explain(ctx context.Context, req *ai.Request) ([]ai.Explanation, bool) {
	state := stateAttempt
	attempt := 0

	var explanations []ai.Explanation

	for state != stateDone && state != stateFallback {
		switch state {
		case stateAttempt:
			attempt++
			result, err := o.attempt(ctx, req)
			if err == nil {
				explanations = result
				state = stateDone
				continue
			}
			state = o.classify(err, attempt)

		case stateRetry:
			backoff := time.Duration(1<<attempt) * time.Second
			o.logger.Debug("retrying reasoning service",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
			)
			if err := backoffWait(ctx, backoff); err != nil {
				o.logger.Info("request deadline expired during backoff, using fallback", zap.Error(err))
				state = stateFallback
				continue
			}
			state = stateAttempt
		}
	}

	if state == stateFallback {
		return nil, false
	}

	return explanations, true
}

func (o *Orchestrator) attempt(ctx context.Context, req *ai.Request) ([]ai.Explanation, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	return o.breaker.Execute(func() ([]ai.Explanation, error) {
		return o.explainer.Explain(callCtx, req)
	})
}

// classify decides the next state after a failed attempt. Unrecoverable
// upstream errors and an open breaker skip the remaining retries.
func (o *Orchestrator) classify(err error, attempt int) orchestratorState {
	var unrecoverable *ai.UnrecoverableError
	if errors.As(err, &unrecoverable) {
		o.logger.Warn("unrecoverable reasoning service error, using fallback", zap.Error(err))
		return stateFallback
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		o.logger.Warn("reasoning service breaker is open, using fallback", zap.Error(err))
		return stateFallback
	}

	if attempt >= o.maxAttempts {
		o.logger.Warn("reasoning service retries exhausted, using fallback",
			zap.Int("attempts", attempt),
			zap.Error(err),
		)
		return stateFallback
	}

	o.logger.Debug("transient reasoning service error",
		zap.Int("attempt", attempt),
		zap.Error(err),
	)
	return stateRetry
}
