package syncbox

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// DrainResult summarizes one completed drain pass.
type DrainResult struct {
	// Attempted is the number of delivery attempts made.
	Attempted int
	// Delivered is the number of operations removed after a 2xx response.
	Delivered int
	// Retried is the number of failed attempts that remain retryable.
	Retried int
	// Exhausted is the number of operations that ran out of retries this pass.
	Exhausted int
	// Skipped is the number of operations excluded because their retries
	// were already exhausted.
	Skipped int
}

// Processor drains the durable store, delivering operations to the remote
// service with bounded retries.
//
// A drain runs operations strictly in creation order, one at a time, with a
// fixed inter-item delay. A boolean in-progress flag provides mutual
// exclusion: a trigger received while a drain is running is dropped, never
// queued.
type Processor struct {
	store     Store
	transport Requester
	cfg       ProcessorConfig

	draining atomic.Bool
	kicks    chan struct{}
}

// NewProcessor constructs a Processor with defaults and optional settings.
func NewProcessor(store Store, transport Requester, opts ...ProcessorOption) *Processor {
	if store == nil {
		panic("syncbox: nil Store")
	}
	if transport == nil {
		panic("syncbox: nil Requester")
	}

	var cfg ProcessorConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	return &Processor{
		store:     store,
		transport: transport,
		cfg:       cfg,
		kicks:     make(chan struct{}, 1),
	}
}

// Kick requests an asynchronous drain from the Run loop without blocking.
// Used by sync services right after enqueueing while online.
func (p *Processor) Kick() {
	select {
	case p.kicks <- struct{}{}:
	default:
	}
}

// Run triggers drains until the context is canceled: on every connectivity
// restore, on the configured interval while online, and on Kick.
func (p *Processor) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.DrainInterval)
	defer ticker.Stop()

	var restored <-chan struct{}
	if p.cfg.Monitor != nil {
		restored = p.cfg.Monitor.Restored()
	}

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}

			return ctx.Err()
		case <-ticker.C:
		case <-restored:
		case <-p.kicks:
		}

		result, err := p.Drain(ctx)
		switch {
		case err == nil:
			if result.Attempted > 0 {
				p.cfg.Logger.Debug("syncbox drain complete",
					"delivered", result.Delivered,
					"retried", result.Retried,
					"exhausted", result.Exhausted,
					"skipped", result.Skipped,
				)
			}
		case errors.Is(err, ErrDrainInProgress), errors.Is(err, ErrOffline):
			// Dropped triggers are expected; the next interval picks it up.
		case errors.Is(err, context.Canceled):
			return nil
		default:
			p.cfg.Logger.Error("syncbox drain failed", "err", err)
		}
	}
}

// Drain performs one complete delivery pass over all eligible operations.
// It returns ErrDrainInProgress when another drain holds the flag and
// ErrOffline when a monitor is configured and reports offline.
func (p *Processor) Drain(ctx context.Context) (DrainResult, error) {
	if p.cfg.Monitor != nil && !p.cfg.Monitor.Online() {
		return DrainResult{}, ErrOffline
	}
	if !p.draining.CompareAndSwap(false, true) {
		return DrainResult{}, ErrDrainInProgress
	}
	defer p.draining.Store(false)

	start := time.Now()
	defer func() {
		p.cfg.Metrics.ObserveDrainDuration(time.Since(start))
	}()

	ops, err := p.store.List(ctx)
	if err != nil {
		return DrainResult{}, fmt.Errorf("syncbox: list operations failed: %w", err)
	}

	var result DrainResult
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if op.Exhausted() {
			result.Skipped++

			continue
		}

		if err := p.deliver(ctx, op, &result); err != nil {
			return result, err
		}

		if i < len(ops)-1 {
			if err := p.sleep(ctx, p.cfg.ItemDelay); err != nil {
				return result, err
			}
		}
	}

	p.recordPending(ctx)

	return result, nil
}

// deliver attempts a single operation. Delivery failures update retry state
// and never abort the drain; storage failures propagate.
func (p *Processor) deliver(ctx context.Context, op Operation, result *DrainResult) error {
	result.Attempted++

	resp, err := p.transport.Do(ctx, Request{
		Method:         op.Method,
		Endpoint:       op.Endpoint,
		Payload:        op.Payload,
		IdempotencyKey: op.IdempotencyKey,
	})
	if err == nil && !resp.Success() {
		err = NewStatusError(resp.StatusCode, resp.Body)
	}

	if err == nil {
		if removeErr := p.store.Remove(ctx, op.ID); removeErr != nil {
			return fmt.Errorf("syncbox: remove delivered operation failed: %w", removeErr)
		}
		result.Delivered++
		p.cfg.Metrics.AddDelivered(1)
		p.publish(Event{Type: EventDelivered, Domain: op.Domain, Operation: &op})

		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	op.RetryCount++
	if p.cfg.FailureClassifier(ctx, op, err) == FailurePermanent {
		op.RetryCount = op.MaxRetries
	}
	op.LastAttemptAt = p.cfg.Clock.Now()
	op.Error = err.Error()

	if updateErr := p.store.Update(ctx, op); updateErr != nil {
		return fmt.Errorf("syncbox: update failed operation failed: %w", updateErr)
	}

	if op.Exhausted() {
		result.Exhausted++
		p.cfg.Metrics.AddExhausted(1)
		p.cfg.Logger.Warn("syncbox operation exhausted retries",
			"id", op.ID, "method", op.Method, "endpoint", op.Endpoint, "err", err)
		p.publish(Event{Type: EventExhausted, Domain: op.Domain, Operation: &op, Err: err})

		return nil
	}

	result.Retried++
	p.cfg.Metrics.AddRetries(1)
	p.publish(Event{Type: EventRetried, Domain: op.Domain, Operation: &op, Err: err})

	return nil
}

// ClearFailed removes every operation that exhausted its retries.
func (p *Processor) ClearFailed(ctx context.Context) (int, error) {
	removed, err := p.store.ClearFailed(ctx)
	if err != nil {
		return 0, fmt.Errorf("syncbox: clear failed operations failed: %w", err)
	}
	if removed > 0 {
		p.cfg.Metrics.AddCleared(removed)
		p.publish(Event{Type: EventCleared, Count: removed})
	}

	return removed, nil
}

// Stats returns the current queue aggregates.
func (p *Processor) Stats(ctx context.Context) (QueueStats, error) {
	return p.store.Stats(ctx)
}

func (p *Processor) recordPending(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	stats, err := p.store.Stats(ctx)
	if err != nil {
		p.cfg.Logger.Warn("syncbox queue stats failed", "err", err)

		return
	}

	p.cfg.Metrics.SetPending(stats.Pending)
}

func (p *Processor) publish(event Event) {
	if p.cfg.Bus != nil {
		p.cfg.Bus.Publish(event)
	}
}

func (p *Processor) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
