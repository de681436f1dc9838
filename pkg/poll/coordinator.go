// Package poll coordinates repeated fetches of a remotely mutated document
// on behalf of many concurrent waiters.
//
// A Coordinator runs at most one fetch loop at a time. Every waiter registers
// a Condition; after each fetch all eligible conditions are evaluated against
// the refreshed state and satisfied waiters are released immediately. The loop
// gives up on the waiters it has fetched for once MaxRetries consecutive
// iterations release no conditioned waiter.
package poll

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// ErrClosed is returned to waiters released by Close.
var ErrClosed = errors.New("poll: coordinator closed")

// FetchFunc refreshes the owner's snapshot. It should return promptly once
// ctx is done. A fetch that overruns its timeout is counted as failed, and the
// loop still waits for it to return before starting the next one.
type FetchFunc func(ctx context.Context) error

// Outcome tells a waiter why it was released.
type Outcome int

const (
	// Satisfied means the condition held after a fetch.
	Satisfied Outcome = iota
	// Exhausted means the loop ran out of retries before the condition held.
	Exhausted
	// Abandoned means the waiter's context ended or the coordinator closed.
	Abandoned
)

func (o Outcome) String() string {
	switch o {
	case Satisfied:
		return "satisfied"
	case Exhausted:
		return "exhausted"
	case Abandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Observer receives loop telemetry. Implementations must not call back into
// the coordinator.
type Observer interface {
	FetchCompleted(elapsed time.Duration, err error)
	WaiterReleased(outcome Outcome)
}

type nopObserver struct{}

func (nopObserver) FetchCompleted(time.Duration, error) {}
func (nopObserver) WaiterReleased(Outcome)              {}

type request struct {
	cond     Condition
	eligible bool
	outcome  Outcome
	done     chan struct{}
}

// Coordinator serializes polling for one document.
type Coordinator struct {
	fetch FetchFunc
	cfg   Config
	log   logr.Logger
	obs   Observer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[*request]struct{}
	running bool
	retries int
	closed  bool
}

// New creates a coordinator driving fetch. obs may be nil.
func New(fetch FetchFunc, cfg Config, log logr.Logger, obs Observer) *Coordinator {
	if obs == nil {
		obs = nopObserver{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		fetch:   fetch,
		cfg:     cfg.normalized(),
		log:     log,
		obs:     obs,
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[*request]struct{}),
	}
}

// Config returns the effective configuration.
func (c *Coordinator) Config() Config {
	return c.cfg
}

// WaitForUpdate blocks until one fetch started after registration completes.
func (c *Coordinator) WaitForUpdate(ctx context.Context) (Outcome, error) {
	return c.WaitForCondition(ctx, NoCondition)
}

// WaitForCondition registers cond and blocks until it is released.
//
// The returned error is nil for Satisfied and Exhausted. When ctx ends first
// the waiter is withdrawn without disturbing other waiters and ctx.Err() is
// returned with Abandoned.
func (c *Coordinator) WaitForCondition(ctx context.Context, cond Condition) (Outcome, error) {
	req := &request{cond: cond, done: make(chan struct{})}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Abandoned, ErrClosed
	}
	c.pending[req] = struct{}{}
	c.retries = 0
	if !c.running {
		c.running = true
		c.wg.Add(1)
		go c.run()
	}
	c.mu.Unlock()

	select {
	case <-req.done:
		return c.result(req)
	case <-ctx.Done():
	}

	c.mu.Lock()
	if _, ok := c.pending[req]; ok {
		delete(c.pending, req)
		c.mu.Unlock()
		c.obs.WaiterReleased(Abandoned)
		return Abandoned, ctx.Err()
	}
	c.mu.Unlock()

	// Released by the loop while we were waiting for the lock.
	<-req.done
	return c.result(req)
}

func (c *Coordinator) result(req *request) (Outcome, error) {
	if req.outcome == Abandoned {
		return Abandoned, ErrClosed
	}
	return req.outcome, nil
}

// Pending returns the number of registered waiters.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Running reports whether a fetch loop is active.
func (c *Coordinator) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Close stops the loop and releases every waiter with ErrClosed.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.releaseAll(Abandoned)
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *Coordinator) run() {
	defer c.wg.Done()

	for {
		c.mu.Lock()
		if c.closed || len(c.pending) == 0 {
			c.running = false
			c.mu.Unlock()
			return
		}
		// Waiters registered after this point are evaluated next iteration.
		for req := range c.pending {
			req.eligible = true
		}
		c.mu.Unlock()

		c.fetchOnce()

		c.mu.Lock()
		if c.closed {
			c.running = false
			c.mu.Unlock()
			return
		}

		if c.resolveMet() {
			c.retries = 0
		} else if len(c.pending) > 0 {
			c.retries++
			c.log.V(1).Info("no progress", "retries", c.retries, "pending", len(c.pending))
			if c.retries > c.cfg.MaxRetries {
				c.log.Error(nil, "retries exhausted, releasing waiters",
					"retries", c.cfg.MaxRetries, "pending", len(c.pending))
				c.releaseEligible(Exhausted)
				c.retries = 0
			}
		}

		if len(c.pending) == 0 {
			c.running = false
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		if !c.sleep() {
			c.mu.Lock()
			c.running = false
			c.mu.Unlock()
			return
		}
	}
}

func (c *Coordinator) fetchOnce() {
	ctx, cancel := context.WithTimeout(c.ctx, c.cfg.FetchTimeout)
	defer cancel()

	start := time.Now()
	errc := make(chan error, 1)
	go func() {
		errc <- c.fetch(ctx)
	}()

	var err error
	overran := false
	select {
	case err = <-errc:
	case <-ctx.Done():
		err = ctx.Err()
		overran = true
	}
	c.obs.FetchCompleted(time.Since(start), err)
	if overran {
		// At most one fetch is in flight, even when fetch ignores ctx.
		defer func() { <-errc }()
	}

	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		c.log.Error(err, "fetch timed out", "timeout", c.cfg.FetchTimeout)
	case c.ctx.Err() != nil:
		c.log.V(1).Info("fetch interrupted by close")
	default:
		c.log.Error(err, "fetch failed")
	}
}

// resolveMet releases every eligible waiter whose condition holds and reports
// whether any conditioned waiter was among them. Callers hold c.mu.
func (c *Coordinator) resolveMet() bool {
	progress := false
	for req := range c.pending {
		if !req.eligible || !req.cond.met() {
			continue
		}
		if req.cond.Conditioned() {
			progress = true
		}
		c.resolve(req, Satisfied)
	}
	return progress
}

// releaseEligible releases the waiters that have seen a fetch started after
// they registered. Callers hold c.mu.
func (c *Coordinator) releaseEligible(outcome Outcome) {
	for req := range c.pending {
		if req.eligible {
			c.resolve(req, outcome)
		}
	}
}

// releaseAll empties the pending set. Callers hold c.mu.
func (c *Coordinator) releaseAll(outcome Outcome) {
	for req := range c.pending {
		c.resolve(req, outcome)
	}
}

func (c *Coordinator) resolve(req *request, outcome Outcome) {
	delete(c.pending, req)
	req.outcome = outcome
	c.obs.WaiterReleased(outcome)
	close(req.done)
}

func (c *Coordinator) sleep() bool {
	if c.cfg.Interval <= 0 {
		return c.ctx.Err() == nil
	}
	t := time.NewTimer(c.cfg.Interval)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-c.ctx.Done():
		return false
	}
}
