// Package traffic implements the token-bucket-style admission controller
// described in spec.md §4.3 (component C3): a bounded pool of permits,
// replenished on a timer, with an optional ramp-up phase.
//
// It is grounded on the teacher's semaphore/sem package, which wraps
// golang.org/x/sync/semaphore.Weighted for worker-concurrency limiting.
// Here the same primitive is repurposed for rate limiting: the controller
// itself "holds" the full weight at construction (draining available
// permits to zero) and the ticker trickles permits back via Release, which
// a worker's Acquire then consumes permanently — the Go analogue of the
// permit-forgetting semaphore semantics spec.md §9 calls out.
package traffic

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// initialRampPeriod is the slow starting cadence of the ramp-up phase
// (spec.md §4.3: "specification value: 0.8 seconds per permit").
const initialRampPeriod = 800 * time.Millisecond

// Controller is the bounded permit pool workers draw from.
type Controller struct {
	sem      *semaphore.Weighted
	capacity int64
	avail    atomic.Int64
}

// New builds a Controller capped at rate permits, fully drained (no permit
// available until the first tick of Flow).
func New(rate int) *Controller {
	cap64 := int64(rate)
	if cap64 <= 0 {
		cap64 = 1
	}
	c := &Controller{
		sem:      semaphore.NewWeighted(cap64),
		capacity: cap64,
	}
	// Drain: acquire everything the semaphore has to offer so available == 0.
	_ = c.sem.Acquire(context.Background(), cap64)
	return c
}

// Acquire blocks until a permit is available, then consumes it permanently
// — no corresponding Release is ever made on the worker's behalf.
func (c *Controller) Acquire(ctx context.Context) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	c.avail.Add(-1)
	return nil
}

// tryReplenish adds one permit if the pool is below capacity. Returns
// whether a permit was actually added.
func (c *Controller) tryReplenish() bool {
	if c.avail.Load() >= c.capacity {
		return false
	}
	c.avail.Add(1)
	c.sem.Release(1)
	return true
}

// Available reports the current permit count, 0 <= Available() <= capacity
// (spec.md §3 Controller state invariant). Exposed for tests only.
func (c *Controller) Available() int64 {
	return c.avail.Load()
}

// Flow is the long-running pacer (spec.md §4.3). It exits when ctx is
// cancelled; it drains no permits on exit.
//
// With rampUp == 0, permits are added on a steady timer at period 1/rate
// (missed ticks are skipped, never bursted — time.Ticker's own semantics).
// With rampUp > 0, the pacer starts at initialRampPeriod and recomputes the
// period on every tick while elapsed ramp-up time is within rampUp,
// replacing the timer unconditionally (spec.md §9's resolution of the
// "replace only if smaller" ambiguity: the most recent upstream revision
// always replaces). After rampUp elapses, pacing holds at the steady period.
func (c *Controller) Flow(ctx context.Context, rate int, rampUp time.Duration) {
	steadyPeriod := time.Second / time.Duration(maxInt(rate, 1))

	if rampUp <= 0 {
		c.flowSteady(ctx, steadyPeriod)
		return
	}
	c.flowRampUp(ctx, rate, rampUp, steadyPeriod)
}

func (c *Controller) flowSteady(ctx context.Context, period time.Duration) {
	t := time.NewTicker(period)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.tryReplenish()
		}
	}
}

func (c *Controller) flowRampUp(ctx context.Context, rate int, rampUp, steadyPeriod time.Duration) {
	start := time.Now()
	period := initialRampPeriod

	timer := time.NewTimer(period)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			c.tryReplenish()

			elapsed := time.Since(start)
			if elapsed <= rampUp {
				period = rampPeriod(rate, elapsed, rampUp)
			} else {
				period = steadyPeriod
			}
			timer.Reset(period)
		}
	}
}

// rampPeriod computes 1 / (rate * elapsed/rampUp), the instantaneous
// inter-permit period during ramp-up (spec.md §4.3). At elapsed == 0 the
// target rate is ~0, so the slow initial period is kept rather than
// dividing by zero.
func rampPeriod(rate int, elapsed, rampUp time.Duration) time.Duration {
	frac := elapsed.Seconds() / rampUp.Seconds()
	if frac <= 0 {
		return initialRampPeriod
	}
	effRate := float64(rate) * frac
	if effRate <= 0 {
		return initialRampPeriod
	}
	return time.Duration(float64(time.Second) / effRate)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
