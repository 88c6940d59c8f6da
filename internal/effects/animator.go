package effects

import (
	"context"
	"time"

	"github.com/couchcryptid/impact-map/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Animator grows circles to their target radius over time.
type Animator struct {
	clock   clockwork.Clock
	frame   time.Duration
	metrics *observability.Metrics
}

// NewAnimator creates an Animator sampling once per frame interval.
func NewAnimator(clock clockwork.Clock, frame time.Duration, metrics *observability.Metrics) *Animator {
	if frame <= 0 {
		frame = 16 * time.Millisecond
	}
	return &Animator{clock: clock, frame: frame, metrics: metrics}
}

// EaseOutCubic maps t in [0,1] to 1-(1-t)^3. Inputs outside the range are clamped.
func EaseOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	u := 1 - t
	return 1 - u*u*u
}

// ExpansionRadius samples an expansion that starts after delay and lasts
// duration. It returns 0 before the delay and exactly target once the
// animation is over, with done set.
func ExpansionRadius(target float64, elapsed, duration, delay time.Duration) (radius float64, done bool) {
	if elapsed < delay {
		return 0, false
	}
	if duration <= 0 {
		return target, true
	}
	t := float64(elapsed-delay) / float64(duration)
	if t >= 1 {
		return target, true
	}
	return target * EaseOutCubic(t), false
}

// Animate starts growing c from 0 to target and returns a channel closed when
// the animation ends. It ends when the target is reached, when c is disposed,
// or when ctx is cancelled. The radius is reset to 0 before Animate returns.
func (a *Animator) Animate(ctx context.Context, c *Circle, target float64, duration, delay time.Duration) <-chan struct{} {
	done := make(chan struct{})

	c.SetRadius(0)
	start := a.clock.Now()
	ticker := a.clock.NewTicker(a.frame)
	a.metrics.ActiveAnimations.Inc()

	go func() {
		defer close(done)
		defer a.metrics.ActiveAnimations.Dec()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
			}

			if c.Disposed() {
				return
			}
			r, finished := ExpansionRadius(target, a.clock.Since(start), duration, delay)
			c.SetRadius(r)
			if finished {
				return
			}
		}
	}()

	return done
}
