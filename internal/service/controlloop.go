package service

import (
	"context"
	"sync"
	"time"

	"parachute_control/internal/logger"
)

// DefaultTick is the control cadence the release timing was designed for.
const DefaultTick = 100 * time.Millisecond

// updater and checker are the two per-tick duties of the loop.
type updater interface {
	Update()
}

type checker interface {
	Check(ctx context.Context)
}

// LoopService drives the fixed-rate control tick: step the simulated
// vehicle (if any), run actuation timing, then the emergency check. The
// mutex makes the tick atomic with respect to HTTP-facing calls.
type LoopService struct {
	mu      *sync.Mutex
	ctrl    updater
	monitor checker
	stepper Stepper
	log     *logger.Logger
}

func NewLoopService(mu *sync.Mutex, ctrl updater, monitor checker, stepper Stepper,
	log *logger.Logger) *LoopService {
	return &LoopService{mu: mu, ctrl: ctrl, monitor: monitor, stepper: stepper, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (s *LoopService) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultTick
	}
	s.log.Infow("control_loop_started", "tick", tick)

	t := time.NewTicker(tick)
	defer t.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.log.Infow("control_loop_stopped")
			return
		case now := <-t.C:
			if s.stepper != nil {
				s.stepper.Step(now.Sub(last))
			}
			last = now

			s.mu.Lock()
			s.ctrl.Update()
			s.monitor.Check(ctx)
			s.mu.Unlock()
		}
	}
}
