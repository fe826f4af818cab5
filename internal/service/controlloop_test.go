package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"parachute_control/internal/logger"
)

type countingUpdater struct {
	mu    sync.Mutex
	calls int
}

func (u *countingUpdater) Update() {
	u.mu.Lock()
	u.calls++
	u.mu.Unlock()
}

func (u *countingUpdater) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

type countingChecker struct {
	mu    sync.Mutex
	calls int
}

func (c *countingChecker) Check(context.Context) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *countingChecker) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type countingStepper struct {
	mu    sync.Mutex
	total time.Duration
}

func (s *countingStepper) Step(dt time.Duration) {
	s.mu.Lock()
	s.total += dt
	s.mu.Unlock()
}

func (s *countingStepper) stepped() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func TestLoopService_TicksUntilCanceled(t *testing.T) {
	u := &countingUpdater{}
	c := &countingChecker{}
	st := &countingStepper{}
	loop := NewLoopService(&sync.Mutex{}, u, c, st, logger.Get(logger.ErrorLevel))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx, time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for u.count() < 3 {
		select {
		case <-deadline:
			t.Fatalf("loop did not tick: updates=%d", u.count())
		default:
			time.Sleep(time.Millisecond)
		}
	}
	cancel()
	<-done

	if c.count() == 0 {
		t.Fatalf("emergency check never ran")
	}
	if st.stepped() == 0 {
		t.Fatalf("stepper never advanced")
	}
	if u.count() < c.count() {
		t.Fatalf("update must run at least as often as check: %d < %d", u.count(), c.count())
	}
}

func TestLoopService_NilStepperTolerated(t *testing.T) {
	u := &countingUpdater{}
	c := &countingChecker{}
	loop := NewLoopService(&sync.Mutex{}, u, c, nil, logger.Get(logger.ErrorLevel))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	if u.count() == 0 {
		t.Fatalf("loop never ticked")
	}
}
