package service

import (
	"context"
	"fmt"
	"sync"

	pc "parachute_control"
	"parachute_control/internal/chute"
	"parachute_control/internal/logger"
	"parachute_control/internal/repository"
	"parachute_control/internal/vehicle"
)

// ReleaseOutcome is the result of a pilot-initiated release request.
type ReleaseOutcome int

const (
	Released ReleaseOutcome = iota
	RejectedNotFlying
	RejectedAltitudeLow
	RejectedAltitudeHigh
	RejectedAlreadyOrDisabled
)

func (o ReleaseOutcome) String() string {
	switch o {
	case Released:
		return "released"
	case RejectedNotFlying:
		return "not_flying"
	case RejectedAltitudeLow:
		return "altitude_too_low"
	case RejectedAltitudeHigh:
		return "altitude_too_high"
	case RejectedAlreadyOrDisabled:
		return "already_released_or_disabled"
	default:
		return "unknown"
	}
}

// ReleaseService validates pilot commands against flight state and
// forwards them to the controller, and applies admin enable/disable.
type ReleaseService struct {
	mu     *sync.Mutex
	ctrl   *chute.Controller
	veh    vehicle.State
	params repository.ParamsRepo
	rec    *eventRecorder
	log    *logger.Logger
}

func NewReleaseService(mu *sync.Mutex, ctrl *chute.Controller, veh vehicle.State,
	params repository.ParamsRepo, rec *eventRecorder, log *logger.Logger) *ReleaseService {
	return &ReleaseService{mu: mu, ctrl: ctrl, veh: veh, params: params, rec: rec, log: log}
}

// SetEnabled applies and persists the admin enable/disable action.
// Disabling aborts any pending sequence and clears the released latch.
func (s *ReleaseService) SetEnabled(ctx context.Context, on bool) error {
	s.mu.Lock()
	s.ctrl.SetEnabled(on)
	p := s.ctrl.Params()
	s.mu.Unlock()

	if err := s.params.Save(ctx, p); err != nil {
		return fmt.Errorf("persist chute params: %w", err)
	}

	state := "disabled"
	if on {
		state = "enabled"
	}
	s.log.Infow("chute_enabled_changed", "enabled", on)
	s.rec.record(ctx, pc.EventConfig, "Parachute: "+state, map[string]any{"enabled": on})
	return nil
}

// ManualRelease runs the pilot-error checks in order and releases if they
// all pass. Every rejection emits a status event; success emits a
// critical event before the release is forwarded.
func (s *ReleaseService) ManualRelease(ctx context.Context) ReleaseOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ctrl.Enabled() || s.ctrl.Released() {
		s.reject(ctx, RejectedAlreadyOrDisabled, "Parachute: Already released or disabled")
		return RejectedAlreadyOrDisabled
	}

	if !s.veh.Flying() {
		s.reject(ctx, RejectedNotFlying, "Parachute: Not flying")
		return RejectedNotFlying
	}

	alt := s.veh.RelativeAltitude()
	if alt < float64(s.ctrl.AltMin()) {
		s.reject(ctx, RejectedAltitudeLow, "Parachute: Too low")
		return RejectedAltitudeLow
	}
	if max := s.ctrl.AltMax(); max >= 0 && alt > float64(max) {
		s.reject(ctx, RejectedAltitudeHigh, "Parachute: Too high")
		return RejectedAltitudeHigh
	}

	s.release(ctx)
	return Released
}

// Params returns the effective configuration.
func (s *ReleaseService) Params() chute.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Params()
}

// release forwards to the controller's single release entry point. The
// critical event is emitted once, before actuation is requested. Callers
// hold the service mutex.
func (s *ReleaseService) release(ctx context.Context) {
	if s.ctrl.Released() {
		return
	}
	if !s.ctrl.ReleaseInitiated() {
		s.log.Warnw("parachute_release", "altitude_m", s.veh.RelativeAltitude())
		s.rec.record(ctx, pc.EventRelease, "Parachute: Released", map[string]any{
			"altitude_m": s.veh.RelativeAltitude(),
			"severity":   "critical",
		})
	}
	s.ctrl.Release()
}

func (s *ReleaseService) reject(ctx context.Context, outcome ReleaseOutcome, msg string) {
	s.log.Warnw("parachute_release_rejected", "reason", outcome.String(), "altitude_m", s.veh.RelativeAltitude())
	s.rec.record(ctx, pc.EventRejected, msg, map[string]any{
		"reason":     outcome.String(),
		"altitude_m": s.veh.RelativeAltitude(),
	})
}
