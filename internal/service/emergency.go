package service

import (
	"context"
	"fmt"

	pc "parachute_control"
	"parachute_control/internal/chute"
	"parachute_control/internal/vehicle"
)

// Emergency timing, milliseconds.
const (
	controlLossTriggerMS = 1000 // continuous deviation before control counts as lost
	emergencyWindowMS    = 2000 // bound on repeated release attempts once lost
)

// MonitorState is the logical state of the emergency monitor.
type MonitorState int

const (
	MonitorNormal MonitorState = iota
	MonitorLosingControl
	MonitorEmergency
)

func (s MonitorState) String() string {
	switch s {
	case MonitorLosingControl:
		return "LOSING_CONTROL"
	case MonitorEmergency:
		return "EMERGENCY"
	default:
		return "NORMAL"
	}
}

// EmergencyMonitor detects loss of control from attitude and sink-rate
// deviation and releases the parachute automatically. It owns its timers
// and talks to the controller only through the public release path.
// Check runs on the control-loop goroutine; no internal locking.
type EmergencyMonitor struct {
	ctrl    *chute.Controller
	veh     vehicle.State
	clock   chute.Clock
	release *ReleaseService
	rec     *eventRecorder

	controlLossStartedAt uint32 // 0 = not currently losing control
	emergencyStartedAt   uint32 // 0 = no emergency window open
}

func NewEmergencyMonitor(ctrl *chute.Controller, veh vehicle.State, clock chute.Clock,
	release *ReleaseService, rec *eventRecorder) *EmergencyMonitor {
	return &EmergencyMonitor{ctrl: ctrl, veh: veh, clock: clock, release: release, rec: rec}
}

// Check evaluates gating, deviation, debounce and the emergency window.
// Called every control tick.
func (m *EmergencyMonitor) Check(ctx context.Context) {
	now := m.clock.Millis()
	if now == 0 {
		now = 1 // 0 aliases the idle sentinel
	}

	// Gating: any failure forces Normal. Routine, not an error.
	if !m.ctrl.AutoEnabled() || m.ctrl.Released() {
		m.resetTimers()
		return
	}
	if m.veh.FlightMode() != vehicle.ModeAuto {
		m.resetTimers()
		return
	}
	if !m.veh.TakeoffComplete() || m.veh.LandingInProgress() || m.veh.NextCommandIsLand() {
		m.resetTimers()
		return
	}
	alt := m.veh.RelativeAltitude()
	if alt < float64(m.ctrl.AltMin()) {
		m.resetTimers()
		return
	}

	if m.emergencyStartedAt == 0 {
		m.checkDebounce(ctx, now)
		return
	}

	// Emergency window: keep attempting release, bounded in time so a
	// persistently blocked release forces reassessment instead of a
	// stuck state.
	if now-m.emergencyStartedAt < emergencyWindowMS {
		m.attemptRelease(ctx, alt)
		return
	}
	m.rec.record(ctx, pc.EventRestored, "Parachute: Control restored", map[string]any{
		"altitude_m": alt,
	})
	m.resetTimers()
}

// checkDebounce handles Normal -> LosingControl -> Emergency.
func (m *EmergencyMonitor) checkDebounce(ctx context.Context, now uint32) {
	deviation, detail := m.deviationExceeded()
	if !deviation {
		m.controlLossStartedAt = 0
		return
	}
	if m.controlLossStartedAt == 0 {
		m.controlLossStartedAt = now
		m.rec.record(ctx, pc.EventWarning, "Parachute: Starting to lose control, "+detail, map[string]any{
			"deviation": detail,
		})
		return
	}
	if now-m.controlLossStartedAt > controlLossTriggerMS {
		m.emergencyStartedAt = now
		m.rec.record(ctx, pc.EventEmergency, "Parachute: Control lost, "+detail, map[string]any{
			"deviation": detail,
		})
	}
}

// deviationExceeded reports whether any single attitude or sink-rate
// bound is exceeded, with a human-readable detail of the first hit.
func (m *EmergencyMonitor) deviationExceeded() (bool, string) {
	roll := m.veh.RollCd()
	if roll < 0 {
		roll = -roll
	}
	if limit := m.veh.RollLimitCd() + m.ctrl.RollMarginCd(); roll > limit {
		return true, fmt.Sprintf("roll %d cd beyond %d cd", roll, limit)
	}
	// Margin extends below the minimum (nose-down) pitch limit.
	if limit := m.veh.PitchLimitMinCd() - m.ctrl.PitchMarginCd(); m.veh.PitchCd() < limit {
		return true, fmt.Sprintf("pitch %d cd below %d cd", m.veh.PitchCd(), limit)
	}
	if sink := m.veh.SinkRate(); sink > m.ctrl.SinkRateMS() {
		return true, fmt.Sprintf("sink rate %.1f m/s over %.1f m/s", sink, m.ctrl.SinkRateMS())
	}
	return false, ""
}

// attemptRelease applies the altitude bounds of the release path before
// forwarding. ALT_THRESH, when set, is an extra ceiling on automatic
// release only.
func (m *EmergencyMonitor) attemptRelease(ctx context.Context, alt float64) {
	if alt < float64(m.ctrl.AltMin()) {
		return
	}
	if max := m.ctrl.AltMax(); max >= 0 && alt > float64(max) {
		return
	}
	if th := m.ctrl.AltThreshM(); th > 0 && alt > float64(th) {
		return
	}
	m.release.release(ctx)
}

func (m *EmergencyMonitor) resetTimers() {
	m.controlLossStartedAt = 0
	m.emergencyStartedAt = 0
}

// State derives the logical monitor state from the timers.
func (m *EmergencyMonitor) State() MonitorState {
	if m.emergencyStartedAt != 0 {
		return MonitorEmergency
	}
	if m.controlLossStartedAt != 0 {
		return MonitorLosingControl
	}
	return MonitorNormal
}

// ControlLossMs is the timestamp when control was continuously lost;
// 0 when not currently losing control.
func (m *EmergencyMonitor) ControlLossMs() uint32 { return m.controlLossStartedAt }

// EmergencyStartMs is the timestamp when the emergency window opened;
// 0 when no window is open.
func (m *EmergencyMonitor) EmergencyStartMs() uint32 { return m.emergencyStartedAt }

// SetControlLossMs and SetEmergencyStartMs let a supervisory caller seed
// or clear timer state.
func (m *EmergencyMonitor) SetControlLossMs(t uint32)    { m.controlLossStartedAt = t }
func (m *EmergencyMonitor) SetEmergencyStartMs(t uint32) { m.emergencyStartedAt = t }
