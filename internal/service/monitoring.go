package service

import (
	"sync"
	"time"

	pc "parachute_control"
	"parachute_control/internal/chute"
	"parachute_control/internal/vehicle"
)

type MonitoringService struct {
	mu      *sync.Mutex
	ctrl    *chute.Controller
	veh     vehicle.State
	monitor *EmergencyMonitor
	notify  ReleaseFlagSource // nil when no notification subsystem is attached
}

func NewMonitoringService(mu *sync.Mutex, ctrl *chute.Controller, veh vehicle.State,
	monitor *EmergencyMonitor, notify ReleaseFlagSource) *MonitoringService {
	return &MonitoringService{mu: mu, ctrl: ctrl, veh: veh, monitor: monitor, notify: notify}
}

// Status assembles a live snapshot of controller, monitor and vehicle.
func (s *MonitoringService) Status() pc.ChuteStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	flagRaised := false
	if s.notify != nil {
		flagRaised = s.notify.ReleaseFlag()
	}
	return pc.ChuteStatus{
		Enabled:           s.ctrl.Enabled(),
		AutoEnabled:       s.ctrl.AutoEnabled(),
		Released:          s.ctrl.Released(),
		ReleaseInitiated:  s.ctrl.ReleaseInitiated(),
		ReleaseInProgress: s.ctrl.ReleaseInProgress(),
		ReleaseFlagRaised: flagRaised,
		Trigger:           s.ctrl.Trigger().String(),
		MonitorState:      s.monitor.State().String(),
		ControlLossMs:     s.monitor.ControlLossMs(),
		EmergencyStartMs:  s.monitor.EmergencyStartMs(),
		AltitudeM:         s.veh.RelativeAltitude(),
		Flying:            s.veh.Flying(),
		FlightMode:        string(s.veh.FlightMode()),
		UpdatedAt:         time.Now().UTC(),
	}
}
