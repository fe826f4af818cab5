package service

import (
	"context"
	"sync"
	"time"

	pc "parachute_control"
	"parachute_control/internal/chute"
	"parachute_control/internal/logger"
	"parachute_control/internal/repository"
	"parachute_control/internal/vehicle"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Chute exposes the supervisory operations on the release subsystem.
type Chute interface {
	SetEnabled(ctx context.Context, on bool) error
	ManualRelease(ctx context.Context) ReleaseOutcome
	Params() chute.Params
}

// Monitoring exposes the live status snapshot.
type Monitoring interface {
	Status() pc.ChuteStatus
}

// EventLog exposes the append-only log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]pc.ChuteEvent, error)
}

// ControlLoop runs the fixed-rate tick that drives actuation timing and
// the emergency check. Stop via context cancellation for graceful shutdown.
type ControlLoop interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Chute
	Monitoring
	EventLog
	ControlLoop
	Authorization
}

// Deps carries the wiring a Service needs. Stepper is optional (nil when a
// real autopilot link provides the vehicle state).
type Deps struct {
	Repos      *repository.Repository
	Controller *chute.Controller
	Vehicle    vehicle.State
	Clock      chute.Clock
	Notify     ReleaseFlagSource
	Stepper    Stepper
	Log        *logger.Logger
}

// Stepper advances a simulated vehicle between ticks.
type Stepper interface {
	Step(dt time.Duration)
}

// ReleaseFlagSource reads the cross-subsystem notification flag.
type ReleaseFlagSource interface {
	ReleaseFlag() bool
}

// NewService wires the repository layer and control core into concrete
// services. The controller and monitor are owned by the control loop tick;
// a single mutex serializes the HTTP-facing calls against it.
func NewService(d Deps) *Service {
	mu := &sync.Mutex{}
	rec := &eventRecorder{events: d.Repos.Events, log: d.Log}
	release := NewReleaseService(mu, d.Controller, d.Vehicle, d.Repos.Params, rec, d.Log)
	monitor := NewEmergencyMonitor(d.Controller, d.Vehicle, d.Clock, release, rec)
	return &Service{
		Chute:         release,
		Monitoring:    NewMonitoringService(mu, d.Controller, d.Vehicle, monitor, d.Notify),
		EventLog:      NewEventLogService(d.Repos.Events),
		ControlLoop:   NewLoopService(mu, d.Controller, monitor, d.Stepper, d.Log),
		Authorization: NewAuthService(d.Repos.Auth),
	}
}

// eventRecorder fans a status event out to the persistent log and zap.
// Append failures are logged, never propagated: losing a log line must not
// block a release decision.
type eventRecorder struct {
	events repository.EventRepo
	log    *logger.Logger
}

func (r *eventRecorder) record(ctx context.Context, typ, description string, meta map[string]any) {
	if err := r.events.Append(ctx, pc.ChuteEvent{
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: description,
		Metadata:    meta,
	}); err != nil {
		r.log.Errorw("event_append_failed", "err", err, "type", typ, "description", description)
	}
}
