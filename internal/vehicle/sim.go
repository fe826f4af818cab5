package vehicle

import (
	"sync"
	"time"
)

// Default airframe limits, centidegrees.
const (
	DefaultRollLimitCd     = 4500
	DefaultPitchLimitMinCd = -2500
)

// Sim is a settable flight-state provider stepped by the control loop.
// Setters may be called from other goroutines (tests, scenario scripts);
// the mutex covers only this struct, the control core stays lock-free.
type Sim struct {
	mu sync.RWMutex

	flying          bool
	altitudeM       float64
	mode            Mode
	takeoffComplete bool
	landing         bool
	nextCmdLand     bool
	rollCd          int32
	pitchCd         int32
	sinkRateMS      float64

	rollLimitCd     int32
	pitchLimitMinCd int32
}

func NewSim(rollLimitCd, pitchLimitMinCd int32) *Sim {
	if rollLimitCd <= 0 {
		rollLimitCd = DefaultRollLimitCd
	}
	if pitchLimitMinCd >= 0 {
		pitchLimitMinCd = DefaultPitchLimitMinCd
	}
	return &Sim{
		mode:            ModeManual,
		rollLimitCd:     rollLimitCd,
		pitchLimitMinCd: pitchLimitMinCd,
	}
}

// Step advances the simulated flight by dt: altitude integrates the sink
// rate, and the vehicle lands when it reaches the ground.
func (s *Sim) Step(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.flying {
		return
	}
	s.altitudeM -= s.sinkRateMS * dt.Seconds()
	if s.altitudeM <= 0 {
		s.altitudeM = 0
		s.flying = false
		s.landing = false
	}
}

func (s *Sim) Flying() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flying
}

func (s *Sim) RelativeAltitude() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.altitudeM
}

func (s *Sim) FlightMode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *Sim) TakeoffComplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.takeoffComplete
}

func (s *Sim) LandingInProgress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.landing
}

func (s *Sim) NextCommandIsLand() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextCmdLand
}

func (s *Sim) RollCd() int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rollCd
}

func (s *Sim) PitchCd() int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pitchCd
}

func (s *Sim) RollLimitCd() int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rollLimitCd
}

func (s *Sim) PitchLimitMinCd() int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pitchLimitMinCd
}

func (s *Sim) SinkRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sinkRateMS
}

// SetFlying marks the vehicle airborne or landed.
func (s *Sim) SetFlying(flying bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flying = flying
}

func (s *Sim) SetAltitude(m float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.altitudeM = m
}

func (s *Sim) SetFlightMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

func (s *Sim) SetTakeoffComplete(done bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.takeoffComplete = done
}

func (s *Sim) SetLanding(inProgress, nextCmdLand bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.landing = inProgress
	s.nextCmdLand = nextCmdLand
}

func (s *Sim) SetAttitude(rollCd, pitchCd int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollCd = rollCd
	s.pitchCd = pitchCd
}

func (s *Sim) SetSinkRate(ms float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinkRateMS = ms
}
