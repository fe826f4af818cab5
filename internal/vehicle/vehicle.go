// Package vehicle exposes the flight-state surface the parachute
// supervisor consumes, and a simulator implementation for running the
// service without an autopilot link.
package vehicle

// Mode is the active flight mode.
type Mode string

const (
	ModeManual Mode = "MANUAL"
	ModeAuto   Mode = "AUTO"
	ModeRTL    Mode = "RTL"
	ModeLoiter Mode = "LOITER"
)

// State is a read-only view of the vehicle, polled each control tick.
// Attitude is reported in centidegrees, sink rate in m/s positive down.
type State interface {
	Flying() bool
	RelativeAltitude() float64 // meters above home
	FlightMode() Mode
	TakeoffComplete() bool
	LandingInProgress() bool
	NextCommandIsLand() bool
	RollCd() int32
	PitchCd() int32
	RollLimitCd() int32
	PitchLimitMinCd() int32
	SinkRate() float64
}
