package chute

// Defaults for persisted parameters.
const (
	DefaultServoOnPWM  = 1300 // PWM value commanded when the chute channel fires
	DefaultServoOffPWM = 1100 // PWM value commanded when the chute channel is at rest
	DefaultAltMinM     = 10   // min altitude above home before release is allowed
	DefaultAltMaxM     = -1   // negative disables the upper bound
	DefaultDelayMS     = 500  // delay between Release() and actuation
)

// Params is the persisted configuration of the release subsystem.
// Loaded once at boot; immutable during a flight except for the enabled
// flag, which changes only through an explicit admin action.
type Params struct {
	Enabled       bool        `json:"enabled"`
	Trigger       TriggerType `json:"trigger_type"`
	ServoOnPWM    uint16      `json:"servo_on_pwm"`  // µs, 1000-2000
	ServoOffPWM   uint16      `json:"servo_off_pwm"` // µs, 1000-2000
	AltMinM       int         `json:"alt_min_m"`
	AltMaxM       int         `json:"alt_max_m"` // negative = unbounded
	DelayMS       int         `json:"delay_ms"`  // 0-5000, negatives clamp to 0
	AutoEnabled   bool        `json:"auto_enabled"`
	RollMarginCd  int32       `json:"roll_margin_cd"`  // centidegrees on top of the roll limit
	PitchMarginCd int32       `json:"pitch_margin_cd"` // centidegrees below the min pitch limit
	SinkRateMS    float64     `json:"sink_rate_ms"`    // m/s, positive down
	AltThreshM    int         `json:"alt_thresh_m"`    // auto-release ceiling, 0 disables
}

// DefaultParams mirrors the factory defaults of the original parameter set.
func DefaultParams() Params {
	return Params{
		Enabled:       false,
		Trigger:       TriggerRelay0,
		ServoOnPWM:    DefaultServoOnPWM,
		ServoOffPWM:   DefaultServoOffPWM,
		AltMinM:       DefaultAltMinM,
		AltMaxM:       DefaultAltMaxM,
		DelayMS:       DefaultDelayMS,
		AutoEnabled:   false,
		RollMarginCd:  1000,
		PitchMarginCd: 1000,
		SinkRateMS:    10,
		AltThreshM:    0,
	}
}
