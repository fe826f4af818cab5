// Package chute implements the vehicle-agnostic parachute release
// controller: it owns the persisted parameters and drives the actuator
// through a timed open-loop sequence. All state is owned by the goroutine
// running the fixed-rate control tick; the package takes no locks.
package chute

// releaseHoldMS is how long the actuator stays asserted once it fires.
const releaseHoldMS = 2000

// Relay switches a numbered relay channel.
type Relay interface {
	On(channel int)
	Off(channel int)
}

// ServoOutput drives the PWM output bound to the chute channel.
type ServoOutput interface {
	SetPWM(pwm uint16)
}

// Clock is a monotonic millisecond counter. It may wrap during long
// missions; elapsed time must be computed with unsigned subtraction.
type Clock interface {
	Millis() uint32
}

// NotifyFlag is a boolean visible to other subsystems while a release
// sequence is pending or active.
type NotifyFlag interface {
	SetReleaseFlag(on bool)
}

// Controller owns release configuration and actuation timing. It is the
// sole owner of actuator state; both the manual gate and the emergency
// monitor route through Release().
type Controller struct {
	params Params
	relay  Relay
	servo  ServoOutput
	clock  Clock
	notify NotifyFlag

	enabled            bool
	releaseRequestedAt uint32 // 0 = idle
	releaseInProgress  bool
	released           bool // latched; cleared only by SetEnabled(false)
	releaseInitiated   bool // set on request, independent of actuation timing
}

func NewController(p Params, relay Relay, servo ServoOutput, clock Clock, notify NotifyFlag) *Controller {
	return &Controller{
		params:  p,
		relay:   relay,
		servo:   servo,
		clock:   clock,
		notify:  notify,
		enabled: p.Enabled,
	}
}

// SetEnabled enables or disables release. Any pending or in-progress
// sequence is aborted; the next Update() restores the OFF state.
// Disabling also clears the released latch. Idempotent.
func (c *Controller) SetEnabled(on bool) {
	c.enabled = on
	c.releaseRequestedAt = 0
	if !on {
		c.released = false
		c.releaseInitiated = false
	}
}

// Release requests deployment. No-op while disabled. Idempotent while a
// sequence is pending: the original request timestamp is kept.
func (c *Controller) Release() {
	if !c.enabled {
		return
	}
	if c.releaseRequestedAt == 0 {
		now := c.clock.Millis()
		if now == 0 {
			now = 1 // 0 aliases the idle sentinel
		}
		c.releaseRequestedAt = now
	}
	c.releaseInitiated = true
	c.notify.SetReleaseFlag(true)
}

// Update drives the actuation sequence and must be called at a fixed
// cadence of about 10 Hz. Correctness depends on a bounded call interval,
// not on the exact frequency.
func (c *Controller) Update() {
	// wraparound-safe elapsed time since the release request
	elapsed := c.clock.Millis() - c.releaseRequestedAt
	delay := uint32(0)
	if c.params.DelayMS > 0 {
		delay = uint32(c.params.DelayMS)
	}

	if c.releaseRequestedAt != 0 && !c.releaseInProgress {
		if elapsed >= delay {
			c.actuate(true)
			c.releaseInProgress = true
			c.released = true
		}
	} else if c.releaseRequestedAt == 0 || elapsed >= delay+releaseHoldMS {
		c.actuate(false)
		c.releaseInProgress = false
		c.releaseRequestedAt = 0
		c.notify.SetReleaseFlag(false)
	}
}

// actuate asserts or de-asserts the configured trigger. Fire-and-forget:
// there is no confirmation read-back at the hardware boundary.
func (c *Controller) actuate(on bool) {
	if c.params.Trigger == TriggerServo {
		if on {
			c.servo.SetPWM(c.params.ServoOnPWM)
		} else {
			c.servo.SetPWM(c.params.ServoOffPWM)
		}
		return
	}
	if ch, ok := c.params.Trigger.relayChannel(); ok {
		if on {
			c.relay.On(ch)
		} else {
			c.relay.Off(ch)
		}
		return
	}
	// TriggerUnsupported: bookkeeping only, no actuation
}

func (c *Controller) Enabled() bool { return c.enabled }

// Released reports whether the parachute has been deployed (or deployment
// is in progress). Latched until SetEnabled(false).
func (c *Controller) Released() bool { return c.released }

// ReleaseInitiated reports whether a release has been requested, even if
// the actuation delay has not elapsed yet.
func (c *Controller) ReleaseInitiated() bool { return c.releaseInitiated }

func (c *Controller) ReleaseInProgress() bool { return c.releaseInProgress }

// AutoEnabled reports whether automatic emergency release may act.
func (c *Controller) AutoEnabled() bool { return c.enabled && c.params.AutoEnabled }

func (c *Controller) Trigger() TriggerType { return c.params.Trigger }

// AltMin is the min altitude above home required before release.
func (c *Controller) AltMin() int { return c.params.AltMinM }

// AltMax is the max altitude above home allowed for release; negative
// means no upper bound.
func (c *Controller) AltMax() int { return c.params.AltMaxM }

func (c *Controller) DelayMS() int { return c.params.DelayMS }

// Emergency-parameter accessors consumed by the supervisory monitor.
func (c *Controller) RollMarginCd() int32  { return c.params.RollMarginCd }
func (c *Controller) PitchMarginCd() int32 { return c.params.PitchMarginCd }
func (c *Controller) SinkRateMS() float64  { return c.params.SinkRateMS }
func (c *Controller) AltThreshM() int      { return c.params.AltThreshM }

// Params returns the effective configuration (enabled flag reflects the
// runtime state, which may have changed since boot).
func (c *Controller) Params() Params {
	p := c.params
	p.Enabled = c.enabled
	return p
}
