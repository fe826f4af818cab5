// Package hal provides the hardware-abstraction implementations consumed by
// the release controller: relay and servo outputs, the monotonic millisecond
// clock, and the cross-subsystem notification flag. Outputs are open-loop;
// writes are logged and assumed to take effect.
package hal

import (
	"sync/atomic"
	"time"

	"parachute_control/internal/logger"
)

// Clock counts milliseconds since construction. The counter wraps after
// ~49.7 days, which callers must tolerate via unsigned subtraction.
type Clock struct {
	start time.Time
}

func NewClock() *Clock {
	return &Clock{start: time.Now()}
}

func (c *Clock) Millis() uint32 {
	return uint32(time.Since(c.start) / time.Millisecond)
}

// Relay drives numbered relay channels. This build logs the commanded state
// in place of a GPIO write.
type Relay struct {
	log *logger.Logger
}

func NewRelay(log *logger.Logger) *Relay {
	return &Relay{log: log}
}

func (r *Relay) On(channel int) {
	r.log.Infow("relay_on", "channel", channel)
}

func (r *Relay) Off(channel int) {
	r.log.Infow("relay_off", "channel", channel)
}

// Servo drives the PWM output bound to the parachute channel.
type Servo struct {
	log *logger.Logger
}

func NewServo(log *logger.Logger) *Servo {
	return &Servo{log: log}
}

func (s *Servo) SetPWM(pwm uint16) {
	s.log.Infow("servo_pwm", "pwm_us", pwm)
}

// Notify holds the release notification flag other subsystems poll.
type Notify struct {
	releaseFlag atomic.Bool
}

func NewNotify() *Notify {
	return &Notify{}
}

func (n *Notify) SetReleaseFlag(on bool) {
	n.releaseFlag.Store(on)
}

// ReleaseFlag reports whether a release sequence is pending or active.
func (n *Notify) ReleaseFlag() bool {
	return n.releaseFlag.Load()
}
