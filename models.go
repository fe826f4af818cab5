package parachute_control

import "time"

// Event types appended to the chute_events log.
const (
	EventRelease   = "RELEASE"
	EventRejected  = "REJECTED"
	EventWarning   = "WARNING"
	EventEmergency = "EMERGENCY"
	EventRestored  = "RESTORED"
	EventConfig    = "CONFIG"
)

// ChuteStatus is a point-in-time snapshot of the deployment subsystem.
type ChuteStatus struct {
	Enabled           bool      `json:"enabled"`
	AutoEnabled       bool      `json:"auto_enabled"`
	Released          bool      `json:"released"`
	ReleaseInitiated  bool      `json:"release_initiated"`
	ReleaseInProgress bool      `json:"release_in_progress"`
	ReleaseFlagRaised bool      `json:"release_flag_raised"`    // cross-subsystem notification flag
	Trigger           string    `json:"trigger"`                // RELAY0..RELAY3 | SERVO | UNSUPPORTED
	MonitorState      string    `json:"monitor_state"`          // NORMAL | LOSING_CONTROL | EMERGENCY
	ControlLossMs     uint32    `json:"control_loss_ms"`        // 0 when not losing control
	EmergencyStartMs  uint32    `json:"emergency_start_ms"`     // 0 when no emergency window open
	AltitudeM         float64   `json:"altitude_m"`             // relative to home
	Flying            bool      `json:"flying"`
	FlightMode        string    `json:"flight_mode"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ChuteEvent is a single log entry.
type ChuteEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // RELEASE | REJECTED | WARNING | EMERGENCY | RESTORED | CONFIG
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never expose the hash
}
