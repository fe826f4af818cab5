package chute

// TriggerType selects the mechanism wired to the deployment channel.
type TriggerType int

const (
	TriggerRelay0 TriggerType = 0
	TriggerRelay1 TriggerType = 1
	TriggerRelay2 TriggerType = 2
	TriggerRelay3 TriggerType = 3
	TriggerServo  TriggerType = 10

	// TriggerUnsupported covers any persisted value outside the known set.
	// Actuation is skipped; timing bookkeeping still runs.
	TriggerUnsupported TriggerType = -1
)

// TriggerFromParam maps a persisted TYPE value to a trigger variant.
// Unknown values collapse to TriggerUnsupported.
func TriggerFromParam(v int) TriggerType {
	switch TriggerType(v) {
	case TriggerRelay0, TriggerRelay1, TriggerRelay2, TriggerRelay3, TriggerServo:
		return TriggerType(v)
	default:
		return TriggerUnsupported
	}
}

func (t TriggerType) String() string {
	switch t {
	case TriggerRelay0:
		return "RELAY0"
	case TriggerRelay1:
		return "RELAY1"
	case TriggerRelay2:
		return "RELAY2"
	case TriggerRelay3:
		return "RELAY3"
	case TriggerServo:
		return "SERVO"
	default:
		return "UNSUPPORTED"
	}
}

// relayChannel returns the relay channel index for relay-type triggers.
func (t TriggerType) relayChannel() (int, bool) {
	if t >= TriggerRelay0 && t <= TriggerRelay3 {
		return int(t), true
	}
	return 0, false
}
