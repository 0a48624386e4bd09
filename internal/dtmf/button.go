package dtmf

// ButtonStatus is the press-lifecycle state of the (single) keypad button.
type ButtonStatus int

const (
	// StatusNone means no symbol is active.
	StatusNone ButtonStatus = iota
	// StatusDown means a symbol was newly detected this iteration.
	StatusDown
	// StatusHeld means the same symbol was sustained across iterations.
	StatusHeld
	// StatusUp is a one-shot release pulse: it is held for exactly one
	// iteration before reverting to StatusNone. Downstream sequence
	// accumulation keys off this edge, so it must never repeat.
	StatusUp
)

func (s ButtonStatus) String() string {
	switch s {
	case StatusDown:
		return "DOWN"
	case StatusHeld:
		return "HELD"
	case StatusUp:
		return "UP"
	default:
		return "NONE"
	}
}

// Button is the current decoded key and where it is in its press lifecycle.
// Value is retained through the UP pulse and cleared on the transition to
// NONE.
type Button struct {
	Value  byte
	Status ButtonStatus
}

// advance applies one chunk's classification to the button. The transition
// table:
//
//	signal + known key, key differs or state NONE/UP  -> DOWN
//	signal + known key, key matches DOWN/HELD         -> HELD
//	signal + unknown pair                             -> unchanged
//	no signal, state DOWN/HELD                        -> UP (value kept)
//	no signal, state UP                               -> NONE (value cleared)
//	no signal, state NONE                             -> NONE
func (b *Button) advance(c classification) {
	switch {
	case c.detected && c.keyOK:
		if c.key != b.Value || b.Status == StatusNone || b.Status == StatusUp {
			b.Value = c.key
			b.Status = StatusDown
		} else {
			b.Status = StatusHeld
		}

	case c.detected:
		// SNR passed but the tone pair is not on the keypad. Leave the
		// previous state in place rather than treating this as a release.

	default:
		switch b.Status {
		case StatusDown, StatusHeld:
			b.Status = StatusUp
		case StatusUp:
			b.Value = 0
			b.Status = StatusNone
		}
	}
}
