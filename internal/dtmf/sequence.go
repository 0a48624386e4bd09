package dtmf

import "time"

// sequence accumulates released keys into command codes. code holds a
// completed code for exactly the iteration its terminator was released and
// is empty otherwise.
type sequence struct {
	buffer        []byte
	lastKeypress  time.Time
	code          string
	killTriggered bool
}

// update runs once per engine iteration after the button state machine.
//
// Inside the timeout window, an UP pulse appends the released key; a
// terminator completes the code (terminator stripped) and clears the
// buffer. Past the window the partial buffer is discarded before anything
// else happens, so a late key starts a fresh sequence.
func (s *sequence) update(b Button, now time.Time, timeout time.Duration, terminator byte, killCode string) {
	s.code = ""

	if now.Sub(s.lastKeypress) <= timeout {
		if b.Status == StatusUp {
			s.lastKeypress = now
			s.buffer = append(s.buffer, b.Value)
			if b.Value == terminator {
				s.code = string(s.buffer[:len(s.buffer)-1])
				s.buffer = s.buffer[:0]
			}
		}
	} else {
		s.buffer = s.buffer[:0]
		s.lastKeypress = now
	}

	if killCode != "" && s.code == killCode {
		s.killTriggered = true
	}
}
