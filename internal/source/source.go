// Package source provides the audio chunk sources the decoder reads from: a
// demodulating rtl_fm subprocess, a serial-attached discriminator tap, and a
// scripted fake for tests. All sources deliver signed 16-bit little-endian
// PCM in fixed-size chunks.
package source

import (
	"errors"
	"fmt"
)

// ErrNoData marks a transient read failure: the source produced no chunk
// this iteration but is still alive. Callers should skip decoding and try
// again. Any other error from ReadChunk is fatal to the source.
var ErrNoData = errors.New("audio source: no data available")

// ExitError reports that the audio source is gone for good, for example the
// demodulator process exited or the serial port was unplugged.
type ExitError struct {
	Err error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("audio source terminated: %v", e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

// AudioSource is the minimal contract the engine needs from an audio
// producer. ReadChunk fills buf with exactly len(buf) bytes of PCM or
// returns an error; Terminate shuts the producer down and is safe to call
// more than once.
type AudioSource interface {
	ReadChunk(buf []byte) (int, error)
	Terminate() error
}
