package dtmf

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/touchtone/internal/dsp"
	"github.com/banshee-data/touchtone/internal/monitoring"
	"github.com/banshee-data/touchtone/internal/source"
)

var logf = monitoring.Prefixed("dtmf")

// Config is the immutable engine configuration, fixed at construction.
type Config struct {
	// ChunkBytes is the byte count read from the source per iteration
	// (two bytes per sample). Must be even.
	ChunkBytes int
	// SampleRate is the source sample rate in Hz.
	SampleRate int
	// SNRThreshold gates tone detection.
	SNRThreshold int
	// EnableSequence turns the keypress sequence buffer on.
	EnableSequence bool
	// CodeTimeout bounds the gap between keypresses in one sequence.
	CodeTimeout time.Duration
	// Terminator completes a code sequence.
	Terminator byte
	// KillCode, when non-empty and decoded as a completed code, stops the
	// engine.
	KillCode string
}

// Snapshot is the read-only engine state handed to the per-iteration
// callback and to subscribers. Code is non-empty only on the iteration its
// terminator was released.
type Snapshot struct {
	Key    string    `json:"key"`
	Status string    `json:"status"`
	SNR    int       `json:"snr"`
	Code   string    `json:"code,omitempty"`
	Buffer string    `json:"buffer,omitempty"`
	Time   time.Time `json:"time"`
}

// Callback runs synchronously once per engine iteration. It executes on the
// engine's goroutine and gates the next chunk read, so it must not block.
type Callback func(Snapshot)

// Engine orchestrates chunk acquisition, tone classification, the button
// state machine, and sequence accumulation over a single audio source. All
// decoding state is owned by the engine and mutated only on the Run
// goroutine.
type Engine struct {
	cfg      Config
	src      source.AudioSource
	analyzer *dsp.Analyzer
	callback Callback

	// test hook for sequence timing
	now func() time.Time

	button Button
	snr    int
	seq    sequence

	mu   sync.Mutex
	last Snapshot

	subMu       sync.Mutex
	subscribers map[string]chan Snapshot
}

// New validates cfg against the DTMF band geometry and binds the engine to
// src. Configuration problems (odd chunk size, unresolvable bands, bad
// terminator) are reported here, before any audio is read.
func New(cfg Config, src source.AudioSource, cb Callback) (*Engine, error) {
	analyzer, err := dsp.NewAnalyzer(cfg.ChunkBytes, cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	if cfg.EnableSequence && cfg.Terminator != 0 && !ValidSymbol(cfg.Terminator) {
		return nil, fmt.Errorf("terminator %q is not a keypad symbol", cfg.Terminator)
	}
	for i := 0; i < len(cfg.KillCode); i++ {
		if !ValidSymbol(cfg.KillCode[i]) {
			return nil, fmt.Errorf("kill code %q contains non-keypad symbol %q", cfg.KillCode, cfg.KillCode[i])
		}
	}

	e := &Engine{
		cfg:         cfg,
		src:         src,
		analyzer:    analyzer,
		callback:    cb,
		now:         time.Now,
		subscribers: make(map[string]chan Snapshot),
	}
	e.seq.lastKeypress = e.now()
	return e, nil
}

// State returns the snapshot from the most recent iteration. Safe to call
// from other goroutines (the HTTP surface reads it).
func (e *Engine) State() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Run drives the decode loop until the kill code fires, the source fails
// fatally, or ctx is cancelled. The source is terminated on every exit
// path; the engine owns it exclusively.
func (e *Engine) Run(ctx context.Context) error {
	buf := make([]byte, e.cfg.ChunkBytes)
	samples := make([]int16, e.analyzer.SamplesPerChunk())

	for {
		if err := ctx.Err(); err != nil {
			e.src.Terminate()
			return err
		}

		full := false
		_, err := e.src.ReadChunk(buf)
		switch {
		case err == nil:
			full = true
		case errors.Is(err, source.ErrNoData):
			// Transient: skip decoding this iteration, keep looping.
		default:
			e.src.Terminate()
			return fmt.Errorf("audio source failed: %w", err)
		}

		if full {
			for i := range samples {
				samples[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
			}
			intensity, err := e.analyzer.Analyze(samples)
			if err != nil {
				e.src.Terminate()
				return err
			}
			c := classify(intensity, e.cfg.SNRThreshold)
			e.snr = c.snr
			e.button.advance(c)
		}

		if e.cfg.EnableSequence {
			e.seq.update(e.button, e.now(), e.cfg.CodeTimeout, e.cfg.Terminator, e.cfg.KillCode)
		}

		snap := e.snapshot()
		e.mu.Lock()
		e.last = snap
		e.mu.Unlock()

		if e.callback != nil {
			e.callback(snap)
		}
		e.publish(snap)

		if e.seq.killTriggered {
			logf("kill code detected, stopping decoder")
			return e.src.Terminate()
		}
	}
}

func (e *Engine) snapshot() Snapshot {
	s := Snapshot{
		Status: e.button.Status.String(),
		SNR:    e.snr,
		Code:   e.seq.code,
		Buffer: string(e.seq.buffer),
		Time:   e.now(),
	}
	if e.button.Value != 0 {
		s.Key = string(e.button.Value)
	}
	return s
}
