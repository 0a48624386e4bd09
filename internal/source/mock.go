package source

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

var errSourceTerminated = errors.New("source terminated")

// TestableSource implements AudioSource with configurable behaviour for
// testing. It provides fine-grained control over reads, errors, and
// latency, and records terminate calls.
type TestableSource struct {
	mu sync.Mutex

	// ReadBuffer holds PCM to be returned by ReadChunk calls.
	ReadBuffer *bytes.Buffer

	// ReadError is returned by the next ReadChunk call if set, then cleared.
	ReadError error

	// DrainedError is returned once ReadBuffer can no longer fill a whole
	// chunk. When nil, an exhausted buffer reports ErrNoData instead.
	DrainedError error

	// ReadLatency adds a delay to each ReadChunk call.
	ReadLatency time.Duration

	// TerminateError is returned by Terminate if set.
	TerminateError error

	// Terminated indicates whether Terminate was called.
	Terminated bool

	// ReadCalls records the number of ReadChunk calls.
	ReadCalls int

	// TerminateCalls records the number of Terminate calls.
	TerminateCalls int
}

// NewTestableSource creates a TestableSource with an empty read buffer.
func NewTestableSource() *TestableSource {
	return &TestableSource{ReadBuffer: bytes.NewBuffer(nil)}
}

// AddChunk appends PCM to be returned by subsequent ReadChunk calls.
func (t *TestableSource) AddChunk(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ReadBuffer.Write(data)
}

// ReadChunk returns buffered data, simulating latency and scripted errors.
func (t *TestableSource) ReadChunk(buf []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ReadCalls++

	if t.Terminated {
		return 0, &ExitError{Err: errSourceTerminated}
	}

	if t.ReadError != nil {
		err := t.ReadError
		t.ReadError = nil
		return 0, err
	}

	if t.ReadLatency > 0 {
		t.mu.Unlock()
		time.Sleep(t.ReadLatency)
		t.mu.Lock()
	}

	if t.ReadBuffer.Len() < len(buf) {
		if t.DrainedError != nil {
			return 0, t.DrainedError
		}
		return 0, ErrNoData
	}
	return t.ReadBuffer.Read(buf)
}

// Terminate marks the source as terminated.
func (t *TestableSource) Terminate() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Terminated = true
	t.TerminateCalls++
	return t.TerminateError
}

// Reset clears all buffers and recorded state.
func (t *TestableSource) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ReadBuffer.Reset()
	t.ReadError = nil
	t.DrainedError = nil
	t.TerminateError = nil
	t.ReadLatency = 0
	t.Terminated = false
	t.ReadCalls = 0
	t.TerminateCalls = 0
}
