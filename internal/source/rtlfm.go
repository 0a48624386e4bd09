package source

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/banshee-data/touchtone/internal/monitoring"
)

// rtlFMBinary is the demodulator executable. A variable so tests can point
// it at something that exists (or deliberately does not).
var rtlFMBinary = "rtl_fm"

// rtlFMArgs builds the argument list for rtl_fm: tune to freq MHz, 4x
// oversampling, raw samples to stdout.
func rtlFMArgs(freq string) []string {
	return []string{"-f", freq + "M", "-o", "4", "-"}
}

// RTLFMSource reads demodulated audio from an rtl_fm subprocess. A reader
// goroutine pulls full chunks off the pipe so ReadChunk can honour an
// optional timeout even though pipe reads cannot be interrupted.
type RTLFMSource struct {
	cmd         *exec.Cmd
	stdout      io.ReadCloser
	chunkBytes  int
	readTimeout time.Duration

	chunks chan []byte
	errc   chan error

	terminate sync.Once
	termErr   error
}

// StartRTLFM spawns rtl_fm tuned to freq (MHz, e.g. "147.575") and begins
// buffering chunks of chunkBytes bytes. readTimeout bounds how long a single
// ReadChunk waits before reporting ErrNoData; zero blocks indefinitely.
func StartRTLFM(freq string, chunkBytes int, readTimeout time.Duration) (*RTLFMSource, error) {
	if freq == "" {
		return nil, fmt.Errorf("rtl_fm: receive frequency is required")
	}
	if chunkBytes <= 0 {
		return nil, fmt.Errorf("rtl_fm: chunk size must be positive, got %d", chunkBytes)
	}

	cmd := exec.Command(rtlFMBinary, rtlFMArgs(freq)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("rtl_fm: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("rtl_fm: failed to start %q: %w", rtlFMBinary, err)
	}
	monitoring.Logf("rtl_fm started (pid %d) tuned to %sM", cmd.Process.Pid, freq)

	s := &RTLFMSource{
		cmd:         cmd,
		stdout:      stdout,
		chunkBytes:  chunkBytes,
		readTimeout: readTimeout,
		chunks:      make(chan []byte, 1),
		errc:        make(chan error, 1),
	}
	go s.readLoop()
	return s, nil
}

// readLoop fills chunks from the pipe until it breaks. The pipe closing is
// how we learn the process died; the exit status is folded into the error.
func (s *RTLFMSource) readLoop() {
	defer close(s.chunks)
	for {
		buf := make([]byte, s.chunkBytes)
		if _, err := io.ReadFull(s.stdout, buf); err != nil {
			waitErr := s.cmd.Wait()
			if waitErr != nil {
				err = waitErr
			}
			s.errc <- &ExitError{Err: err}
			return
		}
		s.chunks <- buf
	}
}

// ReadChunk copies the next buffered chunk into buf. It returns ErrNoData
// when the configured read timeout elapses first, and an ExitError once the
// subprocess is gone.
func (s *RTLFMSource) ReadChunk(buf []byte) (int, error) {
	if len(buf) != s.chunkBytes {
		return 0, fmt.Errorf("rtl_fm: read of %d bytes, chunk size is %d", len(buf), s.chunkBytes)
	}

	var timeout <-chan time.Time
	if s.readTimeout > 0 {
		t := time.NewTimer(s.readTimeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case chunk, ok := <-s.chunks:
		if !ok {
			return 0, <-s.errc
		}
		return copy(buf, chunk), nil
	case err := <-s.errc:
		return 0, err
	case <-timeout:
		return 0, ErrNoData
	}
}

// Terminate kills the subprocess and releases the pipe. Safe to call
// repeatedly; only the first call does the work.
func (s *RTLFMSource) Terminate() error {
	s.terminate.Do(func() {
		monitoring.Logf("terminating rtl_fm (pid %d)", s.cmd.Process.Pid)
		if err := s.cmd.Process.Kill(); err != nil {
			s.termErr = fmt.Errorf("rtl_fm: kill: %w", err)
		}
		s.stdout.Close()
		// readLoop observes the broken pipe and calls Wait; nothing to
		// reap here.
	})
	return s.termErr
}
