package source

import (
	"errors"
	"io"
	"testing"
)

func TestTestableSourceReads(t *testing.T) {
	src := NewTestableSource()
	src.AddChunk([]byte{1, 2, 3, 4, 5, 6})

	buf := make([]byte, 4)
	n, err := src.ReadChunk(buf)
	if err != nil || n != 4 {
		t.Fatalf("ReadChunk = %d, %v", n, err)
	}
	if buf[0] != 1 || buf[3] != 4 {
		t.Errorf("read wrong bytes: %v", buf)
	}

	// only two bytes left: not enough for a chunk
	if _, err := src.ReadChunk(buf); !errors.Is(err, ErrNoData) {
		t.Errorf("partial buffer read err = %v, want ErrNoData", err)
	}

	if src.ReadCalls != 2 {
		t.Errorf("ReadCalls = %d, want 2", src.ReadCalls)
	}
}

func TestTestableSourceScriptedError(t *testing.T) {
	src := NewTestableSource()
	src.AddChunk(make([]byte, 4))
	src.ReadError = ErrNoData

	buf := make([]byte, 4)
	if _, err := src.ReadChunk(buf); !errors.Is(err, ErrNoData) {
		t.Fatalf("scripted error not returned: %v", err)
	}
	// error is one-shot; the buffered chunk is still there
	if _, err := src.ReadChunk(buf); err != nil {
		t.Fatalf("read after scripted error: %v", err)
	}
}

func TestTestableSourceDrainedError(t *testing.T) {
	src := NewTestableSource()
	src.DrainedError = &ExitError{Err: io.EOF}

	buf := make([]byte, 4)
	_, err := src.ReadChunk(buf)
	var exit *ExitError
	if !errors.As(err, &exit) {
		t.Fatalf("drained read err = %v, want ExitError", err)
	}
}

func TestTestableSourceTerminate(t *testing.T) {
	src := NewTestableSource()
	if err := src.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if !src.Terminated || src.TerminateCalls != 1 {
		t.Errorf("Terminated=%v TerminateCalls=%d", src.Terminated, src.TerminateCalls)
	}

	// reads after terminate are fatal
	if _, err := src.ReadChunk(make([]byte, 4)); err == nil {
		t.Error("read after Terminate succeeded")
	}
}

func TestTestableSourceReset(t *testing.T) {
	src := NewTestableSource()
	src.AddChunk([]byte{1, 2})
	src.Terminate()
	src.Reset()

	if src.Terminated || src.ReadCalls != 0 || src.TerminateCalls != 0 || src.ReadBuffer.Len() != 0 {
		t.Errorf("Reset left state behind: %+v", src)
	}
}
