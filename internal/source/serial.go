package source

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/banshee-data/touchtone/internal/monitoring"
)

// SerialMode holds the port parameters for a serial discriminator tap.
type SerialMode struct {
	BaudRate int
	DataBits int
}

// DefaultSerialMode returns the mode used by the USB audio bridges we have
// tested against.
func DefaultSerialMode() *SerialMode {
	return &SerialMode{
		BaudRate: 115200,
		DataBits: 8,
	}
}

// SerialSource reads raw PCM from a serial-attached device, for radios that
// expose discriminator audio over a USB-serial bridge instead of a
// soundcard or SDR.
type SerialSource struct {
	port        serial.Port
	path        string
	chunkBytes  int
	readTimeout time.Duration
}

// OpenSerial opens the serial device at path and configures it for chunked
// PCM reads. A readTimeout of zero blocks until a full chunk arrives.
func OpenSerial(path string, mode *SerialMode, chunkBytes int, readTimeout time.Duration) (*SerialSource, error) {
	if mode == nil {
		mode = DefaultSerialMode()
	}
	if chunkBytes <= 0 {
		return nil, fmt.Errorf("serial source: chunk size must be positive, got %d", chunkBytes)
	}

	port, err := serial.Open(path, &serial.Mode{
		BaudRate: mode.BaudRate,
		DataBits: mode.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("serial source: open %s: %w", path, err)
	}
	if readTimeout > 0 {
		if err := port.SetReadTimeout(readTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("serial source: set read timeout: %w", err)
		}
	}
	monitoring.Logf("serial audio source opened at %s (%d baud)", path, mode.BaudRate)

	return &SerialSource{
		port:        port,
		path:        path,
		chunkBytes:  chunkBytes,
		readTimeout: readTimeout,
	}, nil
}

// ReadChunk accumulates reads until buf is full. A timed-out read with no
// progress at all reports ErrNoData; a timeout after partial progress keeps
// waiting so chunks stay frame-aligned.
func (s *SerialSource) ReadChunk(buf []byte) (int, error) {
	if len(buf) != s.chunkBytes {
		return 0, fmt.Errorf("serial source: read of %d bytes, chunk size is %d", len(buf), s.chunkBytes)
	}

	filled := 0
	for filled < len(buf) {
		n, err := s.port.Read(buf[filled:])
		if err != nil {
			return filled, &ExitError{Err: err}
		}
		if n == 0 {
			// go.bug.st/serial signals a read timeout as (0, nil).
			if filled == 0 {
				return 0, ErrNoData
			}
			continue
		}
		filled += n
	}
	return filled, nil
}

// Terminate closes the serial port.
func (s *SerialSource) Terminate() error {
	monitoring.Logf("closing serial audio source at %s", s.path)
	return s.port.Close()
}
