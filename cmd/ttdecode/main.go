// ttdecode is a command-line DTMF decoder. It tunes rtl_fm to a frequency
// and prints what it hears, in one of three modes:
//
//	realtime  print key, status, and SNR for every chunk
//	buffer    print the code buffer each time a key is released
//	code      print completed command codes (sequences ending in the
//	          terminator)
//
// With -log, every key release and completed code is appended to a
// JSON-lines file that snr-report can render.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/touchtone/internal/dtmf"
	"github.com/banshee-data/touchtone/internal/source"
)

var (
	freq        = flag.String("freq", "", "Receive frequency in MHz, e.g. 147.575")
	mode        = flag.String("mode", "code", "Output mode: realtime, buffer, or code")
	chunkBytes  = flag.Int("chunk", 3600, "Audio chunk size in bytes")
	sampleRate  = flag.Int("rate", 24000, "Audio sample rate in Hz")
	threshold   = flag.Int("threshold", 9, "SNR detection threshold")
	terminator  = flag.String("terminator", "#", "Sequence terminator symbol")
	codeTimeout = flag.Duration("timeout", 10*time.Second, "Inter-keypress timeout")
	killCode    = flag.String("kill", "", "Kill code that stops the decoder")
	readTimeout = flag.Duration("read-timeout", 0, "Per-chunk read timeout (0 blocks)")
	logPath     = flag.String("log", "", "Append key events as JSON lines to this file")
)

func main() {
	flag.Parse()

	if *freq == "" {
		fmt.Fprintln(os.Stderr, "ttdecode: -freq is required")
		flag.Usage()
		os.Exit(2)
	}

	callback, err := makeCallback(*mode, *logPath)
	if err != nil {
		log.Fatalf("ttdecode: %v", err)
	}

	var term byte
	if *terminator != "" {
		term = (*terminator)[0]
	}

	src, err := source.StartRTLFM(*freq, *chunkBytes, *readTimeout)
	if err != nil {
		log.Fatalf("ttdecode: %v", err)
	}

	engine, err := dtmf.New(dtmf.Config{
		ChunkBytes:     *chunkBytes,
		SampleRate:     *sampleRate,
		SNRThreshold:   *threshold,
		EnableSequence: *mode != "realtime",
		CodeTimeout:    *codeTimeout,
		Terminator:     term,
		KillCode:       *killCode,
	}, src, callback)
	if err != nil {
		src.Terminate()
		log.Fatalf("ttdecode: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *mode == "code" {
		fmt.Printf("Press a sequence of DTMF buttons followed by %s\n", *terminator)
	}
	if err := engine.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("ttdecode: %v", err)
	}
}

// makeCallback builds the per-iteration callback for the selected mode,
// optionally teeing key events to a JSON-lines log.
func makeCallback(mode, logPath string) (dtmf.Callback, error) {
	var events *json.Encoder
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open event log: %w", err)
		}
		events = json.NewEncoder(f)
	}

	logEvent := func(s dtmf.Snapshot) {
		if events != nil && (s.Status == "UP" || s.Code != "") {
			events.Encode(s)
		}
	}

	switch mode {
	case "realtime":
		return func(s dtmf.Snapshot) {
			logEvent(s)
			fmt.Printf("%s: %s | SNR:%d\n", s.Key, s.Status, s.SNR)
		}, nil
	case "buffer":
		return func(s dtmf.Snapshot) {
			logEvent(s)
			if s.Status == "UP" {
				fmt.Printf("Code Buffer: %s\n", s.Buffer)
			}
		}, nil
	case "code":
		return func(s dtmf.Snapshot) {
			logEvent(s)
			if s.Code != "" {
				fmt.Printf("Code: %s\n", s.Code)
			}
		}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}
