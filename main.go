// Touchtone daemon: decodes DTMF telecommand sequences from an RTL-SDR (via
// rtl_fm) or a serial discriminator tap, and serves decoder state over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/touchtone/internal/api"
	"github.com/banshee-data/touchtone/internal/config"
	"github.com/banshee-data/touchtone/internal/dsp"
	"github.com/banshee-data/touchtone/internal/dtmf"
	"github.com/banshee-data/touchtone/internal/source"
	"github.com/banshee-data/touchtone/internal/version"
)

var (
	devMode     = flag.Bool("dev", false, "Run in dev mode with a synthetic audio source")
	listen      = flag.String("listen", ":8080", "Listen address")
	configPath  = flag.String("config", "", "Path to decoder config JSON")
	freq        = flag.String("freq", "", "Receive frequency in MHz (overrides config)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// devKeys is the key sequence the synthetic dev source plays on a loop.
const devKeys = "123#"

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("touchtone %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	cfg := config.DefaultDecoderConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadDecoderConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	if *freq != "" {
		cfg.Frequency = freq
	}

	src, err := openSource(cfg)
	if err != nil {
		log.Fatalf("failed to open audio source: %v", err)
	}

	engine, err := dtmf.New(dtmf.Config{
		ChunkBytes:     cfg.GetChunkBytes(),
		SampleRate:     cfg.GetSampleRate(),
		SNRThreshold:   cfg.GetSNRThreshold(),
		EnableSequence: cfg.GetEnableSequence(),
		CodeTimeout:    cfg.GetCodeTimeout(),
		Terminator:     cfg.GetTerminator(),
		KillCode:       cfg.GetKillCode(),
	}, src, logKeyEvents())
	if err != nil {
		src.Terminate()
		log.Fatalf("failed to configure decoder: %v", err)
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// decode loop
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer stop() // a dead decoder should take the HTTP server down too
		if err := engine.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("decoder stopped: %v", err)
			return
		}
		log.Print("decoder routine terminated")
	}()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		server := &http.Server{
			Addr:    *listen,
			Handler: api.NewServer(engine).ServeMux(),
		}

		go func() {
			log.Printf("listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}

// openSource picks the audio source: synthetic in dev mode, serial when a
// port is configured, rtl_fm otherwise.
func openSource(cfg *config.DecoderConfig) (source.AudioSource, error) {
	if *devMode {
		return devSource(cfg), nil
	}
	if port := cfg.GetSerialPort(); port != "" {
		mode := source.DefaultSerialMode()
		mode.BaudRate = cfg.GetSerialBaud()
		return source.OpenSerial(port, mode, cfg.GetChunkBytes(), cfg.GetReadTimeout())
	}
	if cfg.GetFrequency() == "" {
		return nil, fmt.Errorf("no receive frequency configured (use -freq or the config file)")
	}
	return source.StartRTLFM(cfg.GetFrequency(), cfg.GetChunkBytes(), cfg.GetReadTimeout())
}

// devSource builds a scripted source that plays devKeys once, then idles at
// roughly real-time chunk pacing so the HTTP surface can be poked without
// hardware.
func devSource(cfg *config.DecoderConfig) source.AudioSource {
	rate := cfg.GetSampleRate()
	samples := cfg.GetChunkBytes() / 2

	src := source.NewTestableSource()
	src.ReadLatency = time.Duration(samples) * time.Second / time.Duration(rate)
	for i := 0; i < len(devKeys); i++ {
		low, high, ok := dtmf.TonesFor(devKeys[i])
		if !ok {
			continue
		}
		tone := dsp.PCMBytes(dsp.SynthesizeTone(low, high, samples, rate))
		gap := dsp.PCMBytes(dsp.SynthesizeTone(0, 0, samples, rate))
		// two tone chunks (DOWN, HELD) then two silent ones (UP, NONE)
		src.AddChunk(tone)
		src.AddChunk(tone)
		src.AddChunk(gap)
		src.AddChunk(gap)
	}
	return src
}

// logKeyEvents returns the per-iteration callback: it logs key releases and
// completed codes, staying quiet for the no-activity iterations that make
// up almost all of the stream.
func logKeyEvents() dtmf.Callback {
	return func(s dtmf.Snapshot) {
		if s.Status == "UP" {
			log.Printf("key released: %s (snr %d, buffer %q)", s.Key, s.SNR, s.Buffer)
		}
		if s.Code != "" {
			log.Printf("code received: %q", s.Code)
		}
	}
}
