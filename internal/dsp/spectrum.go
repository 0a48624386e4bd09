package dsp

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Analyzer computes per-band tone intensities for fixed-size chunks of
// signed 16-bit little-endian audio. The bin ranges for the eight DTMF
// bands are derived once from the chunk size and sample rate at
// construction; chunk geometry is fixed for the analyzer's lifetime.
type Analyzer struct {
	chunkBytes int
	sampleRate int
	samples    int
	resolution float64

	fft    *fourier.FFT
	ranges [NumTones]BinRange

	// scratch buffers reused across chunks
	seq   []float64
	coeff []complex128
}

// NewAnalyzer validates the chunk geometry and precomputes the FFT bin
// ranges for all eight DTMF bands. chunkBytes is the number of bytes read
// from the audio source per iteration (two bytes per sample), so a chunk of
// N bytes yields N/2 samples and N/4+1 usable frequency bins at a
// resolution of sampleRate/(N/2) Hz.
func NewAnalyzer(chunkBytes, sampleRate int) (*Analyzer, error) {
	if chunkBytes <= 0 || chunkBytes%2 != 0 {
		return nil, fmt.Errorf("chunk size must be a positive even byte count, got %d", chunkBytes)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if sampleRate/2 < bandEnd[NumTones-1] {
		return nil, fmt.Errorf("sample rate %d Hz cannot represent the %d Hz DTMF band", sampleRate, bandEnd[NumTones-1])
	}

	samples := chunkBytes / 2
	resolution := float64(sampleRate) / float64(samples)
	bins := samples/2 + 1

	a := &Analyzer{
		chunkBytes: chunkBytes,
		sampleRate: sampleRate,
		samples:    samples,
		resolution: resolution,
		fft:        fourier.NewFFT(samples),
		seq:        make([]float64, samples),
		coeff:      make([]complex128, bins),
	}

	for i := 0; i < NumTones; i++ {
		lo := int(math.Ceil(float64(bandStart[i]) / resolution))
		hi := int(math.Floor(float64(bandEnd[i]) / resolution))
		if lo > hi || hi >= bins {
			return nil, fmt.Errorf("chunk of %d bytes at %d Hz cannot resolve the %d Hz band", chunkBytes, sampleRate, Tones[i])
		}
		if i > 0 && lo <= a.ranges[i-1].Hi {
			return nil, fmt.Errorf("chunk of %d bytes at %d Hz: %d Hz and %d Hz bands overlap", chunkBytes, sampleRate, Tones[i-1], Tones[i])
		}
		a.ranges[i] = BinRange{Lo: lo, Hi: hi}
	}

	return a, nil
}

// ChunkBytes returns the byte count expected per chunk.
func (a *Analyzer) ChunkBytes() int { return a.chunkBytes }

// SamplesPerChunk returns the number of int16 samples per chunk.
func (a *Analyzer) SamplesPerChunk() int { return a.samples }

// Resolution returns the frequency width of one FFT bin in Hz.
func (a *Analyzer) Resolution() float64 { return a.resolution }

// BandRanges returns the precomputed bin-index range of each DTMF band.
func (a *Analyzer) BandRanges() [NumTones]BinRange { return a.ranges }

// Analyze transforms one chunk of samples and returns the strongest FFT
// magnitude within each DTMF band, low group first.
func (a *Analyzer) Analyze(samples []int16) ([NumTones]float64, error) {
	var out [NumTones]float64
	if len(samples) != a.samples {
		return out, fmt.Errorf("chunk has %d samples, want %d", len(samples), a.samples)
	}

	for i, s := range samples {
		a.seq[i] = float64(s)
	}
	a.fft.Coefficients(a.coeff, a.seq)

	for i, r := range a.ranges {
		max := 0.0
		for bin := r.Lo; bin <= r.Hi; bin++ {
			if m := cmplx.Abs(a.coeff[bin]); m > max {
				max = m
			}
		}
		out[i] = max
	}
	return out, nil
}
