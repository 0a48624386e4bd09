package dsp

import (
	"encoding/binary"
	"math"
)

// SynthesizeTone renders n samples of a two-tone signal at the given sample
// rate. Each sine contributes up to half scale so their sum stays within
// int16 range. Frequencies of zero render silence, which is how tests and
// dev fixtures produce the inter-key gaps.
func SynthesizeTone(lowHz, highHz, n, sampleRate int) []int16 {
	out := make([]int16, n)
	if lowHz <= 0 && highHz <= 0 {
		return out
	}
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		v := 0.0
		if lowHz > 0 {
			v += math.Sin(2 * math.Pi * float64(lowHz) * t)
		}
		if highHz > 0 {
			v += math.Sin(2 * math.Pi * float64(highHz) * t)
		}
		out[i] = int16(v * 14000)
	}
	return out
}

// PCMBytes encodes samples as signed 16-bit little-endian PCM, the wire
// format every audio source produces.
func PCMBytes(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}
