package dtmf

import (
	"math"

	"github.com/banshee-data/touchtone/internal/dsp"
)

// classification is the outcome of examining one chunk's band intensities.
type classification struct {
	// snr is floor(signal/noise); zero when the noise estimate degenerates.
	snr int
	// detected means snr met the threshold.
	detected bool
	// key is the decoded symbol; keyOK means detected and the dominant pair
	// mapped to a keypad symbol. detected without keyOK is the "valid SNR,
	// unknown pair" case, which must leave button state untouched.
	key   byte
	keyOK bool
}

// classify picks the dominant tone in each group, derives the SNR, and maps
// the pair to a symbol when the SNR meets threshold.
//
// signal is the mean of the two dominant intensities; noise is the mean of
// the remaining six. A zero (or negative) noise estimate means the fixture
// is degenerate -- silence or synthetic input with no off-tone energy -- and
// is treated as no signal rather than dividing by it.
func classify(intensity [dsp.NumTones]float64, threshold int) classification {
	tone1 := 0
	for i := 1; i < dsp.LowTones; i++ {
		if intensity[i] > intensity[tone1] {
			tone1 = i
		}
	}
	tone2 := dsp.LowTones
	for i := dsp.LowTones + 1; i < dsp.NumTones; i++ {
		if intensity[i] > intensity[tone2] {
			tone2 = i
		}
	}

	sum := 0.0
	for _, v := range intensity {
		sum += v
	}
	signal := (intensity[tone1] + intensity[tone2]) / 2
	noise := (sum - 2*signal) / 6

	if noise <= 0 {
		return classification{}
	}

	c := classification{snr: int(math.Floor(signal / noise))}
	if c.snr < threshold {
		return c
	}
	c.detected = true
	c.key, c.keyOK = KeyFor(dsp.Tones[tone1], dsp.Tones[tone2])
	return c
}
