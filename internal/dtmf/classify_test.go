package dtmf

import (
	"testing"

	"github.com/banshee-data/touchtone/internal/dsp"
)

// dominantPair builds a synthetic intensity vector where the given low and
// high band indices carry the signal and every other band sits at the floor.
func dominantPair(low, high int, signal, floor float64) [dsp.NumTones]float64 {
	var in [dsp.NumTones]float64
	for i := range in {
		in[i] = floor
	}
	in[low] = signal
	in[high] = signal
	return in
}

func TestClassifyAllSixteenKeys(t *testing.T) {
	want := [dsp.LowTones][dsp.NumTones - dsp.LowTones]byte{
		{'1', '2', '3', 'A'},
		{'4', '5', '6', 'B'},
		{'7', '8', '9', 'C'},
		{'*', '0', '#', 'D'},
	}

	for low := 0; low < dsp.LowTones; low++ {
		for col := 0; col < dsp.NumTones-dsp.LowTones; col++ {
			high := dsp.LowTones + col
			c := classify(dominantPair(low, high, 90, 2), 9)

			// signal 90, noise (4*90/2... remaining six at 2) = 2, snr 45
			if !c.detected || !c.keyOK {
				t.Fatalf("bands (%d,%d): not detected, snr=%d", low, high, c.snr)
			}
			if c.snr != 45 {
				t.Errorf("bands (%d,%d): snr = %d, want 45", low, high, c.snr)
			}
			if c.key != want[low][col] {
				t.Errorf("bands (%d,%d): key = %q, want %q", low, high, c.key, want[low][col])
			}
		}
	}
}

func TestClassifySNRIsFloored(t *testing.T) {
	// signal 50, noise (300-100)/6 = 33.33, ratio 1.5 -> snr 1
	var in [dsp.NumTones]float64
	for i := range in {
		in[i] = 100.0 / 3.0
	}
	in[0] = 50
	in[4] = 50
	c := classify(in, 9)
	if c.snr != 1 {
		t.Errorf("snr = %d, want 1 (floored)", c.snr)
	}
	if c.detected {
		t.Error("detected below threshold")
	}
}

func TestClassifyBelowThreshold(t *testing.T) {
	c := classify(dominantPair(1, 5, 12, 10), 9)
	if c.detected || c.keyOK {
		t.Errorf("weak signal classified as detection: %+v", c)
	}
	if c.snr >= 9 {
		t.Errorf("snr = %d, want < 9", c.snr)
	}
}

// A degenerate chunk where only the dominant pair carries energy yields a
// zero noise estimate. That must resolve to "no signal", never a division
// fault.
func TestClassifyZeroNoise(t *testing.T) {
	c := classify(dominantPair(2, 6, 50, 0), 9)
	if c.detected || c.keyOK {
		t.Errorf("zero-noise chunk classified as detection: %+v", c)
	}
	if c.snr != 0 {
		t.Errorf("zero-noise snr = %d, want 0", c.snr)
	}
}

func TestClassifyAllZero(t *testing.T) {
	var in [dsp.NumTones]float64
	c := classify(in, 9)
	if c.detected || c.snr != 0 {
		t.Errorf("silence classified as %+v", c)
	}
}
