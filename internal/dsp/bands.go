// Package dsp converts chunks of demodulated audio into per-band DTMF tone
// intensities using a real FFT.
package dsp

// NumTones is the size of the DTMF tone table: four low-group (row) tones
// followed by four high-group (column) tones.
const NumTones = 8

// LowTones is the number of low-group tones at the front of the table.
const LowTones = 4

// Tones holds the DTMF center frequencies in Hz, low group first.
var Tones = [NumTones]int{697, 770, 852, 941, 1209, 1336, 1477, 1633}

// Search windows around each center frequency. A tone is measured as the
// strongest FFT bin whose frequency falls inside the window. The windows are
// asymmetric because the DTMF grid itself is not evenly spaced; they must
// never overlap.
var (
	bandStart = [NumTones]int{679, 750, 830, 875, 1177, 1301, 1438, 1594}
	bandEnd   = [NumTones]int{715, 791, 874, 1008, 1241, 1371, 1516, 1672}
)

// BinRange is a contiguous inclusive range of FFT bin indices covering one
// DTMF band.
type BinRange struct {
	Lo int
	Hi int
}
