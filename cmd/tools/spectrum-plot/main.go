// spectrum-plot renders the full magnitude spectrum of one chunk of a raw
// PCM capture to a PNG, with the eight DTMF band windows marked. Useful for
// eyeballing why a capture does or does not decode.
//
// Capture a few seconds of audio first, e.g.:
//
//	rtl_fm -f 147.575M -o 4 - > capture.raw
//	spectrum-plot -in capture.raw -out spectrum.png
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math/cmplx"
	"os"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/touchtone/internal/dsp"
)

var (
	inPath     = flag.String("in", "", "Raw PCM capture (s16le)")
	outPath    = flag.String("out", "spectrum.png", "Output PNG path")
	chunkBytes = flag.Int("chunk", 3600, "Chunk size in bytes")
	sampleRate = flag.Int("rate", 24000, "Sample rate in Hz")
	offset     = flag.Int("offset", 0, "Chunk index to plot (0 = first)")
)

func main() {
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "spectrum-plot: -in is required")
		flag.Usage()
		os.Exit(2)
	}

	analyzer, err := dsp.NewAnalyzer(*chunkBytes, *sampleRate)
	if err != nil {
		log.Fatalf("spectrum-plot: %v", err)
	}

	data, err := os.ReadFile(*inPath)
	if err != nil {
		log.Fatalf("spectrum-plot: %v", err)
	}
	start := *offset * *chunkBytes
	if start+*chunkBytes > len(data) {
		log.Fatalf("spectrum-plot: capture has %d bytes, chunk %d needs %d", len(data), *offset, start+*chunkBytes)
	}
	chunk := data[start : start+*chunkBytes]

	n := analyzer.SamplesPerChunk()
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		samples[i] = float64(int16(binary.LittleEndian.Uint16(chunk[2*i:])))
	}

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, samples)

	pts := make(plotter.XYs, len(coeff))
	for i, c := range coeff {
		pts[i].X = float64(i) * analyzer.Resolution()
		pts[i].Y = cmplx.Abs(c)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Chunk %d spectrum (%s)", *offset, *inPath)
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = "Magnitude"

	line, err := plotter.NewLine(pts)
	if err != nil {
		log.Fatalf("spectrum-plot: %v", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	// mark each DTMF band's bin window as a flat segment at its peak level
	intensity, err := analyzer.Analyze(toInt16(chunk, n))
	if err != nil {
		log.Fatalf("spectrum-plot: %v", err)
	}
	ranges := analyzer.BandRanges()
	for i, r := range ranges {
		band := plotter.XYs{
			{X: float64(r.Lo) * analyzer.Resolution(), Y: intensity[i]},
			{X: float64(r.Hi) * analyzer.Resolution(), Y: intensity[i]},
		}
		bandLine, err := plotter.NewLine(band)
		if err != nil {
			log.Fatalf("spectrum-plot: %v", err)
		}
		bandLine.Width = vg.Points(2)
		p.Add(bandLine)
		p.Legend.Add(fmt.Sprintf("%d Hz", dsp.Tones[i]), bandLine)
	}

	if err := p.Save(14*vg.Inch, 6*vg.Inch, *outPath); err != nil {
		log.Fatalf("spectrum-plot: %v", err)
	}
	log.Printf("wrote %s", *outPath)
}

func toInt16(chunk []byte, n int) []int16 {
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(chunk[2*i:]))
	}
	return out
}
