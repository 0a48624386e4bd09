// snr-report renders the event log written by `ttdecode -log` into an HTML
// chart: SNR at each key release over time, labelled with the released key,
// plus a series marking completed codes.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/touchtone/internal/dtmf"
)

var (
	inPath  = flag.String("in", "", "JSON-lines event log from ttdecode -log")
	outPath = flag.String("out", "snr-report.html", "Output HTML path")
)

func main() {
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "snr-report: -in is required")
		flag.Usage()
		os.Exit(2)
	}

	events, err := readEvents(*inPath)
	if err != nil {
		log.Fatalf("snr-report: %v", err)
	}
	if len(events) == 0 {
		log.Fatalf("snr-report: no events in %s", *inPath)
	}

	var (
		x     []string
		snr   []opts.LineData
		codes []string
	)
	for _, e := range events {
		if e.Code != "" {
			codes = append(codes, fmt.Sprintf("%s  %q", e.Time.Format("15:04:05"), e.Code))
		}
		if e.Status != dtmf.StatusUp.String() {
			continue
		}
		x = append(x, e.Time.Format("15:04:05"))
		snr = append(snr, opts.LineData{Value: e.SNR, Name: e.Key})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "DTMF key releases",
			Subtitle: fmt.Sprintf("%d releases, %d completed codes", len(snr), len(codes)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "SNR"}),
	)
	line.SetXAxis(x).AddSeries("snr", snr)

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("snr-report: %v", err)
	}
	defer f.Close()
	if err := line.Render(f); err != nil {
		log.Fatalf("snr-report: %v", err)
	}

	log.Printf("wrote %s", *outPath)
	for _, c := range codes {
		log.Printf("code: %s", c)
	}
}

func readEvents(path string) ([]dtmf.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []dtmf.Snapshot
	scan := bufio.NewScanner(f)
	for scan.Scan() {
		if len(scan.Bytes()) == 0 {
			continue
		}
		var s dtmf.Snapshot
		if err := json.Unmarshal(scan.Bytes(), &s); err != nil {
			return nil, fmt.Errorf("bad event line: %w", err)
		}
		events = append(events, s)
	}
	return events, scan.Err()
}
