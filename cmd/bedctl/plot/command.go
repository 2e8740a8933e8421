package plot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"
	"strconv"

	"github.com/go-analyze/charts"
	"github.com/mattn/go-sixel"
	"github.com/mdouchement/bedlink"
	"github.com/spf13/cobra"
)

var ErrNotEnoughFrames = errors.New("capture holds less than 2 observed frames")

func Command() *cobra.Command {
	var resolution int

	cmd := &cobra.Command{
		Use:   "plot <capture>",
		Short: "Show the length and inter-arrival charts of the observed frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			capture, err := bedlink.LoadCapture(args[0])
			if err != nil {
				return err
			}

			s, err := Extract(capture)
			if err != nil {
				return err
			}

			for _, opt := range s.Charts() {
				if err = render(os.Stdout, opt, resolution); err != nil {
					return fmt.Errorf("%s: %w", opt.Title.Text, err)
				}
			}

			return nil
		},
	}
	cmd.Flags().IntVarP(&resolution, "resolution", "r", 1000, "The width size in pixel of each graph")

	return cmd
}

// Series holds the observed frames of a capture, one value per frame.
type Series struct {
	Port    string
	Labels  []string  // Frame indexes
	Lengths []float64 // Bytes, flags included
	Gaps    []float64 // Milliseconds since the previous frame, 0 for the first one
}

// Extract computes the series of the frames observed during the listen phase.
func Extract(capture bedlink.Capture) (Series, error) {
	s := Series{Port: capture.Port}

	var previous *bedlink.Record
	for i, r := range capture.Records {
		if r.Kind != bedlink.KindObserved {
			continue
		}

		var gap float64
		if previous != nil {
			gap = float64((r.Offset - previous.Offset).Microseconds()) / 1000
		}
		previous = &capture.Records[i]

		s.Labels = append(s.Labels, strconv.Itoa(r.Index))
		s.Lengths = append(s.Lengths, float64(len(r.Bytes)))
		s.Gaps = append(s.Gaps, gap)
	}

	if len(s.Labels) < 2 {
		return s, ErrNotEnoughFrames
	}
	return s, nil
}

// Charts returns the frame length chart then the inter-arrival chart.
func (s Series) Charts() []charts.LineChartOption {
	return []charts.LineChartOption{
		s.chart(fmt.Sprintf("%s: frame length", s.Port), "bytes", charts.LineSeries{Name: "length", Values: s.Lengths}),
		s.chart(fmt.Sprintf("%s: inter-arrival", s.Port), "ms", charts.LineSeries{Name: "gap", Values: s.Gaps}),
	}
}

func (s Series) chart(title, unit string, ls charts.LineSeries) charts.LineChartOption {
	opt := charts.NewLineChartOptionWithSeries(charts.LineSeriesList{ls})
	opt.Theme = charts.GetTheme(charts.ThemeVividDark)
	opt.Padding = charts.NewBox(20, 20, 20, 20)
	opt.Title.Text = title
	opt.Title.FontStyle.FontSize = 16
	opt.Title.Offset = charts.OffsetLeft
	opt.Symbol = charts.SymbolNone
	opt.LineStrokeWidth = 2
	opt.XAxis.Show = bedlink.ToPtr(true)
	opt.XAxis.Title = "frame"
	opt.XAxis.Labels = s.Labels
	opt.XAxis.LabelCount = min(len(s.Labels), 10)
	opt.YAxis = []charts.YAxisOption{
		{
			Show:                   bedlink.ToPtr(true),
			Title:                  unit,
			Min:                    bedlink.ToPtr(float64(0)),
			RangeValuePaddingScale: bedlink.ToPtr(float64(0.1)),
		},
	}

	return opt
}

func render(w io.Writer, opt charts.LineChartOption, resolution int) error {
	p := charts.NewPainter(charts.PainterOptions{
		OutputFormat: charts.ChartOutputPNG,
		Width:        resolution,
		Height:       int(float64(resolution) / (16.0 / 9.0)),
	})

	err := p.LineChart(opt)
	if err != nil {
		return err
	}

	mPNG, err := p.Bytes()
	if err != nil {
		return err
	}

	m, _, err := image.Decode(bytes.NewReader(mPNG))
	if err != nil {
		return err
	}

	return sixel.NewEncoder(w).Encode(m)
}
