// Package report renders recorded runs as PNG time-series plots.
package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/veloforge/brakesim/internal/recorder"
)

// WritePNG plots speed, position, and brake intensity against simulation
// time and writes the result to path.
func WritePNG(path, title string, samples []recorder.Sample) error {
	if len(samples) == 0 {
		return fmt.Errorf("no samples to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "speed (m/s) / position (m) / brake"

	speedPts := make(plotter.XYs, 0, len(samples))
	posPts := make(plotter.XYs, 0, len(samples))
	brakePts := make(plotter.XYs, 0, len(samples))
	for _, s := range samples {
		speedPts = append(speedPts, plotter.XY{X: s.T, Y: s.V})
		posPts = append(posPts, plotter.XY{X: s.T, Y: s.X})
		brakePts = append(brakePts, plotter.XY{X: s.T, Y: s.Brake})
	}

	series := []struct {
		name  string
		pts   plotter.XYs
		color color.RGBA
	}{
		{"speed", speedPts, color.RGBA{R: 220, G: 60, B: 60, A: 255}},
		{"position", posPts, color.RGBA{R: 60, G: 120, B: 220, A: 255}},
		{"brake", brakePts, color.RGBA{R: 60, G: 180, B: 90, A: 255}},
	}
	for _, sr := range series {
		line, err := plotter.NewLine(sr.pts)
		if err != nil {
			return fmt.Errorf("building %s line: %w", sr.name, err)
		}
		line.Color = sr.color
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(sr.name, line)
	}
	p.Legend.Top = true

	if err := p.Save(20*vg.Centimeter, 12*vg.Centimeter, path); err != nil {
		return fmt.Errorf("saving plot to %s: %w", path, err)
	}
	return nil
}
