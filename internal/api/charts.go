package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/veloforge/brakesim/internal/fuzzy"
)

// handleRunChart renders a quick HTML line chart of a recorded run using
// go-echarts: speed, position, and brake intensity against simulation time.
// This is a debugging-only endpoint (no auth) for eyeballing a run without
// a frontend.
func (s *Server) handleRunChart(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "no run database configured")
		return
	}
	runID := r.PathValue("id")
	samples, err := s.db.GetSamples(runID)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(samples) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "no samples for run")
		return
	}

	xAxis := make([]string, 0, len(samples))
	speed := make([]opts.LineData, 0, len(samples))
	position := make([]opts.LineData, 0, len(samples))
	brake := make([]opts.LineData, 0, len(samples))
	for _, smp := range samples {
		xAxis = append(xAxis, fmt.Sprintf("%.2f", smp.T))
		speed = append(speed, opts.LineData{Value: smp.V})
		position = append(position, opts.LineData{Value: smp.X})
		brake = append(brake, opts.LineData{Value: smp.Brake})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Braking Run", Theme: "dark", Width: "1200px", Height: "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Braking run " + runID,
			Subtitle: fmt.Sprintf("samples=%d", len(samples)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(xAxis).
		AddSeries("speed (m/s)", speed).
		AddSeries("position (m)", position).
		AddSeries("brake", brake)

	s.renderChart(w, line)
}

// handleControllerChart renders the current controller's membership
// functions, one line per label, sampled across each variable's support.
func (s *Server) handleControllerChart(w http.ResponseWriter, r *http.Request) {
	cfg := s.engine.Config()

	variable := r.URL.Query().Get("variable")
	var v fuzzy.LinguisticVariable
	switch variable {
	case "", "brake":
		v = cfg.Brake
	case "speed":
		v = cfg.Speed
	case "distance":
		v = cfg.Distance
	default:
		s.writeJSONError(w, http.StatusBadRequest, "variable must be speed, distance, or brake")
		return
	}

	lo, hi, ok := v.Bounds()
	if !ok || hi <= lo {
		s.writeJSONError(w, http.StatusNotFound, "variable has no members")
		return
	}

	const points = 200
	step := (hi - lo) / float64(points-1)
	xAxis := make([]string, 0, points)
	series := make(map[string][]opts.LineData, len(v.Members))
	for i := 0; i < points; i++ {
		x := lo + float64(i)*step
		xAxis = append(xAxis, fmt.Sprintf("%.3f", x))
		for _, m := range v.Members {
			series[m.Name] = append(series[m.Name], opts.LineData{Value: m.Shape.Grade(x)})
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Controller Memberships", Theme: "dark", Width: "1000px", Height: "500px",
		}),
		charts.WithTitleOpts(opts.Title{Title: v.Name + " membership functions"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(xAxis)
	for _, m := range v.Members {
		line.AddSeries(m.Name, series[m.Name])
	}

	s.renderChart(w, line)
}

func (s *Server) renderChart(w http.ResponseWriter, line *charts.Line) {
	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
