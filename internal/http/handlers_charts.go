package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"folio/internal/core"
)

var (
	investedColor = drawing.ColorFromHex("2563eb")
	marketColor   = drawing.ColorFromHex("16a34a")
)

// moneyTickFormatter renders axis values as grouped amounts.
func moneyTickFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return core.FormatAmount(f, false, 0)
	}
	return ""
}

// writeChartPNG renders into a buffer first so a render failure can
// still produce an error status.
func writeChartPNG(w http.ResponseWriter, r *http.Request, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		slog.ErrorContext(r.Context(), "Chart render failed", "path", r.URL.Path, "error", err)
		http.Error(w, "chart render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// handleAllocationChart draws the category donut for one year.
func (s *Server) handleAllocationChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	year := parseYear(r.URL.Query())
	if year == 0 {
		year = time.Now().Year()
	}

	overview, err := s.svc.Dashboard.Overview(ctx, year)
	if err != nil {
		slog.ErrorContext(ctx, "Allocation chart aggregation failed", "year", year, "error", err)
		http.Error(w, "chart unavailable", http.StatusServiceUnavailable)
		return
	}

	values := make([]chart.Value, 0, len(overview.PieLabels))
	for i, label := range overview.PieLabels {
		v := overview.PieValues[i]
		if v <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", label, core.FormatAmount(v, false, 0)),
			Value: v,
		})
	}
	if len(values) == 0 {
		http.Error(w, "no chart data", http.StatusNotFound)
		return
	}

	donut := chart.DonutChart{
		Width:  512,
		Height: 512,
		Values: values,
	}
	writeChartPNG(w, r, func(out io.Writer) error {
		return donut.Render(chart.PNG, out)
	})
}

// handleSummaryChart draws running invested capital against portfolio
// value across the twelve months of the selected year.
func (s *Server) handleSummaryChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	year := parseYear(r.URL.Query())
	if year == 0 {
		year = time.Now().Year()
	}

	overview, err := s.svc.Dashboard.Overview(ctx, year)
	if err != nil {
		slog.ErrorContext(ctx, "Summary chart aggregation failed", "year", year, "error", err)
		http.Error(w, "chart unavailable", http.StatusServiceUnavailable)
		return
	}

	rows := overview.Summary.Rows
	xs := make([]float64, len(rows))
	invested := make([]float64, len(rows))
	market := make([]float64, len(rows))
	ticks := make([]chart.Tick, len(rows))
	for i, row := range rows {
		xs[i] = float64(i + 1)
		invested[i] = row.Investment
		market[i] = row.AssetValue
		ticks[i] = chart.Tick{Value: float64(i + 1), Label: row.Month}
	}
	if flatRange(invested, market) {
		http.Error(w, "no chart data", http.StatusNotFound)
		return
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Invested vs portfolio value %d", year),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{Ticks: ticks},
		YAxis: chart.YAxis{ValueFormatter: moneyTickFormatter},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Invested",
				XValues: xs,
				YValues: invested,
				Style:   chart.Style{StrokeColor: investedColor, StrokeWidth: 2.5},
			},
			chart.ContinuousSeries{
				Name:    "Portfolio value",
				XValues: xs,
				YValues: market,
				Style:   chart.Style{StrokeColor: marketColor, StrokeWidth: 2.5},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	writeChartPNG(w, r, func(out io.Writer) error {
		return graph.Render(chart.PNG, out)
	})
}

// handleDCAChart draws cumulative cost against market value per
// transaction for the selected asset.
func (s *Server) handleDCAChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	asset := sanitizeInput(r.URL.Query().Get("asset"))
	snapshot, err := s.svc.Dashboard.DCA(ctx, asset)
	if err != nil {
		slog.ErrorContext(ctx, "DCA chart aggregation failed", "asset", asset, "error", err)
		http.Error(w, "chart unavailable", http.StatusServiceUnavailable)
		return
	}

	series := snapshot.CostVsMarket
	if len(series.Labels) < 2 || flatRange(series.Cost, series.Value) {
		http.Error(w, "no chart data", http.StatusNotFound)
		return
	}

	xs := make([]float64, len(series.Labels))
	for i := range xs {
		xs[i] = float64(i)
	}
	// Thin the date ticks so long histories stay readable.
	step := 1
	if len(series.Labels) > 12 {
		step = (len(series.Labels) + 11) / 12
	}
	var ticks []chart.Tick
	for i := 0; i < len(series.Labels); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: series.Labels[i]})
	}

	graph := chart.Chart{
		Title:  "Cost basis vs market value",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{Ticks: ticks},
		YAxis: chart.YAxis{ValueFormatter: moneyTickFormatter},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Invested",
				XValues: xs,
				YValues: series.Cost,
				Style:   chart.Style{StrokeColor: investedColor, StrokeWidth: 2.5},
			},
			chart.ContinuousSeries{
				Name:    "Market value",
				XValues: xs,
				YValues: series.Value,
				Style:   chart.Style{StrokeColor: marketColor, StrokeWidth: 2.5, StrokeDashArray: []float64{5.0, 3.0}},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	writeChartPNG(w, r, func(out io.Writer) error {
		return graph.Render(chart.PNG, out)
	})
}

// flatRange reports whether every value across the series is identical,
// which leaves the renderer no y range to draw.
func flatRange(series ...[]float64) bool {
	var first float64
	var seeded bool
	for _, s := range series {
		for _, v := range s {
			if !seeded {
				first = v
				seeded = true
				continue
			}
			if v != first {
				return false
			}
		}
	}
	return true
}
