package render

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/daniacca/metabocell/internal/cellular"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNotEnoughData is returned when fewer than two steps were recorded.
var ErrNotEnoughData = errors.New("energy history needs at least two steps to plot")

var stateColors = map[cellular.CellState]drawing.Color{
	cellular.Healthy:   chart.ColorGreen,
	cellular.Cancerous: chart.ColorRed,
}

// EnergyHistory records the per-state energy produced at each step.
type EnergyHistory struct {
	ticks  []float64
	states []cellular.CellState
	series map[cellular.CellState][]float64
}

func NewEnergyHistory() *EnergyHistory {
	return &EnergyHistory{
		series: make(map[cellular.CellState][]float64),
	}
}

// Record appends one step. A state seen for the first time is back-filled
// with zeros so every series stays aligned with the ticks.
func (h *EnergyHistory) Record(report cellular.StepReport) {
	var added []cellular.CellState
	for state := range report.ByState {
		if _, ok := h.series[state]; !ok {
			added = append(added, state)
			h.series[state] = make([]float64, len(h.ticks))
		}
	}
	slices.Sort(added)
	h.states = append(h.states, added...)
	h.ticks = append(h.ticks, float64(report.Tick))
	for _, state := range h.states {
		h.series[state] = append(h.series[state], float64(report.ByState[state]))
	}
}

// Len returns the number of recorded steps.
func (h *EnergyHistory) Len() int {
	return len(h.ticks)
}

// Series returns the recorded values for a state, nil if never seen.
func (h *EnergyHistory) Series(state cellular.CellState) []float64 {
	return h.series[state]
}

// RenderPNG writes a line chart of energy per state over ticks.
func (h *EnergyHistory) RenderPNG(w io.Writer) error {
	if h.Len() < 2 {
		return ErrNotEnoughData
	}

	maxY := 0.0
	series := make([]chart.Series, 0, len(h.states))
	for i, state := range h.states {
		color, ok := stateColors[state]
		if !ok {
			color = chart.GetDefaultColor(i)
		}
		for _, v := range h.series[state] {
			maxY = max(maxY, v)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    string(state),
			XValues: h.ticks,
			YValues: h.series[state],
			Style:   chart.Style{StrokeColor: color, StrokeWidth: 3.0},
		})
	}
	if maxY == 0 {
		maxY = 1
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name:  "tick",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "energy",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: maxY * 1.1},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render energy chart: %w", err)
	}
	return nil
}
