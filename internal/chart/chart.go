// Package chart renders aggregation results as PNG bar charts.
package chart

import (
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"xlsdash/internal/core"
)

const (
	barWidth    = 36
	barSpacing  = 24
	minWidth    = 480
	maxWidth    = 2400
	chartHeight = 360
)

var barColor = drawing.ColorFromHex("2563eb")

// Width returns the canvas width used for n bars.
func Width(n int) int {
	w := 120 + n*(barWidth+barSpacing)
	if w < minWidth {
		return minWidth
	}
	if w > maxWidth {
		return maxWidth
	}
	return w
}

// yRange pads the value range so that zero is always on the axis and a flat
// series still has a non-empty range.
func yRange(groups []core.GroupTotal) *gochart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, g := range groups {
		lo = math.Min(lo, g.Value)
		hi = math.Max(hi, g.Value)
	}
	if hi-lo == 0 {
		hi = lo + 1
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi * 1.1}
}

// RenderBar writes a PNG bar chart of groups in the given order.
func RenderBar(w io.Writer, title string, groups []core.GroupTotal) error {
	if len(groups) == 0 {
		return core.ErrNoData
	}

	bars := make([]gochart.Value, len(groups))
	for i, g := range groups {
		bars[i] = gochart.Value{
			Label: g.Key,
			Value: g.Value,
			Style: gochart.Style{FillColor: barColor, StrokeColor: barColor},
		}
	}

	bc := gochart.BarChart{
		Title:      title,
		Width:      Width(len(groups)),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: gochart.YAxis{
			Range:          yRange(groups),
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.0f", v) },
		},
		Bars: bars,
	}
	if err := bc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
