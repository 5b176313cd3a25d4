// Package chart computes the time-windowed projection a rendered weight
// chart is drawn from: window filtering, y-axis scaling, point geometry,
// and x-axis label thinning. It performs no I/O.
package chart

import (
	"math"
	"time"

	"github.com/zaocat/Purrfit/pkg/domain"
)

// Window selects the date range plotted.
type Window string

const (
	WindowAll        Window = "all"
	WindowThreeMonth Window = "3m" // last 90 days
	WindowSixMonth   Window = "6m" // last 180 days
)

// ParseWindow maps a query value onto a known window, defaulting to all.
func ParseWindow(v string) Window {
	switch Window(v) {
	case WindowThreeMonth, WindowSixMonth:
		return Window(v)
	default:
		return WindowAll
	}
}

func (w Window) days() int {
	switch w {
	case WindowThreeMonth:
		return 90
	case WindowSixMonth:
		return 180
	default:
		return 0
	}
}

// Layout fixes the plot box geometry in pixels.
type Layout struct {
	Width, Height                        float64
	PadTop, PadBottom, PadLeft, PadRight float64
	LabelPitch                           float64 // minimum x-label spacing
}

// DefaultLayout matches the rendered chart box.
var DefaultLayout = Layout{
	Width: 800, Height: 280,
	PadTop: 20, PadBottom: 30, PadLeft: 35, PadRight: 10,
	LabelPitch: 60,
}

// Point is one plotted record with its pixel coordinates.
type Point struct {
	X, Y    float64
	Record  domain.WeightRecord
	Labeled bool // x-axis label emitted for this point
}

// GridLine is one horizontal gridline with its y-axis label.
type GridLine struct {
	Y     float64
	Value float64
}

// Projection is the full plot geometry for one cat and window.
type Projection struct {
	Points   []Point
	Grid     []GridLine
	Min, Max float64 // padded weight range
}

// FilterWindow retains the records inside the window, measured back from
// now. Records are assumed date-sorted; the result preserves order.
func FilterWindow(records []domain.WeightRecord, w Window, now time.Time) []domain.WeightRecord {
	days := w.days()
	if days == 0 {
		return records
	}
	cutoff := now.AddDate(0, 0, -days).Format("2006-01-02")
	out := make([]domain.WeightRecord, 0, len(records))
	for _, r := range records {
		if r.Date >= cutoff {
			out = append(out, r)
		}
	}
	return out
}

// Scale computes the padded y-axis range for the given weights: 10% of the
// span on both ends, or a fixed half-unit pad when the span is degenerate.
func Scale(weights []float64) (min, max float64) {
	if len(weights) == 0 {
		return 0, 1
	}
	min, max = weights[0], weights[0]
	for _, w := range weights[1:] {
		min = math.Min(min, w)
		max = math.Max(max, w)
	}
	pad := (max - min) * 0.1
	if pad == 0 {
		pad = 0.5
	}
	return min - pad, max + pad
}

// LabelStep returns the x-label stride for n points across the plot width:
// every step-th point is labeled, and callers always label first and last.
func LabelStep(n int, l Layout) int {
	if n <= 1 {
		return 1
	}
	slots := (l.Width - l.PadLeft) / l.LabelPitch
	if slots < 1 {
		slots = 1
	}
	step := int(math.Ceil(float64(n) / slots))
	if step < 1 {
		step = 1
	}
	return step
}

// Project computes the plot geometry for the already-filtered records.
func Project(records []domain.WeightRecord, l Layout) Projection {
	var p Projection
	if len(records) == 0 {
		return p
	}
	weights := make([]float64, len(records))
	for i, r := range records {
		weights[i] = r.Weight
	}
	p.Min, p.Max = Scale(weights)

	plotW := l.Width - l.PadLeft - l.PadRight
	plotH := l.Height - l.PadTop - l.PadBottom
	span := float64(len(records) - 1)
	if span == 0 {
		span = 1
	}
	step := LabelStep(len(records), l)

	p.Points = make([]Point, len(records))
	for i, r := range records {
		x := l.PadLeft + float64(i)*plotW/span
		y := l.Height - l.PadBottom - (r.Weight-p.Min)/(p.Max-p.Min)*plotH
		labeled := i == 0 || i == len(records)-1 || i%step == 0
		p.Points[i] = Point{X: x, Y: y, Record: r, Labeled: labeled}
	}

	for i := 0; i <= 4; i++ {
		v := p.Min + (p.Max-p.Min)*float64(i)/4
		y := l.Height - l.PadBottom - (v-p.Min)/(p.Max-p.Min)*plotH
		p.Grid = append(p.Grid, GridLine{Y: y, Value: v})
	}
	return p
}
