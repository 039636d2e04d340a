// Package charts turns derived experiment metrics into named figures and renders them as PNG files.
//
// Builders describe what to draw (Figure, Panel); a Renderer decides how. PNGRenderer draws
// with go-chart and composes multi-panel figures into a single image.
package charts

import (
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// PanelKind selects how a panel is drawn.
type PanelKind int

const (
	PanelLine     PanelKind = iota // numeric X axis
	PanelTimeLine                  // time X axis
	PanelBar
	PanelPie
)

func (k PanelKind) String() string {
	switch k {
	case PanelLine:
		return "line"
	case PanelTimeLine:
		return "time"
	case PanelBar:
		return "bar"
	case PanelPie:
		return "pie"
	}
	return "unknown"
}

// Series is one plotted line. Times is used by PanelTimeLine, X otherwise.
type Series struct {
	Name   string
	X      []float64
	Times  []time.Time
	Y      []float64
	Color  drawing.Color
	Dashed bool
}

func (s Series) len() int {
	if len(s.Times) > 0 {
		return len(s.Times)
	}
	return len(s.X)
}

// RefLine is a horizontal reference at Y across the whole panel.
type RefLine struct {
	Label string
	Y     float64
	Color drawing.Color
}

// Marker highlights a single point on a line panel.
type Marker struct {
	X, Y  float64
	Label string
}

// Bar is one bar of a bar panel or one slice of a pie panel.
type Bar struct {
	Label string
	Value float64
	Color drawing.Color
	// Note is appended to the bar label after the formatted value.
	Note string
}

// Panel is one chart inside a figure.
type Panel struct {
	Kind   PanelKind
	Title  string
	XLabel string
	YLabel string

	Series []Series
	// LogX plots X on a log10 scale with ticks at each sample value.
	LogX bool

	Bars []Bar
	// ValueFormat, when set, labels every bar with its value (fmt verb for float64).
	ValueFormat string

	RefLines   []RefLine
	Markers    []Marker
	MarkerName string
}

// drawable reports whether the panel has enough data to render.
func (p Panel) drawable() bool {
	switch p.Kind {
	case PanelLine, PanelTimeLine:
		for _, s := range p.Series {
			if s.len() > 0 {
				return true
			}
		}
		return false
	case PanelPie:
		var total float64
		for _, b := range p.Bars {
			total += b.Value
		}
		return total > 0
	default:
		return len(p.Bars) > 0
	}
}

// Figure is one output artifact, written as <Name>.png.
type Figure struct {
	Name  string
	Title string
	// Columns is the panel grid width; 0 or 1 stacks panels vertically.
	Columns int
	Panels  []Panel
	Hint    string
}

func (f Figure) columns() int {
	if f.Columns < 1 {
		return 1
	}
	if f.Columns > len(f.Panels) && len(f.Panels) > 0 {
		return len(f.Panels)
	}
	return f.Columns
}

func (f Figure) rows() int {
	c := f.columns()
	return (len(f.Panels) + c - 1) / c
}

var (
	colorBlue       = chart.ColorBlue
	colorGreen      = chart.ColorGreen
	colorRed        = chart.ColorRed
	colorOrange     = chart.ColorOrange
	colorGray       = chart.ColorAlternateGray
	colorBlack      = chart.ColorBlack
	colorSteel      = drawing.ColorFromHex("4682b4")
	colorCoral      = drawing.ColorFromHex("ff7f50")
	colorCrimson    = drawing.ColorFromHex("dc143c")
	colorDodger     = drawing.ColorFromHex("1e90ff")
	colorLightBlue  = drawing.ColorFromHex("add8e6")
	colorLightCoral = drawing.ColorFromHex("f08080")
	colorSalmon     = drawing.ColorFromHex("fa8072")
	colorLightGreen = drawing.ColorFromHex("90ee90")
	colorPink       = drawing.ColorFromHex("ffb6c6")
)
