package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/ResourceMonitorViz/src/telemetry"
)

// DefaultWidth and DefaultHeight size one panel when a renderer leaves them unset.
const (
	DefaultWidth  = 1100
	DefaultHeight = 420
)

// Renderer draws one figure and reports where it was written.
type Renderer interface {
	Draw(fig Figure) (string, error)
}

// RenderError reports a figure that could not be drawn or written.
type RenderError struct {
	Figure string
	Panel  int // -1 when the failure is not panel specific
	Err    error
}

func (e *RenderError) Error() string {
	if e.Panel < 0 {
		return fmt.Sprintf("render %s: %v", e.Figure, e.Err)
	}
	return fmt.Sprintf("render %s panel %d: %v", e.Figure, e.Panel, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// PNGRenderer writes figures as <Dir>/<name>.png. Width and Height size a single panel;
// multi-panel figures grow by the grid.
type PNGRenderer struct {
	Dir    string
	Width  int
	Height int
	// Hints adds the figure hint in a footer strip below the panels, growing the image.
	Hints bool
}

// drawContext is the render state of a single figure. It is acquired at the start of
// Draw and released when Draw returns, so nothing carries over between figures.
type drawContext struct {
	width, height int
	buf           bytes.Buffer
	tiles         []image.Image
}

func (r *PNGRenderer) acquire() *drawContext {
	w, h := r.Width, r.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return &drawContext{width: w, height: h}
}

func (c *drawContext) release() {
	c.buf.Reset()
	c.tiles = nil
}

// Draw renders every panel, composes them and writes the PNG. The previous file of the
// same name is replaced only once the new image is fully written.
func (r *PNGRenderer) Draw(fig Figure) (string, error) {
	if strings.TrimSpace(fig.Name) == "" {
		return "", &RenderError{Panel: -1, Err: errors.New("figure has no name")}
	}
	if len(fig.Panels) == 0 {
		return "", &RenderError{Figure: fig.Name, Panel: -1, Err: errors.New("no panels")}
	}
	ctx := r.acquire()
	defer ctx.release()

	for i, p := range fig.Panels {
		img, err := ctx.renderPanel(p)
		if err != nil {
			return "", &RenderError{Figure: fig.Name, Panel: i, Err: err}
		}
		ctx.tiles = append(ctx.tiles, img)
	}
	out := compose(fig, ctx.tiles, ctx.width, ctx.height)
	if r.Hints && fig.Hint != "" {
		out = withFooter(out, fig.Hint)
	}
	path := filepath.Join(r.Dir, fig.Name+".png")
	if err := writePNG(path, out); err != nil {
		return "", &RenderError{Figure: fig.Name, Panel: -1, Err: err}
	}
	telemetry.Infof("saved %s", path)
	return path, nil
}

func (c *drawContext) renderPanel(p Panel) (image.Image, error) {
	if !p.drawable() {
		return nil, fmt.Errorf("%s panel %q has no data", p.Kind, p.Title)
	}
	c.buf.Reset()
	var err error
	switch p.Kind {
	case PanelLine, PanelTimeLine:
		err = c.lineChart(p).Render(chart.PNG, &c.buf)
	case PanelBar:
		err = c.barChart(p).Render(chart.PNG, &c.buf)
	case PanelPie:
		err = c.pieChart(p).Render(chart.PNG, &c.buf)
	default:
		return nil, fmt.Errorf("unknown panel kind %d", p.Kind)
	}
	if err != nil {
		return nil, err
	}
	return png.Decode(&c.buf)
}

func lineStyle(col drawing.Color, dashed bool) chart.Style {
	st := chart.Style{StrokeColor: col, StrokeWidth: 2, DotColor: col, DotWidth: 3}
	if dashed {
		st.StrokeDashArray = []float64{5.0, 5.0}
		st.DotWidth = 0
	}
	return st
}

// markerStyle draws failure markers as bare dots; the series line is transparent.
func markerStyle(col drawing.Color) chart.Style {
	return chart.Style{StrokeColor: drawing.ColorTransparent, DotColor: col, DotWidth: 5}
}

func refStyle(col drawing.Color) chart.Style {
	return chart.Style{StrokeColor: col, StrokeWidth: 1.5, StrokeDashArray: []float64{6.0, 4.0}}
}

func (c *drawContext) lineChart(p Panel) chart.Chart {
	var (
		series     []chart.Series
		xs, ys     extent
		tMin, tMax time.Time
		named      int
	)
	timeMode := p.Kind == PanelTimeLine
	tx := func(v float64) float64 { return v }
	if p.LogX {
		tx = math.Log10
	}
	var allX []float64
	for _, s := range p.Series {
		if s.len() == 0 {
			continue
		}
		ys.add(s.Y...)
		if s.Name != "" {
			named++
		}
		if timeMode {
			ts, y := padSingleTime(s.Times, s.Y)
			for _, t := range ts {
				if tMin.IsZero() || t.Before(tMin) {
					tMin = t
				}
				if t.After(tMax) {
					tMax = t
				}
			}
			series = append(series, chart.TimeSeries{Name: s.Name, XValues: ts, YValues: y, Style: lineStyle(s.Color, s.Dashed)})
			continue
		}
		x := make([]float64, len(s.X))
		for i, v := range s.X {
			x[i] = tx(v)
		}
		allX = append(allX, s.X...)
		x, y := padSingle(x, s.Y)
		xs.add(x...)
		series = append(series, chart.ContinuousSeries{Name: s.Name, XValues: x, YValues: y, Style: lineStyle(s.Color, s.Dashed)})
	}

	if len(p.Markers) > 0 {
		var mx, my []float64
		var notes []chart.Value2
		for _, m := range p.Markers {
			mx = append(mx, tx(m.X))
			my = append(my, m.Y)
			if m.Label != "" {
				notes = append(notes, chart.Value2{XValue: tx(m.X), YValue: m.Y, Label: m.Label})
			}
		}
		ys.add(my...)
		series = append(series, chart.ContinuousSeries{Name: p.MarkerName, XValues: mx, YValues: my, Style: markerStyle(colorCrimson)})
		if len(notes) > 0 {
			series = append(series, chart.AnnotationSeries{Annotations: notes})
		}
		named++
	}

	for _, rl := range p.RefLines {
		ys.add(rl.Y)
		if rl.Label != "" {
			named++
		}
		if timeMode {
			series = append(series, chart.TimeSeries{Name: rl.Label,
				XValues: []time.Time{tMin, tMax},
				YValues: []float64{rl.Y, rl.Y}, Style: refStyle(rl.Color)})
			continue
		}
		series = append(series, chart.ContinuousSeries{Name: rl.Label, XValues: []float64{xs.lo, xs.hi}, YValues: []float64{rl.Y, rl.Y}, Style: refStyle(rl.Color)})
	}

	yRange, yTicks := lineRange(ys)
	xAxis := chart.XAxis{Name: p.XLabel}
	if timeMode {
		xAxis.ValueFormatter = chart.TimeValueFormatterWithFormat("15:04:05")
	}
	if p.LogX {
		xAxis.Ticks = logTicks(allX)
	}
	ch := chart.Chart{
		Title:      p.Title,
		Width:      c.width,
		Height:     c.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      xAxis,
		YAxis:      chart.YAxis{Name: p.YLabel, Range: yRange, Ticks: yTicks},
		Series:     series,
	}
	if named > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch
}

// lineRange fits the y axis to the data without forcing zero in.
func lineRange(e extent) (*chart.ContinuousRange, []chart.Tick) {
	if !e.set {
		e.add(0, 1)
	}
	return axisScale(e.lo, e.hi, false)
}

func barLabel(p Panel, b Bar) string {
	parts := []string{b.Label}
	if p.ValueFormat != "" {
		parts = append(parts, fmt.Sprintf(p.ValueFormat, b.Value))
	}
	if b.Note != "" {
		parts = append(parts, b.Note)
	}
	return strings.Join(parts, " ")
}

func (c *drawContext) barChart(p Panel) chart.BarChart {
	var ys extent
	ys.add(0)
	bars := make([]chart.Value, 0, len(p.Bars))
	for _, b := range p.Bars {
		ys.add(b.Value)
		bars = append(bars, chart.Value{
			Label: barLabel(p, b),
			Value: b.Value,
			Style: chart.Style{FillColor: b.Color, StrokeColor: colorBlack, StrokeWidth: 1},
		})
	}
	for _, rl := range p.RefLines {
		ys.add(rl.Y)
	}
	yRange, yTicks := valueRange(ys)
	bc := chart.BarChart{
		Title:      p.Title,
		Width:      c.width,
		Height:     c.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		YAxis:      chart.YAxis{Name: p.YLabel, Range: yRange, Ticks: yTicks},
		BarWidth:   barWidth(c.width, len(bars)),
		Bars:       bars,
	}
	if yRange.Min < 0 {
		bc.UseBaseValue = true
		bc.BaseValue = 0
	}
	if len(p.RefLines) > 0 {
		bc.Elements = []chart.Renderable{refLines(p.RefLines, yRange.Min, yRange.Max)}
	}
	return bc
}

// barWidth keeps bars narrow enough that labels of neighbouring bars do not collide.
func barWidth(width, n int) int {
	if n == 0 {
		return 50
	}
	w := width / (n * 2)
	if w > 80 {
		w = 80
	}
	if w < 12 {
		w = 12
	}
	return w
}

// refLines draws horizontal dashed lines across a bar chart canvas, mapped with the
// same translation go-chart uses for bar heights.
func refLines(lines []RefLine, min, max float64) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		if max <= min {
			return
		}
		for _, l := range lines {
			ratio := (l.Y - min) / (max - min)
			y := box.Bottom - int(math.Ceil(ratio*float64(box.Height())))
			r.SetStrokeColor(l.Color)
			r.SetStrokeWidth(1.5)
			r.SetStrokeDashArray([]float64{6.0, 4.0})
			r.MoveTo(box.Left, y)
			r.LineTo(box.Right, y)
			r.Stroke()
			if l.Label != "" {
				r.SetFont(defaults.GetFont())
				r.SetFontColor(l.Color)
				r.SetFontSize(9)
				r.Text(l.Label, box.Left+4, y-4)
			}
		}
		r.SetStrokeDashArray(nil)
	}
}

func (c *drawContext) pieChart(p Panel) chart.PieChart {
	values := make([]chart.Value, 0, len(p.Bars))
	for _, b := range p.Bars {
		if b.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: b.Label, Value: b.Value, Style: chart.Style{FillColor: b.Color, StrokeColor: colorBlack, StrokeWidth: 1}})
	}
	return chart.PieChart{
		Title:  p.Title,
		Width:  c.height, // pies are square
		Height: c.height,
		Values: values,
	}
}

// writePNG encodes img to a temp file beside path and renames it into place.
func writePNG(path string, img image.Image) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("png encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
