package charts

import (
	"math"
	"sort"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
)

// extent tracks the min/max of the values plotted on one axis.
type extent struct {
	lo, hi float64
	set    bool
}

func (e *extent) add(vs ...float64) {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !e.set {
			e.lo, e.hi, e.set = v, v, true
			continue
		}
		if v < e.lo {
			e.lo = v
		}
		if v > e.hi {
			e.hi = v
		}
	}
}

// axisIntervals is roughly how many tick intervals an axis gets.
const axisIntervals = 5

// tickMultipliers are the per-decade step sizes an axis may use.
var tickMultipliers = []float64{1, 2, 2.5, 5, 10}

// axisStep returns the smallest 1-2-2.5-5 step that splits span into at most n intervals.
func axisStep(span float64, n int) float64 {
	if span <= 0 || n < 1 {
		return 1
	}
	raw := span / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range tickMultipliers {
		if m*mag >= raw*(1-1e-9) {
			return m * mag
		}
	}
	return 10 * mag
}

// axisScale widens [lo,hi] by 5%, snaps both ends outward to one step and puts a tick on
// every step between them, so the first and last tick sit on the range bounds. With
// fromZero the low end is kept at lo; lo must then be a multiple of the step (zero).
func axisScale(lo, hi float64, fromZero bool) (*chart.ContinuousRange, []chart.Tick) {
	if hi <= lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.05
	if !fromZero {
		lo -= pad
	}
	hi += pad
	step := axisStep(hi-lo, axisIntervals)
	first, last := math.Floor(lo/step), math.Ceil(hi/step)
	ticks := make([]chart.Tick, 0, int(last-first)+1)
	for k := first; k <= last; k++ {
		v := k * step
		if math.Abs(v) < step*1e-9 {
			v = 0
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v, step)})
	}
	return &chart.ContinuousRange{Min: first * step, Max: last * step}, ticks
}

// formatTick prints v with as many decimals as step needs, so 0.25 steps keep two
// and whole-number steps keep none.
func formatTick(v, step float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', stepDecimals(step), 64)
}

func stepDecimals(step float64) int {
	d := 0
	for x := math.Abs(step); d < 6; d++ {
		if math.Abs(x-math.Round(x)) < 1e-9*math.Max(1, x) {
			break
		}
		x *= 10
	}
	return d
}

// valueRange scales a bar axis. Ranges whose values are all non-negative start at
// zero; mixed or negative ranges keep zero in view.
func valueRange(e extent) (*chart.ContinuousRange, []chart.Tick) {
	if !e.set {
		e.add(0, 1)
	}
	lo, hi := math.Min(e.lo, 0), math.Max(e.hi, 0)
	return axisScale(lo, hi, e.lo >= 0)
}

// padSingle duplicates a lone point one unit to the right; go-chart needs a non-zero x span.
func padSingle(xs, ys []float64) ([]float64, []float64) {
	if len(xs) != 1 || len(ys) != 1 {
		return xs, ys
	}
	return []float64{xs[0], xs[0] + 1}, []float64{ys[0], ys[0]}
}

func padSingleTime(ts []time.Time, ys []float64) ([]time.Time, []float64) {
	if len(ts) != 1 || len(ys) != 1 {
		return ts, ys
	}
	return []time.Time{ts[0], ts[0].Add(time.Second)}, []float64{ys[0], ys[0]}
}

// logTicks labels each distinct original x value at its log10 position.
func logTicks(xs []float64) []chart.Tick {
	seen := map[float64]bool{}
	var ticks []chart.Tick
	for _, x := range xs {
		if x <= 0 || seen[x] {
			continue
		}
		seen[x] = true
		step := 1.0
		if x != math.Trunc(x) {
			step = 0.01
		}
		ticks = append(ticks, chart.Tick{Value: math.Log10(x), Label: formatTick(x, step)})
	}
	if len(ticks) < 2 {
		// a single tick cannot span an axis; let go-chart generate them
		return nil
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i].Value < ticks[j].Value })
	return ticks
}
