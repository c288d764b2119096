package server

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rserranon/options-simulator/internal/payoff"
)

// Chart geometry in SVG user units.
const (
	chartWidth   = 600
	chartHeight  = 400
	marginLeft   = 70
	marginRight  = 20
	marginTop    = 60
	marginBottom = 50
)

var palette = []string{"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a"}

func seriesColor(i int) string {
	return palette[i%len(palette)]
}

// chartView is a fully laid out chart ready for the template.
type chartView struct {
	Width, Height   int
	CenterX         float64
	CenterY         float64
	LegendX         float64
	Left, Top       float64
	Right, Bottom   float64
	PlotW, PlotH    float64
	Title, Subtitle string
	XLabel, YLabel  string
	ShowZero        bool
	ZeroY           float64
	XTicks, YTicks  []tick
	Lines           []line
}

type tick struct {
	Pos   float64
	Label string
}

type line struct {
	Name    string
	Color   string
	Points  string
	LegendY float64
}

// buildChart lays out one polyline per series over the grid, with a dashed
// zero line and axis ticks at round numbers.
func buildChart(r *payoff.Result) chartView {
	labels := r.Labels()
	v := chartView{
		Width:    chartWidth,
		Height:   chartHeight,
		CenterX:  chartWidth / 2,
		Left:     marginLeft,
		Top:      marginTop,
		Right:    chartWidth - marginRight,
		Bottom:   chartHeight - marginBottom,
		Title:    labels.Title,
		Subtitle: labels.Subtitle,
		XLabel:   labels.XLabel,
		YLabel:   labels.YLabel,
	}
	v.PlotW, v.PlotH = v.Right-v.Left, v.Bottom-v.Top
	v.CenterY = v.Top + v.PlotH/2
	v.LegendX = v.Right - 130

	xmin, xmax := r.Grid[0], r.Grid[len(r.Grid)-1]
	if xmax == xmin {
		xmin, xmax = xmin-1, xmax+1
	}
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for _, s := range r.Payoffs {
		for _, val := range s.Values {
			ymin = math.Min(ymin, val)
			ymax = math.Max(ymax, val)
		}
	}
	if ymax == ymin {
		ymin, ymax = ymin-1, ymax+1
	}
	pad := (ymax - ymin) * 0.05
	ymin, ymax = ymin-pad, ymax+pad

	x := func(p float64) float64 { return v.Left + (p-xmin)/(xmax-xmin)*v.PlotW }
	y := func(val float64) float64 { return v.Bottom - (val-ymin)/(ymax-ymin)*v.PlotH }

	for _, t := range niceTicks(xmin, xmax, 6) {
		v.XTicks = append(v.XTicks, tick{Pos: round1(x(t)), Label: humanize.Comma(int64(math.Round(t)))})
	}
	for _, t := range niceTicks(ymin, ymax, 6) {
		v.YTicks = append(v.YTicks, tick{Pos: round1(y(t)), Label: humanize.Comma(int64(math.Round(t)))})
	}
	if ymin <= 0 && ymax >= 0 {
		v.ShowZero = true
		v.ZeroY = round1(y(0))
	}

	for i, s := range r.Payoffs {
		var b strings.Builder
		for j, val := range s.Values {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(round1(x(r.Grid[j])), 'f', -1, 64))
			b.WriteByte(',')
			b.WriteString(strconv.FormatFloat(round1(y(val)), 'f', -1, 64))
		}
		v.Lines = append(v.Lines, line{
			Name:    s.Strategy.String(),
			Color:   seriesColor(i),
			Points:  b.String(),
			LegendY: v.Top + 14 + float64(i)*14,
		})
	}
	return v
}

// niceTicks returns round values between lo and hi, about n of them, using
// steps of 1, 2 or 5 times a power of ten.
func niceTicks(lo, hi float64, n int) []float64 {
	if !(hi > lo) || n < 1 {
		return nil
	}
	raw := (hi - lo) / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := mag
	for _, m := range []float64{1, 2, 5, 10} {
		step = m * mag
		if step >= raw {
			break
		}
	}

	var ticks []float64
	for t := math.Ceil(lo/step) * step; t <= hi+step*1e-9; t += step {
		ticks = append(ticks, t)
	}
	return ticks
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// formatMoney formats a dollar amount with thousands separators and cents.
func formatMoney(v float64) string {
	if math.Round(v*100) < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", math.Abs(v))
}
