package cli

import (
	"math"
	"strings"

	"github.com/rserranon/options-simulator/internal/payoff"
)

// Chart renders payoff series as a character plot with a dashed zero line.
type Chart struct {
	Width  int // plot columns
	Height int // plot rows
}

var seriesMarkers = []rune{'*', '+', 'o', 'x', '#'}

const (
	cellEmpty = -1
	cellZero  = -2
)

type cell struct {
	r      rune
	series int
}

// Render draws r into lines ready to print. Colors come from o.
func (c Chart) Render(o *Output, r *payoff.Result) []string {
	width, height := c.Width, c.Height
	if width < 2 {
		width = 2
	}
	if height < 2 {
		height = 2
	}

	ymin, ymax := 0.0, 0.0
	for _, s := range r.Payoffs {
		for _, v := range s.Values {
			ymin = math.Min(ymin, v)
			ymax = math.Max(ymax, v)
		}
	}
	if ymax == ymin {
		ymin, ymax = ymin-1, ymax+1
	}
	rowFor := func(v float64) int {
		return int(math.Round((ymax - v) / (ymax - ymin) * float64(height-1)))
	}

	canvas := make([][]cell, height)
	for i := range canvas {
		canvas[i] = make([]cell, width)
		for j := range canvas[i] {
			canvas[i][j] = cell{' ', cellEmpty}
		}
	}

	zeroRow := rowFor(0)
	for col := 0; col < width; col += 2 {
		canvas[zeroRow][col] = cell{'-', cellZero}
	}

	n := len(r.Grid)
	for k, s := range r.Payoffs {
		marker := seriesMarkers[k%len(seriesMarkers)]
		for col := 0; col < width; col++ {
			lo, hi := columnRange(col, width, n)
			top, bottom := height, -1
			for i := lo; i <= hi && i < len(s.Values); i++ {
				row := rowFor(s.Values[i])
				if row < top {
					top = row
				}
				if row > bottom {
					bottom = row
				}
			}
			for row := top; row <= bottom; row++ {
				canvas[row][col] = cell{marker, k}
			}
		}
	}

	labels := r.Labels()
	top, zero, bottom := FormatAxis(ymax), "0", FormatAxis(ymin)
	labelWidth := max(len(top), len(zero), len(bottom))
	totalWidth := labelWidth + 2 + width

	lines := []string{
		o.BoldText(Center(labels.Title, totalWidth)),
		o.DimText(Center(labels.Subtitle, totalWidth)),
		"",
		o.DimText(labels.YLabel),
	}

	for row := 0; row < height; row++ {
		label := ""
		switch row {
		case 0:
			label = top
		case height - 1:
			label = bottom
		}
		if row == zeroRow {
			label = zero
		}

		var b strings.Builder
		b.WriteString(PadLeft(label, labelWidth))
		b.WriteString(" │")
		for _, cl := range canvas[row] {
			switch cl.series {
			case cellEmpty:
				b.WriteRune(cl.r)
			case cellZero:
				b.WriteString(o.DimText(string(cl.r)))
			default:
				b.WriteString(o.Series(cl.series, string(cl.r)))
			}
		}
		lines = append(lines, b.String())
	}

	indent := strings.Repeat(" ", labelWidth+1)
	lines = append(lines,
		indent+"└"+strings.Repeat("─", width),
		indent+" "+xTicks(r, width),
		Center(labels.XLabel, totalWidth),
		"",
	)

	legend := make([]string, 0, len(r.Payoffs))
	for k, s := range r.Payoffs {
		marker := string(seriesMarkers[k%len(seriesMarkers)])
		legend = append(legend, o.Series(k, marker)+" "+s.Strategy.String())
	}
	lines = append(lines, indent+" "+strings.Join(legend, "   "))
	return lines
}

// columnRange returns the grid indices drawn in column col.
func columnRange(col, width, n int) (int, int) {
	if n <= 1 {
		return 0, 0
	}
	if n < width {
		idx := int(math.Round(float64(col) * float64(n-1) / float64(width-1)))
		return idx, idx
	}
	lo := col * n / width
	hi := (col+1)*n/width - 1
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// xTicks labels the first, strike and last grid prices under the plot.
func xTicks(r *payoff.Result, width int) string {
	line := []rune(strings.Repeat(" ", width))
	if len(r.Grid) == 0 {
		return string(line)
	}

	first, last := r.Grid[0], r.Grid[len(r.Grid)-1]
	place := func(text string, col int) {
		runes := []rune(text)
		if col+len(runes) > width {
			col = width - len(runes)
		}
		if col < 0 {
			col = 0
		}
		for i, ch := range runes {
			if col+i < width {
				line[col+i] = ch
			}
		}
	}

	lastText := FormatAxis(last)
	place(FormatAxis(first), 0)
	place(lastText, width-len(lastText))

	if last > first {
		strike := r.Params.Strike
		col := int(math.Round((strike-first)/(last-first)*float64(width-1))) - len(FormatAxis(strike))/2
		firstEnd := len(FormatAxis(first)) + 1
		if col > firstEnd && col+len(FormatAxis(strike)) < width-len(lastText)-1 {
			place(FormatAxis(strike), col)
		}
	}
	return string(line)
}
