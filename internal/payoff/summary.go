package payoff

import "math"

// Point is a value observed at a grid price.
type Point struct {
	Price float64 `json:"price" yaml:"price"`
	Value float64 `json:"value" yaml:"value"`
}

// Summary describes a series over the grid. Min and Max are limited to the
// grid range; payoffs outside it are not considered.
type Summary struct {
	Strategy   Strategy  `json:"strategy" yaml:"strategy"`
	Min        Point     `json:"min" yaml:"min"`
	Max        Point     `json:"max" yaml:"max"`
	Breakevens []float64 `json:"breakevens" yaml:"breakevens"`
}

// Summarize finds the extremes and zero crossings of series over grid.
// Crossings between grid points are linearly interpolated.
func Summarize(grid Grid, series Series) Summary {
	sum := Summary{Strategy: series.Strategy, Breakevens: []float64{}}
	n := len(grid)
	if len(series.Values) < n {
		n = len(series.Values)
	}
	if n == 0 {
		return sum
	}

	sum.Min = Point{Price: grid[0], Value: series.Values[0]}
	sum.Max = sum.Min

	for i := 0; i < n; i++ {
		p, v := grid[i], series.Values[i]
		if v < sum.Min.Value {
			sum.Min = Point{Price: p, Value: v}
		}
		if v > sum.Max.Value {
			sum.Max = Point{Price: p, Value: v}
		}

		if v == 0 {
			sum.Breakevens = appendUnique(sum.Breakevens, p)
			continue
		}
		if i == 0 {
			continue
		}
		prevP, prevV := grid[i-1], series.Values[i-1]
		if prevV != 0 && math.Signbit(prevV) != math.Signbit(v) {
			cross := prevP + (p-prevP)*(-prevV)/(v-prevV)
			sum.Breakevens = appendUnique(sum.Breakevens, cross)
		}
	}
	return sum
}

func appendUnique(prices []float64, p float64) []float64 {
	if len(prices) > 0 && prices[len(prices)-1] == p {
		return prices
	}
	return append(prices, p)
}
