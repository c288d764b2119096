package payoff

import "math"

const (
	// GridLowerFactor and GridUpperFactor bound the grid relative to the strike.
	GridLowerFactor = 0.75
	GridUpperFactor = 1.25
	// GridStep is the spacing between adjacent grid prices.
	GridStep = 1.0
	// GridEpsilon is added to the upper bound so the endpoint survives
	// floating point rounding.
	GridEpsilon = 0.01
	// MaxGridPoints caps the grid length. Validate rejects strikes whose
	// grid would be longer, which puts the largest strike near 2,000,000.
	MaxGridPoints = 1_000_000
)

// Grid is an ascending sequence of underlying prices at expiration.
type Grid []float64

// GenerateGrid returns prices from 0.75×strike up to 1.25×strike in steps of
// GridStep. The grid always holds at least the starting price. The caller is
// responsible for rejecting non-positive strikes. Grids longer than
// MaxGridPoints are truncated.
func GenerateGrid(strike float64) Grid {
	start := strike * GridLowerFactor
	grid := make(Grid, gridSize(strike))
	for i := range grid {
		// start + i*step rather than repeated addition keeps the error bounded.
		grid[i] = start + float64(i)*GridStep
	}
	return grid
}

// gridSize is the number of grid points for strike, at most MaxGridPoints.
func gridSize(strike float64) int {
	n, ok := gridPoints(strike)
	if !ok {
		return MaxGridPoints
	}
	return n
}

// gridPoints is the untruncated grid length. It reports false when the grid
// would hold more than MaxGridPoints prices.
func gridPoints(strike float64) (int, bool) {
	start := strike * GridLowerFactor
	stop := strike*GridUpperFactor + GridEpsilon
	span := (stop - start) / GridStep
	switch {
	case !(span > 1): // also catches NaN
		return 1, true
	case span > MaxGridPoints:
		return MaxGridPoints, false
	}
	return int(math.Ceil(span)), true
}

// Nearest returns the index of the grid price closest to price.
func (g Grid) Nearest(price float64) int {
	best := 0
	for i, p := range g {
		if math.Abs(p-price) < math.Abs(g[best]-price) {
			best = i
		}
	}
	return best
}
