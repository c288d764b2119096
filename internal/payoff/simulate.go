package payoff

import (
	apperrors "github.com/rserranon/options-simulator/internal/errors"
)

// Result is one complete simulation, ready for rendering.
type Result struct {
	Params  Params  `json:"params" yaml:"params"`
	Grid    Grid    `json:"grid" yaml:"grid"`
	Payoffs Payoffs `json:"series" yaml:"series"`
}

// Simulate validates the inputs, builds the price grid and computes the
// requested payoffs. An empty selection yields ErrEmptySelection and invalid
// parameters yield a ValidationError wrapping ErrInvalidParameter.
func Simulate(params Params, requested []Strategy) (*Result, error) {
	if len(dedupe(requested)) == 0 {
		return nil, apperrors.ErrEmptySelection
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	grid := GenerateGrid(params.Strike)
	return &Result{
		Params:  params,
		Grid:    grid,
		Payoffs: ComputePayoffs(grid, params, requested),
	}, nil
}

// Labels returns the chart labels for the result's parameters.
func (r *Result) Labels() Labels {
	return ChartLabels(r.Params)
}

// Summaries summarizes each series in output order.
func (r *Result) Summaries() []Summary {
	out := make([]Summary, 0, len(r.Payoffs))
	for _, series := range r.Payoffs {
		out = append(out, Summarize(r.Grid, series))
	}
	return out
}
