package payoff

import (
	"math"

	apperrors "github.com/rserranon/options-simulator/internal/errors"
)

// Params holds the inputs shared by every strategy in one computation.
type Params struct {
	Strike       float64 `json:"strike" yaml:"strike"`
	Premium      float64 `json:"premium" yaml:"premium"`             // received per unit
	Basis        float64 `json:"basis" yaml:"basis"`                 // paid per unit of underlying
	ContractSize int     `json:"contract_size" yaml:"contract_size"` // units per contract
	PerShare     bool    `json:"per_share" yaml:"per_share"`
	ShowProfit   bool    `json:"show_profit" yaml:"show_profit"`
}

// DefaultParams returns a 420 strike, 10 premium covered call setup on a
// 100-share contract, reported per share as profit.
func DefaultParams() Params {
	return Params{
		Strike:       420,
		Premium:      10,
		Basis:        420,
		ContractSize: 100,
		PerShare:     true,
		ShowProfit:   true,
	}
}

// Scale is the factor applied to per-unit values.
func (p Params) Scale() float64 {
	if p.PerShare {
		return 1
	}
	return float64(p.ContractSize)
}

// Validate checks the parameters before they reach the engine.
func (p Params) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"strike", p.Strike},
		{"premium", p.Premium},
		{"basis", p.Basis},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return apperrors.NewValidationError(f.name, f.value, "must be a finite number")
		}
	}

	if p.Strike <= 0 {
		return apperrors.NewValidationError("strike", p.Strike, "must be greater than zero")
	}
	if _, ok := gridPoints(p.Strike); !ok {
		return apperrors.NewValidationError("strike", p.Strike, "too large: the price grid would exceed 1,000,000 points")
	}
	if p.Premium < 0 {
		return apperrors.NewValidationError("premium", p.Premium, "must not be negative")
	}
	if p.Basis < 0 {
		return apperrors.NewValidationError("basis", p.Basis, "must not be negative")
	}
	if p.ContractSize <= 0 {
		return apperrors.NewValidationError("contract_size", p.ContractSize, "must be greater than zero")
	}
	return nil
}
