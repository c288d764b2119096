// Package payoff computes expiration payoffs of basic option strategies
// across a grid of underlying prices.
package payoff

import (
	"fmt"
	"strings"
)

// Strategy identifies one of the supported option strategies.
type Strategy int

const (
	LongStock Strategy = iota
	NakedShortCall
	CoveredCall
	NakedShortPut
	CashSecuredPut
)

// All lists every strategy in canonical order.
var All = []Strategy{LongStock, NakedShortCall, CoveredCall, NakedShortPut, CashSecuredPut}

// DefaultSelection is the selection shown when the user has not chosen any.
var DefaultSelection = []Strategy{LongStock, CoveredCall, CashSecuredPut}

// formula returns the per-unit value of a strategy at expiration price p.
type formula func(p float64, params Params) float64

type definition struct {
	name        string
	slug        string
	description string
	// formula is nil for strategies composed from their dependencies.
	formula   formula
	dependsOn []Strategy
	// ownsStock marks strategies whose value includes the underlying and
	// therefore carry the cost basis in profit mode.
	ownsStock bool
}

var definitions = [...]definition{
	LongStock: {
		name:        "Long Stock",
		slug:        "long-stock",
		description: "Own the underlying outright",
		formula:     longStockValue,
		ownsStock:   true,
	},
	NakedShortCall: {
		name:        "Naked Short Call",
		slug:        "naked-short-call",
		description: "Sell a call without owning the underlying",
		formula:     shortCall,
	},
	CoveredCall: {
		name:        "Covered Call",
		slug:        "covered-call",
		description: "Own the underlying and sell a call against it",
		dependsOn:   []Strategy{LongStock, NakedShortCall},
		ownsStock:   true,
	},
	NakedShortPut: {
		name:        "Naked Short Put",
		slug:        "naked-short-put",
		description: "Sell a put without reserving cash for assignment",
		formula:     shortPut,
	},
	CashSecuredPut: {
		name:        "Cash Secured Put",
		slug:        "cash-secured-put",
		description: "Sell a put while holding cash to buy the underlying if assigned",
		formula:     shortPut,
	},
}

func longStockValue(p float64, _ Params) float64 {
	return p
}

func shortCall(p float64, params Params) float64 {
	if p <= params.Strike {
		return params.Premium
	}
	return params.Premium - (p - params.Strike)
}

// shortPut is shared by the naked and cash secured puts: the collateral
// does not change the payoff at expiration.
func shortPut(p float64, params Params) float64 {
	if p >= params.Strike {
		return params.Premium
	}
	return params.Premium - (params.Strike - p)
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	return s >= 0 && int(s) < len(definitions)
}

// String returns the display name, e.g. "Covered Call".
func (s Strategy) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return definitions[s].name
}

// Slug returns the lowercase hyphenated identifier used on the command line
// and in URLs, e.g. "covered-call".
func (s Strategy) Slug() string {
	if !s.Valid() {
		return ""
	}
	return definitions[s].slug
}

// Description returns a one-line explanation of the position.
func (s Strategy) Description() string {
	if !s.Valid() {
		return ""
	}
	return definitions[s].description
}

// DependsOn returns the strategies whose series compose this one.
func (s Strategy) DependsOn() []Strategy {
	if !s.Valid() {
		return nil
	}
	return append([]Strategy(nil), definitions[s].dependsOn...)
}

// MarshalText encodes the strategy as its display name.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts a display name or slug.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, ok := ParseStrategy(string(text))
	if !ok {
		return fmt.Errorf("unknown strategy %q", string(text))
	}
	*s = parsed
	return nil
}

// ParseStrategy resolves a display name ("Covered Call") or slug
// ("covered-call"), ignoring case and surrounding whitespace.
func ParseStrategy(name string) (Strategy, bool) {
	key := normalize(name)
	for _, s := range All {
		if key == normalize(definitions[s].name) || key == definitions[s].slug {
			return s, true
		}
	}
	return 0, false
}

// ParseStrategies resolves names in order. Unrecognized names are skipped
// and returned separately so callers can report them.
func ParseStrategies(names []string) (strategies []Strategy, unknown []string) {
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		s, ok := ParseStrategy(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		strategies = append(strategies, s)
	}
	return strategies, unknown
}

func normalize(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '\t'
	})
	return strings.Join(fields, "-")
}

// Info describes a strategy for listings.
type Info struct {
	Name        string   `json:"name" yaml:"name"`
	Slug        string   `json:"slug" yaml:"slug"`
	Description string   `json:"description" yaml:"description"`
	DependsOn   []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// Catalog describes every strategy in canonical order.
func Catalog() []Info {
	out := make([]Info, 0, len(All))
	for _, s := range All {
		info := Info{Name: s.String(), Slug: s.Slug(), Description: s.Description()}
		for _, dep := range s.DependsOn() {
			info.DependsOn = append(info.DependsOn, dep.String())
		}
		out = append(out, info)
	}
	return out
}
