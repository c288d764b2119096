package payoff

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	apperrors "github.com/rserranon/options-simulator/internal/errors"
)

func valueAt(t *testing.T, r *Result, s Strategy, price float64) float64 {
	t.Helper()
	values, ok := r.Payoffs.Get(s)
	if !ok {
		t.Fatalf("%s missing from result", s)
	}
	i := r.Grid.Nearest(price)
	if r.Grid[i] != price {
		t.Fatalf("price %.2f not on grid (nearest %.2f)", price, r.Grid[i])
	}
	return values[i]
}

func TestCoveredCallScenario(t *testing.T) {
	params := DefaultParams()
	r, err := Simulate(params, []Strategy{LongStock, CoveredCall})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if got := r.Payoffs.Strategies(); len(got) != 2 || got[0] != LongStock || got[1] != CoveredCall {
		t.Fatalf("strategies = %v, want [Long Stock Covered Call]", got)
	}
	if _, ok := r.Payoffs.Get(NakedShortCall); ok {
		t.Error("intermediate Naked Short Call leaked into output")
	}

	tests := []struct {
		price       float64
		longStock   float64
		coveredCall float64
	}{
		{420, 0, 10},
		{450, 30, 10},
		{400, -20, -10},
		{315, -105, -95},
		{525, 105, 10},
	}
	for _, tt := range tests {
		if got := valueAt(t, r, LongStock, tt.price); got != tt.longStock {
			t.Errorf("Long Stock at %.0f = %v, want %v", tt.price, got, tt.longStock)
		}
		if got := valueAt(t, r, CoveredCall, tt.price); got != tt.coveredCall {
			t.Errorf("Covered Call at %.0f = %v, want %v", tt.price, got, tt.coveredCall)
		}
	}
}

func TestShortOptionFormulas(t *testing.T) {
	params := DefaultParams()
	grid := Grid{400, 420, 450}
	ps := ComputePayoffs(grid, params, []Strategy{NakedShortCall, NakedShortPut, CashSecuredPut})

	want := map[Strategy][]float64{
		NakedShortCall: {10, 10, -20},
		NakedShortPut:  {-10, 10, 10},
		CashSecuredPut: {-10, 10, 10},
	}
	for s, expected := range want {
		got, ok := ps.Get(s)
		if !ok {
			t.Fatalf("%s missing", s)
		}
		for i := range expected {
			if got[i] != expected[i] {
				t.Errorf("%s[%d] = %v, want %v", s, i, got[i], expected[i])
			}
		}
	}
}

func TestValueModeAndContractScale(t *testing.T) {
	params := DefaultParams()
	params.ShowProfit = false
	params.PerShare = false

	ps := ComputePayoffs(Grid{450}, params, []Strategy{CoveredCall, LongStock, NakedShortCall})
	cc, _ := ps.Get(CoveredCall)
	ls, _ := ps.Get(LongStock)
	nsc, _ := ps.Get(NakedShortCall)

	if ls[0] != 45000 {
		t.Errorf("Long Stock = %v, want 45000", ls[0])
	}
	if nsc[0] != -2000 {
		t.Errorf("Naked Short Call = %v, want -2000", nsc[0])
	}
	if cc[0] != 43000 {
		t.Errorf("Covered Call = %v, want 43000", cc[0])
	}
}

func TestComputePayoffsOrderingAndDuplicates(t *testing.T) {
	grid := GenerateGrid(100)
	requested := []Strategy{CashSecuredPut, CoveredCall, CashSecuredPut, Strategy(42), LongStock}
	ps := ComputePayoffs(grid, DefaultParams(), requested)

	want := []Strategy{CashSecuredPut, CoveredCall, LongStock}
	got := ps.Strategies()
	if len(got) != len(want) {
		t.Fatalf("strategies = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("strategies[%d] = %s, want %s", i, got[i], want[i])
		}
		if len(ps[i].Values) != len(grid) {
			t.Errorf("%s has %d values, want %d", ps[i].Strategy, len(ps[i].Values), len(grid))
		}
	}
}

func TestComputePayoffsEmptySelection(t *testing.T) {
	ps := ComputePayoffs(GenerateGrid(50), DefaultParams(), nil)
	if len(ps) != 0 {
		t.Errorf("expected no series, got %d", len(ps))
	}
}

func TestGenerateGrid(t *testing.T) {
	grid := GenerateGrid(420)
	if len(grid) != 211 {
		t.Fatalf("len = %d, want 211", len(grid))
	}
	if grid[0] != 315 || grid[len(grid)-1] != 525 {
		t.Errorf("bounds = [%v, %v], want [315, 525]", grid[0], grid[len(grid)-1])
	}

	small := GenerateGrid(0.5)
	if len(small) != 1 || small[0] != 0.375 {
		t.Errorf("small strike grid = %v, want [0.375]", small)
	}

	odd := GenerateGrid(421)
	last := odd[len(odd)-1]
	if odd[0] != 315.75 || last != 525.75 {
		t.Errorf("odd strike bounds = [%v, %v], want [315.75, 525.75]", odd[0], last)
	}
}

func TestGridSizeLimit(t *testing.T) {
	// 0.5*strike + 0.01 unit steps fit exactly under the cap.
	largest := 2*(MaxGridPoints-GridEpsilon) - 1
	if err := (Params{Strike: largest, ContractSize: 1}).Validate(); err != nil {
		t.Errorf("strike %v rejected: %v", largest, err)
	}
	if err := (Params{Strike: 2*MaxGridPoints + 2, ContractSize: 1}).Validate(); !errors.Is(err, apperrors.ErrInvalidParameter) {
		t.Errorf("strike past the cap err = %v", err)
	}

	// The engine alone never panics, even for strikes Validate rejects.
	for _, strike := range []float64{1e10, 1e20, math.MaxFloat64} {
		if n := len(GenerateGrid(strike)); n != MaxGridPoints {
			t.Errorf("GenerateGrid(%g) len = %d, want %d", strike, n, MaxGridPoints)
		}
	}
}

func TestGridNearest(t *testing.T) {
	grid := GenerateGrid(420)
	if i := grid.Nearest(420.4); grid[i] != 420 {
		t.Errorf("Nearest(420.4) = %v, want 420", grid[i])
	}
	if i := grid.Nearest(1); i != 0 {
		t.Errorf("Nearest(1) = %d, want 0", i)
	}
}

func TestSimulateErrors(t *testing.T) {
	base := DefaultParams()

	tests := []struct {
		name   string
		mutate func(p *Params)
		field  string
	}{
		{"zero strike", func(p *Params) { p.Strike = 0 }, "strike"},
		{"negative strike", func(p *Params) { p.Strike = -5 }, "strike"},
		{"negative premium", func(p *Params) { p.Premium = -0.01 }, "premium"},
		{"negative basis", func(p *Params) { p.Basis = -1 }, "basis"},
		{"zero contract size", func(p *Params) { p.ContractSize = 0 }, "contract_size"},
		{"nan premium", func(p *Params) { p.Premium = math.NaN() }, "premium"},
		{"infinite strike", func(p *Params) { p.Strike = math.Inf(1) }, "strike"},
		{"strike grid too long", func(p *Params) { p.Strike = 1e10 }, "strike"},
		{"strike overflows grid", func(p *Params) { p.Strike = 1e20 }, "strike"},
		{"largest float strike", func(p *Params) { p.Strike = math.MaxFloat64 }, "strike"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			_, err := Simulate(p, []Strategy{LongStock})
			if !errors.Is(err, apperrors.ErrInvalidParameter) {
				t.Fatalf("err = %v, want ErrInvalidParameter", err)
			}
			var verr *apperrors.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("field = %v, want %s", verr, tt.field)
			}
		})
	}

	if _, err := Simulate(base, nil); !errors.Is(err, apperrors.ErrEmptySelection) {
		t.Errorf("empty selection err = %v", err)
	}
	if _, err := Simulate(base, []Strategy{Strategy(-1)}); !errors.Is(err, apperrors.ErrEmptySelection) {
		t.Errorf("unknown-only selection err = %v", err)
	}
	// An empty selection is reported before parameter problems.
	bad := base
	bad.Strike = 0
	if _, err := Simulate(bad, nil); !errors.Is(err, apperrors.ErrEmptySelection) {
		t.Errorf("empty selection with bad params err = %v", err)
	}
	// Zero premium and zero basis are allowed.
	zero := base
	zero.Premium, zero.Basis = 0, 0
	if _, err := Simulate(zero, All); err != nil {
		t.Errorf("zero premium/basis: %v", err)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
		ok   bool
	}{
		{"Covered Call", CoveredCall, true},
		{"covered-call", CoveredCall, true},
		{"  cash secured   put ", CashSecuredPut, true},
		{"NAKED_SHORT_PUT", NakedShortPut, true},
		{"long stock", LongStock, true},
		{"Iron Condor", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseStrategy(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseStrategy(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}

	ids, unknown := ParseStrategies([]string{"Long Stock", "straddle", "", "naked-short-call"})
	if len(ids) != 2 || ids[0] != LongStock || ids[1] != NakedShortCall {
		t.Errorf("ids = %v", ids)
	}
	if len(unknown) != 1 || unknown[0] != "straddle" {
		t.Errorf("unknown = %v", unknown)
	}
}

func TestStrategyText(t *testing.T) {
	for _, s := range All {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", s, err)
		}
		var back Strategy
		if err := back.UnmarshalText(text); err != nil || back != s {
			t.Errorf("UnmarshalText(%q) = %v, %v", text, back, err)
		}
		if s.Slug() == "" || s.Description() == "" {
			t.Errorf("%s missing slug or description", s)
		}
	}
	if Strategy(99).String() != "Strategy(99)" {
		t.Errorf("unexpected name for invalid strategy: %s", Strategy(99))
	}

	data, err := json.Marshal(Series{Strategy: CoveredCall, Values: []float64{1}})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"strategy":"Covered Call","values":[1]}` {
		t.Errorf("json = %s", data)
	}
}

func TestCoveredCallDependencies(t *testing.T) {
	deps := CoveredCall.DependsOn()
	if len(deps) != 2 || deps[0] != LongStock || deps[1] != NakedShortCall {
		t.Errorf("deps = %v", deps)
	}
	if len(CashSecuredPut.DependsOn()) != 0 {
		t.Error("Cash Secured Put should not depend on other strategies")
	}
	if cc := Catalog()[CoveredCall]; len(cc.DependsOn) != 2 || cc.DependsOn[0] != "Long Stock" || cc.DependsOn[1] != "Naked Short Call" {
		t.Errorf("catalog entry = %+v", cc)
	}
}

func TestChartLabels(t *testing.T) {
	l := ChartLabels(DefaultParams())
	if l.Title != "Pay-off at Expiration (P/L, Per Share)" {
		t.Errorf("title = %q", l.Title)
	}
	if l.Subtitle != "Strike = $420.00, Premium = $10.00, Cost Basis = $420.00" {
		t.Errorf("subtitle = %q", l.Subtitle)
	}
	if l.YLabel != "Profit / Loss ($ per share)" {
		t.Errorf("y label = %q", l.YLabel)
	}

	p := DefaultParams()
	p.ShowProfit = false
	p.PerShare = false
	l = ChartLabels(p)
	if l.Title != "Pay-off at Expiration (Value, Per Contract)" {
		t.Errorf("title = %q", l.Title)
	}
	if l.YLabel != "Position Value ($ per 100-share contract)" {
		t.Errorf("y label = %q", l.YLabel)
	}
}

func TestSummaries(t *testing.T) {
	r, err := Simulate(DefaultParams(), []Strategy{LongStock, CoveredCall, NakedShortPut})
	if err != nil {
		t.Fatal(err)
	}
	sums := r.Summaries()
	if len(sums) != 3 {
		t.Fatalf("got %d summaries", len(sums))
	}

	ls := sums[0]
	if len(ls.Breakevens) != 1 || ls.Breakevens[0] != 420 {
		t.Errorf("Long Stock breakevens = %v, want [420]", ls.Breakevens)
	}
	if ls.Min != (Point{315, -105}) || ls.Max != (Point{525, 105}) {
		t.Errorf("Long Stock extremes = %+v / %+v", ls.Min, ls.Max)
	}

	cc := sums[1]
	if cc.Max.Value != 10 || cc.Max.Price != 420 {
		t.Errorf("Covered Call max = %+v, want 10 at 420", cc.Max)
	}
	if len(cc.Breakevens) != 1 || cc.Breakevens[0] != 410 {
		t.Errorf("Covered Call breakevens = %v, want [410]", cc.Breakevens)
	}

	put := sums[2]
	if len(put.Breakevens) != 1 || put.Breakevens[0] != 410 {
		t.Errorf("Naked Short Put breakevens = %v, want [410]", put.Breakevens)
	}
}

func TestSummarizeInterpolates(t *testing.T) {
	s := Summarize(Grid{1, 2, 3}, Series{Strategy: LongStock, Values: []float64{-1, 3, -1}})
	if len(s.Breakevens) != 2 || s.Breakevens[0] != 1.25 || s.Breakevens[1] != 2.75 {
		t.Errorf("breakevens = %v, want [1.25 2.75]", s.Breakevens)
	}

	empty := Summarize(nil, Series{})
	if len(empty.Breakevens) != 0 {
		t.Errorf("empty breakevens = %v", empty.Breakevens)
	}
}
