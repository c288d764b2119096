package payoff

// Series is the payoff of one strategy, aligned index for index with a Grid.
type Series struct {
	Strategy Strategy  `json:"strategy" yaml:"strategy"`
	Values   []float64 `json:"values" yaml:"values"`
}

// Payoffs holds one series per requested strategy, in request order.
type Payoffs []Series

// Get returns the values computed for s.
func (ps Payoffs) Get(s Strategy) ([]float64, bool) {
	for _, series := range ps {
		if series.Strategy == s {
			return series.Values, true
		}
	}
	return nil, false
}

// Strategies returns the strategies in output order.
func (ps Payoffs) Strategies() []Strategy {
	out := make([]Strategy, len(ps))
	for i, series := range ps {
		out[i] = series.Strategy
	}
	return out
}

// ComputePayoffs evaluates the requested strategies over grid.
//
// Values are first computed per unit in value form. In profit mode the cost
// basis is then subtracted from strategies that own the underlying, and
// finally every series is multiplied by params.Scale(). Strategies needed
// only to compose another (Covered Call needs Long Stock and Naked Short
// Call) are computed but left out of the result. Duplicates and unknown
// strategies in requested are dropped.
//
// ComputePayoffs does not validate params; see Params.Validate.
func ComputePayoffs(grid Grid, params Params, requested []Strategy) Payoffs {
	selected := dedupe(requested)

	values := make(map[Strategy][]float64, len(definitions))
	for _, s := range resolve(selected) {
		values[s] = evaluate(s, grid, params, values)
	}

	if params.ShowProfit {
		for s, v := range values {
			if definitions[s].ownsStock {
				offset(v, -params.Basis)
			}
		}
	}

	scale := params.Scale()
	for _, v := range values {
		multiply(v, scale)
	}

	out := make(Payoffs, 0, len(selected))
	for _, s := range selected {
		out = append(out, Series{Strategy: s, Values: values[s]})
	}
	return out
}

// dedupe keeps the first occurrence of each known strategy.
func dedupe(requested []Strategy) []Strategy {
	seen := make(map[Strategy]bool, len(requested))
	out := make([]Strategy, 0, len(requested))
	for _, s := range requested {
		if !s.Valid() || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// resolve orders the selection and its dependencies so every strategy comes
// after the strategies it is composed of.
func resolve(selected []Strategy) []Strategy {
	visited := make(map[Strategy]bool, len(definitions))
	order := make([]Strategy, 0, len(definitions))

	var visit func(s Strategy)
	visit = func(s Strategy) {
		if visited[s] {
			return
		}
		visited[s] = true
		for _, dep := range definitions[s].dependsOn {
			visit(dep)
		}
		order = append(order, s)
	}

	for _, s := range selected {
		visit(s)
	}
	return order
}

// evaluate computes the value form of s. Dependencies must already be in computed.
func evaluate(s Strategy, grid Grid, params Params, computed map[Strategy][]float64) []float64 {
	def := definitions[s]
	out := make([]float64, len(grid))

	if def.formula != nil {
		for i, p := range grid {
			out[i] = def.formula(p, params)
		}
		return out
	}

	for _, dep := range def.dependsOn {
		for i, v := range computed[dep] {
			out[i] += v
		}
	}
	return out
}

func offset(values []float64, delta float64) {
	for i := range values {
		values[i] += delta
	}
}

func multiply(values []float64, factor float64) {
	if factor == 1 {
		return
	}
	for i := range values {
		values[i] *= factor
	}
}
