package payoff

import "fmt"

// Labels carries the text a renderer puts around a payoff chart.
type Labels struct {
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`
	XLabel   string `json:"x_label" yaml:"x_label"`
	YLabel   string `json:"y_label" yaml:"y_label"`
}

// ChartLabels builds labels describing the display mode of params.
func ChartLabels(params Params) Labels {
	mode, yLabel := "Value", "Position Value"
	if params.ShowProfit {
		mode, yLabel = "P/L", "Profit / Loss"
	}

	scale, unit := "Per Share", " ($ per share)"
	if !params.PerShare {
		scale = "Per Contract"
		unit = fmt.Sprintf(" ($ per %d-share contract)", params.ContractSize)
	}

	return Labels{
		Title: fmt.Sprintf("Pay-off at Expiration (%s, %s)", mode, scale),
		Subtitle: fmt.Sprintf("Strike = $%.2f, Premium = $%.2f, Cost Basis = $%.2f",
			params.Strike, params.Premium, params.Basis),
		XLabel: "Stock Price at Expiration ($)",
		YLabel: yLabel + unit,
	}
}
