package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// addHelpCommands adds documentation commands.
func addHelpCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newExamplesCmd())
}

type workflow struct {
	title    string
	commands []string
}

var workflows = []workflow{
	{
		title: "Compare the Default Strategies",
		commands: []string{
			"optsim chart                              # Long stock, covered call, cash secured put",
			"optsim table --step 5                     # Same payoffs as numbers",
		},
	},
	{
		title: "Covered Call on Shares Bought Lower",
		commands: []string{
			"optsim chart --strike 450 --premium 8 --basis 400 --strategies covered-call,long-stock",
			"optsim table --strike 450 --premium 8 --basis 400 --strategies covered-call",
		},
	},
	{
		title: "Whole Contract Values",
		commands: []string{
			"optsim chart --per-share=false            # Scale by contract size",
			"optsim chart --show-profit=false          # Position value instead of P/L",
		},
	},
	{
		title: "Export for a Spreadsheet",
		commands: []string{
			"optsim export --format csv -o payoffs.csv",
			"optsim export --format yaml --strategies naked-short-put",
			"optsim table --json                       # Grid, series and summaries",
		},
	},
	{
		title: "Interactive Dashboard",
		commands: []string{
			"optsim serve                              # http://localhost:8080",
			"curl 'localhost:8080/api/payoff?strike=420&strategy=covered-call'",
		},
	},
}

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show common workflow examples",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if output.IsJSON() {
				out := make(map[string][]string, len(workflows))
				for _, wf := range workflows {
					out[wf.title] = wf.commands
				}
				return output.JSON(out)
			}

			output.Bold("Common Workflow Examples")
			output.Println()
			for _, wf := range workflows {
				output.Bold(wf.title)
				for _, c := range wf.commands {
					parts := strings.SplitN(c, "#", 2)
					if len(parts) == 2 {
						output.Printf("  %s %s\n", output.Cyan(strings.TrimSpace(parts[0])), output.DimText(strings.TrimSpace(parts[1])))
					} else {
						output.Printf("  %s\n", output.Cyan(c))
					}
				}
				output.Println()
			}
			return nil
		},
	}
}
