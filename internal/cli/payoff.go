package cli

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/rserranon/options-simulator/internal/errors"
	"github.com/rserranon/options-simulator/internal/export"
	"github.com/rserranon/options-simulator/internal/logging"
	"github.com/rserranon/options-simulator/internal/payoff"
)

// addPayoffCommands adds the simulation commands.
func addPayoffCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newChartCmd(app))
	rootCmd.AddCommand(newTableCmd(app))
	rootCmd.AddCommand(newExportCmd(app))
	rootCmd.AddCommand(newStrategiesCmd())
}

// addParamFlags registers the simulation parameter flags, defaulting to the
// configured values.
func addParamFlags(cmd *cobra.Command, app *App) {
	d := app.Config.Defaults
	cmd.Flags().Float64("strike", d.Strike, "Strike price ($)")
	cmd.Flags().Float64("premium", d.Premium, "Premium received ($ per share)")
	cmd.Flags().Float64("basis", d.Basis, "Cost basis of the stock ($ per share)")
	cmd.Flags().Int("contract-size", d.ContractSize, "Shares per contract")
	cmd.Flags().Bool("per-share", d.PerShare, "Report per share instead of per contract")
	cmd.Flags().Bool("show-profit", d.ShowProfit, "Show profit/loss instead of position value")
	cmd.Flags().StringSlice("strategies", d.Strategies, "Strategies to plot (names or slugs, comma separated)")
}

// simulate reads the parameter flags and runs the simulation. Unrecognized
// strategy names are reported and skipped.
func simulate(cmd *cobra.Command, app *App, output *Output) (*payoff.Result, error) {
	flags := cmd.Flags()
	params := payoff.Params{}
	params.Strike, _ = flags.GetFloat64("strike")
	params.Premium, _ = flags.GetFloat64("premium")
	params.Basis, _ = flags.GetFloat64("basis")
	params.ContractSize, _ = flags.GetInt("contract-size")
	params.PerShare, _ = flags.GetBool("per-share")
	params.ShowProfit, _ = flags.GetBool("show-profit")
	names, _ := flags.GetStringSlice("strategies")

	strategies, unknown := payoff.ParseStrategies(names)
	if len(unknown) > 0 {
		app.Logger.Debug().Strs("unknown", unknown).Msg("Ignoring unknown strategies")
		if !output.IsJSON() {
			output.Warning("Ignoring unknown strategies: %s", strings.Join(unknown, ", "))
		}
	}

	start := time.Now()
	result, err := payoff.Simulate(params, strategies)
	if err != nil {
		return nil, err
	}
	logging.LogSimulation(logging.WithOperation(app.Logger, cmd.Name()),
		params.Strike, strategyNames(result.Payoffs.Strategies()), len(result.Grid), time.Since(start))
	return result, nil
}

func strategyNames(strategies []payoff.Strategy) []string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.String()
	}
	return names
}

func newChartCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Plot payoffs at expiration",
		Long:  "Plot the payoff at expiration of the selected strategies across prices from 75% to 125% of the strike.",
		Example: `  optsim chart
  optsim chart --strike 420 --premium 10 --basis 400 --strategies "covered-call,long-stock"
  optsim chart --per-share=false --show-profit=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			result, err := simulate(cmd, app, output)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(export.NewDocument(result))
			}

			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			for _, line := range (Chart{Width: width, Height: height}).Render(output, result) {
				output.Println(line)
			}
			return nil
		},
	}
	addParamFlags(cmd, app)
	cmd.Flags().Int("width", app.Config.UI.ChartWidth, "Plot width in characters")
	cmd.Flags().Int("height", app.Config.UI.ChartHeight, "Plot height in characters")
	return cmd
}

func newTableCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Tabulate payoffs at expiration",
		Long: `Print payoffs of the selected strategies at every Nth grid price, followed by
the best and worst outcome and breakeven prices of each strategy over the grid.`,
		Example: `  optsim table --step 5
  optsim table --strategies "Naked Short Put,Cash Secured Put" --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			result, err := simulate(cmd, app, output)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(export.NewDocument(result))
			}

			step, _ := cmd.Flags().GetInt("step")
			if step < 1 {
				step = 1
			}
			showPayoffTable(output, result, step)
			return nil
		},
	}
	addParamFlags(cmd, app)
	cmd.Flags().Int("step", app.Config.UI.TableStep, "Show every Nth grid price")
	return cmd
}

// showPayoffTable prints every step-th row plus the rows nearest the strike
// and the last grid price.
func showPayoffTable(output *Output, result *payoff.Result, step int) {
	labels := result.Labels()
	output.Bold(labels.Title)
	output.Dim(labels.Subtitle)
	output.Println()

	headers := []string{"Price"}
	for _, s := range result.Payoffs {
		headers = append(headers, s.Strategy.String())
	}
	table := NewTable(output, headers...)

	strikeRow := result.Grid.Nearest(result.Params.Strike)
	last := len(result.Grid) - 1
	for i, price := range result.Grid {
		if i%step != 0 && i != strikeRow && i != last {
			continue
		}
		priceCell := FormatPrice(price)
		if i == strikeRow {
			priceCell = output.Cyan(priceCell)
		}
		row := []string{priceCell}
		for _, s := range result.Payoffs {
			row = append(row, output.FormatPnL(s.Values[i]))
		}
		table.AddRow(row...)
	}
	table.Render()
	output.Println()

	output.Bold("Summary (%s)", labels.YLabel)
	for _, sum := range result.Summaries() {
		breakevens := "none"
		if len(sum.Breakevens) > 0 {
			parts := make([]string, len(sum.Breakevens))
			for i, b := range sum.Breakevens {
				parts[i] = FormatPrice(b)
			}
			breakevens = strings.Join(parts, ", ")
		}
		output.Printf("  %s\n", output.BoldText(sum.Strategy.String()))
		output.Printf("    Best:      %s at %s\n", output.FormatPnL(sum.Max.Value), FormatPrice(sum.Max.Price))
		output.Printf("    Worst:     %s at %s\n", output.FormatPnL(sum.Min.Value), FormatPrice(sum.Min.Price))
		output.Printf("    Breakeven: %s\n", breakevens)
	}
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export payoffs as CSV, JSON or YAML",
		Example: `  optsim export --format csv > payoffs.csv
  optsim export --format yaml --output payoffs.yaml --strategies covered-call`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			formatName, _ := cmd.Flags().GetString("format")
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}

			result, err := simulate(cmd, app, output)
			if err != nil {
				return err
			}

			path, _ := cmd.Flags().GetString("output")
			if path == "" || path == "-" {
				return export.Write(cmd.OutOrStdout(), result, format)
			}

			f, err := os.Create(path)
			if err != nil {
				return apperrors.Wrapf(err, "creating %s", path)
			}
			if err := export.Write(f, result, format); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return apperrors.Wrapf(err, "closing %s", path)
			}
			app.Logger.Info().Str("path", path).Str("format", string(format)).Msg("Payoffs exported")
			return nil
		},
	}
	addParamFlags(cmd, app)
	cmd.Flags().String("format", string(export.FormatCSV), "Output format: csv, json, yaml")
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	return cmd
}

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List available strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(payoff.Catalog())
			}

			output.Bold("Available Strategies")
			output.Println()
			for _, info := range payoff.Catalog() {
				line := PadRight(output.Cyan(info.Slug), 18) + " " + info.Description
				if len(info.DependsOn) > 0 {
					line += output.DimText(" (" + strings.Join(info.DependsOn, " + ") + ")")
				}
				output.Println("  " + line)
			}
			return nil
		},
	}
}
