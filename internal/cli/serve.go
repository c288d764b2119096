package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rserranon/options-simulator/internal/server"
)

// addServerCommands adds the dashboard command.
func addServerCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newServeCmd(app))
}

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the interactive payoff dashboard",
		Long: `Serve the payoff dashboard and JSON API over HTTP.

Endpoints:
  GET /                 dashboard form and chart
  GET /api/payoff       simulation as JSON (same parameters as the form)
  GET /api/strategies   available strategies
  GET /healthz          liveness`,
		Example: `  optsim serve
  optsim serve --addr 127.0.0.1:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			addr, _ := cmd.Flags().GetString("addr")
			cfg := *app.Config
			cfg.Server.Addr = addr

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !output.IsJSON() {
				output.Info("Dashboard at http://%s (Ctrl+C to stop)", displayAddr(addr))
			}
			return server.New(&cfg, app.Logger).Run(ctx)
		},
	}
	cmd.Flags().String("addr", app.Config.Server.Addr, "Listen address")
	return cmd
}

// displayAddr turns a listen address such as ":8080" into a browsable host.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
