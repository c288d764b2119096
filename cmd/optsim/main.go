// Command optsim plots and tabulates option strategy payoffs at expiration.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rserranon/options-simulator/internal/cli"
	"github.com/rserranon/options-simulator/internal/config"
	apperrors "github.com/rserranon/options-simulator/internal/errors"
	"github.com/rserranon/options-simulator/internal/logging"
)

func main() {
	cfg, err := config.Load(configDirFromArgs(os.Args[1:]))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	logger := logging.NewLoggerWithConfig(logging.FromConfig(cfg.Logging))
	logger.Debug().Str("version", cli.Version).Msg("Starting optsim")

	if err := cli.NewRootCmd(cfg, logger).Execute(); err != nil {
		logger.Debug().Err(err).Msg("Command failed")
		fmt.Fprintln(os.Stderr, apperrors.UserMessage(err))
		if apperrors.Is(err, apperrors.ErrInvalidParameter) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// configDirFromArgs finds --config before cobra parses flags, since the
// configuration supplies the flag defaults.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
	}
	return os.Getenv("OPTSIM_CONFIG_DIR")
}
