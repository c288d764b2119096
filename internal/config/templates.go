package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Options Simulator Configuration

[defaults]
# Strike price of the option
strike = 420.0
# Premium received per share
premium = 10.0
# Cost basis of the underlying per share
basis = 420.0
# Shares per standard contract
contract_size = 100
# Report values per share (true) or per contract (false)
per_share = true
# Show profit/loss (true) or position value (false)
show_profit = true
# Strategies plotted when none are selected:
# "Long Stock", "Naked Short Call", "Covered Call", "Naked Short Put", "Cash Secured Put"
strategies = ["Long Stock", "Covered Call", "Cash Secured Put"]

[ui]
# Enable colored output
color_enabled = true
# Terminal chart size in characters
chart_width = 72
chart_height = 20
# Show every Nth grid price in tables
table_step = 10

[server]
# Dashboard listen address
addr = ":8080"
read_timeout = "5s"
write_timeout = "10s"
# Requests per second across all clients (0 disables) and burst size
rate_limit = 20.0
burst = 40

[logging]
# Log level: debug, info, warn, error
level = "info"
# Also write logs to a rotating file
file = false
# file_path = "~/.config/options-simulator/logs/optsim.log"
max_size = 10
max_backups = 3
max_age = 28
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}
