// Package cli implements the litemon command-line interface.
//
// The root command runs the live dashboard: it loads the config, builds the
// metrics engine over the local host provider, opens the terminal backend
// and hands all three to the monitor loop. Subcommands reuse the same
// config and engine wiring.
//
// # Command Structure
//
//	litemon                 - Live dashboard
//	litemon snapshot        - Sample twice, print one report (--json)
//	litemon config show     - Print the effective config as YAML
//	litemon config init     - Write a config file (interactive or --defaults)
//	litemon version         - Print version information
//
// # Configuration
//
// Settings come from, lowest precedence first: built-in defaults, the config
// file (~/.config/litemon/config.yaml or --config), LITEMON_* environment
// variables, and flags given on the command line.
//
// # Error Handling
//
// Commands return *errors.Error values with a code, message and suggestion.
// Execute prints them to stderr and reports a non-zero exit status.
package cli
