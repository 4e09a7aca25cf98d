package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	LogFile    string
	Quiet      bool
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/diskscout/config.yaml)",
	)
	cmd.PersistentFlags().StringVar(
		&globalFlags.LogLevel,
		"log-level",
		"",
		"log level: debug, info, warn, error",
	)
	cmd.PersistentFlags().StringVar(
		&globalFlags.LogFile,
		"log-file",
		"",
		"write logs to file instead of stderr",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress non-error output",
	)
}
