package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/AvengeMedia/danktk/internal/log"
)

var Version = "dev"

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config.toml (default: $XDG_CONFIG_HOME/danktk/config.toml)")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")

	runCmd.Flags().Bool("no-socket", false, "Do not open the control socket")
	layerCmd.Flags().Bool("no-socket", false, "Do not open the control socket")
	lockCmd.Flags().Duration("for", 0, "Unlock automatically after this long")
	lockCmd.Flags().Bool("logind", false, "Wait for logind Lock/Unlock signals instead of locking immediately")
	ipcCmd.Flags().StringP("socket", "s", "", "Control socket path (default: first running instance)")

	rootCmd.AddCommand(versionCmd, runCmd, layerCmd, lockCmd, monitorCmd, ipcCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			log.Error(exit.err)
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
