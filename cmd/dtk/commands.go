package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "dtk",
	Short:         "DankTK surface coordinator",
	Long:          "DankTK drives Wayland windows, layer surfaces and session locks\nfrom a single dispatcher and exposes them over a control socket.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("danktk v%s\n", Version)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a window from the configuration",
	Long:  "Open an xdg-shell window using the [window] section of the configuration and\nserve the control socket until the window is closed.",
	RunE:  runWindow,
}

var layerCmd = &cobra.Command{
	Use:   "layer",
	Short: "Open a layer-shell surface from the configuration",
	Long:  "Open a wlr-layer-shell surface using the [layer] section of the configuration.",
	RunE:  runLayer,
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock the session",
	Long:  "Lock the session with ext-session-lock, covering every output with a lock surface.\nThe session is unlocked on SIGINT/SIGTERM, after --for, or on a logind Unlock signal.",
	RunE:  runLock,
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Open a window and watch its events",
	Long:  "Open a window from the configuration and render the live event stream in the terminal.",
	RunE:  runMonitor,
}

var ipcCmd = &cobra.Command{
	Use:   "ipc <method> [key=value...]",
	Short: "Send a request to a running instance",
	Long:  "Send a JSON request over the control socket of a running instance.\n\nExample: dtk ipc surfaces.resize id=4294967296 width=800 height=600",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIPC,
}
