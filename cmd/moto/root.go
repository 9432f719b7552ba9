package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "moto",
	Short: "moto is a declarative state container",
	Long: `moto drives small demo applications built on the moto store.
Commands are read one per line, dispatched as actions, and the state is
printed after every change.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("demo", "todo", "Demo application: todo or thing")
	rootCmd.PersistentFlags().String("log-level", "", "Log to stderr at this level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
}
