package main

import (
	"fmt"

	"github.com/aretw0/moto"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of moto",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "moto version %s\n", moto.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
