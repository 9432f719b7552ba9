package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/moto/internal/cli"
	"github.com/aretw0/moto/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Dispatch a script of commands against a demo store",
	Long: `Reads commands from the script file, or stdin when none is given.

todo:  add <text> | toggle <id> | show all|active|completed
thing: inc | dec | nothing | append <text>`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		demo, _ := cmd.Flags().GetString("demo")
		logLevel, _ := cmd.Flags().GetString("log-level")
		logJSON, _ := cmd.Flags().GetBool("log-json")
		manifest, _ := cmd.Flags().GetString("manifest")
		middleware, _ := cmd.Flags().GetString("middleware")
		plain, _ := cmd.Flags().GetBool("plain")
		metrics, _ := cmd.Flags().GetBool("metrics")

		opts := cli.RunOptions{
			Demo:       demo,
			Manifest:   manifest,
			Middleware: middleware,
			LogLevel:   logLevel,
			LogJSON:    logJSON,
			Plain:      plain,
			Metrics:    metrics,
			Out:        cmd.OutOrStdout(),
			Err:        cmd.ErrOrStderr(),
		}

		if len(args) > 0 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open script: %w", err)
			}
			defer f.Close()
			opts.In = f
		} else {
			opts.In = cmd.InOrStdin()
		}

		printBanner(opts.Out, plain)
		return cli.Run(opts)
	},
}

// printBanner writes the banner only when w is a terminal.
func printBanner(w io.Writer, plain bool) {
	if plain {
		return
	}
	if f, ok := w.(*os.File); ok && tui.IsTerminal(f) {
		tui.PrintBanner(w)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("manifest", "m", "", "YAML or JSON manifest with the store bindings")
	runCmd.Flags().String("middleware", "", "Extra middleware names, e.g. \"logger, metrics\"")
	runCmd.Flags().Bool("plain", false, "Print markdown without terminal styling")
	runCmd.Flags().Bool("metrics", false, "Print Prometheus metrics when the script ends")
}
