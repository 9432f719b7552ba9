package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/moto/internal/cli"
	"github.com/aretw0/moto/internal/presentation/graph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest>",
	Short: "Check that a manifest composes into a store",
	Long: `Resolves every transition and middleware name in the manifest against the
demo's registry and checks capability bounds. All problems are reported at once.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		demo, _ := cmd.Flags().GetString("demo")
		format, _ := cmd.Flags().GetString("format")

		report, err := cli.Validate(demo, args[0])
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		w := cmd.OutOrStdout()
		switch format {
		case "yaml":
			out, err := yaml.Marshal(report)
			if err != nil {
				return err
			}
			fmt.Fprint(w, string(out))
			fmt.Fprintln(w, "Manifest is valid! ✅")
		case "json":
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		case "mermaid":
			fmt.Fprint(w, graph.GenerateMermaid(report.Reducer, report.Middleware))
		default:
			return fmt.Errorf("unknown format %q (want yaml, json or mermaid)", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("format", "f", "yaml", "Output format: yaml, json or mermaid")
}
