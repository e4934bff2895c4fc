package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/camberhealth/clinsum/internal/prompt"
)

var (
	dir      string
	asJSON   bool
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "verifyprompts",
	Short: "Verify a prompt definition directory before deploy",
	Long: `verifyprompts parses every prompt definition in a directory and reports,
per file, whether it parsed, its computed content hash, and per task whether
at least one active version exists. Exits non-zero if anything fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := prompt.Verify(dir)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			printReport(cmd, report)
		}

		if !report.OK {
			exitCode = 1
		}
		return nil
	},
}

func printReport(cmd *cobra.Command, report *prompt.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "prompt directory: %s\n\n", report.Dir)
	for _, fr := range report.Files {
		if fr.OK {
			fmt.Fprintf(out, "  ok    %s  %s@%s (%s)  sha256:%.12s\n", fr.Path, fr.Task, fr.Version, fr.Status, fr.Hash)
		} else {
			fmt.Fprintf(out, "  FAIL  %s  %s\n", fr.Path, fr.Error)
		}
	}
	fmt.Fprintln(out)
	for _, tr := range report.Tasks {
		coverage := "no active version"
		if tr.HasActive {
			coverage = "active version present"
		}
		fmt.Fprintf(out, "  task %-30s %d version(s), %s\n", tr.Task, tr.Versions, coverage)
	}
	fmt.Fprintln(out)
	if report.OK {
		fmt.Fprintln(out, "verification passed")
	} else {
		fmt.Fprintln(out, "verification FAILED")
	}
}

func init() {
	rootCmd.Flags().StringVarP(&dir, "dir", "d", "prompts", "prompt definition directory")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "emit the report as JSON")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
