package main

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	analyzeInput     string
	analyzeOutputDir string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank collection sections against a persona and job",
	Long: `Analyze every document collection in the input directory.

A collection is a Collection_* directory holding challenge1b_input.json
(persona, job to be done and document list) and a PDFs/ directory. Each
collection's sections are ranked globally and the top sections are refined
into representative sentences. Results go to
<output-dir>/<collection>/challenge1b_output.json.

When embedding.enabled is set, similarity uses the configured embeddings
endpoint; otherwise keyword overlap is used.

Examples:
  docsift analyze
  docsift analyze --input /app/input --output-dir /app/output`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := servicesFor(cmd)
		if err != nil {
			return err
		}
		cfg := svc.Config.Get()

		inDir := svc.Home.ResolveInput(analyzeInput, cfg.InputDir)
		outDir := svc.Home.ResolveOutput(analyzeOutputDir, cfg.OutputDir)
		summary, err := newRunner(svc, cfg).Collections(cmd.Context(), inDir, outDir)
		if err != nil {
			return err
		}
		return printResult(summary)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "input root holding Collection_* directories (default: {home}/input)")
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "output-dir", "", "output root (default: {home}/output)")

	rootCmd.AddCommand(analyzeCmd)
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
