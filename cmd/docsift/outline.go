package main

import (
	"github.com/spf13/cobra"
)

var (
	outlineInput     string
	outlineOutputDir string
)

var outlineCmd = &cobra.Command{
	Use:   "outline [file...]",
	Short: "Extract titles and heading outlines from documents",
	Long: `Extract the title and H1-H3 outline of documents.

With file arguments, outlines are printed to stdout in the --output format.
Without arguments, every PDF and line-record file (*.lines.json) in the
input directory is processed and <name>.json is written to the output
directory.

Examples:
  docsift outline report.pdf                 # Print one outline
  docsift outline -o json report.pdf         # ...as JSON
  docsift outline --input ./pdfs --output-dir ./out`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := servicesFor(cmd)
		if err != nil {
			return err
		}
		cfg := svc.Config.Get()
		r := newRunner(svc, cfg)

		if len(args) > 0 {
			for _, path := range args {
				o, err := r.ExtractOutline(ctx, path)
				if err != nil {
					return err
				}
				if err := printResult(o); err != nil {
					return err
				}
			}
			return nil
		}

		inDir := svc.Home.ResolveInput(outlineInput, cfg.InputDir)
		outDir := svc.Home.ResolveOutput(outlineOutputDir, cfg.OutputDir)
		summary, err := r.Outlines(ctx, inDir, outDir)
		if err != nil {
			return err
		}
		return printResult(summary)
	},
}

func init() {
	outlineCmd.Flags().StringVar(&outlineInput, "input", "", "input directory (default: {home}/input)")
	outlineCmd.Flags().StringVar(&outlineOutputDir, "output-dir", "", "output directory (default: {home}/output)")

	rootCmd.AddCommand(outlineCmd)
}
