package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lenscheck/internal/provenance"
)

const (
	outputJSON   = "json"
	outputReport = "report"
	outputTable  = "table"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var output string
	var includeTags bool
	var includeGPS bool

	cmd := &cobra.Command{
		Use:   "analyze PATH|URL...",
		Short: "Analyze photos and report whether they look like camera captures",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(strings.TrimSpace(output))
			switch format {
			case outputJSON, outputReport, outputTable:
			default:
				return fmt.Errorf("unknown output format %q (want json, report, or table)", output)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			local := *cfg
			if includeTags {
				local.Report.IncludeTags = true
			}
			if includeGPS {
				local.Report.IncludeGPSCoordinates = true
			}

			analyzer := provenance.NewAnalyzer(&local, logger)
			reports, analyzeErr := analyzer.AnalyzeAll(cmd.Context(), args)

			stderr := cmd.ErrOrStderr()
			failed := 0
			for _, report := range reports {
				if report.Failed() {
					failed++
					fmt.Fprintf(stderr, "%s: %s\n", report.File, report.Error.Message)
				}
			}

			switch format {
			case outputReport:
				err = writeReport(cmd.OutOrStdout(), reports, shouldColorize(cmd.OutOrStdout()))
			case outputTable:
				_, err = fmt.Fprintln(cmd.OutOrStdout(), renderReportTable(reports))
			default:
				err = writeJSON(cmd, reports)
			}
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			if analyzeErr != nil {
				return fmt.Errorf("%d of %d inputs could not be analyzed", failed, len(reports))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format: json, report, or table")
	cmd.Flags().BoolVar(&includeTags, "tags", false, "Include the decoded EXIF tag mapping in each report")
	cmd.Flags().BoolVar(&includeGPS, "gps", false, "Include GPS coordinates instead of redacting them")
	return cmd
}
