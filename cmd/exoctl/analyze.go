package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/chrissnell/eukleides/pkg/dataset"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:     "analyze <file.csv>",
	Short:   "Classify every row of a CSV dataset",
	Example: `  exoctl analyze koi.csv --save koi_predictions.csv`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if err := dataset.CheckFilename(path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("error reading dataset: %w", err)
		}
		upload, err := dataset.ParseUpload(bytes.NewReader(data))
		if err != nil {
			return err
		}

		client, err := newClassifier()
		if err != nil {
			return err
		}
		result, err := client.AnalyzeCSV(cmd.Context(), filepath.Base(path), bytes.NewReader(data))
		if err != nil {
			return err
		}

		table, err := dataset.ParseResults(result.CSV)
		if err != nil {
			return fmt.Errorf("error reading classifier results: %w", err)
		}
		analysis := dataset.Analyze(table, result.Summary)

		if save, _ := cmd.Flags().GetString("save"); save != "" {
			f, err := os.Create(save)
			if err != nil {
				return fmt.Errorf("error creating %s: %w", save, err)
			}
			defer f.Close()
			if err := dataset.WriteCSV(f, table, nil); err != nil {
				return fmt.Errorf("error writing %s: %w", save, err)
			}
		}

		if wantJSON() {
			analysis.Table = nil
			return printJSON(analysis)
		}

		fmt.Printf("%s: %d rows sent, %d rows classified\n", path, len(upload.Rows), len(table.Rows))
		keys := make([]string, 0, len(analysis.Summary))
		for k := range analysis.Summary {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %-24s %g\n", k, analysis.Summary[k])
		}
		fmt.Printf("  Confidence: mean %.2f, std-dev %.2f, range %.2f-%.2f\n",
			analysis.Confidence.Mean, analysis.Confidence.StdDev, analysis.Confidence.Min, analysis.Confidence.Max)

		printInsight("Most promising candidate", analysis.KeyInsights.MostPromisingCandidate)
		printInsight("Most confident confirmation", analysis.KeyInsights.MostConfidentConfirmation)
		printInsight("Highest priority review", analysis.KeyInsights.HighestPriorityReview)
		return nil
	},
}

func printInsight(title string, row dataset.Row) {
	if row == nil {
		return
	}
	conf, _ := row.Number(dataset.ColumnConfidence)
	fmt.Printf("  %s: %s at %.1f%% (row %v)\n", title, row.String(dataset.ColumnPrediction), conf, firstCell(row))
}

// firstCell picks an identifying value for a row, preferring common ID columns.
func firstCell(row dataset.Row) any {
	for _, col := range []string{"kepoi_name", "kepid", "pl_name", "name", "id"} {
		if v, ok := row[col]; ok {
			return v
		}
	}
	return "?"
}

func init() {
	analyzeCmd.Flags().String("save", "", "Write the annotated CSV to this file")
}
