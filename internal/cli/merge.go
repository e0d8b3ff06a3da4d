package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rsprouse/audiolabel/label"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [label_files...]",
	Short: "Combine same-named tiers across many label files",
	Long: `Read many label files in parallel and combine their tiers by name (or
by position with --by-index). The result is a tab-separated table with
one row per label and the file it came from.

--policy decides what happens when a file cannot be read: "fail-fast"
stops at the first failure, "collect" reports it and merges the rest.

Examples:
  audiolabel merge data/*.TextGrid -o words.tsv
  audiolabel merge data/*.words --format esps --policy collect --by-index`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().
		StringP("format", "f", "", "Input format (default: from each file's extension)")
	mergeCmd.Flags().
		String("policy", "", "Failure policy: fail-fast or collect (default from config)")
	mergeCmd.Flags().
		Bool("by-index", false, "Combine tiers by position instead of name")
	mergeCmd.Flags().
		Int("concurrency", 0, "Number of parallel readers (default from config, 0 = NumCPU)")
	mergeCmd.Flags().
		String("tier", "", "Only output the combined tier with this key")
}

var mergeHeader = []string{
	"tier", "file", "base", "ext", "index", "t1", "t2", "text",
}

func runMerge(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	policyName, _ := cmd.Flags().GetString("policy")
	byIndex, _ := cmd.Flags().GetBool("by-index")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	only, _ := cmd.Flags().GetString("tier")
	outputPath, _ := cmd.Flags().GetString("output")

	var format label.Format
	if formatName != "" {
		f, err := label.ParseFormat(formatName)
		if err != nil {
			return err
		}
		format = f
	}
	if policyName == "" {
		policyName = cfg.Aggregate.Policy
	}
	policy, err := label.ParsePolicy(policyName)
	if err != nil {
		return err
	}
	if concurrency == 0 {
		concurrency = cfg.Aggregate.Concurrency
	}
	key := label.KeyByName
	if byIndex {
		key = label.KeyByIndex
	}

	logger.Infow("Merging label files",
		"files", len(args),
		"format", format,
		"policy", policy,
		"concurrency", concurrency,
	)

	agg, err := label.Aggregate(cmd.Context(), args, format, label.AggregateOptions{
		Policy:      policy,
		Key:         key,
		Concurrency: concurrency,
		ReadOptions: readOptions(cmd),
	})
	if err != nil {
		return fmt.Errorf("failed to merge label files: %w", err)
	}
	for _, fe := range agg.Errors {
		logger.Warnw("Skipping unreadable file",
			"path", fe.Path,
			"index", fe.Index,
			"error", fe.Err,
		)
	}

	out := cmd.OutOrStdout()
	if outputPath != "" && outputPath != "-" {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		out = f
	}

	if err := writeAggregation(out, agg, only); err != nil {
		return err
	}
	logger.Infow("Merge complete",
		"tiers", len(agg.Tiers),
		"failed", len(agg.Errors),
	)
	return nil
}

func writeAggregation(out io.Writer, agg *label.Aggregation, only string) error {
	w := csv.NewWriter(out)
	w.Comma = '\t'
	if err := w.Write(mergeHeader); err != nil {
		return err
	}
	for _, ct := range agg.Tiers {
		if only != "" && ct.Key != only {
			continue
		}
		for _, row := range ct.Rows {
			t2, ok := row.Label.T2()
			if err := w.Write([]string{
				ct.Key,
				row.Source.Path,
				row.Source.Base,
				row.Source.Ext,
				strconv.Itoa(row.Source.Index),
				formatTime(row.Label.T1(), true),
				formatTime(t2, ok),
				row.Label.Text,
			}); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}
