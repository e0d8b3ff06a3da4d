package cli

import (
	"encoding/csv"
	"fmt"
	"regexp"

	"github.com/rsprouse/audiolabel/label"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [label_file]",
	Short: "Find labels whose text matches a regular expression",
	Long: `Search one tier for labels whose text matches a regular expression,
optionally restricted to a time range. Matches are printed as
tab-separated t1, t2 and text.

Examples:
  audiolabel search utterance.TextGrid --tier word --pattern '^she$'
  audiolabel search utterance.TextGrid -t phone -p '[aeiou]1' --start 1.0 --end 2.5`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("tier", "t", "", "Tier name (or index with --by-index)")
	searchCmd.Flags().Bool("by-index", false, "Treat --tier as a tier index")
	searchCmd.Flags().StringP("pattern", "p", "", "Regular expression matched against label text")
	searchCmd.Flags().Float64("start", 0, "Start of the time range")
	searchCmd.Flags().Float64("end", -1, "End of the time range (default: no range)")
	searchCmd.Flags().StringP("format", "f", "", "Input format (default: from file extension)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	tierName, _ := cmd.Flags().GetString("tier")
	byIndex, _ := cmd.Flags().GetBool("by-index")
	pattern, _ := cmd.Flags().GetString("pattern")
	start, _ := cmd.Flags().GetFloat64("start")
	end, _ := cmd.Flags().GetFloat64("end")
	formatName, _ := cmd.Flags().GetString("format")

	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	id, err := tierID(tierName, byIndex)
	if err != nil {
		return err
	}

	s, err := readSet(cmd, args[0], formatName)
	if err != nil {
		return err
	}
	t, err := s.Tier(id)
	if err != nil {
		return err
	}

	var r *label.Range
	if end >= 0 {
		r = &label.Range{T1: start, T2: end}
	}
	matches := t.Search(re, r)
	logger.Debugw("Search complete",
		"tier", t.Name(),
		"pattern", pattern,
		"matches", len(matches),
	)

	w := csv.NewWriter(cmd.OutOrStdout())
	w.Comma = '\t'
	for _, l := range matches {
		t2, ok := l.T2()
		if err := w.Write([]string{
			formatTime(l.T1(), true),
			formatTime(t2, ok),
			l.Text,
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func tierID(value string, byIndex bool) (label.TierID, error) {
	if !byIndex {
		return label.ByName(value), nil
	}
	var i int
	if _, err := fmt.Sscanf(value, "%d", &i); err != nil {
		return label.TierID{}, fmt.Errorf("invalid tier index %q: %w", value, err)
	}
	return label.ByIndex(i), nil
}
