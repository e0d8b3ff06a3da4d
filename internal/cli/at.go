package cli

import (
	"encoding/csv"

	"github.com/rsprouse/audiolabel/label"
	"github.com/spf13/cobra"
)

var atCmd = &cobra.Command{
	Use:   "at [label_file]",
	Short: "Show the label of every tier at a time",
	Long: `Print, for each tier, the label found at the given time: the last
interval starting at or before it, or the nearest point.

Examples:
  audiolabel at utterance.TextGrid --time 1.25`,
	Args: cobra.ExactArgs(1),
	RunE: runAt,
}

func init() {
	rootCmd.AddCommand(atCmd)

	atCmd.Flags().Float64P("time", "t", 0, "Time in seconds")
	atCmd.Flags().StringP("format", "f", "", "Input format (default: from file extension)")
}

func runAt(cmd *cobra.Command, args []string) error {
	tm, _ := cmd.Flags().GetFloat64("time")
	formatName, _ := cmd.Flags().GetString("format")

	s, err := readSet(cmd, args[0], formatName)
	if err != nil {
		return err
	}
	snap, err := s.LabelsAt(tm, label.Closest)
	if err != nil {
		return err
	}

	w := csv.NewWriter(cmd.OutOrStdout())
	w.Comma = '\t'
	for i, t := range s.Tiers() {
		row := []string{t.Name(), "", "", ""}
		if l := snap.Labels[i]; l != nil {
			t2, ok := l.T2()
			row[1] = formatTime(l.T1(), true)
			row[2] = formatTime(t2, ok)
			row[3] = l.Text
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
