package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [label_file]",
	Short: "List the tiers of a label file",
	Long: `List every tier of a label file with its kind, time bounds and
label count, in document order.

Examples:
  audiolabel info utterance.TextGrid
  audiolabel info session.eaf
  audiolabel info s1703a.words --format esps`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().
		StringP("format", "f", "", "Input format (default: from file extension)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")

	s, err := readSet(cmd, args[0], formatName)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tNAME\tKIND\tSTART\tEND\tLABELS")
	for i, t := range s.Tiers() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n",
			i,
			t.Name(),
			t.Kind(),
			formatTime(t.Start(), true),
			formatTime(t.End(), true),
			t.Len(),
		)
	}
	return tw.Flush()
}
