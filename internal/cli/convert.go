package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rsprouse/audiolabel/label"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [label_file]",
	Short: "Convert a label file to another format",
	Long: `Read a label file and write it in another format.

The input format is taken from the file extension unless --from is given.
Writable formats: praat_long, praat_short, esps, wavesurfer, srt, vtt.
Use -o - to print to standard output.

Examples:
  audiolabel convert session.eaf
  audiolabel convert utterance.TextGrid --to praat_short -o short.TextGrid
  audiolabel convert s1703a.words --from esps --to wavesurfer -o -`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		String("from", "", "Input format (default: from file extension)")
	convertCmd.Flags().
		String("to", "", "Output format (default praat_long, or praat_short if praat.short is set)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	outputPath, _ := cmd.Flags().GetString("output")

	format := label.FormatPraatLong
	if cfg.Praat.Short {
		format = label.FormatPraatShort
	}
	if to != "" {
		f, err := label.ParseFormat(to)
		if err != nil {
			return err
		}
		format = f
	}
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath, format)
	}

	s, err := readSet(cmd, inputPath, from)
	if err != nil {
		return err
	}

	if outputPath == "-" {
		content, err := s.Format(format)
		if err != nil {
			return fmt.Errorf("failed to format %s: %w", format, err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}

	logger.Infow("Converting label file",
		"input", inputPath,
		"output", outputPath,
		"format", format,
		"tiers", s.Len(),
	)
	if err := s.WriteFile(outputPath, format); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	logger.Infow("Conversion complete", "output", outputPath)
	return nil
}

// defaultOutputPath swaps the input extension for the output format's.
// A Praat to Praat conversion gets a suffix so the input is not replaced.
func defaultOutputPath(inputPath string, format label.Format) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	out := base + format.Extension()
	if strings.EqualFold(out, inputPath) {
		out = base + "." + string(format) + format.Extension()
	}
	return out
}
