package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rsprouse/audiolabel/internal/config"
	"github.com/rsprouse/audiolabel/internal/logging"
	"github.com/rsprouse/audiolabel/label"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "audiolabel",
	Short: "Read, query and convert time-aligned speech annotations",
	Long: `audiolabel works with phonetic annotation files: Praat TextGrids,
ELAN .eaf documents, ESPS and Wavesurfer label files, delimited tables
and SRT/WebVTT subtitles.

It can describe a file's tiers, convert between formats, search labels,
look up labels at a time and merge tiers across many files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default $AUDIOLABEL_CONFIG or ./audiolabel.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("encoding", "e", "", "Input text encoding (e.g., utf-8, utf-16le, iso-8859-1)")
}

// readOptions merges config values with command line flags.
func readOptions(cmd *cobra.Command) []label.ReadOption {
	var opts []label.ReadOption

	encoding, _ := cmd.Flags().GetString("encoding")
	if encoding == "" {
		encoding = cfg.Encoding
	}
	if encoding != "" {
		opts = append(opts, label.WithEncoding(encoding))
	}

	if cfg.ESPS.Separator != "" {
		opts = append(opts, label.WithSeparator(cfg.ESPS.Separator))
	}

	t := cfg.Table
	if t.Separator != "" {
		opts = append(opts, label.WithTableSeparator(t.Separator))
	}
	if len(t.Fields) > 0 {
		opts = append(opts, label.WithFields(t.Fields...))
	}
	if t.T1Column != "" {
		opts = append(opts, label.WithT1Column(t.T1Column))
	}
	if t.T2Column != "" {
		opts = append(opts, label.WithT2Column(t.T2Column))
	}
	if t.SkipLines > 0 {
		opts = append(opts, label.WithSkipLines(t.SkipLines))
	}
	return opts
}

// readSet reads path as formatName, or by extension when formatName is
// empty, and logs any read warnings.
func readSet(cmd *cobra.Command, path, formatName string) (*label.Set, error) {
	opts := readOptions(cmd)

	var (
		s   *label.Set
		err error
	)
	if formatName == "" {
		s, err = label.Open(path, opts...)
	} else {
		format, perr := label.ParseFormat(formatName)
		if perr != nil {
			return nil, perr
		}
		s, err = label.Read(path, format, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	logWarnings(path, s.Warnings)
	logger.Debugw("Read label file",
		"path", path,
		"tiers", s.Len(),
	)
	return s, nil
}

func logWarnings(path string, warnings []label.Warning) {
	for _, w := range warnings {
		logger.Warnw("Label file warning",
			"path", path,
			"stage", w.Stage,
			"message", w.Message,
		)
	}
}

// formatTime prints seconds rounded to microseconds; absent times print
// as an empty field.
func formatTime(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}
