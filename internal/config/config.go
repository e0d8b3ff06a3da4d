package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding a config file path.
const EnvVar = "AUDIOLABEL_CONFIG"

// DefaultFile is looked up in the working directory.
const DefaultFile = "audiolabel.yaml"

type ESPS struct {
	// Separator overrides the file's separator directive when set.
	Separator string `yaml:"separator"`
}

type Table struct {
	Separator string   `yaml:"separator"`
	Fields    []string `yaml:"fields"`
	T1Column  string   `yaml:"t1_column"`
	T2Column  string   `yaml:"t2_column"`
	SkipLines int      `yaml:"skip_lines"`
}

type Aggregate struct {
	Policy      string `yaml:"policy"`
	Concurrency int    `yaml:"concurrency"`
}

type Praat struct {
	// Short writes the short text layout instead of the long one.
	Short bool `yaml:"short"`
}

type Config struct {
	Encoding  string    `yaml:"encoding"`
	ESPS      ESPS      `yaml:"esps"`
	Table     Table     `yaml:"table"`
	Aggregate Aggregate `yaml:"aggregate"`
	Praat     Praat     `yaml:"praat"`
}

func Default() *Config {
	return &Config{
		Table: Table{
			Separator: "\t",
			T1Column:  "t1",
			T2Column:  "t2",
		},
		Aggregate: Aggregate{Policy: "fail-fast"},
	}
}

// Load reads path, or the file named by AUDIOLABEL_CONFIG, or
// audiolabel.yaml in the working directory. Values missing from the file
// keep their defaults. With no file at all the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := true
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		path = DefaultFile
		explicit = false
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	// an empty file keeps the defaults
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Aggregate.Policy {
	case "fail-fast", "collect":
	default:
		return fmt.Errorf(
			"aggregate.policy must be \"fail-fast\" or \"collect\", got %q",
			c.Aggregate.Policy,
		)
	}
	if c.Aggregate.Concurrency < 0 {
		return fmt.Errorf(
			"aggregate.concurrency must be >= 0, got %d",
			c.Aggregate.Concurrency,
		)
	}
	if c.Table.SkipLines < 0 {
		return fmt.Errorf("table.skip_lines must be >= 0, got %d", c.Table.SkipLines)
	}
	if c.Table.Separator == "" {
		return errors.New("table.separator must not be empty")
	}
	return nil
}
