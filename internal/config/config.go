package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	OutputDir   string  `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
	ChartWidth  float64 `mapstructure:"chart_width" yaml:"chart_width" validate:"gt=0,lte=100"`
	ChartHeight float64 `mapstructure:"chart_height" yaml:"chart_height" validate:"gt=0,lte=100"`

	// Report sizing
	HeadRows      int `mapstructure:"head_rows" yaml:"head_rows" validate:"gte=1"`
	DuplicateRows int `mapstructure:"duplicate_rows" yaml:"duplicate_rows" validate:"gte=1"`
	GridCols      int `mapstructure:"grid_cols" yaml:"grid_cols" validate:"gte=1,lte=12"`
	HistogramBins int `mapstructure:"histogram_bins" yaml:"histogram_bins" validate:"gte=1,lte=1000"`
	CurvePoints   int `mapstructure:"curve_points" yaml:"curve_points" validate:"gte=2,lte=100000"`
	MaxPairVars   int `mapstructure:"max_pair_vars" yaml:"max_pair_vars" validate:"gte=2,lte=32"`

	// Loading
	NAValues  []string `mapstructure:"na_values" yaml:"na_values"`
	Delimiter string   `mapstructure:"delimiter" yaml:"delimiter" validate:"omitempty,oneof=comma semicolon tab"`
	MaxRows   int      `mapstructure:"max_rows" yaml:"max_rows" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report config keys rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks value ranges and enumerations.
func (c *Global) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed '%s' (value %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// DelimiterRune maps the delimiter setting to a rune; 0 means sniff.
func (c *Global) DelimiterRune() rune {
	switch c.Delimiter {
	case "comma":
		return ','
	case "semicolon":
		return ';'
	case "tab":
		return '\t'
	default:
		return 0
	}
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".zipeda"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.zipeda/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("ZIPEDA")
	v.AutomaticEnv()

	v.SetDefault("output_dir", "")
	v.SetDefault("chart_width", 10.0)
	v.SetDefault("chart_height", 6.0)
	v.SetDefault("head_rows", 5)
	v.SetDefault("duplicate_rows", 10)
	v.SetDefault("grid_cols", 3)
	v.SetDefault("histogram_bins", 20)
	v.SetDefault("curve_points", 200)
	v.SetDefault("max_pair_vars", 16)
	v.SetDefault("na_values", []string{"", "NA", "NaN", "N/A", "null", "<nil>"})
	v.SetDefault("delimiter", "")
	v.SetDefault("max_rows", 0)

	dir, err := defaultDir()
	if err != nil {
		return nil, err
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve output_dir default: ~/.zipeda/charts
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(dir, "charts")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
