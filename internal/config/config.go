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
)

var validate = newValidator()

func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound)
}

// Config represents the application configuration
type Config struct {
	Input   InputConfig   `mapstructure:"input"`
	Layout  LayoutConfig  `mapstructure:"layout"`
	Columns ColumnsConfig `mapstructure:"columns"`
	Output  OutputConfig  `mapstructure:"output"`
	Server  ServerConfig  `mapstructure:"server"`
}

// InputConfig holds source spreadsheet settings
type InputConfig struct {
	Path     string   `mapstructure:"path"`     // Source .xlsx or .csv file
	Sheet    string   `mapstructure:"sheet"`    // Sheet name; empty means the first sheet
	Encoding []string `mapstructure:"encoding"` // Encoding hints for CSV input (e.g., ["utf-8", "windows-1252"])

	// RawValues reads unformatted xlsx values (serial dates, full-precision numbers)
	RawValues bool `mapstructure:"raw_values"`
}

// LayoutConfig holds the fixed-width household row layout
type LayoutConfig struct {
	PrefixLength    int `mapstructure:"prefix_length" validate:"gt=0"`                        // Leading household columns carried verbatim
	BlockSize       int `mapstructure:"block_size" validate:"gt=0"`                           // Width of one member block
	BlockCount      int `mapstructure:"block_count" validate:"gt=0"`                          // Maximum member blocks per row
	KeepBlockLength int `mapstructure:"keep_block_length" validate:"gt=0,ltefield=BlockSize"` // Leading block fields kept in the output

	// BlankRepeatedHousehold empties prefix/suffix on every member row after
	// the first. Off by default: household fields repeat on every row.
	BlankRepeatedHousehold bool `mapstructure:"blank_repeated_household"`
}

// SuffixStart returns the first column after the block region
func (l LayoutConfig) SuffixStart() int {
	return l.PrefixLength + l.BlockSize*l.BlockCount
}

// ColumnsConfig maps business fields to 0-based column positions
type ColumnsConfig struct {
	DeclaredCount int   `mapstructure:"declared_count" validate:"gte=0"` // "Number of household members"
	Area          int   `mapstructure:"area" validate:"gte=0"`           // Grama Niladhari area
	HouseholdID   int   `mapstructure:"household_id" validate:"gte=0"`
	Contact       []int `mapstructure:"contact" validate:"min=1,dive,gte=0"` // Tried in order; first non-empty wins

	// Offsets inside a member block
	MemberID int `mapstructure:"member_id" validate:"gte=0"`
	Name     int `mapstructure:"name" validate:"gte=0"`
	Age      int `mapstructure:"age" validate:"gte=0"`
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir          string   `mapstructure:"dir"`                              // Output directory
	FileName     string   `mapstructure:"file_name" validate:"required"`    // Reshaped workbook name (without extension)
	MissingName  string   `mapstructure:"missing_name" validate:"required"` // Missing-data workbook name (without extension)
	ReportName   string   `mapstructure:"report_name" validate:"required"`  // Base name for html/word/json reports
	Formats      []string `mapstructure:"formats"`                          // excel, html, word, json
	WordTemplate string   `mapstructure:"word_template"`                    // Optional .docx template; built-in one when empty
}

// ServerConfig holds HTTP mode settings
type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb" validate:"gt=0"`
}

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "config.yaml" in the current directory
// If the file doesn't exist, it uses the reference survey layout
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath == "" {
		configPath = "config.yaml"
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if !isMissingFile(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		fmt.Printf("No config at %s, using the built-in household layout (prefix %d, %d blocks of %d, keep %d)\n",
			configPath, v.GetInt("layout.prefix_length"), v.GetInt("layout.block_count"),
			v.GetInt("layout.block_size"), v.GetInt("layout.keep_block_length"))
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	if err := cfg.EnsureOutputDir(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the built-in configuration without touching the filesystem
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always decode cleanly
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.path", "")
	v.SetDefault("input.sheet", "")
	v.SetDefault("input.encoding", []string{"utf-8", "utf-16", "windows-1252"})
	v.SetDefault("input.raw_values", false)

	v.SetDefault("layout.prefix_length", 70)
	v.SetDefault("layout.block_size", 32)
	v.SetDefault("layout.block_count", 15)
	v.SetDefault("layout.keep_block_length", 11)
	v.SetDefault("layout.blank_repeated_household", false)

	v.SetDefault("columns.declared_count", 69)
	v.SetDefault("columns.area", 4)
	v.SetDefault("columns.household_id", 47)
	// 10.1, 10.2, 10.3 before the primary contact field 10
	v.SetDefault("columns.contact", []int{62, 64, 66, 61})
	v.SetDefault("columns.member_id", 0)
	v.SetDefault("columns.name", 1)
	v.SetDefault("columns.age", 2)

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "reformatted_data")
	v.SetDefault("output.missing_name", "missing_data")
	v.SetDefault("output.report_name", "household_report")
	v.SetDefault("output.formats", []string{"excel"})
	v.SetDefault("output.word_template", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 32)
}

func (c *Config) normalizePaths() error {
	if c.Input.Path != "" {
		absInput, err := filepath.Abs(c.Input.Path)
		if err != nil {
			return fmt.Errorf("failed to resolve input.path: %w", err)
		}
		c.Input.Path = absInput
	}

	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// GetReshapedPath returns the full path for the reshaped workbook
func (c *Config) GetReshapedPath() string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+".xlsx")
}

// GetMissingPath returns the full path for the missing-data workbook
func (c *Config) GetMissingPath() string {
	return filepath.Join(c.Output.Dir, c.Output.MissingName+".xlsx")
}

// ReportPath returns the path of a secondary report with the given extension
func (c *Config) ReportPath(ext string) string {
	return filepath.Join(c.Output.Dir, c.Output.ReportName+"."+strings.TrimPrefix(ext, "."))
}

// Validate checks the layout and column map for internal consistency
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationError(verrs[0])
		}
		return err
	}

	// Field offsets are relative to a block
	l := c.Layout
	offsets := []struct {
		key string
		off int
	}{
		{"columns.member_id", c.Columns.MemberID},
		{"columns.name", c.Columns.Name},
		{"columns.age", c.Columns.Age},
	}
	for _, o := range offsets {
		if o.off >= l.BlockSize {
			return fmt.Errorf("%s must be within 0..%d, got %d", o.key, l.BlockSize-1, o.off)
		}
	}

	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report config keys, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	return v
}

func formatValidationError(err validator.FieldError) error {
	key := err.Namespace()
	if i := strings.Index(key, "."); i >= 0 {
		key = key[i+1:]
	}

	switch err.Tag() {
	case "required":
		return fmt.Errorf("%s cannot be empty", key)
	case "gt":
		return fmt.Errorf("%s must be greater than %s, got %v", key, err.Param(), err.Value())
	case "gte":
		return fmt.Errorf("%s must be non-negative, got %v", key, err.Value())
	case "min":
		return fmt.Errorf("%s must list at least %s entry", key, err.Param())
	case "ltefield":
		return fmt.Errorf("%s must not exceed the block size, got %v", key, err.Value())
	default:
		return fmt.Errorf("%s failed %s validation", key, err.Tag())
	}
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== Household Reshaper Configuration ===")
	fmt.Printf("Input File:       %s\n", c.Input.Path)
	fmt.Printf("Input Sheet:      %s\n", orDefault(c.Input.Sheet, "(first sheet)"))
	fmt.Printf("Prefix Length:    %d\n", c.Layout.PrefixLength)
	fmt.Printf("Blocks:           %d x %d (keep %d)\n", c.Layout.BlockCount, c.Layout.BlockSize, c.Layout.KeepBlockLength)
	fmt.Printf("Suffix Start:     %d\n", c.Layout.SuffixStart())
	fmt.Printf("Count Column:     %d\n", c.Columns.DeclaredCount)
	fmt.Printf("Contact Columns:  %v\n", c.Columns.Contact)
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Printf("Reshaped File:    %s\n", c.GetReshapedPath())
	fmt.Printf("Missing File:     %s\n", c.GetMissingPath())
	fmt.Printf("Formats:          %v\n", c.Output.Formats)
	fmt.Println("========================================")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
