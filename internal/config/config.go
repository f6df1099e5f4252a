// Package config loads the tablas configuration.
//
// Precedence, highest first: TABLAS_* environment variables (a .env file
// is loaded into the environment first), the YAML config file, defaults.
// Nested keys map to variables by upper-casing and replacing dots with
// underscores, so rules.matrix_sheet is TABLAS_RULES_MATRIX_SHEET.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TABLAS"

// Rule sources.
const (
	SourceXLSX   = "xlsx"
	SourceSheets = "sheets"
	SourceNone   = "none"
)

// Config is the full tool configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Rules   RulesConfig   `mapstructure:"rules"`
	Profile ProfileConfig `mapstructure:"profile"`
	Writer  WriterConfig  `mapstructure:"writer"`
	Store   StoreConfig   `mapstructure:"store"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// RulesConfig locates the rule spreadsheet.
type RulesConfig struct {
	Source          string `mapstructure:"source" validate:"oneof=xlsx sheets none"`
	Workbook        string `mapstructure:"workbook" validate:"required_if=Source xlsx"`
	SpreadsheetID   string `mapstructure:"spreadsheet_id" validate:"required_if=Source sheets"`
	CredentialsFile string `mapstructure:"credentials_file"`
	MatrixSheet     string `mapstructure:"matrix_sheet" validate:"required"`
	ModelsSheet     string `mapstructure:"models_sheet"`
	KeywordsSheet   string `mapstructure:"keywords_sheet"`
}

// ProfileConfig points at a CUE profile directory. An empty Dir selects
// the built-in profile.
type ProfileConfig struct {
	Dir string `mapstructure:"dir"`
}

// WriterConfig bounds a write pass.
type WriterConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0s"`
}

// StoreConfig locates the SQLite model database.
type StoreConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// Options controls where Load looks.
type Options struct {
	// Path is an explicit config file. It must exist when set. When empty,
	// tablas.yaml is searched in the working directory and ./config.
	Path string

	// EnvFiles are loaded with godotenv before reading the environment.
	// Missing files are ignored. Defaults to ".env".
	EnvFiles []string
}

// Load reads and validates the configuration.
func Load(opts Options) (*Config, error) {
	if err := loadEnvFiles(opts.EnvFiles); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if opts.Path != "" {
		v.SetConfigFile(opts.Path)
	} else {
		v.SetConfigName("tablas")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("rules.source", SourceNone)
	v.SetDefault("rules.workbook", "")
	v.SetDefault("rules.spreadsheet_id", "")
	v.SetDefault("rules.credentials_file", "")
	v.SetDefault("rules.matrix_sheet", "MATRIZ")
	v.SetDefault("rules.models_sheet", "MODELOS")
	v.SetDefault("rules.keywords_sheet", "PALABRAS")

	v.SetDefault("profile.dir", "")

	v.SetDefault("writer.timeout", "5m")

	v.SetDefault("store.path", "tablas.db")
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

var validate = newValidator()

// newValidator reports fields by their config key.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
	})
	return v
}

// ValidationError lists every invalid key.
type ValidationError struct {
	Fields map[string]string // key -> failed rule
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " (" + e.Fields[k] + ")"
	}
	return "invalid config: " + strings.Join(parts, ", ")
}

// Validate checks every field rule.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[configKey(fe.Namespace())] = fe.Tag()
	}
	return out
}

// configKey turns "Config.rules.matrix_sheet" into "rules.matrix_sheet".
func configKey(namespace string) string {
	if _, key, ok := strings.Cut(namespace, "."); ok {
		return key
	}
	return namespace
}
