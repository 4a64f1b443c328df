package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

var ErrLoggingProviderRequired = errors.New("assetfield config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("assetfield config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("assetfield config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("assetfield config: logging format is invalid")

// ErrSVGGroupRequired ensures the SVG picker is only enabled with a tag group.
var ErrSVGGroupRequired = errors.New("assetfield config: svg group is required when the svg picker is enabled")

// ErrConfigInvalid wraps field-level validation failures.
var ErrConfigInvalid = errors.New("assetfield config: invalid configuration")

// Config aggregates the tunables of the asset field runtime.
type Config struct {
	DefaultLocale string         `yaml:"default_locale"`
	Field         FieldConfig    `yaml:"field"`
	Intake        IntakeConfig   `yaml:"intake"`
	Probe         ProbeConfig    `yaml:"probe"`
	SVG           SVGConfig      `yaml:"svg"`
	Activity      ActivityConfig `yaml:"activity"`
	Commands      CommandsConfig `yaml:"commands"`
	Features      Features       `yaml:"features"`
	Logging       LoggingConfig  `yaml:"logging"`
}

// FieldConfig captures defaults applied when the field descriptor is silent.
type FieldConfig struct {
	DefaultMaxAssets   int      `yaml:"default_max_assets"`
	PickerContentTypes []string `yaml:"picker_content_types"`
}

// IntakeConfig controls the asset creation pipeline.
type IntakeConfig struct {
	Workers        int           `yaml:"workers"`
	TaskRetention  time.Duration `yaml:"task_retention"`
	StepTimeout    time.Duration `yaml:"step_timeout"`
	InlineFileName string        `yaml:"inline_file_name"`
	RemoteFileName string        `yaml:"remote_file_name"`
}

// ProbeConfig controls remote content type detection.
type ProbeConfig struct {
	Timeout            time.Duration `yaml:"timeout"`
	DefaultContentType string        `yaml:"default_content_type"`
}

// SVGConfig mirrors the SVG picker instance parameters.
type SVGConfig struct {
	Group  string `yaml:"group"`
	Limit  int    `yaml:"limit"`
	Scheme string `yaml:"scheme"`
}

// ActivityConfig tags emitted audit events.
type ActivityConfig struct {
	ActorID  string `yaml:"actor_id"`
	TenantID string `yaml:"tenant_id"`
}

// CommandsConfig bounds field actions. WriteTimeout covers link, unlink,
// reorder, open and SVG confirm; intake and the picker have no deadline.
type CommandsConfig struct {
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Features toggles optional modules.
type Features struct {
	SVGPicker   bool `yaml:"svg_picker"`
	RemoteProbe bool `yaml:"remote_probe"`
	Activity    bool `yaml:"activity"`
	Logger      bool `yaml:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the behaviour of the stock image uploader.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en-US",
		Field: FieldConfig{
			DefaultMaxAssets:   10,
			PickerContentTypes: []string{"image/jpeg", "image/png", "image/gif"},
		},
		Intake: IntakeConfig{
			Workers:        1,
			TaskRetention:  3 * time.Second,
			InlineFileName: "Unnamed",
			RemoteFileName: "linked-image",
		},
		Probe: ProbeConfig{
			Timeout:            5 * time.Second,
			DefaultContentType: "image/jpeg",
		},
		SVG: SVGConfig{
			Limit:  100,
			Scheme: "https:",
		},
		Commands: CommandsConfig{
			WriteTimeout: 30 * time.Second,
		},
		Features: Features{
			RemoteProbe: true,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
	}
}

// LoadFile reads a YAML document over DefaultConfig and validates the result.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("assetfield config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("assetfield config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if err := validation.ValidateStruct(&cfg,
		validation.Field(&cfg.DefaultLocale, validation.Required),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if err := validation.ValidateStruct(&cfg.Field,
		validation.Field(&cfg.Field.DefaultMaxAssets, validation.Required, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("%w: field: %v", ErrConfigInvalid, err)
	}
	if err := validation.ValidateStruct(&cfg.Intake,
		validation.Field(&cfg.Intake.Workers, validation.Required, validation.Min(1)),
		validation.Field(&cfg.Intake.TaskRetention, validation.Min(time.Duration(0))),
		validation.Field(&cfg.Intake.StepTimeout, validation.Min(time.Duration(0))),
	); err != nil {
		return fmt.Errorf("%w: intake: %v", ErrConfigInvalid, err)
	}
	if err := validation.ValidateStruct(&cfg.Probe,
		validation.Field(&cfg.Probe.Timeout, validation.Min(time.Duration(0))),
	); err != nil {
		return fmt.Errorf("%w: probe: %v", ErrConfigInvalid, err)
	}
	if err := validation.ValidateStruct(&cfg.Commands,
		validation.Field(&cfg.Commands.WriteTimeout, validation.Min(time.Duration(0))),
	); err != nil {
		return fmt.Errorf("%w: commands: %v", ErrConfigInvalid, err)
	}
	if err := validation.ValidateStruct(&cfg.SVG,
		validation.Field(&cfg.SVG.Limit, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("%w: svg: %v", ErrConfigInvalid, err)
	}
	if cfg.Features.SVGPicker && strings.TrimSpace(cfg.SVG.Group) == "" {
		return ErrSVGGroupRequired
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
