package assetfield

import "github.com/goliatone/go-cms-assetfield/internal/runtimeconfig"

var (
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrSVGGroupRequired        = runtimeconfig.ErrSVGGroupRequired
	ErrConfigInvalid           = runtimeconfig.ErrConfigInvalid
)

type (
	Config         = runtimeconfig.Config
	FieldConfig    = runtimeconfig.FieldConfig
	IntakeConfig   = runtimeconfig.IntakeConfig
	ProbeConfig    = runtimeconfig.ProbeConfig
	SVGConfig      = runtimeconfig.SVGConfig
	ActivityConfig = runtimeconfig.ActivityConfig
	CommandsConfig = runtimeconfig.CommandsConfig
	Features       = runtimeconfig.Features
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
