package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

const (
	rootModule     = "assetfield"
	syncModule     = "assetfield.sync"
	intakeModule   = "assetfield.intake"
	svgModule      = "assetfield.svg"
	activityModule = "assetfield.activity"
)

const (
	fieldFieldID  = "field_id"
	fieldLocale   = "locale"
	fieldTaskID   = "task_id"
	fieldFileName = "file_name"
)

// ModuleLogger returns a logger scoped to module, or a no-op logger when no
// provider is configured. The module name is attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// SyncLogger returns the logger used by the field synchronizer.
func SyncLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, syncModule)
}

// IntakeLogger returns the logger used by the intake pipeline.
func IntakeLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, intakeModule)
}

// SVGLogger returns the logger used by the SVG picker.
func SVGLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, svgModule)
}

// ActivityLogger returns the logger used by activity emitters.
func ActivityLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, activityModule)
}

// WithField annotates logger with the field id and locale being edited.
// Empty values are skipped.
func WithField(logger interfaces.Logger, fieldID, locale string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(fieldID); trimmed != "" {
		fields[fieldFieldID] = trimmed
	}
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		fields[fieldLocale] = trimmed
	}
	return WithFields(logger, fields)
}

// WithTask annotates logger with an upload task id and its display file name.
func WithTask(logger interfaces.Logger, taskID, fileName string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(taskID); trimmed != "" {
		fields[fieldTaskID] = trimmed
	}
	if trimmed := strings.TrimSpace(fileName); trimmed != "" {
		fields[fieldFileName] = trimmed
	}
	return WithFields(logger, fields)
}

// WithFields attaches a copy of fields when logger supports structured
// fields, and returns logger as is otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	scoped, ok := logger.(interfaces.FieldsLogger)
	if !ok || len(fields) == 0 {
		return logger
	}
	return scoped.WithFields(maps.Clone(fields))
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

// Ensure returns logger, or NoOp when it is nil.
func Ensure(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
