package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "assetfield.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = SyncLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != syncModule {
		t.Fatalf("expected module %s, got %v", syncModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != syncModule {
		t.Fatalf("expected module field %s, got %v", syncModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestIntakeAndSVGLoggersRequestTheirModules(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	_ = IntakeLogger(provider)
	_ = SVGLogger(provider)
	_ = ActivityLogger(provider)
	want := []string{intakeModule, svgModule, activityModule}
	for i, name := range want {
		if provider.requested[i] != name {
			t.Fatalf("expected %s at %d, got %v", name, i, provider.requested)
		}
	}
}

func TestWithTaskSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	WithTask(rec, "task-1", "  ")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if rec.fields[0][fieldTaskID] != "task-1" {
		t.Fatalf("expected task id field, got %v", rec.fields[0])
	}
	if _, ok := rec.fields[0][fieldFileName]; ok {
		t.Fatalf("expected blank file name to be skipped, got %v", rec.fields[0])
	}
}

func TestWithFieldNoFieldsLeavesLoggerUntouched(t *testing.T) {
	rec := &recordingLogger{}

	WithField(rec, "", "")

	if len(rec.fields) != 0 {
		t.Fatalf("expected no WithFields call, got %d", len(rec.fields))
	}
}
