package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"
)

func TestNewProviderBuildsModuleLoggers(t *testing.T) {
	p, err := NewProvider(Config{Level: "debug", Format: "console", Focus: []string{" assetfield.sync ", ""}})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := p.GetLogger("assetfield.sync")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}
	logger.WithContext(context.Background()).Debug("provider.ready")
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNilProviderReturnsNoOp(t *testing.T) {
	var p *Provider
	if logger := p.GetLogger("assetfield"); logger == nil {
		t.Fatal("expected no-op logger from nil provider")
	}
}

func TestAdapterForwardsLevelsAndClonesFields(t *testing.T) {
	stub := &stubLogger{}
	adapted := adapt(stub)

	adapted.Trace("trace")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")
	adapted.Fatal("fatal")

	fields := map[string]any{"task_id": "a"}
	withFields, ok := adapted.(*adapter)
	if !ok {
		t.Fatalf("expected *adapter, got %T", adapted)
	}
	withFields.WithFields(fields)
	fields["task_id"] = "b"

	if len(stub.fields) != 1 || stub.fields[0]["task_id"] != "a" {
		t.Fatalf("expected cloned fields, got %v", stub.fields)
	}
	want := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(stub.calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), stub.calls)
	}
	for i := range want {
		if stub.calls[i] != want[i] {
			t.Fatalf("call %d: expected %s got %s", i, want[i], stub.calls[i])
		}
	}
}

func TestAdapterWithContextNilKeepsLogger(t *testing.T) {
	stub := &stubLogger{}
	adapted := adapt(stub)
	//nolint:staticcheck
	if adapted.WithContext(nil) != adapted {
		t.Fatal("expected nil context to return the same logger")
	}
	if len(stub.contexts) != 0 {
		t.Fatalf("expected no context propagation, got %d", len(stub.contexts))
	}
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	s.fields = append(s.fields, fields)
	return s
}
