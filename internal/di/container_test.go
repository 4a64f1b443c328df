package di

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-assetfield/internal/adapters/memory"
	assetcmd "github.com/goliatone/go-cms-assetfield/internal/commands/assets"
	"github.com/goliatone/go-cms-assetfield/internal/logging/gologger"
	"github.com/goliatone/go-cms-assetfield/internal/runtimeconfig"
	"github.com/goliatone/go-cms-assetfield/pkg/activity"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

type recordingSink struct {
	records []interfaces.ActivityRecord
}

func (s *recordingSink) Log(_ context.Context, record interfaces.ActivityRecord) error {
	s.records = append(s.records, record)
	return nil
}

type countingRegistry struct {
	count int
}

func (r *countingRegistry) RegisterCommand(any) error {
	r.count++
	return nil
}

func memoryHost(host *memory.Host) Host {
	return Host{Field: host, Space: host, Dialogs: host, Notifier: host, Navigator: host, Text: host}
}

func newMemory() *memory.Host {
	return memory.NewHost(interfaces.FieldDescriptor{ID: "gallery", Type: interfaces.CardinalityArray, Locale: "en-US"})
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Intake.Workers = 0
	if _, err := NewContainer(cfg, memoryHost(newMemory())); !errors.Is(err, runtimeconfig.ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestNewContainerRequiresField(t *testing.T) {
	if _, err := NewContainer(runtimeconfig.DefaultConfig(), Host{}); err == nil {
		t.Fatal("expected error without host field")
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Level = "debug"

	container, err := NewContainer(cfg, memoryHost(newMemory()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	provider, ok := container.loggerProvider.(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.loggerProvider)
	}
	if provider.GetLogger("assetfield.test") == nil {
		t.Fatal("expected logger from go-logger provider")
	}
}

func TestLoggerDisabledLeavesProviderNil(t *testing.T) {
	container, err := NewContainer(runtimeconfig.DefaultConfig(), memoryHost(newMemory()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if container.LoggerProvider() != nil {
		t.Fatalf("expected nil provider, got %T", container.LoggerProvider())
	}
}

func TestSVGPickerRequiresTextField(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.SVGPicker = true
	cfg.SVG.Group = "icons"
	host := memoryHost(newMemory())
	host.Text = nil

	if _, err := NewContainer(cfg, host); !errors.Is(err, ErrTextFieldRequired) {
		t.Fatalf("expected ErrTextFieldRequired, got %v", err)
	}
}

func TestContainerWiresSVGAndRegistry(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.SVGPicker = true
	cfg.SVG.Group = "icons"
	reg := &countingRegistry{}

	container, err := NewContainer(cfg, memoryHost(newMemory()), WithCommandRegistry(reg))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(container.Close)
	if container.SVGService() == nil || container.Handlers().ConfirmSVG == nil {
		t.Fatal("expected svg picker wired")
	}
	if reg.count != 8 {
		t.Fatalf("expected 8 registered handlers, got %d", reg.count)
	}
}

func TestActivitySinkReceivesLinkEvents(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Activity = true
	cfg.Activity.ActorID = "7f1c2a4e-8f3b-4d8e-9a51-3f1e2b6c9d10"
	host := newMemory()
	asset := host.AddAsset(interfaces.Asset{Title: "hero"})
	sink := &recordingSink{}
	var hooked []string

	container, err := NewContainer(cfg, memoryHost(host),
		WithActivitySink(sink),
		WithActivityHooks(activity.HookFunc(func(_ context.Context, event activity.Event) error {
			hooked = append(hooked, event.Verb)
			return nil
		})),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(container.Close)

	ctx := context.Background()
	if err := container.SyncService().Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := container.Handlers().Link.Execute(ctx, assetcmd.LinkAssetsCommand{IDs: []string{asset.ID}}); err != nil {
		t.Fatalf("link: %v", err)
	}
	if len(sink.records) != 1 || sink.records[0].Verb != activity.VerbLinked || sink.records[0].ObjectID != asset.ID {
		t.Fatalf("unexpected sink records %+v", sink.records)
	}
	if sink.records[0].ActorID.String() != cfg.Activity.ActorID {
		t.Fatalf("expected actor stamped, got %s", sink.records[0].ActorID)
	}
	if len(hooked) != 1 {
		t.Fatalf("expected extra hook called once, got %v", hooked)
	}
}
