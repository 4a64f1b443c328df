package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-assetfield/internal/logging"
	"github.com/goliatone/go-cms-assetfield/internal/notify"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

type testMessage struct {
	FieldID string
}

func (testMessage) Type() string { return "assetfield.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "assetfield.test.invalid" }

func (invalidMessage) Validate() error {
	return errors.New("invalid")
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(_ context.Context, _ interfaces.NotifyLevel, message string) {
	r.messages = append(r.messages, message)
}

type fieldsLogger struct {
	interfaces.Logger
	name   string
	fields map[string]any
}

func (l *fieldsLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := map[string]any{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &fieldsLogger{Logger: l.Logger, name: l.name, fields: merged}
}

type fieldsProvider struct{}

func (fieldsProvider) GetLogger(name string) interfaces.Logger {
	return &fieldsLogger{Logger: logging.NoOp(), name: name}
}

func TestFieldLoggerScopesToField(t *testing.T) {
	desc := interfaces.FieldDescriptor{ID: "gallery", Type: interfaces.CardinalityArray, Locale: "de-DE"}
	logger, ok := FieldLogger(fieldsProvider{}, "assets", desc).(*fieldsLogger)
	if !ok {
		t.Fatalf("expected provider logger")
	}
	if logger.name != "assetfield.commands.assets" {
		t.Fatalf("unexpected module %q", logger.name)
	}
	if logger.fields["field_id"] != "gallery" || logger.fields["locale"] != "de-DE" || logger.fields["cardinality"] != "Array" {
		t.Fatalf("unexpected fields %+v", logger.fields)
	}
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler(func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	notifier := &recordingNotifier{}
	h := NewHandler(func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	}, WithReporter[invalidMessage](notify.NewReporter(notifier, nil)))

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected validation failure to be reported once, got %v", notifier.messages)
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler(func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler(func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, execErr) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
}

func TestHandlerKeepsCategorisedErrors(t *testing.T) {
	validationErr := goerrors.Wrap(errors.New("full"), goerrors.CategoryValidation, "capacity")
	h := NewHandler(func(ctx context.Context, msg testMessage) error {
		return validationErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category to survive, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	var status TelemetryStatus
	h := NewHandler(func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	},
		WithTimeout[testMessage](10*time.Millisecond),
		WithTelemetry(func(_ context.Context, _ testMessage, info TelemetryInfo) {
			status = info.Status
		}),
	)

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
	if status != TelemetryStatusContextError {
		t.Fatalf("expected context error telemetry, got %q", status)
	}
}

func TestHandlerHasNoDeadlineByDefault(t *testing.T) {
	var bounded bool
	h := NewHandler(func(ctx context.Context, msg testMessage) error {
		_, bounded = ctx.Deadline()
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if bounded || h.Timeout() != 0 {
		t.Fatalf("expected no deadline, got timeout %s", h.Timeout())
	}
}

func TestHandlerTelemetryCarriesMessageFields(t *testing.T) {
	var info TelemetryInfo
	h := NewHandler(func(ctx context.Context, msg testMessage) error { return nil },
		WithOperation[testMessage]("assets.test"),
		WithMessageFields(func(msg testMessage) map[string]any {
			return map[string]any{"field_id": msg.FieldID}
		}),
		WithTelemetry(func(_ context.Context, _ testMessage, got TelemetryInfo) {
			info = got
		}),
	)

	if err := h.Execute(context.Background(), testMessage{FieldID: "gallery"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if info.Status != TelemetryStatusSuccess || info.Command != "assetfield.test.message" || info.Operation != "assets.test" {
		t.Fatalf("unexpected telemetry %+v", info)
	}
	if info.Fields["field_id"] != "gallery" {
		t.Fatalf("expected message fields in telemetry, got %+v", info.Fields)
	}
}
