package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-assetfield/internal/logging"
	"github.com/goliatone/go-cms-assetfield/internal/notify"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// DefaultWriteTimeout bounds commands that only write the field value.
// Handlers run without a deadline unless WithTimeout sets one.
const DefaultWriteTimeout = 30 * time.Second

const (
	codeInvalid   = "FIELD_COMMAND_INVALID"
	codeCancelled = "FIELD_COMMAND_CANCELLED"
	codeTimedOut  = "FIELD_COMMAND_TIMED_OUT"
	codeFailed    = "FIELD_COMMAND_FAILED"
)

// FieldLogger returns the logger for the command handlers of one field.
func FieldLogger(provider interfaces.LoggerProvider, module string, desc interfaces.FieldDescriptor) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "assets"
	}
	logger := logging.ModuleLogger(provider, "assetfield.commands."+name)
	logger = logging.WithField(logger, desc.ID, desc.Locale)
	return logging.WithFields(logger, map[string]any{"cardinality": string(desc.Type)})
}

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler runs one field action: it validates the message, applies the
// optional deadline, logs the outcome and tags errors with a go-errors
// category unless the service already did.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	fields    func(T) map[string]any
	telemetry Telemetry[T]
	reporter  *notify.Reporter
}

// NewHandler creates a handler that satisfies go-command's Commander interface.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:   fn,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.telemetry == nil {
		h.telemetry = DefaultTelemetry[T](h.logger)
	}
	return h
}

// Execute conforms to command.Commander[T].Execute.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := command.ValidateMessage(msg); err != nil {
		tagged := tag(err, true, "invalid field command", codeInvalid)
		h.report(ctx, tagged)
		return tagged
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return contextError(err)
	}

	fields := map[string]any{
		"command": command.GetMessageType(msg),
	}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.fields != nil {
		for key, value := range h.fields(msg) {
			fields[key] = value
		}
	}
	logger := logging.WithFields(h.logger, fields)
	logger.Debug("command.execute.start")

	started := time.Now()
	err := h.exec(ctx, msg)
	status := TelemetryStatusSuccess
	switch {
	case err != nil && isContextError(err):
		status = TelemetryStatusContextError
		err = contextError(err)
	case err != nil:
		status = TelemetryStatusFailed
		err = tag(err, false, "field command failed", codeFailed)
	case ctx.Err() != nil:
		status = TelemetryStatusContextError
		err = contextError(ctx.Err())
	}

	h.telemetry(ctx, msg, TelemetryInfo{
		Command:   fields["command"].(string),
		Operation: h.operation,
		Fields:    fields,
		Duration:  time.Since(started),
		Error:     err,
		Status:    status,
		Logger:    logger,
	})
	return err
}

// WithTimeout sets a deadline for each execution. Zero or less disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

// WithLogger injects the logger used during execution. Defaults to a no-op logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = logging.Ensure(logger)
	}
}

// WithOperation sets the operation name emitted with every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields adds message-derived fields to every log entry.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

// WithTelemetry replaces the outcome callback. Defaults to DefaultTelemetry.
func WithTelemetry[T command.Message](telemetry Telemetry[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.telemetry = telemetry
	}
}

// WithReporter surfaces validation failures to the editor. Execution errors
// are reported by the wrapped services themselves.
func WithReporter[T command.Message](reporter *notify.Reporter) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.reporter = reporter
	}
}

// Timeout returns the deadline applied to each execution, zero for none.
func (h *Handler[T]) Timeout() time.Duration { return h.timeout }

func (h *Handler[T]) report(ctx context.Context, err error) {
	if h.reporter != nil {
		h.reporter.Error(ctx, err)
	}
}

// tag wraps err unless a service already categorised it.
func tag(err error, invalid bool, message, code string) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	category := goerrors.CategoryCommand
	if invalid {
		category = goerrors.CategoryValidation
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return tag(err, false, "field command timed out", codeTimedOut)
	}
	return tag(err, false, "field command cancelled", codeCancelled)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
