package notify

import (
	"context"

	"github.com/goliatone/go-cms-assetfield/internal/fields"
	"github.com/goliatone/go-cms-assetfield/internal/logging"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

// Reporter surfaces failures to the editor user as transient notifications
// and records them in the log. It never returns errors.
type Reporter struct {
	notifier interfaces.Notifier
	logger   interfaces.Logger
}

// NewReporter builds a reporter. Either dependency may be nil.
func NewReporter(notifier interfaces.Notifier, logger interfaces.Logger) *Reporter {
	return &Reporter{notifier: notifier, logger: logging.Ensure(logger)}
}

// Error logs err and notifies the user with its user-facing message.
func (r *Reporter) Error(ctx context.Context, err error) {
	if r == nil || err == nil {
		return
	}
	message := fields.UserMessage(err)
	r.logger.Error("notify.error", "error", err, "message", message)
	r.send(ctx, interfaces.NotifyError, message)
}

// Success notifies the user of a completed action.
func (r *Reporter) Success(ctx context.Context, message string) {
	if r == nil || message == "" {
		return
	}
	r.logger.Info("notify.success", "message", message)
	r.send(ctx, interfaces.NotifySuccess, message)
}

func (r *Reporter) send(ctx context.Context, level interfaces.NotifyLevel, message string) {
	if r.notifier == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	r.notifier.Notify(ctx, level, message)
}
