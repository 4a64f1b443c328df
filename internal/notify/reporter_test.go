package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-assetfield/internal/fields"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

type recordingNotifier struct {
	levels   []interfaces.NotifyLevel
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, level interfaces.NotifyLevel, message string) {
	n.levels = append(n.levels, level)
	n.messages = append(n.messages, message)
}

func TestReporterErrorUsesUserMessage(t *testing.T) {
	notifier := &recordingNotifier{}
	reporter := NewReporter(notifier, nil)

	reporter.Error(context.Background(), fields.ExceedsCapacity(3, 2, 10))

	if len(notifier.messages) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.messages))
	}
	if notifier.levels[0] != interfaces.NotifyError {
		t.Fatalf("expected error level, got %s", notifier.levels[0])
	}
	if notifier.messages[0] != "You can only add up to 2 more asset(s)." {
		t.Fatalf("unexpected message %q", notifier.messages[0])
	}
}

func TestReporterIgnoresNilErrorsAndNilNotifier(t *testing.T) {
	notifier := &recordingNotifier{}
	NewReporter(notifier, nil).Error(context.Background(), nil)
	if len(notifier.messages) != 0 {
		t.Fatalf("expected nil error to be ignored")
	}

	NewReporter(nil, nil).Error(context.Background(), errors.New("boom"))
	var reporter *Reporter
	reporter.Success(context.Background(), "ok")
}

func TestReporterSuccess(t *testing.T) {
	notifier := &recordingNotifier{}
	NewReporter(notifier, nil).Success(context.Background(), "done")
	if len(notifier.levels) != 1 || notifier.levels[0] != interfaces.NotifySuccess {
		t.Fatalf("expected success notification, got %v", notifier.levels)
	}
}
