package usersink_test

import (
	"context"
	"testing"
	"time"

	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	"github.com/goliatone/go-cms-assetfield/pkg/activity"
	"github.com/goliatone/go-cms-assetfield/pkg/activity/usersink"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return nil
}

func TestHookNotifyMapsUploadEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()

	err := hook.Notify(context.Background(), activity.Event{
		Verb:           activity.VerbUploaded,
		ActorID:        actorID.String(),
		UserID:         "not-a-uuid",
		ObjectType:     "asset",
		ObjectID:       "asset-42",
		Channel:        activity.DefaultChannel,
		DefinitionCode: "asset:uploaded",
		Metadata:       map[string]any{"file_name": "cat.png"},
		OccurredAt:     now,
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID {
		t.Fatalf("expected actor %s got %s", actorID, record.ActorID)
	}
	if record.UserID != uuid.Nil {
		t.Fatalf("expected invalid user id to map to nil, got %s", record.UserID)
	}
	if record.Verb != activity.VerbUploaded || record.ObjectType != "asset" || record.ObjectID != "asset-42" {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.OccurredAt != now {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["definition_code"] != "asset:uploaded" || record.Data["file_name"] != "cat.png" {
		t.Fatalf("unexpected record data %v", record.Data)
	}
}

func TestHookNotifySkipsMissingVerb(t *testing.T) {
	sink := &recordingSink{}
	_ = usersink.Hook{Sink: sink}.Notify(context.Background(), activity.Event{})
	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}
