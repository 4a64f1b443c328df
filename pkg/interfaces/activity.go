package interfaces

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
)

// ActivityRecord is the go-users activity record written for field edits and uploads.
type ActivityRecord = usertypes.ActivityRecord

// ActivitySink persists activity records; go-users sinks satisfy it.
type ActivitySink interface {
	Log(ctx context.Context, record ActivityRecord) error
}
