package fieldsync

import (
	"context"
	"fmt"
	"slices"

	"github.com/goliatone/go-cms-assetfield/internal/fields"
	"github.com/goliatone/go-cms-assetfield/pkg/activity"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

// Drag is the outcome of a drag gesture over the local list. A nil
// Destination means the drag ended outside a valid target.
type Drag struct {
	Source      int
	Destination *int
}

// Reorder moves the asset at drag.Source to drag.Destination. The new order is
// published locally before the host write; a failed write is returned without
// rolling the local order back. The write keeps the host's current link set:
// links removed meanwhile stay removed and links added meanwhile are appended.
func (s *Service) Reorder(ctx context.Context, drag Drag) error {
	if drag.Destination == nil || *drag.Destination == drag.Source {
		return nil
	}
	from, to := drag.Source, *drag.Destination

	s.mu.Lock()
	if from < 0 || from >= len(s.assets) || to < 0 || to >= len(s.assets) {
		s.mu.Unlock()
		return nil
	}
	s.generation++
	s.applied = s.generation
	s.assets = fields.Move(s.assets, from, to)
	snapshot, listeners := s.snapshotLocked()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}

	ids := assetIDs(snapshot)
	s.logger.Debug("fieldsync.reorder.local", "from", from, "to", to, "ids", ids)
	if err := s.writeOrder(ctx, ids); err != nil {
		s.logger.Error("fieldsync.reorder.write_failed", "error", err)
		return err
	}
	s.emit(ctx, activity.VerbReordered, "field", s.desc.ID, map[string]any{
		"from": from,
		"to":   to,
	})
	return nil
}

// writeOrder stores ordered against the current host value under writeMu.
func (s *Service) writeOrder(ctx context.Context, ordered []string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	current, err := s.field.GetValue(ctx, s.locale)
	if err != nil {
		return fmt.Errorf("fieldsync: read value: %w", err)
	}
	linked := current.IDs()
	merged := fields.Intersect(ordered, linked)
	merged = append(merged, fields.Missing(merged, linked)...)
	if len(merged) == 0 {
		return nil
	}
	if !slices.Equal(merged, ordered) {
		s.logger.Debug("fieldsync.reorder.merged", "local", ordered, "stored", merged)
	}
	return s.replaceLocked(ctx, merged)
}

func assetIDs(assets []*interfaces.Asset) []string {
	ids := make([]string, 0, len(assets))
	for _, asset := range assets {
		ids = append(ids, asset.ID)
	}
	return ids
}
