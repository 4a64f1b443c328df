package fieldsync

import (
	"context"
	"fmt"

	"github.com/goliatone/go-cms-assetfield/internal/fields"
	"github.com/goliatone/go-cms-assetfield/pkg/activity"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

// WriteLinks merges ids into the host value. The local list is not touched;
// it follows once the host echoes the write through the change channel.
//
// ModeAdd links ids that are not linked yet and rejects the whole request
// with a capacity error, without writing, when they do not fit. Single-link
// fields take the first id and replace the current link. ModeReplace writes
// exactly ids.
func (s *Service) WriteLinks(ctx context.Context, ids []string, mode fields.WriteMode) error {
	ids = fields.UniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	if mode == fields.ModeReplace {
		return s.replace(ctx, ids)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	current, err := s.field.GetValue(ctx, s.locale)
	if err != nil {
		return fmt.Errorf("fieldsync: read value: %w", err)
	}
	existing := current.IDs()

	var value *interfaces.FieldValue
	var added []string
	if s.desc.Type == interfaces.CardinalityArray {
		added = fields.Missing(existing, ids)
		if len(added) == 0 {
			s.logger.Debug("fieldsync.write.already_linked", "ids", ids)
			return nil
		}
		if len(existing)+len(added) > s.maxAssets {
			return fields.ExceedsCapacity(len(added), s.maxAssets-len(existing), s.maxAssets)
		}
		value = fields.ArrayValue(append(existing, added...))
	} else {
		if s.maxAssets < 1 {
			return fields.ExceedsCapacity(1, 0, s.maxAssets)
		}
		if len(existing) == 1 && existing[0] == ids[0] {
			return nil
		}
		added = ids[:1]
		value = fields.SingleValue(ids[0])
	}

	if err := s.field.SetValue(ctx, value, s.locale); err != nil {
		return fmt.Errorf("fieldsync: write value: %w", err)
	}
	s.logger.Info("fieldsync.write.linked", "ids", added, "total", value.Len())
	for _, id := range added {
		s.emit(ctx, activity.VerbLinked, "asset", id, nil)
	}
	return nil
}

func (s *Service) replace(ctx context.Context, ids []string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.replaceLocked(ctx, ids)
}

func (s *Service) replaceLocked(ctx context.Context, ids []string) error {
	if len(ids) > s.maxAssets {
		return fields.ExceedsCapacity(len(ids), s.maxAssets, s.maxAssets)
	}
	value := fields.ValueFor(s.desc.Type, ids)
	if err := s.field.SetValue(ctx, value, s.locale); err != nil {
		return fmt.Errorf("fieldsync: write value: %w", err)
	}
	s.logger.Info("fieldsync.write.replaced", "total", value.Len())
	return nil
}

// Unlink removes id from an array field. Single-link fields have their value
// removed (absent, not null).
func (s *Service) Unlink(ctx context.Context, id string) error {
	if s.desc.Type != interfaces.CardinalityArray {
		if err := s.field.RemoveValue(ctx, s.locale); err != nil {
			return fmt.Errorf("fieldsync: remove value: %w", err)
		}
		s.logger.Info("fieldsync.unlink.removed", "id", id)
		s.emit(ctx, activity.VerbUnlinked, "asset", id, nil)
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	current, err := s.field.GetValue(ctx, s.locale)
	if err != nil {
		return fmt.Errorf("fieldsync: read value: %w", err)
	}
	existing := current.IDs()
	remaining := fields.Without(existing, id)
	if len(remaining) == len(existing) {
		s.logger.Debug("fieldsync.unlink.not_linked", "id", id)
		return nil
	}
	if err := s.field.SetValue(ctx, fields.ArrayValue(remaining), s.locale); err != nil {
		return fmt.Errorf("fieldsync: write value: %w", err)
	}
	s.logger.Info("fieldsync.unlink.removed", "id", id, "total", len(remaining))
	s.emit(ctx, activity.VerbUnlinked, "asset", id, nil)
	return nil
}

// UnlinkAll empties an array field and removes the value of a single-link field.
func (s *Service) UnlinkAll(ctx context.Context) error {
	var err error
	if s.desc.Type == interfaces.CardinalityArray {
		err = s.field.SetValue(ctx, fields.ArrayValue(nil), s.locale)
	} else {
		err = s.field.RemoveValue(ctx, s.locale)
	}
	if err != nil {
		return fmt.Errorf("fieldsync: clear value: %w", err)
	}
	s.logger.Info("fieldsync.unlink.cleared")
	s.emit(ctx, activity.VerbCleared, "field", s.desc.ID, nil)
	return nil
}
