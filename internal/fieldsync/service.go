package fieldsync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-cms-assetfield/internal/fields"
	"github.com/goliatone/go-cms-assetfield/internal/logging"
	"github.com/goliatone/go-cms-assetfield/internal/notify"
	"github.com/goliatone/go-cms-assetfield/pkg/activity"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

// ErrAssetMissing reports a lookup that returned no asset and no error.
var ErrAssetMissing = errors.New("fieldsync: asset not found")

// Option customises the synchronizer.
type Option func(*Service)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		s.logger = logging.Ensure(logger)
	}
}

// WithReporter sets the reporter used for failures on the change path.
func WithReporter(reporter *notify.Reporter) Option {
	return func(s *Service) {
		if reporter != nil {
			s.reporter = reporter
		}
	}
}

// WithActivity sets the emitter receiving link/unlink/reorder events.
func WithActivity(emitter *activity.Emitter) Option {
	return func(s *Service) {
		s.activity = emitter
	}
}

// WithDefaultMaxAssets sets the capacity used when the field has no size validation.
func WithDefaultMaxAssets(max int) Option {
	return func(s *Service) {
		if max > 0 {
			s.defaultMax = max
		}
	}
}

// Service keeps the local resolved asset list consistent with the host field value.
//
// Every change source (initial load, host change notifications, this
// service's own writes echoed back by the host) goes through resync. Only
// Reorder updates the local list ahead of the host.
type Service struct {
	field    interfaces.FieldAPI
	space    interfaces.AssetSpace
	reporter *notify.Reporter
	logger   interfaces.Logger
	activity *activity.Emitter

	desc       interfaces.FieldDescriptor
	locale     string
	defaultMax int
	maxAssets  int

	// writeMu serialises read-modify-write cycles issued by this process.
	writeMu sync.Mutex

	mu          sync.RWMutex
	assets      []*interfaces.Asset
	generation  uint64
	applied     uint64
	subscribers map[int]func([]*interfaces.Asset)
	nextSub     int

	runCtx context.Context
	cancel context.CancelFunc
	detach func()
}

// NewService builds a synchronizer for field, resolving assets through space.
func NewService(field interfaces.FieldAPI, space interfaces.AssetSpace, opts ...Option) (*Service, error) {
	if field == nil {
		return nil, fields.ErrFieldUnavailable
	}
	if space == nil {
		return nil, fields.ErrSpaceUnavailable
	}
	s := &Service{
		field:       field,
		space:       space,
		logger:      logging.NoOp(),
		defaultMax:  fields.DefaultMaxAssets,
		subscribers: map[int]func([]*interfaces.Asset){},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.reporter == nil {
		s.reporter = notify.NewReporter(nil, s.logger)
	}

	s.desc = field.Descriptor()
	if s.desc.Type == "" {
		s.desc.Type = interfaces.CardinalitySingle
	}
	s.locale = fields.ResolveLocale(s.desc)
	s.maxAssets = fields.MaxAssets(s.desc, s.defaultMax)
	s.logger = logging.WithField(s.logger, s.desc.ID, s.locale)
	s.logger.Debug("fieldsync.configured", "cardinality", s.desc.Type, "max_assets", s.maxAssets)
	return s, nil
}

// Start attaches the change handler and loads the initial value. Load errors
// have already been reported when returned.
func (s *Service) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if s.detach != nil {
		s.mu.Unlock()
		return nil
	}
	s.runCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	runCtx := s.runCtx
	s.detach = func() {}
	s.mu.Unlock()

	detach := s.field.OnValueChanged(func(value *interfaces.FieldValue) {
		_ = s.OnExternalChange(runCtx, value)
	})

	s.mu.Lock()
	s.detach = detach
	s.mu.Unlock()

	return s.LoadInitial(ctx)
}

// Close detaches the change handler and cancels change-path work.
func (s *Service) Close() {
	s.mu.Lock()
	detach, cancel := s.detach, s.cancel
	s.detach, s.cancel = nil, nil
	s.mu.Unlock()
	if detach != nil {
		detach()
	}
	if cancel != nil {
		cancel()
	}
}

// LoadInitial reads the current value and resolves it into the local list.
func (s *Service) LoadInitial(ctx context.Context) error {
	value, err := s.field.GetValue(ctx, s.locale)
	if err != nil {
		err = fmt.Errorf("fieldsync: read value: %w", err)
		if !cancelled(ctx, err) {
			s.reporter.Error(ctx, err)
		}
		return err
	}
	return s.resync(ctx, value)
}

// OnExternalChange rebuilds the local list from value. It is safe to call
// from any goroutine, including while intake work is in flight.
func (s *Service) OnExternalChange(ctx context.Context, value *interfaces.FieldValue) error {
	s.logger.Debug("fieldsync.external_change", "links", value.Len())
	return s.resync(ctx, value)
}

// resync is the single path from an authoritative value to the local list.
// A failed resolution clears the field rather than keeping dangling links.
// Lookups abandoned because ctx ended leave both the list and the field alone.
func (s *Service) resync(ctx context.Context, value *interfaces.FieldValue) error {
	gen := s.begin()
	if value.Len() == 0 {
		s.apply(gen, nil)
		return nil
	}

	assets, err := s.resolve(ctx, value.IDs())
	if err != nil && cancelled(ctx, err) {
		s.logger.Debug("fieldsync.resolve.abandoned", "generation", gen, "error", err)
		return err
	}
	if err != nil {
		s.logger.Error("fieldsync.resolve.failed", "error", err)
		s.reporter.Error(ctx, err)
		if !s.apply(gen, nil) {
			return err
		}
		if clearErr := s.UnlinkAll(ctx); clearErr != nil {
			s.logger.Error("fieldsync.clear.failed", "error", clearErr)
			return errors.Join(err, clearErr)
		}
		return err
	}

	if s.apply(gen, assets) {
		s.logger.Debug("fieldsync.resynced", "assets", len(assets))
	}
	return nil
}

// resolve looks up every id in parallel, preserving order. The first failure
// cancels outstanding lookups.
func (s *Service) resolve(ctx context.Context, ids []string) ([]*interfaces.Asset, error) {
	ids = fields.UniqueIDs(ids)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	assets := make([]*interfaces.Asset, len(ids))
	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			asset, err := s.space.GetAsset(ctx, id)
			if err == nil && asset == nil {
				err = ErrAssetMissing
			}
			if err != nil {
				errs[i] = fields.FailResolution(id, err)
				cancel()
				return
			}
			assets[i] = asset
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			return nil, err
		}
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return dedupe(assets), nil
}

// cancelled reports whether err comes from ctx ending rather than from a lookup.
func cancelled(ctx context.Context, err error) bool {
	if ctx.Err() == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func dedupe(assets []*interfaces.Asset) []*interfaces.Asset {
	seen := make(map[string]struct{}, len(assets))
	out := make([]*interfaces.Asset, 0, len(assets))
	for _, asset := range assets {
		if _, ok := seen[asset.ID]; ok {
			continue
		}
		seen[asset.ID] = struct{}{}
		out = append(out, asset)
	}
	return out
}

// begin stamps a new generation for an update about to start.
func (s *Service) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// apply installs assets for gen unless a newer generation has been applied.
func (s *Service) apply(gen uint64, assets []*interfaces.Asset) bool {
	s.mu.Lock()
	if gen < s.applied {
		s.mu.Unlock()
		s.logger.Debug("fieldsync.stale_update_dropped", "generation", gen)
		return false
	}
	s.applied = gen
	s.assets = assets
	snapshot, listeners := s.snapshotLocked()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
	return true
}

func (s *Service) snapshotLocked() ([]*interfaces.Asset, []func([]*interfaces.Asset)) {
	snapshot := make([]*interfaces.Asset, len(s.assets))
	copy(snapshot, s.assets)
	listeners := make([]func([]*interfaces.Asset), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	return snapshot, listeners
}

// Subscribe registers fn to receive every new local list. The returned
// function unregisters it.
func (s *Service) Subscribe(fn func([]*interfaces.Asset)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Assets returns a copy of the local resolved asset list.
func (s *Service) Assets() []*interfaces.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*interfaces.Asset, len(s.assets))
	copy(out, s.assets)
	return out
}

// Published reports whether every local asset is published.
func (s *Service) Published() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, asset := range s.assets {
		if !asset.Published() {
			return false
		}
	}
	return true
}

// MaxAssets returns the field capacity.
func (s *Service) MaxAssets() int { return s.maxAssets }

// Locale returns the locale values are read and written under.
func (s *Service) Locale() string { return s.locale }

// Cardinality returns the field cardinality.
func (s *Service) Cardinality() interfaces.Cardinality { return s.desc.Type }

// Descriptor returns the field descriptor captured at construction.
func (s *Service) Descriptor() interfaces.FieldDescriptor { return s.desc }

// RemainingSlots returns the capacity left according to the local list.
func (s *Service) RemainingSlots() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	remaining := s.maxAssets - len(s.assets)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AvailableSlots returns the capacity left according to the host value.
func (s *Service) AvailableSlots(ctx context.Context) (int, error) {
	current, err := s.field.GetValue(ctx, s.locale)
	if err != nil {
		return 0, fmt.Errorf("fieldsync: read value: %w", err)
	}
	return fields.AvailableSlots(s.desc.Type, current, s.maxAssets), nil
}

func (s *Service) emit(ctx context.Context, verb, objectType, objectID string, meta map[string]any) {
	if !s.activity.Enabled() {
		return
	}
	if meta == nil {
		meta = map[string]any{}
	}
	meta["field_id"] = s.desc.ID
	meta["locale"] = s.locale
	if err := s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ObjectType: objectType,
		ObjectID:   objectID,
		Metadata:   meta,
	}); err != nil {
		s.logger.Warn("fieldsync.activity.failed", "verb", verb, "error", err)
	}
}
