// Package memory provides an in-process host: field storage with change
// notifications, an asset space with upload/process/publish lifecycle,
// dialogs, a notifier and a navigator. It backs tests and the example command.
package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-assetfield/internal/fields"
	"github.com/goliatone/go-cms-assetfield/internal/identity"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

var (
	// ErrAssetNotFound reports an unknown asset id.
	ErrAssetNotFound = errors.New("memory: asset not found")
	// ErrUploadNotFound reports an asset draft pointing at an unknown upload.
	ErrUploadNotFound = errors.New("memory: upload not found")
	// ErrNotProcessed reports waiting on an asset that was never processed.
	ErrNotProcessed = errors.New("memory: asset not processed")
)

// Faults injects failures into host calls. A nil hook never fails.
type Faults struct {
	GetAsset func(id string) error
	Upload   func(data []byte) error
	Create   func(draft interfaces.AssetDraft) error
	Process  func(asset *interfaces.Asset) error
	Await    func(id string) error
	Publish  func(asset *interfaces.Asset) error
	SetValue func(value *interfaces.FieldValue) error
	SetText  func(value string) error
}

// Notification is a recorded user notification.
type Notification struct {
	Level   interfaces.NotifyLevel
	Message string
}

// Option customises a Host.
type Option func(*Host)

// WithNamespace scopes generated ids.
func WithNamespace(namespace string) Option {
	return func(h *Host) {
		if trimmed := strings.TrimSpace(namespace); trimmed != "" {
			h.namespace = trimmed
		}
	}
}

// WithFaults installs failure hooks.
func WithFaults(faults Faults) Option {
	return func(h *Host) {
		h.faults = faults
	}
}

// WithPicker sets the function answering SelectMultipleAssets.
func WithPicker(picker func(opts interfaces.AssetPickerOptions) ([]*interfaces.Asset, error)) Option {
	return func(h *Host) {
		h.picker = picker
	}
}

// Host is an in-memory implementation of every host contract.
type Host struct {
	mu        sync.Mutex
	namespace string
	desc      interfaces.FieldDescriptor
	values    map[string][]byte
	listeners map[int]func(*interfaces.FieldValue)
	nextID    int

	assets    map[string]*interfaces.Asset
	order     []string
	processed map[string]bool
	uploads   map[string][]byte
	seq       int

	faults        Faults
	picker        func(opts interfaces.AssetPickerOptions) ([]*interfaces.Asset, error)
	notifications []Notification
	opened        []string
	writes        int
	text          string
	textSet       bool
}

var (
	_ interfaces.FieldAPI     = (*Host)(nil)
	_ interfaces.AssetSpace   = (*Host)(nil)
	_ interfaces.AssetDialogs = (*Host)(nil)
	_ interfaces.Notifier     = (*Host)(nil)
	_ interfaces.Navigator    = (*Host)(nil)
	_ interfaces.TextFieldAPI = (*Host)(nil)
)

// NewHost builds a host for a field described by desc.
func NewHost(desc interfaces.FieldDescriptor, opts ...Option) *Host {
	if desc.Type == "" {
		desc.Type = interfaces.CardinalitySingle
	}
	h := &Host{
		namespace: "memory",
		desc:      desc,
		values:    map[string][]byte{},
		listeners: map[int]func(*interfaces.FieldValue){},
		assets:    map[string]*interfaces.Asset{},
		processed: map[string]bool{},
		uploads:   map[string][]byte{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// SetFaults replaces the failure hooks.
func (h *Host) SetFaults(faults Faults) {
	h.mu.Lock()
	h.faults = faults
	h.mu.Unlock()
}

// Descriptor implements interfaces.FieldAPI.
func (h *Host) Descriptor() interfaces.FieldDescriptor {
	return h.desc
}

// GetValue implements interfaces.FieldAPI.
func (h *Host) GetValue(ctx context.Context, locale string) (*interfaces.FieldValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	raw, ok := h.values[locale]
	h.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return fields.Decode(raw, h.desc.Type)
}

// SetValue implements interfaces.FieldAPI. Every committed write is echoed to
// change listeners after the lock is released.
func (h *Host) SetValue(ctx context.Context, value *interfaces.FieldValue, locale string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	hook := h.faults.SetValue
	h.mu.Unlock()
	if hook != nil {
		if err := hook(value); err != nil {
			return err
		}
	}
	if value == nil {
		return h.RemoveValue(ctx, locale)
	}
	if value.Cardinality == "" {
		value = &interfaces.FieldValue{Cardinality: h.desc.Type, Links: value.Links}
	}
	raw, err := fields.Encode(value)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.values[locale] = raw
	h.writes++
	h.mu.Unlock()
	h.broadcast(locale)
	return nil
}

// RemoveValue implements interfaces.FieldAPI.
func (h *Host) RemoveValue(ctx context.Context, locale string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.values, locale)
	h.writes++
	h.mu.Unlock()
	h.broadcast(locale)
	return nil
}

// OnValueChanged implements interfaces.FieldAPI.
func (h *Host) OnValueChanged(fn func(*interfaces.FieldValue)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

func (h *Host) broadcast(locale string) {
	h.mu.Lock()
	raw, ok := h.values[locale]
	listeners := make([]func(*interfaces.FieldValue), 0, len(h.listeners))
	for _, fn := range h.listeners {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	var value *interfaces.FieldValue
	if ok {
		decoded, err := fields.Decode(raw, h.desc.Type)
		if err != nil {
			return
		}
		value = decoded
	}
	for _, fn := range listeners {
		fn(value)
	}
}

// Writes counts committed SetValue/RemoveValue calls.
func (h *Host) Writes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.writes
}

// Raw returns the stored JSON payload for locale and whether one is present.
func (h *Host) Raw(locale string) ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	raw, ok := h.values[locale]
	return slices.Clone(raw), ok
}

// AddAsset stores a copy of asset, generating an id when it has none.
func (h *Host) AddAsset(asset interfaces.Asset) *interfaces.Asset {
	h.mu.Lock()
	defer h.mu.Unlock()
	if asset.ID == "" {
		h.seq++
		asset.ID = identity.AssetID(h.namespace, h.seq)
	}
	if asset.Version == 0 {
		asset.Version = 1
	}
	stored := cloneAsset(&asset)
	if _, exists := h.assets[stored.ID]; !exists {
		h.order = append(h.order, stored.ID)
	}
	h.assets[stored.ID] = stored
	h.processed[stored.ID] = true
	return cloneAsset(stored)
}

// GetAsset implements interfaces.AssetSpace.
func (h *Host) GetAsset(ctx context.Context, id string) (*interfaces.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	hook := h.faults.GetAsset
	asset, ok := h.assets[id]
	h.mu.Unlock()
	if hook != nil {
		if err := hook(id); err != nil {
			return nil, err
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, id)
	}
	return cloneAsset(asset), nil
}

// GetAssets implements interfaces.AssetSpace. Assets match when they carry
// any requested tag and the requested content type.
func (h *Host) GetAssets(ctx context.Context, query interfaces.AssetQuery) (*interfaces.AssetCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	var matched []*interfaces.Asset
	for _, id := range h.order {
		asset := h.assets[id]
		if len(query.TagIDs) > 0 && !hasAnyTag(asset.Tags, query.TagIDs) {
			continue
		}
		if query.ContentType != "" && (asset.File == nil || asset.File.ContentType != query.ContentType) {
			continue
		}
		matched = append(matched, asset)
	}
	total := len(matched)
	if query.Skip > 0 {
		if query.Skip >= len(matched) {
			matched = nil
		} else {
			matched = matched[query.Skip:]
		}
	}
	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	items := make([]*interfaces.Asset, 0, len(matched))
	for _, asset := range matched {
		items = append(items, cloneAsset(asset))
	}
	return &interfaces.AssetCollection{Items: items, Total: total}, nil
}

// CreateUpload implements interfaces.AssetSpace.
func (h *Host) CreateUpload(ctx context.Context, data []byte) (*interfaces.Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	hook := h.faults.Upload
	h.mu.Unlock()
	if hook != nil {
		if err := hook(data); err != nil {
			return nil, err
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	id := identity.UploadID(h.namespace, h.seq)
	h.uploads[id] = slices.Clone(data)
	return &interfaces.Upload{ID: id}, nil
}

// CreateAsset implements interfaces.AssetSpace.
func (h *Host) CreateAsset(ctx context.Context, draft interfaces.AssetDraft) (*interfaces.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	hook := h.faults.Create
	h.mu.Unlock()
	if hook != nil {
		if err := hook(draft); err != nil {
			return nil, err
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if draft.File.UploadID != "" {
		if _, ok := h.uploads[draft.File.UploadID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUploadNotFound, draft.File.UploadID)
		}
	}
	h.seq++
	asset := &interfaces.Asset{
		ID:          identity.AssetID(h.namespace, h.seq),
		Version:     1,
		Title:       draft.Title,
		Description: draft.Description,
		File: &interfaces.AssetFile{
			FileName:    draft.File.FileName,
			ContentType: draft.File.ContentType,
			UploadID:    draft.File.UploadID,
			UploadURL:   draft.File.UploadURL,
		},
	}
	h.assets[asset.ID] = asset
	h.order = append(h.order, asset.ID)
	return cloneAsset(asset), nil
}

// ProcessAsset implements interfaces.AssetSpace.
func (h *Host) ProcessAsset(ctx context.Context, asset *interfaces.Asset, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if asset == nil {
		return ErrAssetNotFound
	}
	h.mu.Lock()
	hook := h.faults.Process
	h.mu.Unlock()
	if hook != nil {
		if err := hook(asset); err != nil {
			return err
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	stored, ok := h.assets[asset.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, asset.ID)
	}
	if stored.File != nil {
		stored.File.URL = "//assets.memory.local/" + stored.ID + "/" + stored.File.FileName
	}
	stored.Version++
	h.processed[stored.ID] = true
	return nil
}

// WaitUntilAssetProcessed implements interfaces.AssetSpace.
func (h *Host) WaitUntilAssetProcessed(ctx context.Context, id, _ string) (*interfaces.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	hook := h.faults.Await
	h.mu.Unlock()
	if hook != nil {
		if err := hook(id); err != nil {
			return nil, err
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	stored, ok := h.assets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, id)
	}
	if !h.processed[id] {
		return nil, fmt.Errorf("%w: %s", ErrNotProcessed, id)
	}
	return cloneAsset(stored), nil
}

// PublishAsset implements interfaces.AssetSpace.
func (h *Host) PublishAsset(ctx context.Context, asset *interfaces.Asset) (*interfaces.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, ErrAssetNotFound
	}
	h.mu.Lock()
	hook := h.faults.Publish
	h.mu.Unlock()
	if hook != nil {
		if err := hook(asset); err != nil {
			return nil, err
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	stored, ok := h.assets[asset.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, asset.ID)
	}
	stored.PublishedVersion = stored.Version
	stored.Version++
	return cloneAsset(stored), nil
}

// SelectMultipleAssets implements interfaces.AssetDialogs. Without a picker
// the dialog behaves as cancelled.
func (h *Host) SelectMultipleAssets(ctx context.Context, opts interfaces.AssetPickerOptions) ([]*interfaces.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	picker := h.picker
	h.mu.Unlock()
	if picker == nil {
		return nil, nil
	}
	return picker(opts)
}

// Notify implements interfaces.Notifier.
func (h *Host) Notify(_ context.Context, level interfaces.NotifyLevel, message string) {
	h.mu.Lock()
	h.notifications = append(h.notifications, Notification{Level: level, Message: message})
	h.mu.Unlock()
}

// Notifications returns the recorded notifications.
func (h *Host) Notifications() []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.notifications)
}

// OpenAsset implements interfaces.Navigator.
func (h *Host) OpenAsset(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.assets[id]; !ok {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, id)
	}
	h.opened = append(h.opened, id)
	return nil
}

// Opened returns the asset ids opened through the navigator.
func (h *Host) Opened() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.opened)
}

// GetText implements interfaces.TextFieldAPI.
func (h *Host) GetText(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text, h.textSet, nil
}

// SetText implements interfaces.TextFieldAPI.
func (h *Host) SetText(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.faults.SetText != nil {
		if err := h.faults.SetText(value); err != nil {
			return err
		}
	}
	h.text = value
	h.textSet = true
	return nil
}

func hasAnyTag(tags, wanted []string) bool {
	for _, tag := range tags {
		if slices.Contains(wanted, tag) {
			return true
		}
	}
	return false
}

func cloneAsset(asset *interfaces.Asset) *interfaces.Asset {
	if asset == nil {
		return nil
	}
	out := *asset
	out.Tags = slices.Clone(asset.Tags)
	if asset.File != nil {
		file := *asset.File
		out.File = &file
	}
	return &out
}
