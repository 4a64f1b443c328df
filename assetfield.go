package assetfield

import (
	"context"
	"errors"
	"net/http"

	assetcmd "github.com/goliatone/go-cms-assetfield/internal/commands/assets"
	"github.com/goliatone/go-cms-assetfield/internal/di"
	"github.com/goliatone/go-cms-assetfield/internal/fields"
	"github.com/goliatone/go-cms-assetfield/internal/intake"
	"github.com/goliatone/go-cms-assetfield/internal/svgpicker"
	"github.com/goliatone/go-cms-assetfield/pkg/activity"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

// Host bundles the editor capabilities the module runs against.
type Host = di.Host

// Option customises module wiring.
type Option = di.Option

// Event is a drop, paste or file dialog result.
type Event = intake.Event

// File is one file handed to the field.
type File = intake.File

// DataTransfer carries drag and clipboard payloads.
type DataTransfer = intake.DataTransfer

// TransferItem is one entry of a DataTransfer.
type TransferItem = intake.TransferItem

// Task is the progress record of one upload.
type Task = intake.Task

// SVG is one entry of the SVG picker.
type SVG = svgpicker.SVG

// SVGListing is the result of listing SVGs.
type SVGListing = svgpicker.Listing

// CapacityError reports a request exceeding the free slots of the field.
type CapacityError = fields.CapacityError

var (
	ErrOnlyImages       = fields.ErrOnlyImages
	ErrCapacityExceeded = fields.ErrCapacityExceeded
	ErrStepFailed       = fields.ErrStepFailed
	ErrResolutionFailed = fields.ErrResolutionFailed
	ErrSVGGroupMissing  = svgpicker.ErrGroupRequired
	ErrSelectionFailed  = svgpicker.ErrSelectionFailed
)

// ErrSVGPickerDisabled is returned by the SVG methods when Features.SVGPicker is off.
var ErrSVGPickerDisabled = errors.New("assetfield: svg picker disabled")

// BytesFile wraps in-memory data as a File.
func BytesFile(name, contentType string, data []byte) File {
	return intake.BytesFile(name, contentType, data)
}

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithActivitySink forwards activity to a go-users sink when Features.Activity is set.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return di.WithActivitySink(sink)
}

// WithActivityHooks adds hooks receiving every activity event.
func WithActivityHooks(hooks ...activity.Hook) Option {
	return di.WithActivityHooks(hooks...)
}

// WithHTTPClient sets the client used to probe remote image URLs.
func WithHTTPClient(client *http.Client) Option {
	return di.WithHTTPClient(client)
}

// WithCommandRegistry registers the field command handlers with reg.
func WithCommandRegistry(reg assetcmd.CommandRegistry) Option {
	return di.WithCommandRegistry(reg)
}

// WithUploadObserver receives every upload task update.
func WithUploadObserver(fn func(Task)) Option {
	return di.WithTaskObserver(fn)
}

// Module is the asset field runtime for one field and locale.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg running against host.
func New(cfg Config, host Host, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, host, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Start loads the current field value and follows host changes until Close.
func (m *Module) Start(ctx context.Context) error {
	return m.container.SyncService().Start(ctx)
}

// Close cancels in-flight uploads and detaches from the host.
func (m *Module) Close() {
	m.container.Close()
}

// Assets returns the resolved linked assets in field order.
func (m *Module) Assets() []*interfaces.Asset {
	return m.container.SyncService().Assets()
}

// Subscribe calls fn with every new asset list. The returned function unsubscribes.
func (m *Module) Subscribe(fn func([]*interfaces.Asset)) func() {
	return m.container.SyncService().Subscribe(fn)
}

// Published reports whether every linked asset is published at its latest version.
func (m *Module) Published() bool {
	return m.container.SyncService().Published()
}

// MaxAssets returns the field capacity.
func (m *Module) MaxAssets() int {
	return m.container.SyncService().MaxAssets()
}

// RemainingSlots returns how many more assets fit, based on the local list.
func (m *Module) RemainingSlots() int {
	return m.container.SyncService().RemainingSlots()
}

// Uploads returns the upload tasks still shown to the user.
func (m *Module) Uploads() []Task {
	return m.container.Tracker().Snapshot()
}

// DismissUpload hides a finished upload task.
func (m *Module) DismissUpload(id string) bool {
	return m.container.Tracker().Dismiss(id)
}

// Drop handles a drop or paste event.
func (m *Module) Drop(ctx context.Context, ev Event) error {
	return m.container.Handlers().Intake.Execute(ctx, assetcmd.IntakeCommand{Event: ev})
}

// AddFiles handles files chosen in a file dialog.
func (m *Module) AddFiles(ctx context.Context, files ...File) error {
	return m.Drop(ctx, Event{Files: files})
}

// LinkExisting links assets that already exist in the space.
func (m *Module) LinkExisting(ctx context.Context, ids ...string) error {
	return m.container.Handlers().Link.Execute(ctx, assetcmd.LinkAssetsCommand{IDs: ids, Mode: fields.ModeAdd})
}

// PickExisting opens the host asset picker and links the selection.
func (m *Module) PickExisting(ctx context.Context) error {
	return m.container.Handlers().Pick.Execute(ctx, assetcmd.PickAssetsCommand{})
}

// Remove unlinks one asset.
func (m *Module) Remove(ctx context.Context, id string) error {
	return m.container.Handlers().Unlink.Execute(ctx, assetcmd.UnlinkAssetCommand{ID: id})
}

// RemoveAll empties the field.
func (m *Module) RemoveAll(ctx context.Context) error {
	return m.container.Handlers().UnlinkAll.Execute(ctx, assetcmd.UnlinkAllCommand{})
}

// Reorder moves the asset at source to destination. A nil destination is a
// drag that ended outside the list.
func (m *Module) Reorder(ctx context.Context, source int, destination *int) error {
	return m.container.Handlers().Reorder.Execute(ctx, assetcmd.ReorderAssetsCommand{Source: source, Destination: destination})
}

// Edit opens the host editor for a linked asset.
func (m *Module) Edit(ctx context.Context, id string) error {
	return m.container.Handlers().Open.Execute(ctx, assetcmd.OpenAssetCommand{ID: id})
}

// SVGs lists the SVGs of the configured group.
func (m *Module) SVGs(ctx context.Context) (*SVGListing, error) {
	svc := m.container.SVGService()
	if svc == nil {
		return nil, ErrSVGPickerDisabled
	}
	return svc.Load(ctx)
}

// SearchSVGs filters items by title, ignoring case.
func SearchSVGs(items []SVG, term string) []SVG {
	return svgpicker.Search(items, term)
}

// ConfirmSVG stores the chosen SVG URL in the text field.
func (m *Module) ConfirmSVG(ctx context.Context, svg SVG) error {
	handler := m.container.Handlers().ConfirmSVG
	if handler == nil {
		return ErrSVGPickerDisabled
	}
	return handler.Execute(ctx, assetcmd.ConfirmSVGCommand{SVG: svg})
}
