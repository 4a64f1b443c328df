package intake

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-cms-assetfield/internal/fields"
	"github.com/goliatone/go-cms-assetfield/internal/logging"
	"github.com/goliatone/go-cms-assetfield/internal/notify"
	"github.com/goliatone/go-cms-assetfield/pkg/activity"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

var (
	// ErrDialogsUnavailable reports a picker request without host dialogs.
	ErrDialogsUnavailable = errors.New("intake: asset dialogs unavailable")
	// ErrPipelineClosed reports intake after Close.
	ErrPipelineClosed = errors.New("intake: pipeline closed")
)

// DefaultPickerContentTypes limits the existing-asset picker to common image types.
var DefaultPickerContentTypes = []string{"image/jpeg", "image/png", "image/gif"}

// DefaultRemoteContentType is assumed when probing a remote URL yields nothing.
const DefaultRemoteContentType = "image/jpeg"

const pickerTitle = "Select Assets"

// Linker writes links into the field and reports its capacity.
type Linker interface {
	WriteLinks(ctx context.Context, ids []string, mode fields.WriteMode) error
	AvailableSlots(ctx context.Context) (int, error)
	MaxAssets() int
	Locale() string
}

// Prober resolves the content type of a remote URL.
type Prober interface {
	ContentType(ctx context.Context, rawURL string) (string, error)
}

// Option customises the pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logging.Ensure(logger)
	}
}

// WithReporter sets the reporter receiving every intake failure.
func WithReporter(reporter *notify.Reporter) Option {
	return func(p *Pipeline) {
		if reporter != nil {
			p.reporter = reporter
		}
	}
}

// WithActivity sets the emitter receiving upload outcomes.
func WithActivity(emitter *activity.Emitter) Option {
	return func(p *Pipeline) {
		p.activity = emitter
	}
}

// WithTracker shares a tracker with the caller.
func WithTracker(tracker *Tracker) Option {
	return func(p *Pipeline) {
		if tracker != nil {
			p.tracker = tracker
		}
	}
}

// WithWorkers bounds how many files of one bulk intake are created at once.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithStepTimeout bounds every remote step. Zero disables the bound.
func WithStepTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d >= 0 {
			p.stepTimeout = d
		}
	}
}

// WithProber sets the remote content type prober.
func WithProber(prober Prober) Option {
	return func(p *Pipeline) {
		p.prober = prober
	}
}

// WithDialogs sets the host dialogs used by LinkFromPicker.
func WithDialogs(dialogs interfaces.AssetDialogs) Option {
	return func(p *Pipeline) {
		p.dialogs = dialogs
	}
}

// WithInlineFileName overrides the name given to inline images.
func WithInlineFileName(name string) Option {
	return func(p *Pipeline) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			p.inlineName = trimmed
		}
	}
}

// WithRemoteFileName overrides the fallback name of remote imports.
func WithRemoteFileName(name string) Option {
	return func(p *Pipeline) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			p.remoteName = trimmed
		}
	}
}

// WithDefaultContentType overrides the content type assumed for remote imports.
func WithDefaultContentType(contentType string) Option {
	return func(p *Pipeline) {
		if trimmed := strings.TrimSpace(contentType); trimmed != "" {
			p.defaultContentType = trimmed
		}
	}
}

// WithPickerContentTypes overrides the content types offered by the picker.
func WithPickerContentTypes(types []string) Option {
	return func(p *Pipeline) {
		if len(types) > 0 {
			p.pickerTypes = append([]string(nil), types...)
		}
	}
}

// Pipeline turns intake events into linked assets.
//
// Failures are reported through the reporter as they happen; the returned
// errors repeat them for callers that need the outcome.
type Pipeline struct {
	linker   Linker
	space    interfaces.AssetSpace
	dialogs  interfaces.AssetDialogs
	prober   Prober
	tracker  *Tracker
	reporter *notify.Reporter
	logger   interfaces.Logger
	activity *activity.Emitter

	workers            int
	stepTimeout        time.Duration
	inlineName         string
	remoteName         string
	defaultContentType string
	pickerTypes        []string

	picking atomic.Bool
	base    context.Context
	cancel  context.CancelFunc
}

// NewPipeline builds a pipeline linking created assets through linker.
func NewPipeline(linker Linker, space interfaces.AssetSpace, opts ...Option) (*Pipeline, error) {
	if linker == nil {
		return nil, fields.ErrFieldUnavailable
	}
	if space == nil {
		return nil, fields.ErrSpaceUnavailable
	}
	p := &Pipeline{
		linker:             linker,
		space:              space,
		logger:             logging.NoOp(),
		workers:            1,
		inlineName:         DefaultInlineFileName,
		remoteName:         DefaultRemoteFileName,
		defaultContentType: DefaultRemoteContentType,
		pickerTypes:        DefaultPickerContentTypes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.tracker == nil {
		p.tracker = NewTracker()
	}
	if p.reporter == nil {
		p.reporter = notify.NewReporter(nil, p.logger)
	}
	p.base, p.cancel = context.WithCancel(context.Background())
	return p, nil
}

// Tracker returns the task tracker.
func (p *Pipeline) Tracker() *Tracker { return p.tracker }

// Close cancels in-flight intake. Later calls fail with ErrPipelineClosed.
func (p *Pipeline) Close() {
	p.cancel()
}

// bind derives a context that is also cancelled by Close.
func (p *Pipeline) bind(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if p.base.Err() != nil {
		return nil, nil, ErrPipelineClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(p.base, cancel)
	return ctx, func() {
		stop()
		cancel()
	}, nil
}

// Intake classifies ev and runs the matching flow. Events without a usable
// payload are ignored.
func (p *Pipeline) Intake(ctx context.Context, ev Event) error {
	switch in := Classify(ev).(type) {
	case FilesIntake:
		return p.Files(ctx, in.Files)
	case ExistingAssetIntake:
		return p.LinkExisting(ctx, in.AssetID)
	case InlineIntake:
		return p.Inline(ctx, in.File)
	case RemoteURLIntake:
		return p.Remote(ctx, in.URL)
	default:
		p.logger.Debug("intake.ignored")
		return nil
	}
}

// Files creates one asset per image file and links each as it completes.
// Non-image files are reported and skipped. When the images exceed the
// capacity left in the host value nothing is uploaded.
func (p *Pipeline) Files(ctx context.Context, files []File) error {
	ctx, done, err := p.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	var images []File
	var rejected []string
	for _, file := range files {
		if IsImage(file.ContentType) {
			images = append(images, file)
			continue
		}
		rejected = append(rejected, file.Name)
	}

	var rejectErr error
	if len(rejected) > 0 {
		rejectErr = fields.RejectFiles(rejected...)
		p.logger.Warn("intake.files.rejected", "files", rejected)
		p.reporter.Error(ctx, rejectErr)
	}
	if len(images) == 0 {
		return rejectErr
	}

	if err := p.ensureCapacity(ctx, len(images)); err != nil {
		return errors.Join(rejectErr, err)
	}

	jobs := make([]job, 0, len(images))
	for _, file := range images {
		jobs = append(jobs, job{
			taskID: p.tracker.Register(file.Name),
			source: fileSource(file),
		})
	}
	p.logger.Info("intake.files.accepted", "count", len(jobs), "workers", p.workers)
	return errors.Join(rejectErr, p.runAll(ctx, jobs))
}

// Inline creates and links an asset from image bytes pasted or dropped
// without a file name.
func (p *Pipeline) Inline(ctx context.Context, file File) error {
	ctx, done, err := p.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := p.ensureCapacity(ctx, 1); err != nil {
		return err
	}
	file.Name = p.inlineName
	return p.run(ctx, job{taskID: p.tracker.Register(file.Name), source: fileSource(file)})
}

// Remote creates and links an asset the host imports from rawURL.
func (p *Pipeline) Remote(ctx context.Context, rawURL string) error {
	ctx, done, err := p.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := p.ensureCapacity(ctx, 1); err != nil {
		return err
	}
	fileName := RemoteFileName(rawURL, p.remoteName)
	taskID := p.tracker.Register(fileName)
	contentType := p.probe(ctx, rawURL)
	return p.run(ctx, job{taskID: taskID, source: urlSource(rawURL, fileName, contentType)})
}

// LinkExisting links an asset that already exists in the space.
func (p *Pipeline) LinkExisting(ctx context.Context, id string) error {
	ctx, done, err := p.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := p.linker.WriteLinks(ctx, []string{id}, fields.ModeAdd); err != nil {
		p.reporter.Error(ctx, err)
		return err
	}
	p.logger.Info("intake.existing.linked", "id", id)
	return nil
}

// LinkFromPicker lets the user choose existing images through the host
// picker, limited to the capacity left. Calls made while the picker is open
// are ignored, as is a cancelled dialog.
func (p *Pipeline) LinkFromPicker(ctx context.Context) error {
	if p.dialogs == nil {
		return ErrDialogsUnavailable
	}
	if !p.picking.CompareAndSwap(false, true) {
		p.logger.Debug("intake.picker.busy")
		return nil
	}
	defer p.picking.Store(false)

	ctx, done, err := p.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	available, err := p.linker.AvailableSlots(ctx)
	if err != nil {
		p.reporter.Error(ctx, err)
		return err
	}
	if available <= 0 {
		err := fields.ExceedsCapacity(1, 0, p.linker.MaxAssets())
		p.reporter.Error(ctx, err)
		return err
	}

	selected, err := p.dialogs.SelectMultipleAssets(ctx, interfaces.AssetPickerOptions{
		Title:        pickerTitle,
		ContentTypes: p.pickerTypes,
		Min:          1,
		Max:          available,
	})
	if err != nil {
		p.reporter.Error(ctx, err)
		return err
	}
	ids := make([]string, 0, len(selected))
	for _, asset := range selected {
		if asset != nil {
			ids = append(ids, asset.ID)
		}
	}
	if len(ids) == 0 {
		p.logger.Debug("intake.picker.cancelled")
		return nil
	}

	if err := p.linker.WriteLinks(ctx, ids, fields.ModeAdd); err != nil {
		p.reporter.Error(ctx, err)
		return err
	}
	p.logger.Info("intake.picker.linked", "ids", ids)
	return nil
}

func (p *Pipeline) ensureCapacity(ctx context.Context, requested int) error {
	available, err := p.linker.AvailableSlots(ctx)
	if err != nil {
		p.reporter.Error(ctx, err)
		return err
	}
	if requested > available {
		err := fields.ExceedsCapacity(requested, available, p.linker.MaxAssets())
		p.logger.Warn("intake.capacity.exceeded", "requested", requested, "available", available)
		p.reporter.Error(ctx, err)
		return err
	}
	return nil
}

func (p *Pipeline) probe(ctx context.Context, rawURL string) string {
	if p.prober == nil {
		return p.defaultContentType
	}
	stepCtx, cancel := p.stepContext(ctx)
	defer cancel()
	contentType, err := p.prober.ContentType(stepCtx, rawURL)
	if err != nil || strings.TrimSpace(contentType) == "" {
		p.logger.Warn("intake.remote.probe_failed", "url", rawURL, "error", err, "fallback", p.defaultContentType)
		return p.defaultContentType
	}
	return contentType
}

// runAll processes jobs with the configured number of workers. Every job
// runs to its own completion; failures are collected.
func (p *Pipeline) runAll(ctx context.Context, jobs []job) error {
	errs := make([]error, len(jobs))
	if p.workers <= 1 || len(jobs) == 1 {
		for i, j := range jobs {
			errs[i] = p.run(ctx, j)
		}
		return errors.Join(errs...)
	}

	queue := make(chan int)
	var wg sync.WaitGroup
	for range min(p.workers, len(jobs)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				errs[i] = p.run(ctx, jobs[i])
			}
		}()
	}
	for i := range jobs {
		queue <- i
	}
	close(queue)
	wg.Wait()
	return errors.Join(errs...)
}

func (p *Pipeline) emit(ctx context.Context, verb, objectID string, meta map[string]any) {
	if !p.activity.Enabled() {
		return
	}
	if err := p.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ObjectType: "asset",
		ObjectID:   objectID,
		Metadata:   meta,
	}); err != nil {
		p.logger.Warn("intake.activity.failed", "verb", verb, "error", err)
	}
}
