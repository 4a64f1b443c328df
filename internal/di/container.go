package di

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-cms-assetfield/internal/adapters/noop"
	assetcmd "github.com/goliatone/go-cms-assetfield/internal/commands/assets"
	"github.com/goliatone/go-cms-assetfield/internal/fieldsync"
	"github.com/goliatone/go-cms-assetfield/internal/intake"
	"github.com/goliatone/go-cms-assetfield/internal/logging"
	"github.com/goliatone/go-cms-assetfield/internal/logging/gologger"
	"github.com/goliatone/go-cms-assetfield/internal/notify"
	"github.com/goliatone/go-cms-assetfield/internal/probe"
	"github.com/goliatone/go-cms-assetfield/internal/runtimeconfig"
	"github.com/goliatone/go-cms-assetfield/internal/svgpicker"
	"github.com/goliatone/go-cms-assetfield/pkg/activity"
	"github.com/goliatone/go-cms-assetfield/pkg/activity/usersink"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

// ErrTextFieldRequired is returned when the SVG picker is enabled without a text field.
var ErrTextFieldRequired = errors.New("di: svg picker requires a host text field")

// Host bundles the editor capabilities handed to the runtime. Field and Space
// are required; the rest fall back to no-op adapters or disable the feature
// that needs them.
type Host struct {
	Field     interfaces.FieldAPI
	Space     interfaces.AssetSpace
	Dialogs   interfaces.AssetDialogs
	Notifier  interfaces.Notifier
	Navigator interfaces.Navigator
	Text      interfaces.TextFieldAPI
}

// Container wires the field runtime from a Config and a Host.
type Container struct {
	Config runtimeconfig.Config

	host           Host
	loggerProvider interfaces.LoggerProvider
	activitySink   interfaces.ActivitySink
	activityHooks  []activity.Hook
	prober         intake.Prober
	httpClient     *http.Client
	registry       assetcmd.CommandRegistry
	taskObserver   func(intake.Task)

	reporter *notify.Reporter
	emitter  *activity.Emitter
	tracker  *intake.Tracker
	syncSvc  *fieldsync.Service
	pipeline *intake.Pipeline
	svgSvc   *svgpicker.Service
	handlers *assetcmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithActivitySink forwards activity events to a go-users sink when the
// activity feature is enabled.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(c *Container) {
		c.activitySink = sink
	}
}

// WithActivityHooks adds hooks receiving every activity event.
func WithActivityHooks(hooks ...activity.Hook) Option {
	return func(c *Container) {
		c.activityHooks = append(c.activityHooks, hooks...)
	}
}

// WithProber replaces the HTTP content type prober.
func WithProber(prober intake.Prober) Option {
	return func(c *Container) {
		c.prober = prober
	}
}

// WithHTTPClient sets the client used by the default prober.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithCommandRegistry registers the command handlers with reg.
func WithCommandRegistry(reg assetcmd.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// WithTaskObserver receives every upload task update.
func WithTaskObserver(fn func(intake.Task)) Option {
	return func(c *Container) {
		c.taskObserver = fn
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, host Host, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg, host: host}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureHostDefaults()
	c.configureActivity()
	if err := c.configureServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: logger provider: %w", err)
		}
		c.loggerProvider = provider
	case "noop":
	}
	return nil
}

func (c *Container) configureHostDefaults() {
	if c.host.Notifier == nil {
		c.host.Notifier = noop.Notifier()
	}
	if c.host.Navigator == nil {
		c.host.Navigator = noop.Navigator()
	}
	c.reporter = notify.NewReporter(c.host.Notifier, logging.ModuleLogger(c.loggerProvider, "assetfield.notify"))
}

func (c *Container) configureActivity() {
	hooks := append([]activity.Hook(nil), c.activityHooks...)
	if c.Config.Features.Activity && c.activitySink != nil {
		hooks = append(hooks, usersink.Hook{Sink: c.activitySink})
	}
	c.emitter = activity.NewEmitter(hooks,
		activity.WithActor(c.Config.Activity.ActorID),
		activity.WithTenant(c.Config.Activity.TenantID),
	)
}

func (c *Container) configureServices() error {
	cfg := c.Config
	syncSvc, err := fieldsync.NewService(c.host.Field, c.host.Space,
		fieldsync.WithLogger(logging.SyncLogger(c.loggerProvider)),
		fieldsync.WithReporter(c.reporter),
		fieldsync.WithActivity(c.emitter),
		fieldsync.WithDefaultMaxAssets(cfg.Field.DefaultMaxAssets),
	)
	if err != nil {
		return err
	}
	c.syncSvc = syncSvc

	trackerOpts := []intake.TrackerOption{intake.WithRetention(cfg.Intake.TaskRetention)}
	if c.taskObserver != nil {
		trackerOpts = append(trackerOpts, intake.WithObserver(c.taskObserver))
	}
	c.tracker = intake.NewTracker(trackerOpts...)

	pipelineOpts := []intake.Option{
		intake.WithLogger(logging.IntakeLogger(c.loggerProvider)),
		intake.WithReporter(c.reporter),
		intake.WithActivity(c.emitter),
		intake.WithTracker(c.tracker),
		intake.WithWorkers(cfg.Intake.Workers),
		intake.WithStepTimeout(cfg.Intake.StepTimeout),
		intake.WithInlineFileName(cfg.Intake.InlineFileName),
		intake.WithRemoteFileName(cfg.Intake.RemoteFileName),
		intake.WithDefaultContentType(cfg.Probe.DefaultContentType),
		intake.WithPickerContentTypes(cfg.Field.PickerContentTypes),
	}
	if c.host.Dialogs != nil {
		pipelineOpts = append(pipelineOpts, intake.WithDialogs(c.host.Dialogs))
	}
	if prober := c.resolveProber(); prober != nil {
		pipelineOpts = append(pipelineOpts, intake.WithProber(prober))
	}
	pipeline, err := intake.NewPipeline(syncSvc, c.host.Space, pipelineOpts...)
	if err != nil {
		return err
	}
	c.pipeline = pipeline

	services := assetcmd.Services{
		Field:     syncSvc,
		Intake:    pipeline,
		Navigator: c.host.Navigator,
	}
	if cfg.Features.SVGPicker {
		if c.host.Text == nil {
			return ErrTextFieldRequired
		}
		svgSvc, err := svgpicker.NewService(c.host.Space, c.host.Text,
			svgpicker.WithGroup(cfg.SVG.Group),
			svgpicker.WithLimit(cfg.SVG.Limit),
			svgpicker.WithScheme(cfg.SVG.Scheme),
			svgpicker.WithLogger(logging.SVGLogger(c.loggerProvider)),
			svgpicker.WithReporter(c.reporter),
			svgpicker.WithActivity(c.emitter),
		)
		if err != nil {
			return err
		}
		c.svgSvc = svgSvc
		services.SVG = svgSvc
	}

	handlers, err := assetcmd.RegisterAssetCommands(c.registry, services, c.loggerProvider,
		assetcmd.WithReporter(c.reporter),
		assetcmd.WithTimeout(cfg.Commands.WriteTimeout),
	)
	if err != nil {
		return err
	}
	c.handlers = handlers
	return nil
}

func (c *Container) resolveProber() intake.Prober {
	if c.prober != nil {
		return c.prober
	}
	if !c.Config.Features.RemoteProbe {
		return nil
	}
	opts := []probe.Option{probe.WithTimeout(c.Config.Probe.Timeout)}
	if c.httpClient != nil {
		opts = append(opts, probe.WithClient(c.httpClient))
	}
	return probe.NewHTTPProber(opts...)
}

// LoggerProvider returns the provider in use, nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Reporter returns the shared user notification reporter.
func (c *Container) Reporter() *notify.Reporter { return c.reporter }

// Activity returns the activity emitter.
func (c *Container) Activity() *activity.Emitter { return c.emitter }

// SyncService returns the field synchronizer.
func (c *Container) SyncService() *fieldsync.Service { return c.syncSvc }

// Pipeline returns the intake pipeline.
func (c *Container) Pipeline() *intake.Pipeline { return c.pipeline }

// Tracker returns the upload task tracker.
func (c *Container) Tracker() *intake.Tracker { return c.tracker }

// SVGService returns the SVG picker, nil when the feature is disabled.
func (c *Container) SVGService() *svgpicker.Service { return c.svgSvc }

// Handlers returns the command handlers.
func (c *Container) Handlers() *assetcmd.HandlerSet { return c.handlers }

// Close stops intake and detaches the synchronizer from the host.
func (c *Container) Close() {
	c.pipeline.Close()
	c.syncSvc.Close()
}
