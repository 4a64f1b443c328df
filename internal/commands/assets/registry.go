package assetcmd

import (
	"errors"
	"time"

	"github.com/goliatone/go-cms-assetfield/internal/commands"
	"github.com/goliatone/go-cms-assetfield/internal/notify"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
	"github.com/goliatone/go-command/dispatcher"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Services groups the runtime pieces the handlers drive. Field is required;
// handlers whose dependency is nil are not built.
type Services struct {
	Field     FieldService
	Intake    IntakeService
	SVG       SVGService
	Navigator interfaces.Navigator
}

// HandlerSet groups the handlers produced by RegisterAssetCommands.
type HandlerSet struct {
	Link       *LinkAssetsHandler
	Unlink     *UnlinkAssetHandler
	UnlinkAll  *UnlinkAllHandler
	Reorder    *ReorderAssetsHandler
	Intake     *IntakeHandler
	Pick       *PickAssetsHandler
	Open       *OpenAssetHandler
	ConfirmSVG *ConfirmSVGHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	reporter *notify.Reporter
	timeout  time.Duration
}

// WithReporter sets the reporter used for failures the services do not report themselves.
func WithReporter(reporter *notify.Reporter) Option {
	return func(cfg *options) {
		cfg.reporter = reporter
	}
}

// WithTimeout bounds the handlers that only write the field value. Intake
// and the picker wait on uploads and the user and never get a deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *options) {
		cfg.timeout = timeout
	}
}

// RegisterAssetCommands builds the field command handlers and registers them
// with reg. A nil reg only builds them.
func RegisterAssetCommands(reg CommandRegistry, services Services, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if services.Field == nil {
		return nil, errors.New("asset command registration: field service is nil")
	}

	cfg := options{timeout: commands.DefaultWriteTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.reporter == nil {
		cfg.reporter = notify.NewReporter(nil, nil)
	}

	desc := services.Field.Descriptor()
	logger := commands.FieldLogger(provider, "assets", desc)
	set := &HandlerSet{
		Link:      NewLinkAssetsHandler(services.Field, logger, cfg.reporter, commands.WithTimeout[LinkAssetsCommand](cfg.timeout)),
		Unlink:    NewUnlinkAssetHandler(services.Field, logger, cfg.reporter, commands.WithTimeout[UnlinkAssetCommand](cfg.timeout)),
		UnlinkAll: NewUnlinkAllHandler(services.Field, logger, cfg.reporter, commands.WithTimeout[UnlinkAllCommand](cfg.timeout)),
		Reorder:   NewReorderAssetsHandler(services.Field, logger, cfg.reporter, commands.WithTimeout[ReorderAssetsCommand](cfg.timeout)),
	}
	if services.Intake != nil {
		set.Intake = NewIntakeHandler(services.Intake, logger, cfg.reporter)
		set.Pick = NewPickAssetsHandler(services.Intake, logger, cfg.reporter)
	}
	if services.Navigator != nil {
		set.Open = NewOpenAssetHandler(services.Navigator, logger, cfg.reporter, commands.WithTimeout[OpenAssetCommand](cfg.timeout))
	}
	if services.SVG != nil {
		set.ConfirmSVG = NewConfirmSVGHandler(services.SVG, commands.FieldLogger(provider, "svg", desc), cfg.reporter, commands.WithTimeout[ConfirmSVGCommand](cfg.timeout))
	}

	if reg != nil {
		for _, handler := range set.handlers() {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// handlers lists the built handlers in registration order.
func (s *HandlerSet) handlers() []any {
	out := []any{s.Link, s.Unlink, s.UnlinkAll, s.Reorder}
	if s.Intake != nil {
		out = append(out, s.Intake, s.Pick)
	}
	if s.Open != nil {
		out = append(out, s.Open)
	}
	if s.ConfirmSVG != nil {
		out = append(out, s.ConfirmSVG)
	}
	return out
}

// Subscribe attaches the built handlers to the go-command dispatcher so hosts
// can route field commands through dispatcher.Dispatch. The returned function
// detaches them. Message types are process-wide, so only one field should
// subscribe at a time.
func Subscribe(set *HandlerSet) (unsubscribe func()) {
	if set == nil {
		return func() {}
	}
	subs := []interface{ Unsubscribe() }{
		dispatcher.SubscribeCommand(set.Link),
		dispatcher.SubscribeCommand(set.Unlink),
		dispatcher.SubscribeCommand(set.UnlinkAll),
		dispatcher.SubscribeCommand(set.Reorder),
	}
	if set.Intake != nil {
		subs = append(subs, dispatcher.SubscribeCommand(set.Intake), dispatcher.SubscribeCommand(set.Pick))
	}
	if set.Open != nil {
		subs = append(subs, dispatcher.SubscribeCommand(set.Open))
	}
	if set.ConfirmSVG != nil {
		subs = append(subs, dispatcher.SubscribeCommand(set.ConfirmSVG))
	}
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}
