package assetcmd

import (
	"context"

	"github.com/goliatone/go-cms-assetfield/internal/commands"
	"github.com/goliatone/go-cms-assetfield/internal/fields"
	"github.com/goliatone/go-cms-assetfield/internal/fieldsync"
	"github.com/goliatone/go-cms-assetfield/internal/intake"
	"github.com/goliatone/go-cms-assetfield/internal/notify"
	"github.com/goliatone/go-cms-assetfield/internal/svgpicker"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	linkOperation      = "assets.link"
	unlinkOperation    = "assets.unlink"
	unlinkAllOperation = "assets.unlink_all"
	reorderOperation   = "assets.reorder"
	intakeOperation    = "assets.intake"
	pickOperation      = "assets.pick"
	openOperation      = "assets.open"
	confirmOperation   = "svg.confirm"
)

var (
	_ command.Commander[LinkAssetsCommand]    = (*LinkAssetsHandler)(nil)
	_ command.Commander[UnlinkAssetCommand]   = (*UnlinkAssetHandler)(nil)
	_ command.Commander[UnlinkAllCommand]     = (*UnlinkAllHandler)(nil)
	_ command.Commander[ReorderAssetsCommand] = (*ReorderAssetsHandler)(nil)
	_ command.Commander[IntakeCommand]        = (*IntakeHandler)(nil)
	_ command.Commander[PickAssetsCommand]    = (*PickAssetsHandler)(nil)
	_ command.Commander[OpenAssetCommand]     = (*OpenAssetHandler)(nil)
	_ command.Commander[ConfirmSVGCommand]    = (*ConfirmSVGHandler)(nil)
)

// FieldService is the slice of fieldsync.Service driven by commands.
type FieldService interface {
	WriteLinks(ctx context.Context, ids []string, mode fields.WriteMode) error
	Unlink(ctx context.Context, id string) error
	UnlinkAll(ctx context.Context) error
	Reorder(ctx context.Context, drag fieldsync.Drag) error
	Descriptor() interfaces.FieldDescriptor
}

// IntakeService is the slice of intake.Pipeline driven by commands. It
// reports its own failures.
type IntakeService interface {
	Intake(ctx context.Context, ev intake.Event) error
	LinkFromPicker(ctx context.Context) error
}

// SVGService confirms SVG selections and reports its own failures.
type SVGService interface {
	Confirm(ctx context.Context, svg svgpicker.SVG) error
}

func baseOptions[T command.Message](logger interfaces.Logger, operation string, reporter *notify.Reporter, messageFields func(T) map[string]any) []commands.HandlerOption[T] {
	opts := []commands.HandlerOption[T]{
		commands.WithLogger[T](logger),
		commands.WithOperation[T](operation),
		commands.WithReporter[T](reporter),
		commands.WithTelemetry(commands.DefaultTelemetry[T](logger)),
	}
	if messageFields != nil {
		opts = append(opts, commands.WithMessageFields(messageFields))
	}
	return opts
}

// reported surfaces err to the editor and returns it.
func reported(ctx context.Context, reporter *notify.Reporter, err error) error {
	if err != nil {
		reporter.Error(ctx, err)
	}
	return err
}

// LinkAssetsHandler links existing assets.
type LinkAssetsHandler struct {
	inner *commands.Handler[LinkAssetsCommand]
}

// NewLinkAssetsHandler creates a handler bound to service. An empty mode adds.
func NewLinkAssetsHandler(service FieldService, logger interfaces.Logger, reporter *notify.Reporter, opts ...commands.HandlerOption[LinkAssetsCommand]) *LinkAssetsHandler {
	exec := func(ctx context.Context, msg LinkAssetsCommand) error {
		mode := msg.Mode
		if mode == "" {
			mode = fields.ModeAdd
		}
		return reported(ctx, reporter, service.WriteLinks(ctx, msg.IDs, mode))
	}
	handlerOpts := baseOptions(logger, linkOperation, reporter, func(msg LinkAssetsCommand) map[string]any {
		return map[string]any{"ids": msg.IDs, "mode": string(msg.Mode)}
	})
	return &LinkAssetsHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[LinkAssetsCommand].
func (h *LinkAssetsHandler) Execute(ctx context.Context, msg LinkAssetsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UnlinkAssetHandler removes one link.
type UnlinkAssetHandler struct {
	inner *commands.Handler[UnlinkAssetCommand]
}

// NewUnlinkAssetHandler creates a handler bound to service.
func NewUnlinkAssetHandler(service FieldService, logger interfaces.Logger, reporter *notify.Reporter, opts ...commands.HandlerOption[UnlinkAssetCommand]) *UnlinkAssetHandler {
	exec := func(ctx context.Context, msg UnlinkAssetCommand) error {
		return reported(ctx, reporter, service.Unlink(ctx, msg.ID))
	}
	handlerOpts := baseOptions(logger, unlinkOperation, reporter, func(msg UnlinkAssetCommand) map[string]any {
		return map[string]any{"asset_id": msg.ID}
	})
	return &UnlinkAssetHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[UnlinkAssetCommand].
func (h *UnlinkAssetHandler) Execute(ctx context.Context, msg UnlinkAssetCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UnlinkAllHandler empties the field.
type UnlinkAllHandler struct {
	inner *commands.Handler[UnlinkAllCommand]
}

// NewUnlinkAllHandler creates a handler bound to service.
func NewUnlinkAllHandler(service FieldService, logger interfaces.Logger, reporter *notify.Reporter, opts ...commands.HandlerOption[UnlinkAllCommand]) *UnlinkAllHandler {
	exec := func(ctx context.Context, _ UnlinkAllCommand) error {
		return reported(ctx, reporter, service.UnlinkAll(ctx))
	}
	handlerOpts := baseOptions[UnlinkAllCommand](logger, unlinkAllOperation, reporter, nil)
	return &UnlinkAllHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[UnlinkAllCommand].
func (h *UnlinkAllHandler) Execute(ctx context.Context, msg UnlinkAllCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ReorderAssetsHandler applies drag results.
type ReorderAssetsHandler struct {
	inner *commands.Handler[ReorderAssetsCommand]
}

// NewReorderAssetsHandler creates a handler bound to service.
func NewReorderAssetsHandler(service FieldService, logger interfaces.Logger, reporter *notify.Reporter, opts ...commands.HandlerOption[ReorderAssetsCommand]) *ReorderAssetsHandler {
	exec := func(ctx context.Context, msg ReorderAssetsCommand) error {
		return reported(ctx, reporter, service.Reorder(ctx, fieldsync.Drag{Source: msg.Source, Destination: msg.Destination}))
	}
	handlerOpts := baseOptions(logger, reorderOperation, reporter, func(msg ReorderAssetsCommand) map[string]any {
		out := map[string]any{"source": msg.Source}
		if msg.Destination != nil {
			out["destination"] = *msg.Destination
		}
		return out
	})
	return &ReorderAssetsHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[ReorderAssetsCommand].
func (h *ReorderAssetsHandler) Execute(ctx context.Context, msg ReorderAssetsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// IntakeHandler routes drop and paste events into the pipeline.
type IntakeHandler struct {
	inner *commands.Handler[IntakeCommand]
}

// NewIntakeHandler creates a handler bound to service. A batch runs each
// creation step to completion, so no deadline applies unless opts add one.
func NewIntakeHandler(service IntakeService, logger interfaces.Logger, reporter *notify.Reporter, opts ...commands.HandlerOption[IntakeCommand]) *IntakeHandler {
	exec := func(ctx context.Context, msg IntakeCommand) error {
		return service.Intake(ctx, msg.Event)
	}
	handlerOpts := append(baseOptions(logger, intakeOperation, reporter, func(msg IntakeCommand) map[string]any {
		return map[string]any{"intake": intake.Classify(msg.Event).Kind()}
	}), commands.WithTimeout[IntakeCommand](0))
	return &IntakeHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[IntakeCommand].
func (h *IntakeHandler) Execute(ctx context.Context, msg IntakeCommand) error {
	return h.inner.Execute(ctx, msg)
}

// PickAssetsHandler opens the host picker.
type PickAssetsHandler struct {
	inner *commands.Handler[PickAssetsCommand]
}

// NewPickAssetsHandler creates a handler bound to service. The picker waits
// on the user, so no deadline applies unless opts add one.
func NewPickAssetsHandler(service IntakeService, logger interfaces.Logger, reporter *notify.Reporter, opts ...commands.HandlerOption[PickAssetsCommand]) *PickAssetsHandler {
	exec := func(ctx context.Context, _ PickAssetsCommand) error {
		return service.LinkFromPicker(ctx)
	}
	handlerOpts := append(baseOptions[PickAssetsCommand](logger, pickOperation, reporter, nil), commands.WithTimeout[PickAssetsCommand](0))
	return &PickAssetsHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[PickAssetsCommand].
func (h *PickAssetsHandler) Execute(ctx context.Context, msg PickAssetsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// OpenAssetHandler opens the host editor of a linked asset.
type OpenAssetHandler struct {
	inner *commands.Handler[OpenAssetCommand]
}

// NewOpenAssetHandler creates a handler bound to navigator.
func NewOpenAssetHandler(navigator interfaces.Navigator, logger interfaces.Logger, reporter *notify.Reporter, opts ...commands.HandlerOption[OpenAssetCommand]) *OpenAssetHandler {
	exec := func(ctx context.Context, msg OpenAssetCommand) error {
		return reported(ctx, reporter, navigator.OpenAsset(ctx, msg.ID))
	}
	handlerOpts := baseOptions(logger, openOperation, reporter, func(msg OpenAssetCommand) map[string]any {
		return map[string]any{"asset_id": msg.ID}
	})
	return &OpenAssetHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[OpenAssetCommand].
func (h *OpenAssetHandler) Execute(ctx context.Context, msg OpenAssetCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ConfirmSVGHandler stores SVG selections.
type ConfirmSVGHandler struct {
	inner *commands.Handler[ConfirmSVGCommand]
}

// NewConfirmSVGHandler creates a handler bound to service.
func NewConfirmSVGHandler(service SVGService, logger interfaces.Logger, reporter *notify.Reporter, opts ...commands.HandlerOption[ConfirmSVGCommand]) *ConfirmSVGHandler {
	exec := func(ctx context.Context, msg ConfirmSVGCommand) error {
		return service.Confirm(ctx, msg.SVG)
	}
	handlerOpts := baseOptions(logger, confirmOperation, reporter, func(msg ConfirmSVGCommand) map[string]any {
		return map[string]any{"svg_id": msg.SVG.ID}
	})
	return &ConfirmSVGHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[ConfirmSVGCommand].
func (h *ConfirmSVGHandler) Execute(ctx context.Context, msg ConfirmSVGCommand) error {
	return h.inner.Execute(ctx, msg)
}
