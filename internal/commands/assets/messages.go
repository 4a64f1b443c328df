package assetcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-cms-assetfield/internal/fields"
	"github.com/goliatone/go-cms-assetfield/internal/intake"
	"github.com/goliatone/go-cms-assetfield/internal/svgpicker"
)

const (
	linkAssetsMessageType  = "assetfield.assets.link"
	unlinkAssetMessageType = "assetfield.assets.unlink"
	unlinkAllMessageType   = "assetfield.assets.unlink_all"
	reorderMessageType     = "assetfield.assets.reorder"
	intakeMessageType      = "assetfield.assets.intake"
	pickAssetsMessageType  = "assetfield.assets.pick"
	openAssetMessageType   = "assetfield.assets.open"
	confirmSVGMessageType  = "assetfield.svg.confirm"
)

// LinkAssetsCommand links existing assets to the field.
type LinkAssetsCommand struct {
	IDs  []string         `json:"ids"`
	Mode fields.WriteMode `json:"mode,omitempty"`
}

// Type implements command.Message.
func (LinkAssetsCommand) Type() string { return linkAssetsMessageType }

// Validate requires at least one non-blank id and a known mode.
func (cmd LinkAssetsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.IDs, validation.Required, validation.Each(validation.By(nonBlank("assetfield.assets.link.id_blank", "asset id cannot be blank")))),
		validation.Field(&cmd.Mode, validation.In(fields.ModeAdd, fields.ModeReplace)),
	)
}

// UnlinkAssetCommand removes one link from the field.
type UnlinkAssetCommand struct {
	ID string `json:"id"`
}

// Type implements command.Message.
func (UnlinkAssetCommand) Type() string { return unlinkAssetMessageType }

// Validate requires the asset id.
func (cmd UnlinkAssetCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ID, validation.Required, validation.By(nonBlank("assetfield.assets.unlink.id_blank", "asset id cannot be blank"))),
	)
}

// UnlinkAllCommand empties the field.
type UnlinkAllCommand struct{}

// Type implements command.Message.
func (UnlinkAllCommand) Type() string { return unlinkAllMessageType }

// Validate implements command.Message.
func (UnlinkAllCommand) Validate() error { return nil }

// ReorderAssetsCommand carries the outcome of a drag gesture. A nil
// Destination means the drag ended outside the list.
type ReorderAssetsCommand struct {
	Source      int  `json:"source"`
	Destination *int `json:"destination,omitempty"`
}

// Type implements command.Message.
func (ReorderAssetsCommand) Type() string { return reorderMessageType }

// Validate rejects negative positions.
func (cmd ReorderAssetsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Source, validation.Min(0)),
		validation.Field(&cmd.Destination, validation.By(func(value any) error {
			if dest, ok := value.(*int); ok && dest != nil && *dest < 0 {
				return validation.NewError("assetfield.assets.reorder.destination_negative", "destination cannot be negative")
			}
			return nil
		})),
	)
}

// IntakeCommand hands a drop or paste event to the intake pipeline.
type IntakeCommand struct {
	Event intake.Event `json:"-"`
}

// Type implements command.Message.
func (IntakeCommand) Type() string { return intakeMessageType }

// Validate implements command.Message. Unusable events resolve to a no-op intake.
func (IntakeCommand) Validate() error { return nil }

// PickAssetsCommand opens the host asset picker.
type PickAssetsCommand struct{}

// Type implements command.Message.
func (PickAssetsCommand) Type() string { return pickAssetsMessageType }

// Validate implements command.Message.
func (PickAssetsCommand) Validate() error { return nil }

// OpenAssetCommand opens the host editor for a linked asset.
type OpenAssetCommand struct {
	ID string `json:"id"`
}

// Type implements command.Message.
func (OpenAssetCommand) Type() string { return openAssetMessageType }

// Validate requires the asset id.
func (cmd OpenAssetCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ID, validation.Required),
	)
}

// ConfirmSVGCommand stores the chosen SVG in the text field.
type ConfirmSVGCommand struct {
	SVG svgpicker.SVG `json:"svg"`
}

// Type implements command.Message.
func (ConfirmSVGCommand) Type() string { return confirmSVGMessageType }

// Validate implements command.Message. An empty selection is a no-op.
func (ConfirmSVGCommand) Validate() error { return nil }

func nonBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
