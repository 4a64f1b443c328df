package interfaces

import "context"

// FieldAPI exposes read/write access to the asset field hosted by the CMS editor.
type FieldAPI interface {
	// Descriptor returns the static field properties (type, locales, validations).
	Descriptor() FieldDescriptor
	// GetValue returns the persisted value for the locale. A nil value means absent.
	GetValue(ctx context.Context, locale string) (*FieldValue, error)
	// SetValue persists the value for the locale.
	SetValue(ctx context.Context, value *FieldValue, locale string) error
	// RemoveValue makes the value absent for the locale.
	RemoveValue(ctx context.Context, locale string) error
	// OnValueChanged registers a callback for every committed change, including
	// changes written by the caller. The returned function detaches the callback.
	OnValueChanged(fn func(*FieldValue)) (detach func())
}

// TextFieldAPI exposes a plain text field, used by the SVG picker to store a URL.
type TextFieldAPI interface {
	GetText(ctx context.Context) (string, bool, error)
	SetText(ctx context.Context, value string) error
}

// AssetSpace is the host asset backend: lookup, upload, processing and publishing.
type AssetSpace interface {
	GetAsset(ctx context.Context, id string) (*Asset, error)
	GetAssets(ctx context.Context, query AssetQuery) (*AssetCollection, error)
	CreateUpload(ctx context.Context, data []byte) (*Upload, error)
	CreateAsset(ctx context.Context, draft AssetDraft) (*Asset, error)
	ProcessAsset(ctx context.Context, asset *Asset, locale string) error
	WaitUntilAssetProcessed(ctx context.Context, id, locale string) (*Asset, error)
	PublishAsset(ctx context.Context, asset *Asset) (*Asset, error)
}

// AssetDialogs opens host dialogs. SelectMultipleAssets returns a nil slice and
// a nil error when the user cancels.
type AssetDialogs interface {
	SelectMultipleAssets(ctx context.Context, opts AssetPickerOptions) ([]*Asset, error)
}

// NotifyLevel classifies user notifications.
type NotifyLevel string

const (
	NotifyError   NotifyLevel = "error"
	NotifyWarning NotifyLevel = "warning"
	NotifySuccess NotifyLevel = "success"
)

// Notifier surfaces transient messages to the editor user.
type Notifier interface {
	Notify(ctx context.Context, level NotifyLevel, message string)
}

// Navigator opens host editors.
type Navigator interface {
	OpenAsset(ctx context.Context, id string) error
}
