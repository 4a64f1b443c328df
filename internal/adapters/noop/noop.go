package noop

import (
	"context"
	"errors"

	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

// ErrNavigationUnavailable is returned by Navigator when the host cannot open editors.
var ErrNavigationUnavailable = errors.New("noop: navigation unavailable")

// Notifier returns an interfaces.Notifier that drops every message.
func Notifier() interfaces.Notifier {
	return notifier{}
}

type notifier struct{}

func (notifier) Notify(context.Context, interfaces.NotifyLevel, string) {}

// Dialogs returns dialogs that behave as if the user always cancelled.
func Dialogs() interfaces.AssetDialogs {
	return dialogs{}
}

type dialogs struct{}

func (dialogs) SelectMultipleAssets(context.Context, interfaces.AssetPickerOptions) ([]*interfaces.Asset, error) {
	return nil, nil
}

// Navigator returns a navigator that refuses to open anything.
func Navigator() interfaces.Navigator {
	return navigator{}
}

type navigator struct{}

func (navigator) OpenAsset(context.Context, string) error {
	return ErrNavigationUnavailable
}
