package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-assetfield/internal/adapters/memory"
	"github.com/goliatone/go-cms-assetfield/internal/fields"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

func arrayField() interfaces.FieldDescriptor {
	return interfaces.FieldDescriptor{ID: "gallery", Type: interfaces.CardinalityArray, Locale: "en-US", DefaultLocale: "en-US"}
}

func TestHostSetValueNotifiesListeners(t *testing.T) {
	host := memory.NewHost(arrayField())
	var seen []*interfaces.FieldValue
	detach := host.OnValueChanged(func(v *interfaces.FieldValue) {
		seen = append(seen, v)
	})

	ctx := context.Background()
	if err := host.SetValue(ctx, fields.ArrayValue([]string{"a", "b"}), "en-US"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if len(seen) != 1 || seen[0].Len() != 2 {
		t.Fatalf("expected one notification with two links, got %+v", seen)
	}

	detach()
	if err := host.RemoveValue(ctx, "en-US"); err != nil {
		t.Fatalf("remove value: %v", err)
	}
	if len(seen) != 1 {
		t.Fatalf("detached listener still notified")
	}

	got, err := host.GetValue(ctx, "en-US")
	if err != nil {
		t.Fatalf("get value: %v", err)
	}
	if got != nil {
		t.Fatalf("expected absent value, got %+v", got)
	}
	if host.Writes() != 2 {
		t.Fatalf("expected 2 writes, got %d", host.Writes())
	}
}

func TestHostAssetLifecycleVersions(t *testing.T) {
	host := memory.NewHost(arrayField(), memory.WithNamespace("test"))
	ctx := context.Background()

	upload, err := host.CreateUpload(ctx, []byte("png"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	asset, err := host.CreateAsset(ctx, interfaces.AssetDraft{
		Locale: "en-US",
		Title:  "cat.png",
		File:   interfaces.AssetFileDraft{FileName: "cat.png", ContentType: "image/png", UploadID: upload.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if asset.Version != 1 || asset.Published() {
		t.Fatalf("expected fresh draft, got %+v", asset)
	}

	if err := host.ProcessAsset(ctx, asset, "en-US"); err != nil {
		t.Fatalf("process: %v", err)
	}
	processed, err := host.WaitUntilAssetProcessed(ctx, asset.ID, "en-US")
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if processed.File.URL == "" {
		t.Fatalf("expected processed url")
	}

	published, err := host.PublishAsset(ctx, processed)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !published.Published() {
		t.Fatalf("expected published asset, got version=%d published=%d", published.Version, published.PublishedVersion)
	}
}

func TestHostCreateAssetRejectsUnknownUpload(t *testing.T) {
	host := memory.NewHost(arrayField())
	_, err := host.CreateAsset(context.Background(), interfaces.AssetDraft{
		File: interfaces.AssetFileDraft{FileName: "x.png", UploadID: "missing"},
	})
	if !errors.Is(err, memory.ErrUploadNotFound) {
		t.Fatalf("expected ErrUploadNotFound, got %v", err)
	}
}

func TestHostAwaitRequiresProcessing(t *testing.T) {
	host := memory.NewHost(arrayField())
	ctx := context.Background()
	asset, err := host.CreateAsset(ctx, interfaces.AssetDraft{File: interfaces.AssetFileDraft{FileName: "x.png", UploadURL: "https://example.com/x.png"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := host.WaitUntilAssetProcessed(ctx, asset.ID, "en-US"); !errors.Is(err, memory.ErrNotProcessed) {
		t.Fatalf("expected ErrNotProcessed, got %v", err)
	}
}

func TestHostGetAssetsFiltersByTagAndType(t *testing.T) {
	host := memory.NewHost(arrayField())
	host.AddAsset(interfaces.Asset{ID: "svg-1", Tags: []string{"icons"}, File: &interfaces.AssetFile{ContentType: "image/svg+xml"}})
	host.AddAsset(interfaces.Asset{ID: "png-1", Tags: []string{"icons"}, File: &interfaces.AssetFile{ContentType: "image/png"}})
	host.AddAsset(interfaces.Asset{ID: "svg-2", Tags: []string{"other"}, File: &interfaces.AssetFile{ContentType: "image/svg+xml"}})

	got, err := host.GetAssets(context.Background(), interfaces.AssetQuery{TagIDs: []string{"icons"}, ContentType: "image/svg+xml", Limit: 10})
	if err != nil {
		t.Fatalf("get assets: %v", err)
	}
	if got.Total != 1 || len(got.Items) != 1 || got.Items[0].ID != "svg-1" {
		t.Fatalf("unexpected collection: %+v", got)
	}
}

func TestHostFaultsAndNotifications(t *testing.T) {
	boom := errors.New("boom")
	host := memory.NewHost(arrayField(), memory.WithFaults(memory.Faults{
		GetAsset: func(string) error { return boom },
	}))
	host.AddAsset(interfaces.Asset{ID: "a"})
	ctx := context.Background()
	if _, err := host.GetAsset(ctx, "a"); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}

	host.Notify(ctx, interfaces.NotifyError, "nope")
	notes := host.Notifications()
	if len(notes) != 1 || notes[0].Level != interfaces.NotifyError || notes[0].Message != "nope" {
		t.Fatalf("unexpected notifications: %+v", notes)
	}

	if err := host.OpenAsset(ctx, "a"); err != nil {
		t.Fatalf("open asset: %v", err)
	}
	if opened := host.Opened(); len(opened) != 1 || opened[0] != "a" {
		t.Fatalf("unexpected opened ids: %v", opened)
	}
}

func TestHostDialogCancelledWithoutPicker(t *testing.T) {
	host := memory.NewHost(arrayField())
	assets, err := host.SelectMultipleAssets(context.Background(), interfaces.AssetPickerOptions{Max: 3})
	if err != nil || assets != nil {
		t.Fatalf("expected cancelled dialog, got %v %v", assets, err)
	}
}
