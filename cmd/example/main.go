package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	assetfield "github.com/goliatone/go-cms-assetfield"
	"github.com/goliatone/go-cms-assetfield/internal/adapters/memory"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg := assetfield.DefaultConfig()
	if *configPath != "" {
		loaded, err := assetfield.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	cfg.Features.Logger = true
	cfg.Features.SVGPicker = true
	if cfg.SVG.Group == "" {
		cfg.SVG.Group = "icons"
	}

	ctx := context.Background()
	limit := 4
	host := memory.NewHost(interfaces.FieldDescriptor{
		ID:            "gallery",
		Type:          interfaces.CardinalityArray,
		Locale:        cfg.DefaultLocale,
		DefaultLocale: cfg.DefaultLocale,
		Validations:   []interfaces.Validation{{Size: &interfaces.SizeRange{Max: &limit}}},
	}, memory.WithPicker(func(opts interfaces.AssetPickerOptions) ([]*interfaces.Asset, error) {
		fmt.Printf("picker opened: %q, up to %d asset(s)\n", opts.Title, opts.Max)
		return nil, nil
	}))
	hero := host.AddAsset(interfaces.Asset{Title: "Hero"})
	host.AddAsset(interfaces.Asset{Title: "Arrow", Tags: []string{"icons"}, File: &interfaces.AssetFile{
		FileName: "arrow.svg", ContentType: "image/svg+xml", URL: "//assets.memory.local/arrow.svg",
	}})

	module, err := assetfield.New(cfg, assetfield.Host{
		Field:     host,
		Space:     host,
		Dialogs:   host,
		Notifier:  host,
		Navigator: host,
		Text:      host,
	}, assetfield.WithUploadObserver(func(task assetfield.Task) {
		fmt.Printf("upload %s %-8s %3d%%\n", task.FileName, task.State, task.Percent)
	}))
	if err != nil {
		log.Fatalf("new module: %v", err)
	}
	defer module.Close()

	unsubscribe := module.Subscribe(func(assets []*interfaces.Asset) {
		fmt.Printf("field now links %s\n", describe(assets))
	})
	defer unsubscribe()

	if err := module.Start(ctx); err != nil {
		log.Fatalf("start: %v", err)
	}

	if err := module.Drop(ctx, assetfield.Event{
		Files: []assetfield.File{
			assetfield.BytesFile("beach.png", "image/png", []byte("png")),
			assetfield.BytesFile("notes.txt", "text/plain", []byte("txt")),
		},
	}); err != nil {
		fmt.Printf("drop: %v\n", err)
	}
	if err := module.LinkExisting(ctx, hero.ID); err != nil {
		log.Fatalf("link: %v", err)
	}
	zero := 0
	if err := module.Reorder(ctx, 1, &zero); err != nil {
		log.Fatalf("reorder: %v", err)
	}
	if err := module.PickExisting(ctx); err != nil {
		log.Fatalf("pick: %v", err)
	}

	listing, err := module.SVGs(ctx)
	if err != nil {
		log.Fatalf("svgs: %v", err)
	}
	if matches := assetfield.SearchSVGs(listing.Items, "arrow"); len(matches) > 0 {
		if err := module.ConfirmSVG(ctx, matches[0]); err != nil {
			log.Fatalf("confirm svg: %v", err)
		}
	}

	for _, note := range host.Notifications() {
		fmt.Printf("[%s] %s\n", note.Level, note.Message)
	}
	fmt.Printf("published: %t, slots left: %d/%d\n", module.Published(), module.RemainingSlots(), module.MaxAssets())
}

func describe(assets []*interfaces.Asset) string {
	if len(assets) == 0 {
		return "nothing"
	}
	titles := make([]string, 0, len(assets))
	for _, asset := range assets {
		titles = append(titles, asset.Title)
	}
	return strings.Join(titles, ", ")
}
