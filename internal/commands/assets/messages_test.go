package assetcmd

import (
	"testing"

	"github.com/goliatone/go-cms-assetfield/internal/fields"
)

func TestLinkAssetsCommandValidate(t *testing.T) {
	if err := (LinkAssetsCommand{}).Validate(); err == nil {
		t.Fatal("expected error when ids missing")
	}
	if err := (LinkAssetsCommand{IDs: []string{"a", " "}}).Validate(); err == nil {
		t.Fatal("expected error for blank id")
	}
	if err := (LinkAssetsCommand{IDs: []string{"a"}, Mode: "merge"}).Validate(); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if err := (LinkAssetsCommand{IDs: []string{"a"}, Mode: fields.ModeReplace}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReorderAssetsCommandValidate(t *testing.T) {
	negative := -1
	if err := (ReorderAssetsCommand{Source: 0, Destination: &negative}).Validate(); err == nil {
		t.Fatal("expected error for negative destination")
	}
	if err := (ReorderAssetsCommand{Source: -2}).Validate(); err == nil {
		t.Fatal("expected error for negative source")
	}
	zero := 0
	if err := (ReorderAssetsCommand{Source: 2, Destination: &zero}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (ReorderAssetsCommand{Source: 2}).Validate(); err != nil {
		t.Fatalf("drop outside the list should validate: %v", err)
	}
}

func TestUnlinkAndOpenRequireID(t *testing.T) {
	if err := (UnlinkAssetCommand{ID: "  "}).Validate(); err == nil {
		t.Fatal("expected unlink error for blank id")
	}
	if err := (OpenAssetCommand{}).Validate(); err == nil {
		t.Fatal("expected open error for empty id")
	}
}
