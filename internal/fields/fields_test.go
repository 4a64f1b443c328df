package fields_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-assetfield/internal/fields"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

func intPtr(v int) *int { return &v }

func TestUniqueIDsKeepsFirstOccurrence(t *testing.T) {
	got := fields.UniqueIDs([]string{"a", " b ", "a", "", "c", "b"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v got %v", want, got)
	}
}

func TestMissingFiltersExisting(t *testing.T) {
	got := fields.Missing([]string{"a", "b"}, []string{"b", "c", "d"})
	if !reflect.DeepEqual(got, []string{"c", "d"}) {
		t.Fatalf("unexpected missing ids %v", got)
	}
}

func TestIntersectKeepsOrder(t *testing.T) {
	got := fields.Intersect([]string{"c", "a", "b"}, []string{"a", "c", "d"})
	if !reflect.DeepEqual(got, []string{"c", "a"}) {
		t.Fatalf("unexpected intersection %v", got)
	}
}

func TestMoveReinsertsAtDestination(t *testing.T) {
	items := []string{"item0", "item1", "item2", "item3"}
	got := fields.Move(items, 2, 0)
	want := []string{"item2", "item0", "item1", "item3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v got %v", want, got)
	}
	if items[0] != "item0" {
		t.Fatalf("expected input to stay untouched, got %v", items)
	}
	if got := fields.Move(items, 1, 9); !reflect.DeepEqual(got, items) {
		t.Fatalf("expected out-of-range move to be a no-op, got %v", got)
	}
}

func TestValueForSingleKeepsFirstID(t *testing.T) {
	value := fields.ValueFor(interfaces.CardinalitySingle, []string{"x", "y"})
	if value.Len() != 1 || value.Links[0].ID != "x" {
		t.Fatalf("expected single link x, got %+v", value)
	}
	if value.Links[0].Type != "Link" || value.Links[0].LinkType != "Asset" {
		t.Fatalf("unexpected link shape %+v", value.Links[0])
	}
}

func TestMaxAssets(t *testing.T) {
	cases := []struct {
		name string
		desc interfaces.FieldDescriptor
		want int
	}{
		{"default", interfaces.FieldDescriptor{Type: interfaces.CardinalityArray}, 10},
		{"size validator", interfaces.FieldDescriptor{
			Type: interfaces.CardinalityArray,
			Validations: []interfaces.Validation{
				{LinkMimetypeGroup: []string{"image"}},
				{Size: &interfaces.SizeRange{Min: intPtr(1), Max: intPtr(4)}},
			},
		}, 4},
		{"size without max", interfaces.FieldDescriptor{
			Type:        interfaces.CardinalityArray,
			Validations: []interfaces.Validation{{Size: &interfaces.SizeRange{Min: intPtr(2)}}},
		}, 10},
		{"single link", interfaces.FieldDescriptor{Type: interfaces.CardinalitySingle}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := fields.MaxAssets(tc.desc, 0); got != tc.want {
				t.Fatalf("expected %d got %d", tc.want, got)
			}
		})
	}
}

func TestAvailableSlots(t *testing.T) {
	value := fields.ArrayValue([]string{"a", "b", "c", "d", "e", "f", "g", "h"})
	if got := fields.AvailableSlots(interfaces.CardinalityArray, value, 10); got != 2 {
		t.Fatalf("expected 2 slots, got %d", got)
	}
	if got := fields.AvailableSlots(interfaces.CardinalityArray, value, 5); got != 0 {
		t.Fatalf("expected slots to floor at zero, got %d", got)
	}
	if got := fields.AvailableSlots(interfaces.CardinalitySingle, fields.SingleValue("a"), 1); got != 1 {
		t.Fatalf("expected single field to allow replacement, got %d", got)
	}
}

func TestResolveLocale(t *testing.T) {
	single := interfaces.FieldDescriptor{Type: interfaces.CardinalitySingle, Locale: "de-DE", DefaultLocale: "en-US"}
	if got := fields.ResolveLocale(single); got != "en-US" {
		t.Fatalf("expected default locale for link field, got %s", got)
	}
	array := interfaces.FieldDescriptor{Type: interfaces.CardinalityArray, Locale: "de-DE", DefaultLocale: "en-US"}
	if got := fields.ResolveLocale(array); got != "de-DE" {
		t.Fatalf("expected field locale for array field, got %s", got)
	}
}

func TestDecodeArrayPayload(t *testing.T) {
	raw := []byte(`[{"sys":{"type":"Link","linkType":"Asset","id":"a"}},{"sys":{"type":"Link","linkType":"Asset","id":"b"}}]`)
	value, err := fields.Decode(raw, interfaces.CardinalityArray)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(value.IDs(), []string{"a", "b"}) {
		t.Fatalf("unexpected ids %v", value.IDs())
	}
}

func TestDecodeDistinguishesAbsentAndNull(t *testing.T) {
	absent, err := fields.Decode(nil, interfaces.CardinalitySingle)
	if err != nil || absent != nil {
		t.Fatalf("expected absent value, got %+v (%v)", absent, err)
	}
	null, err := fields.Decode([]byte("null"), interfaces.CardinalitySingle)
	if err != nil {
		t.Fatalf("decode null: %v", err)
	}
	if null == nil || null.Len() != 0 {
		t.Fatalf("expected explicit null value, got %+v", null)
	}
}

func TestDecodeRejectsForeignLinks(t *testing.T) {
	raw := []byte(`{"sys":{"type":"Link","linkType":"Entry","id":"a"}}`)
	if _, err := fields.Decode(raw, interfaces.CardinalitySingle); !errors.Is(err, fields.ErrValueInvalid) {
		t.Fatalf("expected ErrValueInvalid, got %v", err)
	}
}

func TestEncodeRoundTripsThroughDecode(t *testing.T) {
	raw, err := fields.Encode(fields.ArrayValue([]string{"x", "y"}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(raw), `"sys"`) {
		t.Fatalf("expected sys wrapper, got %s", raw)
	}
	value, err := fields.Decode(raw, interfaces.CardinalityArray)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(value.IDs(), []string{"x", "y"}) {
		t.Fatalf("unexpected ids %v", value.IDs())
	}
}

func TestCapacityErrorCategoryAndMessage(t *testing.T) {
	err := fields.ExceedsCapacity(3, 2, 10)

	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if !errors.Is(err, fields.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	var capErr *fields.CapacityError
	if !errors.As(err, &capErr) || capErr.Available != 2 {
		t.Fatalf("expected capacity details, got %v", err)
	}
	if msg := fields.UserMessage(err); !strings.Contains(msg, "up to 2 more") {
		t.Fatalf("unexpected user message %q", msg)
	}
}

func TestStepErrorSurfacesCauseMessage(t *testing.T) {
	cause := errors.New("processing quota exhausted")
	err := fields.FailStep(fields.StepProcess, "cat.png", cause)

	if !errors.Is(err, fields.ErrStepFailed) || !errors.Is(err, cause) {
		t.Fatalf("expected both sentinel and cause in chain, got %v", err)
	}
	if msg := fields.UserMessage(err); msg != "processing quota exhausted" {
		t.Fatalf("unexpected user message %q", msg)
	}
}

func TestUserMessageFallsBackToRootCause(t *testing.T) {
	err := goerrors.Wrap(errors.New("boom"), goerrors.CategoryCommand, "command execution failed")
	if msg := fields.UserMessage(err); msg != "boom" {
		t.Fatalf("expected root cause message, got %q", msg)
	}
}
