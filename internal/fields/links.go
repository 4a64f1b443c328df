package fields

import (
	"strings"

	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

// WriteMode selects how WriteLinks merges ids into the current value.
type WriteMode string

const (
	// ModeAdd appends ids that are not linked yet.
	ModeAdd WriteMode = "add"
	// ModeReplace writes exactly the supplied sequence.
	ModeReplace WriteMode = "replace"
)

// NewLink returns an asset link for id.
func NewLink(id string) interfaces.Link {
	return interfaces.Link{
		Type:     interfaces.LinkTypeName,
		LinkType: interfaces.LinkTypeAsset,
		ID:       id,
	}
}

// Links converts ids into asset links, preserving order.
func Links(ids []string) []interfaces.Link {
	if len(ids) == 0 {
		return nil
	}
	out := make([]interfaces.Link, 0, len(ids))
	for _, id := range ids {
		out = append(out, NewLink(id))
	}
	return out
}

// UniqueIDs trims ids, drops blanks and keeps the first occurrence of each id.
func UniqueIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Missing returns the ids not already present in existing, in input order.
func Missing(existing, ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	present := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		present[id] = struct{}{}
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := present[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Intersect returns the ids of ordered that are also in allowed, keeping the
// order of ordered.
func Intersect(ordered, allowed []string) []string {
	keep := make(map[string]struct{}, len(allowed))
	for _, id := range allowed {
		keep[id] = struct{}{}
	}
	out := make([]string, 0, len(ordered))
	for _, id := range ordered {
		if _, ok := keep[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// SingleValue builds a single-link value. An empty id yields an explicit null.
func SingleValue(id string) *interfaces.FieldValue {
	value := &interfaces.FieldValue{Cardinality: interfaces.CardinalitySingle}
	if id = strings.TrimSpace(id); id != "" {
		value.Links = []interfaces.Link{NewLink(id)}
	}
	return value
}

// ArrayValue builds an array value from ids, deduplicated in order.
func ArrayValue(ids []string) *interfaces.FieldValue {
	return &interfaces.FieldValue{
		Cardinality: interfaces.CardinalityArray,
		Links:       Links(UniqueIDs(ids)),
	}
}

// ValueFor builds a value of the given cardinality. Single values keep only
// the first id.
func ValueFor(cardinality interfaces.Cardinality, ids []string) *interfaces.FieldValue {
	if cardinality == interfaces.CardinalityArray {
		return ArrayValue(ids)
	}
	ids = UniqueIDs(ids)
	if len(ids) == 0 {
		return SingleValue("")
	}
	return SingleValue(ids[0])
}

// Without returns ids with every occurrence of id removed.
func Without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// Move removes the element at from and reinserts it at to. Indices outside
// items leave a copy of items unchanged.
func Move[T any](items []T, from, to int) []T {
	out := make([]T, len(items))
	copy(out, items)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out
}
