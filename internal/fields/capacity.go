package fields

import "github.com/goliatone/go-cms-assetfield/pkg/interfaces"

// DefaultMaxAssets applies when the field carries no size validation.
const DefaultMaxAssets = 10

// MaxAssets returns the max of the first size validation carrying one, or
// fallback when none does. Single-link fields are capped at one.
func MaxAssets(desc interfaces.FieldDescriptor, fallback int) int {
	if fallback <= 0 {
		fallback = DefaultMaxAssets
	}
	max := fallback
	for _, rule := range desc.Validations {
		if rule.Size != nil && rule.Size.Max != nil {
			max = *rule.Size.Max
			break
		}
	}
	if max < 0 {
		max = 0
	}
	if desc.Type != interfaces.CardinalityArray && max > 1 {
		max = 1
	}
	return max
}

// AvailableSlots returns how many links can still be added to value. Writes
// to single-link fields replace the current link, so they always have room
// for one when max allows it.
func AvailableSlots(cardinality interfaces.Cardinality, value *interfaces.FieldValue, max int) int {
	if cardinality != interfaces.CardinalityArray {
		if max > 0 {
			return 1
		}
		return 0
	}
	available := max - value.Len()
	if available < 0 {
		return 0
	}
	return available
}
