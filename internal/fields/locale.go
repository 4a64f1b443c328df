package fields

import (
	"strings"

	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

// ResolveLocale picks the locale values are read and written under. Single
// link fields use the host default locale; other fields use their own.
func ResolveLocale(desc interfaces.FieldDescriptor) string {
	if desc.Type == interfaces.CardinalitySingle {
		if locale := strings.TrimSpace(desc.DefaultLocale); locale != "" {
			return locale
		}
	}
	if locale := strings.TrimSpace(desc.Locale); locale != "" {
		return locale
	}
	return strings.TrimSpace(desc.DefaultLocale)
}
