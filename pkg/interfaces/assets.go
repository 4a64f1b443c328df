package interfaces

// Cardinality mirrors the host field type: a single asset link or an ordered list of links.
type Cardinality string

const (
	// CardinalitySingle identifies fields holding at most one asset link.
	CardinalitySingle Cardinality = "Link"
	// CardinalityArray identifies fields holding an ordered list of asset links.
	CardinalityArray Cardinality = "Array"
)

const (
	// LinkTypeName is the type tag carried by every link.
	LinkTypeName = "Link"
	// LinkTypeAsset is the only link target supported by asset fields.
	LinkTypeAsset = "Asset"
)

// Link is an opaque reference from a field value to an asset identifier.
type Link struct {
	Type     string `json:"type"`
	LinkType string `json:"linkType"`
	ID       string `json:"id"`
}

// FieldValue is the host-persisted value of an asset field.
//
// A nil *FieldValue means the value is absent. A single-link value without
// links is an explicit null.
type FieldValue struct {
	Cardinality Cardinality
	Links       []Link
}

// Len reports how many links the value holds. Nil values hold none.
func (v *FieldValue) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Links)
}

// IDs returns the linked asset identifiers in value order.
func (v *FieldValue) IDs() []string {
	if v == nil || len(v.Links) == 0 {
		return nil
	}
	ids := make([]string, 0, len(v.Links))
	for _, link := range v.Links {
		ids = append(ids, link.ID)
	}
	return ids
}

// SizeRange captures the host "size" validation.
type SizeRange struct {
	Min *int `json:"min,omitempty" yaml:"min,omitempty"`
	Max *int `json:"max,omitempty" yaml:"max,omitempty"`
}

// Validation is a single host validation rule attached to a field.
type Validation struct {
	Size              *SizeRange `json:"size,omitempty" yaml:"size,omitempty"`
	LinkMimetypeGroup []string   `json:"linkMimetypeGroup,omitempty" yaml:"link_mimetype_group,omitempty"`
	LinkContentType   []string   `json:"linkContentType,omitempty" yaml:"link_content_type,omitempty"`
}

// FieldDescriptor describes the static properties of the field being edited.
type FieldDescriptor struct {
	ID            string       `yaml:"id"`
	Type          Cardinality  `yaml:"type"`
	Locale        string       `yaml:"locale"`
	DefaultLocale string       `yaml:"default_locale"`
	Validations   []Validation `yaml:"validations"`
}

// AssetFile describes the file attached to an asset.
type AssetFile struct {
	FileName    string
	ContentType string
	URL         string
	UploadID    string
	UploadURL   string
}

// Asset is a read-only copy of a host-managed asset record.
type Asset struct {
	ID               string
	Version          int
	PublishedVersion int
	Title            string
	Description      string
	File             *AssetFile
	Tags             []string
}

// Published reports whether the asset has no unpublished edits since its last publish.
func (a *Asset) Published() bool {
	if a == nil {
		return false
	}
	return a.Version == a.PublishedVersion+1
}

// FileName returns the asset file name when present.
func (a *Asset) FileName() string {
	if a == nil || a.File == nil {
		return ""
	}
	return a.File.FileName
}

// Upload is a raw byte upload staged on the host before an asset record references it.
type Upload struct {
	ID string
}

// AssetFileDraft configures the file of a new asset. Exactly one of UploadID or
// UploadURL is expected to be set.
type AssetFileDraft struct {
	FileName    string
	ContentType string
	UploadID    string
	UploadURL   string
}

// AssetDraft is the payload used to create a new asset record.
type AssetDraft struct {
	Locale      string
	Title       string
	Description string
	File        AssetFileDraft
}

// AssetQuery filters asset listings.
type AssetQuery struct {
	TagIDs      []string
	ContentType string
	Limit       int
	Skip        int
}

// AssetCollection is a page of assets returned by the host.
type AssetCollection struct {
	Items []*Asset
	Total int
}

// AssetPickerOptions constrains the host multi-asset picker.
type AssetPickerOptions struct {
	Title        string
	ContentTypes []string
	Min          int
	Max          int
}
