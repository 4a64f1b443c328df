package intake

import (
	"bytes"
	"io"
	"regexp"
	"strings"
)

var (
	imagePattern = regexp.MustCompile(`^image/[\w\-|+]+$`)
	urlPattern   = regexp.MustCompile(`^https?://`)
)

const (
	existingAssetPrefix = "asset-"
	transferKindFile    = "file"
	formatText          = "text/plain"
	formatURL           = "URL"
)

// File is a user supplied file. Open is called once per creation attempt.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// BytesFile wraps in-memory data as a File.
func BytesFile(name, contentType string, data []byte) File {
	return File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// IsImage reports whether contentType is an image MIME type.
func IsImage(contentType string) bool {
	return imagePattern.MatchString(contentType)
}

// TransferItem is one entry of a drag or clipboard payload.
type TransferItem struct {
	Kind string
	Type string
	File *File
}

// DataTransfer carries the string formats, items and files of a drop or paste.
type DataTransfer struct {
	Data  map[string]string
	Items []TransferItem
	Files []File
}

func (d *DataTransfer) get(format string) string {
	if d == nil || d.Data == nil {
		return ""
	}
	return d.Data[format]
}

// Event is a drop, paste or file dialog selection.
type Event struct {
	Files    []File
	Transfer *DataTransfer
}

// Intake is the classified form of an Event.
type Intake interface {
	// Kind names the intake for logs and events.
	Kind() string
	intake()
}

// FilesIntake holds files chosen in a dialog or dropped in bulk.
type FilesIntake struct{ Files []File }

// ExistingAssetIntake references an asset that already exists in the space.
type ExistingAssetIntake struct{ AssetID string }

// InlineIntake holds an image pasted or dropped as raw bytes.
type InlineIntake struct{ File File }

// RemoteURLIntake holds an image URL to import.
type RemoteURLIntake struct{ URL string }

// NoIntake means the event carried nothing usable.
type NoIntake struct{}

func (FilesIntake) intake()         {}
func (ExistingAssetIntake) intake() {}
func (InlineIntake) intake()        {}
func (RemoteURLIntake) intake()     {}
func (NoIntake) intake()            {}

func (FilesIntake) Kind() string         { return "files" }
func (ExistingAssetIntake) Kind() string { return "existing" }
func (InlineIntake) Kind() string        { return "inline" }
func (RemoteURLIntake) Kind() string     { return "remote" }
func (NoIntake) Kind() string            { return "none" }

// Classify picks the first usable payload of ev: files, then an existing
// asset reference, then inline image bytes, then an http(s) URL.
func Classify(ev Event) Intake {
	files := ev.Files
	if len(files) == 0 && ev.Transfer != nil {
		files = ev.Transfer.Files
	}
	if len(files) > 0 {
		return FilesIntake{Files: files}
	}
	if ev.Transfer == nil {
		return NoIntake{}
	}

	if text := ev.Transfer.get(formatText); strings.HasPrefix(text, existingAssetPrefix) {
		if id := strings.TrimPrefix(text, existingAssetPrefix); id != "" {
			return ExistingAssetIntake{AssetID: id}
		}
	}

	for _, item := range ev.Transfer.Items {
		if item.Kind != transferKindFile || item.File == nil || !IsImage(item.Type) {
			continue
		}
		file := *item.File
		if file.ContentType == "" {
			file.ContentType = item.Type
		}
		return InlineIntake{File: file}
	}

	if raw := ev.Transfer.get(formatURL); urlPattern.MatchString(raw) {
		return RemoteURLIntake{URL: raw}
	}
	return NoIntake{}
}
