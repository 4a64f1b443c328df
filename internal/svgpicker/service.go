// Package svgpicker lists SVG assets of a tag group and stores the chosen
// SVG URL in a text field.
package svgpicker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-assetfield/internal/logging"
	"github.com/goliatone/go-cms-assetfield/internal/notify"
	"github.com/goliatone/go-cms-assetfield/pkg/activity"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

const (
	// ContentType is the only file type listed.
	ContentType = "image/svg+xml"
	// DefaultLimit caps one listing.
	DefaultLimit = 100
	// DefaultScheme prefixes protocol-relative file URLs.
	DefaultScheme = "https:"

	untitled = "Untitled"
)

var (
	// ErrGroupRequired reports a picker without a configured tag group.
	ErrGroupRequired = errors.New("svgpicker: svg group parameter is not set")
	// ErrSelectionFailed reports a selection that could not be stored.
	ErrSelectionFailed = errors.New("svgpicker: selection failed")
	// ErrTextFieldUnavailable reports a missing host text field.
	ErrTextFieldUnavailable = errors.New("svgpicker: text field unavailable")
)

// SVG is one pickable asset.
type SVG struct {
	ID    string
	Title string
	URL   string
}

// Listing is the result of Load. Selected is set when the stored field value
// matches a listed SVG.
type Listing struct {
	Items    []SVG
	Selected *SVG
}

// Option customises the service.
type Option func(*Service)

// WithGroup sets the tag group listed by Load.
func WithGroup(group string) Option {
	return func(s *Service) {
		s.group = strings.TrimSpace(group)
	}
}

// WithLimit caps the number of assets requested.
func WithLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithScheme overrides the prefix added to file URLs.
func WithScheme(scheme string) Option {
	return func(s *Service) {
		if trimmed := strings.TrimSpace(scheme); trimmed != "" {
			s.scheme = trimmed
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		s.logger = logging.Ensure(logger)
	}
}

// WithReporter sets the reporter used for failures and confirmations.
func WithReporter(reporter *notify.Reporter) Option {
	return func(s *Service) {
		if reporter != nil {
			s.reporter = reporter
		}
	}
}

// WithActivity sets the emitter receiving insert events.
func WithActivity(emitter *activity.Emitter) Option {
	return func(s *Service) {
		s.activity = emitter
	}
}

// Service backs the SVG picker field.
type Service struct {
	space    interfaces.AssetSpace
	text     interfaces.TextFieldAPI
	reporter *notify.Reporter
	logger   interfaces.Logger
	activity *activity.Emitter

	group  string
	limit  int
	scheme string
}

// NewService builds a picker over space writing into text.
func NewService(space interfaces.AssetSpace, text interfaces.TextFieldAPI, opts ...Option) (*Service, error) {
	if space == nil {
		return nil, errors.New("svgpicker: asset space unavailable")
	}
	if text == nil {
		return nil, ErrTextFieldUnavailable
	}
	s := &Service{
		space:  space,
		text:   text,
		logger: logging.NoOp(),
		limit:  DefaultLimit,
		scheme: DefaultScheme,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.reporter == nil {
		s.reporter = notify.NewReporter(nil, s.logger)
	}
	return s, nil
}

// Load lists the SVG assets tagged with the configured group.
func (s *Service) Load(ctx context.Context) (*Listing, error) {
	if s.group == "" {
		err := goerrors.Wrap(&userError{err: ErrGroupRequired, message: "SVG Group parameter is not set."}, goerrors.CategoryValidation, "svg group required").
			WithTextCode("SVG_GROUP_REQUIRED")
		s.reporter.Error(ctx, err)
		return nil, err
	}

	collection, err := s.space.GetAssets(ctx, interfaces.AssetQuery{
		TagIDs: []string{s.group},
		Limit:  s.limit,
	})
	if err != nil {
		err = goerrors.Wrap(err, goerrors.CategoryExternal, "list svg assets").
			WithTextCode("SVG_LIST_FAILED")
		s.reporter.Error(ctx, err)
		return nil, err
	}

	listing := &Listing{}
	if collection != nil {
		for _, asset := range collection.Items {
			if asset == nil || asset.File == nil || asset.File.ContentType != ContentType {
				continue
			}
			title := asset.Title
			if title == "" {
				title = untitled
			}
			listing.Items = append(listing.Items, SVG{
				ID:    asset.ID,
				Title: title,
				URL:   s.scheme + asset.File.URL,
			})
		}
	}

	current, ok, err := s.text.GetText(ctx)
	if err != nil {
		s.logger.Warn("svgpicker.current.read_failed", "error", err)
	} else if ok && current != "" {
		for i := range listing.Items {
			if listing.Items[i].URL == current {
				selected := listing.Items[i]
				listing.Selected = &selected
				break
			}
		}
	}

	s.logger.Debug("svgpicker.loaded", "group", s.group, "count", len(listing.Items))
	return listing, nil
}

// Search keeps the SVGs whose title contains term, ignoring case.
func Search(items []SVG, term string) []SVG {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}
	out := make([]SVG, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), term) {
			out = append(out, item)
		}
	}
	return out
}

// Confirm stores the URL of svg in the text field. An empty selection is ignored.
func (s *Service) Confirm(ctx context.Context, svg SVG) error {
	if svg.URL == "" {
		return nil
	}
	if err := s.text.SetText(ctx, svg.URL); err != nil {
		failure := &userError{err: fmt.Errorf("%w: %w", ErrSelectionFailed, err), message: "Failed to handle SVG selection."}
		wrapped := goerrors.Wrap(failure, goerrors.CategoryExternal, "store svg selection").
			WithTextCode("SVG_SELECTION_FAILED")
		s.logger.Error("svgpicker.confirm.failed", "id", svg.ID, "error", err)
		s.reporter.Error(ctx, wrapped)
		return wrapped
	}

	s.reporter.Success(ctx, fmt.Sprintf(`SVG "%s" has been inserted.`, svg.Title))
	if s.activity.Enabled() {
		if err := s.activity.Emit(ctx, activity.Event{
			Verb:       activity.VerbInserted,
			ObjectType: "asset",
			ObjectID:   svg.ID,
			Metadata:   map[string]any{"url": svg.URL, "group": s.group},
		}); err != nil {
			s.logger.Warn("svgpicker.activity.failed", "error", err)
		}
	}
	return nil
}

// userError pairs an internal error with the text shown to the user.
type userError struct {
	err     error
	message string
}

func (e *userError) Error() string       { return e.err.Error() }
func (e *userError) Unwrap() error       { return e.err }
func (e *userError) UserMessage() string { return e.message }
