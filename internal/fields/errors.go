package fields

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrOnlyImages reports files rejected because their MIME type is not image/*.
	ErrOnlyImages = errors.New("fields: only images are allowed")
	// ErrCapacityExceeded reports a write that would push the field past its maximum.
	ErrCapacityExceeded = errors.New("fields: asset capacity exceeded")
	// ErrStepFailed reports a failed remote step of an asset creation sequence.
	ErrStepFailed = errors.New("fields: asset creation step failed")
	// ErrResolutionFailed reports a linked asset that could not be resolved.
	ErrResolutionFailed = errors.New("fields: asset resolution failed")
	// ErrFieldUnavailable reports a missing host field API.
	ErrFieldUnavailable = errors.New("fields: field api unavailable")
	// ErrSpaceUnavailable reports a missing host asset space.
	ErrSpaceUnavailable = errors.New("fields: asset space unavailable")
	// ErrValueInvalid reports a raw field value that does not match the link schema.
	ErrValueInvalid = errors.New("fields: field value invalid")
)

const (
	codeOnlyImages       = "ASSET_ONLY_IMAGES"
	codeCapacityExceeded = "ASSET_CAPACITY_EXCEEDED"
	codeStepFailed       = "ASSET_STEP_FAILED"
	codeResolutionFailed = "ASSET_RESOLUTION_FAILED"
)

// UserMessenger is implemented by errors carrying text meant for the editor user.
type UserMessenger interface {
	UserMessage() string
}

// Step names one stage of the asset creation sequence.
type Step string

const (
	StepRead    Step = "read"
	StepUpload  Step = "upload"
	StepCreate  Step = "create"
	StepProcess Step = "process"
	StepAwait   Step = "await"
	StepPublish Step = "publish"
	StepLink    Step = "link"
)

// RejectedFilesError lists files dropped for not being images.
type RejectedFilesError struct {
	Files []string
}

func (e *RejectedFilesError) Error() string {
	if e == nil || len(e.Files) == 0 {
		return ErrOnlyImages.Error()
	}
	return fmt.Sprintf("%s: %s", ErrOnlyImages.Error(), strings.Join(e.Files, ", "))
}

func (e *RejectedFilesError) Unwrap() error { return ErrOnlyImages }

func (e *RejectedFilesError) UserMessage() string { return "Only images are allowed" }

// CapacityError captures a request for more slots than the field has left.
type CapacityError struct {
	Available int
	Requested int
	Max       int
}

func (e *CapacityError) Error() string {
	if e == nil {
		return ErrCapacityExceeded.Error()
	}
	return fmt.Sprintf("%s: requested=%d available=%d max=%d", ErrCapacityExceeded.Error(), e.Requested, e.Available, e.Max)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

func (e *CapacityError) UserMessage() string {
	available := 0
	if e != nil && e.Available > 0 {
		available = e.Available
	}
	return fmt.Sprintf("You can only add up to %d more asset(s).", available)
}

// StepError captures the failure of one creation step for one intake item.
type StepError struct {
	Step     Step
	FileName string
	Err      error
}

func (e *StepError) Error() string {
	if e == nil {
		return ErrStepFailed.Error()
	}
	return fmt.Sprintf("%s: file=%q step=%s: %v", ErrStepFailed.Error(), e.FileName, e.Step, e.Err)
}

func (e *StepError) Unwrap() []error {
	if e == nil || e.Err == nil {
		return []error{ErrStepFailed}
	}
	return []error{ErrStepFailed, e.Err}
}

func (e *StepError) UserMessage() string {
	if e == nil || e.Err == nil {
		return "Upload failed"
	}
	return UserMessage(e.Err)
}

// ResolutionError captures a failed asset lookup for a linked id.
type ResolutionError struct {
	ID  string
	Err error
}

func (e *ResolutionError) Error() string {
	if e == nil {
		return ErrResolutionFailed.Error()
	}
	return fmt.Sprintf("%s: id=%s: %v", ErrResolutionFailed.Error(), e.ID, e.Err)
}

func (e *ResolutionError) Unwrap() []error {
	if e == nil || e.Err == nil {
		return []error{ErrResolutionFailed}
	}
	return []error{ErrResolutionFailed, e.Err}
}

func (e *ResolutionError) UserMessage() string {
	if e == nil || e.Err == nil {
		return "Linked asset could not be loaded"
	}
	return UserMessage(e.Err)
}

// RejectFiles returns a categorised validation error for non-image files.
func RejectFiles(names ...string) error {
	return goerrors.Wrap(&RejectedFilesError{Files: names}, goerrors.CategoryValidation, "only images are allowed").
		WithTextCode(codeOnlyImages)
}

// ExceedsCapacity returns a categorised validation error for an over-capacity request.
func ExceedsCapacity(requested, available, max int) error {
	if available < 0 {
		available = 0
	}
	return goerrors.Wrap(&CapacityError{Available: available, Requested: requested, Max: max}, goerrors.CategoryValidation, "asset capacity exceeded").
		WithTextCode(codeCapacityExceeded)
}

// FailStep returns a categorised remote failure for one creation step.
func FailStep(step Step, fileName string, err error) error {
	return goerrors.Wrap(&StepError{Step: step, FileName: fileName, Err: err}, goerrors.CategoryExternal, "asset creation step failed").
		WithTextCode(codeStepFailed)
}

// FailResolution returns a categorised remote failure for an asset lookup.
func FailResolution(id string, err error) error {
	return goerrors.Wrap(&ResolutionError{ID: id, Err: err}, goerrors.CategoryExternal, "asset resolution failed").
		WithTextCode(codeResolutionFailed)
}

// UserMessage returns the text shown to the editor user for err: the first
// user-facing message in the chain, otherwise the innermost error text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var messenger UserMessenger
	if errors.As(err, &messenger) {
		if msg := strings.TrimSpace(messenger.UserMessage()); msg != "" {
			return msg
		}
	}
	root := err
	for {
		next := errors.Unwrap(root)
		if next == nil {
			break
		}
		root = next
	}
	return root.Error()
}
