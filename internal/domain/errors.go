package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSaveInProgress = errors.New("a save is already in progress")
	ErrWizardClosed   = errors.New("wizard is not open")
	ErrNoStore        = errors.New("seller has no store")
)

// ErrorKind is the technical nature of a failure.
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"
	KindPermission       ErrorKind = "permission"
	KindNetwork          ErrorKind = "network"
	KindRemoteRejection  ErrorKind = "remote_rejection"
	KindIntegrityFailure ErrorKind = "integrity_failure"
)

// SaveCategory is what the seller is told went wrong.
type SaveCategory string

const (
	CategoryImage            SaveCategory = "image"
	CategoryBrandCreation    SaveCategory = "brand_creation"
	CategoryCategoryCreation SaveCategory = "category_creation"
	CategoryValidation       SaveCategory = "validation"
	CategoryItemCreation     SaveCategory = "item_creation"
	CategoryPermission       SaveCategory = "permission"
	CategoryNetwork          SaveCategory = "network"
)

var categoryLabels = map[SaveCategory]string{
	CategoryImage:            "Image upload",
	CategoryBrandCreation:    "Brand creation",
	CategoryCategoryCreation: "Category creation",
	CategoryValidation:       "Validation",
	CategoryItemCreation:     "Item creation",
	CategoryPermission:       "Permission",
	CategoryNetwork:          "Network",
}

// Label returns the human-readable name of c.
func (c SaveCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Code returns the API error code for c, e.g. SAVE_BRAND_CREATION.
func (c SaveCategory) Code() string {
	return "SAVE_" + strings.ToUpper(string(c))
}

// SavePhase is a stage of one save run.
type SavePhase string

const (
	PhaseIdle              SavePhase = "idle"
	PhaseUploading         SavePhase = "uploading"
	PhaseResolvingBrand    SavePhase = "resolving_brand"
	PhaseResolvingCategory SavePhase = "resolving_category"
	PhaseCreatingItem      SavePhase = "creating_item"
	PhaseSucceeded         SavePhase = "succeeded"
	PhaseFailed            SavePhase = "failed"
)

// SaveError is the single categorized outcome of a failed save.
type SaveError struct {
	Category   SaveCategory
	Kind       ErrorKind
	Phase      SavePhase
	Detail     string
	Violations []string
	Err        error
}

func (e *SaveError) Error() string {
	switch {
	case len(e.Violations) > 0:
		return fmt.Sprintf("%s failed: %s", e.Category.Label(), strings.Join(e.Violations, "; "))
	case e.Detail != "":
		return fmt.Sprintf("%s failed: %s", e.Category.Label(), e.Detail)
	default:
		return e.Category.Label() + " failed"
	}
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// AsSaveError extracts a *SaveError from err's chain.
func AsSaveError(err error) (*SaveError, bool) {
	var se *SaveError
	ok := errors.As(err, &se)
	return se, ok
}
