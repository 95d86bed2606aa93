package wizard

import (
	"errors"
	"strings"

	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/domain"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/validator"
)

type identityFields struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Genre       string `json:"genre" validate:"notblank"`
}

type commerceFields struct {
	Price       float64 `json:"price" validate:"gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	SizeML      float64 `json:"sizeMl" validate:"gt=0"`
	ReleaseDate string  `json:"releaseDate" validate:"notblank"`
}

// ValidateStep1 checks the item's name, description and genre.
func ValidateStep1(s domain.WizardState) []string {
	return messages(validator.Validate(identityFields{
		Name:        s.Item.Name,
		Description: s.Item.Description,
		Genre:       s.Item.Genre,
	}))
}

// ValidateStep2 checks price, stock, bottle size and release date.
func ValidateStep2(s domain.WizardState) []string {
	return messages(validator.Validate(commerceFields{
		Price:       s.Item.Price,
		Stock:       s.Item.Stock,
		SizeML:      s.Item.SizeML,
		ReleaseDate: s.Item.ReleaseDate,
	}))
}

// ValidateStep3 checks that a category is either selected or fully described.
func ValidateStep3(s domain.WizardState) []string {
	if s.UseExistingCategory {
		if s.SelectedCategoryID == nil {
			return []string{"select an existing category"}
		}
		return nil
	}
	return requireText(
		"category name", s.NewCategory.Name,
		"category description", s.NewCategory.Description,
	)
}

// ValidateStep4 checks that a brand is either selected or fully described.
func ValidateStep4(s domain.WizardState) []string {
	if s.UseExistingBrand {
		if s.SelectedBrandID == nil {
			return []string{"select an existing brand"}
		}
		return nil
	}
	return requireText(
		"brand name", s.NewBrand.Name,
		"brand description", s.NewBrand.Description,
	)
}

// ValidateStep dispatches to the validator for step n. Unknown steps are valid.
func ValidateStep(s domain.WizardState, n int) []string {
	switch n {
	case domain.StepIdentity:
		return ValidateStep1(s)
	case domain.StepCommerce:
		return ValidateStep2(s)
	case domain.StepCategory:
		return ValidateStep3(s)
	case domain.StepBrand:
		return ValidateStep4(s)
	default:
		return nil
	}
}

// ValidateAll runs every step validator in order, whatever the current step.
func ValidateAll(s domain.WizardState) []string {
	var all []string
	for n := domain.FirstStep; n <= domain.LastStep; n++ {
		all = append(all, ValidateStep(s, n)...)
	}
	return all
}

// ValidateNumbers re-checks the numeric item fields right before item creation.
func ValidateNumbers(item domain.ItemDraft) []string {
	var out []string
	if item.Price <= 0 {
		out = append(out, "price must be greater than 0")
	}
	if item.Stock < 0 {
		out = append(out, "stock must be greater than or equal to 0")
	}
	if item.SizeML <= 0 {
		out = append(out, "sizeMl must be greater than 0")
	}
	return out
}

func messages(err error) []string {
	if err == nil {
		return nil
	}
	var ve *validator.ValidationError
	if errors.As(err, &ve) {
		return ve.Messages()
	}
	return []string{err.Error()}
}

// requireText takes label/value pairs and reports each blank value.
func requireText(pairs ...string) []string {
	var out []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			out = append(out, pairs[i]+" is required")
		}
	}
	return out
}
