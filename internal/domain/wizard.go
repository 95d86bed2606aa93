package domain

import (
	"encoding/base64"
	"encoding/json"
	"slices"
)

// Wizard steps.
const (
	StepIdentity = 1
	StepCommerce = 2
	StepCategory = 3
	StepBrand    = 4
	FirstStep    = StepIdentity
	LastStep     = StepBrand
)

// Image is an in-memory file selected by the seller but not yet uploaded.
// The bytes stay server-side; JSON carries only the file metadata and size.
type Image struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

func (i Image) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		FileName    string `json:"fileName"`
		ContentType string `json:"contentType"`
		Size        int    `json:"size"`
	}{i.FileName, i.ContentType, len(i.Data)})
}

// DataURL encodes the image as an RFC 2397 data URL.
func (i *Image) DataURL() string {
	ct := i.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

func (i *Image) clone() *Image {
	if i == nil {
		return nil
	}
	c := *i
	c.Data = slices.Clone(i.Data)
	return &c
}

// ItemDraft holds the perfume fields entered on steps 1 and 2.
type ItemDraft struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	SizeML      float64 `json:"sizeMl"`
	Genre       string  `json:"genre"`
	ReleaseDate string  `json:"releaseDate"`
}

// ItemDraftPatch is a partial update; nil fields are left unchanged.
type ItemDraftPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	SizeML      *float64 `json:"sizeMl,omitempty"`
	Genre       *string  `json:"genre,omitempty"`
	ReleaseDate *string  `json:"releaseDate,omitempty"`
}

// Apply copies the non-nil fields of p onto d.
func (d *ItemDraft) Apply(p ItemDraftPatch) {
	setIf(&d.Name, p.Name)
	setIf(&d.Description, p.Description)
	setIf(&d.Price, p.Price)
	setIf(&d.Stock, p.Stock)
	setIf(&d.SizeML, p.SizeML)
	setIf(&d.Genre, p.Genre)
	setIf(&d.ReleaseDate, p.ReleaseDate)
}

// BrandDraft is a brand the seller wants created alongside the item.
type BrandDraft struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	CountryOrigin string `json:"countryOrigin"`
	Image         *Image `json:"image,omitempty"`
}

type BrandDraftPatch struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	CountryOrigin *string `json:"countryOrigin,omitempty"`
}

func (d *BrandDraft) Apply(p BrandDraftPatch) {
	setIf(&d.Name, p.Name)
	setIf(&d.Description, p.Description)
	setIf(&d.CountryOrigin, p.CountryOrigin)
}

// CategoryDraft is a category the seller wants created alongside the item.
type CategoryDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       *Image `json:"image,omitempty"`
}

type CategoryDraftPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (d *CategoryDraft) Apply(p CategoryDraftPatch) {
	setIf(&d.Name, p.Name)
	setIf(&d.Description, p.Description)
}

// WizardState is the full state of one seller's product-creation wizard.
type WizardState struct {
	CurrentStep  int  `json:"currentStep"`
	IsOpen       bool `json:"isOpen"`
	StoreCreated bool `json:"storeCreated"`
	IsSaving     bool `json:"isSaving"`

	Item      ItemDraft `json:"item"`
	ItemImage *Image    `json:"itemImage,omitempty"`

	AvailableBrands     []Brand    `json:"availableBrands"`
	AvailableCategories []Category `json:"availableCategories"`

	UseExistingBrand    bool   `json:"useExistingBrand"`
	SelectedBrandID     *int64 `json:"selectedBrandId"`
	UseExistingCategory bool   `json:"useExistingCategory"`
	SelectedCategoryID  *int64 `json:"selectedCategoryId"`

	NewBrand    BrandDraft    `json:"newBrand"`
	NewCategory CategoryDraft `json:"newCategory"`
}

// NewWizardState returns the initial, closed state.
func NewWizardState() WizardState {
	return WizardState{
		CurrentStep:         FirstStep,
		AvailableBrands:     []Brand{},
		AvailableCategories: []Category{},
	}
}

// Clone returns a deep copy that shares no memory with s.
func (s WizardState) Clone() WizardState {
	c := s
	c.ItemImage = s.ItemImage.clone()
	c.NewBrand.Image = s.NewBrand.Image.clone()
	c.NewCategory.Image = s.NewCategory.Image.clone()
	c.AvailableBrands = slices.Clone(s.AvailableBrands)
	c.AvailableCategories = slices.Clone(s.AvailableCategories)
	c.SelectedBrandID = cloneID(s.SelectedBrandID)
	c.SelectedCategoryID = cloneID(s.SelectedCategoryID)
	return c
}

// ClearDrafts resets everything the seller typed or picked. Step, open flag,
// store flag, saving flag and the available lists are left alone.
func (s *WizardState) ClearDrafts() {
	s.Item = ItemDraft{}
	s.ItemImage = nil
	s.NewBrand = BrandDraft{}
	s.NewCategory = CategoryDraft{}
	s.UseExistingBrand = false
	s.UseExistingCategory = false
	s.SelectedBrandID = nil
	s.SelectedCategoryID = nil
}

// HasBrand reports whether id is among the available brands.
func (s *WizardState) HasBrand(id int64) bool {
	return slices.ContainsFunc(s.AvailableBrands, func(b Brand) bool { return b.ID == id })
}

// HasCategory reports whether id is among the available categories.
func (s *WizardState) HasCategory(id int64) bool {
	return slices.ContainsFunc(s.AvailableCategories, func(c Category) bool { return c.ID == id })
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
