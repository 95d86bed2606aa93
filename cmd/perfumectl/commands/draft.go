package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/domain"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/wizard"
)

const maxImageBytes = 5 << 20

// draft is the on-disk form of one wizard run.
type draft struct {
	Item      domain.ItemDraft `json:"item"`
	ItemImage string           `json:"itemImage,omitempty"`
	Brand     brandChoice      `json:"brand"`
	Category  categoryChoice   `json:"category"`

	dir string
}

type brandChoice struct {
	ExistingID *int64    `json:"existingId,omitempty"`
	New        *newBrand `json:"new,omitempty"`
}

type newBrand struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	CountryOrigin string `json:"countryOrigin"`
	Image         string `json:"image,omitempty"`
}

type categoryChoice struct {
	ExistingID *int64       `json:"existingId,omitempty"`
	New        *newCategory `json:"new,omitempty"`
}

type newCategory struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

func loadDraft(path string) (*draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open draft: %w", err)
	}
	defer func() { _ = f.Close() }()

	var d draft
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", path, err)
	}
	if d.Brand.ExistingID != nil && d.Brand.New != nil {
		return nil, errors.New("brand: set either existingId or new, not both")
	}
	if d.Category.ExistingID != nil && d.Category.New != nil {
		return nil, errors.New("category: set either existingId or new, not both")
	}
	d.dir = filepath.Dir(path)
	return &d, nil
}

// apply replays the draft onto an opened store the way a seller would fill
// in the wizard. Existing ids must already be among the store's available
// lists, otherwise the selection stays empty and validation reports it.
func (d *draft) apply(s *wizard.Store) error {
	s.SetStoreCreated(true)
	s.Open()

	item := d.Item
	s.UpdateItemDraft(domain.ItemDraftPatch{
		Name:        &item.Name,
		Description: &item.Description,
		Price:       &item.Price,
		Stock:       &item.Stock,
		SizeML:      &item.SizeML,
		Genre:       &item.Genre,
		ReleaseDate: &item.ReleaseDate,
	})
	img, err := d.image(d.ItemImage)
	if err != nil {
		return fmt.Errorf("item image: %w", err)
	}
	s.SetItemImage(img)

	if id := d.Category.ExistingID; id != nil {
		s.UseExistingCategory(true)
		s.SelectCategory(*id)
	} else if c := d.Category.New; c != nil {
		s.UpdateNewCategory(domain.CategoryDraftPatch{Name: &c.Name, Description: &c.Description})
		img, err := d.image(c.Image)
		if err != nil {
			return fmt.Errorf("category image: %w", err)
		}
		s.SetCategoryImage(img)
	}

	if id := d.Brand.ExistingID; id != nil {
		s.UseExistingBrand(true)
		s.SelectBrand(*id)
	} else if b := d.Brand.New; b != nil {
		s.UpdateNewBrand(domain.BrandDraftPatch{Name: &b.Name, Description: &b.Description, CountryOrigin: &b.CountryOrigin})
		img, err := d.image(b.Image)
		if err != nil {
			return fmt.Errorf("brand image: %w", err)
		}
		s.SetBrandImage(img)
	}
	return nil
}

// placeholders makes every referenced id selectable without asking the catalog.
func (d *draft) placeholders() ([]domain.Brand, []domain.Category) {
	var (
		brands     []domain.Brand
		categories []domain.Category
	)
	if id := d.Brand.ExistingID; id != nil {
		brands = append(brands, domain.Brand{ID: *id})
	}
	if id := d.Category.ExistingID; id != nil {
		categories = append(categories, domain.Category{ID: *id})
	}
	return brands, categories
}

func (d *draft) image(rel string) (*domain.Image, error) {
	if rel == "" {
		return nil, nil
	}
	path := rel
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.dir, rel)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxImageBytes {
		return nil, fmt.Errorf("%s is larger than %d bytes", rel, maxImageBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	if mt, _, _ := mime.ParseMediaType(ct); !strings.HasPrefix(mt, "image/") {
		return nil, fmt.Errorf("%s is not an image (%s)", rel, ct)
	}
	return &domain.Image{FileName: filepath.Base(path), ContentType: ct, Data: data}, nil
}
