package catalog

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/domain"
)

var (
	// ErrMissingIdentifier means a create call succeeded but no id could be found in the response.
	ErrMissingIdentifier = errors.New("catalog response has no identifier")
	// ErrMissingURL means an upload succeeded but no usable file URL was returned.
	ErrMissingURL = errors.New("catalog response has no file url")
	// ErrUnexpectedShape means a list response matched none of the known layouts.
	ErrUnexpectedShape = errors.New("catalog response has an unexpected shape")
)

// Known single-entity shapes, highest priority first: {"data": {...}} then {...}.
var entityRoots = []string{"data", "@this"}

// Known list shapes: {"data": [...]}, {"data": {"content": [...]}}, {"content": [...]}, [...].
var listRoots = []string{"data", "data.content", "content", "@this"}

var urlFields = []string{"fileUrl", "url", "imageUrl"}

// entity returns the object carrying the created entity.
func entity(body []byte) gjson.Result {
	for _, root := range entityRoots {
		if r := gjson.GetBytes(body, root); r.IsObject() {
			return r
		}
	}
	return gjson.Result{}
}

// identifier reads a positive integer id from obj, accepting numeric strings.
func identifier(obj gjson.Result, path string) (int64, bool) {
	r := obj.Get(path)
	switch r.Type {
	case gjson.Number:
		if id := r.Int(); id > 0 && float64(id) == r.Num {
			return id, true
		}
	case gjson.String:
		if id, err := strconv.ParseInt(strings.TrimSpace(r.Str), 10, 64); err == nil && id > 0 {
			return id, true
		}
	}
	return 0, false
}

func decodeBrand(body []byte, sent domain.NewBrand) (domain.Brand, error) {
	obj := entity(body)
	id, ok := identifier(obj, "id")
	if !ok {
		return domain.Brand{}, ErrMissingIdentifier
	}
	return domain.Brand{
		ID:            id,
		Name:          stringOr(obj, "name", sent.Name),
		Description:   stringOr(obj, "description", sent.Description),
		CountryOrigin: stringOr(obj, "countryOrigin", sent.CountryOrigin),
		ImageURL:      obj.Get("imageUrl").String(),
	}, nil
}

func decodeCategory(body []byte, sent domain.NewCategory) (domain.Category, error) {
	obj := entity(body)
	id, ok := identifier(obj, "id")
	if !ok {
		return domain.Category{}, ErrMissingIdentifier
	}
	return domain.Category{
		ID:          id,
		Name:        stringOr(obj, "name", sent.Name),
		Description: stringOr(obj, "description", sent.Description),
	}, nil
}

func decodeItem(body []byte, sent domain.NewItem) (domain.CreatedItem, error) {
	obj := entity(body)
	id, ok := identifier(obj, "id")
	if !ok {
		return domain.CreatedItem{}, ErrMissingIdentifier
	}

	item := domain.CreatedItem{
		ID:         id,
		Name:       stringOr(obj, "name", sent.Name),
		BrandID:    sent.BrandID,
		CategoryID: sent.CategoryID,
		ImageURL:   sent.ImageURL,
	}
	if v, ok := firstID(obj, "brandId", "brand.id"); ok {
		item.BrandID = v
	}
	if v, ok := firstID(obj, "categoryId", "category.id"); ok {
		item.CategoryID = v
	}
	if r := obj.Get("imageUrl"); r.Type == gjson.String && r.Str != "" {
		u := r.Str
		item.ImageURL = &u
	}
	return item, nil
}

func decodeStore(body []byte) (*domain.Store, error) {
	obj := entity(body)
	id, ok := identifier(obj, "id")
	if !ok {
		return nil, ErrMissingIdentifier
	}
	return &domain.Store{ID: id, Name: obj.Get("name").String()}, nil
}

// decodeURL finds the uploaded file's public URL. Absolute URL fields win over
// filePath, which is joined to publicHost; the data envelope is tried first.
func decodeURL(body []byte, publicHost string) (string, error) {
	roots := []string{"data.", ""}
	for _, root := range roots {
		for _, f := range urlFields {
			if r := gjson.GetBytes(body, root+f); r.Type == gjson.String && r.Str != "" {
				return r.Str, nil
			}
		}
	}
	for _, root := range roots {
		r := gjson.GetBytes(body, root+"filePath")
		if r.Type != gjson.String || r.Str == "" {
			continue
		}
		if strings.HasPrefix(r.Str, "http://") || strings.HasPrefix(r.Str, "https://") {
			return r.Str, nil
		}
		if publicHost == "" {
			break
		}
		return strings.TrimRight(publicHost, "/") + "/" + strings.TrimLeft(r.Str, "/"), nil
	}
	return "", ErrMissingURL
}

// list returns the elements of the first known list layout in body.
func list(body []byte) ([]gjson.Result, error) {
	for _, root := range listRoots {
		if r := gjson.GetBytes(body, root); r.IsArray() {
			return r.Array(), nil
		}
	}
	return nil, ErrUnexpectedShape
}

func decodeBrands(body []byte) ([]domain.Brand, error) {
	elems, err := list(body)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Brand, 0, len(elems))
	for _, e := range elems {
		id, ok := identifier(e, "id")
		if !ok {
			continue
		}
		out = append(out, domain.Brand{
			ID:            id,
			Name:          e.Get("name").String(),
			Description:   e.Get("description").String(),
			CountryOrigin: e.Get("countryOrigin").String(),
			ImageURL:      e.Get("imageUrl").String(),
		})
	}
	return out, nil
}

func decodeCategories(body []byte) ([]domain.Category, error) {
	elems, err := list(body)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(elems))
	for _, e := range elems {
		id, ok := identifier(e, "id")
		if !ok {
			continue
		}
		out = append(out, domain.Category{
			ID:          id,
			Name:        e.Get("name").String(),
			Description: e.Get("description").String(),
		})
	}
	return out, nil
}

func firstID(obj gjson.Result, paths ...string) (int64, bool) {
	for _, p := range paths {
		if id, ok := identifier(obj, p); ok {
			return id, true
		}
	}
	return 0, false
}

func stringOr(obj gjson.Result, path, fallback string) string {
	if r := obj.Get(path); r.Type == gjson.String && r.Str != "" {
		return r.Str
	}
	return fallback
}
