package domain

// Brand is a brand as known to the catalog service.
type Brand struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	CountryOrigin string `json:"countryOrigin,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
}

// Category is a category as known to the catalog service.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Store is the seller's storefront.
type Store struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewItem is the fully resolved record sent to the catalog to create a perfume.
type NewItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	SizeML      float64 `json:"sizeMl"`
	Genre       string  `json:"genre"`
	ReleaseDate string  `json:"releaseDate"`
	BrandID     int64   `json:"brandId"`
	CategoryID  int64   `json:"categoryId"`
	ImageURL    *string `json:"imageUrl"`
}

// NewBrand is the brand-create request body.
type NewBrand struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	CountryOrigin string `json:"countryOrigin"`
	ImageURL      string `json:"imageUrl,omitempty"`
}

// NewCategory is the category-create request body.
type NewCategory struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// CreatedItem is the perfume the catalog created at the end of a save.
type CreatedItem struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	BrandID    int64   `json:"brandId"`
	CategoryID int64   `json:"categoryId"`
	ImageURL   *string `json:"imageUrl"`
}
