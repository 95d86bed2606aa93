package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/wizard"
)

const validDraft = `{
  "item": {"name": "Nova Eau", "description": "Bright citrus", "price": 89.9,
           "stock": 12, "sizeMl": 100, "genre": "unisex", "releaseDate": "2024-05-01"},
  "itemImage": "bottle.png",
  "brand": {"existingId": 3},
  "category": {"new": {"name": "Fresh", "description": "Citrus notes"}}
}`

// pngHeader is enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func writeDraft(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bottle.png"), pngHeader, 0o600))
	path := filepath.Join(dir, "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"PERFUMECTL_CATALOG_BASE_URL", "PERFUMECTL_TOKEN"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestLoadDraft(t *testing.T) {
	d, err := loadDraft(writeDraft(t, validDraft))
	require.NoError(t, err)

	assert.Equal(t, "Nova Eau", d.Item.Name)
	require.NotNil(t, d.Brand.ExistingID)
	assert.Equal(t, int64(3), *d.Brand.ExistingID)
	require.NotNil(t, d.Category.New)
	assert.Equal(t, "Fresh", d.Category.New.Name)
}

func TestLoadDraft_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"both brand choices", `{"brand": {"existingId": 1, "new": {"name": "X"}}}`, "brand: set either"},
		{"both category choices", `{"category": {"existingId": 1, "new": {"name": "X"}}}`, "category: set either"},
		{"unknown field", `{"colour": "amber"}`, "unknown field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadDraft(writeDraft(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDraftApply_FillsStore(t *testing.T) {
	d, err := loadDraft(writeDraft(t, validDraft))
	require.NoError(t, err)

	s := wizard.NewStore()
	brands, categories := d.placeholders()
	s.SetAvailableBrands(brands)
	s.SetAvailableCategories(categories)
	require.NoError(t, d.apply(s))

	st := s.Snapshot()
	assert.True(t, st.IsOpen)
	assert.True(t, st.UseExistingBrand)
	require.NotNil(t, st.SelectedBrandID)
	assert.Equal(t, int64(3), *st.SelectedBrandID)
	assert.False(t, st.UseExistingCategory)
	assert.Equal(t, "Citrus notes", st.NewCategory.Description)
	require.NotNil(t, st.ItemImage)
	assert.Equal(t, "image/png", st.ItemImage.ContentType)
	assert.Equal(t, "bottle.png", st.ItemImage.FileName)
	assert.Empty(t, wizard.ValidateAll(st))
}

func TestDraftApply_RejectsNonImage(t *testing.T) {
	path := writeDraft(t, `{"itemImage": "notes.txt"}`)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "notes.txt"), []byte("plain text"), 0o600))
	d, err := loadDraft(path)
	require.NoError(t, err)

	err = d.apply(wizard.NewStore())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an image")
}

func TestValidateCommand_Valid(t *testing.T) {
	out, err := run(t, "validate", writeDraft(t, validDraft))

	require.NoError(t, err)
	assert.Contains(t, out, "draft is valid")
}

func TestValidateCommand_ReportsEveryStep(t *testing.T) {
	out, err := run(t, "validate", writeDraft(t, `{
	  "item": {"name": "Nova Eau", "description": "x", "genre": "unisex", "price": 0,
	           "stock": 1, "sizeMl": 50, "releaseDate": "2024-05-01"},
	  "category": {"existingId": 7}
	}`))

	require.Error(t, err)
	assert.Contains(t, out, "price must be greater than 0")
	assert.Contains(t, out, "brand name is required")
	assert.NotContains(t, out, "category")
}

func TestCreateCommand_RequiresToken(t *testing.T) {
	_, err := run(t, "create", writeDraft(t, validDraft), "--catalog", "http://127.0.0.1:1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "token required")
}

func TestCreateCommand_ExpiredToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "seller-9", "exp": time.Now().Add(-time.Hour).Unix()})

	_, err := run(t, "create", writeDraft(t, validDraft), "--catalog", "http://127.0.0.1:1", "--token", token)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestCreateCommand_CreatesItem(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "seller-9", "role": "SELLER", "exp": time.Now().Add(time.Hour).Unix()})

	var created map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		switch r.Method + " " + r.URL.Path {
		case "GET /api/brands":
			_, _ = w.Write([]byte(`[{"id":3,"name":"Maison"}]`))
		case "POST /api/files/upload":
			_, _ = w.Write([]byte(`{"filePath":"uploads/bottle.png"}`))
		case "POST /api/categories":
			_, _ = w.Write([]byte(`{"data":{"id":9,"name":"Fresh"}}`))
		case "POST /api/perfumes":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			_, _ = w.Write([]byte(`{"id":101}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	out, err := run(t, "create", writeDraft(t, validDraft), "--catalog", srv.URL, "--token", token)
	require.NoError(t, err)

	var result struct {
		Item struct {
			ID int64 `json:"id"`
		} `json:"item"`
		CategoryCreated bool `json:"categoryCreated"`
		BrandCreated    bool `json:"brandCreated"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, int64(101), result.Item.ID)
	assert.True(t, result.CategoryCreated)
	assert.False(t, result.BrandCreated)

	assert.Equal(t, float64(3), created["brandId"])
	assert.Equal(t, float64(9), created["categoryId"])
	assert.Equal(t, srv.URL+"/uploads/bottle.png", created["imageUrl"])
}

func TestCreateCommand_UnknownBrand(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "seller-9", "exp": time.Now().Add(time.Hour).Unix()})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":4,"name":"Other"}]`))
	}))
	defer srv.Close()

	_, err := run(t, "create", writeDraft(t, validDraft), "--catalog", srv.URL, "--token", token)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "brand 3 does not exist")
}
