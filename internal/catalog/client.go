package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/domain"
	apperrors "github.com/Maverickd18/Frontend-Perfume-sub000/pkg/errors"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/httpclient"
)

const serviceName = "catalog"

// maxResponseBytes bounds how much of a catalog response is read.
const maxResponseBytes = 4 << 20

// Config holds the catalog endpoints.
type Config struct {
	// BaseURL is the catalog API root, e.g. http://catalog:8080.
	BaseURL string
	// PublicFileHost is prefixed to relative upload paths returned as filePath.
	PublicFileHost string
}

// Client talks to the catalog service on behalf of one seller credential per call.
type Client struct {
	http   httpclient.Doer
	cfg    Config
	logger *slog.Logger
}

// NewClient creates a catalog client. doer is normally a *httpclient.CircuitBreakerClient.
func NewClient(doer httpclient.Doer, cfg Config, logger *slog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{http: doer, cfg: cfg, logger: logger}
}

// UploadImage uploads img as multipart field "file" and returns its public URL.
func (c *Client) UploadImage(ctx context.Context, token string, img *domain.Image) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	name := img.FileName
	if name == "" {
		name = uuid.NewString() + extensionFor(img.ContentType)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(name)))
	ct := img.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	header.Set("Content-Type", ct)

	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return "", fmt.Errorf("write multipart part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	body, err := c.send(ctx, token, http.MethodPost, "/api/files/upload", mw.FormDataContentType(), buf.Bytes())
	if err != nil {
		return "", err
	}
	return decodeURL(body, c.cfg.PublicFileHost)
}

// CreateBrand creates a brand and returns it with the id assigned by the catalog.
func (c *Client) CreateBrand(ctx context.Context, token string, b domain.NewBrand) (domain.Brand, error) {
	body, err := c.postJSON(ctx, token, "/api/brands", b)
	if err != nil {
		return domain.Brand{}, err
	}
	return decodeBrand(body, b)
}

// CreateCategory creates a category and returns it with its new id.
func (c *Client) CreateCategory(ctx context.Context, token string, cat domain.NewCategory) (domain.Category, error) {
	body, err := c.postJSON(ctx, token, "/api/categories", cat)
	if err != nil {
		return domain.Category{}, err
	}
	return decodeCategory(body, cat)
}

// CreateItem creates the perfume.
func (c *Client) CreateItem(ctx context.Context, token string, item domain.NewItem) (domain.CreatedItem, error) {
	body, err := c.postJSON(ctx, token, "/api/perfumes", item)
	if err != nil {
		return domain.CreatedItem{}, err
	}
	return decodeItem(body, item)
}

func (c *Client) ListBrands(ctx context.Context, token string) ([]domain.Brand, error) {
	body, err := c.send(ctx, token, http.MethodGet, "/api/brands", "", nil)
	if err != nil {
		return nil, err
	}
	return decodeBrands(body)
}

func (c *Client) ListCategories(ctx context.Context, token string) ([]domain.Category, error) {
	body, err := c.send(ctx, token, http.MethodGet, "/api/categories", "", nil)
	if err != nil {
		return nil, err
	}
	return decodeCategories(body)
}

// GetMyStore returns the caller's store, or domain.ErrNoStore when the catalog
// answers 404.
func (c *Client) GetMyStore(ctx context.Context, token string) (*domain.Store, error) {
	body, err := c.send(ctx, token, http.MethodGet, "/api/stores/my-store", "", nil)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrNoStore
		}
		return nil, err
	}
	return decodeStore(body)
}

// Ping reports whether the catalog answers at all; any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.send(ctx, "", http.MethodGet, "/api/brands", "", nil)
	if err != nil && httpclient.IsNetworkError(err) {
		return err
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, token, path string, v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", path, err)
	}
	return c.send(ctx, token, http.MethodPost, path, "application/json", payload)
}

// send performs one request and returns the body of a 2xx response. Error
// statuses come back as *apperrors.AppError; transport failures and an open
// breaker are returned unchanged so callers can tell them apart.
func (c *Client) send(ctx context.Context, token, method, path, contentType string, payload []byte) ([]byte, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.logger.WarnContext(ctx, "catalog request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, httpclient.ClassifyError(err, serviceName)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &httpclient.TransportError{Attempts: 1, Err: fmt.Errorf("read %s response: %w", path, err)}
	}
	return data, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
