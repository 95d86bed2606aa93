package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/domain"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/service"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/wizard"
	apperrors "github.com/Maverickd18/Frontend-Perfume-sub000/pkg/errors"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/httputil"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/logger"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/middleware"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/validator"
)

// maxImageBytes bounds a single uploaded wizard image.
const maxImageBytes = 5 << 20

// ConsoleHandler handles HTTP requests for the seller console.
type ConsoleHandler struct {
	service *service.ConsoleService
	logger  *slog.Logger
}

// NewConsoleHandler creates a new console HTTP handler.
func NewConsoleHandler(svc *service.ConsoleService, logger *slog.Logger) *ConsoleHandler {
	return &ConsoleHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// SignInRequest is the JSON body for PUT /session.
type SignInRequest struct {
	Token string `json:"token" validate:"required"`
}

// GoToStepRequest is the JSON body for PUT /wizard/step.
type GoToStepRequest struct {
	Step int `json:"step"`
}

// SelectionRequest toggles between an existing entity and a new draft, and
// optionally picks the existing one.
type SelectionRequest struct {
	UseExisting *bool  `json:"useExisting"`
	ID          *int64 `json:"id" validate:"omitempty,gt=0"`
}

// --- Response DTOs ---

// WizardResponse is the wizard state plus the latest save phase.
type WizardResponse struct {
	domain.WizardState
	SavePhase domain.SavePhase `json:"savePhase"`
}

// SessionResponse describes a stored catalog credential.
type SessionResponse struct {
	SellerID  string   `json:"sellerId"`
	Roles     []string `json:"roles"`
	ExpiresAt *string  `json:"expiresAt"`
}

// --- Session handlers ---

// SignIn handles PUT /api/v1/console/session
func (h *ConsoleHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	sellerID := middleware.SellerIDFromContext(r.Context())

	var req SignInRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	claims, err := h.service.SignIn(r.Context(), sellerID, req.Token)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resp := SessionResponse{SellerID: sellerID, Roles: claims.Roles}
	if !claims.ExpiresAt.IsZero() {
		exp := claims.ExpiresAt.UTC().Format(time.RFC3339)
		resp.ExpiresAt = &exp
	}
	httputil.WriteData(w, http.StatusOK, resp)
}

// SignOut handles DELETE /api/v1/console/session
func (h *ConsoleHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SignOut(r.Context(), middleware.SellerIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Wizard lifecycle handlers ---

// GetWizard handles GET /api/v1/console/wizard
func (h *ConsoleHandler) GetWizard(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, h.wizard(r))
}

// Open handles POST /api/v1/console/wizard/open
func (h *ConsoleHandler) Open(w http.ResponseWriter, r *http.Request) {
	sellerID := middleware.SellerIDFromContext(r.Context())
	if _, err := h.service.OpenWizard(r.Context(), sellerID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writeState(w, r, h.service.Wizard(sellerID))
}

// Close handles POST /api/v1/console/wizard/close
func (h *ConsoleHandler) Close(w http.ResponseWriter, r *http.Request) {
	sellerID := middleware.SellerIDFromContext(r.Context())
	if err := h.service.CloseWizard(sellerID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writeState(w, r, h.service.Wizard(sellerID))
}

// Reset handles POST /api/v1/console/wizard/reset
func (h *ConsoleHandler) Reset(w http.ResponseWriter, r *http.Request) {
	store := h.wizard(r)
	store.Reset()
	h.writeState(w, r, store)
}

// --- Navigation handlers ---

// Next handles POST /api/v1/console/wizard/next
func (h *ConsoleHandler) Next(w http.ResponseWriter, r *http.Request) {
	store := h.wizard(r)
	if violations := store.NextStep(); len(violations) > 0 {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "STEP_INVALID",
				Message: strings.Join(violations, "; "),
				Details: violations,
			},
		})
		return
	}
	h.writeState(w, r, store)
}

// Previous handles POST /api/v1/console/wizard/previous
func (h *ConsoleHandler) Previous(w http.ResponseWriter, r *http.Request) {
	store := h.wizard(r)
	store.PreviousStep()
	h.writeState(w, r, store)
}

// GoToStep handles PUT /api/v1/console/wizard/step
func (h *ConsoleHandler) GoToStep(w http.ResponseWriter, r *http.Request) {
	var req GoToStepRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	store := h.wizard(r)
	store.GoToStep(req.Step)
	h.writeState(w, r, store)
}

// --- Draft handlers ---

// UpdateItem handles PATCH /api/v1/console/wizard/item
func (h *ConsoleHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var patch domain.ItemDraftPatch
	if err := decodeJSON(r, &patch); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	store := h.wizard(r)
	store.UpdateItemDraft(patch)
	h.writeState(w, r, store)
}

// UpdateNewBrand handles PATCH /api/v1/console/wizard/brand
func (h *ConsoleHandler) UpdateNewBrand(w http.ResponseWriter, r *http.Request) {
	var patch domain.BrandDraftPatch
	if err := decodeJSON(r, &patch); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	store := h.wizard(r)
	store.UpdateNewBrand(patch)
	h.writeState(w, r, store)
}

// UpdateNewCategory handles PATCH /api/v1/console/wizard/category
func (h *ConsoleHandler) UpdateNewCategory(w http.ResponseWriter, r *http.Request) {
	var patch domain.CategoryDraftPatch
	if err := decodeJSON(r, &patch); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	store := h.wizard(r)
	store.UpdateNewCategory(patch)
	h.writeState(w, r, store)
}

// SelectBrand handles PUT /api/v1/console/wizard/brand/selection
func (h *ConsoleHandler) SelectBrand(w http.ResponseWriter, r *http.Request) {
	h.selection(w, r, func(s *wizard.Store) (func(bool), func(int64)) {
		return s.UseExistingBrand, s.SelectBrand
	})
}

// SelectCategory handles PUT /api/v1/console/wizard/category/selection
func (h *ConsoleHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	h.selection(w, r, func(s *wizard.Store) (func(bool), func(int64)) {
		return s.UseExistingCategory, s.SelectCategory
	})
}

func (h *ConsoleHandler) selection(w http.ResponseWriter, r *http.Request, ops func(*wizard.Store) (func(bool), func(int64))) {
	var req SelectionRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	store := h.wizard(r)
	useExisting, selectID := ops(store)
	if req.UseExisting != nil {
		useExisting(*req.UseExisting)
	}
	if req.ID != nil {
		selectID(*req.ID)
	}
	h.writeState(w, r, store)
}

// --- Image handlers ---

// SetImage handles PUT /api/v1/console/wizard/images/{target}, where target
// is item, brand or category. The body is multipart with a "file" field.
func (h *ConsoleHandler) SetImage(w http.ResponseWriter, r *http.Request) {
	store := h.wizard(r)
	set, ok := imageSetter(store, chi.URLParam(r, "target"))
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("image target", chi.URLParam(r, "target")), h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+1<<10)
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("a multipart file field named file is required"), h.logger)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("could not read uploaded file"), h.logger)
		return
	}
	if len(data) == 0 || len(data) > maxImageBytes {
		httputil.WriteError(w, r, apperrors.InvalidInput("image must be between 1 byte and 5 MiB"), h.logger)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		httputil.WriteError(w, r, apperrors.InvalidInput("file must be an image"), h.logger)
		return
	}

	set(&domain.Image{FileName: header.Filename, ContentType: contentType, Data: data})
	h.writeState(w, r, store)
}

// ClearImage handles DELETE /api/v1/console/wizard/images/{target}
func (h *ConsoleHandler) ClearImage(w http.ResponseWriter, r *http.Request) {
	store := h.wizard(r)
	set, ok := imageSetter(store, chi.URLParam(r, "target"))
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("image target", chi.URLParam(r, "target")), h.logger)
		return
	}
	set(nil)
	h.writeState(w, r, store)
}

func imageSetter(s *wizard.Store, target string) (func(*domain.Image), bool) {
	switch target {
	case "item":
		return s.SetItemImage, true
	case "brand":
		return s.SetBrandImage, true
	case "category":
		return s.SetCategoryImage, true
	default:
		return nil, false
	}
}

// --- Save handler ---

// Save handles POST /api/v1/console/wizard/save
func (h *ConsoleHandler) Save(w http.ResponseWriter, r *http.Request) {
	sellerID := middleware.SellerIDFromContext(r.Context())
	result, err := h.service.Save(r.Context(), sellerID)
	if err != nil {
		if se, ok := domain.AsSaveError(err); ok {
			writeSaveError(w, r, se)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, result)
}

// writeSaveError renders a categorized save failure. The message is the one
// the seller sees; violations are listed individually in details.
func writeSaveError(w http.ResponseWriter, r *http.Request, se *domain.SaveError) {
	status := http.StatusBadGateway
	switch se.Category {
	case domain.CategoryValidation:
		status = http.StatusUnprocessableEntity
	case domain.CategoryPermission:
		status = http.StatusForbidden
	}

	httputil.WriteJSON(w, status, httputil.Response{
		Error: &httputil.ErrorResponse{
			Code:      se.Category.Code(),
			Message:   se.Error(),
			Details:   se.Violations,
			RequestID: logger.CorrelationIDFromContext(r.Context()),
		},
	})
}

// --- Helpers ---

func (h *ConsoleHandler) wizard(r *http.Request) *wizard.Store {
	return h.service.Wizard(middleware.SellerIDFromContext(r.Context()))
}

func (h *ConsoleHandler) writeState(w http.ResponseWriter, r *http.Request, store *wizard.Store) {
	sellerID := middleware.SellerIDFromContext(r.Context())
	httputil.WriteData(w, http.StatusOK, WizardResponse{
		WizardState: store.Snapshot(),
		SavePhase:   h.service.SavePhase(sellerID),
	})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidInput("request body is required")
		}
		return apperrors.InvalidInput("invalid request body: " + err.Error())
	}
	return nil
}
