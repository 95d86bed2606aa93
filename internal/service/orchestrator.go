package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/catalog"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/domain"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/event"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/session"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/wizard"
	apperrors "github.com/Maverickd18/Frontend-Perfume-sub000/pkg/errors"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/httpclient"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/tracing"
)

// CatalogGateway is the set of catalog writes a save performs.
type CatalogGateway interface {
	UploadImage(ctx context.Context, token string, img *domain.Image) (string, error)
	CreateBrand(ctx context.Context, token string, b domain.NewBrand) (domain.Brand, error)
	CreateCategory(ctx context.Context, token string, c domain.NewCategory) (domain.Category, error)
	CreateItem(ctx context.Context, token string, item domain.NewItem) (domain.CreatedItem, error)
}

// CredentialProvider returns a seller's catalog bearer token.
type CredentialProvider interface {
	Token(ctx context.Context, sellerID string) (string, error)
}

// ItemEventPublisher announces created items.
type ItemEventPublisher interface {
	PublishItemCreated(ctx context.Context, data event.ItemCreatedData) error
}

// SaveTarget is the wizard a save runs against.
type SaveTarget interface {
	BeginSave() (domain.WizardState, error)
	EndSave(succeeded bool)
	AddBrandToAvailable(b domain.Brand)
	AddCategoryToAvailable(c domain.Category)
}

// PhaseObserver is told about every phase a save run enters.
type PhaseObserver func(sellerID string, phase domain.SavePhase)

// SaveResult describes a successful save.
type SaveResult struct {
	Item            domain.CreatedItem `json:"item"`
	Brand           domain.Brand       `json:"brand"`
	Category        domain.Category    `json:"category"`
	BrandCreated    bool               `json:"brandCreated"`
	CategoryCreated bool               `json:"categoryCreated"`
	// ImageSkipped is set when an item image was attached but could not be uploaded.
	ImageSkipped bool `json:"imageSkipped"`
}

// Orchestrator turns a completed wizard into catalog entities.
type Orchestrator struct {
	catalog  CatalogGateway
	creds    CredentialProvider
	events   ItemEventPublisher
	logger   *slog.Logger
	tracer   trace.Tracer
	observer PhaseObserver
}

// NewOrchestrator creates an orchestrator. events may be nil.
func NewOrchestrator(catalog CatalogGateway, creds CredentialProvider, events ItemEventPublisher, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		catalog: catalog,
		creds:   creds,
		events:  events,
		logger:  logger,
		tracer:  tracing.Tracer("github.com/Maverickd18/Frontend-Perfume-sub000/internal/service"),
	}
}

// OnPhase registers fn to be told about phase changes.
func (o *Orchestrator) OnPhase(fn PhaseObserver) {
	o.observer = fn
}

// saveRun carries the values each stage produces for the next.
type saveRun struct {
	sellerID string
	token    string
	state    domain.WizardState
	result   SaveResult
	imageURL *string
}

type stage struct {
	phase domain.SavePhase
	run   func(ctx context.Context, r *saveRun) *domain.SaveError
}

// Save runs upload, brand, category and item creation in that order, stopping
// at the first failure. On success the wizard is reset and closed; on failure
// its drafts are left as they were. Failures are returned as *domain.SaveError;
// a save already running or a closed wizard is reported as an AppError.
func (o *Orchestrator) Save(ctx context.Context, sellerID string, target SaveTarget) (*SaveResult, error) {
	ctx, span := o.tracer.Start(ctx, "wizard.save", trace.WithAttributes(attribute.String("seller.id", sellerID)))
	defer span.End()

	token, err := o.creds.Token(ctx, sellerID)
	if err != nil {
		if !session.IsCredentialError(err) {
			tracing.RecordError(span, err)
			return nil, apperrors.Internal(err)
		}
		return nil, o.fail(ctx, span, sellerID, &domain.SaveError{
			Category: domain.CategoryPermission,
			Kind:     domain.KindPermission,
			Phase:    domain.PhaseIdle,
			Detail:   "sign in to the catalog again",
			Err:      err,
		})
	}

	state, err := target.BeginSave()
	if err != nil {
		tracing.RecordError(span, err)
		if errors.Is(err, domain.ErrSaveInProgress) {
			return nil, apperrors.Conflict(err.Error())
		}
		return nil, apperrors.Unprocessable(err.Error())
	}

	succeeded := false
	defer func() { target.EndSave(succeeded) }()

	if violations := wizard.ValidateAll(state); len(violations) > 0 {
		return nil, o.fail(ctx, span, sellerID, &domain.SaveError{
			Category:   domain.CategoryValidation,
			Kind:       domain.KindValidation,
			Phase:      domain.PhaseIdle,
			Violations: violations,
		})
	}

	run := &saveRun{sellerID: sellerID, token: token, state: state}
	stages := []stage{
		{domain.PhaseUploading, o.uploadImage},
		{domain.PhaseResolvingBrand, o.resolveBrand},
		{domain.PhaseResolvingCategory, o.resolveCategory},
		{domain.PhaseCreatingItem, o.createItem},
	}
	for _, st := range stages {
		if serr := o.runStage(ctx, run, st); serr != nil {
			return nil, o.fail(ctx, span, sellerID, serr)
		}
	}

	if run.result.BrandCreated {
		target.AddBrandToAvailable(run.result.Brand)
	}
	if run.result.CategoryCreated {
		target.AddCategoryToAvailable(run.result.Category)
	}
	succeeded = true
	o.enter(sellerID, domain.PhaseSucceeded)
	savesTotal.WithLabelValues("succeeded", "").Inc()

	o.logger.InfoContext(ctx, "wizard saved",
		slog.String("seller_id", sellerID),
		slog.Int64("item_id", run.result.Item.ID),
		slog.Int64("brand_id", run.result.Brand.ID),
		slog.Int64("category_id", run.result.Category.ID),
		slog.Bool("image_skipped", run.result.ImageSkipped),
	)
	o.publish(ctx, run)

	return &run.result, nil
}

func (o *Orchestrator) runStage(ctx context.Context, run *saveRun, st stage) *domain.SaveError {
	o.enter(run.sellerID, st.phase)
	ctx, span := o.tracer.Start(ctx, "wizard.save."+string(st.phase))
	defer span.End()

	start := time.Now()
	serr := st.run(ctx, run)
	saveStageDuration.WithLabelValues(string(st.phase)).Observe(time.Since(start).Seconds())

	if serr != nil {
		serr.Phase = st.phase
		tracing.RecordError(span, serr)
	}
	return serr
}

// uploadImage never fails the save: a broken upload only drops the image.
func (o *Orchestrator) uploadImage(ctx context.Context, r *saveRun) *domain.SaveError {
	img := r.state.ItemImage
	if img == nil || len(img.Data) == 0 {
		return nil
	}

	url, err := o.catalog.UploadImage(ctx, r.token, img)
	if err != nil {
		imageUploadFailures.Inc()
		r.result.ImageSkipped = true
		o.logger.WarnContext(ctx, "item image upload failed, continuing without image",
			slog.String("seller_id", r.sellerID),
			slog.String("file_name", img.FileName),
			slog.String("error", err.Error()),
		)
		return nil
	}
	r.imageURL = &url
	return nil
}

func (o *Orchestrator) resolveBrand(ctx context.Context, r *saveRun) *domain.SaveError {
	s := r.state
	if s.UseExistingBrand {
		r.result.Brand = domain.Brand{ID: *s.SelectedBrandID}
		for _, b := range s.AvailableBrands {
			if b.ID == *s.SelectedBrandID {
				r.result.Brand = b
				break
			}
		}
		return nil
	}

	req := domain.NewBrand{
		Name:          strings.TrimSpace(s.NewBrand.Name),
		Description:   strings.TrimSpace(s.NewBrand.Description),
		CountryOrigin: strings.TrimSpace(s.NewBrand.CountryOrigin),
	}
	if img := s.NewBrand.Image; img != nil && len(img.Data) > 0 {
		req.ImageURL = img.DataURL()
	}

	b, err := o.catalog.CreateBrand(ctx, r.token, req)
	if err != nil {
		return classify(err, domain.CategoryBrandCreation, "brand")
	}
	r.result.Brand = b
	r.result.BrandCreated = true
	return nil
}

func (o *Orchestrator) resolveCategory(ctx context.Context, r *saveRun) *domain.SaveError {
	s := r.state
	if s.UseExistingCategory {
		r.result.Category = domain.Category{ID: *s.SelectedCategoryID}
		for _, c := range s.AvailableCategories {
			if c.ID == *s.SelectedCategoryID {
				r.result.Category = c
				break
			}
		}
		return nil
	}

	req := domain.NewCategory{
		Name:        strings.TrimSpace(s.NewCategory.Name),
		Description: strings.TrimSpace(s.NewCategory.Description),
	}
	if img := s.NewCategory.Image; img != nil && len(img.Data) > 0 {
		req.ImageURL = img.DataURL()
	}

	c, err := o.catalog.CreateCategory(ctx, r.token, req)
	if err != nil {
		return classify(err, domain.CategoryCategoryCreation, "category")
	}
	r.result.Category = c
	r.result.CategoryCreated = true
	return nil
}

func (o *Orchestrator) createItem(ctx context.Context, r *saveRun) *domain.SaveError {
	item := r.state.Item
	if violations := wizard.ValidateNumbers(item); len(violations) > 0 {
		return &domain.SaveError{
			Category:   domain.CategoryValidation,
			Kind:       domain.KindValidation,
			Violations: violations,
		}
	}

	created, err := o.catalog.CreateItem(ctx, r.token, domain.NewItem{
		Name:        strings.TrimSpace(item.Name),
		Description: strings.TrimSpace(item.Description),
		Price:       item.Price,
		Stock:       item.Stock,
		SizeML:      item.SizeML,
		Genre:       strings.TrimSpace(item.Genre),
		ReleaseDate: strings.TrimSpace(item.ReleaseDate),
		BrandID:     r.result.Brand.ID,
		CategoryID:  r.result.Category.ID,
		ImageURL:    r.imageURL,
	})
	if err != nil {
		return classify(err, domain.CategoryItemCreation, "item")
	}
	r.result.Item = created
	return nil
}

// classify maps a catalog error to the category the seller sees. Transport
// failures and auth rejections win over the stage's own category.
func classify(err error, category domain.SaveCategory, entity string) *domain.SaveError {
	se := &domain.SaveError{Category: category, Err: err}

	var appErr *apperrors.AppError
	switch {
	case httpclient.IsNetworkError(err) || errors.Is(err, context.DeadlineExceeded):
		se.Category = domain.CategoryNetwork
		se.Kind = domain.KindNetwork
		se.Detail = "the catalog service could not be reached"
	case errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrForbidden):
		se.Category = domain.CategoryPermission
		se.Kind = domain.KindPermission
		se.Detail = "the catalog refused your credentials"
	case errors.Is(err, catalog.ErrMissingIdentifier):
		se.Kind = domain.KindIntegrityFailure
		se.Detail = "the catalog did not return an id for the new " + entity
	case errors.As(err, &appErr):
		se.Kind = domain.KindRemoteRejection
		se.Detail = appErr.Message
	default:
		se.Kind = domain.KindRemoteRejection
		se.Detail = "the catalog rejected the " + entity
	}
	return se
}

func (o *Orchestrator) fail(ctx context.Context, span trace.Span, sellerID string, serr *domain.SaveError) error {
	o.enter(sellerID, domain.PhaseFailed)
	savesTotal.WithLabelValues("failed", string(serr.Category)).Inc()
	tracing.RecordError(span, serr)
	span.SetAttributes(attribute.String("save.category", string(serr.Category)))

	attrs := []any{
		slog.String("seller_id", sellerID),
		slog.String("category", string(serr.Category)),
		slog.String("kind", string(serr.Kind)),
		slog.String("phase", string(serr.Phase)),
	}
	if serr.Err != nil {
		attrs = append(attrs, slog.String("error", serr.Err.Error()))
	}
	o.logger.WarnContext(ctx, "wizard save failed", attrs...)
	return serr
}

func (o *Orchestrator) enter(sellerID string, phase domain.SavePhase) {
	if o.observer != nil {
		o.observer(sellerID, phase)
	}
}

// publish announces the new item. The item already exists, so a broker
// failure is only logged.
func (o *Orchestrator) publish(ctx context.Context, r *saveRun) {
	if o.events == nil {
		return
	}
	err := o.events.PublishItemCreated(ctx, event.ItemCreatedData{
		ItemID:          r.result.Item.ID,
		Name:            r.result.Item.Name,
		SellerID:        r.sellerID,
		BrandID:         r.result.Item.BrandID,
		CategoryID:      r.result.Item.CategoryID,
		ImageURL:        r.result.Item.ImageURL,
		BrandCreated:    r.result.BrandCreated,
		CategoryCreated: r.result.CategoryCreated,
	})
	if err != nil {
		o.logger.ErrorContext(ctx, "failed to publish item created event",
			slog.Int64("item_id", r.result.Item.ID),
			slog.String("error", err.Error()),
		)
	}
}
