package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/domain"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/session"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/wizard"
	apperrors "github.com/Maverickd18/Frontend-Perfume-sub000/pkg/errors"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/httpclient"
)

// CatalogReader is the set of catalog reads the console performs when a
// wizard opens.
type CatalogReader interface {
	ListBrands(ctx context.Context, token string) ([]domain.Brand, error)
	ListCategories(ctx context.Context, token string) ([]domain.Category, error)
	GetMyStore(ctx context.Context, token string) (*domain.Store, error)
}

// SessionManager stores and returns seller catalog credentials.
type SessionManager interface {
	CredentialProvider
	Save(ctx context.Context, sellerID, token string) (session.Claims, error)
	Forget(ctx context.Context, sellerID string) error
}

// sellerWizard is one seller's wizard plus what the console knows about it.
type sellerWizard struct {
	store       *wizard.Store
	listsLoaded bool
	phase       domain.SavePhase
}

// ConsoleService owns one wizard per seller and runs saves against them.
type ConsoleService struct {
	catalog  CatalogReader
	sessions SessionManager
	saver    *Orchestrator
	logger   *slog.Logger

	mu      sync.Mutex
	wizards map[string]*sellerWizard
}

// NewConsoleService creates a console service.
func NewConsoleService(catalog CatalogReader, sessions SessionManager, saver *Orchestrator, logger *slog.Logger) *ConsoleService {
	cs := &ConsoleService{
		catalog:  catalog,
		sessions: sessions,
		saver:    saver,
		logger:   logger,
		wizards:  make(map[string]*sellerWizard),
	}
	saver.OnPhase(cs.recordPhase)
	return cs
}

// Wizard returns sellerID's wizard, creating a closed one on first use.
func (s *ConsoleService) Wizard(sellerID string) *wizard.Store {
	return s.entry(sellerID).store
}

func (s *ConsoleService) entry(sellerID string) *sellerWizard {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wizards[sellerID]
	if !ok {
		w = &sellerWizard{store: wizard.NewStore(), phase: domain.PhaseIdle}
		s.wizards[sellerID] = w
	}
	return w
}

func (s *ConsoleService) recordPhase(sellerID string, phase domain.SavePhase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wizards[sellerID]; ok {
		w.phase = phase
	}
}

// SavePhase returns the phase of sellerID's latest save run.
func (s *ConsoleService) SavePhase(sellerID string) domain.SavePhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wizards[sellerID]; ok {
		return w.phase
	}
	return domain.PhaseIdle
}

// OpenWizard opens sellerID's wizard. The seller must be signed in and own a
// store. Brands and categories are fetched on the first open only.
func (s *ConsoleService) OpenWizard(ctx context.Context, sellerID string) (domain.WizardState, error) {
	token, err := s.sessions.Token(ctx, sellerID)
	if err != nil {
		return domain.WizardState{}, credentialError(err)
	}

	w := s.entry(sellerID)

	if _, err := s.catalog.GetMyStore(ctx, token); err != nil {
		if errors.Is(err, domain.ErrNoStore) {
			w.store.SetStoreCreated(false)
			return domain.WizardState{}, apperrors.Forbidden("create your store first")
		}
		return domain.WizardState{}, upstreamError(err)
	}
	w.store.SetStoreCreated(true)

	s.mu.Lock()
	loaded := w.listsLoaded
	s.mu.Unlock()

	if !loaded {
		brands, err := s.catalog.ListBrands(ctx, token)
		if err != nil {
			return domain.WizardState{}, upstreamError(err)
		}
		categories, err := s.catalog.ListCategories(ctx, token)
		if err != nil {
			return domain.WizardState{}, upstreamError(err)
		}
		w.store.SetAvailableBrands(brands)
		w.store.SetAvailableCategories(categories)

		s.mu.Lock()
		w.listsLoaded = true
		s.mu.Unlock()

		s.logger.InfoContext(ctx, "wizard lists loaded",
			slog.String("seller_id", sellerID),
			slog.Int("brands", len(brands)),
			slog.Int("categories", len(categories)),
		)
	}

	w.store.Open()
	return w.store.Snapshot(), nil
}

// CloseWizard closes sellerID's wizard and discards its drafts.
func (s *ConsoleService) CloseWizard(sellerID string) error {
	if err := s.Wizard(sellerID).Close(); err != nil {
		if errors.Is(err, domain.ErrSaveInProgress) {
			return apperrors.Conflict(err.Error())
		}
		return err
	}
	return nil
}

// Save runs the orchestrator against sellerID's wizard.
func (s *ConsoleService) Save(ctx context.Context, sellerID string) (*SaveResult, error) {
	return s.saver.Save(ctx, sellerID, s.Wizard(sellerID))
}

// SignIn stores token as sellerID's catalog credential.
func (s *ConsoleService) SignIn(ctx context.Context, sellerID, token string) (session.Claims, error) {
	claims, err := s.sessions.Save(ctx, sellerID, token)
	if err != nil {
		if session.IsCredentialError(err) {
			return claims, apperrors.Unauthorized(err.Error())
		}
		return claims, apperrors.Internal(err)
	}
	s.logger.InfoContext(ctx, "seller signed in",
		slog.String("seller_id", sellerID),
		slog.Time("expires_at", claims.ExpiresAt),
	)
	return claims, nil
}

// SignOut forgets sellerID's credential and drops their wizard unless a save
// is running on it.
func (s *ConsoleService) SignOut(ctx context.Context, sellerID string) error {
	if err := s.sessions.Forget(ctx, sellerID); err != nil {
		return apperrors.Internal(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wizards[sellerID]; ok && !w.store.Snapshot().IsSaving {
		delete(s.wizards, sellerID)
	}
	return nil
}

func credentialError(err error) error {
	if session.IsCredentialError(err) {
		return apperrors.Unauthorized("sign in to the catalog first")
	}
	return apperrors.Internal(err)
}

// upstreamError keeps catalog AppErrors and turns transport failures into 502.
func upstreamError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if httpclient.IsNetworkError(err) {
		return apperrors.BadGateway("the catalog service could not be reached", err)
	}
	return apperrors.Internal(err)
}
