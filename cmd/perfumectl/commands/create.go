package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/catalog"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/domain"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/service"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/session"
	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/wizard"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/httpclient"
)

const defaultSellerID = "perfumectl"

// staticCredential hands the orchestrator the token given on the command line.
type staticCredential struct {
	token     string
	inspector *session.Inspector
}

func (c staticCredential) Token(_ context.Context, _ string) (string, error) {
	if c.token == "" {
		return "", session.ErrNoCredential
	}
	if _, err := c.inspector.Inspect(c.token); err != nil {
		return "", err
	}
	return c.token, nil
}

// create <draft.json>: create the draft's item, and any new brand or category, in the catalog.
func createCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create <draft.json>",
		Short: "Create the perfume described by a draft file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfg.Token == "" {
				return errors.New("catalog token required (--token or PERFUMECTL_TOKEN)")
			}
			creds := staticCredential{token: opts.cfg.Token, inspector: session.NewInspector(nil, 0)}
			claims, err := creds.inspector.Inspect(creds.token)
			if err != nil {
				return fmt.Errorf("catalog token: %w", err)
			}
			sellerID := claims.Subject
			if sellerID == "" {
				sellerID = defaultSellerID
			}

			d, err := loadDraft(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client := newCatalogClient(opts)
			s := wizard.NewStore()
			if err := seedSelections(ctx, client, creds.token, d, s); err != nil {
				return err
			}
			if err := d.apply(s); err != nil {
				return err
			}

			saver := service.NewOrchestrator(client, creds, nil, opts.logger)
			saver.OnPhase(func(_ string, phase domain.SavePhase) {
				opts.logger.Info("save phase", slog.String("phase", string(phase)))
			})

			result, err := saver.Save(ctx, sellerID, s)
			if err != nil {
				if se, ok := domain.AsSaveError(err); ok && len(se.Violations) > 0 {
					_ = report(cmd, se.Violations)
				}
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}

func newCatalogClient(opts *options) *catalog.Client {
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = opts.cfg.CatalogTimeout
	breaker := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpCfg),
		httpclient.DefaultCircuitBreakerConfig("catalog"),
		opts.logger,
	)
	return catalog.NewClient(breaker, catalog.Config{
		BaseURL:        opts.cfg.CatalogBaseURL,
		PublicFileHost: opts.cfg.CatalogPublicFileHost,
	}, opts.logger)
}

// seedSelections loads the catalog lists a draft refers to by id and fails
// fast when an id is unknown.
func seedSelections(ctx context.Context, client *catalog.Client, token string, d *draft, s *wizard.Store) error {
	if id := d.Brand.ExistingID; id != nil {
		brands, err := client.ListBrands(ctx, token)
		if err != nil {
			return fmt.Errorf("list brands: %w", err)
		}
		s.SetAvailableBrands(brands)
		if st := s.Snapshot(); !st.HasBrand(*id) {
			return fmt.Errorf("brand %d does not exist in the catalog", *id)
		}
	}
	if id := d.Category.ExistingID; id != nil {
		categories, err := client.ListCategories(ctx, token)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		s.SetAvailableCategories(categories)
		if st := s.Snapshot(); !st.HasCategory(*id) {
			return fmt.Errorf("category %d does not exist in the catalog", *id)
		}
	}
	return nil
}
