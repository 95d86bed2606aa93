package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/wizard"
)

// validate <draft.json>: run every step check offline.
func validateCmd(_ *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <draft.json>",
		Short: "Check a draft file against every wizard step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDraft(args[0])
			if err != nil {
				return err
			}

			s := wizard.NewStore()
			brands, categories := d.placeholders()
			s.SetAvailableBrands(brands)
			s.SetAvailableCategories(categories)
			if err := d.apply(s); err != nil {
				return err
			}

			violations := wizard.ValidateAll(s.Snapshot())
			return report(cmd, violations)
		},
	}
}

func report(cmd *cobra.Command, violations []string) error {
	out := cmd.OutOrStdout()
	if len(violations) == 0 {
		fmt.Fprintln(out, "draft is valid")
		return nil
	}
	for _, v := range violations {
		fmt.Fprintf(out, "  - %s\n", v)
	}
	return fmt.Errorf("draft has %d problem(s)", len(violations))
}
