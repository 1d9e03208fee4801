package run

import (
	"fmt"

	"knoxshield/internal/app"
	"knoxshield/internal/i18n"
	"knoxshield/internal/models"
	"knoxshield/internal/ui"

	"github.com/spf13/cobra"
)

func NewCatalogCommand() *cobra.Command {
	var category, lang string

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the tool catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			verbose, _ := cmd.Flags().GetBool("verbose")

			ctx := cmd.Context()
			a, err := app.Load(ctx, verbose, app.Options{WithoutVPN: true})
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer a.Close(ctx)

			if lang == "" {
				lang = a.Preferences.Language()
			} else {
				lang = i18n.Match(lang)
			}

			var categories []models.ToolCategory
			if category == "" {
				categories = a.Catalog.Categories(lang)
			} else {
				c, err := a.Catalog.Category(category, lang)
				if err != nil {
					return err
				}
				categories = []models.ToolCategory{*c}
			}
			ui.PrintCategories(categories, lang)
			return nil
		},
	}

	catalogCmd.Flags().StringVarP(&category, "category", "c", "", "Only list this category")
	catalogCmd.Flags().StringVarP(&lang, "lang", "l", "", "Language for names and statuses (en or ar)")

	return catalogCmd
}

func NewOpsCommand() *cobra.Command {
	opsCmd := &cobra.Command{
		Use:   "ops",
		Short: "Inspect recorded operations",
	}

	opsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the most recent operations from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			verbose, _ := cmd.Flags().GetBool("verbose")

			ctx := cmd.Context()
			a, err := app.Load(ctx, verbose, app.Options{WithoutVPN: true})
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer a.Close(ctx)

			ops, err := a.Operations.History()
			if err != nil {
				return err
			}
			ui.PrintOperations(ops, a.Preferences.Language())
			return nil
		},
	})

	return opsCmd
}
