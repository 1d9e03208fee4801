package settings

import (
	"fmt"

	"knoxshield/internal/app"
	"knoxshield/internal/config"
	"knoxshield/internal/i18n"
	"knoxshield/internal/models"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func loadApp(cmd *cobra.Command) (*app.App, error) {
	cmd.SilenceUsage = true
	verbose, _ := cmd.Flags().GetBool("verbose")
	a, err := app.Load(cmd.Context(), verbose, app.Options{WithoutVPN: true})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return a, nil
}

func printPreferences(p models.Preferences) {
	_ = pterm.DefaultTable.WithData([][]string{
		{models.PrefLanguage, p.Language},
		{models.PrefTheme, p.Theme},
	}).Render()
}

func NewSettingsCommand() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change UI preferences",
	}

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the current preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			prefs, err := a.Preferences.Get()
			if err != nil {
				return err
			}
			printPreferences(prefs)
			return nil
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:       "set language|theme <value>",
		Short:     "Change one preference",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{models.PrefLanguage, models.PrefTheme},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			var prefs models.Preferences
			switch args[0] {
			case models.PrefLanguage:
				prefs, err = a.Preferences.SetLanguage(args[1])
			case models.PrefTheme:
				prefs, err = a.Preferences.SetTheme(args[1])
			default:
				return fmt.Errorf("unknown setting %q, expected language or theme", args[0])
			}
			if err != nil {
				return err
			}
			printPreferences(prefs)
			return nil
		},
	})

	return settingsCmd
}

func NewVersionCommand() *cobra.Command {
	var lang string

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if lang == "" {
				a, err := loadApp(cmd)
				if err != nil {
					return err
				}
				lang = a.Preferences.Language()
				a.Close(cmd.Context())
			}
			fmt.Println(i18n.New(i18n.Match(lang)).Get("APP_VERSION", i18n.Params{"version": config.Version}))
			return nil
		},
	}
	versionCmd.Flags().StringVarP(&lang, "lang", "l", "", "Language (en or ar)")

	return versionCmd
}
