package services

import (
	"fmt"

	"knoxshield/internal/dao"
	"knoxshield/internal/i18n"
	"knoxshield/internal/models"
	apperrors "knoxshield/pkg/errors"
	"knoxshield/pkg/logger"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

type PreferenceServiceMethods interface {
	Get() (models.Preferences, error)
	Language() string
	SetLanguage(lang string) (models.Preferences, error)
	SetTheme(theme string) (models.Preferences, error)
}

type preferenceService struct {
	dao      dao.PreferenceDAO
	defaults models.Preferences
	logger   *logger.Logger
}

// NewPreferenceService falls back to defaults for anything not yet stored.
func NewPreferenceService(prefDao dao.PreferenceDAO, defaults models.Preferences, log *logger.Logger) PreferenceServiceMethods {
	if log == nil {
		log = logger.Default()
	}
	if !i18n.Supported(defaults.Language) {
		defaults.Language = i18n.English
	}
	if defaults.Theme != ThemeLight {
		defaults.Theme = ThemeDark
	}
	return &preferenceService{dao: prefDao, defaults: defaults, logger: log}
}

func (s *preferenceService) Get() (models.Preferences, error) {
	stored, err := s.dao.GetPreferences()
	if err != nil {
		return s.defaults, fmt.Errorf("failed to load preferences: %w", err)
	}

	prefs := s.defaults
	if lang, ok := stored[models.PrefLanguage]; ok && i18n.Supported(lang) {
		prefs.Language = lang
	}
	if theme, ok := stored[models.PrefTheme]; ok && validTheme(theme) {
		prefs.Theme = theme
	}
	return prefs, nil
}

// Language is the current UI language, used when an operation needs texts.
func (s *preferenceService) Language() string {
	prefs, err := s.Get()
	if err != nil {
		s.logger.WithError(err).Warn("Using default language")
	}
	return prefs.Language
}

func (s *preferenceService) SetLanguage(lang string) (models.Preferences, error) {
	if !i18n.Supported(lang) {
		return models.Preferences{}, apperrors.NewParamError("language", fmt.Sprintf("unsupported language %q", lang))
	}
	return s.set(models.PrefLanguage, lang)
}

func (s *preferenceService) SetTheme(theme string) (models.Preferences, error) {
	if !validTheme(theme) {
		return models.Preferences{}, apperrors.NewParamError("theme", fmt.Sprintf("unsupported theme %q", theme))
	}
	return s.set(models.PrefTheme, theme)
}

func (s *preferenceService) set(key, value string) (models.Preferences, error) {
	if err := s.dao.SetPreference(key, value); err != nil {
		return models.Preferences{}, fmt.Errorf("failed to save preference %s: %w", key, err)
	}
	s.logger.WithFields(logger.Fields{"key": key, "value": value}).Info("Preference updated")
	return s.Get()
}

func validTheme(theme string) bool {
	return theme == ThemeDark || theme == ThemeLight
}
