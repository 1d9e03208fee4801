package handlers

import (
	"net/http"

	"knoxshield/internal/config"
	"knoxshield/internal/i18n"
	"knoxshield/internal/models"
	"knoxshield/internal/services"
	"knoxshield/pkg/logger"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	prefs  services.PreferenceServiceMethods
	logger *logger.Logger
}

func NewSettingsHandler(prefs services.PreferenceServiceMethods, log *logger.Logger) *SettingsHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SettingsHandler{prefs: prefs, logger: log}
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	prefs, err := h.prefs.Get()
	if err != nil {
		respondError(c, h.logger, err, "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, h.logger, err)
		return
	}

	var (
		prefs models.Preferences
		err   error
	)
	if req.Language != nil {
		if prefs, err = h.prefs.SetLanguage(*req.Language); err != nil {
			respondError(c, h.logger, err, "Failed to save settings")
			return
		}
	}
	if req.Theme != nil {
		if prefs, err = h.prefs.SetTheme(*req.Theme); err != nil {
			respondError(c, h.logger, err, "Failed to save settings")
			return
		}
	}
	if req.Language == nil && req.Theme == nil {
		if prefs, err = h.prefs.Get(); err != nil {
			respondError(c, h.logger, err, "Failed to load settings")
			return
		}
	}
	c.JSON(http.StatusOK, prefs)
}

// Translations returns the static text table for a language.
func (h *SettingsHandler) Translations(c *gin.Context) {
	lang := c.Param("lang")
	if !i18n.Supported(lang) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unsupported language: " + lang})
		return
	}
	c.JSON(http.StatusOK, TranslationsResponse{
		Language: lang,
		Dir:      i18n.Dir(lang),
		Texts:    i18n.New(lang).Static(),
	})
}

type HealthHandler struct {
	ai         services.AIServiceMethods
	vpnEnabled bool
}

func NewHealthHandler(ai services.AIServiceMethods, vpnEnabled bool) *HealthHandler {
	return &HealthHandler{ai: ai, vpnEnabled: vpnEnabled}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:      "ok",
		Version:     config.Version,
		AIAvailable: h.ai != nil && h.ai.Available(),
		VPNEnabled:  h.vpnEnabled,
	})
}
