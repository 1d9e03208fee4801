package handlers

import (
	"errors"
	"net/http"

	"knoxshield/internal/i18n"
	"knoxshield/internal/services"
	apperrors "knoxshield/pkg/errors"
	"knoxshield/pkg/logger"

	"github.com/gin-gonic/gin"
)

const langKey = "lang"

// Language stores the request language in the gin context: ?lang= first,
// then the saved preference, then Accept-Language.
func Language(prefs services.PreferenceServiceMethods) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(langKey, resolveLang(c, prefs))
		c.Next()
	}
}

func resolveLang(c *gin.Context, prefs services.PreferenceServiceMethods) string {
	if lang := c.Query("lang"); lang != "" {
		return i18n.Match(lang)
	}
	if prefs != nil {
		return prefs.Language()
	}
	return i18n.Match(c.GetHeader("Accept-Language"))
}

func langOf(c *gin.Context) string {
	if lang := c.GetString(langKey); lang != "" {
		return lang
	}
	return resolveLang(c, nil)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidParams),
		errors.Is(err, apperrors.ErrInvalidAction),
		errors.Is(err, apperrors.ErrUnsupportedConfig):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrToolNotFound),
		errors.Is(err, apperrors.ErrCategoryNotFound),
		errors.Is(err, apperrors.ErrOperationNotFound),
		errors.Is(err, apperrors.ErrServerNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrAIUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}. Internal failures are logged and
// answered with fallback so causes do not leak to clients.
func respondError(c *gin.Context, log *logger.Logger, err error, fallback string) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		log.WithError(err).WithField("path", c.FullPath()).Error(fallback)
		msg = fallback
	case http.StatusServiceUnavailable:
		msg = i18n.New(langOf(c)).Get("API_KEY_MISSING_ERROR")
	}
	c.JSON(status, gin.H{"error": msg})
}

func invalidPayload(c *gin.Context, log *logger.Logger, err error) {
	log.WithError(err).Debug("Failed to bind request")
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
}
