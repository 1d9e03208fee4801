package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"knoxshield/internal/models"
	apperrors "knoxshield/pkg/errors"
	"knoxshield/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetTool(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockCatalogService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Found",
			path: "/api/tools/security/nmap",
			setupMock: func(m *MockCatalogService) {
				m.On("Tool", "security", "nmap", "en").
					Return(&models.Tool{ID: "nmap", Name: "Nmap", Status: models.StatusReadyToRun, CategoryID: "security"}, nil)
			},
			expectedStatus: 200,
			expectedBody:   `{"id":"nmap","name":"Nmap","description":"","status":"Ready to Run","categoryId":"security"}`,
		},
		{
			name: "Unknown Category",
			path: "/api/tools/cooking/nmap",
			setupMock: func(m *MockCatalogService) {
				m.On("Tool", "cooking", "nmap", "en").
					Return(nil, fmt.Errorf("%w: cooking", apperrors.ErrCategoryNotFound))
			},
			expectedStatus: 404,
			expectedBody:   `{"error":"category not found: cooking"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCatalogService)
			tt.setupMock(mockService)

			handler := NewCatalogHandler(mockService, logger.NewDiscardLogger())
			router := gin.New()
			router.GET("/api/tools/:category/:tool", handler.GetTool)

			req, _ := http.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}

func TestInstallTool(t *testing.T) {
	gin.SetMode(gin.TestMode)

	zero := 0.0
	mockService := new(MockCatalogService)
	mockService.On("Tool", "security", "nmap", "").Return(&models.Tool{ID: "nmap"}, nil)
	mockService.On("Install", "nmap").Return(&models.Tool{ID: "nmap", Status: models.StatusLoading, Progress: &zero}, nil)
	mockService.On("Tool", "security", "ghost", "").Return(nil, apperrors.ErrToolNotFound)

	handler := NewCatalogHandler(mockService, logger.NewDiscardLogger())
	router := gin.New()
	router.POST("/api/tools/:category/:tool/install", handler.InstallTool)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/tools/security/nmap/install", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, 202, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Loading"`)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/tools/security/ghost/install", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, 404, w.Code)

	mockService.AssertNumberOfCalls(t, "Install", 1)
	mockService.AssertExpectations(t)
}
