package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"knoxshield/internal/models"
	apperrors "knoxshield/pkg/errors"
	"knoxshield/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestChat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		requestBody    string
		query          string
		setupMock      func(*MockAIService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "Reply",
			requestBody: `{"tool_id":"nmap","message":"What does -T4 do?"}`,
			setupMock: func(m *MockAIService) {
				m.On("Chat", mock.Anything, "nmap", "What does -T4 do?", "en").
					Return(&models.ChatMessage{ID: "m-2", Sender: "ai", Text: "It sets timing.", Timestamp: ts}, nil)
			},
			expectedStatus: 200,
			expectedBody:   `{"id":"m-2","sender":"ai","text":"It sets timing.","timestamp":"2024-05-01T12:00:00Z"}`,
		},
		{
			name:        "Arabic Query Param",
			requestBody: `{"tool_id":"nmap","message":"مرحبا"}`,
			query:       "?lang=ar",
			setupMock: func(m *MockAIService) {
				m.On("Chat", mock.Anything, "nmap", "مرحبا", "ar").
					Return(&models.ChatMessage{ID: "m-3", Sender: "ai", Text: "أهلا", Timestamp: ts}, nil)
			},
			expectedStatus: 200,
		},
		{
			name:        "Unavailable Is Localized",
			requestBody: `{"tool_id":"nmap","message":"hi"}`,
			query:       "?lang=ar",
			setupMock: func(m *MockAIService) {
				m.On("Chat", mock.Anything, "nmap", "hi", "ar").Return(nil, apperrors.ErrAIUnavailable)
			},
			expectedStatus: 503,
			expectedBody:   `{"error":"مفتاح Gemini API غير موجود. ميزات الذكاء الاصطناعي ستكون معطلة. يرجى التأكد من تكوين متغير البيئة 'API_KEY' بشكل صحيح."}`,
		},
		{
			name:           "Empty Message",
			requestBody:    `{"tool_id":"nmap","message":""}`,
			setupMock:      func(m *MockAIService) {},
			expectedStatus: 400,
			expectedBody:   `{"error":"Invalid request payload"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAIService)
			tt.setupMock(mockService)

			handler := NewAIHandler(mockService, logger.NewDiscardLogger())
			router := gin.New()
			router.POST("/api/ai/chat", handler.Chat)

			req, _ := http.NewRequest("POST", "/api/ai/chat"+tt.query, strings.NewReader(tt.requestBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestChatHistoryAndReset(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockAIService)
	mockService.On("History", "nmap").Return(nil)
	mockService.On("ResetChat", "nmap").Return()

	handler := NewAIHandler(mockService, logger.NewDiscardLogger())
	router := gin.New()
	router.GET("/api/ai/chat/:tool", handler.History)
	router.DELETE("/api/ai/chat/:tool", handler.ResetChat)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/ai/chat/nmap", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/ai/chat/nmap", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, 204, w.Code)

	mockService.AssertExpectations(t)
}
