package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"knoxshield/internal/ai"
	"knoxshield/internal/catalog"
	"knoxshield/internal/i18n"
	"knoxshield/internal/models"
	apperrors "knoxshield/pkg/errors"
	"knoxshield/pkg/logger"

	"github.com/google/uuid"
)

const (
	analysisTemperature = 0.3
	chatTemperature     = 0.7

	analysisFailedText = "Failed to generate AI analysis."
	chatSystemPrompt   = "You are KNOX AI, a helpful and knowledgeable cybersecurity assistant integrated into KNOX Security Plus. Respond in the user's language if apparent."

	SenderUser = "user"
	SenderAI   = "ai"
)

type AIServiceMethods interface {
	Available() bool
	Analyze(ctx context.Context, results models.ScanResults, lang string) (*models.AIGeneratedContent, error)
	Chat(ctx context.Context, toolID, message, lang string) (*models.ChatMessage, error)
	History(toolID string) []models.ChatMessage
	ResetChat(toolID string)
}

type chatSession struct {
	messages   []ai.Message
	transcript []models.ChatMessage
}

type aiService struct {
	client ai.Completer
	logger *logger.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*chatSession
}

// NewAIService accepts a nil client; every call then fails with ErrAIUnavailable.
func NewAIService(client ai.Completer, log *logger.Logger) AIServiceMethods {
	if log == nil {
		log = logger.Default()
	}
	return &aiService{
		client:   client,
		logger:   log,
		now:      time.Now,
		sessions: make(map[string]*chatSession),
	}
}

func (s *aiService) Available() bool {
	return s.client != nil
}

// AnalysisPrompt renders the findings into the analysis prompt.
func AnalysisPrompt(results models.ScanResults, texts *i18n.Translator) string {
	var b strings.Builder
	b.WriteString(texts.Get("THREAT_ANALYSIS_PROMPT_PREFIX"))
	for _, threat := range results.ThreatsFound {
		severity := threat.Severity
		if severity == "" {
			severity = models.SeverityUnknown
		}
		fmt.Fprintf(&b, "- Finding: %s - \"%s\" (Severity: %s)\n", texts.Get(threat.Type.I18nKey()), threat.Value, severity)
	}
	return b.String()
}

func (s *aiService) Analyze(ctx context.Context, results models.ScanResults, lang string) (*models.AIGeneratedContent, error) {
	if s.client == nil {
		return nil, apperrors.ErrAIUnavailable
	}

	prompt := AnalysisPrompt(results, i18n.New(lang))
	now := s.now()
	content := &models.AIGeneratedContent{
		ID:        fmt.Sprintf("analysis-%d", now.UnixMilli()),
		ToolID:    catalog.ToolDeepScan,
		Prompt:    prompt,
		Timestamp: now,
	}

	text, err := s.client.Complete(ctx, []ai.Message{{Role: ai.RoleUser, Content: prompt}}, analysisTemperature)
	if err != nil {
		s.logger.WithError(err).WithField("findings", len(results.ThreatsFound)).Error("AI analysis failed")
		content.ID = fmt.Sprintf("analysis-err-%d", now.UnixMilli())
		content.ResponseText = analysisFailedText
		content.Error = err.Error()
		return content, nil
	}

	content.ResponseText = text
	s.logger.WithField("findings", len(results.ThreatsFound)).Info("AI analysis generated")
	return content, nil
}

// Chat sends message on the tool's session. A failed call still returns a
// reply carrying the localized failure text and leaves the model context unchanged.
func (s *aiService) Chat(ctx context.Context, toolID, message, lang string) (*models.ChatMessage, error) {
	if s.client == nil {
		return nil, apperrors.ErrAIUnavailable
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewParamError("message", "is required")
	}

	s.mu.Lock()
	session, ok := s.sessions[toolID]
	if !ok {
		session = &chatSession{
			messages: []ai.Message{{Role: ai.RoleSystem, Content: chatSystemPrompt}},
		}
		s.sessions[toolID] = session
	}
	request := append(append([]ai.Message(nil), session.messages...), ai.Message{Role: ai.RoleUser, Content: message})
	s.mu.Unlock()

	sent := models.ChatMessage{
		ID:        uuid.New().String(),
		Sender:    SenderUser,
		Text:      message,
		Timestamp: s.now(),
	}

	text, err := s.client.Complete(ctx, request, chatTemperature)
	now := s.now()
	if err != nil {
		s.logger.WithError(err).WithField("tool_id", toolID).Error(i18n.New(lang).Get("AI_CHAT_ERROR"))
		reply := &models.ChatMessage{
			ID:        fmt.Sprintf("err-%d", now.UnixMilli()),
			Sender:    SenderAI,
			Text:      i18n.New(lang).Get("AI_CHAT_FAIL_MESSAGE"),
			Timestamp: now,
		}
		s.mu.Lock()
		session.transcript = append(session.transcript, sent, *reply)
		s.mu.Unlock()
		return reply, nil
	}

	reply := &models.ChatMessage{
		ID:        fmt.Sprintf("ai-%d", now.UnixMilli()),
		Sender:    SenderAI,
		Text:      text,
		Timestamp: now,
	}

	s.mu.Lock()
	session.messages = append(request, ai.Message{Role: ai.RoleAssistant, Content: text})
	session.transcript = append(session.transcript, sent, *reply)
	s.mu.Unlock()
	return reply, nil
}

func (s *aiService) History(toolID string) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[toolID]
	if !ok {
		return nil
	}
	return append([]models.ChatMessage(nil), session.transcript...)
}

func (s *aiService) ResetChat(toolID string) {
	s.mu.Lock()
	delete(s.sessions, toolID)
	s.mu.Unlock()
	s.logger.WithField("tool_id", toolID).Debug("Chat session reset")
}
