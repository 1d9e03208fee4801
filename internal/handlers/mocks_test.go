package handlers

import (
	"context"
	"io"

	"knoxshield/internal/models"
	"knoxshield/internal/services"

	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Categories(lang string) []models.ToolCategory {
	args := m.Called(lang)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.ToolCategory)
}

func (m *MockCatalogService) Category(id, lang string) (*models.ToolCategory, error) {
	args := m.Called(id, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ToolCategory), args.Error(1)
}

func (m *MockCatalogService) Tool(categoryID, toolID, lang string) (*models.Tool, error) {
	args := m.Called(categoryID, toolID, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tool), args.Error(1)
}

func (m *MockCatalogService) FindTool(toolID string) (*models.Tool, error) {
	args := m.Called(toolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tool), args.Error(1)
}

func (m *MockCatalogService) AllTools() []models.Tool {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Tool)
}

func (m *MockCatalogService) Project(categoryOrName, toolIDOrName string, status models.ToolStatus, progress *float64) (*models.Tool, error) {
	args := m.Called(categoryOrName, toolIDOrName, status, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tool), args.Error(1)
}

func (m *MockCatalogService) Install(toolID string) (*models.Tool, error) {
	args := m.Called(toolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tool), args.Error(1)
}

type MockOperationService struct {
	mock.Mock
}

func (m *MockOperationService) StartOperation(req services.StartOperationRequest) (*models.Operation, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Operation), args.Error(1)
}

func (m *MockOperationService) ListOperations() []models.Operation {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Operation)
}

func (m *MockOperationService) History() ([]models.Operation, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Operation), args.Error(1)
}

func (m *MockOperationService) GetOperation(id string) (*models.Operation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Operation), args.Error(1)
}

func (m *MockOperationService) UpdateOperation(id string, patch services.OperationPatch) (*models.Operation, error) {
	args := m.Called(id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Operation), args.Error(1)
}

func (m *MockOperationService) ApplyAction(id, action string) (*models.Operation, error) {
	args := m.Called(id, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Operation), args.Error(1)
}

func (m *MockOperationService) Stats() models.OperationStats {
	args := m.Called()
	return args.Get(0).(models.OperationStats)
}

func (m *MockOperationService) DeleteOperation(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockOperationService) Wait(ctx context.Context, id string) (*models.Operation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Operation), args.Error(1)
}

func (m *MockOperationService) Shutdown() {
	m.Called()
}

type MockAIService struct {
	mock.Mock
}

func (m *MockAIService) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockAIService) Analyze(ctx context.Context, results models.ScanResults, lang string) (*models.AIGeneratedContent, error) {
	args := m.Called(ctx, results, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AIGeneratedContent), args.Error(1)
}

func (m *MockAIService) Chat(ctx context.Context, toolID, message, lang string) (*models.ChatMessage, error) {
	args := m.Called(ctx, toolID, message, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *MockAIService) History(toolID string) []models.ChatMessage {
	args := m.Called(toolID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.ChatMessage)
}

func (m *MockAIService) ResetChat(toolID string) {
	m.Called(toolID)
}

type MockVPNService struct {
	mock.Mock
}

func (m *MockVPNService) Load() {
	m.Called()
}

func (m *MockVPNService) Start(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockVPNService) Connect(ctx context.Context, serverID string) (models.VPNStatus, error) {
	args := m.Called(ctx, serverID)
	return args.Get(0).(models.VPNStatus), args.Error(1)
}

func (m *MockVPNService) Disconnect(ctx context.Context) (models.VPNStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.VPNStatus), args.Error(1)
}

func (m *MockVPNService) ToggleKillSwitch(ctx context.Context, enable bool) (bool, error) {
	args := m.Called(ctx, enable)
	return args.Bool(0), args.Error(1)
}

func (m *MockVPNService) Status() models.VPNStatus {
	args := m.Called()
	return args.Get(0).(models.VPNStatus)
}

func (m *MockVPNService) InitialData() models.VPNInitialData {
	args := m.Called()
	return args.Get(0).(models.VPNInitialData)
}

func (m *MockVPNService) Servers() ([]models.VPNServer, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VPNServer), args.Error(1)
}

func (m *MockVPNService) ImportConfig(fileName string, content []byte) (*models.VPNServer, error) {
	args := m.Called(fileName, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VPNServer), args.Error(1)
}

func (m *MockVPNService) ImportFile(path string) (*models.VPNServer, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VPNServer), args.Error(1)
}

func (m *MockVPNService) DeleteServer(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockVPNService) ServerQR(id string, size int) ([]byte, error) {
	args := m.Called(id, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockVPNService) Ping(ctx context.Context, id string) (*models.PingResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PingResult), args.Error(1)
}

func (m *MockVPNService) Logs(level, query string) []models.VPNLogEntry {
	args := m.Called(level, query)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.VPNLogEntry)
}

func (m *MockVPNService) ClearLogs() {
	m.Called()
}

func (m *MockVPNService) ExportLogs(w io.Writer, format string) error {
	args := m.Called(w, format)
	return args.Error(0)
}

func (m *MockVPNService) ExportLogsToFile(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockVPNService) Shutdown(ctx context.Context) {
	m.Called(ctx)
}
