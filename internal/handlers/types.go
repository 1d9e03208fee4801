package handlers

type StartOperationRequest struct {
	ToolID     string            `json:"tool_id" binding:"required"`
	CategoryID string            `json:"category_id"`
	Task       string            `json:"task"`
	Params     map[string]string `json:"params"`
}

type ActionRequest struct {
	Action string `json:"action" binding:"required"`
}

type ChatRequest struct {
	ToolID  string `json:"tool_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type SettingsRequest struct {
	Language *string `json:"language"`
	Theme    *string `json:"theme"`
}

type ConnectRequest struct {
	ServerID string `json:"server_id" binding:"required"`
}

type KillSwitchRequest struct {
	Enable *bool `json:"enable" binding:"required"`
}

type KillSwitchResponse struct {
	Active bool `json:"active"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	AIAvailable bool   `json:"ai_available"`
	VPNEnabled  bool   `json:"vpn_enabled"`
}

type TranslationsResponse struct {
	Language string            `json:"language"`
	Dir      string            `json:"dir"`
	Texts    map[string]string `json:"texts"`
}
