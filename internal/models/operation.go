package models

import "time"

type ToolStatus string

const (
	StatusNotLoaded  ToolStatus = "Not Loaded"
	StatusReadyToRun ToolStatus = "Ready to Run"
	StatusRunning    ToolStatus = "Running"
	StatusCompleted  ToolStatus = "Completed"
	StatusError      ToolStatus = "Error"
	StatusLoading    ToolStatus = "Loading"
)

// I18nKey returns the localization key of the status label.
func (s ToolStatus) I18nKey() string {
	switch s {
	case StatusNotLoaded:
		return "STATUS_NOT_LOADED"
	case StatusReadyToRun:
		return "STATUS_READY_TO_RUN"
	case StatusRunning:
		return "STATUS_RUNNING"
	case StatusCompleted:
		return "STATUS_COMPLETED"
	case StatusError:
		return "STATUS_ERROR"
	case StatusLoading:
		return "STATUS_LOADING"
	}
	return string(s)
}

// Terminal reports whether an operation in this status no longer ticks.
func (s ToolStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

type ThreatType string

const (
	ThreatProcess   ThreatType = "process"
	ThreatStartup   ThreatType = "startup"
	ThreatSignature ThreatType = "signature"
)

// I18nKey returns the localization key describing the threat type.
func (t ThreatType) I18nKey() string {
	switch t {
	case ThreatProcess:
		return "THREAT_TYPE_PROCESS"
	case ThreatStartup:
		return "THREAT_TYPE_STARTUP"
	case ThreatSignature:
		return "THREAT_TYPE_SIGNATURE"
	}
	return string(t)
}

type Severity string

const (
	SeverityHigh    Severity = "High"
	SeverityMedium  Severity = "Medium"
	SeverityLow     Severity = "Low"
	SeverityUnknown Severity = "Unknown"
)

type ThreatDetails struct {
	Type     ThreatType `json:"type"`
	Value    string     `json:"value"`
	Severity Severity   `json:"severity,omitempty"`
}

type ScanResults struct {
	ItemsScanned int             `json:"itemsScanned"`
	ThreatsFound []ThreatDetails `json:"threatsFound"`
}

// Operation is one run of a tool. The registry owns live copies; the DAO keeps history.
type Operation struct {
	ID              string            `gorm:"primaryKey;type:varchar(128)" json:"id"`
	ToolID          string            `gorm:"index" json:"toolId"`
	ToolName        string            `json:"toolName"`
	CategoryID      string            `json:"categoryId,omitempty"`
	TaskDescription string            `json:"taskDescription"`
	Params          map[string]string `gorm:"serializer:json" json:"params,omitempty"`
	Status          ToolStatus        `gorm:"type:varchar(32)" json:"status"`
	Progress        float64           `json:"progress"`
	StartTime       time.Time         `json:"startTime"`
	EndTime         *time.Time        `json:"endTime,omitempty"`
	Logs            []string          `gorm:"serializer:json" json:"logs"`
	ScanResults     *ScanResults      `gorm:"serializer:json" json:"scanResults,omitempty"`
	CreatedAt       int64             `gorm:"autoCreateTime:milli" json:"created_at"`
	UpdatedAt       int64             `gorm:"autoUpdateTime:milli" json:"updated_at"`
}

// Clone returns a deep copy safe to hand out of the registry lock.
func (o *Operation) Clone() *Operation {
	if o == nil {
		return nil
	}
	c := *o
	if o.Params != nil {
		c.Params = make(map[string]string, len(o.Params))
		for k, v := range o.Params {
			c.Params[k] = v
		}
	}
	c.Logs = append([]string(nil), o.Logs...)
	if o.EndTime != nil {
		end := *o.EndTime
		c.EndTime = &end
	}
	if o.ScanResults != nil {
		sr := *o.ScanResults
		sr.ThreatsFound = append([]ThreatDetails(nil), o.ScanResults.ThreatsFound...)
		c.ScanResults = &sr
	}
	return &c
}

// OperationStats summarises the registry for the dashboard.
type OperationStats struct {
	Total         int `json:"total"`
	Running       int `json:"running"`
	Paused        int `json:"paused"`
	Completed     int `json:"completed"`
	Failed        int `json:"failed"`
	QueueRunning  int `json:"queueRunning"`
	QueueWaiting  int `json:"queueWaiting"`
	MaxConcurrent int `json:"maxConcurrent"`
}

type AIGeneratedContent struct {
	ID           string    `json:"id"`
	ToolID       string    `json:"toolId"`
	Prompt       string    `json:"prompt"`
	ResponseText string    `json:"responseText"`
	Timestamp    time.Time `json:"timestamp"`
	Error        string    `json:"error,omitempty"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
