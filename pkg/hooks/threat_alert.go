package hooks

import (
	"fmt"
	"strconv"

	"knoxshield/internal/catalog"
	"knoxshield/internal/i18n"
	"knoxshield/internal/models"
	"knoxshield/internal/notification"
)

// ThreatAlertHook posts a discord embed when a deep scan found threats.
type ThreatAlertHook struct {
	Sender notification.Sender
	Texts  *i18n.Translator
}

func NewThreatAlertHook(sender notification.Sender) *ThreatAlertHook {
	return &ThreatAlertHook{Sender: sender, Texts: i18n.New(i18n.English)}
}

func (h *ThreatAlertHook) Name() string {
	return "threat_alert"
}

func (h *ThreatAlertHook) PostHook(ctx Context) error {
	op := ctx.Operation
	if op == nil || op.ToolID != catalog.ToolDeepScan || op.ScanResults == nil {
		return nil
	}
	if len(op.ScanResults.ThreatsFound) == 0 {
		return nil
	}
	return h.Sender.Send(h.buildMessage(op))
}

func (h *ThreatAlertHook) buildMessage(op *models.Operation) notification.Message {
	threats := op.ScanResults.ThreatsFound

	fields := map[string]string{
		"Operation":     op.ID,
		"Items Scanned": strconv.Itoa(op.ScanResults.ItemsScanned),
	}
	for i, threat := range threats {
		key := fmt.Sprintf("#%d %s", i+1, h.Texts.Get(threat.Type.I18nKey()))
		fields[key] = fmt.Sprintf("%s (%s)", threat.Value, threat.Severity)
	}

	return notification.Message{
		Title:       h.Texts.Get("KNOX_ALERT_TITLE"),
		Description: fmt.Sprintf("%d %s", len(threats), h.Texts.Get("KNOX_ALERT_BODY_THREATS_DETECTED")),
		Severity:    string(highestSeverity(threats)),
		Fields:      fields,
	}
}

func highestSeverity(threats []models.ThreatDetails) models.Severity {
	rank := map[models.Severity]int{
		models.SeverityHigh:   3,
		models.SeverityMedium: 2,
		models.SeverityLow:    1,
	}
	best := models.SeverityUnknown
	for _, t := range threats {
		if rank[t.Severity] > rank[best] {
			best = t.Severity
		}
	}
	return best
}
