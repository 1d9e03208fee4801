// Package ui renders CLI output with pterm.
package ui

import (
	"fmt"
	"strconv"

	"knoxshield/internal/i18n"
	"knoxshield/internal/models"

	"github.com/pterm/pterm"
)

const timeLayout = "2006-01-02 15:04:05"

func statusText(s models.ToolStatus, t *i18n.Translator) string {
	label := t.Get(s.I18nKey())
	switch s {
	case models.StatusCompleted, models.StatusReadyToRun:
		return pterm.FgGreen.Sprint(label)
	case models.StatusError:
		return pterm.FgRed.Sprint(label)
	case models.StatusRunning, models.StatusLoading:
		return pterm.FgCyan.Sprint(label)
	default:
		return pterm.FgGray.Sprint(label)
	}
}

// CategoryRows is the table behind PrintCategories.
func CategoryRows(categories []models.ToolCategory, lang string) [][]string {
	t := i18n.New(lang)
	data := [][]string{{"Category", "Tool ID", "Name", t.Get("OP_COL_STATUS"), "AI"}}
	for _, c := range categories {
		for _, tool := range c.Tools {
			ai := ""
			if tool.AIPowered {
				ai = "yes"
			}
			data = append(data, []string{c.ID, tool.ID, tool.Name, statusText(tool.Status, t), ai})
		}
	}
	return data
}

func PrintCategories(categories []models.ToolCategory, lang string) {
	if len(categories) == 0 {
		pterm.Warning.Println("No matching categories.")
		return
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(CategoryRows(categories, lang)).Render()
}

func PrintOperations(ops []models.Operation, lang string) {
	if len(ops) == 0 {
		pterm.Info.Println("No operations recorded.")
		return
	}
	t := i18n.New(lang)
	data := [][]string{{"ID", t.Get("OP_COL_TOOL"), t.Get("OP_COL_TASK"), t.Get("OP_COL_STATUS"), t.Get("OP_COL_PROGRESS"), t.Get("OP_COL_TIME")}}
	for _, op := range ops {
		end := "-"
		if op.EndTime != nil {
			end = op.EndTime.Format(timeLayout)
		}
		data = append(data, []string{
			op.ID,
			op.ToolName,
			op.TaskDescription,
			statusText(op.Status, t),
			fmt.Sprintf("%.0f%%", op.Progress),
			op.StartTime.Format(timeLayout) + " / " + end,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// FindingRows is the table behind PrintFindings.
func FindingRows(results models.ScanResults, lang string) [][]string {
	t := i18n.New(lang)
	data := [][]string{{"Severity", "Type", "Value"}}
	for _, f := range results.ThreatsFound {
		var severity string
		switch f.Severity {
		case models.SeverityHigh:
			severity = pterm.FgRed.Sprint("HIGH")
		case models.SeverityMedium:
			severity = pterm.FgYellow.Sprint("MEDIUM")
		case models.SeverityLow:
			severity = pterm.FgBlue.Sprint("LOW")
		default:
			severity = pterm.FgGray.Sprint("UNKNOWN")
		}
		data = append(data, []string{severity, t.Get(f.Type.I18nKey()), f.Value})
	}
	return data
}

func PrintFindings(results *models.ScanResults, lang string) {
	if results == nil {
		return
	}
	if len(results.ThreatsFound) == 0 {
		pterm.Success.Printf("Scanned %d items, no threats found.\n", results.ItemsScanned)
		return
	}
	pterm.Warning.Printf("Scanned %d items, found %d potential threats:\n\n", results.ItemsScanned, len(results.ThreatsFound))
	_ = pterm.DefaultTable.WithHasHeader().WithData(FindingRows(*results, lang)).Render()
}

func PrintServers(servers []models.VPNServer) {
	if len(servers) == 0 {
		pterm.Info.Println("No VPN servers imported.")
		return
	}
	data := [][]string{{"ID", "Name", "Protocol", "Location", "Endpoint", "Imported"}}
	for _, s := range servers {
		endpoint := "-"
		if s.EndpointHost != "" {
			endpoint = s.EndpointHost + ":" + strconv.Itoa(s.EndpointPort)
		}
		data = append(data, []string{
			s.ID,
			pterm.FgCyan.Sprint(s.Name),
			string(s.Protocol),
			s.Location,
			endpoint,
			s.ImportDate.Format(timeLayout),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func PrintVPNStatus(st models.VPNStatus) {
	state := pterm.FgRed.Sprint(st.Status)
	if st.Connected {
		state = pterm.FgGreen.Sprint(st.Status)
	}
	killSwitch := "off"
	if st.KillSwitchActive {
		killSwitch = pterm.FgYellow.Sprint("on")
	}
	data := [][]string{
		{"Status", state},
		{"Server", st.ServerName},
		{"IP", st.CurrentIP},
		{"Kill switch", killSwitch},
	}
	if st.ConnectedSince != nil {
		data = append(data, []string{"Since", st.ConnectedSince.Format(timeLayout)})
	}
	if st.Error != "" {
		data = append(data, []string{"Error", pterm.FgRed.Sprint(st.Error)})
	}
	_ = pterm.DefaultTable.WithData(data).Render()
}
