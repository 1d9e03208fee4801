package catalog

import (
	"testing"

	"knoxshield/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	categories, err := Load()
	require.NoError(t, err)
	require.Len(t, categories, 4)

	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"offensive-security", "developer-tools", "post-format-utilities", "bots-ai-models"}, ids)

	tools := make(map[string]models.Tool)
	for _, c := range categories {
		for _, tool := range c.Tools {
			assert.Equal(t, c.ID, tool.CategoryID)
			tools[tool.ID] = tool
		}
	}

	for _, id := range []string{ToolDeepScan, ToolMalwareKiller, ToolTraceWiper, ToolEmailBreach, ToolAIChat} {
		tool, ok := tools[id]
		require.True(t, ok, "missing special tool %s", id)
		assert.Equal(t, models.StatusReadyToRun, tool.Status)
	}

	assert.True(t, tools[ToolDeepScan].AIPowered)
	assert.Equal(t, "KNOX_DEEP_SCAN_NAME", tools[ToolDeepScan].Name)
	assert.Equal(t, models.StatusNotLoaded, tools["nmap"].Status)

	email := tools[ToolEmailBreach].SampleExecutionParams
	require.Len(t, email, 1)
	assert.Equal(t, "EMAIL_BREACH_INPUT_LABEL", email[0].Label)
	assert.True(t, email[0].Required)
	assert.Equal(t, "example@email.com", email[0].Placeholder)

	wiper := tools[ToolTraceWiper].SampleExecutionParams
	require.Len(t, wiper, 1)
	assert.Equal(t, models.ParamSelect, wiper[0].Type)
	assert.Len(t, wiper[0].Options, 5)

	verbosity := tools["nmap"].SampleExecutionParams[2]
	require.NotNil(t, verbosity.Max)
	assert.Equal(t, 3.0, *verbosity.Max)
	assert.Equal(t, "1", verbosity.DefaultValue)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "invalid yaml", doc: "categories: [: :"},
		{name: "missing category id", doc: "categories:\n- name: x\n"},
		{name: "missing tool id", doc: "categories:\n- id: a\n  tools:\n  - name: t\n"},
		{name: "duplicate tool", doc: "categories:\n- id: a\n  tools:\n  - id: t\n- id: b\n  tools:\n  - id: t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestThreatDB(t *testing.T) {
	db, err := LoadThreatDB()
	require.NoError(t, err)

	assert.Len(t, db.MaliciousProcessNames, 6)
	assert.Len(t, db.SuspiciousStartupEntries, 4)
	assert.Len(t, db.MalwareSignatures, 3)
	assert.Equal(t, `C:\Users\Admin\AppData\Roaming\msupdate.vbs`, db.SuspiciousStartupEntries[0])

	tests := []struct {
		text     string
		expected string
		matched  bool
	}{
		{"X5O!P%@AP eicar-standard-antivirus-test-file!$H+H*", "EICAR Test String", true},
		{"Your files are encrypted! send 1 BTC... pay btc now", "Generic Ransomware Note", true},
		{"cmd /c POWERSHELL -ENC JABzAGUAcgB2AGUAcgA=", "PowerShell Encoded Command", true},
		{"hello world", "", false},
	}
	for _, tt := range tests {
		name, ok := db.MatchSignature(tt.text)
		assert.Equal(t, tt.matched, ok, tt.text)
		assert.Equal(t, tt.expected, name)
	}

	assert.True(t, db.IsSafeProcess("svchost.exe"))
	assert.False(t, db.IsSafeProcess("xrat.exe"))
	assert.True(t, db.IsMaliciousProcess("darkside.bin"))
}

func TestParseThreatDB_InvalidSignature(t *testing.T) {
	_, err := ParseThreatDB([]byte("malwareSignatures:\n- name: broken\n  pattern: '([a-'\n"))
	assert.Error(t, err)
}
