package notification

import (
	"testing"
	"time"

	apperrors "knoxshield/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotificationClient_RequiresCredentials(t *testing.T) {
	_, err := NewNotificationClient("", "123")
	assert.ErrorIs(t, err, apperrors.ErrDiscordNotConfigured)

	_, err = NewNotificationClient("token", "")
	assert.ErrorIs(t, err, apperrors.ErrDiscordNotConfigured)
}

func TestSeverityColor(t *testing.T) {
	tests := []struct {
		severity string
		expected int
	}{
		{"High", 0xFF0000},
		{"medium", 0xFF8C00},
		{"Low", 0xFFD700},
		{"critical", 0x8B0000},
		{"Unknown", 0x808080},
	}

	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			assert.Equal(t, tt.expected, SeverityColor(tt.severity))
		})
	}
}

func TestBuildEmbed(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	embed := BuildEmbed(Message{
		Title:     "KNOX Security Alert",
		Severity:  "High",
		Timestamp: ts,
		Fields: map[string]string{
			"Threats":  "2",
			"Items":    "1200",
			"Duration": "6s",
		},
	})

	assert.Equal(t, "KNOX Security Alert", embed.Title)
	assert.Equal(t, 0xFF0000, embed.Color)
	assert.Equal(t, "2024-05-01T10:00:00Z", embed.Timestamp)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "Duration", embed.Fields[0].Name)
	assert.Equal(t, "Threats", embed.Fields[2].Name)
}

func TestSend_NilClient(t *testing.T) {
	var c *NotificationClient
	assert.ErrorIs(t, c.Send(Message{}), apperrors.ErrDiscordNotConfigured)
	assert.NoError(t, c.Close())
}
