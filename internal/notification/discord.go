package notification

import (
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "knoxshield/pkg/errors"

	"github.com/bwmarrin/discordgo"
)

type Message struct {
	Title       string
	Description string
	Severity    string
	Fields      map[string]string
	Timestamp   time.Time
}

// Sender delivers alert messages.
type Sender interface {
	Send(msg Message) error
}

type NotificationClient struct {
	sg        *discordgo.Session
	channelID string
}

// NewNotificationClient opens a bot session posting to channelID.
func NewNotificationClient(token, channelID string) (*NotificationClient, error) {
	if token == "" || channelID == "" {
		return nil, apperrors.ErrDiscordNotConfigured
	}

	sg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	if err := sg.Open(); err != nil {
		return nil, fmt.Errorf("failed to open discord session: %w", err)
	}

	return &NotificationClient{sg: sg, channelID: channelID}, nil
}

// SeverityColor maps a finding severity onto an embed colour.
func SeverityColor(severity string) int {
	switch strings.ToLower(severity) {
	case "critical":
		return 0x8B0000
	case "high":
		return 0xFF0000
	case "medium":
		return 0xFF8C00
	case "low":
		return 0xFFD700
	case "info":
		return 0x00BFFF
	default:
		return 0x808080
	}
}

// BuildEmbed renders msg as a discord embed. Fields are sorted by name.
func BuildEmbed(msg Message) *discordgo.MessageEmbed {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	embed := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       SeverityColor(msg.Severity),
		Timestamp:   msg.Timestamp.Format(time.RFC3339),
	}

	if len(msg.Fields) > 0 {
		keys := make([]string, 0, len(msg.Fields))
		for key := range msg.Fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fields := make([]*discordgo.MessageEmbedField, 0, len(keys))
		for _, key := range keys {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:   key,
				Value:  msg.Fields[key],
				Inline: true,
			})
		}
		embed.Fields = fields
	}
	return embed
}

func (c *NotificationClient) Send(msg Message) error {
	if c == nil || c.sg == nil {
		return apperrors.ErrDiscordNotConfigured
	}

	_, err := c.sg.ChannelMessageSendEmbed(c.channelID, BuildEmbed(msg))
	return err
}

func (c *NotificationClient) Close() error {
	if c != nil && c.sg != nil {
		return c.sg.Close()
	}
	return nil
}
