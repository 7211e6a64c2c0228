package services

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Wizi44/PNodes/models"
)

// DiscordBotService posts partition alerts to a configured channel.
// Missing credentials disable notifications instead of failing startup.
type DiscordBotService struct {
	session   *discordgo.Session
	channelID string
	enabled   bool
}

func NewDiscordBotService(token, channelID string) (*DiscordBotService, error) {
	if token == "" || channelID == "" {
		log.Println("Discord credentials not provided, notifications disabled")
		return &DiscordBotService{enabled: false}, nil
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open Discord connection: %w", err)
	}

	log.Printf("Discord bot connected, channel %s", channelID)

	return &DiscordBotService{
		session:   session,
		channelID: channelID,
		enabled:   true,
	}, nil
}

func (d *DiscordBotService) Enabled() bool {
	return d != nil && d.enabled
}

func (d *DiscordBotService) Close() {
	if d.Enabled() {
		d.session.Close()
	}
}

// SendPartitionAlert posts an embed describing a suspected network
// partition.
func (d *DiscordBotService) SendPartitionAlert(verdict models.PartitionVerdict, summary models.NetworkSummary) error {
	if !d.Enabled() {
		return fmt.Errorf("discord bot not enabled")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Network partition suspected",
		Description: verdict.Reason,
		Color:       0xE74C3C,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total nodes", Value: fmt.Sprintf("%d", summary.TotalNodes), Inline: true},
			{Name: "Online", Value: fmt.Sprintf("%d", summary.OnlineNodes), Inline: true},
			{Name: "Offline", Value: fmt.Sprintf("%d", summary.OfflineNodes), Inline: true},
			{Name: "Average health", Value: fmt.Sprintf("%.2f", summary.AverageHealth), Inline: true},
		},
	}

	if _, err := d.session.ChannelMessageSendEmbed(d.channelID, embed); err != nil {
		return fmt.Errorf("failed to send Discord message: %w", err)
	}

	log.Printf("Partition alert sent to Discord: %s", verdict.Reason)
	return nil
}
