package gateway

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// DiscordGateway mirrors the Telegram gateway over Discord: every message
// in a channel the bot can read is treated as a product query.
type DiscordGateway struct {
	Session  *discordgo.Session
	Pipeline Runner
	Store    Archiver
	done     chan struct{}
}

func NewDiscordGateway(token string, p Runner, store Archiver) (*DiscordGateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	return &DiscordGateway{
		Session:  session,
		Pipeline: p,
		Store:    store,
		done:     make(chan struct{}),
	}, nil
}

func (d *DiscordGateway) Start() error {
	d.Session.AddHandler(d.onMessage)

	if err := d.Session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %v", err)
	}
	log.Printf("Discord gateway connected as %s", d.Session.State.User.Username)

	<-d.done
	return nil
}

func (d *DiscordGateway) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID || m.Content == "" {
		return
	}

	log.Printf("[%s] %s", m.Author.Username, m.Content)

	st := d.Pipeline.Run(context.Background(), m.Content)
	if d.Store != nil {
		if _, err := d.Store.SaveRun(st); err != nil {
			log.Printf("Failed to archive run: %v", err)
		}
	}

	if _, err := s.ChannelMessageSend(m.ChannelID, reply(st)); err != nil {
		log.Printf("Failed to send discord reply: %v", err)
	}
}

func (d *DiscordGateway) Send(chatID string, text string) error {
	_, err := d.Session.ChannelMessageSend(chatID, text)
	return err
}

func (d *DiscordGateway) Stop() error {
	close(d.done)
	return d.Session.Close()
}
