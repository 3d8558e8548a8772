package gateway

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/anish/priceguard/internal/observability"
)

// TelegramGateway treats every incoming message as a product query, runs
// the pipeline and replies with the rendered report.
type TelegramGateway struct {
	Bot      *tgbotapi.BotAPI
	Pipeline Runner
	Store    Archiver
}

func NewTelegramGateway(token string, p Runner, store Archiver) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	return &TelegramGateway{
		Bot:      bot,
		Pipeline: p,
		Store:    store,
	}, nil
}

func (tg *TelegramGateway) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := tg.Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}

		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)
		response := tg.handle(update.Message.Text)

		msg := tgbotapi.NewMessage(update.Message.Chat.ID, response)
		tg.Bot.Send(msg)
	}
	return nil
}

func (tg *TelegramGateway) handle(text string) string {
	if strings.HasPrefix(text, "/status") {
		stage, query, hb := observability.GetStatus()
		if stage == observability.StageIdle {
			return fmt.Sprintf("Idle. Last heartbeat %s.", hb.Format("15:04:05"))
		}
		return fmt.Sprintf("Running stage %q for %q.", stage, query)
	}
	if strings.HasPrefix(text, "/start") || strings.HasPrefix(text, "/help") {
		return "Send me a product description and I'll compare its price on Amazon, Walmart and Best Buy."
	}

	st := tg.Pipeline.Run(context.Background(), text)
	if tg.Store != nil {
		if _, err := tg.Store.SaveRun(st); err != nil {
			log.Printf("Failed to archive run: %v", err)
		}
	}
	return reply(st)
}

func (tg *TelegramGateway) Send(chatID string, text string) error {
	id := 0
	fmt.Sscanf(chatID, "%d", &id)
	if id == 0 {
		return fmt.Errorf("invalid chat ID: %s", chatID)
	}

	msg := tgbotapi.NewMessage(int64(id), text)
	msg.ParseMode = "Markdown" // Enable markdown for better alerts
	_, err := tg.Bot.Send(msg)
	return err
}

func (tg *TelegramGateway) Stop() error {
	tg.Bot.StopReceivingUpdates()
	return nil
}
