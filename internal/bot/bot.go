package bot

import (
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/telebot.v4"

	"github.com/marvko/vendtrack/internal/repository/sqlite"
)

// Bot contains the bot API instance and the subscription storage.
type Bot struct {
	bot  API
	log  *slog.Logger
	repo sqlite.SubscriptionRepository
}

func NewBot(log *slog.Logger, token string, poller time.Duration, repo sqlite.SubscriptionRepository) (*Bot, error) {
	tgBot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: poller},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Info("Authorized on account", "account", tgBot.Me.Username)

	botInstance := &Bot{bot: tgBot, log: log, repo: repo}

	botInstance.registerRoutes()

	return botInstance, nil
}

// Start launches the bot to listen for updates.
func (b *Bot) Start() {
	b.log.Info("Telegram bot is starting...")
	b.bot.Start()
}

// Stop gracefully stops the Telegram bot and logs the action.
func (b *Bot) Stop() {
	b.log.Info("Telegram bot is stopped...")
	b.bot.Stop()
}

// registerRoutes configures all routes (commands).
func (b *Bot) registerRoutes() {
	// Public routes.
	b.bot.Handle("/start", b.startHandler)
	b.bot.Handle("/subscribe", b.subscribeHandler)
	b.bot.Handle("/unsubscribe", b.unsubscribeHandler)
}
