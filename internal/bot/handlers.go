package bot

import (
	"context"
	"fmt"

	"gopkg.in/telebot.v4"
)

// startHandler processes command /start.
func (b *Bot) startHandler(ctx telebot.Context) error {
	b.log.Info("User started the bot", "username", ctx.Sender().Username)

	const greeting = "Hello! I watch a vending machine page and report changes.\n" +
		"Use /subscribe to receive notifications and /unsubscribe to stop them."
	if err := ctx.Send(greeting); err != nil {
		return fmt.Errorf("failed to send greeting message: %w", err)
	}

	return nil
}

// subscribeHandler processes command /subscribe.
func (b *Bot) subscribeHandler(ctx telebot.Context) error {
	chatID := ctx.Chat().ID
	if err := b.repo.SubscribeChat(context.Background(), chatID); err != nil {
		b.log.Error("failed to subscribe chat", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to subscribe chat %d: %w", chatID, err)
	}
	b.log.Info("Chat subscribed", "chat_id", chatID)

	if err := ctx.Send("Subscribed. You will be notified about product changes."); err != nil {
		return fmt.Errorf("failed to send subscribe confirmation: %w", err)
	}

	return nil
}

// unsubscribeHandler processes command /unsubscribe.
func (b *Bot) unsubscribeHandler(ctx telebot.Context) error {
	chatID := ctx.Chat().ID
	if err := b.repo.UnsubscribeChat(context.Background(), chatID); err != nil {
		b.log.Error("failed to unsubscribe chat", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to unsubscribe chat %d: %w", chatID, err)
	}
	b.log.Info("Chat unsubscribed", "chat_id", chatID)

	if err := ctx.Send("Unsubscribed. No more notifications."); err != nil {
		return fmt.Errorf("failed to send unsubscribe confirmation: %w", err)
	}

	return nil
}
