package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/HapaxPablo/online-cinema-server/pkg/logger"
)

// MessageOptions attaches a single inline URL button to a message.
type MessageOptions struct {
	LinkLabel string
	LinkURL   string
}

// Client sends fire-and-forget notifications into a single configured chat.
type Client struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func New(token string, chatID int64) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}

	logger.Log.Info().Str("bot", bot.Self.UserName).Msg("telegram connected")
	return &Client{bot: bot, chatID: chatID}, nil
}

func (c *Client) SendPhoto(ctx context.Context, photoURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	photo := tgbotapi.NewPhoto(c.chatID, tgbotapi.FileURL(photoURL))
	if _, err := c.bot.Send(photo); err != nil {
		return fmt.Errorf("telegram send photo: %w", err)
	}
	return nil
}

func (c *Client) SendMessage(ctx context.Context, text string, opts MessageOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if opts.LinkURL != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL(opts.LinkLabel, opts.LinkURL),
			),
		)
	}

	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send message: %w", err)
	}
	return nil
}
