// Package publisher delivers digest posts to the configured outlets.
package publisher

import (
	"context"
	"strconv"

	"github.com/cryptovibes/cryptovibes/pkg/errlvl"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// Publisher posts one text to an outlet and returns the outlet's id for it.
type Publisher interface {
	Publish(ctx context.Context, text string) (pubID string, err error)
}

type TelegramPublisher struct {
	ChannelID string // Telegram channel id (e.g. @my_channel)
	BotAPI    *tgbotapi.BotAPI
}

func NewTelegramPublisher(channelID, token string) (*TelegramPublisher, error) {
	b, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, newError(errlvl.FATAL, errTelegramAuth, err)
	}
	return &TelegramPublisher{
		ChannelID: channelID,
		BotAPI:    b,
	}, nil
}

func (t *TelegramPublisher) Publish(_ context.Context, text string) (pubID string, err error) {
	tgMsg := tgbotapi.NewMessageToChannel(t.ChannelID, text)

	s, err := t.BotAPI.Send(tgMsg)
	if err != nil {
		return "", newError(errlvl.ERROR, errTelegramSend, err)
	}
	return strconv.Itoa(s.MessageID), nil
}
