package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/telebus/telebus/bus"
)

// Responder sends replies on behalf of command handlers. Handlers receive it
// as an injectable parameter, which keeps the bus free of any sending
// concern.
type Responder struct {
	api TelegramAPI
}

func NewResponder(api TelegramAPI) *Responder {
	return &Responder{api: api}
}

// Reply sends text as a reply to the message that triggered the command.
func (r *Responder) Reply(ctx *bus.Context, text string) error {
	msg := tgbotapi.NewMessage(ctx.Message.Chat.ID, text)
	msg.ReplyToMessageID = ctx.Message.MessageID
	_, err := r.api.Send(msg)
	return err
}

// Send sends text to an arbitrary chat.
func (r *Responder) Send(chatID int64, text string) error {
	_, err := r.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
