package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-faster/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/telebus/telebus/bus"
	"github.com/telebus/telebus/database"
)

// handleUpdate dispatches one update through the bus. Validation failures
// turn into a usage reply; handler errors are logged without crashing the
// loop, so one bad message never takes the bot down.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	logger := log.FromContext(ctx)
	invocations, err := b.Bus.ProcessUpdate(ctx, &update)
	if err != nil {
		if errors.Is(err, bus.ErrNoTextMessage) {
			return
		}
		logger.Error("Failed to process update", "update_id", update.UpdateID, "error", err)
		return
	}
	for _, inv := range invocations {
		var verr *bus.ValidationError
		switch {
		case inv.Err == nil:
			if err := database.IncrCommandStat(ctx, inv.Command); err != nil {
				logger.Warn("Failed to record command stat", "command", inv.Command, "error", err)
			}
		case errors.As(inv.Err, &verr):
			if err := b.replyUsage(update.Message, verr); err != nil {
				logger.Error("Failed to send usage reply", "command", inv.Command, "error", err)
			}
		default:
			logger.Error("Command failed", "command", inv.Command, "error", inv.Err)
		}
	}
}

func (b *Bot) replyUsage(msg *tgbotapi.Message, verr *bus.ValidationError) error {
	reply := tgbotapi.NewMessage(msg.Chat.ID, usageText(verr))
	reply.ReplyToMessageID = msg.MessageID
	_, err := b.API.Send(reply)
	return err
}

func usageText(verr *bus.ValidationError) string {
	return fmt.Sprintf("Missing required arguments for /%s: %s",
		verr.Command, strings.Join(verr.Missing, ", "))
}
