package bot

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/telebus/telebus/bus"
	"github.com/telebus/telebus/config"
	"github.com/telebus/telebus/database"
)

var BotInstance *Bot

// TelegramAPI abstracts the Bot API methods the bot uses, so tests can swap
// in a fake client.
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

type Bot struct {
	API TelegramAPI
	Bus *bus.Bus

	updates chan tgbotapi.Update
}

func NewBot(ctx context.Context) (*Bot, error) {
	logger := log.FromContext(ctx)
	logger.Debug("Initializing bot")
	if BotInstance != nil {
		return BotInstance, nil
	}
	if config.C.Debug {
		if err := tgbotapi.SetLogger(botAPILogger{s: newAPILogger(config.C.LogDir)}); err != nil {
			logger.Warn("Failed to set bot api logger", "error", err)
		}
	}
	api, err := tgbotapi.NewBotAPI(config.C.BotToken)
	if err != nil {
		return nil, err
	}
	api.Debug = config.C.Debug

	registry, err := buildRegistry()
	if err != nil {
		return nil, err
	}
	container := bus.NewTypeContainer()
	container.Bind(registry)
	container.Bind(&Responder{api: api})

	b := &Bot{
		API:     api,
		Bus:     bus.NewBus(registry, container),
		updates: make(chan tgbotapi.Update, 64),
	}
	if err := b.setMyCommands(); err != nil {
		logger.Error("Failed to set bot commands", "error", err)
	}
	BotInstance = b
	return BotInstance, nil
}

// Start runs the polling loop and processes updates until ctx is cancelled.
// Updates are handled one at a time; the registry is frozen at the first
// dispatch.
func (b *Bot) Start(ctx context.Context) {
	logger := log.FromContext(ctx)
	logger.Info("Starting bot...")

	go b.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Exiting...")
			return
		case update := <-b.updates:
			b.handleUpdate(ctx, update)
		}
	}
}

// Enqueue feeds one update into the processing queue. The webhook endpoint
// uses it as the alternative to polling.
func (b *Bot) Enqueue(update tgbotapi.Update) {
	b.updates <- update
}

// poll long-polls getUpdates, retrying transport failures with exponential
// backoff and persisting the cursor so a restart resumes where it left off.
func (b *Bot) poll(ctx context.Context) {
	logger := log.FromContext(ctx)
	offset := 0
	if last := database.LastUpdateOffset(); last > 0 {
		offset = last + 1
	}
	for ctx.Err() == nil {
		var updates []tgbotapi.Update
		op := func() error {
			cfg := tgbotapi.NewUpdate(offset)
			cfg.Timeout = config.C.PollTimeout
			var err error
			updates, err = b.API.GetUpdates(cfg)
			return err
		}
		bo := backoff.NewExponentialBackOff()
		bo.MaxElapsedTime = 0
		if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
			logger.Error("Polling stopped", "error", err)
			return
		}
		for _, update := range updates {
			offset = update.UpdateID + 1
			select {
			case b.updates <- update:
			case <-ctx.Done():
				return
			}
		}
		if len(updates) > 0 {
			if err := database.SaveUpdateOffset(ctx, updates[len(updates)-1].UpdateID); err != nil {
				logger.Warn("Failed to persist update offset", "error", err)
			}
		}
	}
}

// setMyCommands publishes the registry listing to Telegram's command menu.
func (b *Bot) setMyCommands() error {
	cmds := make([]tgbotapi.BotCommand, 0)
	for _, cmd := range b.Bus.Registry().List() {
		if cmd.Description == "" {
			continue
		}
		cmds = append(cmds, tgbotapi.BotCommand{Command: cmd.Name, Description: cmd.Description})
	}
	if len(cmds) == 0 {
		return nil
	}
	_, err := b.API.Request(tgbotapi.NewSetMyCommands(cmds...))
	return err
}
