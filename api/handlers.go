package api

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"

	"github.com/telebus/telebus/bot"
)

// HandleWebhook accepts a Bot API update and feeds it into the bot's queue,
// the webhook alternative to long polling.
func HandleWebhook(b *bot.Bot) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var update tgbotapi.Update
		if err := c.BodyParser(&update); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		b.Enqueue(update)
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListCommands returns the registry listing with per-command parameter
// metadata.
func ListCommands(b *bot.Bot) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cmds := b.Bus.Registry().List()
		out := make([]CommandInfo, 0, len(cmds))
		for _, cmd := range cmds {
			info := CommandInfo{
				Name:        cmd.Name,
				Description: cmd.Description,
				Aliases:     cmd.Aliases,
			}
			for _, p := range cmd.Parameters() {
				info.Params = append(info.Params, ParamInfo{
					Name:       p.Name,
					Required:   p.Required(),
					Default:    p.Default,
					Variadic:   p.Variadic,
					Injectable: p.Injectable,
				})
			}
			out = append(out, info)
		}
		return c.JSON(out)
	}
}

// DryRun resolves a synthetic message without invoking any handler, so
// operators can check how a message would parse.
func DryRun(b *bot.Bot) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req DryRunRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		msg := &tgbotapi.Message{Text: req.Text}
		for _, ent := range req.Entities {
			msg.Entities = append(msg.Entities, tgbotapi.MessageEntity{
				Type:   ent.Type,
				Offset: ent.Offset,
				Length: ent.Length,
			})
		}
		invocations, err := b.Bus.Resolve(c.Context(), msg)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		out := make([]InvocationInfo, 0, len(invocations))
		for _, inv := range invocations {
			out = append(out, InvocationInfo{
				Command: inv.Command,
				Args:    inv.Args,
				Missing: inv.Missing,
			})
		}
		return c.JSON(out)
	}
}
