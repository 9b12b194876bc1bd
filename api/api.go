package api

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/telebus/telebus/bot"
	"github.com/telebus/telebus/config"
)

var storedKeyHash []byte
var validate = validator.New()

func validateApiKey(ctx *fiber.Ctx, key string) (bool, error) {
	if config.C.Api.Key == "" {
		return true, nil
	}
	if key == "" {
		return false, keyauth.ErrMissingOrMalformedAPIKey
	}
	inputsum := sha256.Sum256([]byte(key))
	if subtle.ConstantTimeCompare(inputsum[:], storedKeyHash) != 1 {
		return false, keyauth.ErrMissingOrMalformedAPIKey
	}
	return true, nil
}

// Serve runs the HTTP surface: the webhook receiver feeding the bot's update
// queue plus registry inspection endpoints. It blocks until ctx is
// cancelled.
func Serve(ctx context.Context, addr string, b *bot.Bot) error {
	app := fiber.New(
		fiber.Config{
			JSONEncoder: sonic.Marshal,
			JSONDecoder: sonic.Unmarshal,
		},
	)
	loggerCfg := logger.ConfigDefault
	loggerCfg.Format = "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n"
	app.Use(logger.New(loggerCfg))
	app.Use(cors.New())

	if config.C.Api.Key != "" {
		sum := sha256.Sum256([]byte(config.C.Api.Key))
		storedKeyHash = sum[:]
		app.Use(keyauth.New(keyauth.Config{Validator: validateApiKey}))
	}

	app.Post("/webhook", HandleWebhook(b))
	rg := app.Group("/api")
	rg.Get("/commands", ListCommands(b))
	rg.Post("/dispatch/dry-run", DryRun(b))

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()
	return app.Listen(addr)
}
