package bot

import (
	"fmt"
	"strings"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/telebus/telebus/bus"
	"github.com/telebus/telebus/config"
	"github.com/telebus/telebus/database"
)

// CoreCommands bundles the built-in commands every telebus instance carries.
// It registers as an unnamed config entry: each declared method becomes one
// command named after the method.
type CoreCommands struct{}

func (c *CoreCommands) Commands() []bus.CommandMeta {
	return []bus.CommandMeta{
		{Method: "Start", Description: "Begin a conversation", Aliases: []string{"hello"}},
		{Method: "Help", Description: "List available commands", Aliases: []string{"h"}},
		{Method: "Version", Description: "Show the running version"},
	}
}

type replyArgs struct {
	R *Responder
}

func (c *CoreCommands) Start(ctx *bus.Context, args replyArgs) error {
	return args.R.Reply(ctx, "Hi! Send /help to see what I can do.")
}

type helpArgs struct {
	R   *Responder
	Reg *bus.Registry
}

func (c *CoreCommands) Help(ctx *bus.Context, args helpArgs) error {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, cmd := range args.Reg.List() {
		fmt.Fprintf(&b, "/%s", cmd.Name)
		if len(cmd.Aliases) > 0 {
			fmt.Fprintf(&b, " (aliases: %s)", strings.Join(cmd.Aliases, ", "))
		}
		if cmd.Description != "" {
			fmt.Fprintf(&b, " — %s", cmd.Description)
		}
		b.WriteString("\n")
	}
	return args.R.Reply(ctx, b.String())
}

func (c *CoreCommands) Version(ctx *bus.Context, args replyArgs) error {
	return args.R.Reply(ctx, "telebus "+Version)
}

// Version is stamped by the cmd package at startup.
var Version = "dev"

type echoArgs struct {
	// Text is a regex parameter: it captures the whole remainder, so
	// multi-word messages echo back in one piece.
	Text string `arg:"text" default:"{.+}"`
	R    *Responder
}

// Echo repeats the text following the command.
func Echo(ctx *bus.Context, args echoArgs) error {
	if args.Text == "" {
		return args.R.Reply(ctx, "Nothing to echo.")
	}
	return args.R.Reply(ctx, args.Text)
}

// GreetCommand greets someone by name. Name is required; greeting falls back
// to its declared default.
type GreetCommand struct{}

type greetArgs struct {
	Name     string `arg:"name"`
	Greeting string `arg:"greeting" default:"hello"`
	R        *Responder
}

func (g *GreetCommand) Handle(ctx *bus.Context, args greetArgs) error {
	return args.R.Reply(ctx, fmt.Sprintf("%s, %s!", args.Greeting, args.Name))
}

func (g *GreetCommand) Description() string {
	return "Greet someone: /greet <name> [greeting]"
}

// StatsCommand reports per-command usage counters to admins.
type StatsCommand struct{}

type statsArgs struct {
	R *Responder
}

func (s *StatsCommand) Handle(ctx *bus.Context, args statsArgs) error {
	if ctx.Message.From == nil || !slice.Contain(config.C.Admins, ctx.Message.From.ID) {
		return args.R.Reply(ctx, "Admins only.")
	}
	stats, err := database.ListCommandStats(ctx)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return args.R.Reply(ctx, "No commands dispatched yet.")
	}
	var b strings.Builder
	b.WriteString("Command usage:\n")
	for _, st := range stats {
		fmt.Fprintf(&b, "/%s: %d (last %s)\n", st.Name, st.Invocations, st.LastInvoked.Format("2006-01-02 15:04"))
	}
	return args.R.Reply(ctx, b.String())
}

func (s *StatsCommand) Description() string {
	return "Show command usage counters (admins)"
}
