package bus

import (
	"context"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-faster/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/xid"
	"github.com/telebus/telebus/utils/cache"
)

// ParsedArgs maps parameter names to captured values. A key present with a
// nil value is a declared regex parameter that was not supplied in this
// invocation; an absent key is a parameter the pattern simply did not match.
type ParsedArgs map[string]*string

// Get returns the captured value for name, if one was matched.
func (a ParsedArgs) Get(name string) (string, bool) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Keys returns the provided parameter names (matched or nullified), sorted.
func (a ParsedArgs) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Context is passed to every command handler. It embeds the dispatch
// context.Context and carries the update being handled.
type Context struct {
	context.Context

	Update     *tgbotapi.Update
	Message    *tgbotapi.Message
	Command    string
	Args       ParsedArgs
	DispatchID string
}

// Invocation is the outcome of resolving one command occurrence within an
// update. Err carries a *ValidationError when required parameters were
// missing, or the handler's own error.
type Invocation struct {
	Command string
	Args    ParsedArgs
	Missing []string
	Err     error
}

// Bus dispatches updates to the commands of one bot instance. It holds no
// per-update state; a host may process updates concurrently once the
// registry is frozen.
type Bus struct {
	registry  *Registry
	container Container
	id        string
}

func NewBus(registry *Registry, container Container) *Bus {
	return &Bus{registry: registry, container: container, id: xid.New().String()}
}

// Registry returns the bus's command registry.
func (b *Bus) Registry() *Registry {
	return b.registry
}

// ProcessUpdate resolves and invokes every command occurrence in the update.
// Updates without a text message yield ErrNoTextMessage; text without
// command entities passes through with no invocations. Unknown command names
// are skipped silently.
func (b *Bus) ProcessUpdate(ctx context.Context, update *tgbotapi.Update) ([]Invocation, error) {
	return b.process(ctx, update, true)
}

// Resolve runs the same resolution pipeline as ProcessUpdate but stops short
// of invoking handlers, so callers can inspect parsed arguments and missing
// parameters without side effects.
func (b *Bus) Resolve(ctx context.Context, msg *tgbotapi.Message) ([]Invocation, error) {
	return b.process(ctx, &tgbotapi.Update{Message: msg}, false)
}

func (b *Bus) process(ctx context.Context, update *tgbotapi.Update, invoke bool) ([]Invocation, error) {
	if update == nil {
		return nil, ErrNoTextMessage
	}
	msg := update.Message
	offsets, err := CommandOffsets(msg)
	if err != nil {
		return nil, err
	}
	if len(offsets) == 0 {
		return nil, nil
	}
	b.registry.freeze()

	logger := log.FromContext(ctx)
	dispatchID := xid.New().String()
	invocations := make([]Invocation, 0, len(offsets))
	for _, ent := range msg.Entities {
		if ent.Type != entityBotCommand {
			continue
		}
		name := commandToken(msg.Text, ent)
		cmd, ok := b.registry.Get(name)
		if !ok {
			logger.Debug("Unknown command, ignoring", "command", name, "dispatch_id", dispatchID)
			continue
		}
		inv := b.dispatch(ctx, update, msg, cmd, name, offsets, ent.Offset, dispatchID, invoke)
		invocations = append(invocations, inv)
	}
	return invocations, nil
}

func (b *Bus) dispatch(ctx context.Context, update *tgbotapi.Update, msg *tgbotapi.Message,
	cmd *Command, invoked string, offsets []int, offset int, dispatchID string, invoke bool,
) Invocation {
	pat, err := b.pattern(invoked, cmd)
	if err != nil {
		return Invocation{Command: cmd.Name, Err: errors.Wrapf(err, "pattern for /%s", invoked)}
	}
	scope := RelevantSubstring(msg.Text, offsets, offset)
	args := matchArgs(pat, cmd.Parameters(), scope)

	inv := Invocation{Command: cmd.Name, Args: args}
	if missing := RequiredParamsNotProvided(cmd.Parameters(), args.Keys()); len(missing) > 0 {
		inv.Missing = missing
		inv.Err = &ValidationError{Command: cmd.Name, Missing: missing}
		return inv
	}
	if !invoke {
		return inv
	}

	cctx := &Context{
		Context:    ctx,
		Update:     update,
		Message:    msg,
		Command:    cmd.Name,
		Args:       args,
		DispatchID: dispatchID,
	}
	inv.Err = b.invoke(cctx, cmd, args)
	return inv
}

// pattern returns the compiled pattern for one invoked name, synthesizing
// and caching it on first use. The cache key includes the bus id so two bot
// instances with different registries never share entries, and the invoked
// name so aliases match their own token.
func (b *Bus) pattern(invoked string, cmd *Command) (*regexp.Regexp, error) {
	key := "pattern:" + b.id + ":" + invoked
	if pat, ok := cache.Get[*regexp.Regexp](key); ok {
		return pat, nil
	}
	pat, err := ArgsPattern(invoked, cmd.Parameters())
	if err != nil {
		return nil, err
	}
	_ = cache.Set(key, pat)
	return pat, nil
}

// invoke builds the handler's args struct (text captures converted to field
// types, literal defaults applied, injectables resolved from the container)
// and calls the thunk.
func (b *Bus) invoke(cctx *Context, cmd *Command, args ParsedArgs) error {
	th := cmd.thunk
	if th.argsType == nil {
		return th.call(cctx, reflect.Value{})
	}
	av := reflect.New(th.argsType).Elem()
	for _, p := range th.params {
		f := av.Field(p.field)
		if p.Injectable {
			if b.container == nil {
				return errors.Errorf("no container to resolve parameter %q", p.Name)
			}
			dep, err := b.container.Resolve(f.Type())
			if err != nil {
				return errors.Wrapf(err, "resolve parameter %q", p.Name)
			}
			f.Set(reflect.ValueOf(dep))
			continue
		}
		raw, ok := args.Get(p.Name)
		if !ok {
			if !p.HasDefault || p.regexParam() {
				continue
			}
			raw = p.Default
		}
		if err := setField(f, raw); err != nil {
			return errors.Wrapf(err, "bind parameter %q", p.Name)
		}
	}
	return th.call(cctx, av)
}

// setField converts a captured string to the field's type. Variadic slice
// fields split on whitespace first.
func setField(f reflect.Value, raw string) error {
	switch f.Kind() {
	case reflect.String:
		f.SetString(raw)
	case reflect.Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		f.SetBool(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(raw, 10, f.Type().Bits())
		if err != nil {
			return err
		}
		f.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(raw, 10, f.Type().Bits())
		if err != nil {
			return err
		}
		f.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(raw, f.Type().Bits())
		if err != nil {
			return err
		}
		f.SetFloat(v)
	case reflect.Slice:
		fields := strings.Fields(raw)
		s := reflect.MakeSlice(f.Type(), len(fields), len(fields))
		for i, part := range fields {
			if err := setField(s.Index(i), part); err != nil {
				return err
			}
		}
		f.Set(s)
	default:
		return errors.Errorf("unsupported field kind %s", f.Kind())
	}
	return nil
}
