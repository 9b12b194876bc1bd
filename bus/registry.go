package bus

import (
	"reflect"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/duke-git/lancet/v2/slice"
	"go.uber.org/multierr"
)

// Command is a resolved command descriptor: a name, the normalized handler
// thunk and listing metadata. Aliases share the same *Command, so a lookup by
// any of its names yields the same handler identity.
type Command struct {
	Name        string
	Description string
	Aliases     []string

	thunk *thunk
}

// Parameters returns the command's full ordered parameter list.
func (c *Command) Parameters() []Parameter {
	return c.thunk.params
}

// ConfigEntry is one raw command configuration entry. Name may be empty for
// unnamed entries (CommandSet containers, group references). Value is a
// Handler, or a string naming a group or a repository key.
type ConfigEntry struct {
	Name  string
	Value any
}

// Registry holds the commands of one bot instance. It is built once at
// startup and frozen at the first dispatch; reads need no locking after
// that, matching a one-goroutine-per-update delivery model.
type Registry struct {
	commands map[string]*Command
	frozen   atomic.Bool
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// RegisterCommand registers a single handler under name. Aliases declared
// via the Aliaser interface register as additional names for the same
// command.
func (r *Registry) RegisterCommand(name string, h Handler) error {
	if r.frozen.Load() {
		return ErrRegistryFrozen
	}
	if name == "" {
		return &CommandNameNotSetError{Handler: handlerLabel(h)}
	}
	th, err := resolveHandler(h)
	if err != nil {
		return err
	}
	cmd := &Command{Name: strings.ToLower(name), thunk: th}
	if d, ok := h.(Describer); ok {
		cmd.Description = d.Description()
	}
	if a, ok := h.(Aliaser); ok {
		cmd.Aliases = a.Aliases()
	}
	if err := r.add(cmd.Name, cmd); err != nil {
		return err
	}
	for _, alias := range cmd.Aliases {
		if err := r.add(strings.ToLower(alias), cmd); err != nil {
			return err
		}
	}
	return nil
}

// registerSet expands a CommandSet container: every declared method becomes
// one command named after the method, plus one extra entry per alias, all
// bound to the same method.
func (r *Registry) registerSet(set CommandSet) error {
	var errs error
	for _, meta := range set.Commands() {
		th, err := methodThunk(set, meta.Method)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		cmd := &Command{
			Name:        strings.ToLower(meta.Method),
			Description: meta.Description,
			Aliases:     meta.Aliases,
			thunk:       th,
		}
		errs = multierr.Append(errs, r.add(cmd.Name, cmd))
		for _, alias := range meta.Aliases {
			errs = multierr.Append(errs, r.add(strings.ToLower(alias), cmd))
		}
	}
	return errs
}

// add stores a command under one name. Registering the exact same handler
// twice is deduplicated; a different handler under an existing name is a
// build error.
func (r *Registry) add(name string, cmd *Command) error {
	if existing, ok := r.commands[name]; ok {
		if existing.thunk.source.equal(cmd.thunk.source) {
			return nil
		}
		return &DuplicateCommandError{Name: name}
	}
	r.commands[name] = cmd
	return nil
}

// Get looks up a command by name or alias, case-insensitively.
func (r *Registry) Get(name string) (*Command, bool) {
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// List returns the registered commands sorted by primary name, one entry per
// command (aliases collapsed).
func (r *Registry) List() []*Command {
	seen := make(map[*Command]struct{}, len(r.commands))
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		if _, ok := seen[cmd]; ok {
			continue
		}
		seen[cmd] = struct{}{}
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// Names returns every registered name including aliases, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) freeze() {
	r.frozen.Store(true)
}

// BuildCommands assembles a validated registry from raw config entries,
// named groups and a repository of known handlers. Resolution rules, applied
// recursively for group references:
//
//  1. an entry whose name matches a known group expands into that group's
//     entries,
//  2. an unnamed entry holding a CommandSet expands into one command per
//     declared method,
//  3. an entry whose value is a string matching a repository key resolves to
//     that handler, keeping the entry's own name,
//  4. anything else registers the entry's name bound to its value as-is.
//
// All validation failures are collected and returned together so a broken
// config surfaces every problem in one startup failure.
func BuildCommands(entries []ConfigEntry, groups map[string][]ConfigEntry, repo map[string]Handler) (*Registry, error) {
	r := NewRegistry()
	flat := flattenEntries(entries, groups, nil)
	var errs error
	for _, e := range flat {
		if e.Name == "" {
			if set, ok := e.Value.(CommandSet); ok {
				errs = multierr.Append(errs, r.registerSet(set))
				continue
			}
			errs = multierr.Append(errs, &CommandNameNotSetError{Handler: handlerLabel(e.Value)})
			continue
		}
		value := e.Value
		if key, ok := value.(string); ok {
			if h, found := repo[key]; found {
				value = h
			}
		}
		errs = multierr.Append(errs, r.RegisterCommand(e.Name, value))
	}
	if errs != nil {
		return nil, errs
	}
	return r, nil
}

// flattenEntries expands group references recursively. stack carries the
// group names currently being expanded to break reference cycles.
func flattenEntries(entries []ConfigEntry, groups map[string][]ConfigEntry, stack []string) []ConfigEntry {
	flat := make([]ConfigEntry, 0, len(entries))
	for _, e := range entries {
		ref := e.Name
		if ref == "" {
			if s, ok := e.Value.(string); ok {
				ref = s
			}
		}
		if ref != "" && !slice.Contain(stack, ref) {
			if grouped, ok := groups[ref]; ok {
				flat = append(flat, flattenEntries(grouped, groups, append(stack, ref))...)
				continue
			}
		}
		flat = append(flat, e)
	}
	return flat
}

func handlerLabel(h Handler) string {
	if h == nil {
		return "<nil>"
	}
	return reflect.TypeOf(h).String()
}
