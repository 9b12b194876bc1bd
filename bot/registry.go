package bot

import (
	"sort"

	"github.com/telebus/telebus/bus"
	"github.com/telebus/telebus/config"
)

// repository lists the handlers that config entries can reference by key.
func repository() map[string]bus.Handler {
	return map[string]bus.Handler{
		"echo":  Echo,
		"greet": &GreetCommand{},
		"stats": &StatsCommand{},
	}
}

// buildRegistry assembles the command registry from the built-in CoreCommands
// container plus the configured command map and groups. With no commands
// configured, every repository handler registers under its own key.
func buildRegistry() (*bus.Registry, error) {
	repo := repository()

	entries := []bus.ConfigEntry{{Value: &CoreCommands{}}}
	if len(config.C.Commands) > 0 {
		for _, name := range sortedKeys(config.C.Commands) {
			entries = append(entries, bus.ConfigEntry{Name: name, Value: config.C.Commands[name]})
		}
	} else {
		for _, key := range sortedKeys(repo) {
			entries = append(entries, bus.ConfigEntry{Name: key, Value: key})
		}
	}

	groups := make(map[string][]bus.ConfigEntry, len(config.C.CommandGroups))
	for groupName, members := range config.C.CommandGroups {
		grouped := make([]bus.ConfigEntry, 0, len(members))
		for _, name := range sortedKeys(members) {
			grouped = append(grouped, bus.ConfigEntry{Name: name, Value: members[name]})
		}
		groups[groupName] = grouped
	}

	return bus.BuildCommands(entries, groups, repo)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
