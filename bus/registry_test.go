package bus

import (
	"errors"
	"reflect"
	"testing"
)

type mathSet struct{}

func (s *mathSet) Commands() []CommandMeta {
	return []CommandMeta{
		{Method: "Add", Description: "Add two numbers", Aliases: []string{"sum", "plus"}},
		{Method: "Sub", Description: "Subtract two numbers"},
	}
}

func (s *mathSet) Add(ctx *Context) error { return nil }
func (s *mathSet) Sub(ctx *Context) error { return nil }

type describedHandler struct{}

func (h *describedHandler) Handle(ctx *Context) error { return nil }
func (h *describedHandler) Description() string       { return "a described command" }
func (h *describedHandler) Aliases() []string         { return []string{"dh"} }

func TestRegisterCommand(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		r := NewRegistry()
		if err := r.RegisterCommand("Ping", func(ctx *Context) error { return nil }); err != nil {
			t.Fatal(err)
		}
		cmd, ok := r.Get("ping")
		if !ok {
			t.Fatal("command not found under lowercased name")
		}
		if cmd.Name != "ping" {
			t.Errorf("Name = %q, want ping", cmd.Name)
		}
	})
	t.Run("BlankName", func(t *testing.T) {
		r := NewRegistry()
		err := r.RegisterCommand("", func(ctx *Context) error { return nil })
		var nerr *CommandNameNotSetError
		if !errors.As(err, &nerr) {
			t.Fatalf("expected CommandNameNotSetError, got %v", err)
		}
	})
	t.Run("DescriberAndAliaser", func(t *testing.T) {
		r := NewRegistry()
		if err := r.RegisterCommand("desc", &describedHandler{}); err != nil {
			t.Fatal(err)
		}
		primary, _ := r.Get("desc")
		if primary.Description != "a described command" {
			t.Errorf("Description = %q", primary.Description)
		}
		alias, ok := r.Get("dh")
		if !ok {
			t.Fatal("alias not registered")
		}
		if alias != primary {
			t.Error("alias resolves to a different command identity")
		}
	})
	t.Run("SameHandlerTwiceDeduplicated", func(t *testing.T) {
		r := NewRegistry()
		h := &describedHandler{}
		if err := r.RegisterCommand("desc", h); err != nil {
			t.Fatal(err)
		}
		if err := r.RegisterCommand("desc", h); err != nil {
			t.Fatalf("re-registering the same handler should be a no-op, got %v", err)
		}
	})
	t.Run("DifferentHandlerSameName", func(t *testing.T) {
		r := NewRegistry()
		if err := r.RegisterCommand("x", &describedHandler{}); err != nil {
			t.Fatal(err)
		}
		err := r.RegisterCommand("x", func(ctx *Context) error { return nil })
		var derr *DuplicateCommandError
		if !errors.As(err, &derr) {
			t.Fatalf("expected DuplicateCommandError, got %v", err)
		}
		if derr.Name != "x" {
			t.Errorf("Name = %q, want x", derr.Name)
		}
	})
	t.Run("Frozen", func(t *testing.T) {
		r := NewRegistry()
		r.freeze()
		err := r.RegisterCommand("late", func(ctx *Context) error { return nil })
		if !errors.Is(err, ErrRegistryFrozen) {
			t.Fatalf("expected ErrRegistryFrozen, got %v", err)
		}
	})
}

func TestRegisterSet(t *testing.T) {
	r := NewRegistry()
	if err := r.registerSet(&mathSet{}); err != nil {
		t.Fatal(err)
	}
	add, ok := r.Get("add")
	if !ok {
		t.Fatal("add not registered")
	}
	if add.Description != "Add two numbers" {
		t.Errorf("Description = %q", add.Description)
	}
	for _, alias := range []string{"sum", "plus"} {
		got, ok := r.Get(alias)
		if !ok {
			t.Fatalf("alias %q not registered", alias)
		}
		if got != add {
			t.Errorf("alias %q resolves to a different command identity", alias)
		}
	}
	if _, ok := r.Get("sub"); !ok {
		t.Error("sub not registered")
	}
	cmds := r.List()
	if len(cmds) != 2 {
		t.Errorf("List collapsed to %d commands, want 2", len(cmds))
	}
}

func TestBuildCommands(t *testing.T) {
	ping := func(ctx *Context) error { return nil }
	pong := func(ctx *Context) error { return nil }
	repo := map[string]Handler{"ping": ping, "pong": pong}

	t.Run("RepositoryLookup", func(t *testing.T) {
		r, err := BuildCommands([]ConfigEntry{{Name: "hello", Value: "ping"}}, nil, repo)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := r.Get("hello"); !ok {
			t.Error("entry name not used for repository-resolved handler")
		}
	})
	t.Run("GroupExpansion", func(t *testing.T) {
		groups := map[string][]ConfigEntry{
			"basics": {
				{Name: "p1", Value: "ping"},
				{Value: "nested"},
			},
			"nested": {
				{Name: "p2", Value: "pong"},
			},
		}
		r, err := BuildCommands([]ConfigEntry{{Value: "basics"}}, groups, repo)
		if err != nil {
			t.Fatal(err)
		}
		expected := []string{"p1", "p2"}
		if got := r.Names(); !reflect.DeepEqual(got, expected) {
			t.Errorf("Names = %v, want %v", got, expected)
		}
	})
	t.Run("GroupCycle", func(t *testing.T) {
		groups := map[string][]ConfigEntry{
			"a": {{Value: "b"}, {Name: "p1", Value: "ping"}},
			"b": {{Value: "a"}, {Name: "p2", Value: "pong"}},
		}
		// The cyclic back-reference stays an unnamed string entry, which is a
		// name error rather than an infinite expansion.
		_, err := BuildCommands([]ConfigEntry{{Value: "a"}}, groups, repo)
		var nerr *CommandNameNotSetError
		if !errors.As(err, &nerr) {
			t.Fatalf("expected CommandNameNotSetError for the cycle edge, got %v", err)
		}
	})
	t.Run("UnnamedCommandSet", func(t *testing.T) {
		r, err := BuildCommands([]ConfigEntry{{Value: &mathSet{}}}, nil, repo)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := r.Get("add"); !ok {
			t.Error("CommandSet method not registered")
		}
	})
	t.Run("UnnamedPlainHandler", func(t *testing.T) {
		_, err := BuildCommands([]ConfigEntry{{Value: ping}}, nil, repo)
		var nerr *CommandNameNotSetError
		if !errors.As(err, &nerr) {
			t.Fatalf("expected CommandNameNotSetError, got %v", err)
		}
	})
	t.Run("CollectsAllErrors", func(t *testing.T) {
		entries := []ConfigEntry{
			{Value: ping},
			{Name: "ok", Value: pong},
			{Name: "bad", Value: 42},
		}
		_, err := BuildCommands(entries, nil, repo)
		if err == nil {
			t.Fatal("expected combined build error")
		}
		var nerr *CommandNameNotSetError
		if !errors.As(err, &nerr) {
			t.Error("missing CommandNameNotSetError in combined error")
		}
		var merr *HandlerMethodMissingError
		if !errors.As(err, &merr) {
			t.Error("missing HandlerMethodMissingError in combined error")
		}
	})
	t.Run("Deterministic", func(t *testing.T) {
		entries := []ConfigEntry{{Name: "a", Value: "ping"}, {Name: "b", Value: "pong"}}
		first, err := BuildCommands(entries, nil, repo)
		if err != nil {
			t.Fatal(err)
		}
		second, err := BuildCommands(entries, nil, repo)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first.Names(), second.Names()) {
			t.Errorf("builds disagree: %v vs %v", first.Names(), second.Names())
		}
	})
}
