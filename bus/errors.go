package bus

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

var (
	// ErrNoTextMessage is returned when an update carries no text message at
	// all. Callers are expected to filter such updates before dispatching.
	ErrNoTextMessage = errors.New("update carries no text message")

	// ErrRegistryFrozen is returned when a command is registered after the
	// registry has started serving dispatches.
	ErrRegistryFrozen = errors.New("registry is frozen, register commands before processing updates")
)

// CommandNameNotSetError is a build-time configuration error: a handler was
// supplied without a command name to register it under.
type CommandNameNotSetError struct {
	Handler string
}

func (e *CommandNameNotSetError) Error() string {
	return fmt.Sprintf("command name not set for handler %s", e.Handler)
}

// HandlerMethodMissingError is a build-time configuration error: a value was
// registered as a command handler but the expected method does not exist on it.
type HandlerMethodMissingError struct {
	Handler string
	Method  string
}

func (e *HandlerMethodMissingError) Error() string {
	return fmt.Sprintf("handler %s has no method %s", e.Handler, e.Method)
}

// DuplicateCommandError is a build-time configuration error: two different
// handlers were registered under the same name.
type DuplicateCommandError struct {
	Name string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("duplicate command name %q", e.Name)
}

// ValidationError reports required parameters missing from a single command
// invocation. It is returned to the caller of dispatch, which decides whether
// to reply with a usage message; the bus itself never sends anything.
type ValidationError struct {
	Command string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("/%s: missing required arguments: %s", e.Command, strings.Join(e.Missing, ", "))
}
