package bus

import (
	"reflect"

	"github.com/go-faster/errors"
)

// Handler is anything the registry accepts as a command handler:
//
//   - a free callable: func(*Context) error or func(*Context, T) error where
//     T is an args struct,
//   - a value with a Handle method of one of those shapes,
//   - a CommandSet, which bundles several commands as methods and is only
//     valid as an unnamed config entry.
type Handler any

// handleMethod is the designated method looked up on class-style handlers.
const handleMethod = "Handle"

// CommandMeta declares one command of a CommandSet: the method implementing
// it, a listing description and optional alias names. The command name is the
// lowercased method name.
type CommandMeta struct {
	Method      string
	Description string
	Aliases     []string
}

// CommandSet is implemented by values that bundle several commands as
// methods. The declared metadata replaces attribute scanning: the registry
// only consumes this list and never inspects methods on its own.
type CommandSet interface {
	Commands() []CommandMeta
}

// Describer optionally supplies a listing description for a single handler.
type Describer interface {
	Description() string
}

// Aliaser optionally supplies extra names a single handler registers under.
type Aliaser interface {
	Aliases() []string
}

var (
	ctxType = reflect.TypeOf((*Context)(nil))
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// thunk is a handler normalized into a directly callable form. Resolution
// happens once at registration time, never per dispatch.
type thunk struct {
	fn       reflect.Value
	argsType reflect.Type // nil when the handler takes only *Context
	params   []Parameter
	source   handlerSource
}

// handlerSource identifies where a thunk came from, so that registering the
// exact same handler twice under one name can be deduplicated while two
// different handlers under one name stay a build error.
type handlerSource struct {
	value  any
	method string // non-empty for CommandSet methods
}

func (s handlerSource) equal(o handlerSource) bool {
	if s.method != o.method {
		return false
	}
	return sameValue(s.value, o.value)
}

func sameValue(a, b any) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Kind() != bv.Kind() {
		return false
	}
	switch av.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan:
		return av.Pointer() == bv.Pointer()
	}
	if av.Comparable() && bv.Comparable() {
		return a == b
	}
	return false
}

// newThunk validates fn against the accepted handler shapes and introspects
// its args struct, if any.
func newThunk(fn reflect.Value, src handlerSource) (*thunk, error) {
	t := fn.Type()
	if t.Kind() != reflect.Func {
		return nil, errors.Errorf("handler %s is not callable", t)
	}
	if t.IsVariadic() || t.NumIn() < 1 || t.NumIn() > 2 ||
		t.NumOut() != 1 || t.Out(0) != errType || t.In(0) != ctxType {
		return nil, errors.Errorf("handler %s: want func(*bus.Context) error or func(*bus.Context, T) error", t)
	}
	th := &thunk{fn: fn, source: src}
	if t.NumIn() == 2 {
		th.argsType = t.In(1)
		params, err := introspect(th.argsType)
		if err != nil {
			return nil, errors.Wrapf(err, "handler %s", t)
		}
		th.params = params
	}
	return th, nil
}

// resolveHandler normalizes a registered handler into a thunk. Free callables
// are used as-is; any other value must carry a Handle method, otherwise the
// registration is a configuration error.
func resolveHandler(h Handler) (*thunk, error) {
	if h == nil {
		return nil, errors.New("nil handler")
	}
	rv := reflect.ValueOf(h)
	if rv.Kind() == reflect.Func {
		return newThunk(rv, handlerSource{value: h})
	}
	m := rv.MethodByName(handleMethod)
	if !m.IsValid() {
		return nil, &HandlerMethodMissingError{Handler: rv.Type().String(), Method: handleMethod}
	}
	return newThunk(m, handlerSource{value: h, method: handleMethod})
}

// methodThunk binds one declared method of a CommandSet.
func methodThunk(set CommandSet, method string) (*thunk, error) {
	rv := reflect.ValueOf(set)
	m := rv.MethodByName(method)
	if !m.IsValid() {
		return nil, &HandlerMethodMissingError{Handler: rv.Type().String(), Method: method}
	}
	return newThunk(m, handlerSource{value: set, method: method})
}

func (t *thunk) call(ctx *Context, args reflect.Value) error {
	in := []reflect.Value{reflect.ValueOf(ctx)}
	if t.argsType != nil {
		in = append(in, args)
	}
	out := t.fn.Call(in)
	if e := out[0].Interface(); e != nil {
		return e.(error)
	}
	return nil
}
