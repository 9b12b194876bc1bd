package bus

import (
	"reflect"
	"strings"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/go-faster/errors"
)

// Parameter describes one parameter of a command handler, introspected from
// the handler's args struct. Field order in the struct is declaration order
// and determines capture order in the synthesized pattern.
type Parameter struct {
	Name       string
	HasDefault bool
	Default    string
	Variadic   bool
	// Injectable parameters are resolved from the Container instead of being
	// parsed out of the message text, and never appear in the pattern.
	Injectable bool

	field int
}

// regexParam reports whether the parameter supplies its own sub-pattern via
// a {...} default value.
func (p Parameter) regexParam() bool {
	return p.HasDefault && len(p.Default) >= 2 &&
		strings.HasPrefix(p.Default, "{") && strings.HasSuffix(p.Default, "}")
}

// Required reports whether the parameter must be supplied in the message
// text: it has no default, is not variadic and is not injectable.
func (p Parameter) Required() bool {
	return !p.HasDefault && !p.Variadic && !p.Injectable
}

func primitiveKind(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// introspect walks the exported fields of an args struct type in declaration
// order. A primitive field is a text parameter; a slice of primitives is a
// variadic text parameter; anything else is injectable.
func introspect(argsType reflect.Type) ([]Parameter, error) {
	if argsType.Kind() != reflect.Struct {
		return nil, errors.Errorf("args type %s is not a struct", argsType)
	}
	params := make([]Parameter, 0, argsType.NumField())
	for i := 0; i < argsType.NumField(); i++ {
		f := argsType.Field(i)
		if !f.IsExported() {
			continue
		}
		p := Parameter{Name: strings.ToLower(f.Name), field: i}
		if tag, ok := f.Tag.Lookup("arg"); ok && tag != "" {
			p.Name = tag
		}
		if def, ok := f.Tag.Lookup("default"); ok {
			p.HasDefault = true
			p.Default = def
		}
		switch {
		case primitiveKind(f.Type.Kind()):
		case f.Type.Kind() == reflect.Slice && primitiveKind(f.Type.Elem().Kind()):
			p.Variadic = true
		default:
			p.Injectable = true
		}
		params = append(params, p)
	}
	return params, nil
}

// Parameters returns the ordered parameter list of a handler. The full
// signature is returned; callers filtering for text arguments should skip
// entries with Injectable set.
func Parameters(h Handler) ([]Parameter, error) {
	th, err := resolveHandler(h)
	if err != nil {
		return nil, err
	}
	return th.params, nil
}

// RequiredParamsNotProvided returns the names of required parameters that are
// absent from provided, in declaration order. Callers can use it to compose a
// usage reply before (or instead of) dispatching.
func RequiredParamsNotProvided(params []Parameter, provided []string) []string {
	missing := make([]string, 0)
	for _, p := range params {
		if !p.Required() {
			continue
		}
		if !slice.Contain(provided, p.Name) {
			missing = append(missing, p.Name)
		}
	}
	return missing
}
