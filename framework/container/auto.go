package container

import (
	"fmt"
	"reflect"
	"slices"
	"unicode"
	"unicode/utf8"
)

// injectTag overrides the dependency name Auto derives from a field name.
const injectTag = "di"

var errorType = reflect.TypeFor[error]()

// ── Builder ───────────────────────────────────────────────────────────────────

type builderProvider struct {
	fn   reflect.Value
	deps []string
}

// Builder returns a provider that resolves deps in order and passes them
// positionally to ctor. ctor must be a non-variadic function returning T or
// (T, error), taking exactly len(deps) parameters.
//
//	c.Bind("service", container.Builder(NewService, "repo", "logger"))
func Builder(ctor any, deps ...string) Provider {
	return &builderProvider{fn: reflect.ValueOf(ctor), deps: append([]string(nil), deps...)}
}

func (b *builderProvider) target() string {
	if !b.fn.IsValid() {
		return "<nil>"
	}
	t := b.fn.Type()
	if t.Kind() == reflect.Func && t.NumOut() > 0 {
		return t.Out(0).String()
	}
	return t.String()
}

func (b *builderProvider) check() string {
	if !b.fn.IsValid() || b.fn.Kind() != reflect.Func {
		return "constructor must be a function"
	}
	if b.fn.IsNil() {
		return "constructor is a nil function"
	}
	t := b.fn.Type()
	if t.IsVariadic() {
		return "variadic constructors are not supported"
	}
	if t.NumIn() != len(b.deps) {
		return fmt.Sprintf("constructor takes %d arguments, %d dependency names given", t.NumIn(), len(b.deps))
	}
	switch numOut := t.NumOut(); {
	case numOut == 1:
	case numOut == 2 && t.Out(1) == errorType:
	default:
		return "constructor must return T or (T, error)"
	}
	return ""
}

// Dependencies returns the names passed to Builder, in argument order.
func (b *builderProvider) Dependencies() []string {
	return slices.Clone(b.deps)
}

func (b *builderProvider) Provide(c *Container) (any, error) {
	if reason := b.check(); reason != "" {
		return nil, &BuildError{Target: b.target(), Chain: c.CallStack(), Reason: reason}
	}

	t := b.fn.Type()
	args := make([]reflect.Value, len(b.deps))
	for i, name := range b.deps {
		v, err := c.Get(name)
		if err != nil {
			return nil, err
		}
		arg, err := coerce(v, t.In(i))
		if err != nil {
			return nil, &BuildError{
				Target: b.target(),
				Chain:  c.CallStack(),
				Reason: fmt.Sprintf("argument %d (%q): %v", i, name, err),
			}
		}
		args[i] = arg
	}

	out := b.fn.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// ── Auto ──────────────────────────────────────────────────────────────────────

type autoField struct {
	index int
	name  string
}

type autoProvider struct {
	typ    reflect.Type
	fields []autoField
	err    string
}

// Auto returns a provider that builds a T by resolving one dependency per
// exported struct field, in declaration order. T must be a struct or a
// pointer to one.
//
// The dependency name is the field's `di:"name"` tag, or the field name
// with its first letter lower-cased. `di:"-"` skips a field, as do
// unexported fields and untagged embedded fields. Default values are not
// supported. A struct with no injectable fields is built as its zero value.
//
//	type Foo struct {
//	    Bar     int              // resolved from "bar"
//	    Numbers []int            // "numbers"; []any from a List is converted
//	    Log     *zap.Logger `di:"logger"`
//	}
//
//	c.Bind("foo", container.Auto[*Foo]())
func Auto[T any]() Provider {
	return newAutoProvider(reflect.TypeFor[T]())
}

func newAutoProvider(typ reflect.Type) *autoProvider {
	p := &autoProvider{typ: typ}
	st := typ
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		p.err = "Auto requires a struct or a pointer to a struct"
		return p
	}
	for i := 0; i < st.NumField(); i++ {
		if name, ok := dependencyName(st.Field(i)); ok {
			p.fields = append(p.fields, autoField{index: i, name: name})
		}
	}
	return p
}

// Dependencies returns the names Auto will resolve, in order.
func (p *autoProvider) Dependencies() []string {
	out := make([]string, len(p.fields))
	for i, f := range p.fields {
		out[i] = f.name
	}
	return out
}

func (p *autoProvider) Provide(c *Container) (any, error) {
	if p.err != "" {
		return nil, &BuildError{Target: p.typ.String(), Chain: c.CallStack(), Reason: p.err}
	}

	st := p.typ
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	ptr := reflect.New(st)
	rv := ptr.Elem()
	for _, f := range p.fields {
		v, err := c.Get(f.name)
		if err != nil {
			return nil, err
		}
		field := st.Field(f.index)
		val, err := coerce(v, field.Type)
		if err != nil {
			return nil, &BuildError{
				Target: p.typ.String(),
				Chain:  c.CallStack(),
				Reason: fmt.Sprintf("field %s (%q): %v", field.Name, f.name, err),
			}
		}
		rv.Field(f.index).Set(val)
	}

	if p.typ.Kind() == reflect.Pointer {
		return ptr.Interface(), nil
	}
	return rv.Interface(), nil
}

func dependencyName(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	switch tag := f.Tag.Get(injectTag); {
	case tag == "-":
		return "", false
	case tag != "":
		return tag, true
	case f.Anonymous:
		return "", false
	}
	return lowerFirst(f.Name), true
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// ── Assignment ────────────────────────────────────────────────────────────────

// coerce makes v usable as a value of type t. Assignable values pass
// through; []any is converted element-wise into other slice types.
func coerce(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use nil as %s", t)
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if items, ok := v.([]any); ok && t.Kind() == reflect.Slice {
		out := reflect.MakeSlice(t, len(items), len(items))
		for i, item := range items {
			ev, err := coerce(item, t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(ev)
		}
		return out, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", rv.Type(), t)
}
