package value

import (
	"fmt"
	"reflect"
	"sync"
)

// Aggregate is the graph-side representation of a user-defined record:
// a fully-qualified type name plus an ordered list of attribute names and
// their values, exactly as spec.md section 3 describes. It is the value
// the encoder walks; reconstructing a live Instance from it at decode time
// is the Aggregate Reconstructor's job (see Registry below and package
// graph).
type Aggregate struct {
	Module    string
	QualName  string
	AttrNames []string
	Attrs     map[string]Value
}

func (*Aggregate) Kind() Kind { return KindAggregate }

// NewAggregate builds an *Aggregate, snapshotting attribute order as given.
func NewAggregate(module, qualName string, attrNames []string, attrs map[string]Value) *Aggregate {
	return &Aggregate{Module: module, QualName: qualName, AttrNames: attrNames, Attrs: attrs}
}

// FullName returns "module.qualname", the key the Registry is keyed by.
func (a *Aggregate) FullName() string {
	return FullName(a.Module, a.QualName)
}

// FullName joins a module and qualified name the way the Registry keys on.
func FullName(module, qualName string) string {
	if module == "" {
		return qualName
	}
	return module + "." + qualName
}

// Instance is a reconstructed, live aggregate object. The Aggregate
// Reconstructor (package graph) allocates one via a registered Factory and
// then assigns attributes onto it with SetAttr, in the recorded attribute
// order. SetAttr must never fail merely because name is unrecognized —
// spec.md section 4.6 step 4 requires permissive assignment of attributes
// a type doesn't declare.
type Instance interface {
	Value
	TypeName() (module, qualName string)
	SetAttr(name string, v Value) error
}

// Factory allocates a blank Instance without running any construction
// protocol — spec.md section 4.6 step 3's "bypass construction" — which in
// Go is simply a zero-value allocation, since zero-valuing a struct never
// runs arbitrary code. Runtimes that lack a bypass primitive fall back to
// zero-arg construction (spec.md's fallback); that case does not arise in
// Go, so Factory has no fallback path.
type Factory func() Instance

// Registry is the Aggregate Reconstructor's module+type lookup table,
// modeled after encoding/gob's Register idiom: a concrete type must be
// registered under its fully-qualified name before any envelope naming it
// can be decoded. This stands in for spec.md's "host runtime's module
// registry" (there being no actual Python module system in this port).
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byKey: map[string]Factory{}}
}

// Register associates module+qualName with a Factory.
func (r *Registry) Register(module, qualName string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey[FullName(module, qualName)] = f
}

// Lookup returns the Factory registered for module+qualName, if any.
func (r *Registry) Lookup(module, qualName string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byKey[FullName(module, qualName)]
	return f, ok
}

// DefaultRegistry is the process-wide Registry used when callers don't
// supply their own, matching gob.Register's package-level default.
var DefaultRegistry = NewRegistry()

// Register registers a Factory on DefaultRegistry.
func Register(module, qualName string, f Factory) {
	DefaultRegistry.Register(module, qualName, f)
}

// RegisterStruct registers a Go struct type (given as a pointer prototype,
// e.g. (*MyType)(nil)) under module+qualName. Fields are matched to
// attribute names via a `pyser:"name"` struct tag, falling back to the
// Go field name. A field tagged `pyser:",extra"` of type map[string]Value,
// if present, receives every attribute name that matches no other field —
// the Go-typed realization of spec.md's permissive unrecognized-attribute
// assignment.
func RegisterStruct(module, qualName string, prototype interface{}) {
	RegisterStructOn(DefaultRegistry, module, qualName, prototype)
}

// RegisterStructOn is RegisterStruct against an explicit Registry, for
// callers (tests, isolated decoders) that don't want to touch
// DefaultRegistry's shared, process-wide state.
func RegisterStructOn(reg *Registry, module, qualName string, prototype interface{}) {
	t := reflect.TypeOf(prototype)
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		panic("value: RegisterStruct requires a pointer-to-struct prototype")
	}
	elem := t.Elem()
	reg.Register(module, qualName, func() Instance {
		return newStructInstance(module, qualName, elem)
	})
}

// structInstance adapts a reflect-allocated Go struct to Instance using
// struct tags, the same `field <-> name` approach the teacher repo's
// marshal package uses (there via `noms:"name"`, here via `pyser:"name"`).
type structInstance struct {
	module, qualName string
	v                reflect.Value // addressable struct value
	byAttr           map[string]int // attr name -> field index
	extraField       int            // index of the `,extra` field, or -1
}

func newStructInstance(module, qualName string, elem reflect.Type) *structInstance {
	v := reflect.New(elem).Elem()
	si := &structInstance{module: module, qualName: qualName, v: v, byAttr: map[string]int{}, extraField: -1}
	for i := 0; i < elem.NumField(); i++ {
		f := elem.Field(i)
		tag := f.Tag.Get("pyser")
		switch {
		case tag == ",extra":
			si.extraField = i
		case tag != "":
			si.byAttr[tag] = i
		default:
			si.byAttr[f.Name] = i
		}
	}
	return si
}

func (s *structInstance) Kind() Kind                          { return KindAggregate }
func (s *structInstance) TypeName() (string, string)          { return s.module, s.qualName }
func (s *structInstance) Struct() reflect.Value               { return s.v }

func (s *structInstance) SetAttr(name string, val Value) error {
	if idx, ok := s.byAttr[name]; ok {
		field := s.v.Field(idx)
		rv, err := valueToReflect(val, field.Type())
		if err != nil {
			return fmt.Errorf("value: attribute %q: %w", name, err)
		}
		field.Set(rv)
		return nil
	}
	if s.extraField >= 0 {
		field := s.v.Field(s.extraField)
		if field.IsNil() {
			field.Set(reflect.MakeMap(field.Type()))
		}
		field.SetMapIndex(reflect.ValueOf(name), reflect.ValueOf(val))
	}
	// No matching field and no extra sink: permissively drop, matching a
	// dynamic object whose class has no __slots__ restriction — this Go
	// struct simply has no room for it.
	return nil
}

// valueToReflect converts a decoded Value into the Go type a struct field
// declares, covering the common scalar correspondences. Fields typed
// value.Value are assigned directly without conversion. Every path funnels
// through a ConvertibleTo/AssignableTo check before the final reflect.Value
// is handed back, so a field whose type doesn't fit v returns an error
// instead of panicking inside field.Set — SetAttr's permissive contract
// requires a droppable error here, not a crash.
func valueToReflect(v Value, t reflect.Type) (reflect.Value, error) {
	if t == reflect.TypeOf((*Value)(nil)).Elem() {
		return reflect.ValueOf(v), nil
	}

	var rv reflect.Value
	switch x := v.(type) {
	case Bool:
		rv = reflect.ValueOf(bool(x))
	case Float:
		rv = reflect.ValueOf(float64(x))
	case String:
		rv = reflect.ValueOf(string(x))
	case Int:
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if !x.V.IsInt64() {
				return reflect.Value{}, fmt.Errorf("value %s overflows %s", x.V.String(), t)
			}
			rv = reflect.ValueOf(x.V.Int64())
		default:
			rv = reflect.ValueOf(x.V)
		}
	case Null:
		return reflect.Zero(t), nil
	default:
		rv = reflect.ValueOf(v)
	}

	if rv.Type() == t {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot assign %T into %s", v, t)
}
