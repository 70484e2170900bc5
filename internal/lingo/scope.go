package lingo

import (
	"libreshockwave/internal/container"
	"libreshockwave/internal/datum"
)

// Receiver is the `me` of a handler call: a script instance whose
// property map and ancestor chain participate in variable resolution
// (spec §3 "Scope (call frame)", §4.2 "Ancestor chain"). internal/score's
// BehaviorInstance implements this; SimpleReceiver is a minimal
// standalone implementation for scripts invoked without a behaviour
// (e.g. movie scripts, or handler calls issued directly by tooling).
type Receiver interface {
	GetProp(name string) (datum.Value, bool)
	SetProp(name string, v datum.Value)
	Ancestor() (Receiver, bool)
	AsValue() datum.Value
}

// SimpleReceiver is a bare property-map Receiver with an optional
// ancestor link, used by parent-script instances and by tests.
type SimpleReceiver struct {
	Instance datum.ScriptInstance
	props    map[string]datum.Value
	ancestor Receiver
}

// NewSimpleReceiver creates a receiver bound to a ScriptInstance value,
// with its own mutable property map.
func NewSimpleReceiver(instance datum.ScriptInstance) *SimpleReceiver {
	return &SimpleReceiver{Instance: instance, props: make(map[string]datum.Value)}
}

func (r *SimpleReceiver) GetProp(name string) (datum.Value, bool) {
	v, ok := r.props[name]
	return v, ok
}

func (r *SimpleReceiver) SetProp(name string, v datum.Value) {
	r.props[name] = v
}

// SetAncestor installs the `ancestor` property, both for lookup fallthrough
// and so GET_PROP("ancestor") returns it like any other property.
func (r *SimpleReceiver) SetAncestor(a Receiver) {
	r.ancestor = a
	if a != nil {
		r.SetProp("ancestor", a.AsValue())
	}
}

func (r *SimpleReceiver) Ancestor() (Receiver, bool) {
	return r.ancestor, r.ancestor != nil
}

func (r *SimpleReceiver) AsValue() datum.Value { return r.Instance }

// snapshot renders the current property map as a PropList, used by the
// ScriptInstance Datum's lazy Properties() accessor.
func (r *SimpleReceiver) snapshot() datum.PropList {
	pl := datum.EmptyPropList()
	for k, v := range r.props {
		pl = pl.Set(k, v)
	}
	return pl
}

// Scope is a single handler call frame (spec §3 "Scope (call frame)"): it
// exclusively owns its locals/params/stack for its duration, while the
// Receiver (if any) is shared across scopes along an ancestor chain.
type Scope struct {
	Script   *container.ScriptInfo
	Handler  *container.Handler
	ip       int
	Stack    []datum.Value
	Locals   []datum.Value
	Params   []datum.Value
	Receiver Receiver
	Return   datum.Value
}

func (s *Scope) push(v datum.Value) {
	s.Stack = append(s.Stack, v)
}

func (s *Scope) pop() (datum.Value, bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	v := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return v, true
}

func (s *Scope) top() (datum.Value, bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	return s.Stack[len(s.Stack)-1], true
}

// Push, Pop, and PopArgs are the stack operations a Builtin uses to read
// its arguments and return a value (spec §4.2 "Built-ins": "the handler
// pops arguments itself"). They are the exported equivalents of push/pop,
// used outside this package since Builtin implementations live in
// internal/builtins and tests.
func (s *Scope) Push(v datum.Value) { s.push(v) }

func (s *Scope) Pop() (datum.Value, bool) { return s.pop() }

// PopArgs pops exactly argc values and returns them in the order they
// were pushed (the order a Builtin expects its positional arguments in).
func (s *Scope) PopArgs(argc int) []datum.Value {
	out := make([]datum.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		v, ok := s.pop()
		if !ok {
			v = datum.VOID
		}
		out[i] = v
	}
	return out
}
