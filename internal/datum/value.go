// Package datum implements the Lingo value domain (C5): the dynamically
// typed Datum sum type, list and property-list semantics, and symbol
// interning. Modeled as a closed set of tagged variants with exhaustive
// switches rather than an inheritance hierarchy, the way the teacher's
// types package implements the MOO value domain.
package datum

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is the interface every Datum variant implements.
type Value interface {
	Type() TypeCode
	String() string
	Equal(Value) bool
	Truthy() bool
}

// Void is Lingo's VOID — the result of uninitialized variables and
// out-of-range lookups (spec §3: "out-of-range yields Void, never an
// invalid read").
type Void struct{}

func (Void) Type() TypeCode     { return TypeVoid }
func (Void) String() string     { return "<Void>" }
func (Void) Equal(v Value) bool { _, ok := v.(Void); return ok }
func (Void) Truthy() bool       { return false }

// VOID is the single canonical Void value; Datum equality for Void never
// needs allocation.
var VOID = Void{}

// Integer is a signed 32-bit Lingo integer.
type Integer struct{ Val int32 }

func NewInteger(v int32) Integer { return Integer{Val: v} }

func (Integer) Type() TypeCode { return TypeInteger }
func (i Integer) String() string {
	return strconv.FormatInt(int64(i.Val), 10)
}
func (i Integer) Equal(v Value) bool {
	switch o := v.(type) {
	case Integer:
		return i.Val == o.Val
	case Float:
		return float64(i.Val) == o.Val
	}
	return false
}
func (i Integer) Truthy() bool { return i.Val != 0 }

// Float is a Lingo floating-point number.
type Float struct{ Val float64 }

func NewFloat(v float64) Float { return Float{Val: v} }

func (Float) Type() TypeCode { return TypeFloat }
func (f Float) String() string {
	return strconv.FormatFloat(f.Val, 'g', -1, 64)
}
func (f Float) Equal(v Value) bool {
	switch o := v.(type) {
	case Float:
		return f.Val == o.Val
	case Integer:
		return f.Val == float64(o.Val)
	}
	return false
}
func (f Float) Truthy() bool { return f.Val != 0 }

// String is a Lingo text value.
type String struct{ Val string }

func NewString(v string) String { return String{Val: v} }

func (String) Type() TypeCode     { return TypeString }
func (s String) String() string   { return s.Val }
func (s String) Truthy() bool     { return s.Val != "" }
func (s String) Equal(v Value) bool {
	o, ok := v.(String)
	return ok && s.Val == o.Val
}

// Symbol is an interned identifier value (#foo). Two Symbols with the same
// name always carry the same interned id, so equality is a cheap integer
// compare.
type Symbol struct {
	id    int
	table *SymbolTable
}

func (s Symbol) Type() TypeCode { return TypeSymbol }
func (s Symbol) String() string { return "#" + s.Name() }
func (s Symbol) Name() string {
	if s.table == nil {
		return ""
	}
	return s.table.Name(s.id)
}
func (s Symbol) Equal(v Value) bool {
	o, ok := v.(Symbol)
	return ok && s.id == o.id
}
func (s Symbol) Truthy() bool { return true }

// List is an ordered, 1-based Lingo list. Mutating operations (Append,
// Set) return a new List, copy-on-write, mirroring the teacher's
// MooList/ListValue split.
type List struct {
	elems []Value
}

func NewList(elems []Value) List {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return List{elems: cp}
}

func EmptyList() List { return List{} }

func (List) Type() TypeCode { return TypeList }
func (l List) String() string {
	parts := make([]string, len(l.elems))
	for i, e := range l.elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l List) Truthy() bool { return len(l.elems) > 0 }
func (l List) Equal(v Value) bool {
	o, ok := v.(List)
	if !ok || len(l.elems) != len(o.elems) {
		return false
	}
	for i := range l.elems {
		if !l.elems[i].Equal(o.elems[i]) {
			return false
		}
	}
	return true
}

// Len returns the number of elements.
func (l List) Len() int { return len(l.elems) }

// Get returns the 1-based element, or Void if index is out of range.
func (l List) Get(i int) Value {
	if i < 1 || i > len(l.elems) {
		return VOID
	}
	return l.elems[i-1]
}

// Set returns a new List with the 1-based index replaced.
func (l List) Set(i int, v Value) List {
	if i < 1 || i > len(l.elems) {
		return l
	}
	cp := make([]Value, len(l.elems))
	copy(cp, l.elems)
	cp[i-1] = v
	return List{elems: cp}
}

// Append returns a new List with v appended.
func (l List) Append(v Value) List {
	cp := make([]Value, len(l.elems)+1)
	copy(cp, l.elems)
	cp[len(l.elems)] = v
	return List{elems: cp}
}

// Elements returns the backing slice for iteration. Callers must not
// mutate it.
func (l List) Elements() []Value { return l.elems }

// PropList is an order-preserving string-keyed map value (Lingo's
// property list literal, `[#a: 1, #b: 2]`).
type PropList struct {
	keys []string
	vals map[string]Value
}

func NewPropList(pairs [][2]Value) PropList {
	p := PropList{vals: make(map[string]Value, len(pairs))}
	for _, pair := range pairs {
		key := propKey(pair[0])
		if _, exists := p.vals[key]; !exists {
			p.keys = append(p.keys, key)
		}
		p.vals[key] = pair[1]
	}
	return p
}

func EmptyPropList() PropList {
	return PropList{vals: make(map[string]Value)}
}

func propKey(v Value) string {
	if sym, ok := v.(Symbol); ok {
		return sym.Name()
	}
	return v.String()
}

func (PropList) Type() TypeCode { return TypePropList }
func (p PropList) String() string {
	parts := make([]string, 0, len(p.keys))
	for _, k := range p.keys {
		parts = append(parts, fmt.Sprintf("#%s: %s", k, p.vals[k].String()))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (p PropList) Truthy() bool { return len(p.keys) > 0 }
func (p PropList) Equal(v Value) bool {
	o, ok := v.(PropList)
	if !ok || len(p.keys) != len(o.keys) {
		return false
	}
	for _, k := range p.keys {
		ov, exists := o.vals[k]
		if !exists || !p.vals[k].Equal(ov) {
			return false
		}
	}
	return true
}

// Len returns the number of properties.
func (p PropList) Len() int { return len(p.keys) }

// Get looks up a property by name (case-sensitive on the interned symbol
// name, as Lingo property list keys are symbols).
func (p PropList) Get(name string) (Value, bool) {
	v, ok := p.vals[name]
	return v, ok
}

// Set returns a new PropList with name bound to v, preserving insertion
// order for existing keys and appending new ones.
func (p PropList) Set(name string, v Value) PropList {
	np := PropList{vals: make(map[string]Value, len(p.vals)+1)}
	np.keys = append(np.keys, p.keys...)
	for k, val := range p.vals {
		np.vals[k] = val
	}
	if _, exists := np.vals[name]; !exists {
		np.keys = append(np.keys, name)
	}
	np.vals[name] = v
	return np
}

// Keys returns the property names in insertion order.
func (p PropList) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// VarRef is a reference to a variable slot, produced by PUSH_VAR_REF and
// consumed by chunk-assignment opcodes (SET_CHUNK_EXP operates through a
// VarRef rather than a value).
type VarRef struct {
	Scope string // "local", "global", "param", "prop"
	Name  string
	Index int
}

func (VarRef) Type() TypeCode     { return TypeVarRef }
func (r VarRef) String() string   { return fmt.Sprintf("<VarRef %s:%s>", r.Scope, r.Name) }
func (r VarRef) Truthy() bool     { return true }
func (r VarRef) Equal(v Value) bool {
	o, ok := v.(VarRef)
	return ok && r.Scope == o.Scope && r.Name == o.Name && r.Index == o.Index
}

// ScriptInstance is a behaviour/parent-script instance: a BehaviorInstance
// exposed to Lingo as a value. Equality is by identity (instance id), not
// structural — two instances with identical properties are still distinct.
type ScriptInstance struct {
	ID         int64
	ScriptID   int
	properties func() PropList // bound lazily to the owning BehaviorInstance
}

func NewScriptInstance(id int64, scriptID int, props func() PropList) ScriptInstance {
	return ScriptInstance{ID: id, ScriptID: scriptID, properties: props}
}

func (ScriptInstance) Type() TypeCode { return TypeScriptInstance }
func (s ScriptInstance) String() string {
	return fmt.Sprintf("<ScriptInstance %d>", s.ID)
}
func (s ScriptInstance) Truthy() bool { return true }
func (s ScriptInstance) Equal(v Value) bool {
	o, ok := v.(ScriptInstance)
	return ok && s.ID == o.ID
}

// Properties returns the instance's current property map.
func (s ScriptInstance) Properties() PropList {
	if s.properties == nil {
		return EmptyPropList()
	}
	return s.properties()
}

// ObjectRef is an opaque handle to an external (host-owned) object, e.g. a
// sprite or a cast member reference surfaced to Lingo without exposing its
// full structure.
type ObjectRef struct {
	Handle int64
	Kind   string
}

func (ObjectRef) Type() TypeCode   { return TypeObjectRef }
func (o ObjectRef) String() string { return fmt.Sprintf("<%s %d>", o.Kind, o.Handle) }
func (o ObjectRef) Truthy() bool   { return true }
func (o ObjectRef) Equal(v Value) bool {
	other, ok := v.(ObjectRef)
	return ok && o.Handle == other.Handle && o.Kind == other.Kind
}
