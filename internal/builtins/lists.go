package builtins

import (
	"libreshockwave/internal/datum"
	"libreshockwave/internal/lingo"
)

// registerLists installs list-family built-ins, grounded on the
// teacher's lists.go (listappend/listinsert/listdelete/is_member). Lists
// here are copy-on-write value types (datum.List), so every mutating
// built-in returns the updated list rather than mutating its argument in
// place — the caller is responsible for writing the result back into
// whatever variable held the original list.
func registerLists(vm *lingo.VM) {
	vm.RegisterBuiltin("count", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		switch v := valueAt(args, 0).(type) {
		case datum.List:
			return datum.NewInteger(int32(v.Len()))
		case datum.PropList:
			return datum.NewInteger(int32(v.Len()))
		default:
			return datum.NewInteger(0)
		}
	})

	vm.RegisterBuiltin("getAt", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		l, ok := valueAt(args, 0).(datum.List)
		idx, iok := asInt(args, 1)
		if !ok || !iok {
			return datum.VOID
		}
		return l.Get(int(idx))
	})

	vm.RegisterBuiltin("setAt", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		l, ok := valueAt(args, 0).(datum.List)
		idx, iok := asInt(args, 1)
		if !ok || !iok {
			return datum.VOID
		}
		return l.Set(int(idx), valueAt(args, 2))
	})

	vm.RegisterBuiltin("append", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		l, ok := valueAt(args, 0).(datum.List)
		if !ok {
			return datum.VOID
		}
		return l.Append(valueAt(args, 1))
	})

	vm.RegisterBuiltin("getPos", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		l, ok := valueAt(args, 0).(datum.List)
		if !ok {
			return datum.NewInteger(0)
		}
		needle := valueAt(args, 1)
		for i, e := range l.Elements() {
			if e.Equal(needle) {
				return datum.NewInteger(int32(i + 1))
			}
		}
		return datum.NewInteger(0)
	})

	vm.RegisterBuiltin("deleteAt", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		l, ok := valueAt(args, 0).(datum.List)
		idx, iok := asInt(args, 1)
		if !ok || !iok || idx < 1 || int(idx) > l.Len() {
			return l
		}
		out := make([]datum.Value, 0, l.Len()-1)
		for i, e := range l.Elements() {
			if i+1 == int(idx) {
				continue
			}
			out = append(out, e)
		}
		return datum.NewList(out)
	})
}

func valueAt(args []datum.Value, i int) datum.Value {
	if i >= len(args) {
		return datum.VOID
	}
	return args[i]
}

func asInt(args []datum.Value, i int) (int32, bool) {
	if i >= len(args) {
		return 0, false
	}
	v, ok := datum.ToNumber(args[i])
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case datum.Integer:
		return n.Val, true
	case datum.Float:
		return int32(n.Val), true
	}
	return 0, false
}
