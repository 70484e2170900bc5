package builtins

import (
	"math"
	"math/rand"

	"libreshockwave/internal/datum"
	"libreshockwave/internal/lingo"
)

// registerMath installs math-family built-ins, grounded on the teacher's
// math.go (abs/power/sqrt/random-style integer and float helpers).
func registerMath(vm *lingo.VM) {
	vm.RegisterBuiltin("abs", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		switch n := numericAt(args, 0).(type) {
		case datum.Integer:
			if n.Val < 0 {
				return datum.NewInteger(-n.Val)
			}
			return n
		case datum.Float:
			return datum.NewFloat(math.Abs(n.Val))
		}
		return datum.VOID
	})

	vm.RegisterBuiltin("power", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		base, ok1 := datum.AsFloat64(numericAt(args, 0))
		exp, ok2 := datum.AsFloat64(numericAt(args, 1))
		if !ok1 || !ok2 {
			return datum.VOID
		}
		return datum.NewFloat(math.Pow(base, exp))
	})

	vm.RegisterBuiltin("sqrt", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		v, ok := datum.AsFloat64(numericAt(args, 0))
		if !ok {
			return datum.VOID
		}
		return datum.NewFloat(math.Sqrt(v))
	})

	vm.RegisterBuiltin("integer", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		switch n := numericAt(args, 0).(type) {
		case datum.Integer:
			return n
		case datum.Float:
			return datum.NewInteger(int32(math.Round(n.Val)))
		}
		return datum.VOID
	})

	vm.RegisterBuiltin("float", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		v, ok := datum.AsFloat64(numericAt(args, 0))
		if !ok {
			return datum.VOID
		}
		return datum.NewFloat(v)
	})

	vm.RegisterBuiltin("random", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		n, ok := asInt(args, 0)
		if !ok || n < 1 {
			return datum.NewInteger(0)
		}
		return datum.NewInteger(int32(rand.Intn(int(n))) + 1)
	})
}

func numericAt(args []datum.Value, i int) datum.Value {
	if i >= len(args) {
		return datum.VOID
	}
	v, ok := datum.ToNumber(args[i])
	if !ok {
		return datum.VOID
	}
	return v
}
