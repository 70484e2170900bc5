package builtins

import (
	"strings"

	"libreshockwave/internal/datum"
	"libreshockwave/internal/lingo"
)

// registerStrings installs string-family built-ins, grounded on the
// teacher's strings.go (length/index/upcase/downcase/strtr) — the
// closed Datum domain here stands in for the teacher's StrValue.
func registerStrings(vm *lingo.VM) {
	vm.RegisterBuiltin("length", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		s, ok := asString(args, 0)
		if !ok {
			return datum.VOID
		}
		return datum.NewInteger(int32(len(s)))
	})

	vm.RegisterBuiltin("offset", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		needle, ok1 := asString(args, 0)
		haystack, ok2 := asString(args, 1)
		if !ok1 || !ok2 {
			return datum.NewInteger(0)
		}
		idx := strings.Index(haystack, needle)
		return datum.NewInteger(int32(idx + 1)) // 1-based, 0 when not found
	})

	vm.RegisterBuiltin("upperCase", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		s, ok := asString(args, 0)
		if !ok {
			return datum.VOID
		}
		return datum.NewString(strings.ToUpper(s))
	})

	vm.RegisterBuiltin("lowerCase", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		s, ok := asString(args, 0)
		if !ok {
			return datum.VOID
		}
		return datum.NewString(strings.ToLower(s))
	})

	vm.RegisterBuiltin("string", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		if len(args) == 0 {
			return datum.NewString("")
		}
		return datum.NewString(args[0].String())
	})
}

func asString(args []datum.Value, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(datum.String)
	if !ok {
		return "", false
	}
	return s.Val, true
}
