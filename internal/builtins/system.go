package builtins

import (
	"libreshockwave/internal/datum"
	"libreshockwave/internal/lingo"
)

// registerSystem installs propagation control and host-logging builtins.
func registerSystem(vm *lingo.VM) {
	vm.RegisterBuiltin("pass", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		scope.PopArgs(argc)
		vm.SetPropagationStop(false)
		return datum.VOID
	})

	// alert just logs; there is no renderer in the core to show a dialog
	// (spec §6 "Boundary to renderer" — the core never draws).
	vm.RegisterBuiltin("alert", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		if len(args) > 0 {
			vm.Sink.Info("alert: %s", args[0].String())
		}
		return datum.VOID
	})
}
