package builtins

import (
	"libreshockwave/internal/datum"
	"libreshockwave/internal/lingo"
	"libreshockwave/internal/netmgr"
)

// registerNet installs the network-family built-ins (spec §4.6): the
// `NetProvider` capability set surfaced to Lingo. If net is nil (a VM
// built without a network manager), every call returns a fixed result
// rather than panicking, since these are still valid opcodes to execute
// in a handler that never actually awaits their result: task ids are 0,
// netDone/isTaskDone report 1 (nothing pending), netTextResult is VOID,
// netError is -1 and getStreamStatus is "Error".
func registerNet(vm *lingo.VM, net *netmgr.Manager) {
	vm.RegisterBuiltin("preloadNetThing", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		if net == nil {
			return datum.NewInteger(0)
		}
		url, ok := asString(args, 0)
		if !ok {
			return datum.NewInteger(0)
		}
		return datum.NewInteger(int32(net.PreloadNetThing(url)))
	})

	vm.RegisterBuiltin("postNetText", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		if net == nil {
			return datum.NewInteger(0)
		}
		url, ok1 := asString(args, 0)
		data, ok2 := asString(args, 1)
		if !ok1 || !ok2 {
			return datum.NewInteger(0)
		}
		return datum.NewInteger(int32(net.PostNetText(url, data)))
	})

	vm.RegisterBuiltin("netDone", netTaskDoneBuiltin(net))
	vm.RegisterBuiltin("isTaskDone", netTaskDoneBuiltin(net))

	vm.RegisterBuiltin("netTextResult", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		if net == nil {
			return datum.VOID
		}
		id, _ := asInt(args, 0)
		data, ok := net.TaskResult(int64(id))
		if !ok {
			return datum.VOID
		}
		return datum.NewString(string(data))
	})

	vm.RegisterBuiltin("netError", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		if net == nil {
			return datum.NewInteger(-1)
		}
		id, _ := asInt(args, 0)
		return datum.NewInteger(int32(net.NetError(int64(id))))
	})

	vm.RegisterBuiltin("getStreamStatus", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		if net == nil {
			return datum.NewString(string(netmgr.StatusError))
		}
		id, _ := asInt(args, 0)
		return datum.NewString(string(net.GetStreamStatus(int64(id))))
	})
}

func netTaskDoneBuiltin(net *netmgr.Manager) lingo.Builtin {
	return func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		if net == nil {
			return datum.NewInteger(1) // nothing pending, report "done"
		}
		id, _ := asInt(args, 0)
		if net.IsTaskDone(int64(id)) {
			return datum.NewInteger(1)
		}
		return datum.NewInteger(0)
	}
}
