package lingo

import (
	"libreshockwave/internal/container"
	"libreshockwave/internal/datum"
)

// Call convention (spec §4.2 leaves the exact argument-count encoding
// unspecified): every call opcode is preceded by its arguments pushed in
// order, then an Integer argument count, and for OBJ_CALL/TELL_CALL the
// target object on top of that. The callee (built-in or handler) is
// responsible for popping exactly that many values.

func popArgc(scope *Scope) (int, bool) {
	v, ok := scope.pop()
	if !ok {
		return 0, false
	}
	n, ok := v.(datum.Integer)
	if !ok {
		return 0, false
	}
	return int(n.Val), true
}

func (vm *VM) localCall(scope *Scope, ins container.Instruction) error {
	idx := int(ins.Argument)
	if idx < 0 || idx >= len(scope.Script.Handlers) {
		scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "LOCAL_CALL target out of range"))
		return nil
	}
	argc, ok := popArgc(scope)
	if !ok {
		scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "LOCAL_CALL missing argument count"))
		return nil
	}
	args, ok := scope.popN(argc)
	if !ok {
		scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "LOCAL_CALL argument underflow"))
		return nil
	}
	result, err := vm.callHandler(scope.Script, &scope.Script.Handlers[idx], scope.Receiver, args)
	if err != nil {
		return err
	}
	scope.push(result)
	return nil
}

func (vm *VM) extCall(scope *Scope, ins container.Instruction) error {
	name := vm.nameAt(scope.Script, int(ins.Argument))
	argc, ok := popArgc(scope)
	if !ok {
		scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "EXT_CALL missing argument count"))
		return nil
	}
	fn, ok := vm.builtins[name]
	if !ok {
		scope.popN(argc)
		scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "unknown built-in "+name))
		return nil
	}
	scope.push(fn(vm, scope, argc))
	return nil
}

func (vm *VM) objCall(scope *Scope, ins container.Instruction) error {
	obj, ok := scope.pop()
	if !ok {
		scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "OBJ_CALL missing target object"))
		return nil
	}
	argc, ok := popArgc(scope)
	if !ok {
		scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "OBJ_CALL missing argument count"))
		return nil
	}
	args, ok := scope.popN(argc)
	if !ok {
		scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "OBJ_CALL argument underflow"))
		return nil
	}

	name := vm.nameAt(scope.Script, int(ins.Argument))
	inst, ok := obj.(datum.ScriptInstance)
	if !ok {
		scope.push(vm.opFault(scope, ins.Offset, FaultTypeMismatch, "OBJ_CALL target is not a script instance"))
		return nil
	}
	target, ok := vm.ScriptsByID[inst.ScriptID]
	if !ok {
		scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "OBJ_CALL target script unresolved"))
		return nil
	}
	handler, ok := target.HandlerNamed(name)
	if !ok {
		scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "OBJ_CALL handler "+name+" not found"))
		return nil
	}
	receiver, _ := vm.receiverFor(obj)
	result, err := vm.callHandler(target, handler, receiver, args)
	if err != nil {
		return err
	}
	scope.push(result)
	return nil
}

// newObj implements NEW_OBJ (spec §4.2): instantiate a parent script by
// name, running its `new` handler (if defined) for property
// initialization, and push the resulting ScriptInstance.
func (vm *VM) newObj(scope *Scope, ins container.Instruction) error {
	scriptName := vm.nameAt(scope.Script, int(ins.Argument))
	argc, ok := popArgc(scope)
	if !ok {
		scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "NEW_OBJ missing argument count"))
		return nil
	}
	args, ok := scope.popN(argc)
	if !ok {
		scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "NEW_OBJ argument underflow"))
		return nil
	}
	target, ok := vm.ScriptsByName[scriptName]
	if !ok {
		scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "NEW_OBJ unknown script "+scriptName))
		return nil
	}

	receiver := NewSimpleReceiver(datum.ScriptInstance{})
	inst := vm.newInstance(target.ID, receiver)

	if handler, ok := target.HandlerNamed("new"); ok {
		if _, err := vm.callHandler(target, handler, receiver, args); err != nil {
			return err
		}
	}
	scope.push(inst)
	return nil
}
