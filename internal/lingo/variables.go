package lingo

import (
	"libreshockwave/internal/container"
	"libreshockwave/internal/datum"
)

// execVariable implements the GET_*/SET_* family (spec §4.2 "Variables").
// Apart from SET_CHUNK_EXP (see assignDynamic), each opcode addresses one
// fixed scope by its argument: GET/SET_LOCAL the locals, GET_PARAM the
// params, GET/SET_GLOBAL the globals, GET_PROP the receiver and then its
// ancestor chain, SET_PROP the receiver. No opcode searches params ->
// locals -> receiver -> ancestors -> globals in turn, and no SET creates
// a new local for a name no scope holds.
func (vm *VM) execVariable(scope *Scope, ins container.Instruction) error {
	idx := int(ins.Argument)
	switch ins.Opcode {

	case container.OpGetLocal:
		scope.push(localAt(scope, idx))
	case container.OpSetLocal:
		v, ok := scope.pop()
		if !ok {
			return nil
		}
		setLocalAt(scope, idx, v)

	case container.OpGetParam:
		scope.push(paramAt(scope, idx))

	case container.OpGetGlobal, container.OpGetGlobal2:
		name := vm.nameAt(scope.Script, idx)
		if v, ok := vm.Globals[name]; ok {
			scope.push(v)
		} else {
			scope.push(datum.VOID)
		}
	case container.OpSetGlobal:
		v, ok := scope.pop()
		if !ok {
			return nil
		}
		name := vm.nameAt(scope.Script, idx)
		vm.Globals[name] = v

	case container.OpGetProp:
		name := vm.nameAt(scope.Script, idx)
		scope.push(vm.lookupPropChain(scope, name))
	case container.OpSetProp:
		v, ok := scope.pop()
		if !ok {
			return nil
		}
		if scope.Receiver != nil {
			scope.Receiver.SetProp(vm.nameAt(scope.Script, idx), v)
		} else {
			vm.opFault(scope, ins.Offset, FaultBadIndex, "SET_PROP with no receiver")
		}

	case container.OpGetObjProp:
		return vm.getObjProp(scope, ins, idx)
	case container.OpSetObjProp:
		return vm.setObjProp(scope, ins, idx)

	case container.OpGetMovieProp, container.OpGetTopLevelProp:
		name := vm.nameAt(scope.Script, idx)
		if v, ok := vm.Globals[name]; ok {
			scope.push(v)
		} else {
			scope.push(datum.VOID)
		}

	case container.OpGetChainedProp:
		name := vm.nameAt(scope.Script, idx)
		scope.push(vm.lookupAncestorChain(scope.Receiver, name))

	case container.OpPushVarRef:
		name := vm.nameAt(scope.Script, idx)
		scope.push(datum.VarRef{Scope: "dynamic", Name: name, Index: idx})

	case container.OpSetChunkExp:
		v, ok := scope.pop()
		if !ok {
			return nil
		}
		ref, ok := scope.pop()
		if !ok {
			return nil
		}
		vr, ok := ref.(datum.VarRef)
		if !ok {
			vm.opFault(scope, ins.Offset, FaultTypeMismatch, "SET_CHUNK_EXP target is not a VarRef")
			return nil
		}
		vm.assignDynamic(scope, vr.Name, v)
	}
	return nil
}

func localAt(scope *Scope, idx int) datum.Value {
	if idx < 0 || idx >= len(scope.Locals) {
		return datum.VOID
	}
	return scope.Locals[idx]
}

func setLocalAt(scope *Scope, idx int, v datum.Value) {
	if idx < 0 || idx >= len(scope.Locals) {
		return
	}
	scope.Locals[idx] = v
}

func paramAt(scope *Scope, idx int) datum.Value {
	if idx < 0 || idx >= len(scope.Params) {
		return datum.VOID
	}
	return scope.Params[idx]
}

// lookupPropChain resolves a bare property name against the receiver,
// falling through to its ancestor chain (spec §4.2 "Ancestor chain": a
// missing property on `me` is looked up on `me.ancestor`, recursively).
func (vm *VM) lookupPropChain(scope *Scope, name string) datum.Value {
	if scope.Receiver == nil {
		return datum.VOID
	}
	if v, ok := scope.Receiver.GetProp(name); ok {
		return v
	}
	return vm.lookupAncestorChain(scope.Receiver, name)
}

func (vm *VM) lookupAncestorChain(r Receiver, name string) datum.Value {
	if r == nil {
		return datum.VOID
	}
	cur, ok := r.Ancestor()
	for depth := 0; ok && depth < vm.AncestorDepthLimit; depth++ {
		if v, found := cur.GetProp(name); found {
			return v
		}
		cur, ok = cur.Ancestor()
	}
	return datum.VOID
}

// assignDynamic assigns v to the receiver's own property when the
// receiver already holds name (its ancestor chain is not checked), and
// otherwise to the global of that name (spec §4.2's SET_CHUNK_EXP operates
// through a VarRef rather than a fixed opcode argument, so the target
// scope is not known statically).
func (vm *VM) assignDynamic(scope *Scope, name string, v datum.Value) {
	if scope.Receiver != nil {
		if _, ok := scope.Receiver.GetProp(name); ok {
			scope.Receiver.SetProp(name, v)
			return
		}
	}
	vm.Globals[name] = v
}

func (vm *VM) getObjProp(scope *Scope, ins container.Instruction, idx int) error {
	obj, ok := scope.pop()
	if !ok {
		scope.push(datum.VOID)
		return nil
	}
	name := vm.nameAt(scope.Script, idx)
	if r, ok := vm.receiverFor(obj); ok {
		if v, found := r.GetProp(name); found {
			scope.push(v)
			return nil
		}
		scope.push(vm.lookupAncestorChain(r, name))
		return nil
	}
	if pl, ok := obj.(datum.PropList); ok {
		scope.push(propListPseudoProp(vm, pl, name))
		return nil
	}
	if l, ok := obj.(datum.List); ok {
		switch name {
		case "count":
			scope.push(datum.NewInteger(int32(l.Len())))
		case "ilk":
			scope.push(vm.Symbols.Intern("list"))
		default:
			scope.push(datum.VOID)
		}
		return nil
	}
	scope.push(vm.opFault(scope, ins.Offset, FaultTypeMismatch, "GET_OBJ_PROP target has no properties"))
	return nil
}

// propListPseudoProp answers the virtual properties GET_OBJ_PROP exposes
// on a PropList (spec scenario S5): "count" and "ilk" are computed, not
// stored; any other name is a plain key lookup, absent keys reading Void.
func propListPseudoProp(vm *VM, pl datum.PropList, name string) datum.Value {
	switch name {
	case "count":
		return datum.NewInteger(int32(pl.Len()))
	case "ilk":
		return vm.Symbols.Intern("propList")
	default:
		if v, found := pl.Get(name); found {
			return v
		}
		return datum.VOID
	}
}

func (vm *VM) setObjProp(scope *Scope, ins container.Instruction, idx int) error {
	v, ok1 := scope.pop()
	obj, ok2 := scope.pop()
	if !ok1 || !ok2 {
		return nil
	}
	name := vm.nameAt(scope.Script, idx)
	if r, ok := vm.receiverFor(obj); ok {
		r.SetProp(name, v)
		return nil
	}
	vm.opFault(scope, ins.Offset, FaultTypeMismatch, "SET_OBJ_PROP target is not a script instance")
	return nil
}
