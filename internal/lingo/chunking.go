package lingo

import (
	"strings"

	"libreshockwave/internal/container"
	"libreshockwave/internal/datum"
)

// chunkKind distinguishes Lingo's four string chunk expressions (`char`,
// `word`, `item`, `line`), packed into the chunk opcodes' Argument field
// since spec §4.2 groups them under one "String/list chunking" family
// rather than one opcode per kind.
type chunkKind int32

const (
	chunkChar chunkKind = iota
	chunkWord
	chunkItem
	chunkLine
)

func splitChunks(s string, kind chunkKind, itemDelim byte) []string {
	switch kind {
	case chunkChar:
		return strings.Split(s, "")
	case chunkWord:
		return strings.Fields(s)
	case chunkLine:
		return strings.Split(s, "\n")
	default:
		return strings.Split(s, string(itemDelim))
	}
}

// chunkGet implements GET (spec §4.2): `item N of aString`, reading back
// a VOID for an out-of-range index rather than faulting (spec §3's
// "out-of-range yields Void" invariant applies to chunk access too).
func (vm *VM) chunkGet(scope *Scope, ins container.Instruction) error {
	idxVal, ok1 := scope.pop()
	targetVal, ok2 := scope.pop()
	if !ok1 || !ok2 {
		scope.push(datum.VOID)
		return nil
	}
	n, ok := idxVal.(datum.Integer)
	if !ok {
		scope.push(vm.opFault(scope, ins.Offset, FaultTypeMismatch, "chunk index is not an integer"))
		return nil
	}
	parts := splitChunks(targetVal.String(), chunkKind(ins.Argument), vm.StringChunkItemDelimiter)
	if int(n.Val) < 1 || int(n.Val) > len(parts) {
		scope.push(datum.VOID)
		return nil
	}
	scope.push(datum.NewString(parts[n.Val-1]))
	return nil
}

// chunkSet implements PUT/SET (`put z into item N of y`): it reads the
// current value behind the VarRef, rewrites the Nth chunk, and assigns
// the rebuilt string back through the same resolution assignDynamic uses.
func (vm *VM) chunkSet(scope *Scope, ins container.Instruction) error {
	v, ok1 := scope.pop()
	idxVal, ok2 := scope.pop()
	ref, ok3 := scope.pop()
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	vr, ok := ref.(datum.VarRef)
	if !ok {
		vm.opFault(scope, ins.Offset, FaultTypeMismatch, "chunk assignment target is not a VarRef")
		return nil
	}
	n, ok := idxVal.(datum.Integer)
	if !ok {
		vm.opFault(scope, ins.Offset, FaultTypeMismatch, "chunk index is not an integer")
		return nil
	}

	current := vm.readDynamic(scope, vr.Name)
	parts := splitChunks(current.String(), chunkKind(ins.Argument), vm.StringChunkItemDelimiter)
	idx := int(n.Val)
	if idx < 1 {
		vm.opFault(scope, ins.Offset, FaultBadIndex, "chunk index out of range")
		return nil
	}
	for len(parts) < idx {
		parts = append(parts, "")
	}
	parts[idx-1] = v.String()

	var rebuilt string
	if chunkKind(ins.Argument) == chunkLine {
		rebuilt = strings.Join(parts, "\n")
	} else if chunkKind(ins.Argument) == chunkChar {
		rebuilt = strings.Join(parts, "")
	} else {
		rebuilt = strings.Join(parts, string(vm.StringChunkItemDelimiter))
	}
	vm.assignDynamic(scope, vr.Name, datum.NewString(rebuilt))
	return nil
}

// readDynamic mirrors assignDynamic's resolution order for reads: a
// receiver property first, then a global.
func (vm *VM) readDynamic(scope *Scope, name string) datum.Value {
	if scope.Receiver != nil {
		if v, ok := scope.Receiver.GetProp(name); ok {
			return v
		}
	}
	if v, ok := vm.Globals[name]; ok {
		return v
	}
	return datum.VOID
}
