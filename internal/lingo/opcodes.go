package lingo

import (
	"math"
	"strings"

	"libreshockwave/internal/container"
	"libreshockwave/internal/datum"
)

// exec dispatches a single decoded Instruction (spec §4.2's opcode
// families: Stack, Variables, Calls, Flow, Arithmetic/comparison/logical,
// String/list chunking). Returns the next bytecode offset to jump to
// (-1 for "advance normally"), whether the handler returned, and any
// unrecoverable fault.
func (vm *VM) exec(scope *Scope, ins container.Instruction) (int, bool, error) {
	switch ins.Opcode {

	// --- Stack / arithmetic / comparison / logical --------------------

	case container.OpPushZero:
		scope.push(datum.NewInteger(0))
	case container.OpAdd:
		return -1, false, vm.binaryArith(scope, ins, func(a, b float64) float64 { return a + b }, func(a, b int32) int32 { return a + b })
	case container.OpSub:
		return -1, false, vm.binaryArith(scope, ins, func(a, b float64) float64 { return a - b }, func(a, b int32) int32 { return a - b })
	case container.OpMul:
		return -1, false, vm.binaryArith(scope, ins, func(a, b float64) float64 { return a * b }, func(a, b int32) int32 { return a * b })
	case container.OpDiv:
		return -1, false, vm.divide(scope, ins, false)
	case container.OpMod:
		return -1, false, vm.divide(scope, ins, true)
	case container.OpNeg:
		v, ok := scope.pop()
		if !ok {
			vm.opFault(scope, ins.Offset, FaultBadIndex, "NEG on empty stack")
			scope.push(datum.VOID)
			break
		}
		n, ok := datum.ToNumber(v)
		if !ok {
			scope.push(vm.opFault(scope, ins.Offset, FaultTypeMismatch, "NEG of non-numeric value"))
			break
		}
		if f, isFloat := n.(datum.Float); isFloat {
			scope.push(datum.NewFloat(-f.Val))
		} else {
			scope.push(datum.NewInteger(-n.(datum.Integer).Val))
		}
	case container.OpLt, container.OpLe, container.OpGt, container.OpGe:
		return -1, false, vm.compareOrdered(scope, ins)
	case container.OpEq:
		b, a, ok := scope.pop2()
		if !ok {
			scope.push(datum.VOID)
			break
		}
		scope.push(boolDatum(a.Equal(b)))
	case container.OpNe:
		b, a, ok := scope.pop2()
		if !ok {
			scope.push(datum.VOID)
			break
		}
		scope.push(boolDatum(!a.Equal(b)))
	case container.OpAnd:
		b, a, ok := scope.pop2()
		if !ok {
			scope.push(datum.VOID)
			break
		}
		scope.push(boolDatum(a.Truthy() && b.Truthy()))
	case container.OpOr:
		b, a, ok := scope.pop2()
		if !ok {
			scope.push(datum.VOID)
			break
		}
		scope.push(boolDatum(a.Truthy() || b.Truthy()))
	case container.OpNot:
		a, ok := scope.pop()
		if !ok {
			scope.push(datum.VOID)
			break
		}
		scope.push(boolDatum(!a.Truthy()))
	case container.OpContains:
		return -1, false, vm.containsOp(scope, ins)
	case container.OpStarts:
		b, a, ok := scope.pop2()
		if !ok {
			scope.push(datum.VOID)
			break
		}
		scope.push(boolDatum(strings.HasPrefix(a.String(), b.String())))
	case container.OpRet:
		if v, ok := scope.pop(); ok {
			scope.Return = v
		} else {
			scope.Return = datum.VOID
		}
		return -1, true, nil
	case container.OpRetFactory:
		if scope.Receiver != nil {
			scope.Return = scope.Receiver.AsValue()
		} else {
			scope.Return = datum.VOID
		}
		return -1, true, nil

	// --- Stack pushes with arguments ------------------------------------

	case container.OpPushInt:
		scope.push(datum.NewInteger(ins.Argument))
	case container.OpPushFloat32:
		scope.push(datum.NewFloat(ins.FloatArgument))
	case container.OpPushSymbol:
		name := vm.nameAt(scope.Script, int(ins.Argument))
		scope.push(vm.Symbols.Intern(name))
	case container.OpPushConstant:
		lit, ok := scope.Script.Literal(int(ins.Argument))
		if !ok {
			scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "literal index out of range"))
			break
		}
		scope.push(literalValue(lit))
	case container.OpPushList:
		n := int(ins.Argument)
		elems, ok := scope.popN(n)
		if !ok {
			scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "PUSH_LIST underflow"))
			break
		}
		scope.push(datum.NewList(elems))
	case container.OpPushPropList:
		n := int(ins.Argument)
		flat, ok := scope.popN(n * 2)
		if !ok {
			scope.push(vm.opFault(scope, ins.Offset, FaultBadIndex, "PUSH_PROP_LIST underflow"))
			break
		}
		pairs := make([][2]datum.Value, n)
		for i := 0; i < n; i++ {
			pairs[i] = [2]datum.Value{flat[i*2], flat[i*2+1]}
		}
		scope.push(datum.NewPropList(pairs))
	case container.OpPop:
		n := int(ins.Argument)
		if n <= 0 {
			n = 1
		}
		scope.popN(n)

	// --- Variables -------------------------------------------------------

	case container.OpGetLocal, container.OpSetLocal, container.OpGetParam,
		container.OpGetGlobal, container.OpSetGlobal, container.OpGetGlobal2,
		container.OpGetProp, container.OpSetProp,
		container.OpGetObjProp, container.OpSetObjProp,
		container.OpGetMovieProp, container.OpGetTopLevelProp, container.OpGetChainedProp,
		container.OpPushVarRef, container.OpSetChunkExp:
		return -1, false, vm.execVariable(scope, ins)

	// --- Calls -------------------------------------------------------------

	case container.OpLocalCall:
		return -1, false, vm.localCall(scope, ins)
	case container.OpExtCall, container.OpTheBuiltin:
		return -1, false, vm.extCall(scope, ins)
	case container.OpObjCall, container.OpObjCallV4, container.OpTellCall:
		return -1, false, vm.objCall(scope, ins)
	case container.OpNewObj:
		return -1, false, vm.newObj(scope, ins)

	// --- Flow ----------------------------------------------------------

	case container.OpJmp:
		return ins.Offset + int(ins.Argument), false, nil
	case container.OpEndRepeat:
		return ins.Offset - int(ins.Argument), false, nil
	case container.OpJmpIfZero:
		v, ok := scope.pop()
		if !ok || !v.Truthy() {
			return ins.Offset + int(ins.Argument), false, nil
		}

	// --- String/list chunking --------------------------------------------

	case container.OpChunkGet:
		return -1, false, vm.chunkGet(scope, ins)
	case container.OpChunkPut, container.OpChunkSet:
		return -1, false, vm.chunkSet(scope, ins)

	default:
		vm.opFault(scope, ins.Offset, FaultBadIndex, "unrecognized opcode "+ins.Opcode.String())
	}
	return -1, false, nil
}

func boolDatum(b bool) datum.Value {
	if b {
		return datum.NewInteger(1)
	}
	return datum.NewInteger(0)
}

// pop2 pops b (the top value) then a, and returns them in pop order
// (b, a); a is the operand pushed first.
func (s *Scope) pop2() (b, a datum.Value, ok bool) {
	bv, ok1 := s.pop()
	av, ok2 := s.pop()
	if !ok1 || !ok2 {
		return nil, nil, false
	}
	return bv, av, true
}

// popN pops n values and returns them in the order they were pushed.
func (s *Scope) popN(n int) ([]datum.Value, bool) {
	if n < 0 || len(s.Stack) < n {
		return nil, false
	}
	out := make([]datum.Value, n)
	copy(out, s.Stack[len(s.Stack)-n:])
	s.Stack = s.Stack[:len(s.Stack)-n]
	return out, true
}

func literalValue(lit container.Literal) datum.Value {
	switch lit.Kind {
	case container.LiteralString:
		return datum.NewString(lit.StrVal)
	case container.LiteralInt:
		return datum.NewInteger(lit.IntVal)
	case container.LiteralFloat:
		return datum.NewFloat(lit.FloatVal)
	default:
		return datum.VOID
	}
}

// binaryArith implements ADD/SUB/MUL: both operands coerce via
// datum.ToNumber (spec scenario S2 coerces numeric strings), promoting to
// Float if either operand is a Float (spec §4.2 numeric tower).
func (vm *VM) binaryArith(scope *Scope, ins container.Instruction, ffn func(a, b float64) float64, ifn func(a, b int32) int32) error {
	b, a, ok := scope.pop2()
	if !ok {
		scope.push(datum.VOID)
		return nil
	}
	an, aok := datum.ToNumber(a)
	bn, bok := datum.ToNumber(b)
	if !aok || !bok {
		scope.push(vm.opFault(scope, ins.Offset, FaultTypeMismatch, "arithmetic on non-numeric operand"))
		return nil
	}
	if datum.BothFloat(an, bn) {
		af, _ := datum.AsFloat64(an)
		bf, _ := datum.AsFloat64(bn)
		scope.push(datum.NewFloat(ffn(af, bf)))
	} else {
		scope.push(datum.NewInteger(ifn(an.(datum.Integer).Val, bn.(datum.Integer).Val)))
	}
	return nil
}

func (vm *VM) divide(scope *Scope, ins container.Instruction, mod bool) error {
	b, a, ok := scope.pop2()
	if !ok {
		scope.push(datum.VOID)
		return nil
	}
	an, aok := datum.ToNumber(a)
	bn, bok := datum.ToNumber(b)
	if !aok || !bok {
		scope.push(vm.opFault(scope, ins.Offset, FaultTypeMismatch, "arithmetic on non-numeric operand"))
		return nil
	}
	if datum.BothFloat(an, bn) {
		af, _ := datum.AsFloat64(an)
		bf, _ := datum.AsFloat64(bn)
		if bf == 0 {
			scope.push(vm.opFault(scope, ins.Offset, FaultDivideByZero, "division by zero"))
			return nil
		}
		if mod {
			scope.push(datum.NewFloat(math.Mod(af, bf)))
		} else {
			scope.push(datum.NewFloat(af / bf))
		}
		return nil
	}
	ai, bi := an.(datum.Integer).Val, bn.(datum.Integer).Val
	if bi == 0 {
		scope.push(vm.opFault(scope, ins.Offset, FaultDivideByZero, "division by zero"))
		return nil
	}
	if mod {
		scope.push(datum.NewInteger(ai % bi))
	} else {
		scope.push(datum.NewInteger(ai / bi))
	}
	return nil
}

func (vm *VM) compareOrdered(scope *Scope, ins container.Instruction) error {
	b, a, ok := scope.pop2()
	if !ok {
		scope.push(datum.VOID)
		return nil
	}
	var cmp int
	if an, aok := datum.ToNumber(a); aok {
		if bn, bok := datum.ToNumber(b); bok {
			af, _ := datum.AsFloat64(an)
			bf, _ := datum.AsFloat64(bn)
			cmp = compareFloat(af, bf)
		} else {
			scope.push(vm.opFault(scope, ins.Offset, FaultTypeMismatch, "comparison of mismatched types"))
			return nil
		}
	} else {
		cmp = strings.Compare(a.String(), b.String())
	}
	switch ins.Opcode {
	case container.OpLt:
		scope.push(boolDatum(cmp < 0))
	case container.OpLe:
		scope.push(boolDatum(cmp <= 0))
	case container.OpGt:
		scope.push(boolDatum(cmp > 0))
	case container.OpGe:
		scope.push(boolDatum(cmp >= 0))
	}
	return nil
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (vm *VM) containsOp(scope *Scope, ins container.Instruction) error {
	b, a, ok := scope.pop2()
	if !ok {
		scope.push(datum.VOID)
		return nil
	}
	switch av := a.(type) {
	case datum.List:
		for _, e := range av.Elements() {
			if e.Equal(b) {
				scope.push(boolDatum(true))
				return nil
			}
		}
		scope.push(boolDatum(false))
	default:
		scope.push(boolDatum(strings.Contains(a.String(), b.String())))
	}
	return nil
}
