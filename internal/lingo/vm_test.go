package lingo

import (
	"testing"

	"libreshockwave/internal/container"
	"libreshockwave/internal/datum"
	"libreshockwave/internal/diag"
)

// add2Script builds the scenario-S2 handler by hand: `add2(x)` is
// PUSH_PARAM 0; PUSH_INT8 2; ADD; RET.
func add2Script() (*container.ScriptInfo, *container.Handler) {
	h := container.Handler{
		ArgCount: 1,
		Instructions: []container.Instruction{
			{Offset: 0, Opcode: container.OpGetParam, Argument: 0},
			{Offset: 2, Opcode: container.OpPushInt, Argument: 2},
			{Offset: 4, Opcode: container.OpAdd},
			{Offset: 5, Opcode: container.OpRet},
		},
	}
	s := &container.ScriptInfo{ID: 1, Handlers: []container.Handler{h}}
	return s, &s.Handlers[0]
}

func newTestVM() *VM {
	return New(datum.NewSymbolTable(), diag.NewNoopSink())
}

func TestAdd2WithIntegerArgument(t *testing.T) {
	vm := newTestVM()
	script, handler := add2Script()
	result, err := vm.Execute(script, handler, nil, []datum.Value{datum.NewInteger(40)})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	got, ok := result.(datum.Integer)
	if !ok || got.Val != 42 {
		t.Errorf("add2(40) = %v, want Integer(42)", result)
	}
}

func TestAdd2CoercesNumericString(t *testing.T) {
	vm := newTestVM()
	script, handler := add2Script()
	result, err := vm.Execute(script, handler, nil, []datum.Value{datum.NewString("40")})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	got, ok := result.(datum.Integer)
	if !ok || got.Val != 42 {
		t.Errorf(`add2("40") = %v, want Integer(42)`, result)
	}
}

func TestAdd2OfVoidFaultsAndReturnsVoid(t *testing.T) {
	sink := diag.NewCollectingSink()
	vm := New(datum.NewSymbolTable(), sink)
	script, handler := add2Script()
	result, err := vm.Execute(script, handler, nil, []datum.Value{datum.VOID})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result != datum.VOID {
		t.Errorf("add2(VOID) = %v, want Void", result)
	}
	if len(sink.Ops) != 1 {
		t.Errorf("got %d op faults, want 1: %v", len(sink.Ops), sink.Ops)
	}
}

func TestStepBudgetExceededAbortsExecute(t *testing.T) {
	// Infinite recursion: the handler calls itself with zero arguments.
	// (A JMP-to-self would also loop, but only after the hand-built
	// Handler's offset index is filled in with BuildOffsetIndex; the
	// recursion needs no jump at all.)
	h := container.Handler{
		Instructions: []container.Instruction{
			{Offset: 0, Opcode: container.OpPushInt, Argument: 0},
			{Offset: 2, Opcode: container.OpLocalCall, Argument: 0},
			{Offset: 4, Opcode: container.OpRet},
		},
	}
	script := &container.ScriptInfo{ID: 1, Handlers: []container.Handler{h}}

	vm := newTestVM()
	vm.StepBudget = 10
	_, err := vm.Execute(script, &script.Handlers[0], nil, nil)
	if err == nil {
		t.Fatal("expected a step-budget VmFault")
	}
	vf, ok := err.(*VmFault)
	if !ok || vf.Kind != FaultStepBudget {
		t.Errorf("got %v, want FaultStepBudget VmFault", err)
	}
}

func pushPropListAndGetObjPropScript(propName string) (*container.ScriptInfo, *container.Handler) {
	h := container.Handler{
		Instructions: []container.Instruction{
			{Offset: 0, Opcode: container.OpPushConstant, Argument: 0}, // key 'a'
			{Offset: 2, Opcode: container.OpPushInt, Argument: 1},
			{Offset: 4, Opcode: container.OpPushConstant, Argument: 1}, // key 'b'
			{Offset: 6, Opcode: container.OpPushInt, Argument: 2},
			{Offset: 8, Opcode: container.OpPushPropList, Argument: 2},
			{Offset: 10, Opcode: container.OpGetObjProp, Argument: 2}, // name id 2 -> propName
			{Offset: 12, Opcode: container.OpRet},
		},
	}
	names := &container.ScriptNamesInfo{Names: []string{"", "", propName}}
	s := &container.ScriptInfo{
		ID: 1,
		Literals: []container.Literal{
			{Kind: container.LiteralString, StrVal: "a"},
			{Kind: container.LiteralString, StrVal: "b"},
		},
		Names:    names,
		Handlers: []container.Handler{h},
	}
	return s, &s.Handlers[0]
}

// TestPropListBuiltinsCountIlkAbsent covers spec scenario S5.
func TestPropListBuiltinsCountIlkAbsent(t *testing.T) {
	props := []string{"count", "ilk", "c"}
	for _, prop := range props {
		vm := newTestVM()
		script, handler := pushPropListAndGetObjPropScript(prop)
		result, err := vm.Execute(script, handler, nil, nil)
		if err != nil {
			t.Fatalf("Execute(%s): %v", prop, err)
		}
		switch prop {
		case "count":
			got, ok := result.(datum.Integer)
			if !ok || got.Val != 2 {
				t.Errorf("count = %v, want Integer(2)", result)
			}
		case "ilk":
			got, ok := result.(datum.Symbol)
			if !ok || got.Name() != "propList" {
				t.Errorf("ilk = %v, want #propList", result)
			}
		case "c":
			if result != datum.VOID {
				t.Errorf("absent key = %v, want Void", result)
			}
		}
	}
}
