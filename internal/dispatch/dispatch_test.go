package dispatch

import (
	"reflect"
	"testing"

	"libreshockwave/internal/container"
	"libreshockwave/internal/datum"
	"libreshockwave/internal/diag"
	"libreshockwave/internal/lingo"
)

// mouseDownScript builds a one-handler script that records `mark` (its own
// id) and optionally calls `pass`, per spec scenario S3.
func mouseDownScript(mark int, callsPass bool) *container.ScriptInfo {
	instructions := []container.Instruction{
		{Offset: 0, Opcode: container.OpPushInt, Argument: int32(mark)},
		{Offset: 2, Opcode: container.OpPushInt, Argument: 1},
		{Offset: 4, Opcode: container.OpExtCall, Argument: 2}, // "mark"
	}
	off := 6
	if callsPass {
		instructions = append(instructions,
			container.Instruction{Offset: int(off), Opcode: container.OpPushInt, Argument: 0},
			container.Instruction{Offset: off + 2, Opcode: container.OpExtCall, Argument: 1}, // "pass"
		)
		off += 4
	}
	instructions = append(instructions, container.Instruction{Offset: off, Opcode: container.OpRet})

	names := &container.ScriptNamesInfo{Names: []string{"mouseDown", "pass", "mark"}}
	h := container.Handler{NameID: 0, Instructions: instructions}
	return &container.ScriptInfo{ID: mark, Names: names, Handlers: []container.Handler{h}}
}

type staticTargets struct {
	sprites []Target
	frame   *Target
	movies  []Target
}

func (s staticTargets) SpriteBehaviors() []Target { return s.sprites }
func (s staticTargets) FrameScript() (Target, bool) {
	if s.frame == nil {
		return Target{}, false
	}
	return *s.frame, true
}
func (s staticTargets) MovieScripts() []Target { return s.movies }

func TestDispatchGlobalEventStopsAfterNonPassingHandler(t *testing.T) {
	var marks []int
	vm := lingo.New(datum.NewSymbolTable(), diag.NewNoopSink())
	vm.RegisterBuiltin("mark", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		args := scope.PopArgs(argc)
		marks = append(marks, int(args[0].(datum.Integer).Val))
		return datum.VOID
	})
	vm.RegisterBuiltin("pass", func(vm *lingo.VM, scope *lingo.Scope, argc int) datum.Value {
		scope.PopArgs(argc)
		vm.SetPropagationStop(false)
		return datum.VOID
	})

	ch1 := mouseDownScript(1, true)
	ch2 := mouseDownScript(2, false)
	ch3 := mouseDownScript(3, false)
	frame := mouseDownScript(100, false)
	movie := mouseDownScript(200, false)

	targets := staticTargets{
		sprites: []Target{
			{Channel: 1, Script: ch1},
			{Channel: 2, Script: ch2},
			{Channel: 3, Script: ch3},
		},
		frame:  &Target{Script: frame},
		movies: []Target{{Script: movie}},
	}

	d := New(vm)
	if err := d.DispatchGlobalEvent("mouseDown", nil, targets); err != nil {
		t.Fatalf("DispatchGlobalEvent: %v", err)
	}

	if !reflect.DeepEqual(marks, []int{1, 2}) {
		t.Errorf("got marks=%v, want [1 2] (channel 3 and frame/movie scripts must not run)", marks)
	}
}
