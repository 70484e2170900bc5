// Package lingo implements the Lingo virtual machine core (C6): opcode
// dispatch, scope/stack management, variable resolution across scopes,
// built-in registration, ancestor-chain lookup, and pass/propagation
// signalling. Execution is single-threaded, cooperative, and synchronous
// (spec §4.2), the way barn/vm.VM interprets MOO bytecode one scope at a
// time with an explicit tick budget.
package lingo

import (
	"fmt"

	"libreshockwave/internal/container"
	"libreshockwave/internal/datum"
	"libreshockwave/internal/diag"
	"libreshockwave/internal/trace"
)

// Builtin is a host-provided function exposed to Lingo (spec §4.2 "Built-ins"):
// it receives the calling scope and an argument count, pops exactly that
// many arguments itself, and returns the result value (VOID if none).
type Builtin func(vm *VM, scope *Scope, argc int) datum.Value

// VM owns the globals table, the built-in registry, and the
// cross-cutting limits spec §6 names as construction-time configuration.
// Do not reach for a process-wide singleton (spec §9): every caller gets
// its own VM.
type VM struct {
	Globals map[string]datum.Value
	Symbols *datum.SymbolTable
	Sink    diag.Sink

	builtins map[string]Builtin

	// ScriptsByID / ScriptsByName let OBJ_CALL/NEW_OBJ resolve a target
	// script without the VM importing internal/resolver or
	// internal/container.Store directly; the layer that owns the chunk
	// store (internal/score, or a test) populates these at construction.
	ScriptsByID   map[int]*container.ScriptInfo
	ScriptsByName map[string]*container.ScriptInfo

	StepBudget               int
	AncestorDepthLimit       int
	StringChunkItemDelimiter byte

	// Debug is spec §6's separate optional tap (instruction/handler
	// callbacks, paused/resume control). Nil by default; the methods the
	// VM calls on it (Instruction, HandlerEnter, HandlerExit) are
	// nil-receiver-safe.
	Debug *trace.Tracer

	steps           int
	stopPropagation bool
	callStack       []*Scope

	// receivers maps a ScriptInstance's identity to the Receiver that
	// backs it, so OBJ_CALL/GET_OBJ_PROP/SET_OBJ_PROP can reach the
	// mutable property map behind a Datum value that only carries an ID
	// (spec §3 "Scope ... Receiver"; ScriptInstance is the Datum-facing
	// half, Receiver the host-facing half).
	receivers      map[int64]Receiver
	nextInstanceID int64
}

const (
	defaultStepBudget         = 500_000
	defaultAncestorDepthLimit = 16
	defaultChunkDelimiter     = ','
)

// New constructs a VM with spec §6's documented defaults. Callers
// override StepBudget/AncestorDepthLimit/StringChunkItemDelimiter (or via
// internal/config) before the first Execute call.
func New(symbols *datum.SymbolTable, sink diag.Sink) *VM {
	if sink == nil {
		sink = diag.NewNoopSink()
	}
	return &VM{
		Globals:                  make(map[string]datum.Value),
		Symbols:                  symbols,
		Sink:                     sink,
		builtins:                 make(map[string]Builtin),
		ScriptsByID:              make(map[int]*container.ScriptInfo),
		ScriptsByName:            make(map[string]*container.ScriptInfo),
		receivers:                make(map[int64]Receiver),
		StepBudget:               defaultStepBudget,
		AncestorDepthLimit:       defaultAncestorDepthLimit,
		StringChunkItemDelimiter: defaultChunkDelimiter,
	}
}

// RegisterBuiltin installs a built-in under name. The registry is
// populated at VM construction and is not mutated thereafter once
// execution begins (spec §4.2).
func (vm *VM) RegisterBuiltin(name string, fn Builtin) {
	vm.builtins[name] = fn
}

// SetPropagationStop is called by the event dispatcher (spec §4.2 "pass")
// before invoking a handler: it defaults propagation to stopped, and the
// built-in `pass` clears it.
func (vm *VM) SetPropagationStop(stop bool) { vm.stopPropagation = stop }

// PropagationStopped reports the flag's state after a handler returns.
func (vm *VM) PropagationStopped() bool { return vm.stopPropagation }

// resetSteps is called once per top-level Execute call (not per nested
// LOCAL_CALL), so the step budget bounds a whole dispatcher-initiated
// call tree, matching spec §4.2: "Each execute call has a ceiling on
// instructions retired".
func (vm *VM) resetSteps() { vm.steps = 0 }

// Execute runs handler from instruction zero with the given receiver and
// arguments, returning its return value or a VmFault (spec §4.2
// "Execution model"). It is the only entry point that resets the step
// budget; nested LOCAL_CALL/OBJ_CALL invocations inside the same dispatch
// share the running total.
func (vm *VM) Execute(script *container.ScriptInfo, handler *container.Handler, receiver Receiver, args []datum.Value) (datum.Value, error) {
	vm.resetSteps()
	vm.callStack = vm.callStack[:0]
	return vm.callHandler(script, handler, receiver, args)
}

// callHandler pushes a new scope and runs it to completion. Used both by
// Execute (the outermost call) and by LOCAL_CALL/OBJ_CALL for nested
// calls that share the outer call's step budget and call stack.
func (vm *VM) callHandler(script *container.ScriptInfo, handler *container.Handler, receiver Receiver, args []datum.Value) (datum.Value, error) {
	scope := &Scope{
		Script:   script,
		Handler:  handler,
		Locals:   make([]datum.Value, handler.LocalCount),
		Params:   make([]datum.Value, handler.ArgCount),
		Receiver: receiver,
		Return:   datum.VOID,
	}
	for i := range scope.Locals {
		scope.Locals[i] = datum.VOID
	}
	for i := range scope.Params {
		if i < len(args) {
			scope.Params[i] = args[i]
		} else {
			scope.Params[i] = datum.VOID
		}
	}

	vm.callStack = append(vm.callStack, scope)
	defer func() { vm.callStack = vm.callStack[:len(vm.callStack)-1] }()

	name := vm.handlerName(scope)
	vm.Debug.HandlerEnter(name)
	err := vm.run(scope)
	vm.Debug.HandlerExit(name, err)
	if err != nil {
		return datum.VOID, err
	}
	return scope.Return, nil
}

// handlerName renders a diagnostic-friendly name for the currently
// executing handler, falling back to "<anonymous>" if no names table is
// attached or the handler's name is empty.
func (vm *VM) handlerName(scope *Scope) string {
	if scope.Script != nil && scope.Script.Names != nil {
		if name := scope.Script.Names.Name(scope.Handler.NameID); name != "" {
			return name
		}
	}
	return "<anonymous>"
}

// opFault logs a recoverable opcode-level fault and returns VOID, the
// policy spec §4.2/§7 describes: "push VOID, log a diagnostic, and
// continue".
func (vm *VM) opFault(scope *Scope, offset int, kind OpFaultKind, detail string) datum.Value {
	f := &OpFault{Kind: kind, Handler: vm.handlerName(scope), Offset: offset, Detail: detail}
	vm.Sink.OpFault(f.Handler, offset, f)
	return datum.VOID
}

func (vm *VM) vmFault(scope *Scope, offset int, kind VmFaultKind, err error) *VmFault {
	f := &VmFault{Kind: kind, Handler: vm.handlerName(scope), Offset: offset, Err: err}
	vm.Sink.VMFault(kind.String(), f.Handler, offset, f)
	return f
}

// nameAt resolves a Script's name-table entry by id, returning "" if the
// script has no names table or the id is out of range.
func (vm *VM) nameAt(script *container.ScriptInfo, id int) string {
	if script == nil || script.Names == nil {
		return ""
	}
	return script.Names.Name(id)
}

// newInstance allocates a fresh ScriptInstance bound to receiver and
// registers it so later OBJ_CALL/GET_OBJ_PROP/SET_OBJ_PROP dispatch can
// find the Receiver behind the value (spec §4.2 "NEW_OBJ").
func (vm *VM) newInstance(scriptID int, receiver *SimpleReceiver) datum.ScriptInstance {
	vm.nextInstanceID++
	id := vm.nextInstanceID
	inst := datum.NewScriptInstance(id, scriptID, func() datum.PropList {
		return receiver.snapshot()
	})
	receiver.Instance = inst
	vm.receivers[id] = receiver
	return inst
}

// NewInstance is the exported form of newInstance, used by
// internal/score to mint BehaviorInstance identities (spec §4.4 "create
// a BehaviorInstance per behaviour reference") without this package
// needing to know about sprites or behaviours.
func (vm *VM) NewInstance(scriptID int, receiver *SimpleReceiver) datum.ScriptInstance {
	return vm.newInstance(scriptID, receiver)
}

// receiverFor looks up the Receiver backing a ScriptInstance value.
func (vm *VM) receiverFor(v datum.Value) (Receiver, bool) {
	inst, ok := v.(datum.ScriptInstance)
	if !ok {
		return nil, false
	}
	r, ok := vm.receivers[inst.ID]
	return r, ok
}

// run walks scope.Handler.Instructions starting at ip 0 until a RET/
// RET_FACTORY, the instruction stream is exhausted, or a fault aborts it
// (spec §4.2 "Execution model"). Opcode implementations live in opcodes.go;
// run only owns the instruction pointer and the step budget.
func (vm *VM) run(scope *Scope) error {
	instructions := scope.Handler.Instructions
	for scope.ip < len(instructions) {
		vm.steps++
		if vm.steps > vm.StepBudget {
			return vm.vmFault(scope, instructions[scope.ip].Offset, FaultStepBudget,
				fmt.Errorf("exceeded step budget of %d instructions", vm.StepBudget))
		}

		ins := instructions[scope.ip]
		vm.Debug.Instruction(vm.handlerName(scope), ins.Offset, ins.Opcode.String())
		next, done, err := vm.exec(scope, ins)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if next >= 0 {
			idx, ok := scope.Handler.IndexForOffset(next)
			if !ok {
				return vm.vmFault(scope, ins.Offset, FaultBadHandler,
					fmt.Errorf("jump target %d does not land on an instruction boundary", next))
			}
			scope.ip = idx
			continue
		}
		scope.ip++
	}
	return nil
}
