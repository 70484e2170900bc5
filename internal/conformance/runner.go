package conformance

import (
	"fmt"

	"libreshockwave/internal/container"
	"libreshockwave/internal/datum"
	"libreshockwave/internal/lingo"
)

// countingSink is a diag.Sink that only counts OpFaults, used to check
// expectations like S2's "logs one OpFault" without depending on log
// output formatting.
type countingSink struct {
	opFaults int
}

func (s *countingSink) ChunkFault(tag string, offset int, reason error)        {}
func (s *countingSink) OpFault(handler string, offset int, reason error)       { s.opFaults++ }
func (s *countingSink) VMFault(kind, handler string, offset int, reason error) {}
func (s *countingSink) Info(format string, args ...any)                       {}

// Result is the outcome of running one Case.
type Result struct {
	Case   Case
	Passed bool
	Detail string
}

// RunSuite executes every Case in s and returns one Result per case,
// mirroring MongooseMoo-barn/conformance/runner.go's Runner.RunAll
// shape (load -> evaluate -> compare -> collect), generalized from a MOO
// evaluator to a lingo.VM.
func RunSuite(s Suite) []Result {
	out := make([]Result, 0, len(s.Cases))
	for _, c := range s.Cases {
		out = append(out, runCase(c))
	}
	return out
}

func runCase(c Case) Result {
	sink := &countingSink{}
	vm := lingo.New(datum.NewSymbolTable(), sink)
	if c.StepBudget > 0 {
		vm.StepBudget = c.StepBudget
	}

	script, handler, err := assemble(c)
	if err != nil {
		return Result{Case: c, Passed: false, Detail: err.Error()}
	}

	args := make([]datum.Value, len(c.Args))
	for i, a := range c.Args {
		v, err := argToValue(vm, a)
		if err != nil {
			return Result{Case: c, Passed: false, Detail: err.Error()}
		}
		args[i] = v
	}

	result, execErr := vm.Execute(script, handler, nil, args)
	return checkExpectation(c, result, execErr, sink)
}

// assemble builds a one-handler script from Case's Instructions,
// resolving opcode mnemonics via container.OpCodeByName and collecting
// every distinct Instruction.Name into a shared name table so
// name-table-indexed opcodes (GET_OBJ_PROP, GET_GLOBAL, ...) can
// reference them the way a real Script chunk's handler does.
func assemble(c Case) (*container.ScriptInfo, *container.Handler, error) {
	names := []string{"run"}
	nameIndex := map[string]int{"run": 0}
	nameID := func(n string) int {
		if idx, ok := nameIndex[n]; ok {
			return idx
		}
		idx := len(names)
		names = append(names, n)
		nameIndex[n] = idx
		return idx
	}

	instructions := make([]container.Instruction, 0, len(c.Instructions))
	offset := 0
	for _, ins := range c.Instructions {
		op, ok := container.OpCodeByName(ins.Op)
		if !ok {
			return nil, nil, fmt.Errorf("conformance: unknown opcode %q", ins.Op)
		}
		arg := ins.Arg
		if ins.Name != "" {
			arg = int32(nameID(ins.Name))
		}
		instructions = append(instructions, container.Instruction{Offset: offset, Opcode: op, Argument: arg})
		offset += 2
	}

	scriptNames := &container.ScriptNamesInfo{Names: names}
	handler := container.Handler{NameID: 0, ArgCount: c.ParamCount, Instructions: instructions}
	handler.BuildOffsetIndex()
	script := &container.ScriptInfo{ID: 1, Names: scriptNames, Handlers: []container.Handler{handler}}
	return script, &script.Handlers[0], nil
}

func argToValue(vm *lingo.VM, a ArgValue) (datum.Value, error) {
	switch a.Type {
	case "int":
		n, _ := toInt(a.Value)
		return datum.NewInteger(int32(n)), nil
	case "float":
		f, _ := toFloat(a.Value)
		return datum.NewFloat(f), nil
	case "string":
		s, _ := a.Value.(string)
		return datum.NewString(s), nil
	case "symbol":
		s, _ := a.Value.(string)
		return vm.Symbols.Intern(s), nil
	case "void", "":
		return datum.VOID, nil
	default:
		return nil, fmt.Errorf("conformance: unknown arg type %q", a.Type)
	}
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func checkExpectation(c Case, result datum.Value, execErr error, sink *countingSink) Result {
	if c.Expect.Fault != "" {
		if execErr == nil {
			return Result{Case: c, Passed: false, Detail: fmt.Sprintf("expected fault %q, execution succeeded with %v", c.Expect.Fault, result)}
		}
		if f, ok := execErr.(*lingo.VmFault); ok {
			if f.Kind.String() == c.Expect.Fault {
				return Result{Case: c, Passed: true}
			}
			return Result{Case: c, Passed: false, Detail: fmt.Sprintf("got fault %s, want %s", f.Kind, c.Expect.Fault)}
		}
		return Result{Case: c, Passed: false, Detail: fmt.Sprintf("expected VmFault %q, got %v", c.Expect.Fault, execErr)}
	}

	if execErr != nil {
		return Result{Case: c, Passed: false, Detail: fmt.Sprintf("unexpected fault: %v", execErr)}
	}

	if exp := c.Expect.Result; exp != nil {
		if exp.Type == "symbol" {
			gotSym, ok := result.(datum.Symbol)
			wantName, _ := exp.Value.(string)
			if !ok || gotSym.Name() != wantName {
				return Result{Case: c, Passed: false, Detail: fmt.Sprintf("got %v, want symbol #%s", result, wantName)}
			}
		} else {
			want, err := argToValue(lingo.New(datum.NewSymbolTable(), sink), *exp)
			if err != nil {
				return Result{Case: c, Passed: false, Detail: err.Error()}
			}
			if !result.Equal(want) {
				return Result{Case: c, Passed: false, Detail: fmt.Sprintf("got %v, want %v", result, want)}
			}
		}
	}

	if c.Expect.OpFaults != 0 && sink.opFaults != c.Expect.OpFaults {
		return Result{Case: c, Passed: false, Detail: fmt.Sprintf("got %d OpFaults, want %d", sink.opFaults, c.Expect.OpFaults)}
	}

	return Result{Case: c, Passed: true}
}
