package container

import (
	"testing"

	"libreshockwave/internal/binreader"
)

// TestDecodeBytecodeAddHandler builds the raw bytecode for spec scenario
// S2's add2 handler (`PUSH_PARAM 0; PUSH_INT8 2; ADD; RET`) and checks the
// decoded Instruction stream's opcodes, arguments, and offsets.
func TestDecodeBytecodeAddHandler(t *testing.T) {
	code := []byte{
		0x40 + 9, 0x00, // GET_PARAM(0), 1-byte arg
		0x40 + 0, 0x02, // PUSH_INT(2), 1-byte arg
		0x01,           // ADD, no arg
		0x12,           // RET, no arg
	}
	instructions, err := decodeBytecode(code, binreader.BigEndian)
	if err != nil {
		t.Fatalf("decodeBytecode: %v", err)
	}
	if len(instructions) != 4 {
		t.Fatalf("got %d instructions, want 4", len(instructions))
	}

	want := []struct {
		opcode OpCode
		offset int
		arg    int32
	}{
		{OpGetParam, 0, 0},
		{OpPushInt, 2, 2},
		{OpAdd, 4, 0},
		{OpRet, 5, 0},
	}
	for i, w := range want {
		ins := instructions[i]
		if ins.Opcode != w.opcode || ins.Offset != w.offset || ins.Argument != w.arg {
			t.Errorf("instruction %d = %+v, want opcode=%v offset=%d arg=%d", i, ins, w.opcode, w.offset, w.arg)
		}
	}
}

func TestHandlerOffsetIndexResolvesJumpTargets(t *testing.T) {
	code := []byte{
		0x40 + 28, 0x02, // JMP(+2), 1-byte arg
		0x01,            // ADD
		0x12,            // RET
	}
	instructions, err := decodeBytecode(code, binreader.BigEndian)
	if err != nil {
		t.Fatalf("decodeBytecode: %v", err)
	}
	h := &Handler{Instructions: instructions}
	h.buildOffsetIndex()

	lastOffset := instructions[len(instructions)-1].Offset
	idx, ok := h.IndexForOffset(lastOffset)
	if !ok || instructions[idx].Opcode != OpRet {
		t.Errorf("expected offset %d to resolve to RET, got idx=%d ok=%v", lastOffset, idx, ok)
	}

	if _, ok := h.IndexForOffset(999); ok {
		t.Error("out-of-handler offset should not resolve (spec invariant: jumps land on an instruction boundary)")
	}
}
