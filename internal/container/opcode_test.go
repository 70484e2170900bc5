package container

import "testing"

func TestDecodeRawOpcodeNoArg(t *testing.T) {
	op, width := decodeRawOpcode(0x01) // ADD
	if op != OpAdd || width != ArgWidthNone {
		t.Errorf("got (%v, %v), want (OpAdd, ArgWidthNone)", op, width)
	}
}

func TestDecodeRawOpcodeArgWidths(t *testing.T) {
	cases := []struct {
		raw   byte
		op    OpCode
		width ArgWidth
	}{
		{0x40, OpPushInt, ArgWidth1},   // base 0, width group 0x40
		{0x87, OpGetLocal, ArgWidth2},  // base 7 (GetLocal), width group 0x80
		{0xC3, OpPushConstant, ArgWidth4}, // base 3 (PushConstant), width group 0xC0
	}
	for _, c := range cases {
		op, width := decodeRawOpcode(c.raw)
		if op != c.op || width != c.width {
			t.Errorf("decodeRawOpcode(0x%02x) = (%v, %v), want (%v, %v)", c.raw, op, width, c.op, c.width)
		}
	}
}
