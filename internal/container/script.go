package container

import (
	"encoding/binary"
	"fmt"
	"math"

	"libreshockwave/internal/binreader"
)

// parseScript decodes a Script chunk (`Lscr`): its literal table, name
// table index, and Handlers, each carrying a fully decoded Instruction
// stream (spec §3 "ScriptContext + Script").
//
// This package owns bytecode-to-Instruction decoding, not internal/lingo:
// the VM only ever walks pre-decoded Instructions (spec §4.2 "Instruction
// shape" describes container-level decoding; the VM interprets the
// result).
func parseScript(payload []byte, endian binreader.Endian, store *Store) (*ScriptInfo, error) {
	r := binreader.New(payload, endian)

	scriptType, err := r.I32()
	if err != nil {
		return nil, err
	}
	nameTableIndex, err := r.I32()
	if err != nil {
		return nil, err
	}
	literalCount, err := r.I32()
	if err != nil {
		return nil, err
	}

	script := &ScriptInfo{
		Type:           ScriptType(scriptType),
		NameTableIndex: int(nameTableIndex),
	}
	if store != nil {
		script.Names = store.ScriptNames
	}

	for i := int32(0); i < literalCount; i++ {
		kind, err := r.I32()
		if err != nil {
			return nil, err
		}
		var lit Literal
		switch LiteralKind(kind) {
		case LiteralString:
			lit.Kind = LiteralString
			lit.StrVal, err = r.PascalString16()
		case LiteralInt:
			lit.Kind = LiteralInt
			var v int32
			v, err = r.I32()
			lit.IntVal = v
		case LiteralFloat:
			lit.Kind = LiteralFloat
			lit.FloatVal, err = r.F64()
		default:
			return nil, fmt.Errorf("script literal %d: unknown kind %d", i, kind)
		}
		if err != nil {
			return nil, err
		}
		script.Literals = append(script.Literals, lit)
	}

	handlerCount, err := r.I32()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < handlerCount; i++ {
		h, err := parseHandler(r, endian)
		if err != nil {
			return nil, fmt.Errorf("handler %d: %w", i, err)
		}
		script.Handlers = append(script.Handlers, *h)
	}
	return script, nil
}

func parseHandler(r *binreader.Reader, endian binreader.Endian) (*Handler, error) {
	nameID, err := r.I32()
	if err != nil {
		return nil, err
	}
	argCount, err := r.I32()
	if err != nil {
		return nil, err
	}
	localCount, err := r.I32()
	if err != nil {
		return nil, err
	}

	h := &Handler{NameID: int(nameID), ArgCount: int(argCount), LocalCount: int(localCount)}
	for i := int32(0); i < argCount; i++ {
		id, err := r.I32()
		if err != nil {
			return nil, err
		}
		h.ArgNameIDs = append(h.ArgNameIDs, int(id))
	}
	for i := int32(0); i < localCount; i++ {
		id, err := r.I32()
		if err != nil {
			return nil, err
		}
		h.LocalNameIDs = append(h.LocalNameIDs, int(id))
	}

	codeLen, err := r.I32()
	if err != nil {
		return nil, err
	}
	code, err := r.Bytes(int(codeLen))
	if err != nil {
		return nil, err
	}

	instructions, err := decodeBytecode(code, endian)
	if err != nil {
		return nil, err
	}
	h.Instructions = instructions
	h.buildOffsetIndex()
	return h, nil
}

// decodeBytecode walks a handler's raw bytecode into a decoded
// Instruction stream (spec §4.2 "Instruction shape"): opcodes below 0x40
// take no argument; opcodes >= 0x40 carry a signed integer argument whose
// byte-width the raw opcode's high bits encode.
func decodeBytecode(code []byte, endian binreader.Endian) ([]Instruction, error) {
	var order binary.ByteOrder = binary.BigEndian
	if endian == binreader.LittleEndian {
		order = binary.LittleEndian
	}

	var instructions []Instruction
	pos := 0
	for pos < len(code) {
		offset := pos
		raw := code[pos]
		pos++
		op, width := decodeRawOpcode(raw)

		ins := Instruction{Offset: offset, Opcode: op, RawOpcode: raw}
		switch width {
		case ArgWidthNone:
			// no argument bytes follow
		case ArgWidth1:
			if pos+1 > len(code) {
				return nil, fmt.Errorf("bytecode truncated reading 1-byte argument at offset %d", offset)
			}
			ins.Argument = int32(int8(code[pos]))
			pos++
		case ArgWidth2:
			if pos+2 > len(code) {
				return nil, fmt.Errorf("bytecode truncated reading 2-byte argument at offset %d", offset)
			}
			ins.Argument = int32(int16(order.Uint16(code[pos : pos+2])))
			pos += 2
		case ArgWidth4:
			if pos+4 > len(code) {
				return nil, fmt.Errorf("bytecode truncated reading 4-byte argument at offset %d", offset)
			}
			bits := order.Uint32(code[pos : pos+4])
			if op == OpPushFloat32 {
				ins.FloatArgument = float64(math.Float32frombits(bits))
			} else {
				ins.Argument = int32(bits)
			}
			pos += 4
		}
		instructions = append(instructions, ins)
	}
	return instructions, nil
}
