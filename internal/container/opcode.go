package container

// OpCode identifies a decoded Lingo bytecode operation. The container
// decoder assigns these while walking a Script chunk's raw bytecode
// (spec §4.2 "Instruction shape"); the VM (internal/lingo) only ever sees
// already-decoded Instructions, never raw bytes.
//
// The historical Director opcode table varies across authoring-tool
// minor versions (spec §9, first open question). Rather than guess at an
// exact byte-for-byte mapping this decoder uses a stable, internally
// consistent assignment: opcode identity is the low 6 bits of the raw
// opcode byte, and argument width is derived from the high 2 bits,
// exactly as spec §4.2 describes ("Opcodes below 0x40 take no argument;
// >=0x40 carry a signed integer argument whose byte-width is encoded in
// the raw opcode high bits").
type OpCode int

const (
	OpInvalid OpCode = iota

	// No-argument opcodes (raw opcode byte < 0x40).
	OpPushZero
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd
	OpOr
	OpNot
	OpContains
	OpStarts
	OpRet
	OpRetFactory

	// Argument-taking opcodes (raw opcode byte >= 0x40).
	OpPushInt
	OpPushFloat32
	OpPushSymbol
	OpPushConstant
	OpPushList
	OpPushPropList
	OpPop
	OpGetLocal
	OpSetLocal
	OpGetParam
	OpGetGlobal
	OpSetGlobal
	OpGetGlobal2
	OpGetProp
	OpSetProp
	OpGetObjProp
	OpSetObjProp
	OpGetMovieProp
	OpGetTopLevelProp
	OpGetChainedProp
	OpPushVarRef
	OpLocalCall
	OpExtCall
	OpObjCall
	OpObjCallV4
	OpTellCall
	OpNewObj
	OpTheBuiltin
	OpJmp
	OpJmpIfZero
	OpEndRepeat
	OpChunkPut
	OpChunkGet
	OpChunkSet
	OpSetChunkExp
)

var opcodeNames = map[OpCode]string{
	OpInvalid:         "INVALID",
	OpPushZero:        "PUSH_ZERO",
	OpAdd:             "ADD",
	OpSub:             "SUB",
	OpMul:             "MUL",
	OpDiv:             "DIV",
	OpMod:             "MOD",
	OpNeg:             "NEG",
	OpLt:              "LT",
	OpLe:              "LE",
	OpGt:              "GT",
	OpGe:              "GE",
	OpEq:              "EQ",
	OpNe:              "NE",
	OpAnd:             "AND",
	OpOr:              "OR",
	OpNot:             "NOT",
	OpContains:        "CONTAINS",
	OpStarts:          "STARTS",
	OpRet:             "RET",
	OpRetFactory:      "RET_FACTORY",
	OpPushInt:         "PUSH_INT",
	OpPushFloat32:     "PUSH_FLOAT32",
	OpPushSymbol:      "PUSH_SYMB",
	OpPushConstant:    "PUSH_CONS",
	OpPushList:        "PUSH_LIST",
	OpPushPropList:    "PUSH_PROP_LIST",
	OpPop:             "POP",
	OpGetLocal:        "GET_LOCAL",
	OpSetLocal:        "SET_LOCAL",
	OpGetParam:        "GET_PARAM",
	OpGetGlobal:       "GET_GLOBAL",
	OpSetGlobal:       "SET_GLOBAL",
	OpGetGlobal2:      "GLOBAL2",
	OpGetProp:         "GET_PROP",
	OpSetProp:         "SET_PROP",
	OpGetObjProp:      "GET_OBJ_PROP",
	OpSetObjProp:      "SET_OBJ_PROP",
	OpGetMovieProp:    "GET_MOVIE_PROP",
	OpGetTopLevelProp: "GET_TOP_LEVEL_PROP",
	OpGetChainedProp:  "GET_CHAINED_PROP",
	OpPushVarRef:      "PUSH_VAR_REF",
	OpLocalCall:       "LOCAL_CALL",
	OpExtCall:         "EXT_CALL",
	OpObjCall:         "OBJ_CALL",
	OpObjCallV4:       "OBJ_CALL_V4",
	OpTellCall:        "TELL_CALL",
	OpNewObj:          "NEW_OBJ",
	OpTheBuiltin:      "THE_BUILTIN",
	OpJmp:             "JMP",
	OpJmpIfZero:       "JMP_IF_Z",
	OpEndRepeat:       "END_REPEAT",
	OpChunkPut:        "PUT",
	OpChunkGet:        "GET",
	OpChunkSet:        "SET",
	OpSetChunkExp:     "SET_CHUNK_EXP",
}

func (op OpCode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

var opcodeByName = func() map[string]OpCode {
	m := make(map[string]OpCode, len(opcodeNames))
	for op, n := range opcodeNames {
		m[n] = op
	}
	return m
}()

// OpCodeByName is the inverse of OpCode.String, used by
// internal/conformance to assemble fixture-described bytecode from
// mnemonics instead of raw bytes.
func OpCodeByName(name string) (OpCode, bool) {
	op, ok := opcodeByName[name]
	return op, ok
}

// noArgOpcodes maps the low 6 bits of a raw opcode byte < 0x40 to its
// OpCode, in the order spec §4.2 lists the no-argument families.
var noArgOpcodes = [64]OpCode{
	0: OpPushZero, 1: OpAdd, 2: OpSub, 3: OpMul, 4: OpDiv, 5: OpMod, 6: OpNeg,
	7: OpLt, 8: OpLe, 9: OpGt, 10: OpGe, 11: OpEq, 12: OpNe,
	13: OpAnd, 14: OpOr, 15: OpNot, 16: OpContains, 17: OpStarts,
	18: OpRet, 19: OpRetFactory,
}

// argOpcodes maps the low 6 bits of a raw opcode byte >= 0x40 to its
// OpCode, in the order spec §4.2 lists the argument-taking families.
var argOpcodes = [64]OpCode{
	0: OpPushInt, 1: OpPushFloat32, 2: OpPushSymbol, 3: OpPushConstant,
	4: OpPushList, 5: OpPushPropList, 6: OpPop,
	7: OpGetLocal, 8: OpSetLocal, 9: OpGetParam,
	10: OpGetGlobal, 11: OpSetGlobal, 12: OpGetGlobal2,
	13: OpGetProp, 14: OpSetProp, 15: OpGetObjProp, 16: OpSetObjProp,
	17: OpGetMovieProp, 18: OpGetTopLevelProp, 19: OpGetChainedProp,
	20: OpPushVarRef,
	21: OpLocalCall, 22: OpExtCall, 23: OpObjCall, 24: OpObjCallV4,
	25: OpTellCall, 26: OpNewObj, 27: OpTheBuiltin,
	28: OpJmp, 29: OpJmpIfZero, 30: OpEndRepeat,
	31: OpChunkPut, 32: OpChunkGet, 33: OpChunkSet, 34: OpSetChunkExp,
}

// ArgWidth identifies how many bytes a decoded instruction's argument
// occupied in the original bytecode stream.
type ArgWidth int

const (
	ArgWidthNone ArgWidth = 0
	ArgWidth1    ArgWidth = 1
	ArgWidth2    ArgWidth = 2
	ArgWidth4    ArgWidth = 4
)

// decodeRawOpcode splits a raw opcode byte into its logical OpCode and the
// number of argument bytes that follow it in the bytecode stream.
func decodeRawOpcode(raw byte) (OpCode, ArgWidth) {
	base := int(raw & 0x3f)
	if raw < 0x40 {
		return noArgOpcodes[base], ArgWidthNone
	}
	op := argOpcodes[base]
	switch raw & 0xc0 {
	case 0x40:
		return op, ArgWidth1
	case 0x80:
		return op, ArgWidth2
	default:
		return op, ArgWidth4
	}
}
