package program

import "fmt"

type Opcode byte

// AT instruction set
const (
	SET_VAL           Opcode = 0x01
	SET_DAT           Opcode = 0x02
	CLR_DAT           Opcode = 0x03
	INC_DAT           Opcode = 0x04
	DEC_DAT           Opcode = 0x05
	ADD_DAT           Opcode = 0x06
	SUB_DAT           Opcode = 0x07
	MUL_DAT           Opcode = 0x08
	DIV_DAT           Opcode = 0x09
	BOR_DAT           Opcode = 0x0a
	AND_DAT           Opcode = 0x0b
	XOR_DAT           Opcode = 0x0c
	NOT_DAT           Opcode = 0x0d
	SET_IND           Opcode = 0x0e
	SET_IDX           Opcode = 0x0f
	PSH_DAT           Opcode = 0x10
	POP_DAT           Opcode = 0x11
	JMP_SUB           Opcode = 0x12
	RET_SUB           Opcode = 0x13
	IND_DAT           Opcode = 0x14
	IDX_DAT           Opcode = 0x15
	MOD_DAT           Opcode = 0x16
	SHL_DAT           Opcode = 0x17
	SHR_DAT           Opcode = 0x18
	JMP_ADR           Opcode = 0x1a
	BZR_DAT           Opcode = 0x1b
	BNZ_DAT           Opcode = 0x1e
	BGT_DAT           Opcode = 0x1f
	BLT_DAT           Opcode = 0x20
	BGE_DAT           Opcode = 0x21
	BLE_DAT           Opcode = 0x22
	BEQ_DAT           Opcode = 0x23
	BNE_DAT           Opcode = 0x24
	SLP_DAT           Opcode = 0x25
	FIZ_DAT           Opcode = 0x26
	STZ_DAT           Opcode = 0x27
	FIN_IMD           Opcode = 0x28
	STP_IMD           Opcode = 0x29
	SLP_IMD           Opcode = 0x2a
	ERR_ADR           Opcode = 0x2b
	SET_PCS           Opcode = 0x30
	EXT_FUN           Opcode = 0x32
	EXT_FUN_DAT       Opcode = 0x33
	EXT_FUN_DAT_2     Opcode = 0x34
	EXT_FUN_RET       Opcode = 0x35
	EXT_FUN_RET_DAT   Opcode = 0x36
	EXT_FUN_RET_DAT_2 Opcode = 0x37
	NOP               Opcode = 0x7f
)

// Shape is the operand layout that follows an opcode byte.
type Shape uint8

const (
	ShapeNone            Shape = iota // no operands
	ShapeNopRun                       // run of NOP bytes
	ShapeAddr                         // data address
	ShapeCodeAddr                     // absolute code address
	ShapeAddrPair                     // two data addresses
	ShapeAddrPairIndexed              // three data addresses
	ShapeAddrImm                      // data address, 64-bit immediate
	ShapeAddrOffset                   // data address, 8-bit displacement
	ShapeAddrPairOffset               // two data addresses, 8-bit displacement
	ShapeFun                          // function number
	ShapeFunAddr                      // function number, data address
	ShapeFunAddrPair                  // function number, two data addresses
	ShapeFunAddrTriple                // function number, three data addresses
)

// operand bytes per shape
var shapeOperandBytes = [...]int{
	ShapeNone:            0,
	ShapeNopRun:          0,
	ShapeAddr:            4,
	ShapeCodeAddr:        4,
	ShapeAddrPair:        8,
	ShapeAddrPairIndexed: 12,
	ShapeAddrImm:         12,
	ShapeAddrOffset:      5,
	ShapeAddrPairOffset:  9,
	ShapeFun:             2,
	ShapeFunAddr:         6,
	ShapeFunAddrPair:     10,
	ShapeFunAddrTriple:   14,
}

type opcodeInfo struct {
	name     string
	mnemonic string
	shape    Shape
}

var opcodeTable = map[Opcode]opcodeInfo{
	NOP:               {"NOP", "NOP", ShapeNopRun},
	SET_VAL:           {"SET_VAL", "SET", ShapeAddrImm},
	SET_DAT:           {"SET_DAT", "SET", ShapeAddrPair},
	CLR_DAT:           {"CLR_DAT", "CLR", ShapeAddr},
	INC_DAT:           {"INC_DAT", "INC", ShapeAddr},
	DEC_DAT:           {"DEC_DAT", "DEC", ShapeAddr},
	ADD_DAT:           {"ADD_DAT", "ADD", ShapeAddrPair},
	SUB_DAT:           {"SUB_DAT", "SUB", ShapeAddrPair},
	MUL_DAT:           {"MUL_DAT", "MUL", ShapeAddrPair},
	DIV_DAT:           {"DIV_DAT", "DIV", ShapeAddrPair},
	BOR_DAT:           {"BOR_DAT", "BOR", ShapeAddrPair},
	AND_DAT:           {"AND_DAT", "AND", ShapeAddrPair},
	XOR_DAT:           {"XOR_DAT", "XOR", ShapeAddrPair},
	NOT_DAT:           {"NOT_DAT", "NOT", ShapeAddr},
	SET_IND:           {"SET_IND", "SET", ShapeAddrPair},
	SET_IDX:           {"SET_IDX", "SET", ShapeAddrPairIndexed},
	PSH_DAT:           {"PSH_DAT", "PSH", ShapeAddr},
	POP_DAT:           {"POP_DAT", "POP", ShapeAddr},
	JMP_SUB:           {"JMP_SUB", "JSR", ShapeCodeAddr},
	RET_SUB:           {"RET_SUB", "RET", ShapeNone},
	IND_DAT:           {"IND_DAT", "SET", ShapeAddrPair},
	IDX_DAT:           {"IDX_DAT", "SET", ShapeAddrPairIndexed},
	MOD_DAT:           {"MOD_DAT", "MOD", ShapeAddrPair},
	SHL_DAT:           {"SHL_DAT", "SHL", ShapeAddrPair},
	SHR_DAT:           {"SHR_DAT", "SHR", ShapeAddrPair},
	JMP_ADR:           {"JMP_ADR", "JMP", ShapeCodeAddr},
	BZR_DAT:           {"BZR_DAT", "BZR", ShapeAddrOffset},
	BNZ_DAT:           {"BNZ_DAT", "BNZ", ShapeAddrOffset},
	BGT_DAT:           {"BGT_DAT", "BGT", ShapeAddrPairOffset},
	BLT_DAT:           {"BLT_DAT", "BLT", ShapeAddrPairOffset},
	BGE_DAT:           {"BGE_DAT", "BGE", ShapeAddrPairOffset},
	BLE_DAT:           {"BLE_DAT", "BLE", ShapeAddrPairOffset},
	BEQ_DAT:           {"BEQ_DAT", "BEQ", ShapeAddrPairOffset},
	BNE_DAT:           {"BNE_DAT", "BNE", ShapeAddrPairOffset},
	SLP_DAT:           {"SLP_DAT", "SLP", ShapeCodeAddr},
	FIZ_DAT:           {"FIZ_DAT", "FIZ", ShapeAddr},
	STZ_DAT:           {"STZ_DAT", "STZ", ShapeAddr},
	FIN_IMD:           {"FIN_IMD", "FIN", ShapeNone},
	STP_IMD:           {"STP_IMD", "STP", ShapeNone},
	SLP_IMD:           {"SLP_IMD", "SLP", ShapeNone},
	ERR_ADR:           {"ERR_ADR", "ERR", ShapeCodeAddr},
	SET_PCS:           {"SET_PCS", "PCS", ShapeNone},
	EXT_FUN:           {"EXT_FUN", "FUN", ShapeFun},
	EXT_FUN_DAT:       {"EXT_FUN_DAT", "FUN", ShapeFunAddr},
	EXT_FUN_DAT_2:     {"EXT_FUN_DAT_2", "FUN", ShapeFunAddrPair},
	EXT_FUN_RET:       {"EXT_FUN_RET", "FUN", ShapeFunAddr},
	EXT_FUN_RET_DAT:   {"EXT_FUN_RET_DAT", "FUN", ShapeFunAddrPair},
	EXT_FUN_RET_DAT_2: {"EXT_FUN_RET_DAT_2", "FUN", ShapeFunAddrTriple},
}

// IsValid reports whether op belongs to the instruction set.
func (op Opcode) IsValid() bool {
	_, ok := opcodeTable[op]
	return ok
}

func (op Opcode) String() string {
	if info, ok := opcodeTable[op]; ok {
		return info.name
	}
	return fmt.Sprintf("OPCODE 0x%02x", byte(op))
}

// Mnemonic is the short assembler name used in listings.
func (op Opcode) Mnemonic() string {
	return opcodeTable[op].mnemonic
}

func (op Opcode) Shape() Shape {
	return opcodeTable[op].shape
}

// Len is the static instruction length: the opcode byte plus its operands.
// A NOP run is one byte here; its real length depends on the code that follows.
func (op Opcode) Len() int {
	info, ok := opcodeTable[op]
	if !ok {
		return 0
	}
	return 1 + shapeOperandBytes[info.shape]
}

// IsBranch reports whether op transfers control through the jump table.
func (op Opcode) IsBranch() bool {
	switch op.Shape() {
	case ShapeCodeAddr, ShapeAddrOffset, ShapeAddrPairOffset:
		return op != ERR_ADR && op != SLP_DAT
	}
	return op == RET_SUB
}

// Opcodes returns the instruction set in ascending byte order.
func Opcodes() []Opcode {
	ops := make([]Opcode, 0, len(opcodeTable))
	for b := 0; b < 256; b++ {
		if Opcode(b).IsValid() {
			ops = append(ops, Opcode(b))
		}
	}
	return ops
}

// IsHostCall reports whether op invokes a host function.
func (op Opcode) IsHostCall() bool {
	return op >= EXT_FUN && op <= EXT_FUN_RET_DAT_2
}
