package program

import (
	"fmt"
	"strings"
)

// Format renders one instruction in listing syntax: @ marks a slot written,
// $ a slot read, # an immediate and : a code address.
func Format(inst Instruction) string {
	m := inst.Op.Mnemonic()
	switch inst.Op {
	case NOP, RET_SUB, FIN_IMD, STP_IMD, SLP_IMD, SET_PCS:
		return m
	case SET_VAL:
		return fmt.Sprintf("%s @%08x #%016x", m, uint32(inst.Addr1), uint64(inst.Value))
	case SET_IND:
		return fmt.Sprintf("%s @%08x $($%08x)", m, uint32(inst.Addr1), uint32(inst.Addr2))
	case SET_IDX:
		return fmt.Sprintf("%s @%08x $($%08x+$%08x)", m, uint32(inst.Addr1), uint32(inst.Addr2), uint32(inst.Addr3))
	case IND_DAT:
		return fmt.Sprintf("%s @($%08x) $%08x", m, uint32(inst.Addr1), uint32(inst.Addr2))
	case IDX_DAT:
		return fmt.Sprintf("%s @($%08x+$%08x) $%08x", m, uint32(inst.Addr1), uint32(inst.Addr2), uint32(inst.Addr3))
	case CLR_DAT, INC_DAT, DEC_DAT, NOT_DAT, POP_DAT, SLP_DAT:
		return fmt.Sprintf("%s @%08x", m, uint32(inst.Addr1))
	case PSH_DAT, FIZ_DAT, STZ_DAT:
		return fmt.Sprintf("%s $%08x", m, uint32(inst.Addr1))
	case JMP_SUB, JMP_ADR, ERR_ADR:
		return fmt.Sprintf("%s :%08x", m, uint32(inst.Addr1))
	case BZR_DAT, BNZ_DAT:
		return fmt.Sprintf("%s $%08x :%08x", m, uint32(inst.Addr1), uint32(inst.Target()))
	case BGT_DAT, BLT_DAT, BGE_DAT, BLE_DAT, BEQ_DAT, BNE_DAT:
		return fmt.Sprintf("%s $%08x $%08x :%08x", m, uint32(inst.Addr1), uint32(inst.Addr2), uint32(inst.Target()))
	case EXT_FUN:
		return fmt.Sprintf("%s %s", m, FunctionLabel(inst.Fun, inst.Op))
	case EXT_FUN_DAT:
		return fmt.Sprintf("%s %s $%08x", m, FunctionLabel(inst.Fun, inst.Op), uint32(inst.Addr1))
	case EXT_FUN_DAT_2:
		return fmt.Sprintf("%s %s $%08x $%08x", m, FunctionLabel(inst.Fun, inst.Op), uint32(inst.Addr1), uint32(inst.Addr2))
	case EXT_FUN_RET:
		return fmt.Sprintf("%s @%08x %s", m, uint32(inst.Addr1), FunctionLabel(inst.Fun, inst.Op))
	case EXT_FUN_RET_DAT:
		return fmt.Sprintf("%s @%08x %s $%08x", m, uint32(inst.Addr1), FunctionLabel(inst.Fun, inst.Op), uint32(inst.Addr2))
	case EXT_FUN_RET_DAT_2:
		return fmt.Sprintf("%s @%08x %s $%08x $%08x", m, uint32(inst.Addr1), FunctionLabel(inst.Fun, inst.Op), uint32(inst.Addr2), uint32(inst.Addr3))
	}
	// two-slot arithmetic and bitwise forms
	return fmt.Sprintf("%s @%08x $%08x", m, uint32(inst.Addr1), uint32(inst.Addr2))
}

// Disassemble lists code from offset 0 until the first unknown opcode or
// truncated instruction. The line for offset current carries a '*' marker.
func Disassemble(code []byte, current int32) []string {
	var lines []string
	pc := int32(0)
	for int(pc) < len(code) {
		inst, err := DecodeRaw(code, pc)
		if err != nil {
			break
		}
		mark := "  "
		if pc == current {
			mark = "* "
		}
		lines = append(lines, fmt.Sprintf("%08x%s%s", uint32(pc), mark, Format(inst)))
		pc = inst.Next()
	}
	return lines
}

// DisassembleString joins the listing with newlines.
func DisassembleString(code []byte, current int32) string {
	lines := Disassemble(code, current)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
