package atvm

import (
	"github.com/colorfulnotion/atvm/aterrors"
	"github.com/colorfulnotion/atvm/atvm/program"
	"github.com/colorfulnotion/atvm/log"
)

const faultNone Fault = 0

// Step executes the instruction at pc. It returns the number of code bytes
// the instruction occupies, 0 when an overflow was handed to the error
// handler, or the Fault that stopped it. A faulting step leaves data and
// stacks untouched.
func (vm *VM) Step() (int, error) {
	if vm.jumps == nil {
		return 0, aterrors.ErrVStaleJumpTable
	}
	n, f := vm.execute()
	if f == FaultOverflow && vm.PCE != 0 {
		log.Trace(log.VMMonitoring, "overflow handled", "pc", vm.PC, "pce", vm.PCE)
		vm.PC = vm.PCE
		n, f = 0, faultNone
	}
	if f != faultNone {
		return 0, f
	}
	vm.Steps++
	return n, nil
}

func (vm *VM) execute() (int, Fault) {
	inst, err := program.Decode(vm.mem.code, vm.PC, vm.mem.dataSize())
	if err != nil {
		return 0, faultOf(err)
	}
	log.Trace(log.VMMonitoring, "step", "pc", vm.PC, "op", inst.Op.Mnemonic())

	var f Fault
	switch inst.Op {
	case program.NOP, program.SLP_DAT, program.SLP_IMD:
		vm.PC = inst.Next()
	case program.SET_VAL, program.SET_DAT, program.CLR_DAT,
		program.INC_DAT, program.DEC_DAT, program.NOT_DAT:
		vm.handleSet(inst)
	case program.ADD_DAT, program.SUB_DAT, program.MUL_DAT, program.DIV_DAT, program.MOD_DAT,
		program.BOR_DAT, program.AND_DAT, program.XOR_DAT, program.SHL_DAT, program.SHR_DAT:
		f = vm.handleArith(inst)
	case program.SET_IND, program.SET_IDX, program.IND_DAT, program.IDX_DAT:
		f = vm.handleIndirect(inst)
	case program.PSH_DAT, program.POP_DAT:
		f = vm.handleUserStack(inst)
	case program.JMP_SUB:
		f = vm.handleJMP_SUB(inst)
	case program.RET_SUB:
		f = vm.handleRET_SUB(inst)
	case program.JMP_ADR:
		f = vm.jump(inst.Addr1)
	case program.BZR_DAT, program.BNZ_DAT, program.BGT_DAT, program.BLT_DAT,
		program.BGE_DAT, program.BLE_DAT, program.BEQ_DAT, program.BNE_DAT:
		f = vm.handleBranch(inst)
	case program.FIZ_DAT, program.STZ_DAT, program.FIN_IMD, program.STP_IMD:
		vm.handleHalt(inst)
	case program.ERR_ADR:
		f = vm.handleERR_ADR(inst)
	case program.SET_PCS:
		vm.PC = inst.Next()
		vm.PCS = vm.PC
	case program.EXT_FUN, program.EXT_FUN_DAT, program.EXT_FUN_DAT_2,
		program.EXT_FUN_RET, program.EXT_FUN_RET_DAT, program.EXT_FUN_RET_DAT_2:
		vm.handleExternal(inst)
	default:
		f = FaultInvalidOp
	}
	if f != faultNone {
		return 0, f
	}
	return inst.Len, faultNone
}

// slot and setSlot access addresses the decoder has already validated.
func (vm *VM) slot(addr int32) int64 {
	v, _ := vm.mem.load(int64(addr))
	return v
}

func (vm *VM) setSlot(addr int32, v int64) {
	vm.mem.store(int64(addr), v)
}

// jump moves pc to a jump table entry.
func (vm *VM) jump(target int32) Fault {
	if !vm.jumps.Contains(target) {
		return FaultInvalidOp
	}
	vm.PC = target
	return faultNone
}
