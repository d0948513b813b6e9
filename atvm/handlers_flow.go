package atvm

import "github.com/colorfulnotion/atvm/atvm/program"

func (vm *VM) handleUserStack(inst program.Instruction) Fault {
	if inst.Op == program.PSH_DAT {
		if vm.US >= vm.mem.userDepthMax() {
			return FaultOverflow
		}
		vm.US++
		vm.mem.writeUser(vm.US, vm.slot(inst.Addr1))
	} else {
		if vm.US <= 0 {
			return FaultOverflow
		}
		vm.setSlot(inst.Addr1, vm.mem.readUser(vm.US))
		vm.US--
	}
	vm.PC = inst.Next()
	return faultNone
}

// JMP_SUB pushes the return address and jumps.
func (vm *VM) handleJMP_SUB(inst program.Instruction) Fault {
	if vm.CS >= vm.mem.callDepthMax() {
		return FaultOverflow
	}
	if !vm.jumps.Contains(inst.Addr1) {
		return FaultInvalidOp
	}
	vm.CS++
	vm.mem.writeCall(vm.CS, int64(inst.Next()))
	vm.PC = inst.Addr1
	return faultNone
}

// RET_SUB checks the popped address before the pop takes effect.
func (vm *VM) handleRET_SUB(inst program.Instruction) Fault {
	if vm.CS <= 0 {
		return FaultOverflow
	}
	target := int32(vm.mem.readCall(vm.CS))
	if !vm.jumps.Contains(target) {
		return FaultInvalidOp
	}
	vm.CS--
	vm.PC = target
	return faultNone
}

func (vm *VM) handleBranch(inst program.Instruction) Fault {
	x := vm.slot(inst.Addr1)
	var y int64
	if inst.Op.Shape() == program.ShapeAddrPairOffset {
		y = vm.slot(inst.Addr2)
	}

	var taken bool
	switch inst.Op {
	case program.BZR_DAT:
		taken = x == 0
	case program.BNZ_DAT:
		taken = x != 0
	case program.BGT_DAT:
		taken = x > y
	case program.BLT_DAT:
		taken = x < y
	case program.BGE_DAT:
		taken = x >= y
	case program.BLE_DAT:
		taken = x <= y
	case program.BEQ_DAT:
		taken = x == y
	case program.BNE_DAT:
		taken = x != y
	}
	if !taken {
		vm.PC = inst.Next()
		return faultNone
	}
	return vm.jump(inst.Target())
}

// handleHalt covers the finish and stop forms. Finishing returns pc to the
// start address; stopping leaves it after the instruction.
func (vm *VM) handleHalt(inst program.Instruction) {
	switch inst.Op {
	case program.FIZ_DAT, program.STZ_DAT:
		if vm.slot(inst.Addr1) != 0 {
			vm.PC = inst.Next()
			return
		}
	}
	switch inst.Op {
	case program.FIZ_DAT, program.FIN_IMD:
		vm.PC = vm.PCS
		vm.Finished = true
	default:
		vm.PC = inst.Next()
		vm.Stopped = true
	}
}

func (vm *VM) handleERR_ADR(inst program.Instruction) Fault {
	if !vm.jumps.Contains(inst.Addr1) {
		return FaultInvalidErrorHandler
	}
	vm.PCE = inst.Addr1
	vm.PC = inst.Next()
	return faultNone
}
