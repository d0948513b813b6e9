package atvm

import "github.com/colorfulnotion/atvm/atvm/program"

// Single slot writes

func (vm *VM) handleSet(inst program.Instruction) {
	a := inst.Addr1
	switch inst.Op {
	case program.SET_VAL:
		vm.setSlot(a, inst.Value)
	case program.SET_DAT:
		vm.setSlot(a, vm.slot(inst.Addr2))
	case program.CLR_DAT:
		vm.setSlot(a, 0)
	case program.INC_DAT:
		vm.setSlot(a, vm.slot(a)+1)
	case program.DEC_DAT:
		vm.setSlot(a, vm.slot(a)-1)
	case program.NOT_DAT:
		vm.setSlot(a, ^vm.slot(a))
	}
	vm.PC = inst.Next()
}

// Two slot arithmetic, @a op= $b

func (vm *VM) handleArith(inst program.Instruction) Fault {
	x, y := vm.slot(inst.Addr1), vm.slot(inst.Addr2)
	switch inst.Op {
	case program.ADD_DAT:
		x += y
	case program.SUB_DAT:
		x -= y
	case program.MUL_DAT:
		x *= y
	case program.DIV_DAT:
		if y == 0 {
			return FaultInvalidOp
		}
		x /= y
	case program.MOD_DAT:
		if y == 0 {
			return FaultInvalidOp
		}
		x %= y
	case program.BOR_DAT:
		x |= y
	case program.AND_DAT:
		x &= y
	case program.XOR_DAT:
		x ^= y
	case program.SHL_DAT:
		x <<= uint64(y) & 63
	case program.SHR_DAT:
		x >>= uint64(y) & 63
	}
	vm.setSlot(inst.Addr1, x)
	vm.PC = inst.Next()
	return faultNone
}

// Indirection. The computed slot is checked like a decoded one.

func (vm *VM) handleIndirect(inst program.Instruction) Fault {
	var addr int64
	switch inst.Op {
	case program.SET_IND:
		addr = vm.slot(inst.Addr2)
	case program.SET_IDX:
		addr = vm.slot(inst.Addr2) + vm.slot(inst.Addr3)
	case program.IND_DAT:
		addr = vm.slot(inst.Addr1)
	case program.IDX_DAT:
		addr = vm.slot(inst.Addr1) + vm.slot(inst.Addr2)
	}
	if !vm.mem.validSlot(addr) {
		return FaultOverflow
	}

	switch inst.Op {
	case program.SET_IND, program.SET_IDX:
		v, _ := vm.mem.load(addr)
		vm.setSlot(inst.Addr1, v)
	case program.IND_DAT:
		vm.mem.store(addr, vm.slot(inst.Addr2))
	case program.IDX_DAT:
		vm.mem.store(addr, vm.slot(inst.Addr3))
	}
	vm.PC = inst.Next()
	return faultNone
}
