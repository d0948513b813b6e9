package atvm

import "github.com/colorfulnotion/atvm/atvm/program"

// handleExternal moves pc past the call before running the host function.
func (vm *VM) handleExternal(inst program.Instruction) {
	vm.PC = inst.Next()
	switch inst.Op {
	case program.EXT_FUN:
		vm.call0(inst.Fun)
	case program.EXT_FUN_DAT:
		vm.call1(inst.Fun, vm.slot(inst.Addr1))
	case program.EXT_FUN_DAT_2:
		vm.call2(inst.Fun, vm.slot(inst.Addr1), vm.slot(inst.Addr2))
	case program.EXT_FUN_RET:
		vm.setSlot(inst.Addr1, vm.call0(inst.Fun))
	case program.EXT_FUN_RET_DAT:
		vm.setSlot(inst.Addr1, vm.call1(inst.Fun, vm.slot(inst.Addr2)))
	case program.EXT_FUN_RET_DAT_2:
		vm.setSlot(inst.Addr1, vm.call2(inst.Fun, vm.slot(inst.Addr2), vm.slot(inst.Addr3)))
	}
}
