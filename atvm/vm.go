package atvm

import (
	"fmt"
	"io"
	"os"

	"github.com/colorfulnotion/atvm/aterrors"
	"github.com/colorfulnotion/atvm/atvm/program"
	"github.com/colorfulnotion/atvm/log"
)

// Session is the interpreter state that lives outside the machine registers.
type Session struct {
	Val      int64 // scratch value
	Val1     int64 // second scratch value
	Balance  int64 // fuel, one unit per step
	Fixtures *Fixtures
}

// VM is one AT machine with its segments. It is not safe for concurrent use.
type VM struct {
	State
	Session

	mem   *memory
	jumps *program.JumpTable // nil when stale
	env   HostEnv

	// Out receives program output: echoes and payouts.
	Out io.Writer
}

// NewVM allocates zeroed segments and builds the jump table for them.
func NewVM(pages Pages, balance int64) (*VM, error) {
	if err := pages.Validate(); err != nil {
		return nil, err
	}
	vm := &VM{
		Session: Session{Balance: balance, Fixtures: NewFixtures()},
		mem:     newMemory(pages),
		Out:     os.Stdout,
	}
	vm.env = FixtureEnv{Fixtures: vm.Fixtures}
	vm.RebuildJumpTable()
	return vm, nil
}

// SetHostEnv replaces the environment used for chain queries. nil restores
// the fixture table.
func (vm *VM) SetHostEnv(env HostEnv) {
	if env == nil {
		env = FixtureEnv{Fixtures: vm.Fixtures}
	}
	vm.env = env
}

func (vm *VM) Pages() Pages   { return vm.mem.pages }
func (vm *VM) CodeSize() int  { return vm.mem.codeSize() }
func (vm *VM) DataSize() int  { return vm.mem.dataSize() }
func (vm *VM) CallSize() int  { return vm.mem.callSize() }
func (vm *VM) UserSize() int  { return vm.mem.userSize() }
func (vm *VM) Code() []byte   { return append([]byte(nil), vm.mem.code...) }
func (vm *VM) Data() []byte   { return append([]byte(nil), vm.mem.data[:vm.mem.dataSize()]...) }
func (vm *VM) Stacks() []byte { return append([]byte(nil), vm.mem.stacks()...) }

// Slot reads a data slot.
func (vm *VM) Slot(addr int64) (int64, error) {
	v, ok := vm.mem.load(addr)
	if !ok {
		return 0, fmt.Errorf("slot %d: %w", addr, aterrors.ErrVOverflow)
	}
	return v, nil
}

func (vm *VM) SetSlot(addr int64, v int64) error {
	if !vm.mem.store(addr, v) {
		return fmt.Errorf("slot %d: %w", addr, aterrors.ErrVOverflow)
	}
	return nil
}

// LoadCode copies b into the code segment at offset, zeroing the segment
// first when clearFirst is set. New code drops SET_PCS and ERR_ADR addresses
// and leaves the jump table stale.
func (vm *VM) LoadCode(b []byte, offset int32, clearFirst bool) error {
	if offset < 0 || int(offset)+len(b) > vm.mem.codeSize() {
		return fmt.Errorf("%d bytes at %d: %w", len(b), offset, aterrors.ErrVCodeTooLarge)
	}
	if clearFirst {
		clear(vm.mem.code)
	}
	copy(vm.mem.code[offset:], b)
	vm.PCS, vm.PCE = 0, 0
	vm.jumps = nil
	log.Debug(log.VMMonitoring, "code loaded", "bytes", len(b), "offset", offset)
	return nil
}

// LoadData copies b into the data slots at byte offset, zeroing the slots
// first when clearFirst is set.
func (vm *VM) LoadData(b []byte, offset int32, clearFirst bool) error {
	if offset < 0 || int(offset)+len(b) > vm.mem.dataSize() {
		return fmt.Errorf("%d bytes at %d: %w", len(b), offset, aterrors.ErrVDataTooLarge)
	}
	if clearFirst {
		clear(vm.mem.data[:vm.mem.dataSize()])
	}
	copy(vm.mem.data[offset:], b)
	return nil
}

// Resize reallocates a segment with zeroed contents and leaves the jump table
// stale. Resizing any part of the data buffer empties both stacks.
func (vm *VM) Resize(seg Segment, pages int32) error {
	if err := vm.mem.resize(seg, pages); err != nil {
		return err
	}
	if seg == SegmentCode {
		vm.PCS, vm.PCE = 0, 0
	} else {
		vm.CS, vm.US = 0, 0
	}
	vm.jumps = nil
	return nil
}

// RebuildJumpTable rescans the code segment. It must run after every code or
// size change before the machine steps again.
func (vm *VM) RebuildJumpTable() {
	vm.jumps = program.BuildJumpTable(vm.mem.code)
	log.Debug(log.VMMonitoring, "jump table built", "targets", vm.jumps.Len())
}

// JumpTable returns the current table, or nil when it is stale.
func (vm *VM) JumpTable() *program.JumpTable {
	return vm.jumps
}

// Reset restarts the machine at PCS with zeroed registers, stacks and data,
// a fresh jump table and rewound fixtures.
func (vm *VM) Reset() {
	vm.State.reset()
	vm.RebuildJumpTable()
	vm.mem.clearData()
	vm.Fixtures.Rewind()
}

// Stats counts the instructions of the code segment up to the first unknown opcode.
func (vm *VM) Stats() *program.ProgramStats {
	return program.Analyze(vm.mem.code)
}

// Listing disassembles the code segment, marking the current pc.
func (vm *VM) Listing() []string {
	vm.opc = vm.PC
	return program.Disassemble(vm.mem.code, vm.opc)
}
