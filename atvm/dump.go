package atvm

import (
	"fmt"
	"io"
	"strings"
)

// DumpState writes the registers, one per line.
func (vm *VM) DumpState(w io.Writer) {
	fmt.Fprintf(w, "pc: %08x\n", uint32(vm.PC))
	fmt.Fprintf(w, "cs: %d\n", vm.CS)
	fmt.Fprintf(w, "us: %d\n", vm.US)
	fmt.Fprintf(w, "pce: %08x\n", uint32(vm.PCE))
	fmt.Fprintf(w, "pcs: %08x\n", uint32(vm.PCS))
	fmt.Fprintf(w, "steps: %d\n", vm.Steps)
	for i, v := range vm.A {
		fmt.Fprintf(w, "a%d: %016x\n", i+1, uint64(v))
	}
	for i, v := range vm.B {
		fmt.Fprintf(w, "b%d: %016x\n", i+1, uint64(v))
	}
}

func (vm *VM) DumpCode(w io.Writer)   { DumpBytes(w, vm.mem.code) }
func (vm *VM) DumpData(w io.Writer)   { DumpBytes(w, vm.mem.data[:vm.mem.dataSize()]) }
func (vm *VM) DumpStacks(w io.Writer) { DumpBytes(w, vm.mem.stacks()) }

// DumpBytes writes b as rows of 16 hex bytes, each row prefixed with its offset.
// A short final row is not padded.
func DumpBytes(w io.Writer, b []byte) {
	var sb strings.Builder
	for i := 0; i < len(b); i += 16 {
		sb.Reset()
		fmt.Fprintf(&sb, "%08x ", i)
		for _, c := range b[i:min(i+16, len(b))] {
			fmt.Fprintf(&sb, " %02x", c)
		}
		sb.WriteByte('\n')
		io.WriteString(w, sb.String())
	}
}
