package program

import "sort"

// JumpTable is the set of offsets that start an instruction. Every control
// transfer must land on a member.
type JumpTable struct {
	offsets map[int32]struct{}
}

// BuildJumpTable scans code from offset 0, stepping by each instruction's
// length. The scan records the offset it stops at, then halts on an unknown
// opcode or an instruction cut off by the code end. Operand values are not
// checked.
func BuildJumpTable(code []byte) *JumpTable {
	jt := &JumpTable{offsets: make(map[int32]struct{})}
	pc := int32(0)
	for int(pc) < len(code) {
		jt.offsets[pc] = struct{}{}
		inst, err := DecodeRaw(code, pc)
		if err != nil {
			break
		}
		pc = inst.Next()
	}
	return jt
}

func (jt *JumpTable) Contains(pc int32) bool {
	_, ok := jt.offsets[pc]
	return ok
}

func (jt *JumpTable) Len() int {
	return len(jt.offsets)
}

// Offsets returns the members in ascending order.
func (jt *JumpTable) Offsets() []int32 {
	out := make([]int32, 0, len(jt.offsets))
	for pc := range jt.offsets {
		out = append(out, pc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
