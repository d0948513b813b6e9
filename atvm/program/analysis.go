package program

import (
	"fmt"
	"io"
	"sort"
)

// ProgramStats summarises the reachable part of a code segment.
type ProgramStats struct {
	InstructionCount   int              // instructions decoded by the scan
	BranchCount        int              // instructions that transfer control
	HostCallCount      int              // EXT_FUN* instructions
	CodeBytes          int              // bytes covered by the scan
	OpcodeDistribution map[Opcode]int   // occurrences per opcode
	Functions          map[Function]int // host calls per function number
}

// Analyze walks code the same way BuildJumpTable does and counts what it finds.
func Analyze(code []byte) *ProgramStats {
	stats := &ProgramStats{
		OpcodeDistribution: make(map[Opcode]int),
		Functions:          make(map[Function]int),
	}
	pc := int32(0)
	for int(pc) < len(code) {
		inst, err := DecodeRaw(code, pc)
		if err != nil {
			break
		}
		stats.InstructionCount++
		stats.CodeBytes += inst.Len
		stats.OpcodeDistribution[inst.Op]++
		if inst.Op.IsBranch() {
			stats.BranchCount++
		}
		if inst.Op.IsHostCall() {
			stats.HostCallCount++
			stats.Functions[inst.Fun]++
		}
		pc = inst.Next()
	}
	return stats
}

// WriteStats prints the counts, then one line per called function in
// ascending number order.
func WriteStats(w io.Writer, s *ProgramStats) {
	fmt.Fprintf(w, "instructions: %d\n", s.InstructionCount)
	fmt.Fprintf(w, "bytes: %d\n", s.CodeBytes)
	fmt.Fprintf(w, "branches: %d\n", s.BranchCount)
	fmt.Fprintf(w, "host calls: %d\n", s.HostCallCount)

	fns := make([]Function, 0, len(s.Functions))
	for f := range s.Functions {
		fns = append(fns, f)
	}
	sort.Slice(fns, func(i, j int) bool { return fns[i] < fns[j] })
	for _, f := range fns {
		fmt.Fprintf(w, "  %s: %d\n", FunctionLabel(f, 0), s.Functions[f])
	}
}
