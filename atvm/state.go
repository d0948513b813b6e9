package atvm

import (
	"encoding/binary"

	"github.com/holiman/uint256"
)

// State is the register file of the machine.
type State struct {
	PC    int32 // program counter
	PCS   int32 // start address set by SET_PCS
	PCE   int32 // error handler, 0 = none
	CS    int32 // call stack depth
	US    int32 // user stack depth
	Steps int32

	A [4]int64
	B [4]int64

	Stopped  bool
	Finished bool

	opc        int32 // pc marked in listings
	sleepUntil int32 // reserved for block delays, never persisted
}

// reset clears everything except PCS and PCE and restarts at PCS.
func (s *State) reset() {
	*s = State{PC: s.PCS, PCS: s.PCS, PCE: s.PCE}
}

// The A and B groups are also handled as 256-bit words, a1 and b1 being the
// least significant limbs.

func group(g [4]int64) *uint256.Int {
	return &uint256.Int{uint64(g[0]), uint64(g[1]), uint64(g[2]), uint64(g[3])}
}

func ungroup(v *uint256.Int) [4]int64 {
	return [4]int64{int64(v[0]), int64(v[1]), int64(v[2]), int64(v[3])}
}

func (s *State) regA() *uint256.Int { return group(s.A) }
func (s *State) regB() *uint256.Int { return group(s.B) }

func (s *State) setA(v *uint256.Int) { s.A = ungroup(v) }
func (s *State) setB(v *uint256.Int) { s.B = ungroup(v) }

// groupBytes lays out a group as 32 little-endian bytes, a1 first.
func groupBytes(g [4]int64) []byte {
	b := make([]byte, 0, 32)
	for _, v := range g {
		b = binary.LittleEndian.AppendUint64(b, uint64(v))
	}
	return b
}

// bytesGroup is the inverse of groupBytes; short input is zero padded.
func bytesGroup(b []byte) [4]int64 {
	var buf [32]byte
	copy(buf[:], b)
	var g [4]int64
	for i := range g {
		g[i] = int64(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return g
}
