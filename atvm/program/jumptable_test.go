package program

import (
	"reflect"
	"testing"
)

func TestBuildJumpTable(t *testing.T) {
	code := page(mustHex(t, echoProgram))
	jt := BuildJumpTable(code)

	// 0 SET_VAL, 13 EXT_FUN_DAT, 20 FIN, 21 first zero byte where the scan stops
	want := []int32{0, 13, 20, 21}
	if got := jt.Offsets(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected offsets %v, got %v", want, got)
	}
	for _, pc := range []int32{1, 12, 14, 22, 511} {
		if jt.Contains(pc) {
			t.Errorf("offset %d must not be a jump target", pc)
		}
	}
}

func TestJumpTableNopRun(t *testing.T) {
	code := []byte{byte(NOP), byte(NOP), byte(RET_SUB), byte(NOP), byte(FIN_IMD)}
	jt := BuildJumpTable(code)
	want := []int32{0, 2, 3, 4}
	if got := jt.Offsets(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected offsets %v, got %v", want, got)
	}
	if jt.Contains(1) {
		t.Errorf("the inside of a NOP run is not an instruction start")
	}
}

func TestJumpTableTruncated(t *testing.T) {
	// FIN then a SET_DAT missing its last byte
	code := []byte{byte(FIN_IMD), byte(SET_DAT), 0, 0, 0, 0, 0, 0, 0}
	jt := BuildJumpTable(code)
	if jt.Len() != 2 || !jt.Contains(1) {
		t.Errorf("Expected {0,1}, got %v", jt.Offsets())
	}
}

func TestJumpTableMatchesListing(t *testing.T) {
	code := page(Assemble(
		Instruction{Op: SET_VAL, Addr1: 0, Value: 3},
		Instruction{Op: DEC_DAT, Addr1: 0},
		Instruction{Op: BNZ_DAT, Addr1: 0, Offset: -5},
		Instruction{Op: FIN_IMD},
	))
	jt := BuildJumpTable(code)
	lines := Disassemble(code, -1)
	// the listing stops at the zero byte; the table also holds that offset
	if jt.Len() != len(lines)+1 {
		t.Errorf("Expected %d offsets, got %d", len(lines)+1, jt.Len())
	}
}
