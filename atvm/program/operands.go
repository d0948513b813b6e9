package program

import (
	"encoding/binary"
	"fmt"

	"github.com/colorfulnotion/atvm/aterrors"
)

// MaxSlot is the highest slot index a program may name; addr*8 stays within int32.
const MaxSlot = 0x1FFFFFFF

// Instruction is one decoded instruction. Fields not used by the opcode's shape are zero.
type Instruction struct {
	Op     Opcode
	PC     int32
	Len    int
	Fun    Function
	Addr1  int32
	Addr2  int32
	Addr3  int32
	Value  int64
	Offset int8
}

// Target is the branch destination of the displacement forms.
func (i Instruction) Target() int32 {
	return i.PC + int32(i.Offset)
}

func (i Instruction) Next() int32 {
	return i.PC + int32(i.Len)
}

func (i Instruction) String() string {
	return fmt.Sprintf("PC=%d %s len=%d", i.PC, i.Op, i.Len)
}

// ValidSlot reports whether slot addr lies inside a data region of dataSize bytes.
func ValidSlot(addr int64, dataSize int) bool {
	return addr >= 0 && addr <= MaxSlot && addr*8+8 <= int64(dataSize)
}

// DecodeRaw reads the instruction at pc without checking its addresses.
// It fails with ErrVInvalidOp on an unknown opcode and ErrVOverflow when the
// instruction does not fit in the code.
func DecodeRaw(code []byte, pc int32) (Instruction, error) {
	inst := Instruction{PC: pc}
	if pc < 0 || int(pc) >= len(code) {
		return inst, aterrors.ErrVOverflow
	}
	inst.Op = Opcode(code[pc])
	if !inst.Op.IsValid() {
		return inst, aterrors.ErrVInvalidOp
	}
	if inst.Op == NOP {
		n := 1
		for int(pc)+n < len(code) && Opcode(code[int(pc)+n]) == NOP {
			n++
		}
		inst.Len = n
		return inst, nil
	}

	inst.Len = inst.Op.Len()
	if int(pc)+inst.Len > len(code) {
		return inst, aterrors.ErrVOverflow
	}
	args := code[int(pc)+1 : int(pc)+inst.Len]

	switch inst.Op.Shape() {
	case ShapeAddr, ShapeCodeAddr:
		inst.Addr1 = int32At(args, 0)
	case ShapeAddrPair:
		inst.Addr1 = int32At(args, 0)
		inst.Addr2 = int32At(args, 4)
	case ShapeAddrPairIndexed:
		inst.Addr1 = int32At(args, 0)
		inst.Addr2 = int32At(args, 4)
		inst.Addr3 = int32At(args, 8)
	case ShapeAddrImm:
		inst.Addr1 = int32At(args, 0)
		inst.Value = int64(binary.LittleEndian.Uint64(args[4:12]))
	case ShapeAddrOffset:
		inst.Addr1 = int32At(args, 0)
		inst.Offset = int8(args[4])
	case ShapeAddrPairOffset:
		inst.Addr1 = int32At(args, 0)
		inst.Addr2 = int32At(args, 4)
		inst.Offset = int8(args[8])
	case ShapeFun:
		inst.Fun = funAt(args)
	case ShapeFunAddr:
		inst.Fun = funAt(args)
		inst.Addr1 = int32At(args, 2)
	case ShapeFunAddrPair:
		inst.Fun = funAt(args)
		inst.Addr1 = int32At(args, 2)
		inst.Addr2 = int32At(args, 6)
	case ShapeFunAddrTriple:
		inst.Fun = funAt(args)
		inst.Addr1 = int32At(args, 2)
		inst.Addr2 = int32At(args, 6)
		inst.Addr3 = int32At(args, 10)
	}
	return inst, nil
}

// Decode reads the instruction at pc and checks every operand against the
// segment sizes: data addresses must name a slot of the data region, code
// addresses must fall inside the code and a displaced target must stay below
// the code end.
func Decode(code []byte, pc int32, dataSize int) (Instruction, error) {
	inst, err := DecodeRaw(code, pc)
	if err != nil {
		return inst, err
	}
	return inst, Validate(inst, len(code), dataSize)
}

func Validate(inst Instruction, codeSize, dataSize int) error {
	slots := func(addrs ...int32) error {
		for _, a := range addrs {
			if !ValidSlot(int64(a), dataSize) {
				return aterrors.ErrVOverflow
			}
		}
		return nil
	}

	switch inst.Op.Shape() {
	case ShapeAddr, ShapeAddrImm, ShapeFunAddr:
		return slots(inst.Addr1)
	case ShapeAddrPair, ShapeFunAddrPair:
		return slots(inst.Addr1, inst.Addr2)
	case ShapeAddrPairIndexed, ShapeFunAddrTriple:
		return slots(inst.Addr1, inst.Addr2, inst.Addr3)
	case ShapeCodeAddr:
		if inst.Addr1 < 0 || int(inst.Addr1) >= codeSize {
			return aterrors.ErrVOverflow
		}
	case ShapeAddrOffset:
		if err := slots(inst.Addr1); err != nil {
			return err
		}
		if int(inst.Target()) >= codeSize {
			return aterrors.ErrVOverflow
		}
	case ShapeAddrPairOffset:
		if err := slots(inst.Addr1, inst.Addr2); err != nil {
			return err
		}
		if int(inst.Target()) >= codeSize {
			return aterrors.ErrVOverflow
		}
	}
	return nil
}

func int32At(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off : off+4]))
}

func funAt(b []byte) Function {
	return Function(int16(binary.LittleEndian.Uint16(b[0:2])))
}

// Encode is the inverse of DecodeRaw. A NOP encodes as a single byte.
func Encode(inst Instruction) []byte {
	out := make([]byte, 1, 1+shapeOperandBytes[inst.Op.Shape()])
	out[0] = byte(inst.Op)
	addr := func(a int32) { out = binary.LittleEndian.AppendUint32(out, uint32(a)) }
	fun := func() { out = binary.LittleEndian.AppendUint16(out, uint16(inst.Fun)) }

	switch inst.Op.Shape() {
	case ShapeAddr, ShapeCodeAddr:
		addr(inst.Addr1)
	case ShapeAddrPair:
		addr(inst.Addr1)
		addr(inst.Addr2)
	case ShapeAddrPairIndexed:
		addr(inst.Addr1)
		addr(inst.Addr2)
		addr(inst.Addr3)
	case ShapeAddrImm:
		addr(inst.Addr1)
		out = binary.LittleEndian.AppendUint64(out, uint64(inst.Value))
	case ShapeAddrOffset:
		addr(inst.Addr1)
		out = append(out, byte(inst.Offset))
	case ShapeAddrPairOffset:
		addr(inst.Addr1)
		addr(inst.Addr2)
		out = append(out, byte(inst.Offset))
	case ShapeFun:
		fun()
	case ShapeFunAddr:
		fun()
		addr(inst.Addr1)
	case ShapeFunAddrPair:
		fun()
		addr(inst.Addr1)
		addr(inst.Addr2)
	case ShapeFunAddrTriple:
		fun()
		addr(inst.Addr1)
		addr(inst.Addr2)
		addr(inst.Addr3)
	}
	return out
}

// Assemble concatenates encoded instructions.
func Assemble(insts ...Instruction) []byte {
	var code []byte
	for _, inst := range insts {
		code = append(code, Encode(inst)...)
	}
	return code
}
