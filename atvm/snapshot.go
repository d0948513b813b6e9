package atvm

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/colorfulnotion/atvm/aterrors"
)

// MarshalBinary encodes the whole machine: session values, registers, every
// segment and the fixture table, all little-endian.
func (vm *VM) MarshalBinary() ([]byte, error) {
	m := vm.mem
	b := make([]byte, 0, 128+len(m.code)+len(m.data))
	le := binary.LittleEndian

	b = le.AppendUint64(b, uint64(vm.Val))
	b = le.AppendUint64(b, uint64(vm.Val1))
	b = le.AppendUint64(b, uint64(vm.Balance))
	b = append(b, boolByte(vm.Fixtures.FirstCall))
	b = le.AppendUint32(b, uint32(vm.Fixtures.Increment))

	for _, v := range []int32{vm.PC, vm.CS, vm.US, vm.PCE, vm.PCS, vm.Steps} {
		b = le.AppendUint32(b, uint32(v))
	}
	for _, v := range vm.A {
		b = le.AppendUint64(b, uint64(v))
	}
	for _, v := range vm.B {
		b = le.AppendUint64(b, uint64(v))
	}

	b = le.AppendUint32(b, uint32(m.pages.Code))
	b = append(b, m.code...)
	b = le.AppendUint32(b, uint32(m.pages.Data))
	b = le.AppendUint32(b, uint32(m.pages.Call))
	b = le.AppendUint32(b, uint32(m.pages.User))
	b = append(b, m.data...)

	entries := vm.Fixtures.Entries()
	b = le.AppendUint64(b, uint64(len(entries)))
	for _, e := range entries {
		b = le.AppendUint32(b, uint32(e.Function))
		b = append(b, boolByte(e.Loop))
		b = le.AppendUint64(b, e.Offset)
		b = le.AppendUint64(b, uint64(len(e.Data)))
		for _, v := range e.Data {
			b = le.AppendUint64(b, uint64(v))
		}
	}
	return b, nil
}

// UnmarshalBinary replaces the machine with a decoded snapshot. Nothing
// changes unless the whole snapshot decodes. The restored machine has a
// fresh jump table and clear stopped and finished flags.
func (vm *VM) UnmarshalBinary(b []byte) error {
	r := &snapReader{b: b}

	var sess Session
	sess.Val = r.i64()
	sess.Val1 = r.i64()
	sess.Balance = r.i64()
	fx := NewFixtures()
	fx.FirstCall = r.u8() != 0
	fx.Increment = r.i32()

	var st State
	st.PC, st.CS, st.US = r.i32(), r.i32(), r.i32()
	st.PCE, st.PCS, st.Steps = r.i32(), r.i32(), r.i32()
	for i := range st.A {
		st.A[i] = r.i64()
	}
	for i := range st.B {
		st.B[i] = r.i64()
	}

	var p Pages
	p.Code = r.pages()
	code := r.bytes(int(p.Code) * CodePageBytes)
	p.Data, p.Call, p.User = r.pages(), r.pages(), r.pages()
	data := r.bytes(int(p.Data)*DataPageBytes + int(p.Call)*CallStackPageBytes + int(p.User)*UserStackPageBytes)
	if r.err != nil {
		return r.err
	}
	mem := newMemory(p)
	copy(mem.code, code)
	copy(mem.data, data)

	count := r.u64()
	if r.err == nil && count > uint64(r.remaining()/21) {
		r.err = aterrors.ErrSTruncated
	}
	for i := uint64(0); i < count && r.err == nil; i++ {
		var e FixtureEntry
		e.Function = r.i32()
		e.Loop = r.u8() != 0
		e.Offset = r.u64()
		n := r.u64()
		if r.err != nil || n > uint64(r.remaining()/8) {
			r.err = aterrors.ErrSTruncated
			break
		}
		e.Data = make([]int64, n)
		for j := range e.Data {
			e.Data[j] = r.i64()
		}
		if r.err != nil {
			break
		}
		if err := fx.restore(e); err != nil {
			return err
		}
	}
	if r.err != nil {
		return r.err
	}
	if r.remaining() != 0 {
		return fmt.Errorf("%d bytes: %w", r.remaining(), aterrors.ErrSTrailingBytes)
	}
	if st.CS < 0 || st.CS > mem.callDepthMax() || st.US < 0 || st.US > mem.userDepthMax() {
		return fmt.Errorf("cs %d us %d: %w", st.CS, st.US, aterrors.ErrSBadStackDepth)
	}

	vm.State = st
	vm.Val, vm.Val1, vm.Balance = sess.Val, sess.Val1, sess.Balance
	*vm.Fixtures = *fx
	vm.mem = mem
	vm.RebuildJumpTable()
	return nil
}

// WriteSnapshot writes the encoded machine to w.
func (vm *VM) WriteSnapshot(w io.Writer) error {
	b, err := vm.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// ReadSnapshot restores the machine from everything r yields.
func (vm *VM) ReadSnapshot(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return vm.UnmarshalBinary(b)
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// snapReader reads fixed-width fields and remembers the first error.
type snapReader struct {
	b   []byte
	off int
	err error
}

func (r *snapReader) remaining() int {
	return len(r.b) - r.off
}

func (r *snapReader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > r.remaining() {
		r.err = aterrors.ErrSTruncated
		return nil
	}
	out := r.b[r.off : r.off+n]
	r.off += n
	return out
}

func (r *snapReader) u8() byte {
	if b := r.bytes(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *snapReader) i32() int32 {
	if b := r.bytes(4); b != nil {
		return int32(binary.LittleEndian.Uint32(b))
	}
	return 0
}

func (r *snapReader) u64() uint64 {
	if b := r.bytes(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (r *snapReader) i64() int64 {
	return int64(r.u64())
}

func (r *snapReader) pages() int32 {
	n := r.i32()
	if r.err == nil && (n <= 0 || n > MaxPages) {
		r.err = fmt.Errorf("%d pages: %w", n, aterrors.ErrSBadPageCount)
	}
	return n
}
