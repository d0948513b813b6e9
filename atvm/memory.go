package atvm

import (
	"encoding/binary"
	"fmt"

	"github.com/colorfulnotion/atvm/aterrors"
	"github.com/colorfulnotion/atvm/atvm/program"
)

const (
	CodePageBytes      = 512
	DataPageBytes      = 512
	CallStackPageBytes = 256
	UserStackPageBytes = 256

	// MaxPages bounds every segment so byte offsets stay well inside int32.
	MaxPages = 1 << 16
)

// Pages holds the page count of each segment.
type Pages struct {
	Code int32
	Data int32
	Call int32
	User int32
}

func (p Pages) Validate() error {
	for _, n := range []int32{p.Code, p.Data, p.Call, p.User} {
		if n <= 0 || n > MaxPages {
			return fmt.Errorf("%d pages: %w", n, aterrors.ErrVBadPageCount)
		}
	}
	return nil
}

// Segment names one resizable segment.
type Segment int

const (
	SegmentCode Segment = iota
	SegmentData
	SegmentCall
	SegmentUser
)

var segmentNames = [...]string{"code", "data", "call", "user"}

func (s Segment) String() string {
	if s < 0 || int(s) >= len(segmentNames) {
		return fmt.Sprintf("segment(%d)", int(s))
	}
	return segmentNames[s]
}

// ParseSegment maps a console name to a Segment.
func ParseSegment(name string) (Segment, bool) {
	for i, n := range segmentNames {
		if n == name {
			return Segment(i), true
		}
	}
	return 0, false
}

// memory owns the code bytes and the data buffer. The data buffer holds, in
// address order, the data slots, the call stack and the user stack. Both
// stacks grow down from the end of their region.
type memory struct {
	pages Pages
	code  []byte
	data  []byte
}

func newMemory(p Pages) *memory {
	m := &memory{pages: p}
	m.code = make([]byte, m.codeSize())
	m.data = make([]byte, m.dataSize()+m.callSize()+m.userSize())
	return m
}

func (m *memory) codeSize() int { return int(m.pages.Code) * CodePageBytes }
func (m *memory) dataSize() int { return int(m.pages.Data) * DataPageBytes }
func (m *memory) callSize() int { return int(m.pages.Call) * CallStackPageBytes }
func (m *memory) userSize() int { return int(m.pages.User) * UserStackPageBytes }

// callDepthMax and userDepthMax are the stack capacities in slots.
func (m *memory) callDepthMax() int32 { return int32(m.callSize() / 8) }
func (m *memory) userDepthMax() int32 { return int32(m.userSize() / 8) }

func (m *memory) validSlot(addr int64) bool {
	return program.ValidSlot(addr, m.dataSize())
}

// load reads slot addr of the data region.
func (m *memory) load(addr int64) (int64, bool) {
	if !m.validSlot(addr) {
		return 0, false
	}
	return int64(binary.LittleEndian.Uint64(m.data[addr*8:])), true
}

func (m *memory) store(addr int64, v int64) bool {
	if !m.validSlot(addr) {
		return false
	}
	binary.LittleEndian.PutUint64(m.data[addr*8:], uint64(v))
	return true
}

// callEntry is the byte offset of call stack entry depth (1-based).
func (m *memory) callEntry(depth int32) int {
	return m.dataSize() + m.callSize() - int(depth)*8
}

func (m *memory) userEntry(depth int32) int {
	return m.dataSize() + m.callSize() + m.userSize() - int(depth)*8
}

func (m *memory) readCall(depth int32) int64 {
	return int64(binary.LittleEndian.Uint64(m.data[m.callEntry(depth):]))
}

func (m *memory) writeCall(depth int32, v int64) {
	binary.LittleEndian.PutUint64(m.data[m.callEntry(depth):], uint64(v))
}

func (m *memory) readUser(depth int32) int64 {
	return int64(binary.LittleEndian.Uint64(m.data[m.userEntry(depth):]))
}

func (m *memory) writeUser(depth int32, v int64) {
	binary.LittleEndian.PutUint64(m.data[m.userEntry(depth):], uint64(v))
}

// resize reallocates one segment, zeroed. Resizing any part of the data
// buffer clears all of it.
func (m *memory) resize(seg Segment, pages int32) error {
	if pages <= 0 || pages > MaxPages {
		return fmt.Errorf("%s %d pages: %w", seg, pages, aterrors.ErrVBadPageCount)
	}
	switch seg {
	case SegmentCode:
		m.pages.Code = pages
		m.code = make([]byte, m.codeSize())
		return nil
	case SegmentData:
		m.pages.Data = pages
	case SegmentCall:
		m.pages.Call = pages
	case SegmentUser:
		m.pages.User = pages
	default:
		return fmt.Errorf("unknown segment %d", int(seg))
	}
	m.data = make([]byte, m.dataSize()+m.callSize()+m.userSize())
	return nil
}

func (m *memory) clearData() {
	clear(m.data)
}

// stacks is the call and user stack part of the data buffer.
func (m *memory) stacks() []byte {
	return m.data[m.dataSize():]
}
