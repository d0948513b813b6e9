package atvm

import (
	"fmt"
	"sort"

	"github.com/colorfulnotion/atvm/aterrors"
)

// FunctionData is a scripted sequence of return values for one host function.
type FunctionData struct {
	Loop   bool
	Offset uint64
	Data   []int64
}

func (fd *FunctionData) current() int64 {
	return fd.Data[fd.Offset]
}

// advance moves the cursor one value on, wrapping when looping and holding
// on the last value otherwise.
func (fd *FunctionData) advance() {
	fd.Offset++
	if fd.Offset >= uint64(len(fd.Data)) {
		if fd.Loop {
			fd.Offset = 0
		} else {
			fd.Offset--
		}
	}
}

// FixtureEntry pairs a function number with its data.
type FixtureEntry struct {
	Function int32
	FunctionData
}

// Fixtures stands in for host functions the VM does not implement. Calling
// the increment function advances every entry, except on its first call
// after a rewind.
type Fixtures struct {
	entries   map[int32]*FunctionData
	Increment int32
	FirstCall bool
}

func NewFixtures() *Fixtures {
	return &Fixtures{entries: make(map[int32]*FunctionData), FirstCall: true}
}

// Set replaces the entry for fn.
func (f *Fixtures) Set(fn int32, values []int64, loop bool) error {
	if len(values) == 0 {
		return fmt.Errorf("function %d: %w", fn, aterrors.ErrSBadFixture)
	}
	f.entries[fn] = &FunctionData{Loop: loop, Data: append([]int64(nil), values...)}
	return nil
}

func (f *Fixtures) Delete(fn int32) {
	delete(f.entries, fn)
}

func (f *Fixtures) Has(fn int32) bool {
	_, ok := f.entries[fn]
	return ok
}

func (f *Fixtures) Len() int {
	return len(f.entries)
}

// Next returns the current value for fn. Calling the increment function
// first advances all entries.
func (f *Fixtures) Next(fn int32) (int64, bool) {
	fd, ok := f.entries[fn]
	if !ok {
		return 0, false
	}
	if fn == f.Increment {
		if f.FirstCall {
			f.FirstCall = false
		} else {
			for _, e := range f.entries {
				e.advance()
			}
		}
	}
	return fd.current(), true
}

// Rewind puts every cursor back to the first value.
func (f *Fixtures) Rewind() {
	f.FirstCall = true
	for _, e := range f.entries {
		e.Offset = 0
	}
}

// Clear drops all entries and the increment designation.
func (f *Fixtures) Clear() {
	f.entries = make(map[int32]*FunctionData)
	f.Increment = 0
	f.FirstCall = true
}

// Entries returns copies of the entries in ascending function order.
func (f *Fixtures) Entries() []FixtureEntry {
	out := make([]FixtureEntry, 0, len(f.entries))
	for fn, fd := range f.entries {
		cp := *fd
		cp.Data = append([]int64(nil), fd.Data...)
		out = append(out, FixtureEntry{Function: fn, FunctionData: cp})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Function < out[j].Function })
	return out
}

// restore installs a decoded entry after checking its cursor.
func (f *Fixtures) restore(e FixtureEntry) error {
	if len(e.Data) == 0 || e.Offset >= uint64(len(e.Data)) {
		return fmt.Errorf("function %d: %w", e.Function, aterrors.ErrSBadFixture)
	}
	fd := e.FunctionData
	f.entries[e.Function] = &fd
	return nil
}
