package atvm

import "github.com/colorfulnotion/atvm/atvm/program"

// HostEnv answers the chain queries and every function number the VM does
// not implement itself. ok=false makes the call return 0.
type HostEnv interface {
	Call(fn program.Function, args []int64, st *State) (rc int64, ok bool)
}

// FixtureEnv answers every call from the fixture table.
type FixtureEnv struct {
	Fixtures *Fixtures
}

func (e FixtureEnv) Call(fn program.Function, args []int64, st *State) (int64, bool) {
	return e.Fixtures.Next(int32(fn))
}

// MapEnv answers from fixed values and falls back to Next, if set.
type MapEnv struct {
	Values map[program.Function]int64
	Next   HostEnv
}

func (e MapEnv) Call(fn program.Function, args []int64, st *State) (int64, bool) {
	if v, ok := e.Values[fn]; ok {
		return v, true
	}
	if e.Next != nil {
		return e.Next.Call(fn, args, st)
	}
	return 0, false
}
