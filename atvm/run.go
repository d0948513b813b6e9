package atvm

import (
	"errors"
	"sort"

	"github.com/colorfulnotion/atvm/aterrors"
	"github.com/colorfulnotion/atvm/log"
)

// Breakpoints is a set of code addresses.
type Breakpoints map[int32]struct{}

// Toggle adds pc, or removes it when already set. It reports whether pc is now set.
func (b Breakpoints) Toggle(pc int32) bool {
	if _, ok := b[pc]; ok {
		delete(b, pc)
		return false
	}
	b[pc] = struct{}{}
	return true
}

func (b Breakpoints) Has(pc int32) bool {
	_, ok := b[pc]
	return ok
}

func (b Breakpoints) Sorted() []int32 {
	out := make([]int32, 0, len(b))
	for pc := range b {
		out = append(out, pc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ExitReason says why the driver returned.
type ExitReason int

const (
	ExitStopped ExitReason = iota
	ExitFinished
	ExitBreakpoint
	ExitOutOfFuel
	ExitFault
	ExitStepLimit
)

func (r ExitReason) String() string {
	switch r {
	case ExitStopped:
		return "stopped"
	case ExitFinished:
		return "finished"
	case ExitBreakpoint:
		return "break point"
	case ExitOutOfFuel:
		return "stopped - zero balance"
	case ExitFault:
		return "fault"
	case ExitStepLimit:
		return "step limit"
	}
	return "unknown"
}

// RunResult describes one driver call. Err holds the Fault for ExitFault.
type RunResult struct {
	Reason ExitReason
	Steps  int32
	Err    error
}

// Run restarts the machine and runs it until it halts.
func (vm *VM) Run(bp Breakpoints) (RunResult, error) {
	vm.Reset()
	return vm.Continue(bp)
}

// Continue runs from the current pc until the machine halts.
func (vm *VM) Continue(bp Breakpoints) (RunResult, error) {
	return vm.drive(bp, 0)
}

// StepN executes up to n instructions, one when n is 0. A finished machine
// is reset first. Breakpoints are not checked.
func (vm *VM) StepN(n int) (RunResult, error) {
	if vm.Finished {
		vm.Reset()
	}
	if n <= 0 {
		n = 1
	}
	return vm.drive(nil, n)
}

// drive is the fuel-metered loop shared by the drivers. limit 0 means no limit.
func (vm *VM) drive(bp Breakpoints, limit int) (RunResult, error) {
	if vm.jumps == nil {
		return RunResult{}, aterrors.ErrVStaleJumpTable
	}
	if vm.Finished {
		return RunResult{}, aterrors.ErrVFinished
	}

	res := vm.loop(bp, limit)
	res.Steps = vm.Steps
	if res.Reason == ExitFault {
		log.Warn(log.RunMonitoring, "run faulted", "pc", vm.PC, "err", res.Err)
	} else {
		log.Debug(log.RunMonitoring, "run exit", "reason", res.Reason, "pc", vm.PC, "steps", vm.Steps, "balance", vm.Balance)
	}
	return res, nil
}

func (vm *VM) loop(bp Breakpoints, limit int) RunResult {
	for n := 0; limit == 0 || n < limit; n++ {
		if vm.Balance == 0 {
			return RunResult{Reason: ExitOutOfFuel, Err: aterrors.ErrVOutOfFuel}
		}
		_, err := vm.Step()
		if vm.Balance == 0 {
			// a payout drained the balance during the step
			return RunResult{Reason: ExitOutOfFuel, Err: aterrors.ErrVOutOfFuel}
		}
		vm.Balance--

		if err != nil {
			var f Fault
			if errors.As(err, &f) {
				return RunResult{Reason: ExitFault, Err: f}
			}
			return RunResult{Reason: ExitFault, Err: err}
		}
		if vm.Stopped {
			vm.Stopped = false
			return RunResult{Reason: ExitStopped}
		}
		if vm.Finished {
			return RunResult{Reason: ExitFinished}
		}
		if bp.Has(vm.PC) {
			return RunResult{Reason: ExitBreakpoint}
		}
	}
	return RunResult{Reason: ExitStepLimit}
}
