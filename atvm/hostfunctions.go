package atvm

import (
	"bytes"
	"crypto/md5"
	"crypto/sha256"
	"fmt"

	"github.com/colorfulnotion/atvm/atvm/program"
	"github.com/colorfulnotion/atvm/log"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/ripemd160"
)

const demoSize = 10

// call0 runs a host function that takes no argument.
func (vm *VM) call0(fn program.Function) int64 {
	var rc int64
	switch fn {
	case program.DEMO_VALUE:
		rc = vm.Val
	case program.DEMO_COUNTER:
		if vm.Val == 9 {
			vm.Val = 0
		} else {
			vm.Val++
		}
		rc = vm.Val
	case program.DEMO_SIZE:
		rc = demoSize
	case program.DEMO_ID:
		rc = int64(fn)
	case program.DEMO_BALANCE, program.DEMO_BALANCE_ALT:
		rc = vm.Balance
		if vm.Fixtures.Has(int32(fn)) {
			fmt.Fprintln(vm.Out, "(resetting function data)")
			vm.Fixtures.Rewind()
		}

	case program.GET_A1, program.GET_A2, program.GET_A3, program.GET_A4:
		rc = vm.A[fn-program.GET_A1]
	case program.GET_B1, program.GET_B2, program.GET_B3, program.GET_B4:
		rc = vm.B[fn-program.GET_B1]
	case program.CLEAR_A:
		vm.A = [4]int64{}
	case program.CLEAR_B:
		vm.B = [4]int64{}
	case program.CLEAR_A_AND_B:
		vm.A, vm.B = [4]int64{}, [4]int64{}
	case program.COPY_A_FROM_B:
		vm.A = vm.B
	case program.COPY_B_FROM_A:
		vm.B = vm.A
	case program.CHECK_A_IS_ZERO:
		rc = boolRC(vm.regA().IsZero())
	case program.CHECK_B_IS_ZERO:
		rc = boolRC(vm.regB().IsZero())
	case program.CHECK_A_EQUALS_B:
		rc = boolRC(vm.regA().Eq(vm.regB()))
	case program.SWAP_A_AND_B:
		vm.A, vm.B = vm.B, vm.A
	case program.OR_A_WITH_B:
		vm.setA(new(uint256.Int).Or(vm.regA(), vm.regB()))
	case program.OR_B_WITH_A:
		vm.setB(new(uint256.Int).Or(vm.regA(), vm.regB()))
	case program.AND_A_WITH_B:
		vm.setA(new(uint256.Int).And(vm.regA(), vm.regB()))
	case program.AND_B_WITH_A:
		vm.setB(new(uint256.Int).And(vm.regA(), vm.regB()))
	case program.XOR_A_WITH_B:
		vm.setA(new(uint256.Int).Xor(vm.regA(), vm.regB()))
	case program.XOR_B_WITH_A:
		vm.setB(new(uint256.Int).Xor(vm.regA(), vm.regB()))

	case program.MD5_A_TO_B, program.HASH160_A_TO_B, program.SHA256_A_TO_B:
		vm.B = bytesGroup(hashA(fn, vm.A))
	case program.CHECK_MD5_A_WITH_B, program.CHECK_HASH160_A_WITH_B, program.CHECK_SHA256_A_WITH_B:
		want := groupBytes(bytesGroup(hashA(fn, vm.A)))
		rc = boolRC(bytes.Equal(want, groupBytes(vm.B)))

	case program.GET_CURRENT_BALANCE:
		rc = vm.Balance
	case program.GET_PREVIOUS_BALANCE:
		rc = vm.previousBalance()
	case program.SEND_ALL_TO_ADDRESS_IN_B:
		vm.payout(vm.Balance)
	case program.SEND_OLD_TO_ADDRESS_IN_B:
		vm.payout(vm.previousBalance())
	case program.SEND_A_TO_ADDRESS_IN_B:
		vm.payout(vm.A[0])

	default:
		rc = vm.query(fn, nil)
	}

	if fn != program.DEMO_COUNTER {
		logHostCall(fn, nil, rc)
	}
	return rc
}

// call1 runs a host function that takes one argument.
func (vm *VM) call1(fn program.Function, v int64) int64 {
	var rc int64
	switch fn {
	case program.DEMO_VALUE:
		fmt.Fprintf(vm.Out, "%d\n", v)
	case program.DEMO_COUNTER:
		rc = v * 2
	case program.DEMO_SIZE:
		rc = v / 2
	case program.DEMO_PAY_ALL, program.DEMO_PAY_ALL_ALT:
		fmt.Fprintf(vm.Out, "payout %d to account: %d\n", vm.Balance, v)
		vm.Balance = 0

	case program.SET_A1, program.SET_A2, program.SET_A3, program.SET_A4:
		vm.A[fn-program.SET_A1] = v
	case program.SET_B1, program.SET_B2, program.SET_B3, program.SET_B4:
		vm.B[fn-program.SET_B1] = v

	case program.SEND_TO_ADDRESS_IN_B:
		vm.payout(v)

	default:
		rc = vm.query(fn, []int64{v})
	}

	if fn != program.DEMO_VALUE && fn != program.DEMO_PAY_ALL {
		logHostCall(fn, []int64{v}, rc)
	}
	return rc
}

// call2 runs a host function that takes two arguments.
func (vm *VM) call2(fn program.Function, v1, v2 int64) int64 {
	var rc int64
	switch fn {
	case program.DEMO_COUNTER:
		rc = v1 * v2
	case program.DEMO_SIZE:
		if v2 != 0 {
			rc = v1 / v2
		}
	case program.DEMO_ID:
		rc = v1 + v2
	case program.DEMO_PAY:
		if v1 > vm.Balance {
			v1 = vm.Balance
		}
		fmt.Fprintf(vm.Out, "payout %d to account: %08x\n", v1, uint64(v2))
		vm.Balance -= v1

	case program.SET_A1_A2:
		vm.A[0], vm.A[1] = v1, v2
	case program.SET_A3_A4:
		vm.A[2], vm.A[3] = v1, v2
	case program.SET_B1_B2:
		vm.B[0], vm.B[1] = v1, v2
	case program.SET_B3_B4:
		vm.B[2], vm.B[3] = v1, v2

	default:
		rc = vm.query(fn, []int64{v1, v2})
	}

	if fn != program.DEMO_PAY {
		logHostCall(fn, []int64{v1, v2}, rc)
	}
	return rc
}

// query hands fn to the host environment. An unanswered chain query is
// reported; other numbers quietly return 0.
func (vm *VM) query(fn program.Function, args []int64) int64 {
	rc, ok := vm.env.Call(fn, args, &vm.State)
	if !ok && fn.IsChainQuery() {
		log.Warn(log.HostMonitoring, "chain query unanswered", "fn", fn.Name(), "args", args)
	}
	return rc
}

// previousBalance asks the environment first and falls back to the current balance.
func (vm *VM) previousBalance() int64 {
	if v, ok := vm.env.Call(program.GET_PREVIOUS_BALANCE, nil, &vm.State); ok {
		return v
	}
	return vm.Balance
}

// payout sends up to amount to the account held in b1.
func (vm *VM) payout(amount int64) {
	if amount < 0 {
		amount = 0
	}
	if amount > vm.Balance {
		amount = vm.Balance
	}
	fmt.Fprintf(vm.Out, "payout %d to account: %016x\n", amount, uint64(vm.B[0]))
	vm.Balance -= amount
}

// hashA digests the 32 bytes of the A group with the function's hash.
func hashA(fn program.Function, a [4]int64) []byte {
	in := groupBytes(a)
	switch fn {
	case program.MD5_A_TO_B, program.CHECK_MD5_A_WITH_B:
		sum := md5.Sum(in)
		return sum[:]
	case program.HASH160_A_TO_B, program.CHECK_HASH160_A_WITH_B:
		inner := sha256.Sum256(in)
		h := ripemd160.New()
		h.Write(inner[:])
		return h.Sum(nil)
	default:
		sum := sha256.Sum256(in)
		return sum[:]
	}
}

func boolRC(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func hostLabel(fn program.Function) string {
	if fn.IsDemo() {
		return fmt.Sprintf("%d", int32(fn))
	}
	return fn.Name()
}

func logHostCall(fn program.Function, args []int64, rc int64) {
	log.Debug(log.HostMonitoring, "func", "fn", hostLabel(fn), "args", args, "rc", fmt.Sprintf("0x%016x", uint64(rc)))
}
