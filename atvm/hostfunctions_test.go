package atvm

import (
	"crypto/md5"
	"crypto/sha256"
	"testing"

	"github.com/colorfulnotion/atvm/atvm/program"
	"github.com/colorfulnotion/atvm/log"
	gethlog "github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ripemd160"
)

func TestCounterWraps(t *testing.T) {
	// 0: FUN @0 2, 7: FUN 1 $0, 14: JMP :0
	vm, out := newTestVM(t, 30, program.Assemble(
		I{Op: program.EXT_FUN_RET, Fun: program.DEMO_COUNTER, Addr1: 0},
		I{Op: program.EXT_FUN_DAT, Fun: program.DEMO_VALUE, Addr1: 0},
		I{Op: program.JMP_ADR, Addr1: 0},
	))
	res, err := vm.Continue(nil)
	require.NoError(t, err)
	assert.Equal(t, ExitOutOfFuel, res.Reason)
	assert.Equal(t, "1\n2\n3\n4\n5\n6\n7\n8\n9\n0\n", out.String())
	assert.Equal(t, int32(30), vm.Steps)
}

func TestDemoFunctions(t *testing.T) {
	vm, out := newTestVM(t, 100, nil)

	vm.Val = 7
	assert.Equal(t, int64(7), vm.call0(program.DEMO_VALUE))
	assert.Equal(t, int64(10), vm.call0(program.DEMO_SIZE))
	assert.Equal(t, int64(4), vm.call0(program.DEMO_ID))
	assert.Equal(t, int64(100), vm.call0(program.DEMO_BALANCE))

	assert.Equal(t, int64(14), vm.call1(program.DEMO_COUNTER, 7))
	assert.Equal(t, int64(3), vm.call1(program.DEMO_SIZE, 7))
	assert.Equal(t, int64(42), vm.call2(program.DEMO_COUNTER, 6, 7))
	assert.Equal(t, int64(3), vm.call2(program.DEMO_SIZE, 7, 2))
	assert.Equal(t, int64(0), vm.call2(program.DEMO_SIZE, 7, 0))
	assert.Equal(t, int64(13), vm.call2(program.DEMO_ID, 6, 7))

	vm.call2(program.DEMO_PAY, 30, 0x1234)
	assert.Equal(t, int64(70), vm.Balance)
	vm.call2(program.DEMO_PAY, 500, 0xff)
	assert.Equal(t, int64(0), vm.Balance)
	vm.Balance = 9
	vm.call1(program.DEMO_PAY_ALL_ALT, 77)
	assert.Equal(t, int64(0), vm.Balance)

	assert.Equal(t, "payout 30 to account: 00001234\n"+
		"payout 70 to account: 000000ff\n"+
		"payout 9 to account: 77\n", out.String())
}

func TestBalanceRewindsFixtures(t *testing.T) {
	vm, out := newTestVM(t, 50, nil)
	require.NoError(t, vm.Fixtures.Set(int32(program.DEMO_BALANCE), []int64{1}, false))
	require.NoError(t, vm.Fixtures.Set(9, []int64{1, 2, 3}, false))
	vm.Fixtures.Increment = 9
	vm.call0(9)
	assert.Equal(t, int64(2), vm.call0(9))

	assert.Equal(t, int64(50), vm.call0(program.DEMO_BALANCE))
	assert.Equal(t, "(resetting function data)\n", out.String())
	assert.True(t, vm.Fixtures.FirstCall)
	assert.Equal(t, int64(1), vm.call0(9))

	out.Reset()
	vm.call0(program.DEMO_BALANCE_ALT)
	assert.Empty(t, out.String())
}

func TestRegisterFunctions(t *testing.T) {
	vm, _ := newTestVM(t, 10, nil)

	vm.call2(program.SET_A1_A2, 1, 2)
	vm.call2(program.SET_A3_A4, 3, 4)
	vm.call1(program.SET_B4, 8)
	assert.Equal(t, [4]int64{1, 2, 3, 4}, vm.A)
	assert.Equal(t, int64(2), vm.call0(program.GET_A2))
	assert.Equal(t, int64(8), vm.call0(program.GET_B4))
	assert.Equal(t, int64(0), vm.call0(program.CHECK_A_IS_ZERO))
	assert.Equal(t, int64(0), vm.call0(program.CHECK_B_IS_ZERO))

	vm.call0(program.SWAP_A_AND_B)
	assert.Equal(t, [4]int64{0, 0, 0, 8}, vm.A)
	assert.Equal(t, [4]int64{1, 2, 3, 4}, vm.B)

	vm.call0(program.OR_A_WITH_B)
	assert.Equal(t, [4]int64{1, 2, 3, 12}, vm.A)
	vm.call0(program.AND_B_WITH_A)
	assert.Equal(t, [4]int64{1, 2, 3, 4}, vm.B)
	vm.call0(program.XOR_A_WITH_B)
	assert.Equal(t, [4]int64{0, 0, 0, 8}, vm.A)
	vm.call0(program.XOR_B_WITH_A)
	assert.Equal(t, [4]int64{1, 2, 3, 12}, vm.B)
	vm.call0(program.AND_A_WITH_B)
	assert.Equal(t, [4]int64{0, 0, 0, 8}, vm.A)
	vm.call0(program.OR_B_WITH_A)
	assert.Equal(t, [4]int64{1, 2, 3, 12}, vm.B)

	vm.call0(program.COPY_A_FROM_B)
	assert.Equal(t, int64(1), vm.call0(program.CHECK_A_EQUALS_B))
	vm.call1(program.SET_A1, -1)
	assert.Equal(t, int64(0), vm.call0(program.CHECK_A_EQUALS_B))
	vm.call0(program.COPY_B_FROM_A)
	assert.Equal(t, int64(-1), vm.B[0])

	vm.call0(program.CLEAR_A)
	assert.Equal(t, int64(1), vm.call0(program.CHECK_A_IS_ZERO))
	vm.call0(program.CLEAR_A_AND_B)
	assert.Equal(t, int64(1), vm.call0(program.CHECK_B_IS_ZERO))
}

func TestRegisterFunctionsFromCode(t *testing.T) {
	vm, res := runCode(t,
		setVal(0, 11), setVal(1, 22),
		I{Op: program.EXT_FUN_DAT_2, Fun: program.SET_B1_B2, Addr1: 0, Addr2: 1},
		I{Op: program.EXT_FUN, Fun: program.COPY_A_FROM_B},
		I{Op: program.EXT_FUN_RET, Fun: program.GET_A2, Addr1: 2},
		I{Op: program.EXT_FUN_RET_DAT_2, Fun: program.DEMO_ID, Addr1: 3, Addr2: 0, Addr3: 1},
		I{Op: program.EXT_FUN_RET_DAT, Fun: program.DEMO_COUNTER, Addr1: 4, Addr2: 1},
		fin(),
	)
	require.Equal(t, ExitFinished, res.Reason)
	assert.Equal(t, int64(22), slot(t, vm, 2))
	assert.Equal(t, int64(33), slot(t, vm, 3))
	assert.Equal(t, int64(44), slot(t, vm, 4))
}

func TestHashFunctions(t *testing.T) {
	vm, _ := newTestVM(t, 10, nil)
	vm.A = [4]int64{1, 2, 3, 4}
	in := groupBytes(vm.A)

	md := md5.Sum(in)
	vm.call0(program.MD5_A_TO_B)
	assert.Equal(t, bytesGroup(md[:]), vm.B)
	assert.Equal(t, int64(0), vm.B[2])
	assert.Equal(t, int64(1), vm.call0(program.CHECK_MD5_A_WITH_B))
	vm.B[3] = 1
	assert.Equal(t, int64(0), vm.call0(program.CHECK_MD5_A_WITH_B))

	inner := sha256.Sum256(in)
	h := ripemd160.New()
	h.Write(inner[:])
	vm.call0(program.HASH160_A_TO_B)
	assert.Equal(t, bytesGroup(h.Sum(nil)), vm.B)
	assert.Equal(t, int64(1), vm.call0(program.CHECK_HASH160_A_WITH_B))

	sum := sha256.Sum256(in)
	vm.call0(program.SHA256_A_TO_B)
	assert.Equal(t, groupBytes(vm.B), sum[:])
	assert.Equal(t, int64(1), vm.call0(program.CHECK_SHA256_A_WITH_B))
	assert.Equal(t, int64(0), vm.call0(program.CHECK_HASH160_A_WITH_B))
}

func TestPaymentFunctions(t *testing.T) {
	vm, out := newTestVM(t, 100, nil)
	vm.B[0] = 0xabc

	assert.Equal(t, int64(100), vm.call0(program.GET_CURRENT_BALANCE))
	assert.Equal(t, int64(100), vm.call0(program.GET_PREVIOUS_BALANCE))

	vm.call1(program.SEND_TO_ADDRESS_IN_B, 30)
	vm.A[0] = 5
	vm.call0(program.SEND_A_TO_ADDRESS_IN_B)
	require.NoError(t, vm.Fixtures.Set(int32(program.GET_PREVIOUS_BALANCE), []int64{20}, false))
	vm.call0(program.SEND_OLD_TO_ADDRESS_IN_B)
	vm.call1(program.SEND_TO_ADDRESS_IN_B, -4)
	vm.call0(program.SEND_ALL_TO_ADDRESS_IN_B)
	assert.Equal(t, int64(0), vm.Balance)

	assert.Equal(t, "payout 30 to account: 0000000000000abc\n"+
		"payout 5 to account: 0000000000000abc\n"+
		"payout 20 to account: 0000000000000abc\n"+
		"payout 0 to account: 0000000000000abc\n"+
		"payout 45 to account: 0000000000000abc\n", out.String())
}

func TestChainQueriesUseHostEnv(t *testing.T) {
	vm, _ := newTestVM(t, 10, nil)
	assert.Equal(t, int64(0), vm.call0(program.GET_BLOCK_TIMESTAMP))

	require.NoError(t, vm.Fixtures.Set(int32(program.GET_BLOCK_TIMESTAMP), []int64{5, 6}, false))
	assert.Equal(t, int64(5), vm.call0(program.GET_BLOCK_TIMESTAMP))

	vm.SetHostEnv(MapEnv{
		Values: map[program.Function]int64{program.ADD_MINUTES_TO_TIMESTAMP: 99},
		Next:   FixtureEnv{Fixtures: vm.Fixtures},
	})
	assert.Equal(t, int64(99), vm.call2(program.ADD_MINUTES_TO_TIMESTAMP, 1, 2))
	assert.Equal(t, int64(5), vm.call0(program.GET_BLOCK_TIMESTAMP))
	assert.Equal(t, int64(0), vm.call1(0x0777, 1))

	vm.SetHostEnv(nil)
	assert.Equal(t, int64(0), vm.call2(program.ADD_MINUTES_TO_TIMESTAMP, 1, 2))
}

func TestHostCallLogging(t *testing.T) {
	prev := log.Root()
	defer log.SetDefault(prev)
	log.SetDefault(log.NewLogger(gethlog.DiscardHandler()))
	log.RecordLogs()
	log.EnableModule(log.HostMonitoring)
	defer log.DisableModule(log.HostMonitoring)

	vm, _ := newTestVM(t, 10, nil)
	vm.call0(program.DEMO_COUNTER)
	vm.call1(program.DEMO_VALUE, 1)
	vm.call2(program.DEMO_PAY, 1, 1)
	vm.call0(program.GET_A1)

	out, err := log.GetRecordedLogs()
	require.NoError(t, err)
	assert.Contains(t, string(out), "fn=Get_A1")
	assert.Equal(t, 1, countLines(out))
}

func TestUnansweredChainQuery(t *testing.T) {
	prev := log.Root()
	defer log.SetDefault(prev)
	log.SetDefault(log.NewLogger(gethlog.DiscardHandler()))
	log.RecordLogs()

	vm, _ := newTestVM(t, 10, nil)
	assert.Equal(t, int64(0), vm.call0(program.GET_BLOCK_TIMESTAMP))
	assert.Equal(t, int64(0), vm.call0(program.Function(7)))

	require.NoError(t, vm.Fixtures.Set(int32(program.GET_BLOCK_TIMESTAMP), []int64{12}, false))
	assert.Equal(t, int64(12), vm.call0(program.GET_BLOCK_TIMESTAMP))

	out, err := log.GetRecordedLogs()
	require.NoError(t, err)
	assert.Equal(t, 1, countLines(out))
	assert.Contains(t, string(out), "msg=\"chain query unanswered\" fn=Get_Block_Timestamp")
}

func countLines(b []byte) int {
	n := 0
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}
