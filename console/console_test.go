package console

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/colorfulnotion/atvm/atvm"
	"github.com/colorfulnotion/atvm/log"
	"github.com/colorfulnotion/atvm/storage"
	gethlog "github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const echoProgram = "01" + "00000000" + "b822000000000000" + "33" + "0100" + "00000000" + "28"

func newConsole(t *testing.T) (*Console, *bytes.Buffer) {
	t.Helper()
	vm, err := atvm.NewVM(atvm.Pages{Code: 1, Data: 1, Call: 1, User: 1}, 100)
	require.NoError(t, err)
	store, err := storage.NewSnapshotStore("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	out := new(bytes.Buffer)
	return New(vm, out, store), out
}

// exec runs each line and returns what they printed.
func exec(c *Console, out *bytes.Buffer, lines ...string) string {
	out.Reset()
	for _, l := range lines {
		c.Exec(l)
	}
	return out.String()
}

func TestRunEcho(t *testing.T) {
	c, out := newConsole(t)
	got := exec(c, out, "code "+echoProgram, "run")
	assert.Equal(t, "8888\n(finished)\ntotal steps: 3\n", got)

	got = exec(c, out, "cont")
	assert.Contains(t, got, "error: ")
	assert.Contains(t, got, "Finished")

	got = exec(c, out, "run")
	assert.Equal(t, "8888\n(finished)\ntotal steps: 3\n", got)
	assert.Equal(t, "94\n", exec(c, out, "balance"))
}

func TestListAndDump(t *testing.T) {
	c, out := newConsole(t)
	exec(c, out, "code "+echoProgram)

	got := exec(c, out, "list")
	assert.Equal(t, "00000000* SET @00000000 #00000000000022b8\n"+
		"0000000d  FUN 1 $00000000\n"+
		"00000014  FIN\n", got)

	got = exec(c, out, "dump code")
	assert.True(t, strings.HasPrefix(got, "00000000  01 00 00 00 00 b8 22 00"))
	assert.Equal(t, atvm.CodePageBytes/16, strings.Count(got, "\n"))

	got = exec(c, out, "dump stacks")
	assert.Equal(t, (atvm.CallStackPageBytes+atvm.UserStackPageBytes)/16, strings.Count(got, "\n"))

	assert.Equal(t, "invalid command: dump\n", exec(c, out, "dump heap"))
}

func TestStatsCommand(t *testing.T) {
	c, out := newConsole(t)
	exec(c, out, "code "+echoProgram)
	assert.Equal(t, "instructions: 3\n"+
		"bytes: 21\n"+
		"branches: 0\n"+
		"host calls: 1\n"+
		"  1: 1\n", exec(c, out, "stats"))
}

func TestStepCommand(t *testing.T) {
	c, out := newConsole(t)
	exec(c, out, "code "+echoProgram)

	assert.Equal(t, "", exec(c, out, "step"))
	assert.Equal(t, "8888\n", exec(c, out, "step"))
	assert.Equal(t, "(finished)\n", exec(c, out, "step 5"))
	// a finished machine starts over
	assert.Equal(t, "", exec(c, out, "step 1"))
	assert.Contains(t, exec(c, out, "state"), "steps: 1\n")
}

func TestBreakCommand(t *testing.T) {
	c, out := newConsole(t)
	exec(c, out, "code "+echoProgram, "break 0x14", "break 13", "break 20")
	assert.Equal(t, "13\n", exec(c, out, "break"))

	exec(c, out, "break 13", "break 20")
	assert.Equal(t, "8888\n(break point)\n", exec(c, out, "run"))
	assert.Equal(t, "(finished)\ntotal steps: 3\n", exec(c, out, "cont"))
}

func TestDataAndState(t *testing.T) {
	c, out := newConsole(t)
	// FUN 1 $00000001, FIN
	exec(c, out, "code 330100010000002800", "data 2a00 8")
	assert.Equal(t, "42\n(finished)\ntotal steps: 2\n", exec(c, out, "cont"))

	got := exec(c, out, "state")
	assert.Contains(t, got, "pc: 00000000\n")
	assert.Contains(t, got, "pce: 00000000\n")
	assert.Contains(t, got, "a1: 0000000000000000\n")

	// run clears the data segment first
	assert.Equal(t, "0\n(finished)\ntotal steps: 2\n", exec(c, out, "run"))
}

func TestFaultMessages(t *testing.T) {
	c, out := newConsole(t)
	assert.Equal(t, "error: overflow\n", exec(c, out, "code 1100000000", "run"))
	assert.Equal(t, "error: invalid code\n", exec(c, out, "code 1a02000000", "run"))
	assert.Equal(t, "error: invalid error handler\n", exec(c, out, "code 2b02000000", "run"))

	exec(c, out, "code 1a00000000", "balance 3")
	assert.Equal(t, "(stopped - zero balance)\n", exec(c, out, "run"))
	assert.Equal(t, "(stopped - zero balance)\n", exec(c, out, "step"))
}

func TestSizeCommand(t *testing.T) {
	c, out := newConsole(t)
	assert.Equal(t, "code (1 * 512) = 512 bytes\n"+
		"data (1 * 512) = 512 bytes\n"+
		"call (1 * 256) = 256 bytes\n"+
		"user (1 * 256) = 256 bytes\n", exec(c, out, "size"))

	exec(c, out, "size user 3")
	assert.Equal(t, "user (3 * 256) = 768 bytes\n", exec(c, out, "size user"))
	assert.Contains(t, exec(c, out, "size user 0"), "error: ")
	assert.Contains(t, exec(c, out, "size heap"), "error: ")
}

func TestFunctionCommands(t *testing.T) {
	c, out := newConsole(t)
	exec(c, out,
		"function 2 1,0x10",
		"function +7 5 true",
		"function 3 9",
	)
	assert.Equal(t, " 002 0x0000000000000001,0x0000000000000010 false\n"+
		" 003 0x0000000000000009 false\n"+
		"+007 0x0000000000000005 true\n", exec(c, out, "functions"))

	// '+' without values keeps the entry
	exec(c, out, "function +3")
	got := exec(c, out, "functions")
	assert.Contains(t, got, "+003 0x0000000000000009 false\n")
	assert.Contains(t, got, " 007 ")

	// no '+' and no values erases it
	exec(c, out, "function 3")
	assert.NotContains(t, exec(c, out, "functions"), "003")
	assert.Equal(t, int32(3), c.VM().Fixtures.Increment)
}

func TestFixtureDrivenProgram(t *testing.T) {
	c, out := newConsole(t)
	// FUN @0 0x0300, FUN 1 $0, FUN @0 0x0300, FUN 1 $0, FIN
	code := "35000300000000" + "33010000000000" + "35000300000000" + "33010000000000" + "28"
	exec(c, out, "code "+code, "function +768 2,1,0")
	assert.Equal(t, "2\n1\n(finished)\ntotal steps: 5\n", exec(c, out, "run"))
	assert.Equal(t, "2\n1\n(finished)\ntotal steps: 5\n", exec(c, out, "run"))
}

func TestSaveLoad(t *testing.T) {
	c, out := newConsole(t)
	path := filepath.Join(t.TempDir(), "m.bin")
	exec(c, out, "code "+echoProgram, "function 5 1,2", "step", "save "+path)
	listing := exec(c, out, "list")

	c2, out2 := newConsole(t)
	assert.Equal(t, "", exec(c2, out2, "load "+path))
	assert.Equal(t, listing, exec(c2, out2, "list"))
	assert.Equal(t, " 005 0x0000000000000001,0x0000000000000002 false\n", exec(c2, out2, "functions"))
	assert.Equal(t, "8888\n(finished)\ntotal steps: 3\n", exec(c2, out2, "cont"))

	assert.Equal(t, "error: unable to open '/nonexistent/x' for input\n", exec(c2, out2, "load /nonexistent/x"))
}

func TestStoreCommands(t *testing.T) {
	c, out := newConsole(t)
	exec(c, out, "code "+echoProgram, "step")
	got := exec(c, out, "store first")
	assert.True(t, strings.HasPrefix(got, "stored first "))

	exec(c, out, "run")
	assert.Equal(t, "", exec(c, out, "restore first"))
	assert.Contains(t, exec(c, out, "state"), "steps: 1\n")

	got = exec(c, out, "snapshots")
	assert.True(t, strings.HasPrefix(got, "first "))
	assert.Contains(t, exec(c, out, "restore missing"), "NotFound")

	vm, err := atvm.NewVM(atvm.Pages{Code: 1, Data: 1, Call: 1, User: 1}, 1)
	require.NoError(t, err)
	bare := New(vm, out, nil)
	assert.Contains(t, exec(bare, out, "snapshots"), "NoStore")
}

func TestInvalidInput(t *testing.T) {
	c, out := newConsole(t)
	assert.Equal(t, "invalid command: frob\n", exec(c, out, "frob"))
	assert.Equal(t, "invalid command: code\n", exec(c, out, "code"))
	assert.Contains(t, exec(c, out, "code 123"), "error: ")
	assert.Contains(t, exec(c, out, "balance x"), "error: ")
	assert.Equal(t, "", exec(c, out, "   "))
	assert.Contains(t, exec(c, out, "help"), "function <[+]#>")
	assert.True(t, c.Exec("quit"))
	assert.True(t, c.Exec("exit"))
	assert.False(t, c.Exec("state"))
}

func TestFailedCommandLogged(t *testing.T) {
	prev := log.Root()
	defer log.SetDefault(prev)
	log.SetDefault(log.NewLogger(gethlog.DiscardHandler()))
	log.RecordLogs()
	log.EnableModule(log.ConsoleMonitoring)
	defer log.DisableModule(log.ConsoleMonitoring)

	c, out := newConsole(t)
	exec(c, out, "balance 0xzz")

	logs, err := log.GetRecordedLogs()
	require.NoError(t, err)
	assert.Contains(t, string(logs), "msg=\"command failed\" cmd=balance err=BadNumber")
}
