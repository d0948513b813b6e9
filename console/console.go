// Package console is the line-oriented operator interface to a single VM.
package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/colorfulnotion/atvm/aterrors"
	"github.com/colorfulnotion/atvm/atvm"
	"github.com/colorfulnotion/atvm/atvm/program"
	"github.com/colorfulnotion/atvm/common"
	"github.com/colorfulnotion/atvm/log"
	"github.com/colorfulnotion/atvm/storage"
)

const helpText = `commands:
---------
code <hex byte values> [<[0x]offset>]
data <hex byte values> [<[0x]offset>]
run
cont
dump {code|data|stacks}
list
stats
load <file>
save <file>
size [{code|data|call|user} [<pages>]]
step [<num_steps>]
break <[0x]value>
reset
state
balance [<amount>]
function <[+]#> [<[0x]value1[,[0x]value2[,...]]>] [loop]
functions
store <name>
restore <name>
snapshots
help
exit
`

// Console executes commands against one machine and writes results to out.
type Console struct {
	vm    *atvm.VM
	out   io.Writer
	bp    atvm.Breakpoints
	store *storage.SnapshotStore
}

// New binds a console to vm. Program output is redirected to out. store may be nil.
func New(vm *atvm.VM, out io.Writer, store *storage.SnapshotStore) *Console {
	vm.Out = out
	return &Console{vm: vm, out: out, bp: atvm.Breakpoints{}, store: store}
}

func (c *Console) VM() *atvm.VM { return c.vm }

// Exec runs one command line. It reports true when the console should exit.
func (c *Console) Exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]
	if cmd == "exit" || cmd == "quit" {
		return true
	}
	log.Debug(log.ConsoleMonitoring, "exec", "cmd", cmd, "args", args)

	err := c.dispatch(cmd, args)
	if err != nil {
		log.Debug(log.ConsoleMonitoring, "command failed", "cmd", cmd, "err", aterrors.GetErrorName(err))
	}
	switch {
	case err == nil:
	case errors.Is(err, aterrors.ErrCInvalidCommand):
		fmt.Fprintf(c.out, "invalid command: %s\n", cmd)
	default:
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
	return false
}

// Loop reads lines from rl until exit, interrupt on an empty line, or end of input.
func (c *Console) Loop(rl *readline.Instance) error {
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if c.Exec(line) {
			return nil
		}
	}
}

func (c *Console) dispatch(cmd string, args []string) error {
	switch cmd {
	case "?", "help":
		io.WriteString(c.out, helpText)
		return nil
	case "code", "data":
		return c.load(cmd, args)
	case "run", "cont":
		return c.run(cmd == "run")
	case "step":
		return c.step(args)
	case "dump":
		return c.dump(args)
	case "list":
		for _, l := range c.vm.Listing() {
			fmt.Fprintln(c.out, l)
		}
		return nil
	case "stats":
		program.WriteStats(c.out, c.vm.Stats())
		return nil
	case "load":
		return c.loadFile(args)
	case "save":
		return c.saveFile(args)
	case "size":
		return c.size(args)
	case "break":
		return c.breakpoint(args)
	case "reset":
		c.vm.Reset()
		return nil
	case "state":
		c.vm.DumpState(c.out)
		return nil
	case "balance":
		return c.balance(args)
	case "function":
		return c.function(args)
	case "functions":
		c.functions()
		return nil
	case "store":
		return c.storeSnapshot(args)
	case "restore":
		return c.restoreSnapshot(args)
	case "snapshots":
		return c.listSnapshots()
	}
	return aterrors.ErrCInvalidCommand
}

// load handles code and data. Without an offset the segment is cleared
// first. Loading code resets the machine.
func (c *Console) load(cmd string, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return aterrors.ErrCInvalidCommand
	}
	b, err := common.ParseHexBytes(args[0])
	if err != nil {
		return err
	}
	var offset int32
	if len(args) == 2 {
		if offset, err = common.ParseInt32(args[1]); err != nil {
			return err
		}
	}
	clearFirst := len(args) == 1

	if cmd == "data" {
		return c.vm.LoadData(b, offset, clearFirst)
	}
	if err := c.vm.LoadCode(b, offset, clearFirst); err != nil {
		return err
	}
	c.vm.Reset()
	return nil
}

func (c *Console) run(restart bool) error {
	var res atvm.RunResult
	var err error
	if restart {
		res, err = c.vm.Run(c.bp)
	} else {
		res, err = c.vm.Continue(c.bp)
	}
	if err != nil {
		return err
	}
	switch res.Reason {
	case atvm.ExitStopped, atvm.ExitFinished:
		fmt.Fprintf(c.out, "(%s)\ntotal steps: %d\n", res.Reason, res.Steps)
	case atvm.ExitBreakpoint, atvm.ExitOutOfFuel:
		fmt.Fprintf(c.out, "(%s)\n", res.Reason)
	case atvm.ExitFault:
		c.printFault(res.Err)
	}
	return nil
}

// step runs n instructions, one when n is absent or 0.
func (c *Console) step(args []string) error {
	n := 0
	if len(args) > 0 {
		v, err := common.ParseInt32(args[0])
		if err != nil {
			return err
		}
		n = int(v)
	}
	res, err := c.vm.StepN(n)
	if err != nil {
		return err
	}
	switch res.Reason {
	case atvm.ExitStopped, atvm.ExitFinished, atvm.ExitOutOfFuel:
		fmt.Fprintf(c.out, "(%s)\n", res.Reason)
	case atvm.ExitFault:
		c.printFault(res.Err)
	}
	return nil
}

func (c *Console) printFault(err error) {
	switch {
	case errors.Is(err, aterrors.ErrVOverflow):
		fmt.Fprintln(c.out, "error: overflow")
	case errors.Is(err, aterrors.ErrVInvalidOp):
		fmt.Fprintln(c.out, "error: invalid code")
	case errors.Is(err, aterrors.ErrVInvalidErrorHandler):
		fmt.Fprintln(c.out, "error: invalid error handler")
	default:
		fmt.Fprintf(c.out, "unexpected error: %v\n", err)
	}
}

func (c *Console) dump(args []string) error {
	if len(args) != 1 {
		return aterrors.ErrCInvalidCommand
	}
	switch args[0] {
	case "code":
		c.vm.DumpCode(c.out)
	case "data":
		c.vm.DumpData(c.out)
	case "stacks":
		c.vm.DumpStacks(c.out)
	default:
		return aterrors.ErrCInvalidCommand
	}
	return nil
}

func (c *Console) loadFile(args []string) error {
	if len(args) != 1 {
		return aterrors.ErrCInvalidCommand
	}
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("unable to open '%s' for input", args[0])
	}
	defer f.Close()
	return c.vm.ReadSnapshot(f)
}

func (c *Console) saveFile(args []string) error {
	if len(args) != 1 {
		return aterrors.ErrCInvalidCommand
	}
	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("unable to open '%s' for output", args[0])
	}
	if err := c.vm.WriteSnapshot(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c *Console) size(args []string) error {
	if len(args) < 2 {
		segs := []atvm.Segment{atvm.SegmentCode, atvm.SegmentData, atvm.SegmentCall, atvm.SegmentUser}
		if len(args) == 1 {
			seg, ok := atvm.ParseSegment(args[0])
			if !ok {
				return fmt.Errorf("%q: %w", args[0], aterrors.ErrCBadArgument)
			}
			segs = []atvm.Segment{seg}
		}
		for _, seg := range segs {
			c.printSize(seg)
		}
		return nil
	}

	seg, ok := atvm.ParseSegment(args[0])
	if !ok {
		return fmt.Errorf("%q: %w", args[0], aterrors.ErrCBadArgument)
	}
	pages, err := common.ParseInt32(args[1])
	if err != nil {
		return err
	}
	return c.vm.Resize(seg, pages)
}

func (c *Console) printSize(seg atvm.Segment) {
	p := c.vm.Pages()
	var pages int32
	var pageBytes int
	switch seg {
	case atvm.SegmentCode:
		pages, pageBytes = p.Code, atvm.CodePageBytes
	case atvm.SegmentData:
		pages, pageBytes = p.Data, atvm.DataPageBytes
	case atvm.SegmentCall:
		pages, pageBytes = p.Call, atvm.CallStackPageBytes
	case atvm.SegmentUser:
		pages, pageBytes = p.User, atvm.UserStackPageBytes
	}
	fmt.Fprintf(c.out, "%s (%d * %d) = %d bytes\n", seg, pages, pageBytes, int(pages)*pageBytes)
}

// breakpoint toggles an address, or lists them all without an argument.
func (c *Console) breakpoint(args []string) error {
	if len(args) == 0 {
		for _, pc := range c.bp.Sorted() {
			fmt.Fprintln(c.out, pc)
		}
		return nil
	}
	pc, err := common.ParseInt32(args[0])
	if err != nil {
		return err
	}
	c.bp.Toggle(pc)
	return nil
}

func (c *Console) balance(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(c.out, c.vm.Balance)
		return nil
	}
	v, err := common.ParseInt(args[0])
	if err != nil {
		return err
	}
	c.vm.Balance = v
	return nil
}

// function edits the fixture table. A leading '+' marks the increment
// function; its entry is only replaced when values are given.
func (c *Console) function(args []string) error {
	if len(args) == 0 {
		return aterrors.ErrCInvalidCommand
	}
	id := args[0]
	increment := strings.HasPrefix(id, "+")
	fn, err := common.ParseInt32(strings.TrimPrefix(id, "+"))
	if err != nil {
		return err
	}

	fx := c.vm.Fixtures
	if increment {
		fx.Increment = fn
	}
	if !increment || len(args) > 1 {
		fx.Delete(fn)
	}
	if len(args) < 2 {
		return nil
	}
	values, err := common.ParseInt64List(args[1])
	if err != nil {
		return err
	}
	loop := len(args) > 2 && args[2] == "true"
	return fx.Set(fn, values, loop)
}

func (c *Console) functions() {
	fx := c.vm.Fixtures
	for _, e := range fx.Entries() {
		var sb strings.Builder
		if e.Function == fx.Increment {
			sb.WriteByte('+')
		} else {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%03d", e.Function)
		for j, v := range e.Data {
			sep := ","
			if j == 0 {
				sep = " "
			}
			fmt.Fprintf(&sb, "%s0x%016x", sep, uint64(v))
		}
		fmt.Fprintf(&sb, " %t\n", e.Loop)
		io.WriteString(c.out, sb.String())
	}
}

func (c *Console) storeSnapshot(args []string) error {
	if len(args) != 1 {
		return aterrors.ErrCInvalidCommand
	}
	if c.store == nil {
		return aterrors.ErrCNoStore
	}
	b, err := c.vm.MarshalBinary()
	if err != nil {
		return err
	}
	digest, err := c.store.Put(args[0], b)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "stored %s %s\n", args[0], digest.String_short())
	return nil
}

func (c *Console) restoreSnapshot(args []string) error {
	if len(args) != 1 {
		return aterrors.ErrCInvalidCommand
	}
	if c.store == nil {
		return aterrors.ErrCNoStore
	}
	b, err := c.store.Get(args[0])
	if err != nil {
		return err
	}
	return c.vm.UnmarshalBinary(b)
}

func (c *Console) listSnapshots() error {
	if c.store == nil {
		return aterrors.ErrCNoStore
	}
	list, err := c.store.List()
	if err != nil {
		return err
	}
	for _, s := range list {
		fmt.Fprintf(c.out, "%s %d %s\n", s.Name, s.Size, s.Digest.String_short())
	}
	return nil
}
