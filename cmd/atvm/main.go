// atvm - interactive console and batch runner for AT bytecode machines
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/colorfulnotion/atvm/atvm"
	"github.com/colorfulnotion/atvm/atvm/program"
	"github.com/colorfulnotion/atvm/common"
	"github.com/colorfulnotion/atvm/config"
	"github.com/colorfulnotion/atvm/console"
	log "github.com/colorfulnotion/atvm/log"
	"github.com/colorfulnotion/atvm/storage"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

func main() {
	var (
		configPath   string
		logLevel     string
		debugModules string
		storePath    string
		balance      int64
		savePath     string
		showStats    bool
	)

	// loadConfig applies the config file, then any flags given on the command line.
	loadConfig := func(cmd *cobra.Command) (config.Config, error) {
		cfg := config.Default()
		if configPath != "" {
			var err error
			if cfg, err = config.Load(configPath); err != nil {
				return cfg, err
			}
		}
		flags := cmd.Flags()
		if flags.Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if flags.Changed("debug") {
			cfg.Log.Modules = strings.Split(debugModules, ",")
		}
		if flags.Changed("store") {
			cfg.Store.Path = storePath
		}
		if flags.Changed("balance") {
			cfg.Machine.Balance = balance
		}
		if err := log.InitLogger(cfg.Log.Level); err != nil {
			return cfg, err
		}
		log.EnableModules(strings.Join(cfg.Log.Modules, ","))
		return cfg, cfg.Validate()
	}

	newVM := func(cfg config.Config) (*atvm.VM, error) {
		m := cfg.Machine
		return atvm.NewVM(atvm.Pages{Code: m.CodePages, Data: m.DataPages, Call: m.CallPages, User: m.UserPages}, m.Balance)
	}

	var rootCmd = &cobra.Command{
		Use:   "atvm",
		Short: "AT bytecode virtual machine",
		Long: `An interpreter for Automated Transaction bytecode with an interactive
console for loading code, stepping, breakpoints and snapshots.`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			vm, err := newVM(cfg)
			if err != nil {
				return err
			}
			store, err := storage.NewSnapshotStore(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          cfg.Console.Prompt,
				HistoryFile:     cfg.Console.HistoryFile,
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
			})
			if err != nil {
				return fmt.Errorf("failed to start readline: %w", err)
			}
			defer rl.Close()

			log.Info(log.ConsoleMonitoring, "console started", "pages", vm.Pages(), "balance", vm.Balance, "store", cfg.Store.Path)
			return console.New(vm, rl.Stdout(), store).Loop(rl)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Run command - resumes a saved machine until it halts
	var runCmd = &cobra.Command{
		Use:   "run <snapshot>",
		Short: "Run a saved machine until it halts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			vm, err := newVM(cfg)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("unable to open '%s' for input", args[0])
			}
			err = vm.ReadSnapshot(f)
			f.Close()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("balance") {
				vm.Balance = balance
			}

			c := console.New(vm, os.Stdout, nil)
			c.Exec("cont")
			fmt.Printf("balance: %d\n", vm.Balance)
			if savePath == "" {
				return nil
			}
			out, err := os.Create(savePath)
			if err != nil {
				return fmt.Errorf("unable to open '%s' for output", savePath)
			}
			if err := vm.WriteSnapshot(out); err != nil {
				out.Close()
				return err
			}
			return out.Close()
		},
	}
	runCmd.Flags().Int64Var(&balance, "balance", config.DefaultBalance, "Balance to run with (defaults to the saved balance)")
	runCmd.Flags().StringVar(&savePath, "save", "", "Write the halted machine to this file")

	// Disasm command - lists code given as hex
	var disasmCmd = &cobra.Command{
		Use:   "disasm <hex>",
		Short: "Disassemble hex encoded bytecode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := common.ParseHexBytes(args[0])
			if err != nil {
				return err
			}
			fmt.Print(program.DisassembleString(code, -1))
			if showStats {
				program.WriteStats(os.Stdout, program.Analyze(code))
			}
			return nil
		},
	}
	disasmCmd.Flags().BoolVar(&showStats, "stats", false, "Print instruction, branch and host call counts after the listing")

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to an atvm.toml config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&debugModules, "debug", "", "Comma separated debug modules (at_vm,at_host,at_run,at_console,at_store)")
	rootCmd.Flags().StringVar(&storePath, "store", "", "Snapshot database directory (in memory when empty)")
	rootCmd.Flags().Int64Var(&balance, "balance", config.DefaultBalance, "Initial balance")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(disasmCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
