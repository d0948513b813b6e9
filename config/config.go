// Package config loads the atvm TOML configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the contents of an atvm.toml file.
type Config struct {
	Machine Machine `toml:"machine"`
	Log     Log     `toml:"log"`
	Console Console `toml:"console"`
	Store   Store   `toml:"store"`
}

// Machine sizes the segments of a new VM.
type Machine struct {
	CodePages int32 `toml:"code-pages"`
	DataPages int32 `toml:"data-pages"`
	CallPages int32 `toml:"call-pages"`
	UserPages int32 `toml:"user-pages"`
	Balance   int64 `toml:"balance"`
}

type Log struct {
	Level   string   `toml:"level"`
	Modules []string `toml:"modules"`
}

type Console struct {
	Prompt      string `toml:"prompt"`
	HistoryFile string `toml:"history-file"`
}

// Store points at the snapshot database. An empty path keeps snapshots in memory.
type Store struct {
	Path string `toml:"path"`
}

const (
	DefaultPages   = 1
	DefaultBalance = 100
)

func Default() Config {
	return Config{
		Machine: Machine{
			CodePages: DefaultPages,
			DataPages: DefaultPages,
			CallPages: DefaultPages,
			UserPages: DefaultPages,
			Balance:   DefaultBalance,
		},
		Log:     Log{Level: "info"},
		Console: Console{Prompt: "> "},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML text into cfg and validates the result.
func Decode(text string, cfg *Config) error {
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %s", undecoded[0])
	}
	return cfg.Validate()
}

func (c Config) Validate() error {
	m := c.Machine
	for name, pages := range map[string]int32{
		"code-pages": m.CodePages,
		"data-pages": m.DataPages,
		"call-pages": m.CallPages,
		"user-pages": m.UserPages,
	} {
		if pages <= 0 {
			return fmt.Errorf("machine.%s must be positive, got %d", name, pages)
		}
	}
	if m.Balance < 0 {
		return fmt.Errorf("machine.balance must not be negative, got %d", m.Balance)
	}
	return nil
}
