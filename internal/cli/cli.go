// Package cli parses command-line flags.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// Config holds the parsed flag values.
type Config struct {
	Apply      bool
	Undo       bool
	Redo       bool
	Dir        string
	Model      string
	OneShot    string
	LookupDirs []string
}

// ParseFlags defines and parses the flags.
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	pflag.BoolVarP(&cfg.Apply, "apply", "a", false, "Apply edit blocks from stdin (pipe) or clipboard instead of starting the chat.")
	pflag.BoolVarP(&cfg.Undo, "undo", "u", false, "Undo the last applied operation.")
	pflag.BoolVarP(&cfg.Redo, "redo", "R", false, "Redo the last undone operation.")
	pflag.StringVarP(&cfg.Dir, "dir", "d", "", "Project directory to work in (default: current directory).")
	pflag.StringVarP(&cfg.Model, "model", "m", "", "Override the configured model.")
	pflag.StringVar(&cfg.OneShot, "one-shot", "", "Run a single instruction and exit instead of starting the chat.")
	pflag.StringSliceVarP(&cfg.LookupDirs, "lookup-dir", "l", []string{}, "Directories to look up files in for apply mode (default: current directory).")

	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: kodo [flags]")
		fmt.Fprintln(os.Stderr, "\nA terminal coding agent. Without flags, starts an interactive chat.")
		fmt.Fprintln(os.Stderr, "\nExample: pbpaste | kodo -a")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	exclusive := 0
	for _, on := range []bool{cfg.Apply, cfg.Undo, cfg.Redo} {
		if on {
			exclusive++
		}
	}
	if exclusive > 1 {
		return nil, fmt.Errorf("--apply, --undo and --redo are mutually exclusive")
	}

	return cfg, nil
}
