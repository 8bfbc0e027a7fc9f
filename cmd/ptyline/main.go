package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/ptyline/ptyline/pkg/config"
	"github.com/ptyline/ptyline/pkg/terminal"
	flag "github.com/spf13/pflag"
)

func main() {
	var (
		configPath  string
		prompt      string
		forward     bool
		mergeStderr bool
		help        bool
	)

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVarP(&prompt, "prompt", "S", "", "Prompt text shown on the input line")
	flag.BoolVar(&forward, "forward-interrupt", true, "Forward Ctrl-C to the child instead of quitting")
	flag.BoolVar(&mergeStderr, "merge-stderr", false, "Route child stderr through the pty")
	flag.BoolVarP(&help, "help", "h", false, "Show help message")

	// Stop at the first non-flag argument; everything after it belongs
	// to the child command.
	flag.CommandLine.SetInterspersed(false)
	flag.Parse()

	if help {
		printUsage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	// The config path flag must take effect before the config is loaded
	if configPath != "" {
		if err := os.Setenv("PTYLINE_CONFIG", configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting config path: %v\n", err)
			os.Exit(1)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Override config with command line flags
	if flag.CommandLine.Changed("prompt") {
		cfg.Prompt = prompt
	}
	if flag.CommandLine.Changed("forward-interrupt") {
		cfg.ForwardInterrupt = forward
	}
	if flag.CommandLine.Changed("merge-stderr") {
		cfg.MergeStderr = mergeStderr
	}

	command := args[0]
	childArgs := args[1:]

	// Create dependencies
	deps, err := NewDependencies(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	// Create application
	app := NewApplication(deps)

	// Ensure terminal restoration on panic
	defer func() {
		if r := recover(); r != nil {
			_ = app.Stop() // Best effort child shutdown
			terminal.RestoreCooked()
			panic(r) // Re-panic
		}
	}()

	// Debug output if verbose
	if os.Getenv("PTYLINE_DEBUG") == "true" {
		fmt.Fprintf(os.Stderr, "ptyline: starting %s with args: %v\n", command, childArgs)
	}

	// Run the application
	if err := app.Run(command, childArgs); err != nil {
		fmt.Fprintf(os.Stderr, "ptyline: %v\n", err)
		switch {
		case errors.Is(err, exec.ErrNotFound):
			os.Exit(127)
		case errors.Is(err, os.ErrPermission):
			os.Exit(126)
		}
		os.Exit(1)
	}

	// Exit with the same code as the wrapped process
	os.Exit(app.ExitCode())
}

func printUsage() {
	fmt.Println("ptyline - line editing and a persistent prompt for interactive commands")
	fmt.Println()
	fmt.Println("Usage: ptyline [OPTIONS] COMMAND [ARGS...]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  PTYLINE_PROMPT             Prompt text (default: \"> \")")
	fmt.Println("  PTYLINE_PROMPT_COLOR       Prompt color, ANSI number or #rrggbb (default: 6)")
	fmt.Println("  PTYLINE_FORWARD_INTERRUPT  Forward Ctrl-C to the child (default: true)")
	fmt.Println("  PTYLINE_MERGE_STDERR       Route child stderr through the pty (default: false)")
	fmt.Println("  PTYLINE_TRANSCRIPT         Append a copy of child output to this file")
	fmt.Println("  PTYLINE_CONFIG             Path to config file")
	fmt.Println()
	fmt.Println("Configuration file: ~/.config/ptyline/config.yaml")
}
