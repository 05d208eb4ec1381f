// Package repl implements the interactive planlint shell.
package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/planlint/planlint/internal/planning"
	"github.com/planlint/planlint/internal/storage"
)

// REPL is the interactive shell. It holds one plan in session at a time,
// loaded from a file or fetched from the store, plus the report from the
// most recent check of that plan.
type REPL struct {
	store storage.Store
	lint  *planning.ValidationContext
	actor string

	rl       *readline.Instance
	ctx      context.Context
	commands map[string]CommandHandler

	// Session state.
	plan     *planning.Plan
	planPath string
	report   *planning.Report
}

// CommandHandler handles a single shell command.
type CommandHandler func(args []string) error

// Config holds REPL configuration.
type Config struct {
	// Store is optional; commands that need persistence fail with a hint
	// when it is nil, everything else still works.
	Store storage.Store

	// Lint carries validation tunables. Nil means defaults.
	Lint *planning.ValidationContext

	// Actor is recorded on approvals made from the shell.
	Actor string
}

// New creates a shell. The store may be nil for a check-only session.
func New(cfg *Config) *REPL {
	actor := cfg.Actor
	if actor == "" {
		actor = "user"
	}

	r := &REPL{
		store:    cfg.Store,
		lint:     cfg.Lint,
		actor:    actor,
		commands: make(map[string]CommandHandler),
	}
	r.registerCommands()
	return r
}

// Run starts the shell loop and blocks until exit.
func (r *REPL) Run(ctx context.Context) error {
	r.ctx = ctx

	// Command history persists across sessions when a home directory is
	// resolvable; otherwise it stays in memory.
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".planlint_history")
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("planlint> "),
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	r.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			} else if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := r.processInput(line); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
	}
}

// processInput dispatches a single line of input.
func (r *REPL) processInput(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	command := parts[0]
	args := parts[1:]

	if handler, ok := r.commands[command]; ok {
		return handler(args)
	}

	return fmt.Errorf("unknown command %q, type 'help' for available commands", command)
}

func (r *REPL) registerCommands() {
	r.commands["help"] = r.cmdHelp
	r.commands["?"] = r.cmdHelp
	r.commands["load"] = r.cmdLoad
	r.commands["check"] = r.cmdCheck
	r.commands["show"] = r.cmdShow
	r.commands["stages"] = r.cmdStages
	r.commands["denylist"] = r.cmdDenylist
	r.commands["plans"] = r.cmdPlans
	r.commands["save"] = r.cmdSave
	r.commands["approve"] = r.cmdApprove
	r.commands["history"] = r.cmdHistory
	r.commands["exit"] = r.cmdExit
	r.commands["quit"] = r.cmdExit
}

func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", cyan("planlint interactive shell"))
	fmt.Println("Load a plan, check it, fix it, save it.")
	fmt.Println()
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()
}

// cmdHelp shows help information.
func (r *REPL) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("Available Commands:"))
	commands := []struct {
		name string
		desc string
	}{
		{"load <file>", "Load a plan document into the session"},
		{"check", "Validate the session plan"},
		{"show", "Summarize the session plan and its last report"},
		{"stages", "List the session plan's stages"},
		{"denylist", "Show the vague-term denylist in effect"},
		{"plans [name]", "List stored plans, or load one into the session"},
		{"save", "Store the session plan (records the last check)"},
		{"approve <name>", "Approve a stored, validated plan"},
		{"history [name]", "Show recent validation runs"},
		{"help, ?", "Show this help message"},
		{"exit, quit", "Exit the shell"},
	}
	for _, cmd := range commands {
		fmt.Printf("  %-16s %s\n", green(cmd.name), cmd.desc)
	}
	fmt.Println()
	return nil
}

// cmdExit exits the shell.
func (r *REPL) cmdExit(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s Goodbye!\n", green("✓"))
	return io.EOF
}

// requireStore guards commands that need persistence.
func (r *REPL) requireStore() error {
	if r.store == nil {
		return fmt.Errorf("no database open; restart the shell with --db or from a directory with .planlint/")
	}
	return nil
}

// requirePlan guards commands that need a session plan.
func (r *REPL) requirePlan() error {
	if r.plan == nil {
		return fmt.Errorf("no plan loaded; use 'load <file>' or 'plans <name>' first")
	}
	return nil
}
