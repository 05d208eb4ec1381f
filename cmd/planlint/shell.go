package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planlint/planlint/internal/repl"
	"github.com/planlint/planlint/internal/storage"
)

var shellActor string

var shellCmd = &cobra.Command{
	Use:     "shell",
	Aliases: []string{"repl"},
	Short:   "Start the interactive shell",
	Long: `Start an interactive shell for iterating on a plan: load a document,
check it, inspect stages, store it, approve it.

The shell connects to the database given by --db or discovered in the
current directory. Without one, check-only commands still work.

Type 'help' in the shell for available commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var store storage.Store
		path := dbPath
		if path == "" {
			if discovered, err := storage.DiscoverDatabase(); err == nil {
				path = discovered
			}
		}
		if path != "" {
			opened, err := storage.NewStore(ctx, &storage.Config{
				Path:            path,
				KeepRunsPerPlan: cfg.History.KeepPerPlan,
			})
			if err != nil {
				return err
			}
			defer opened.Close()
			store = opened
		} else {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("%s No database found; save/plans/history are disabled this session\n", yellow("⚠"))
		}

		r := repl.New(&repl.Config{
			Store: store,
			Lint:  lintContext(),
			Actor: shellActor,
		})
		return r.Run(ctx)
	},
}

func init() {
	defaultActor := os.Getenv("USER")
	if defaultActor == "" {
		defaultActor = "user"
	}
	shellCmd.Flags().StringVar(&shellActor, "actor", defaultActor, "who is driving the session (recorded on approvals)")
	rootCmd.AddCommand(shellCmd)
}
