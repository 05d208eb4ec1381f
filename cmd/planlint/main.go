// Command planlint validates implementation plans: stage numbering,
// dependency ordering, cycles, and completion criteria quality.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planlint/planlint/internal/config"
	"github.com/planlint/planlint/internal/planning"
	"github.com/planlint/planlint/internal/storage"
)

// version is stamped by the release build; "dev" otherwise.
var version = "dev"

var (
	cfg     *config.Config
	cfgPath string
	dbPath  string
	noColor bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "planlint",
	Short: "Structural validator for implementation plans",
	Long: `planlint checks plan documents before work starts: stage ids are unique,
dependencies point backward and never cycle, and every stage carries
completion criteria concrete enough to verify.

Reports collect every problem in one pass. Exit code 0 means the plan is
valid; 1 means violations were found; 2 means planlint itself could not run.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded

		if dbPath != "" {
			cfg.Database.Path = dbPath
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		if noColor {
			color.NoColor = true
		}

		config.ConfigureSlog(os.Stderr, cfg.Log)
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() == context.Canceled {
			fmt.Fprintln(os.Stderr, "\nInterrupted")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default .planlint/config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default from config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// lintContext builds validation tunables from the loaded config.
func lintContext() *planning.ValidationContext {
	return &planning.ValidationContext{
		Denylist:            cfg.Lint.Denylist(),
		SimilarityThreshold: cfg.Lint.SimilarityThreshold,
		ToolVersion:         version,
	}
}

// openStore opens the configured database, creating it if needed. Callers
// own the returned store and must Close it.
func openStore(ctx context.Context) (storage.Store, error) {
	return storage.NewStore(ctx, &storage.Config{
		Path:            cfg.Database.Path,
		KeepRunsPerPlan: cfg.History.KeepPerPlan,
	})
}

// openExistingStore opens a database that must already exist: an explicit
// --db wins, otherwise the current directory is searched. Read-side commands
// use this so listing plans never creates an empty database.
func openExistingStore(ctx context.Context) (storage.Store, error) {
	path := dbPath
	if path == "" {
		discovered, err := storage.DiscoverDatabase()
		if err != nil {
			return nil, err
		}
		path = discovered
	}
	return storage.NewStore(ctx, &storage.Config{
		Path:            path,
		KeepRunsPerPlan: cfg.History.KeepPerPlan,
	})
}
