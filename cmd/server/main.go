/*
main.go - Application entry point

PURPOSE:
  Builds the osgrecon command tree. The same binary serves the HTTP API and
  reconciles a file pair from the command line.

COMMANDS:
  osgrecon serve       Start the HTTP API (see serve.go)
  osgrecon reconcile   Reconcile two files on disk (see reconcile.go)

CONFIGURATION:
  Settings come from an optional .env file and OSG_* environment variables
  (see config/config.go). Flags override both:

  --env         .env file to load (default: .env)
  --db          SQLite database path, ":memory:" for in-memory
  --keywords    YAML or JSON keyword table (default: built-in)
  --verbose     Debug logging

EXAMPLES:
  # Serve with a file database
  osgrecon serve --db ./data/osg.db

  # Reconcile locally and write a styled workbook
  osgrecon reconcile --osg OSG.xlsx --product PRODUCT.xlsx --out report.xlsx

SEE ALSO:
  - api/server.go: Router configuration
  - osg/reconcile.go: The reconciler
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/osg-reconciler/config"
	"github.com/warp/osg-reconciler/factory"
	"github.com/warp/osg-reconciler/osg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries state shared by all subcommands.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	envFile  string
	dbPath   string
	keywords string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "osgrecon",
		Short:         "Reconcile extended-warranty plan sales against product sales",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env", ".env", "Environment file to load")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (overrides "+config.EnvDBPath+")")
	root.PersistentFlags().StringVar(&a.keywords, "keywords", "", "Keyword table file (overrides "+config.EnvKeywordsPath+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newReconcileCmd(a))
	return root
}

// init resolves configuration and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = a.dbPath
	}
	if flags.Changed("keywords") {
		cfg.KeywordsPath = a.keywords
	}
	if a.verbose {
		cfg.LogLevel = zapcore.DebugLevel
	}
	a.cfg = cfg

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// reconciler builds the engine with the configured keyword table.
func (a *app) reconciler() (*osg.Reconciler, error) {
	if a.cfg.KeywordsPath == "" {
		return osg.NewReconciler(nil, a.logger), nil
	}
	rules, err := factory.LoadKeywordRules(a.cfg.KeywordsPath)
	if err != nil {
		return nil, err
	}
	a.logger.Info("loaded keyword table",
		zap.String("path", a.cfg.KeywordsPath),
		zap.Int("rules", len(rules)))
	return osg.NewReconciler(osg.NewClassifier(rules), a.logger), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
