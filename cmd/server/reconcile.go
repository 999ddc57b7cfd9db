package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/warp/osg-reconciler/generic"
	"github.com/warp/osg-reconciler/osg"
	"github.com/warp/osg-reconciler/sheet"
	"github.com/warp/osg-reconciler/store/sqlite"
	"go.uber.org/zap"
)

type reconcileOptions struct {
	osgPath     string
	productPath string
	outPath     string
	format      string
}

// newReconcileCmd reconciles a file pair on disk. The run is recorded in
// the database only when --db is given.
func newReconcileCmd(a *app) *cobra.Command {
	var opts reconcileOptions

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile an OSG file against a PRODUCT file",
		Example: "  osgrecon reconcile --osg OSG.xlsx --product PRODUCT.xlsx --out report.xlsx\n" +
			"  osgrecon reconcile --osg osg.csv --product product.csv --out report.csv --format csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.reconcile(ctx, cmd.OutOrStdout(), opts, cmd.Flags().Changed("db"))
		},
	}
	cmd.Flags().StringVar(&opts.osgPath, "osg", "", "OSG file (.xlsx, .xls or .csv)")
	cmd.Flags().StringVar(&opts.productPath, "product", "", "PRODUCT file (.xlsx, .xls or .csv)")
	cmd.Flags().StringVar(&opts.outPath, "out", "report.xlsx", "Output file")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: xlsx or csv (default: from --out extension)")
	_ = cmd.MarkFlagRequired("osg")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

func (a *app) reconcile(ctx context.Context, stdout io.Writer, opts reconcileOptions, record bool) error {
	format, err := outputFormat(opts)
	if err != nil {
		return err
	}

	warranties, err := loadTable(opts.osgPath)
	if err != nil {
		return err
	}
	products, err := loadTable(opts.productPath)
	if err != nil {
		return err
	}

	reconciler, err := a.reconciler()
	if err != nil {
		return err
	}
	report, err := reconciler.Run(ctx, products, warranties)
	if err != nil {
		return err
	}

	if err := writeOutput(opts.outPath, format, report); err != nil {
		return err
	}

	runID := uuid.NewString()
	if record {
		if err := a.recordRun(ctx, runID, report, opts); err != nil {
			return err
		}
	}

	printSummary(stdout, runID, opts.outPath, report.Summary)
	return nil
}

func outputFormat(opts reconcileOptions) (string, error) {
	format := strings.ToLower(opts.format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.outPath)), ".")
	}
	switch format {
	case "xlsx", "csv":
		return format, nil
	}
	return "", fmt.Errorf("output %q: %w %q, want xlsx or csv", opts.outPath, generic.ErrUnsupportedFormat, format)
}

func loadTable(path string) (generic.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return generic.Table{}, err
	}
	defer f.Close()
	return sheet.ReadTable(path, f)
}

func writeOutput(path, format string, report *osg.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if format == "csv" {
		return sheet.WriteCSV(f, report)
	}
	return sheet.WriteReport(f, report)
}

func (a *app) recordRun(ctx context.Context, runID string, report *osg.Report, opts reconcileOptions) error {
	store, err := sqlite.New(a.cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	run := report.Summary.Record(runID, generic.SourceCLI,
		filepath.Base(opts.productPath), filepath.Base(opts.osgPath), time.Now().UTC())
	if err := store.SaveRun(ctx, run); err != nil {
		return err
	}
	a.logger.Info("run recorded", zap.String("run_id", runID), zap.String("db", a.cfg.DBPath))
	return nil
}

func printSummary(w io.Writer, runID, out string, s osg.Summary) {
	fmt.Fprintf(w, "run %s: wrote %s\n", runID, out)
	fmt.Fprintf(w, "  records:      %d\n", s.Total)
	fmt.Fprintf(w, "  resolved:     %d\n", s.Resolved)
	fmt.Fprintf(w, "  unresolved:   %d\n", s.Unresolved)
	fmt.Fprintf(w, "  needs review: %d\n", s.NeedsReview)

	stages := make([]string, 0, len(s.ByStage))
	for st := range s.ByStage {
		stages = append(stages, string(st))
	}
	sort.Strings(stages)
	for _, st := range stages {
		fmt.Fprintf(w, "    %-14s %d\n", st, s.ByStage[osg.Stage(st)])
	}
}
