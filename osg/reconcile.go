package osg

import (
	"context"
	"fmt"

	"github.com/warp/osg-reconciler/generic"
	"go.uber.org/zap"
)

// =============================================================================
// RECONCILER - One batch pass over an OSG upload and a PRODUCT upload
// =============================================================================

// Reconciler runs the full pipeline:
//
//	normalize both tables
//	resolve a model for every warranty record (pure, per record)
//	build the allocation pool
//	assemble rows in warranty input order (consumes the pool)
//
// A Reconciler is read-only after construction and may serve many runs;
// every run gets its own pool.
type Reconciler struct {
	classifier *Classifier
	logger     *zap.Logger
}

// NewReconciler uses DefaultKeywordRules when classifier is nil and a no-op
// logger when logger is nil.
func NewReconciler(classifier *Classifier, logger *zap.Logger) *Reconciler {
	if classifier == nil {
		classifier = NewClassifier(DefaultKeywordRules())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{classifier: classifier, logger: logger}
}

// Classifier returns the keyword classifier in use.
func (r *Reconciler) Classifier() *Classifier { return r.classifier }

// Run reconciles one upload pair. Missing tables or required columns are
// fatal. Per-row problems only set review flags. If ctx is canceled the run
// stops and no partial report is returned.
func (r *Reconciler) Run(ctx context.Context, products, warranties generic.Table) (*Report, error) {
	productRecords, err := NormalizeProducts(products)
	if err != nil {
		return nil, err
	}
	warrantyRecords, err := NormalizeWarranties(warranties)
	if err != nil {
		return nil, err
	}

	resolver := NewResolver(r.classifier, productRecords)
	resolutions := make([]Resolution, len(warrantyRecords))
	for i, w := range warrantyRecords {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("reconcile aborted at row %d: %w", i, err)
		}
		resolutions[i] = resolver.Resolve(w)
		r.logger.Debug("resolved warranty record",
			zap.Int("row", w.Row),
			zap.String("customer", w.CustomerID),
			zap.String("stage", string(resolutions[i].Stage)),
			zap.String("model", resolutions[i].Model))
	}

	assembler := NewAssembler(productRecords)
	rows := make([]ReportRow, len(warrantyRecords))
	for i, w := range warrantyRecords {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("reconcile aborted at row %d: %w", i, err)
		}
		rows[i] = assembler.Row(w, resolutions[i])
		if rows[i].NeedsReview {
			r.logger.Debug("row flagged for review",
				zap.Int("row", w.Row),
				zap.Any("reasons", rows[i].Reasons))
		}
	}

	summary := assembler.Summary()
	r.logger.Info("reconciliation complete",
		zap.Int("products", len(productRecords)),
		zap.Int("warranties", summary.Total),
		zap.Int("resolved", summary.Resolved),
		zap.Int("unresolved", summary.Unresolved),
		zap.Int("needs_review", summary.NeedsReview))

	columns := make([]string, len(OutputColumns))
	copy(columns, OutputColumns)
	return &Report{Columns: columns, Rows: rows, Summary: summary}, nil
}
