/*
handlers.go - HTTP API handlers for the OSG reconciler

PURPOSE:
  Exposes the reconciliation engine via REST API. Handles multipart uploads,
  content negotiation for the report, and run history. All matching logic
  lives in package osg.

ENDPOINTS:
  Reconciliation:
    POST   /api/reconcile              multipart: osg, product
                                       ?format=xlsx (default) | csv | json

  History:
    GET    /api/runs                   List runs, newest first (?limit=N)
    GET    /api/runs/{id}              Get one run summary

  Configuration:
    GET    /api/keywords               Active keyword table, in match order

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    POST   /api/scenarios/{id}/run     Reconcile a built-in dataset

REQUEST FLOW:
  1. Parse the upload (size-limited)
  2. Load both files into generic tables
  3. Run the reconciler
  4. Save the run summary
  5. Serialize the report

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status and a code
  from dto.go (missing_column, upload_too_large, ...):
  - 400: Unsupported file, missing table or column, bad query
  - 404: Run or scenario not found
  - 413: Upload over the size limit
  - 500: Internal errors

SEE ALSO:
  - dto.go: Response data structures
  - scenarios.go: Demo datasets
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/osg-reconciler/generic"
	"github.com/warp/osg-reconciler/osg"
	"github.com/warp/osg-reconciler/sheet"
	"go.uber.org/zap"
)

const (
	// RunIDHeader carries the run ID when the report is a file download.
	RunIDHeader = "X-Run-ID"

	DefaultMaxUploadBytes = 32 << 20
	defaultRunLimit       = 50

	formOSG     = "osg"
	formProduct = "product"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Reconciler *osg.Reconciler
	Store      generic.RunStore
	Logger     *zap.Logger

	// MaxUploadBytes caps the multipart body of /api/reconcile.
	MaxUploadBytes int64

	now func() time.Time
}

// NewHandler creates a new handler. A nil logger disables logging.
func NewHandler(reconciler *osg.Reconciler, store generic.RunStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Reconciler:     reconciler,
		Store:          store,
		Logger:         logger,
		MaxUploadBytes: DefaultMaxUploadBytes,
		now:            time.Now,
	}
}

// =============================================================================
// RECONCILIATION HANDLERS
// =============================================================================

// Reconcile enriches an uploaded OSG file against an uploaded PRODUCT file.
// POST /api/reconcile
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if !validFormat(format) {
		writeError(w, http.StatusBadRequest, "Unsupported report format",
			fmt.Errorf("%w %q, want xlsx, csv or json", generic.ErrUnsupportedFormat, format))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large", err)
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	warranties, warrantyFile, err := readUpload(r, formOSG)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid OSG file", err)
		return
	}
	products, productFile, err := readUpload(r, formProduct)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid PRODUCT file", err)
		return
	}

	runID, report, ok := h.run(w, r, generic.SourceAPI, products, warranties, productFile, warrantyFile)
	if !ok {
		return
	}

	h.writeReport(w, format, runID, report)
}

func (h *Handler) writeReport(w http.ResponseWriter, format, runID string, report *osg.Report) {
	switch format {
	case "json":
		writeJSON(w, http.StatusOK, toReportResponse(runID, report))
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="report.csv"`)
		w.Header().Set(RunIDHeader, runID)
		if err := sheet.WriteCSV(w, report); err != nil {
			h.Logger.Error("write csv report", zap.String("run_id", runID), zap.Error(err))
		}
	default:
		w.Header().Set("Content-Type", sheet.ContentTypeXLSX)
		w.Header().Set("Content-Disposition", `attachment; filename="report.xlsx"`)
		w.Header().Set(RunIDHeader, runID)
		if err := sheet.WriteReport(w, report); err != nil {
			h.Logger.Error("write xlsx report", zap.String("run_id", runID), zap.Error(err))
		}
	}
}

// run reconciles and records the summary. On failure it writes the error
// response and returns ok=false.
func (h *Handler) run(w http.ResponseWriter, r *http.Request, source generic.RunSource,
	products, warranties generic.Table, productFile, warrantyFile string) (string, *osg.Report, bool) {
	ctx := r.Context()

	report, err := h.Reconciler.Run(ctx, products, warranties)
	if err != nil {
		if generic.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Cannot reconcile uploads", err)
		} else {
			h.Logger.Error("reconcile failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Reconciliation failed", err)
		}
		return "", nil, false
	}

	runID := uuid.NewString()
	record := report.Summary.Record(runID, source, productFile, warrantyFile, h.now().UTC())
	if err := h.Store.SaveRun(ctx, record); err != nil {
		h.Logger.Error("save run", zap.String("run_id", runID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save run", err)
		return "", nil, false
	}

	h.Logger.Info("run recorded",
		zap.String("run_id", runID),
		zap.String("source", string(source)),
		zap.Int("total", record.Total),
		zap.Int("needs_review", record.NeedsReview))
	return runID, report, true
}

func readUpload(r *http.Request, field string) (generic.Table, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return generic.Table{}, "", fmt.Errorf("missing form field %q", field)
		}
		return generic.Table{}, "", err
	}
	defer file.Close()

	table, err := sheet.ReadTable(header.Filename, file)
	if err != nil {
		return generic.Table{}, "", err
	}
	return table, header.Filename, nil
}

func validFormat(format string) bool {
	switch format {
	case "", "xlsx", "csv", "json":
		return true
	}
	return false
}

// =============================================================================
// RUN HISTORY HANDLERS
// =============================================================================

// ListRuns returns stored run summaries, newest first.
// GET /api/runs?limit=N
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", fmt.Errorf("limit %q", v))
			return
		}
		limit = n
	}

	runs, err := h.Store.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": dtos})
}

// GetRun returns one run summary.
// GET /api/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.Store.GetRun(r.Context(), id)
	if err != nil {
		if generic.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Run not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get run", err)
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(*run))
}

// =============================================================================
// CONFIGURATION HANDLERS
// =============================================================================

// ListKeywords returns the keyword table the reconciler matches SKUs with.
// GET /api/keywords
func (h *Handler) ListKeywords(w http.ResponseWriter, r *http.Request) {
	rules := h.Reconciler.Classifier().Rules()
	writeJSON(w, http.StatusOK, map[string]any{"rules": toKeywordRuleDTOs(rules)})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message, Code: errorCode(status, err)}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// errorCode names the most specific cause in err's chain, falling back to
// the status class.
func errorCode(status int, err error) string {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return CodeUploadTooLarge
	case errors.Is(err, generic.ErrMissingColumn):
		return CodeMissingColumn
	case errors.Is(err, generic.ErrMissingTable):
		return CodeMissingTable
	case errors.Is(err, generic.ErrUnsupportedFormat):
		return CodeUnsupportedFormat
	case status == http.StatusNotFound:
		return CodeNotFound
	case status >= http.StatusInternalServerError:
		return CodeInternal
	}
	return CodeBadRequest
}
