/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the reconciliation model from the external API contract, so stage and
  reason enums can evolve without breaking clients.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Response: Complex response wrappers

TYPES:
  Reconciliation:
    ReportResponse, ReportRowDTO, SummaryDTO

  History:
    RunDTO

  Configuration:
    KeywordRuleDTO

  Scenarios:
    ScenarioDTO

SEE ALSO:
  - handlers.go: Uses these types
  - osg/report.go: Report and Summary
*/
package api

import (
	"time"

	"github.com/warp/osg-reconciler/generic"
	"github.com/warp/osg-reconciler/osg"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ReportResponse is the JSON form of an enriched report.
type ReportResponse struct {
	RunID   string         `json:"run_id"`
	Summary SummaryDTO     `json:"summary"`
	Columns []string       `json:"columns"`
	Rows    []ReportRowDTO `json:"rows"`
}

// ReportRowDTO is one enriched row. Values is keyed by column name; the
// order is given by ReportResponse.Columns.
type ReportRowDTO struct {
	Values      map[string]string `json:"values"`
	Stage       string            `json:"stage"`
	NeedsReview bool              `json:"needs_review"`
	Reasons     []string          `json:"reasons,omitempty"`
}

// SummaryDTO counts outcomes of one run.
type SummaryDTO struct {
	Total       int            `json:"total"`
	Resolved    int            `json:"resolved"`
	Unresolved  int            `json:"unresolved"`
	NeedsReview int            `json:"needs_review"`
	ByStage     map[string]int `json:"by_stage"`
	ByReason    map[string]int `json:"by_reason"`
}

// RunDTO represents a stored run in API responses.
type RunDTO struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	ProductFile  string `json:"product_file,omitempty"`
	WarrantyFile string `json:"warranty_file,omitempty"`
	SummaryDTO
	CreatedAt string `json:"created_at"`
}

// KeywordRuleDTO is one entry of the active keyword table.
type KeywordRuleDTO struct {
	Token    string   `json:"token"`
	Keywords []string `json:"keywords"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Records     int    `json:"records"`
}

// Error codes carried in ErrorResponse.Code.
const (
	CodeBadRequest        = "bad_request"
	CodeUnsupportedFormat = "unsupported_format"
	CodeMissingTable      = "missing_table"
	CodeMissingColumn     = "missing_column"
	CodeUploadTooLarge    = "upload_too_large"
	CodeNotFound          = "not_found"
	CodeInternal          = "internal"
)

// ErrorResponse is the standard error response. Code is machine-readable;
// Error is for people.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toReportResponse(runID string, report *osg.Report) ReportResponse {
	rows := make([]ReportRowDTO, len(report.Rows))
	for i, row := range report.Rows {
		reasons := make([]string, len(row.Reasons))
		for j, r := range row.Reasons {
			reasons[j] = string(r)
		}
		rows[i] = ReportRowDTO{
			Values:      row.Values,
			Stage:       string(row.Stage),
			NeedsReview: row.NeedsReview,
			Reasons:     reasons,
		}
	}
	rec := report.Summary.Record(runID, "", "", "", time.Time{})
	return ReportResponse{
		RunID:   runID,
		Summary: toSummaryDTO(rec),
		Columns: report.Columns,
		Rows:    rows,
	}
}

func toSummaryDTO(run generic.RunRecord) SummaryDTO {
	return SummaryDTO{
		Total:       run.Total,
		Resolved:    run.Resolved,
		Unresolved:  run.Unresolved,
		NeedsReview: run.NeedsReview,
		ByStage:     run.ByStage,
		ByReason:    run.ByReason,
	}
}

func toRunDTO(run generic.RunRecord) RunDTO {
	return RunDTO{
		ID:           run.ID,
		Source:       string(run.Source),
		ProductFile:  run.ProductFile,
		WarrantyFile: run.WarrantyFile,
		SummaryDTO:   toSummaryDTO(run),
		CreatedAt:    run.CreatedAt.Format(time.RFC3339),
	}
}

func toKeywordRuleDTOs(rules []osg.KeywordRule) []KeywordRuleDTO {
	dtos := make([]KeywordRuleDTO, len(rules))
	for i, r := range rules {
		dtos[i] = KeywordRuleDTO{Token: r.Token, Keywords: r.Keywords}
	}
	return dtos
}
