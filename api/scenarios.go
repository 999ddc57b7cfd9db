/*
scenarios.go - Built-in demo datasets

PURPOSE:

	Provides small OSG + PRODUCT datasets that each exercise one step of the
	resolver cascade. Running one goes through the same reconciler and run
	history as a real upload, so the demo output is exactly what a back
	office user would see.

AVAILABLE SCENARIOS:

	ac-tv:          Customer bought an AC and a TV; the SKU category picks the AC
	price-slab:     Two TVs, the SKU slab 20K-40K picks the cheaper one
	invoice-match:  Two TVs inside the slab, the shared invoice number decides
	repeat-plans:   Two plans for one purchase; the second finds the pool empty
	walk-in:        Plan sold to a customer with no product sale on file

USAGE VIA API:

	POST /api/scenarios/price-slab/run

ADDING NEW SCENARIOS:
 1. Add an entry to 'scenarios' with its product and OSG rows
 2. Add the expected outcome to scenarios_test.go

SEE ALSO:
  - handlers.go: run() shared with uploads
  - osg/resolver.go: The cascade each scenario demonstrates
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/osg-reconciler/generic"
	"github.com/warp/osg-reconciler/osg"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarioProductHeader = []string{
	osg.ColCustomerMobile, osg.ColModel, osg.ColCategory, osg.ColBrand,
	osg.ColInvoiceNumber, osg.ColItemRate, osg.ColIMEI,
}

var scenarioOSGHeader = []string{
	osg.ColCustomerMobile, "Date", osg.ColInvoiceNumber, "Customer Name",
	"Branch", osg.ColRetailerSKU, osg.ColPlanPrice,
}

type scenario struct {
	ScenarioDTO
	products   [][]string
	warranties [][]string
}

func (s scenario) tables() (products, warranties generic.Table) {
	return generic.NewTable("PRODUCT", scenarioProductHeader, s.products),
		generic.NewTable("OSG", scenarioOSGHeader, s.warranties)
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "ac-tv",
			Name:        "AC and TV",
			Description: "Two products on one mobile number; the SKU category selects the AC",
		},
		products: [][]string{
			{"9000000001", "AC-1.5T-5S", "AC", "Voltas", "BLR-1001", "38990", "VT5S00123"},
			{"9000000001", "TV-55-QLED", "TV", "Samsung", "BLR-1002", "54990", "SM55Q0456"},
		},
		warranties: [][]string{
			{"9000000001", "2025-05-27", "OSG-5001", "Asha Rao", "Koramangala",
				"AC : EWP : Warranty : AC : Dur : 1+4", "2499"},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "price-slab",
			Name:        "Price Slab",
			Description: "Two TVs; the 20K-40K slab in the SKU selects the one priced inside it",
		},
		products: [][]string{
			{"9000000002", "TV-43-UHD", "TV", "LG", "MUM-2001", "32000", "LG43U0789"},
			{"9000000002", "TV-65-OLED", "TV", "LG", "MUM-2002", "189000", "LG65O0012"},
		},
		warranties: [][]string{
			{"9000000002", "2025-06-02", "OSG-5002", "Vikram Shah", "Andheri",
				"HAEW : Warranty : TV : Slab : 20K-40K : Dur : 1+2", "1899"},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "invoice-match",
			Name:        "Invoice Match",
			Description: "Two TVs inside the slab; the matching invoice number decides",
		},
		products: [][]string{
			{"9000000003", "TV-43-A", "TV", "Sony", "HYD-3001", "30000", "SN43A0001"},
			{"9000000003", "TV-43-B", "TV", "Sony", "HYD-3002", "31000", "SN43B0002"},
		},
		warranties: [][]string{
			{"9000000003", "2025-06-10", "HYD-3002", "Meena Iyer", "Banjara Hills",
				"TV : TTC : Warranty and Protection : TV : Slab : 20K-40K : 2+1 SDP-1", "2199"},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "repeat-plans",
			Name:        "Repeat Plans",
			Description: "Two plans for a single refrigerator; the second is flagged as exhausted",
		},
		products: [][]string{
			{"9000000004", "REF-260L", "REFRIGERATOR", "Whirlpool", "CHN-4001", "27490", "WP260L0099"},
		},
		warranties: [][]string{
			{"9000000004", "2025-07-01", "OSG-5004", "Karthik N", "T Nagar",
				"HAEW : Warranty : Ref/WM : Dur : 2", "1299"},
			{"9000000004", "2025-07-01", "OSG-5005", "Karthik N", "T Nagar",
				"HAEW : Warranty : Ref/WM : Dur : 2", "1299"},
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "walk-in",
			Name:        "Walk-in",
			Description: "Plan sold to a number with no product sale; left unresolved for review",
		},
		products: [][]string{
			{"9000000001", "AC-1.5T-5S", "AC", "Voltas", "BLR-1001", "38990", "VT5S00123"},
		},
		warranties: [][]string{
			{"9000000099", "2025-07-15", "OSG-5006", "Guest", "Indiranagar",
				"HAEW : Warranty : TV", "abc"},
		},
	},
}

func init() {
	for i := range scenarios {
		scenarios[i].Records = len(scenarios[i].warranties)
	}
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RunScenario reconciles a built-in dataset and returns the JSON report.
// POST /api/scenarios/{id}/run
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := findScenario(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Scenario not found", nil)
		return
	}

	products, warranties := s.tables()
	runID, report, ok := h.run(w, r, generic.SourceScenario, products, warranties,
		"scenario:"+s.ID, "scenario:"+s.ID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toReportResponse(runID, report))
}
