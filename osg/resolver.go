package osg

// =============================================================================
// CANDIDATE RESOLVER - Narrow a customer's products to one model
// =============================================================================

// Resolver picks the product model a warranty plan was sold with. The two
// tables share no join key, so the resolver works down a fixed cascade and
// stops at the first rule that leaves exactly one distinct model:
//
//  1. same customer                  -> none: unresolved
//  2. one distinct model             -> done
//  3. category compatible with SKU   -> one model: done
//  4. item rate inside the SKU slab  -> one model: done (only if a slab exists)
//  5. product invoice == OSG invoice -> one model: done (only inside step 4)
//  6. anything else                  -> unresolved, never guessed
//
// Resolve is a pure function of the warranty record and the product table.
type Resolver struct {
	classifier *Classifier
	byCustomer map[string][]ProductRecord
}

// NewResolver indexes products by customer, preserving input order.
func NewResolver(classifier *Classifier, products []ProductRecord) *Resolver {
	idx := make(map[string][]ProductRecord)
	for _, p := range products {
		idx[p.CustomerID] = append(idx[p.CustomerID], p)
	}
	return &Resolver{classifier: classifier, byCustomer: idx}
}

// Candidates returns the customer's product records in input order.
func (r *Resolver) Candidates(customerID string) []ProductRecord {
	return r.byCustomer[customerID]
}

// Resolve runs the cascade for one warranty record.
func (r *Resolver) Resolve(w WarrantyRecord) Resolution {
	candidates := r.byCustomer[w.CustomerID]
	if len(candidates) == 0 {
		return Resolution{Stage: StageNoCandidates}
	}

	if model, ok := singleModel(candidates); ok {
		return resolved(model, StageSingleModel)
	}

	keywords := r.classifier.Classify(w.RetailerSKU)
	byCategory := filter(candidates, func(p ProductRecord) bool {
		return keywords.Contains(p.Category)
	})
	if model, ok := singleModel(byCategory); ok {
		return resolved(model, StageCategory)
	}

	slab, found := ExtractPriceSlab(w.RetailerSKU)
	if !found || !slab.Bounded() {
		return Resolution{Stage: StageAmbiguous}
	}

	bySlab := filter(byCategory, func(p ProductRecord) bool {
		return slab.Contains(p.ItemRate)
	})
	if model, ok := singleModel(bySlab); ok {
		return resolved(model, StageSlab)
	}

	byInvoice := filter(bySlab, func(p ProductRecord) bool {
		return p.InvoiceNumber == w.InvoiceNumber
	})
	if model, ok := singleModel(byInvoice); ok {
		return resolved(model, StageInvoice)
	}

	return Resolution{Stage: StageAmbiguous}
}

// A blank model is a distinct value for counting purposes, but resolving to
// it leaves the record unresolved.
func resolved(model string, stage Stage) Resolution {
	if model == "" {
		return Resolution{Stage: StageAmbiguous}
	}
	return Resolution{Model: model, Stage: stage}
}

func singleModel(products []ProductRecord) (string, bool) {
	if len(products) == 0 {
		return "", false
	}
	first := products[0].Model
	for _, p := range products[1:] {
		if p.Model != first {
			return "", false
		}
	}
	return first, true
}

func filter(products []ProductRecord, keep func(ProductRecord) bool) []ProductRecord {
	var out []ProductRecord
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
