package osg

import (
	"github.com/shopspring/decimal"
	"github.com/warp/osg-reconciler/generic"
)

// =============================================================================
// ALLOCATION POOL - Hand each physical unit to at most one warranty record
// =============================================================================

// Attribute names a per-unit product value held in the pool.
type Attribute string

const (
	AttrInvoice  Attribute = "invoice_number"
	AttrItemRate Attribute = "item_rate"
	AttrSerial   Attribute = "serial_id"
)

// PoolKey groups product rows by customer and model.
type PoolKey struct {
	CustomerID string
	Model      string
}

// AllocationPool holds, per (customer, model), the invoice numbers, item
// rates and serials of every matching product row in input order. Each
// attribute has its own cursor.
//
// Pairing is FIFO: the first warranty record resolved to a key receives the
// first product row's values. That assumes both files list a customer's
// purchases in the same receipt order. Nothing enforces it, so callers treat
// the pairing as a heuristic and flag exhaustion for review.
//
// A pool belongs to exactly one run and is not safe for concurrent use.
type AllocationPool struct {
	invoices *generic.KeyedFIFO[PoolKey, string]
	rates    *generic.KeyedFIFO[PoolKey, decimal.NullDecimal]
	serials  *generic.KeyedFIFO[PoolKey, string]
}

// NewAllocationPool loads every product row. A missing serial or rate is
// queued as an empty value so the N-th take for a key always corresponds to
// the N-th product row of that key.
func NewAllocationPool(products []ProductRecord) *AllocationPool {
	p := &AllocationPool{
		invoices: generic.NewKeyedFIFO[PoolKey, string](),
		rates:    generic.NewKeyedFIFO[PoolKey, decimal.NullDecimal](),
		serials:  generic.NewKeyedFIFO[PoolKey, string](),
	}
	for _, pr := range products {
		k := PoolKey{CustomerID: pr.CustomerID, Model: pr.Model}
		p.invoices.Push(k, pr.InvoiceNumber)
		p.rates.Push(k, pr.ItemRate)
		p.serials.Push(k, pr.SerialID)
	}
	return p
}

func (p *AllocationPool) TakeInvoice(customerID, model string) (string, bool) {
	return p.invoices.Take(PoolKey{customerID, model})
}

func (p *AllocationPool) TakeItemRate(customerID, model string) (decimal.NullDecimal, bool) {
	return p.rates.Take(PoolKey{customerID, model})
}

func (p *AllocationPool) TakeSerial(customerID, model string) (string, bool) {
	return p.serials.Take(PoolKey{customerID, model})
}

// Take returns the next unused value of attr for the key, rendered as
// text. ok is false when the key is unknown or its list is exhausted.
func (p *AllocationPool) Take(customerID, model string, attr Attribute) (string, bool) {
	switch attr {
	case AttrInvoice:
		return p.TakeInvoice(customerID, model)
	case AttrItemRate:
		rate, ok := p.TakeItemRate(customerID, model)
		return generic.FormatDecimal(rate), ok
	case AttrSerial:
		return p.TakeSerial(customerID, model)
	}
	return "", false
}

// Remaining returns how many values of attr are still unassigned for the key.
func (p *AllocationPool) Remaining(customerID, model string, attr Attribute) int {
	k := PoolKey{customerID, model}
	switch attr {
	case AttrInvoice:
		return p.invoices.Remaining(k)
	case AttrItemRate:
		return p.rates.Remaining(k)
	case AttrSerial:
		return p.serials.Remaining(k)
	}
	return 0
}

// Keys returns the number of distinct (customer, model) groups.
func (p *AllocationPool) Keys() int { return p.invoices.Keys() }
