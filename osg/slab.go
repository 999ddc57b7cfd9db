package osg

import (
	"regexp"

	"github.com/shopspring/decimal"
	"github.com/warp/osg-reconciler/generic"
)

var slabPattern = regexp.MustCompile(`Slab\s*:\s*(\d+)K-(\d+)K`)

var thousand = decimal.NewFromInt(1000)

// PriceSlab is an inclusive item-rate range encoded in a retailer SKU.
type PriceSlab struct {
	Low  decimal.Decimal
	High decimal.Decimal
}

// Contains reports whether a valid rate lies within the slab.
func (s PriceSlab) Contains(rate decimal.NullDecimal) bool {
	return generic.InRange(rate, s.Low, s.High)
}

// Bounded reports whether both bounds are non-zero. A slab with a zero
// bound does not narrow candidates.
func (s PriceSlab) Bounded() bool {
	return !s.Low.IsZero() && !s.High.IsZero()
}

// ExtractPriceSlab parses "Slab : 10K-20K" into [10000, 20000]. Values are
// thousands. ok is false when the SKU carries no slab.
func ExtractPriceSlab(sku string) (PriceSlab, bool) {
	m := slabPattern.FindStringSubmatch(sku)
	if m == nil {
		return PriceSlab{}, false
	}
	low, errLow := decimal.NewFromString(m[1])
	high, errHigh := decimal.NewFromString(m[2])
	if errLow != nil || errHigh != nil {
		return PriceSlab{}, false
	}
	return PriceSlab{Low: low.Mul(thousand), High: high.Mul(thousand)}, true
}
