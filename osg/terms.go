package osg

import (
	"regexp"
	"strconv"
)

// =============================================================================
// WARRANTY-TERM PARSER
// =============================================================================

// Term is the manufacturer warranty and plan duration encoded in a SKU.
// Duration is usually a year count but rule b yields a composite
// descriptor such as "2P+1W".
type Term struct {
	ManufacturerWarranty string
	Duration             string
}

// Parsed reports whether any rule matched.
func (t Term) Parsed() bool {
	return t.ManufacturerWarranty != "" || t.Duration != ""
}

type termRule struct {
	pattern *regexp.Regexp
	build   func(m []string) Term
}

// Specific patterns come before the bare "X+Y" fallback, which would also
// match inside "Dur : 1+2" and "1+2 SDP-3".
var termRules = []termRule{
	{
		pattern: regexp.MustCompile(`Dur\s*:\s*(\d+)\+(\d+)`),
		build:   func(m []string) Term { return Term{number(m[1]), number(m[2])} },
	},
	{
		pattern: regexp.MustCompile(`(\d+)\+(\d+)\s*SDP-(\d+)`),
		build: func(m []string) Term {
			return Term{number(m[1]), number(m[3]) + "P+" + number(m[2]) + "W"}
		},
	},
	{
		pattern: regexp.MustCompile(`Dur\s*:\s*(\d+)`),
		build:   func(m []string) Term { return Term{"1", number(m[1])} },
	},
	{
		pattern: regexp.MustCompile(`(\d+)\+(\d+)`),
		build:   func(m []string) Term { return Term{number(m[1]), number(m[2])} },
	},
}

// ParseTerm tries each rule in order; the first match wins. No match leaves
// both fields blank.
func ParseTerm(sku string) Term {
	for _, r := range termRules {
		if m := r.pattern.FindStringSubmatch(sku); m != nil {
			return r.build(m)
		}
	}
	return Term{}
}

// number renders a digit run as an integer ("02" -> "2").
func number(digits string) string {
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return digits
	}
	return strconv.FormatUint(n, 10)
}
