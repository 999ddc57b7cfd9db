package osg

import "strings"

// =============================================================================
// CATEGORY CLASSIFIER - Retailer SKU to compatible product categories
// =============================================================================

// KeywordRule maps a retailer SKU token to the product categories a plan
// carrying that token can cover.
type KeywordRule struct {
	Token    string   `json:"token" yaml:"token"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// KeywordSet is a set of lower-cased category keywords.
type KeywordSet map[string]struct{}

// Contains reports whether category, compared case-insensitively, is in the set.
func (s KeywordSet) Contains(category string) bool {
	_, ok := s[strings.ToLower(category)]
	return ok
}

// Classifier matches SKUs against an ordered rule list. Tokens overlap
// ("HAEW : Warranty : TV" and "TV : Spill and Drop Protection" can both sit
// in one SKU), so the order of the list is part of the result: the first
// rule whose token occurs in the SKU wins.
type Classifier struct {
	rules []KeywordRule
	sets  []KeywordSet
}

// NewClassifier copies the rules and pre-lowers their keywords.
func NewClassifier(rules []KeywordRule) *Classifier {
	c := &Classifier{
		rules: make([]KeywordRule, len(rules)),
		sets:  make([]KeywordSet, len(rules)),
	}
	for i, r := range rules {
		kws := make([]string, len(r.Keywords))
		copy(kws, r.Keywords)
		c.rules[i] = KeywordRule{Token: r.Token, Keywords: kws}

		set := make(KeywordSet, len(kws))
		for _, kw := range kws {
			set[strings.ToLower(kw)] = struct{}{}
		}
		c.sets[i] = set
	}
	return c
}

// Classify returns the keyword set of the first matching rule, or an empty
// set when no token occurs in sku.
func (c *Classifier) Classify(sku string) KeywordSet {
	if i := c.match(sku); i >= 0 {
		return c.sets[i]
	}
	return KeywordSet{}
}

// MatchToken returns the token of the first matching rule.
func (c *Classifier) MatchToken(sku string) (string, bool) {
	if i := c.match(sku); i >= 0 {
		return c.rules[i].Token, true
	}
	return "", false
}

// Rules returns a copy of the rule list in matching order.
func (c *Classifier) Rules() []KeywordRule {
	out := make([]KeywordRule, len(c.rules))
	for i, r := range c.rules {
		kws := make([]string, len(r.Keywords))
		copy(kws, r.Keywords)
		out[i] = KeywordRule{Token: r.Token, Keywords: kws}
	}
	return out
}

func (c *Classifier) match(sku string) int {
	for i, r := range c.rules {
		if r.Token != "" && strings.Contains(sku, r.Token) {
			return i
		}
	}
	return -1
}
