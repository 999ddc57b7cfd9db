/*
Package factory converts keyword table documents into classifier rules.

PURPOSE:
  The SKU keyword table changes whenever the retailer launches a plan
  family. The factory lets operations ship a new table as a file instead
  of a code change: YAML or JSON in, an ordered []osg.KeywordRule out.

WHY A LIST, NOT A MAP?
  Tokens overlap, so the classifier is first-match-wins and the order of
  the table is part of its meaning. Mapping types in YAML and JSON have no
  guaranteed order; the document is therefore a sequence.

DOCUMENT SCHEMA (YAML):
  rules:
    - token: "AC : EWP : Warranty : AC"
      keywords: [AC, AIR CONDITIONER, AC INDOOR]
    - token: "HAEW : Warranty : TV"
      keywords: [TV, "TV 28 %", "TV 18 %"]

  A bare top-level sequence (without "rules:") is accepted too. JSON is
  valid YAML, so the same parser reads both.

VALIDATION:
  - at least one rule
  - every token non-blank and unique
  - every rule has at least one non-blank keyword

USAGE:
  rules, err := factory.LoadKeywordRules("keywords.yaml")
  classifier := osg.NewClassifier(rules)

SEE ALSO:
  - osg/classifier.go: Consumes the rules
  - osg/keywords.go: Built-in default table
*/
package factory

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/warp/osg-reconciler/osg"
	"gopkg.in/yaml.v3"
)

// ErrInvalidKeywordTable is returned when a document fails validation.
var ErrInvalidKeywordTable = errors.New("invalid keyword table")

// KeywordTableDoc is the on-disk representation.
type KeywordTableDoc struct {
	Rules []osg.KeywordRule `yaml:"rules" json:"rules"`
}

// ParseKeywordRules decodes and validates a YAML or JSON keyword table.
func ParseKeywordRules(data []byte) ([]osg.KeywordRule, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidKeywordTable)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeywordTable, err)
	}

	var rules []osg.KeywordRule
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		if err := node.Content[0].Decode(&rules); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKeywordTable, err)
		}
	} else {
		var doc KeywordTableDoc
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKeywordTable, err)
		}
		rules = doc.Rules
	}

	if err := validate(rules); err != nil {
		return nil, err
	}
	return clean(rules), nil
}

// LoadKeywordRules reads a keyword table from disk.
func LoadKeywordRules(path string) ([]osg.KeywordRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword table: %w", err)
	}
	rules, err := ParseKeywordRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// MarshalKeywordRules renders rules as a YAML document that
// ParseKeywordRules reads back in the same order.
func MarshalKeywordRules(rules []osg.KeywordRule) ([]byte, error) {
	return yaml.Marshal(KeywordTableDoc{Rules: rules})
}

func validate(rules []osg.KeywordRule) error {
	if len(rules) == 0 {
		return fmt.Errorf("%w: no rules", ErrInvalidKeywordTable)
	}
	seen := make(map[string]int, len(rules))
	for i, r := range rules {
		token := strings.TrimSpace(r.Token)
		if token == "" {
			return fmt.Errorf("%w: rule %d has a blank token", ErrInvalidKeywordTable, i)
		}
		if prev, dup := seen[token]; dup {
			return fmt.Errorf("%w: token %q repeats rules %d and %d", ErrInvalidKeywordTable, token, prev, i)
		}
		seen[token] = i

		var kept int
		for _, kw := range r.Keywords {
			if strings.TrimSpace(kw) != "" {
				kept++
			}
		}
		if kept == 0 {
			return fmt.Errorf("%w: token %q has no keywords", ErrInvalidKeywordTable, token)
		}
	}
	return nil
}

// clean trims tokens and drops blank keywords. Token text is otherwise kept
// verbatim: matching is a plain substring test.
func clean(rules []osg.KeywordRule) []osg.KeywordRule {
	out := make([]osg.KeywordRule, len(rules))
	for i, r := range rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = strings.TrimSpace(kw); kw != "" {
				kws = append(kws, kw)
			}
		}
		out[i] = osg.KeywordRule{Token: strings.TrimSpace(r.Token), Keywords: kws}
	}
	return out
}
