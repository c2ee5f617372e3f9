// Package feature infers short feature codes (CC, DU, ...) from raw unit
// attributes via an ordered rule table. The first matching rule wins, which
// resolves overlapping flag combinations deterministically.
package feature

import "strings"

// Feature codes produced by the default rule table.
const (
	CodeClimateDriveUp = "CC-DU"
	CodeClimate        = "CC"
	CodeDriveUp        = "DU"
	CodeUnclassified   = "UNC"
)

// Attributes are the raw unit attributes a rule may inspect.
type Attributes struct {
	ClimateControlled bool
	DriveUp           bool
	Description       string
}

// Rule pairs a predicate with the code it assigns. Rules are evaluated in
// declared order; the first match wins.
type Rule struct {
	Name  string
	Match func(Attributes) bool
	Code  string
}

// DefaultRules returns the default ordered rule table. Combined-flag rules
// precede single-flag rules so multi-flag units resolve to combined codes;
// free-text rules catch records whose flags were not populated upstream.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:  "climate and drive-up flags",
			Match: func(a Attributes) bool { return a.ClimateControlled && a.DriveUp },
			Code:  CodeClimateDriveUp,
		},
		{
			Name:  "climate flag",
			Match: func(a Attributes) bool { return a.ClimateControlled },
			Code:  CodeClimate,
		},
		{
			Name:  "drive-up flag",
			Match: func(a Attributes) bool { return a.DriveUp },
			Code:  CodeDriveUp,
		},
		{
			Name:  "climate in description",
			Match: descriptionContains("climate"),
			Code:  CodeClimate,
		},
		{
			Name:  "drive-up in description",
			Match: descriptionContains("drive up", "drive-up", "driveup"),
			Code:  CodeDriveUp,
		},
	}
}

func descriptionContains(terms ...string) func(Attributes) bool {
	return func(a Attributes) bool {
		desc := strings.ToLower(a.Description)
		for _, term := range terms {
			if strings.Contains(desc, term) {
				return true
			}
		}
		return false
	}
}

// Classifier applies an ordered rule table to unit attributes.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a Classifier. With no rules it uses DefaultRules.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify returns the code of the first matching rule, or CodeUnclassified
// when nothing matches. It never fails: ambiguity is resolved by rule order.
func (c *Classifier) Classify(a Attributes) string {
	for _, r := range c.rules {
		if r.Match(a) {
			return r.Code
		}
	}
	return CodeUnclassified
}
