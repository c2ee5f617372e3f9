package feature

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// RuleConfig is the YAML form of one classification rule. Nil flag fields
// are wildcards; description_contains matches any listed term.
type RuleConfig struct {
	Name                string   `yaml:"name"`
	Code                string   `yaml:"code"`
	ClimateControlled   *bool    `yaml:"climate_controlled,omitempty"`
	DriveUp             *bool    `yaml:"drive_up,omitempty"`
	DescriptionContains []string `yaml:"description_contains,omitempty"`
}

type rulesFile struct {
	Rules []RuleConfig `yaml:"rules"`
}

// LoadRules reads an ordered rule table from a YAML file. File order is
// evaluation order.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "feature: read rules file")
	}

	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, eris.Wrap(err, "feature: parse rules file")
	}
	if len(rf.Rules) == 0 {
		return nil, eris.New("feature: rules file declares no rules")
	}

	rules := make([]Rule, 0, len(rf.Rules))
	for _, rc := range rf.Rules {
		if rc.Code == "" {
			return nil, eris.Errorf("feature: rule %q has no code", rc.Name)
		}
		rules = append(rules, compileRule(rc))
	}
	return rules, nil
}

func compileRule(rc RuleConfig) Rule {
	return Rule{
		Name: rc.Name,
		Code: rc.Code,
		Match: func(a Attributes) bool {
			if rc.ClimateControlled != nil && a.ClimateControlled != *rc.ClimateControlled {
				return false
			}
			if rc.DriveUp != nil && a.DriveUp != *rc.DriveUp {
				return false
			}
			if len(rc.DescriptionContains) > 0 && !descriptionContains(rc.DescriptionContains...)(a) {
				return false
			}
			return true
		},
	}
}
