package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amoloo1999/rca-app/internal/feature"
	"github.com/amoloo1999/rca-app/internal/report"
	"github.com/amoloo1999/rca-app/internal/workflow"
)

var classifyFlags struct {
	size     string
	cc       bool
	du       bool
	code     string
	rulePath string
	done     bool
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Assign feature codes to unit sizes",
	Long:  "Filters records to storage units, suggests a feature code per unit attribute combination, and records operator overrides. Use --size/--cc/--du/--code to override one combination, then --done.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		if err := s.Require(workflow.StepFeatures); err != nil {
			return err
		}

		rules := feature.DefaultRules()
		if classifyFlags.rulePath != "" {
			rules, err = feature.LoadRules(classifyFlags.rulePath)
			if err != nil {
				return err
			}
		}
		classifier := feature.NewClassifier(rules...)

		if classifyFlags.code != "" {
			key := workflow.OverrideKey(classifyFlags.size, classifyFlags.cc, classifyFlags.du)
			if s.FeatureOverrides == nil {
				s.FeatureOverrides = make(map[string]string)
			}
			s.FeatureOverrides[key] = classifyFlags.code
			zap.L().Info("feature code overridden",
				zap.String("combo", key),
				zap.String("code", classifyFlags.code),
			)
		}

		// Comparable rates come from storage units only.
		s.Records = report.FilterUnitType(s.Records, cfg.Analysis.UnitType)

		type combo struct {
			size   string
			cc, du bool
		}
		codes := make(map[combo]string)
		for i, r := range s.Records {
			c := combo{size: r.Size, cc: r.ClimateControlled, du: r.DriveUp}
			code, ok := codes[c]
			if !ok {
				code = classifier.Classify(feature.Attributes{
					ClimateControlled: r.ClimateControlled,
					DriveUp:           r.DriveUp,
					Description:       r.Description,
				})
				if override, found := s.FeatureOverrides[workflow.OverrideKey(r.Size, r.ClimateControlled, r.DriveUp)]; found {
					code = override
				}
				codes[c] = code
			}
			s.Records[i].FeatureCode = code
		}

		combos := make([]combo, 0, len(codes))
		for c := range codes {
			combos = append(combos, c)
		}
		sort.Slice(combos, func(i, j int) bool {
			if combos[i].size != combos[j].size {
				return combos[i].size < combos[j].size
			}
			if combos[i].cc != combos[j].cc {
				return !combos[i].cc
			}
			if combos[i].du != combos[j].du {
				return !combos[i].du
			}
			return false
		})
		for _, c := range combos {
			fmt.Printf("%-12s cc=%-5t du=%-5t -> %s\n", c.size, c.cc, c.du, codes[c])
		}

		if classifyFlags.done {
			s.Advance(workflow.StepExport)
		}
		return s.Save(sessionPath)
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyFlags.size, "size", "", "unit size of the combination to override")
	classifyCmd.Flags().BoolVar(&classifyFlags.cc, "cc", false, "climate-controlled flag of the combination")
	classifyCmd.Flags().BoolVar(&classifyFlags.du, "du", false, "drive-up flag of the combination")
	classifyCmd.Flags().StringVar(&classifyFlags.code, "code", "", "feature code to assign")
	classifyCmd.Flags().StringVar(&classifyFlags.rulePath, "rules", "", "YAML rule file replacing the default rule table")
	classifyCmd.Flags().BoolVar(&classifyFlags.done, "done", false, "finish the feature step")
	rootCmd.AddCommand(classifyCmd)
}
