package feature

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	c := NewClassifier()

	tests := []struct {
		name string
		attr Attributes
		want string
	}{
		{
			name: "both flags resolve to combined code",
			attr: Attributes{ClimateControlled: true, DriveUp: true},
			want: CodeClimateDriveUp,
		},
		{
			name: "climate flag only",
			attr: Attributes{ClimateControlled: true},
			want: CodeClimate,
		},
		{
			name: "drive-up flag only",
			attr: Attributes{DriveUp: true},
			want: CodeDriveUp,
		},
		{
			name: "climate from description text",
			attr: Attributes{Description: "5x10 Climate Controlled Interior"},
			want: CodeClimate,
		},
		{
			name: "drive-up from description text",
			attr: Attributes{Description: "10x20 drive-up access"},
			want: CodeDriveUp,
		},
		{
			name: "flag beats description text",
			attr: Attributes{ClimateControlled: true, Description: "drive up unit"},
			want: CodeClimate,
		},
		{
			name: "no signal falls back to unclassified",
			attr: Attributes{Description: "standard unit"},
			want: CodeUnclassified,
		},
		{
			name: "empty attributes fall back to unclassified",
			attr: Attributes{},
			want: CodeUnclassified,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, c.Classify(tt.attr))
		})
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	t.Parallel()

	// Reversed priority: single-flag rule declared before the combined rule.
	rules := []Rule{
		{Name: "cc", Match: func(a Attributes) bool { return a.ClimateControlled }, Code: CodeClimate},
		{Name: "cc+du", Match: func(a Attributes) bool { return a.ClimateControlled && a.DriveUp }, Code: CodeClimateDriveUp},
	}
	c := NewClassifier(rules...)

	got := c.Classify(Attributes{ClimateControlled: true, DriveUp: true})
	assert.Equal(t, CodeClimate, got)
}

func TestLoadRules(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	yaml := `
rules:
  - name: premium climate
    code: CC-P
    climate_controlled: true
    description_contains: ["premium"]
  - name: climate
    code: CC
    climate_controlled: true
  - name: parking
    code: PK
    description_contains: ["parking", "vehicle"]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 3)

	c := NewClassifier(rules...)
	assert.Equal(t, "CC-P", c.Classify(Attributes{ClimateControlled: true, Description: "Premium interior"}))
	assert.Equal(t, "CC", c.Classify(Attributes{ClimateControlled: true}))
	assert.Equal(t, "PK", c.Classify(Attributes{Description: "uncovered vehicle space"}))
	assert.Equal(t, CodeUnclassified, c.Classify(Attributes{}))
}

func TestLoadRules_Invalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadRules(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("rules: []"), 0o644))
	_, err = LoadRules(empty)
	assert.Error(t, err)

	noCode := filepath.Join(dir, "nocode.yaml")
	require.NoError(t, os.WriteFile(noCode, []byte("rules:\n  - name: broken\n"), 0o644))
	_, err = LoadRules(noCode)
	assert.Error(t, err)
}
