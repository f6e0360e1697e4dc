package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xport-go/xptcore/colspec"
	"github.com/xport-go/xptcore/dataset"
)

func buildDM(t *testing.T) *dataset.Dataset {
	t.Helper()
	d := dataset.New("DM")
	require.NoError(t, d.AddColumn(colspec.Column{Name: "STUDYID", Kind: colspec.Character, Length: 8}))
	require.NoError(t, d.AddColumn(colspec.Column{Name: "USUBJID", Kind: colspec.Character, Length: 11}))
	require.NoError(t, d.AddColumn(colspec.Column{Name: "AGE", Kind: colspec.Numeric, Length: 8}))
	return d
}

func TestBuild_DefaultOrderAndPositions(t *testing.T) {
	d := buildDM(t)
	plan, err := Build(d, nil)
	require.NoError(t, err)
	require.True(t, plan.IsBuilt())
	require.Equal(t, "DM", plan.DomainCode)
	require.Len(t, plan.PlannedVariables, 3)
	require.Equal(t, 0, plan.PlannedVariables[0].Position)
	require.Equal(t, 8, plan.PlannedVariables[1].Position)
	require.Equal(t, 19, plan.PlannedVariables[2].Position)
	require.Equal(t, 27, plan.RowLen)
}

func TestBuild_SpecOrderOverride(t *testing.T) {
	d := buildDM(t)
	ageFirst, studyidSecond := 0, 1
	spec := &Spec{Overrides: map[string]VariableOverride{
		"AGE":     {Order: &ageFirst},
		"STUDYID": {Order: &studyidSecond},
	}}

	plan, err := Build(d, spec)
	require.NoError(t, err)
	require.Equal(t, "AGE", plan.PlannedVariables[0].Name)
	require.Equal(t, "STUDYID", plan.PlannedVariables[1].Name)
}

func TestBuild_SpecLengthOverride(t *testing.T) {
	d := buildDM(t)
	newLen := 20
	spec := &Spec{Overrides: map[string]VariableOverride{
		"USUBJID": {Length: &newLen},
	}}

	plan, err := Build(d, spec)
	require.NoError(t, err)
	for _, pv := range plan.PlannedVariables {
		if pv.Name == "USUBJID" {
			require.Equal(t, 20, pv.Length)
		}
	}
}

func TestBuild_NumericAlwaysLength8(t *testing.T) {
	d := buildDM(t)
	plan, err := Build(d, nil)
	require.NoError(t, err)
	for _, pv := range plan.PlannedVariables {
		if pv.Kind == colspec.Numeric {
			require.Equal(t, 8, pv.Length)
		}
	}
}

func TestBuild_IncompatibleKindOverrideIsError(t *testing.T) {
	d := dataset.New("DM")
	require.NoError(t, d.AddColumn(colspec.Column{Name: "FREETEXT", Kind: colspec.Character, Length: 50}))
	numeric := colspec.Numeric
	spec := &Spec{Overrides: map[string]VariableOverride{
		"FREETEXT": {Kind: &numeric},
	}}

	_, err := Build(d, spec)
	require.Error(t, err)
}

func TestBuild_NeverMutatesSourceDataset(t *testing.T) {
	d := buildDM(t)
	before := d.Columns()
	_, err := Build(d, nil)
	require.NoError(t, err)
	after := d.Columns()
	require.Equal(t, before, after)
}

func TestBuild_LabelOverride(t *testing.T) {
	d := buildDM(t)
	label := "Age in years"
	spec := &Spec{Overrides: map[string]VariableOverride{"AGE": {Label: &label}}}

	plan, err := Build(d, spec)
	require.NoError(t, err)
	for _, pv := range plan.PlannedVariables {
		if pv.Name == "AGE" {
			require.Equal(t, label, pv.Label)
		}
	}
}
