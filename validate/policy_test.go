package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xport-go/xptcore/colspec"
	"github.com/xport-go/xptcore/dataset"
	"github.com/xport-go/xptcore/header"
	"github.com/xport-go/xptcore/schema"
)

func buildCleanPlan(t *testing.T) *schema.Plan {
	t.Helper()
	d := dataset.New("DM")
	require.NoError(t, d.AddColumn(colspec.Column{Name: "STUDYID", Kind: colspec.Character, Length: 8}))
	require.NoError(t, d.AddColumn(colspec.Column{Name: "AGE", Kind: colspec.Numeric, Length: 8}))
	plan, err := schema.Build(d, nil)
	require.NoError(t, err)
	return plan
}

func TestFDA_CleanPlanPasses(t *testing.T) {
	plan := buildCleanPlan(t)
	issues := FDA().ValidatePolicy(plan, "")
	require.False(t, issues.HasErrors())
}

func TestFDA_RejectsLowercaseDatasetName(t *testing.T) {
	d := dataset.New("dm")
	require.NoError(t, d.AddColumn(colspec.Column{Name: "AGE", Kind: colspec.Numeric, Length: 8}))
	plan, err := schema.Build(d, nil)
	require.NoError(t, err)

	issues := FDA().ValidatePolicy(plan, "")
	require.True(t, issues.HasErrors())
}

func TestFDA_RejectsNonASCIILabel(t *testing.T) {
	d := dataset.New("DM")
	require.NoError(t, d.AddColumn(colspec.Column{Name: "AGE", Kind: colspec.Numeric, Length: 8, Label: "年齢"}))
	plan, err := schema.Build(d, nil)
	require.NoError(t, err)

	issues := FDA().ValidatePolicy(plan, "")
	require.True(t, issues.HasErrors())
}

func TestNMPA_BilingualTextRelaxesASCIIRequirement(t *testing.T) {
	d := dataset.New("DM")
	require.NoError(t, d.AddColumn(colspec.Column{Name: "AGE", Kind: colspec.Numeric, Length: 8, Label: "年齢"}))
	plan, err := schema.Build(d, nil)
	require.NoError(t, err)

	issues := NMPA(WithBilingualText()).ValidatePolicy(plan, "")
	require.False(t, issues.HasErrors())
}

func TestValidatePolicy_FileStemMustMatchDatasetName(t *testing.T) {
	plan := buildCleanPlan(t)
	issues := FDA().ValidatePolicy(plan, "/tmp/other.xpt")
	require.True(t, issues.HasErrors())

	issues = FDA().ValidatePolicy(plan, "/tmp/dm.xpt")
	require.False(t, issues.HasErrors())
}

func TestValidatePolicy_LongCharacterIsWarningNotError(t *testing.T) {
	d := dataset.New("DM")
	require.NoError(t, d.AddColumn(colspec.Column{Name: "COMMENT", Kind: colspec.Character, Length: 201}))
	plan, err := schema.Build(d, nil)
	require.NoError(t, err)

	issues := FDA().ValidatePolicy(plan, "")
	require.False(t, issues.HasErrors())
	require.Len(t, issues, 1)
	require.Equal(t, Warning, issues[0].Severity)
}

func TestWithStrict_UpgradesCharacterWarningToError(t *testing.T) {
	d := dataset.New("DM")
	require.NoError(t, d.AddColumn(colspec.Column{Name: "COMMENT", Kind: colspec.Character, Length: 201}))
	plan, err := schema.Build(d, nil)
	require.NoError(t, err)

	issues := FDA(WithStrict()).ValidatePolicy(plan, "")
	require.True(t, issues.HasErrors())
}

func TestValidateFileSize_RejectsOversizedFile(t *testing.T) {
	p := FDA(WithMaxFileSize(100))
	issues := p.ValidateFileSize("/tmp/dm.xpt", 200)
	require.True(t, issues.HasErrors())

	issues = p.ValidateFileSize("/tmp/dm.xpt", 50)
	require.Empty(t, issues)
}

func TestCustom_BuildsFromScratch(t *testing.T) {
	plan := buildCleanPlan(t)
	p := Custom("INTERNAL", header.V8, WithASCIIRequired(false), WithUppercaseRequired(false))
	require.Equal(t, header.V8, p.Dialect)

	issues := p.ValidatePolicy(plan, "")
	require.False(t, issues.HasErrors())
}
