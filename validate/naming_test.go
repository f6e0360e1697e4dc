package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFDANaming_ValidFilename(t *testing.T) {
	r := FDANaming()
	require.True(t, r.IsValid("dm.xpt", "dm"))
	require.True(t, r.IsValid("ae.xpt", "ae"))
}

func TestFDANaming_WrongExtension(t *testing.T) {
	r := FDANaming()
	issues := r.Validate("dm.csv", "dm")
	require.Contains(t, issueKinds(issues), WrongExtension)
}

func TestFDANaming_TooLong(t *testing.T) {
	r := FDANaming()
	issues := r.Validate("verylongname.xpt", "verylongname")
	require.Contains(t, issueKinds(issues), TooLong)
}

func TestFDANaming_RejectsUppercase(t *testing.T) {
	r := FDANaming()
	issues := r.Validate("DM.xpt", "dm")
	require.Contains(t, issueKinds(issues), NotLowercase)
}

func TestFDANaming_RejectsSpaces(t *testing.T) {
	r := FDANaming()
	issues := r.Validate("d m.xpt", "d m")
	require.Contains(t, issueKinds(issues), ContainsSpaces)
}

func TestFDANaming_RejectsLeadingDigit(t *testing.T) {
	r := FDANaming()
	issues := r.Validate("1dm.xpt", "1dm")
	require.Contains(t, issueKinds(issues), DoesNotStartWithLetter)
}

func TestFDANaming_RejectsMismatchedDatasetName(t *testing.T) {
	r := FDANaming()
	issues := r.Validate("dm.xpt", "ae")
	require.Contains(t, issueKinds(issues), DoesNotMatchDataset)
}

func TestPermissiveNaming_AllowsMixedCaseAndUnderscores(t *testing.T) {
	r := PermissiveNaming()
	require.True(t, r.IsValid("DM.xpt", ""))
	require.True(t, r.IsValid("dm_final.xpt", ""))
	require.True(t, r.IsValid("veryLongDatasetName.xpt", ""))
}

func issueKinds(issues []FileNamingIssue) []FileNamingIssueKind {
	kinds := make([]FileNamingIssueKind, len(issues))
	for i, issue := range issues {
		kinds[i] = issue.Kind
	}
	return kinds
}
