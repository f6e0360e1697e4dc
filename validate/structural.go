package validate

import (
	"fmt"

	"github.com/xport-go/xptcore/colspec"
	"github.com/xport-go/xptcore/header"
	"github.com/xport-go/xptcore/internal/namecheck"
	"github.com/xport-go/xptcore/schema"
)

// structuralLimits is the dialect-parameterized set of structural
// constraints checked by ValidateStructural (spec.md §4.8 "Structural
// rules", grounded on the reference V5 constraints module).
type structuralLimits struct {
	maxDatasetName int
	maxVarName     int
	maxLabel       int
}

func limitsFor(v header.Version) structuralLimits {
	return structuralLimits{
		maxDatasetName: v.MaxDatasetNameLen(),
		maxVarName:     v.MaxVariableNameLen(),
		maxLabel:       v.MaxLabelLen(),
	}
}

// ValidateStructural runs the always-applied, dialect-parameterized
// structural rules against plan (spec.md §4.8). Rule codes XPT_V5_NNN are
// used for both dialects; the limits they check against vary by v.
func ValidateStructural(plan *schema.Plan, v header.Version) List {
	limits := limitsFor(v)
	var issues List

	if len(plan.DomainCode) > limits.maxDatasetName {
		issues = append(issues, Issue{
			Severity: Error,
			Code:     "XPT_V5_001",
			Message: fmt.Sprintf("dataset name %q exceeds %d bytes (has %d bytes)",
				plan.DomainCode, limits.maxDatasetName, len(plan.DomainCode)),
			Target: DatasetTarget(plan.DomainCode),
		})
	}
	if !isASCII(plan.DomainCode) {
		issues = append(issues, Issue{
			Severity: Error,
			Code:     "XPT_V5_001",
			Message:  fmt.Sprintf("dataset name %q contains non-ASCII bytes", plan.DomainCode),
			Target:   DatasetTarget(plan.DomainCode),
		})
	}
	if plan.DomainCode == "" {
		issues = append(issues, Issue{
			Severity: Error,
			Code:     "XPT_V5_001",
			Message:  "dataset name must not be empty",
			Target:   DatasetTarget(plan.DomainCode),
		})
	}

	if len(plan.DatasetLabel) > limits.maxLabel {
		issues = append(issues, Issue{
			Severity: Error,
			Code:     "XPT_V5_002",
			Message: fmt.Sprintf("dataset label exceeds %d bytes (has %d bytes)",
				limits.maxLabel, len(plan.DatasetLabel)),
			Target: DatasetTarget(plan.DomainCode),
		})
	}

	tracker := namecheck.NewTracker()
	computedRowLen := 0
	for _, v := range plan.PlannedVariables {
		if err := tracker.Track(v.Name); err != nil {
			issues = append(issues, Issue{
				Severity: Error,
				Code:     "XPT_V5_003",
				Message:  fmt.Sprintf("duplicate variable name %q", v.Name),
				Target:   VariableTarget(v.Name),
			})
		}

		if len(v.Name) > limits.maxVarName || v.Name == "" || !isValidIdentifier(v.Name) {
			issues = append(issues, Issue{
				Severity: Error,
				Code:     "XPT_V5_003",
				Message: fmt.Sprintf("variable name %q exceeds %d bytes or is not a valid identifier",
					v.Name, limits.maxVarName),
				Target: VariableTarget(v.Name),
			})
		}

		if len(v.Label) > limits.maxLabel {
			issues = append(issues, Issue{
				Severity: Error,
				Code:     "XPT_V5_004",
				Message: fmt.Sprintf("variable label exceeds %d bytes (has %d bytes)",
					limits.maxLabel, len(v.Label)),
				Target: VariableTarget(v.Name),
			})
		}

		if v.Kind == colspec.Numeric && v.Length != 8 {
			issues = append(issues, Issue{
				Severity: Error,
				Code:     "XPT_V5_005",
				Message:  fmt.Sprintf("numeric variable %q must have length 8 (has %d)", v.Name, v.Length),
				Target:   VariableTarget(v.Name),
			})
		}
		if v.Kind == colspec.Character && (v.Length < 1 || v.Length > schema.MaxCharLength) {
			issues = append(issues, Issue{
				Severity: Error,
				Code:     "XPT_V5_006",
				Message: fmt.Sprintf("character variable %q length %d out of range [1, %d]",
					v.Name, v.Length, schema.MaxCharLength),
				Target: VariableTarget(v.Name),
			})
		}

		computedRowLen += v.Length
	}

	if plan.RowLen != computedRowLen {
		issues = append(issues, Issue{
			Severity: Error,
			Code:     "XPT_V5_007",
			Message:  fmt.Sprintf("row_len inconsistency: recorded %d but computed %d", plan.RowLen, computedRowLen),
		})
	}

	return issues
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

func isValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	first := name[0]
	if !(first == '_' || (first >= 'A' && first <= 'Z') || (first >= 'a' && first <= 'z')) {
		return false
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		if !(c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}
