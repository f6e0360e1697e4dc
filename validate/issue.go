// Package validate implements the XPT validation engine (spec.md §4.8):
// structural (dialect-parameterized) and agency policy rule sets, each
// evaluated pure and order-independent against a schema plan, aggregating
// into a list of severity-tagged issues.
package validate

import "fmt"

// Severity ranks how serious an Issue is (spec.md §3 "Issue").
type Severity int

const (
	// Info is informational only.
	Info Severity = iota
	// Warning is a policy recommendation, not a blocker.
	Warning
	// Error aborts a write.
	Error
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// TargetKind identifies what an Issue's Target refers to.
type TargetKind int

const (
	// TargetNone means the issue has no specific target.
	TargetNone TargetKind = iota
	// TargetDataset targets a dataset by name.
	TargetDataset
	// TargetVariable targets a variable by name.
	TargetVariable
	// TargetFile targets a file by path.
	TargetFile
	// TargetValue targets one (dataset, column, row) cell.
	TargetValue
)

// Target locates what an Issue is about (spec.md §3 "Issue").
type Target struct {
	Kind    TargetKind
	Name    string // Dataset or Variable name, or File path
	Dataset string // for TargetValue
	Column  string // for TargetValue
	Row     int    // for TargetValue
}

// DatasetTarget builds a Target for a dataset-level issue.
func DatasetTarget(name string) Target { return Target{Kind: TargetDataset, Name: name} }

// VariableTarget builds a Target for a variable-level issue.
func VariableTarget(name string) Target { return Target{Kind: TargetVariable, Name: name} }

// FileTarget builds a Target for a file-level issue.
func FileTarget(path string) Target { return Target{Kind: TargetFile, Name: path} }

// ValueTarget builds a Target for a single cell.
func ValueTarget(dataset, column string, row int) Target {
	return Target{Kind: TargetValue, Dataset: dataset, Column: column, Row: row}
}

// Issue is one validation finding (spec.md §3 "Issue").
type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Target   Target
}

// String renders an issue the way user-visible failure reports do
// (spec.md §7 "[<severity>] <code>: <message> (<target>)").
func (i Issue) String() string {
	target := targetString(i.Target)
	if target == "" {
		return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Code, i.Message)
	}
	return fmt.Sprintf("[%s] %s: %s (%s)", i.Severity, i.Code, i.Message, target)
}

func targetString(t Target) string {
	switch t.Kind {
	case TargetDataset:
		return "dataset " + t.Name
	case TargetVariable:
		return "variable " + t.Name
	case TargetFile:
		return "file " + t.Name
	case TargetValue:
		return fmt.Sprintf("%s.%s[%d]", t.Dataset, t.Column, t.Row)
	default:
		return ""
	}
}

// List is an accumulated, order-independent collection of issues.
type List []Issue

// HasErrors reports whether any issue in the list has Error severity
// (spec.md §3 "a writer aborts only on the presence of at least one
// Error").
func (l List) HasErrors() bool {
	for _, i := range l {
		if i.Severity == Error {
			return true
		}
	}
	return false
}

// UpgradeWarningsToErrors returns a copy of l with every Warning raised to
// Error, used by a "strict" policy (spec.md §4.8).
func (l List) UpgradeWarningsToErrors() List {
	out := make(List, len(l))
	for i, issue := range l {
		if issue.Severity == Warning {
			issue.Severity = Error
		}
		out[i] = issue
	}
	return out
}
