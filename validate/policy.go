package validate

import (
	"fmt"
	"regexp"

	"github.com/xport-go/xptcore/header"
	"github.com/xport-go/xptcore/internal/options"
	"github.com/xport-go/xptcore/schema"
)

// CharWarnLength is the character-variable length above which a policy
// issues a Warning (not an Error) recommendation (spec.md §4.8).
const CharWarnLength = 200

var datasetNamePattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,7}$`)
var variableNamePattern = regexp.MustCompile(`^[A-Z_][A-Z0-9_]{0,7}$`)
var datasetNamePatternAnyCase = regexp.MustCompile(`(?i)^[A-Z][A-Z0-9]{0,7}$`)
var variableNamePatternAnyCase = regexp.MustCompile(`(?i)^[A-Z_][A-Z0-9_]{0,7}$`)

func (p *Policy) matchesDatasetNamePattern(name string) bool {
	if p.RequireUppercase {
		return datasetNamePattern.MatchString(name)
	}
	return datasetNamePatternAnyCase.MatchString(name)
}

func (p *Policy) matchesVariableNamePattern(name string) bool {
	if p.RequireUppercase {
		return variableNamePattern.MatchString(name)
	}
	return variableNamePatternAnyCase.MatchString(name)
}

// Policy is an agency (or custom) policy rule bundle, exposing the same
// builder toggles regardless of which preset it started from (spec.md
// §4.8 "Custom policies expose the same toggles as a builder").
type Policy struct {
	Name               string
	Dialect            header.Version
	RequireASCII       bool
	RequireUppercase   bool
	MaxFileSizeBytes   int64
	Strict             bool
	allowBilingualText bool
}

// Option configures a Policy via functional options, following this
// module's generic options.Option idiom.
type Option = options.Option[*Policy]

func withoutErr(fn func(*Policy)) Option {
	return options.NoError(fn)
}

// WithStrict upgrades every Warning to Error in the final aggregation
// (spec.md §4.8 "A 'strict' policy upgrades every Warning to Error").
func WithStrict() Option {
	return withoutErr(func(p *Policy) { p.Strict = true })
}

// WithMaxFileSize sets the write-side file-size ceiling in bytes.
func WithMaxFileSize(bytes int64) Option {
	return withoutErr(func(p *Policy) { p.MaxFileSizeBytes = bytes })
}

// WithBilingualText relaxes the ASCII-only requirement for names and
// labels (spec.md §4.8 "NMPA/PMDA *may* be relaxed ... via a builder
// toggle").
func WithBilingualText() Option {
	return withoutErr(func(p *Policy) { p.allowBilingualText = true })
}

// WithDialect sets the required XPT dialect.
func WithDialect(v header.Version) Option {
	return withoutErr(func(p *Policy) { p.Dialect = v })
}

// WithASCIIRequired toggles the ASCII-only requirement directly.
func WithASCIIRequired(required bool) Option {
	return withoutErr(func(p *Policy) { p.RequireASCII = required })
}

// WithUppercaseRequired toggles the uppercase-only requirement.
func WithUppercaseRequired(required bool) Option {
	return withoutErr(func(p *Policy) { p.RequireUppercase = required })
}

const defaultMaxFileSizeBytes = 5 * 1024 * 1024 * 1024 // 5 GB, spec.md §4.8

func newPolicy(name string, v header.Version, opts ...Option) *Policy {
	p := &Policy{
		Name:             name,
		Dialect:          v,
		RequireASCII:     true,
		RequireUppercase: true,
		MaxFileSizeBytes: defaultMaxFileSizeBytes,
	}
	_ = options.Apply(p, opts...)
	return p
}

// FDA returns the FDA agency policy preset (spec.md §4.8).
func FDA(opts ...Option) *Policy { return newPolicy("FDA", header.V5, opts...) }

// PMDA returns the PMDA agency policy preset. PMDA may relax the ASCII
// requirement via WithBilingualText (spec.md §4.8).
func PMDA(opts ...Option) *Policy { return newPolicy("PMDA", header.V5, opts...) }

// NMPA returns the NMPA agency policy preset. NMPA may relax the ASCII
// requirement via WithBilingualText (spec.md §4.8).
func NMPA(opts ...Option) *Policy { return newPolicy("NMPA", header.V5, opts...) }

// Custom builds a policy from scratch with the given options, for callers
// that need toggles outside the three agency presets (spec.md §4.8).
func Custom(name string, v header.Version, opts ...Option) *Policy {
	p := &Policy{Name: name, Dialect: v, MaxFileSizeBytes: defaultMaxFileSizeBytes}
	_ = options.Apply(p, opts...)
	return p
}

// ValidatePolicy runs this policy's rule set against plan, producing
// AGENCY_NNN-coded issues (spec.md §4.8 "Agency policy rule sets").
// filePath is optional ("" skips filename-matching checks).
func (p *Policy) ValidatePolicy(plan *schema.Plan, filePath string) List {
	var issues List

	asciiRequired := p.RequireASCII && !p.allowBilingualText

	if asciiRequired && !isASCII(plan.DomainCode) {
		issues = append(issues, Issue{Severity: Error, Code: "AGENCY_001",
			Message: fmt.Sprintf("dataset name %q must be ASCII-only under %s policy", plan.DomainCode, p.Name),
			Target:  DatasetTarget(plan.DomainCode)})
	}
	if !p.matchesDatasetNamePattern(plan.DomainCode) {
		issues = append(issues, Issue{Severity: Error, Code: "AGENCY_002",
			Message: fmt.Sprintf("dataset name %q does not match ^[A-Z][A-Z0-9]{0,7}$", plan.DomainCode),
			Target:  DatasetTarget(plan.DomainCode)})
	}

	if filePath != "" {
		stem := fileStem(filePath)
		if !equalFoldASCII(stem, plan.DomainCode) {
			issues = append(issues, Issue{Severity: Error, Code: "AGENCY_003",
				Message: fmt.Sprintf("file stem %q does not match dataset name %q", stem, plan.DomainCode),
				Target:  FileTarget(filePath)})
		}
	}

	for _, v := range plan.PlannedVariables {
		if asciiRequired {
			if !isASCII(v.Name) {
				issues = append(issues, Issue{Severity: Error, Code: "AGENCY_004",
					Message: fmt.Sprintf("variable name %q must be ASCII-only under %s policy", v.Name, p.Name),
					Target:  VariableTarget(v.Name)})
			}
			if !isASCII(v.Label) {
				issues = append(issues, Issue{Severity: Error, Code: "AGENCY_005",
					Message: fmt.Sprintf("label of variable %q must be ASCII-only under %s policy", v.Name, p.Name),
					Target:  VariableTarget(v.Name)})
			}
		}
		if !p.matchesVariableNamePattern(v.Name) {
			issues = append(issues, Issue{Severity: Error, Code: "AGENCY_006",
				Message: fmt.Sprintf("variable name %q does not match ^[A-Z_][A-Z0-9_]{0,7}$", v.Name),
				Target:  VariableTarget(v.Name)})
		}
		if v.Length > CharWarnLength {
			issues = append(issues, Issue{Severity: Warning, Code: "AGENCY_007",
				Message: fmt.Sprintf("character variable %q length %d exceeds recommended maximum %d", v.Name, v.Length, CharWarnLength),
				Target:  VariableTarget(v.Name)})
		}
	}

	if p.Strict {
		issues = issues.UpgradeWarningsToErrors()
	}
	return issues
}

// ValidateFileSize checks an estimated or actual output size against the
// policy's ceiling (spec.md §4.8 "File size ≤ 5 GB is a write-side check,
// not a plan check").
func (p *Policy) ValidateFileSize(path string, sizeBytes int64) List {
	if p.MaxFileSizeBytes <= 0 || sizeBytes <= p.MaxFileSizeBytes {
		return nil
	}
	return List{{
		Severity: Error,
		Code:     "AGENCY_008",
		Message:  fmt.Sprintf("file size %d bytes exceeds policy ceiling %d bytes", sizeBytes, p.MaxFileSizeBytes),
		Target:   FileTarget(path),
	}}
}

func fileStem(path string) string {
	start := 0
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			start = i + 1
			break
		}
	}
	name := path[start:]
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return name
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'a' && ca <= 'z' {
			ca -= 'a' - 'A'
		}
		if cb >= 'a' && cb <= 'z' {
			cb -= 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
