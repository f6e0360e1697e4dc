package validate

import (
	"path"
	"strconv"
	"strings"
)

// FileNamingRules captures an agency's requirements for how an XPT file on
// disk should be named, independent of the structural and policy rules
// that apply to the dataset it carries (spec.md §4.8, grounded on the
// reference file-naming rules module).
type FileNamingRules struct {
	MaxFilenameLength int
	RequiredExtension string
	RequireLowercase  bool
	RequireUppercase  bool
	MatchDatasetName  bool
	AllowSpaces       bool
	AllowUnderscores  bool
	AllowHyphens      bool
}

// FileNamingIssueKind enumerates the ways a filename can fail FileNamingRules.
type FileNamingIssueKind int

const (
	WrongExtension FileNamingIssueKind = iota
	TooLong
	NotLowercase
	NotUppercase
	ContainsSpaces
	ContainsUnderscores
	ContainsHyphens
	EmptyFilename
	DoesNotStartWithLetter
	DoesNotMatchDataset
)

// FileNamingIssue is one naming-rule violation found by Validate.
type FileNamingIssue struct {
	Kind     FileNamingIssueKind
	Expected string
	Found    string
}

// String renders a human-readable description, mirroring the reference
// Display impl for the equivalent Rust enum.
func (i FileNamingIssue) String() string {
	switch i.Kind {
	case WrongExtension:
		return "wrong extension: expected '." + i.Expected + "', found '." + i.Found + "'"
	case TooLong:
		return "filename too long: " + i.Found + " chars (max " + i.Expected + ")"
	case NotLowercase:
		return "filename must be lowercase"
	case NotUppercase:
		return "filename must be uppercase"
	case ContainsSpaces:
		return "filename contains spaces"
	case ContainsUnderscores:
		return "filename contains underscores"
	case ContainsHyphens:
		return "filename contains hyphens"
	case EmptyFilename:
		return "filename is empty"
	case DoesNotStartWithLetter:
		return "filename must start with a letter"
	case DoesNotMatchDataset:
		return "filename does not match dataset name '" + i.Expected + "'"
	default:
		return "unknown naming issue"
	}
}

// FDANaming returns FDA file-naming rules: lowercase 8.3-style stems
// matching the dataset name.
func FDANaming() FileNamingRules { return agencyNamingDefault() }

// NMPANaming returns NMPA file-naming rules, currently identical to FDA's.
func NMPANaming() FileNamingRules { return agencyNamingDefault() }

// PMDANaming returns PMDA file-naming rules, currently identical to FDA's.
func PMDANaming() FileNamingRules { return agencyNamingDefault() }

func agencyNamingDefault() FileNamingRules {
	return FileNamingRules{
		MaxFilenameLength: 8,
		RequiredExtension: "xpt",
		RequireLowercase:  true,
		MatchDatasetName:  true,
	}
}

// PermissiveNaming returns relaxed naming rules suitable for the V8
// extended format: longer stems, mixed case, and underscores allowed.
func PermissiveNaming() FileNamingRules {
	return FileNamingRules{
		MaxFilenameLength: 32,
		RequiredExtension: "xpt",
		AllowUnderscores:  true,
	}
}

// Validate checks filename against r, returning every violation found
// (spec.md §4.8 "file naming rules").
func (r FileNamingRules) Validate(filename string, datasetName string) []FileNamingIssue {
	var issues []FileNamingIssue

	ext := strings.TrimPrefix(path.Ext(filename), ".")
	stem := strings.TrimSuffix(path.Base(filename), path.Ext(filename))

	if !strings.EqualFold(ext, r.RequiredExtension) {
		issues = append(issues, FileNamingIssue{Kind: WrongExtension, Expected: r.RequiredExtension, Found: ext})
	}
	if len(stem) > r.MaxFilenameLength {
		issues = append(issues, FileNamingIssue{Kind: TooLong, Expected: strconv.Itoa(r.MaxFilenameLength), Found: strconv.Itoa(len(stem))})
	}
	if r.RequireLowercase && hasUpper(stem) {
		issues = append(issues, FileNamingIssue{Kind: NotLowercase})
	}
	if r.RequireUppercase && hasLower(stem) {
		issues = append(issues, FileNamingIssue{Kind: NotUppercase})
	}
	if !r.AllowSpaces && strings.ContainsRune(stem, ' ') {
		issues = append(issues, FileNamingIssue{Kind: ContainsSpaces})
	}
	if !r.AllowUnderscores && strings.ContainsRune(stem, '_') {
		issues = append(issues, FileNamingIssue{Kind: ContainsUnderscores})
	}
	if !r.AllowHyphens && strings.ContainsRune(stem, '-') {
		issues = append(issues, FileNamingIssue{Kind: ContainsHyphens})
	}
	if stem == "" {
		issues = append(issues, FileNamingIssue{Kind: EmptyFilename})
	} else if first := stem[0]; !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		issues = append(issues, FileNamingIssue{Kind: DoesNotStartWithLetter})
	}
	if r.MatchDatasetName && datasetName != "" && !strings.EqualFold(stem, datasetName) {
		issues = append(issues, FileNamingIssue{Kind: DoesNotMatchDataset, Expected: datasetName})
	}

	return issues
}

// IsValid reports whether filename violates none of r's rules.
func (r FileNamingRules) IsValid(filename, datasetName string) bool {
	return len(r.Validate(filename, datasetName)) == 0
}

func hasUpper(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			return true
		}
	}
	return false
}

func hasLower(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'a' && s[i] <= 'z' {
			return true
		}
	}
	return false
}
