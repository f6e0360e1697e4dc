// Package namehash computes case-insensitive fingerprints for dataset and
// variable names, used (through internal/namecheck) to detect duplicate
// names.
package namehash

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns the xxHash64 of the case-folded name, so that "AGE"
// and "age" collide deliberately: XPT names are case-preserved but compared
// case-insensitively (spec.md §3).
func Fingerprint(name string) uint64 {
	return xxhash.Sum64String(strings.ToUpper(name))
}
