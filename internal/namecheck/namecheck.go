// Package namecheck detects case-insensitive name collisions within a
// dataset's column list (spec.md §3 "within a dataset names are unique
// under case-insensitive comparison"), adapted from the collision-tracking
// idiom used for metric names elsewhere in this module's ancestry.
package namecheck

import (
	"strings"

	"github.com/xport-go/xptcore/errs"
	"github.com/xport-go/xptcore/internal/namehash"
)

// Tracker accumulates seen names and reports a collision on the second
// occurrence of the same name, compared case-insensitively.
type Tracker struct {
	seen map[uint64]string
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[uint64]string)}
}

// Track records name and returns errs.ErrDuplicateColumn if a
// case-insensitively equal name was already tracked.
func (t *Tracker) Track(name string) error {
	key := namehash.Fingerprint(name)
	upper := strings.ToUpper(name)
	if existing, ok := t.seen[key]; ok && existing == upper {
		return errs.ErrDuplicateColumn
	}
	t.seen[key] = upper
	return nil
}
