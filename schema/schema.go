// Package schema implements the schema planner (spec.md §4.7): it derives
// an immutable, byte-exact write-side layout (a Plan) from a dataset plus
// an optional metadata specification.
package schema

import (
	"sort"
	"strings"

	"github.com/xport-go/xptcore/colspec"
	"github.com/xport-go/xptcore/dataset"
	"github.com/xport-go/xptcore/errs"
)

// VariableOverride carries spec-supplied overrides for one column, applied
// by the planner in place of the dataset's own attributes (spec.md §4.7
// rules 2-5). A nil pointer field means "use the dataset value".
type VariableOverride struct {
	Order    *int
	Kind     *colspec.Kind
	Length   *int
	Label    *string
	Format   *colspec.Format
	Informat *colspec.Format
}

// Spec is the optional metadata specification consumed by Plan (spec.md
// §4.7 "a dataset plus an optional metadata specification").
type Spec struct {
	// Overrides maps column name (case-insensitive) to its override.
	Overrides map[string]VariableOverride
}

func (s *Spec) lookup(name string) (VariableOverride, bool) {
	if s == nil || s.Overrides == nil {
		return VariableOverride{}, false
	}
	if ov, ok := s.Overrides[name]; ok {
		return ov, true
	}
	for key, ov := range s.Overrides {
		if strings.EqualFold(key, name) {
			return ov, true
		}
	}
	return VariableOverride{}, false
}

// PlannedVariable is one finalized column layout entry (spec.md §3
// "Schema plan").
type PlannedVariable struct {
	Name              string
	Kind              colspec.Kind
	Length            int
	Label             string
	Format            *colspec.Format
	Informat          *colspec.Format
	Position          int
	SourceColumnIndex int
}

// Plan is the finalized, immutable write-side layout (spec.md §3 "Schema
// plan"). Once built it references the source dataset only by
// SourceColumnIndex; it borrows nothing else.
type Plan struct {
	DomainCode       string
	DatasetLabel     string
	PlannedVariables []PlannedVariable
	RowLen           int
	built            bool
}

// MaxCharLength is the structural ceiling on a character column's byte
// length (spec.md §3 "≤32767 structurally").
const MaxCharLength = 32767

// Build derives a Plan from ds and an optional spec (spec.md §4.7). The
// returned Plan is immutable; Build never mutates ds.
func Build(ds *dataset.Dataset, spec *Spec) (*Plan, error) {
	cols := ds.Columns()
	type indexed struct {
		col   colspec.Column
		order int
		idx   int
	}

	entries := make([]indexed, len(cols))
	for i, c := range cols {
		order := i
		if ov, ok := spec.lookup(c.Name); ok && ov.Order != nil {
			order = *ov.Order
		}
		entries[i] = indexed{col: c, order: order, idx: i}
	}

	// Rule 1: sort by (order asc, source_index asc) when a spec supplies
	// an order; otherwise dataset order is already source-index order.
	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].order != entries[b].order {
			return entries[a].order < entries[b].order
		}
		return entries[a].idx < entries[b].idx
	})

	plan := &Plan{DomainCode: ds.DomainCode, DatasetLabel: ds.DatasetLabel}
	planned := make([]PlannedVariable, 0, len(entries))

	for _, e := range entries {
		c := e.col
		ov, hasOv := spec.lookup(c.Name)

		pv := PlannedVariable{
			Name:              c.Name,
			Kind:              c.Kind,
			Length:            c.Length,
			Label:             c.Label,
			Format:            c.Format,
			Informat:          c.Informat,
			SourceColumnIndex: e.idx,
		}

		// Rule 2: spec overrides dataset kind when present and compatible.
		if hasOv && ov.Kind != nil {
			if *ov.Kind != c.Kind && c.Kind == colspec.Character && *ov.Kind == colspec.Numeric {
				return nil, &errs.InvalidFormatError{Message: "cannot plan free-text column " + c.Name + " as Numeric"}
			}
			pv.Kind = *ov.Kind
		}

		// Rule 3: length from spec if given, else dataset-derived.
		switch pv.Kind {
		case colspec.Numeric:
			pv.Length = 8
		case colspec.Character:
			if hasOv && ov.Length != nil {
				pv.Length = clampLength(*ov.Length)
			} else if pv.Length <= 0 {
				pv.Length = 1
			} else {
				pv.Length = clampLength(pv.Length)
			}
		}

		// Rule 4: label.
		if hasOv && ov.Label != nil {
			pv.Label = *ov.Label
		}

		// Rule 5: format/informat.
		if hasOv && ov.Format != nil {
			pv.Format = ov.Format
		}
		if hasOv && ov.Informat != nil {
			pv.Informat = ov.Informat
		}

		planned = append(planned, pv)
	}

	// Rule 6-7: position as prefix sum, then row_len.
	pos := 0
	for i := range planned {
		planned[i].Position = pos
		pos += planned[i].Length
	}

	plan.PlannedVariables = planned
	plan.RowLen = pos
	plan.built = true
	return plan, nil
}

func clampLength(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxCharLength {
		return MaxCharLength
	}
	return n
}

// IsBuilt reports whether p was produced by Build (as opposed to a
// zero-value Plan), guarding against use of an incomplete plan (spec.md
// §3 "A plan is immutable after validation").
func (p *Plan) IsBuilt() bool {
	return p != nil && p.built
}
