// Package reader implements the buffered and streaming XPT reader drivers
// (spec.md §4.9): both share header parsing, then diverge on how they
// materialize observations.
package reader

import (
	"github.com/xport-go/xptcore/colspec"
	"github.com/xport-go/xptcore/errs"
	"github.com/xport-go/xptcore/header"
	"github.com/xport-go/xptcore/namestr"
	"github.com/xport-go/xptcore/record"
)

// Options control reader-side behavior (spec.md §6 "Configuration
// options").
type Options struct {
	TextMode       TextMode
	PreserveBlanks bool
	RowLimit       int // 0 means unlimited
}

// TextMode names a character-decoding mode. The mode is stored in Options
// but neither reader driver consults it: in every mode Character values are
// returned as the raw field bytes, with no UTF-8 validation, no replacement
// of invalid sequences and no Latin-1 conversion.
type TextMode int

const (
	// StrictUTF8 names strict UTF-8 decoding.
	StrictUTF8 TextMode = iota
	// LossyUTF8 names UTF-8 decoding with replacement of invalid sequences.
	LossyUTF8
	// Latin1 names ISO-8859-1 decoding.
	Latin1
)

// Option configures Options via the functional-option idiom used
// throughout this module.
type Option func(*Options)

// WithTextMode records the character-decoding mode in Options; see TextMode.
func WithTextMode(m TextMode) Option { return func(o *Options) { o.TextMode = m } }

// WithPreserveBlanks disables trailing-space trimming on Character values.
func WithPreserveBlanks(preserve bool) Option { return func(o *Options) { o.PreserveBlanks = preserve } }

// WithRowLimit caps the number of rows materialized or iterated.
func WithRowLimit(n int) Option { return func(o *Options) { o.RowLimit = n } }

func buildOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// parsedHeaders is the catalog, column layout and row length shared by
// both reader drivers.
type parsedHeaders struct {
	catalog *header.Catalog
	columns []colspec.Column
	rowLen  int
}

// readHeaders consumes every record up to and including the OBS header
// marker from rr, parsing the library/member/NAMESTR sections in file
// order (spec.md §4.3).
func readHeaders(rr *record.Reader) (*parsedHeaders, error) {
	first, err := rr.ReadRecord()
	if err != nil {
		return nil, err
	}
	v, ok := header.DetectVersion(first)
	if !ok {
		return nil, &errs.InvalidHeaderError{Expected: "LIBRARY header"}
	}

	real, err := rr.ReadRecord()
	if err != nil {
		return nil, err
	}
	modified, err := rr.ReadRecord()
	if err != nil {
		return nil, err
	}
	catalog, err := header.ParseLibraryRecords([][]byte{first, real, modified}, v)
	if err != nil {
		return nil, err
	}

	memberMarker, err := rr.ReadRecord()
	if err != nil {
		return nil, err
	}
	dscrptr, err := rr.ReadRecord()
	if err != nil {
		return nil, err
	}
	namestrLen, err := header.ParseMemberHeader(memberMarker, dscrptr, v)
	if err != nil {
		return nil, err
	}

	data1, err := rr.ReadRecord()
	if err != nil {
		return nil, err
	}
	data2Len := header.MemberDataRecord2Len(v)
	data2, err := rr.ReadBytes(padUpTo80(data2Len))
	if err != nil {
		return nil, err
	}
	name, dtype, label, err := header.ParseMemberData(data1, data2[:data2Len], v)
	if err != nil {
		return nil, err
	}
	catalog.DatasetName = name
	catalog.DatasetType = dtype
	catalog.DatasetLabel = label

	namestrHeaderRec, err := rr.ReadRecord()
	if err != nil {
		return nil, err
	}
	varCount, err := header.ParseNamestrHeaderRecord(namestrHeaderRec, v)
	if err != nil {
		return nil, err
	}
	catalog.VarCount = varCount

	totalNamestrBytes := varCount * namestrLen
	namestrBlock, err := rr.ReadBytes(padUpTo80(totalNamestrBytes))
	if err != nil {
		return nil, err
	}

	columns := make([]colspec.Column, varCount)
	for i := 0; i < varCount; i++ {
		rec := namestrBlock[i*namestrLen : (i+1)*namestrLen]
		nr, err := namestr.Parse(rec, v, i+1)
		if err != nil {
			return nil, err
		}
		columns[i] = toColumn(nr)
	}

	if err := skipToObsHeader(rr, v); err != nil {
		return nil, err
	}

	rowLen := colspec.Positions(columns)
	return &parsedHeaders{catalog: catalog, columns: columns, rowLen: rowLen}, nil
}

// skipToObsHeader consumes the optional V8 LABELV8/LABELV9 section (when
// present) and the OBS header marker. This module's own writer always
// encodes labels inline in the NAMESTR record, so a separate label section
// is only ever encountered when reading a foreign V8 file; its content is
// skipped rather than re-parsed, since every label it carries already
// round-trips through the wider V8 NAMESTR field (spec.md §9 open question
// on LABELV8/LABELV9 selection).
func skipToObsHeader(rr *record.Reader, v header.Version) error {
	rec, err := rr.ReadRecord()
	if err != nil {
		return err
	}
	if header.LooksLikeObsHeader(rec, v) {
		return header.ParseObsHeaderRecord(rec, v)
	}
	if header.DetectLabelSection(rec) == header.NoLabelSection {
		return &errs.InvalidHeaderError{Expected: "OBS header"}
	}
	for {
		rec, err = rr.ReadRecord()
		if err != nil {
			return err
		}
		if header.LooksLikeObsHeader(rec, v) {
			return header.ParseObsHeaderRecord(rec, v)
		}
	}
}

func toColumn(nr namestr.Record) colspec.Column {
	col := colspec.Column{
		Name:   nr.Name,
		Length: int(nr.Length),
		Label:  nr.Label,
	}
	if nr.Type == namestr.Numeric {
		col.Kind = colspec.Numeric
	} else {
		col.Kind = colspec.Character
	}
	if nr.Format.Name != "" {
		col.Format = &colspec.Format{
			Name:          nr.Format.Name,
			Width:         int(nr.Format.Width),
			Decimals:      int(nr.Format.Decimals),
			Justification: colspec.Justification(nr.Format.Justification),
		}
	}
	if nr.Informat.Name != "" {
		col.Informat = &colspec.Format{
			Name:     nr.Informat.Name,
			Width:    int(nr.Informat.Width),
			Decimals: int(nr.Informat.Decimals),
		}
	}
	return col
}

func padUpTo80(n int) int {
	if n%record.Size == 0 {
		return n
	}
	return (n/record.Size + 1) * record.Size
}
