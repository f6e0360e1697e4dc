package writer

import (
	"io"

	"github.com/xport-go/xptcore/colspec"
	"github.com/xport-go/xptcore/header"
	"github.com/xport-go/xptcore/record"
	"github.com/xport-go/xptcore/schema"
)

const (
	defaultSasVersion = "9.4"
	defaultOS         = "LINUX"
)

// plannedColumns projects a schema.Plan's finalized variable layout into
// the colspec.Column shape the observation and namestr codecs expect.
func plannedColumns(plan *schema.Plan) []colspec.Column {
	cols := make([]colspec.Column, len(plan.PlannedVariables))
	for i, pv := range plan.PlannedVariables {
		cols[i] = colspec.Column{
			Name:     pv.Name,
			Kind:     pv.Kind,
			Length:   pv.Length,
			Label:    pv.Label,
			Format:   pv.Format,
			Informat: pv.Informat,
			Position: pv.Position,
		}
	}
	return cols
}

// reorderRow maps a dataset row (in source column order) into plan order
// via each planned variable's SourceColumnIndex (spec.md §4.7 "a plan
// references the source dataset only by SourceColumnIndex").
func reorderRow(plan *schema.Plan, row []colspec.Value) []colspec.Value {
	out := make([]colspec.Value, len(plan.PlannedVariables))
	for i, pv := range plan.PlannedVariables {
		out[i] = row[pv.SourceColumnIndex]
	}
	return out
}

// buildCatalog assembles the header.Catalog for a plan emitted under w's
// configuration.
func buildCatalog(w *Writer, plan *schema.Plan, varCount int) *header.Catalog {
	return &header.Catalog{
		Version:      w.version,
		SasVersion:   defaultSasVersion,
		OS:           defaultOS,
		CreatedAt:    w.created,
		ModifiedAt:   w.modified,
		DatasetName:  plan.DomainCode,
		DatasetType:  w.dataset.DatasetType,
		DatasetLabel: plan.DatasetLabel,
		VarCount:     varCount,
	}
}

// writeHeaders emits the library/member/NAMESTR/OBS header sequence
// (spec.md §4.3 steps 1-11) to rw, leaving it positioned to accept
// observation rows.
func writeHeaders(rw *record.Writer, w *Writer, plan *schema.Plan, cols []colspec.Column) error {
	catalog := buildCatalog(w, plan, len(cols))

	for _, rec := range catalog.BuildLibraryRecords() {
		if err := rw.WriteBytes(rec[:]); err != nil {
			return err
		}
	}
	for _, rec := range catalog.BuildMemberHeaderRecords() {
		if err := rw.WriteBytes(rec[:]); err != nil {
			return err
		}
	}
	data1 := catalog.BuildMemberDataRecord1()
	if err := rw.WriteBytes(data1[:]); err != nil {
		return err
	}
	if err := rw.WriteBytes(catalog.BuildMemberDataRecord2()); err != nil {
		return err
	}
	if err := rw.WriteRecord(); err != nil {
		return err
	}

	namestrHeader := header.BuildNamestrHeaderRecord(w.version, len(cols))
	if err := rw.WriteBytes(namestrHeader[:]); err != nil {
		return err
	}
	if err := rw.WriteBytes(namestrRecords(w.version, cols)); err != nil {
		return err
	}
	if err := rw.WriteRecord(); err != nil {
		return err
	}

	obsHeader := header.BuildObsHeaderRecord(w.version)
	return rw.WriteBytes(obsHeader[:])
}

// emit writes one self-contained XPT file for dataset rows [startRow,
// endRow) to out, following the fixed header/NAMESTR/OBS emission order
// (spec.md §4.3-§4.5, §4.10).
func emit(out io.Writer, w *Writer, plan *schema.Plan, startRow, endRow int) error {
	cols := plannedColumns(plan)
	rw := record.NewWriter(out)

	if err := writeHeaders(rw, w, plan, cols); err != nil {
		return err
	}

	for i := startRow; i < endRow; i++ {
		row := reorderRow(plan, w.dataset.Row(i))
		if err := emitRow(rw, cols, row, w.defaultMissing); err != nil {
			return err
		}
	}

	return rw.Close()
}
