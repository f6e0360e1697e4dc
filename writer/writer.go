// Package writer implements the XPT writer driver (spec.md §4.10): plan a
// dataset via schema, validate it, and emit the library/member/NAMESTR/OBS
// record sequence, splitting across files when a size ceiling is
// configured.
package writer

import (
	"io"
	"time"

	"github.com/xport-go/xptcore/colspec"
	"github.com/xport-go/xptcore/dataset"
	"github.com/xport-go/xptcore/errs"
	"github.com/xport-go/xptcore/header"
	"github.com/xport-go/xptcore/ibmfloat"
	"github.com/xport-go/xptcore/namestr"
	"github.com/xport-go/xptcore/observation"
	"github.com/xport-go/xptcore/record"
	"github.com/xport-go/xptcore/schema"
	"github.com/xport-go/xptcore/validate"
)

// Writer configures a dataset for emission, following the builder →
// Validate() → Write() lifecycle (spec.md §6 "Consumer-facing API").
type Writer struct {
	dataset        *dataset.Dataset
	version        header.Version
	policy         *validate.Policy
	maxSizeBytes   int64
	created        time.Time
	modified       time.Time
	defaultMissing ibmfloat.MissingKind
	spec           *schema.Spec
}

// Option configures a Writer via the functional-option idiom used
// throughout this module.
type Option func(*Writer)

// WithVersion sets the target XPT dialect (default V5).
func WithVersion(v header.Version) Option { return func(w *Writer) { w.version = v } }

// WithPolicy attaches an agency (or custom) policy, run during Validate.
func WithPolicy(p *validate.Policy) Option { return func(w *Writer) { w.policy = p } }

// WithMaxSizeGB configures the file-size ceiling that triggers splitting
// (spec.md §4.10 "File splitting").
func WithMaxSizeGB(gb float64) Option {
	return func(w *Writer) { w.maxSizeBytes = int64(gb * 1024 * 1024 * 1024) }
}

// WithTimestamps sets the created/modified metadata timestamps (default:
// both "now").
func WithTimestamps(created, modified time.Time) Option {
	return func(w *Writer) { w.created, w.modified = created, modified }
}

// WithDefaultMissing sets the MissingKind substituted for NaN/±Inf numeric
// values (default ibmfloat.Standard).
func WithDefaultMissing(kind ibmfloat.MissingKind) Option {
	return func(w *Writer) { w.defaultMissing = kind }
}

// WithSchemaSpec attaches planner overrides (spec.md §4.7).
func WithSchemaSpec(s *schema.Spec) Option { return func(w *Writer) { w.spec = s } }

// New builds a Writer for ds with the given options.
func New(ds *dataset.Dataset, opts ...Option) *Writer {
	now := time.Now().UTC()
	w := &Writer{
		dataset:        ds,
		version:        header.V5,
		created:        now,
		modified:       now,
		defaultMissing: ibmfloat.Standard,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Validate plans the dataset via the schema package, runs the structural
// and (if configured) policy rule sets, and returns a ValidatedWriter
// carrying the aggregate issue list (spec.md §4.11 "ValidatedWriter as an
// explicit intermediate stage"). filePath is optional context for the
// policy's dataset-name-equals-file-stem check; pass "" to skip it. The
// agency file-naming rules (validate.FileNamingRules) are not run here.
func (w *Writer) Validate(filePath string) (*ValidatedWriter, error) {
	plan, err := schema.Build(w.dataset, w.spec)
	if err != nil {
		return nil, err
	}

	issues := validate.ValidateStructural(plan, w.version)
	if w.policy != nil {
		issues = append(issues, w.policy.ValidatePolicy(plan, filePath)...)
	}

	return &ValidatedWriter{w: w, plan: plan, issues: issues}, nil
}

// ValidatedWriter exposes the aggregate issue list and the write methods;
// Write/WriteStream refuse to emit if the list contains any Error (spec.md
// §7 "the writer refuses to emit if the aggregate contains any Error").
type ValidatedWriter struct {
	w      *Writer
	plan   *schema.Plan
	issues validate.List
}

// Issues returns the aggregate validation issue list.
func (vw *ValidatedWriter) Issues() validate.List { return vw.issues }

// WriteStream emits a single XPT file to out, refusing if
// Issues().HasErrors(). Streams never split; use Write for size-based
// splitting.
func (vw *ValidatedWriter) WriteStream(out io.Writer) error {
	if vw.issues.HasErrors() {
		return errs.ErrValidation
	}
	return emit(out, vw.w, vw.plan, 0, vw.w.dataset.NumRows())
}

func emitRow(rw *record.Writer, cols []colspec.Column, values []colspec.Value, defaultMissing ibmfloat.MissingKind) error {
	buf, err := observation.EncodeWithMissing(cols, values, defaultMissing)
	if err != nil {
		return err
	}
	return rw.WriteBytes(buf)
}

func namestrRecords(v header.Version, cols []colspec.Column) []byte {
	var buf []byte
	for i, c := range cols {
		nr := namestr.Record{
			Type:     toNamestrType(c.Kind),
			Length:   uint16(c.Length),
			VarNum:   uint16(i + 1),
			Name:     c.Name,
			Label:    c.Label,
			Position: uint32(c.Position),
		}
		if c.Format != nil {
			nr.Format = namestr.Format{
				Name:          c.Format.Name,
				Width:         uint16(c.Format.Width),
				Decimals:      uint16(c.Format.Decimals),
				Justification: namestr.Justification(c.Format.Justification),
			}
		}
		if c.Informat != nil {
			nr.Informat = namestr.Format{
				Name:     c.Informat.Name,
				Width:    uint16(c.Informat.Width),
				Decimals: uint16(c.Informat.Decimals),
			}
		}
		buf = append(buf, nr.Bytes(v)...)
	}
	return buf
}

func toNamestrType(k colspec.Kind) namestr.Type {
	if k == colspec.Numeric {
		return namestr.Numeric
	}
	return namestr.Character
}
