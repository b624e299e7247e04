// Package importer carries the aggregate outcome of one import run. Row-level
// problems never abort a run; they are tallied here and surfaced as a single
// summary with a bounded error preview.
package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrorPreviewCap bounds how many row-level error strings are retained for
// display. The total error count is always exact.
const ErrorPreviewCap = 10

type Result struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time

	// Format is the detected column scheme of the input file.
	Format string

	Created int
	Updated int
	Skipped int
	Errors  int

	preview   []string
	truncated int
}

func NewResult() *Result {
	return &Result{
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
	}
}

func (r *Result) AddCreated() { r.Created++ }
func (r *Result) AddUpdated() { r.Updated++ }

// AddSkipped tallies a silently-ignored row: blank identifier, duplicate
// variant row, or an identifier collision under skip-duplicate mode.
func (r *Result) AddSkipped() { r.Skipped++ }

// AddError records a row-level failure. Messages beyond ErrorPreviewCap are
// counted but not retained.
func (r *Result) AddError(line int, err error) {
	r.Errors++
	msg := fmt.Sprintf("row %d: %v", line, err)
	if len(r.preview) < ErrorPreviewCap {
		r.preview = append(r.preview, msg)
		return
	}
	r.truncated++
}

// AddErrorf is AddError with a formatted message.
func (r *Result) AddErrorf(line int, format string, args ...any) {
	r.AddError(line, fmt.Errorf(format, args...))
}

// AddRunError records a failure not tied to a specific input row, such as a
// write against an existing record during a sync.
func (r *Result) AddRunError(err error) {
	r.Errors++
	if len(r.preview) < ErrorPreviewCap {
		r.preview = append(r.preview, err.Error())
		return
	}
	r.truncated++
}

func (r *Result) Finish() {
	r.FinishedAt = time.Now().UTC()
}

// ErrorPreview returns the retained error strings in input order, with a
// trailing "+N more" indicator when the preview was truncated.
func (r *Result) ErrorPreview() []string {
	out := make([]string, len(r.preview), len(r.preview)+1)
	copy(out, r.preview)
	if r.truncated > 0 {
		out = append(out, fmt.Sprintf("+%d more", r.truncated))
	}
	return out
}

// Summary renders the single human-readable line shown to the operator.
func (r *Result) Summary() string {
	s := fmt.Sprintf(
		"created=%d updated=%d skipped=%d errors=%d",
		r.Created, r.Updated, r.Skipped, r.Errors,
	)
	for _, e := range r.ErrorPreview() {
		s += "\n  " + e
	}
	return s
}
