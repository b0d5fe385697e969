// Package repair walks an operator through fixing invalid appointments and
// writes accepted corrections back to the source system.
package repair

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gyeh/vaxup/internal/model"
	"github.com/gyeh/vaxup/internal/validate"
)

// State is the position of one record in the repair workflow.
type State int

const (
	Reported State = iota
	Prompted
	PendingConfirmation
	Committed
)

func (s State) String() string {
	switch s {
	case Reported:
		return "reported"
	case Prompted:
		return "prompted"
	case PendingConfirmation:
		return "pending_confirmation"
	case Committed:
		return "committed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrCanceled is returned for records canceled at the source. They are
	// read-only.
	ErrCanceled = errors.New("canceled appointments cannot be repaired")

	// ErrStillInvalid is returned when a corrected field fails validation
	// again. Nothing is written.
	ErrStillInvalid = errors.New("corrected fields are still invalid")
)

// CommitError means accepted corrections could not be written to the source.
// Nothing was changed anywhere; the record stays as it was.
type CommitError struct {
	AppointmentID int64
	Fields        []string
	Err           error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("repair %d (%s): %s", e.AppointmentID, strings.Join(e.Fields, ","), e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// Source is the write side of the source system.
type Source interface {
	EditAppointment(ctx context.Context, id int64, fields map[string]string) (model.RawRecord, error)
}

// Change is one operator correction.
type Change struct {
	Field string
	Old   string
	New   string
}

// Result is where one record ended up.
type Result struct {
	ID      int64
	State   State
	Changes []Change
	// Outcome is the re-validated record after a commit, nil otherwise.
	Outcome model.Outcome
	Err     error
}

// readOnly fields identify the appointment or are owned by the scheduler and
// cannot be changed through a field update.
var readOnly = map[string]bool{
	model.FieldID:          true,
	model.FieldScheduledAt: true,
	model.FieldLocation:    true,
	model.FieldCanceled:    true,
}

// Workflow drives the repair state machine for one record at a time.
type Workflow struct {
	src       Source
	validator *validate.Validator
	prompt    Prompter
	out       io.Writer
	editable  func(field string) bool
	log       zerolog.Logger
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithEditable restricts prompting to fields the source can update.
func WithEditable(fn func(field string) bool) Option {
	return func(w *Workflow) { w.editable = fn }
}

// New returns a Workflow that prompts through p and prints to out.
func New(src Source, v *validate.Validator, p Prompter, out io.Writer, log zerolog.Logger, opts ...Option) *Workflow {
	w := &Workflow{src: src, validator: v, prompt: p, out: out, log: log}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// RepairAll runs Repair over every record that is eligible. Canceled records
// are reported as such and never prompted.
func (w *Workflow) RepairAll(ctx context.Context, invalid []*model.Invalid) []Result {
	results := make([]Result, 0, len(invalid))
	for _, inv := range invalid {
		results = append(results, w.Repair(ctx, inv))
	}
	return results
}

// Repair takes inv from Reported through to Committed, or back to Reported
// when the operator makes no change, declines, or the write-back fails.
func (w *Workflow) Repair(ctx context.Context, inv *model.Invalid) Result {
	res := Result{ID: inv.ID, State: Reported}
	log := w.log.With().Int64("appointment_id", inv.ID).Logger()

	if inv.Canceled {
		res.Err = ErrCanceled
		return res
	}
	w.report(inv)

	res.State = Prompted
	changes, err := w.collect(inv)
	if err != nil {
		return w.back(res, err)
	}
	if len(changes) == 0 {
		fmt.Fprintln(w.out, "No changes.")
		return w.back(res, nil)
	}
	res.Changes = changes

	res.State = PendingConfirmation
	candidate := inv.Raw.Clone()
	if candidate == nil {
		candidate = model.RawRecord{}
	}
	for _, c := range changes {
		candidate[c.Field] = c.New
	}
	if bad := stillFailing(w.validator.Validate(candidate), changes); len(bad) > 0 {
		for _, f := range bad {
			fmt.Fprintf(w.out, "  %s\n", f)
		}
		return w.back(res, ErrStillInvalid)
	}

	w.diff(changes)
	ok, err := w.prompt.Confirm("Write these changes to the source system?")
	if err != nil {
		return w.back(res, err)
	}
	if !ok {
		fmt.Fprintln(w.out, "Discarded.")
		return w.back(res, nil)
	}

	fields := make(map[string]string, len(changes))
	for _, c := range changes {
		fields[c.Field] = c.New
	}
	updated, err := w.src.EditAppointment(ctx, inv.ID, fields)
	if err != nil {
		log.Error().Err(err).Strs("fields", fieldNames(changes)).Msg("repair write back failed")
		return w.back(res, &CommitError{AppointmentID: inv.ID, Fields: fieldNames(changes), Err: err})
	}
	if updated == nil {
		updated = candidate
	}
	res.State = Committed
	res.Outcome = w.validator.Validate(updated)
	log.Info().Strs("fields", fieldNames(changes)).Msg("repaired appointment")
	return res
}

func (w *Workflow) back(res Result, err error) Result {
	res.State = Reported
	res.Err = err
	return res
}

func (w *Workflow) report(inv *model.Invalid) {
	fmt.Fprintf(w.out, "\nAppointment %d  %s  %s\n", inv.ID, inv.ScheduledAt, inv.Location)
	for _, f := range inv.Failures {
		fmt.Fprintf(w.out, "  %-22s %q  %s\n", f.Field, f.Raw, f.Reason)
	}
}

// collect asks for a replacement for each failing field once, in failure
// order. Empty input keeps the current value.
func (w *Workflow) collect(inv *model.Invalid) ([]Change, error) {
	var changes []Change
	seen := make(map[string]bool)
	for _, f := range inv.Failures {
		if seen[f.Field] {
			continue
		}
		seen[f.Field] = true
		if !w.canEdit(f.Field) {
			fmt.Fprintf(w.out, "  %s cannot be edited here, fix it in the scheduler\n", f.Field)
			continue
		}
		current := inv.Raw.Str(f.Field)
		v, err := w.prompt.Field(f.Field, current)
		if err != nil {
			return nil, fmt.Errorf("prompt %s: %w", f.Field, err)
		}
		if v == "" || v == current {
			continue
		}
		changes = append(changes, Change{Field: f.Field, Old: current, New: v})
	}
	return changes, nil
}

func (w *Workflow) canEdit(field string) bool {
	if readOnly[field] {
		return false
	}
	if w.editable != nil {
		return w.editable(field)
	}
	return true
}

func (w *Workflow) diff(changes []Change) {
	fmt.Fprintln(w.out, "Changes:")
	for _, c := range changes {
		fmt.Fprintf(w.out, "  %s: %q -> %q\n", c.Field, c.Old, c.New)
	}
}

// stillFailing returns failures on fields the operator changed. Failures on
// untouched fields do not block a partial repair.
func stillFailing(o model.Outcome, changes []Change) []model.FieldError {
	inv, ok := o.(*model.Invalid)
	if !ok {
		return nil
	}
	changed := make(map[string]bool, len(changes))
	for _, c := range changes {
		changed[c.Field] = true
	}
	var out []model.FieldError
	for _, f := range inv.Failures {
		if changed[f.Field] {
			out = append(out, f)
		}
	}
	return out
}

func fieldNames(changes []Change) []string {
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = c.Field
	}
	sort.Strings(out)
	return out
}
