package validate

import (
	"github.com/gyeh/vaxup/internal/model"
	"github.com/gyeh/vaxup/internal/normalize"
)

// Target extracts what addresses an existing enrollment: id, location,
// appointment time, cancellation and confirmation id. No other field is
// checked, so a confirmed record that has since stopped passing the rules can
// still be unenrolled. An unparseable time is left zero.
func Target(r model.RawRecord) (*model.Appointment, []model.FieldError) {
	c := &collector{raw: r}
	a := &model.Appointment{
		ID:       c.id(),
		Location: c.location(),
		Canceled: canceled(r),
		Note:     model.NoteNone,
	}
	if t, err := normalize.ScheduledAt(r.Str(model.FieldScheduledAt)); err == nil {
		a.ScheduledAt = t
	}
	a.ConfirmationID = normalize.Text(r.Str(model.FieldConfirmationID))
	if len(c.failures) > 0 {
		return nil, c.failures
	}
	return a, nil
}
