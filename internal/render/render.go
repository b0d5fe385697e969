// Package render prints run results as console tables.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gyeh/vaxup/internal/model"
	"github.com/gyeh/vaxup/internal/parquetio"
	"github.com/gyeh/vaxup/internal/repair"
	"github.com/gyeh/vaxup/internal/schedule"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// CheckSummary prints the counts of a check run.
func CheckSummary(w io.Writer, s model.CheckSummary) {
	fmt.Fprintf(w, "%s: %d appointments, %d valid, %d invalid, %d canceled", s.Date, s.Total, s.Valid, s.Invalid, s.Canceled)
	if s.Repaired > 0 {
		fmt.Fprintf(w, ", %d repaired", s.Repaired)
	}
	fmt.Fprintln(w)
}

// Invalid prints one line per failing field.
func Invalid(w io.Writer, invalid []*model.Invalid) {
	if len(invalid) == 0 {
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tSCHEDULED\tLOCATION\tFIELD\tVALUE\tPROBLEM")
	for _, inv := range invalid {
		for i, f := range inv.Failures {
			id, when, loc := "", "", ""
			if i == 0 {
				id, when, loc = fmt.Sprint(inv.ID), inv.ScheduledAt, inv.Location
				if inv.Canceled {
					id += " (canceled)"
				}
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%q\t%s\n", id, when, loc, f.Field, f.Raw, f.Reason)
		}
	}
	tw.Flush()
}

// Valid prints validated appointments.
func Valid(w io.Writer, appts []model.Appointment) {
	if len(appts) == 0 {
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tLOCATION\tNAME\tSTATUS")
	for i := range appts {
		a := &appts[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s %s\t%s\n", a.ID, a.DateStr(), a.TimeStr(), a.Location, a.FirstName, a.LastName, status(a))
	}
	tw.Flush()
}

func status(a *model.Appointment) string {
	if reason, skip := schedule.SkipReason(a); skip {
		if a.Scheduled() && !a.Canceled {
			return reason + " (" + *a.ConfirmationID + ")"
		}
		return reason
	}
	return "ready"
}

// Appointment prints every canonical field of a.
func Appointment(w io.Writer, a *model.Appointment) {
	tw := table(w)
	opt := func(p *string) string {
		if p == nil {
			return "-"
		}
		return *p
	}
	rows := [][2]string{
		{"id", fmt.Sprint(a.ID)},
		{"scheduled", a.DateStr() + " " + a.TimeStr()},
		{"location", a.Location.String()},
		{"name", a.FirstName + " " + a.LastName},
		{"date of birth", a.DobStr()},
		{"phone", opt(a.Phone)},
		{"email", a.Email},
		{"address", strings.TrimSpace(a.StreetAddress + " " + opt(a.Apartment))},
		{"city/state/zip", a.City + ", " + a.State + " " + a.ZipCode},
		{"race", string(a.Race)},
		{"sex", string(a.Sex)},
		{"ethnicity", string(a.Ethnicity)},
		{"health insurance", fmt.Sprint(a.HasHealthInsurance)},
		{"canceled", fmt.Sprint(a.Canceled)},
		{"confirmation", opt(a.ConfirmationID)},
		{"status", status(a)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
	}
	tw.Flush()
}

// EnrollReport prints every entry and the totals. Write-back failures get a
// separate warning block since the destination and source now disagree.
func EnrollReport(w io.Writer, rep *schedule.Report) {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tLOCATION\tSCHEDULED\tSTATUS\tCONFIRMATION\tREASON")
	for _, e := range rep.Entries {
		when := ""
		if !e.ScheduledAt.IsZero() {
			when = e.ScheduledAt.Format(model.DateLayout + " " + model.TimeLayout)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", e.AppointmentID, e.Location, when, e.Status, e.ConfirmationID, e.Reason)
	}
	tw.Flush()

	prefix := ""
	if rep.DryRun {
		prefix = "[dry run] "
	}
	fmt.Fprintf(w, "\n%s%d scheduled, %d dry run, %d skipped, %d failed, %d write-back failed (run %s, %s)\n",
		prefix,
		rep.Count(schedule.StatusScheduled), rep.Count(schedule.StatusDryRun), rep.Count(schedule.StatusSkipped),
		rep.Count(schedule.StatusFailed), rep.Count(schedule.StatusWriteBackFailed),
		rep.RunID, rep.Elapsed.Round(time.Millisecond))

	if failures := rep.WriteBackFailures(); len(failures) > 0 {
		WriteBackWarning(w, failures)
	}
}

// WriteBackWarning lists enrollments the source system does not know about.
func WriteBackWarning(w io.Writer, failures []schedule.Entry) {
	fmt.Fprintln(w, "\n!!! WARNING: the enrollment site accepted these appointments but the scheduler was NOT updated.")
	fmt.Fprintln(w, "!!! Record the confirmation ids in the scheduler by hand before re-running enroll.")
	tw := table(w)
	for _, e := range failures {
		fmt.Fprintf(tw, "!!!\t%d\t%s\t%s\n", e.AppointmentID, e.ConfirmationID, e.Err)
	}
	tw.Flush()
}

// RepairResults prints where each repaired record ended up.
func RepairResults(w io.Writer, results []repair.Result) {
	if len(results) == 0 {
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tSTATE\tCHANGED\tRESULT")
	for _, r := range results {
		changed := make([]string, len(r.Changes))
		for i, c := range r.Changes {
			changed[i] = c.Field
		}
		result := ""
		switch {
		case r.Err != nil:
			result = r.Err.Error()
		case r.Outcome != nil:
			if inv, ok := r.Outcome.(*model.Invalid); ok {
				result = "still invalid: " + inv.String()
			} else {
				result = "valid"
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.ID, r.State, strings.Join(changed, ","), result)
	}
	tw.Flush()
}

// ReportRows prints a stored check or enroll report with per-status totals.
func ReportRows(w io.Writer, rows []parquetio.ReportRow) {
	opt := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tLOCATION\tSCHEDULED\tSTATUS\tCONFIRMATION\tFIELDS\tREASON")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.AppointmentID, r.Location, r.ScheduledAt, r.Status, opt(r.ConfirmationID), opt(r.Fields), opt(r.Reason))
	}
	tw.Flush()

	totals := parquetio.Tally(rows)
	parts := make([]string, len(totals))
	for i, c := range totals {
		parts[i] = fmt.Sprintf("%d %s", c.Count, c.Status)
	}
	fmt.Fprintf(w, "\n%d rows: %s\n", len(rows), strings.Join(parts, ", "))
}
