package main

import (
	"testing"

	"github.com/gyeh/vaxup/internal/exitcode"
	"github.com/gyeh/vaxup/internal/schedule"
)

func TestEnrollExitCode(t *testing.T) {
	entries := func(statuses ...schedule.Status) *schedule.Report {
		rep := &schedule.Report{}
		for i, s := range statuses {
			rep.Entries = append(rep.Entries, schedule.Entry{AppointmentID: int64(i + 1), Status: s})
		}
		return rep
	}
	tests := []struct {
		name string
		rep  *schedule.Report
		want int
	}{
		{"clean", entries(schedule.StatusScheduled, schedule.StatusSkipped), exitcode.Success},
		{"nothing to do", entries(), exitcode.Success},
		{"one failure", entries(schedule.StatusScheduled, schedule.StatusFailed), exitcode.Success},
		{"write back failure", entries(schedule.StatusWriteBackFailed), exitcode.Success},
		{"dry run", entries(schedule.StatusDryRun, schedule.StatusFailed), exitcode.Success},
		{"all failed", entries(schedule.StatusFailed, schedule.StatusFailed, schedule.StatusSkipped), exitcode.DestinationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := enrollExitCode(tt.rep); got != tt.want {
				t.Errorf("enrollExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}
