package deploy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteReport(t *testing.T) {
	now := time.Now()
	result := &RunResult{
		Status:     StatusHaltedOnFailure,
		FailedPath: "views/ddls/y.sql",
		ExitCode:   1,
		StartTime:  now,
		EndTime:    now.Add(2 * time.Second),
		Outcomes: []Outcome{
			{Path: "views/ddls/x.sql", Success: true, StartTime: now, EndTime: now.Add(time.Second)},
			{Path: "views/ddls/y.sql", Success: false, ExitCode: 1, Error: os.ErrInvalid, StartTime: now.Add(time.Second), EndTime: now.Add(2 * time.Second)},
		},
	}

	path := filepath.Join(t.TempDir(), "report.json")
	target := Target{Project: "test-project"}
	if err := WriteReport(path, result, target, "abc123", "def456"); err != nil {
		t.Fatalf("failed to write report: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("failed to unmarshal report: %v", err)
	}

	if report.Status != "halted_on_failure" {
		t.Errorf("expected halted_on_failure, got %q", report.Status)
	}
	if report.FailedPath != "views/ddls/y.sql" || report.ExitCode != 1 {
		t.Errorf("unexpected failure fields: %s/%d", report.FailedPath, report.ExitCode)
	}
	if report.Base != "abc123" || report.Head != "def456" {
		t.Errorf("unexpected revision range: %s...%s", report.Base, report.Head)
	}
	if len(report.Files) != 2 {
		t.Fatalf("expected 2 file entries, got %d", len(report.Files))
	}
	if !report.Files[0].Success || report.Files[1].Success {
		t.Errorf("unexpected per-file success flags: %+v", report.Files)
	}
	if report.Files[1].Error == "" {
		t.Error("expected an error message on the failed file")
	}
}

func TestWriteReportUnwritablePath(t *testing.T) {
	result := &RunResult{Status: StatusSkipped}
	err := WriteReport(filepath.Join(t.TempDir(), "missing", "report.json"), result, Target{}, "a", "b")
	if err == nil {
		t.Error("expected error for unwritable path, got nil")
	}
}
