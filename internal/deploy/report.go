package deploy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/natefinch/atomic"
)

// Report is the machine-readable summary of a run, written for CI artifact
// collection.
type Report struct {
	Status    string       `json:"status"`
	Project   string       `json:"project"`
	Base      string       `json:"base"`
	Head      string       `json:"head"`
	StartTime time.Time    `json:"start_time"`
	EndTime   time.Time    `json:"end_time"`
	Files     []FileReport `json:"files"`

	FailedPath string `json:"failed_path,omitempty"`
	ExitCode   int    `json:"exit_code,omitempty"`
}

type FileReport struct {
	Path     string `json:"path"`
	Success  bool   `json:"success"`
	ExitCode int    `json:"exit_code"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

// WriteReport writes the run summary as JSON. The write is atomic so a
// killed job never leaves a truncated report behind.
func WriteReport(path string, result *RunResult, target Target, base, head string) error {
	report := Report{
		Status:     result.Status.String(),
		Project:    target.Project,
		Base:       base,
		Head:       head,
		StartTime:  result.StartTime,
		EndTime:    result.EndTime,
		FailedPath: result.FailedPath,
		ExitCode:   result.ExitCode,
	}

	for _, outcome := range result.Outcomes {
		file := FileReport{
			Path:     outcome.Path,
			Success:  outcome.Success,
			ExitCode: outcome.ExitCode,
			Duration: outcome.EndTime.Sub(outcome.StartTime).String(),
		}
		if outcome.Error != nil {
			file.Error = outcome.Error.Error()
		}
		report.Files = append(report.Files, file)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %v", err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write report to %s: %v", path, err)
	}

	return nil
}
