package deploy

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// writeStubCommand creates a stand-in for the warehouse CLI that fails with
// exit code 3 when the query text contains "FAIL".
func writeStubCommand(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub command requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	script := "#!/bin/sh\nif grep -q FAIL; then\n  exit 3\nfi\nexit 0\n"
	path := filepath.Join(t.TempDir(), "stub-bq")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write stub command: %v", err)
	}
	return path
}

func TestCLIRunnerSuccess(t *testing.T) {
	stub := writeStubCommand(t)
	workDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(workDir, "a.sql"), []byte("CREATE OR REPLACE VIEW a AS SELECT 1"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	runner := NewCLIRunner(stub, workDir, os.Environ())
	code, err := runner.RunQuery(context.Background(), Target{Project: "test-project"}, "a.sql")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
}

func TestCLIRunnerFailureSurfacesExitCode(t *testing.T) {
	stub := writeStubCommand(t)
	workDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(workDir, "bad.sql"), []byte("SELECT FAIL"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	runner := NewCLIRunner(stub, workDir, os.Environ())
	code, err := runner.RunQuery(context.Background(), Target{Project: "test-project"}, "bad.sql")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code != 3 {
		t.Errorf("expected exit code 3, got %d", code)
	}
}

func TestCLIRunnerMissingFile(t *testing.T) {
	stub := writeStubCommand(t)
	runner := NewCLIRunner(stub, t.TempDir(), os.Environ())
	code, err := runner.RunQuery(context.Background(), Target{Project: "test-project"}, "missing.sql")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	if code != 1 {
		t.Errorf("expected sentinel exit code 1, got %d", code)
	}
}

func TestCLIRunnerMissingCommand(t *testing.T) {
	workDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(workDir, "a.sql"), []byte("SELECT 1"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	runner := NewCLIRunner(filepath.Join(workDir, "no-such-command"), workDir, os.Environ())
	code, err := runner.RunQuery(context.Background(), Target{Project: "test-project"}, "a.sql")
	if err == nil {
		t.Fatal("expected error for missing command, got nil")
	}
	if code != 1 {
		t.Errorf("expected sentinel exit code 1, got %d", code)
	}
}
