package deploy

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// QueryRunner executes a single SQL file against a target. A nil error
// means exit code 0; a non-nil error reports the exit code alongside the
// failure detail.
type QueryRunner interface {
	RunQuery(ctx context.Context, target Target, path string) (int, error)
}

// CLIRunner drives the warehouse's query CLI (`bq` by default), feeding the
// file's current content on stdin and executing in batch mode. Candidate
// paths are resolved relative to workDir, the repository root.
type CLIRunner struct {
	command     string
	workDir     string
	environment []string
}

func NewCLIRunner(command, workDir string, environment []string) *CLIRunner {
	if command == "" {
		command = "bq"
	}
	return &CLIRunner{command: command, workDir: workDir, environment: environment}
}

func (r *CLIRunner) RunQuery(ctx context.Context, target Target, path string) (int, error) {
	file, err := os.Open(filepath.Join(r.workDir, path))
	if err != nil {
		return 1, fmt.Errorf("failed to open %s: %v", path, err)
	}
	defer file.Close()

	args := []string{
		"query",
		fmt.Sprintf("--project_id=%s", target.Project),
		"--batch",
	}
	if target.Dialect == "legacy" {
		args = append(args, "--use_legacy_sql")
	} else {
		args = append(args, "--nouse_legacy_sql")
	}
	if target.Location != "" {
		args = append(args, fmt.Sprintf("--location=%s", target.Location))
	}

	cmd := exec.CommandContext(ctx, r.command, args...)
	cmd.Dir = r.workDir
	cmd.Stdin = file

	env := r.environment
	if env == nil {
		env = os.Environ()
	}
	if target.CredentialsFile != "" {
		env = append(env, fmt.Sprintf("GOOGLE_APPLICATION_CREDENTIALS=%s", target.CredentialsFile))
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		code := 1
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
		fullError := fmt.Sprintf("command failed: %v", err)
		if errorOutput := strings.TrimSpace(stderr.String()); errorOutput != "" {
			fullError = fmt.Sprintf("%s\nstderr: %s", fullError, errorOutput)
		}
		return code, fmt.Errorf("%s", fullError)
	}

	return 0, nil
}
