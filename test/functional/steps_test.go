package functional

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// aCleanKipperEnvironment is a no-op because the Before hook already resets
// the fake home directory. This step exists so feature files read naturally.
func aCleanKipperEnvironment(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

// kopiIsAlreadyInstalled seeds the canonical binary and the PATH symlink
// the way a finished install leaves them. The installer only checks the
// binary when deciding whether Kopi is present.
func kopiIsAlreadyInstalled(ctx context.Context) (context.Context, error) {
	state := getState(ctx)
	if state == nil {
		return ctx, fmt.Errorf("no test state; is the Before hook running?")
	}

	binary := filepath.Join(state.homeDir, ".kopi", "kopi")
	if err := os.MkdirAll(filepath.Dir(binary), 0o755); err != nil {
		return ctx, err
	}
	if err := os.WriteFile(binary, []byte("#!/bin/sh\necho kopi\n"), 0o755); err != nil {
		return ctx, err
	}

	link := filepath.Join(state.homeDir, ".local", "bin", "kopi")
	if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		return ctx, err
	}
	if err := os.Symlink(binary, link); err != nil {
		return ctx, err
	}
	return ctx, nil
}

// iRun executes a command string, replacing "kipper" with the test binary
// path. The child process sees the scenario's fake home, never the real one.
func iRun(ctx context.Context, command string) (context.Context, error) {
	state := getState(ctx)
	if state == nil {
		return ctx, fmt.Errorf("no test state; is the Before hook running?")
	}

	args := strings.Fields(command)
	if len(args) > 0 && args[0] == "kipper" {
		args[0] = state.binPath
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = state.homeDir
	cmd.Env = scenarioEnv(state)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	state.stdout = stdout.String()
	state.stderr = stderr.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			state.exitCode = exitErr.ExitCode()
		} else {
			return ctx, fmt.Errorf("command execution failed: %w", err)
		}
	} else {
		state.exitCode = 0
	}

	return ctx, nil
}

// scenarioEnv builds the child environment: the inherited one minus every
// variable the installer reads, plus the scenario's replacements. Filtering
// first keeps the list free of duplicate keys, which different libc
// implementations resolve differently.
func scenarioEnv(state *testState) []string {
	var env []string
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		switch {
		case key == "HOME", key == "SHELL", key == "PATH":
			continue
		case strings.HasPrefix(key, "KIPPER_"):
			continue
		}
		env = append(env, kv)
	}
	return append(env,
		"HOME="+state.homeDir,
		"SHELL=/bin/bash",
		"PATH="+filteredPATH(state.hiddenBinaries),
	)
}

func theExitCodeIs(ctx context.Context, expected int) error {
	state := getState(ctx)
	if state.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nstdout: %s\nstderr: %s",
			expected, state.exitCode, state.stdout, state.stderr)
	}
	return nil
}

func theExitCodeIsNot(ctx context.Context, notExpected int) error {
	state := getState(ctx)
	if state.exitCode == notExpected {
		return fmt.Errorf("expected exit code to not be %d\nstdout: %s\nstderr: %s",
			notExpected, state.stdout, state.stderr)
	}
	return nil
}

func theOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stdout, text) {
		return fmt.Errorf("expected stdout to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theOutputDoesNotContain(ctx context.Context, text string) error {
	state := getState(ctx)
	if strings.Contains(state.stdout, text) {
		return fmt.Errorf("expected stdout not to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theErrorOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stderr, text) {
		return fmt.Errorf("expected stderr to contain %q, got:\n%s", text, state.stderr)
	}
	return nil
}

func theErrorOutputDoesNotContain(ctx context.Context, text string) error {
	state := getState(ctx)
	if strings.Contains(state.stderr, text) {
		return fmt.Errorf("expected stderr not to contain %q, got:\n%s", text, state.stderr)
	}
	return nil
}

func theFileExists(ctx context.Context, path string) error {
	state := getState(ctx)
	fullPath := filepath.Join(state.homeDir, path)
	// Lstat so a symlink counts even when its target is gone
	if _, err := os.Lstat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("expected file %q to exist", fullPath)
	}
	return nil
}

func theFileDoesNotExist(ctx context.Context, path string) error {
	state := getState(ctx)
	fullPath := filepath.Join(state.homeDir, path)
	if _, err := os.Lstat(fullPath); err == nil {
		return fmt.Errorf("expected file %q not to exist", fullPath)
	}
	return nil
}
