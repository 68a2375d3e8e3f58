// Package integration provides CLI integration tests for stockroom.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// stockroomBin is the path to the built stockroom binary.
	stockroomBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetStockroomBin sets the path to the stockroom binary (called from TestMain).
func SetStockroomBin(path string) {
	stockroomBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config and data directory.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	DataDir string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build stockroom: %v", buildErr)
	}
	if stockroomBin == "" {
		t.Fatal("stockroom binary not built (stockroomBin is empty)")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "backend: sqlite\ndata_dir: " + dataDir + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  configDir,
		DataDir: dataDir,
	}
}

// CmdResult holds the result of a stockroom command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunStockroom executes the stockroom CLI with the given arguments.
// Returns stdout, stderr, and exit code.
func (e *TestEnv) RunStockroom(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...)
	cmd := exec.Command(stockroomBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run stockroom: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunStockroom executes the stockroom CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRunStockroom(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunStockroom(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("stockroom %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// Product mirrors the product JSON shape printed by the CLI.
type Product struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	SellingPrice float64 `json:"selling_price"`
	Stock        int     `json:"stock"`
}

// Debit mirrors the debit JSON shape printed by the CLI.
type Debit struct {
	DebitID    string  `json:"debit_id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	AmountPaid float64 `json:"amount_paid"`
	Status     string  `json:"status"`
}

// StatsOut mirrors the stats JSON shape printed by the CLI.
type StatsOut struct {
	Pool struct {
		Size     int   `json:"size"`
		Acquires int64 `json:"acquires"`
	} `json:"pool"`
	Cache struct {
		Hits   int64 `json:"hits"`
		Misses int64 `json:"misses"`
	} `json:"cache"`
	Queries struct {
		Total int64 `json:"total"`
	} `json:"queries"`
}

// isUUID checks if a string looks like a UUID (basic format check).
func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	// UUID format: 8-4-4-4-12 with hyphens at positions 8, 13, 18, 23.
	return s[8] == '-' && s[13] == '-' && s[18] == '-' && s[23] == '-'
}
