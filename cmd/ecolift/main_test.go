package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blob.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRunLiftMissingFileErrors(t *testing.T) {
	if err := runLift(filepath.Join(t.TempDir(), "does-not-exist"), "0x0", "", 32); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestRunLiftInvalidBaseErrors(t *testing.T) {
	file := writeTempFile(t, []byte{0, 0})
	if err := runLift(file, "not-hex", "", 32); err == nil {
		t.Fatalf("expected an error for an invalid --base")
	}
}

func TestRunLiftInvalidAtErrors(t *testing.T) {
	file := writeTempFile(t, []byte{0, 0})
	if err := runLift(file, "0x0", "not-hex", 32); err == nil {
		t.Fatalf("expected an error for an invalid --at")
	}
}

func TestRunLiftDefaultsAtToBase(t *testing.T) {
	// OpRet, arg: a single-instruction block starting right at base.
	file := writeTempFile(t, []byte{5, 0})
	if err := runLift(file, "0x0", "", 32); err != nil {
		t.Fatalf("runLift: %v", err)
	}
}

func TestRunLiftSucceedsOnStraightLineCode(t *testing.T) {
	// OpMovA 9, OpRet 0
	file := writeTempFile(t, []byte{1, 9, 5, 0})
	if err := runLift(file, "0x10", "0x10", 32); err != nil {
		t.Fatalf("runLift: %v", err)
	}
}

func TestNewRootCmdRequiresFileFlag(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"lift"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error when --file is omitted")
	}
}
