package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogsPlainPrintsFile(t *testing.T) {
	tmp := t.TempDir()
	line := "SUCCESS: 85981647142 processed (Whatsmenu) 01/09/2026 10:00:00\n"
	if err := os.WriteFile(filepath.Join(tmp, "log.txt"), []byte(line), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "logs", "--data-dir", tmp, "--plain")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(out, "85981647142 processed") {
		t.Errorf("log line missing from output:\n%s", out)
	}
}

func TestLogsEmptyFile(t *testing.T) {
	out, err := executeCommand(rootCmd, "logs", "--data-dir", t.TempDir(), "--plain")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(out, "log is empty") {
		t.Errorf("missing empty-log notice:\n%s", out)
	}
}
