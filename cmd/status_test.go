package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"pgregory.net/rapid"

	"github.com/vcampelo/zaporder/internal/dedup"
)

// executeCommand runs a cobra command with the given args and captures
// combined output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

func TestStatusCountsTodaysContacts(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(rt, "n")

		tmp := t.TempDir()
		var sb strings.Builder
		sb.WriteString(time.Now().Format(dedup.DateLayout) + "\n")
		for i := 0; i < n; i++ {
			sb.WriteString(fmt.Sprintf("859816471%02d\n", i))
		}
		if err := os.WriteFile(filepath.Join(tmp, "list_checked.txt"), []byte(sb.String()), 0o644); err != nil {
			rt.Fatalf("seeding dedup file: %v", err)
		}

		out, err := executeCommand(rootCmd, "status", "--data-dir", tmp)
		if err != nil {
			rt.Fatalf("status: %v", err)
		}
		want := fmt.Sprintf("Contacts today: %d", n)
		if !strings.Contains(out, want) {
			rt.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	})
}

func TestStatusDoesNotRollOverStaleStore(t *testing.T) {
	tmp := t.TempDir()
	stale := "01/01/2020\n85981647142\n"
	path := filepath.Join(tmp, "list_checked.txt")
	if err := os.WriteFile(path, []byte(stale), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "status", "--data-dir", tmp)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Contacts today: 0") {
		t.Errorf("stale store not reported as zero:\n%s", out)
	}
	if !strings.Contains(out, "01/01/2020") {
		t.Errorf("last run date missing from output:\n%s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != stale {
		t.Error("status rewrote the dedup file; it must be read-only")
	}
}

func TestStatusWithoutStore(t *testing.T) {
	out, err := executeCommand(rootCmd, "status", "--data-dir", t.TempDir())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "none recorded yet") {
		t.Errorf("missing empty-store notice:\n%s", out)
	}
}
