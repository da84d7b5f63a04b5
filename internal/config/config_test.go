package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsValues(t *testing.T) {
	d := Defaults()
	if d.WaitTime != "10" {
		t.Errorf("WaitTime: want %q, got %q", "10", d.WaitTime)
	}
	if !d.CheckMessages {
		t.Error("CheckMessages: want true by default")
	}
	if d.ForceVisible || d.LogOn {
		t.Error("ForceVisible and LogOn must default to false")
	}
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s != Defaults() {
		t.Errorf("Load on missing file = %+v, want defaults", s)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("fresh settings file not written: %v", err)
	}
}

func TestLoadMigratesLegacyBrowserKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"browser": true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !s.ForceVisible {
		t.Error("legacy browser=true did not migrate to ForceVisible")
	}

	// The rewritten file must carry force_visible and drop the legacy key.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var onDisk map[string]any
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("rewritten settings not valid JSON: %v", err)
	}
	if _, ok := onDisk["browser"]; ok {
		t.Error("legacy browser key survived the rewrite")
	}
	if v, ok := onDisk["force_visible"].(bool); !ok || !v {
		t.Errorf("force_visible = %v, want true", onDisk["force_visible"])
	}
}

func TestLoadExplicitForceVisibleBeatsLegacyKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{"browser": true, "force_visible": false}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ForceVisible {
		t.Error("legacy key overrode an explicit force_visible")
	}
}

func TestLoadMalformedFileBacksUpAndResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	broken := `{"msg_title": "Beruchy`
	if err := os.WriteFile(path, []byte(broken), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load error = %v, want *ParseError", err)
	}
	if s != Defaults() {
		t.Errorf("Load after corruption = %+v, want defaults", s)
	}

	backup, err := os.ReadFile(path + ".backup")
	if err != nil {
		t.Fatalf("backup file missing: %v", err)
	}
	if string(backup) != broken {
		t.Errorf("backup content = %q, want original broken content", backup)
	}

	if _, err := Load(path); err != nil {
		t.Errorf("reload after reset failed: %v", err)
	}
}

func TestLoadFillsMissingKeysFromDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{"msg_title": "Beruchy Hamburgueria Delivery"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.MsgTitle != "Beruchy Hamburgueria Delivery" {
		t.Errorf("MsgTitle = %q", s.MsgTitle)
	}
	if s.WaitTime != "10" || !s.CheckMessages {
		t.Errorf("missing keys not filled from defaults: %+v", s)
	}
}

func TestWaitSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"10", 10},
		{"0", 0},
		{"37", 37},
		{"", 10},
		{"abc", 10},
		{"-5", 10},
	}
	for _, tt := range tests {
		s := Settings{WaitTime: tt.in}
		if got := s.WaitSeconds(); got != tt.want {
			t.Errorf("WaitSeconds(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMessageLines(t *testing.T) {
	s := Settings{AutomaticMsg: "Recebemos o seu pedido.\nObrigado!"}
	lines := s.MessageLines()
	if len(lines) != 2 || lines[0] != "Recebemos o seu pedido." || lines[1] != "Obrigado!" {
		t.Errorf("MessageLines = %q", lines)
	}
	if got := (Settings{}).MessageLines(); got != nil {
		t.Errorf("empty body: want nil, got %q", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	want := Settings{
		MsgTitle:      "Beruchy",
		AutomaticMsg:  "linha 1\nlinha 2",
		ForceVisible:  true,
		WaitTime:      "15",
		LogOn:         true,
		CheckMessages: false,
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("round trip: got %+v, want %+v", got, want)
	}
}

func TestNewPathsLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "zaporder")
	p, err := NewPaths(root)
	if err != nil {
		t.Fatalf("NewPaths: %v", err)
	}
	if p.SettingsFile != filepath.Join(root, "settings.json") {
		t.Errorf("SettingsFile = %q", p.SettingsFile)
	}
	if p.DedupFile != filepath.Join(root, "list_checked.txt") {
		t.Errorf("DedupFile = %q", p.DedupFile)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		t.Errorf("root directory not created: %v", err)
	}
}
