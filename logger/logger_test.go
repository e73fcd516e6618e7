package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"ERROR":   ERROR,
		"WARN":    WARN,
		"INFO":    INFO,
		"DEBUG":   DEBUG,
		"unknown": INFO,
		"":        INFO,
	}
	for input, want := range cases {
		if got := LevelFromString(input); got != want {
			t.Errorf("LevelFromString(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestFileOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	log := New(INFO, dir)
	log.SetConsoleOutput(false)

	log.Info("walk complete", "target", "10.0.0.1", "variables", 42)
	log.Debug("should be filtered")
	if err := log.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "printprobe.log"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, "[INFO] walk complete target=10.0.0.1 variables=42") {
		t.Errorf("unexpected log content: %q", content)
	}
	if strings.Contains(content, "should be filtered") {
		t.Error("DEBUG message logged at INFO level")
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	log := New(ERROR, dir)
	log.SetConsoleOutput(false)

	log.Warn("not logged")
	log.Error("logged")
	log.SetLevel(DEBUG)
	log.Debug("now logged")
	log.Close()

	data, err := os.ReadFile(filepath.Join(dir, "printprobe.log"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if strings.Contains(content, "not logged") {
		t.Error("WARN logged at ERROR level")
	}
	if !strings.Contains(content, "[ERROR] logged") {
		t.Error("ERROR message missing")
	}
	if !strings.Contains(content, "[DEBUG] now logged") {
		t.Error("DEBUG message missing after SetLevel")
	}
}

func TestNoDirNoFile(t *testing.T) {
	t.Parallel()

	log := New(INFO, "")
	log.SetConsoleOutput(false)
	log.Info("nowhere to go")
	if err := log.Close(); err != nil {
		t.Fatal(err)
	}
}
