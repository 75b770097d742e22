package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand("1.2.3", "abc123", "2024-03-05")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "ideas 1.2.3 (abc123) built on 2024-03-05") {
		t.Fatalf("version output = %q", out)
	}
	if !strings.Contains(out, "OS/Arch:") {
		t.Fatalf("version output missing platform: %q", out)
	}
}

func TestLogsCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	logPath := filepath.Join(dir, "ideas.log")
	t.Setenv("IDEAS_LOG_FILE", logPath)

	out, err := runCommand(t, "logs")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(out, "no log entries") {
		t.Fatalf("logs output = %q, want empty notice", out)
	}

	content := `{"level":"info","message":"Starting"}
{"level":"warn","page":4,"message":"Listing fetch failed"}
{"level":"info","message":"Stopped"}
`
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err = runCommand(t, "logs", "-n", "2")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	want := "WRN Listing fetch failed page=4\nINF Stopped\n"
	if out != want {
		t.Fatalf("logs output = %q, want %q", out, want)
	}

	out, err = runCommand(t, "logs", "-n", "1", "--raw")
	if err != nil {
		t.Fatalf("logs --raw: %v", err)
	}
	if out != `{"level":"info","message":"Stopped"}`+"\n" {
		t.Fatalf("raw output = %q", out)
	}
}

func TestRootRejectsExtraArgs(t *testing.T) {
	if _, err := runCommand(t, "a", "b"); err == nil {
		t.Fatal("expected error for two view URLs")
	}
}
