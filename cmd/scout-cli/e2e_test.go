package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestCLIJSONOutput(t *testing.T) {
	fixture := t.TempDir()
	if err := os.WriteFile(filepath.Join(fixture, "sample.txt"), []byte("scout test\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cmd := exec.Command("go", "run", "./cmd/scout-cli", "--json", "--dir", fixture, "test question")
	cmd.Env = append(os.Environ(), "SCOUT_MOCK_LLM=1")
	wd, _ := os.Getwd()
	cmd.Dir = filepath.Dir(filepath.Dir(wd))

	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(out, &payload); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if payload["turn_id"] == "" {
		t.Fatalf("expected turn_id")
	}
	if payload["final_answer"] == "" {
		t.Fatalf("expected final_answer")
	}
	if payload["status"] != "success" {
		t.Fatalf("expected success status, got %v", payload["status"])
	}
}

func TestCLIMissingAPIKeyFailsCleanly(t *testing.T) {
	cmd := exec.Command("go", "run", "./cmd/scout-cli", "--dir", t.TempDir(), "test question")
	env := make([]string, 0, len(os.Environ()))
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "OPENROUTER_API_KEY=") ||
			strings.HasPrefix(kv, "OPENAI_API_KEY=") ||
			strings.HasPrefix(kv, "SCOUT_MOCK_LLM=") {
			continue
		}
		env = append(env, kv)
	}
	cmd.Env = env
	wd, _ := os.Getwd()
	cmd.Dir = filepath.Dir(filepath.Dir(wd))

	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected nonzero exit without an API key")
	}
	if !strings.Contains(string(out), "OPENROUTER_API_KEY is required") {
		t.Fatalf("expected missing-key message, got %q", string(out))
	}
}

func TestCLIReplMock(t *testing.T) {
	fixture := t.TempDir()
	if err := os.WriteFile(filepath.Join(fixture, "sample.txt"), []byte("scout test\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cmd := exec.Command("go", "run", "./cmd/scout-cli", "--dir", fixture)
	cmd.Env = append(os.Environ(), "SCOUT_MOCK_LLM=1")
	cmd.Stdin = strings.NewReader("what files are here?\n")
	wd, _ := os.Getwd()
	cmd.Dir = filepath.Dir(filepath.Dir(wd))

	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	text := string(out)
	if !strings.Contains(text, ">> Ready!") {
		t.Fatalf("expected session banner, got %q", text)
	}
	if !strings.Contains(text, "in 0, out 0> ") {
		t.Fatalf("expected usage prompt, got %q", text)
	}
	if !strings.Contains(text, ">> Goodbye!") {
		t.Fatalf("expected goodbye on EOF, got %q", text)
	}
}
