package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPoliciesCommand(t *testing.T) {
	out, err := execute(t, "policies")
	if err != nil {
		t.Fatalf("policies failed: %v", err)
	}
	for _, id := range []string{"aim", "noisy-aim", "random"} {
		if !strings.Contains(out, id) {
			t.Errorf("output should list %q:\n%s", id, out)
		}
	}
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config", "--preset", "legacy", "--check", "--seed", "3")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if !strings.Contains(out, "hit_tolerance: 5") {
		t.Errorf("legacy preset should be applied:\n%s", out)
	}
	if !strings.Contains(out, "tick budget") {
		t.Errorf("--check should report the smoke shot:\n%s", out)
	}
	flagPreset, flagConfigCheck, flagSeed = "", false, 0
}

func TestConfigCommandRejectsUnknownPreset(t *testing.T) {
	_, err := execute(t, "config", "--preset", "impossible")
	if err == nil {
		t.Error("unknown preset should fail")
	}
	flagPreset = ""
}

func TestRunCommandSaves(t *testing.T) {
	db := filepath.Join(t.TempDir(), "shots.db")
	out, err := execute(t, "run", "--policy", "aim", "--episodes", "8", "--workers", "2",
		"--seed", "4", "--save", "--db", db, "--log-level", "error")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"Policy    aim", "Episodes  8", "Accuracy", "Run ID"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "stats", "--db", db, "--log-level", "error")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out, "aim") || !strings.Contains(out, "Recent runs") {
		t.Errorf("stats should show the saved run:\n%s", out)
	}
	flagRunSave, flagSeed, flagLogLevel = false, 0, "info"
}

func TestRunCommandUnknownPolicy(t *testing.T) {
	_, err := execute(t, "run", "--policy", "nobody", "--episodes", "1", "--log-level", "error")
	if err == nil {
		t.Error("unknown policy should fail")
	}
	flagRunPolicy, flagLogLevel = "aim", "info"
}

func TestStatsPolicyFilter(t *testing.T) {
	db := filepath.Join(t.TempDir(), "shots.db")
	for _, args := range [][]string{
		{"run", "--policy", "aim", "--episodes", "2", "--workers", "1", "--save", "--db", db, "--log-level", "error"},
		{"run", "--policy", "random", "--episodes", "2", "--workers", "1", "--save", "--db", db, "--log-level", "error"},
		{"run", "--policy", "random", "--episodes", "2", "--workers", "1", "--save", "--db", db, "--log-level", "error"},
	} {
		if _, err := execute(t, args...); err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
	}

	out, err := execute(t, "stats", "--policy", "aim", "--limit", "1", "--db", db, "--log-level", "error")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if strings.Contains(out, "random") {
		t.Errorf("--policy aim should hide other policies:\n%s", out)
	}
	_, recent, _ := strings.Cut(out, "Recent runs")
	if !strings.Contains(recent, "aim") {
		t.Errorf("the aim run should be listed even though newer runs exist:\n%s", out)
	}

	out, err = execute(t, "stats", "--policy", "noisy-aim", "--db", db, "--log-level", "error")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out, "No runs recorded for noisy-aim") {
		t.Errorf("unexpected output for a policy without runs:\n%s", out)
	}
	flagRunSave, flagRunPolicy, flagLogLevel = false, "aim", "info"
	flagStatsPolicy, flagStatsLimit = "", 10
}

func TestConnectHint(t *testing.T) {
	tests := []struct {
		addr     string
		expected string
	}{
		{":23234", "ssh localhost -p 23234"},
		{":2222", "ssh localhost -p 2222"},
		{"0.0.0.0:2200", "ssh localhost -p 2200"},
		{"arena.local:22", "ssh arena.local -p 22"},
	}
	for _, tc := range tests {
		if got := connectHint(tc.addr); got != tc.expected {
			t.Errorf("connectHint(%q) = %q, expected %q", tc.addr, got, tc.expected)
		}
	}
}
