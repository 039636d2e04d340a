package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestArgs(t *testing.T) {
	cases := []struct {
		args []string
		ok   bool
	}{
		{nil, false},
		{[]string{"a.json", "out", "extra"}, false},
		{[]string{"--experiments", "out", "extra"}, false},
	}
	for _, c := range cases {
		out, err := execute(t, c.args...)
		if (err == nil) != c.ok {
			t.Fatalf("%v: err = %v", c.args, err)
		}
		if !c.ok && !strings.Contains(out, "Usage:") {
			t.Fatalf("%v: expected usage text, got %q", c.args, out)
		}
	}
}

func TestOutputArg(t *testing.T) {
	if got := outputArg(options{}, []string{"in.csv", "dir"}); got != "dir" {
		t.Fatalf("single-file output = %q", got)
	}
	if got := outputArg(options{experiments: true}, []string{"dir"}); got != "dir" {
		t.Fatalf("batch output = %q", got)
	}
	if got := outputArg(options{}, []string{"in.csv"}); got != "" {
		t.Fatalf("default output = %q", got)
	}
}

func TestRunSingleFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "exp3_cpu.csv")
	csv := "cpu_limit_cores,measured_cpu_percent,deviation_percent,throughput_iter_per_sec\n" +
		"-1,99,0,1000\n0.5,48,-4,480\n"
	if err := os.WriteFile(in, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "graphs", "nested")
	prom := filepath.Join(dir, "rmviz.prom")
	out, err := execute(t, "--metrics-file", prom, "--no-hints", in, outDir)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "3 chart(s) written") {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := os.Stat(filepath.Join(outDir, "exp3_deviation.png")); err != nil {
		t.Fatalf("chart missing: %v", err)
	}
	if _, err := os.Stat(prom); err != nil {
		t.Fatalf("metrics file missing: %v", err)
	}
}

func TestRunTerminalErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, filepath.Join(dir, "notes.txt"), dir); err == nil {
		t.Fatal("unclassifiable input must fail")
	}
	if _, err := execute(t, filepath.Join(dir, "exp1_missing.csv"), dir); err == nil {
		t.Fatal("missing input must fail")
	}
	if _, err := execute(t, "--log-level", "loud", filepath.Join(dir, "exp1.csv"), dir); err == nil {
		t.Fatal("invalid log level must fail")
	}
}

func TestRunExperimentsNothingFound(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "--experiments", "--data-dir", dir, filepath.Join(dir, "graphs"))
	if err != nil {
		t.Fatalf("batch mode with nothing to do is not an error: %v", err)
	}
	if !strings.Contains(out, "not found") || !strings.Contains(out, "sudo ./bin/monitor experiment") {
		t.Fatalf("expected summary and guidance, got:\n%s", out)
	}
}
