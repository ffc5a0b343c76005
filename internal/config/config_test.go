package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	cfg, err := Parse(`
cpu = "z80"
origin = "$8000"
labels = false
entries = ["$8003", "$8010"]
`)
	if err != nil {
		t.Fatal(err)
	}
	off := false
	want := &Config{CPU: "z80", Origin: "$8000", Labels: &off, Entries: []string{"$8003", "$8010"}}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
	if cfg.LabelsOn() {
		t.Error("labels should be off")
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	if !cfg.LabelsOn() {
		t.Error("labels should default on")
	}
	yes := func(int) bool { return true }
	if !cfg.BytesOn(os.Stdout, yes) {
		t.Error("bytes should follow the terminal check")
	}
	no := false
	cfg.Bytes = &no
	if cfg.BytesOn(os.Stdout, yes) {
		t.Error("bytes = false should win over the terminal")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "tools.toml")
	if err := os.WriteFile(name, []byte("cpu = \"68010\"\nlinear = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(name)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CPU != "68010" || !cfg.Linear {
		t.Errorf("unexpected config %+v", cfg)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("a named file that is missing should fail")
	}
}
