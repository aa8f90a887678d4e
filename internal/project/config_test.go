package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "rlox.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[interpreter]
max_diagnostics = 25
color = "never"

[gc]
threshold = 4096
stress = true

[repl]
banner = false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interpreter.MaxDiagnostics != 25 || cfg.Interpreter.Color != "never" {
		t.Fatalf("interpreter = %+v", cfg.Interpreter)
	}
	if cfg.GC.Threshold != 4096 || !cfg.GC.Stress {
		t.Fatalf("gc = %+v", cfg.GC)
	}
	if cfg.Repl.Banner {
		t.Fatal("banner should be disabled")
	}
	// Untouched sections keep defaults.
	if !cfg.Check.Cache {
		t.Fatal("check.cache default lost")
	}
}

func TestLoadConfigRejectsBadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[interpreter\nmax_diagnostics = ")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("malformed manifest should fail to parse")
	}
}

func TestLoadConfigFromWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[interpreter]\nmax_diagnostics = 7\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interpreter.MaxDiagnostics != 7 {
		t.Fatalf("max_diagnostics = %d, want 7", cfg.Interpreter.MaxDiagnostics)
	}

	rootDir, ok, err := FindProjectRoot(nested)
	if err != nil || !ok {
		t.Fatalf("FindProjectRoot: ok=%v err=%v", ok, err)
	}
	resolved, _ := filepath.EvalSymlinks(rootDir)
	wantRoot, _ := filepath.EvalSymlinks(root)
	if resolved != wantRoot {
		t.Fatalf("root = %q, want %q", resolved, wantRoot)
	}
}

func TestLoadConfigFromDefaultsWithoutManifest(t *testing.T) {
	cfg, err := LoadConfigFrom(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestCombineIsOrderSensitive(t *testing.T) {
	var a, b, c Digest
	a[0], b[0], c[0] = 1, 2, 3

	ab := Combine(a, b, c)
	ba := Combine(a, c, b)
	if ab == ba {
		t.Fatal("input order must change the digest")
	}
	if Combine(a, b, c) != ab {
		t.Fatal("digest must be deterministic")
	}
}
