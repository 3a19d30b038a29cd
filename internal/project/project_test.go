package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "kora.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "name: demo\nsources:\n  - build/ast\ncache: .cache/build.db\n")

	manifest, err := Load(filepath.Join(dir, "kora.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if manifest.Name != "demo" {
		t.Errorf("expected demo, got %q", manifest.Name)
	}
	if len(manifest.Sources) != 1 || manifest.Sources[0] != "build/ast" {
		t.Errorf("unexpected sources: %v", manifest.Sources)
	}
	if manifest.Cache != ".cache/build.db" {
		t.Errorf("unexpected cache: %q", manifest.Cache)
	}
}

func TestLoadAppliesCacheDefault(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "name: demo\n")

	manifest, err := Load(filepath.Join(dir, "kora.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if manifest.Cache != DefaultCachePath {
		t.Errorf("expected the default cache path, got %q", manifest.Cache)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "name: demo\n")

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	manifest, found, err := Discover(nested)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if manifest == nil || manifest.Name != "demo" {
		t.Fatal("expected the manifest from the root")
	}

	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedFound, _ := filepath.EvalSymlinks(found)
	if resolvedFound != resolvedRoot {
		t.Errorf("expected %s, got %s", resolvedRoot, resolvedFound)
	}
}

func TestDiscoverWithoutManifest(t *testing.T) {
	dir := t.TempDir()

	manifest, _, err := Discover(dir)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if manifest != nil {
		t.Error("expected no manifest")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "name: [unclosed\n")

	if _, err := Load(filepath.Join(dir, "kora.yaml")); err == nil {
		t.Fatal("expected a parse error")
	}
}
