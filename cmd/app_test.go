package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocateApp(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "db.url"), []byte("postgresql://localhost/test\n"), 0o644); err != nil {
		t.Fatalf("failed to write db.url: %v", err)
	}
	nested := filepath.Join(root, "udf", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	t.Run("FindsRootFromNestedDirectory", func(t *testing.T) {
		app, ok := LocateApp(nested)
		if !ok {
			t.Fatal("expected to locate application root")
		}
		if app.Root != root {
			t.Fatalf("expected root %q, got %q", root, app.Root)
		}
	})

	t.Run("ReadsDatabaseURL", func(t *testing.T) {
		app, ok := LocateApp(root)
		if !ok {
			t.Fatal("expected to locate application root")
		}
		url, err := app.DatabaseURL()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if url != "postgresql://localhost/test" {
			t.Fatalf("unexpected database URL: %q", url)
		}
	})

	t.Run("CompiledReflectsSchemaArtifact", func(t *testing.T) {
		app, _ := LocateApp(root)
		if app.Compiled() {
			t.Fatal("app should not be compiled without run/schema.json")
		}
		if err := os.MkdirAll(filepath.Join(root, "run"), 0o755); err != nil {
			t.Fatalf("failed to create run dir: %v", err)
		}
		if err := os.WriteFile(app.SchemaPath(), []byte(`{"relations":{}}`), 0o644); err != nil {
			t.Fatalf("failed to write schema: %v", err)
		}
		if !app.Compiled() {
			t.Fatal("app should be compiled once run/schema.json exists")
		}
	})
}
