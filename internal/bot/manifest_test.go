package bot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"
)

func TestParseManifest_Valid(t *testing.T) {
	dir := writeBot(t, t.TempDir(), "harvester", `
name: harvester
version: 1.0.0
wasm:
  file: bot.wasm
  size: 12
author: someone
`, reactorWasm)

	manifest, err := ParseManifest(dir)
	if err != nil {
		t.Fatalf("ParseManifest() failed: %v", err)
	}

	if manifest.Name != "harvester" {
		t.Errorf("expected Name 'harvester', got '%s'", manifest.Name)
	}

	if manifest.Version != "1.0.0" {
		t.Errorf("expected Version '1.0.0', got '%s'", manifest.Version)
	}

	if manifest.Entry != DefaultEntry {
		t.Errorf("expected default Entry '%s', got '%s'", DefaultEntry, manifest.Entry)
	}

	if manifest.Shard != DefaultShard {
		t.Errorf("expected default Shard '%s', got '%s'", DefaultShard, manifest.Shard)
	}

	if manifest.Author != "someone" {
		t.Errorf("expected Author 'someone', got '%s'", manifest.Author)
	}

	if manifest.WasmPath() != filepath.Join(dir, "bot.wasm") {
		t.Errorf("unexpected WasmPath %s", manifest.WasmPath())
	}

	if manifest.Dir() != dir {
		t.Errorf("expected Dir %s, got %s", dir, manifest.Dir())
	}
}

func TestParseManifest_Overrides(t *testing.T) {
	dir := writeBot(t, t.TempDir(), "b", "name: b\nversion: '2'\nwasm:\n  file: bot.wasm\nentry: tick\nshard: shard3\n", reactorWasm)

	manifest, err := ParseManifest(dir)
	if err != nil {
		t.Fatalf("ParseManifest() failed: %v", err)
	}
	if manifest.Entry != "tick" || manifest.Shard != "shard3" {
		t.Errorf("got entry %q shard %q", manifest.Entry, manifest.Shard)
	}
}

func TestParseManifest_NotFound(t *testing.T) {
	_, err := ParseManifest(filepath.Join(t.TempDir(), "nonexistent"))
	if err == nil {
		t.Fatal("ParseManifest() should fail for nonexistent directory")
	}

	if _, ok := err.(*ManifestNotFoundError); !ok {
		t.Errorf("expected ManifestNotFoundError, got %T", err)
	}
}

func TestParseManifest_InvalidYAML(t *testing.T) {
	dir := writeBot(t, t.TempDir(), "broken", "name: [unclosed\n", nil)

	_, err := ParseManifest(dir)
	if _, ok := err.(*ManifestParseError); !ok {
		t.Errorf("expected ManifestParseError, got %T", err)
	}
}

func TestParseManifest_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		field    string
	}{
		{"missing name", "version: \"1\"\nwasm:\n  file: bot.wasm\n", "name"},
		{"bad name", "name: My Bot\nversion: \"1\"\nwasm:\n  file: bot.wasm\n", "name"},
		{"missing version", "name: a\nwasm:\n  file: bot.wasm\n", "version"},
		{"missing wasm", "name: a\nversion: \"1\"\n", "wasm.file"},
		{"escaping wasm", "name: a\nversion: \"1\"\nwasm:\n  file: ../bot.wasm\n", "wasm.file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeBot(t, t.TempDir(), "bot", tt.manifest, reactorWasm)

			_, err := ParseManifest(dir)
			var validationErr *ManifestValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ManifestValidationError, got %T (%v)", err, err)
			}
			if validationErr.Field != tt.field {
				t.Errorf("expected field '%s', got '%s'", tt.field, validationErr.Field)
			}
		})
	}
}

func TestParseManifest_ReportsEveryField(t *testing.T) {
	dir := writeBot(t, t.TempDir(), "bot", "author: someone\n", reactorWasm)

	_, err := ParseManifest(dir)
	errs := multierr.Errors(err)
	if len(errs) != 3 {
		t.Fatalf("expected 3 validation errors, got %d (%v)", len(errs), err)
	}

	var fields []string
	for _, e := range errs {
		var validationErr *ManifestValidationError
		if !errors.As(e, &validationErr) {
			t.Fatalf("expected ManifestValidationError, got %T (%v)", e, e)
		}
		fields = append(fields, validationErr.Field)
	}
	want := []string{"name", "version", "wasm.file"}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("field %d = '%s', want '%s'", i, fields[i], want[i])
		}
	}
}

func TestParseManifest_WasmNotFound(t *testing.T) {
	dir := writeBot(t, t.TempDir(), "nowasm", botManifest("nowasm", ""), nil)

	_, err := ParseManifest(dir)
	if _, ok := err.(*WasmNotFoundError); !ok {
		t.Errorf("expected WasmNotFoundError, got %T", err)
	}
}

func TestManifest_Path(t *testing.T) {
	dir := writeBot(t, t.TempDir(), "p", botManifest("p", ""), reactorWasm)
	manifest, err := ParseManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(manifest.Path()); err != nil {
		t.Errorf("Path() should point at the manifest: %v", err)
	}
}
