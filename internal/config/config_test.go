package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	p := writeConfig(t, `datasets: []
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("port: got %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Watch {
		t.Error("watch should default to false")
	}
}

func TestLoad_Full(t *testing.T) {
	p := writeConfig(t, `server:
  port: 9090
  watch: true
datasets:
  - uid: pbmc
    objects:
      - kind: experiment
        path: /data/pbmc.json
      - kind: matrix
        path: /data/pbmc-counts.json
  - uid: brain
    objects:
      - kind: experiment
        path: /data/brain.json
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port: got %d, want 9090", cfg.Server.Port)
	}
	if !cfg.Server.Watch {
		t.Error("watch: got false, want true")
	}
	if len(cfg.Datasets) != 2 {
		t.Fatalf("datasets: got %d, want 2", len(cfg.Datasets))
	}
	if cfg.Datasets[0].UID != "pbmc" || len(cfg.Datasets[0].Objects) != 2 {
		t.Errorf("unexpected first dataset: %+v", cfg.Datasets[0])
	}
	if cfg.Datasets[0].Objects[1].Kind != "matrix" {
		t.Errorf("object kind: got %q, want matrix", cfg.Datasets[0].Objects[1].Kind)
	}
}

func TestLoad_PortOutOfRange(t *testing.T) {
	p := writeConfig(t, `server:
  port: 70000
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for out-of-range port, got nil")
	}
}

func TestLoad_DuplicateUID(t *testing.T) {
	p := writeConfig(t, `datasets:
  - uid: same
  - uid: same
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for duplicate uid, got nil")
	}
}

func TestLoad_UIDWithSlash(t *testing.T) {
	p := writeConfig(t, `datasets:
  - uid: a/b
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for uid with slash, got nil")
	}
}

func TestLoad_UnknownObjectKind(t *testing.T) {
	p := writeConfig(t, `datasets:
  - uid: ds
    objects:
      - kind: anndata
        path: /data/x.json
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for unknown object kind, got nil")
	}
}

func TestLoad_ObjectWithoutPath(t *testing.T) {
	p := writeConfig(t, `datasets:
  - uid: ds
    objects:
      - kind: experiment
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for missing path, got nil")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestSourcePaths_OrderedAndDeduplicated(t *testing.T) {
	p := writeConfig(t, `datasets:
  - uid: a
    objects:
      - kind: experiment
        path: /data/shared.json
      - kind: matrix
        path: /data/a.json
  - uid: b
    objects:
      - kind: experiment
        path: /data/shared.json
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := cfg.SourcePaths()
	want := []string{"/data/shared.json", "/data/a.json"}
	if len(got) != len(want) {
		t.Fatalf("paths: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paths[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}
