package pkgconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestViperConfigValues(t *testing.T) {
	path := writeConfigFile(t, "int: 42\nbool: true\nfloat: 3.14\nstring: hi\ntimeout: 1500ms\narray: a,b,c\nlist:\n  - x\n  - y\n")

	cfg, err := NewViper(path, nil)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}
	defer func() {
		if err := cfg.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}()

	if got := cfg.GetInt("int"); got != 42 {
		t.Fatalf("GetInt: expected 42, got %d", got)
	}
	if got := cfg.GetBool("bool"); got != true {
		t.Fatalf("GetBool: expected true, got %v", got)
	}
	if got := cfg.GetFloat("float"); got != 3.14 {
		t.Fatalf("GetFloat: expected 3.14, got %v", got)
	}
	if got := cfg.GetString("string"); got != "hi" {
		t.Fatalf("GetString: expected hi, got %q", got)
	}
	if got := cfg.GetDuration("timeout"); got != 1500*time.Millisecond {
		t.Fatalf("GetDuration: expected 1.5s, got %v", got)
	}
	if got := cfg.GetArray("array"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("GetArray: unexpected value: %#v", got)
	}
	if got := cfg.GetArray("list"); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("GetArray list: unexpected value: %#v", got)
	}
	if got := cfg.GetArray("missing"); got != nil {
		t.Fatalf("GetArray missing: expected nil, got %#v", got)
	}
}

func TestViperDefaults(t *testing.T) {
	path := writeConfigFile(t, "modules:\n  dataset:\n    dir: ./data\n")

	cfg, err := NewViper(path, map[string]any{
		"modules.dataset.dir":           "./datasets",
		"modules.dataset.preview_limit": 100,
		"server.cors.allowed_origins":   []string{"*"},
	})
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}

	if got := cfg.GetString("modules.dataset.dir"); got != "./data" {
		t.Fatalf("expected file value to win over default, got %q", got)
	}
	if got := cfg.GetInt("modules.dataset.preview_limit"); got != 100 {
		t.Fatalf("expected default preview limit, got %d", got)
	}
	if got := cfg.GetArray("server.cors.allowed_origins"); !reflect.DeepEqual(got, []string{"*"}) {
		t.Fatalf("expected default origins, got %#v", got)
	}
}

func TestViperEnvOverride(t *testing.T) {
	path := writeConfigFile(t, "server:\n  address:\n    http: \":8000\"\n")
	t.Setenv("GODATASET_SERVER_ADDRESS_HTTP", ":9000")

	cfg, err := NewViper(path, nil)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}

	if got := cfg.GetString("server.address.http"); got != ":9000" {
		t.Fatalf("expected env override, got %q", got)
	}
}

func TestViperMissingFile(t *testing.T) {
	if _, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
