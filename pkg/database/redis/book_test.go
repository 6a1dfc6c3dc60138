package redis

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func writeBookFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// TestLoadBook 从文件加载连接配置集，defaults 段作为公共基线合并
func TestLoadBook(t *testing.T) {
	path := writeBookFile(t, "connections.yaml", `
defaults:
  port: 6379
  dial_timeout: 2s

connections:
  local:
    host: localhost
  staging:
    host: staging.example.com
    port: 6380
    password: secret
    db: 3
`)

	book, err := LoadBook(path)
	if err != nil {
		t.Fatalf("LoadBook() error = %v", err)
	}
	if book.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", book.Len())
	}
	if names := book.Names(); !reflect.DeepEqual(names, []string{"local", "staging"}) {
		t.Errorf("Names() = %v, want [local staging]", names)
	}

	local, err := book.Get("local")
	if err != nil {
		t.Fatalf("Get(local) error = %v", err)
	}
	if local.Host != "localhost" || local.Port != 6379 {
		t.Errorf("local = %s:%d, want localhost:6379", local.Host, local.Port)
	}
	if local.DialTimeout != 2*time.Second {
		t.Errorf("local.DialTimeout = %v, want 2s (from defaults)", local.DialTimeout)
	}

	staging, err := book.Get("staging")
	if err != nil {
		t.Fatalf("Get(staging) error = %v", err)
	}
	if staging.Port != 6380 {
		t.Errorf("staging.Port = %d, want 6380 (overrides defaults)", staging.Port)
	}
	if staging.Password != "secret" || staging.DB != 3 {
		t.Errorf("staging = %+v, want password/db from its own entry", staging)
	}

	if _, err := book.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

// TestLoadBookErrors 非法文件整体拒绝
func TestLoadBookErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadBook(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("LoadBook() should fail for a missing file")
		}
	})

	t.Run("no connections", func(t *testing.T) {
		path := writeBookFile(t, "empty.yaml", "connections: {}\n")
		if _, err := LoadBook(path); !errors.Is(err, ErrConfigInvalid) {
			t.Errorf("LoadBook() error = %v, want ErrConfigInvalid", err)
		}
	})

	t.Run("invalid entry fails the whole load", func(t *testing.T) {
		path := writeBookFile(t, "bad.yaml", `
connections:
  broken:
    port: 6379
`)
		if _, err := LoadBook(path); !errors.Is(err, ErrConfigInvalid) {
			t.Errorf("LoadBook() error = %v, want ErrConfigInvalid (host missing)", err)
		}
	})

	t.Run("json file", func(t *testing.T) {
		path := writeBookFile(t, "connections.json",
			`{"connections": {"local": {"host": "localhost", "port": 6379}}}`)
		book, err := LoadBook(path)
		if err != nil {
			t.Fatalf("LoadBook() error = %v", err)
		}
		if book.Len() != 1 {
			t.Errorf("Len() = %d, want 1", book.Len())
		}
	})
}
