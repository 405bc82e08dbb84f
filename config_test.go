package main

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://todo@localhost/todos")

	cfg, err := loadConfig(zap.NewNop())
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Addr != "127.0.0.1:3000" {
		t.Errorf("unexpected addr %q", cfg.Addr)
	}
	if cfg.DB.Driver != "postgres" || cfg.DB.MaxConns != 5 || cfg.DB.AcquireTimeout != 3*time.Second {
		t.Errorf("unexpected db config %+v", cfg.DB)
	}
}

func TestLoadConfig_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_DRIVER", "mysql")

	if _, err := loadConfig(zap.NewNop()); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoadConfig_SQLiteUsesPath(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_PATH", "/tmp/todos.db")

	cfg, err := loadConfig(zap.NewNop())
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.DB.URL != "/tmp/todos.db" {
		t.Errorf("expected sqlite path, got %q", cfg.DB.URL)
	}
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://todo@localhost/todos")
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("DB_ACQUIRE_TIMEOUT", "soon")
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")

	cfg, err := loadConfig(zap.NewNop())
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.DB.MaxConns != 5 {
		t.Errorf("expected default max conns, got %d", cfg.DB.MaxConns)
	}
	if cfg.DB.AcquireTimeout != 3*time.Second {
		t.Errorf("expected default acquire timeout, got %v", cfg.DB.AcquireTimeout)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected default shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
}
