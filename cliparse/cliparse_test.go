// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("TOKEN_SECRET", "test-secret")
	t.Setenv("STATUS_SWEEP_INTERVAL", "5s")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.TokenSecret != "test-secret" {
		t.Errorf("expected token secret from env, got %q", cfg.TokenSecret)
	}
	if cfg.SweepInterval != 5*time.Second {
		t.Errorf("expected 5s sweep, got %v", cfg.SweepInterval)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-token-secret", "s1", "-sweep", "0"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.SweepInterval != 0 {
		t.Errorf("expected sweep disabled, got %v", cfg.SweepInterval)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STATUS_SWEEP_INTERVAL", "")

	cfg, err := ParseFlags([]string{"-d", "file:test.db", "-token-secret", "s1"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.SweepInterval != 30*time.Second {
		t.Errorf("expected default sweep 30s, got %v", cfg.SweepInterval)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("TOKEN_SECRET", "")
	t.Setenv("STATUS_SWEEP_INTERVAL", "")

	cases := []struct {
		name string
		args []string
	}{
		{"missing database", []string{"-token-secret", "s1"}},
		{"missing secret", []string{"-d", "file:test.db"}},
		{"bad database type", []string{"-d", "x", "-t", "mysql", "-token-secret", "s1"}},
		{"bad sweep", []string{"-d", "x", "-token-secret", "s1", "-sweep", "soon"}},
		{"negative sweep", []string{"-d", "x", "-token-secret", "s1", "-sweep", "-1s"}},
		{"missing env file", []string{"-d", "x", "-token-secret", "s1", "-env-file", "/nonexistent/.env"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseFlags(tc.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TOKEN_SECRET", "from-shell")
	os.Unsetenv("DATABASE_URL")

	path := filepath.Join(t.TempDir(), "test.env")
	content := "DATABASE_URL=file:from-env-file.db\nTOKEN_SECRET=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-env-file", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != "file:from-env-file.db" {
		t.Errorf("expected database URL from env file, got %q", cfg.DatabaseURL)
	}
	// Existing environment wins over the file
	if cfg.TokenSecret != "from-shell" {
		t.Errorf("expected shell secret to win, got %q", cfg.TokenSecret)
	}
}
