package config

import "testing"

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_PageSizeBounds(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Search: SearchConfig{DefaultPageSize: 200, MaxPageSize: 100},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error when default_page_size exceeds max_page_size")
	}
}

func TestValidate_RebuildRequiresContentURL(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Rebuild: RebuildConfig{OnStartup: true},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error when on_startup is set without content.base_url")
	}

	cfg.Content.BaseURL = "http://content:8080"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error with base_url set: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != "redis" {
		t.Errorf("expected Driver=redis, got %q", cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Search.RemoteTimeoutSec != 2 {
		t.Errorf("expected RemoteTimeoutSec=2, got %d", cfg.Search.RemoteTimeoutSec)
	}
	if cfg.Search.DefaultPageSize != 20 {
		t.Errorf("expected DefaultPageSize=20, got %d", cfg.Search.DefaultPageSize)
	}
	if cfg.Search.MaxPageSize != 100 {
		t.Errorf("expected MaxPageSize=100, got %d", cfg.Search.MaxPageSize)
	}
	if cfg.Rebuild.StartupDelaySec != 5 {
		t.Errorf("expected StartupDelaySec=5, got %d", cfg.Rebuild.StartupDelaySec)
	}
	if cfg.Content.TimeoutSec != 30 {
		t.Errorf("expected Content.TimeoutSec=30, got %d", cfg.Content.TimeoutSec)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{Driver: "valkey", ReadinessTimeout: 15},
		Search:   SearchConfig{RemoteTimeoutSec: 1, DefaultPageSize: 50, MaxPageSize: 500},
		Content:  ContentConfig{TimeoutSec: 5},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.Driver != "valkey" {
		t.Errorf("expected Driver=valkey, got %q", cfg.Database.Driver)
	}
	if cfg.Search.RemoteTimeoutSec != 1 {
		t.Errorf("expected RemoteTimeoutSec=1, got %d", cfg.Search.RemoteTimeoutSec)
	}
	if cfg.Content.TimeoutSec != 5 {
		t.Errorf("expected Content.TimeoutSec=5, got %d", cfg.Content.TimeoutSec)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SEARCHD_TEST_TOKEN", "s3cret")

	in := []byte("token: ${SEARCHD_TEST_TOKEN}\nurl: ${SEARCHD_TEST_URL:-http://localhost:9090}\n")
	out := string(expandEnvVars(in))

	want := "token: s3cret\nurl: http://localhost:9090\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}
