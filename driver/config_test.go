package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driver.yaml")
	data := `
dir: /tmp/md-test
command_buffer_length: 65536
client_liveness_timeout: 2s
publication_linger: 250ms
conductor_cpu: 1
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Dir != "/tmp/md-test" || cfg.CommandBufferLength != 65536 || cfg.ConductorCPU != 1 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.ClientLivenessTimeout != 2*time.Second || cfg.PublicationLinger != 250*time.Millisecond {
		t.Errorf("durations not parsed: %v %v", cfg.ClientLivenessTimeout, cfg.PublicationLinger)
	}
	if cfg.TicksPerWheel != DefaultConfig().TicksPerWheel {
		t.Error("unset key lost its default")
	}
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driver.yaml")
	if err := os.WriteFile(path, []byte("command_buffer_length: 1000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "command_buffer_length") {
		t.Fatalf("expected command_buffer_length error, got %v", err)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestConfigToMap(t *testing.T) {
	m := DefaultConfig().ToMap()
	if m["client_liveness_timeout"] != "5s" {
		t.Errorf("client_liveness_timeout = %v", m["client_liveness_timeout"])
	}
	if m["conductor_cpu"] != -1 {
		t.Errorf("conductor_cpu = %v", m["conductor_cpu"])
	}
}
