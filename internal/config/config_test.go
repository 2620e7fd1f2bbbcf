package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile_MissingUsesDefaults(t *testing.T) {
	cfg, info, err := LoadConfigFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if info.PortSpecified {
		t.Fatalf("PortSpecified should be false")
	}
	if cfg.Input.DaysFile != "jours.csv" || cfg.Output.FreeLabel != "Libre" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFile_OverridesAndPortDetection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
port = 8088

[input]
dir = "in"
date_layouts = ["2006-01-02"]

[output]
free_label = "Free"
write_xlsx = false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, info, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if !info.PortSpecified || cfg.Server.Port != 8088 {
		t.Fatalf("port: specified=%v port=%d", info.PortSpecified, cfg.Server.Port)
	}
	if cfg.Input.Dir != "in" || len(cfg.Input.DateLayouts) != 1 {
		t.Fatalf("input=%+v", cfg.Input)
	}
	if cfg.Output.FreeLabel != "Free" || cfg.Output.WriteXLSX {
		t.Fatalf("output=%+v", cfg.Output)
	}
	// 未出现在文件中的字段保留默认值
	if cfg.Input.PinnedFile != "liens.csv" {
		t.Fatalf("PinnedFile=%q", cfg.Input.PinnedFile)
	}
}

func TestLoadConfigFile_EnvOverride(t *testing.T) {
	t.Setenv("PLANNING_OUTPUT_DIR", "/tmp/out")

	cfg, _, err := LoadConfigFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.Output.Dir != "/tmp/out" {
		t.Fatalf("Output.Dir=%q", cfg.Output.Dir)
	}
}

func TestLoadConfigFile_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\nport="), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := LoadConfigFile(path); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Output.XLSXFile = "out.xlsx"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, _, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if loaded.Output.XLSXFile != "out.xlsx" {
		t.Fatalf("XLSXFile=%q", loaded.Output.XLSXFile)
	}
}
