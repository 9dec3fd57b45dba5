package util

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
default_target = "stm32"

[targets.stm32]
description = "STM32F4 discovery board"
init_script = "init/stm32.tcl"

[targets.stm32.registers]
pc = 0x08000000
sp = 0x20020000

[targets.nrf52]
description = "nRF52 DK"
`

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "probe.toml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadProbeConfig(t *testing.T) {
	cfg, err := LoadProbeConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultTarget != "stm32" {
		t.Errorf("default target = %q", cfg.DefaultTarget)
	}
	if len(cfg.Targets) != 2 {
		t.Fatalf("got %d targets, want 2", len(cfg.Targets))
	}
	stm := cfg.Targets["stm32"]
	if stm.Registers["pc"] != 0x08000000 {
		t.Errorf("pc = %#x", stm.Registers["pc"])
	}
	if stm.InitScript != "init/stm32.tcl" {
		t.Errorf("init script = %q", stm.InitScript)
	}
}

func TestTargetFallsBackToDefault(t *testing.T) {
	cfg, err := LoadProbeConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tgt, ok := cfg.Target(""); !ok || tgt.Description != "STM32F4 discovery board" {
		t.Errorf("default lookup failed: %v %v", tgt, ok)
	}
	if tgt, ok := cfg.Target("nrf52"); !ok || tgt.Description != "nRF52 DK" {
		t.Errorf("named lookup failed: %v %v", tgt, ok)
	}
	if _, ok := cfg.Target("bogus"); ok {
		t.Error("unknown target resolved")
	}
}

func TestLoadProbeConfigMissingPath(t *testing.T) {
	cfg, err := LoadProbeConfig("")
	if err != nil {
		t.Fatalf("empty path should not error: %v", err)
	}
	if cfg.DefaultTarget != "" || len(cfg.Targets) != 0 {
		t.Errorf("empty path should yield an empty config")
	}
}

func TestLoadProbeConfigBadFile(t *testing.T) {
	if _, err := LoadProbeConfig(writeConfig(t, "not [valid toml")); err == nil {
		t.Error("malformed config accepted")
	}
}
