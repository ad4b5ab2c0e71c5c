package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestGetConfigPathEnvOverride(t *testing.T) {
	t.Setenv(ConfigEnvVar, "/tmp/custom-config")

	got, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath returned error: %v", err)
	}

	if got != "/tmp/custom-config" {
		t.Fatalf("expected override path, got %q", got)
	}
}

func TestGetConfigPathDefault(t *testing.T) {
	dir := t.TempDir()

	homeVar := "HOME"
	if runtime.GOOS == "windows" {
		homeVar = "USERPROFILE"
	}
	t.Setenv(homeVar, dir)
	t.Setenv(ConfigEnvVar, "")

	got, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath returned error: %v", err)
	}

	expected := filepath.Join(dir, ".go-htn", "config")
	if got != expected {
		t.Fatalf("expected default path %q, got %q", expected, got)
	}
}

func TestEnsureConfigDirCreatesDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config")
	t.Setenv(ConfigEnvVar, configPath)

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir failed: %v", err)
	}

	info, err := os.Stat(filepath.Dir(configPath))
	if err != nil {
		t.Fatalf("expected config directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected config directory, got %v", info.Mode())
	}
}
