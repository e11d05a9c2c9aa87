package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "czar.json")

	content := `{
		"debugAllocator": false,
		"allowRun": true,
		"keepNames": ["foo", "bar"]
	}`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.DebugAllocator == nil || *cfg.DebugAllocator != false {
		t.Errorf("DebugAllocator: got %v, want false", cfg.DebugAllocator)
	}

	if cfg.AllowRun == nil || *cfg.AllowRun != true {
		t.Errorf("AllowRun: got %v, want true", cfg.AllowRun)
	}

	if len(cfg.KeepNames) != 2 || cfg.KeepNames[0] != "foo" || cfg.KeepNames[1] != "bar" {
		t.Errorf("KeepNames: got %v, want [foo bar]", cfg.KeepNames)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "project", "src")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}

	configPath := filepath.Join(tmpDir, "project", "czar.json")
	content := `{"allowRun": true}`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, foundPath, err := Load(subDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	if foundPath != configPath {
		t.Errorf("found config at %s, expected %s", foundPath, configPath)
	}

	if cfg.AllowRun == nil || *cfg.AllowRun != true {
		t.Errorf("AllowRun: got %v, want true", cfg.AllowRun)
	}
}

func TestLoadNoConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, path, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg != nil {
		t.Errorf("expected nil config, got %v", cfg)
	}

	if path != "" {
		t.Errorf("expected empty path, got %s", path)
	}
}

func TestToOptions(t *testing.T) {
	trueVal := true
	falseVal := false

	cfg := &Config{
		AllowRun:           &trueVal,
		EmitLineDirectives: &falseVal,
	}

	opts := cfg.ToOptions()

	if opts.AllowRun != true {
		t.Errorf("AllowRun: got %v, want true", opts.AllowRun)
	}

	if opts.EmitLineDirectives != false {
		t.Errorf("EmitLineDirectives: got %v, want false", opts.EmitLineDirectives)
	}
}

func TestMerge(t *testing.T) {
	falseVal := false
	trueVal := true

	cfg := &Config{
		AllowRun: &falseVal,
	}

	cliOpts := MergeOptions{
		AllowRun: &trueVal,
	}

	opts := cfg.Merge(cliOpts)

	if opts.AllowRun != true {
		t.Errorf("AllowRun: got %v, want true (CLI override)", opts.AllowRun)
	}
}

func TestUsesDebugAllocatorDefault(t *testing.T) {
	cfg := &Config{}
	if !cfg.UsesDebugAllocator(MergeOptions{}) {
		t.Error("expected debug allocator on by default")
	}
}

func TestUsesDebugAllocatorCLIOverride(t *testing.T) {
	trueVal := true
	cfg := &Config{DebugAllocator: &trueVal}
	if cfg.UsesDebugAllocator(MergeOptions{NoDebugAllocator: true}) {
		t.Error("expected --no-debug-allocator to win over config")
	}
}

func TestConfigFileNames(t *testing.T) {
	tmpDir := t.TempDir()

	rcPath := filepath.Join(tmpDir, ".czarrc")
	content := `{"allowRun": true}`

	if err := os.WriteFile(rcPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, foundPath, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	if filepath.Base(foundPath) != ".czarrc" {
		t.Errorf("expected .czarrc, got %s", filepath.Base(foundPath))
	}

	jsonPath := filepath.Join(tmpDir, "czar.json")
	jsonContent := `{"allowRun": false}`

	if err := os.WriteFile(jsonPath, []byte(jsonContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, foundPath, err = Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if filepath.Base(foundPath) != "czar.json" {
		t.Errorf("expected czar.json (higher priority), got %s", filepath.Base(foundPath))
	}

	if cfg.AllowRun == nil || *cfg.AllowRun != false {
		t.Errorf("AllowRun: got %v, want false (from czar.json)", cfg.AllowRun)
	}
}
