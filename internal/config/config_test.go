package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsOutOfOrderThresholds(t *testing.T) {
	c := DefaultConfig()
	c.Analysis.ConfidenceThresholds.High = 0.9 // now above VeryHigh
	if err := c.Validate(); err == nil {
		t.Error("Validate() = nil, want an error for out-of-order thresholds")
	}
}

func TestValidateRejectsUnknownFormat(t *testing.T) {
	c := DefaultConfig()
	c.Output.Format = "xml"
	if err := c.Validate(); err == nil {
		t.Error("Validate() = nil, want an error for an unsupported output format")
	}
}

func TestValidateRejectsNegativePointerThresholds(t *testing.T) {
	c := DefaultConfig()
	c.Analysis.Pointer.ArithmeticThreshold = -1
	if err := c.Validate(); err == nil {
		t.Error("Validate() = nil, want an error for a negative pointer threshold")
	}
}

func TestValidateRejectsWeightsNotSummingToOne(t *testing.T) {
	c := DefaultConfig()
	c.Analysis.ConfidenceWeights.Complexity = 0.9
	if err := c.Validate(); err == nil {
		t.Error("Validate() = nil, want an error when sub-score weights don't sum to 1.0")
	}
}

func TestSaveConfigAndLoadConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "openmploop.yml")

	original := DefaultConfig()
	original.ProjectName = "roundtrip-test"
	original.Analysis.Pointer.ArithmeticThreshold = 5

	if err := original.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.ProjectName != "roundtrip-test" {
		t.Errorf("ProjectName = %q, want roundtrip-test", loaded.ProjectName)
	}
	if loaded.Analysis.Pointer.ArithmeticThreshold != 5 {
		t.Errorf("ArithmeticThreshold = %d, want 5", loaded.Analysis.Pointer.ArithmeticThreshold)
	}
}

func TestLoadConfigMissingPathFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	defer os.Chdir(cwd)
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error = %v", err)
	}
	if cfg.Version != DefaultConfig().Version {
		t.Errorf("expected default config when no config file is present")
	}
}

func TestGenerateConfigWritesLoadableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "generated.yml")

	if err := GenerateConfig(path); err != nil {
		t.Fatalf("GenerateConfig() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to exist at %s: %v", path, err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("generated config failed validation: %v", err)
	}
}
