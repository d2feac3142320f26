// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the configuration for the analyzer.
type Config struct {
	Version     string `yaml:"version" json:"version"`
	ProjectName string `yaml:"project_name,omitempty" json:"project_name,omitempty"`

	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Rules    RulesConfig    `yaml:"rules" json:"rules"`
	Files    FilesConfig    `yaml:"files" json:"files"`
}

type AnalysisConfig struct {
	// Confidence level buckets (spec §4.9)
	ConfidenceThresholds ConfidenceThresholds `yaml:"confidence_thresholds" json:"confidence_thresholds"`

	// Pointer analyzer thresholds (spec §4.5, Open Question 3 — made
	// configurable rather than hardcoded, per that review note)
	Pointer PointerConfig `yaml:"pointer" json:"pointer"`

	// Confidence sub-score weights (spec §4.9); must sum to 1.0
	ConfidenceWeights ConfidenceWeights `yaml:"confidence_weights" json:"confidence_weights"`

	// Hotness threshold (spec §4.1 Metrics). Nothing reads this value:
	// model.Loop.IsHot compares against its own fixed threshold of 20.
	HotnessThreshold float64 `yaml:"hotness_threshold" json:"hotness_threshold"`
}

type ConfidenceThresholds struct {
	VeryHigh float64 `yaml:"very_high" json:"very_high"`
	High     float64 `yaml:"high" json:"high"`
	Medium   float64 `yaml:"medium" json:"medium"`
	Low      float64 `yaml:"low" json:"low"`
}

type PointerConfig struct {
	ArithmeticThreshold  int `yaml:"arithmetic_threshold" json:"arithmetic_threshold"`
	DereferenceThreshold int `yaml:"dereference_threshold" json:"dereference_threshold"`
}

type ConfidenceWeights struct {
	LoopCharacteristics float64 `yaml:"loop_characteristics" json:"loop_characteristics"`
	DirectiveType       float64 `yaml:"directive_type" json:"directive_type"`
	Complexity          float64 `yaml:"complexity" json:"complexity"`
	DataAccess          float64 `yaml:"data_access" json:"data_access"`
	Dependency          float64 `yaml:"dependency" json:"dependency"`
}

type OutputConfig struct {
	Format          string `yaml:"format" json:"format"` // console | json
	Colors          bool   `yaml:"colors" json:"colors"`
	Verbose         bool   `yaml:"verbose" json:"verbose"`
	ShowReasoning   bool   `yaml:"show_reasoning" json:"show_reasoning"`
	OutputFile      string `yaml:"output_file,omitempty" json:"output_file,omitempty"`
	GeneratePragmas bool   `yaml:"generate_pragmas" json:"generate_pragmas"`
}

// RulesConfig lets call-effect classification be extended or narrowed
// without a code change — the allow/deny lists in internal/model are the
// defaults; these are additions/removals layered on top.
type RulesConfig struct {
	CallSafety CallSafetyRules `yaml:"call_safety" json:"call_safety"`
}

type CallSafetyRules struct {
	ExtraSafeFunctions   []string `yaml:"extra_safe_functions" json:"extra_safe_functions"`
	ExtraUnsafeFunctions []string `yaml:"extra_unsafe_functions" json:"extra_unsafe_functions"`
}

type FilesConfig struct {
	Include        []string `yaml:"include" json:"include"`
	Exclude        []string `yaml:"exclude" json:"exclude"`
	FollowSymlinks bool     `yaml:"follow_symlinks" json:"follow_symlinks"`
	MaxFileSize    int      `yaml:"max_file_size" json:"max_file_size"` // KB
}

func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Analysis: AnalysisConfig{
			ConfidenceThresholds: ConfidenceThresholds{
				VeryHigh: 0.81,
				High:     0.61,
				Medium:   0.41,
				Low:      0.21,
			},
			Pointer: PointerConfig{
				ArithmeticThreshold:  2,
				DereferenceThreshold: 3,
			},
			ConfidenceWeights: ConfidenceWeights{
				LoopCharacteristics: 0.25,
				DirectiveType:       0.15,
				Complexity:          0.20,
				DataAccess:          0.20,
				Dependency:          0.20,
			},
			HotnessThreshold: 20.0,
		},
		Output: OutputConfig{
			Format:          "console",
			Colors:          true,
			Verbose:         false,
			ShowReasoning:   true,
			GeneratePragmas: false,
		},
		Rules: RulesConfig{
			CallSafety: CallSafetyRules{
				ExtraSafeFunctions:   []string{},
				ExtraUnsafeFunctions: []string{},
			},
		},
		Files: FilesConfig{
			Include:        []string{"**/*.c", "**/*.h"},
			Exclude:        []string{".git/**"},
			FollowSymlinks: false,
			MaxFileSize:    1024,
		},
	}
}

// LoadConfig loads configuration from file or returns default.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func findConfigFile() string {
	possiblePaths := []string{
		".openmploop.yml",
		".openmploop.yaml",
		"openmploop.yml",
		"openmploop.yaml",
		".config/openmploop.yml",
		".config/openmploop.yaml",
	}
	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	ct := c.Analysis.ConfidenceThresholds
	if ct.VeryHigh < ct.High || ct.High < ct.Medium || ct.Medium < ct.Low {
		return fmt.Errorf("confidence thresholds must be in descending order")
	}

	validFormats := []string{"console", "json"}
	formatValid := false
	for _, format := range validFormats {
		if c.Output.Format == format {
			formatValid = true
			break
		}
	}
	if !formatValid {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, validFormats)
	}

	p := c.Analysis.Pointer
	if p.ArithmeticThreshold < 0 || p.DereferenceThreshold < 0 {
		return fmt.Errorf("pointer thresholds must be non-negative")
	}

	w := c.Analysis.ConfidenceWeights
	sum := w.LoopCharacteristics + w.DirectiveType + w.Complexity + w.DataAccess + w.Dependency
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("confidence weights must sum to 1.0, got %f", sum)
	}

	return nil
}

// SaveConfig saves configuration to file.
func (c *Config) SaveConfig(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateConfig creates a sample configuration file.
func GenerateConfig(configPath string) error {
	config := DefaultConfig()
	return config.SaveConfig(configPath)
}
