// Package config holds the runtime configuration for sheetstack: directory
// layout, output naming, and the cleaning vocabularies.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"sheetstack/internal/tabular"
)

// Config is the fully resolved configuration for one batch run.
type Config struct {
	ReadyDir   string // inbox of spreadsheets awaiting processing
	DoneDir    string // archive for consumed inputs
	OutputDir  string // destination for the combined CSV
	OutputName string // optional fixed output filename; timestamped when empty

	HeaderIndicators        []string
	MetadataKeywords        []string
	GeneralMetadataKeywords []string
	SparsityThreshold       float64
}

// Default returns the stock configuration matching the original folder
// layout of the billing exports.
func Default() Config {
	vocab := tabular.DefaultVocab()
	return Config{
		ReadyDir:                "Spreadsheet/ready",
		DoneDir:                 "Spreadsheet/done",
		OutputDir:               "CSV",
		HeaderIndicators:        vocab.HeaderIndicators,
		MetadataKeywords:        vocab.MetadataKeywords,
		GeneralMetadataKeywords: vocab.GeneralMetadataKeywords,
		SparsityThreshold:       tabular.DefaultSparsityThreshold,
	}
}

// SetDefaults registers the default values on a viper instance so flags,
// environment variables, and config files all override the same baseline.
func SetDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("ready_dir", def.ReadyDir)
	v.SetDefault("done_dir", def.DoneDir)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("output_name", def.OutputName)
	v.SetDefault("header_indicators", def.HeaderIndicators)
	v.SetDefault("metadata_keywords", def.MetadataKeywords)
	v.SetDefault("general_metadata_keywords", def.GeneralMetadataKeywords)
	v.SetDefault("sparsity_threshold", def.SparsityThreshold)
}

// Load resolves the configuration from a viper instance and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		ReadyDir:                v.GetString("ready_dir"),
		DoneDir:                 v.GetString("done_dir"),
		OutputDir:               v.GetString("output_dir"),
		OutputName:              v.GetString("output_name"),
		HeaderIndicators:        v.GetStringSlice("header_indicators"),
		MetadataKeywords:        v.GetStringSlice("metadata_keywords"),
		GeneralMetadataKeywords: v.GetStringSlice("general_metadata_keywords"),
		SparsityThreshold:       v.GetFloat64("sparsity_threshold"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the pipeline relies on.
func (c Config) Validate() error {
	if c.ReadyDir == "" {
		return fmt.Errorf("ready_dir must not be empty")
	}
	if c.DoneDir == "" {
		return fmt.Errorf("done_dir must not be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.SparsityThreshold < 0 || c.SparsityThreshold > 1 {
		return fmt.Errorf("sparsity_threshold must be in [0, 1], got %v", c.SparsityThreshold)
	}
	if len(c.HeaderIndicators) == 0 {
		return fmt.Errorf("header_indicators must not be empty")
	}
	return nil
}

// Vocab assembles the classification vocabulary from the configured keyword
// lists.
func (c Config) Vocab() tabular.Vocab {
	return tabular.Vocab{
		HeaderIndicators:        c.HeaderIndicators,
		MetadataKeywords:        c.MetadataKeywords,
		GeneralMetadataKeywords: c.GeneralMetadataKeywords,
	}
}
