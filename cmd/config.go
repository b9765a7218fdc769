// Package cmd implements the command-line interface for
// mongodb-logdump-parse.
package cmd

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Deathstalkerraged/mongodb-logdump-parse/analysis"
)

// fileConfig is the YAML layout of the optional --config file. Only
// values that are present override the built-in defaults.
//
//	thresholds:
//	  hot_pattern_count: 100
//	  concentration_pct: 70
//	  cardinality_limit: 20
//	sampling:
//	  max_depth: 3
//	  max_value_len: 50
type fileConfig struct {
	Thresholds struct {
		HotPatternCount  *int     `yaml:"hot_pattern_count"`
		ConcentrationPct *float64 `yaml:"concentration_pct"`
		CardinalityLimit *int     `yaml:"cardinality_limit"`
	} `yaml:"thresholds"`
	Sampling struct {
		MaxDepth    *int `yaml:"max_depth"`
		MaxValueLen *int `yaml:"max_value_len"`
	} `yaml:"sampling"`
}

// loadAnalysisConfig builds the analysis config from defaults, overlaid
// with the YAML file when one is given. An unreadable or malformed
// config file is fatal: silently ignoring it would run the analysis
// with thresholds the user did not ask for.
func loadAnalysisConfig(path string) analysis.Config {
	cfg := analysis.Config{
		Sampling:   analysis.DefaultSampling(),
		Thresholds: analysis.DefaultThresholds(),
	}

	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("[ERROR] Failed to read config file %s: %v", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		log.Fatalf("[ERROR] Failed to parse config file %s: %v", path, err)
	}

	if fc.Thresholds.HotPatternCount != nil {
		cfg.Thresholds.HotPatternCount = *fc.Thresholds.HotPatternCount
	}
	if fc.Thresholds.ConcentrationPct != nil {
		cfg.Thresholds.ConcentrationPct = *fc.Thresholds.ConcentrationPct
	}
	if fc.Thresholds.CardinalityLimit != nil {
		cfg.Thresholds.CardinalityLimit = *fc.Thresholds.CardinalityLimit
	}
	if fc.Sampling.MaxDepth != nil {
		cfg.Sampling.MaxDepth = *fc.Sampling.MaxDepth
	}
	if fc.Sampling.MaxValueLen != nil {
		cfg.Sampling.MaxValueLen = *fc.Sampling.MaxValueLen
	}

	return cfg
}
