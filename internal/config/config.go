// Package config loads battle/env/training parameters from YAML, the
// same two-step "viper reads, yaml.v3 decodes the inner doc" pattern
// the teacher's reinforcement.FromYaml uses for its TrainingConfig: an
// OuterConfig carries a Kind discriminator plus a raw Def blob, which is
// re-marshalled and decoded a second time into a typed Config so the
// on-disk file can stay human-editable YAML while the Go side gets a
// strongly-typed result.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// HyperParameter is one named float knob, mirroring the teacher's
// TrainingConfig.HyperParams shape.
type HyperParameter struct {
	Key string  `yaml:"key"`
	Val float64 `yaml:"val"`
}

// OuterConfig is the on-disk envelope: Kind names the config variant,
// Def holds its body as an untyped blob to be re-decoded.
type OuterConfig struct {
	Kind string      `yaml:"kind"`
	Def  interface{} `yaml:"def"`
}

// Config is the fully-typed battle/env/training parameter set.
type Config struct {
	HyperParams []HyperParameter  `yaml:"hyperParams"`
	DataDir     string            `yaml:"dataDir"`
	ActiveSlots int               `yaml:"activeSlots"`
	MaxTurns    int               `yaml:"maxTurns"`
	RewardMode  string            `yaml:"rewardMode"`
	Spectate    SpectateConfig    `yaml:"spectate"`
	Agents      map[string]string `yaml:"agents"`
}

// SpectateConfig configures the spectator HTTP/websocket server.
type SpectateConfig struct {
	Addr    string `yaml:"addr"`
	Enabled bool   `yaml:"enabled"`
}

// GetHyperParamOrDefault looks up a hyperparameter by key, falling back
// to def if absent, the same accessor shape as the teacher's
// TrainingConfig.GetHyperParamOrDefault.
func (c *Config) GetHyperParamOrDefault(key string, def float64) float64 {
	for _, hp := range c.HyperParams {
		if hp.Key == key {
			return hp.Val
		}
	}
	return def
}

// DefaultConfig returns the canonical defaults used when no config file
// is present, matching spec.md's Open Question defaults (fixed damage
// roll, 0.75 spread factor are set on battle.Rules directly; this
// covers the ambient env/training knobs).
func DefaultConfig() *Config {
	return &Config{
		DataDir:     "./data",
		ActiveSlots: 1,
		MaxTurns:    1000,
		RewardMode:  "win_loss",
		Spectate:    SpectateConfig{Addr: ":8080", Enabled: false},
		HyperParams: []HyperParameter{
			{Key: "epsilon", Val: 0.1},
			{Key: "gamma", Val: 0.99},
		},
	}
}

// FromYaml reads path via viper then decodes the inner Def a second
// time through yaml.v3 into a Config, exactly as reinforcement.FromYaml
// does for TrainingConfig. A missing file is not an error; DefaultConfig
// is returned instead so a fresh checkout runs with sane defaults.
func FromYaml(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	if err := vp.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound || errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	outer := &OuterConfig{}
	if err := vp.Unmarshal(outer); err != nil {
		return nil, fmt.Errorf("config: unmarshaling outer envelope: %w", err)
	}

	raw, err := yaml.Marshal(outer.Def)
	if err != nil {
		return nil, fmt.Errorf("config: re-marshaling inner config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: decoding inner config: %w", err)
	}
	return cfg, nil
}
