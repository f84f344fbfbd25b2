// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package config holds the ledger's runtime configuration. Defaults live in
// Default; YAML files layered on top override them field by field.
package config

import (
	"os"

	"github.com/pkg/errors"
	uconfig "go.uber.org/config"

	"github.com/dragnetfi/dragnet-core/pkg/log"
)

// IMPORTANT: to define a config, add a field to the existing config types and
// provide the default value in Default.

type (
	// DB is the storage configuration
	DB struct {
		// DBPath is the path of the ledger database file
		DBPath string `json:"dbPath" yaml:"dbPath"`
		// UseMemStore replaces the on-disk store with an in-memory one
		UseMemStore bool `json:"useMemStore" yaml:"useMemStore"`
	}

	// Vault is the vault protocol configuration
	Vault struct {
		// ConvertRewardBase is the fixed component of the operator reward
		ConvertRewardBase string `json:"convertRewardBase" yaml:"convertRewardBase"`
		// ConvertRewardPerParticipant scales the operator reward with round size
		ConvertRewardPerParticipant string `json:"convertRewardPerParticipant" yaml:"convertRewardPerParticipant"`
		// ConvertRewardCap bounds the operator reward
		ConvertRewardCap string `json:"convertRewardCap" yaml:"convertRewardCap"`
		// KeeperRewardBps is the finalization reward in basis points of epoch value
		KeeperRewardBps uint64 `json:"keeperRewardBps" yaml:"keeperRewardBps"`
		// DustThreshold is the dust balance that triggers a grant
		DustThreshold string `json:"dustThreshold" yaml:"dustThreshold"`
		// EpochWindow is the number of epochs kept un-condensed
		EpochWindow uint64 `json:"epochWindow" yaml:"epochWindow"`
	}

	// Config is the root configuration
	Config struct {
		DB      DB                          `json:"db" yaml:"db"`
		Vault   Vault                       `json:"vault" yaml:"vault"`
		Log     log.GlobalConfig            `json:"log" yaml:"log"`
		SubLogs map[string]log.GlobalConfig `json:"subLogs" yaml:"subLogs"`
	}

	// Validate is the interface of validating the config
	Validate func(Config) error
)

// Default is the default config
var Default = Config{
	DB: DB{
		DBPath: "/var/data/dragnet.db",
	},
	Vault: Vault{
		ConvertRewardBase:           "1000",
		ConvertRewardPerParticipant: "100",
		ConvertRewardCap:            "10000",
		KeeperRewardBps:             50,
		DustThreshold:               "1000",
		EpochWindow:                 4,
	},
	SubLogs: make(map[string]log.GlobalConfig),
}

// Validates is the default set of validation functions
var Validates = []Validate{ValidateVault}

// ValidateVault validates the vault configuration
func ValidateVault(cfg Config) error {
	if cfg.Vault.KeeperRewardBps > 10000 {
		return errors.New("keeper reward bps cannot exceed 10000")
	}
	if cfg.Vault.EpochWindow == 0 {
		return errors.New("epoch window must be positive")
	}
	return nil
}

// New creates a config instance. It first loads the default configs. If the
// config path is not empty, it will read from the file and override the
// default configs. By default, it applies all validation functions.
func New(configPaths []string, validates ...Validate) (Config, error) {
	opts := make([]uconfig.YAMLOption, 0)
	opts = append(opts, uconfig.Static(Default))
	opts = append(opts, uconfig.Expand(os.LookupEnv))
	for _, path := range configPaths {
		if path != "" {
			opts = append(opts, uconfig.File(path))
		}
	}
	yaml, err := uconfig.NewYAML(opts...)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to init config")
	}

	var cfg Config
	if err := yaml.Get(uconfig.Root).Populate(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal YAML config to struct")
	}

	if len(validates) == 0 {
		validates = Validates
	}
	for _, validate := range validates {
		if err := validate(cfg); err != nil {
			return Config{}, errors.Wrap(err, "failed to validate config")
		}
	}
	return cfg, nil
}
