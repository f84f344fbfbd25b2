// Copyright (c) 2026 Dragnet Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package log provides the global loggers for the ledger. Callers grab the
// shared zap logger via L() or the sugared variant via S(), or a named sub
// logger via Logger(name) when a package wants its own level control.
package log

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GlobalConfig defines the global logger configurations.
type GlobalConfig struct {
	Zap                *zap.Config `json:"zap" yaml:"zap"`
	StderrRedirectFile *string     `json:"stderrRedirectFile" yaml:"stderrRedirectFile"`
	RedirectStdLog     bool        `json:"stdLogRedirect" yaml:"stdLogRedirect"`
}

var (
	_logMu        sync.RWMutex
	_globalLogger *zap.Logger
	_subLoggers   map[string]*zap.Logger
)

func init() {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapCfg.Level.SetLevel(zap.InfoLevel)
	l, err := zapCfg.Build()
	if err != nil {
		panic("failed to initialize the default logger")
	}
	_globalLogger = l
	_subLoggers = make(map[string]*zap.Logger)
}

// L wraps the global logger.
func L() *zap.Logger {
	_logMu.RLock()
	defer _logMu.RUnlock()
	return _globalLogger
}

// S wraps the sugared global logger.
func S() *zap.SugaredLogger { return L().Sugar() }

// Logger returns the logger of the given name, falling back to the global one.
func Logger(name string) *zap.Logger {
	_logMu.RLock()
	defer _logMu.RUnlock()
	if logger, ok := _subLoggers[name]; ok {
		return logger
	}
	return _globalLogger
}

// InitLoggers initializes the global logger and the sub loggers.
func InitLoggers(globalCfg GlobalConfig, subCfgs map[string]GlobalConfig) error {
	if _, exists := subCfgs["global"]; exists {
		return errors.New("'global' is a reserved name for the global logger")
	}
	subCfgs["global"] = globalCfg
	for name, cfg := range subCfgs {
		zapCfg := cfg.Zap
		if zapCfg == nil {
			c := zap.NewProductionConfig()
			zapCfg = &c
		}
		logger, err := zapCfg.Build()
		if err != nil {
			return errors.Wrapf(err, "failed to build logger %s", name)
		}
		_logMu.Lock()
		if name == "global" {
			_globalLogger = logger
			if cfg.RedirectStdLog {
				zap.RedirectStdLog(logger)
			}
		} else {
			if _, exists := _subLoggers[name]; exists {
				_logMu.Unlock()
				return errors.Errorf("duplicate sub logger name: %s", name)
			}
			_subLoggers[name] = logger
		}
		_logMu.Unlock()
	}
	return nil
}
