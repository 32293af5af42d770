// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging constructs the structured logger handed to the
// normalization components. Reconciliation and synthesis report dropped
// references and malformed values through it; nothing is swallowed silently.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New builds a SugaredLogger for the given mode. "prod" or "production"
// selects the JSON production config; anything else the console development
// config. Output goes to stderr so command stdout stays machine-readable.
func New(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Nop returns a logger that discards everything. Used where a logger is
// required but output is unwanted.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
