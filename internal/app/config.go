package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkspacePath string // a single DSL file or a directory of them

	IdentifierScope string // "flat" or "hierarchical"
	Restricted      bool

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkspacePath == "" {
		return nil, errors.New("WorkspacePath is a required configuration field and cannot be empty")
	}
	switch cfg.IdentifierScope {
	case "flat", "hierarchical":
	default:
		return nil, errors.New("IdentifierScope must be 'flat' or 'hierarchical'")
	}
	return &cfg, nil
}
