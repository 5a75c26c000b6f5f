package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/archdsl/archdsl/internal/ctxlog"
	"github.com/archdsl/archdsl/internal/dsl"
	"github.com/archdsl/archdsl/internal/register"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle: a logger and a dsl.Parser, isolated per instance the same way
// the teacher isolates a logger and a registry per App.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	parser *dsl.Parser
}

// NewApp is the constructor for the main application. It configures the
// logger and builds a Parser with the identifier scope and restricted mode
// requested by appConfig, but does not parse anything yet; call Run for that.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	p := dsl.New(ctx)
	scope := register.Flat
	if appConfig.IdentifierScope == "hierarchical" {
		scope = register.Hierarchical
	}
	p.SetIdentifierScope(scope)
	p.SetRestricted(appConfig.Restricted)
	logger.Debug("Parser configured.", "identifierScope", appConfig.IdentifierScope, "restricted", appConfig.Restricted)

	return &App{
		outW:   outW,
		logger: logger,
		parser: p,
	}
}

// Parser returns the application's parser. This is primarily for testing.
func (a *App) Parser() *dsl.Parser {
	return a.parser
}
