package app

import (
	"context"
	"fmt"

	"github.com/archdsl/archdsl/internal/ctxlog"
	"github.com/archdsl/archdsl/internal/diag"
)

// Run parses appConfig.WorkspacePath and reports a short summary of the
// resulting workspace. A parse failure is returned as the *diag.Error it
// originated as, so callers (or tests) can inspect Kind/File/Line directly.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.parser.Parse(appConfig.WorkspacePath); err != nil {
		if diagErr, ok := err.(*diag.Error); ok {
			a.logger.Error("Parse failed.", "kind", diagErr.Kind.String(), "file", diagErr.File, "line", diagErr.Line)
		}
		return err
	}

	ws := a.parser.Workspace()
	if ws == nil {
		a.logger.Warn("No `workspace` directive found, nothing to report.")
		return nil
	}

	fmt.Fprintf(a.outW, "workspace %q: %d people, %d software systems, %d relationships, %d views\n",
		ws.Name, len(ws.Model.People), len(ws.Model.SoftwareSystems), len(ws.Model.Relationships), len(ws.Views.Views))

	a.logger.Debug("App.Run method finished.")
	return nil
}
