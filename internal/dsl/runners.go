package dsl

import "context"

// ScriptRunner executes an inline or file-based `!script` body. Script
// execution is an external collaborator (spec.md §1 Non-goals); Parser only
// knows how to recognise and accumulate a script block and hand it off.
type ScriptRunner interface {
	RunScript(ctx context.Context, language, body string) error
}

// PluginRunner executes a `!plugin <fqcn> { ... }` block's parameters once
// the block closes.
type PluginRunner interface {
	RunPlugin(ctx context.Context, fqcn string, params map[string]string) error
}

// DocsImporter loads `!docs`/`!adrs` content into the workspace. External
// collaborator; Parser only recognises and gates the directive.
type DocsImporter interface {
	Import(ctx context.Context, kind, target string) error
}

// SetScriptRunner installs the collaborator invoked when an inline script
// frame closes. Scripts are rejected before this is consulted if restricted.
func (p *Parser) SetScriptRunner(r ScriptRunner) { p.scriptRunner = r }

// SetPluginRunner installs the collaborator invoked when a plugin frame
// closes.
func (p *Parser) SetPluginRunner(r PluginRunner) { p.pluginRunner = r }

// SetDocsImporter installs the collaborator invoked by `!docs`/`!adrs`.
func (p *Parser) SetDocsImporter(d DocsImporter) { p.docsImporter = d }
