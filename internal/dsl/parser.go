package dsl

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/archdsl/archdsl/internal/archmodel"
	"github.com/archdsl/archdsl/internal/diag"
	"github.com/archdsl/archdsl/internal/include"
	"github.com/archdsl/archdsl/internal/register"
)

// Parser holds all state for a single parse: the context stack, the
// identifier register, constants, the restricted-mode flag, the listener,
// and the echoed-source accumulator. Per spec's design notes, this is the
// only place any of that state lives; there are no process-wide globals.
// Instances are not safe for concurrent use.
type Parser struct {
	ctx context.Context

	builder  archmodel.Builder
	register *register.Register
	cycles   *include.CycleGuard

	constants  map[string]string
	restricted bool
	scope      register.Scope
	extending  bool

	listener Listener

	scriptRunner ScriptRunner
	pluginRunner PluginRunner
	docsImporter DocsImporter

	stack *stack
	echo  strings.Builder

	impliedRelationships string

	currentFile string
}

// New returns a Parser writing into its own InMemoryBuilder.
func New(ctx context.Context) *Parser {
	return NewWithBuilder(ctx, archmodel.NewInMemoryBuilder())
}

// NewWithBuilder returns a Parser that mutates an externally supplied
// Builder, e.g. one backed by a pre-loaded workspace for the
// `workspace extends` form.
func NewWithBuilder(ctx context.Context, b archmodel.Builder) *Parser {
	return &Parser{
		ctx:       ctx,
		builder:   b,
		register:  register.New(),
		cycles:    include.NewCycleGuard(),
		constants: make(map[string]string),
		stack:     &stack{},
	}
}

// SetRestricted toggles restricted (sandboxed) mode: filesystem !include,
// !docs, !adrs, !plugin, !script, and environment substitution are all
// disabled in restricted mode.
func (p *Parser) SetRestricted(restricted bool) { p.restricted = restricted }

// Restricted reports whether restricted mode is active.
func (p *Parser) Restricted() bool { return p.restricted }

// SetIdentifierScope sets Flat or Hierarchical identifier scope. May be
// called before parsing, or re-invoked mid-parse by `!identifiers`.
func (p *Parser) SetIdentifierScope(scope register.Scope) {
	p.scope = scope
	p.register.SetScope(scope)
}

// SetListener installs a progress listener. Pass nil to remove one.
func (p *Parser) SetListener(l Listener) { p.listener = l }

// Extending reports whether this parse extended a pre-existing, non-empty
// workspace (the `workspace extends <file>` form).
func (p *Parser) Extending() bool { return p.extending }

// Register exposes the identifier register for callers that need direct
// getElement/getRelationship access (spec.md §6, §8 invariants 2-4).
func (p *Parser) Register() *register.Register { return p.register }

// Workspace returns the materialised workspace, re-attaching the echoed DSL
// text before returning it (spec.md invariant 1). Returns nil if the
// `workspace` directive has not yet been seen.
func (p *Parser) Workspace() *archmodel.Workspace {
	ws := p.builder.Workspace()
	if ws != nil {
		ws.DSL = p.echo.String()
	}
	return ws
}

// ParseString parses an in-memory DSL fragment, as if it were a file named
// "<input>".
func (p *Parser) ParseString(text string) error {
	return p.parseLines("<input>", strings.Split(text, "\n"))
}

// Parse parses a single file or, recursively in stable lexicographic order,
// every file beneath a directory.
func (p *Parser) Parse(path string) error {
	files, err := include.ResolveFiles(path)
	if err != nil {
		return diag.New(diag.KindFileNotFound, path, 0, "", err.Error())
	}
	for _, f := range files {
		if err := p.parseFile(f); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseFile(path string) error {
	release, err := p.cycles.Enter(path)
	if err != nil {
		return diag.New(diag.KindIncludeCycle, path, 0, "", err.Error())
	}
	defer release()

	f, err := os.Open(path)
	if err != nil {
		return diag.New(diag.KindFileNotFound, path, 0, "", err.Error())
	}
	lines, err := readLines(f)
	f.Close()
	if err != nil {
		return diag.Wrap(diag.KindIncludeIOError, path, 0, "", err)
	}

	previous := p.currentFile
	p.currentFile = path
	defer func() { p.currentFile = previous }()

	return p.parseLines(path, lines)
}

func readLines(f *os.File) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func (p *Parser) parseLines(file string, lines []string) (err error) {
	previous := p.currentFile
	p.currentFile = file
	defer func() { p.currentFile = previous }()

	var lineNo int
	var raw string
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = diag.Wrap(diag.KindExecutionError, file, lineNo, raw, cause)
		}
	}()

	for i, line := range lines {
		lineNo, raw = i+1, line
		if err := p.processLine(file, lineNo, raw); err != nil {
			return err
		}
	}
	return nil
}

// resolveIncludePath joins a relative include target against the directory
// of the file currently being parsed, so nested includes resolve relative
// to their own source rather than the process working directory.
func (p *Parser) resolveIncludePath(target string) string {
	if filepath.IsAbs(target) || p.currentFile == "" || p.currentFile == "<input>" {
		return target
	}
	return filepath.Join(filepath.Dir(p.currentFile), target)
}

func (p *Parser) fail(kind diag.Kind, file string, line int, source, detail string) error {
	return diag.New(kind, file, line, source, detail)
}

func (p *Parser) failf(kind diag.Kind, file string, line int, source, format string, args ...any) error {
	return diag.New(kind, file, line, source, fmt.Sprintf(format, args...))
}
