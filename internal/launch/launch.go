// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package launch opens and exports generated notebooks with the locally
// installed Jupyter tooling.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

const (
	binVoila   = "voila"
	binJupyter = "jupyter"
)

// ErrNoTool reports that no notebook tool is installed.
var ErrNoTool = errors.New("no notebook tool available: neither voila nor jupyter found on PATH")

// Tool serves notebooks with one of the local notebook programs.
type Tool interface {
	// Name returns the tool name ("voila" or "jupyter").
	Name() string

	// Available reports whether the tool binary exists on PATH.
	Available() bool

	// Open serves the notebook UI, blocking until the command exits.
	Open(ctx context.Context, path string, stdout, stderr io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// tool implements Tool for a specific binary. Voila and jupyter share the
// logic and differ only in the arguments that open a notebook.
type tool struct {
	bin      string
	openArgs func(path string) []string
	exec     executor
}

func (t *tool) Name() string { return t.bin }

func (t *tool) Available() bool {
	_, err := t.exec.LookPath(t.bin)
	return err == nil
}

func (t *tool) Open(ctx context.Context, path string, stdout, stderr io.Writer) error {
	if err := t.exec.Run(ctx, stdout, stderr, t.bin, t.openArgs(path)...); err != nil {
		return fmt.Errorf("running %s on %s: %w", t.bin, path, err)
	}
	return nil
}

func newVoilaTool(exec executor) *tool {
	return &tool{
		bin:      binVoila,
		openArgs: func(path string) []string { return []string{path} },
		exec:     exec,
	}
}

func newJupyterTool(exec executor) *tool {
	return &tool{
		bin:      binJupyter,
		openArgs: func(path string) []string { return []string{"lab", path} },
		exec:     exec,
	}
}

var defaultExec = &osExecutor{}

// DetectTool prefers voila, the widget UI of analysis notebooks, and falls
// back to jupyter lab.
func DetectTool() (Tool, error) {
	return detectTool(defaultExec)
}

func detectTool(exec executor) (Tool, error) {
	voila := newVoilaTool(exec)
	if voila.Available() {
		return voila, nil
	}

	jupyter := newJupyterTool(exec)
	if jupyter.Available() {
		return jupyter, nil
	}

	return nil, ErrNoTool
}

// Export renders the notebook to another format with jupyter nbconvert.
// An empty format exports to HTML.
func Export(ctx context.Context, path, format string, stdout, stderr io.Writer) error {
	return exportWith(ctx, defaultExec, path, format, stdout, stderr)
}

func exportWith(ctx context.Context, exec executor, path, format string, stdout, stderr io.Writer) error {
	if _, err := exec.LookPath(binJupyter); err != nil {
		return fmt.Errorf("exporting needs jupyter nbconvert: %w", ErrNoTool)
	}
	if format == "" {
		format = "html"
	}
	if err := exec.Run(ctx, stdout, stderr, binJupyter, "nbconvert", "--to", format, path); err != nil {
		return fmt.Errorf("exporting %s to %s: %w", path, format, err)
	}
	return nil
}
