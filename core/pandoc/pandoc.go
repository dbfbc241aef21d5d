// Package pandoc drives the external pandoc process and decodes its
// tagged JSON output into a document. The process boundary is abstracted
// behind the Runner type so the pipeline is fully testable with a stub;
// only ExecRunner ever spawns a process.
package pandoc

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/baig/gopandoc/core/ast"
	"github.com/baig/gopandoc/core/errors"
	"github.com/baig/gopandoc/core/wire"
)

// MathMode selects how pandoc is asked to render math.
type MathMode string

// Math rendering modes, mapping to the corresponding pandoc flags.
// MathDefault passes no flag.
const (
	MathDefault MathMode = ""
	MathJax     MathMode = "mathjax"
	MathML      MathMode = "mathml"
	KaTeX       MathMode = "katex"
	WebTeX      MathMode = "webtex"
)

// DefaultTimeout bounds a single pandoc invocation.
const DefaultTimeout = 60 * time.Second

// Options configures the external pandoc invocation.
type Options struct {
	// Path is the pandoc executable (default "pandoc").
	Path string

	// From is the input format passed as -f (default "markdown").
	From string

	// Math is the math rendering mode flag.
	Math MathMode

	// Timeout bounds the invocation (default DefaultTimeout).
	Timeout time.Duration
}

func (o Options) path() string {
	if o.Path == "" {
		return "pandoc"
	}
	return o.Path
}

func (o Options) from() string {
	if o.From == "" {
		return "markdown"
	}
	return o.From
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// Args returns the pandoc argument list for these options. The output
// format is always tagged JSON.
func (o Options) Args() []string {
	args := []string{"-f", o.from(), "-t", "json"}
	if o.Math != MathDefault {
		args = append(args, "--"+string(o.Math))
	}
	return args
}

// Runner is the external converter boundary: UTF-8 source text in, wire
// JSON text out. A Runner must not retry; every failure is terminal.
type Runner func(ctx context.Context, source string) (string, error)

// ExecRunner returns a Runner that invokes the pandoc binary, writing the
// source to stdin and draining the wire JSON from stdout. The invocation
// blocks until the process exits; the context and the configured timeout
// bound it.
func ExecRunner(opts Options) Runner {
	return func(ctx context.Context, source string) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, opts.timeout())
		defer cancel()

		cmd := exec.CommandContext(ctx, opts.path(), opts.Args()...)
		cmd.Stdin = strings.NewReader(source)

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err := cmd.Run()
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.NewExternalTool(opts.path(), stderrLine(&stderr), ctx.Err())
		}
		if err != nil {
			return "", errors.NewExternalTool(opts.path(), stderrLine(&stderr), err)
		}
		return stdout.String(), nil
	}
}

func stderrLine(buf *bytes.Buffer) string {
	return strings.TrimSpace(buf.String())
}

// Converter converts source text to documents via a Runner. A Converter
// holds no mutable state; independent conversions may run concurrently.
type Converter struct {
	run Runner
}

// New creates a Converter backed by the real pandoc binary.
func New(opts Options) *Converter {
	return &Converter{run: ExecRunner(opts)}
}

// NewWithRunner creates a Converter backed by the given collaborator.
// Tests use this to avoid spawning processes.
func NewWithRunner(run Runner) *Converter {
	return &Converter{run: run}
}

// Convert sends the source through the external converter and decodes the
// resulting wire JSON. Failures are typed: an ExternalToolError when the
// collaborator fails, a ParseError for invalid JSON, a ShapeError for a
// malformed top level, and a DecodeError for a bad node. No failure is
// retried and no partial document is ever returned.
func (c *Converter) Convert(ctx context.Context, source string) (*ast.Pandoc, error) {
	out, err := c.run(ctx, source)
	if err != nil {
		var toolErr *errors.ExternalToolError
		if errors.As(err, &toolErr) {
			return nil, err
		}
		return nil, errors.NewExternalTool("converter", "", err)
	}
	return wire.DecodeDocument([]byte(out))
}
