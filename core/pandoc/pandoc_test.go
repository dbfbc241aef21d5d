package pandoc

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/baig/gopandoc/core/ast"
	"github.com/baig/gopandoc/core/errors"
)

const headerWire = `[{"unMeta":{}},[{"t":"Header","c":[1,["test",[],[]],[{"t":"Str","c":"Test"}]]}]]`

// stubRunner returns fixed wire output without spawning a process.
func stubRunner(out string) Runner {
	return func(ctx context.Context, source string) (string, error) {
		return out, nil
	}
}

func TestConvertHeader(t *testing.T) {
	conv := NewWithRunner(stubRunner(headerWire))
	doc, err := conv.Convert(context.Background(), "# Test")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := &ast.Pandoc{
		Meta: ast.Meta{},
		Blocks: []ast.Block{
			ast.Header{
				Level:   1,
				Attr:    ast.Attr{ID: "test"},
				Inlines: []ast.Inline{ast.Str("Test")},
			},
		},
	}
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("got %#v, want %#v", doc, want)
	}
}

func TestConvertPassesSourceThrough(t *testing.T) {
	var seen string
	run := func(ctx context.Context, source string) (string, error) {
		seen = source
		return headerWire, nil
	}
	conv := NewWithRunner(run)
	if _, err := conv.Convert(context.Background(), "# Test"); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if seen != "# Test" {
		t.Errorf("runner saw %q", seen)
	}
}

func TestConvertExternalToolFailure(t *testing.T) {
	run := func(ctx context.Context, source string) (string, error) {
		return "", fmt.Errorf("no such binary")
	}
	conv := NewWithRunner(run)
	_, err := conv.Convert(context.Background(), "x")
	if err == nil {
		t.Fatal("expected an error")
	}
	var toolErr *errors.ExternalToolError
	if !errors.As(err, &toolErr) {
		t.Errorf("expected ExternalToolError, got %T: %v", err, err)
	}
}

func TestConvertKeepsTypedToolError(t *testing.T) {
	orig := errors.NewExternalTool("pandoc", "boom", fmt.Errorf("exit status 2"))
	run := func(ctx context.Context, source string) (string, error) {
		return "", orig
	}
	conv := NewWithRunner(run)
	_, err := conv.Convert(context.Background(), "x")
	var toolErr *errors.ExternalToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ExternalToolError, got %T: %v", err, err)
	}
	if toolErr.Tool != "pandoc" || toolErr.Stderr != "boom" {
		t.Errorf("error context lost: %#v", toolErr)
	}
}

func TestConvertMalformedOutput(t *testing.T) {
	conv := NewWithRunner(stubRunner(`not json`))
	_, err := conv.Convert(context.Background(), "x")
	var parseErr *errors.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected ParseError, got %T: %v", err, err)
	}
}

func TestConvertUnexpectedShape(t *testing.T) {
	conv := NewWithRunner(stubRunner(`{"unMeta":{}}`))
	_, err := conv.Convert(context.Background(), "x")
	var shapeErr *errors.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Errorf("expected ShapeError, got %T: %v", err, err)
	}
}

func TestConvertDecodeFailure(t *testing.T) {
	conv := NewWithRunner(stubRunner(`[{"unMeta":{}},[{"t":"Nope","c":[]}]]`))
	_, err := conv.Convert(context.Background(), "x")
	var decErr *errors.DecodeError
	if !errors.As(err, &decErr) {
		t.Errorf("expected DecodeError, got %T: %v", err, err)
	}
}

func TestOptionsArgs(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"defaults", Options{}, []string{"-f", "markdown", "-t", "json"}},
		{"html input", Options{From: "html"}, []string{"-f", "html", "-t", "json"}},
		{"mathjax", Options{Math: MathJax}, []string{"-f", "markdown", "-t", "json", "--mathjax"}},
		{"katex", Options{From: "rst", Math: KaTeX}, []string{"-f", "rst", "-t", "json", "--katex"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Args(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if opts.path() != "pandoc" {
		t.Errorf("path = %q", opts.path())
	}
	if opts.timeout() != DefaultTimeout {
		t.Errorf("timeout = %v", opts.timeout())
	}
}
