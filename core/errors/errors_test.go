package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestExternalToolError(t *testing.T) {
	baseErr := fmt.Errorf("exit status 64")
	tests := []struct {
		name    string
		err     *ExternalToolError
		wantMsg string
	}{
		{
			name:    "with stderr",
			err:     &ExternalToolError{Tool: "pandoc", Stderr: "unknown input format", Err: baseErr},
			wantMsg: "pandoc failed: exit status 64 (stderr: unknown input format)",
		},
		{
			name:    "without stderr",
			err:     &ExternalToolError{Tool: "pandoc", Err: baseErr},
			wantMsg: "pandoc failed: exit status 64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, baseErr) {
				t.Errorf("Unwrap() = %v, want %v", got, baseErr)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "without underlying error",
			err:      &ParseError{Format: "JSON", Message: "unexpected EOF"},
			wantMsg:  "failed to parse JSON: unexpected EOF",
			wantBase: ErrInvalidInput,
		},
		{
			name:     "selector format",
			err:      &ParseError{Format: "selector", Message: "unexpected token"},
			wantMsg:  "failed to parse selector: unexpected token",
			wantBase: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}

	// Test with underlying error separately
	t.Run("with underlying error", func(t *testing.T) {
		underlyingErr := fmt.Errorf("json: unexpected token")
		err := &ParseError{Format: "JSON", Message: "invalid syntax", Err: underlyingErr}
		if got := err.Unwrap(); got != underlyingErr {
			t.Errorf("Unwrap() = %v, want %v", got, underlyingErr)
		}
	})
}

func TestShapeError(t *testing.T) {
	err := &ShapeError{Got: "object", Want: "2-element array"}
	wantMsg := "unexpected document shape: got object, want 2-element array"
	if got := err.Error(); got != wantMsg {
		t.Errorf("Error() = %q, want %q", got, wantMsg)
	}
	if got := err.Unwrap(); !errors.Is(got, ErrInvalidInput) {
		t.Errorf("Unwrap() = %v, want %v", got, ErrInvalidInput)
	}
}

func TestDecodeError(t *testing.T) {
	tests := []struct {
		name    string
		err     *DecodeError
		wantMsg string
	}{
		{
			name:    "with path",
			err:     &DecodeError{Path: "blocks[2].Header[1]", Tag: "Header", Message: "expected 3 fields"},
			wantMsg: "decode failed at blocks[2].Header[1]: expected 3 fields",
		},
		{
			name:    "without path",
			err:     &DecodeError{Tag: "Nope", Message: "unknown tag"},
			wantMsg: "decode failed: unknown tag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, ErrInvalidInput) {
				t.Errorf("Unwrap() = %v, want %v", got, ErrInvalidInput)
			}
		})
	}
}

func TestHelperFunctions(t *testing.T) {
	t.Run("NewExternalTool", func(t *testing.T) {
		baseErr := fmt.Errorf("signal: killed")
		err := NewExternalTool("pandoc", "timed out", baseErr)
		if err.Tool != "pandoc" || err.Stderr != "timed out" || err.Err != baseErr {
			t.Errorf("NewExternalTool() = %+v, unexpected values", err)
		}
	})

	t.Run("NewParse", func(t *testing.T) {
		baseErr := fmt.Errorf("bad token")
		err := NewParse("JSON", "invalid syntax", baseErr)
		if err.Format != "JSON" || err.Message != "invalid syntax" || err.Err != baseErr {
			t.Errorf("NewParse() = %+v, unexpected values", err)
		}
	})

	t.Run("NewShape", func(t *testing.T) {
		err := NewShape("1-element array", "2-element array")
		if err.Got != "1-element array" || err.Want != "2-element array" {
			t.Errorf("NewShape() = %+v, unexpected values", err)
		}
	})

	t.Run("NewDecode", func(t *testing.T) {
		err := NewDecode("blocks[0]", "Para", "expected array payload")
		if err.Path != "blocks[0]" || err.Tag != "Para" || err.Message != "expected array payload" {
			t.Errorf("NewDecode() = %+v, unexpected values", err)
		}
	})
}

func TestWrap(t *testing.T) {
	t.Run("wraps error", func(t *testing.T) {
		baseErr := fmt.Errorf("base error")
		wrapped := Wrap(baseErr, "context message")
		if wrapped == nil {
			t.Fatal("Wrap() returned nil")
		}
		if !errors.Is(wrapped, baseErr) {
			t.Errorf("Wrap() error does not unwrap to base error")
		}
		wantMsg := "context message: base error"
		if wrapped.Error() != wantMsg {
			t.Errorf("Wrap() = %q, want %q", wrapped.Error(), wantMsg)
		}
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		if got := Wrap(nil, "context"); got != nil {
			t.Errorf("Wrap(nil) = %v, want nil", got)
		}
	})
}

func TestWrapf(t *testing.T) {
	t.Run("wraps error with formatting", func(t *testing.T) {
		baseErr := fmt.Errorf("base error")
		wrapped := Wrapf(baseErr, "failed to process %s", "doc.md")
		if wrapped == nil {
			t.Fatal("Wrapf() returned nil")
		}
		if !errors.Is(wrapped, baseErr) {
			t.Errorf("Wrapf() error does not unwrap to base error")
		}
		wantMsg := "failed to process doc.md: base error"
		if wrapped.Error() != wantMsg {
			t.Errorf("Wrapf() = %q, want %q", wrapped.Error(), wantMsg)
		}
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		if got := Wrapf(nil, "context %s", "test"); got != nil {
			t.Errorf("Wrapf(nil) = %v, want nil", got)
		}
	})
}

func TestIs(t *testing.T) {
	err := &DecodeError{Message: "unknown tag"}
	if !Is(err, ErrInvalidInput) {
		t.Error("Is() failed to match DecodeError to ErrInvalidInput")
	}
}

func TestAs(t *testing.T) {
	var err error = &DecodeError{Path: "blocks[1]", Message: "bad payload"}
	var decErr *DecodeError
	if !As(err, &decErr) {
		t.Error("As() failed to match DecodeError")
	}
	if decErr.Path != "blocks[1]" {
		t.Errorf("As() decErr.Path = %q, want %q", decErr.Path, "blocks[1]")
	}
}
