// Package errors provides standardized error types and helpers for the
// gopandoc codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
)

// ExternalToolError represents a failure to run the external converter:
// the process could not start, exited abnormally, or its output could not
// be drained.
type ExternalToolError struct {
	Tool   string // Tool that was invoked (e.g., "pandoc")
	Stderr string // Captured standard error output, if any
	Err    error  // Underlying error
}

func (e *ExternalToolError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %v (stderr: %s)", e.Tool, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "JSON", "selector")
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// ShapeError indicates the top-level wire value did not have the expected
// shape (a two-element array of metadata and blocks).
type ShapeError struct {
	Got  string // Description of what was found
	Want string // Description of what was expected
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected document shape: got %s, want %s", e.Got, e.Want)
}

func (e *ShapeError) Unwrap() error {
	return ErrInvalidInput
}

// DecodeError indicates a node could not be decoded against the document
// schema: an unrecognized tag, a payload arity mismatch, or a leaf type
// mismatch. Path locates the offending node within the document.
type DecodeError struct {
	Path    string // Node path (e.g., "blocks[2].Header[1]")
	Tag     string // Variant tag involved, if known
	Message string // Error details
}

func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("decode failed at %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("decode failed: %s", e.Message)
}

func (e *DecodeError) Unwrap() error {
	return ErrInvalidInput
}

// Helper functions for creating common errors

// NewExternalTool creates an ExternalToolError
func NewExternalTool(tool, stderr string, err error) *ExternalToolError {
	return &ExternalToolError{
		Tool:   tool,
		Stderr: stderr,
		Err:    err,
	}
}

// NewParse creates a ParseError
func NewParse(format, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		Message: message,
		Err:     err,
	}
}

// NewShape creates a ShapeError
func NewShape(got, want string) *ShapeError {
	return &ShapeError{
		Got:  got,
		Want: want,
	}
}

// NewDecode creates a DecodeError
func NewDecode(path, tag, message string) *DecodeError {
	return &DecodeError{
		Path:    path,
		Tag:     tag,
		Message: message,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
