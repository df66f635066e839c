package errors

import (
	"errors"
	"fmt"
)

// Common errors that can be used across packages
var (
	ErrPackageNotFound = errors.New("package not found")
	ErrAmbiguous       = errors.New("multiple candidates require disambiguation")
	ErrUserAborted     = errors.New("aborted by user")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoRepository    = errors.New("no repository found for the package")
)

// ParseError represents an error parsing a URL, query or pattern
type ParseError struct {
	Input   string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(input, message string) error {
	return &ParseError{
		Input:   input,
		Message: message,
	}
}

// NetworkError represents a transport or remote API failure
type NetworkError struct {
	URL     string
	Status  int
	Wrapped error
}

func (e *NetworkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Wrapped)
	}
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.Status)
}

func (e *NetworkError) Unwrap() error {
	return e.Wrapped
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(url string, status int, wrapped error) error {
	return &NetworkError{
		URL:     url,
		Status:  status,
		Wrapped: wrapped,
	}
}

// FileError represents an error that occurs during file operations
type FileError struct {
	Path    string
	Op      string
	Wrapped error
}

func (e *FileError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s operation failed on %s: %v", e.Op, e.Path, e.Wrapped)
	}
	return fmt.Sprintf("%s operation failed on %s", e.Op, e.Path)
}

func (e *FileError) Unwrap() error {
	return e.Wrapped
}

// NewFileError creates a new FileError
func NewFileError(path, op string, wrapped error) error {
	return &FileError{
		Path:    path,
		Op:      op,
		Wrapped: wrapped,
	}
}

// PackageError represents an error that occurs during package operations
type PackageError struct {
	Op      string
	Package string
	Variant string
	Wrapped error
}

func (e *PackageError) Error() string {
	if e.Variant != "" {
		if e.Wrapped != nil {
			return fmt.Sprintf("package %s failed for %s@%s: %v", e.Op, e.Package, e.Variant, e.Wrapped)
		}
		return fmt.Sprintf("package %s failed for %s@%s", e.Op, e.Package, e.Variant)
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("package %s failed for %s: %v", e.Op, e.Package, e.Wrapped)
	}
	return fmt.Sprintf("package %s failed for %s", e.Op, e.Package)
}

func (e *PackageError) Unwrap() error {
	return e.Wrapped
}

// NewPackageError creates a new PackageError
func NewPackageError(op, pkg, variant string, wrapped error) error {
	return &PackageError{
		Op:      op,
		Package: pkg,
		Variant: variant,
		Wrapped: wrapped,
	}
}

// Is reports whether target matches err.
// It enables errors.Is() to work with our custom error types.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// It enables errors.As() to work with our custom error types.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
