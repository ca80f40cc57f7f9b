// Package errors provides custom error types for the decisionsync system.
// These errors enable programmatic error checking (parse failure vs.
// transport failure vs. version conflict) and carry the position/title
// context that sync reports surface to users.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are aliases for the standard library equivalents so
// callers don't need to import both packages.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the decisionsync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates a version conflict on a concurrent write
	ErrConflict = errors.New("version conflict")

	// ErrAPIKeyRequired indicates that an API token is required but not provided
	ErrAPIKeyRequired = errors.New("API token required")

	// ErrAmbiguous indicates that two distinct inputs collapse to one key
	ErrAmbiguous = errors.New("ambiguous")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// ParseError represents an error when parsing a decision document.
// Block identifies the failing decision by position (1-based) and,
// when known, by title.
type ParseError struct {
	Format  string // "markdown" or "storage"
	File    string
	Block   int
	Title   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	switch {
	case e.Title != "" && e.File != "":
		return fmt.Sprintf("%s parse error in %s at decision %q (block %d): %s", e.Format, e.File, e.Title, e.Block, e.Message)
	case e.Title != "":
		return fmt.Sprintf("%s parse error at decision %q (block %d): %s", e.Format, e.Title, e.Block, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s parse error in %s at block %d: %s", e.Format, e.File, e.Block, e.Message)
	default:
		return fmt.Sprintf("%s parse error at block %d: %s", e.Format, e.Block, e.Message)
	}
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, block int, title, message string) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Block:   block,
		Title:   title,
		Message: message,
	}
}

// AmbiguityError indicates that two distinct local decision titles
// normalize to the same matching key. Proceeding would silently merge
// two decisions, so this is always fatal before any write.
type AmbiguityError struct {
	First  string // first title, as authored
	Second string // second title, as authored
	Key    string // the normalized key both collapse to
}

// Error implements the error interface
func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("titles %q and %q both normalize to %q", e.First, e.Second, e.Key)
}

// Is implements errors.Is support
func (e *AmbiguityError) Is(target error) bool {
	return target == ErrAmbiguous
}

// NewAmbiguityError creates a new AmbiguityError
func NewAmbiguityError(first, second, key string) *AmbiguityError {
	return &AmbiguityError{First: first, Second: second, Key: key}
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError represents a version conflict writing a page: the
// version token read at the start of the run no longer matches the
// page's current version. Never retried by the core.
type ConflictError struct {
	PageID        string
	BaseVersion   int
	ServerMessage string
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	if e.ServerMessage != "" {
		return fmt.Sprintf("version conflict writing page %s (base version %d): %s", e.PageID, e.BaseVersion, e.ServerMessage)
	}
	return fmt.Sprintf("version conflict writing page %s (base version %d)", e.PageID, e.BaseVersion)
}

// Is implements errors.Is support
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// APIError represents an error from the page store API
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError
func NewAPIError(endpoint string, statusCode int, message string) *APIError {
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}

// AuthenticationError represents an authentication/authorization error
type AuthenticationError struct {
	Endpoint string
	Method   string // "basic", "token"
	Message  string
	Err      error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("authentication error for %s (%s): %s", e.Endpoint, e.Method, e.Message)
	}
	return fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAPIKeyRequired
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{Operation: operation, Path: path, Message: message, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a version conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsParseError checks if an error is a parse or validation error
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAmbiguous checks if an error is a reconciliation ambiguity
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguous)
}

// IsAuthentication checks if an error is related to credentials
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAPIKeyRequired)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(endpoint string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}
