package errors

import (
	"fmt"
	"time"
)

// Error types for the quick-document-index engine
type ErrorType string

const (
	// Indexing errors
	ErrorTypeIndexing ErrorType = "indexing"
	ErrorTypeRebuild  ErrorType = "rebuild"
	ErrorTypeSearch   ErrorType = "search"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeFileTooLarge ErrorType = "file_too_large"
	ErrorTypeInvalidPath  ErrorType = "invalid_path"
	ErrorTypePermission   ErrorType = "permission"

	// Query errors
	ErrorTypeEmptyQuery ErrorType = "empty_query"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// ConfigError reports a misconfigured root or limit. Callers treat it as a
// warning-level condition: other roots may still be usable.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// FileTooLargeError marks a candidate file that exceeds the byte-size limit.
// The file is skipped and counted; the surrounding walk continues.
type FileTooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

// NewFileTooLargeError creates a new file-too-large error
func NewFileTooLargeError(path string, size, limit int64) *FileTooLargeError {
	return &FileTooLargeError{Path: path, Size: size, Limit: limit}
}

// Error implements the error interface
func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file %s exceeds size limit (%d > %d bytes)", e.Path, e.Size, e.Limit)
}

// InvalidPathError marks a PathGuard rejection. It never propagates past the
// cache boundary; the request for that path yields empty content.
type InvalidPathError struct {
	Path string
	Root string
}

// NewInvalidPathError creates a new invalid-path error
func NewInvalidPathError(path, root string) *InvalidPathError {
	return &InvalidPathError{Path: path, Root: root}
}

// Error implements the error interface
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("path %s resolves outside root %s", e.Path, e.Root)
}

// EmptyQueryError marks an all-whitespace or zero-length query at the
// orchestrator boundary. It signals caller misuse, not "no matches".
type EmptyQueryError struct {
	RawQuery string
}

// NewEmptyQueryError creates a new empty-query error
func NewEmptyQueryError(raw string) *EmptyQueryError {
	return &EmptyQueryError{RawQuery: raw}
}

// Error implements the error interface
func (e *EmptyQueryError) Error() string {
	return "search query is empty"
}

// IndexRebuildError reports an unexpected failure during reindex. Elapsed
// time covers work up to the failure point, distinguishing it from a
// successful rebuild that found nothing.
type IndexRebuildError struct {
	Root       string
	Elapsed    time.Duration
	Underlying error
	Timestamp  time.Time
}

// NewIndexRebuildError creates a new index-rebuild error
func NewIndexRebuildError(root string, elapsed time.Duration, err error) *IndexRebuildError {
	return &IndexRebuildError{
		Root:       root,
		Elapsed:    elapsed,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *IndexRebuildError) Error() string {
	return fmt.Sprintf("reindex of %s failed after %v: %v", e.Root, e.Elapsed, e.Underlying)
}

// Unwrap returns the underlying error
func (e *IndexRebuildError) Unwrap() error {
	return e.Underlying
}

// FileError represents a per-file load error during batch operations
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	return &FileError{
		Type:       ErrorTypeFileNotFound,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}
