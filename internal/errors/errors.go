package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeRetrieval  ErrorType = "RETRIEVAL"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// Stable error codes for the fatal parsing failures. A run stops on
// any of these; they indicate a malformed document or an upstream
// format change, not a transient condition.
const (
	CodeHeaderNotFound = "HEADER_NOT_FOUND"
	CodeMissingColumn  = "MISSING_COLUMN"
	CodeEmptyHoldings  = "EMPTY_HOLDINGS"
	CodeRetrieval      = "RETRIEVAL_FAILED"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewHeaderNotFoundError reports that no row in the scanned window
// qualified as the column header. rowPreview carries the first few
// scanned rows so the log distinguishes a format change from a
// retrieval glitch.
func NewHeaderNotFoundError(scanLimit int, rowPreview []string) *AppError {
	err := NewAppError(ErrTypeParsing, fmt.Sprintf("no header row found in first %d rows", scanLimit), nil)
	err.Code = CodeHeaderNotFound
	return err.WithContext("scan_limit", scanLimit).
		WithContext("row_preview", rowPreview)
}

// NewMissingColumnError reports that one or more mandatory canonical
// fields could not be bound to a header cell.
func NewMissingColumnError(missing []string, headerCells []string) *AppError {
	err := NewAppError(ErrTypeParsing, fmt.Sprintf("unresolved mandatory columns: %v", missing), nil)
	err.Code = CodeMissingColumn
	return err.WithContext("missing_fields", missing).
		WithContext("header_cells", headerCells)
}

// NewEmptyHoldingsError reports that normalization produced zero
// records. An empty snapshot is treated as a parsing failure, never
// as a legitimately empty fund.
func NewEmptyHoldingsError(totalRows, droppedRows int) *AppError {
	err := NewAppError(ErrTypeParsing, "normalization produced no holdings", nil)
	err.Code = CodeEmptyHoldings
	return err.WithContext("total_rows", totalRows).
		WithContext("dropped_rows", droppedRows)
}

// NewRetrievalError creates a retrieval-related error
func NewRetrievalError(message string, cause error) *AppError {
	err := NewAppError(ErrTypeRetrieval, message, cause)
	err.Code = CodeRetrieval
	return err
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsHeaderNotFound reports whether err is a HeaderNotFound failure.
func IsHeaderNotFound(err error) bool { return hasCode(err, CodeHeaderNotFound) }

// IsMissingColumn reports whether err is a MissingColumn failure.
func IsMissingColumn(err error) bool { return hasCode(err, CodeMissingColumn) }

// IsEmptyHoldings reports whether err is an EmptyHoldings failure.
func IsEmptyHoldings(err error) bool { return hasCode(err, CodeEmptyHoldings) }

// IsRetrieval reports whether err is a retrieval failure.
func IsRetrieval(err error) bool { return hasCode(err, CodeRetrieval) }
