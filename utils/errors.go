package utils

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// AppError represents a custom application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common error constructors
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func NewInternalError(message string) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// ValidationErrors aggregates field-keyed validation messages. All applicable
// checks run before a request is rejected, so one response can carry several
// messages per field.
type ValidationErrors map[string][]string

// Add appends a message for a field.
func (e ValidationErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Merge copies all messages from other into e.
func (e ValidationErrors) Merge(other ValidationErrors) {
	for field, messages := range other {
		e[field] = append(e[field], messages...)
	}
}

// HasErrors reports whether any field collected a message.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], "; ")))
	}
	return strings.Join(parts, ", ")
}

// ConsistencyFault signals that a persistence operation failed after a ledger
// effect had already been applied. The compensating reversal has been attempted
// by the time this error surfaces; the store needs manual inspection.
type ConsistencyFault struct {
	Op  string
	Err error
}

func (f *ConsistencyFault) Error() string {
	return fmt.Sprintf("consistency fault during %s: %v", f.Op, f.Err)
}

func (f *ConsistencyFault) Unwrap() error {
	return f.Err
}

func NewConsistencyFault(op string, err error) *ConsistencyFault {
	return &ConsistencyFault{Op: op, Err: err}
}

// HandleError sends an appropriate HTTP response for an error
func HandleError(c *gin.Context, err error) {
	switch e := err.(type) {
	case ValidationErrors:
		c.JSON(http.StatusBadRequest, gin.H{"errors": e})
	case *ConsistencyFault:
		c.JSON(http.StatusInternalServerError, gin.H{"error": e.Error()})
	case *AppError:
		c.JSON(e.Code, gin.H{"error": e.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// HandleSuccess sends a success response
func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
