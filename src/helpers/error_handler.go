package helpers

import (
	"fmt"
	"sync"

	"covid-dashboard/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type DashboardError struct {
	Message string
	Cause   error
}

func (e *DashboardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DashboardError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As checks
type ConfigurationError struct{ DashboardError }
type DataSourceError struct{ DashboardError }
type CatalogError struct{ DashboardError }
type RenderError struct{ DashboardError }
type ValidationError struct{ DashboardError }

// NetworkError carries the HTTP status when the server answered (0 for transport errors).
type NetworkError struct {
	DashboardError
	StatusCode int
}

// -----------------------------------------------------------------------------

func NewNetworkError(statusCode int, message string, cause error) *NetworkError {
	return &NetworkError{DashboardError: DashboardError{Message: message, Cause: cause}, StatusCode: statusCode}
}

func NewDataSourceError(message string, cause error) *DataSourceError {
	return &DataSourceError{DashboardError{Message: message, Cause: cause}}
}

func NewCatalogError(message string, cause error) *CatalogError {
	return &CatalogError{DashboardError{Message: message, Cause: cause}}
}

func NewRenderError(message string, cause error) *RenderError {
	return &RenderError{DashboardError{Message: message, Cause: cause}}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{DashboardError{Message: message}}
}

func NewConfigurationError(message string, cause error) *ConfigurationError {
	return &ConfigurationError{DashboardError{Message: message, Cause: cause}}
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

// ErrorHandler logs errors that are absorbed locally (render-local chart failures,
// substituted fetches) and keeps a count for the health endpoint.
type ErrorHandler struct {
	Logger     *logger.Logger
	errorCount int
	mu         sync.Mutex
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	if log == nil {
		log = logger.NewLogger(nil, "ErrorHandler")
	}
	return &ErrorHandler{Logger: log}
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) ErrorCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errorCount
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) ResetErrorCount() {
	e.mu.Lock()
	e.errorCount = 0
	e.mu.Unlock()
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) Handle(err error, context string) {
	if err == nil {
		return
	}
	e.mu.Lock()
	e.errorCount++
	e.mu.Unlock()
	e.Logger.Error("Error in %s: %v", context, err)
}
