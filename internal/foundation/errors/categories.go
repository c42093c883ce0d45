package errors

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryFile covers a missing, unreadable or non-regular input file.
	CategoryFile      ErrorCategory = "file"
	CategoryDirectory ErrorCategory = "directory"
	CategoryConfig    ErrorCategory = "config"

	// CategoryParse marks a document that could not be parsed.
	CategoryParse  ErrorCategory = "parse"
	CategoryWrite  ErrorCategory = "write"
	CategoryLookup ErrorCategory = "lookup"

	// CategoryFileSystem represents output stream and other I/O failures.
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution completely
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}
