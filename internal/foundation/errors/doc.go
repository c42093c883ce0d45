// Package errors provides foundational, type-safe error primitives shared by the
// filter and the HTML fixer.
//
// Key features:
//   - ErrorCategory: classification (file, directory, parse, write, lookup, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity, and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and stderr diagnostics
//
// Example usage:
//
//	err := errors.FileError("invalid filename").
//		WithContext("file", path).
//		WithCause(statErr).
//		Build()
package errors
