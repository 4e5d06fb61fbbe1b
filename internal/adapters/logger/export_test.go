// export_test.go exports private functions for white-box testing.
package logger

// ErrorEntry re-exports errorEntry for error formatting tests.
type ErrorEntry = errorEntry

// Exported error formatting functions for testing.
var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)
