package ports

import "go.trai.ch/jarl/internal/core/domain"

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Debug logs a message at debug level.
	Debug(msg string)
	// Info logs a message at info level.
	Info(msg string)
	// Warn logs a message at warn level.
	Warn(msg string)
	// Error logs an error, rendering its cause chain.
	Error(err error)
	// SetLevel adjusts the minimum level that is emitted.
	SetLevel(level domain.LogLevel)
}
