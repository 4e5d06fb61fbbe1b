package relocate

import (
	"bytes"
	"strings"

	"go.trai.ch/jarl/internal/core/domain"
	"go.trai.ch/jarl/internal/core/ports"
)

// logWriter forwards process output to the logger line by line.
type logWriter struct {
	logger ports.Logger
	level  domain.LogLevel
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		line := w.buf[:i]
		w.logLine(line)

		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

// Close flushes any remaining partial line.
func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")

	switch w.level {
	case domain.LogLevelWarn:
		w.logger.Warn(msg)
	default:
		w.logger.Debug(msg)
	}
}
