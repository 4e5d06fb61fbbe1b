package telemetry

import (
	"sync"
	"time"

	"github.com/vito/progrock"
	"go.trai.ch/jarl/internal/core/ports"
)

// ConsoleWriter implements progrock.Writer by rendering vertex lifecycle
// transitions as logger lines. Vertex log streams are not rendered here;
// process output reaches the logger directly.
type ConsoleWriter struct {
	mu      sync.Mutex
	logger  ports.Logger
	started map[string]bool
	done    map[string]bool
}

// NewConsoleWriter creates a ConsoleWriter emitting through the given logger.
func NewConsoleWriter(logger ports.Logger) *ConsoleWriter {
	return &ConsoleWriter{
		logger:  logger,
		started: make(map[string]bool),
		done:    make(map[string]bool),
	}
}

// WriteStatus renders the state transitions carried by the update. Repeated
// snapshots of a vertex render each transition once.
func (w *ConsoleWriter) WriteStatus(update *progrock.StatusUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, v := range update.Vertexes {
		if w.done[v.Id] {
			continue
		}

		if !w.started[v.Id] {
			w.started[v.Id] = true
			w.emit(v, "• "+v.Name)
		}

		if v.Completed == nil {
			continue
		}
		w.done[v.Id] = true

		switch {
		case v.Error != nil:
			w.logger.Warn(v.Name + " failed")
		case v.Cached:
			w.emit(v, "✓ "+v.Name+" (cached)")
		default:
			w.emit(v, "✓ "+v.Name+" ("+elapsed(v)+")")
		}
	}
	return nil
}

// Close implements the progrock writer contract; there is nothing to flush.
func (w *ConsoleWriter) Close() error {
	return nil
}

// emit logs a lifecycle line, demoting housekeeping vertices to debug.
func (w *ConsoleWriter) emit(v *progrock.Vertex, line string) {
	if v.Internal {
		w.logger.Debug(line)
		return
	}
	w.logger.Info(line)
}

func elapsed(v *progrock.Vertex) string {
	if v.Started == nil {
		return "done"
	}
	d := v.Completed.AsTime().Sub(v.Started.AsTime())
	return d.Round(time.Millisecond).String()
}
