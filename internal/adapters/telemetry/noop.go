package telemetry

import (
	"context"
	"io"

	"go.trai.ch/jarl/internal/core/domain"
	"go.trai.ch/jarl/internal/core/ports"
)

// NoOpTelemetry is a no-op implementation of ports.Telemetry.
type NoOpTelemetry struct{}

// NewNoOp creates a new NoOpTelemetry.
func NewNoOp() *NoOpTelemetry {
	return &NoOpTelemetry{}
}

// Record attaches a vertex that discards everything.
func (t *NoOpTelemetry) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	vertex := &NoOpVertex{}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close does nothing.
func (t *NoOpTelemetry) Close() error {
	return nil
}

// NoOpVertex is a no-op implementation of ports.Vertex.
type NoOpVertex struct{}

// Stdout returns a writer that discards its input.
func (v *NoOpVertex) Stdout() io.Writer { return io.Discard }

// Stderr returns a writer that discards its input.
func (v *NoOpVertex) Stderr() io.Writer { return io.Discard }

// Log does nothing.
func (v *NoOpVertex) Log(_ domain.LogLevel, _ string) {}

// Complete does nothing.
func (v *NoOpVertex) Complete(_ error) {}

// Cached does nothing.
func (v *NoOpVertex) Cached() {}
