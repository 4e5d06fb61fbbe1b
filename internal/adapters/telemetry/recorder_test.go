package telemetry_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jarl/internal/adapters/telemetry"
	"go.trai.ch/jarl/internal/core/domain"
	"go.trai.ch/jarl/internal/core/ports"
)

var (
	_ ports.Telemetry = (*telemetry.Recorder)(nil)
	_ ports.Telemetry = (*telemetry.NoOpTelemetry)(nil)
	_ ports.Vertex    = (*telemetry.Vertex)(nil)
	_ ports.Vertex    = (*telemetry.NoOpVertex)(nil)
)

// recordingLogger captures log lines by level for assertions.
type recordingLogger struct {
	mu     sync.Mutex
	debugs []string
	infos  []string
	warns  []string
}

func (l *recordingLogger) Debug(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugs = append(l.debugs, msg)
}

func (l *recordingLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Warn(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) Error(_ error) {}

func (l *recordingLogger) SetLevel(_ domain.LogLevel) {}

func (l *recordingLogger) infoLines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.infos...)
}

func (l *recordingLogger) warnLines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

func (l *recordingLogger) debugLines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.debugs...)
}

func TestRecorder_Record(t *testing.T) {
	log := &recordingLogger{}
	recorder := telemetry.New(log)

	ctx, vertex := recorder.Record(context.Background(), "com.example:gson:2.10.1")
	require.NotNil(t, vertex)

	attached, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vertex, attached)

	_, err := vertex.Stdout().Write([]byte("downloading\n"))
	require.NoError(t, err)
	vertex.Log(domain.LogLevelDebug, "checksum verified")
	vertex.Complete(nil)

	require.NoError(t, recorder.Close())

	infos := log.infoLines()
	require.Len(t, infos, 2)
	assert.Equal(t, "• com.example:gson:2.10.1", infos[0])
	assert.True(t, strings.HasPrefix(infos[1], "✓ com.example:gson:2.10.1 ("), "got %q", infos[1])
	assert.Empty(t, log.warnLines())
}

func TestRecorder_Record_Cached(t *testing.T) {
	log := &recordingLogger{}
	recorder := telemetry.New(log)

	_, vertex := recorder.Record(context.Background(), "com.example:gson:2.10.1")
	vertex.Cached()
	vertex.Complete(nil)

	require.NoError(t, recorder.Close())

	infos := log.infoLines()
	require.Len(t, infos, 2)
	assert.Equal(t, "✓ com.example:gson:2.10.1 (cached)", infos[1])
}

func TestRecorder_Record_Failed(t *testing.T) {
	log := &recordingLogger{}
	recorder := telemetry.New(log)

	_, vertex := recorder.Record(context.Background(), "com.example:gson:2.10.1")
	vertex.Complete(errors.New("connection refused"))

	require.NoError(t, recorder.Close())

	assert.Equal(t, []string{"• com.example:gson:2.10.1"}, log.infoLines())
	assert.Equal(t, []string{"com.example:gson:2.10.1 failed"}, log.warnLines())
}

func TestRecorder_Record_Internal(t *testing.T) {
	log := &recordingLogger{}
	recorder := telemetry.New(log)

	_, vertex := recorder.Record(context.Background(), "relocation engine", ports.WithInternal())
	vertex.Complete(nil)

	require.NoError(t, recorder.Close())

	assert.Empty(t, log.infoLines(), "housekeeping vertices should not log at info")
	debugs := log.debugLines()
	require.Len(t, debugs, 2)
	assert.Equal(t, "• relocation engine", debugs[0])
}

func TestNoOp(t *testing.T) {
	recorder := telemetry.NewNoOp()

	ctx, vertex := recorder.Record(context.Background(), "anything")
	require.NotNil(t, vertex)

	attached, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vertex, attached)

	_, err := vertex.Stdout().Write([]byte("ignored"))
	require.NoError(t, err)
	_, err = vertex.Stderr().Write([]byte("ignored"))
	require.NoError(t, err)
	vertex.Log(domain.LogLevelInfo, "ignored")
	vertex.Cached()
	vertex.Complete(nil)

	require.NoError(t, recorder.Close())
}
