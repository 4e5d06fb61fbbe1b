package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jarl/internal/adapters/logger"
	"go.trai.ch/jarl/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated
// testing. It also sets NO_COLOR=1 to ensure deterministic output without
// ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		goldenName string
	}{
		{
			name:       "simple message",
			msg:        "some message",
			goldenName: "info_basic",
		},
		{
			name:       "empty message",
			msg:        "",
			goldenName: "info_empty",
		},
		{
			name:       "multiline message",
			msg:        "line1\nline2",
			goldenName: "info_multiline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Info(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Warn(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		goldenName string
	}{
		{
			name:       "simple warning",
			msg:        "some warning",
			goldenName: "warn_basic",
		},
		{
			name:       "multiline warning",
			msg:        "warn1\nwarn2",
			goldenName: "warn_multiline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Warn(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Debug("hidden at info")
	assert.Empty(t, buf.String(), "debug should be filtered at the default level")

	lg.SetLevel(domain.LogLevelDebug)
	lg.Debug("cache probe")
	assert.Equal(t, "debug: cache probe\n", buf.String())
	buf.Reset()

	lg.SetLevel(domain.LogLevelError)
	lg.Info("hidden info")
	lg.Warn("hidden warning")
	assert.Empty(t, buf.String(), "info and warn should be filtered at error level")

	lg.Error(errors.New("still visible"))
	assert.Equal(t, "✗ Error: still visible\n", buf.String())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "simple error",
			err:        os.ErrPermission,
			goldenName: "error_simple",
		},
		{
			name:       "multiline error",
			err:        errors.New("yaml: unmarshal errors:\n  line 30: cannot unmarshal"),
			goldenName: "error_multiline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_ZerrChain(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name: "three level chain",
			err: zerr.Wrap(
				zerr.Wrap(
					errors.New("connection refused"),
					"failed to download artifact",
				),
				"failed to resolve libraries",
			),
			goldenName: "error_chain_zerr_three",
		},
		{
			name: "two level chain",
			err: zerr.Wrap(
				errors.New("underlying cause"),
				"wrapped message",
			),
			goldenName: "error_chain_zerr_two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_StdlibChain(t *testing.T) {
	// Standard errors using fmt.Errorf don't support chain traversal.
	innerErr := errors.New("connection refused")
	middleErr := fmt.Errorf("failed to connect to repository: %w", innerErr)
	outerErr := fmt.Errorf("failed to initialize loader: %w", middleErr)

	lg, buf := newTestLogger(t)
	lg.Error(outerErr)

	g := goldie.New(t)
	g.Assert(t, "error_chain_stdlib", buf.Bytes())
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String(), "expected no output for nil error")
}

func TestLogger_SetOutput(t *testing.T) {
	tests := []struct {
		name   string
		writer *bytes.Buffer
	}{
		{
			name:   "valid buffer",
			writer: &bytes.Buffer{},
		},
		{
			name:   "nil writer defaults to stderr",
			writer: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				lg := logger.New().(*logger.Logger)
				lg.SetOutput(tt.writer)
			})
		})
	}
}

func TestLogger_SetOutput_PreservesLevel(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	lg := logger.New().(*logger.Logger)
	lg.SetLevel(domain.LogLevelDebug)

	buf := &bytes.Buffer{}
	lg.SetOutput(buf)

	lg.Debug("survived the swap")
	assert.Equal(t, "debug: survived the swap\n", buf.String())
}

func TestLogger_New(t *testing.T) {
	lg := logger.New()
	require.NotNil(t, lg, "New() should return a non-nil logger")
}

// TestLogger_ConcurrentAccess tests thread-safety of the logger.
func TestLogger_ConcurrentAccess(t *testing.T) {
	lg, _ := newTestLogger(t)

	done := make(chan bool, 6)

	go func() {
		lg.Info("concurrent info")
		done <- true
	}()
	go func() {
		lg.Warn("concurrent warn")
		done <- true
	}()
	go func() {
		lg.Error(errors.New("concurrent error"))
		done <- true
	}()
	go func() {
		lg.SetLevel(domain.LogLevelDebug)
		done <- true
	}()
	go func() {
		lg.Debug("concurrent debug")
		done <- true
	}()
	go func() {
		buf := &bytes.Buffer{}
		lg.SetOutput(buf)
		done <- true
	}()

	for i := 0; i < 6; i++ {
		<-done
	}
}
