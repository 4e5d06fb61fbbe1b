// Package relocate implements ports.Relocator by driving a JVM-side
// rewriting engine in a child process.
package relocate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/jarl/internal/core/domain"
	"go.trai.ch/jarl/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultJavaBin is the JVM launcher, resolved from PATH.
	DefaultJavaBin = "java"

	// DefaultMainClass is the entry point driving the rewriting engine.
	DefaultMainClass = "me.lucko.jarrelocator.Main"
)

// Exec rewrites jars by running the relocation engine classpath in a
// child JVM. Engine output streams to the logger and, when a telemetry
// vertex is attached to the context, to the vertex as well.
type Exec struct {
	logger    ports.Logger
	jars      []string
	javaBin   string
	mainClass string
}

// Option configures an Exec relocator.
type Option func(*Exec)

// WithJavaBin overrides the JVM launcher binary.
func WithJavaBin(bin string) Option {
	return func(e *Exec) {
		e.javaBin = bin
	}
}

// WithMainClass overrides the engine entry class.
func WithMainClass(class string) Option {
	return func(e *Exec) {
		e.mainClass = class
	}
}

// New creates an Exec relocator over the given engine jars, in classpath
// order.
func New(logger ports.Logger, jars []string, opts ...Option) *Exec {
	e := &Exec{
		logger:    logger,
		jars:      jars,
		javaBin:   DefaultJavaBin,
		mainClass: DefaultMainClass,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Relocate rewrites the jar at in into out, applying the rules. The out
// path must not require missing parent directories; callers hand a cache
// sibling that already exists.
func (e *Exec) Relocate(ctx context.Context, in, out string, rules []domain.Relocation) error {
	rulesJSON, err := json.Marshal(encodeRules(rules))
	if err != nil {
		return zerr.Wrap(err, "failed to encode relocation rules")
	}

	stdoutLog := &logWriter{logger: e.logger, level: domain.LogLevelDebug}
	stderrLog := &logWriter{logger: e.logger, level: domain.LogLevelWarn}
	defer func() {
		_ = stdoutLog.Close()
		_ = stderrLog.Close()
	}()

	var stdout io.Writer = stdoutLog
	var stderr io.Writer = stderrLog
	if v, ok := ports.VertexFromContext(ctx); ok {
		stdout = io.MultiWriter(stdoutLog, v.Stdout())
		stderr = io.MultiWriter(stderrLog, v.Stderr())
	}

	classpath := strings.Join(e.jars, string(os.PathListSeparator))
	//nolint:gosec // Arguments are cache paths and manifest-defined rules.
	cmd := exec.CommandContext(ctx, e.javaBin, "-cp", classpath, e.mainClass, in, out, string(rulesJSON))
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.Wrap(err, "relocation engine failed")
		return zerr.With(wrapped, "exit_code", exitCode)
	}

	return nil
}

// relocationRule is the wire form handed to the engine process.
type relocationRule struct {
	Pattern   string   `json:"pattern"`
	Relocated string   `json:"relocated"`
	Includes  []string `json:"includes,omitempty"`
	Excludes  []string `json:"excludes,omitempty"`
}

func encodeRules(rules []domain.Relocation) []relocationRule {
	encoded := make([]relocationRule, 0, len(rules))
	for _, r := range rules {
		encoded = append(encoded, relocationRule{
			Pattern:   r.Pattern(),
			Relocated: r.Relocated(),
			Includes:  r.Includes(),
			Excludes:  r.Excludes(),
		})
	}
	return encoded
}
