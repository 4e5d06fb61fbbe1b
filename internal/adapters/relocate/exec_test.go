package relocate_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jarl/internal/adapters/relocate"
	"go.trai.ch/jarl/internal/core/domain"
	"go.trai.ch/jarl/internal/core/ports"
	"go.trai.ch/jarl/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var _ ports.Relocator = (*relocate.Exec)(nil)

// fakeEngine writes an executable shell script standing in for the JVM.
// Scripts receive the real argument layout: -cp <classpath> <main> <in>
// <out> <rules-json>.
func fakeEngine(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-java")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return logger
}

func TestExec_Relocate(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()

	in := filepath.Join(root, "foo-1.0.jar")
	out := filepath.Join(root, "foo-1.0-relocated.jar.tmp")
	rulesOut := filepath.Join(root, "rules.json")
	require.NoError(t, os.WriteFile(in, []byte("original jar"), 0o644))

	bin := fakeEngine(t, fmt.Sprintf("printf '%%s' \"$6\" > %q\ncp \"$4\" \"$5\"\n", rulesOut))
	e := relocate.New(quietLogger(ctrl), []string{"asm.jar"}, relocate.WithJavaBin(bin))

	rules := []domain.Relocation{
		domain.NewRelocation("com.example.http", "shaded.example.http").
			Include("com.example.http.**").
			Exclude("com.example.http.spi.**"),
		domain.NewRelocation("com.example.json", "shaded.example.json"),
	}
	require.NoError(t, e.Relocate(context.Background(), in, out, rules))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte("original jar"), data)

	var got []struct {
		Pattern   string   `json:"pattern"`
		Relocated string   `json:"relocated"`
		Includes  []string `json:"includes"`
		Excludes  []string `json:"excludes"`
	}
	raw, err := os.ReadFile(rulesOut)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &got))

	require.Len(t, got, 2)
	assert.Equal(t, "com.example.http", got[0].Pattern)
	assert.Equal(t, "shaded.example.http", got[0].Relocated)
	assert.Equal(t, []string{"com.example.http.**"}, got[0].Includes)
	assert.Equal(t, []string{"com.example.http.spi.**"}, got[0].Excludes)
	assert.Equal(t, "com.example.json", got[1].Pattern)
	assert.Empty(t, got[1].Includes)
}

func TestExec_Relocate_ClasspathAndMain(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	argsOut := filepath.Join(root, "args.txt")

	bin := fakeEngine(t, fmt.Sprintf("printf '%%s\\n%%s\\n%%s' \"$1\" \"$2\" \"$3\" > %q\n", argsOut))
	e := relocate.New(quietLogger(ctrl),
		[]string{"asm.jar", "asm-commons.jar", "jar-relocator.jar"},
		relocate.WithJavaBin(bin),
		relocate.WithMainClass("com.example.Runner"),
	)

	require.NoError(t, e.Relocate(context.Background(), "in.jar", "out.jar", nil))

	raw, err := os.ReadFile(argsOut)
	require.NoError(t, err)
	lines := strings.Split(string(raw), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "-cp", lines[0])
	wantCP := strings.Join([]string{"asm.jar", "asm-commons.jar", "jar-relocator.jar"}, string(os.PathListSeparator))
	assert.Equal(t, wantCP, lines[1])
	assert.Equal(t, "com.example.Runner", lines[2])
}

func TestExec_Relocate_EngineFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	bin := fakeEngine(t, "echo 'boom' >&2\nexit 3\n")
	e := relocate.New(quietLogger(ctrl), []string{"asm.jar"}, relocate.WithJavaBin(bin))

	err := e.Relocate(context.Background(), "in.jar", "out.jar", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relocation engine failed")
}

func TestExec_Relocate_MissingBinary(t *testing.T) {
	ctrl := gomock.NewController(t)

	e := relocate.New(quietLogger(ctrl), []string{"asm.jar"},
		relocate.WithJavaBin(filepath.Join(t.TempDir(), "no-such-java")))

	err := e.Relocate(context.Background(), "in.jar", "out.jar", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relocation engine failed")
}

func TestExec_Relocate_Cancelled(t *testing.T) {
	ctrl := gomock.NewController(t)

	bin := fakeEngine(t, "sleep 5\n")
	e := relocate.New(quietLogger(ctrl), []string{"asm.jar"}, relocate.WithJavaBin(bin))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := e.Relocate(ctx, "in.jar", "out.jar", nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second, "cancellation must kill the engine")
}

func TestExec_Relocate_StreamsToVertex(t *testing.T) {
	ctrl := gomock.NewController(t)

	bin := fakeEngine(t, "echo 'rewriting com.example'\necho 'minor warning' >&2\n")
	e := relocate.New(quietLogger(ctrl), []string{"asm.jar"}, relocate.WithJavaBin(bin))

	v := &captureVertex{}
	ctx := ports.ContextWithVertex(context.Background(), v)
	require.NoError(t, e.Relocate(ctx, "in.jar", "out.jar", nil))

	assert.Contains(t, v.stdout.String(), "rewriting com.example")
	assert.Contains(t, v.stderr.String(), "minor warning")
}

// captureVertex is a ports.Vertex capturing the streamed output.
type captureVertex struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func (v *captureVertex) Stdout() io.Writer               { return &v.stdout }
func (v *captureVertex) Stderr() io.Writer               { return &v.stderr }
func (v *captureVertex) Log(_ domain.LogLevel, _ string) {}
func (v *captureVertex) Complete(_ error)                {}
func (v *captureVertex) Cached()                         {}
