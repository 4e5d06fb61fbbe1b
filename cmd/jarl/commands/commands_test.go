package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jarl/cmd/jarl/commands"
	"go.trai.ch/jarl/internal/app"
	"go.trai.ch/jarl/internal/build"
	"go.trai.ch/jarl/internal/core/domain"
)

type mockApp struct {
	fetchFunc func(ctx context.Context, names []string, opts app.FetchOptions) error
	syncFunc  func(ctx context.Context, names []string, opts app.SyncOptions) error
	cleanFunc func(ctx context.Context) error

	manifestPath string
	dataDir      string
	level        *domain.LogLevel
	plain        bool
}

func (m *mockApp) Fetch(ctx context.Context, names []string, opts app.FetchOptions) error {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, names, opts)
	}
	return nil
}

func (m *mockApp) Sync(ctx context.Context, names []string, opts app.SyncOptions) error {
	if m.syncFunc != nil {
		return m.syncFunc(ctx, names, opts)
	}
	return nil
}

func (m *mockApp) Clean(ctx context.Context) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx)
	}
	return nil
}

func (m *mockApp) SetManifestPath(path string) { m.manifestPath = path }
func (m *mockApp) SetDataDir(dir string)       { m.dataDir = dir }
func (m *mockApp) SetPlain()                   { m.plain = true }

func (m *mockApp) SetLogLevel(level domain.LogLevel) {
	m.level = &level
}

func TestCommands_Sync(t *testing.T) {
	t.Run("wires names and jobs", func(t *testing.T) {
		var capturedNames []string
		var capturedOpts app.SyncOptions

		mock := &mockApp{
			syncFunc: func(_ context.Context, names []string, opts app.SyncOptions) error {
				capturedNames = names
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"sync", "gson", "slf4j-api", "--jobs", "4"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, []string{"gson", "slf4j-api"}, capturedNames)
		assert.Equal(t, 4, capturedOpts.Jobs)
	})

	t.Run("no names syncs everything", func(t *testing.T) {
		var capturedNames []string
		called := false

		mock := &mockApp{
			syncFunc: func(_ context.Context, names []string, _ app.SyncOptions) error {
				capturedNames = names
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"sync"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, called)
		assert.Empty(t, capturedNames)
	})

	t.Run("returns error on sync failure", func(t *testing.T) {
		mock := &mockApp{
			syncFunc: func(_ context.Context, _ []string, _ app.SyncOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"sync"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Fetch(t *testing.T) {
	var capturedNames []string
	var capturedOpts app.FetchOptions

	mock := &mockApp{
		fetchFunc: func(_ context.Context, names []string, opts app.FetchOptions) error {
			capturedNames = names
			capturedOpts = opts
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"fetch", "gson", "-j", "2"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, []string{"gson"}, capturedNames)
	assert.Equal(t, 2, capturedOpts.Jobs)
}

func TestCommands_Clean(t *testing.T) {
	called := false
	mock := &mockApp{
		cleanFunc: func(_ context.Context) error {
			called = true
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"clean"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, called)
}

func TestCommands_GlobalFlags(t *testing.T) {
	t.Run("forwards overrides", func(t *testing.T) {
		mock := &mockApp{}
		cli := commands.New(mock)
		cli.SetArgs([]string{
			"--manifest", "/etc/jarl/jarl.yaml",
			"--data-dir", "/var/cache/jarl",
			"--plain",
			"sync",
		})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "/etc/jarl/jarl.yaml", mock.manifestPath)
		assert.Equal(t, "/var/cache/jarl", mock.dataDir)
		assert.True(t, mock.plain)
		assert.Nil(t, mock.level)
	})

	t.Run("verbose sets debug", func(t *testing.T) {
		mock := &mockApp{}
		cli := commands.New(mock)
		cli.SetArgs([]string{"--verbose", "fetch"})

		require.NoError(t, cli.Execute(context.Background()))
		require.NotNil(t, mock.level)
		assert.Equal(t, domain.LogLevelDebug, *mock.level)
	})

	t.Run("quiet sets warn", func(t *testing.T) {
		mock := &mockApp{}
		cli := commands.New(mock)
		cli.SetArgs([]string{"--quiet", "fetch"})

		require.NoError(t, cli.Execute(context.Background()))
		require.NotNil(t, mock.level)
		assert.Equal(t, domain.LogLevelWarn, *mock.level)
	})

	t.Run("verbose wins over quiet", func(t *testing.T) {
		mock := &mockApp{}
		cli := commands.New(mock)
		cli.SetArgs([]string{"--verbose", "--quiet", "fetch"})

		require.NoError(t, cli.Execute(context.Background()))
		require.NotNil(t, mock.level)
		assert.Equal(t, domain.LogLevelDebug, *mock.level)
	})
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{}
	cli := commands.New(mock)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), build.Version)
}
