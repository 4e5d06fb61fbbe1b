package loader_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jarl/internal/adapters/loader"
	"go.trai.ch/jarl/internal/core/ports"
)

var _ ports.Loader = (*loader.Argfile)(nil)

func TestArgfile_Load(t *testing.T) {
	root := t.TempDir()
	src := writeArtifact(t, root, "foo-1.0.jar", []byte("jar bytes"))
	argfile := filepath.Join(root, "classpath.txt")

	a := loader.NewArgfile(argfile)
	require.NoError(t, a.Load(src))

	data, err := os.ReadFile(argfile)
	require.NoError(t, err)
	assert.Equal(t, src+"\n", string(data))
}

func TestArgfile_Load_Idempotent(t *testing.T) {
	root := t.TempDir()
	src := writeArtifact(t, root, "foo-1.0.jar", []byte("jar bytes"))
	argfile := filepath.Join(root, "classpath.txt")

	a := loader.NewArgfile(argfile)
	require.NoError(t, a.Load(src))
	require.NoError(t, a.Load(src))

	data, err := os.ReadFile(argfile)
	require.NoError(t, err)
	assert.Equal(t, src+"\n", string(data))
}

func TestArgfile_Load_AppendsInOrder(t *testing.T) {
	root := t.TempDir()
	first := writeArtifact(t, root, "foo-1.0.jar", []byte("a"))
	second := writeArtifact(t, root, "bar-2.0.jar", []byte("b"))
	argfile := filepath.Join(root, "classpath.txt")

	a := loader.NewArgfile(argfile)
	require.NoError(t, a.Load(first))
	require.NoError(t, a.Load(second))

	data, err := os.ReadFile(argfile)
	require.NoError(t, err)
	assert.Equal(t, first+"\n"+second+"\n", string(data))
}

func TestArgfile_Load_PreservesForeignEntries(t *testing.T) {
	root := t.TempDir()
	src := writeArtifact(t, root, "foo-1.0.jar", []byte("jar bytes"))
	argfile := filepath.Join(root, "classpath.txt")

	// A hand-maintained entry without a trailing newline survives the append.
	require.NoError(t, os.WriteFile(argfile, []byte("/opt/host/runtime.jar"), 0o644))

	a := loader.NewArgfile(argfile)
	require.NoError(t, a.Load(src))

	data, err := os.ReadFile(argfile)
	require.NoError(t, err)
	assert.Equal(t, "/opt/host/runtime.jar\n"+src+"\n", string(data))
}

func TestArgfile_Load_CreatesParentDirectory(t *testing.T) {
	root := t.TempDir()
	src := writeArtifact(t, root, "foo-1.0.jar", []byte("jar bytes"))
	argfile := filepath.Join(root, "deep", "nested", "classpath.txt")

	a := loader.NewArgfile(argfile)
	require.NoError(t, a.Load(src))

	assert.FileExists(t, argfile)
}

func TestArgfile_Load_Concurrent(t *testing.T) {
	root := t.TempDir()
	argfile := filepath.Join(root, "classpath.txt")
	a := loader.NewArgfile(argfile)

	paths := make([]string, 8)
	for i := range paths {
		paths[i] = writeArtifact(t, root, "lib-"+strconv.Itoa(i)+".jar", []byte("x"))
	}

	var wg sync.WaitGroup
	for _, p := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = a.Load(p)
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(argfile)
	require.NoError(t, err)
	got := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	assert.ElementsMatch(t, paths, got)
}
