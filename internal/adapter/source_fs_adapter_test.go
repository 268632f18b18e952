package adapter

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "precheck.dev/pkg/precheck/internal/model"
)

func TestLocalSourceFSAdapter_Load(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "script.py"), "if x:\n    pass\n")
	writeTestFile(t, filepath.Join(root, "notes"), "plain")
	mustMkdir(t, filepath.Join(root, "dir"))

	adapter := NewLocalSourceFSAdapter(m.Path(root))
	ctx := context.Background()

	t.Run("appends the kind tag when the name has no extension", func(t *testing.T) {
		file, content, err := adapter.Load(ctx, "script", "py")

		require.NoError(t, err)
		assert.Equal(t, "if x:\n    pass\n", content)
		assert.Equal(t, m.Path(filepath.Join(root, "script.py")), file.Path)
		assert.Equal(t, "script", file.Name)
		assert.Equal(t, "py", file.KindTag)
		assert.Equal(t, fmt.Sprintf("%x", sha256.Sum256([]byte(content))), file.Hash)
	})

	t.Run("keeps an explicit extension", func(t *testing.T) {
		_, content, err := adapter.Load(ctx, "script.py", "py")

		require.NoError(t, err)
		assert.NotEmpty(t, content)
	})

	t.Run("no kind tag reads the name as is", func(t *testing.T) {
		_, content, err := adapter.Load(ctx, "notes", "")

		require.NoError(t, err)
		assert.Equal(t, "plain", content)
	})

	t.Run("absolute names ignore the root", func(t *testing.T) {
		_, content, err := NewLocalSourceFSAdapter("/nonexistent").Load(ctx, filepath.Join(root, "notes"), "")

		require.NoError(t, err)
		assert.Equal(t, "plain", content)
	})

	t.Run("missing file is ErrNotFound", func(t *testing.T) {
		file, _, err := adapter.Load(ctx, "missing", "rb")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)

		var inputErr *InputError
		require.True(t, errors.As(err, &inputErr))
		assert.Equal(t, "missing", inputErr.Name)
		assert.Equal(t, m.Path(filepath.Join(root, "missing.rb")), file.Path)
	})

	t.Run("directory is ErrReadFailure", func(t *testing.T) {
		_, _, err := adapter.Load(ctx, "dir", "")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrReadFailure)
		assert.Contains(t, err.Error(), "is a directory")
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, _, err := adapter.Load(cancelled, "notes", "")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestInputError(t *testing.T) {
	err := &InputError{Name: "a.sh", Reason: "permission denied", Err: ErrReadFailure}
	assert.Equal(t, "a.sh: read failure: permission denied", err.Error())

	err = &InputError{Name: "a.sh", Err: ErrNotFound}
	assert.Equal(t, "a.sh: not found", err.Error())
	assert.ErrorIs(t, fmt.Errorf("load: %w", err), ErrNotFound)
}

func TestLocalSourceFSAdapter_Walk(t *testing.T) {
	t.Run("non recursive skips nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter("")

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "main.sh"), "echo hi\n")

		nestedDir := filepath.Join(root, "nested")
		mustMkdir(t, nestedDir)
		writeTestFile(t, filepath.Join(nestedDir, "child.sh"), "echo child\n")

		var visited []string
		err := adapter.Walk(m.Path(root), false, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		for _, forbidden := range []string{nestedDir, filepath.Join(nestedDir, "child.sh")} {
			if containsPath(visited, forbidden) {
				t.Fatalf("Walk() unexpectedly visited %s when recursive is false", forbidden)
			}
		}

		if !containsPath(visited, filepath.Join(root, "main.sh")) {
			t.Fatalf("Walk() did not visit top-level file")
		}
	})

	t.Run("recursive visits nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter("")

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "main.sh"), "echo hi\n")

		nestedDir := filepath.Join(root, "nested")
		mustMkdir(t, nestedDir)
		child := filepath.Join(nestedDir, "child.sh")
		writeTestFile(t, child, "echo child\n")

		var visited []string
		err := adapter.Walk(m.Path(root), true, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		if !containsPath(visited, child) {
			t.Fatalf("Walk() did not visit nested file when recursive")
		}
	})
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter("")

	root := t.TempDir()

	info, err := adapter.FileInfo(m.Path(root))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = adapter.FileInfo(m.Path(filepath.Join(root, "missing")))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalSourceFSAdapter_PathHelpers(t *testing.T) {
	adapter := NewLocalSourceFSAdapter("/tmp/project")

	base := m.Path("/tmp/project")
	target := m.Path("/tmp/project/sub/dir/file.rb")

	rel, err := adapter.RelPath(base, target)
	if err != nil {
		t.Fatalf("RelPath() error = %v", err)
	}

	if string(rel) != filepath.Join("sub", "dir", "file.rb") {
		t.Fatalf("RelPath() = %s, want %s", rel, filepath.Join("sub", "dir", "file.rb"))
	}

	assert.Equal(t, m.Path(filepath.Join("/tmp/project", "sub", "a.sh")), adapter.Resolve("sub/a.sh"))
	assert.Equal(t, m.Path("/etc/a.sh"), adapter.Resolve("/etc/a.sh"))
	assert.Equal(t, m.Path("a.sh"), NewLocalSourceFSAdapter("").Resolve("a.sh"), "an empty root is the working directory")
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()
	writeTestBytes(t, path, []byte(contents))
}

func writeTestBytes(t *testing.T, path string, contents []byte) {
	t.Helper()
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}

func containsPath(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}

	return false
}
