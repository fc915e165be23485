package media

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// workspace is a per-run staging directory.
type workspace struct {
	dir  string
	keep bool
}

func newWorkspace(root, name string, keep bool) (*workspace, error) {
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, "videomark-"+uuid.New().String(), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	return &workspace{dir: dir, keep: keep}, nil
}

func (w *workspace) path(name string) string {
	return filepath.Join(w.dir, name)
}

// Remove deletes the run directory, including the parent created for it.
func (w *workspace) Remove() error {
	if w.keep {
		return nil
	}
	return os.RemoveAll(filepath.Dir(w.dir))
}
