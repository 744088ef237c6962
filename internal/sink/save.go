package sink

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/cdnkeeper/internal/common"
	"github.com/dmitrijs2005/cdnkeeper/internal/filex"
)

// SaveToDisk writes the artifact into dir under its original name and
// returns the full path. Names that would escape dir are rejected.
func SaveToDisk(dir string, a *Artifact) (string, error) {
	if err := checkName(a.Name); err != nil {
		return "", err
	}

	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(abs, a.Name)
	if err := filex.WriteFileAtomic(path, a.Bytes, 0o600); err != nil {
		return "", fmt.Errorf("save %s: %w", a.Name, err)
	}
	return path, nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", common.ErrInvalidName, name)
	}
	return nil
}
