package torrent

import (
	"fmt"
	"os"
	"path/filepath"
)

// Link materializes the match on disk: parent directories are created as
// needed, then the destination is linked to the found file, hard by default
// or symbolic when requested. The found file's bytes are never copied.
func (m *Match) Link(symlink bool) error {
	if err := os.MkdirAll(filepath.Dir(m.WantPath), 0755); err != nil {
		return fmt.Errorf("could not create directory for %q: %w", m.WantPath, err)
	}

	if symlink {
		if err := os.Symlink(m.IsPath, m.WantPath); err != nil {
			return fmt.Errorf("could not create symlink %q: %w", m.WantPath, err)
		}
		return nil
	}

	if err := os.Link(m.IsPath, m.WantPath); err != nil {
		return fmt.Errorf("could not create hard link %q: %w", m.WantPath, err)
	}
	return nil
}
