package harness

import (
	"os"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/glimmerlab/browserbox-ctl/internal/logging"
)

// writeArtifact saves a failure diagnostic under the artifacts directory.
// Best-effort: artifact errors are logged, never escalated.
func (h *Harness) writeArtifact(name, content string) {
	dir := h.cfg.ArtifactsDir
	if dir == "" || content == "" {
		return
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		logging.Warn("failed to create artifacts directory", "dir", dir, "error", err)
		return
	}

	path, err := securejoin.SecureJoin(dir, name+".txt")
	if err != nil {
		logging.Warn("failed to resolve artifact path", "name", name, "error", err)
		return
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		logging.Warn("failed to write artifact", "path", path, "error", err)
		return
	}

	logging.Debug("wrote artifact", "path", path)
}
