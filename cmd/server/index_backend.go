package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"voxelprint.ai/internal/persistence/indexdb"
)

func openIndex(dataDir string, disableDB bool) (*indexdb.SQLiteIndex, error) {
	if disableDB {
		return nil, nil
	}
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("VP_INDEX_BACKEND")))
	switch backend {
	case "", "sqlite":
		return indexdb.OpenSQLite(filepath.Join(dataDir, "index", "guesses.sqlite"))
	case "none", "off", "disabled":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported VP_INDEX_BACKEND: %s", backend)
	}
}
