package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// DatabaseSizeBytes returns the on-disk size of the SQLite database,
// including its WAL and shared-memory sidecar files when present.
func DatabaseSizeBytes(dbPath string) (int64, error) {
	if dbPath == "" {
		return 0, fmt.Errorf("database path is empty")
	}
	var total int64
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, fmt.Errorf("stat %s: %w", filepath.Base(p), err)
		}
		total += info.Size()
	}
	return total, nil
}
