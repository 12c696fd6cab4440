// database/snapshot_store.go
package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gewnthar/arrivals/models"
)

var (
	// ErrStoreUnavailable means the snapshot document is missing or unreadable.
	ErrStoreUnavailable = errors.New("snapshot store unavailable")
	// ErrDuplicateRunKey means a run with the same capture key is already stored.
	// Two runs started within the same second collide; callers must not retry
	// with the same key.
	ErrDuplicateRunKey = errors.New("duplicate run key")
)

// LoadStore reads the snapshot document at path. A missing file is an error:
// stores are only ever created by InitStore. An empty file, "{}" or "null"
// all read as an empty store.
func LoadStore(path string) (models.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrStoreUnavailable, path)
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrStoreUnavailable, path, err)
	}

	store := models.Store{}
	if len(bytes.TrimSpace(data)) == 0 {
		return store, nil
	}
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrStoreUnavailable, path, err)
	}
	if store == nil {
		store = models.Store{}
	}
	for key, snapshot := range store {
		if snapshot == nil {
			store[key] = models.NewSnapshot()
		}
	}

	slog.Debug("loaded snapshot store", "component", "database", "path", path, "runs", len(store))
	return store, nil
}

// AppendRun adds one run to store. Existing runs are never replaced.
func AppendRun(store models.Store, key models.RunKey, snapshot *models.Snapshot) error {
	if store == nil {
		return fmt.Errorf("cannot append run %s to a nil store", key)
	}
	if _, exists := store[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRunKey, key)
	}
	if snapshot == nil {
		snapshot = models.NewSnapshot()
	}
	store[key] = snapshot
	return nil
}

// SaveStore rewrites the document at path with the full store. The new content
// goes to a temporary file in the same directory which is synced and renamed
// over the old document, so a failure at any step leaves the previous version
// in place.
func SaveStore(path string, store models.Store) error {
	if store == nil {
		store = models.Store{}
	}
	data, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot store: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary store file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temporary store file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temporary store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary store file: %w", err)
	}
	if info, err := os.Stat(path); err == nil {
		// keep the permissions of the document being replaced
		if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
			slog.Warn("could not carry store permissions over", "component", "database", "path", path, "mode", info.Mode().Perm(), "err", err)
		}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	committed = true

	slog.Debug("saved snapshot store", "component", "database", "path", path, "runs", len(store), "bytes", len(data))
	return nil
}

// InitStore creates an empty snapshot document. It refuses to touch an
// existing file.
func InitStore(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("store %s already exists", path)
		}
		return fmt.Errorf("failed to create store %s: %w", path, err)
	}
	if _, err := f.WriteString("{}"); err != nil {
		f.Close()
		return fmt.Errorf("failed to write store %s: %w", path, err)
	}
	return f.Close()
}
