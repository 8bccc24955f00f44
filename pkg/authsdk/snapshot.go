package authsdk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/northfit/installops/pkg/rbac"
)

// StorageKey names the single blob the session store persists under. The
// key is shared with the web client so both read the same snapshot schema.
const StorageKey = "auth-storage"

// ErrNoSnapshot is returned by SnapshotStore.Get when nothing has been
// persisted under the key yet.
var ErrNoSnapshot = errors.New("authsdk: no snapshot")

// SnapshotStore is an opaque key/value blob store. Implementations only
// need get/set of a single named blob; no transactional guarantees are
// assumed beyond per-key atomicity.
type SnapshotStore interface {
	Get(key string) ([]byte, error)
	Set(key string, blob []byte) error
}

// snapshot is the persisted subset of session state. isLoading and the
// error message are transient and deliberately absent.
type snapshot struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"isAuthenticated"`
}

// mergeSnapshot folds a persisted snapshot into fresh default state. The
// stored role is re-normalized to guard against stale snapshots written by
// a previous schema version; loading never trusts deserialized data
// verbatim.
func mergeSnapshot(snap snapshot) (user *User, isAuthenticated bool) {
	if snap.User != nil {
		user = snap.User.clone()
		user.Role = rbac.Normalize(string(user.Role))
	}
	return user, snap.IsAuthenticated
}

// FileSnapshotStore keeps each blob as a JSON file under a directory. It is
// the desktop/CLI analogue of the browser's local storage.
type FileSnapshotStore struct {
	Dir string
}

// NewFileSnapshotStore creates the directory if needed.
func NewFileSnapshotStore(dir string) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileSnapshotStore{Dir: dir}, nil
}

func (s *FileSnapshotStore) path(key string) string {
	return filepath.Join(s.Dir, key+".json")
}

func (s *FileSnapshotStore) Get(key string) ([]byte, error) {
	blob, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (s *FileSnapshotStore) Set(key string, blob []byte) error {
	// Write-then-rename keeps the blob atomic per key.
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(key))
}
