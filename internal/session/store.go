package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/toorogadgets/toorogadgets-storefront-service/internal/errs"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
)

// Well-known keys. KeyCustomer holds the checkout identity, KeyChatIdentity
// the chat identity. They are deliberately separate blobs; clearing one
// never touches the other.
const (
	KeyCustomer     = "tg_customer"
	KeyChatIdentity = "tg_chat_identity"
)

// Store persists small JSON blobs per browsing session, one file per
// session/key pair. A corrupt or missing file reads as absent, never as
// an error the caller has to handle differently.
type Store struct {
	dir    string
	logger *logging.Logger
}

// NewStore creates the backing directory if needed.
func NewStore(dir string, logger *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Get unmarshals the stored blob into v. Returns errs.ErrNotFound when
// the key was never written or the file no longer parses.
func (s *Store) Get(sessionID, key string, v interface{}) error {
	data, err := os.ReadFile(s.path(sessionID, key))
	if err != nil {
		return errs.ErrNotFound
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn("Discarding corrupt session entry", logging.Fields{
			"key":   key,
			"error": err.Error(),
		})
		os.Remove(s.path(sessionID, key))
		return errs.ErrNotFound
	}
	return nil
}

// Put writes the blob, replacing any previous value.
func (s *Store) Put(sessionID, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	path := s.path(sessionID, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Delete removes the key. Deleting an absent key is not an error.
func (s *Store) Delete(sessionID, key string) error {
	err := os.Remove(s.path(sessionID, key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) path(sessionID, key string) string {
	return filepath.Join(s.dir, sanitize(sessionID), sanitize(key)+".json")
}

// sanitize keeps session ids and keys from escaping the store directory.
func sanitize(s string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", string(filepath.Separator), "_")
	out := replacer.Replace(s)
	if out == "" {
		out = "_"
	}
	return out
}
