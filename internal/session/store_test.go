package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/toorogadgets/toorogadgets-storefront-service/internal/errs"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), logging.New("session-test"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestStore_PutAndGet(t *testing.T) {
	store := newTestStore(t)

	in := models.CustomerSession{
		CustomerID: "cust_123",
		Name:       "Amina K",
		Phone:      "+256701234567",
		Location:   "Fort Portal",
	}
	if err := store.Put("sess_1", KeyCustomer, in); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	var out models.CustomerSession
	if err := store.Get("sess_1", KeyCustomer, &out); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if out != in {
		t.Errorf("Get() = %+v, want %+v", out, in)
	}
}

func TestStore_GetMissingKey(t *testing.T) {
	store := newTestStore(t)

	var out models.CustomerSession
	err := store.Get("sess_1", KeyCustomer, &out)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStore_CorruptEntryReadsAsAbsent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, logging.New("session-test"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	path := filepath.Join(dir, "sess_1", KeyCustomer+".json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out models.CustomerSession
	err = store.Get("sess_1", KeyCustomer, &out)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Get() on corrupt entry = %v, want ErrNotFound", err)
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	store := newTestStore(t)

	customer := models.CustomerSession{CustomerID: "cust_123", Name: "Amina K"}
	chat := models.ChatIdentity{CustomerID: "cust_123", ConversationID: "conv_9"}

	if err := store.Put("sess_1", KeyCustomer, customer); err != nil {
		t.Fatal(err)
	}
	if err := store.Put("sess_1", KeyChatIdentity, chat); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete("sess_1", KeyCustomer); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var out models.ChatIdentity
	if err := store.Get("sess_1", KeyChatIdentity, &out); err != nil {
		t.Errorf("Chat identity lost after deleting customer key: %v", err)
	}
}

func TestStore_DeleteMissingKey(t *testing.T) {
	store := newTestStore(t)

	if err := store.Delete("sess_1", KeyCustomer); err != nil {
		t.Errorf("Delete() on absent key = %v, want nil", err)
	}
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store := newTestStore(t)

	if err := store.Put("sess_1", KeyCustomer, models.CustomerSession{Name: "First"}); err != nil {
		t.Fatal(err)
	}

	var out models.CustomerSession
	err := store.Get("sess_2", KeyCustomer, &out)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Get() from other session = %v, want ErrNotFound", err)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Path separator", "a/b"},
		{"Parent traversal", "../../etc"},
		{"Empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitize(tt.input)
			if got == "" {
				t.Error("sanitize() returned empty string")
			}
			if filepath.IsAbs(got) || got != filepath.Base(got) {
				t.Errorf("sanitize(%q) = %q escapes the store directory", tt.input, got)
			}
		})
	}
}
