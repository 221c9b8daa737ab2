package objects

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KostasZigo/gogit-odb/internal/constants"
	"github.com/KostasZigo/gogit-odb/testutils"
)

// Known Git identities.
const (
	emptyBlobHash  = "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"
	helloBlobHash  = "b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0" // "hello"
	helloWorldHash = "5e1c309dae7f45e0f39b1bf3ac3cd9db12e7d689" // "Hello World"
	emptyTreeHash  = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"
)

// newTestStore returns a store rooted at a fresh .gogit/objects directory.
func newTestStore(t *testing.T, opts ...StoreOption) *ObjectStore {
	t.Helper()

	repoPath := testutils.SetupTestRepoWithGogitDir(t)
	return NewObjectStore(testutils.ObjectsDir(repoPath), opts...)
}

// putObject stores payload and fails the test on error.
func putObject(t *testing.T, store *ObjectStore, kind Kind, payload []byte) string {
	t.Helper()

	hash, err := store.Put(kind, payload)
	if err != nil {
		t.Fatalf("Failed to put %s object: %v", kind, err)
	}
	return hash
}

// readObjectFile returns the raw compressed bytes stored for hash.
func readObjectFile(t *testing.T, store *ObjectStore, hash string) []byte {
	t.Helper()

	data, err := os.ReadFile(store.ObjectPath(hash))
	if err != nil {
		t.Fatalf("Failed to read object file for %s: %v", hash, err)
	}
	return data
}

// overwriteObjectFile replaces the stored bytes for hash. Object files are read-only.
func overwriteObjectFile(t *testing.T, store *ObjectStore, hash string, data []byte) {
	t.Helper()

	path := store.ObjectPath(hash)
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPerms); err != nil {
		t.Fatalf("Failed to create fan-out directory: %v", err)
	}
	if err := os.Chmod(path, constants.FilePerms); err != nil && !os.IsNotExist(err) {
		t.Fatalf("Failed to make object writable: %v", err)
	}
	if err := os.WriteFile(path, data, constants.FilePerms); err != nil {
		t.Fatalf("Failed to write object file: %v", err)
	}
}

// assertBlobHash verifies blob hash matches expected value for given content.
func assertBlobHash(t *testing.T, blob *Blob, content []byte) {
	t.Helper()

	expectedHash := HashObject(KindBlob, content)
	if blob.Hash() != expectedHash {
		t.Fatalf("Expected hash [%s], got [%s]", expectedHash, blob.Hash())
	}
}

// assertBlobContent verifies blob stores exact content and correct size.
func assertBlobContent(t *testing.T, blob *Blob, expectedContent []byte) {
	t.Helper()

	if blob.Size() != len(expectedContent) {
		t.Fatalf("Expected size %d, got %d", len(expectedContent), blob.Size())
	}

	if string(blob.Content()) != string(expectedContent) {
		t.Fatalf("Expected content [%q], got [%q]", expectedContent, blob.Content())
	}
}

// createTreeEntry creates tree entry and fails test on error.
func createTreeEntry(t *testing.T, mode FileMode, name, hash string) TreeEntry {
	t.Helper()

	entry, err := NewTreeEntry(mode, name, hash)
	if err != nil {
		t.Fatalf("Failed to create tree entry: %v", err)
	}

	return *entry
}

// createTree creates tree from entries and fails test on error.
func createTree(t *testing.T, entries []TreeEntry) *Tree {
	t.Helper()

	tree, err := NewTree(entries)
	if err != nil {
		t.Fatalf("Failed to create tree: %v", err)
	}

	return tree
}

// createAndStoreTree creates tree from entries, stores it, and returns tree.
func createAndStoreTree(t *testing.T, store *ObjectStore, entries []TreeEntry) *Tree {
	t.Helper()

	tree := createTree(t, entries)
	if err := store.Store(tree); err != nil {
		t.Fatalf("Failed to store tree: %v", err)
	}

	return tree
}

// assertTreeEntryEqual verifies two tree entries match.
func assertTreeEntryEqual(t *testing.T, actual, expected TreeEntry) {
	t.Helper()

	if actual.Name() != expected.Name() {
		t.Errorf("Entry name mismatch: expected %s, got %s", expected.Name(), actual.Name())
	}
	if actual.Hash() != expected.Hash() {
		t.Errorf("Entry hash mismatch: expected %s, got %s", expected.Hash(), actual.Hash())
	}
	if actual.Mode() != expected.Mode() {
		t.Errorf("Entry mode mismatch: expected %s, got %s", expected.Mode(), actual.Mode())
	}
}

// createTestAuthor returns test author with UTC timezone.
func createTestAuthor(name, email string) Author {
	return Author{
		Name:      name,
		Email:     email,
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
}

// createAndStoreCommit creates commit, stores it, and returns commit.
func createAndStoreCommit(t *testing.T, parentHash string, store *ObjectStore) *Commit {
	t.Helper()

	author := createTestAuthor(testutils.RandomString(10), testutils.RandomString(20))
	commit, err := NewCommit(testutils.RandomHash(), parentHash, testutils.RandomString(50), author)
	if err != nil {
		t.Fatalf("Failed to create commit: %v", err)
	}

	if err := store.Store(commit); err != nil {
		t.Fatalf("Failed to store commit: %v", err)
	}

	return commit
}
