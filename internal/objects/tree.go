package objects

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/KostasZigo/gogit-odb/internal/constants"
)

type FileMode string

const (
	ModeRegularFile FileMode = "100644" // Regular non-executable file
	ModeExecutable  FileMode = "100755" // Executable file
	ModeSymlink     FileMode = "120000" // Symbolic link
	ModeDirectory   FileMode = "40000"  // Directory (tree)
	ModeSubmodule   FileMode = "160000" // Git submodule
)

func (m FileMode) IsValid() bool {
	switch m {
	case ModeRegularFile, ModeExecutable, ModeSymlink, ModeDirectory, ModeSubmodule:
		return true
	default:
		return false
	}
}

// TreeEntry represents a single entry in a tree object
type TreeEntry struct {
	mode FileMode
	name string
	hash string // hex hash of the blob, subtree or commit the entry points at
}

func NewTreeEntry(mode FileMode, name string, hash string) (*TreeEntry, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid file mode: %s", mode)
	}
	if name == "" || strings.ContainsAny(name, "/\x00") {
		return nil, fmt.Errorf("invalid tree entry name: %q", name)
	}
	if err := ValidateHash(hash); err != nil {
		return nil, fmt.Errorf("invalid hash for tree entry %s: %w", name, err)
	}
	return &TreeEntry{
		mode: mode,
		name: name,
		hash: hash,
	}, nil
}

func (e *TreeEntry) Mode() FileMode {
	return e.mode
}

func (e *TreeEntry) Name() string {
	return e.name
}

func (e *TreeEntry) Hash() string {
	return e.hash
}

func (e *TreeEntry) IsDirectory() bool {
	return e.mode == ModeDirectory
}

func (e *TreeEntry) IsExecutable() bool {
	return e.mode == ModeExecutable
}

// KindOf returns the kind of object the entry refers to.
func (e *TreeEntry) KindOf() Kind {
	switch e.mode {
	case ModeDirectory:
		return KindTree
	case ModeSubmodule:
		return KindCommit
	default:
		return KindBlob
	}
}

// Tree represents a Git tree object (directory)
type Tree struct {
	entries []TreeEntry
	hash    string
}

// NewTree creates a tree object from the list of Tree Entries
func NewTree(treeEntries []TreeEntry) (*Tree, error) {
	// GoGit requires entries to be sorted by name in ascending order
	entries := make([]TreeEntry, len(treeEntries))
	copy(entries, treeEntries)

	slices.SortStableFunc(entries, compareTreeEntries)

	for i := 1; i < len(entries); i++ {
		if entries[i].name == entries[i-1].name {
			return nil, fmt.Errorf("duplicate tree entry: %s", entries[i].name)
		}
	}

	return &Tree{
		entries: entries,
		hash:    HashObject(KindTree, buildTreeContent(entries)),
	}, nil
}

// ParseTree decodes a tree payload as read back from the store.
func ParseTree(content []byte) (*Tree, error) {
	var entries []TreeEntry

	rest := content
	for len(rest) > 0 {
		space := bytes.IndexByte(rest, constants.HeaderSeparator)
		if space < 0 {
			return nil, fmt.Errorf("%w: tree entry at offset %d has no mode separator", ErrMalformedHeader, len(content)-len(rest))
		}
		mode := FileMode(rest[:space])
		// some writers zero-pad directory modes
		if mode == "040000" {
			mode = ModeDirectory
		}
		rest = rest[space+1:]

		null := bytes.IndexByte(rest, constants.NullByte)
		if null < 0 {
			return nil, fmt.Errorf("%w: tree entry at offset %d has no name terminator", ErrMalformedHeader, len(content)-len(rest))
		}
		name := string(rest[:null])
		rest = rest[null+1:]

		if len(rest) < constants.HashByteLength {
			return nil, fmt.Errorf("%w: tree entry %s has truncated hash", ErrSizeMismatch, name)
		}
		hash := hex.EncodeToString(rest[:constants.HashByteLength])
		rest = rest[constants.HashByteLength:]

		entry, err := NewTreeEntry(mode, name, hash)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	return &Tree{
		entries: entries,
		hash:    HashObject(KindTree, content),
	}, nil
}

// compareTreeEntries implements Git's tree entry sorting rules:
// - Entries are sorted by name
// - Directory names are treated as if they have a trailing "/" for comparison
// - This ensures correct ordering when directories and files have similar names
func compareTreeEntries(a, b TreeEntry) int {
	return strings.Compare(getSortableName(a), getSortableName(b))
}

// getSortableName returns the name used for sorting.
// For directories, appends "/" to follow Git's sorting convention.
func getSortableName(entry TreeEntry) string {
	if entry.IsDirectory() {
		return entry.Name() + "/"
	}
	return entry.Name()
}

// buildTreeContent creates the raw tree content in GoGit format
// <mode> <name>\0<20-byte binary SHA> , ex:
// 100644 README.md\0[binary SHA for README blob]
// 100644 main.go\0[binary SHA for main.go blob]
// 40000 src\0[binary SHA for src/ tree]
func buildTreeContent(entries []TreeEntry) []byte {
	var buf bytes.Buffer

	for _, entry := range entries {
		buf.WriteString(string(entry.Mode()))
		buf.WriteByte(constants.HeaderSeparator)
		buf.WriteString(entry.Name())
		buf.WriteByte(constants.NullByte)

		// Entry hashes were validated on construction
		hashBytes, _ := hex.DecodeString(entry.Hash())
		buf.Write(hashBytes)
	}

	return buf.Bytes()
}

func (t *Tree) Kind() Kind {
	return KindTree
}

// Hash returns the SHA-1 hash of the tree
func (t *Tree) Hash() string {
	return t.hash
}

// Entries returns all tree entries
func (t *Tree) Entries() []TreeEntry {
	return t.entries
}

// Content returns the raw tree content
func (t *Tree) Content() []byte {
	return buildTreeContent(t.entries)
}

// String returns a human-readable representation
func (t *Tree) String() string {
	return fmt.Sprintf("Tree{hash: %s, entries: %d}", t.hash, len(t.entries))
}

// FindEntry finds an entry by name
func (t *Tree) FindEntry(name string) (*TreeEntry, bool) {
	for _, entry := range t.entries {
		if entry.Name() == name {
			return &entry, true
		}
	}
	return nil, false
}
