package objects

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/KostasZigo/gogit-odb/internal/constants"
)

// ObjectStore manages loose objects under a single objects directory.
// Objects live at <root>/<first 2 hex chars>/<remaining 38>.
type ObjectStore struct {
	root   string // objects directory, created by repository bootstrap
	level  int
	logger *slog.Logger
}

// StoreOption configures an ObjectStore.
type StoreOption func(*ObjectStore)

// WithCompressionLevel sets the zlib level used for new objects.
func WithCompressionLevel(level int) StoreOption {
	return func(store *ObjectStore) {
		store.level = level
	}
}

// WithLogger replaces the default slog logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(store *ObjectStore) {
		store.logger = logger
	}
}

func NewObjectStore(root string, opts ...StoreOption) *ObjectStore {
	store := &ObjectStore{
		root:   root,
		level:  DefaultCompressionLevel,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Root returns the objects directory the store reads and writes.
func (store *ObjectStore) Root() string {
	return store.root
}

// ObjectPath returns the fan-out path for hash. The hash is not validated.
func (store *ObjectStore) ObjectPath(hash string) string {
	return filepath.Join(store.root, hash[:constants.HashDirPrefixLength], hash[constants.HashDirPrefixLength:])
}

// Put stores payload as an object of the given kind and returns its hash.
// Returns the hash without writing if the object already exists.
func (store *ObjectStore) Put(kind Kind, payload []byte) (string, error) {
	if !kind.IsValid() {
		return "", &ObjectError{Op: "put", Kind: ErrUnknownKind, Offset: -1, Err: fmt.Errorf("kind %s", kind)}
	}
	if err := store.checkRoot("put"); err != nil {
		return "", err
	}

	hash := HashObject(kind, payload)
	exists, err := store.regularFileExists("put", hash, store.ObjectPath(hash))
	if err != nil {
		return "", err
	}
	if exists {
		store.logger.Debug("Object with this hash already exists",
			"hash", hash)
		return hash, nil
	}

	return store.Write(kind, int64(len(payload)), bytes.NewReader(payload))
}

// Store saves a typed object. Returns nil if the object already exists.
func (store *ObjectStore) Store(object Object) error {
	if _, err := store.Put(object.Kind(), object.Content()); err != nil {
		return err
	}
	return nil
}

// Write streams a payload of known size from r into the store. The object is
// compressed into a temporary file next to the fan-out directories and renamed
// into place, so readers never observe a partially written object.
func (store *ObjectStore) Write(kind Kind, size int64, r io.Reader) (_ string, retErr error) {
	if !kind.IsValid() {
		return "", &ObjectError{Op: "write", Kind: ErrUnknownKind, Offset: -1, Err: fmt.Errorf("kind %s", kind)}
	}
	if size < 0 {
		return "", &ObjectError{Op: "write", Kind: ErrInvalidSize, Offset: -1, Err: fmt.Errorf("negative size %d", size)}
	}
	if err := store.checkRoot("write"); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(store.root, constants.TempObjectPattern)
	if err != nil {
		return "", &ObjectError{Op: "write", Path: store.root, Kind: ErrIO, Offset: -1,
			Err: fmt.Errorf("failed to create temporary object file: %w", err)}
	}
	tmpPath := tmp.Name()

	// The temporary file is only kept when it has been renamed into place
	defer func() {
		if retErr == nil {
			return
		}
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			retErr = multierr.Append(retErr, err)
		}
	}()

	hash, err := writeObjectStream(tmp, kind, size, r, store.level)
	if err == nil {
		err = tmp.Sync()
	}
	if err = multierr.Append(err, tmp.Close()); err != nil {
		return "", withObject(err, "write", hash, tmpPath)
	}

	if err := store.commit(hash, tmpPath); err != nil {
		return "", err
	}
	return hash, nil
}

// writeObjectStream frames, hashes and compresses the payload into w in one pass.
func writeObjectStream(w io.Writer, kind Kind, size int64, r io.Reader, level int) (string, error) {
	compressor, err := NewCompressWriter(w, level)
	if err != nil {
		return "", err
	}

	digest := newDigest()
	out := io.MultiWriter(digest, compressor)

	if _, err := out.Write(EncodeHeader(kind, size)); err != nil {
		return "", newError("write", ErrIO, err)
	}

	n, err := io.Copy(out, io.LimitReader(r, size+1))
	if err != nil {
		return "", newError("write", ErrIO, err)
	}
	if n != size {
		return "", newError("write", ErrSizeMismatch, fmt.Errorf("declared %d bytes, read %d", size, n))
	}

	// Close terminates the zlib stream with its checksum
	if err := compressor.Close(); err != nil {
		return "", newError("write", ErrIO, err)
	}

	return digestHex(digest), nil
}

// commit moves a fully written temporary object to its fan-out path.
func (store *ObjectStore) commit(hash, tmpPath string) error {
	objectFile := store.ObjectPath(hash)
	objectDir := filepath.Dir(objectFile)

	// Create directory if it doesn't exist
	if err := os.MkdirAll(objectDir, constants.DirPerms); err != nil {
		return &ObjectError{Op: "write", Hash: hash, Path: objectDir, Kind: ErrIO, Offset: -1,
			Err: fmt.Errorf("failed to create object directory: %w", err)}
	}

	exists, err := store.regularFileExists("write", hash, objectFile)
	if err != nil {
		return err
	}
	if exists {
		store.logger.Debug("Object with this hash already exists",
			"hash", hash)
		if err := os.Remove(tmpPath); err != nil {
			return &ObjectError{Op: "write", Hash: hash, Path: tmpPath, Kind: ErrIO, Offset: -1, Err: err}
		}
		return nil
	}

	if err := os.Chmod(tmpPath, constants.ObjectFilePerms); err != nil {
		return &ObjectError{Op: "write", Hash: hash, Path: tmpPath, Kind: ErrIO, Offset: -1, Err: err}
	}
	if err := os.Rename(tmpPath, objectFile); err != nil {
		return &ObjectError{Op: "write", Hash: hash, Path: objectFile, Kind: ErrIO, Offset: -1,
			Err: fmt.Errorf("failed to move object into place: %w", err)}
	}

	store.logger.Debug("Stored object",
		"hash", hash,
		"path", objectFile)
	return nil
}

// Get reads, decompresses and validates the object stored under hash.
// No data is returned unless the whole object is well formed.
func (store *ObjectStore) Get(hash string) (*RawObject, error) {
	file, path, err := store.open("get", hash)
	if err != nil {
		return nil, err
	}

	reader := Decompress(file)
	object, err := Decode(reader)
	closeErr := multierr.Combine(reader.Close(), file.Close())
	if err != nil {
		return nil, withObject(err, "get", hash, path)
	}
	if closeErr != nil {
		return nil, withObject(closeErr, "get", hash, path)
	}

	if actual := HashObject(object.Kind, object.Payload); actual != hash {
		return nil, &ObjectError{Op: "get", Hash: hash, Path: path, Kind: ErrCorruptStream, Offset: -1,
			Err: fmt.Errorf("content hashes to %s", actual)}
	}

	return object, nil
}

// Stat returns an object's kind and declared size by decoding only its header.
func (store *ObjectStore) Stat(hash string) (_ Header, retErr error) {
	file, path, err := store.open("stat", hash)
	if err != nil {
		return Header{}, err
	}
	defer multierr.AppendInvoke(&retErr, multierr.Close(file))

	reader := Decompress(file)
	defer multierr.AppendInvoke(&retErr, multierr.Close(reader))

	header, err := ReadHeader(bufio.NewReader(reader))
	if err != nil {
		return Header{}, withObject(err, "stat", hash, path)
	}
	return header, nil
}

// Exists reports whether an object is stored under hash.
func (store *ObjectStore) Exists(hash string) (bool, error) {
	if err := ValidateHash(hash); err != nil {
		return false, err
	}
	if err := store.checkRoot("exists"); err != nil {
		return false, err
	}
	return store.regularFileExists("exists", hash, store.ObjectPath(hash))
}

// ReadBlob reads a blob from storage by hash
func (store *ObjectStore) ReadBlob(hash string) (*Blob, error) {
	object, err := store.getKind(hash, KindBlob)
	if err != nil {
		return nil, err
	}
	return NewBlob(object.Payload), nil
}

// ReadTree reads and parses a tree from storage by hash
func (store *ObjectStore) ReadTree(hash string) (*Tree, error) {
	object, err := store.getKind(hash, KindTree)
	if err != nil {
		return nil, err
	}
	tree, err := ParseTree(object.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tree %s: %w", hash, err)
	}
	return tree, nil
}

func (store *ObjectStore) getKind(hash string, want Kind) (*RawObject, error) {
	object, err := store.Get(hash)
	if err != nil {
		return nil, err
	}
	if object.Kind != want {
		return nil, fmt.Errorf("object %s is a %s, not a %s", hash, object.Kind, want)
	}
	return object, nil
}

func (store *ObjectStore) open(op, hash string) (*os.File, string, error) {
	if err := ValidateHash(hash); err != nil {
		return nil, "", err
	}
	if err := store.checkRoot(op); err != nil {
		return nil, "", err
	}

	path := store.ObjectPath(hash)
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", &ObjectError{Op: op, Hash: hash, Path: path, Kind: ErrNotFound, Offset: -1, Err: err}
	}
	if err != nil {
		return nil, "", &ObjectError{Op: op, Hash: hash, Path: path, Kind: ErrIO, Offset: -1, Err: err}
	}
	return file, path, nil
}

// checkRoot fails with ErrStoreNotInitialized unless the objects directory exists.
func (store *ObjectStore) checkRoot(op string) error {
	info, err := os.Stat(store.root)
	if errors.Is(err, fs.ErrNotExist) {
		return &ObjectError{Op: op, Path: store.root, Kind: ErrStoreNotInitialized, Offset: -1}
	}
	if err != nil {
		return &ObjectError{Op: op, Path: store.root, Kind: ErrIO, Offset: -1, Err: err}
	}
	if !info.IsDir() {
		return &ObjectError{Op: op, Path: store.root, Kind: ErrStoreNotInitialized, Offset: -1,
			Err: errors.New("not a directory")}
	}
	return nil
}

// regularFileExists reports whether path holds an object file.
// Anything other than a regular file at an object path is a collision.
func (store *ObjectStore) regularFileExists(op, hash, path string) (bool, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &ObjectError{Op: op, Hash: hash, Path: path, Kind: ErrIO, Offset: -1, Err: err}
	}
	if !info.Mode().IsRegular() {
		return false, &ObjectError{Op: op, Hash: hash, Path: path, Kind: ErrIO, Offset: -1,
			Err: fmt.Errorf("path collision with non-regular file (%s)", info.Mode().Type())}
	}
	return true, nil
}
