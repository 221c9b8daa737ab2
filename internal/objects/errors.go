package objects

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by the object database. Callers branch on them with errors.Is.
var (
	// Framer
	ErrMalformedHeader = errors.New("malformed object header")
	ErrInvalidSize     = errors.New("invalid object size")
	ErrUnknownKind     = errors.New("unknown object kind")
	ErrSizeMismatch    = errors.New("object size mismatch")

	// Digest
	ErrInvalidHash = errors.New("invalid object hash")

	// Compressor
	ErrCorruptStream   = errors.New("corrupt compressed stream")
	ErrTruncatedStream = errors.New("truncated compressed stream")

	// Store
	ErrNotFound            = errors.New("object not found")
	ErrIO                  = errors.New("object store i/o failure")
	ErrStoreNotInitialized = errors.New("object store not initialized")
)

// ObjectError records the operation, object and location a failure happened at.
// Kind is one of the Err* values above; Err is the underlying cause, if any.
type ObjectError struct {
	Op     string
	Hash   string
	Path   string
	Offset int64 // byte offset in the decompressed stream, -1 when not applicable
	Kind   error
	Err    error
}

func (e *ObjectError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.Hash != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Hash)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Kind.Error())
	if e.Path != "" {
		fmt.Fprintf(&sb, " (path %s)", e.Path)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&sb, " at offset %d", e.Offset)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap exposes both the error kind and the underlying cause.
func (e *ObjectError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// newError builds an ObjectError without an offset.
func newError(op string, kind, cause error) *ObjectError {
	return &ObjectError{Op: op, Kind: kind, Err: cause, Offset: -1}
}

// withObject fills in hash and path on an ObjectError found in err's chain,
// or wraps err as an ErrIO failure of op.
func withObject(err error, op, hash, path string) error {
	var objErr *ObjectError
	if errors.As(err, &objErr) {
		if objErr.Hash == "" {
			objErr.Hash = hash
		}
		if objErr.Path == "" {
			objErr.Path = path
		}
		return err
	}
	return &ObjectError{Op: op, Hash: hash, Path: path, Offset: -1, Kind: ErrIO, Err: err}
}
