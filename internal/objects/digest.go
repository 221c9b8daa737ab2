package objects

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/KostasZigo/gogit-odb/internal/constants"
)

// ComputeHash returns the SHA-1 of already framed object bytes as 40 lowercase hex characters.
func ComputeHash(framed []byte) string {
	sum := sha1.Sum(framed)
	return hex.EncodeToString(sum[:])
}

// HashObject frames payload as the given kind and hashes it.
func HashObject(kind Kind, payload []byte) string {
	return ComputeHash(Encode(kind, payload))
}

// HashReader hashes a payload of known size read from r without buffering it.
// A payload whose length differs from size is rejected.
func HashReader(kind Kind, size int64, r io.Reader) (string, error) {
	h := newDigest()
	h.Write(EncodeHeader(kind, size))

	n, err := io.Copy(h, io.LimitReader(r, size+1))
	if err != nil {
		return "", fmt.Errorf("failed to read payload: %w", err)
	}
	if n != size {
		return "", &ObjectError{Op: "hash", Kind: ErrSizeMismatch, Offset: -1,
			Err: fmt.Errorf("declared %d bytes, read %d", size, n)}
	}

	return digestHex(h), nil
}

// ValidateHash checks that hash is exactly 40 lowercase hexadecimal characters.
func ValidateHash(hash string) error {
	if len(hash) != constants.HashStringLength {
		return &ObjectError{Op: "validate", Hash: hash, Kind: ErrInvalidHash, Offset: -1,
			Err: fmt.Errorf("expected %d characters, got %d", constants.HashStringLength, len(hash))}
	}
	for i := 0; i < len(hash); i++ {
		c := hash[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return &ObjectError{Op: "validate", Hash: hash, Kind: ErrInvalidHash, Offset: -1,
				Err: fmt.Errorf("non-hex character %q at position %d", c, i)}
		}
	}
	return nil
}

func newDigest() hash.Hash {
	return sha1.New()
}

func digestHex(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}
