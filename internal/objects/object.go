package objects

import "fmt"

// Object represents any GoGit object that can be stored.
// Blobs, trees and commits implement it; the store frames, hashes and compresses it.
type Object interface {
	// Kind returns the header token the object is framed with
	Kind() Kind

	// Content returns the payload without the "<kind> <size>\0" header
	Content() []byte

	// Hash returns the SHA-1 identity of the framed object
	Hash() string
}

// RawObject is an object read back from the store: its kind and its validated payload.
type RawObject struct {
	Kind    Kind
	Payload []byte
}

// Size is the payload length in bytes.
func (o *RawObject) Size() int64 {
	return int64(len(o.Payload))
}

// Header returns the framing header the object was stored with.
func (o *RawObject) Header() Header {
	return Header{Kind: o.Kind, Size: o.Size()}
}

func (o *RawObject) String() string {
	return fmt.Sprintf("RawObject{kind: %s, size: %d bytes}", o.Kind, o.Size())
}
