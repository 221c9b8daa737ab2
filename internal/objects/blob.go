package objects

import (
	"fmt"
	"os"
)

type Blob struct {
	content []byte
	hash    string
}

func NewBlob(content []byte) *Blob {
	return &Blob{
		content: content,
		hash:    HashObject(KindBlob, content),
	}
}

func NewBlobFromFile(filepath string) (*Blob, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filepath, err)
	}
	return NewBlob(content), nil
}

func (b *Blob) Kind() Kind {
	return KindBlob
}

func (b *Blob) Hash() string {
	return b.hash
}

func (b *Blob) Content() []byte {
	return b.content
}

func (b *Blob) Size() int {
	return len(b.content)
}

func (b *Blob) String() string {
	return fmt.Sprintf("Blob{hash: %s, size: %d bytes}", b.hash, b.Size())
}
