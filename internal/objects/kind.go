package objects

import "fmt"

// Kind identifies the type of a stored object.
type Kind uint8

const (
	KindBlob Kind = iota + 1
	KindTree
	KindCommit
	KindTag
)

// kindNames is the single mapping between kinds and their header tokens.
// Adding an object type means adding a row here.
var kindNames = map[Kind]string{
	KindBlob:   "blob",
	KindTree:   "tree",
	KindCommit: "commit",
	KindTag:    "tag",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for kind, name := range kindNames {
		m[name] = kind
	}
	return m
}()

// ParseKind maps a header token such as "blob" to its Kind.
func ParseKind(name string) (Kind, error) {
	kind, ok := kindsByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return kind, nil
}

func (k Kind) IsValid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}
