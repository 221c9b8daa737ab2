package objects

import "path"

// TreeReader reads parsed trees by hash. ObjectStore and cache.Store implement it.
type TreeReader interface {
	ReadTree(hash string) (*Tree, error)
}

// WalkTree calls fn for each entry of the tree stored under hash, in tree order.
// When recursive is set, subtrees are descended into after their own entry is visited.
// Submodule entries are never descended into.
func WalkTree(r TreeReader, hash string, recursive bool, fn func(entryPath string, entry TreeEntry) error) error {
	return walkTree(r, hash, "", recursive, fn)
}

func walkTree(r TreeReader, hash, prefix string, recursive bool, fn func(string, TreeEntry) error) error {
	tree, err := r.ReadTree(hash)
	if err != nil {
		return err
	}

	for _, entry := range tree.Entries() {
		entryPath := path.Join(prefix, entry.Name())
		if err := fn(entryPath, entry); err != nil {
			return err
		}
		if recursive && entry.IsDirectory() {
			if err := walkTree(r, entry.Hash(), entryPath, recursive, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
