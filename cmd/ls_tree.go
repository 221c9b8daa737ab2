package cmd

import (
	"bytes"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/gogit-odb/internal/cache"
	"github.com/KostasZigo/gogit-odb/internal/objects"
)

var lsTreeCmd = &cobra.Command{
	Use:   "ls-tree [-r] <tree>",
	Short: "List the contents of a tree object",
	Long: `List the entries of a stored tree as "<mode> <type> <hash>\t<path>".
With -r, subtrees are listed recursively. Trees are read through an in-memory
cache sized by core.cacheSize in .gogit/config.yaml.`,
	SilenceUsage: true,
	Args:         exactArgs(1, "(tree hash)"),
	RunE:         runLsTree,
}

var recursiveFlag bool

func init() {
	rootCmd.AddCommand(lsTreeCmd)

	lsTreeCmd.Flags().BoolVarP(&recursiveFlag, "recursive", "r", false, "Recurse into subtrees")
}

func runLsTree(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}

	cached, err := cache.New(store, cfg.Core.CacheSize)
	if err != nil {
		return err
	}

	// Nothing is printed unless every tree on the walk reads cleanly
	var listing bytes.Buffer
	err = objects.WalkTree(cached, strings.ToLower(args[0]), recursiveFlag, func(entryPath string, entry objects.TreeEntry) error {
		// git ls-tree -r lists leaves only
		if recursiveFlag && entry.IsDirectory() {
			return nil
		}
		printTreeEntry(&listing, entryPath, entry)
		return nil
	})
	if err != nil {
		return err
	}

	_, err = listing.WriteTo(cmd.OutOrStdout())
	return err
}
