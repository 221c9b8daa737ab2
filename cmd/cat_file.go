package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/gogit-odb/internal/objects"
	"github.com/KostasZigo/gogit-odb/utils"
)

var catFileCmd = &cobra.Command{
	Use:   "cat-file (-p | -t | -s | -e) <object>",
	Short: "Provide content, type or size information for a stored object",
	Long: `Read an object from the objects folder by its hash.

  -p  pretty-print the object's content (tree entries are listed one per line)
  -t  print the object's type
  -s  print the object's size in bytes
  -e  exit with zero status if the object exists and is valid, non-zero otherwise

The content is printed only after the whole object has been decompressed and validated.`,
	SilenceUsage: true,
	Args:         exactArgs(1, "(object hash)"),
	PreRunE:      checkCatFileMode,
	RunE:         runCatFile,
}

var (
	prettyFlag bool
	typeOnly   bool
	sizeOnly   bool
	existsOnly bool
)

// errObjectMissing makes cat-file -e exit non-zero without printing anything.
var errObjectMissing = errors.New("object missing")

func init() {
	rootCmd.AddCommand(catFileCmd)

	catFileCmd.Flags().BoolVarP(&prettyFlag, "pretty", "p", false, "Pretty-print the object's content")
	catFileCmd.Flags().BoolVarP(&typeOnly, "type", "t", false, "Show the object's type")
	catFileCmd.Flags().BoolVarP(&sizeOnly, "size", "s", false, "Show the object's size")
	catFileCmd.Flags().BoolVarP(&existsOnly, "exists", "e", false, "Check whether the object exists")
}

// checkCatFileMode requires exactly one of -p, -t, -s, -e.
func checkCatFileMode(cmd *cobra.Command, _ []string) error {
	selected := 0
	for _, flag := range []bool{prettyFlag, typeOnly, sizeOnly, existsOnly} {
		if flag {
			selected++
		}
	}
	if selected != 1 {
		cmd.SilenceUsage = false
		return fmt.Errorf("%s command requires exactly one of -p, -t, -s or -e", cmd.Name())
	}
	return nil
}

func runCatFile(cmd *cobra.Command, args []string) error {
	hash := strings.ToLower(args[0])

	store, _, err := openStore()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	switch {
	case existsOnly:
		if _, err := store.Get(hash); err != nil {
			cmd.SilenceErrors = true
			return errObjectMissing
		}
		return nil

	// Type and size come from a fully validated object, not the bare header
	case typeOnly:
		object, err := store.Get(hash)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, object.Kind)
		return nil

	case sizeOnly:
		object, err := store.Get(hash)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, object.Size())
		return nil

	default:
		object, err := store.Get(hash)
		if err != nil {
			return err
		}
		return prettyPrint(out, object)
	}
}

// prettyPrint writes blobs, commits and tags verbatim and lists tree entries.
func prettyPrint(out io.Writer, object *objects.RawObject) error {
	if object.Kind != objects.KindTree {
		_, err := out.Write(object.Payload)
		return err
	}

	tree, err := objects.ParseTree(object.Payload)
	if err != nil {
		return err
	}
	for _, entry := range tree.Entries() {
		printTreeEntry(out, entry.Name(), entry)
	}
	return nil
}

// printTreeEntry writes "<mode> <type> <hash>\t<path>".
func printTreeEntry(out io.Writer, entryPath string, entry objects.TreeEntry) {
	fmt.Fprintf(out, "%s %s %s\t%s\n", utils.PadMode(string(entry.Mode())), entry.KindOf(), entry.Hash(), entryPath)
}
