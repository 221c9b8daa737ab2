package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/gogit-odb/internal/objects"
)

var hashObjectCmd = &cobra.Command{
	Use:   "hash-object [-w] [-t <type>] (--stdin | <filepath>)",
	Short: "Compute object hash and optionally store the object",
	Long: `Compute the object hash (SHA-1 hash) of a file's content, framed as an object of the given type.
Optionally write the resulting object into the objects folder.

Examples:
  # Compute hash without storing
  gogit hash-object myfile.txt

  # Compute hash and store in .gogit/objects
  gogit hash-object -w myfile.txt

  # Store standard input as a blob
  echo hello | gogit hash-object -w --stdin`,
	SilenceUsage: true,
	Args:         hashObjectArgs,
	RunE:         runHashObject,
}

var (
	writeFlag bool
	typeFlag  string
	stdinFlag bool
)

func init() {
	rootCmd.AddCommand(hashObjectCmd)

	hashObjectCmd.Flags().BoolVarP(&writeFlag, "write", "w", false, "Write the object into the objects folder")
	hashObjectCmd.Flags().StringVarP(&typeFlag, "type", "t", "blob", "Object type (blob, tree, commit, tag)")
	hashObjectCmd.Flags().BoolVar(&stdinFlag, "stdin", false, "Read the object from standard input instead of a file")
}

// hashObjectArgs requires a file path unless --stdin is given.
func hashObjectArgs(cmd *cobra.Command, args []string) error {
	if stdinFlag {
		return exactArgs(0, "with --stdin")(cmd, args)
	}
	return exactArgs(1, "(filepath)")(cmd, args)
}

// exactArgs validates command receives exactly n positional arguments.
// enables usage printing in case of error
func exactArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			cmd.SilenceUsage = false
			return fmt.Errorf("%s command requires exactly %d argument %s, received %d", cmd.Name(), n, what, len(args))
		}
		return nil
	}
}

// runHashObject computes the hash and optionally stores the object.
func runHashObject(cmd *cobra.Command, args []string) error {
	kind, err := objects.ParseKind(typeFlag)
	if err != nil {
		return fmt.Errorf("invalid object type: %w", err)
	}

	size, payload, closePayload, err := openPayload(cmd, args)
	if err != nil {
		return err
	}
	defer closePayload()

	var hash string
	if writeFlag {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		if hash, err = store.Write(kind, size, payload); err != nil {
			return fmt.Errorf("failed to store object: %w", err)
		}
	} else {
		if hash, err = objects.HashReader(kind, size, payload); err != nil {
			return err
		}
	}

	// Print hash to stdout
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}

// openPayload returns the payload size and a reader over it, from stdin or the file argument.
// Files are streamed; stdin is buffered because its size is not known up front.
func openPayload(cmd *cobra.Command, args []string) (int64, io.Reader, func(), error) {
	if stdinFlag {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return 0, nil, nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return int64(len(data)), bytes.NewReader(data), func() {}, nil
	}

	file, err := os.Open(args[0])
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return 0, nil, nil, fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	if !info.Mode().IsRegular() {
		file.Close()
		return 0, nil, nil, fmt.Errorf("failed to read file %s: not a regular file", args[0])
	}

	return info.Size(), file, func() { file.Close() }, nil
}
