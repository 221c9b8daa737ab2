package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KostasZigo/gogit-odb/internal/objects"
	"github.com/KostasZigo/gogit-odb/testutils"
)

// createTestRootCmd creates fresh root command with the given subcommand.
// Flag variables are package level, so they are reset to their defaults first.
func createTestRootCmd(cmd *cobra.Command) *cobra.Command {
	resetCommand(cmd)

	testRootCmd := &cobra.Command{Use: "gogit"}
	testRootCmd.AddCommand(cmd)
	return testRootCmd
}

// resetCommand restores flag defaults and the silence settings commands toggle at run time.
func resetCommand(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = false
}

// captureStdout returns command stdout output as string.
func captureStdout(cmd *cobra.Command) *bytes.Buffer {
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	return &stdout
}

// captureStderr returns command stderr output as string.
func captureStderr(cmd *cobra.Command) *bytes.Buffer {
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	return &stderr
}

// changeToRepoDir changes working directory to repo path and registers cleanup.
func changeToRepoDir(t *testing.T, repoPath string) {
	t.Helper()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	if err := os.Chdir(repoPath); err != nil {
		t.Fatalf("Failed to change to directory %s: %v", repoPath, err)
	}

	t.Cleanup(func() {
		os.Chdir(oldDir)
	})
}

// setupRepoWithObjects creates an initialized repository, changes into it and stores objects.
func setupRepoWithObjects(t *testing.T, objs ...objects.Object) (string, *objects.ObjectStore) {
	t.Helper()

	repoPath := testutils.SetupTestRepoWithInit(t)
	changeToRepoDir(t, repoPath)

	store := objects.NewObjectStore(testutils.ObjectsDir(repoPath))
	for _, obj := range objs {
		if err := store.Store(obj); err != nil {
			t.Fatalf("Failed to store %s: %v", obj.Hash(), err)
		}
	}
	return repoPath, store
}

// executeCommand runs cmd with args under a fresh root and returns stdout, stderr and the error.
func executeCommand(cmd *cobra.Command, args ...string) (string, string, error) {
	testRootCmd := createTestRootCmd(cmd)
	stdout := captureStdout(testRootCmd)
	stderr := captureStderr(testRootCmd)
	testRootCmd.SetArgs(args)

	err := testRootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustTreeEntry creates a tree entry and fails the test on error.
func mustTreeEntry(t *testing.T, mode objects.FileMode, name, hash string) objects.TreeEntry {
	t.Helper()

	entry, err := objects.NewTreeEntry(mode, name, hash)
	if err != nil {
		t.Fatalf("Failed to create tree entry %s: %v", name, err)
	}
	return *entry
}

// mustTree creates a tree and fails the test on error.
func mustTree(t *testing.T, entries ...objects.TreeEntry) *objects.Tree {
	t.Helper()

	tree, err := objects.NewTree(entries)
	if err != nil {
		t.Fatalf("Failed to create tree: %v", err)
	}
	return tree
}

// outputLines splits command output into lines without the trailing newline.
func outputLines(output string) []string {
	trimmed := strings.TrimSuffix(output, "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}
