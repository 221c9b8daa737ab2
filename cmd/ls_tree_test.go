package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/KostasZigo/gogit-odb/internal/constants"
	"github.com/KostasZigo/gogit-odb/internal/objects"
	"github.com/KostasZigo/gogit-odb/testutils"
)

// nestedTree holds README.md, src/main.go and src/pkg/util.go.
type nestedTree struct {
	readme, main, util *objects.Blob
	pkg, src, root     *objects.Tree
}

func newNestedTree(t *testing.T) nestedTree {
	t.Helper()

	var n nestedTree
	n.readme = objects.NewBlob([]byte("# Project\n"))
	n.main = objects.NewBlob([]byte("package main\n"))
	n.util = objects.NewBlob([]byte("package pkg\n"))
	n.pkg = mustTree(t, mustTreeEntry(t, objects.ModeRegularFile, "util.go", n.util.Hash()))
	n.src = mustTree(t,
		mustTreeEntry(t, objects.ModeRegularFile, "main.go", n.main.Hash()),
		mustTreeEntry(t, objects.ModeDirectory, "pkg", n.pkg.Hash()),
	)
	n.root = mustTree(t,
		mustTreeEntry(t, objects.ModeRegularFile, "README.md", n.readme.Hash()),
		mustTreeEntry(t, objects.ModeDirectory, "src", n.src.Hash()),
	)
	return n
}

func (n nestedTree) all() []objects.Object {
	return []objects.Object{n.readme, n.main, n.util, n.pkg, n.src, n.root}
}

// TestLsTreeCommand_TopLevel verifies only direct entries are listed without -r.
func TestLsTreeCommand_TopLevel(t *testing.T) {
	tree := newNestedTree(t)
	setupRepoWithObjects(t, tree.all()...)

	stdout, _, err := executeCommand(lsTreeCmd, constants.LsTreeCmdName, tree.root.Hash())
	if err != nil {
		t.Fatalf("%s command failed: %v", constants.LsTreeCmdName, err)
	}

	expected := []string{
		"100644 blob " + tree.readme.Hash() + "\tREADME.md",
		"040000 tree " + tree.src.Hash() + "\tsrc",
	}
	if diff := cmp.Diff(expected, outputLines(stdout)); diff != "" {
		t.Errorf("Listing mismatch (-want +got):\n%s", diff)
	}
}

// TestLsTreeCommand_Recursive verifies -r lists leaves with full paths.
func TestLsTreeCommand_Recursive(t *testing.T) {
	tree := newNestedTree(t)
	setupRepoWithObjects(t, tree.all()...)

	stdout, _, err := executeCommand(lsTreeCmd, constants.LsTreeCmdName, "-r", tree.root.Hash())
	if err != nil {
		t.Fatalf("%s command failed: %v", constants.LsTreeCmdName, err)
	}

	expected := []string{
		"100644 blob " + tree.readme.Hash() + "\tREADME.md",
		"100644 blob " + tree.main.Hash() + "\tsrc/main.go",
		"100644 blob " + tree.util.Hash() + "\tsrc/pkg/util.go",
	}
	if diff := cmp.Diff(expected, outputLines(stdout)); diff != "" {
		t.Errorf("Listing mismatch (-want +got):\n%s", diff)
	}
}

// TestLsTreeCommand_UppercaseHash verifies the tree hash is lowercased before lookup.
func TestLsTreeCommand_UppercaseHash(t *testing.T) {
	tree := newNestedTree(t)
	setupRepoWithObjects(t, tree.all()...)

	stdout, _, err := executeCommand(lsTreeCmd, constants.LsTreeCmdName, strings.ToUpper(tree.root.Hash()))
	if err != nil {
		t.Fatalf("%s command failed: %v", constants.LsTreeCmdName, err)
	}
	if len(outputLines(stdout)) != 2 {
		t.Errorf("Expected 2 entries, got %q", stdout)
	}
}

// TestLsTreeCommand_MissingSubtree verifies nothing is printed when a subtree cannot be read.
func TestLsTreeCommand_MissingSubtree(t *testing.T) {
	tree := newNestedTree(t)
	// src/pkg is never stored
	setupRepoWithObjects(t, tree.readme, tree.main, tree.src, tree.root)

	stdout, _, err := executeCommand(lsTreeCmd, constants.LsTreeCmdName, "-r", tree.root.Hash())
	if !errors.Is(err, objects.ErrNotFound) {
		t.Fatalf("Expected %v, got: %v", objects.ErrNotFound, err)
	}
	if stdout != "" {
		t.Errorf("Expected no partial listing, got %q", stdout)
	}
}

// TestLsTreeCommand_NotATree verifies a blob hash is rejected.
func TestLsTreeCommand_NotATree(t *testing.T) {
	blob := objects.NewBlob([]byte("just a blob"))
	setupRepoWithObjects(t, blob)

	_, _, err := executeCommand(lsTreeCmd, constants.LsTreeCmdName, blob.Hash())
	if err == nil || !strings.Contains(err.Error(), "not a tree") {
		t.Fatalf("Expected not a tree error, got: %v", err)
	}
}

// TestLsTreeCommand_NoArguments verifies a tree hash is required.
func TestLsTreeCommand_NoArguments(t *testing.T) {
	_, _, err := executeCommand(lsTreeCmd, constants.LsTreeCmdName)
	if err == nil {
		t.Fatal("Expected error when no tree hash is given")
	}

	expected := fmt.Sprintf("%s command requires exactly 1 argument (tree hash), received 0", constants.LsTreeCmdName)
	if !strings.Contains(err.Error(), expected) {
		t.Errorf("Expected error to contain [%s], got [%s]", expected, err.Error())
	}
}

// TestLsTreeCommand_InvalidCacheSize verifies a bad config is reported before walking.
func TestLsTreeCommand_InvalidCacheSize(t *testing.T) {
	tree := newNestedTree(t)
	repoPath, _ := setupRepoWithObjects(t, tree.all()...)
	testutils.CreateTestFile(t, repoPath, filepath.Join(constants.Gogit, constants.ConfigFile), []byte("core:\n  cacheSize: 0\n"))

	_, _, err := executeCommand(lsTreeCmd, constants.LsTreeCmdName, tree.root.Hash())
	if err == nil || !strings.Contains(err.Error(), "cacheSize") {
		t.Fatalf("Expected config error, got: %v", err)
	}
}
