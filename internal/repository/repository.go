package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/KostasZigo/gogit-odb/internal/config"
	"github.com/KostasZigo/gogit-odb/internal/constants"
)

// InitRepository creates the .gogit metadata directory under path:
// objects/, refs/heads/, refs/tags/, HEAD and config.yaml.
func InitRepository(path string) error {
	// Resolves and adds OS specific separator
	gogitDir := filepath.Join(path, constants.Gogit)

	if err := checkRepositoryDoesNotExist(gogitDir); err != nil {
		return err
	}

	// Anything created before a failure is removed again by the deferred cleanup
	var initSuccess bool
	defer func() {
		if !initSuccess {
			cleanupRepository(gogitDir)
		}
	}()

	directories := []string{
		gogitDir,
		filepath.Join(gogitDir, constants.Objects),
		filepath.Join(gogitDir, constants.Refs),
		filepath.Join(gogitDir, constants.Refs, constants.Heads),
		filepath.Join(gogitDir, constants.Refs, constants.Tags),
	}

	for _, directory := range directories {
		if err := os.MkdirAll(directory, constants.DirPerms); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", directory, err)
		}
	}

	// Create HEAD file pointing to main branch
	headFile := filepath.Join(gogitDir, constants.Head)
	headContent := constants.DefaultRefPrefix + constants.DefaultBranch + "\n"

	if err := os.WriteFile(headFile, []byte(headContent), constants.FilePerms); err != nil {
		return fmt.Errorf("failed to create %s file: %w", constants.Head, err)
	}

	if err := config.Write(ConfigPath(path), config.Default()); err != nil {
		return err
	}

	initSuccess = true
	return nil
}

// ObjectsDir returns the object store root of the repository at repoPath.
func ObjectsDir(repoPath string) string {
	return filepath.Join(repoPath, constants.Gogit, constants.Objects)
}

// ConfigPath returns the settings file of the repository at repoPath.
func ConfigPath(repoPath string) string {
	return filepath.Join(repoPath, constants.Gogit, constants.ConfigFile)
}

// FindRoot locates the repository containing dir by walking up the directory tree.
func FindRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		gogitPath := filepath.Join(dir, constants.Gogit)
		if info, err := os.Stat(gogitPath); err == nil && info.IsDir() {
			return dir, nil
		}

		// Dir returns all but the last element of path
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding .gogit
			return "", fmt.Errorf("%s directory not found", constants.Gogit)
		}
		dir = parent
	}
}

func checkRepositoryDoesNotExist(path string) error {
	_, err := os.Stat(path)

	// If path doesn't exist there is no error
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to check repository path: %w", err)
	}

	return fmt.Errorf("repository already exists at %s", path)
}

// Removes the entire .gogit directory if it exists
func cleanupRepository(gogitDir string) {
	if _, err := os.Stat(gogitDir); err == nil {
		slog.Debug("Cleaning up partial repository initialization",
			"path", gogitDir)

		if err := os.RemoveAll(gogitDir); err != nil {
			slog.Warn("Failed to cleanup repository directory",
				"path", gogitDir,
				"error", err)
		} else {
			slog.Debug("Successfully cleaned up repository directory",
				"path", gogitDir)
		}
	}
}
