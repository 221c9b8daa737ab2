package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KostasZigo/gogit-odb/internal/config"
	"github.com/KostasZigo/gogit-odb/internal/objects"
	"github.com/KostasZigo/gogit-odb/internal/repository"
)

// rootCmd defines the base command for the gogit CLI.
// All subcommands (init, hash-object, cat-file, ls-tree) register under this root.
// Uses cobra for command parsing, flag handling, and help generation.
var rootCmd = &cobra.Command{
	Use:   "gogit",
	Short: "A content-addressable object database in the Git loose-object format",
	Long: `GoGit stores and retrieves content-addressed objects (blobs, trees, commits, tags)
	in a .gogit/objects directory that is byte-compatible with Git's loose objects.`,
	PersistentPreRun: setupLogging,
}

var verboseFlag bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging on stderr")
}

// Execute runs the root command and handles exit codes.
// Called from main.go to start CLI execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging installs a text slog handler on stderr. The level comes from the
// repository config when one is found, --verbose forces debug.
func setupLogging(cmd *cobra.Command, _ []string) {
	level := slog.LevelWarn
	if repoPath, err := repository.FindRoot("."); err == nil {
		if cfg, err := config.Load(repository.ConfigPath(repoPath)); err == nil {
			if configured, err := cfg.Log.SlogLevel(); err == nil {
				level = configured
			}
		}
	}
	if verboseFlag {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// openStore locates the repository containing the working directory and opens its object store.
func openStore() (*objects.ObjectStore, *config.Config, error) {
	repoPath, err := repository.FindRoot(".")
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(repository.ConfigPath(repoPath))
	if err != nil {
		return nil, nil, err
	}

	store := objects.NewObjectStore(repository.ObjectsDir(repoPath),
		objects.WithCompressionLevel(cfg.Core.Compression))
	return store, cfg, nil
}
