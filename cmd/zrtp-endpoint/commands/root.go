// Package commands implements the zrtp-endpoint CLI: a cobra surface
// exercising the config.Build/statemachine wiring a real host would use.
package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"zrtp/internal/config"
)

var (
	home    string
	backend string
)

// Execute runs the zrtp-endpoint root command.
func Execute() error {
	root := &cobra.Command{
		Use:   "zrtp-endpoint",
		Short: "Inspect a ZRTP ZID cache and run loopback negotiations",
	}

	root.PersistentFlags().StringVar(&home, "home", "", "cache directory (default ~/.zrtp-endpoint)")
	root.PersistentFlags().StringVar(&backend, "backend", "file", "cache backend: file|sql")

	root.AddCommand(cacheCmd(), simulateCmd())
	return root.Execute()
}

func resolveHome() (string, error) {
	if home != "" {
		return home, nil
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".zrtp-endpoint"), nil
}

func cacheBackend() config.CacheBackend {
	if backend == "sql" {
		return config.CacheSQL
	}
	return config.CacheFile
}
