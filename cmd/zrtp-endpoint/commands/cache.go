package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"zrtp/internal/cache"
	"zrtp/internal/config"
	"zrtp/internal/domain/interfaces"
	domaintypes "zrtp/internal/domain/types"
)

type listableCache interface {
	interfaces.Cache
	List() (map[string]domaintypes.ZIDRecord, error)
}

// sealableCache is implemented only by cache.FileCache: the SQLite backend
// has no export/import surface, so cache export/import require --backend
// file (the default).
type sealableCache interface {
	ExportSealed(passphrase string) ([]byte, error)
	ImportSealed(passphrase string, blob []byte) error
}

func openCache() (listableCache, string, error) {
	dir, err := resolveHome()
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", err
	}

	if cacheBackend() == config.CacheFile {
		c := cache.NewFileCache()
		path := filepath.Join(dir, "zidcache.json")
		if err := c.Open(path); err != nil {
			return nil, "", err
		}
		return c, path, nil
	}
	c := cache.NewSQLCache()
	path := filepath.Join(dir, "zidcache.sqlite")
	if err := c.Open(path); err != nil {
		return nil, "", err
	}
	return c, path, nil
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the local ZID cache",
	}
	cmd.AddCommand(cacheInitCmd(), cacheListCmd(), cacheExportCmd(), cacheImportCmd())
	return cmd
}

// readPassphrase prompts on stderr without echoing, the way ssh/scp-style
// tools built on golang.org/x/term do.
func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func cacheExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Encrypt the cache under a passphrase for transfer to another host",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := openCache()
			if err != nil {
				return err
			}
			defer c.Close()

			sc, ok := c.(sealableCache)
			if !ok {
				return fmt.Errorf("cache: export requires the file backend")
			}
			pass, err := readPassphrase("export passphrase: ")
			if err != nil {
				return err
			}
			blob, err := sc.ExportSealed(pass)
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Println(string(blob))
				return nil
			}
			return os.WriteFile(out, blob, 0o600)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write the sealed export here instead of stdout")
	return cmd
}

func cacheImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Decrypt a sealed export and merge it into the local cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			c, _, err := openCache()
			if err != nil {
				return err
			}
			defer c.Close()

			sc, ok := c.(sealableCache)
			if !ok {
				return fmt.Errorf("cache: import requires the file backend")
			}
			pass, err := readPassphrase("import passphrase: ")
			if err != nil {
				return err
			}
			if err := sc.ImportSealed(pass, blob); err != nil {
				return err
			}
			fmt.Printf("imported cache from %s\n", args[0])
			return nil
		},
	}
}

func cacheInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the ZID cache if it does not exist and print the local ZID",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, path, err := openCache()
			if err != nil {
				return err
			}
			defer c.Close()
			fmt.Printf("cache: %s\nzid:   %s\n", path, c.OwnZID())
			return nil
		},
	}
}

func cacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every peer ZID record and its retained-secret status",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := openCache()
			if err != nil {
				return err
			}
			defer c.Close()

			records, err := c.List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("(no peer records)")
				return nil
			}
			for zid, rec := range records {
				fmt.Printf("%s  rs1_valid=%-5v mitm=%-5v secure_since=%s\n",
					zid, rec.RS1Valid(), rec.Flags&domaintypes.FlagMITMKeyAvailable != 0,
					formatUnix(rec.SecureSinceUTC))
			}
			return nil
		},
	}
}

func formatUnix(sec int64) string {
	if sec == 0 {
		return "-"
	}
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}
