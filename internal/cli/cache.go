package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the export artifact cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached artifacts",
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.runCacheClear()
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := c.cacheRoot()
				if err != nil {
					return err
				}
				fmt.Println(dir)
				return nil
			},
		},
	)
	return cmd
}

func (c *CLI) runCacheClear() error {
	dir, err := c.cacheRoot()
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil
	}

	removed := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		// Unreadable entries are skipped; a partial clear is still a clear.
		if err != nil || path == dir || d.IsDir() {
			return nil
		}
		if os.Remove(path) == nil {
			removed++
		}
		return nil
	})
	if err != nil {
		return err
	}

	// The hash subdirectories are empty now; drop them too.
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && path != dir && d.IsDir() {
			os.Remove(path)
		}
		return nil
	})

	printSuccess("Cleared %d cached entries", removed)
	printDetail("Directory: %s", dir)
	return nil
}

// cacheRoot resolves the active cache directory; the config file may
// override the XDG default.
func (c *CLI) cacheRoot() (string, error) {
	if c.Config.CacheDir != "" {
		return c.Config.CacheDir, nil
	}
	return cacheDir()
}
