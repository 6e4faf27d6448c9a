package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/circed/circed/pkg/cache"
	"github.com/circed/circed/pkg/schematic"
)

// netlistCommand creates the netlist generation command.
func (c *CLI) netlistCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "netlist [document.json]",
		Short: "Generate a SPICE netlist from a document",
		Long: `Generate a SPICE netlist from a document.

Net names follow the editor's rules: the ground symbol pins its net to "0",
user labels override generated names, everything else gets n1, n2, ... in
a stable order. Without --output the netlist is printed to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNetlist(cmd.Context(), args[0], output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runNetlist(ctx context.Context, input, output string, noCache bool) error {
	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	store, err := c.newCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	key := cache.NewDefaultKeyer().NetlistKey(cache.Hash(raw))

	deck, hit, err := store.Get(ctx, key)
	if err != nil || !hit {
		doc, err := schematic.LoadFile(input, c.docConfig())
		if err != nil {
			return fmt.Errorf("load %s: %w", input, err)
		}
		deck = []byte(doc.Netlist())
		_ = store.Set(ctx, key, deck, 30*24*time.Hour)
	}

	if output == "" {
		fmt.Print(string(deck))
		return nil
	}
	if err := os.WriteFile(output, deck, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Netlist written")
	printFile(output)
	printStats(0, 0, hit)
	return nil
}
