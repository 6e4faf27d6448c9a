package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/circed/circed/pkg/schematic"
)

// checkCommand creates the connectivity check command.
func (c *CLI) checkCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [document.json]",
		Short: "Report floating nets and unconnected ports",
		Long: `Check a document for connectivity problems.

A net is floating when it touches fewer than two device ports or when a
previous drag could not be rerouted. Floating nets usually mean a wire was
left dangling or a device was never hooked up.

With --strict the command exits non-zero when any problem is found, which
makes it usable as a pre-commit or CI gate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(args[0], strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when problems are found")

	return cmd
}

func (c *CLI) runCheck(input string, strict bool) error {
	doc, err := schematic.LoadFile(input, c.docConfig())
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	nets := doc.Nets()
	floating := doc.FloatingNets()

	model := doc.DrawModel()
	var open []schematic.PortView
	for _, p := range model.Ports {
		if !p.Connected {
			open = append(open, p)
		}
	}

	printStats(len(doc.Devices()), len(nets), false)

	if len(floating) == 0 && len(open) == 0 {
		printSuccess("No connectivity problems")
		return nil
	}

	for _, n := range floating {
		printWarning("net %s is floating (%d ports)", n.Name, n.Ports)
	}
	for _, p := range open {
		printWarning("port %s/%s at (%d,%d) is unconnected", p.Designator, p.Port, p.Pos.X, p.Pos.Y)
	}

	if strict {
		return fmt.Errorf("%d floating nets, %d open ports", len(floating), len(open))
	}
	return nil
}

// docConfig maps the CLI config onto document settings.
func (c *CLI) docConfig() schematic.Config {
	return schematic.Config{
		Bounds:      c.Config.Canvas.Bounds(),
		RouteBudget: c.Config.RouteBudget,
		Logger:      c.Logger,
	}
}
