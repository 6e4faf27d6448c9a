package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/circed/circed/pkg/cache"
	cerrors "github.com/circed/circed/pkg/errors"
	"github.com/circed/circed/pkg/render"
	"github.com/circed/circed/pkg/render/netlink"
	"github.com/circed/circed/pkg/schematic"
)

// Supported export formats.
const (
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
	formatDOT = "dot"
)

// artifactTTL is how long rendered artifacts stay cached.
const artifactTTL = 30 * 24 * time.Hour

// exportCommand creates the artifact export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format  string
		output  string
		view    string
		labels  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "export [document.json]",
		Short: "Render a document to SVG, PDF, PNG, or DOT",
		Long: `Render a document to a visual artifact.

Two views are available:

  schematic   the drawn circuit: device glyphs, wires, ports (default)
  nets        the electrical structure as a Graphviz diagram

Artifacts are cached by document content and export options, so repeated
exports of an unchanged document are instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatSVG, formatPDF, formatPNG, formatDOT:
			default:
				return cerrors.New(cerrors.ErrCodeInvalidFormat, "unknown format %q (want svg, pdf, png, or dot)", format)
			}
			switch view {
			case "schematic", "nets":
			default:
				return cerrors.New(cerrors.ErrCodeInvalidFormat, "unknown view %q (want schematic or nets)", view)
			}
			return c.runExport(cmd.Context(), args[0], exportParams{
				format:  format,
				output:  output,
				view:    view,
				labels:  labels,
				noCache: noCache,
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg, pdf, png, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with new extension)")
	cmd.Flags().StringVar(&view, "view", "schematic", "view: schematic, nets")
	cmd.Flags().BoolVar(&labels, "labels", false, "draw net names on wires")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

type exportParams struct {
	format  string
	output  string
	view    string
	labels  bool
	noCache bool
}

func (c *CLI) runExport(ctx context.Context, input string, p exportParams) error {
	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	store, err := c.newCache(p.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	key := cache.NewDefaultKeyer().ExportKey(cache.Hash(raw), cache.ExportKeyOpts{
		Format: p.format,
		Layout: p.view,
		Labels: p.labels,
	})

	artifact, hit, err := store.Get(ctx, key)
	if err != nil || !hit {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", p.view))
		spinner.Start()

		artifact, err = c.renderArtifact(ctx, input, p)
		if err != nil {
			spinner.StopWithError("Export failed")
			return fmt.Errorf("export: %w", err)
		}
		spinner.Stop()
		_ = store.Set(ctx, key, artifact, artifactTTL)
	}

	out := p.output
	if out == "" {
		out = strings.TrimSuffix(input, filepath.Ext(input)) + "." + p.format
	}
	if err := os.WriteFile(out, artifact, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Exported %s view", p.view)
	printFile(out)
	printStats(0, 0, hit)
	return nil
}

// renderArtifact produces the requested bytes without touching the cache.
func (c *CLI) renderArtifact(ctx context.Context, input string, p exportParams) ([]byte, error) {
	doc, err := schematic.LoadFile(input, c.docConfig())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", input, err)
	}
	model := doc.DrawModel()

	if p.view == "nets" {
		dot := netlink.ToDOT(model, netlink.Options{Detailed: p.labels})
		if p.format == formatDOT {
			return []byte(dot), nil
		}
		svg, err := netlink.RenderSVG(ctx, dot)
		if err != nil {
			return nil, err
		}
		return convertSVG(svg, p.format)
	}

	if p.format == formatDOT {
		return nil, cerrors.New(cerrors.ErrCodeInvalidFormat, "dot output requires --view nets")
	}
	var opts []render.SVGOption
	if p.labels {
		opts = append(opts, render.WithNetLabels())
	}
	return convertSVG(render.SVG(model, opts...), p.format)
}

func convertSVG(svg []byte, format string) ([]byte, error) {
	switch format {
	case formatPDF:
		return render.ToPDF(svg)
	case formatPNG:
		return render.ToPNG(svg, 2.0)
	default:
		return svg, nil
	}
}
