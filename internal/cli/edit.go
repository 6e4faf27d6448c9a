package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/circed/circed/pkg/schematic"
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [document.json]",
		Short: "Open a document in the interactive terminal editor",
		Long: `Open a document in the interactive terminal editor.

Without an argument a new empty document is created; on save it goes to the
configured autosave path. Keys:

  arrows / hjkl    move the cursor
  R C L N P G V I  place resistor, capacitor, inductor, NMOS, PMOS,
                   ground, voltage source, current source
  w                start a wire / commit a segment; esc ends the wire
  space            toggle selection of the point under the cursor
  d                select the device under the cursor
  m                grab the selection; arrows drag, enter commits,
                   esc aborts
  t                rotate a grabbed selection
  x                delete selected wiring
  e                label the net under the cursor
  u / ctrl+r       undo / redo
  s                save
  q                quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.Config.Autosave
			if len(args) == 1 {
				path = args[0]
			}
			return c.runEdit(path)
		},
	}

	return cmd
}

func (c *CLI) runEdit(path string) error {
	var doc *schematic.Document
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := schematic.LoadFile(path, c.docConfig())
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
			doc = loaded
		}
	}
	if doc == nil {
		doc = schematic.New(c.docConfig())
	}

	m := newEditorModel(doc, path)
	defer m.close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if em, ok := final.(*editorModel); ok && em.saveErr != nil {
		return em.saveErr
	}
	return nil
}
