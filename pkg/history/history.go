package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/circed/circed/pkg/netgraph"
	"github.com/circed/circed/pkg/observability"
)

var (
	// ErrApply is returned by [History.Push] when a forward diff fails to
	// apply. The partially applied prefix is rolled back before returning,
	// so the graph is left as it was.
	ErrApply = errors.New("command failed to apply")

	// ErrCorrupt is returned by [History.Undo] and [History.Redo] when a
	// recorded diff no longer applies cleanly. This indicates a prior
	// invariant breach (some mutation bypassed the history) and is fatal to
	// the operation; it is never silently absorbed.
	ErrCorrupt = errors.New("history corrupt: recorded diff failed to apply")
)

// History owns the undo and redo stacks for one graph. All graph mutations
// must flow through [History.Push]; nothing else may mutate the graph, or
// the recorded diffs stop matching reality.
//
// History is not safe for concurrent use. The editor calls it from the
// single goroutine that owns the document.
type History struct {
	graph   *netgraph.Graph
	devices DeviceStore
	undo    []Command
	redo    []Command
}

// New creates an empty history bound to g.
func New(g *netgraph.Graph) *History {
	return &History{graph: g}
}

// AttachDevices binds the device store that device ops apply against.
// Documents with placed components call this once at construction.
func (h *History) AttachDevices(devs DeviceStore) {
	h.devices = devs
}

// Push applies cmd's forward diff and appends it to the undo stack,
// discarding any redoable branch. Empty commands are ignored.
//
// If an operation fails mid-command the already applied prefix is rolled
// back in reverse order and the error is returned wrapped in ErrApply;
// the command is not recorded.
func (h *History) Push(cmd Command) error {
	if cmd.Empty() {
		return nil
	}
	for i, op := range cmd.Ops {
		if err := op.apply(h.graph, h.devices); err != nil {
			h.rollback(cmd.Ops[:i])
			return fmt.Errorf("%w: op %d (%s): %v", ErrApply, i, op.Kind, err)
		}
	}
	h.undo = append(h.undo, cmd)
	h.redo = h.redo[:0]
	observability.Editor().OnCommandApplied(context.Background(), cmd.Label, len(cmd.Ops))
	return nil
}

// Undo reverts the most recent command by applying its inverse diff in
// reverse order, then moves it to the redo stack. Returns false if there is
// nothing to undo. A diff that fails to apply returns ErrCorrupt.
func (h *History) Undo() (bool, error) {
	if len(h.undo) == 0 {
		return false, nil
	}
	cmd := h.undo[len(h.undo)-1]
	for i := len(cmd.Ops) - 1; i >= 0; i-- {
		inv := cmd.Ops[i].Inverted()
		if err := inv.apply(h.graph, h.devices); err != nil {
			return false, fmt.Errorf("%w: undo %q op %d (%s): %v", ErrCorrupt, cmd.Label, i, inv.Kind, err)
		}
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, cmd)
	observability.Editor().OnUndo(context.Background(), cmd.Label)
	return true, nil
}

// Redo reapplies the most recently undone command's forward diff and moves
// it back to the undo stack. Returns false if there is nothing to redo.
func (h *History) Redo() (bool, error) {
	if len(h.redo) == 0 {
		return false, nil
	}
	cmd := h.redo[len(h.redo)-1]
	for i, op := range cmd.Ops {
		if err := op.apply(h.graph, h.devices); err != nil {
			return false, fmt.Errorf("%w: redo %q op %d (%s): %v", ErrCorrupt, cmd.Label, i, op.Kind, err)
		}
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, cmd)
	observability.Editor().OnRedo(context.Background(), cmd.Label)
	return true, nil
}

// CanUndo reports whether the undo stack is non-empty.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoLabel returns the label of the command Undo would revert, or "".
func (h *History) UndoLabel() string {
	if len(h.undo) == 0 {
		return ""
	}
	return h.undo[len(h.undo)-1].Label
}

// RedoLabel returns the label of the command Redo would reapply, or "".
func (h *History) RedoLabel() string {
	if len(h.redo) == 0 {
		return ""
	}
	return h.redo[len(h.redo)-1].Label
}

// Depth returns the undo stack depth.
func (h *History) Depth() int { return len(h.undo) }

// rollback undoes an applied op prefix after a mid-command failure.
// A rollback failure means the graph itself broke an invariant; there is
// nothing sensible to do but surface it loudly.
func (h *History) rollback(applied []Op) {
	for i := len(applied) - 1; i >= 0; i-- {
		inv := applied[i].Inverted()
		if err := inv.apply(h.graph, h.devices); err != nil {
			panic(fmt.Sprintf("history: rollback failed at op %d (%s): %v", i, inv.Kind, err))
		}
	}
}
