// Package history keeps the undo/redo sequence of scene snapshots.
package history

import (
	"log"

	"DrawableCanvas/internal/scene"
)

// Actions are one-shot requests raised by a history transition. They are
// handed out by TakeActions exactly once.
type Actions struct {
	// ReloadCanvas asks the owner to reload the scene from Current.
	ReloadCanvas bool
	// ForceSync asks the owner to publish Current regardless of realtime mode.
	ForceSync bool
}

// Any reports whether at least one action is set.
func (a Actions) Any() bool {
	return a.ReloadCanvas || a.ForceSync
}

// History is a linear list of snapshots with a cursor on the displayed one.
// Saving after an undo drops everything past the cursor.
type History struct {
	entries []scene.Snapshot
	cursor  int
	initial scene.Snapshot
	pending Actions
}

// New returns a history seeded with initial.
func New(initial scene.Snapshot) *History {
	h := &History{}
	h.Reset(initial)
	return h
}

// Reset discards every entry and starts again from initial.
func (h *History) Reset(initial scene.Snapshot) {
	h.initial = initial.Clone()
	h.entries = []scene.Snapshot{initial.Clone()}
	h.cursor = 0
	h.pending = Actions{}
}

// Save records s as the new current entry. Saving the entry already at the
// cursor is a no-op.
func (h *History) Save(s scene.Snapshot) {
	if s.Equal(h.entries[h.cursor]) {
		return
	}
	h.entries = append(h.entries[:h.cursor+1], s.Clone())
	h.cursor = len(h.entries) - 1
	log.Printf("[HISTORY] saved entry %d of %d", h.cursor, len(h.entries))
}

// Undo steps back one entry. It does nothing at the start of history.
func (h *History) Undo() {
	if !h.CanUndo() {
		return
	}
	h.cursor--
	h.pending.ReloadCanvas = true
}

// Redo steps forward one entry. It does nothing at the end of history.
func (h *History) Redo() {
	if !h.CanRedo() {
		return
	}
	h.cursor++
	h.pending.ReloadCanvas = true
}

// ForceSync requests that Current be published once.
func (h *History) ForceSync() {
	h.pending.ForceSync = true
}

// TakeActions returns the pending actions and clears them.
func (h *History) TakeActions() Actions {
	a := h.pending
	h.pending = Actions{}
	return a
}

// CanUndo reports whether there is an entry before the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether there is an entry after the cursor.
func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Current returns a copy of the entry at the cursor.
func (h *History) Current() scene.Snapshot { return h.entries[h.cursor].Clone() }

// Initial returns a copy of the snapshot history was last reset to.
func (h *History) Initial() scene.Snapshot { return h.initial.Clone() }

// Len is the number of stored entries, the initial one included.
func (h *History) Len() int { return len(h.entries) }

// Cursor is the index of the entry currently shown.
func (h *History) Cursor() int { return h.cursor }
