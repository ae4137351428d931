package board

import "errors"

// ErrHistoryBusy is returned when an undo or redo is invoked while a previous
// one is still restoring state. The restore plus surface rebuild is not atomic
// against a second invocation, so overlap is rejected outright.
var ErrHistoryBusy = errors.New("undo/redo already in progress")

// History is the undo/redo snapshot stack. It always holds at least one
// snapshot (the empty canvas) and a step cursor pointing at the snapshot that
// matches the live drawable set.
//
// The per-point update stream during a gesture is lossy in the sense that only
// the latest value matters, so undo/redo never transmits diffs; callers
// broadcast the full restored drawable set instead.
type History struct {
	snaps []Snapshot
	step  int
	busy  bool
}

func NewHistory() *History {
	return &History{snaps: []Snapshot{{Step: 0}}}
}

// Step returns the current cursor position.
func (h *History) Step() int { return h.step }

// Depth returns the number of snapshots on the stack.
func (h *History) Depth() int { return len(h.snaps) }

// Commit records a newly completed action: snapshots beyond the cursor are
// truncated, the new snapshot is appended, and the cursor advances by one.
func (h *History) Commit(snap Snapshot) {
	h.snaps = h.snaps[:h.step+1]
	h.step++
	snap.Step = h.step
	h.snaps = append(h.snaps, snap)
}

// Undo steps the cursor back and hands the restored snapshot to apply, which
// runs inside the busy window. A cursor at zero is a silent no-op.
func (h *History) Undo(apply func(Snapshot)) error {
	if h.busy {
		return ErrHistoryBusy
	}
	if h.step == 0 {
		return nil
	}
	h.busy = true
	defer func() { h.busy = false }()
	h.step--
	apply(h.snaps[h.step].Clone())
	return nil
}

// Redo is symmetric to Undo.
func (h *History) Redo(apply func(Snapshot)) error {
	if h.busy {
		return ErrHistoryBusy
	}
	if h.step >= len(h.snaps)-1 {
		return nil
	}
	h.busy = true
	defer func() { h.busy = false }()
	h.step++
	apply(h.snaps[h.step].Clone())
	return nil
}

// Current returns a copy of the snapshot at the cursor.
func (h *History) Current() Snapshot {
	return h.snaps[h.step].Clone()
}

// Snapshots returns a deep copy of the whole stack, for authoritative resync
// messages.
func (h *History) Snapshots() []Snapshot {
	out := make([]Snapshot, len(h.snaps))
	for i, s := range h.snaps {
		out[i] = s.Clone()
	}
	return out
}

// Restore adopts a remote peer's stack and cursor verbatim. An empty stack
// resets to the initial state; an out-of-range step is clamped.
func (h *History) Restore(snaps []Snapshot, step int) {
	if len(snaps) == 0 {
		snaps = []Snapshot{{Step: 0}}
	}
	h.snaps = make([]Snapshot, len(snaps))
	for i, s := range snaps {
		h.snaps[i] = s.Clone()
	}
	if step < 0 {
		step = 0
	}
	if step > len(h.snaps)-1 {
		step = len(h.snaps) - 1
	}
	h.step = step
}

// Reset discards all history, leaving the empty initial snapshot. Used on
// background transitions so undo cannot resurrect geometry expressed in an
// obsolete canvas space.
func (h *History) Reset() {
	h.snaps = []Snapshot{{Step: 0}}
	h.step = 0
}
