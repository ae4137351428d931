package board

import "log"

// OpAction names the operation a session emits for broadcast.
type OpAction string

const (
	OpDraw       OpAction = "draw"
	OpUpdate     OpAction = "update"
	OpErase      OpAction = "erase"
	OpUndo       OpAction = "undo"
	OpRedo       OpAction = "redo"
	OpState      OpAction = "state"
	OpCursor     OpAction = "cursor"
	OpBackground OpAction = "background"
)

// Op is a local operation ready for broadcast. Exactly one of the payload
// fields is set, matching the action.
type Op struct {
	Action     OpAction
	Entity     Drawable
	EraseID    string
	Snapshot   *Snapshot
	History    []Snapshot
	Step       int
	Background *Background
	Cursor     *Cursor
}

// Commands is the injectable command surface exposed to toolbars, keyboard
// shortcuts and upload flows, replacing deep callback-ref wiring across
// component boundaries.
type Commands interface {
	Undo() error
	Redo() error
	Clear() error
	SetBackground(kind BackgroundKind, sourceRef string, space CanvasSpace) error
}

var _ Commands = (*Session)(nil)

// Session owns one peer's render surface, history and background, and turns
// local mutations into broadcastable operations. All methods must be called
// from a single event loop; the session spawns no goroutines and takes no
// locks.
type Session struct {
	peerID     string
	surface    *Surface
	history    *History
	background *BackgroundCoordinator
	cursors    map[string]Cursor

	// OnLocalOp, when set, receives every operation that should reach the
	// remote peer. Leaving it nil means drawing stays local-only.
	OnLocalOp func(Op)
}

func NewSession(peerID string) *Session {
	return &Session{
		peerID:     peerID,
		surface:    NewSurface(),
		history:    NewHistory(),
		background: NewBackgroundCoordinator(),
		cursors:    make(map[string]Cursor),
	}
}

func (s *Session) PeerID() string         { return s.peerID }
func (s *Session) Surface() *Surface      { return s.surface }
func (s *Session) History() *History      { return s.history }
func (s *Session) Background() Background { return s.background.Current() }
func (s *Session) Space() CanvasSpace     { return s.background.Space() }
func (s *Session) NewEntityID() string    { return NewEntityID(s.peerID) }

func (s *Session) emit(op Op) {
	if s.OnLocalOp != nil {
		s.OnLocalOp(op)
	}
}

// beginEntity starts a gesture: the entity enters the surface as a draft and
// a draw operation is emitted.
func (s *Session) beginEntity(d Drawable) {
	s.surface.BeginDraft(d)
	s.emit(Op{Action: OpDraw, Entity: d.CloneDrawable()})
}

// updateEntity emits the in-gesture update for the draft entity.
func (s *Session) updateEntity(d Drawable) {
	s.emit(Op{Action: OpUpdate, Entity: d.CloneDrawable()})
}

// commitEntity finalizes the gesture: the draft reconciles into the canonical
// map, a snapshot is pushed, and the final update goes out.
func (s *Session) commitEntity() {
	d := s.surface.CommitDraft()
	if d == nil {
		return
	}
	s.history.Commit(s.surface.Snapshot(0))
	s.emit(Op{Action: OpUpdate, Entity: d.CloneDrawable()})
}

// abortEntity discards the draft without committing, used when a gesture
// produced no usable geometry.
func (s *Session) abortEntity() {
	d := s.surface.Draft()
	if d == nil {
		return
	}
	s.surface.DropDraft()
	s.emit(Op{Action: OpErase, EraseID: d.DrawableID()})
}

// eraseEntities removes entities and broadcasts one erase per removal without
// touching history. Returns the number removed; the caller decides when the
// gesture is complete and commits once.
func (s *Session) eraseEntities(ids ...string) int {
	removed := 0
	for _, id := range ids {
		if s.surface.Remove(id) {
			removed++
			s.emit(Op{Action: OpErase, EraseID: id})
		}
	}
	return removed
}

// commitErase records a completed eraser gesture as one undoable action.
func (s *Session) commitErase() {
	s.history.Commit(s.surface.Snapshot(0))
}

// Erase removes committed entities by id as a single committed action.
func (s *Session) Erase(ids ...string) {
	if s.eraseEntities(ids...) > 0 {
		s.commitErase()
	}
}

// PlaceText commits a text annotation in a single step (tap gestures have no
// move phase).
func (s *Session) PlaceText(t *TextAnnotation) {
	if !s.surface.Add(t) {
		return
	}
	s.history.Commit(s.surface.Snapshot(0))
	s.emit(Op{Action: OpDraw, Entity: t.CloneDrawable()})
}

func (s *Session) authoritativeOp(action OpAction) Op {
	snap := s.history.Current()
	return Op{
		Action:   action,
		Snapshot: &snap,
		History:  s.history.Snapshots(),
		Step:     s.history.Step(),
	}
}

// Undo steps history back, rebuilds the surface from the restored snapshot
// and broadcasts the full drawable set. Overlapping invocations are rejected
// with ErrHistoryBusy.
func (s *Session) Undo() error {
	return s.history.Undo(func(snap Snapshot) {
		s.surface.Rebuild(snap)
		s.emit(s.authoritativeOp(OpUndo))
	})
}

// Redo is symmetric to Undo.
func (s *Session) Redo() error {
	return s.history.Redo(func(snap Snapshot) {
		s.surface.Rebuild(snap)
		s.emit(s.authoritativeOp(OpRedo))
	})
}

// Clear wipes the drawable set as a committed, undoable action and broadcasts
// the resulting state authoritatively.
func (s *Session) Clear() error {
	if s.surface.Len() == 0 && s.surface.Draft() == nil {
		return nil
	}
	s.surface.Clear()
	s.history.Commit(Snapshot{})
	s.emit(s.authoritativeOp(OpState))
	return nil
}

// SetBackground installs a locally initiated background change. The change is
// atomic with clearing all drawables: coordinate space and drawable set change
// together so stale geometry can never reference an obsolete space. History
// resets rather than committing, since undo across a space change is
// meaningless.
func (s *Session) SetBackground(kind BackgroundKind, sourceRef string, space CanvasSpace) error {
	bg := s.background.Set(kind, sourceRef, space)
	s.surface.Clear()
	s.history.Reset()
	log.Printf("[session] background -> %s %dx%d", bg.Kind, bg.Space.Width, bg.Space.Height)
	s.emit(Op{Action: OpBackground, Background: &bg})
	return nil
}

// MoveCursor updates the local cursor and emits a cursor operation. The
// broadcaster throttles the outbound rate.
func (s *Session) MoveCursor(pos Point, color, label string) {
	c := Cursor{PeerID: s.peerID, Position: pos, Color: color, Label: label}
	s.emit(Op{Action: OpCursor, Cursor: &c})
}

// --- remote application -------------------------------------------------
//
// The methods below are invoked by the remote update processor. They mutate
// local state only and never re-broadcast; echoing a remote operation back
// would loop between the peers.

// ApplyRemoteDraw appends a remote entity. A duplicate id is a no-op.
func (s *Session) ApplyRemoteDraw(d Drawable) {
	if !s.surface.Add(d) {
		log.Printf("[session] duplicate draw for %s ignored", d.DrawableID())
	}
}

// ApplyRemoteUpdate replaces the matching entity in place. Unknown ids are
// ignored: the update may have raced ahead of an erase.
func (s *Session) ApplyRemoteUpdate(d Drawable) {
	s.surface.Update(d)
}

// ApplyRemoteErase removes the entity; absent ids are a no-op.
func (s *Session) ApplyRemoteErase(id string) {
	s.surface.Remove(id)
}

// ApplyRemoteState replaces the whole drawable set and history from an
// authoritative undo/redo/state message. Replacement, not merge, is what makes
// this path order-independent.
func (s *Session) ApplyRemoteState(snap Snapshot, history []Snapshot, step int) {
	s.history.Restore(history, step)
	s.surface.Rebuild(snap)
}

// ApplyRemoteBackground adopts a remote background change verbatim and clears
// all drawables, mirroring SetBackground.
func (s *Session) ApplyRemoteBackground(bg Background) {
	s.background.Adopt(bg)
	s.surface.Clear()
	s.history.Reset()
	log.Printf("[session] remote background -> %s %dx%d", bg.Kind, bg.Space.Width, bg.Space.Height)
}

// SetPeerCursor overwrites a peer's ephemeral cursor. History is untouched.
func (s *Session) SetPeerCursor(c Cursor) {
	s.cursors[c.PeerID] = c
}

// DropPeer discards a disconnected peer's cursor.
func (s *Session) DropPeer(peerID string) {
	delete(s.cursors, peerID)
}

// Cursors returns the known remote cursors.
func (s *Session) Cursors() []Cursor {
	out := make([]Cursor, 0, len(s.cursors))
	for _, c := range s.cursors {
		out = append(out, c)
	}
	return out
}
