package board

import "testing"

func newTestSession() (*Session, *[]Op) {
	sess := NewSession("peer-a")
	var ops []Op
	sess.OnLocalOp = func(op Op) { ops = append(ops, op) }
	return sess, &ops
}

func drawStroke(sess *Session, id string, pts ...Point) {
	st := &Stroke{ID: id, Points: pts, Color: "#000000", Width: 2}
	sess.Surface().Add(st)
	sess.History().Commit(sess.Surface().Snapshot(0))
}

func TestEraseByIDIsOneCommittedAction(t *testing.T) {
	sess, ops := newTestSession()
	drawStroke(sess, "s1", Point{1, 1})
	drawStroke(sess, "s2", Point{2, 2})
	*ops = nil

	sess.Erase("s1", "s2", "ghost")

	if sess.Surface().Len() != 0 {
		t.Fatalf("both strokes should be gone, %d left", sess.Surface().Len())
	}
	if len(*ops) != 2 || (*ops)[0].Action != OpErase || (*ops)[1].Action != OpErase {
		t.Fatalf("expected one erase per removed entity, got %+v", *ops)
	}
	if sess.History().Step() != 3 {
		t.Fatalf("a multi-id erase commits once, step %d", sess.History().Step())
	}

	*ops = nil
	sess.Erase("ghost")
	if len(*ops) != 0 || sess.History().Step() != 3 {
		t.Fatalf("erasing nothing must neither broadcast nor commit")
	}
}

func TestUndoBroadcastsFullState(t *testing.T) {
	sess, ops := newTestSession()
	drawStroke(sess, "s1", Point{1, 1})
	drawStroke(sess, "s2", Point{2, 2})
	*ops = nil

	if err := sess.Undo(); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if sess.Surface().Len() != 1 {
		t.Fatalf("undo should drop the latest stroke, have %d", sess.Surface().Len())
	}

	if len(*ops) != 1 {
		t.Fatalf("expected one authoritative op, got %d", len(*ops))
	}
	op := (*ops)[0]
	if op.Action != OpUndo || op.Snapshot == nil {
		t.Fatalf("undo must carry the restored drawable set")
	}
	if len(op.Snapshot.Strokes) != 1 || op.Step != 1 {
		t.Fatalf("expected 1 stroke at step 1, got %d at %d", len(op.Snapshot.Strokes), op.Step)
	}
	if len(op.History) != sess.History().Depth() {
		t.Fatalf("undo must carry the full snapshot stack")
	}
}

func TestRedoRestoresExactly(t *testing.T) {
	sess, ops := newTestSession()
	drawStroke(sess, "s1", Point{1, 1})
	sess.Undo()
	*ops = nil

	if err := sess.Redo(); err != nil {
		t.Fatalf("redo failed: %v", err)
	}
	if sess.Surface().Len() != 1 || sess.History().Step() != 1 {
		t.Fatalf("redo must return to the prior set and step")
	}
	if (*ops)[0].Action != OpRedo {
		t.Fatalf("expected a redo op")
	}
}

func TestClearIsCommittedAndAuthoritative(t *testing.T) {
	sess, ops := newTestSession()
	drawStroke(sess, "s1", Point{1, 1})
	*ops = nil

	if err := sess.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if sess.Surface().Len() != 0 {
		t.Fatalf("clear should empty the surface")
	}
	if (*ops)[0].Action != OpState || (*ops)[0].Snapshot.Count() != 0 {
		t.Fatalf("clear must broadcast the empty state authoritatively")
	}

	// Clear is undoable.
	if err := sess.Undo(); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if sess.Surface().Len() != 1 {
		t.Fatalf("undo after clear should restore the stroke")
	}
}

func TestClearOnEmptySurfaceEmitsNothing(t *testing.T) {
	sess, ops := newTestSession()
	if err := sess.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if len(*ops) != 0 {
		t.Fatalf("clearing an empty surface should be silent")
	}
}

func TestSetBackgroundClearsDrawablesAtomically(t *testing.T) {
	sess, ops := newTestSession()
	drawStroke(sess, "s1", Point{1, 1})
	*ops = nil

	err := sess.SetBackground(BackgroundImage, "pic.png", CanvasSpace{Width: 640, Height: 480})
	if err != nil {
		t.Fatalf("set background failed: %v", err)
	}
	if sess.Surface().Len() != 0 {
		t.Fatalf("background change must clear all drawables")
	}
	if sess.Space() != (CanvasSpace{Width: 640, Height: 480}) {
		t.Fatalf("canvas space not updated: %+v", sess.Space())
	}
	if sess.History().Step() != 0 || sess.History().Depth() != 1 {
		t.Fatalf("history must reset on a background change")
	}

	op := (*ops)[0]
	if op.Action != OpBackground || op.Background == nil {
		t.Fatalf("expected a background op")
	}
	if op.Background.Space != sess.Space() {
		t.Fatalf("broadcast dimensions must be the canonical ones")
	}
}

func TestApplyRemoteBackgroundAdoptsVerbatim(t *testing.T) {
	sess, _ := newTestSession()
	drawStroke(sess, "s1", Point{1, 1})

	sess.ApplyRemoteBackground(Background{
		Kind:      BackgroundDocument,
		SourceRef: "doc-7",
		Space:     CanvasSpace{Width: 1200, Height: 2400},
	})
	if sess.Surface().Len() != 0 {
		t.Fatalf("remote background must clear drawables")
	}
	if sess.Space() != (CanvasSpace{Width: 1200, Height: 2400}) {
		t.Fatalf("remote dimensions must be adopted verbatim")
	}
}

func TestApplyRemoteStateReplacesEverything(t *testing.T) {
	sess, _ := newTestSession()
	drawStroke(sess, "local", Point{1, 1})

	remoteSnap := Snapshot{Strokes: []Stroke{{ID: "remote", Points: []Point{{5, 5}}}}}
	history := []Snapshot{{}, remoteSnap}
	sess.ApplyRemoteState(remoteSnap, history, 1)

	if sess.Surface().Len() != 1 {
		t.Fatalf("state must replace, not merge")
	}
	if _, ok := sess.Surface().Get("remote"); !ok {
		t.Fatalf("remote entity missing after resync")
	}
	if sess.History().Step() != 1 || sess.History().Depth() != 2 {
		t.Fatalf("history must be adopted from the message")
	}
}

func TestRemoteApplyNeverRebroadcasts(t *testing.T) {
	sess, ops := newTestSession()
	sess.ApplyRemoteDraw(&Stroke{ID: "r1", Points: []Point{{1, 1}}})
	sess.ApplyRemoteUpdate(&Stroke{ID: "r1", Points: []Point{{1, 1}, {2, 2}}})
	sess.ApplyRemoteErase("r1")
	sess.ApplyRemoteState(Snapshot{}, nil, 0)
	sess.ApplyRemoteBackground(Background{Kind: BackgroundNone, Space: DefaultSpace})
	if len(*ops) != 0 {
		t.Fatalf("remote application must not echo operations back, got %d", len(*ops))
	}
}

func TestCursorLifecycle(t *testing.T) {
	sess, ops := newTestSession()
	sess.SetPeerCursor(Cursor{PeerID: "peer-b", Position: Point{5, 5}, Color: "#ff0000", Label: "B"})
	sess.SetPeerCursor(Cursor{PeerID: "peer-b", Position: Point{9, 9}, Color: "#ff0000", Label: "B"})

	cursors := sess.Cursors()
	if len(cursors) != 1 || cursors[0].Position != (Point{9, 9}) {
		t.Fatalf("cursor must be overwritten, not accumulated: %+v", cursors)
	}
	if sess.History().Step() != 0 {
		t.Fatalf("cursors must never touch history")
	}

	sess.DropPeer("peer-b")
	if len(sess.Cursors()) != 0 {
		t.Fatalf("cursor must vanish on disconnect")
	}

	sess.MoveCursor(Point{1, 2}, "#00ff00", "A")
	if len(*ops) != 1 || (*ops)[0].Action != OpCursor {
		t.Fatalf("local cursor movement should emit a cursor op")
	}
}

func TestEntityIDsAreUnique(t *testing.T) {
	sess, _ := newTestSession()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := sess.NewEntityID()
		if seen[id] {
			t.Fatalf("duplicate entity id %s", id)
		}
		seen[id] = true
	}
}
