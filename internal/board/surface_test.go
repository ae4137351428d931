package board

import "testing"

func testStroke(id string, pts ...Point) *Stroke {
	return &Stroke{ID: id, Points: pts, Color: "#000000", Width: 2}
}

func TestSurfaceAddDuplicateIsNoOp(t *testing.T) {
	s := NewSurface()
	if !s.Add(testStroke("a", Point{1, 1})) {
		t.Fatalf("first add should succeed")
	}
	if s.Add(testStroke("a", Point{9, 9})) {
		t.Fatalf("duplicate add should be rejected")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 entity, got %d", s.Len())
	}
	d, _ := s.Get("a")
	if d.(*Stroke).Points[0] != (Point{1, 1}) {
		t.Fatalf("duplicate add must not replace the original")
	}
}

func TestSurfaceUpdateUnknownIgnored(t *testing.T) {
	s := NewSurface()
	if s.Update(testStroke("ghost")) {
		t.Fatalf("update of unknown id should report false")
	}
	if s.Len() != 0 {
		t.Fatalf("update must not insert")
	}
}

func TestSurfaceUpdateReplacesInPlace(t *testing.T) {
	s := NewSurface()
	s.Add(testStroke("a", Point{1, 1}))
	s.Add(testStroke("b", Point{2, 2}))
	s.Update(testStroke("a", Point{1, 1}, Point{5, 5}))

	order := s.Drawables()
	if order[0].DrawableID() != "a" || order[1].DrawableID() != "b" {
		t.Fatalf("update must keep z-order")
	}
	if got := len(order[0].(*Stroke).Points); got != 2 {
		t.Fatalf("expected replaced stroke with 2 points, got %d", got)
	}
}

func TestSurfaceRemoveAbsentIsNoOp(t *testing.T) {
	s := NewSurface()
	s.Add(testStroke("a", Point{1, 1}))
	if s.Remove("ghost") {
		t.Fatalf("removing an absent id should report false")
	}
	if !s.Remove("a") {
		t.Fatalf("removing a present id should succeed")
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty surface")
	}
}

// Replaying an identical operation sequence against an empty surface must
// reproduce an identical entity mapping.
func TestSurfaceReplayDeterminism(t *testing.T) {
	replay := func() *Surface {
		s := NewSurface()
		s.Add(testStroke("s1", Point{1, 1}))
		s.Add(&Shape{ID: "sh1", Kind: KindRectangle, Origin: Point{5, 5}, Width: 10, Height: 10})
		s.Update(testStroke("s1", Point{1, 1}, Point{2, 2}))
		s.Add(&TextAnnotation{ID: "t1", Position: Point{3, 3}, Text: "hi"})
		s.Remove("sh1")
		return s
	}

	a, b := replay(), replay()
	da, db := a.Drawables(), b.Drawables()
	if len(da) != len(db) {
		t.Fatalf("replays diverged in size: %d vs %d", len(da), len(db))
	}
	for i := range da {
		if da[i].DrawableID() != db[i].DrawableID() {
			t.Fatalf("replays diverged at %d: %s vs %s", i, da[i].DrawableID(), db[i].DrawableID())
		}
	}
}

func TestSurfaceDraftLifecycle(t *testing.T) {
	s := NewSurface()
	st := testStroke("a", Point{1, 1})
	s.BeginDraft(st)

	if s.Len() != 1 {
		t.Fatalf("draft should be visible in the live set")
	}
	st.Points = append(st.Points, Point{2, 2})

	d := s.CommitDraft()
	if d == nil || len(d.(*Stroke).Points) != 2 {
		t.Fatalf("commit should reconcile the mutated draft")
	}
	if s.Draft() != nil {
		t.Fatalf("draft handle should be released on commit")
	}
	if s.CommitDraft() != nil {
		t.Fatalf("commit without an active draft should return nil")
	}
}

func TestSurfaceDropDraft(t *testing.T) {
	s := NewSurface()
	s.Add(testStroke("keep", Point{0, 0}))
	s.BeginDraft(testStroke("tmp", Point{1, 1}))
	s.DropDraft()

	if s.Len() != 1 {
		t.Fatalf("dropped draft should leave only committed entities")
	}
	if _, ok := s.Get("tmp"); ok {
		t.Fatalf("dropped draft must not remain in the map")
	}
}

func TestSurfaceRebuild(t *testing.T) {
	s := NewSurface()
	s.Add(testStroke("a", Point{1, 1}))
	s.Add(testStroke("b", Point{2, 2}))

	snap := s.Snapshot(0)
	s.Add(testStroke("c", Point{3, 3}))
	s.Rebuild(snap)

	if s.Len() != 2 {
		t.Fatalf("rebuild should restore exactly the snapshot, got %d entities", s.Len())
	}
	if _, ok := s.Get("c"); ok {
		t.Fatalf("entity added after the snapshot must be gone")
	}
}

func TestSnapshotExcludesDraft(t *testing.T) {
	s := NewSurface()
	s.Add(testStroke("done", Point{1, 1}))
	s.BeginDraft(testStroke("half", Point{2, 2}))

	snap := s.Snapshot(0)
	if snap.Count() != 1 || snap.Strokes[0].ID != "done" {
		t.Fatalf("a half-drawn entity must not enter a snapshot: %+v", snap.Strokes)
	}

	s.CommitDraft()
	if s.Snapshot(0).Count() != 2 {
		t.Fatalf("a committed draft belongs in the snapshot")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := NewSurface()
	st := testStroke("a", Point{1, 1})
	s.Add(st)
	snap := s.Snapshot(0)

	st.Points[0] = Point{99, 99}
	if snap.Strokes[0].Points[0] != (Point{1, 1}) {
		t.Fatalf("mutating the live entity must not change the snapshot")
	}
}

func TestSurfaceHitTest(t *testing.T) {
	s := NewSurface()
	s.Add(testStroke("near", Point{10, 10}))
	s.Add(testStroke("far", Point{500, 500}))
	s.Add(&Shape{ID: "box", Kind: KindRectangle, Origin: Point{100, 100}, Width: 50, Height: 50})

	hits := s.HitTest(Point{12, 12}, 5)
	if len(hits) != 1 || hits[0] != "near" {
		t.Fatalf("expected only the near stroke, got %v", hits)
	}
	hits = s.HitTest(Point{120, 120}, 5)
	if len(hits) != 1 || hits[0] != "box" {
		t.Fatalf("expected the rectangle, got %v", hits)
	}
}
