package board

// Surface is the live set of drawables actually painted, keyed by entity id.
// Insertion order is kept so rebuilds and exports paint in a stable z-order.
//
// During an in-progress gesture the active entity is mutated through a
// retained draft handle and reconciled into the canonical map at gesture end,
// so snapshots and remote sync always observe consistent state.
type Surface struct {
	entities map[string]Drawable
	order    []string
	draft    Drawable
}

func NewSurface() *Surface {
	return &Surface{entities: make(map[string]Drawable)}
}

// Add inserts a drawable. A duplicate id is a no-op and reports false, so
// replaying the same draw message twice never duplicate-appends.
func (s *Surface) Add(d Drawable) bool {
	id := d.DrawableID()
	if _, exists := s.entities[id]; exists {
		return false
	}
	s.entities[id] = d
	s.order = append(s.order, id)
	return true
}

// Update replaces the entity with the same id in place, keeping its z-order.
// An unknown id is silently ignored; an update may legitimately race ahead of
// an erase.
func (s *Surface) Update(d Drawable) bool {
	id := d.DrawableID()
	if _, exists := s.entities[id]; !exists {
		return false
	}
	s.entities[id] = d
	if s.draft != nil && s.draft.DrawableID() == id {
		s.draft = d
	}
	return true
}

// Remove deletes the entity by id; absent ids are a no-op.
func (s *Surface) Remove(id string) bool {
	if _, exists := s.entities[id]; !exists {
		return false
	}
	delete(s.entities, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.draft != nil && s.draft.DrawableID() == id {
		s.draft = nil
	}
	return true
}

// Get returns the entity with the given id.
func (s *Surface) Get(id string) (Drawable, bool) {
	d, ok := s.entities[id]
	return d, ok
}

// Len returns the number of live drawables.
func (s *Surface) Len() int { return len(s.entities) }

// Drawables returns the live set in z-order.
func (s *Surface) Drawables() []Drawable {
	out := make([]Drawable, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entities[id])
	}
	return out
}

// BeginDraft adds the entity and retains it as the draft handle for the
// duration of a gesture.
func (s *Surface) BeginDraft(d Drawable) {
	s.Add(d)
	s.draft = d
}

// Draft returns the in-progress entity, or nil outside a gesture.
func (s *Surface) Draft() Drawable { return s.draft }

// CommitDraft reconciles the draft into the canonical map and releases the
// handle. Returns the committed entity, or nil if no gesture was active.
func (s *Surface) CommitDraft() Drawable {
	d := s.draft
	if d == nil {
		return nil
	}
	s.entities[d.DrawableID()] = d
	s.draft = nil
	return d
}

// DropDraft abandons the in-progress entity entirely.
func (s *Surface) DropDraft() {
	if s.draft == nil {
		return
	}
	s.Remove(s.draft.DrawableID())
	s.draft = nil
}

// Clear removes every drawable and any draft.
func (s *Surface) Clear() {
	s.entities = make(map[string]Drawable)
	s.order = nil
	s.draft = nil
}

// Snapshot copies the committed drawable set. An in-progress draft is live on
// the surface but not yet committed, so it is left out; history must never
// hold a half-drawn entity. The step is stamped by the caller's history
// manager.
func (s *Surface) Snapshot(step int) Snapshot {
	snap := Snapshot{Step: step}
	for _, id := range s.order {
		if s.draft != nil && id == s.draft.DrawableID() {
			continue
		}
		switch d := s.entities[id].(type) {
		case *Stroke:
			snap.Strokes = append(snap.Strokes, *d.CloneDrawable().(*Stroke))
		case *Shape:
			snap.Shapes = append(snap.Shapes, *d)
		case *TextAnnotation:
			snap.Texts = append(snap.Texts, *d)
		}
	}
	return snap
}

// Rebuild destroys the live set and recreates it from a snapshot. Incremental
// patching is not safe after undo/redo or a background clear, since the set
// can shrink, grow or reorder arbitrarily.
func (s *Surface) Rebuild(snap Snapshot) {
	s.Clear()
	for i := range snap.Strokes {
		st := snap.Strokes[i]
		st.Points = append([]Point(nil), st.Points...)
		s.Add(&st)
	}
	for i := range snap.Shapes {
		sh := snap.Shapes[i]
		s.Add(&sh)
	}
	for i := range snap.Texts {
		tx := snap.Texts[i]
		s.Add(&tx)
	}
}

// HitTest returns the ids of drawables within radius of p, in z-order. Used
// by the eraser tool.
func (s *Surface) HitTest(p Point, radius int) []string {
	var hits []string
	for _, id := range s.order {
		if drawableNear(s.entities[id], p, radius) {
			hits = append(hits, id)
		}
	}
	return hits
}

func drawableNear(d Drawable, p Point, radius int) bool {
	switch d := d.(type) {
	case *Stroke:
		for _, pt := range d.Points {
			if within(pt, p, radius+d.Width/2) {
				return true
			}
		}
	case *Shape:
		return shapeBounds(d).expand(radius).contains(p)
	case *TextAnnotation:
		return within(d.Position, p, radius+d.FontSize)
	}
	return false
}

func within(a, b Point, r int) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx+dy*dy <= r*r
}

type bounds struct{ minX, minY, maxX, maxY int }

func (b bounds) expand(r int) bounds {
	return bounds{b.minX - r, b.minY - r, b.maxX + r, b.maxY + r}
}

func (b bounds) contains(p Point) bool {
	return p.X >= b.minX && p.X <= b.maxX && p.Y >= b.minY && p.Y <= b.maxY
}

func shapeBounds(s *Shape) bounds {
	if s.Kind == KindCircle {
		return bounds{s.Origin.X - s.Radius, s.Origin.Y - s.Radius, s.Origin.X + s.Radius, s.Origin.Y + s.Radius}
	}
	b := bounds{s.Origin.X, s.Origin.Y, s.Origin.X + s.Width, s.Origin.Y + s.Height}
	if b.minX > b.maxX {
		b.minX, b.maxX = b.maxX, b.minX
	}
	if b.minY > b.maxY {
		b.minY, b.maxY = b.maxY, b.minY
	}
	return b
}
