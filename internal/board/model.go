package board

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"
)

// Point is a position in canvas space. Canvas space is the shared logical
// coordinate frame both peers agree on; drawable geometry is never stored in
// viewport or screen coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CanvasSpace is the shared logical canvas size. Its source of truth is
// whichever peer most recently initiated a background change.
type CanvasSpace struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ShapeKind identifies the geometry of a Shape.
type ShapeKind string

const (
	KindLine      ShapeKind = "line"
	KindCircle    ShapeKind = "circle"
	KindEllipse   ShapeKind = "ellipse"
	KindRectangle ShapeKind = "rectangle"
	KindTriangle  ShapeKind = "triangle"
)

// Stroke is a freehand path. Points are appended one by one during a gesture
// and the stroke is immutable once committed.
type Stroke struct {
	ID     string
	Points []Point
	Color  string
	Width  int
	Cap    string
	Join   string
}

func (s *Stroke) DrawableID() string { return s.ID }

func (s *Stroke) CloneDrawable() Drawable {
	c := *s
	c.Points = append([]Point(nil), s.Points...)
	return &c
}

// Shape is a geometric primitive anchored at Origin. Width/Height describe the
// drag extent for rectangle, ellipse and triangle kinds; Radius is used by
// circles; lines run from Origin to Origin+(Width,Height).
type Shape struct {
	ID          string
	Kind        ShapeKind
	Origin      Point
	Width       int
	Height      int
	Radius      int
	StrokeColor string
	FillColor   string
	StrokeWidth int
}

func (s *Shape) DrawableID() string { return s.ID }

func (s *Shape) CloneDrawable() Drawable {
	c := *s
	return &c
}

// TextAnnotation is a piece of text placed on the canvas.
type TextAnnotation struct {
	ID         string
	Position   Point
	Text       string
	FontSize   int
	FontFamily string
	Color      string
}

func (t *TextAnnotation) DrawableID() string { return t.ID }

func (t *TextAnnotation) CloneDrawable() Drawable {
	c := *t
	return &c
}

// Drawable is anything the render surface paints: a stroke, a shape or a text
// annotation. Cursors are deliberately not drawables; they are ephemeral and
// never enter history.
type Drawable interface {
	DrawableID() string
	CloneDrawable() Drawable
}

// Cursor is the ephemeral presence marker of a peer. It is overwritten on
// every cursor message and discarded when the peer's channel closes.
type Cursor struct {
	PeerID   string
	Position Point
	Color    string
	Label    string
}

// Snapshot is a full copy of the drawable set at one point in the undo/redo
// sequence. Snapshots are immutable once taken.
type Snapshot struct {
	Strokes []Stroke
	Shapes  []Shape
	Texts   []TextAnnotation
	Step    int
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{Step: s.Step}
	c.Strokes = make([]Stroke, len(s.Strokes))
	for i, st := range s.Strokes {
		c.Strokes[i] = st
		c.Strokes[i].Points = append([]Point(nil), st.Points...)
	}
	c.Shapes = append([]Shape(nil), s.Shapes...)
	c.Texts = append([]TextAnnotation(nil), s.Texts...)
	return c
}

// Count returns the number of drawables in the snapshot.
func (s Snapshot) Count() int {
	return len(s.Strokes) + len(s.Shapes) + len(s.Texts)
}

var entitySeq uint64

// NewEntityID builds a globally unique drawable id from the owning peer, the
// wall clock, a per-process sequence and a random suffix. Uniqueness across
// peers is what makes last-write-wins merges well-defined; the sequence keeps
// ids unique when many entities are allocated within one millisecond.
func NewEntityID(peerID string) string {
	seq := atomic.AddUint64(&entitySeq, 1)
	return fmt.Sprintf("%s-%d-%d-%04x", peerID, time.Now().UnixMilli(), seq, rand.Intn(0x10000))
}
