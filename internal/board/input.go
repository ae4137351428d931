package board

import (
	"errors"
	"math"
	"strings"
)

// ErrInvalidCoordinate reports a non-finite pointer value. The event is
// dropped before any state mutates.
var ErrInvalidCoordinate = errors.New("invalid pointer coordinate")

// Tool selects what a gesture produces.
type Tool string

const (
	ToolPen       Tool = "pen"
	ToolLine      Tool = "line"
	ToolCircle    Tool = "circle"
	ToolEllipse   Tool = "ellipse"
	ToolRectangle Tool = "rectangle"
	ToolTriangle  Tool = "triangle"
	ToolText      Tool = "text"
	ToolEraser    Tool = "eraser"
)

// ToolConfig carries the active tool and style. It is passed in explicitly so
// capture behaviour is fully determined by its inputs, never by process-wide
// state.
type ToolConfig struct {
	Tool        Tool
	StrokeColor string
	FillColor   string
	StrokeWidth int
	Cap         string
	Join        string
	FontSize    int
	FontFamily  string
	EraseRadius int
}

// DefaultToolConfig returns a pen with sensible style defaults.
func DefaultToolConfig() ToolConfig {
	return ToolConfig{
		Tool:        ToolPen,
		StrokeColor: "#000000",
		FillColor:   "",
		StrokeWidth: 2,
		Cap:         "round",
		Join:        "round",
		FontSize:    16,
		FontFamily:  "sans-serif",
		EraseRadius: 10,
	}
}

// Rect is an axis-aligned region in canvas space, used to mark interactive
// overlay areas where drawing is suppressed in click mode.
type Rect struct {
	X, Y, Width, Height int
}

func (r Rect) contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Capture turns pointer and touch input into drawable lifecycle events. All
// positions it receives are measured relative to the render surface's own
// origin; the hosting view subtracts its scroll offset before calling in, so
// scrolling or layout shifts never perturb drawn geometry.
type Capture struct {
	sess *Session
	cfg  ToolConfig

	overlays  []Rect
	clickMode bool

	drawing bool
	origin  Point
	touchID int
	erased  int
}

func NewCapture(sess *Session, cfg ToolConfig) *Capture {
	return &Capture{sess: sess, cfg: cfg, touchID: -1}
}

// SetConfig swaps the active tool/style. A change mid-gesture applies to the
// next gesture only.
func (c *Capture) SetConfig(cfg ToolConfig) { c.cfg = cfg }

// Config returns the active tool configuration.
func (c *Capture) Config() ToolConfig { return c.cfg }

// SetClickMode toggles click mode. While on, gestures starting inside an
// overlay region are suppressed so clicks are not misread as strokes.
func (c *Capture) SetClickMode(on bool) { c.clickMode = on }

// SetOverlays registers the interactive overlay regions.
func (c *Capture) SetOverlays(regions []Rect) { c.overlays = regions }

// Drawing reports whether a gesture is in progress.
func (c *Capture) Drawing() bool { return c.drawing }

// PointerDown starts a gesture with the active tool.
func (c *Capture) PointerDown(x, y float64) error {
	p, err := canonical(x, y)
	if err != nil {
		return err
	}
	if c.clickMode && c.inOverlay(p) {
		return nil
	}
	switch c.cfg.Tool {
	case ToolEraser:
		c.drawing = true
		c.origin = p
		c.erased = c.sess.eraseEntities(c.sess.Surface().HitTest(p, c.cfg.EraseRadius)...)
		return nil
	case ToolText:
		// Text placement is a tap, handled by PlaceText.
		return nil
	}
	c.drawing = true
	c.origin = p
	c.sess.beginEntity(c.newEntity(p))
	return nil
}

// PointerMove extends the in-progress entity and emits an update.
func (c *Capture) PointerMove(x, y float64) error {
	p, err := canonical(x, y)
	if err != nil {
		return err
	}
	if !c.drawing {
		return nil
	}
	if c.cfg.Tool == ToolEraser {
		c.erased += c.sess.eraseEntities(c.sess.Surface().HitTest(p, c.cfg.EraseRadius)...)
		return nil
	}
	d := c.sess.Surface().Draft()
	if d == nil {
		return nil
	}
	c.extend(d, p)
	c.sess.updateEntity(d)
	return nil
}

// PointerUp finalizes the gesture: the entity commits, a snapshot is pushed
// and the final update goes out.
func (c *Capture) PointerUp(x, y float64) error {
	if !c.drawing {
		return nil
	}
	if p, err := canonical(x, y); err == nil {
		if c.cfg.Tool != ToolEraser {
			if d := c.sess.Surface().Draft(); d != nil {
				c.extend(d, p)
			}
		}
	}
	c.finish()
	return nil
}

// PointerLeave is treated as an implicit gesture end: the draft commits as-is
// rather than lingering as an un-terminated gesture.
func (c *Capture) PointerLeave() {
	if !c.drawing {
		return
	}
	c.finish()
}

func (c *Capture) finish() {
	c.drawing = false
	c.touchID = -1
	if c.cfg.Tool == ToolEraser {
		// The whole swipe is one action: however many entities it removed,
		// a single snapshot lands at gesture end.
		if c.erased > 0 {
			c.sess.commitErase()
			c.erased = 0
		}
		return
	}
	d := c.sess.Surface().Draft()
	if d == nil {
		return
	}
	if sh, ok := d.(*Shape); ok && degenerate(sh) {
		// A click with a shape tool produced no extent; nothing to keep.
		c.sess.abortEntity()
		return
	}
	c.sess.commitEntity()
}

func degenerate(s *Shape) bool {
	if s.Kind == KindCircle {
		return s.Radius == 0
	}
	return s.Width == 0 && s.Height == 0
}

// TouchStart normalizes touch input onto the pointer pipeline. Only the first
// active contact drives a gesture; additional contacts are ignored.
func (c *Capture) TouchStart(contactID int, x, y float64) error {
	if c.touchID >= 0 {
		return nil
	}
	if err := c.PointerDown(x, y); err != nil {
		return err
	}
	if c.drawing {
		c.touchID = contactID
	}
	return nil
}

// TouchMove forwards the tracked contact to PointerMove.
func (c *Capture) TouchMove(contactID int, x, y float64) error {
	if contactID != c.touchID {
		return nil
	}
	return c.PointerMove(x, y)
}

// TouchEnd forwards the tracked contact to PointerUp.
func (c *Capture) TouchEnd(contactID int, x, y float64) error {
	if contactID != c.touchID {
		return nil
	}
	return c.PointerUp(x, y)
}

// PlaceText commits a text annotation at the tap position.
func (c *Capture) PlaceText(x, y float64, text string) error {
	p, err := canonical(x, y)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if c.clickMode && c.inOverlay(p) {
		return nil
	}
	c.sess.PlaceText(&TextAnnotation{
		ID:         c.sess.NewEntityID(),
		Position:   p,
		Text:       text,
		FontSize:   c.cfg.FontSize,
		FontFamily: c.cfg.FontFamily,
		Color:      c.cfg.StrokeColor,
	})
	return nil
}

func (c *Capture) inOverlay(p Point) bool {
	for _, r := range c.overlays {
		if r.contains(p) {
			return true
		}
	}
	return false
}

func (c *Capture) newEntity(p Point) Drawable {
	if c.cfg.Tool == ToolPen {
		return &Stroke{
			ID:     c.sess.NewEntityID(),
			Points: []Point{p},
			Color:  c.cfg.StrokeColor,
			Width:  c.cfg.StrokeWidth,
			Cap:    c.cfg.Cap,
			Join:   c.cfg.Join,
		}
	}
	return &Shape{
		ID:          c.sess.NewEntityID(),
		Kind:        shapeKindFor(c.cfg.Tool),
		Origin:      p,
		StrokeColor: c.cfg.StrokeColor,
		FillColor:   c.cfg.FillColor,
		StrokeWidth: c.cfg.StrokeWidth,
	}
}

func (c *Capture) extend(d Drawable, p Point) {
	switch d := d.(type) {
	case *Stroke:
		if n := len(d.Points); n > 0 && d.Points[n-1] == p {
			return
		}
		d.Points = append(d.Points, p)
	case *Shape:
		dx, dy := p.X-c.origin.X, p.Y-c.origin.Y
		if d.Kind == KindCircle {
			d.Radius = int(math.Round(math.Hypot(float64(dx), float64(dy))))
			return
		}
		d.Width, d.Height = dx, dy
	}
}

func shapeKindFor(t Tool) ShapeKind {
	switch t {
	case ToolLine:
		return KindLine
	case ToolCircle:
		return KindCircle
	case ToolEllipse:
		return KindEllipse
	case ToolTriangle:
		return KindTriangle
	default:
		return KindRectangle
	}
}

// canonical validates and rounds a pointer position into integer canvas
// coordinates. Rounding before anything leaves the process eliminates
// cross-platform floating-point rendering divergence.
func canonical(x, y float64) (Point, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return Point{}, ErrInvalidCoordinate
	}
	return Point{X: int(math.Round(x)), Y: int(math.Round(y))}, nil
}
