package board

// BackgroundKind names the active background.
type BackgroundKind string

const (
	BackgroundNone     BackgroundKind = "none"
	BackgroundDocument BackgroundKind = "document"
	BackgroundImage    BackgroundKind = "image"
	BackgroundOverlay  BackgroundKind = "fixed-overlay"
)

// DefaultSpace is the canvas size before any background is selected and the
// fallback when a content source fails.
var DefaultSpace = CanvasSpace{Width: 1200, Height: 900}

// OverlaySpace is the fixed canvas size for practice-overlay backgrounds. It
// is a constant by design: overlay dimensions must never depend on either
// peer's viewport.
var OverlaySpace = CanvasSpace{Width: 1200, Height: 1700}

// Background couples the background kind with the canvas space it defines.
// The two always change together; drawable geometry from one space is never
// valid in another.
type Background struct {
	Kind      BackgroundKind
	SourceRef string
	Space     CanvasSpace
}

// BackgroundCoordinator owns the background/canvas-space unit. The peer that
// initiates a background change computes the canonical dimensions once and
// broadcasts them; the receiving peer adopts them verbatim. Independent
// recomputation (for example from differing asset decode timing) can diverge
// between peers and is therefore never performed.
type BackgroundCoordinator struct {
	current Background
}

func NewBackgroundCoordinator() *BackgroundCoordinator {
	return &BackgroundCoordinator{current: Background{Kind: BackgroundNone, Space: DefaultSpace}}
}

// Current returns the active background.
func (c *BackgroundCoordinator) Current() Background { return c.current }

// Space returns the active canvas space.
func (c *BackgroundCoordinator) Space() CanvasSpace { return c.current.Space }

// Set installs a locally initiated background and returns the canonical state
// to broadcast. Overlay kinds ignore the supplied space and use the fixed
// constant.
func (c *BackgroundCoordinator) Set(kind BackgroundKind, sourceRef string, space CanvasSpace) Background {
	if kind == BackgroundOverlay {
		space = OverlaySpace
	}
	if space.Width <= 0 || space.Height <= 0 {
		space = DefaultSpace
	}
	c.current = Background{Kind: kind, SourceRef: sourceRef, Space: space}
	return c.current
}

// Adopt installs a remotely initiated background verbatim.
func (c *BackgroundCoordinator) Adopt(bg Background) {
	if bg.Space.Width <= 0 || bg.Space.Height <= 0 {
		bg.Space = DefaultSpace
	}
	c.current = bg
}

// DocumentSpace computes the canvas size for a paginated document background:
// height is the sum of page heights plus the gaps between pages plus outer
// padding top and bottom, width is the content width plus padding either side.
// This formula, not a locally observed render event, is the single source of
// truth propagated to the peer.
func DocumentSpace(pageHeights []int, contentWidth, pageGap, padding int) CanvasSpace {
	height := 2 * padding
	for _, h := range pageHeights {
		height += h
	}
	if n := len(pageHeights); n > 1 {
		height += (n - 1) * pageGap
	}
	return CanvasSpace{Width: contentWidth + 2*padding, Height: height}
}
