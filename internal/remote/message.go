package remote

import (
	"encoding/json"

	"PairBoard/internal/board"
)

// Action tags a wire message.
type Action string

const (
	ActionDraw                 Action = "draw"
	ActionUpdate               Action = "update"
	ActionErase                Action = "erase"
	ActionUndo                 Action = "undo"
	ActionRedo                 Action = "redo"
	ActionState                Action = "state"
	ActionCursor               Action = "cursor"
	ActionBackground           Action = "background"
	ActionBackgroundTransition Action = "background-transition"
	ActionContentSelection     Action = "content-selection"
)

// Message is the transport-agnostic envelope exchanged between peers. Exactly
// the payload fields matching the action are populated. All coordinates are
// canonical integers in canvas space and are never rescaled by the receiver.
type Message struct {
	Action     Action             `json:"action"`
	SenderID   string             `json:"senderId,omitempty"`
	Shape      *ShapePayload      `json:"shape,omitempty"`
	State      *StatePayload      `json:"state,omitempty"`
	Background *BackgroundPayload `json:"background,omitempty"`
	Transition *TransitionPayload `json:"transitionData,omitempty"`
	Position   *PointPayload      `json:"position,omitempty"`
	Color      string             `json:"color,omitempty"`
	Label      string             `json:"label,omitempty"`
	Selection  json.RawMessage    `json:"selection,omitempty"`
}

// PointPayload is one canvas-space position.
type PointPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// StylePayload carries stroke/fill styling for any drawable kind.
type StylePayload struct {
	Stroke string `json:"stroke,omitempty"`
	Fill   string `json:"fill,omitempty"`
	Width  int    `json:"width,omitempty"`
	Cap    string `json:"cap,omitempty"`
	Join   string `json:"join,omitempty"`
}

// ShapePayload is the wire form of any drawable. Kind is "stroke", "text" or
// one of the geometric shape kinds. Stroke points travel as a flattened
// [x0,y0,x1,y1,...] integer array.
type ShapePayload struct {
	ID         string        `json:"id"`
	Kind       string        `json:"kind"`
	Points     []int         `json:"points,omitempty"`
	Position   *PointPayload `json:"position,omitempty"`
	Width      int           `json:"width,omitempty"`
	Height     int           `json:"height,omitempty"`
	Radius     int           `json:"radius,omitempty"`
	Style      StylePayload  `json:"style"`
	Text       string        `json:"text,omitempty"`
	FontSize   int           `json:"fontSize,omitempty"`
	FontFamily string        `json:"fontFamily,omitempty"`
}

// SnapshotPayload is one history entry inside an authoritative message.
type SnapshotPayload struct {
	Strokes []ShapePayload `json:"strokes"`
	Shapes  []ShapePayload `json:"shapes"`
	Texts   []ShapePayload `json:"textAnnotations"`
	Step    int            `json:"stepIndex"`
}

// StatePayload is the authoritative whole-state carried by undo/redo/state
// messages: the restored drawable set, the step cursor and the full snapshot
// stack. Receivers replace rather than merge, which makes the message
// order-independent.
type StatePayload struct {
	Strokes     []ShapePayload    `json:"strokes"`
	Shapes      []ShapePayload    `json:"shapes"`
	Texts       []ShapePayload    `json:"textAnnotations"`
	HistoryStep int               `json:"historyStep"`
	History     []SnapshotPayload `json:"history"`
}

// DimensionsPayload is the canonical canvas size inside background messages.
type DimensionsPayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BackgroundPayload announces a background change. The receiver adopts the
// dimensions verbatim; it never recomputes them from the asset.
type BackgroundPayload struct {
	Kind       string            `json:"kind"`
	SourceRef  string            `json:"sourceRef,omitempty"`
	Dimensions DimensionsPayload `json:"dimensions"`
}

// TransitionPayload is the background-transition variant, carrying the same
// canonical dimensions plus mode flags for the destination surface.
type TransitionPayload struct {
	Kind      string          `json:"kind"`
	SourceRef string          `json:"sourceRef,omitempty"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	ModeFlags map[string]bool `json:"modeFlags,omitempty"`
}

func (t *TransitionPayload) background() board.Background {
	return board.Background{
		Kind:      board.BackgroundKind(t.Kind),
		SourceRef: t.SourceRef,
		Space:     board.CanvasSpace{Width: t.Width, Height: t.Height},
	}
}

func (b *BackgroundPayload) boardState() board.Background {
	return board.Background{
		Kind:      board.BackgroundKind(b.Kind),
		SourceRef: b.SourceRef,
		Space:     board.CanvasSpace{Width: b.Dimensions.Width, Height: b.Dimensions.Height},
	}
}
