package remote

import (
	"errors"
	"fmt"

	"PairBoard/internal/board"
)

const kindStroke = "stroke"
const kindText = "text"

var errEmptyOp = errors.New("operation has no payload")

// EncodeOp translates a local operation into its wire message.
func EncodeOp(senderID string, op board.Op) (Message, error) {
	msg := Message{SenderID: senderID}
	switch op.Action {
	case board.OpDraw, board.OpUpdate:
		if op.Entity == nil {
			return Message{}, errEmptyOp
		}
		msg.Action = Action(op.Action)
		p := drawableToPayload(op.Entity)
		msg.Shape = &p
	case board.OpErase:
		if op.EraseID == "" {
			return Message{}, errEmptyOp
		}
		msg.Action = ActionErase
		msg.Shape = &ShapePayload{ID: op.EraseID}
	case board.OpUndo, board.OpRedo, board.OpState:
		if op.Snapshot == nil {
			return Message{}, errEmptyOp
		}
		msg.Action = Action(op.Action)
		msg.State = statePayload(*op.Snapshot, op.History, op.Step)
	case board.OpBackground:
		if op.Background == nil {
			return Message{}, errEmptyOp
		}
		msg.Action = ActionBackground
		msg.Background = &BackgroundPayload{
			Kind:      string(op.Background.Kind),
			SourceRef: op.Background.SourceRef,
			Dimensions: DimensionsPayload{
				Width:  op.Background.Space.Width,
				Height: op.Background.Space.Height,
			},
		}
	case board.OpCursor:
		if op.Cursor == nil {
			return Message{}, errEmptyOp
		}
		msg.Action = ActionCursor
		msg.Position = &PointPayload{X: op.Cursor.Position.X, Y: op.Cursor.Position.Y}
		msg.Color = op.Cursor.Color
		msg.Label = op.Cursor.Label
	default:
		return Message{}, fmt.Errorf("unsupported op action %q", op.Action)
	}
	return msg, nil
}

func drawableToPayload(d board.Drawable) ShapePayload {
	switch d := d.(type) {
	case *board.Stroke:
		pts := make([]int, 0, len(d.Points)*2)
		for _, p := range d.Points {
			pts = append(pts, p.X, p.Y)
		}
		return ShapePayload{
			ID:     d.ID,
			Kind:   kindStroke,
			Points: pts,
			Style:  StylePayload{Stroke: d.Color, Width: d.Width, Cap: d.Cap, Join: d.Join},
		}
	case *board.Shape:
		return ShapePayload{
			ID:       d.ID,
			Kind:     string(d.Kind),
			Position: &PointPayload{X: d.Origin.X, Y: d.Origin.Y},
			Width:    d.Width,
			Height:   d.Height,
			Radius:   d.Radius,
			Style:    StylePayload{Stroke: d.StrokeColor, Fill: d.FillColor, Width: d.StrokeWidth},
		}
	case *board.TextAnnotation:
		return ShapePayload{
			ID:         d.ID,
			Kind:       kindText,
			Position:   &PointPayload{X: d.Position.X, Y: d.Position.Y},
			Text:       d.Text,
			FontSize:   d.FontSize,
			FontFamily: d.FontFamily,
			Style:      StylePayload{Stroke: d.Color},
		}
	}
	return ShapePayload{}
}

func payloadToDrawable(p ShapePayload) (board.Drawable, error) {
	switch p.Kind {
	case kindStroke:
		pts := make([]board.Point, 0, len(p.Points)/2)
		for i := 0; i+1 < len(p.Points); i += 2 {
			pts = append(pts, board.Point{X: p.Points[i], Y: p.Points[i+1]})
		}
		return &board.Stroke{
			ID:     p.ID,
			Points: pts,
			Color:  p.Style.Stroke,
			Width:  p.Style.Width,
			Cap:    p.Style.Cap,
			Join:   p.Style.Join,
		}, nil
	case kindText:
		t := &board.TextAnnotation{
			ID:         p.ID,
			Text:       p.Text,
			FontSize:   p.FontSize,
			FontFamily: p.FontFamily,
			Color:      p.Style.Stroke,
		}
		if p.Position != nil {
			t.Position = board.Point{X: p.Position.X, Y: p.Position.Y}
		}
		return t, nil
	case string(board.KindLine), string(board.KindCircle), string(board.KindEllipse),
		string(board.KindRectangle), string(board.KindTriangle):
		s := &board.Shape{
			ID:          p.ID,
			Kind:        board.ShapeKind(p.Kind),
			Width:       p.Width,
			Height:      p.Height,
			Radius:      p.Radius,
			StrokeColor: p.Style.Stroke,
			FillColor:   p.Style.Fill,
			StrokeWidth: p.Style.Width,
		}
		if p.Position != nil {
			s.Origin = board.Point{X: p.Position.X, Y: p.Position.Y}
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown drawable kind %q", p.Kind)
}

func snapshotPayload(s board.Snapshot) SnapshotPayload {
	out := SnapshotPayload{Step: s.Step}
	for i := range s.Strokes {
		out.Strokes = append(out.Strokes, drawableToPayload(&s.Strokes[i]))
	}
	for i := range s.Shapes {
		out.Shapes = append(out.Shapes, drawableToPayload(&s.Shapes[i]))
	}
	for i := range s.Texts {
		out.Texts = append(out.Texts, drawableToPayload(&s.Texts[i]))
	}
	return out
}

func statePayload(snap board.Snapshot, history []board.Snapshot, step int) *StatePayload {
	sp := snapshotPayload(snap)
	state := &StatePayload{
		Strokes:     sp.Strokes,
		Shapes:      sp.Shapes,
		Texts:       sp.Texts,
		HistoryStep: step,
	}
	for _, h := range history {
		state.History = append(state.History, snapshotPayload(h))
	}
	return state
}

func payloadSnapshot(p SnapshotPayload) board.Snapshot {
	snap := board.Snapshot{Step: p.Step}
	for _, sp := range p.Strokes {
		if d, err := payloadToDrawable(sp); err == nil {
			if st, ok := d.(*board.Stroke); ok {
				snap.Strokes = append(snap.Strokes, *st)
			}
		}
	}
	for _, sp := range p.Shapes {
		if d, err := payloadToDrawable(sp); err == nil {
			if sh, ok := d.(*board.Shape); ok {
				snap.Shapes = append(snap.Shapes, *sh)
			}
		}
	}
	for _, sp := range p.Texts {
		if d, err := payloadToDrawable(sp); err == nil {
			if tx, ok := d.(*board.TextAnnotation); ok {
				snap.Texts = append(snap.Texts, *tx)
			}
		}
	}
	return snap
}

func payloadState(p *StatePayload) (board.Snapshot, []board.Snapshot, int) {
	snap := payloadSnapshot(SnapshotPayload{
		Strokes: p.Strokes,
		Shapes:  p.Shapes,
		Texts:   p.Texts,
		Step:    p.HistoryStep,
	})
	history := make([]board.Snapshot, 0, len(p.History))
	for _, h := range p.History {
		history = append(history, payloadSnapshot(h))
	}
	return snap, history, p.HistoryStep
}
