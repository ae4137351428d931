package remote

import (
	"encoding/json"
	"log"

	"PairBoard/internal/board"
)

// Processor applies inbound messages to the local session. It is the only
// entry point for remote state; every branch recovers locally, so a malformed
// operation never ends the drawing session.
type Processor struct {
	sess *board.Session

	// peerID is the sender id last seen on the channel, remembered so the
	// peer's ephemeral presence can be discarded when the channel closes.
	peerID string

	// OnSelection, when set, receives content-selection and overlay events,
	// which are opaque to the canvas core.
	OnSelection func(senderID string, payload json.RawMessage)
}

func NewProcessor(sess *board.Session) *Processor {
	return &Processor{sess: sess}
}

// Handle dispatches one inbound message by action.
func (p *Processor) Handle(msg Message) {
	if msg.SenderID != "" {
		p.peerID = msg.SenderID
	}
	switch msg.Action {
	case ActionDraw:
		if d, ok := p.decodeShape(msg); ok {
			p.sess.ApplyRemoteDraw(d)
		}
	case ActionUpdate:
		if d, ok := p.decodeShape(msg); ok {
			p.sess.ApplyRemoteUpdate(d)
		}
	case ActionErase:
		if msg.Shape == nil || msg.Shape.ID == "" {
			log.Printf("[remote] erase without id ignored")
			return
		}
		p.sess.ApplyRemoteErase(msg.Shape.ID)
	case ActionUndo, ActionRedo, ActionState:
		if msg.State == nil {
			log.Printf("[remote] %s without state ignored", msg.Action)
			return
		}
		snap, history, step := payloadState(msg.State)
		p.sess.ApplyRemoteState(snap, history, step)
	case ActionCursor:
		if msg.Position == nil || msg.SenderID == "" {
			return
		}
		p.sess.SetPeerCursor(board.Cursor{
			PeerID:   msg.SenderID,
			Position: board.Point{X: msg.Position.X, Y: msg.Position.Y},
			Color:    msg.Color,
			Label:    msg.Label,
		})
	case ActionBackground:
		if msg.Background == nil {
			log.Printf("[remote] background without payload ignored")
			return
		}
		p.sess.ApplyRemoteBackground(msg.Background.boardState())
	case ActionBackgroundTransition:
		if msg.Transition == nil {
			log.Printf("[remote] background-transition without payload ignored")
			return
		}
		p.sess.ApplyRemoteBackground(msg.Transition.background())
	case ActionContentSelection:
		if p.OnSelection != nil {
			p.OnSelection(msg.SenderID, msg.Selection)
		}
	default:
		log.Printf("[remote] ignoring unknown action %q", msg.Action)
	}
}

// HandleRaw decodes a JSON frame and dispatches it. Undecodable frames are
// logged and dropped.
func (p *Processor) HandleRaw(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("[remote] dropping undecodable frame: %v", err)
		return
	}
	p.Handle(msg)
}

// PeerGone discards the ephemeral presence of a disconnected peer.
func (p *Processor) PeerGone(peerID string) {
	p.sess.DropPeer(peerID)
}

// ChannelClosed discards the presence of whichever peer was behind the closed
// channel. Drawables stay; only the cursor is ephemeral.
func (p *Processor) ChannelClosed() {
	if p.peerID == "" {
		return
	}
	p.PeerGone(p.peerID)
	p.peerID = ""
}

func (p *Processor) decodeShape(msg Message) (board.Drawable, bool) {
	if msg.Shape == nil || msg.Shape.ID == "" {
		log.Printf("[remote] %s without shape ignored", msg.Action)
		return nil, false
	}
	d, err := payloadToDrawable(*msg.Shape)
	if err != nil {
		log.Printf("[remote] %s: %v", msg.Action, err)
		return nil, false
	}
	return d, true
}
