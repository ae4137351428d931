package remote

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"PairBoard/internal/board"
)

// ErrChannelUnavailable reports that no peer channel is attached. Local
// operations still apply; only the broadcast is skipped.
var ErrChannelUnavailable = errors.New("no peer channel attached")

// Channel is the point-to-point send capability provided by the connection
// layer. Sends are fire-and-forget: in-order while the channel is open, no
// delivery guarantee otherwise. The core performs no connection setup, retry
// or peer discovery.
type Channel interface {
	Send(Message) error
}

// cursorInterval bounds the outbound cursor rate to a few messages per
// second per peer.
const cursorInterval = 250 * time.Millisecond

// Broadcaster encodes local operations and pushes them to the attached
// channel. It is the session's OnLocalOp sink. A mutex guards the throttle
// state because the deferred cursor flush runs on a timer goroutine.
type Broadcaster struct {
	senderID string

	mu         sync.Mutex
	ch         Channel
	lastCursor time.Time
	pending    *Message
	flusher    *time.Timer

	now func() time.Time
}

func NewBroadcaster(senderID string) *Broadcaster {
	return &Broadcaster{senderID: senderID, now: time.Now}
}

// Attach installs the peer channel.
func (b *Broadcaster) Attach(ch Channel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ch = ch
}

// Detach drops the peer channel; subsequent broadcasts are skipped silently
// and any cursor position held back by the throttle is discarded.
func (b *Broadcaster) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ch = nil
	b.pending = nil
	if b.flusher != nil {
		b.flusher.Stop()
		b.flusher = nil
	}
}

// Connected reports whether a peer channel is attached.
func (b *Broadcaster) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ch != nil
}

// Broadcast sends one local operation to the peer. Without a channel the
// operation is skipped. Cursor operations beyond the bounded rate are held
// back, newest position wins, and the survivor is flushed once the interval
// elapses so the remote cursor never rests on a stale position.
func (b *Broadcaster) Broadcast(op board.Op) {
	msg, err := EncodeOp(b.senderID, op)
	if err != nil {
		log.Printf("[remote] cannot encode %s op: %v", op.Action, err)
		return
	}

	b.mu.Lock()
	if b.ch == nil {
		b.mu.Unlock()
		return
	}
	if op.Action == board.OpCursor {
		ts := b.now()
		if elapsed := ts.Sub(b.lastCursor); elapsed < cursorInterval {
			b.pending = &msg
			if b.flusher == nil {
				b.flusher = time.AfterFunc(cursorInterval-elapsed, b.flushCursor)
			}
			b.mu.Unlock()
			return
		}
		b.lastCursor = ts
		b.pending = nil
	}
	ch := b.ch
	b.mu.Unlock()

	if err := ch.Send(msg); err != nil {
		log.Printf("[remote] send failed for %s: %v", msg.Action, err)
	}
}

// flushCursor delivers the cursor position the throttle held back.
func (b *Broadcaster) flushCursor() {
	b.mu.Lock()
	msg := b.pending
	ch := b.ch
	b.pending = nil
	b.flusher = nil
	if msg != nil {
		b.lastCursor = b.now()
	}
	b.mu.Unlock()

	if msg == nil || ch == nil {
		return
	}
	if err := ch.Send(*msg); err != nil {
		log.Printf("[remote] send failed for %s: %v", msg.Action, err)
	}
}

// SendSelection forwards a content-selection or overlay event. The payload is
// opaque to the canvas core; it belongs to whichever overlay is active.
func (b *Broadcaster) SendSelection(payload json.RawMessage) error {
	b.mu.Lock()
	ch := b.ch
	b.mu.Unlock()
	if ch == nil {
		return ErrChannelUnavailable
	}
	return ch.Send(Message{
		Action:    ActionContentSelection,
		SenderID:  b.senderID,
		Selection: payload,
	})
}
