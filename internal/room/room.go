// Package room serializes all board activity through a single actor.
//
// The room owns the document: every read, write and stream subscription
// passes through its inbox and runs on one goroutine, so a save and its
// broadcast are a single indivisible step and updates reach listeners in
// acceptance order. The only path that bypasses the inbox is Unsubscribe,
// which must stay prompt even while the loop sits inside a slow save.
package room

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"leagueboard/internal/board"
	"leagueboard/internal/hub"
	"leagueboard/internal/store"
)

type Msg interface{ isRoomMsg() }

// Get asks for the current document.
type Get struct {
	Reply chan Result
}

func (Get) isRoomMsg() {}

// Update replaces the team list. Teams must be a JSON array.
type Update struct {
	Teams json.RawMessage
	Reply chan Result
}

func (Update) isRoomMsg() {}

// OpenStream subscribes a new listener primed with the current document.
type OpenStream struct {
	Reply chan StreamResult
}

func (OpenStream) isRoomMsg() {}

// Stats reports internals without data races. Used by tests and health.
type Stats struct {
	Reply chan View
}

func (Stats) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

// Result carries a document or the error that prevented one.
type Result struct {
	Doc board.Document
	Err error
}

// StreamResult carries a subscribed listener or the error that prevented one.
type StreamResult struct {
	Listener *hub.Listener
	Err      error
}

type View struct {
	Ready     bool
	Listeners int
}

type Room struct {
	inbox chan Msg
	store store.Store
	hub   *hub.Hub
	log   *zap.Logger

	doc   board.Document
	ready bool

	ctx    context.Context
	cancel context.CancelFunc
}

// New starts the room's loop. Reply channels on messages sent to the inbox
// must have capacity 1 so the loop never blocks on an abandoned caller.
func New(parent context.Context, st store.Store, h *hub.Hub, log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		inbox:  make(chan Msg, 64), // Small buffer
		store:  st,
		hub:    h,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}

	go r.loop()
	return r
}

// Inbox exposes the message channel to handlers and tests.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Unsubscribe detaches a listener immediately, without queueing behind
// whatever the loop is doing.
func (r *Room) Unsubscribe(id uuid.UUID) { r.hub.Unsubscribe(id) }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Get:
				if err := r.ensureLoaded(); err != nil {
					msg.Reply <- Result{Err: err}
					break
				}
				msg.Reply <- Result{Doc: r.doc.Clone()}

			case Update:
				if err := r.ensureLoaded(); err != nil {
					msg.Reply <- Result{Err: err}
					break
				}
				doc, err := r.store.Save(r.ctx, msg.Teams)
				if err != nil {
					msg.Reply <- Result{Err: err}
					break
				}
				r.doc = doc
				delivered, evicted := r.hub.Publish(doc)
				r.log.Debug("document updated",
					zap.Int("teams", len(doc.Teams)),
					zap.Int("delivered", delivered),
					zap.Int("evicted", evicted))
				msg.Reply <- Result{Doc: doc.Clone()}

			case OpenStream:
				if err := r.ensureLoaded(); err != nil {
					msg.Reply <- StreamResult{Err: err}
					break
				}
				l, err := r.hub.Subscribe(r.doc)
				msg.Reply <- StreamResult{Listener: l, Err: err}

			case Stats:
				msg.Reply <- View{Ready: r.ready, Listeners: r.hub.Count()}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

// ensureLoaded pulls the document from storage on the first operation that
// needs it. On failure the room stays not-ready and the next operation
// retries, so a flaky database at boot does not wedge the service.
func (r *Room) ensureLoaded() error {
	if r.ready {
		return nil
	}
	doc, err := r.store.Load(r.ctx)
	if err != nil {
		r.log.Error("document load failed", zap.Error(err))
		return err
	}
	r.doc = doc
	r.ready = true
	return nil
}

func (r *Room) shutdown() {
	r.hub.CloseAll()
	r.cancel()
}
