package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"leagueboard/internal/room"
)

// keepAliveInterval is how long a stream may sit idle before a comment
// frame goes out to hold the connection open.
const keepAliveInterval = 30 * time.Second

// Stream serves the board over server-sent events. The first frame is the
// current document; each accepted write pushes one more frame; comment
// frames fill idle gaps.
func Stream(rm *room.Room, clock clockwork.Clock, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		reply := make(chan room.StreamResult, 1)
		rm.Inbox() <- room.OpenStream{Reply: reply}
		res := <-reply
		if res.Err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to open stream")
			return
		}
		listener := res.Listener
		defer rm.Unsubscribe(listener.ID)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		keepAlive := clock.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()

		log.Debug("stream opened", zap.String("listener", listener.ID.String()))
		defer log.Debug("stream closed", zap.String("listener", listener.ID.String()))

		for {
			select {
			case <-r.Context().Done():
				return

			case frame, ok := <-listener.C:
				if !ok {
					// Evicted or room shut down.
					return
				}
				fmt.Fprintf(w, "data: %s\n\n", frame)
				flusher.Flush()
				keepAlive.Reset(keepAliveInterval)

			case <-keepAlive.Chan():
				fmt.Fprint(w, ": keep-alive\n\n")
				flusher.Flush()
			}
		}
	}
}
