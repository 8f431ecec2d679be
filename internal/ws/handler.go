// Package ws streams the board document over a websocket, for clients that
// prefer a socket to server-sent events. The stream is write-only: inbound
// messages are discarded and writes still go through POST /api/data.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"leagueboard/internal/room"
)

const (
	writeTimeout = 3 * time.Second
	pingInterval = 30 * time.Second
)

func Handler(rm *room.Room, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// The HTTP API is already open cross-origin; the socket matches.
			InsecureSkipVerify: true,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		reply := make(chan room.StreamResult, 1)
		rm.Inbox() <- room.OpenStream{Reply: reply}
		res := <-reply
		if res.Err != nil {
			conn.Close(websocket.StatusInternalError, "board unavailable")
			return
		}
		listener := res.Listener
		defer rm.Unsubscribe(listener.ID)

		// CloseRead discards inbound frames and cancels the context when the
		// peer goes away.
		ctx := conn.CloseRead(r.Context())

		ping := time.NewTicker(pingInterval)
		defer ping.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case frame, ok := <-listener.C:
				if !ok {
					return
				}
				writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
				err := conn.Write(writeCtx, websocket.MessageText, frame)
				cancel()
				if err != nil {
					log.Debug("websocket write failed", zap.Error(err))
					return
				}

			case <-ping.C:
				pingCtx, cancel := context.WithTimeout(ctx, writeTimeout)
				err := conn.Ping(pingCtx)
				cancel()
				if err != nil {
					return
				}
			}
		}
	}
}
