package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leagueboard/internal/room"
)

func openStream(t *testing.T, api *apiFixture) (*bufio.Reader, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, api.server.URL+"/api/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		resp.Body.Close()
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return bufio.NewReader(resp.Body), cancel
}

// readEvent returns the next frame's lines, without the terminating blank.
func readEvent(t *testing.T, br *bufio.Reader, within time.Duration) string {
	t.Helper()
	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		var lines []string
		for {
			line, err := br.ReadString('\n')
			if err != nil {
				done <- result{err: err}
				return
			}
			line = strings.TrimRight(line, "\n")
			if line == "" {
				done <- result{text: strings.Join(lines, "\n")}
				return
			}
			lines = append(lines, line)
		}
	}()
	select {
	case res := <-done:
		require.NoError(t, res.err)
		return res.text
	case <-time.After(within):
		t.Fatalf("timed out waiting for event")
		return ""
	}
}

func dataPayload(t *testing.T, event string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(event, "data: "), "not a data frame: %q", event)
	return strings.TrimPrefix(event, "data: ")
}

func TestStreamFirstFrameIsCurrentDocument(t *testing.T) {
	api := newAPI(t, http.StatusOK)
	resp := postJSON(t, api.server.URL+"/api/data", `{"teams":[{"name":"Hawks"}]}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	br, _ := openStream(t, api)
	frame := dataPayload(t, readEvent(t, br, time.Second))

	var viaGet documentBody
	getJSON(t, api.server.URL+"/api/data", &viaGet)

	var viaStream documentBody
	require.NoError(t, json.Unmarshal([]byte(frame), &viaStream))
	require.Len(t, viaStream.Teams, 1)
	assert.JSONEq(t, string(viaGet.Teams[0]), string(viaStream.Teams[0]))
	assert.Equal(t, viaGet.UpdatedAt, viaStream.UpdatedAt)
}

func TestStreamPushesAcceptedWrites(t *testing.T) {
	api := newAPI(t, http.StatusOK)

	br, _ := openStream(t, api)
	_ = readEvent(t, br, time.Second) // snapshot of the empty board

	for _, name := range []string{"one", "two"} {
		resp := postJSON(t, api.server.URL+"/api/data", `{"teams":[{"name":"`+name+`"}]}`, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	for _, want := range []string{"one", "two"} {
		var doc documentBody
		require.NoError(t, json.Unmarshal([]byte(dataPayload(t, readEvent(t, br, time.Second))), &doc))
		require.Len(t, doc.Teams, 1)
		assert.JSONEq(t, `{"name":"`+want+`"}`, string(doc.Teams[0]))
	}
}

func TestStreamKeepAliveWhenIdle(t *testing.T) {
	api := newAPI(t, http.StatusOK)

	br, _ := openStream(t, api)
	_ = readEvent(t, br, time.Second)

	// Wait for the handler's ticker to arm before moving time.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, api.clock.BlockUntilContext(ctx, 1))
	api.clock.Advance(30 * time.Second)

	assert.Equal(t, ": keep-alive", readEvent(t, br, time.Second))

	// Data still flows after a heartbeat.
	resp := postJSON(t, api.server.URL+"/api/data", `{"teams":[]}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(readEvent(t, br, time.Second), "data: "))
}

func TestStreamDisconnectRemovesListener(t *testing.T) {
	api := newAPI(t, http.StatusOK)

	br, cancel := openStream(t, api)
	_ = readEvent(t, br, time.Second)

	cancel()

	assert.Eventually(t, func() bool {
		reply := make(chan room.View, 1)
		api.room.Inbox() <- room.Stats{Reply: reply}
		select {
		case v := <-reply:
			return v.Listeners == 0
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 20*time.Millisecond, "disconnect should promptly unsubscribe")
}
