package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamcap/internal/config"
	"streamcap/internal/logger"
)

var upgrader = websocket.Upgrader{}

func newTestTransport(t *testing.T, handler http.HandlerFunc) (*Websocket, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	tr := NewWebsocket(config.StreamConfig{
		URL:              wsURL,
		HandshakeTimeout: time.Second,
	}, logger.NopLogger())
	return tr, server
}

func TestWebsocketStreamsMessages(t *testing.T) {
	var gotQuery string
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		// One message per frame, then a multi-line frame with keep-alive
		// blanks, then a normal close.
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"a":1}`)))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{\"b\":2}\n\n{\"c\":3}\n")))
		require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	})

	ctx := context.Background()
	stream, err := tr.Open(ctx, Params{
		Track:         []string{"go", "streams"},
		Locations:     []float64{-122.75, 36.8, -121.75, 37.8},
		StallWarnings: true,
	})
	require.NoError(t, err)
	defer stream.Close()

	assert.Contains(t, gotQuery, "track=go%2Cstreams")
	assert.Contains(t, gotQuery, "locations=-122.75%2C36.8%2C-121.75%2C37.8")
	assert.Contains(t, gotQuery, "stall_warnings=true")

	var lines []string
	for {
		raw, err := stream.Next(ctx)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		lines = append(lines, string(raw))
	}
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`, `{"c":3}`}, lines)
}

func TestWebsocketUnsupportedOption(t *testing.T) {
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("stall_warnings") != "" {
			http.Error(w, `{"error":"stall_warnings is not supported"}`, http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		conn.Close()
	})

	_, err := tr.Open(context.Background(), Params{Track: []string{"x"}, StallWarnings: true})
	var unsupported *UnsupportedOptionError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "stall_warnings", unsupported.Option)

	// The same attempt succeeds with the option disabled.
	stream, err := tr.Open(context.Background(), Params{Track: []string{"x"}})
	require.NoError(t, err)
	stream.Close()
}

func TestWebsocketContextCancelUnblocksRead(t *testing.T) {
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		// Hold the connection open without sending anything.
		time.Sleep(2 * time.Second)
	})

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := tr.Open(ctx, Params{Track: []string{"x"}})
	require.NoError(t, err)
	defer stream.Close()

	done := make(chan error, 1)
	go func() {
		_, err := stream.Next(ctx)
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Next did not unblock after context cancellation")
	}
}

func TestWebsocketCloseReleasesWatcher(t *testing.T) {
	tr, _ := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		conn.Close()
	})

	// The session loop opens and closes one stream per reconnect cycle under
	// a context that stays alive for the whole session. Repeated cycles must
	// not accumulate goroutines.
	ctx := context.Background()
	before := runtime.NumGoroutine()

	const cycles = 50
	for i := 0; i < cycles; i++ {
		stream, err := tr.Open(ctx, Params{Track: []string{"x"}})
		require.NoError(t, err)
		require.NoError(t, stream.Close())
	}

	var after int
	for i := 0; i < 20; i++ {
		runtime.Gosched()
		time.Sleep(10 * time.Millisecond)
		after = runtime.NumGoroutine()
		if after <= before+2 {
			break
		}
	}
	assert.LessOrEqual(t, after, before+2,
		"goroutines grew from %d to %d over %d open/close cycles", before, after, cycles)
}
