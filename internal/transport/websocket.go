package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"streamcap/internal/config"
	"streamcap/internal/logger"
)

const stallWarningsOption = "stall_warnings"

// Websocket streams messages over a websocket connection. Subscription
// parameters travel as query parameters on the connect URL; each websocket
// frame carries one or more newline-delimited JSON payloads.
type Websocket struct {
	url    string
	dialer *websocket.Dialer
	logger logger.Logger
}

func NewWebsocket(cfg config.StreamConfig, log logger.Logger) *Websocket {
	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: cfg.HandshakeTimeout,
	}
	return &Websocket{
		url:    cfg.URL,
		dialer: dialer,
		logger: log,
	}
}

func (t *Websocket) Open(ctx context.Context, params Params) (Stream, error) {
	u, err := url.Parse(t.url)
	if err != nil {
		return nil, fmt.Errorf("malformed stream URL: %w", err)
	}

	q := u.Query()
	if len(params.Track) > 0 {
		q.Set("track", strings.Join(params.Track, ","))
	}
	if len(params.Locations) > 0 {
		q.Set("locations", joinFloats(params.Locations))
	}
	if len(params.Languages) > 0 {
		q.Set("language", strings.Join(params.Languages, ","))
	}
	if params.StallWarnings {
		q.Set(stallWarningsOption, "true")
	}
	u.RawQuery = q.Encode()

	t.logger.Debugw("opening stream", "url", u.Redacted())

	conn, resp, err := t.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			if resp.StatusCode == http.StatusBadRequest {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
				if bytes.Contains(body, []byte(stallWarningsOption)) {
					return nil, &UnsupportedOptionError{Option: stallWarningsOption}
				}
			}
			return nil, fmt.Errorf("dial %s: status %d: %w", u.Host, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial %s: %w", u.Host, err)
	}

	s := &wsStream{conn: conn, done: make(chan struct{})}

	// Unblock a pending read when the session context ends; the loop treats
	// the resulting read error as an operator interrupt. Closing the stream
	// releases the watcher so reconnect cycles do not accumulate goroutines.
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-s.done:
		}
	}()

	return s, nil
}

type wsStream struct {
	conn      *websocket.Conn
	pending   [][]byte
	done      chan struct{}
	closeOnce sync.Once
}

func (s *wsStream) Next(ctx context.Context) ([]byte, error) {
	for {
		if len(s.pending) > 0 {
			line := s.pending[0]
			s.pending = s.pending[1:]
			return line, nil
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, io.EOF
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("read stream: %w", err)
		}

		// Blank lines are keep-alives and are dropped here.
		for _, line := range bytes.Split(payload, []byte("\n")) {
			line = bytes.TrimSpace(line)
			if len(line) > 0 {
				s.pending = append(s.pending, line)
			}
		}
	}
}

func (s *wsStream) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return s.conn.Close()
}

func joinFloats(values []float64) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return strings.Join(parts, ",")
}
