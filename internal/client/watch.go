package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/templui/portfolio/internal/realtime"
)

// subscribe opens the realtime feed for table, limited to rows owned by
// ownerID when it is set. The connection is closed once ctx is done or the
// returned func is called.
func (c *Client) subscribe(ctx context.Context, table, ownerID string) (*websocket.Conn, func(), error) {
	wsURL := *c.baseURL
	wsURL.Scheme = strings.Replace(wsURL.Scheme, "http", "ws", 1)
	wsURL.Path += "/realtime"
	q := url.Values{"table": {table}}
	if ownerID != "" {
		q.Set("user_id", ownerID)
	}
	wsURL.RawQuery = q.Encode()

	header := http.Header{}
	if token := c.Session.Token(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to subscribe to %s changes: %w", table, err)
	}

	// Unblock ReadJSON when the caller is done.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	return conn, func() {
		stop()
		_ = conn.Close()
	}, nil
}

// readEvents hands every event on conn to apply until ctx is done or the
// connection drops.
func readEvents(ctx context.Context, conn *websocket.Conn, table string, apply func(realtime.Event)) error {
	for {
		var e realtime.Event
		err := conn.ReadJSON(&e)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%s subscription closed: %w", table, err)
		}
		apply(e)
	}
}

// watchList calls onChange with the current rows and again after every
// change pushed by the server. The feed is opened before the first read so
// no change between the two is missed.
func watchList[T realtime.Row, In, Patch any](ctx context.Context, col *Collection[T, In, Patch], onChange func([]T)) error {
	conn, closeConn, err := col.c.subscribe(ctx, col.table, "")
	if err != nil {
		return err
	}
	defer closeConn()

	rows, err := col.List(ctx)
	if err != nil {
		return err
	}
	onChange(rows)

	return readEvents(ctx, conn, col.table, func(e realtime.Event) {
		next, err := realtime.ReduceList(rows, e)
		if err != nil {
			slog.Warn("skipping realtime event", "table", col.table, "error", err)
			return
		}
		rows = next
		col.c.query.Invalidate(ctx, col.key)
		onChange(rows)
	})
}
