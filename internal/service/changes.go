package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/templui/portfolio/internal/cache"
	"github.com/templui/portfolio/internal/ctxkeys"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/realtime"
)

// Publisher receives row change events after a successful write.
type Publisher interface {
	Publish(ctx context.Context, e realtime.Event) error
}

// currentUser returns the request identity or ErrUnauthenticated.
func currentUser(ctx context.Context) (*model.User, error) {
	user := ctxkeys.User(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// changes invalidates cached reads and announces a write. Both are best effort:
// the write already happened, so failures are logged and not returned.
type changes struct {
	query  *cache.Query
	events Publisher
}

func (c changes) record(ctx context.Context, table string, typ realtime.EventType, row realtime.Row, keys ...string) {
	if c.query != nil && len(keys) > 0 {
		c.query.Invalidate(ctx, keys...)
	}

	if c.events == nil {
		return
	}

	e, err := realtime.NewEvent(table, typ, row)
	if err != nil {
		slog.Error("failed to build realtime event", "table", table, "error", err)
		return
	}

	err = c.events.Publish(ctx, e)
	if err != nil {
		slog.Warn("failed to publish realtime event", "table", table, "type", typ, "key", e.Key, "error", err)
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}
