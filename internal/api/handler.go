package api

import (
	"context"
	"log"

	"github.com/SherClockHolmes/webpush-go"

	"printer-repair-backend/internal/changefeed"
	"printer-repair-backend/internal/dashboard"
	"printer-repair-backend/internal/store"
)

// Handler holds shared dependencies for API handlers. Reads are served from
// the engine's reconciled snapshot; writes go to the store and publish the
// matching change event.
type Handler struct {
	store   store.Store
	engine  *dashboard.Engine
	feed    changefeed.Publisher
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, engine *dashboard.Engine, feed changefeed.Publisher, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		engine:  engine,
		feed:    feed,
		webpush: webpushOptions,
	}
}

// publishChange emits a change event after a successful mutation. The
// mutation already happened, so a publish failure is logged, not surfaced:
// the dashboard will catch up on the next event for that table.
func (h *Handler) publishChange(ctx context.Context, table string, op changefeed.Op, row any) {
	if h.feed == nil {
		return
	}
	if err := h.feed.Publish(ctx, changefeed.NewRowEvent(table, op, row)); err != nil {
		log.Printf("api: publish %s change for %s failed: %v", op, table, err)
	}
}
