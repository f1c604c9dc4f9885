package dashboard

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"printer-repair-backend/internal/changefeed"
	"printer-repair-backend/internal/model"
)

// Fetcher is the read side of the remote data store. Each call returns the
// complete authoritative collection for one entity kind.
type Fetcher interface {
	FetchBookings(ctx context.Context) ([]model.Booking, error)
	FetchTechnicians(ctx context.Context) ([]model.Technician, error)
	FetchPrinterBrands(ctx context.Context) ([]model.PrinterBrand, error)
	FetchProblemCategories(ctx context.Context) ([]model.ProblemCategory, error)
}

// Notifier receives the message of each new-booking alert for out-of-band
// delivery (web push). Implementations must not block.
type Notifier interface {
	Notify(message string)
}

// Snapshot is the full reconciled state handed to the presentation layer.
type Snapshot struct {
	Bookings      []model.Booking         `json:"bookings"`
	Technicians   []model.Technician      `json:"technicians"`
	Brands        []model.PrinterBrand    `json:"brands"`
	Categories    []model.ProblemCategory `json:"categories"`
	Stats         Stats                   `json:"stats"`
	Notifications []Notification          `json:"notifications"`
}

// Options tunes the engine.
type Options struct {
	// Debounce is the quiet period a burst of change events must survive
	// before triggering one trailing refetch. Zero refetches immediately.
	Debounce time.Duration
	// NotificationRetention bounds the alert log.
	NotificationRetention int
}

// Engine owns the entity snapshots and keeps them reconciled with the remote
// store. On any change event for a table it refetches that table's full
// collection and atomically replaces the snapshot; it never merges individual
// rows by hand. Refetches for the same table are serialized and debounced,
// refetches for different tables run independently.
type Engine struct {
	fetcher  Fetcher
	feed     changefeed.Feed
	notifier Notifier
	debounce time.Duration

	bookings    EntityStore[model.Booking]
	technicians EntityStore[model.Technician]
	brands      EntityStore[model.PrinterBrand]
	categories  EntityStore[model.ProblemCategory]

	notifications *NotificationLog

	statsMu sync.RWMutex
	stats   Stats

	// knownBookings tracks every booking id in the last applied snapshot.
	// Replaced wholesale on each bookings refetch.
	knownMu       sync.Mutex
	knownBookings map[string]struct{}

	// triggers is written once during Start, before any subscription is
	// live, and read-only afterwards.
	triggers map[string]chan struct{}

	subs     []changefeed.Subscription
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New creates an engine with injected store and transport dependencies.
// notifier may be nil.
func New(fetcher Fetcher, feed changefeed.Feed, notifier Notifier, opts Options) *Engine {
	return &Engine{
		fetcher:       fetcher,
		feed:          feed,
		notifier:      notifier,
		debounce:      opts.Debounce,
		notifications: NewNotificationLog(opts.NotificationRetention),
		knownBookings: make(map[string]struct{}),
	}
}

// Start bootstraps every entity kind and then subscribes to the six table
// change streams. The bootstrap is all-or-nothing: if any fetch fails the
// engine is not ready and no subscriptions are left behind.
func (e *Engine) Start(ctx context.Context) error {
	var (
		bookings    []model.Booking
		technicians []model.Technician
		brands      []model.PrinterBrand
		categories  []model.ProblemCategory
	)

	errs := make(chan error, 4)
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		var err error
		if bookings, err = e.fetcher.FetchBookings(ctx); err != nil {
			errs <- err
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if technicians, err = e.fetcher.FetchTechnicians(ctx); err != nil {
			errs <- err
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if brands, err = e.fetcher.FetchPrinterBrands(ctx); err != nil {
			errs <- err
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if categories, err = e.fetcher.FetchProblemCategories(ctx); err != nil {
			errs <- err
		}
	}()
	wg.Wait()
	close(errs)
	if err := <-errs; err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	e.bookings.Replace(bookings)
	e.technicians.Replace(technicians)
	e.brands.Replace(brands)
	e.categories.Replace(categories)
	e.recomputeStats()

	// Seed the known id set without notifying: bookings present at startup
	// are not "new".
	e.knownMu.Lock()
	for _, b := range bookings {
		e.knownBookings[b.ID] = struct{}{}
	}
	e.knownMu.Unlock()

	runCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	channels := []struct {
		table   string
		refetch func(context.Context) error
	}{
		{changefeed.TableBookings, e.refetchBookings},
		{changefeed.TableTechnicians, e.refetchTechnicians},
		{changefeed.TableBrands, e.refetchBrands},
		{changefeed.TableModels, e.refetchBrands},
		{changefeed.TableCategories, e.refetchCategories},
		{changefeed.TableProblems, e.refetchCategories},
	}

	e.triggers = make(map[string]chan struct{}, len(channels))
	for _, ch := range channels {
		trigger := make(chan struct{}, 1)
		e.triggers[ch.table] = trigger
		e.wg.Add(1)
		go e.refetchLoop(runCtx, ch.table, trigger, ch.refetch)
	}

	for _, ch := range channels {
		sub, err := e.feed.Subscribe(ch.table, e.handleChange)
		if err != nil {
			e.Stop()
			return fmt.Errorf("subscribe %s: %w", ch.table, err)
		}
		e.subs = append(e.subs, sub)
	}

	log.Printf("dashboard: engine started, tracking %d change streams", len(channels))
	return nil
}

// Stop closes all subscriptions and waits for the refetch workers to exit.
// Safe to call after a partially failed Start and safe to call twice.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		for _, sub := range e.subs {
			if err := sub.Close(); err != nil {
				log.Printf("dashboard: closing subscription: %v", err)
			}
		}
		if e.cancel != nil {
			e.cancel()
		}
		e.wg.Wait()
	})
}

// handleChange is invoked by every subscriber. It only arms the table's
// trigger; the heavy lifting happens on the table's refetch worker. The
// trigger channel has capacity one, so a burst of events collapses into a
// single pending refetch.
func (e *Engine) handleChange(ev changefeed.Event) {
	trigger, ok := e.triggers[ev.Table]
	if !ok {
		log.Printf("dashboard: change event for untracked table %q", ev.Table)
		return
	}
	select {
	case trigger <- struct{}{}:
	default:
	}
}

// refetchLoop serializes refetches for one table. After a trigger it waits
// out the debounce window, absorbing further triggers, then refetches once.
// A failed refetch keeps the last-good snapshot; the next change event
// retries.
func (e *Engine) refetchLoop(ctx context.Context, table string, trigger chan struct{}, refetch func(context.Context) error) {
	defer e.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-trigger:
		}

		if e.debounce > 0 {
			timer := time.NewTimer(e.debounce)
		quiet:
			for {
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-trigger:
					if !timer.Stop() {
						<-timer.C
					}
					timer.Reset(e.debounce)
				case <-timer.C:
					break quiet
				}
			}
		}

		if err := refetch(ctx); err != nil {
			log.Printf("dashboard: refetch %s failed, keeping previous snapshot: %v", table, err)
		}
	}
}

func (e *Engine) refetchBookings(ctx context.Context) error {
	bookings, err := e.fetcher.FetchBookings(ctx)
	if err != nil {
		return err
	}
	e.bookings.Replace(bookings)
	e.recomputeStats()
	e.detectNewBookings(bookings)
	return nil
}

func (e *Engine) refetchTechnicians(ctx context.Context) error {
	technicians, err := e.fetcher.FetchTechnicians(ctx)
	if err != nil {
		return err
	}
	e.technicians.Replace(technicians)
	e.recomputeStats()
	return nil
}

func (e *Engine) refetchBrands(ctx context.Context) error {
	brands, err := e.fetcher.FetchPrinterBrands(ctx)
	if err != nil {
		return err
	}
	e.brands.Replace(brands)
	return nil
}

func (e *Engine) refetchCategories(ctx context.Context) error {
	categories, err := e.fetcher.FetchProblemCategories(ctx)
	if err != nil {
		return err
	}
	e.categories.Replace(categories)
	return nil
}

// detectNewBookings diffs the refreshed list against the known id set and
// emits one alert per unseen booking, in list order. Diffing by id keeps the
// detection correct under reordering and makes emission idempotent: replaying
// the same list appends nothing, and a booking can never alert twice.
func (e *Engine) detectNewBookings(bookings []model.Booking) {
	e.knownMu.Lock()
	fresh := make([]model.Booking, 0, 4)
	seen := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		seen[b.ID] = struct{}{}
		if _, ok := e.knownBookings[b.ID]; !ok {
			fresh = append(fresh, b)
		}
	}
	e.knownBookings = seen
	e.knownMu.Unlock()

	for _, b := range fresh {
		n := e.notifications.Append(b.ID, fmt.Sprintf("Booking baru dari %s - %s", b.CustomerName, b.ID))
		if e.notifier != nil {
			e.notifier.Notify(n.Message)
		}
	}
}

func (e *Engine) recomputeStats() {
	stats := ProjectStats(e.bookings.Current(), e.technicians.Current())
	e.statsMu.Lock()
	e.stats = stats
	e.statsMu.Unlock()
}

// Stats returns the latest derived counters.
func (e *Engine) Stats() Stats {
	e.statsMu.RLock()
	defer e.statsMu.RUnlock()
	return e.stats
}

// Notifications returns the retained alert feed, oldest first.
func (e *Engine) Notifications() []Notification {
	return e.notifications.All()
}

// Snapshot assembles the full reconciled state for the presentation layer.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Bookings:      e.bookings.Current(),
		Technicians:   e.technicians.Current(),
		Brands:        e.brands.Current(),
		Categories:    e.categories.Current(),
		Stats:         e.Stats(),
		Notifications: e.notifications.All(),
	}
}
