package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printer-repair-backend/internal/changefeed"
	"printer-repair-backend/internal/model"
)

// fakeFetcher serves settable collections and counts fetches per kind.
type fakeFetcher struct {
	mu          sync.Mutex
	bookings    []model.Booking
	technicians []model.Technician
	brands      []model.PrinterBrand
	categories  []model.ProblemCategory
	err         error

	bookingFetches  int
	brandFetches    int
	categoryFetches int
}

func (f *fakeFetcher) FetchBookings(ctx context.Context) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookingFetches++
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Booking(nil), f.bookings...), nil
}

func (f *fakeFetcher) FetchTechnicians(ctx context.Context) ([]model.Technician, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Technician(nil), f.technicians...), nil
}

func (f *fakeFetcher) FetchPrinterBrands(ctx context.Context) ([]model.PrinterBrand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.brandFetches++
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.PrinterBrand(nil), f.brands...), nil
}

func (f *fakeFetcher) FetchProblemCategories(ctx context.Context) ([]model.ProblemCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categoryFetches++
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.ProblemCategory(nil), f.categories...), nil
}

func (f *fakeFetcher) set(mutate func(*fakeFetcher)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	mutate(f)
}

func (f *fakeFetcher) counts() (bookings, brands, categories int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookingFetches, f.brandFetches, f.categoryFetches
}

// fakeFeed delivers events synchronously to registered handlers.
type fakeFeed struct {
	mu       sync.Mutex
	handlers map[string]changefeed.Handler
	closed   int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{handlers: make(map[string]changefeed.Handler)}
}

func (f *fakeFeed) Subscribe(table string, handler changefeed.Handler) (changefeed.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[table] = handler
	return &fakeSubscription{feed: f}, nil
}

func (f *fakeFeed) Emit(table string, op changefeed.Op) {
	f.mu.Lock()
	handler := f.handlers[table]
	f.mu.Unlock()
	if handler != nil {
		handler(changefeed.Event{Table: table, Op: op})
	}
}

func (f *fakeFeed) closedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeSubscription struct{ feed *fakeFeed }

func (s *fakeSubscription) Close() error {
	s.feed.mu.Lock()
	s.feed.closed++
	s.feed.mu.Unlock()
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) Notify(message string) {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
}

func (n *fakeNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

func startedEngine(t *testing.T, fetcher *fakeFetcher, feed *fakeFeed, notifier Notifier) *Engine {
	t.Helper()
	engine := New(fetcher, feed, notifier, Options{})
	require.NoError(t, engine.Start(context.Background()))
	t.Cleanup(engine.Stop)
	return engine
}

func TestEngineBootstrap(t *testing.T) {
	fetcher := &fakeFetcher{
		bookings:    []model.Booking{{ID: "a", CustomerName: "Andi", Status: model.StatusPending}},
		technicians: []model.Technician{{ID: "t1", IsActive: true}, {ID: "t2", IsActive: false}},
		brands:      []model.PrinterBrand{{ID: "br1", Name: "Canon"}},
		categories:  []model.ProblemCategory{{ID: "c1", Name: "Paper Jam"}},
	}
	engine := startedEngine(t, fetcher, newFakeFeed(), nil)

	snap := engine.Snapshot()
	assert.Len(t, snap.Bookings, 1)
	assert.Len(t, snap.Technicians, 2)
	assert.Len(t, snap.Brands, 1)
	assert.Len(t, snap.Categories, 1)
	assert.Equal(t, 1, snap.Stats.TotalBookings)
	assert.Equal(t, 1, snap.Stats.PendingBookings)
	assert.Equal(t, 1, snap.Stats.ActiveTechnicians)

	// Bookings present at startup are not "new".
	assert.Empty(t, snap.Notifications)
}

func TestEngineBootstrapFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("store unavailable")}
	feed := newFakeFeed()
	engine := New(fetcher, feed, nil, Options{})

	err := engine.Start(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "bootstrap")

	// No subscriptions were opened for a dashboard that never became ready.
	feed.mu.Lock()
	defer feed.mu.Unlock()
	assert.Empty(t, feed.handlers)
}

func TestEngineNewBookingNotification(t *testing.T) {
	fetcher := &fakeFetcher{
		bookings: []model.Booking{{ID: "a", CustomerName: "Andi", Status: model.StatusPending}},
	}
	feed := newFakeFeed()
	notifier := &fakeNotifier{}
	engine := startedEngine(t, fetcher, feed, notifier)

	// B arrives; the refetch returns newest first.
	fetcher.set(func(f *fakeFetcher) {
		f.bookings = []model.Booking{
			{ID: "b", CustomerName: "Budi", Status: model.StatusPending},
			{ID: "a", CustomerName: "Andi", Status: model.StatusPending},
		}
	})
	feed.Emit(changefeed.TableBookings, changefeed.OpInsert)

	require.Eventually(t, func() bool {
		return len(engine.Notifications()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	notifications := engine.Notifications()
	assert.Equal(t, "b", notifications[0].BookingID)
	assert.Equal(t, "Booking baru dari Budi - b", notifications[0].Message)

	snap := engine.Snapshot()
	assert.Len(t, snap.Bookings, 2)
	assert.Equal(t, "b", snap.Bookings[0].ID)
	assert.Equal(t, 2, snap.Stats.TotalBookings)

	assert.Equal(t, []string{"Booking baru dari Budi - b"}, notifier.all())
}

func TestEngineReplayAddsNoNotifications(t *testing.T) {
	fetcher := &fakeFetcher{
		bookings: []model.Booking{{ID: "a", CustomerName: "Andi", Status: model.StatusPending}},
	}
	feed := newFakeFeed()
	engine := startedEngine(t, fetcher, feed, nil)

	fetcher.set(func(f *fakeFetcher) {
		f.bookings = append([]model.Booking{{ID: "b", CustomerName: "Budi"}}, f.bookings...)
	})
	feed.Emit(changefeed.TableBookings, changefeed.OpInsert)
	require.Eventually(t, func() bool {
		return len(engine.Notifications()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Same list again: the refetch must be idempotent.
	feed.Emit(changefeed.TableBookings, changefeed.OpUpdate)
	require.Eventually(t, func() bool {
		fetches, _, _ := fetcher.counts()
		return fetches >= 3 // bootstrap + two refetches
	}, 2*time.Second, 10*time.Millisecond)

	assert.Len(t, engine.Notifications(), 1)
}

func TestEngineRefetchFailureKeepsSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{
		bookings: []model.Booking{{ID: "a", CustomerName: "Andi", Status: model.StatusCompleted}},
	}
	feed := newFakeFeed()
	engine := startedEngine(t, fetcher, feed, nil)

	fetcher.set(func(f *fakeFetcher) { f.err = errors.New("store down") })
	feed.Emit(changefeed.TableBookings, changefeed.OpUpdate)

	require.Eventually(t, func() bool {
		fetches, _, _ := fetcher.counts()
		return fetches >= 2
	}, 2*time.Second, 10*time.Millisecond)

	// Last-good snapshot retained.
	snap := engine.Snapshot()
	assert.Len(t, snap.Bookings, 1)
	assert.Equal(t, "a", snap.Bookings[0].ID)

	// And the next event after recovery reconciles again.
	fetcher.set(func(f *fakeFetcher) {
		f.err = nil
		f.bookings = []model.Booking{
			{ID: "b", CustomerName: "Budi"},
			{ID: "a", CustomerName: "Andi", Status: model.StatusCompleted},
		}
	})
	feed.Emit(changefeed.TableBookings, changefeed.OpInsert)
	require.Eventually(t, func() bool {
		return len(engine.Snapshot().Bookings) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEngineModelDeleteRefetchesOwningBrand(t *testing.T) {
	fetcher := &fakeFetcher{
		brands: []model.PrinterBrand{
			{ID: "br1", Name: "Canon", Models: []model.PrinterModel{
				{ID: "m1", BrandID: "br1", Name: "PIXMA", Type: model.TypeInkjet},
				{ID: "m2", BrandID: "br1", Name: "imageCLASS", Type: model.TypeLaser},
			}},
			{ID: "br2", Name: "Epson", Models: []model.PrinterModel{
				{ID: "m3", BrandID: "br2", Name: "EcoTank", Type: model.TypeInkjet},
			}},
		},
	}
	feed := newFakeFeed()
	engine := startedEngine(t, fetcher, feed, nil)

	fetcher.set(func(f *fakeFetcher) {
		f.brands[0].Models = f.brands[0].Models[1:] // m1 deleted
	})
	feed.Emit(changefeed.TableModels, changefeed.OpDelete)

	require.Eventually(t, func() bool {
		brands := engine.Snapshot().Brands
		return len(brands) == 2 && len(brands[0].Models) == 1
	}, 2*time.Second, 10*time.Millisecond)

	brands := engine.Snapshot().Brands
	assert.Equal(t, "m2", brands[0].Models[0].ID)
	assert.Len(t, brands[1].Models, 1, "other brand untouched")
}

func TestEngineTechnicianChangeUpdatesStats(t *testing.T) {
	fetcher := &fakeFetcher{
		technicians: []model.Technician{{ID: "t1", IsActive: true}},
	}
	feed := newFakeFeed()
	engine := startedEngine(t, fetcher, feed, nil)
	assert.Equal(t, 1, engine.Stats().ActiveTechnicians)

	fetcher.set(func(f *fakeFetcher) {
		f.technicians = []model.Technician{
			{ID: "t1", IsActive: true},
			{ID: "t2", IsActive: true},
			{ID: "t3", IsActive: false},
		}
	})
	feed.Emit(changefeed.TableTechnicians, changefeed.OpInsert)

	require.Eventually(t, func() bool {
		return engine.Stats().ActiveTechnicians == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEngineDebounceCollapsesBursts(t *testing.T) {
	fetcher := &fakeFetcher{
		categories: []model.ProblemCategory{{ID: "c1", Name: "Paper Jam"}},
	}
	feed := newFakeFeed()
	engine := New(fetcher, feed, nil, Options{Debounce: 50 * time.Millisecond})
	require.NoError(t, engine.Start(context.Background()))
	t.Cleanup(engine.Stop)

	for i := 0; i < 5; i++ {
		feed.Emit(changefeed.TableProblems, changefeed.OpInsert)
	}

	require.Eventually(t, func() bool {
		_, _, categories := fetcher.counts()
		return categories >= 2
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	_, _, categories := fetcher.counts()
	assert.Equal(t, 2, categories, "burst collapsed into one trailing refetch after bootstrap")
}

func TestEngineStopClosesAllSubscriptions(t *testing.T) {
	fetcher := &fakeFetcher{}
	feed := newFakeFeed()
	engine := New(fetcher, feed, nil, Options{})
	require.NoError(t, engine.Start(context.Background()))

	engine.Stop()
	assert.Equal(t, 6, feed.closedCount())

	// Stop is idempotent.
	engine.Stop()
	assert.Equal(t, 6, feed.closedCount())
}
