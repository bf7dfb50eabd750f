package repository

import (
	"context"
	"sync"

	"github.com/vytor/dailyenglish/internal/logger"
	"github.com/vytor/dailyenglish/internal/models"
)

// Feed adds snapshot subscriptions on top of any Store. Subscribers get the
// current day-map right away and a fresh one after every successful
// SaveDayLog for their user. A subscriber that falls behind only ever sees
// the latest snapshot.
type Feed struct {
	Store

	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan models.LogsMap
}

// NewFeed wraps store with subscription support.
func NewFeed(store Store) *Feed {
	return &Feed{
		Store: store,
		subs:  make(map[string]map[int]chan models.LogsMap),
	}
}

var _ RemoteStore = (*Feed)(nil)

// Subscribe registers before loading the initial snapshot, so a save that
// lands while it loads is still delivered.
func (f *Feed) Subscribe(ctx context.Context, uid string) (<-chan models.LogsMap, error) {
	log := logger.FromContext(ctx).WithPrefix("feed")

	ch := make(chan models.LogsMap, 1)
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	if f.subs[uid] == nil {
		f.subs[uid] = make(map[int]chan models.LogsMap)
	}
	f.subs[uid][id] = ch
	f.mu.Unlock()

	initial, err := f.Store.ListDayLogs(ctx, uid)
	if err != nil {
		f.mu.Lock()
		f.detachLocked(uid, id)
		f.mu.Unlock()
		log.Error("failed to load initial snapshot for uid=%s: %v", uid, err)
		return nil, err
	}

	f.mu.Lock()
	// A snapshot published meanwhile was read after registration too.
	if len(ch) == 0 {
		ch <- initial
	}
	f.mu.Unlock()
	log.Debug("subscriber %d attached for uid=%s", id, uid)

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		f.detachLocked(uid, id)
		close(ch)
		f.mu.Unlock()
		log.Debug("subscriber %d detached for uid=%s", id, uid)
	}()

	return ch, nil
}

func (f *Feed) detachLocked(uid string, id int) {
	delete(f.subs[uid], id)
	if len(f.subs[uid]) == 0 {
		delete(f.subs, uid)
	}
}

func (f *Feed) SaveDayLog(ctx context.Context, uid, dateKey string, l models.DailyLog) error {
	if err := f.Store.SaveDayLog(ctx, uid, dateKey, l); err != nil {
		return err
	}

	f.mu.Lock()
	watched := len(f.subs[uid]) > 0
	f.mu.Unlock()
	if !watched {
		return nil
	}

	snapshot, err := f.Store.ListDayLogs(ctx, uid)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("feed").Warn("saved %s but could not reload snapshot for uid=%s: %v", dateKey, uid, err)
		return nil
	}
	f.publish(uid, snapshot)
	return nil
}

func (f *Feed) publish(uid string, snapshot models.LogsMap) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs[uid] {
		// Replace an undelivered snapshot with the newer one.
		select {
		case <-ch:
		default:
		}
		ch <- snapshot.Clone()
	}
}

// Subscribers reports how many live subscriptions uid has.
func (f *Feed) Subscribers(uid string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[uid])
}
