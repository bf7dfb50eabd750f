// Package engine owns one learner's day-map and is the only place it is
// mutated. Every change goes through the same gate: past days are locked,
// tasks can only be completed once their fields are filled in, and money is
// always derived from the done flags.
package engine

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"sync"

	"github.com/vytor/dailyenglish/internal/dailylog"
	"github.com/vytor/dailyenglish/internal/errors"
	"github.com/vytor/dailyenglish/internal/jobs"
	"github.com/vytor/dailyenglish/internal/logger"
	"github.com/vytor/dailyenglish/internal/logicalday"
	"github.com/vytor/dailyenglish/internal/models"
	"github.com/vytor/dailyenglish/internal/repository"
	"github.com/vytor/dailyenglish/internal/stats"
)

// Warning values attached to log lines for persistence problems that do not
// fail the update.
const (
	WarnLocalCacheUnavailable = "LocalCacheUnavailable"
	WarnRemoteWriteFailed     = "RemoteWriteFailed"
)

// CongratsMessages is the pool a full-day reward message is drawn from.
var CongratsMessages = []string{
	"Thank you for doing this for your own growth!",
	"Thank you for taking this step for yourself!",
	"Thank you for choosing to invest in yourself!",
}

// Listener receives celebration events after the update that raised them
// has been committed. It is called without the tracker lock held.
type Listener func(dateKey string, ev models.Event)

// Options configures a Tracker. Only Clock is required.
type Options struct {
	// Identity enables remote writes. Nil keeps the tracker local-only.
	Identity *models.Identity
	Cache    repository.LocalCache
	Queue    jobs.SyncQueue
	Clock    logicalday.Clock
	Listener Listener
	// Rand picks congratulation messages; nil uses the global source.
	Rand *rand.Rand
}

// Tracker is a single learner's session state.
type Tracker struct {
	mu       sync.Mutex
	logs     models.LogsMap
	identity *models.Identity
	cache    repository.LocalCache
	queue    jobs.SyncQueue
	clock    logicalday.Clock
	listener Listener
	pick     func(n int) int
	// unacked holds the last record queued for the remote store per date
	// until the remote feed reports that exact record back.
	unacked map[string]models.DailyLog
}

// NewTracker creates a tracker with an empty day-map. Call Load to hydrate
// it from the local cache.
func NewTracker(opts Options) *Tracker {
	t := &Tracker{
		logs:     make(models.LogsMap),
		unacked:  make(map[string]models.DailyLog),
		cache:    opts.Cache,
		queue:    opts.Queue,
		clock:    opts.Clock,
		listener: opts.Listener,
		pick:     rand.IntN,
	}
	if opts.Identity != nil {
		id := *opts.Identity
		t.identity = &id
	}
	if t.clock == nil {
		t.clock = logicalday.SystemClock{}
	}
	if opts.Rand != nil {
		t.pick = opts.Rand.IntN
	}
	return t
}

// Identity returns the remote identity, or nil in local-only mode.
func (t *Tracker) Identity() *models.Identity {
	if t.identity == nil {
		return nil
	}
	id := *t.identity
	return &id
}

// TodayKey is the logical date currently open for editing.
func (t *Tracker) TodayKey() string {
	return logicalday.TodayKey(t.clock)
}

// Snapshot returns a copy of the whole day-map.
func (t *Tracker) Snapshot() models.LogsMap {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.logs.Clone()
}

// Day returns the record for dateKey, or the default record if none exists.
func (t *Tracker) Day(dateKey string) models.DailyLog {
	t.mu.Lock()
	defer t.mu.Unlock()
	if l, ok := t.logs[dateKey]; ok {
		return l
	}
	return dailylog.Default()
}

// Load replaces the day-map with the contents of the local cache. A missing
// or unreadable cache leaves the map as it is.
func (t *Tracker) Load(ctx context.Context) {
	log := logger.FromContext(ctx).WithPrefix("tracker")
	if t.cache == nil {
		return
	}

	data, err := t.cache.ReadLogs()
	if err != nil {
		log.WithField("warning", WarnLocalCacheUnavailable).Warn("failed to read local cache: %v", err)
		return
	}
	if data == nil {
		log.Debug("local cache is empty")
		return
	}

	var logs models.LogsMap
	if err := json.Unmarshal(data, &logs); err != nil {
		log.WithField("warning", WarnLocalCacheUnavailable).Warn("failed to decode local cache: %v", err)
		return
	}
	if logs == nil {
		logs = make(models.LogsMap)
	}

	t.mu.Lock()
	t.logs = logs
	t.mu.Unlock()
	log.Debug("loaded %d days from local cache", len(logs))
}

// Apply merges patch into the record for dateKey. The map is left untouched
// when an error is returned.
func (t *Tracker) Apply(ctx context.Context, dateKey string, patch models.Patch) (models.DailyLog, []models.Event, error) {
	return t.update(ctx, dateKey, func(models.DailyLog) (models.Patch, error) {
		return patch, nil
	})
}

// TickStudyMinute adds one minute of study time to today's record.
func (t *Tracker) TickStudyMinute(ctx context.Context) error {
	_, _, err := t.update(ctx, t.TodayKey(), func(current models.DailyLog) (models.Patch, error) {
		return models.Patch{StudyMinutes: models.Ptr(current.StudyMinutes + 1)}, nil
	})
	return err
}

// MergeRemote folds a remote snapshot into the day-map. Remote records
// replace local ones with the same key and local-only keys are kept. A day
// with a local write the remote store has not confirmed yet keeps its local
// record, so an echo of an older write cannot undo a newer edit.
func (t *Tracker) MergeRemote(ctx context.Context, remote models.LogsMap) models.LogsMap {
	log := logger.FromContext(ctx).WithPrefix("tracker")

	t.mu.Lock()
	kept := 0
	for key, l := range remote {
		if pending, ok := t.unacked[key]; ok {
			if pending != l {
				kept++
				continue
			}
			delete(t.unacked, key)
		}
		t.logs[key] = l
	}
	t.persistLocked(ctx)
	merged := t.logs.Clone()
	t.mu.Unlock()

	log.Debug("merged %d remote days (%d kept local), %d days total", len(remote)-kept, kept, len(merged))
	return merged
}

// update is the single write path. build sees the current record under the
// lock, so read-modify-write patches cannot interleave.
func (t *Tracker) update(ctx context.Context, dateKey string, build func(current models.DailyLog) (models.Patch, error)) (models.DailyLog, []models.Event, error) {
	if err := t.checkEditable(dateKey); err != nil {
		return models.DailyLog{}, nil, err
	}

	t.mu.Lock()
	current, ok := t.logs[dateKey]
	if !ok {
		current = dailylog.Default()
	}
	patch, err := build(current)
	if err != nil {
		t.mu.Unlock()
		return models.DailyLog{}, nil, err
	}
	updated, events, err := t.applyLocked(ctx, dateKey, current, patch)
	t.mu.Unlock()
	if err != nil {
		return models.DailyLog{}, nil, err
	}

	if t.listener != nil {
		for _, ev := range events {
			t.listener(dateKey, ev)
		}
	}
	return updated, events, nil
}

func (t *Tracker) checkEditable(dateKey string) error {
	if _, err := logicalday.ParseKey(dateKey); err != nil {
		return errors.NewValidationError("date", err.Error())
	}
	if dateKey < t.TodayKey() {
		return errors.NewPastDateLockedError(dateKey)
	}
	return nil
}

func (t *Tracker) applyLocked(ctx context.Context, dateKey string, current models.DailyLog, patch models.Patch) (models.DailyLog, []models.Event, error) {
	log := logger.FromContext(ctx).WithPrefix("tracker")

	if err := checkChallenges(current, patch); err != nil {
		return models.DailyLog{}, nil, err
	}
	updated := dailylog.ApplyPatch(current, patch)
	stamp := logicalday.FormatClock(t.clock.Now())
	for _, task := range dailylog.Completions(patch) {
		if dailylog.Done(current, task) {
			continue
		}
		if ok, reason := dailylog.Readiness(updated, task); !ok {
			log.Debug("rejected completion: date=%s, task=%s", dateKey, task)
			return models.DailyLog{}, nil, errors.NewNotReadyError(string(task), reason)
		}
		dailylog.SetTimestamp(&updated, task, stamp)
	}
	updated.TotalMoney = dailylog.TotalMoney(updated)

	events := t.celebrate(current, updated)

	t.logs[dateKey] = updated
	t.persistLocked(ctx)
	t.syncLocked(ctx, dateKey, updated)

	log.Debug("updated day: date=%s, total_money=%d, coins=%d", dateKey, updated.TotalMoney, updated.DailyCoins)
	return updated, events, nil
}

// checkChallenges rejects setting a challenge flag that is already set, so a
// repeated patch cannot pay the same reward twice.
func checkChallenges(current models.DailyLog, patch models.Patch) error {
	switch {
	case isTrue(patch.Challenge1Done) && current.Challenge1Done:
		return errors.NewAlreadyDoneError("paper challenge")
	case isTrue(patch.Challenge2Done) && current.Challenge2Done:
		return errors.NewAlreadyDoneError("word streak challenge")
	case isTrue(patch.Challenge3Done) && current.Challenge3Done:
		return errors.NewAlreadyDoneError("speaking challenge")
	}
	return nil
}

func isTrue(b *bool) bool {
	return b != nil && *b
}

func (t *Tracker) celebrate(current, updated models.DailyLog) []models.Event {
	var events []models.Event
	if updated.TotalMoney > current.TotalMoney {
		ev := models.Event{Kind: models.EventRewardIncreased, Total: updated.TotalMoney}
		if updated.TotalMoney == dailylog.MaxDailyMoney {
			ev.Message = CongratsMessages[t.pick(len(CongratsMessages))]
		}
		events = append(events, ev)
	}
	if updated.DailyCoins > current.DailyCoins {
		events = append(events, models.Event{Kind: models.EventCoinsIncreased, Total: updated.DailyCoins})
	}
	return events
}

func (t *Tracker) persistLocked(ctx context.Context) {
	if t.cache == nil {
		return
	}
	log := logger.FromContext(ctx).WithPrefix("tracker").WithField("warning", WarnLocalCacheUnavailable)

	data, err := json.Marshal(t.logs)
	if err != nil {
		log.Warn("failed to encode day-map: %v", err)
		return
	}
	if err := t.cache.WriteLogs(data); err != nil {
		log.Warn("failed to write local cache: %v", err)
	}
}

func (t *Tracker) syncLocked(ctx context.Context, dateKey string, updated models.DailyLog) {
	if t.identity == nil || t.queue == nil {
		return
	}
	log := logger.FromContext(ctx).WithPrefix("tracker").WithField("warning", WarnRemoteWriteFailed)

	t.unacked[dateKey] = updated
	if err := t.queue.EnqueueDayLog(t.identity.UID, dateKey, updated); err != nil {
		log.Warn("failed to queue day write: uid=%s, date=%s: %v", t.identity.UID, dateKey, err)
	}

	summary, err := stats.BuildStudentSummary(t.logs, *t.identity, t.TodayKey(), t.clock.Now())
	if err != nil {
		log.Warn("failed to build summary: uid=%s: %v", t.identity.UID, err)
		return
	}
	if err := t.queue.EnqueueSummary(summary); err != nil {
		log.Warn("failed to queue summary write: uid=%s: %v", t.identity.UID, err)
	}
}
