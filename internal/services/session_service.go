package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vytor/dailyenglish/internal/cache"
	"github.com/vytor/dailyenglish/internal/engine"
	"github.com/vytor/dailyenglish/internal/jobs"
	"github.com/vytor/dailyenglish/internal/logger"
	"github.com/vytor/dailyenglish/internal/logicalday"
	"github.com/vytor/dailyenglish/internal/models"
	"github.com/vytor/dailyenglish/internal/repository"
)

// LocalUID is the account used when no identity is supplied. Its session
// never talks to the remote store.
const LocalUID = "local"

// WarnRemoteUnavailable marks sessions that fell back to local-only sync.
const WarnRemoteUnavailable = "RemoteUnavailable"

// SessionService keeps one tracker per signed-in learner.
type SessionService interface {
	Open(ctx context.Context, id models.Identity) (*engine.Tracker, error)
	Tracker(uid string) (*engine.Tracker, bool)
	Touch(uid string) bool
	Close(uid string) bool
	CloseAll()
	OpenSessions() []string
	jobs.Sessions
}

// SessionConfig wires a SessionService.
type SessionConfig struct {
	// Remote is nil when no remote backend is configured.
	Remote      repository.RemoteStore
	Caches      cache.Factory
	Queue       jobs.SyncQueue
	Clock       logicalday.Clock
	IdleTimeout time.Duration
}

type session struct {
	tracker  *engine.Tracker
	lastSeen time.Time
	cancel   context.CancelFunc
	done     chan struct{}
}

type sessionService struct {
	cfg      SessionConfig
	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessionService creates a new SessionService
func NewSessionService(cfg SessionConfig) SessionService {
	if cfg.Clock == nil {
		cfg.Clock = logicalday.SystemClock{}
	}
	if cfg.Caches == nil {
		cfg.Caches = cache.MemoryFactory()
	}
	return &sessionService{cfg: cfg, sessions: make(map[string]*session)}
}

// Open returns the learner's tracker, starting a session if none is open.
// A new session is hydrated from the local cache, then follows the remote
// feed for as long as it stays open. Remote calls run without the registry
// lock; when two requests race, the first session registered wins.
func (s *sessionService) Open(ctx context.Context, id models.Identity) (*engine.Tracker, error) {
	if id.UID == "" {
		id.UID = LocalUID
	}
	log := logger.FromContext(ctx).WithPrefix("sessions").WithField("uid", id.UID)

	if tracker, ok := s.reuse(id.UID); ok {
		return tracker, nil
	}

	sess, remote := s.start(ctx, id, log)

	s.mu.Lock()
	if existing, ok := s.sessions[id.UID]; ok {
		existing.lastSeen = s.cfg.Clock.Now()
		s.mu.Unlock()
		sess.cancel()
		<-sess.done
		log.Debug("discarded duplicate session")
		return existing.tracker, nil
	}
	s.sessions[id.UID] = sess
	s.mu.Unlock()

	if remote {
		if err := s.cfg.Remote.TouchLogin(ctx, id, s.cfg.Clock.Now()); err != nil {
			log.WithField("warning", engine.WarnRemoteWriteFailed).Warn("failed to record login: %v", err)
		}
	}
	log.Info("session opened (remote=%t, days=%d)", remote, len(sess.tracker.Snapshot()))
	return sess.tracker, nil
}

func (s *sessionService) reuse(uid string) (*engine.Tracker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[uid]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.cfg.Clock.Now()
	return sess.tracker, true
}

// start builds a session that is not registered yet.
func (s *sessionService) start(ctx context.Context, id models.Identity, log *logger.Logger) (*session, bool) {
	localCache, err := s.cfg.Caches(id.UID)
	if err != nil {
		log.WithField("warning", engine.WarnLocalCacheUnavailable).Warn("failed to open local cache: %v", err)
		localCache = nil
	}

	remote := s.cfg.Remote != nil && id.UID != LocalUID
	opts := engine.Options{Cache: localCache, Clock: s.cfg.Clock}
	if remote {
		opts.Identity = &id
		opts.Queue = s.cfg.Queue
	}
	tracker := engine.NewTracker(opts)
	tracker.Load(ctx)

	// The session outlives the request that opened it.
	sessCtx, cancel := context.WithCancel(logger.NewContext(context.WithoutCancel(ctx), log))
	sess := &session{
		tracker:  tracker,
		lastSeen: s.cfg.Clock.Now(),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	if remote {
		s.follow(sessCtx, sess, id.UID)
	} else {
		close(sess.done)
	}
	return sess, remote
}

func (s *sessionService) follow(ctx context.Context, sess *session, uid string) {
	log := logger.FromContext(ctx)

	snapshots, err := s.cfg.Remote.Subscribe(ctx, uid)
	if err != nil {
		log.WithField("warning", WarnRemoteUnavailable).Warn("failed to subscribe to remote feed: %v", err)
		close(sess.done)
		return
	}

	go func() {
		defer close(sess.done)
		for snap := range snapshots {
			sess.tracker.MergeRemote(ctx, snap)
		}
		log.Debug("remote feed closed")
	}()
}

func (s *sessionService) Tracker(uid string) (*engine.Tracker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[uid]
	if !ok {
		return nil, false
	}
	return sess.tracker, true
}

// Touch marks the session as active now.
func (s *sessionService) Touch(uid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[uid]
	if ok {
		sess.lastSeen = s.cfg.Clock.Now()
	}
	return ok
}

// Close ends the session and waits for its feed to stop.
func (s *sessionService) Close(uid string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[uid]
	delete(s.sessions, uid)
	s.mu.Unlock()

	if !ok {
		return false
	}
	sess.cancel()
	<-sess.done
	return true
}

func (s *sessionService) CloseAll() {
	for _, uid := range s.OpenSessions() {
		s.Close(uid)
	}
}

// OpenSessions lists the uids with an open session, sorted.
func (s *sessionService) OpenSessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	uids := make([]string, 0, len(s.sessions))
	for uid := range s.sessions {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return uids
}

func (s *sessionService) TickStudyMinutes(ctx context.Context) int {
	log := logger.FromContext(ctx).WithPrefix("sessions")

	s.mu.Lock()
	trackers := make(map[string]*engine.Tracker, len(s.sessions))
	for uid, sess := range s.sessions {
		trackers[uid] = sess.tracker
	}
	s.mu.Unlock()

	ticked := 0
	for uid, tracker := range trackers {
		if err := tracker.TickStudyMinute(ctx); err != nil {
			log.Warn("failed to credit study minute: uid=%s: %v", uid, err)
			continue
		}
		ticked++
	}
	return ticked
}

func (s *sessionService) ExpireIdle(ctx context.Context, now time.Time) int {
	if s.cfg.IdleTimeout <= 0 {
		return 0
	}
	log := logger.FromContext(ctx).WithPrefix("sessions")
	cutoff := now.Add(-s.cfg.IdleTimeout)

	s.mu.Lock()
	var idle []string
	for uid, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			idle = append(idle, uid)
		}
	}
	s.mu.Unlock()

	closed := 0
	for _, uid := range idle {
		if s.Close(uid) {
			log.Debug("closed idle session: uid=%s", uid)
			closed++
		}
	}
	return closed
}
