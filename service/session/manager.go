package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/viant/weaver/internal/clock"
	"github.com/viant/weaver/internal/idgen"
	"github.com/viant/weaver/logging"
	"github.com/viant/weaver/metrics"
	"github.com/viant/weaver/model/session"
	"github.com/viant/weaver/service/dao"
	sdao "github.com/viant/weaver/service/dao/session"
	"github.com/viant/weaver/service/dao/session/memory"
	"go.uber.org/zap"
)

// Manager manages conversation sessions
type Manager struct {
	config   Config
	store    dao.Service[string, session.Session]
	locks    map[string]*sync.Mutex
	locksMux sync.Mutex
	now      func() time.Time
	newID    func() string
	logger   *zap.Logger
	metrics  *metrics.Collector

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
}

func (m *Manager) lockFor(id string) *sync.Mutex {
	m.locksMux.Lock()
	defer m.locksMux.Unlock()
	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	return lock
}

func (m *Manager) forget(id string) {
	m.locksMux.Lock()
	defer m.locksMux.Unlock()
	delete(m.locks, id)
}

func (m *Manager) expired(aSession *session.Session, now time.Time) bool {
	basis := aSession.CreatedAt
	if m.config.Expiry == ExpirySliding {
		basis = aSession.LastAccessedAt
	}
	return now.Sub(basis) > m.config.TTL
}

// load returns stored session or nil when absent
func (m *Manager) load(ctx context.Context, id string) (*session.Session, error) {
	ret, err := m.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session %v: %w", id, err)
	}
	return ret, nil
}

// live loads a session, removing it when expired. Caller holds the session lock,
// which is dropped when no live session remains under the id.
func (m *Manager) live(ctx context.Context, id string, now time.Time) (*session.Session, error) {
	aSession, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if aSession == nil {
		m.forget(id)
		return nil, nil
	}
	if m.expired(aSession, now) {
		if err := m.remove(ctx, id); err != nil {
			return nil, err
		}
		m.forget(id)
		m.metrics.ObserveSessionsExpired(1)
		m.metrics.ObserveSessionRemoved()
		m.logger.Debug("session expired", zap.String("session", id))
		return nil, nil
	}
	return aSession, nil
}

func (m *Manager) remove(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, dao.ErrNotFound) {
		return fmt.Errorf("failed to delete session %v: %w", id, err)
	}
	return nil
}

// AnonymousUser is assigned to sessions created without a user id.
const AnonymousUser = "anonymous"

// CreateSession creates a session and returns its id
func (m *Manager) CreateSession(ctx context.Context, workflowID, userID string) (string, error) {
	if userID == "" {
		userID = AnonymousUser
	}
	aSession := session.New(m.newID(), workflowID, userID, m.now())
	if err := m.store.Save(ctx, aSession); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	m.metrics.ObserveSessionCreated()
	m.logger.Debug("session created",
		zap.String("session", aSession.ID),
		zap.String("workflow", workflowID),
		zap.String("user", userID))
	return aSession.ID, nil
}

// GetSession returns a live session refreshing its last access time, or nil
// when the session does not exist or has expired.
func (m *Manager) GetSession(ctx context.Context, id string) (*session.Session, error) {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	now := m.now()
	aSession, err := m.live(ctx, id, now)
	if err != nil || aSession == nil {
		return nil, err
	}
	aSession.LastAccessedAt = now
	if err = m.store.Save(ctx, aSession); err != nil {
		return nil, fmt.Errorf("failed to save session %v: %w", id, err)
	}
	return aSession.Clone(), nil
}

// UpdateSession applies the update and returns false when the session is absent or expired.
func (m *Manager) UpdateSession(ctx context.Context, id string, update *Update) (bool, error) {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	now := m.now()
	aSession, err := m.live(ctx, id, now)
	if err != nil || aSession == nil {
		return false, err
	}
	if update != nil {
		if update.Human != "" && update.AI != "" {
			aSession.Messages = append(aSession.Messages, &session.Message{Human: update.Human, AI: update.AI, Timestamp: now})
		}
		for k, v := range update.Context {
			aSession.Context[k] = v
		}
		for k, v := range update.Memory {
			aSession.Memory[k] = v
		}
	}
	aSession.LastAccessedAt = now
	if err = m.store.Save(ctx, aSession); err != nil {
		return false, fmt.Errorf("failed to save session %v: %w", id, err)
	}
	return true, nil
}

// ClearSession removes messages and memory, keeping context.
func (m *Manager) ClearSession(ctx context.Context, id string) (bool, error) {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	now := m.now()
	aSession, err := m.live(ctx, id, now)
	if err != nil || aSession == nil {
		return false, err
	}
	aSession.Messages = []*session.Message{}
	aSession.Memory = map[string]interface{}{}
	aSession.LastAccessedAt = now
	if err = m.store.Save(ctx, aSession); err != nil {
		return false, fmt.Errorf("failed to save session %v: %w", id, err)
	}
	return true, nil
}

// GetSessionContext returns session messages, context and memory; empty when absent.
func (m *Manager) GetSessionContext(ctx context.Context, id string) (*Context, error) {
	aSession, err := m.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if aSession == nil {
		return emptyContext(), nil
	}
	return &Context{
		SessionID: aSession.ID,
		UserID:    aSession.UserID,
		Messages:  aSession.Messages,
		Context:   aSession.Context,
		Memory:    aSession.Memory,
	}, nil
}

// DeleteSession removes the session, returns false when it did not exist.
func (m *Manager) DeleteSession(ctx context.Context, id string) (bool, error) {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	err := m.store.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			m.forget(id)
			return false, nil
		}
		return false, fmt.Errorf("failed to delete session %v: %w", id, err)
	}
	m.forget(id)
	m.metrics.ObserveSessionRemoved()
	return true, nil
}

// ListSessions returns live sessions of the user within the workflow; empty
// filters match everything.
func (m *Manager) ListSessions(ctx context.Context, workflowID, userID string) ([]*session.Session, error) {
	var parameters []*dao.Parameter
	if workflowID != "" {
		parameters = append(parameters, &dao.Parameter{Name: sdao.ParamWorkflowID, Value: workflowID})
	}
	if userID != "" {
		parameters = append(parameters, &dao.Parameter{Name: sdao.ParamUserID, Value: userID})
	}
	sessions, err := m.store.List(ctx, parameters...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	now := m.now()
	var ret []*session.Session
	for _, candidate := range sessions {
		if !m.expired(candidate, now) {
			ret = append(ret, candidate)
		}
	}
	return ret, nil
}

// CleanupExpiredSessions removes expired sessions and returns their count. A session that
// fails to be removed is skipped, its error is joined into the returned error.
func (m *Manager) CleanupExpiredSessions(ctx context.Context) (int, error) {
	sessions, err := m.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	now := m.now()
	removed := 0
	var errs []error
	for _, candidate := range sessions {
		if !m.expired(candidate, now) {
			continue
		}
		ok, err := m.removeExpired(ctx, candidate.ID, now)
		if err != nil {
			m.logger.Warn("failed to remove expired session", zap.String("session", candidate.ID), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if ok {
			removed++
		}
	}
	m.metrics.ObserveSessionsExpired(removed)
	m.metrics.SetActiveSessions(len(sessions) - removed)
	if removed > 0 {
		m.logger.Info("removed expired sessions", zap.Int("count", removed))
	}
	return removed, errors.Join(errs...)
}

// removeExpired re-checks expiry under the session lock, a concurrent update may have refreshed it.
func (m *Manager) removeExpired(ctx context.Context, id string, now time.Time) (bool, error) {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()
	current, err := m.load(ctx, id)
	if err != nil || current == nil || !m.expired(current, now) {
		if err == nil && current == nil {
			m.forget(id)
		}
		return false, err
	}
	if err = m.remove(ctx, id); err != nil {
		return false, err
	}
	m.forget(id)
	return true, nil
}

// Start launches the background reaper; calling Start on a running manager is a no-op.
func (m *Manager) Start(ctx context.Context) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	if m.cancel != nil {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	go m.reap(ctx, m.done)
}

func (m *Manager) reap(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.config.ReapInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.CleanupExpiredSessions(ctx); err != nil {
				m.logger.Error("session cleanup failed", zap.Error(err))
			}
		}
	}
}

// Stop cancels the reaper and waits for it to exit or ctx to be done.
func (m *Manager) Stop(ctx context.Context) error {
	m.lifecycle.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.lifecycle.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Config returns manager configuration
func (m *Manager) Config() Config {
	return m.config
}

// New creates a session manager, the in-memory store is used unless WithStore is supplied.
func New(config Config, options ...Option) (*Manager, error) {
	if err := config.init(); err != nil {
		return nil, err
	}
	ret := &Manager{
		config: config,
		locks:  map[string]*sync.Mutex{},
		now:    clock.Now,
		newID:  idgen.New,
	}
	for _, option := range options {
		option(ret)
	}
	if ret.store == nil {
		ret.store = memory.New()
	}
	ret.logger = logging.OrNop(ret.logger)
	return ret, nil
}
