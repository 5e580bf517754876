package governor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/viant/weaver/internal/clock"
	"github.com/viant/weaver/internal/idgen"
	"github.com/viant/weaver/logging"
	"github.com/viant/weaver/metrics"
	"go.uber.org/zap"
)

// Slot represents a held execution slot
type Slot struct {
	Key         string    `json:"key"`
	WorkflowID  string    `json:"workflowId"`
	UserID      string    `json:"userId"`
	ExecutionID string    `json:"executionId"`
	AcquiredAt  time.Time `json:"acquiredAt"`
}

// Key returns slot key for workflow and user
func Key(workflowID, userID string) string {
	return workflowID + ":" + userID
}

// Service tracks execution slots
type Service struct {
	config     Config
	slots      map[string]*Slot
	slotsMux   sync.RWMutex
	locks      map[string]*sync.Mutex
	locksMux   sync.Mutex
	now        func() time.Time
	newID      func() string
	logger     *zap.Logger
	metrics    *metrics.Collector
	shutdownCh chan struct{}
	closeOnce  sync.Once
}

// lockFor returns the per-key lock, creating it on first use.
// Locks are kept for the service lifetime.
func (s *Service) lockFor(key string) *sync.Mutex {
	s.locksMux.Lock()
	defer s.locksMux.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// stale reports whether the slot has been held longer than the stale threshold.
func (s *Service) stale(slot *Slot, now time.Time) bool {
	return now.Sub(slot.AcquiredAt) > s.config.StaleAfter
}

// Acquire grants a slot when none is held or the held one is stale.
func (s *Service) Acquire(workflowID, userID, executionID string) bool {
	key := Key(workflowID, userID)
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	now := s.now()
	s.slotsMux.Lock()
	existing, ok := s.slots[key]
	if ok && !s.stale(existing, now) {
		active := len(s.slots)
		s.slotsMux.Unlock()
		s.metrics.ObserveSlot("denied", active)
		s.logger.Debug("execution slot denied",
			zap.String("key", key),
			zap.String("execution", executionID),
			zap.String("holder", existing.ExecutionID))
		return false
	}
	s.slots[key] = &Slot{Key: key, WorkflowID: workflowID, UserID: userID, ExecutionID: executionID, AcquiredAt: now}
	active := len(s.slots)
	s.slotsMux.Unlock()

	decision := "granted"
	if ok {
		decision = "reclaimed"
		s.metrics.ObserveStale(1)
		s.logger.Warn("replacing stale execution slot",
			zap.String("key", key),
			zap.String("stale", existing.ExecutionID),
			zap.Duration("age", now.Sub(existing.AcquiredAt)))
	}
	s.metrics.ObserveSlot(decision, active)
	s.logger.Debug("execution slot acquired", zap.String("key", key), zap.String("execution", executionID))
	return true
}

// Release frees the slot, releasing an absent slot is a no-op.
func (s *Service) Release(workflowID, userID string) {
	key := Key(workflowID, userID)
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	s.slotsMux.Lock()
	_, ok := s.slots[key]
	delete(s.slots, key)
	active := len(s.slots)
	s.slotsMux.Unlock()
	if ok {
		s.metrics.SetActiveSlots(active)
		s.logger.Debug("execution slot released", zap.String("key", key))
	}
}

// WaitForSlot retries Acquire with a fresh execution id every poll interval
// until it succeeds, the timeout elapses or ctx is done.
func (s *Service) WaitForSlot(ctx context.Context, workflowID, userID string, timeout time.Duration) bool {
	if s.Acquire(workflowID, userID, s.newID()) {
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			s.logger.Info("timed out waiting for execution slot",
				zap.String("key", Key(workflowID, userID)),
				zap.Duration("timeout", timeout))
			return false
		case <-ticker.C:
			if s.Acquire(workflowID, userID, s.newID()) {
				return true
			}
		}
	}
}

// CleanupStale removes slots held longer than the stale threshold and returns their count.
func (s *Service) CleanupStale() int {
	now := s.now()
	var candidates []string
	s.slotsMux.RLock()
	for key, slot := range s.slots {
		if s.stale(slot, now) {
			candidates = append(candidates, key)
		}
	}
	s.slotsMux.RUnlock()

	removed := 0
	for _, key := range candidates {
		lock := s.lockFor(key)
		lock.Lock()
		s.slotsMux.Lock()
		if slot, ok := s.slots[key]; ok && s.stale(slot, now) {
			delete(s.slots, key)
			removed++
		}
		s.slotsMux.Unlock()
		lock.Unlock()
	}
	if removed > 0 {
		s.metrics.ObserveStale(removed)
		s.metrics.SetActiveSlots(s.activeCount())
		s.logger.Info("removed stale execution slots", zap.Int("count", removed))
	}
	return removed
}

// Slot returns a copy of the slot held for workflow and user
func (s *Service) Slot(workflowID, userID string) (*Slot, bool) {
	s.slotsMux.RLock()
	defer s.slotsMux.RUnlock()
	slot, ok := s.slots[Key(workflowID, userID)]
	if !ok {
		return nil, false
	}
	clone := *slot
	return &clone, true
}

// Slots returns held slots ordered by key
func (s *Service) Slots() []*Slot {
	s.slotsMux.RLock()
	defer s.slotsMux.RUnlock()
	ret := make([]*Slot, 0, len(s.slots))
	for _, slot := range s.slots {
		clone := *slot
		ret = append(ret, &clone)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Key < ret[j].Key })
	return ret
}

func (s *Service) activeCount() int {
	s.slotsMux.RLock()
	defer s.slotsMux.RUnlock()
	return len(s.slots)
}

// Start runs the stale slot cleanup loop until ctx is done or Shutdown is called.
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.shutdownCh:
			return nil
		case <-ticker.C:
			s.CleanupStale()
		}
	}
}

// Shutdown stops the cleanup loop
func (s *Service) Shutdown() {
	s.closeOnce.Do(func() { close(s.shutdownCh) })
}

// New creates a governor service
func New(config Config, options ...Option) *Service {
	config.init()
	ret := &Service{
		config:     config,
		slots:      map[string]*Slot{},
		locks:      map[string]*sync.Mutex{},
		now:        clock.Now,
		newID:      idgen.Prefixed("exec"),
		shutdownCh: make(chan struct{}),
	}
	for _, option := range options {
		option(ret)
	}
	ret.logger = logging.OrNop(ret.logger)
	return ret
}
