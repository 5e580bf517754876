package memory

import (
	"context"
	"sync"

	"github.com/viant/weaver/model/session"
	"github.com/viant/weaver/service/dao"
	sdao "github.com/viant/weaver/service/dao/session"
)

// Service is an in-memory session store. Stored and returned sessions are
// copies so callers never share state with the store.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

var _ dao.Service[string, session.Session] = (*Service)(nil)

// Save stores or overwrites a session
func (s *Service) Save(_ context.Context, aSession *session.Session) error {
	if aSession == nil {
		return dao.ErrNilEntity
	}
	if aSession.ID == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[aSession.ID] = aSession.Clone()
	return nil
}

// Load returns a session by id
func (s *Service) Load(_ context.Context, id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret, ok := s.sessions[id]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return ret.Clone(), nil
}

// Delete removes a session
func (s *Service) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// List returns all stored sessions
func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]*session.Session, 0, len(s.sessions))
	for _, aSession := range s.sessions {
		ret = append(ret, aSession.Clone())
	}
	return sdao.Filter(ret, parameters), nil
}

// New creates an in-memory session store
func New() *Service {
	return &Service{sessions: map[string]*session.Session{}}
}
