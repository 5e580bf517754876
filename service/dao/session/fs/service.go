package fs

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/weaver/model/session"
	"github.com/viant/weaver/service/dao"
	sdao "github.com/viant/weaver/service/dao/session"
	"go.uber.org/zap"
)

// Service implements a filesystem-based session storage, one JSON file per session
type Service struct {
	basePath string
	fs       afs.Service
	logger   *zap.Logger
	mu       sync.RWMutex
}

var _ dao.Service[string, session.Session] = (*Service)(nil)

// Save persists a session to the filesystem
func (s *Service) Save(ctx context.Context, aSession *session.Session) error {
	if aSession == nil {
		return dao.ErrNilEntity
	}
	if aSession.ID == "" {
		return dao.ErrInvalidID
	}
	data, err := sonic.Marshal(aSession)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	filePath := s.sessionPath(aSession.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save session to file %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves a session from the filesystem
func (s *Service) Load(ctx context.Context, id string) (*session.Session, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := s.sessionPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check if session exists: %w", err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	ret := &session.Session{}
	if err := sonic.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return ret, nil
}

// Delete removes a session file
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.sessionPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if session exists: %w", err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// List returns all sessions, unreadable files are logged and skipped
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list session files: %w", err)
	}
	var sessions []*session.Session
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Warn("failed to read session file", zap.String("url", object.URL()), zap.Error(err))
			continue
		}
		aSession := &session.Session{}
		if err := sonic.Unmarshal(data, aSession); err != nil {
			s.logger.Warn("failed to unmarshal session file", zap.String("url", object.URL()), zap.Error(err))
			continue
		}
		sessions = append(sessions, aSession)
	}
	return sdao.Filter(sessions, parameters), nil
}

func (s *Service) sessionPath(id string) string {
	return url.Join(s.basePath, path.Base(id)+".json")
}

// New creates a filesystem session storage service
func New(ctx context.Context, basePath string, logger *zap.Logger) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	fs := afs.New()
	basePath = url.Normalize(basePath, file.Scheme)
	exists, _ := fs.Exists(ctx, basePath)
	if !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{basePath: basePath, fs: fs, logger: logger}, nil
}
