package weaver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/viant/weaver/extension"
	"github.com/viant/weaver/internal/idgen"
	"github.com/viant/weaver/logging"
	"github.com/viant/weaver/metrics"
	"github.com/viant/weaver/model/graph"
	"github.com/viant/weaver/model/node"
	msession "github.com/viant/weaver/model/session"
	"github.com/viant/weaver/policy"
	"github.com/viant/weaver/runtime/execution"
	"github.com/viant/weaver/service/compat"
	"github.com/viant/weaver/service/compiler"
	"github.com/viant/weaver/service/dao"
	"github.com/viant/weaver/service/dao/session/fs"
	"github.com/viant/weaver/service/dao/session/memory"
	"github.com/viant/weaver/service/dao/session/redis"
	"github.com/viant/weaver/service/governor"
	"github.com/viant/weaver/service/meta"
	"github.com/viant/weaver/service/session"
	"github.com/viant/weaver/tracing"
	"go.uber.org/zap"
)

// ErrExecutionInProgress is returned when the workflow already runs for the user.
var ErrExecutionInProgress = errors.New("execution already in progress")

// ErrShutdown is returned when starting a service that was shut down.
var ErrShutdown = errors.New("service was shut down")

// Request represents a graph execution request
type Request struct {
	WorkflowID string
	UserID     string
	// SessionID continues an existing conversation, a new session is created when empty or expired.
	SessionID string
	Graph     *graph.Graph
	Input     interface{}
	// Wait polls for a busy execution slot up to the duration instead of failing fast.
	Wait time.Duration
}

// Response represents a graph execution outcome
type Response struct {
	ExecutionID string
	SessionID   string
	Output      interface{}
	State       *execution.FlowState
	// Dropped lists sink nodes excluded from the output.
	Dropped []string
}

// Service wires the compatibility engine, compiler, concurrency governor and
// session manager into a single runtime.
type Service struct {
	config   *Config
	registry *extension.Registry
	classes  []*node.Class
	compat   *compat.Service
	compiler *compiler.Service
	governor *governor.Service
	sessions *session.Manager
	store    dao.Service[string, msession.Session]
	meta     *meta.Service
	policy   *policy.Policy
	metrics  *metrics.Collector
	logger   *zap.Logger
	newID    func() string

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	shutdown  bool
	wg        sync.WaitGroup
}

// Start launches the session reaper and the stale slot janitor.
func (s *Service) Start(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.shutdown {
		return ErrShutdown
	}
	if s.cancel != nil {
		return nil
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.sessions.Start(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.governor.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("governor janitor stopped", zap.Error(err))
		}
	}()
	s.logger.Info("weaver started")
	return nil
}

// Shutdown stops background workers and waits for them or ctx to be done.
func (s *Service) Shutdown(ctx context.Context) error {
	s.lifecycle.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.shutdown = true
	s.lifecycle.Unlock()
	if cancel != nil {
		cancel()
	}
	s.governor.Shutdown()
	err := s.sessions.Stop(ctx)
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	_ = s.logger.Sync()
	return err
}

// Execute runs the graph for the workflow and user, holding their execution
// slot for the duration of the run. The session history and context seed the
// flow state and the exchange is recorded as a conversation turn.
func (s *Service) Execute(ctx context.Context, request *Request) (resp *Response, err error) {
	if request == nil || request.Graph == nil {
		return nil, fmt.Errorf("%w: graph was nil", compiler.ErrInvalidGraph)
	}
	workflowID := request.WorkflowID
	if workflowID == "" {
		workflowID = request.Graph.ID
	}
	if workflowID == "" {
		workflowID = request.Graph.Name
	}
	userID := request.UserID
	if userID == "" {
		userID = session.AnonymousUser
	}
	executionID, ok := s.acquire(ctx, workflowID, userID, request.Wait)
	if !ok {
		return nil, fmt.Errorf("%w: workflow %v, user %v", ErrExecutionInProgress, workflowID, userID)
	}
	defer s.governor.Release(workflowID, userID)

	ctx, span := tracing.StartSpan(ctx, tracing.SpanExecute, map[string]string{
		tracing.AttrWorkflowID:  workflowID,
		tracing.AttrExecutionID: executionID,
	})
	defer func() { tracing.EndSpan(span, err) }()

	sessionID, err := s.session(ctx, workflowID, userID, request.SessionID)
	if err != nil {
		return nil, err
	}
	sessionContext, err := s.sessions.GetSessionContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state := execution.NewFlowState(workflowID, userID, sessionID)
	for _, turn := range sessionContext.Messages {
		state.AppendHistory("Human: "+turn.Human, "AI: "+turn.AI)
	}
	for k, v := range sessionContext.Context {
		state.SetVariable(k, v)
	}
	memory := s.sessions.NewMemory(sessionID)
	ctx = session.WithMemory(ctx, memory)
	if s.policy != nil {
		ctx = policy.WithPolicy(ctx, s.policy)
	}

	result, err := s.compiler.CompileAndRun(ctx, request.Graph, request.Input, state)
	if err != nil {
		s.logger.Warn("execution failed",
			zap.String("workflow", workflowID),
			zap.String("execution", executionID),
			zap.Error(err))
		return nil, err
	}
	if err = memory.SaveContext(ctx, map[string]interface{}{"input": request.Input}, map[string]interface{}{"output": result.Output}); err != nil {
		return nil, fmt.Errorf("failed to record turn: %w", err)
	}
	s.logger.Debug("execution completed",
		zap.String("workflow", workflowID),
		zap.String("execution", executionID),
		zap.Strings("nodes", state.Executed()))
	return &Response{
		ExecutionID: executionID,
		SessionID:   sessionID,
		Output:      result.Output,
		State:       state,
		Dropped:     result.Plan.Dropped,
	}, nil
}

func (s *Service) acquire(ctx context.Context, workflowID, userID string, wait time.Duration) (string, bool) {
	if wait <= 0 {
		executionID := s.newID()
		return executionID, s.governor.Acquire(workflowID, userID, executionID)
	}
	if !s.governor.WaitForSlot(ctx, workflowID, userID, wait) {
		return "", false
	}
	if slot, ok := s.governor.Slot(workflowID, userID); ok {
		return slot.ExecutionID, true
	}
	return s.newID(), true
}

// session returns a live session of the workflow and user, creating one when needed.
func (s *Service) session(ctx context.Context, workflowID, userID, sessionID string) (string, error) {
	if sessionID != "" {
		aSession, err := s.sessions.GetSession(ctx, sessionID)
		if err != nil {
			return "", err
		}
		if aSession != nil && aSession.WorkflowID == workflowID && aSession.UserID == userID {
			return sessionID, nil
		}
		s.logger.Debug("session not available, creating new one", zap.String("session", sessionID))
	}
	return s.sessions.CreateSession(ctx, workflowID, userID)
}

// Validate reports graph connection and required input problems
func (s *Service) Validate(aGraph *graph.Graph) *compat.Report {
	return s.compat.ValidateWorkflow(aGraph)
}

// Suggest returns compatible, not yet connected node handles of the graph
func (s *Service) Suggest(aGraph *graph.Graph) []*compat.Suggestion {
	if aGraph == nil {
		return nil
	}
	return s.compat.SuggestConnections(aGraph.Nodes, aGraph.Edges)
}

// LoadGraph loads a graph document (YAML, JSON or HCL)
func (s *Service) LoadGraph(ctx context.Context, URL string) (*graph.Graph, error) {
	return s.meta.LoadGraph(ctx, URL)
}

// RegisterNodes registers node classes
func (s *Service) RegisterNodes(classes ...*node.Class) {
	s.registry.Register(classes...)
}

// Registry returns node class registry
func (s *Service) Registry() *extension.Registry {
	return s.registry
}

// Sessions returns session manager
func (s *Service) Sessions() *session.Manager {
	return s.sessions
}

// Governor returns concurrency governor
func (s *Service) Governor() *governor.Service {
	return s.governor
}

// Compiler returns graph compiler
func (s *Service) Compiler() *compiler.Service {
	return s.compiler
}

// Metrics returns metrics collector
func (s *Service) Metrics() *metrics.Collector {
	return s.metrics
}

// Config returns runtime configuration
func (s *Service) Config() *Config {
	return s.config
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.logger == nil {
		logger, err := logging.New(&s.config.Logging)
		if err != nil {
			return err
		}
		s.logger = logger
	}
	if s.metrics == nil {
		s.metrics = metrics.NewCollector(s.config.Metrics.Namespace)
	}
	if s.config.Tracing.Enabled {
		if err := tracing.Init(s.config.Tracing.Service, s.config.Tracing.Version, s.config.Tracing.OutputFile); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	if s.registry == nil {
		s.registry = extension.NewRegistry()
	}
	s.registry.Register(s.classes...)
	if s.policy == nil {
		s.policy = policy.FromConfig(&s.config.Policy)
	}
	if s.meta == nil {
		s.meta = meta.New(nil, "")
	}
	if s.store == nil {
		store, err := s.newStore(context.Background())
		if err != nil {
			return err
		}
		s.store = store
	}
	s.compat = compat.New(s.registry)
	s.compiler = compiler.New(s.registry,
		compiler.WithLogger(s.logger.Named("compiler")),
		compiler.WithMetrics(s.metrics))
	s.governor = governor.New(s.config.Governor,
		governor.WithLogger(s.logger.Named("governor")),
		governor.WithMetrics(s.metrics))
	sessions, err := session.New(s.config.Session,
		session.WithStore(s.store),
		session.WithLogger(s.logger.Named("session")),
		session.WithMetrics(s.metrics))
	if err != nil {
		return err
	}
	s.sessions = sessions
	return nil
}

func (s *Service) newStore(ctx context.Context) (dao.Service[string, msession.Session], error) {
	switch s.config.Store.Kind {
	case StoreFS:
		return fs.New(ctx, s.config.Store.URL, s.logger.Named("store"))
	case StoreRedis:
		ttl := s.config.Session.TTL
		if ttl <= 0 {
			ttl = session.DefaultConfig().TTL
		}
		return redis.NewFromURL(ctx, s.config.Store.URL, ttl)
	default:
		return memory.New(), nil
	}
}

// New creates a weaver service
func New(options ...Option) (*Service, error) {
	ret := &Service{newID: idgen.Prefixed("exec")}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
