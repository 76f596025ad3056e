package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"tsu-arena/internal/domain/battle"
	"tsu-arena/internal/domain/battle/replay"
	"tsu-arena/internal/pkg/ctxkey"
	"tsu-arena/internal/pkg/log"
	"tsu-arena/internal/pkg/metrics"
	"tsu-arena/internal/pkg/notify"
	"tsu-arena/internal/pkg/xerrors"
)

// ReplayConfig 回放会话限制
type ReplayConfig struct {
	SessionTTL  time.Duration
	MaxSessions int
}

// SessionView 会话维度的回放视图
type SessionView struct {
	SessionID string `json:"session_id"`
	BattleID  string `json:"battle_id,omitempty"`
	// Advanced 本次操作是否改变了状态；终态上的重复操作为 false
	Advanced bool `json:"advanced"`
	replay.View
}

// replaySession 每个展示会话独占一个 Driver，Driver 本身非并发安全，由 mu 保护
type replaySession struct {
	mu       sync.Mutex
	id       string
	battleID string
	driver   *replay.Driver
	lastSeen time.Time
	skipped  bool

	// completion 由 Driver 的 OnComplete 写入，操作结束后由服务发布
	completion *replay.View
}

func (s *replaySession) OnTick(replay.TickEvent) {
	metrics.DefaultReplayMetrics.RecordTick("")
}

func (s *replaySession) OnComplete(view replay.View) {
	s.completion = &view
}

// ReplayService 内存中的回放会话表：session_id → Driver。
// 会话空闲超过 TTL 后由定时任务清理，回放进度不做持久化。
type ReplayService struct {
	mu       sync.RWMutex
	sessions map[string]*replaySession

	loader    battleLoader
	publisher eventPublisher
	cfg       ReplayConfig
	logger    log.Logger
	now       func() time.Time
}

// NewReplayService 构造函数。publisher 可以为 nil。
func NewReplayService(loader battleLoader, publisher eventPublisher, cfg ReplayConfig, logger log.Logger) *ReplayService {
	if logger == nil {
		logger = log.GetLogger()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 15 * time.Minute
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 10000
	}
	return &ReplayService{
		sessions:  make(map[string]*replaySession),
		loader:    loader,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Open 为已归档的战斗创建回放会话
func (s *ReplayService) Open(ctx context.Context, battleID string) (*SessionView, error) {
	result, err := s.loader.Get(ctx, battleID)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, result)
}

// OpenInline 直接用请求携带的战斗日志创建回放会话
func (s *ReplayService) OpenInline(ctx context.Context, result *battle.BattleResult) (*SessionView, error) {
	return s.open(ctx, result)
}

func (s *ReplayService) open(ctx context.Context, result *battle.BattleResult) (*SessionView, error) {
	sess := &replaySession{id: uuid.NewString()}
	driver, err := replay.NewDriver(result, replay.WithListener(sess))
	if err != nil {
		return nil, err
	}
	sess.driver = driver
	sess.battleID = result.BattleID
	sess.lastSeen = s.now()

	if err := s.register(sess); err != nil {
		return nil, err
	}
	metrics.DefaultReplayMetrics.SessionOpened("")

	ctx = sessionContext(ctx, sess)
	log.LogBusinessEvent(ctx, s.logger, "replay_opened", "replay_session", sess.id, map[string]interface{}{
		"battle_id":   sess.battleID,
		"total_turns": len(result.Turns),
	})
	return s.viewOf(sess, true), nil
}

func (s *ReplayService) register(sess *replaySession) error {
	s.mu.Lock()
	full := len(s.sessions) >= s.cfg.MaxSessions
	if !full {
		s.sessions[sess.id] = sess
	}
	s.mu.Unlock()
	if !full {
		return nil
	}

	// 先清理过期会话再重试一次
	if s.SweepExpired(s.now()) == 0 {
		return xerrors.FromCode(xerrors.CodeReplaySessionLimit).WithMetadata("max_sessions", s.cfg.MaxSessions)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) >= s.cfg.MaxSessions {
		return xerrors.FromCode(xerrors.CodeReplaySessionLimit).WithMetadata("max_sessions", s.cfg.MaxSessions)
	}
	s.sessions[sess.id] = sess
	return nil
}

// AdvanceToFighting intro → fighting
func (s *ReplayService) AdvanceToFighting(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.operate(ctx, sessionID, "fighting", func(sess *replaySession) bool {
		return sess.driver.AdvanceToFighting()
	})
}

// Tick 播放下一个回合
func (s *ReplayService) Tick(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.operate(ctx, sessionID, "tick", func(sess *replaySession) bool {
		return sess.driver.AdvanceOneTick()
	})
}

// Skip 跳到最终状态
func (s *ReplayService) Skip(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.operate(ctx, sessionID, "skip", func(sess *replaySession) bool {
		phase := sess.driver.Phase()
		if !sess.driver.Skip() {
			return false
		}
		sess.skipped = true
		metrics.DefaultReplayMetrics.RecordSkip(string(phase), "")
		return true
	})
}

// View 当前视图
func (s *ReplayService) View(ctx context.Context, sessionID string) (*SessionView, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.now()
	return s.viewOf(sess, false), nil
}

// Report 回放结束后的战报。统计本身不依赖回放进度，未结束时不对外提供。
func (s *ReplayService) Report(ctx context.Context, sessionID string) (*BattleReport, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.now()

	if !sess.driver.Done() {
		return nil, xerrors.FromCode(xerrors.CodeReplayReportNotReady).WithSession(sessionID)
	}

	start := time.Now()
	result := sess.driver.Result()
	report := &BattleReport{
		BattleID:  sess.battleID,
		Outcome:   result.Outcome,
		TurnCount: len(result.Turns),
		Stats:     sess.driver.Report(),
	}
	metrics.DefaultReplayMetrics.ObserveReport(time.Since(start), "")
	return report, nil
}

// Close 结束会话
func (s *ReplayService) Close(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	if !ok {
		return xerrors.NewReplaySessionNotFoundError(sessionID)
	}

	s.ended(sess)
	s.logger.DebugContext(sessionContext(ctx, sess), "replay session closed")
	return nil
}

// SweepExpired 清理空闲超过 TTL 的会话，返回清理数量
func (s *ReplayService) SweepExpired(now time.Time) int {
	deadline := now.Add(-s.cfg.SessionTTL)

	var expired []*replaySession
	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(deadline)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			expired = append(expired, sess)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		s.ended(sess)
	}
	return len(expired)
}

// Len 当前会话数
func (s *ReplayService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *ReplayService) operate(ctx context.Context, sessionID, operation string, fn func(sess *replaySession) bool) (*SessionView, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	advanced := fn(sess)
	sess.lastSeen = s.now()
	view := s.viewOf(sess, advanced)
	completion := sess.completion
	sess.completion = nil
	skipped := sess.skipped
	sess.mu.Unlock()

	ctx = sessionContext(ctx, sess)
	log.LogReplayTransition(ctx, s.logger, sess.id, operation, string(view.Phase), view.Cursor, view.TotalTurns)

	if completion != nil {
		s.completed(ctx, sess, *completion, skipped)
	}
	return view, nil
}

func (s *ReplayService) completed(ctx context.Context, sess *replaySession, view replay.View, skipped bool) {
	if s.publisher == nil {
		return
	}
	event := notify.ReplayCompletedEvent{
		SessionID: sess.id,
		BattleID:  sess.battleID,
		Outcome:   string(view.Outcome),
		Cursor:    view.Cursor,
		Turns:     view.TotalTurns,
		Skipped:   skipped,
	}
	if err := s.publisher.Publish(ctx, notify.SubjectReplayCompleted, event); err != nil {
		s.logger.WarnContext(ctx, "publish replay completed event failed", log.Err(err))
	}
}

func (s *ReplayService) ended(sess *replaySession) {
	sess.mu.Lock()
	done := sess.driver.Done()
	sess.mu.Unlock()

	outcome := "abandoned"
	if done {
		outcome = "completed"
	}
	metrics.DefaultReplayMetrics.SessionEnded(outcome, "")
}

func (s *ReplayService) lookup(sessionID string) (*replaySession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, xerrors.NewReplaySessionNotFoundError(sessionID)
	}
	return sess, nil
}

// viewOf 调用方需持有 sess.mu（或会话尚未注册）
func (s *ReplayService) viewOf(sess *replaySession, advanced bool) *SessionView {
	return &SessionView{
		SessionID: sess.id,
		BattleID:  sess.battleID,
		Advanced:  advanced,
		View:      sess.driver.View(),
	}
}

func sessionContext(ctx context.Context, sess *replaySession) context.Context {
	ctx = ctxkey.WithValue(ctx, ctxkey.ReplaySessionID, sess.id)
	if sess.battleID != "" {
		ctx = ctxkey.WithValue(ctx, ctxkey.BattleID, sess.battleID)
	}
	return ctx
}
