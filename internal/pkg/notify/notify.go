// Package notify 通过 NATS 广播战斗相关事件
package notify

import (
	"context"
	"encoding/json"
	"time"

	"tsu-arena/internal/pkg/trace"
	"tsu-arena/internal/pkg/xerrors"
)

// Subjects
const (
	// SubjectBattleResultReady 战斗结算服务产出的日志（本服务订阅）
	SubjectBattleResultReady = "battle.result.ready"
	// SubjectBattleResultRecorded 战斗日志已归档
	SubjectBattleResultRecorded = "battle.result.recorded"
	// SubjectReplayCompleted 回放会话播放完毕
	SubjectReplayCompleted = "battle.replay.completed"
)

// Conn 发布所需的最小连接能力，*nats.Conn 满足该接口
type Conn interface {
	Publish(subject string, data []byte) error
}

// Envelope 事件外层结构
type Envelope struct {
	Subject    string    `json:"subject"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// RawEnvelope 入站事件，payload 延迟解析
type RawEnvelope struct {
	Subject    string          `json:"subject"`
	TraceID    string          `json:"trace_id,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Unwrap 解析入站消息。没有外层结构的消息整体作为 payload 返回。
func Unwrap(data []byte) RawEnvelope {
	var env RawEnvelope
	if err := json.Unmarshal(data, &env); err != nil || len(env.Payload) == 0 || string(env.Payload) == "null" {
		return RawEnvelope{Payload: data}
	}
	return env
}

// Publisher 事件发布器；没有连接时静默降级
type Publisher struct {
	conn Conn
	now  func() time.Time
}

// NewPublisher 构造函数。conn 可以为 nil。
func NewPublisher(conn Conn) *Publisher {
	return &Publisher{conn: conn, now: time.Now}
}

// Enabled 是否已连接
func (p *Publisher) Enabled() bool {
	return p != nil && p.conn != nil
}

// Publish 发布事件，trace_id 取自 ctx。失败时返回 CodeMessageQueueError。
func (p *Publisher) Publish(ctx context.Context, subject string, payload any) error {
	if !p.Enabled() {
		return nil
	}
	data, err := json.Marshal(Envelope{
		Subject:    subject,
		TraceID:    trace.GetTraceID(ctx),
		OccurredAt: p.now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return xerrors.NewMessageQueueError(subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return xerrors.NewMessageQueueError(subject, err)
	}
	return nil
}

// BattleRecordedEvent 战斗日志归档事件
type BattleRecordedEvent struct {
	BattleID  string `json:"battle_id"`
	Outcome   string `json:"outcome"`
	TurnCount int    `json:"turn_count"`
}

// ReplayCompletedEvent 回放完成事件
type ReplayCompletedEvent struct {
	SessionID string `json:"session_id"`
	BattleID  string `json:"battle_id,omitempty"`
	Outcome   string `json:"outcome"`
	Cursor    int    `json:"cursor"`
	Turns     int    `json:"total_turns"`
	Skipped   bool   `json:"skipped"`
}
