package handler

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"tsu-arena/internal/domain/battle"
	"tsu-arena/internal/modules/game/service"
	"tsu-arena/internal/pkg/log"
	"tsu-arena/internal/pkg/notify"
	"tsu-arena/internal/pkg/trace"
	"tsu-arena/internal/pkg/xerrors"
)

// subscriberQueue 多实例部署时同一条日志只归档一次
const subscriberQueue = "tsu-arena-battle-recorder"

// BattleResultSubscriber 从 NATS 接收结算服务产出的战斗日志并归档
type BattleResultSubscriber struct {
	recordService *service.BattleRecordService
	logger        log.Logger
	timeout       time.Duration
}

// NewBattleResultSubscriber 构造函数。
func NewBattleResultSubscriber(sc *service.ServiceContainer, logger log.Logger) *BattleResultSubscriber {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &BattleResultSubscriber{
		recordService: sc.BattleRecordService,
		logger:        logger,
		timeout:       5 * time.Second,
	}
}

// Subscribe 以队列组订阅 battle.result.ready
func (s *BattleResultSubscriber) Subscribe(conn *nats.Conn) (*nats.Subscription, error) {
	return conn.QueueSubscribe(notify.SubjectBattleResultReady, subscriberQueue, s.HandleMessage)
}

// HandleMessage 处理单条消息。消息可以是 notify 外层结构，也可以直接是战斗日志。
func (s *BattleResultSubscriber) HandleMessage(msg *nats.Msg) {
	env := notify.Unwrap(msg.Data)

	traceID := env.TraceID
	if traceID == "" {
		traceID = trace.GenerateTraceID()
	}
	ctx, cancel := context.WithTimeout(trace.WithTraceID(context.Background(), traceID), s.timeout)
	defer cancel()

	result, err := battle.Decode(env.Payload)
	if err != nil {
		log.LogAppError(ctx, s.logger, "drop malformed battle result", xerrors.Wrap(err, xerrors.CodeBattleLogInvalid, "战斗日志格式错误"))
		return
	}

	summary, err := s.recordService.Record(ctx, result)
	if err != nil {
		log.LogAppError(ctx, s.logger, "record battle result from nats failed", xerrors.Wrap(err, xerrors.CodeInternalError, "归档失败"))
		return
	}
	s.logger.InfoContext(ctx, "battle result recorded from nats",
		log.String("battle_id", summary.BattleID),
		log.Int("turn_count", summary.TurnCount),
	)
}
