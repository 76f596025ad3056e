package handler

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"tsu-arena/internal/domain/battle"
	"tsu-arena/internal/modules/game/service"
	"tsu-arena/internal/pkg/xerrors"
)

// BattleRPCHandler 战斗 RPC 处理器
// 提供给其他 mqant 模块调用；请求与响应均为 protobuf 编码的 google.protobuf.Struct
type BattleRPCHandler struct {
	recordService *service.BattleRecordService
	reportService *service.BattleReportService
	timeout       time.Duration
}

// NewBattleRPCHandler 创建战斗 RPC Handler
func NewBattleRPCHandler(sc *service.ServiceContainer) *BattleRPCHandler {
	return &BattleRPCHandler{
		recordService: sc.BattleRecordService,
		reportService: sc.BattleReportService,
		timeout:       5 * time.Second,
	}
}

// ==================== RPC Methods ====================

// GetBattleStats 获取战报统计
// 请求: {"battle_id": "..."}
func (h *BattleRPCHandler) GetBattleStats(data []byte) ([]byte, error) {
	req, err := unmarshalStruct(data)
	if err != nil {
		return nil, err
	}

	battleID := strings.TrimSpace(req.GetFields()["battle_id"].GetStringValue())
	if battleID == "" {
		return nil, xerrors.NewValidationError("battle_id", "battle_id 不能为空")
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	report, err := h.reportService.Report(ctx, battleID)
	if err != nil {
		return nil, err
	}
	return marshalStruct(report)
}

// RecordBattleResult 归档战斗日志
// 请求为完整的战斗日志结构
func (h *BattleRPCHandler) RecordBattleResult(data []byte) ([]byte, error) {
	req, err := unmarshalStruct(data)
	if err != nil {
		return nil, err
	}

	raw, err := protojson.Marshal(req)
	if err != nil {
		return nil, xerrors.NewValidationError("request", "invalid battle payload")
	}
	result, err := battle.Decode(raw)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	summary, err := h.recordService.Record(ctx, result)
	if err != nil {
		return nil, err
	}
	return marshalStruct(summary)
}

func unmarshalStruct(data []byte) (*structpb.Struct, error) {
	req := &structpb.Struct{}
	if err := proto.Unmarshal(data, req); err != nil {
		return nil, xerrors.NewValidationError("request", "invalid protobuf data")
	}
	return req, nil
}

// marshalStruct 经 JSON 转为 Struct，字段名与 HTTP 接口一致
func marshalStruct(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeInternalError, "failed to encode rpc response")
	}
	resp := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, resp); err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeInternalError, "failed to encode rpc response")
	}
	return proto.Marshal(resp)
}
