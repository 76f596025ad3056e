package handler

import (
	"crypto/subtle"
	"strconv"

	"github.com/labstack/echo/v4"

	"tsu-arena/internal/domain/battle"
	"tsu-arena/internal/modules/game/service"
	"tsu-arena/internal/pkg/response"
)

const (
	battleTokenHeader  = "X-Battle-Token"
	defaultRecentLimit = 20
)

// BattleResultHandler 接收战斗引擎的回调，并提供战报查询。
type BattleResultHandler struct {
	recordService *service.BattleRecordService
	reportService *service.BattleReportService
	respWriter    response.Writer
	token         string
}

// NewBattleResultHandler 构造函数。token 为空时不校验回调令牌。
func NewBattleResultHandler(sc *service.ServiceContainer, respWriter response.Writer, token string) *BattleResultHandler {
	return &BattleResultHandler{
		recordService: sc.BattleRecordService,
		reportService: sc.BattleReportService,
		respWriter:    respWriter,
		token:         token,
	}
}

// RecentBattlesResponse 最近战斗列表
type RecentBattlesResponse struct {
	Battles []*service.RecordSummary `json:"battles"`
}

// ReportResult 归档战斗日志
// @Summary 上报战斗结果
// @Description 战斗结算服务在战斗结束后回调，提交完整的战斗日志。
// @Description 同一 battle_id 重复提交时覆盖旧记录。
// @Tags 战斗
// @Accept json
// @Produce json
// @Param X-Battle-Token header string false "回调令牌"
// @Param request body battle.BattleResult true "战斗日志"
// @Success 200 {object} response.ResponseResult[service.RecordSummary] "归档成功"
// @Failure 400 {object} response.ResponseResult[response.EmptyData] "请求格式错误"
// @Failure 401 {object} response.ResponseResult[response.EmptyData] "令牌无效"
// @Failure 422 {object} response.ResponseResult[response.EmptyData] "战斗日志不合法"
// @Router /game/battles/results [post]
func (h *BattleResultHandler) ReportResult(c echo.Context) error {
	if !h.authorized(c) {
		return response.EchoUnauthorized(c, h.respWriter, "battle token invalid")
	}

	var payload battle.BattleResult
	if err := c.Bind(&payload); err != nil {
		return response.EchoBadRequest(c, h.respWriter, "invalid battle payload")
	}

	summary, err := h.recordService.Record(c.Request().Context(), &payload)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, summary)
}

// GetReport 获取战报统计
// @Summary 获取战报
// @Description 按 battle_id 返回双方的伤害、治疗、暴击、闪避及分技能统计
// @Tags 战斗
// @Produce json
// @Param battle_id path string true "战斗ID"
// @Success 200 {object} response.ResponseResult[service.BattleReport] "获取成功"
// @Failure 404 {object} response.ResponseResult[response.EmptyData] "战斗记录不存在"
// @Router /game/battles/{battle_id}/report [get]
func (h *BattleResultHandler) GetReport(c echo.Context) error {
	report, err := h.reportService.Report(c.Request().Context(), c.Param("battle_id"))
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, report)
}

// GetResult 获取归档的战斗日志
// @Summary 获取战斗日志
// @Tags 战斗
// @Produce json
// @Param battle_id path string true "战斗ID"
// @Success 200 {object} response.ResponseResult[battle.BattleResult] "获取成功"
// @Failure 404 {object} response.ResponseResult[response.EmptyData] "战斗记录不存在"
// @Router /game/battles/{battle_id} [get]
func (h *BattleResultHandler) GetResult(c echo.Context) error {
	result, err := h.recordService.Get(c.Request().Context(), c.Param("battle_id"))
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, result)
}

// ListRecent 最近归档的战斗
// @Summary 最近战斗
// @Tags 战斗
// @Produce json
// @Param limit query int false "数量，默认20，最大100"
// @Success 200 {object} response.ResponseResult[RecentBattlesResponse] "获取成功"
// @Router /game/battles [get]
func (h *BattleResultHandler) ListRecent(c echo.Context) error {
	limit := defaultRecentLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return response.EchoBadRequest(c, h.respWriter, "limit 必须为正整数")
		}
		limit = n
	}

	battles, err := h.recordService.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, RecentBattlesResponse{Battles: battles})
}

func (h *BattleResultHandler) authorized(c echo.Context) bool {
	if h.token == "" {
		return true
	}
	got := c.Request().Header.Get(battleTokenHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
