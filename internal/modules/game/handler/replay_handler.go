package handler

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"tsu-arena/internal/domain/battle"
	"tsu-arena/internal/modules/game/service"
	"tsu-arena/internal/pkg/response"
)

// ReplayHandler 战斗回放会话接口
type ReplayHandler struct {
	replayService *service.ReplayService
	respWriter    response.Writer
}

// NewReplayHandler 构造函数。
func NewReplayHandler(sc *service.ServiceContainer, respWriter response.Writer) *ReplayHandler {
	return &ReplayHandler{
		replayService: sc.ReplayService,
		respWriter:    respWriter,
	}
}

// OpenReplayRequest 创建回放会话请求，battle_id 与 result 二选一
type OpenReplayRequest struct {
	BattleID string               `json:"battle_id" validate:"required_without=Result,excluded_with=Result,max=128"`
	Result   *battle.BattleResult `json:"result" validate:"-"`
}

// OpenReplay 创建回放会话
// @Summary 创建回放会话
// @Description 按已归档的 battle_id，或直接携带完整战斗日志，创建一个回放会话。
// @Description
// @Description **填写说明**：
// @Description - `battle_id`: 已归档的战斗ID
// @Description - `result`: 完整的战斗日志，与 battle_id 二选一
// @Description
// @Description 会话初始处于 intro 阶段，双方生命与法力为满值。
// @Tags 回放
// @Accept json
// @Produce json
// @Param request body OpenReplayRequest true "创建回放请求"
// @Success 200 {object} response.ResponseResult[service.SessionView] "创建成功"
// @Failure 400 {object} response.ResponseResult[response.EmptyData] "请求参数错误"
// @Failure 404 {object} response.ResponseResult[response.EmptyData] "战斗记录不存在"
// @Failure 422 {object} response.ResponseResult[response.EmptyData] "战斗日志不合法"
// @Failure 429 {object} response.ResponseResult[response.EmptyData] "会话数量已达上限"
// @Router /game/replays [post]
func (h *ReplayHandler) OpenReplay(c echo.Context) error {
	// 1. 绑定和验证 HTTP 请求
	var req OpenReplayRequest
	if err := c.Bind(&req); err != nil {
		return response.EchoBadRequest(c, h.respWriter, "请求格式错误")
	}
	if err := c.Validate(&req); err != nil {
		return response.EchoBadRequest(c, h.respWriter, validationMessage(err))
	}

	// 2. 调用 Service
	ctx := c.Request().Context()
	var (
		view *service.SessionView
		err  error
	)
	if req.Result != nil {
		view, err = h.replayService.OpenInline(ctx, req.Result)
	} else {
		view, err = h.replayService.Open(ctx, req.BattleID)
	}
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, view)
}

// AdvanceToFighting 进入战斗阶段
// @Summary 进入战斗阶段
// @Description intro → fighting；空日志直接进入 result。其他阶段调用时 advanced 为 false。
// @Tags 回放
// @Produce json
// @Param session_id path string true "会话ID"
// @Success 200 {object} response.ResponseResult[service.SessionView] "操作成功"
// @Failure 404 {object} response.ResponseResult[response.EmptyData] "回放会话不存在"
// @Router /game/replays/{session_id}/fighting [post]
func (h *ReplayHandler) AdvanceToFighting(c echo.Context) error {
	view, err := h.replayService.AdvanceToFighting(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, view)
}

// Tick 播放下一个回合
// @Summary 播放下一回合
// @Description 应用下一条回合记录；有一方生命归零或回合耗尽时进入 result。
// @Tags 回放
// @Produce json
// @Param session_id path string true "会话ID"
// @Success 200 {object} response.ResponseResult[service.SessionView] "操作成功"
// @Failure 404 {object} response.ResponseResult[response.EmptyData] "回放会话不存在"
// @Router /game/replays/{session_id}/tick [post]
func (h *ReplayHandler) Tick(c echo.Context) error {
	view, err := h.replayService.Tick(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, view)
}

// Skip 跳过剩余回合
// @Summary 跳过
// @Description 直接跳到最终状态，结果与逐回合播放完全一致。
// @Tags 回放
// @Produce json
// @Param session_id path string true "会话ID"
// @Success 200 {object} response.ResponseResult[service.SessionView] "操作成功"
// @Failure 404 {object} response.ResponseResult[response.EmptyData] "回放会话不存在"
// @Router /game/replays/{session_id}/skip [post]
func (h *ReplayHandler) Skip(c echo.Context) error {
	view, err := h.replayService.Skip(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, view)
}

// GetView 当前回放视图
// @Summary 获取回放视图
// @Tags 回放
// @Produce json
// @Param session_id path string true "会话ID"
// @Success 200 {object} response.ResponseResult[service.SessionView] "获取成功"
// @Failure 404 {object} response.ResponseResult[response.EmptyData] "回放会话不存在"
// @Router /game/replays/{session_id} [get]
func (h *ReplayHandler) GetView(c echo.Context) error {
	view, err := h.replayService.View(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, view)
}

// GetReport 回放结束后的战报
// @Summary 获取回放战报
// @Tags 回放
// @Produce json
// @Param session_id path string true "会话ID"
// @Success 200 {object} response.ResponseResult[service.BattleReport] "获取成功"
// @Failure 404 {object} response.ResponseResult[response.EmptyData] "回放会话不存在"
// @Failure 409 {object} response.ResponseResult[response.EmptyData] "回放尚未结束"
// @Router /game/replays/{session_id}/report [get]
func (h *ReplayHandler) GetReport(c echo.Context) error {
	report, err := h.replayService.Report(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, report)
}

// CloseReplay 结束回放会话
// @Summary 结束回放会话
// @Tags 回放
// @Produce json
// @Param session_id path string true "会话ID"
// @Success 200 {object} response.ResponseResult[response.EmptyData] "操作成功"
// @Failure 404 {object} response.ResponseResult[response.EmptyData] "回放会话不存在"
// @Router /game/replays/{session_id} [delete]
func (h *ReplayHandler) CloseReplay(c echo.Context) error {
	if err := h.replayService.Close(c.Request().Context(), c.Param("session_id")); err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, response.EmptyData{})
}

// validationMessage 取出 echo.HTTPError 中的校验提示
func validationMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}
