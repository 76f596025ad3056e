package handler

import "github.com/labstack/echo/v4"

// RegisterRoutes 挂载战斗与回放路由，game 为 /api/v1/game 分组
func RegisterRoutes(game *echo.Group, battles *BattleResultHandler, replays *ReplayHandler) {
	b := game.Group("/battles")
	{
		b.POST("/results", battles.ReportResult) // 结算服务回调
		b.GET("", battles.ListRecent)
		b.GET("/:battle_id", battles.GetResult)
		b.GET("/:battle_id/report", battles.GetReport)
	}

	r := game.Group("/replays")
	{
		r.POST("", replays.OpenReplay)
		r.GET("/:session_id", replays.GetView)
		r.DELETE("/:session_id", replays.CloseReplay)
		r.POST("/:session_id/fighting", replays.AdvanceToFighting)
		r.POST("/:session_id/tick", replays.Tick)
		r.POST("/:session_id/skip", replays.Skip)
		r.GET("/:session_id/report", replays.GetReport)
	}
}
