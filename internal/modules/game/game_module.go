package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	custommiddleware "tsu-arena/internal/middleware"
	"tsu-arena/internal/modules/game/handler"
	"tsu-arena/internal/modules/game/service"
	"tsu-arena/internal/modules/game/tasks"
	"tsu-arena/internal/pkg/config"
	"tsu-arena/internal/pkg/log"
	"tsu-arena/internal/pkg/metrics"
	natshealth "tsu-arena/internal/pkg/nats"
	"tsu-arena/internal/pkg/notify"
	redisClient "tsu-arena/internal/pkg/redis"
	"tsu-arena/internal/pkg/response"
	"tsu-arena/internal/pkg/trace"
	"tsu-arena/internal/pkg/validator"
	"tsu-arena/internal/repository/impl"
	"tsu-arena/internal/repository/interfaces"
	"tsu-arena/internal/repository/memory"

	_ "tsu-arena/docs/game" // Swagger 生成的文档

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/liangdas/mqant/conf"
	"github.com/liangdas/mqant/module"
	basemodule "github.com/liangdas/mqant/module/base"
	"github.com/liangdas/mqant/server"
	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const maxOpenConns = 25

type GameModule struct {
	basemodule.BaseModule
	cfg              config.ReplayConfig
	logger           log.Logger
	db               *sql.DB
	redis            *redisClient.Client
	natsConn         *nats.Conn
	natsHealth       *natshealth.HealthChecker
	natsSub          *nats.Subscription
	httpServer       *echo.Echo
	serviceContainer *service.ServiceContainer
	battleHandler    *handler.BattleResultHandler
	replayHandler    *handler.ReplayHandler
	rpcHandler       *handler.BattleRPCHandler
	subscriber       *handler.BattleResultSubscriber
	sweepTask        *tasks.ReplaySweepTask
	resourceTask     *tasks.ResourceStatsTask
	respWriter       response.Writer
	cancel           context.CancelFunc
}

// GetType returns module type
func (m *GameModule) GetType() string {
	return "game"
}

// Version returns module version
func (m *GameModule) Version() string {
	return "1.0.0"
}

// OnAppConfigurationLoaded 当App初始化时调用
func (m *GameModule) OnAppConfigurationLoaded(app module.App) {
	m.BaseModule.OnAppConfigurationLoaded(app)
}

// OnInit module initialization
func (m *GameModule) OnInit(app module.App, settings *conf.ModuleSettings) {
	metrics.SetServiceName("arena")
	// 按照 mqant 官方推荐：在每个模块的 OnInit 中配置服务注册参数
	// TTL = 30s, 心跳间隔 = 15s (TTL 必须大于心跳间隔)
	m.BaseModule.OnInit(m, app, settings,
		server.RegisterInterval(15*time.Second),
		server.RegisterTTL(30*time.Second),
	)

	m.cfg = config.LoadReplayConfig(settingString(settings, "database_url"))
	if port := settingString(settings, "http_port"); port != "" && m.cfg.HTTPPort == "8072" {
		m.cfg.HTTPPort = port
	}
	log.Init(log.ParseLevel(m.cfg.LogLevel), m.cfg.Environment)
	m.logger = log.GetLogger()
	m.logger.Info("[Game Module] configuration loaded", log.Any("config", m.cfg.LogFields()))

	var ctx context.Context
	ctx, m.cancel = context.WithCancel(context.Background())

	// 1. Initialize database connection
	if err := m.initDatabase(); err != nil {
		panic(fmt.Sprintf("Failed to initialize database: %v", err))
	}

	// 2. Redis 与 NATS 均为可选依赖，不可用时降级
	m.initRedis()
	m.initNats(ctx)

	// 3. Initialize response writer
	m.respWriter = response.NewResponseHandler(m.logger, m.cfg.Environment)

	// 4. Initialize HTTP server
	m.initHTTPServer()

	// 5. Initialize Services and Handlers
	m.initServicesAndHandlers()

	// 6. Setup routes
	m.setupRoutes()

	// 7. Setup RPC methods
	m.setupRPCMethods()

	// 8. Subscribe battle results
	m.subscribeBattleResults()

	// 9. Start cron tasks
	m.startCronTasks()

	// 10. Start HTTP server in background
	go m.startHTTPServer()

	m.GetServer().Options()
}

// initDatabase 未配置数据库地址时使用内存仓储（仅用于本地调试）
func (m *GameModule) initDatabase() error {
	if m.cfg.DatabaseURL == "" {
		if m.cfg.Environment == "production" {
			return fmt.Errorf("TSU_GAME_DATABASE_URL not set")
		}
		m.logger.Warn("[Game Module] TSU_GAME_DATABASE_URL not set, battle records kept in memory")
		return nil
	}

	db, err := sql.Open("postgres", m.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	m.db = db
	m.logger.Info("[Game Module] Database initialized successfully")
	return nil
}

// initRedis 连接失败时战报不缓存
func (m *GameModule) initRedis() {
	client, err := redisClient.NewClient(redisClient.Config{
		Host:     m.cfg.RedisHost,
		Port:     m.cfg.RedisPort,
		Password: m.cfg.RedisPassword,
		DB:       m.cfg.RedisDB,
	}, metrics.GetServiceName())
	if err != nil {
		m.logger.Warn("[Game Module] Redis unavailable, battle report cache disabled", log.Err(err))
		return
	}

	m.redis = client
	m.logger.Info("[Game Module] Redis connected successfully",
		log.String("host", m.cfg.RedisHost),
		log.Int("port", m.cfg.RedisPort),
		log.Int("db", m.cfg.RedisDB),
	)
}

// initNats 优先复用 mqant 的连接
func (m *GameModule) initNats(ctx context.Context) {
	nc := m.natsConn
	if nc == nil {
		var err error
		nc, err = nats.Connect("nats://"+m.cfg.NatsAddress,
			nats.Name("tsu-arena-game"),
			nats.MaxReconnects(10),
			nats.ReconnectWait(1*time.Second),
		)
		if err != nil {
			m.logger.Warn("[Game Module] NATS unavailable, battle events disabled", log.Err(err))
			return
		}
		m.natsConn = nc
	}

	m.natsHealth = natshealth.NewHealthChecker(nc, 10*time.Second)
	go m.natsHealth.Start(ctx)
}

// initHTTPServer initializes HTTP server
func (m *GameModule) initHTTPServer() {
	m.httpServer = echo.New()

	// Hide banner
	m.httpServer.HideBanner = true
	m.httpServer.HidePort = true

	// Register validator
	m.httpServer.Validator = validator.New()

	// ========== 中间件配置（顺序很重要！） ==========

	// 1. TraceID 中间件 - 最先执行，生成或提取 TraceID
	m.httpServer.Use(trace.Middleware())

	// 2. Metrics 中间件 - 记录请求数与延迟（用于 Prometheus）
	m.httpServer.Use(metrics.Middleware())

	// 3. Logging 中间件 - 记录请求日志（依赖 TraceID）
	loggingConfig := custommiddleware.DefaultLoggingConfig()
	if m.cfg.Environment == "development" {
		loggingConfig.DetailedLog = true
		loggingConfig.LogRequestBody = true
	}
	m.httpServer.Use(custommiddleware.LoggingMiddlewareWithConfig(m.logger, loggingConfig))

	// 4. Recovery 中间件 - 捕获 panic
	m.httpServer.Use(custommiddleware.RecoveryMiddleware(m.respWriter, m.logger))

	// 5. Error 中间件 - 统一错误处理
	m.httpServer.Use(custommiddleware.ErrorMiddleware(m.respWriter, m.logger))

	// 6. 请求体上限，战斗日志一般在几十 KB 以内
	m.httpServer.Use(middleware.BodyLimit("2M"))

	// 7. CORS 中间件
	m.httpServer.Use(middleware.CORS())
}

// initServicesAndHandlers initializes services and HTTP handlers
func (m *GameModule) initServicesAndHandlers() {
	cfg := service.ContainerConfig{
		Records: m.recordRepository(),
		Replay: service.ReplayConfig{
			SessionTTL:  m.cfg.SessionTTL,
			MaxSessions: m.cfg.MaxSessions,
		},
		ReportTTL: m.cfg.ReportCacheTTL,
		Logger:    m.logger,
	}
	// 可选依赖只在可用时赋值，避免带类型的 nil
	if m.redis != nil {
		cfg.Cache = m.redis
	}
	if m.natsConn != nil {
		cfg.Publisher = notify.NewPublisher(m.natsConn)
	}
	m.serviceContainer = service.NewServiceContainer(cfg)

	m.battleHandler = handler.NewBattleResultHandler(m.serviceContainer, m.respWriter, m.cfg.BattleResultToken)
	m.replayHandler = handler.NewReplayHandler(m.serviceContainer, m.respWriter)
	m.rpcHandler = handler.NewBattleRPCHandler(m.serviceContainer)
	m.subscriber = handler.NewBattleResultSubscriber(m.serviceContainer, m.logger)

	m.logger.Info("[Game Module] Handlers initialized successfully")
}

func (m *GameModule) recordRepository() interfaces.BattleRecordRepository {
	if m.db == nil {
		return memory.NewBattleRecordRepository()
	}
	return impl.NewBattleRecordRepository(m.db)
}

// setupRoutes sets up HTTP routes
func (m *GameModule) setupRoutes() {
	// API v1 group
	v1 := m.httpServer.Group("/api/v1")
	handler.RegisterRoutes(v1.Group("/game"), m.battleHandler, m.replayHandler)

	// Swagger UI
	m.httpServer.GET("/swagger/*", echoSwagger.WrapHandler)

	// Health check
	m.httpServer.GET("/health", m.health)

	// Prometheus metrics endpoint
	m.httpServer.GET("/metrics", metrics.EchoHandler(nil))

	m.logger.Info("[Game Module] Routes configured successfully",
		log.String("swagger", "http://localhost:"+m.cfg.HTTPPort+"/swagger/index.html"),
		log.String("metrics", "http://localhost:"+m.cfg.HTTPPort+"/metrics"),
	)
}

func (m *GameModule) health(c echo.Context) error {
	status := map[string]interface{}{
		"status":          "ok",
		"module":          "game",
		"replay_sessions": m.serviceContainer.ReplayService.Len(),
		"database":        m.db != nil,
		"redis":           m.redis != nil,
		"nats":            m.natsHealth != nil && m.natsHealth.IsHealthy(),
	}
	code := http.StatusOK
	if m.db != nil {
		if err := m.db.PingContext(c.Request().Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = false
			code = http.StatusServiceUnavailable
		}
	}
	return c.JSON(code, status)
}

// setupRPCMethods 注册 RPC 方法
// 供其他模块调用
func (m *GameModule) setupRPCMethods() {
	m.GetServer().RegisterGO("GetBattleStats", m.rpcHandler.GetBattleStats)
	m.GetServer().RegisterGO("RecordBattleResult", m.rpcHandler.RecordBattleResult)

	m.logger.Info("[Game Module] RPC methods registered: GetBattleStats, RecordBattleResult")
}

func (m *GameModule) subscribeBattleResults() {
	if m.natsConn == nil {
		return
	}
	sub, err := m.subscriber.Subscribe(m.natsConn)
	if err != nil {
		m.logger.Error("[Game Module] subscribe battle results failed", err, log.String("subject", notify.SubjectBattleResultReady))
		return
	}
	m.natsSub = sub
	m.logger.Info("[Game Module] subscribed", log.String("subject", notify.SubjectBattleResultReady))
}

// startCronTasks starts cron scheduled tasks
func (m *GameModule) startCronTasks() {
	m.sweepTask = tasks.NewReplaySweepTask(m.serviceContainer.ReplayService, m.cfg.SweepSpec, m.logger)
	if err := m.sweepTask.Start(); err != nil {
		panic(fmt.Sprintf("Failed to start replay sweep task: %v", err))
	}

	var (
		db    interface{ Stats() sql.DBStats }
		redis interface{ RecordPoolStats() }
	)
	if m.db != nil {
		db = m.db
	}
	if m.redis != nil {
		redis = m.redis
	}
	m.resourceTask = tasks.NewResourceStatsTask(db, redis, m.logger)
	if err := m.resourceTask.Start(); err != nil {
		m.logger.Warn("[Game Module] resource stats task disabled", log.Err(err))
	}
}

// startHTTPServer starts HTTP server
func (m *GameModule) startHTTPServer() {
	m.logger.Info("[Game Module] Starting HTTP server", log.String("port", m.cfg.HTTPPort))

	if err := m.httpServer.Start(":" + m.cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
		m.logger.Error("[Game Module] HTTP server error", err)
	}
}

// Run module run
func (m *GameModule) Run(closeSig chan bool) {
	m.logger.Info("[Game Module] Started successfully")
	<-closeSig
}

// OnDestroy module destroy
func (m *GameModule) OnDestroy() {
	if m.natsSub != nil {
		_ = m.natsSub.Drain()
	}

	// Stop cron tasks
	if m.sweepTask != nil {
		m.sweepTask.Stop()
	}
	if m.resourceTask != nil {
		m.resourceTask.Stop()
	}
	if m.cancel != nil {
		m.cancel()
	}

	// Close HTTP server
	if m.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := m.httpServer.Shutdown(ctx); err != nil {
			m.logger.Error("[Game Module] Failed to close HTTP server", err)
		}
		cancel()
	}

	if m.redis != nil {
		if err := m.redis.Close(); err != nil {
			m.logger.Error("[Game Module] Failed to close redis", err)
		}
	}

	// Close database connection
	if m.db != nil {
		if err := m.db.Close(); err != nil {
			m.logger.Error("[Game Module] Failed to close database", err)
		}
	}

	m.BaseModule.OnDestroy()
	m.logger.Info("[Game Module] Destroyed")
}

// Module creates Game module instance。nc 为 mqant 使用的 NATS 连接，可以为 nil。
func Module(nc *nats.Conn) module.Module {
	return &GameModule{natsConn: nc}
}

func settingString(settings *conf.ModuleSettings, key string) string {
	if settings == nil || settings.Settings == nil {
		return ""
	}
	v, _ := settings.Settings[key].(string)
	return v
}
