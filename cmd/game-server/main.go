package main

import (
	"fmt"
	"os"
	"time"

	"github.com/liangdas/mqant"
	"github.com/liangdas/mqant/module"
	"github.com/liangdas/mqant/registry"
	"github.com/liangdas/mqant/registry/consul"
	"github.com/nats-io/nats.go"

	docs "tsu-arena/docs/game"
	"tsu-arena/internal/modules/game"
	"tsu-arena/internal/pkg/config"
)

// @title           TSU Arena API
// @version         1.0
// @description     战斗回放与战报统计 API - 基于 mqant 微服务架构

// @contact.name   TSU API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost
// @BasePath  /api/v1

func main() {
	fmt.Println("==============================================")
	fmt.Println("  TSU Arena Game Server")
	fmt.Println("==============================================")

	consulAddr := config.GetEnvOrDefault("CONSUL_ADDRESS", "localhost:8500")
	natsAddr := config.GetEnvOrDefault("NATS_ADDRESS", "localhost:4222")
	configPath := config.GetEnvOrDefault("GAME_SERVER_CONFIG", "./configs/server/game-server.json")
	fmt.Printf("[Main] consul=%s nats=%s config=%s\n", consulAddr, natsAddr, configPath)

	nc, err := nats.Connect("nats://"+natsAddr,
		nats.Name("tsu-arena-game-server"),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Main] failed to connect to NATS: %v\n", err)
		os.Exit(1)
	}

	// Swagger 跟随请求来源
	docs.SwaggerInfo.Host = ""
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}

	rs := consul.NewRegistry(func(options *registry.Options) {
		options.Addrs = []string{consulAddr}
	})

	app := mqant.CreateApp(
		module.Configure(configPath),
		module.Debug(false),
		module.Nats(nc),
		module.Registry(rs),
	)

	// 游戏模块复用同一个 NATS 连接订阅战斗结果、发布回放事件
	app.Run(game.Module(nc))
}
