package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/peerpath/internal/config"
	"github.com/yungbote/peerpath/internal/http"
	httpH "github.com/yungbote/peerpath/internal/http/handlers"
	"github.com/yungbote/peerpath/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Recommend *httpH.RecommendHandler
}

func wireHandlers(log *logger.Logger, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(clients.Graph),
		Recommend: httpH.NewRecommendHandler(services.Recommend),
	}
}

func wireServer(cfg config.Config, log *logger.Logger, clients Clients, services Services) *http.Server {
	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers := wireHandlers(log, clients, services)
	return http.NewServer(cfg.HTTP, http.RouterConfig{
		Log:              log,
		ServiceName:      serviceName,
		HealthHandler:    handlers.Health,
		RecommendHandler: handlers.Recommend,
	})
}
