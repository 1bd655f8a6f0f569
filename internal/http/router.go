package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/peerpath/internal/http/handlers"
	httpMW "github.com/yungbote/peerpath/internal/http/middleware"
	"github.com/yungbote/peerpath/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	HealthHandler    *httpH.HealthHandler
	RecommendHandler *httpH.RecommendHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "peerpath"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics())
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.RecommendHandler != nil {
		// Path shared with the web frontend.
		r.GET("/ml/recommendations", cfg.RecommendHandler.Recommendations)
		r.GET("/students/:name/path", cfg.RecommendHandler.CoursePath)
	}

	return r
}
