package http

import (
	"context"
	"errors"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/peerpath/internal/config"
)

type Server struct {
	Engine *gin.Engine
	srv    *nethttp.Server
}

func NewServer(httpCfg config.HTTPConfig, cfg RouterConfig) *Server {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = httpCfg.AllowedOrigins
	}
	engine := NewRouter(cfg)
	return &Server{
		Engine: engine,
		srv: &nethttp.Server{
			Addr:              httpCfg.Addr,
			Handler:           engine,
			ReadHeaderTimeout: httpCfg.ReadHeaderTimeout.Duration,
			IdleTimeout:       httpCfg.IdleTimeout.Duration,
		},
	}
}

func (s *Server) Addr() string { return s.srv.Addr }

// Run blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Run() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
