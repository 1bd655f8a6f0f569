package app

import (
	"github.com/yungbote/peerpath/internal/config"
	"github.com/yungbote/peerpath/internal/platform/logger"
	"github.com/yungbote/peerpath/internal/recommend"
)

type Services struct {
	Recommend *recommend.Service
}

func wireServices(cfg config.Config, log *logger.Logger, clients Clients) Services {
	log.Info("Wiring services...")
	return Services{
		Recommend: recommend.NewService(clients.Graph, log, recommend.ServiceConfig{
			Neighbors:    cfg.Recommender.Neighbors,
			MaxNeighbors: cfg.Recommender.MaxNeighbors,
		}),
	}
}
