package app

import (
	"context"
	"fmt"

	"github.com/yungbote/peerpath/internal/config"
	"github.com/yungbote/peerpath/internal/data/graph"
	"github.com/yungbote/peerpath/internal/platform/logger"
	"github.com/yungbote/peerpath/internal/platform/neo4jdb"
	"github.com/yungbote/peerpath/internal/recommend"
)

// AcademicGraph is a session source that can also report reachability.
type AcademicGraph interface {
	recommend.Gateway
	Ping(ctx context.Context) error
}

type Clients struct {
	Neo4j  *neo4jdb.Client
	Graph  AcademicGraph
	Source string
}

func wireClients(cfg config.Config, log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	if cfg.UsesFixture() {
		fixture, err := graph.LoadFixture(cfg.FixturePath)
		if err != nil {
			return Clients{}, fmt.Errorf("init fixture graph: %w", err)
		}
		return Clients{Graph: fixture, Source: "fixture"}, nil
	}

	client, err := neo4jdb.New(cfg.Neo4j, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init neo4j: %w", err)
	}
	return Clients{
		Neo4j:  client,
		Graph:  graph.NewNeo4jAcademic(client, log),
		Source: "neo4j",
	}, nil
}

func (c *Clients) Close(ctx context.Context, log *logger.Logger) {
	if c == nil || c.Neo4j == nil {
		return
	}
	if err := c.Neo4j.Close(ctx); err != nil && log != nil {
		log.Warn("neo4j close failed", "error", err)
	}
	c.Neo4j = nil
}
