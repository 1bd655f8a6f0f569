package neo4jdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sony/gobreaker/v2"

	"github.com/yungbote/peerpath/internal/config"
	"github.com/yungbote/peerpath/internal/platform/apierr"
	"github.com/yungbote/peerpath/internal/platform/logger"
)

type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
	log      *logger.Logger
	breaker  *gobreaker.CircuitBreaker[[]*neo4j.Record]
	timeout  time.Duration
}

func New(cfg config.Neo4jConfig, log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4jdb: uri required")
	}

	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxPool := cfg.MaxPoolSize
	if maxPool <= 0 {
		maxPool = 50
	}

	auth := neo4j.BasicAuth(cfg.User, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = maxPool
		c.SocketConnectTimeout = timeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: init driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jdb: verify connectivity: %w", err)
	}

	return NewWithDriver(driver, cfg, log), nil
}

// NewWithDriver wraps an already constructed driver. Connectivity is not verified.
func NewWithDriver(driver neo4j.DriverWithContext, cfg config.Neo4jConfig, log *logger.Logger) *Client {
	clog := log.With("client", "Neo4jDB")
	return &Client{
		Driver:   driver,
		Database: cfg.Database,
		log:      clog,
		breaker:  newBreaker(cfg.Breaker, clog),
		timeout:  cfg.Timeout.Duration,
	}
}

func newBreaker(cfg config.BreakerConfig, log *logger.Logger) *gobreaker.CircuitBreaker[[]*neo4j.Record] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 3
	}
	return gobreaker.NewCircuitBreaker[[]*neo4j.Record](gobreaker.Settings{
		Name:        "neo4j",
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout.Duration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Only a lost connection counts against the breaker; query and data errors do not.
		IsSuccessful: func(err error) bool {
			return err == nil || !IsConnectivity(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if log != nil {
				log.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			}
		},
	})
}

// ReadSession opens a read session. The caller owns it and must close it.
func (c *Client) ReadSession(ctx context.Context) (neo4j.SessionWithContext, error) {
	if c == nil || c.Driver == nil {
		return nil, apierr.Upstream(errors.New("neo4jdb: client not initialized"))
	}
	return c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: c.Database,
	}), nil
}

// Collect runs an auto-commit query on session and returns every record. Auto-commit queries are
// not retried by the driver, so a dropped connection surfaces immediately as
// apierr.ErrUpstreamUnavailable.
func (c *Client) Collect(ctx context.Context, session neo4j.SessionWithContext, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	if session == nil {
		return nil, apierr.Upstream(errors.New("neo4jdb: nil session"))
	}
	records, err := c.breaker.Execute(func() ([]*neo4j.Record, error) {
		res, err := session.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, classify(err)
	}
	return records, nil
}

// Ping verifies the driver can reach the server, through the breaker.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return apierr.Upstream(errors.New("neo4jdb: client not initialized"))
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	_, err := c.breaker.Execute(func() ([]*neo4j.Record, error) {
		return nil, c.Driver.VerifyConnectivity(ctx)
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}

func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}
	return neo4j.IsConnectivityError(err) ||
		errors.Is(err, context.DeadlineExceeded)
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return apierr.Upstream(fmt.Errorf("neo4jdb: %w", err))
	case IsConnectivity(err):
		return apierr.Upstream(fmt.Errorf("neo4jdb: %w", err))
	default:
		return fmt.Errorf("neo4jdb: %w", err)
	}
}
