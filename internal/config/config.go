package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `yaml:"addr" validate:"required"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
	IdleTimeout       Duration `yaml:"idle_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout"`

	// AllowedOrigins feeds the CORS middleware. The planner frontend runs on :3000 by default.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type BreakerConfig struct {
	// FailureThreshold is the number of consecutive connectivity failures that opens the breaker.
	FailureThreshold uint32   `yaml:"failure_threshold" validate:"min=1"`
	OpenTimeout      Duration `yaml:"open_timeout"`
	HalfOpenRequests uint32   `yaml:"half_open_requests" validate:"min=1"`
}

type Neo4jConfig struct {
	URI         string        `yaml:"uri"`
	User        string        `yaml:"user"`
	Password    string        `yaml:"password"`
	Database    string        `yaml:"database"`
	Timeout     Duration      `yaml:"timeout"`
	MaxPoolSize int           `yaml:"max_pool_size" validate:"min=1"`
	Breaker     BreakerConfig `yaml:"breaker"`
}

type RecommenderConfig struct {
	// Neighbors is the number of alumni peers consulted when a request does not ask for top_k.
	Neighbors int `yaml:"neighbors" validate:"min=1"`
	// MaxNeighbors bounds a caller-supplied top_k.
	MaxNeighbors int `yaml:"max_neighbors" validate:"min=1,gtefield=Neighbors"`
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Exporter    string  `yaml:"exporter" validate:"omitempty,oneof=otlp stdout"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio" validate:"gte=0,lte=1"`
}

type Config struct {
	Env         string            `yaml:"env" validate:"required"`
	HTTP        HTTPConfig        `yaml:"http"`
	Neo4j       Neo4jConfig       `yaml:"neo4j"`
	Recommender RecommenderConfig `yaml:"recommender"`
	Tracing     TracingConfig     `yaml:"tracing"`

	// FixturePath points at a YAML academic graph. When set, the service reads it instead of neo4j.
	FixturePath string `yaml:"fixture_path"`
}

func (c *Config) UsesFixture() bool {
	return c != nil && c.FixturePath != ""
}
