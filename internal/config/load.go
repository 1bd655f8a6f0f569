package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/peerpath/internal/platform/envutil"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	s := strings.TrimSpace(node.Value)
	if s == "" || s == "null" || s == "~" {
		d.Duration = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		d.Duration = time.Duration(n) * time.Second
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or integer seconds: %w", err)
	}
	d.Duration = dd
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8000",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			AllowedOrigins:    []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		},
		Neo4j: Neo4jConfig{
			User:        "neo4j",
			Timeout:     Duration{Duration: 10 * time.Second},
			MaxPoolSize: 50,
			Breaker: BreakerConfig{
				FailureThreshold: 3,
				OpenTimeout:      Duration{Duration: 30 * time.Second},
				HalfOpenRequests: 1,
			},
		},
		Recommender: RecommenderConfig{
			Neighbors:    10,
			MaxNeighbors: 50,
		},
		Tracing: TracingConfig{
			Exporter:    "otlp",
			SampleRatio: 0.1,
		},
	}
}

// Option adjusts the configuration after environment overrides and before validation.
type Option func(*Config)

// WithFixture switches the graph source to the YAML fixture at path. An empty path is ignored.
func WithFixture(path string) Option {
	return func(c *Config) {
		if path != "" {
			c.FixturePath = path
		}
	}
}

// Load reads defaults, then the YAML file, then environment overrides, and validates the result.
func Load(opts ...Option) (*Config, error) {
	cfgPath := strings.TrimSpace(os.Getenv("PEERPATH_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	return LoadFile(cfgPath, opts...)
}

func LoadFile(path string, opts ...Option) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		// Decoding over the defaults keeps any section the file leaves out.
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	for _, opt := range opts {
		opt(cfg)
	}
	normalize(cfg)

	if err := validatorInstance().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", translate(err))
	}
	if !cfg.UsesFixture() && cfg.Neo4j.URI == "" {
		return nil, errors.New("config: neo4j.uri (NEO4J_URI) or fixture_path (PEERPATH_FIXTURE_PATH) is required")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.HTTP.Addr = envutil.String("PEERPATH_HTTP_ADDR", cfg.HTTP.Addr)
	if v := envutil.String("PEERPATH_ALLOWED_ORIGINS", ""); v != "" {
		cfg.HTTP.AllowedOrigins = splitCSV(v)
	}

	cfg.Neo4j.URI = envutil.String("NEO4J_URI", cfg.Neo4j.URI)
	cfg.Neo4j.User = envutil.String("NEO4J_USER", cfg.Neo4j.User)
	cfg.Neo4j.Password = envutil.String("NEO4J_PASSWORD", cfg.Neo4j.Password)
	cfg.Neo4j.Database = envutil.String("NEO4J_DATABASE", cfg.Neo4j.Database)
	cfg.Neo4j.Timeout.Duration = envutil.Seconds("NEO4J_TIMEOUT_SECONDS", cfg.Neo4j.Timeout.Duration)
	cfg.Neo4j.MaxPoolSize = envutil.Int("NEO4J_MAX_POOL_SIZE", cfg.Neo4j.MaxPoolSize)

	cfg.Recommender.Neighbors = envutil.Int("PEERPATH_NEIGHBORS", cfg.Recommender.Neighbors)
	cfg.Recommender.MaxNeighbors = envutil.Int("PEERPATH_MAX_NEIGHBORS", cfg.Recommender.MaxNeighbors)

	cfg.Tracing.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Tracing.Endpoint)
	cfg.Tracing.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Tracing.Insecure)
	cfg.Tracing.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", cfg.Tracing.SampleRatio)

	cfg.FixturePath = envutil.String("PEERPATH_FIXTURE_PATH", cfg.FixturePath)
}

func normalize(cfg *Config) {
	cfg.Env = strings.TrimSpace(cfg.Env)
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8000"
	}
	cfg.Neo4j.URI = strings.TrimSpace(cfg.Neo4j.URI)
	if cfg.Neo4j.User == "" {
		cfg.Neo4j.User = "neo4j"
	}
	if cfg.Neo4j.Timeout.Duration <= 0 {
		cfg.Neo4j.Timeout.Duration = 10 * time.Second
	}
	if cfg.Neo4j.Breaker.OpenTimeout.Duration <= 0 {
		cfg.Neo4j.Breaker.OpenTimeout.Duration = 30 * time.Second
	}
	cfg.Tracing.Exporter = strings.ToLower(strings.TrimSpace(cfg.Tracing.Exporter))
	cfg.FixturePath = strings.TrimSpace(cfg.FixturePath)
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
