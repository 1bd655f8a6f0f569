package recommend

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/peerpath/internal/domain/academic"
	"github.com/yungbote/peerpath/internal/observability"
	"github.com/yungbote/peerpath/internal/platform/apierr"
	"github.com/yungbote/peerpath/internal/platform/ctxutil"
	"github.com/yungbote/peerpath/internal/platform/logger"
)

type Options struct {
	// Neighbors overrides the configured number of peers. Zero keeps the default.
	Neighbors int
}

type PeerMatch struct {
	AlumnusID string  `json:"alumnus_id"`
	Distance  float64 `json:"distance"`
	GPA       float64 `json:"gpa"`
}

type Result struct {
	StudentID string          `json:"student_id"`
	DegreeID  string          `json:"degree_id"`
	Courses   []string        `json:"courses"`
	Scores    []CourseScore   `json:"scores"`
	Average   float64         `json:"average"`
	Season    academic.Season `json:"season"`
	Terms     []string        `json:"semesters"`
	Plan      []Entry         `json:"plan"`
	Peers     []PeerMatch     `json:"peers"`
}

type ServiceConfig struct {
	Neighbors    int
	MaxNeighbors int
	// Now decides which alumni have graduated. Defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	gateway      Gateway
	log          *logger.Logger
	extractor    *Extractor
	neighbors    int
	maxNeighbors int
	now          func() time.Time
	tracer       trace.Tracer
}

func NewService(gw Gateway, log *logger.Logger, cfg ServiceConfig) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Neighbors <= 0 {
		cfg.Neighbors = DefaultNeighbors
	}
	if cfg.MaxNeighbors < cfg.Neighbors {
		cfg.MaxNeighbors = cfg.Neighbors
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	slog := log.With("service", "RecommendService")
	return &Service{
		gateway:      gw,
		log:          slog,
		extractor:    NewExtractor(slog),
		neighbors:    cfg.Neighbors,
		maxNeighbors: cfg.MaxNeighbors,
		now:          cfg.Now,
		tracer:       otel.Tracer("github.com/yungbote/peerpath/internal/recommend"),
	}
}

func (s *Service) neighborsFor(opts Options) int {
	switch {
	case opts.Neighbors <= 0:
		return s.neighbors
	case opts.Neighbors > s.maxNeighbors:
		return s.maxNeighbors
	default:
		return opts.Neighbors
	}
}

// Recommend ranks courses for the named student from the outcomes of their nearest graduated
// peers. The encoder and index are rebuilt on every call.
func (s *Service) Recommend(ctx context.Context, name string, opts Options) (res *Result, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "recommend.Recommend")
	log := s.log.With(ctxutil.LogFields(ctx)...).With("student_name", name)
	defer func() {
		observability.RecommendRequests.WithLabelValues(observability.Outcome(err)).Inc()
		observability.ObserveStage("total", start)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Info("recommendation failed", "outcome", observability.Outcome(err), "error", err)
		}
		span.End()
	}()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.NotFound("student name is empty")
	}
	k := s.neighborsFor(opts)
	span.SetAttributes(attribute.Int("recommend.k", k))

	sess, err := s.gateway.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := sess.Close(context.WithoutCancel(ctx)); cerr != nil {
			log.Warn("close graph session", "error", cerr)
		}
	}()

	res = &Result{}

	err = s.stage(ctx, "resolve", func(ctx context.Context) error {
		id, err := sess.ResolveStudentID(ctx, name)
		if err != nil {
			return err
		}
		degree, err := sess.ResolveDegree(ctx, id)
		if err != nil {
			return err
		}
		res.StudentID, res.DegreeID = id, degree
		return nil
	})
	if err != nil {
		return nil, err
	}

	var samples []AlumnusSample
	err = s.stage(ctx, "extract", func(ctx context.Context) error {
		var (
			stats ExtractStats
			err   error
		)
		samples, stats, err = s.extractor.Extract(ctx, sess, res.DegreeID, res.StudentID, s.now())
		if err != nil {
			return err
		}
		observability.AlumniPopulation.Observe(float64(stats.Kept))
		if stats.Alumni == 0 {
			return apierr.EmptyResult("degree %s has no graduated alumni", res.DegreeID)
		}
		if len(samples) == 0 {
			return apierr.EmptyResult("none of the %d alumni of degree %s has a usable course history", stats.Alumni, res.DegreeID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var (
		encoder *Encoder
		index   *Index
	)
	err = s.stage(ctx, "fit", func(ctx context.Context) error {
		profiles := make([]academic.Profile, len(samples))
		for i, smp := range samples {
			profiles[i] = smp.Profile
		}
		var err error
		encoder, err = FitEncoder(profiles)
		if err != nil {
			return err
		}
		vectors, err := encoder.TransformAll(profiles)
		if err != nil {
			return err
		}
		index, err = NewIndex(vectors)
		if err != nil {
			return err
		}
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Int("recommend.population", index.Len()),
			attribute.Int("recommend.width", index.Width()),
		)
		log.Debug("peer index built",
			"alumni", index.Len(),
			"width", encoder.Width(),
			"features", encoder.FeatureNames(),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var peers []AlumnusSample
	err = s.stage(ctx, "query", func(ctx context.Context) error {
		profile, ok, err := sess.FeatureAttributes(ctx, res.StudentID)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.Configuration("student %s has no preference profile", res.StudentID)
		}
		vec, err := encoder.Transform(profile)
		if err != nil {
			return err
		}
		neighbors, err := index.Query(vec, k)
		if err != nil {
			return err
		}
		peers = make([]AlumnusSample, len(neighbors))
		res.Peers = make([]PeerMatch, len(neighbors))
		for i, n := range neighbors {
			smp := samples[n.Row]
			peers[i] = smp
			res.Peers[i] = PeerMatch{AlumnusID: smp.AlumnusID, Distance: n.Distance, GPA: smp.GPA}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.stage(ctx, "rank", func(ctx context.Context) error {
		path, err := sess.CompletionPath(ctx, res.StudentID)
		if err != nil {
			return err
		}
		ranking, err := Rank(peers, academic.CompletedSet(path))
		if err != nil {
			return err
		}
		res.Scores = ranking.Scores
		res.Courses = ranking.CourseIDs()
		res.Average = ranking.Average
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.stage(ctx, "terms", func(ctx context.Context) error {
		end, err := sess.ExpectedEndDate(ctx, res.StudentID)
		if err != nil {
			return err
		}
		res.Season = ProjectedSeason(end)
		res.Terms = TermSlots(res.Season)
		res.Plan = Plan(res.Scores, res.Terms)
		if len(res.Courses) != len(res.Terms) {
			log.Warn("recommended courses and term slots differ in length; plan truncated",
				"courses", len(res.Courses),
				"terms", len(res.Terms),
				"season", string(res.Season),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("recommendation built",
		"student_id", res.StudentID,
		"degree_id", res.DegreeID,
		"alumni", len(samples),
		"k", len(peers),
		"courses", len(res.Courses),
		"average", res.Average,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// CoursePath returns the named student's completed courses in term order.
func (s *Service) CoursePath(ctx context.Context, name string, order academic.Order) ([]academic.CompletionEdge, error) {
	ctx, span := s.tracer.Start(ctx, "recommend.CoursePath")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.NotFound("student name is empty")
	}
	sess, err := s.gateway.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := sess.Close(context.WithoutCancel(ctx)); cerr != nil {
			s.log.Warn("close graph session", "error", cerr)
		}
	}()

	id, err := sess.ResolveStudentID(ctx, name)
	if err != nil {
		return nil, err
	}
	path, err := sess.CompletionPath(ctx, id)
	if err != nil {
		return nil, err
	}
	sorted, err := academic.SortPath(path, order)
	if err != nil {
		return nil, apierr.Configuration("student %s: %v", id, err)
	}
	return sorted, nil
}

func (s *Service) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "recommend."+name)
	defer span.End()
	err := fn(ctx)
	observability.ObserveStage(name, start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
