package recommend

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/yungbote/peerpath/internal/domain/academic"
	"github.com/yungbote/peerpath/internal/platform/apierr"
	"github.com/yungbote/peerpath/internal/platform/logger"
)

// AlumnusSample is one training row: a graduated peer's chronological course path, GPA and
// preference profile.
type AlumnusSample struct {
	AlumnusID string
	Path      string
	GPA       float64
	Profile   academic.Profile
}

// Courses splits the joined path back into course ids.
func (s AlumnusSample) Courses() []string {
	return strings.Fields(s.Path)
}

// ExtractStats counts what happened to the degree's alumni during extraction.
type ExtractStats struct {
	Alumni    int
	EmptyPath int
	NoGPA     int
	Kept      int
}

type Extractor struct {
	log *logger.Logger
}

func NewExtractor(log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.NewNop()
	}
	return &Extractor{log: log.With("component", "Extractor")}
}

// Extract builds one sample per graduated alumnus of degreeID, skipping targetID. Alumni without
// completed courses or without a GPA are left out. Any gateway error aborts the whole extraction.
func (x *Extractor) Extract(ctx context.Context, sess Session, degreeID, targetID string, now time.Time) ([]AlumnusSample, ExtractStats, error) {
	var stats ExtractStats

	alumni, err := sess.ListGraduatedPeers(ctx, degreeID, now)
	if err != nil {
		return nil, stats, err
	}

	samples := make([]AlumnusSample, 0, len(alumni))
	for _, id := range alumni {
		if id == targetID {
			continue
		}
		stats.Alumni++

		path, err := sess.CompletionPath(ctx, id)
		if err != nil {
			return nil, stats, err
		}
		if len(path) == 0 {
			stats.EmptyPath++
			continue
		}
		sorted, err := academic.SortPath(path, academic.Ascending)
		if err != nil {
			return nil, stats, apierr.Configuration("alumnus %s: %v", id, err)
		}

		gpa, ok, err := sess.GPA(ctx, id)
		if err != nil {
			return nil, stats, err
		}
		if !ok || math.IsNaN(gpa) || math.IsInf(gpa, 0) {
			stats.NoGPA++
			continue
		}

		profile, ok, err := sess.FeatureAttributes(ctx, id)
		if err != nil {
			return nil, stats, err
		}
		if !ok {
			return nil, stats, apierr.Configuration("alumnus %s has no preference profile", id)
		}

		samples = append(samples, AlumnusSample{
			AlumnusID: id,
			Path:      strings.Join(academic.CourseIDs(sorted), " "),
			GPA:       gpa,
			Profile:   profile,
		})
	}
	stats.Kept = len(samples)

	x.log.Debug("alumni extracted",
		"degree_id", degreeID,
		"alumni", stats.Alumni,
		"kept", stats.Kept,
		"empty_path", stats.EmptyPath,
		"no_gpa", stats.NoGPA,
	)
	return samples, stats, nil
}
