package recommend

import (
	"context"
	"time"

	"github.com/yungbote/peerpath/internal/domain/academic"
)

// Gateway hands out sessions against the academic graph. Each recommendation opens exactly one.
type Gateway interface {
	Open(ctx context.Context) (Session, error)
}

// Session is a caller-owned view of the academic graph. Lookups that miss return an error
// matching apierr.ErrNotFound; lost connections match apierr.ErrUpstreamUnavailable.
type Session interface {
	ResolveStudentID(ctx context.Context, name string) (string, error)
	ResolveDegree(ctx context.Context, studentID string) (string, error)
	ListGraduatedPeers(ctx context.Context, degreeID string, before time.Time) ([]string, error)
	CompletionPath(ctx context.Context, studentID string) ([]academic.CompletionEdge, error)
	FeatureAttributes(ctx context.Context, studentID string) (academic.Profile, bool, error)
	GPA(ctx context.Context, studentID string) (float64, bool, error)
	ExpectedEndDate(ctx context.Context, studentID string) (time.Time, error)
	Close(ctx context.Context) error
}
