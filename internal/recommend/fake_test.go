package recommend

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/yungbote/peerpath/internal/domain/academic"
	"github.com/yungbote/peerpath/internal/platform/apierr"
)

type fakeStudent struct {
	id      string
	name    string
	degree  string
	profile *academic.Profile
	gpa     *float64
	path    []academic.CompletionEdge
	end     time.Time
}

// fakeGraph is an in-memory Gateway. It counts opened and closed sessions.
type fakeGraph struct {
	students []*fakeStudent
	opened   int
	closed   int
	// failWith is returned from every lookup after resolution when set.
	failWith error
}

func (g *fakeGraph) add(s *fakeStudent) *fakeGraph {
	g.students = append(g.students, s)
	return g
}

func (g *fakeGraph) Open(ctx context.Context) (Session, error) {
	g.opened++
	return &fakeSession{g: g}, nil
}

func (g *fakeGraph) byID(id string) *fakeStudent {
	for _, s := range g.students {
		if s.id == id {
			return s
		}
	}
	return nil
}

type fakeSession struct {
	g *fakeGraph
}

func (s *fakeSession) ResolveStudentID(ctx context.Context, name string) (string, error) {
	for _, st := range s.g.students {
		if st.name == name {
			return st.id, nil
		}
	}
	return "", apierr.NotFound("student %q not found", name)
}

func (s *fakeSession) ResolveDegree(ctx context.Context, studentID string) (string, error) {
	st := s.g.byID(studentID)
	if st == nil || st.degree == "" {
		return "", apierr.NotFound("student %s has no degree", studentID)
	}
	return st.degree, nil
}

func (s *fakeSession) ListGraduatedPeers(ctx context.Context, degreeID string, before time.Time) ([]string, error) {
	if s.g.failWith != nil {
		return nil, s.g.failWith
	}
	var out []string
	for _, st := range s.g.students {
		if st.degree == degreeID && st.end.Before(before) {
			out = append(out, st.id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *fakeSession) CompletionPath(ctx context.Context, studentID string) ([]academic.CompletionEdge, error) {
	st := s.g.byID(studentID)
	if st == nil {
		return nil, apierr.NotFound("student %s not found", studentID)
	}
	return append([]academic.CompletionEdge(nil), st.path...), nil
}

func (s *fakeSession) FeatureAttributes(ctx context.Context, studentID string) (academic.Profile, bool, error) {
	st := s.g.byID(studentID)
	if st == nil || st.profile == nil {
		return academic.Profile{}, false, nil
	}
	return *st.profile, true, nil
}

func (s *fakeSession) GPA(ctx context.Context, studentID string) (float64, bool, error) {
	st := s.g.byID(studentID)
	if st == nil || st.gpa == nil {
		return 0, false, nil
	}
	return *st.gpa, true, nil
}

func (s *fakeSession) ExpectedEndDate(ctx context.Context, studentID string) (time.Time, error) {
	st := s.g.byID(studentID)
	if st == nil || st.end.IsZero() {
		return time.Time{}, apierr.NotFound("student %s has no expected graduation date", studentID)
	}
	return st.end, nil
}

func (s *fakeSession) Close(ctx context.Context) error {
	s.g.closed++
	return nil
}

func fnum(f float64) *float64 { return &f }

func prof(style, pace, aid, mode string, load, hours float64) *academic.Profile {
	return &academic.Profile{
		LearningStyle:      style,
		Pace:               pace,
		FinancialAidStatus: aid,
		InstructionMode:    mode,
		CourseLoad:         fnum(load),
		WorkHours:          fnum(hours),
	}
}

func edges(pairs ...string) []academic.CompletionEdge {
	out := make([]academic.CompletionEdge, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, academic.CompletionEdge{CourseID: pairs[i], Term: pairs[i+1], Grade: "A"})
	}
	return out
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
