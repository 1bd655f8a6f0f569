package graph

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/peerpath/internal/domain/academic"
	"github.com/yungbote/peerpath/internal/platform/apierr"
	"github.com/yungbote/peerpath/internal/recommend"
)

type fixtureFile struct {
	Degrees  []fixtureDegree  `yaml:"degrees"`
	Courses  []fixtureCourse  `yaml:"courses"`
	Students []fixtureStudent `yaml:"students"`
}

type fixtureDegree struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type fixtureCourse struct {
	ID      string  `yaml:"id"`
	Name    string  `yaml:"name"`
	Credits float64 `yaml:"credits"`
}

type fixtureStudent struct {
	ID              string             `yaml:"id"`
	Name            string             `yaml:"name"`
	Degree          string             `yaml:"degree"`
	ExpectedEndDate string             `yaml:"expected_end_date"`
	Profile         *fixtureProfile    `yaml:"profile"`
	Completed       []fixtureCompleted `yaml:"completed"`
}

type fixtureProfile struct {
	LearningStyle      string   `yaml:"learning_style"`
	Pace               string   `yaml:"pace"`
	FinancialAidStatus string   `yaml:"financial_aid_status"`
	InstructionMode    string   `yaml:"instruction_mode"`
	CourseLoad         *float64 `yaml:"course_load"`
	WorkHours          *float64 `yaml:"work_hours"`
}

type fixtureCompleted struct {
	Course string `yaml:"course"`
	Grade  string `yaml:"grade"`
	Term   string `yaml:"term"`
}

type fixtureEntry struct {
	record     academic.StudentRecord
	hasProfile bool
	path       []academic.CompletionEdge
}

// FixtureAcademic is an in-memory academic graph loaded from YAML. It is read-only once built and
// safe for concurrent sessions.
type FixtureAcademic struct {
	students map[string]*fixtureEntry
	byName   map[string][]string
	credits  map[string]float64
	courses  map[string]academic.CourseRecord
}

func LoadFixture(path string) (*FixtureAcademic, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graph: read fixture: %w", err)
	}
	return ParseFixture(raw)
}

func ParseFixture(raw []byte) (*FixtureAcademic, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("graph: parse fixture: %w", err)
	}

	g := &FixtureAcademic{
		students: map[string]*fixtureEntry{},
		byName:   map[string][]string{},
		credits:  map[string]float64{},
		courses:  map[string]academic.CourseRecord{},
	}
	degrees := map[string]struct{}{}
	for _, d := range f.Degrees {
		degrees[strings.TrimSpace(d.ID)] = struct{}{}
	}
	for _, c := range f.Courses {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, fmt.Errorf("graph: fixture course without id")
		}
		if _, dup := g.courses[id]; dup {
			return nil, fmt.Errorf("graph: duplicate fixture course %q", id)
		}
		g.courses[id] = academic.CourseRecord{ID: id, Name: c.Name, Credits: c.Credits}
		if c.Credits > 0 {
			g.credits[id] = c.Credits
		}
	}

	for i, s := range f.Students {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			return nil, fmt.Errorf("graph: fixture student %d has no id", i)
		}
		if _, dup := g.students[id]; dup {
			return nil, fmt.Errorf("graph: duplicate fixture student %q", id)
		}
		degree := strings.TrimSpace(s.Degree)
		if degree != "" && len(degrees) > 0 {
			if _, ok := degrees[degree]; !ok {
				return nil, fmt.Errorf("graph: student %q references unknown degree %q", id, degree)
			}
		}

		entry := &fixtureEntry{record: academic.StudentRecord{ID: id, Name: strings.TrimSpace(s.Name), DegreeID: degree}}
		if strings.TrimSpace(s.ExpectedEndDate) != "" {
			end, err := toTime(s.ExpectedEndDate)
			if err != nil {
				return nil, fmt.Errorf("graph: student %q: %w", id, err)
			}
			entry.record.ExpectedEndDate = end
		}
		if s.Profile != nil {
			entry.hasProfile = true
			entry.record.Profile = academic.Profile{
				LearningStyle:      strings.TrimSpace(s.Profile.LearningStyle),
				Pace:               strings.TrimSpace(s.Profile.Pace),
				FinancialAidStatus: strings.TrimSpace(s.Profile.FinancialAidStatus),
				InstructionMode:    strings.TrimSpace(s.Profile.InstructionMode),
				CourseLoad:         s.Profile.CourseLoad,
				WorkHours:          s.Profile.WorkHours,
			}
		}
		for _, c := range s.Completed {
			course := strings.TrimSpace(c.Course)
			if _, ok := g.courses[course]; !ok && len(g.courses) > 0 {
				return nil, fmt.Errorf("graph: student %q completed unknown course %q", id, course)
			}
			entry.path = append(entry.path, academic.CompletionEdge{
				CourseID: course,
				Grade:    strings.TrimSpace(c.Grade),
				Term:     strings.TrimSpace(c.Term),
			})
		}
		g.students[id] = entry
		if entry.record.Name != "" {
			g.byName[entry.record.Name] = append(g.byName[entry.record.Name], id)
		}
	}
	for _, ids := range g.byName {
		sort.Strings(ids)
	}
	return g, nil
}

func (g *FixtureAcademic) Open(ctx context.Context) (recommend.Session, error) {
	return &fixtureSession{g: g}, nil
}

func (g *FixtureAcademic) Ping(ctx context.Context) error { return nil }

type fixtureSession struct {
	g      *FixtureAcademic
	closed bool
}

func (s *fixtureSession) student(id string) (*fixtureEntry, error) {
	if s.closed {
		return nil, fmt.Errorf("graph: fixture session closed")
	}
	e, ok := s.g.students[id]
	if !ok {
		return nil, apierr.NotFound("student %s not found", id)
	}
	return e, nil
}

func (s *fixtureSession) ResolveStudentID(ctx context.Context, name string) (string, error) {
	if s.closed {
		return "", fmt.Errorf("graph: fixture session closed")
	}
	ids := s.g.byName[name]
	if len(ids) == 0 {
		return "", apierr.NotFound("student %q not found", name)
	}
	return ids[0], nil
}

func (s *fixtureSession) ResolveDegree(ctx context.Context, studentID string) (string, error) {
	e, err := s.student(studentID)
	if err != nil {
		return "", err
	}
	if e.record.DegreeID == "" {
		return "", apierr.NotFound("student %s is not enrolled in a degree", studentID)
	}
	return e.record.DegreeID, nil
}

func (s *fixtureSession) ListGraduatedPeers(ctx context.Context, degreeID string, before time.Time) ([]string, error) {
	if s.closed {
		return nil, fmt.Errorf("graph: fixture session closed")
	}
	var out []string
	for id, e := range s.g.students {
		end := e.record.ExpectedEndDate
		if e.record.DegreeID == degreeID && !end.IsZero() && end.Before(before) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *fixtureSession) CompletionPath(ctx context.Context, studentID string) ([]academic.CompletionEdge, error) {
	e, err := s.student(studentID)
	if err != nil {
		return nil, err
	}
	return append([]academic.CompletionEdge(nil), e.path...), nil
}

func (s *fixtureSession) FeatureAttributes(ctx context.Context, studentID string) (academic.Profile, bool, error) {
	e, err := s.student(studentID)
	if err != nil {
		return academic.Profile{}, false, err
	}
	return e.record.Profile, e.hasProfile, nil
}

func (s *fixtureSession) GPA(ctx context.Context, studentID string) (float64, bool, error) {
	e, err := s.student(studentID)
	if err != nil {
		return 0, false, err
	}
	gpa, ok := academic.WeightedGPA(e.path, s.g.credits)
	return gpa, ok, nil
}

func (s *fixtureSession) ExpectedEndDate(ctx context.Context, studentID string) (time.Time, error) {
	e, err := s.student(studentID)
	if err != nil {
		return time.Time{}, err
	}
	if e.record.ExpectedEndDate.IsZero() {
		return time.Time{}, apierr.NotFound("student %s has no expected graduation date", studentID)
	}
	return e.record.ExpectedEndDate, nil
}

func (s *fixtureSession) Close(ctx context.Context) error {
	s.closed = true
	return nil
}
