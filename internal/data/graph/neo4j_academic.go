package graph

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/peerpath/internal/domain/academic"
	"github.com/yungbote/peerpath/internal/platform/apierr"
	"github.com/yungbote/peerpath/internal/platform/logger"
	"github.com/yungbote/peerpath/internal/platform/neo4jdb"
	"github.com/yungbote/peerpath/internal/recommend"
)

const (
	cypherResolveStudent = `
MATCH (s:Student {name: $name})
RETURN s.id AS id
ORDER BY s.id
LIMIT 2`

	cypherResolveDegree = `
MATCH (:Student {id: $id})-[:ENROLLED_IN]->(d:Degree)
RETURN d.id AS id
ORDER BY d.id
LIMIT 1`

	cypherDegreeStudents = `
MATCH (s:Student)-[:ENROLLED_IN]->(:Degree {id: $degree_id})
WHERE s.expectedGraduationDate IS NOT NULL
RETURN s.id AS id, s.expectedGraduationDate AS expected_end_date
ORDER BY s.id`

	cypherCompletionPath = `
MATCH (:Student {id: $id})-[c:COMPLETED]->(course:Course)
RETURN course.id AS course_id, c.grade AS grade, c.term AS term, course.credits AS credits
ORDER BY course.id`

	cypherProfile = `
MATCH (s:Student {id: $id})
RETURN s.learningStyle AS learning_style,
       s.preferredPace AS pace,
       s.financialAidStatus AS financial_aid_status,
       s.preferredInstructionMode AS instruction_mode,
       s.preferredCourseLoad AS course_load,
       s.workHoursPerWeek AS work_hours`

	cypherExpectedEndDate = `
MATCH (s:Student {id: $id})
RETURN s.expectedGraduationDate AS expected_end_date`
)

// Neo4jAcademic reads the academic graph from neo4j. Every Open acquires a fresh read session.
type Neo4jAcademic struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewNeo4jAcademic(client *neo4jdb.Client, log *logger.Logger) *Neo4jAcademic {
	if log == nil {
		log = logger.NewNop()
	}
	return &Neo4jAcademic{client: client, log: log.With("gateway", "Neo4jAcademic")}
}

func (g *Neo4jAcademic) Open(ctx context.Context) (recommend.Session, error) {
	sess, err := g.client.ReadSession(ctx)
	if err != nil {
		return nil, err
	}
	return &neo4jSession{client: g.client, session: sess, log: g.log}, nil
}

func (g *Neo4jAcademic) Ping(ctx context.Context) error {
	return g.client.Ping(ctx)
}

type neo4jSession struct {
	client  *neo4jdb.Client
	session neo4j.SessionWithContext
	log     *logger.Logger
}

func (s *neo4jSession) collect(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	return s.client.Collect(ctx, s.session, cypher, params)
}

func (s *neo4jSession) ResolveStudentID(ctx context.Context, name string) (string, error) {
	records, err := s.collect(ctx, cypherResolveStudent, map[string]any{"name": name})
	if err != nil {
		return "", fmt.Errorf("resolve student: %w", err)
	}
	if len(records) == 0 {
		return "", apierr.NotFound("student %q not found", name)
	}
	if len(records) > 1 {
		s.log.Warn("student name is not unique; using lowest id", "student_name", name)
	}
	id := recordString(records[0], "id")
	if id == "" {
		return "", apierr.NotFound("student %q has no id", name)
	}
	return id, nil
}

func (s *neo4jSession) ResolveDegree(ctx context.Context, studentID string) (string, error) {
	records, err := s.collect(ctx, cypherResolveDegree, map[string]any{"id": studentID})
	if err != nil {
		return "", fmt.Errorf("resolve degree: %w", err)
	}
	if len(records) == 0 || recordString(records[0], "id") == "" {
		return "", apierr.NotFound("student %s is not enrolled in a degree", studentID)
	}
	return recordString(records[0], "id"), nil
}

// ListGraduatedPeers filters on the expected graduation date client side so that Date, DateTime
// and string encodings of the property all compare the same way.
func (s *neo4jSession) ListGraduatedPeers(ctx context.Context, degreeID string, before time.Time) ([]string, error) {
	records, err := s.collect(ctx, cypherDegreeStudents, map[string]any{"degree_id": degreeID})
	if err != nil {
		return nil, fmt.Errorf("list degree students: %w", err)
	}
	out := make([]string, 0, len(records))
	for _, rec := range records {
		id := recordString(rec, "id")
		if id == "" {
			continue
		}
		end, ok, err := recordTime(rec, "expected_end_date")
		if err != nil {
			return nil, apierr.Configuration("student %s: %v", id, err)
		}
		if ok && end.Before(before) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *neo4jSession) CompletionPath(ctx context.Context, studentID string) ([]academic.CompletionEdge, error) {
	path, _, err := s.completions(ctx, studentID)
	return path, err
}

func (s *neo4jSession) completions(ctx context.Context, studentID string) ([]academic.CompletionEdge, map[string]float64, error) {
	records, err := s.collect(ctx, cypherCompletionPath, map[string]any{"id": studentID})
	if err != nil {
		return nil, nil, fmt.Errorf("completion path: %w", err)
	}
	path := make([]academic.CompletionEdge, 0, len(records))
	credits := map[string]float64{}
	for _, rec := range records {
		edge := academic.CompletionEdge{
			CourseID: recordString(rec, "course_id"),
			Grade:    recordString(rec, "grade"),
			Term:     recordString(rec, "term"),
		}
		if edge.CourseID == "" {
			continue
		}
		if c := recordFloat(rec, "credits"); c != nil {
			credits[edge.CourseID] = *c
		}
		path = append(path, edge)
	}
	return path, credits, nil
}

func (s *neo4jSession) FeatureAttributes(ctx context.Context, studentID string) (academic.Profile, bool, error) {
	records, err := s.collect(ctx, cypherProfile, map[string]any{"id": studentID})
	if err != nil {
		return academic.Profile{}, false, fmt.Errorf("feature attributes: %w", err)
	}
	if len(records) == 0 {
		return academic.Profile{}, false, nil
	}
	rec := records[0]
	p := academic.Profile{
		LearningStyle:      recordString(rec, "learning_style"),
		Pace:               recordString(rec, "pace"),
		FinancialAidStatus: recordString(rec, "financial_aid_status"),
		InstructionMode:    recordString(rec, "instruction_mode"),
		CourseLoad:         recordFloat(rec, "course_load"),
		WorkHours:          recordFloat(rec, "work_hours"),
	}
	if p == (academic.Profile{}) {
		return p, false, nil
	}
	return p, true, nil
}

// GPA is the credit-weighted grade average over the student's completed courses.
func (s *neo4jSession) GPA(ctx context.Context, studentID string) (float64, bool, error) {
	path, credits, err := s.completions(ctx, studentID)
	if err != nil {
		return 0, false, err
	}
	gpa, ok := academic.WeightedGPA(path, credits)
	if !ok || math.IsNaN(gpa) {
		return 0, false, nil
	}
	return gpa, true, nil
}

func (s *neo4jSession) ExpectedEndDate(ctx context.Context, studentID string) (time.Time, error) {
	records, err := s.collect(ctx, cypherExpectedEndDate, map[string]any{"id": studentID})
	if err != nil {
		return time.Time{}, fmt.Errorf("expected end date: %w", err)
	}
	if len(records) == 0 {
		return time.Time{}, apierr.NotFound("student %s not found", studentID)
	}
	end, ok, err := recordTime(records[0], "expected_end_date")
	if err != nil {
		return time.Time{}, apierr.Configuration("student %s: %v", studentID, err)
	}
	if !ok {
		return time.Time{}, apierr.NotFound("student %s has no expected graduation date", studentID)
	}
	return end, nil
}

func (s *neo4jSession) Close(ctx context.Context) error {
	if s.session == nil {
		return nil
	}
	return s.session.Close(ctx)
}
