package recommend

import (
	"errors"
	"reflect"
	"testing"

	"github.com/yungbote/peerpath/internal/platform/apierr"
)

func TestScoreCoursesAveragesGPAPerCourse(t *testing.T) {
	peers := []AlumnusSample{
		{AlumnusID: "a1", Path: "CS101", GPA: 4.0},
		{AlumnusID: "a2", Path: "CS101", GPA: 4.0},
		{AlumnusID: "a3", Path: "CS102", GPA: 3.0},
	}
	want := []CourseScore{
		{CourseID: "CS101", Score: 4.0, Peers: 2},
		{CourseID: "CS102", Score: 3.0, Peers: 1},
	}
	if got := ScoreCourses(peers); !reflect.DeepEqual(got, want) {
		t.Fatalf("scores=%+v want=%+v", got, want)
	}
}

func TestScoreCoursesBreaksTiesByCourseID(t *testing.T) {
	peers := []AlumnusSample{
		{AlumnusID: "a1", Path: "MATH200 CS300", GPA: 3.0},
		{AlumnusID: "a2", Path: "BIO100", GPA: 3.0},
		{AlumnusID: "a3", Path: "CS300", GPA: 2.0},
	}
	scores := ScoreCourses(peers)
	if ids := (Ranking{Scores: scores}).CourseIDs(); !reflect.DeepEqual(ids, []string{"BIO100", "MATH200", "CS300"}) {
		t.Fatalf("order=%v", ids)
	}
	if !near(scores[2].Score, 2.5) {
		t.Fatalf("CS300 score=%v", scores[2].Score)
	}
}

func TestRankFiltersCompletedCourses(t *testing.T) {
	peers := []AlumnusSample{
		{AlumnusID: "a1", Path: "CS101 CS102", GPA: 4.0},
		{AlumnusID: "a2", Path: "CS101", GPA: 4.0},
	}
	r, err := Rank(peers, map[string]struct{}{"CS101": {}})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if !reflect.DeepEqual(r.CourseIDs(), []string{"CS102"}) || r.Average != 4.0 {
		t.Fatalf("ranking=%+v", r)
	}
}

func TestRankAverageOverRemainingCourses(t *testing.T) {
	peers := []AlumnusSample{
		{AlumnusID: "a1", Path: "CS101 CS201", GPA: 3.8},
		{AlumnusID: "a2", Path: "CS101 CS301", GPA: 2.0},
	}
	r, err := Rank(peers, map[string]struct{}{"CS101": {}})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if !reflect.DeepEqual(r.CourseIDs(), []string{"CS201", "CS301"}) || !near(r.Average, 2.9) {
		t.Fatalf("ranking=%+v", r)
	}
}

func TestRankEmptyResults(t *testing.T) {
	if _, err := Rank(nil, nil); !errors.Is(err, apierr.ErrEmptyResult) {
		t.Fatalf("no peers: %v", err)
	}
	_, err := Rank([]AlumnusSample{{AlumnusID: "a1", Path: "CS101", GPA: 3}}, map[string]struct{}{"CS101": {}})
	if !errors.Is(err, apierr.ErrEmptyResult) {
		t.Fatalf("all completed: %v", err)
	}
}
