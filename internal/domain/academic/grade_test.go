package academic

import (
	"math"
	"testing"
)

func TestGradePoints(t *testing.T) {
	cases := map[string]float64{"A": 4.0, "a-": 3.7, "B+": 3.3, "D": 1.0, "F": 0, "W": 0, "": 0}
	for letter, want := range cases {
		if got := GradePoints(letter); got != want {
			t.Fatalf("GradePoints(%q)=%v want=%v", letter, got, want)
		}
	}
}

func TestWeightedGPA(t *testing.T) {
	path := []CompletionEdge{
		{CourseID: "CS101", Grade: "A"},
		{CourseID: "CS102", Grade: "C"},
	}
	gpa, ok := WeightedGPA(path, map[string]float64{"CS101": 3, "CS102": 1})
	if !ok {
		t.Fatalf("expected ok")
	}
	if math.Abs(gpa-3.5) > 1e-9 {
		t.Fatalf("gpa=%v want=3.5", gpa)
	}
}

func TestWeightedGPAEmptyPathIsUndefined(t *testing.T) {
	if _, ok := WeightedGPA(nil, nil); ok {
		t.Fatalf("empty path should have no GPA")
	}
}
