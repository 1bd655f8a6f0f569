package academic

import "strings"

var gradePoints = map[string]float64{
	"A":  4.0,
	"A-": 3.7,
	"B+": 3.3,
	"B":  3.0,
	"B-": 2.7,
	"C+": 2.3,
	"C":  2.0,
	"C-": 1.7,
	"D+": 1.3,
	"D":  1.0,
}

// GradePoints maps a letter grade to the 4.0 scale. Anything off the scale is worth 0.
func GradePoints(letter string) float64 {
	return gradePoints[strings.ToUpper(strings.TrimSpace(letter))]
}

// WeightedGPA is the credit-weighted mean grade over path. Courses missing from credits weigh 1.
// ok is false when path is empty.
func WeightedGPA(path []CompletionEdge, credits map[string]float64) (gpa float64, ok bool) {
	var sum, weight float64
	for _, e := range path {
		w := 1.0
		if c, found := credits[e.CourseID]; found && c > 0 {
			w = c
		}
		sum += GradePoints(e.Grade) * w
		weight += w
	}
	if weight == 0 {
		return 0, false
	}
	return sum / weight, true
}
