package academic

import "time"

type StudentRecord struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	DegreeID        string    `json:"degree_id"`
	Profile         Profile   `json:"profile"`
	ExpectedEndDate time.Time `json:"expected_end_date"`
}

// Profile holds the preference attributes used for peer similarity. Empty strings and nil
// pointers mean the attribute is missing from the record.
type Profile struct {
	LearningStyle      string   `json:"learning_style"`
	Pace               string   `json:"pace"`
	FinancialAidStatus string   `json:"financial_aid_status"`
	InstructionMode    string   `json:"instruction_mode"`
	CourseLoad         *float64 `json:"course_load"`
	WorkHours          *float64 `json:"work_hours"`
}

type CourseRecord struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Credits float64 `json:"credits,omitempty"`
}

// CompletionEdge is a COMPLETED relationship from a student to a course.
type CompletionEdge struct {
	CourseID string `json:"course_id"`
	Grade    string `json:"grade,omitempty"`
	Term     string `json:"term"`
}

// CourseIDs returns the course ids of path in the order given.
func CourseIDs(path []CompletionEdge) []string {
	out := make([]string, 0, len(path))
	for _, e := range path {
		out = append(out, e.CourseID)
	}
	return out
}

// CompletedSet returns the distinct course ids of path.
func CompletedSet(path []CompletionEdge) map[string]struct{} {
	out := make(map[string]struct{}, len(path))
	for _, e := range path {
		out[e.CourseID] = struct{}{}
	}
	return out
}
