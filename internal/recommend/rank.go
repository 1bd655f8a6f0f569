package recommend

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/yungbote/peerpath/internal/platform/apierr"
)

type CourseScore struct {
	CourseID string  `json:"course_id"`
	Score    float64 `json:"score"`
	Peers    int     `json:"peers"`
}

// Ranking is the outcome of ranking peer courses for one student.
type Ranking struct {
	Scores  []CourseScore
	Average float64
}

func (r Ranking) CourseIDs() []string {
	out := make([]string, 0, len(r.Scores))
	for _, s := range r.Scores {
		out = append(out, s.CourseID)
	}
	return out
}

// ScoreCourses explodes each peer path into (course, GPA) pairs and averages GPA per course.
// Peers are weighted equally regardless of how close they were. The result is sorted by score,
// highest first, then by course id.
func ScoreCourses(peers []AlumnusSample) []CourseScore {
	gpas := map[string][]float64{}
	for _, p := range peers {
		for _, c := range p.Courses() {
			gpas[c] = append(gpas[c], p.GPA)
		}
	}

	out := make([]CourseScore, 0, len(gpas))
	for c, xs := range gpas {
		out = append(out, CourseScore{CourseID: c, Score: stat.Mean(xs, nil), Peers: len(xs)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CourseID < out[j].CourseID
	})
	return out
}

// FilterCompleted drops courses in completed, keeping order.
func FilterCompleted(scores []CourseScore, completed map[string]struct{}) []CourseScore {
	out := make([]CourseScore, 0, len(scores))
	for _, s := range scores {
		if _, done := completed[s.CourseID]; done {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Rank scores the peers' courses, removes the ones the student already completed and averages
// what is left. It fails with apierr.ErrEmptyResult when nothing remains.
func Rank(peers []AlumnusSample, completed map[string]struct{}) (Ranking, error) {
	if len(peers) == 0 {
		return Ranking{}, apierr.EmptyResult("no peers to rank courses from")
	}
	scores := FilterCompleted(ScoreCourses(peers), completed)
	if len(scores) == 0 {
		return Ranking{}, apierr.EmptyResult("peers took no course the student has not completed")
	}
	xs := make([]float64, len(scores))
	for i, s := range scores {
		xs[i] = s.Score
	}
	return Ranking{Scores: scores, Average: stat.Mean(xs, nil)}, nil
}
