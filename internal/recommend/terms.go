package recommend

import (
	"time"

	"github.com/yungbote/peerpath/internal/domain/academic"
)

var termSlots = map[academic.Season][]string{
	academic.Summer: {
		"Fall2025", "Fall2025", "Fall2025",
		"Spring2026", "Spring2026", "Spring2026",
	},
	academic.Fall: {
		"Fall2025", "Fall2025", "Fall2025",
		"Spring2026", "Spring2026", "Spring2026",
		"Summer2026", "Summer2026", "Summer2026",
	},
}

// ProjectedSeason is the season a student finishes in: Summer for an end date before June,
// Fall otherwise.
func ProjectedSeason(end time.Time) academic.Season {
	if end.Month() < time.June {
		return academic.Summer
	}
	return academic.Fall
}

// TermSlots returns the fixed term sequence offered for season. The number of slots does not
// depend on how many courses are recommended.
func TermSlots(season academic.Season) []string {
	src := termSlots[season]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

type Entry struct {
	CourseID string  `json:"course_id"`
	Score    float64 `json:"score"`
	Term     string  `json:"term"`
}

// Plan pairs ranked courses with term slots by position, stopping at the shorter list.
func Plan(scores []CourseScore, terms []string) []Entry {
	n := len(scores)
	if len(terms) < n {
		n = len(terms)
	}
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		out[i] = Entry{CourseID: scores[i].CourseID, Score: scores[i].Score, Term: terms[i]}
	}
	return out
}
