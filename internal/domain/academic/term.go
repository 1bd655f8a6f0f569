package academic

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

type Season string

const (
	Spring Season = "Spring"
	Summer Season = "Summer"
	Fall   Season = "Fall"
	Winter Season = "Winter"
)

var seasonRank = map[Season]int{
	Spring: 1,
	Summer: 2,
	Fall:   3,
	Winter: 4,
}

var ErrUnknownSeason = errors.New("unknown season")

func (s Season) Rank() int { return seasonRank[s] }

func (s Season) Valid() bool {
	_, ok := seasonRank[s]
	return ok
}

type Term struct {
	Season Season
	Year   int
}

func (t Term) String() string {
	return fmt.Sprintf("%s%d", t.Season, t.Year)
}

// Before orders terms by year, then by season within a year.
func (t Term) Before(o Term) bool {
	if t.Year != o.Year {
		return t.Year < o.Year
	}
	return t.Season.Rank() < o.Season.Rank()
}

// ParseTerm splits a label at its first digit: the leading letters are the season and the
// trailing digits the year. A label without digits has year 0.
func ParseTerm(label string) (Term, error) {
	label = strings.TrimSpace(label)
	cut := strings.IndexFunc(label, unicode.IsDigit)
	if cut < 0 {
		cut = len(label)
	}
	season := Season(label[:cut])
	if !season.Valid() {
		return Term{}, fmt.Errorf("%w %q in term %q", ErrUnknownSeason, label[:cut], label)
	}
	year := 0
	if cut < len(label) {
		y, err := strconv.Atoi(label[cut:])
		if err != nil {
			return Term{}, fmt.Errorf("invalid year in term %q: %w", label, err)
		}
		year = y
	}
	return Term{Season: season, Year: year}, nil
}

type Order int

const (
	Ascending Order = iota
	Descending
)

func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("unknown order %q", s)
	}
}

// SortPath returns a copy of path ordered chronologically by term. Edges sharing a term keep
// their relative order, so sorting an already sorted path is a no-op.
func SortPath(path []CompletionEdge, order Order) ([]CompletionEdge, error) {
	terms := make([]Term, len(path))
	for i, e := range path {
		t, err := ParseTerm(e.Term)
		if err != nil {
			return nil, fmt.Errorf("course %s: %w", e.CourseID, err)
		}
		terms[i] = t
	}

	idx := make([]int, len(path))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ta, tb := terms[idx[a]], terms[idx[b]]
		if order == Descending {
			return tb.Before(ta)
		}
		return ta.Before(tb)
	})

	out := make([]CompletionEdge, len(path))
	for i, j := range idx {
		out[i] = path[j]
	}
	return out, nil
}
