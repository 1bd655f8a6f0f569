package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/yungbote/peerpath/internal/domain/academic"
	"github.com/yungbote/peerpath/internal/platform/apierr"
)

type categoricalColumn struct {
	name string
	get  func(academic.Profile) string
}

type numericColumn struct {
	name string
	get  func(academic.Profile) *float64
}

var categoricalColumns = []categoricalColumn{
	{"learning_style", func(p academic.Profile) string { return p.LearningStyle }},
	{"pace", func(p academic.Profile) string { return p.Pace }},
	{"financial_aid_status", func(p academic.Profile) string { return p.FinancialAidStatus }},
	{"instruction_mode", func(p academic.Profile) string { return p.InstructionMode }},
}

var numericColumns = []numericColumn{
	{"course_load", func(p academic.Profile) *float64 { return p.CourseLoad }},
	{"work_hours", func(p academic.Profile) *float64 { return p.WorkHours }},
}

// Encoder maps a Profile to a fixed-width vector: one one-hot block per categorical column, in
// column order with categories sorted within a block, followed by the numeric columns unscaled.
// The category vocabulary is frozen at fit time.
type Encoder struct {
	categories [][]string
	lookup     []map[string]int
	offsets    []int
	width      int
}

// FitEncoder learns the category vocabulary from profiles.
func FitEncoder(profiles []academic.Profile) (*Encoder, error) {
	if len(profiles) == 0 {
		return nil, apierr.Configuration("cannot fit encoder on an empty population")
	}
	for i, p := range profiles {
		if err := checkComplete(p); err != nil {
			return nil, apierr.Configuration("row %d: %v", i, err)
		}
	}

	e := &Encoder{
		categories: make([][]string, len(categoricalColumns)),
		lookup:     make([]map[string]int, len(categoricalColumns)),
		offsets:    make([]int, len(categoricalColumns)),
	}
	for c, col := range categoricalColumns {
		seen := map[string]struct{}{}
		for _, p := range profiles {
			seen[col.get(p)] = struct{}{}
		}
		cats := make([]string, 0, len(seen))
		for v := range seen {
			cats = append(cats, v)
		}
		sort.Strings(cats)

		e.categories[c] = cats
		e.lookup[c] = make(map[string]int, len(cats))
		for i, v := range cats {
			e.lookup[c][v] = i
		}
		e.offsets[c] = e.width
		e.width += len(cats)
	}
	e.width += len(numericColumns)
	return e, nil
}

func (e *Encoder) Width() int { return e.width }

// FeatureNames labels each output column, e.g. "pace=fast" or "work_hours".
func (e *Encoder) FeatureNames() []string {
	out := make([]string, 0, e.width)
	for c, col := range categoricalColumns {
		for _, v := range e.categories[c] {
			out = append(out, col.name+"="+v)
		}
	}
	for _, col := range numericColumns {
		out = append(out, col.name)
	}
	return out
}

// Transform encodes p. A category never seen during fitting leaves its block all zero.
func (e *Encoder) Transform(p academic.Profile) ([]float64, error) {
	if err := checkComplete(p); err != nil {
		return nil, apierr.Configuration("%v", err)
	}
	vec := make([]float64, e.width)
	for c, col := range categoricalColumns {
		if i, ok := e.lookup[c][col.get(p)]; ok {
			vec[e.offsets[c]+i] = 1
		}
	}
	base := e.width - len(numericColumns)
	for i, col := range numericColumns {
		vec[base+i] = *col.get(p)
	}
	return vec, nil
}

func (e *Encoder) TransformAll(profiles []academic.Profile) ([][]float64, error) {
	out := make([][]float64, 0, len(profiles))
	for _, p := range profiles {
		v, err := e.Transform(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type missingAttributeError struct{ column string }

func (m missingAttributeError) Error() string {
	return "missing required attribute " + m.column
}

type nonFiniteAttributeError struct {
	column string
	value  float64
}

func (n nonFiniteAttributeError) Error() string {
	return fmt.Sprintf("attribute %s is not a finite number (%v)", n.column, n.value)
}

func checkComplete(p academic.Profile) error {
	for _, col := range categoricalColumns {
		if col.get(p) == "" {
			return missingAttributeError{col.name}
		}
	}
	for _, col := range numericColumns {
		v := col.get(p)
		if v == nil {
			return missingAttributeError{col.name}
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return nonFiniteAttributeError{col.name, *v}
		}
	}
	return nil
}
