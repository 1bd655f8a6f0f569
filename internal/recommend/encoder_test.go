package recommend

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/yungbote/peerpath/internal/domain/academic"
	"github.com/yungbote/peerpath/internal/platform/apierr"
)

func TestFitEncoderSortsCategories(t *testing.T) {
	profiles := []academic.Profile{
		*prof("visual", "fast", "none", "online", 12, 10),
		*prof("auditory", "slow", "none", "hybrid", 9, 20),
	}
	enc, err := FitEncoder(profiles)
	if err != nil {
		t.Fatalf("FitEncoder: %v", err)
	}

	if got := enc.Width(); got != 2+2+1+2+2 {
		t.Fatalf("Width=%d", got)
	}
	wantNames := []string{
		"learning_style=auditory", "learning_style=visual",
		"pace=fast", "pace=slow",
		"financial_aid_status=none",
		"instruction_mode=hybrid", "instruction_mode=online",
		"course_load", "work_hours",
	}
	if got := enc.FeatureNames(); !reflect.DeepEqual(got, wantNames) {
		t.Fatalf("FeatureNames=%v", got)
	}

	vec, err := enc.Transform(profiles[0])
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if want := []float64{0, 1, 1, 0, 1, 0, 1, 12, 10}; !reflect.DeepEqual(vec, want) {
		t.Fatalf("vec=%v want=%v", vec, want)
	}
}

func TestEncoderUnknownCategoryIsZeroBlock(t *testing.T) {
	enc, err := FitEncoder([]academic.Profile{*prof("visual", "fast", "none", "online", 12, 10)})
	if err != nil {
		t.Fatalf("FitEncoder: %v", err)
	}
	vec, err := enc.Transform(*prof("kinesthetic", "fast", "grant", "online", 15, 0))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if want := []float64{0, 1, 0, 1, 15, 0}; !reflect.DeepEqual(vec, want) {
		t.Fatalf("vec=%v want=%v", vec, want)
	}
}

func TestEncoderRejectsMissingAttributes(t *testing.T) {
	if _, err := FitEncoder(nil); !errors.Is(err, apierr.ErrConfiguration) {
		t.Fatalf("empty population: %v", err)
	}

	incomplete := *prof("visual", "fast", "none", "online", 12, 10)
	incomplete.WorkHours = nil
	_, err := FitEncoder([]academic.Profile{incomplete})
	if !errors.Is(err, apierr.ErrConfiguration) || !strings.Contains(err.Error(), "work_hours") {
		t.Fatalf("missing work_hours: %v", err)
	}

	enc, err := FitEncoder([]academic.Profile{*prof("visual", "fast", "none", "online", 12, 10)})
	if err != nil {
		t.Fatalf("FitEncoder: %v", err)
	}
	if _, err := enc.Transform(*prof("visual", "", "none", "online", 12, 10)); !errors.Is(err, apierr.ErrConfiguration) {
		t.Fatalf("missing pace: %v", err)
	}
}

func TestEncoderRejectsNonFiniteNumbers(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		p := *prof("visual", "fast", "none", "online", 12, bad)
		_, err := FitEncoder([]academic.Profile{p})
		if !errors.Is(err, apierr.ErrConfiguration) || !strings.Contains(err.Error(), "work_hours") {
			t.Fatalf("FitEncoder(work_hours=%v): %v", bad, err)
		}
	}

	enc, err := FitEncoder([]academic.Profile{*prof("visual", "fast", "none", "online", 12, 10)})
	if err != nil {
		t.Fatalf("FitEncoder: %v", err)
	}
	if _, err := enc.Transform(*prof("visual", "fast", "none", "online", math.NaN(), 10)); !errors.Is(err, apierr.ErrConfiguration) {
		t.Fatalf("Transform(course_load=NaN): %v", err)
	}
}
