package recommend

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/yungbote/peerpath/internal/platform/apierr"
	"github.com/yungbote/peerpath/internal/platform/logger"
)

var extractNow = date(2025, time.January, 1)

func TestExtractSkipsTargetAndIncompleteAlumni(t *testing.T) {
	g := &fakeGraph{}
	g.add(&fakeStudent{id: "t1", name: "Tess", degree: "BSCS", end: date(2020, time.May, 1),
		profile: prof("visual", "fast", "none", "online", 12, 10), gpa: fnum(3.1),
		path: edges("CS101", "Fall2019")}).
		add(&fakeStudent{id: "a1", degree: "BSCS", end: date(2022, time.May, 1),
			profile: prof("visual", "fast", "none", "online", 12, 10), gpa: fnum(3.5),
			path: edges("CS201", "Spring2021", "CS101", "Fall2020")}).
		add(&fakeStudent{id: "a2", degree: "BSCS", end: date(2022, time.May, 1),
			profile: prof("visual", "fast", "none", "online", 12, 10), gpa: fnum(3.0)}).
		add(&fakeStudent{id: "a3", degree: "BSCS", end: date(2022, time.May, 1),
			profile: prof("visual", "fast", "none", "online", 12, 10),
			path: edges("CS101", "Fall2020")}).
		add(&fakeStudent{id: "a4", degree: "BSCS", end: date(2030, time.May, 1),
			profile: prof("visual", "fast", "none", "online", 12, 10), gpa: fnum(2.0),
			path: edges("CS101", "Fall2028")}).
		add(&fakeStudent{id: "b1", degree: "BAEN", end: date(2019, time.May, 1),
			profile: prof("visual", "fast", "none", "online", 12, 10), gpa: fnum(2.0),
			path: edges("EN101", "Fall2017")})

	sess, _ := g.Open(context.Background())
	samples, stats, err := NewExtractor(logger.NewNop()).Extract(context.Background(), sess, "BSCS", "t1", extractNow)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if want := (ExtractStats{Alumni: 3, EmptyPath: 1, NoGPA: 1, Kept: 1}); stats != want {
		t.Fatalf("stats=%+v want=%+v", stats, want)
	}
	if len(samples) != 1 {
		t.Fatalf("samples=%+v", samples)
	}
	smp := samples[0]
	if smp.AlumnusID != "a1" || smp.Path != "CS101 CS201" || smp.GPA != 3.5 {
		t.Fatalf("sample=%+v", smp)
	}
	if got := smp.Courses(); !reflect.DeepEqual(got, []string{"CS101", "CS201"}) {
		t.Fatalf("Courses=%v", got)
	}
}

func TestExtractRejectsUnusableRows(t *testing.T) {
	cases := map[string]*fakeStudent{
		"no profile": {id: "a1", degree: "BSCS", end: date(2022, time.May, 1), gpa: fnum(3.5),
			path: edges("CS101", "Fall2020")},
		"bad season": {id: "a1", degree: "BSCS", end: date(2022, time.May, 1), gpa: fnum(3.5),
			profile: prof("visual", "fast", "none", "online", 12, 10),
			path:    edges("CS101", "Autumn2020")},
	}
	for name, st := range cases {
		t.Run(name, func(t *testing.T) {
			g := (&fakeGraph{}).add(st)
			sess, _ := g.Open(context.Background())
			_, _, err := NewExtractor(nil).Extract(context.Background(), sess, "BSCS", "t1", extractNow)
			if !errors.Is(err, apierr.ErrConfiguration) {
				t.Fatalf("want configuration error, got %v", err)
			}
		})
	}
}

func TestExtractPropagatesGatewayErrors(t *testing.T) {
	g := &fakeGraph{failWith: apierr.Upstream(errors.New("connection reset"))}
	sess, _ := g.Open(context.Background())
	_, _, err := NewExtractor(nil).Extract(context.Background(), sess, "BSCS", "t1", extractNow)
	if !errors.Is(err, apierr.ErrUpstreamUnavailable) {
		t.Fatalf("want upstream error, got %v", err)
	}
}
