package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/peerpath/internal/domain/academic"
	"github.com/yungbote/peerpath/internal/platform/apierr"
)

const smallFixture = `
degrees:
  - {id: BSCS}
courses:
  - {id: CS101, credits: 3}
  - {id: CS201, credits: 1}
students:
  - id: s1
    name: Tess
    degree: BSCS
    expected_end_date: "2026-09-01"
    profile: {learning_style: visual, pace: fast, financial_aid_status: none, instruction_mode: online, course_load: 12, work_hours: 10}
    completed:
      - {course: CS101, grade: A, term: Fall2024}
  - id: a1
    name: Ada
    degree: BSCS
    expected_end_date: "2022-05-01"
    completed:
      - {course: CS101, grade: A, term: Fall2020}
      - {course: CS201, grade: C, term: Spring2021}
  - id: a2
    name: Bo
    degree: BSCS
    expected_end_date: "2021-05-01"
`

func TestFixtureSession(t *testing.T) {
	g, err := ParseFixture([]byte(smallFixture))
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	ctx := context.Background()
	sess, err := g.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sess.Close(ctx)

	id, err := sess.ResolveStudentID(ctx, "Tess")
	if err != nil || id != "s1" {
		t.Fatalf("ResolveStudentID=%q,%v", id, err)
	}
	if _, err := sess.ResolveStudentID(ctx, "Nobody"); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("unknown name: want not found, got %v", err)
	}
	deg, err := sess.ResolveDegree(ctx, id)
	if err != nil || deg != "BSCS" {
		t.Fatalf("ResolveDegree=%q,%v", deg, err)
	}

	peers, err := sess.ListGraduatedPeers(ctx, "BSCS", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListGraduatedPeers: %v", err)
	}
	if len(peers) != 2 || peers[0] != "a1" || peers[1] != "a2" {
		t.Fatalf("peers=%v", peers)
	}

	gpa, ok, err := sess.GPA(ctx, "a1")
	if err != nil || !ok {
		t.Fatalf("GPA ok=%v err=%v", ok, err)
	}
	if want := (4.0*3 + 2.0*1) / 4; gpa != want {
		t.Fatalf("GPA=%v want=%v", gpa, want)
	}
	if _, ok, _ := sess.GPA(ctx, "a2"); ok {
		t.Fatalf("student without completions should have no GPA")
	}

	p, ok, err := sess.FeatureAttributes(ctx, "s1")
	if err != nil || !ok || p.Pace != "fast" || p.WorkHours == nil || *p.WorkHours != 10 {
		t.Fatalf("FeatureAttributes=%+v ok=%v err=%v", p, ok, err)
	}
	if _, ok, _ := sess.FeatureAttributes(ctx, "a1"); ok {
		t.Fatalf("a1 has no profile")
	}

	end, err := sess.ExpectedEndDate(ctx, "s1")
	if err != nil || end.Month() != time.September {
		t.Fatalf("ExpectedEndDate=%v,%v", end, err)
	}

	path, err := sess.CompletionPath(ctx, "a1")
	if err != nil || len(academic.CourseIDs(path)) != 2 {
		t.Fatalf("CompletionPath=%v,%v", path, err)
	}
}

func TestFixtureSessionClosed(t *testing.T) {
	g, err := ParseFixture([]byte(smallFixture))
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	sess, _ := g.Open(context.Background())
	_ = sess.Close(context.Background())
	if _, err := sess.ResolveStudentID(context.Background(), "Tess"); err == nil {
		t.Fatalf("closed session should refuse lookups")
	}
}

func TestParseFixtureErrors(t *testing.T) {
	cases := map[string]string{
		"duplicate id":   "students:\n  - {id: a}\n  - {id: a}\n",
		"missing id":     "students:\n  - {name: x}\n",
		"unknown degree": "degrees: [{id: X}]\nstudents:\n  - {id: a, degree: Y}\n",
		"bad date":       "students:\n  - {id: a, expected_end_date: soon}\n",
		"unknown course": "courses: [{id: C1}]\nstudents:\n  - {id: a, completed: [{course: C2, grade: A, term: Fall2020}]}\n",
		"dup course":     "courses: [{id: C1}, {id: C1}]\n",
		"not yaml":       "students: [",
	}
	for name, raw := range cases {
		if _, err := ParseFixture([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadExampleFixture(t *testing.T) {
	g, err := LoadFixture("../../../config/fixture.example.yaml")
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	ctx := context.Background()
	sess, err := g.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sess.Close(ctx)
	id, err := sess.ResolveStudentID(ctx, "Jordan Lee")
	if err != nil || id != "S100" {
		t.Fatalf("ResolveStudentID=%q,%v", id, err)
	}
	if _, ok, err := sess.GPA(ctx, "S001"); err != nil || !ok {
		t.Fatalf("GPA(S001) ok=%v err=%v", ok, err)
	}
}
