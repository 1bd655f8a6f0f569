package observability

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yungbote/peerpath/internal/config"
	"github.com/yungbote/peerpath/internal/platform/apierr"
	"github.com/yungbote/peerpath/internal/platform/logger"
)

func TestOutcome(t *testing.T) {
	cases := map[string]error{
		"ok":                   nil,
		"not_found":            fmt.Errorf("wrap: %w", apierr.NotFound("x")),
		"empty":                apierr.EmptyResult("x"),
		"invalid_population":   apierr.Configuration("x"),
		"upstream_unavailable": apierr.Upstream(nil),
		"error":                errors.New("x"),
	}
	for want, err := range cases {
		if got := Outcome(err); got != want {
			t.Fatalf("Outcome(%v)=%q want=%q", err, got, want)
		}
	}
}

func TestRecommendRequestsCounter(t *testing.T) {
	before := testutil.ToFloat64(RecommendRequests.WithLabelValues("empty"))
	RecommendRequests.WithLabelValues(Outcome(apierr.EmptyResult("none"))).Inc()
	after := testutil.ToFloat64(RecommendRequests.WithLabelValues("empty"))
	if after-before != 1 {
		t.Fatalf("counter delta=%v want=1", after-before)
	}
}

func TestInitOTelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), logger.NewNop(), OtelConfig{Tracing: config.TracingConfig{Enabled: false}})
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
