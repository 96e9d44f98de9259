package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRequestStatus(t *testing.T) {
	tests := map[string]RequestStatus{
		"requested": RequestPending,
		"REQUESTED": RequestPending,
		"pending":   RequestPending,
		" approved": RequestApproved,
		"rejected":  RequestDenied,
		"denied":    RequestDenied,
		"":          RequestNone,
		"whatever":  RequestNone,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseRequestStatus(in), in)
	}
}

func TestParseRoute(t *testing.T) {
	assert.Equal(t, RouteSpain, ParseRoute("spain"))
	assert.Equal(t, RouteSpain, ParseRoute(" In-Spain "))
	assert.Equal(t, RouteUSA, ParseRoute("usa"))
	assert.Equal(t, RouteUSA, ParseRoute(""))
	assert.Equal(t, RouteUSA, ParseRoute("mars"))
}

func TestEffectiveRouteNeverSpainForMinors(t *testing.T) {
	for _, r := range []Route{RouteSpain, RouteUSA, Route("spain "), Route("")} {
		assert.Equal(t, RouteUSA, EffectiveRoute(r, true), "route %q", r)
	}
	assert.Equal(t, RouteSpain, EffectiveRoute(RouteSpain, false))
	assert.Equal(t, RouteUSA, EffectiveRoute("", false))
}

func TestChooseRoute(t *testing.T) {
	sub := Submission{Route: RouteUSA}

	out, clamped := ChooseRoute(sub, RouteSpain, true)
	assert.True(t, clamped)
	assert.Equal(t, RouteUSA, out.Route)

	out, clamped = ChooseRoute(sub, RouteSpain, false)
	assert.False(t, clamped)
	assert.Equal(t, RouteSpain, out.Route)
	assert.Equal(t, RouteUSA, sub.Route)
}
