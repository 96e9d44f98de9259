package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"verified", StatusVerified},
		{"Approved", StatusVerified},
		{" completed ", StatusVerified},
		{"uploaded", StatusUploaded},
		{"submitted", StatusUploaded},
		{"pending-review", StatusPendingReview},
		{"In Review", StatusPendingReview},
		{"requested", StatusPendingReview},
		{"rejected", StatusDenied},
		{"denied", StatusDenied},
		{"", StatusNotStarted},
		{"banana", StatusNotStarted},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStatus(tt.raw))
		})
	}
}

func TestStatusPredicates(t *testing.T) {
	t.Run("complete means uploaded or verified", func(t *testing.T) {
		assert.True(t, StatusUploaded.IsComplete())
		assert.True(t, StatusVerified.IsComplete())
		assert.False(t, StatusPendingReview.IsComplete())
		assert.False(t, StatusDenied.IsComplete())
		assert.False(t, StatusNotStarted.IsComplete())
	})

	t.Run("only denied requires a reason", func(t *testing.T) {
		for _, s := range []Status{StatusNotStarted, StatusUploaded, StatusPendingReview, StatusVerified} {
			assert.False(t, s.RequiresReason(), s)
		}
		assert.True(t, StatusDenied.RequiresReason())
	})

	t.Run("validity", func(t *testing.T) {
		assert.True(t, StatusPendingReview.IsValid())
		assert.False(t, Status("complete").IsValid())
	})
}
