package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeOf(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain error", cause, ExitFailure},
		{"explicit code", New(ExitUsage, "bad flag"), ExitUsage},
		{"zero code normalized", New(0, "odd"), ExitFailure},
		{"wrapped by fmt", fmt.Errorf("outer: %w", Wrap(3, "inner", cause)), 3},
		{"usage", Usage(cause), ExitUsage},
		{"usage keeps existing code", Usage(New(4, "x")), 4},
		{"reported", Reported(ExitFailure, cause), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeOf(tt.err))
		})
	}
}

func TestExitError_Message(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, "loading: boom", Wrap(2, "loading", cause).Error())
	assert.Equal(t, "boom", Usage(cause).Error())
	assert.Equal(t, "ticket 7 failed", Newf(1, "ticket %d failed", 7).Error())
	assert.ErrorIs(t, Wrap(2, "loading", cause), cause)
	assert.Nil(t, Usage(nil))
}

func TestIsReported(t *testing.T) {
	assert.True(t, IsReported(Reported(1, errors.New("shown"))))
	assert.True(t, IsReported(fmt.Errorf("ctx: %w", Reported(1, errors.New("shown")))))
	assert.False(t, IsReported(New(1, "not shown")))
	assert.False(t, IsReported(errors.New("plain")))
}
