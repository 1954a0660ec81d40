package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/clinic/internal/auth"
	"github.com/JonMunkholm/clinic/internal/clinic"
	"github.com/JonMunkholm/clinic/internal/core"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"batch", &core.BatchError{}, http.StatusUnprocessableEntity},
		{"store failure", &core.DownstreamError{Op: "append", Err: errors.New("boom")}, http.StatusInternalServerError},
		{"too large", fmt.Errorf("%w: 11 bytes", core.ErrFileTooLarge), http.StatusRequestEntityTooLarge},
		{"max bytes", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"session", core.ErrSessionRequired, http.StatusUnauthorized},
		{"invalid session", fmt.Errorf("%w: expired", auth.ErrInvalidSession), http.StatusUnauthorized},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", clinic.ErrForbidden, http.StatusForbidden},
		{"patient", fmt.Errorf("get patient 9: %w", clinic.ErrPatientNotFound), http.StatusNotFound},
		{"unknown import", core.ErrUnknownImport, http.StatusNotFound},
		{"therapist", clinic.ErrTherapistNotFound, http.StatusBadRequest},
		{"not csv", core.ErrNotCSV, http.StatusBadRequest},
		{"busy", core.ErrTooManyImports, http.StatusServiceUnavailable},
		{"rate", rateLimitError{retryAfter: time.Minute}, http.StatusTooManyRequests},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := newRateLimiter(ctx, 2, time.Minute)
	assert.True(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("1.1.1.1"))
	assert.False(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("2.2.2.2"), "limits are per address")

	rl.visitors["1.1.1.1"].lastReset = time.Now().Add(-2 * time.Minute)
	assert.True(t, rl.allow("1.1.1.1"), "a new window refills")
}
