package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/recipefinder/backend/internal/domain"
)

func TestErrorKindAndUserMessage(t *testing.T) {
	testCases := []struct {
		err     error
		kind    string
		message string
	}{
		{nil, "", ""},
		{domain.ErrEmptyQuery, KindEmptyQuery, "Please enter at least one ingredient"},
		{fmt.Errorf("%w: 10s", domain.ErrTimeout), KindTimeout, "Request timed out. Please check your connection and try again."},
		{fmt.Errorf("%w: refused", domain.ErrNetwork), KindNetwork, "Failed to fetch recipes. Please check your internet connection."},
		{fmt.Errorf("%w: %w: status 503", domain.ErrNetwork, domain.ErrUpstreamStatus), KindServerError, "Server error. Please try again later."},
		{domain.ErrNoMatches, KindNoMatches, `No recipes found with "xyz". Try different ingredients like chicken, beef, or vegetables.`},
		{fmt.Errorf("%w: 3 of 3", domain.ErrDetailsUnavailable), KindDetailsUnavailable, "Found recipes but failed to load details. Please try again."},
		{domain.ErrRecipeNotFound, KindNotFound, "That recipe could not be found."},
		{domain.ErrInvalidRequest, KindInvalidRequest, "Invalid request."},
		{errors.New("boom"), KindUnknown, "Something went wrong. Please try again."},
	}

	for _, tc := range testCases {
		t.Run(tc.kind, func(t *testing.T) {
			if got := ErrorKind(tc.err); got != tc.kind {
				t.Errorf("ErrorKind() = %q, want %q", got, tc.kind)
			}
			if got := UserMessage(tc.err, "xyz"); got != tc.message {
				t.Errorf("UserMessage() = %q, want %q", got, tc.message)
			}
		})
	}
}
