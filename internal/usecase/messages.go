package usecase

import (
	"errors"
	"fmt"

	"github.com/recipefinder/backend/internal/domain"
)

// Error kinds reported in result views
const (
	KindEmptyQuery         = "empty_query"
	KindTimeout            = "timeout"
	KindNetwork            = "network_error"
	KindServerError        = "server_error"
	KindNoMatches          = "no_matches"
	KindDetailsUnavailable = "details_unavailable"
	KindNotFound           = "not_found"
	KindInvalidRequest     = "invalid_request"
	KindUnknown            = "unknown"
)

// ErrorKind names the category of err, or "" for nil
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrEmptyQuery):
		return KindEmptyQuery
	case errors.Is(err, domain.ErrTimeout):
		return KindTimeout
	case errors.Is(err, domain.ErrUpstreamStatus):
		return KindServerError
	case errors.Is(err, domain.ErrNetwork):
		return KindNetwork
	case errors.Is(err, domain.ErrNoMatches):
		return KindNoMatches
	case errors.Is(err, domain.ErrDetailsUnavailable):
		return KindDetailsUnavailable
	case errors.Is(err, domain.ErrRecipeNotFound):
		return KindNotFound
	case errors.Is(err, domain.ErrInvalidRequest):
		return KindInvalidRequest
	default:
		return KindUnknown
	}
}

// UserMessage returns the text shown to the user for err. query is the
// ingredient text that was searched.
func UserMessage(err error, query string) string {
	switch ErrorKind(err) {
	case "":
		return ""
	case KindEmptyQuery:
		return "Please enter at least one ingredient"
	case KindTimeout:
		return "Request timed out. Please check your connection and try again."
	case KindNetwork:
		return "Failed to fetch recipes. Please check your internet connection."
	case KindServerError:
		return "Server error. Please try again later."
	case KindNoMatches:
		return fmt.Sprintf("No recipes found with \"%s\". Try different ingredients like chicken, beef, or vegetables.", query)
	case KindDetailsUnavailable:
		return "Found recipes but failed to load details. Please try again."
	case KindNotFound:
		return "That recipe could not be found."
	case KindInvalidRequest:
		return "Invalid request."
	default:
		return "Something went wrong. Please try again."
	}
}
