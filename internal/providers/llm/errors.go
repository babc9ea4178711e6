package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is a non-2xx completion API response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}

// IsRateLimited reports whether an error is a rate-limit-class failure
// worth retrying on the alternate backend.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests
	}
	return strings.Contains(strings.ToLower(err.Error()), "rate limit")
}
