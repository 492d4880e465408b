package vendors

import (
	"errors"
	"fmt"
)

var (
	ErrUnreachable = errors.New("vendor unreachable")
	ErrMalformed   = errors.New("vendor response malformed")
)

// RejectedError carries the vendor's own status code and error body
// verbatim, so partial or non-JSON responses degrade to their raw text
// instead of being dropped.
type RejectedError struct {
	Vendor     string
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected request: status %d: %s", e.Vendor, e.StatusCode, e.Body)
}

func NewRejected(vendor string, statusCode int, body []byte) *RejectedError {
	return &RejectedError{
		Vendor:     vendor,
		StatusCode: statusCode,
		Body:       string(body),
	}
}

func AsRejected(err error) (*RejectedError, bool) {
	var rejected *RejectedError
	ok := errors.As(err, &rejected)
	return rejected, ok
}
