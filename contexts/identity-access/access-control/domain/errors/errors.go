package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnknownRole     = errors.New("unknown role")
)

// AccessDeniedError carries the permission tokens the caller was missing so
// the audit trail can record them. It deliberately exposes nothing about the
// policy table itself.
type AccessDeniedError struct {
	Missing []string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("insufficient permissions: missing %s", strings.Join(e.Missing, ", "))
}

// IsAccessDenied reports whether err is a permission denial and returns the
// missing tokens when it is.
func IsAccessDenied(err error) (*AccessDeniedError, bool) {
	var denied *AccessDeniedError
	if errors.As(err, &denied) {
		return denied, true
	}
	return nil, false
}
