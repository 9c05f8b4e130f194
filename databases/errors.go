package databases

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned by store lookups when no document matches.
var ErrNotFound = errors.New("document not found")

// IsNotFound reports whether err is a missing-document error from any
// of the stores in this package.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, mongo.ErrNoDocuments)
}

// IsTransient reports whether err looks like a transient I/O failure
// (timeout, cancelled context, unavailable server) that the coordinator
// is allowed to retry once on the load path. Anything else is treated
// as permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		// 11600/11602: interrupted / interrupted due to repl state change
		return serverErr.HasErrorCode(11600) || serverErr.HasErrorCode(11602)
	}
	return false
}
