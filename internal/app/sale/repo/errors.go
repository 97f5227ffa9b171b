package repo

import (
	"context"
	"errors"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
)

// classify maps a Spanner failure onto the domain error taxonomy.
// Quota, availability and contention errors are retryable; malformed
// statements, missing tables and auth failures are not.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.Canceled):
		return domain.Permanent(op, err)
	case errors.Is(err, context.DeadlineExceeded):
		return domain.Transient(op, err)
	}

	switch spanner.ErrCode(err) {
	case codes.Unavailable,
		codes.DeadlineExceeded,
		codes.ResourceExhausted,
		codes.Aborted,
		codes.Internal,
		codes.Unknown:
		return domain.Transient(op, err)
	default:
		return domain.Permanent(op, err)
	}
}
