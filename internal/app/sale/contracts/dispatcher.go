package contracts

import (
	"context"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
)

// Dispatcher delivers the purchase notification. It is called at most once
// per sale event, only after contact and purchase are both resolved.
type Dispatcher interface {
	Send(ctx context.Context, n *domain.Notification) (*domain.DispatchResult, error)
}
