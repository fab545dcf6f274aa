package interfaces

import (
	"context"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
)

// IPaymentEventPublisher notifies downstream collaborators (enrollment, mail)
// that a payment reached a terminal state.
type IPaymentEventPublisher interface {
	PublishPaymentSettled(ctx context.Context, evt entities.PaymentSettledEvent) error
}
