package interfaces

import (
	"context"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
)

type ISubscriptionRepository interface {
	Create(ctx context.Context, s entities.Subscription) (entities.Subscription, error)
	GetByID(ctx context.Context, id string) (entities.Subscription, error)
	ActivateIfPending(ctx context.Context, id string, startAt, endAt, at time.Time) (entities.Subscription, bool, error)
}
