package interfaces

import (
	"context"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
)

// IBillRepository persists bills. Status changes are guarded by the current
// status, so a redelivered event can complete a bill at most once.
type IBillRepository interface {
	Create(ctx context.Context, b entities.Bill) (entities.Bill, error)
	GetByCorrelationKey(ctx context.Context, key string) (entities.Bill, error)
	CompleteIfPending(ctx context.Context, id string, metadata map[string]string, at time.Time) (entities.Bill, bool, error)
	FailIfPending(ctx context.Context, id string, metadata map[string]string, at time.Time) (entities.Bill, bool, error)
}
