package interfaces

import (
	"context"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
)

type IOrderRepository interface {
	Create(ctx context.Context, o entities.Order) (entities.Order, error)
	GetByID(ctx context.Context, id string) (entities.Order, error)
	UpdateStatusIfPending(ctx context.Context, id string, status entities.OrderStatus) (entities.Order, bool, error)
}
