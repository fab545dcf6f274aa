package interfaces

import (
	"context"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
)

type IGatewayEventRepository interface {
	Create(ctx context.Context, e entities.GatewayEvent) error
}
