package interfaces

import (
	"context"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
)

// IPlanRepository reads the plan catalog owned by the course domain.
type IPlanRepository interface {
	GetByID(ctx context.Context, id string) (entities.Plan, error)
}
