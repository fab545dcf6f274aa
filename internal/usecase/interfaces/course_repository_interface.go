package interfaces

import (
	"context"

	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
)

// ICourseRepository reads course prices from the course catalog.
type ICourseRepository interface {
	GetByID(ctx context.Context, id string) (entities.Course, error)
}
