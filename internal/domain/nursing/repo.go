package nursing

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *NurseAssignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*NurseAssignment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]*NurseAssignment, error)
	ExistsPair(ctx context.Context, admissionID, nurseID uuid.UUID) (bool, error)
}
