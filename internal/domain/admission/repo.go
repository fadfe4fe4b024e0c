package admission

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows List. Zero-value fields are ignored; set fields combine
// with AND.
type Filter struct {
	PatientID  *uuid.UUID
	DoctorID   *uuid.UUID
	NurseID    *uuid.UUID
	BedID      *uuid.UUID
	Status     string
	ActiveOnly bool
}

type Repository interface {
	Create(ctx context.Context, a *Admission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Admission, error)
	Update(ctx context.Context, a *Admission) error
	Delete(ctx context.Context, id uuid.UUID) error

	// GetActiveByPatient and GetActiveByBed return the single open
	// admission for the given patient or bed, or NotFound.
	GetActiveByPatient(ctx context.Context, patientID uuid.UUID) (*Admission, error)
	GetActiveByBed(ctx context.Context, bedID uuid.UUID) (*Admission, error)

	List(ctx context.Context, f Filter, limit, offset int) ([]*Admission, int, error)

	// IsNurseAssigned reports whether the nurse has an assignment row
	// for the admission. Used for read-visibility scoping.
	IsNurseAssigned(ctx context.Context, admissionID, nurseID uuid.UUID) (bool, error)
}
