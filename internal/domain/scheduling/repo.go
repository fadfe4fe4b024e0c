package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// DoctorBookedAt and PatientBookedAt report whether a non-cancelled
	// appointment exists at exactly the given instant.
	DoctorBookedAt(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error)
	PatientBookedAt(ctx context.Context, patientID uuid.UUID, at time.Time) (bool, error)

	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*Appointment, error)
}
