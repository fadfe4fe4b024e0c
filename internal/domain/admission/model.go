package admission

import (
	"time"

	"github.com/google/uuid"
)

// Admission lifecycle. Linear, no cycles: awaiting-bed -> active ->
// discharged, with active entered directly when a bed is supplied at
// admit time. Discharged is terminal.
const (
	StatusAwaitingBed = "awaiting-bed"
	StatusActive      = "active"
	StatusDischarged  = "discharged"
)

var validStatuses = map[string]bool{
	StatusAwaitingBed: true,
	StatusActive:      true,
	StatusDischarged:  true,
}

type Admission struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id"`
	BedID        *uuid.UUID `db:"bed_id" json:"bed_id,omitempty"`
	DoctorID     uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	Reason       string     `db:"reason" json:"reason"`
	Status       string     `db:"status" json:"status"`
	AdmittedAt   time.Time  `db:"admitted_at" json:"admitted_at"`
	DischargedAt *time.Time `db:"discharged_at" json:"discharged_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the admission is still open. The discharge
// timestamp, not the status column, is the source of truth.
func (a *Admission) IsActive() bool {
	return a.DischargedAt == nil
}
