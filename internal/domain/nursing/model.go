package nursing

import (
	"time"

	"github.com/google/uuid"

	"github.com/hospitalos/hospital/internal/domain/admission"
)

// NurseAssignment ties a nurse to an admission. The (admission, nurse)
// pair is unique; rows are removed explicitly or cascade away with the
// admission.
type NurseAssignment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	AdmissionID uuid.UUID `db:"admission_id" json:"admission_id"`
	NurseID     uuid.UUID `db:"nurse_id" json:"nurse_id"`
	AssignedAt  time.Time `db:"assigned_at" json:"assigned_at"`
}

// AdmissionView bundles an admission with its assignment set, the shape
// read endpoints and unassign return.
type AdmissionView struct {
	Admission   *admission.Admission `json:"admission"`
	Assignments []*NurseAssignment   `json:"nurse_assignments"`
}
