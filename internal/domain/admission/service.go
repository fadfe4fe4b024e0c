package admission

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hospitalos/hospital/internal/domain/directory"
	"github.com/hospitalos/hospital/internal/domain/ward"
	"github.com/hospitalos/hospital/internal/platform/apperr"
	"github.com/hospitalos/hospital/internal/platform/auth"
	"github.com/hospitalos/hospital/internal/platform/db"
)

// Directory is the patient/staff lookup the ledger consumes.
type Directory interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*directory.Patient, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*directory.Staff, error)
}

// Beds is the bed lookup and occupancy flag owner. The ledger never
// mutates bed state except through SetOccupancy.
type Beds interface {
	GetBed(ctx context.Context, id uuid.UUID) (*ward.Bed, error)
	SetOccupancy(ctx context.Context, bedID uuid.UUID, occupied bool) (*ward.Bed, error)
}

type Service struct {
	repo Repository
	dir  Directory
	beds Beds
	tx   db.TxRunner
}

func NewService(repo Repository, dir Directory, beds Beds, tx db.TxRunner) *Service {
	return &Service{repo: repo, dir: dir, beds: beds, tx: tx}
}

type AdmitRequest struct {
	PatientID uuid.UUID  `json:"patient_id"`
	BedID     *uuid.UUID `json:"bed_id,omitempty"`
	DoctorID  uuid.UUID  `json:"doctor_id"`
	Reason    string     `json:"reason"`
}

// Admit opens an admission for a patient. The precondition checks and the
// admission/bed writes run in one transaction; the partial unique indexes
// on the admission table catch the race two concurrent admits can win.
func (s *Service) Admit(ctx context.Context, actor auth.Actor, req AdmitRequest) (*Admission, error) {
	if req.PatientID == uuid.Nil {
		return nil, apperr.InvalidArgument("patient_id is required")
	}
	if req.DoctorID == uuid.Nil {
		return nil, apperr.InvalidArgument("doctor_id is required")
	}
	if req.Reason == "" {
		return nil, apperr.InvalidArgument("reason is required")
	}

	var adm *Admission
	err := s.tx.RunTx(ctx, func(ctx context.Context) error {
		if _, err := s.dir.GetPatient(ctx, req.PatientID); err != nil {
			return err
		}
		doctor, err := s.dir.GetStaff(ctx, req.DoctorID)
		if err != nil {
			return err
		}
		if !doctor.HasRole(auth.RoleDoctor) {
			return apperr.Conflict("staff %s does not hold the doctor role", req.DoctorID)
		}

		if existing, err := s.repo.GetActiveByPatient(ctx, req.PatientID); err == nil && existing != nil {
			return apperr.Conflict("patient %s already has an active admission", req.PatientID)
		} else if err != nil && !apperr.IsNotFound(err) {
			return err
		}

		status := StatusAwaitingBed
		if req.BedID != nil {
			bed, err := s.beds.GetBed(ctx, *req.BedID)
			if err != nil {
				return err
			}
			if bed.Occupied {
				return apperr.Conflict("bed %s is already occupied", bed.ID)
			}
			status = StatusActive
		}

		adm = &Admission{
			PatientID:  req.PatientID,
			BedID:      req.BedID,
			DoctorID:   req.DoctorID,
			Reason:     req.Reason,
			Status:     status,
			AdmittedAt: time.Now().UTC(),
		}
		if err := s.repo.Create(ctx, adm); err != nil {
			return err
		}
		if req.BedID != nil {
			if _, err := s.beds.SetOccupancy(ctx, *req.BedID, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return adm, nil
}

// AssignBed moves an open admission into a bed, releasing the previous
// bed if one was attached. Assigning the current bed again is a no-op.
func (s *Service) AssignBed(ctx context.Context, actor auth.Actor, admissionID, bedID uuid.UUID) (*Admission, error) {
	var adm *Admission
	err := s.tx.RunTx(ctx, func(ctx context.Context) error {
		var err error
		adm, err = s.repo.GetByID(ctx, admissionID)
		if err != nil {
			return err
		}
		if !adm.IsActive() {
			return apperr.InvalidState("admission %s is discharged", admissionID)
		}
		if adm.BedID != nil && *adm.BedID == bedID {
			return nil
		}

		bed, err := s.beds.GetBed(ctx, bedID)
		if err != nil {
			return err
		}
		if bed.Occupied {
			return apperr.Conflict("bed %s is already occupied", bedID)
		}

		if adm.BedID != nil {
			if _, err := s.beds.SetOccupancy(ctx, *adm.BedID, false); err != nil {
				return err
			}
		}
		adm.BedID = &bedID
		adm.Status = StatusActive
		if err := s.repo.Update(ctx, adm); err != nil {
			return err
		}
		_, err = s.beds.SetOccupancy(ctx, bedID, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return adm, nil
}

// Discharge closes an admission and frees its bed. Discharging twice
// fails with an invalid-state error and changes nothing.
func (s *Service) Discharge(ctx context.Context, actor auth.Actor, admissionID uuid.UUID) (*Admission, error) {
	var adm *Admission
	err := s.tx.RunTx(ctx, func(ctx context.Context) error {
		var err error
		adm, err = s.repo.GetByID(ctx, admissionID)
		if err != nil {
			return err
		}
		if !adm.IsActive() {
			return apperr.InvalidState("admission %s is already discharged", admissionID)
		}

		now := time.Now().UTC()
		adm.DischargedAt = &now
		adm.Status = StatusDischarged
		if err := s.repo.Update(ctx, adm); err != nil {
			return err
		}
		if adm.BedID != nil {
			if _, err := s.beds.SetOccupancy(ctx, *adm.BedID, false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return adm, nil
}

// GetAdmission is a role-scoped read. Admin and manager see everything;
// a doctor sees admissions they are responsible for; a nurse sees
// admissions they are assigned to; a patient sees their own.
func (s *Service) GetAdmission(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Admission, error) {
	adm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisibility(ctx, actor, adm); err != nil {
		return nil, err
	}
	return adm, nil
}

func (s *Service) checkVisibility(ctx context.Context, actor auth.Actor, adm *Admission) error {
	switch {
	case actor.IsStaffSupervisor():
		return nil
	case actor.HasRole(auth.RoleDoctor) && adm.DoctorID == actor.ID:
		return nil
	case actor.HasRole(auth.RoleNurse):
		assigned, err := s.repo.IsNurseAssigned(ctx, adm.ID, actor.ID)
		if err != nil {
			return err
		}
		if assigned {
			return nil
		}
	case actor.HasRole(auth.RolePatient) && adm.PatientID == actor.ID:
		return nil
	}
	return apperr.Forbidden("admission %s is not visible to actor %s", adm.ID, actor.ID)
}

// ListAdmissions applies the same visibility scoping to list reads: for
// non-supervisors the filter is pinned to the actor's own admissions, and
// a filter that asks for someone else's records is refused.
func (s *Service) ListAdmissions(ctx context.Context, actor auth.Actor, f Filter, limit, offset int) ([]*Admission, int, error) {
	switch {
	case actor.IsStaffSupervisor():
		// unrestricted
	case actor.HasRole(auth.RoleDoctor):
		if f.DoctorID != nil && *f.DoctorID != actor.ID {
			return nil, 0, apperr.Forbidden("doctors may only list their own admissions")
		}
		id := actor.ID
		f.DoctorID = &id
	case actor.HasRole(auth.RoleNurse):
		if f.NurseID != nil && *f.NurseID != actor.ID {
			return nil, 0, apperr.Forbidden("nurses may only list admissions they are assigned to")
		}
		id := actor.ID
		f.NurseID = &id
	case actor.HasRole(auth.RolePatient):
		if f.PatientID != nil && *f.PatientID != actor.ID {
			return nil, 0, apperr.Forbidden("patients may only list their own admissions")
		}
		id := actor.ID
		f.PatientID = &id
	default:
		return nil, 0, apperr.Forbidden("actor %s may not list admissions", actor.ID)
	}

	if f.Status != "" && !validStatuses[f.Status] {
		return nil, 0, apperr.InvalidArgument("invalid status: %s", f.Status)
	}
	return s.repo.List(ctx, f, limit, offset)
}

// GetActiveByBed answers "who is in this bed". Staff-only read.
func (s *Service) GetActiveByBed(ctx context.Context, actor auth.Actor, bedID uuid.UUID) (*Admission, error) {
	if !actor.HasAnyRole(auth.RoleAdmin, auth.RoleManager, auth.RoleDoctor, auth.RoleNurse, auth.RoleAdmissionsClerk) {
		return nil, apperr.Forbidden("actor %s may not look up bed occupancy", actor.ID)
	}
	return s.repo.GetActiveByBed(ctx, bedID)
}
