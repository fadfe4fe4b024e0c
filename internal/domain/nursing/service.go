package nursing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hospitalos/hospital/internal/domain/admission"
	"github.com/hospitalos/hospital/internal/domain/directory"
	"github.com/hospitalos/hospital/internal/platform/apperr"
	"github.com/hospitalos/hospital/internal/platform/auth"
	"github.com/hospitalos/hospital/internal/platform/db"
)

// Admissions is the admission lookup the sub-ledger consumes.
type Admissions interface {
	GetByID(ctx context.Context, id uuid.UUID) (*admission.Admission, error)
}

// Staff is the staff lookup used for the nurse-role check.
type Staff interface {
	GetStaff(ctx context.Context, id uuid.UUID) (*directory.Staff, error)
}

type Service struct {
	repo       Repository
	admissions Admissions
	staff      Staff
	tx         db.TxRunner
}

func NewService(repo Repository, admissions Admissions, staff Staff, tx db.TxRunner) *Service {
	return &Service{repo: repo, admissions: admissions, staff: staff, tx: tx}
}

// Assign attaches a nurse to an open admission. The staff record must
// hold the nurse role and the (admission, nurse) pair must be new; the
// unique index on the pair backs the check under concurrency.
func (s *Service) Assign(ctx context.Context, actor auth.Actor, admissionID, nurseID uuid.UUID) (*NurseAssignment, error) {
	var assignment *NurseAssignment
	err := s.tx.RunTx(ctx, func(ctx context.Context) error {
		adm, err := s.admissions.GetByID(ctx, admissionID)
		if err != nil {
			return err
		}
		if !adm.IsActive() {
			return apperr.InvalidState("admission %s is discharged", admissionID)
		}

		nurse, err := s.staff.GetStaff(ctx, nurseID)
		if err != nil {
			return err
		}
		if !nurse.HasRole(auth.RoleNurse) {
			return apperr.Conflict("staff %s does not hold the nurse role", nurseID)
		}

		exists, err := s.repo.ExistsPair(ctx, admissionID, nurseID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("nurse %s is already assigned to admission %s", nurseID, admissionID)
		}

		assignment = &NurseAssignment{
			AdmissionID: admissionID,
			NurseID:     nurseID,
			AssignedAt:  time.Now().UTC(),
		}
		return s.repo.Create(ctx, assignment)
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// Unassign removes an assignment and returns the updated admission view.
func (s *Service) Unassign(ctx context.Context, actor auth.Actor, admissionID, assignmentID uuid.UUID) (*AdmissionView, error) {
	var view *AdmissionView
	err := s.tx.RunTx(ctx, func(ctx context.Context) error {
		assignment, err := s.repo.GetByID(ctx, assignmentID)
		if err != nil {
			return err
		}
		if assignment.AdmissionID != admissionID {
			return apperr.InvalidArgument("assignment %s does not belong to admission %s", assignmentID, admissionID)
		}

		adm, err := s.admissions.GetByID(ctx, admissionID)
		if err != nil {
			return err
		}
		if !adm.IsActive() {
			return apperr.InvalidState("admission %s is discharged", admissionID)
		}

		if err := s.repo.Delete(ctx, assignmentID); err != nil {
			return err
		}
		view, err = s.buildView(ctx, adm)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// List is a pass-through read of the admission's assignment set.
func (s *Service) List(ctx context.Context, actor auth.Actor, admissionID uuid.UUID) ([]*NurseAssignment, error) {
	if _, err := s.admissions.GetByID(ctx, admissionID); err != nil {
		return nil, err
	}
	return s.repo.ListByAdmission(ctx, admissionID)
}

// View returns the admission together with its assignments.
func (s *Service) View(ctx context.Context, actor auth.Actor, admissionID uuid.UUID) (*AdmissionView, error) {
	adm, err := s.admissions.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, adm)
}

func (s *Service) buildView(ctx context.Context, adm *admission.Admission) (*AdmissionView, error) {
	assignments, err := s.repo.ListByAdmission(ctx, adm.ID)
	if err != nil {
		return nil, err
	}
	return &AdmissionView{Admission: adm, Assignments: assignments}, nil
}
