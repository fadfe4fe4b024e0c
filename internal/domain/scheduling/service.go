package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hospitalos/hospital/internal/domain/directory"
	"github.com/hospitalos/hospital/internal/platform/apperr"
	"github.com/hospitalos/hospital/internal/platform/auth"
	"github.com/hospitalos/hospital/internal/platform/db"
)

// Directory is the patient/staff lookup the scheduler consumes.
type Directory interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*directory.Patient, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*directory.Staff, error)
}

type Service struct {
	repo Repository
	dir  Directory
	tx   db.TxRunner
}

func NewService(repo Repository, dir Directory, tx db.TxRunner) *Service {
	return &Service{repo: repo, dir: dir, tx: tx}
}

type ScheduleRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	StartTime time.Time `json:"start_time"`
}

// Schedule books an appointment. The conflict rule is exact-instant
// equality on start time, for both the doctor and the patient, over
// non-cancelled appointments. The check and the insert share one
// transaction and the partial unique indexes on (doctor_id, start_time)
// and (patient_id, start_time) close the remaining race.
func (s *Service) Schedule(ctx context.Context, actor auth.Actor, req ScheduleRequest) (*Appointment, error) {
	if req.PatientID == uuid.Nil {
		return nil, apperr.InvalidArgument("patient_id is required")
	}
	if req.DoctorID == uuid.Nil {
		return nil, apperr.InvalidArgument("doctor_id is required")
	}
	if req.StartTime.IsZero() {
		return nil, apperr.InvalidArgument("start_time is required")
	}

	var appt *Appointment
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

		at := req.StartTime.UTC()
		booked, err := s.repo.DoctorBookedAt(ctx, req.DoctorID, at)
		if err != nil {
			return err
		}
		if booked {
			return apperr.Conflict("doctor %s already has an appointment at %s", req.DoctorID, at.Format(time.RFC3339))
		}
		booked, err = s.repo.PatientBookedAt(ctx, req.PatientID, at)
		if err != nil {
			return err
		}
		if booked {
			return apperr.Conflict("patient %s already has an appointment at %s", req.PatientID, at.Format(time.RFC3339))
		}

		appt = &Appointment{
			PatientID: req.PatientID,
			DoctorID:  req.DoctorID,
			StartTime: at,
			Status:    StatusScheduled,
		}
		return s.repo.Create(ctx, appt)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// UpdateStatus moves the appointment to a new status. Completed is
// terminal: any transition out of it fails.
func (s *Service) UpdateStatus(ctx context.Context, actor auth.Actor, id uuid.UUID, status string) (*Appointment, error) {
	if !validStatuses[status] {
		return nil, apperr.InvalidArgument("invalid status: %s", status)
	}

	var appt *Appointment
	err := s.tx.RunTx(ctx, func(ctx context.Context) error {
		var err error
		appt, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if appt.Status == StatusCompleted && status != StatusCompleted {
			return apperr.InvalidArgument("appointment %s is completed and cannot change status", id)
		}
		if appt.Status == status {
			return nil
		}
		if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		appt.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// Cancel is UpdateStatus to cancelled.
func (s *Service) Cancel(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Appointment, error) {
	return s.UpdateStatus(ctx, actor, id, StatusCancelled)
}

// GetAppointment is a role-scoped read: supervisors see everything, the
// booked doctor and the booked patient see their own.
func (s *Service) GetAppointment(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case actor.IsStaffSupervisor():
	case actor.HasRole(auth.RoleDoctor) && appt.DoctorID == actor.ID:
	case actor.HasRole(auth.RolePatient) && appt.PatientID == actor.ID:
	case actor.HasAnyRole(auth.RoleNurse, auth.RoleAdmissionsClerk):
	default:
		return nil, apperr.Forbidden("appointment %s is not visible to actor %s", id, actor.ID)
	}
	return appt, nil
}

// ListByPatient returns a patient's appointment history. Patients may
// only list their own.
func (s *Service) ListByPatient(ctx context.Context, actor auth.Actor, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	if actor.HasRole(auth.RolePatient) && !actor.IsStaffSupervisor() && actor.ID != patientID {
		return nil, 0, apperr.Forbidden("patients may only list their own appointments")
	}
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// ListByDoctorDay returns a doctor's appointments for one calendar day.
// The window is [00:00, 24:00) in the given location.
func (s *Service) ListByDoctorDay(ctx context.Context, actor auth.Actor, doctorID uuid.UUID, day time.Time, loc *time.Location) ([]*Appointment, error) {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := day.In(loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, 1)
	return s.repo.ListByDoctorBetween(ctx, doctorID, from, to)
}
