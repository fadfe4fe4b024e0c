package directory

import (
	"context"

	"github.com/google/uuid"

	"github.com/hospitalos/hospital/internal/platform/apperr"
	"github.com/hospitalos/hospital/internal/platform/auth"
)

type Service struct {
	patients PatientRepository
	staff    StaffRepository
}

func NewService(patients PatientRepository, staff StaffRepository) *Service {
	return &Service{patients: patients, staff: staff}
}

// Staff roles the directory accepts. Mirrors the access-control role set
// minus admin, which is not a clinical role.
var validStaffRoles = map[string]bool{
	auth.RoleManager:         true,
	auth.RoleDoctor:          true,
	auth.RoleNurse:           true,
	auth.RoleAdmissionsClerk: true,
}

func (s *Service) RegisterPatient(ctx context.Context, p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return apperr.InvalidArgument("first_name and last_name are required")
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return apperr.InvalidArgument("first_name and last_name are required")
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) RegisterStaff(ctx context.Context, st *Staff) error {
	if st.FirstName == "" || st.LastName == "" {
		return apperr.InvalidArgument("first_name and last_name are required")
	}
	if len(st.Roles) == 0 {
		return apperr.InvalidArgument("at least one role is required")
	}
	for _, role := range st.Roles {
		if !validStaffRoles[role] {
			return apperr.InvalidArgument("invalid staff role: %s", role)
		}
	}
	st.Active = true
	return s.staff.Create(ctx, st)
}

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return s.staff.GetByID(ctx, id)
}

func (s *Service) UpdateStaff(ctx context.Context, st *Staff) error {
	if st.FirstName == "" || st.LastName == "" {
		return apperr.InvalidArgument("first_name and last_name are required")
	}
	for _, role := range st.Roles {
		if !validStaffRoles[role] {
			return apperr.InvalidArgument("invalid staff role: %s", role)
		}
	}
	return s.staff.Update(ctx, st)
}

func (s *Service) DeactivateStaff(ctx context.Context, id uuid.UUID) error {
	st, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !st.Active {
		return nil
	}
	st.Active = false
	return s.staff.Update(ctx, st)
}

func (s *Service) ListStaff(ctx context.Context, role string, limit, offset int) ([]*Staff, int, error) {
	if role != "" {
		return s.staff.ListByRole(ctx, role, limit, offset)
	}
	return s.staff.List(ctx, limit, offset)
}
