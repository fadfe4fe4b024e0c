package admission

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/hospitalos/hospital/internal/domain/directory"
	"github.com/hospitalos/hospital/internal/domain/ward"
	"github.com/hospitalos/hospital/internal/platform/apperr"
	"github.com/hospitalos/hospital/internal/platform/auth"
)

// -- Mocks --

type mockRepo struct {
	admissions map[uuid.UUID]*Admission
	assigned   map[uuid.UUID][]uuid.UUID // admission -> nurse ids
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		admissions: make(map[uuid.UUID]*Admission),
		assigned:   make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *mockRepo) Create(_ context.Context, a *Admission) error {
	for _, ex := range m.admissions {
		if ex.DischargedAt != nil {
			continue
		}
		if ex.PatientID == a.PatientID {
			return apperr.Conflict("patient %s already has an active admission", a.PatientID)
		}
		if a.BedID != nil && ex.BedID != nil && *ex.BedID == *a.BedID {
			return apperr.Conflict("bed %s is already occupied", a.BedID)
		}
	}
	a.ID = uuid.New()
	m.admissions[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Admission, error) {
	a, ok := m.admissions[id]
	if !ok {
		return nil, apperr.NotFound("admission not found")
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Admission) error {
	if _, ok := m.admissions[a.ID]; !ok {
		return apperr.NotFound("admission not found")
	}
	m.admissions[a.ID] = a
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.admissions[id]; !ok {
		return apperr.NotFound("admission not found")
	}
	delete(m.admissions, id)
	return nil
}

func (m *mockRepo) GetActiveByPatient(_ context.Context, patientID uuid.UUID) (*Admission, error) {
	for _, a := range m.admissions {
		if a.PatientID == patientID && a.DischargedAt == nil {
			return a, nil
		}
	}
	return nil, apperr.NotFound("admission not found")
}

func (m *mockRepo) GetActiveByBed(_ context.Context, bedID uuid.UUID) (*Admission, error) {
	for _, a := range m.admissions {
		if a.BedID != nil && *a.BedID == bedID && a.DischargedAt == nil {
			return a, nil
		}
	}
	return nil, apperr.NotFound("admission not found")
}

func (m *mockRepo) List(_ context.Context, f Filter, limit, offset int) ([]*Admission, int, error) {
	var result []*Admission
	for _, a := range m.admissions {
		if f.PatientID != nil && a.PatientID != *f.PatientID {
			continue
		}
		if f.DoctorID != nil && a.DoctorID != *f.DoctorID {
			continue
		}
		if f.NurseID != nil && !contains(m.assigned[a.ID], *f.NurseID) {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.ActiveOnly && a.DischargedAt != nil {
			continue
		}
		result = append(result, a)
	}
	return result, len(result), nil
}

func (m *mockRepo) IsNurseAssigned(_ context.Context, admissionID, nurseID uuid.UUID) (bool, error) {
	return contains(m.assigned[admissionID], nurseID), nil
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type mockDirectory struct {
	patients map[uuid.UUID]*directory.Patient
	staff    map[uuid.UUID]*directory.Staff
}

func (m *mockDirectory) GetPatient(_ context.Context, id uuid.UUID) (*directory.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, apperr.NotFound("patient not found")
	}
	return p, nil
}

func (m *mockDirectory) GetStaff(_ context.Context, id uuid.UUID) (*directory.Staff, error) {
	s, ok := m.staff[id]
	if !ok {
		return nil, apperr.NotFound("staff not found")
	}
	return s, nil
}

type mockBeds struct {
	beds map[uuid.UUID]*ward.Bed
}

func (m *mockBeds) GetBed(_ context.Context, id uuid.UUID) (*ward.Bed, error) {
	b, ok := m.beds[id]
	if !ok {
		return nil, apperr.NotFound("bed not found")
	}
	return b, nil
}

func (m *mockBeds) SetOccupancy(_ context.Context, bedID uuid.UUID, occupied bool) (*ward.Bed, error) {
	b, ok := m.beds[bedID]
	if !ok {
		return nil, apperr.NotFound("bed not found")
	}
	b.Occupied = occupied
	return b, nil
}

type passTx struct{}

func (passTx) RunTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc    *Service
	repo   *mockRepo
	dir    *mockDirectory
	beds   *mockBeds
	clerk  auth.Actor
	doctor *directory.Staff
}

func newFixture() *fixture {
	repo := newMockRepo()
	dir := &mockDirectory{
		patients: make(map[uuid.UUID]*directory.Patient),
		staff:    make(map[uuid.UUID]*directory.Staff),
	}
	beds := &mockBeds{beds: make(map[uuid.UUID]*ward.Bed)}

	doctor := &directory.Staff{ID: uuid.New(), FirstName: "Femi", LastName: "Adeyemi", Roles: []string{auth.RoleDoctor}, Active: true}
	dir.staff[doctor.ID] = doctor

	return &fixture{
		svc:    NewService(repo, dir, beds, passTx{}),
		repo:   repo,
		dir:    dir,
		beds:   beds,
		clerk:  auth.Actor{ID: uuid.New(), Roles: []string{auth.RoleAdmissionsClerk}},
		doctor: doctor,
	}
}

func (f *fixture) addPatient() *directory.Patient {
	p := &directory.Patient{ID: uuid.New(), FirstName: "Ada", LastName: "Mensah"}
	f.dir.patients[p.ID] = p
	return p
}

func (f *fixture) addBed() *ward.Bed {
	b := &ward.Bed{ID: uuid.New(), RoomID: uuid.New(), Label: "204-A"}
	f.beds.beds[b.ID] = b
	return b
}

// -- Tests --

func TestAdmit_WithBed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patient := f.addPatient()
	bed := f.addBed()

	adm, err := f.svc.Admit(ctx, f.clerk, AdmitRequest{
		PatientID: patient.ID, BedID: &bed.ID, DoctorID: f.doctor.ID, Reason: "fever",
	})
	if err != nil {
		t.Fatalf("Admit failed: %v", err)
	}
	if adm.Status != StatusActive {
		t.Errorf("expected status %q, got %q", StatusActive, adm.Status)
	}
	if adm.BedID == nil || *adm.BedID != bed.ID {
		t.Error("expected bed to be attached")
	}
	if !bed.Occupied {
		t.Error("expected bed to be occupied after admit")
	}
	if adm.AdmittedAt.IsZero() {
		t.Error("expected admitted_at to be set")
	}
}

func TestAdmit_WithoutBed(t *testing.T) {
	f := newFixture()
	patient := f.addPatient()

	adm, err := f.svc.Admit(context.Background(), f.clerk, AdmitRequest{
		PatientID: patient.ID, DoctorID: f.doctor.ID, Reason: "observation",
	})
	if err != nil {
		t.Fatalf("Admit failed: %v", err)
	}
	if adm.Status != StatusAwaitingBed {
		t.Errorf("expected status %q, got %q", StatusAwaitingBed, adm.Status)
	}
	if adm.BedID != nil {
		t.Error("expected no bed attached")
	}
}

func TestAdmit_PatientAlreadyAdmitted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patient := f.addPatient()
	bedA := f.addBed()
	bedB := f.addBed()

	if _, err := f.svc.Admit(ctx, f.clerk, AdmitRequest{
		PatientID: patient.ID, BedID: &bedA.ID, DoctorID: f.doctor.ID, Reason: "fever",
	}); err != nil {
		t.Fatalf("first Admit failed: %v", err)
	}

	_, err := f.svc.Admit(ctx, f.clerk, AdmitRequest{
		PatientID: patient.ID, BedID: &bedB.ID, DoctorID: f.doctor.ID, Reason: "fever again",
	})
	if !apperr.IsConflict(err) {
		t.Errorf("expected conflict error, got %v", err)
	}
	if bedB.Occupied {
		t.Error("failed admit must not flip the bed flag")
	}
}

func TestAdmit_BedOccupied(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	bed := f.addBed()

	first := f.addPatient()
	if _, err := f.svc.Admit(ctx, f.clerk, AdmitRequest{
		PatientID: first.ID, BedID: &bed.ID, DoctorID: f.doctor.ID, Reason: "fever",
	}); err != nil {
		t.Fatalf("first Admit failed: %v", err)
	}

	second := f.addPatient()
	_, err := f.svc.Admit(ctx, f.clerk, AdmitRequest{
		PatientID: second.ID, BedID: &bed.ID, DoctorID: f.doctor.ID, Reason: "fracture",
	})
	if !apperr.IsConflict(err) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestAdmit_UnknownPatient(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Admit(context.Background(), f.clerk, AdmitRequest{
		PatientID: uuid.New(), DoctorID: f.doctor.ID, Reason: "fever",
	})
	if !apperr.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestAdmit_StaffNotADoctor(t *testing.T) {
	f := newFixture()
	patient := f.addPatient()
	nurse := &directory.Staff{ID: uuid.New(), FirstName: "Grace", LastName: "Okafor", Roles: []string{auth.RoleNurse}, Active: true}
	f.dir.staff[nurse.ID] = nurse

	_, err := f.svc.Admit(context.Background(), f.clerk, AdmitRequest{
		PatientID: patient.ID, DoctorID: nurse.ID, Reason: "fever",
	})
	if !apperr.IsConflict(err) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestAssignBed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patient := f.addPatient()
	bed := f.addBed()

	adm, err := f.svc.Admit(ctx, f.clerk, AdmitRequest{
		PatientID: patient.ID, DoctorID: f.doctor.ID, Reason: "observation",
	})
	if err != nil {
		t.Fatalf("Admit failed: %v", err)
	}

	got, err := f.svc.AssignBed(ctx, f.clerk, adm.ID, bed.ID)
	if err != nil {
		t.Fatalf("AssignBed failed: %v", err)
	}
	if got.Status != StatusActive {
		t.Errorf("expected status %q, got %q", StatusActive, got.Status)
	}
	if !bed.Occupied {
		t.Error("expected bed to be occupied")
	}
}

func TestAssignBed_ReleasesPreviousBed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patient := f.addPatient()
	old := f.addBed()
	next := f.addBed()

	adm, err := f.svc.Admit(ctx, f.clerk, AdmitRequest{
		PatientID: patient.ID, BedID: &old.ID, DoctorID: f.doctor.ID, Reason: "fever",
	})
	if err != nil {
		t.Fatalf("Admit failed: %v", err)
	}

	if _, err := f.svc.AssignBed(ctx, f.clerk, adm.ID, next.ID); err != nil {
		t.Fatalf("AssignBed failed: %v", err)
	}
	if old.Occupied {
		t.Error("expected previous bed to be released")
	}
	if !next.Occupied {
		t.Error("expected new bed to be occupied")
	}
}

func TestAssignBed_Discharged(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patient := f.addPatient()
	bed := f.addBed()

	adm, err := f.svc.Admit(ctx, f.clerk, AdmitRequest{
		PatientID: patient.ID, DoctorID: f.doctor.ID, Reason: "observation",
	})
	if err != nil {
		t.Fatalf("Admit failed: %v", err)
	}
	if _, err := f.svc.Discharge(ctx, f.clerk, adm.ID); err != nil {
		t.Fatalf("Discharge failed: %v", err)
	}

	_, err = f.svc.AssignBed(ctx, f.clerk, adm.ID, bed.ID)
	if !apperr.IsInvalidState(err) {
		t.Errorf("expected invalid-state error, got %v", err)
	}
}

func TestDischarge(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patient := f.addPatient()
	bed := f.addBed()

	adm, err := f.svc.Admit(ctx, f.clerk, AdmitRequest{
		PatientID: patient.ID, BedID: &bed.ID, DoctorID: f.doctor.ID, Reason: "fever",
	})
	if err != nil {
		t.Fatalf("Admit failed: %v", err)
	}

	got, err := f.svc.Discharge(ctx, f.clerk, adm.ID)
	if err != nil {
		t.Fatalf("Discharge failed: %v", err)
	}
	if got.Status != StatusDischarged {
		t.Errorf("expected status %q, got %q", StatusDischarged, got.Status)
	}
	if got.DischargedAt == nil {
		t.Error("expected discharged_at to be set")
	}
	if bed.Occupied {
		t.Error("expected bed to be released on discharge")
	}
}

func TestDischarge_Twice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patient := f.addPatient()

	adm, err := f.svc.Admit(ctx, f.clerk, AdmitRequest{
		PatientID: patient.ID, DoctorID: f.doctor.ID, Reason: "observation",
	})
	if err != nil {
		t.Fatalf("Admit failed: %v", err)
	}
	if _, err := f.svc.Discharge(ctx, f.clerk, adm.ID); err != nil {
		t.Fatalf("first Discharge failed: %v", err)
	}

	_, err = f.svc.Discharge(ctx, f.clerk, adm.ID)
	if !apperr.IsInvalidState(err) {
		t.Errorf("expected invalid-state error, got %v", err)
	}
	stored, err := f.repo.GetByID(ctx, adm.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Status != StatusDischarged {
		t.Error("second discharge must not change state")
	}
}

func TestDischarge_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Discharge(context.Background(), f.clerk, uuid.New())
	if !apperr.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestGetAdmission_Visibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patient := f.addPatient()

	adm, err := f.svc.Admit(ctx, f.clerk, AdmitRequest{
		PatientID: patient.ID, DoctorID: f.doctor.ID, Reason: "observation",
	})
	if err != nil {
		t.Fatalf("Admit failed: %v", err)
	}

	nurse := auth.Actor{ID: uuid.New(), Roles: []string{auth.RoleNurse}}
	f.repo.assigned[adm.ID] = []uuid.UUID{nurse.ID}

	cases := []struct {
		name    string
		actor   auth.Actor
		visible bool
	}{
		{"admin sees all", auth.Actor{ID: uuid.New(), Roles: []string{auth.RoleAdmin}}, true},
		{"manager sees all", auth.Actor{ID: uuid.New(), Roles: []string{auth.RoleManager}}, true},
		{"responsible doctor", auth.Actor{ID: f.doctor.ID, Roles: []string{auth.RoleDoctor}}, true},
		{"other doctor", auth.Actor{ID: uuid.New(), Roles: []string{auth.RoleDoctor}}, false},
		{"assigned nurse", nurse, true},
		{"other nurse", auth.Actor{ID: uuid.New(), Roles: []string{auth.RoleNurse}}, false},
		{"own patient", auth.Actor{ID: patient.ID, Roles: []string{auth.RolePatient}}, true},
		{"other patient", auth.Actor{ID: uuid.New(), Roles: []string{auth.RolePatient}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.GetAdmission(ctx, tc.actor, adm.ID)
			if tc.visible && err != nil {
				t.Errorf("expected access, got %v", err)
			}
			if !tc.visible && !apperr.IsForbidden(err) {
				t.Errorf("expected forbidden error, got %v", err)
			}
		})
	}
}

func TestListAdmissions_Scoping(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	otherDoctor := &directory.Staff{ID: uuid.New(), FirstName: "Tunde", LastName: "Bello", Roles: []string{auth.RoleDoctor}, Active: true}
	f.dir.staff[otherDoctor.ID] = otherDoctor

	p1 := f.addPatient()
	p2 := f.addPatient()
	if _, err := f.svc.Admit(ctx, f.clerk, AdmitRequest{PatientID: p1.ID, DoctorID: f.doctor.ID, Reason: "a"}); err != nil {
		t.Fatalf("Admit failed: %v", err)
	}
	if _, err := f.svc.Admit(ctx, f.clerk, AdmitRequest{PatientID: p2.ID, DoctorID: otherDoctor.ID, Reason: "b"}); err != nil {
		t.Fatalf("Admit failed: %v", err)
	}

	manager := auth.Actor{ID: uuid.New(), Roles: []string{auth.RoleManager}}
	all, total, err := f.svc.ListAdmissions(ctx, manager, Filter{}, 20, 0)
	if err != nil {
		t.Fatalf("ListAdmissions failed: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Errorf("expected 2 admissions for manager, got %d", total)
	}

	doc := auth.Actor{ID: f.doctor.ID, Roles: []string{auth.RoleDoctor}}
	mine, total, err := f.svc.ListAdmissions(ctx, doc, Filter{}, 20, 0)
	if err != nil {
		t.Fatalf("ListAdmissions failed: %v", err)
	}
	if total != 1 || len(mine) != 1 || mine[0].DoctorID != f.doctor.ID {
		t.Errorf("expected doctor to see only their admission, got %d", total)
	}

	other := otherDoctor.ID
	if _, _, err := f.svc.ListAdmissions(ctx, doc, Filter{DoctorID: &other}, 20, 0); !apperr.IsForbidden(err) {
		t.Errorf("expected forbidden when doctor lists another doctor, got %v", err)
	}

	pat := auth.Actor{ID: p1.ID, Roles: []string{auth.RolePatient}}
	own, total, err := f.svc.ListAdmissions(ctx, pat, Filter{}, 20, 0)
	if err != nil {
		t.Fatalf("ListAdmissions failed: %v", err)
	}
	if total != 1 || own[0].PatientID != p1.ID {
		t.Errorf("expected patient to see only their admission, got %d", total)
	}
}

func TestGetActiveByBed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patient := f.addPatient()
	bed := f.addBed()

	adm, err := f.svc.Admit(ctx, f.clerk, AdmitRequest{
		PatientID: patient.ID, BedID: &bed.ID, DoctorID: f.doctor.ID, Reason: "fever",
	})
	if err != nil {
		t.Fatalf("Admit failed: %v", err)
	}

	got, err := f.svc.GetActiveByBed(ctx, f.clerk, bed.ID)
	if err != nil {
		t.Fatalf("GetActiveByBed failed: %v", err)
	}
	if got.ID != adm.ID {
		t.Error("expected the active admission for the bed")
	}

	pat := auth.Actor{ID: uuid.New(), Roles: []string{auth.RolePatient}}
	if _, err := f.svc.GetActiveByBed(ctx, pat, bed.ID); !apperr.IsForbidden(err) {
		t.Errorf("expected forbidden for patient actor, got %v", err)
	}
}
