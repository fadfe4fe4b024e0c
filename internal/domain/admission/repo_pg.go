package admission

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hospitalos/hospital/internal/platform/apperr"
	"github.com/hospitalos/hospital/internal/platform/db"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const admissionCols = `id, patient_id, bed_id, doctor_id, reason, status, admitted_at, discharged_at, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, a *Admission) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO admission (id, patient_id, bed_id, doctor_id, reason, status, admitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.PatientID, a.BedID, a.DoctorID, a.Reason, a.Status, a.AdmittedAt,
	)
	if db.IsUniqueViolation(err, "admission_one_active_per_patient") {
		return apperr.Conflict("patient %s already has an active admission", a.PatientID)
	}
	if db.IsUniqueViolation(err, "admission_one_active_per_bed") {
		return apperr.Conflict("bed %s is already occupied", a.BedID)
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return scanAdmission(r.conn(ctx).QueryRow(ctx,
		`SELECT `+admissionCols+` FROM admission WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Admission) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE admission SET
			bed_id=$2, reason=$3, status=$4, discharged_at=$5, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.BedID, a.Reason, a.Status, a.DischargedAt,
	)
	if db.IsUniqueViolation(err, "admission_one_active_per_bed") {
		return apperr.Conflict("bed %s is already occupied", a.BedID)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("admission %s not found", a.ID)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM admission WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("admission %s not found", id)
	}
	return nil
}

func (r *repoPG) GetActiveByPatient(ctx context.Context, patientID uuid.UUID) (*Admission, error) {
	return scanAdmission(r.conn(ctx).QueryRow(ctx,
		`SELECT `+admissionCols+` FROM admission WHERE patient_id = $1 AND discharged_at IS NULL`, patientID))
}

func (r *repoPG) GetActiveByBed(ctx context.Context, bedID uuid.UUID) (*Admission, error) {
	return scanAdmission(r.conn(ctx).QueryRow(ctx,
		`SELECT `+admissionCols+` FROM admission WHERE bed_id = $1 AND discharged_at IS NULL`, bedID))
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Admission, int, error) {
	where, args := buildFilter(f)

	var total int
	countSQL := `SELECT COUNT(*) FROM admission a` + where
	if err := r.conn(ctx).QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(
		`SELECT %s FROM admission a%s ORDER BY a.admitted_at DESC LIMIT $%d OFFSET $%d`,
		prefixCols("a", admissionCols), where, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, dataSQL, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var adms []*Admission
	for rows.Next() {
		var a Admission
		if err := rows.Scan(&a.ID, &a.PatientID, &a.BedID, &a.DoctorID, &a.Reason, &a.Status, &a.AdmittedAt, &a.DischargedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		adms = append(adms, &a)
	}
	return adms, total, rows.Err()
}

func (r *repoPG) IsNurseAssigned(ctx context.Context, admissionID, nurseID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM nurse_assignment WHERE admission_id = $1 AND nurse_id = $2)`,
		admissionID, nurseID).Scan(&exists)
	return exists, err
}

func buildFilter(f Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.PatientID != nil {
		add("a.patient_id = $%d", *f.PatientID)
	}
	if f.DoctorID != nil {
		add("a.doctor_id = $%d", *f.DoctorID)
	}
	if f.BedID != nil {
		add("a.bed_id = $%d", *f.BedID)
	}
	if f.NurseID != nil {
		add("EXISTS (SELECT 1 FROM nurse_assignment na WHERE na.admission_id = a.id AND na.nurse_id = $%d)", *f.NurseID)
	}
	if f.Status != "" {
		add("a.status = $%d", f.Status)
	}
	if f.ActiveOnly {
		conds = append(conds, "a.discharged_at IS NULL")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func prefixCols(alias, cols string) string {
	parts := strings.Split(cols, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

func scanAdmission(row pgx.Row) (*Admission, error) {
	var a Admission
	err := row.Scan(&a.ID, &a.PatientID, &a.BedID, &a.DoctorID, &a.Reason, &a.Status, &a.AdmittedAt, &a.DischargedAt, &a.CreatedAt, &a.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, apperr.NotFound("admission not found")
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
