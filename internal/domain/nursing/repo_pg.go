package nursing

import (
	"context"

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

func (r *repoPG) Create(ctx context.Context, a *NurseAssignment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO nurse_assignment (id, admission_id, nurse_id, assigned_at)
		VALUES ($1,$2,$3,$4)`,
		a.ID, a.AdmissionID, a.NurseID, a.AssignedAt,
	)
	if db.IsUniqueViolation(err, "nurse_assignment_pair") {
		return apperr.Conflict("nurse %s is already assigned to admission %s", a.NurseID, a.AdmissionID)
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*NurseAssignment, error) {
	var a NurseAssignment
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, admission_id, nurse_id, assigned_at
		FROM nurse_assignment WHERE id = $1`, id).
		Scan(&a.ID, &a.AdmissionID, &a.NurseID, &a.AssignedAt)
	if db.IsNoRows(err) {
		return nil, apperr.NotFound("nurse assignment %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM nurse_assignment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("nurse assignment %s not found", id)
	}
	return nil
}

func (r *repoPG) ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]*NurseAssignment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, admission_id, nurse_id, assigned_at
		FROM nurse_assignment WHERE admission_id = $1 ORDER BY assigned_at`, admissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*NurseAssignment
	for rows.Next() {
		var a NurseAssignment
		if err := rows.Scan(&a.ID, &a.AdmissionID, &a.NurseID, &a.AssignedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, &a)
	}
	return assignments, rows.Err()
}

func (r *repoPG) ExistsPair(ctx context.Context, admissionID, nurseID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM nurse_assignment WHERE admission_id = $1 AND nurse_id = $2)`,
		admissionID, nurseID).Scan(&exists)
	return exists, err
}
