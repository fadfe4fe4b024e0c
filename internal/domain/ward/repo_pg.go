package ward

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

// -- Floors --

func (r *repoPG) CreateFloor(ctx context.Context, f *Floor) error {
	f.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO floor (id, name, level) VALUES ($1,$2,$3)`, f.ID, f.Name, f.Level)
	return err
}

func (r *repoPG) GetFloor(ctx context.Context, id uuid.UUID) (*Floor, error) {
	var f Floor
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, level, created_at, updated_at FROM floor WHERE id = $1`, id).
		Scan(&f.ID, &f.Name, &f.Level, &f.CreatedAt, &f.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, apperr.NotFound("floor %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repoPG) ListFloors(ctx context.Context, limit, offset int) ([]*Floor, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM floor`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, name, level, created_at, updated_at FROM floor ORDER BY level LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var floors []*Floor
	for rows.Next() {
		var f Floor
		if err := rows.Scan(&f.ID, &f.Name, &f.Level, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, 0, err
		}
		floors = append(floors, &f)
	}
	return floors, total, rows.Err()
}

func (r *repoPG) DeleteFloor(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM floor WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("floor %s not found", id)
	}
	return nil
}

// -- Rooms --

func (r *repoPG) CreateRoom(ctx context.Context, rm *Room) error {
	rm.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO room (id, floor_id, number) VALUES ($1,$2,$3)`, rm.ID, rm.FloorID, rm.Number)
	return err
}

func (r *repoPG) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	var rm Room
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, floor_id, number, created_at, updated_at FROM room WHERE id = $1`, id).
		Scan(&rm.ID, &rm.FloorID, &rm.Number, &rm.CreatedAt, &rm.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, apperr.NotFound("room %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func (r *repoPG) ListRoomsByFloor(ctx context.Context, floorID uuid.UUID, limit, offset int) ([]*Room, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM room WHERE floor_id = $1`, floorID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, floor_id, number, created_at, updated_at FROM room WHERE floor_id = $1 ORDER BY number LIMIT $2 OFFSET $3`,
		floorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rooms []*Room
	for rows.Next() {
		var rm Room
		if err := rows.Scan(&rm.ID, &rm.FloorID, &rm.Number, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, 0, err
		}
		rooms = append(rooms, &rm)
	}
	return rooms, total, rows.Err()
}

func (r *repoPG) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM room WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("room %s not found", id)
	}
	return nil
}

// -- Beds --

const bedCols = `id, room_id, label, occupied, created_at, updated_at`

func (r *repoPG) CreateBed(ctx context.Context, b *Bed) error {
	b.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO bed (id, room_id, label, occupied) VALUES ($1,$2,$3,false)`, b.ID, b.RoomID, b.Label)
	return err
}

func (r *repoPG) GetBed(ctx context.Context, id uuid.UUID) (*Bed, error) {
	var b Bed
	err := r.conn(ctx).QueryRow(ctx, `SELECT `+bedCols+` FROM bed WHERE id = $1`, id).
		Scan(&b.ID, &b.RoomID, &b.Label, &b.Occupied, &b.CreatedAt, &b.UpdatedAt)
	if db.IsNoRows(err) {
		return nil, apperr.NotFound("bed %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repoPG) ListBedsByRoom(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*Bed, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM bed WHERE room_id = $1`, roomID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+bedCols+` FROM bed WHERE room_id = $1 ORDER BY label LIMIT $2 OFFSET $3`, roomID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectBeds(rows, total)
}

func (r *repoPG) ListFreeBeds(ctx context.Context, limit, offset int) ([]*Bed, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM bed WHERE NOT occupied`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+bedCols+` FROM bed WHERE NOT occupied ORDER BY label LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectBeds(rows, total)
}

func (r *repoPG) UpdateOccupancy(ctx context.Context, id uuid.UUID, occupied bool) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE bed SET occupied = $2, updated_at = NOW() WHERE id = $1`, id, occupied)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("bed %s not found", id)
	}
	return nil
}

func (r *repoPG) DeleteBed(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM bed WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("bed %s not found", id)
	}
	return nil
}

func collectBeds(rows pgx.Rows, total int) ([]*Bed, int, error) {
	var beds []*Bed
	for rows.Next() {
		var b Bed
		if err := rows.Scan(&b.ID, &b.RoomID, &b.Label, &b.Occupied, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		beds = append(beds, &b)
	}
	return beds, total, rows.Err()
}
