package ward

import (
	"time"

	"github.com/google/uuid"
)

// Floor is the top of the ward hierarchy: floor -> room -> bed.
type Floor struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Level     int       `db:"level" json:"level"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Room struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FloorID   uuid.UUID `db:"floor_id" json:"floor_id"`
	Number    string    `db:"number" json:"number"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Bed carries the occupancy flag the admission ledger relies on. The flag
// is mutated only through Service.SetOccupancy.
type Bed struct {
	ID        uuid.UUID `db:"id" json:"id"`
	RoomID    uuid.UUID `db:"room_id" json:"room_id"`
	Label     string    `db:"label" json:"label"`
	Occupied  bool      `db:"occupied" json:"occupied"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
