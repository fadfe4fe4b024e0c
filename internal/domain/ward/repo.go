package ward

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateFloor(ctx context.Context, f *Floor) error
	GetFloor(ctx context.Context, id uuid.UUID) (*Floor, error)
	ListFloors(ctx context.Context, limit, offset int) ([]*Floor, int, error)
	DeleteFloor(ctx context.Context, id uuid.UUID) error

	CreateRoom(ctx context.Context, r *Room) error
	GetRoom(ctx context.Context, id uuid.UUID) (*Room, error)
	ListRoomsByFloor(ctx context.Context, floorID uuid.UUID, limit, offset int) ([]*Room, int, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error

	CreateBed(ctx context.Context, b *Bed) error
	GetBed(ctx context.Context, id uuid.UUID) (*Bed, error)
	ListBedsByRoom(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*Bed, int, error)
	ListFreeBeds(ctx context.Context, limit, offset int) ([]*Bed, int, error)
	UpdateOccupancy(ctx context.Context, id uuid.UUID, occupied bool) error
	DeleteBed(ctx context.Context, id uuid.UUID) error
}
