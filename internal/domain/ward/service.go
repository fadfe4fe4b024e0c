package ward

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hospitalos/hospital/internal/platform/apperr"
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) CreateFloor(ctx context.Context, f *Floor) error {
	if f.Name == "" {
		return apperr.InvalidArgument("floor name is required")
	}
	return s.repo.CreateFloor(ctx, f)
}

func (s *Service) GetFloor(ctx context.Context, id uuid.UUID) (*Floor, error) {
	return s.repo.GetFloor(ctx, id)
}

func (s *Service) ListFloors(ctx context.Context, limit, offset int) ([]*Floor, int, error) {
	return s.repo.ListFloors(ctx, limit, offset)
}

func (s *Service) DeleteFloor(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteFloor(ctx, id)
}

func (s *Service) CreateRoom(ctx context.Context, r *Room) error {
	if r.Number == "" {
		return apperr.InvalidArgument("room number is required")
	}
	if _, err := s.repo.GetFloor(ctx, r.FloorID); err != nil {
		return err
	}
	return s.repo.CreateRoom(ctx, r)
}

func (s *Service) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	return s.repo.GetRoom(ctx, id)
}

func (s *Service) ListRoomsByFloor(ctx context.Context, floorID uuid.UUID, limit, offset int) ([]*Room, int, error) {
	return s.repo.ListRoomsByFloor(ctx, floorID, limit, offset)
}

func (s *Service) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRoom(ctx, id)
}

func (s *Service) CreateBed(ctx context.Context, b *Bed) error {
	if b.Label == "" {
		return apperr.InvalidArgument("bed label is required")
	}
	if _, err := s.repo.GetRoom(ctx, b.RoomID); err != nil {
		return err
	}
	return s.repo.CreateBed(ctx, b)
}

func (s *Service) GetBed(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return s.repo.GetBed(ctx, id)
}

func (s *Service) ListBedsByRoom(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*Bed, int, error) {
	return s.repo.ListBedsByRoom(ctx, roomID, limit, offset)
}

func (s *Service) ListFreeBeds(ctx context.Context, limit, offset int) ([]*Bed, int, error) {
	return s.repo.ListFreeBeds(ctx, limit, offset)
}

func (s *Service) DeleteBed(ctx context.Context, id uuid.UUID) error {
	bed, err := s.repo.GetBed(ctx, id)
	if err != nil {
		return err
	}
	if bed.Occupied {
		return apperr.Conflict("bed %s is occupied", id)
	}
	return s.repo.DeleteBed(ctx, id)
}

// SetOccupancy flips the bed occupancy flag. Setting the flag to its
// current value is a no-op and is logged as a warning, not an error, so
// the admission ledger stays idempotent under retries.
func (s *Service) SetOccupancy(ctx context.Context, bedID uuid.UUID, occupied bool) (*Bed, error) {
	bed, err := s.repo.GetBed(ctx, bedID)
	if err != nil {
		return nil, err
	}
	if bed.Occupied == occupied {
		s.log.Warn().
			Str("bed_id", bedID.String()).
			Bool("occupied", occupied).
			Msg("bed occupancy already in requested state")
		return bed, nil
	}
	if err := s.repo.UpdateOccupancy(ctx, bedID, occupied); err != nil {
		return nil, err
	}
	bed.Occupied = occupied
	return bed, nil
}
